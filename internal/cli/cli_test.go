package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempowise/internal/model"
	"tempowise/internal/repository"
	"tempowise/internal/stats"
)

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["bot"])
	assert.True(t, names["stats"])
	assert.True(t, names["seed"])
}

func TestPrintSummary(t *testing.T) {
	now := time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC)
	categories := []model.Category{{ID: "w", Name: "Work"}, {ID: "g", Name: "Gym"}}
	activities := []model.Activity{
		{CategoryID: "w", StartTime: time.Date(2024, 5, 8, 9, 0, 0, 0, time.UTC), Duration: 7200},
	}
	summary := stats.Aggregate(activities, categories, stats.PeriodDay, now)

	var buf bytes.Buffer
	printSummary(&buf, &model.User{Username: "ada"}, summary)
	out := buf.String()
	assert.Contains(t, out, "Stats for @ada, day since 2024-05-08")
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "08:00")

	buf.Reset()
	printSummary(&buf, &model.User{TelegramID: 5}, stats.Aggregate(nil, nil, stats.PeriodWeek, now))
	assert.Contains(t, buf.String(), "user 5")
	assert.Contains(t, buf.String(), "No data.")
}

func TestFindOrCreateUser(t *testing.T) {
	db, err := repository.NewDB("file:cli_users?mode=memory&cache=shared", zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	users := repository.NewUserRepository(db)
	ctx := context.Background()

	created, err := findOrCreateUser(ctx, users, 42)
	require.NoError(t, err)
	again, err := findOrCreateUser(ctx, users, 42)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}
