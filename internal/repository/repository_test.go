package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tempowise/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, telegramID int64) *model.User {
	t.Helper()
	user, err := NewUserRepository(db).UpsertFromTelegram(context.Background(), telegramID, "Ada", "Lovelace", "ada")
	require.NoError(t, err)
	return user
}

func TestUserRepository_Upsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.UpsertFromTelegram(ctx, 100, "Ada", "", "ada")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	updated, err := repo.UpsertFromTelegram(ctx, 100, "Ada", "Lovelace", "ada_l")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	found, err := repo.FindByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "ada_l", found.Username)
	assert.False(t, found.Seeded)

	require.NoError(t, repo.MarkSeeded(ctx, found))
	found, err = repo.FindByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.True(t, found.Seeded)

	_, err = repo.FindByTelegramID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCategoryRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, 1)
	other := newTestUser(t, db, 2)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	cat := &model.Category{UserID: user.ID, Name: "Work", Color: "#ff0000"}
	require.NoError(t, repo.Create(ctx, cat))
	require.NotEmpty(t, cat.ID)

	updated, err := repo.Update(ctx, user.ID, cat.ID, "Deep work", "#00ff00")
	require.NoError(t, err)
	assert.Equal(t, "Deep work", updated.Name)
	assert.Equal(t, "#00ff00", updated.Color)

	_, err = repo.Update(ctx, other.ID, cat.ID, "stolen", "#000000")
	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, OpUpdate, opErr.Op)
	assert.Equal(t, "users/"+other.ID+"/categories/"+cat.ID, opErr.Path)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.ErrorIs(t, repo.Delete(ctx, other.ID, cat.ID), ErrNotFound)
	require.NoError(t, repo.Delete(ctx, user.ID, cat.ID))
	_, err = repo.GetByID(ctx, user.ID, cat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActivityRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, 1)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	start := time.Date(2024, 7, 21, 9, 0, 0, 0, time.UTC)
	activity := &model.Activity{
		UserID:      user.ID,
		Description: "Developed new feature",
		CategoryID:  "cat-1",
		Tags:        []string{"coding", "project-x"},
		StartTime:   start,
		EndTime:     start.Add(150 * time.Minute),
		Duration:    9000,
	}
	require.NoError(t, repo.Create(ctx, activity))
	require.NotEmpty(t, activity.ID)

	older := &model.Activity{UserID: user.ID, Description: "Run", CategoryID: "cat-2", StartTime: start.Add(-48 * time.Hour), EndTime: start.Add(-47 * time.Hour), Duration: 3600}
	require.NoError(t, repo.Create(ctx, older))

	list, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, activity.ID, list[0].ID)
	assert.Equal(t, []string{"coding", "project-x"}, list[0].Tags)

	recent, err := repo.ListSince(ctx, user.ID, start.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, recent, 1)

	activity.Description = "Reviewed feature"
	activity.Tags = []string{"review"}
	require.NoError(t, repo.Update(ctx, activity))
	list, err = repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reviewed feature", list[0].Description)
	assert.Equal(t, []string{"review"}, list[0].Tags)

	missing := &model.Activity{ID: "nope", UserID: user.ID}
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, user.ID, older.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID, older.ID), ErrNotFound)
}

func TestGoalAndEnergyRepositories(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, 1)
	ctx := context.Background()

	goals := NewGoalRepository(db)
	goal := &model.Goal{UserID: user.ID, Name: "Stay active", CategoryID: "cat-3", TargetHours: 5}
	require.NoError(t, goals.Create(ctx, goal))
	list, err := goals.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.InDelta(t, 5.0, list[0].TargetHours, 1e-9)
	require.NoError(t, goals.Delete(ctx, user.ID, goal.ID))
	assert.ErrorIs(t, goals.Delete(ctx, user.ID, goal.ID), ErrNotFound)

	energy := NewEnergyRepository(db)
	day := time.Date(2024, 7, 21, 0, 0, 0, 0, time.UTC)
	require.NoError(t, energy.Create(ctx, &model.EnergyLog{UserID: user.ID, Date: day.AddDate(0, 0, -10), Level: 2, Motivation: 2}))
	require.NoError(t, energy.Create(ctx, &model.EnergyLog{UserID: user.ID, Date: day, Level: 4, Motivation: 3}))
	entries, err := energy.ListSince(ctx, user.ID, day.AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries[0].Level)
}

func TestOpError_Message(t *testing.T) {
	err := opError(OpDelete, documentPath("u1", collActivities, "a1"), gorm.ErrRecordNotFound)
	assert.Equal(t, "delete users/u1/activities/a1: document not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
}
