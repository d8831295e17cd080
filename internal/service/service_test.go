package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempowise/internal/insight"
	"tempowise/internal/repository"
	"tempowise/internal/stats"
)

func TestCategoryService_SeedDefaultsOnce(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, 1)
	svc := NewCategoryService(env.categories, env.users)
	ctx := context.Background()

	seeded, err := svc.SeedDefaults(ctx, user)
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.True(t, user.Seeded)

	seeded, err = svc.SeedDefaults(ctx, user)
	require.NoError(t, err)
	assert.False(t, seeded)

	list, err := svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, len(DefaultCategories))
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Work", "Study", "Exercise", "Leisure", "Other"}, names)
}

func TestCategoryService_CreateUpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, 1)
	svc := NewCategoryService(env.categories, env.users)
	ctx := context.Background()

	created, err := svc.Create(ctx, user, "  Reading ", "")
	require.NoError(t, err)
	assert.Equal(t, "Reading", created.Name)
	assert.Contains(t, Palette, created.Color)

	updated, err := svc.Update(ctx, user, created.ID, "Books", "")
	require.NoError(t, err)
	assert.Equal(t, "Books", updated.Name)
	assert.Equal(t, created.Color, updated.Color)

	updated, err = svc.Update(ctx, user, created.ID, "Books", "#ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, "#abcdef", updated.Color)

	_, err = svc.Create(ctx, user, "", "")
	assert.True(t, IsValidation(err))
	_, err = svc.Create(ctx, user, "Bad", "red")
	assert.True(t, IsValidation(err))

	require.NoError(t, svc.Delete(ctx, user, created.ID))
	err = svc.Delete(ctx, user, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestActivityService_Log(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, 1)
	cat := env.category(t, user, "Work")
	svc := NewActivityService(env.activities, env.categories)
	ctx := context.Background()
	start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input ActivityInput
		field string
	}{
		{"short description", ActivityInput{Description: "x", CategoryID: cat.ID, Start: start, End: start.Add(time.Hour)}, "description"},
		{"no category", ActivityInput{Description: "Write", Start: start, End: start.Add(time.Hour)}, "category"},
		{"unknown category", ActivityInput{Description: "Write", CategoryID: "nope", Start: start, End: start.Add(time.Hour)}, "category"},
		{"end before start", ActivityInput{Description: "Write", CategoryID: cat.ID, Start: start, End: start.Add(-time.Minute)}, "time"},
		{"end equals start", ActivityInput{Description: "Write", CategoryID: cat.ID, Start: start, End: start}, "time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Log(ctx, user, tt.input)
			var v *ValidationError
			require.True(t, errors.As(err, &v))
			assert.Equal(t, tt.field, v.Field)
		})
	}

	activity, err := svc.Log(ctx, user, ActivityInput{
		Description: "  Write docs ",
		CategoryID:  cat.ID,
		Tags:        []string{"docs", "docs"},
		Start:       start,
		End:         start.Add(90*time.Minute + 30*time.Second),
	})
	require.NoError(t, err)
	assert.Equal(t, "Write docs", activity.Description)
	assert.Equal(t, int64(5430), activity.Duration)
	assert.Equal(t, []string{"docs"}, activity.Tags)

	recent, err := svc.Recent(ctx, user, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	updated, err := svc.Update(ctx, user, activity.ID, ActivityInput{
		Description: "Write docs",
		CategoryID:  cat.ID,
		Start:       start,
		End:         start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), updated.Duration)

	require.NoError(t, svc.Delete(ctx, user, activity.ID))
	_, err = svc.Update(ctx, user, activity.ID, ActivityInput{Description: "Write docs", CategoryID: cat.ID, Start: start, End: start.Add(time.Hour)})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGoalService(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, 1)
	work := env.category(t, user, "Work")
	gym := env.category(t, user, "Gym")
	svc := NewGoalService(env.goals, env.categories, env.activities)
	ctx := context.Background()
	start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, user, GoalInput{Name: "Ship", CategoryID: work.ID, TargetHours: 0})
	assert.True(t, IsValidation(err))
	_, err = svc.Create(ctx, user, GoalInput{Name: "", CategoryID: work.ID, TargetHours: 2})
	assert.True(t, IsValidation(err))
	_, err = svc.Create(ctx, user, GoalInput{Name: "Ship", CategoryID: "missing", TargetHours: 2})
	assert.True(t, IsValidation(err))

	empty, err := svc.List(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, empty)

	goal, err := svc.Create(ctx, user, GoalInput{Name: "Ship", CategoryID: work.ID, TargetHours: 2})
	require.NoError(t, err)

	env.activity(t, user, work.ID, start, 5400)
	env.activity(t, user, gym.ID, start, 3600)

	list, err := svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.InDelta(t, 1.5, list[0].CurrentHours, 1e-9)
	assert.InDelta(t, 75.0, list[0].ProgressPercent, 1e-9)

	require.NoError(t, svc.Delete(ctx, user, goal.ID))
	assert.ErrorIs(t, svc.Delete(ctx, user, goal.ID), repository.ErrNotFound)
}

func TestStatsService_Summary(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, 1)
	work := env.category(t, user, "Work")
	env.category(t, user, "Gym")
	svc := NewStatsService(env.activities, env.categories)
	now := time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC) // Wednesday

	env.activity(t, user, work.ID, time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC), 12600)
	env.activity(t, user, work.ID, time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC), 36000)

	summary, err := svc.Summary(context.Background(), user, stats.PeriodWeek, now)
	require.NoError(t, err)
	require.Len(t, summary.TimeByCategory, 2)
	assert.Equal(t, int64(4), summary.TimeByCategory[0].Hours)
	assert.Equal(t, int64(0), summary.TimeByCategory[1].Hours)
	require.Len(t, summary.CategoryDistribution, 1)
	assert.Equal(t, 100.0, summary.CategoryDistribution[0].Percent)
}

func TestEnergyService_Record(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, 1)
	svc := NewEnergyService(env.energy)
	ctx := context.Background()
	now := time.Date(2024, 5, 8, 15, 4, 0, 0, time.UTC)

	_, err := svc.Record(ctx, user, 0, 3, now)
	assert.True(t, IsValidation(err))
	_, err = svc.Record(ctx, user, 3, 6, now)
	assert.True(t, IsValidation(err))

	entry, err := svc.Record(ctx, user, 4, 5, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC), entry.Date)

	logs, err := svc.Since(ctx, user, now.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 4, logs[0].Level)
}

type fixedGenerator struct {
	text string
	err  error
	logs string
}

func (g *fixedGenerator) SuggestTags(context.Context, string) ([]string, error) {
	return []string{"focus"}, g.err
}

func (g *fixedGenerator) GenerateInsights(_ context.Context, logs, _ string) (string, error) {
	g.logs = logs
	return g.text, g.err
}

func TestInsightService(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, 1)
	work := env.category(t, user, "Work")
	now := time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC)
	env.activity(t, user, work.ID, now.Add(-2*time.Hour), 3600)

	gen := &fixedGenerator{text: "Mornings are your peak."}
	svc := NewInsightService(insight.NewService(gen, time.Second, zerolog.Nop()), env.activities, env.categories, env.energy)

	text, err := svc.Insights(context.Background(), user, now)
	require.NoError(t, err)
	assert.Equal(t, "Mornings are your peak.", text)
	assert.Contains(t, gen.logs, `"category":"Work"`)
	assert.Contains(t, gen.logs, `"durationMinutes":60`)
	assert.Equal(t, []string{"focus"}, svc.SuggestTags(context.Background(), "deep work"))

	gen.err = errors.New("quota")
	text, err = svc.Insights(context.Background(), user, now)
	require.NoError(t, err)
	assert.Equal(t, insight.FallbackFailed, text)
	assert.Equal(t, []string{}, svc.SuggestTags(context.Background(), "deep work"))
}

func TestReportService_DailySummary(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, 1)
	work := env.category(t, user, "Work")
	goals := NewGoalService(env.goals, env.categories, env.activities)
	svc := NewReportService(env.activities, env.categories, goals)
	ctx := context.Background()
	now := time.Date(2024, 5, 8, 18, 0, 0, 0, time.UTC)

	text, err := svc.DailySummary(ctx, user, now)
	require.NoError(t, err)
	assert.Contains(t, text, "nothing logged yet")
	assert.Contains(t, text, "no goals set")

	_, err = goals.Create(ctx, user, GoalInput{Name: "Deep <work>", CategoryID: work.ID, TargetHours: 4})
	require.NoError(t, err)
	env.activity(t, user, work.ID, time.Date(2024, 5, 8, 9, 0, 0, 0, time.UTC), 7200)
	env.activity(t, user, "deleted", time.Date(2024, 5, 8, 11, 0, 0, 0, time.UTC), 1800)
	env.activity(t, user, work.ID, time.Date(2024, 5, 7, 9, 0, 0, 0, time.UTC), 3600)

	text, err = svc.DailySummary(ctx, user, now)
	require.NoError(t, err)
	assert.Contains(t, text, "Work: 2h 0m")
	assert.Contains(t, text, "Uncategorized: 30m")
	assert.Contains(t, text, "Total: <b>2h 30m</b>")
	assert.Contains(t, text, "Deep &lt;work&gt;")
	assert.Contains(t, text, "3.0/4h (75%)")
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "▱▱▱▱▱▱▱▱▱▱", ProgressBar(0, 10))
	assert.Equal(t, "▰▰▰▰▰▱▱▱▱▱", ProgressBar(50, 10))
	assert.Equal(t, "▰▰▰▰▰▰▰▰▰▰", ProgressBar(250, 10))
}

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("09:30")
	require.NoError(t, err)
	assert.Equal(t, "0 30 9 * * *", spec)

	for _, bad := range []string{"", "9", "24:00", "12:60", "ab:cd"} {
		_, err := buildDailySpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestSchedulerService_EveryCancel(t *testing.T) {
	s := NewSchedulerService(time.UTC, zerolog.Nop())
	cancel, err := s.Every(time.Second, func() {})
	require.NoError(t, err)
	_, err = s.ScheduleDaily("08:00", func() {})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Jobs())

	cancel()
	assert.Equal(t, 1, s.Jobs())

	_, err = s.ScheduleInterval(0, func() {})
	assert.Error(t, err)
}
