package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tempowise/internal/model"
	"tempowise/internal/repository"
	"tempowise/internal/timer"
)

type testEnv struct {
	db         *gorm.DB
	users      *repository.UserRepository
	categories *repository.CategoryRepository
	activities *repository.ActivityRepository
	goals      *repository.GoalRepository
	energy     *repository.EnergyRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name), zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &testEnv{
		db:         db,
		users:      repository.NewUserRepository(db),
		categories: repository.NewCategoryRepository(db),
		activities: repository.NewActivityRepository(db),
		goals:      repository.NewGoalRepository(db),
		energy:     repository.NewEnergyRepository(db),
	}
}

func (e *testEnv) user(t *testing.T, telegramID int64) *model.User {
	t.Helper()
	u, err := e.users.UpsertFromTelegram(context.Background(), telegramID, "Grace", "Hopper", "grace")
	require.NoError(t, err)
	return u
}

func (e *testEnv) category(t *testing.T, user *model.User, name string) *model.Category {
	t.Helper()
	c := model.Category{UserID: user.ID, Name: name, Color: "#000000"}
	require.NoError(t, e.categories.Create(context.Background(), &c))
	return &c
}

func (e *testEnv) activity(t *testing.T, user *model.User, categoryID string, start time.Time, seconds int64) {
	t.Helper()
	a := model.Activity{
		UserID:      user.ID,
		Description: "work",
		CategoryID:  categoryID,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(seconds) * time.Second),
		Duration:    seconds,
	}
	require.NoError(t, e.activities.Create(context.Background(), &a))
}

// fakeTicker runs registered callbacks only when fire is called.
type fakeTicker struct {
	mu   sync.Mutex
	next int
	jobs map[int]func()
	err  error
	// registered keeps every callback ever scheduled, cancelled ones included.
	registered []func()
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{jobs: make(map[int]func())}
}

func (f *fakeTicker) Every(_ time.Duration, fn func()) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.next++
	id := f.next
	f.jobs[id] = fn
	f.registered = append(f.registered, fn)
	return func() {
		f.mu.Lock()
		delete(f.jobs, id)
		f.mu.Unlock()
	}, nil
}

func (f *fakeTicker) fire(n int) {
	for i := 0; i < n; i++ {
		f.mu.Lock()
		jobs := make([]func(), 0, len(f.jobs))
		for _, fn := range f.jobs {
			jobs = append(jobs, fn)
		}
		f.mu.Unlock()
		for _, fn := range jobs {
			fn()
		}
	}
}

func (f *fakeTicker) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

type recordingNotifier struct {
	mu        sync.Mutex
	intervals []timer.Snapshot
	completed []model.Activity
	errs      []error
}

func (n *recordingNotifier) TimerInterval(_ model.User, snap timer.Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.intervals = append(n.intervals, snap)
}

func (n *recordingNotifier) TimerCompleted(_ model.User, activity model.Activity, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, activity)
	n.errs = append(n.errs, err)
}
