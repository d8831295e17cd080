package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempowise/internal/model"
	"tempowise/internal/timer"
)

type phaseRecorder struct {
	mu      sync.Mutex
	changes []timer.PhaseChange
}

func (r *phaseRecorder) PomodoroPhaseChanged(_ model.User, change timer.PhaseChange, _ timer.PomodoroSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
}

func newPomodoroService(ticker *fakeTicker) (*PomodoroService, *phaseRecorder) {
	svc := NewPomodoroService(ticker, zerolog.Nop())
	rec := &phaseRecorder{}
	svc.SetNotifier(rec)
	return svc, rec
}

func TestPomodoroService_ToggleTicksOnlyWhileRunning(t *testing.T) {
	ticker := newFakeTicker()
	svc, _ := newPomodoroService(ticker)
	user := &model.User{ID: "u1", TelegramID: 1}

	snap, err := svc.Toggle(user)
	require.NoError(t, err)
	assert.True(t, snap.Running)
	assert.Equal(t, 1, ticker.active())

	ticker.fire(100)
	assert.Equal(t, int64(timer.PomodoroWorkSeconds-100), svc.Status(user).Remaining)

	snap, err = svc.Toggle(user)
	require.NoError(t, err)
	assert.False(t, snap.Running)
	assert.Equal(t, 0, ticker.active())
}

func TestPomodoroService_PhaseChangeNotifies(t *testing.T) {
	ticker := newFakeTicker()
	svc, rec := newPomodoroService(ticker)
	user := &model.User{ID: "u1", TelegramID: 1}

	_, err := svc.Toggle(user)
	require.NoError(t, err)
	ticker.fire(timer.PomodoroWorkSeconds + 10)

	require.Len(t, rec.changes, 1)
	assert.Equal(t, timer.PhaseChange{From: timer.PhaseWork, To: timer.PhaseBreak}, rec.changes[0])
	snap := svc.Status(user)
	assert.Equal(t, timer.PhaseBreak, snap.Phase)
	assert.False(t, snap.Running)
	assert.Equal(t, 0, ticker.active())
}

func TestPomodoroService_Reset(t *testing.T) {
	ticker := newFakeTicker()
	svc, _ := newPomodoroService(ticker)
	user := &model.User{ID: "u1", TelegramID: 1}

	assert.Equal(t, int64(timer.PomodoroWorkSeconds), svc.Reset(user).Remaining)

	_, err := svc.Toggle(user)
	require.NoError(t, err)
	ticker.fire(30)

	snap := svc.Reset(user)
	assert.Equal(t, timer.PomodoroSnapshot{Phase: timer.PhaseWork, Remaining: timer.PomodoroWorkSeconds}, snap)
	assert.Equal(t, 0, ticker.active())

	// A tick from the cancelled job arriving late changes nothing.
	ticker.registered[0]()
	assert.Equal(t, int64(timer.PomodoroWorkSeconds), svc.Status(user).Remaining)
}

func TestPomodoroService_TickerFailure(t *testing.T) {
	ticker := newFakeTicker()
	ticker.err = errors.New("scheduler down")
	svc, _ := newPomodoroService(ticker)
	user := &model.User{ID: "u1", TelegramID: 1}

	_, err := svc.Toggle(user)
	require.Error(t, err)
	assert.False(t, svc.Status(user).Running)
}

func TestPomodoroService_StopAll(t *testing.T) {
	ticker := newFakeTicker()
	svc, _ := newPomodoroService(ticker)

	_, err := svc.Toggle(&model.User{ID: "a"})
	require.NoError(t, err)
	_, err = svc.Toggle(&model.User{ID: "b"})
	require.NoError(t, err)

	assert.Equal(t, 2, svc.StopAll())
	assert.Equal(t, 0, ticker.active())
	assert.False(t, svc.Status(&model.User{ID: "a"}).Running)
}
