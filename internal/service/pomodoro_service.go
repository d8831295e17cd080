package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tempowise/internal/metrics"
	"tempowise/internal/model"
	"tempowise/internal/timer"
)

// PomodoroNotifier is told when a work or break phase runs out.
type PomodoroNotifier interface {
	PomodoroPhaseChanged(user model.User, change timer.PhaseChange, snapshot timer.PomodoroSnapshot)
}

type pomodoroSession struct {
	user   model.User
	clock  *timer.Pomodoro
	cancel func()
	gen    uint64
}

// PomodoroService keeps one pomodoro countdown per user. It ticks only
// while the countdown runs.
type PomodoroService struct {
	ticker timer.Ticker
	log    zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*pomodoroSession
	notifier PomodoroNotifier
	lastGen  uint64
}

func NewPomodoroService(ticker timer.Ticker, log zerolog.Logger) *PomodoroService {
	return &PomodoroService{
		ticker:   ticker,
		log:      log,
		sessions: make(map[string]*pomodoroSession),
	}
}

func (s *PomodoroService) SetNotifier(n PomodoroNotifier) {
	s.mu.Lock()
	s.notifier = n
	s.mu.Unlock()
}

// Toggle starts a paused countdown or pauses a running one.
func (s *PomodoroService) Toggle(user *model.User) (timer.PomodoroSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[user.ID]
	if !ok {
		sess = &pomodoroSession{clock: timer.NewPomodoro()}
		s.sessions[user.ID] = sess
	}
	sess.user = *user

	if !sess.clock.Toggle() {
		s.haltLocked(sess)
		return sess.clock.Snapshot(), nil
	}

	s.lastGen++
	userID, gen := user.ID, s.lastGen
	cancel, err := s.ticker.Every(time.Second, func() { s.tick(userID, gen) })
	if err != nil {
		sess.clock.Toggle()
		return sess.clock.Snapshot(), err
	}
	sess.cancel = cancel
	sess.gen = gen

	snap := sess.clock.Snapshot()
	s.log.Info().Str("user", user.ID).Str("phase", snap.Phase.String()).Msg("pomodoro running")
	return snap, nil
}

// Reset pauses the countdown and loads a fresh work phase.
func (s *PomodoroService) Reset(user *model.User) timer.PomodoroSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[user.ID]
	if !ok {
		return timer.NewPomodoro().Snapshot()
	}
	s.haltLocked(sess)
	sess.clock.Reset()
	return sess.clock.Snapshot()
}

func (s *PomodoroService) Status(user *model.User) timer.PomodoroSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[user.ID]; ok {
		return sess.clock.Snapshot()
	}
	return timer.NewPomodoro().Snapshot()
}

// StopAll cancels every running countdown and returns how many there were.
func (s *PomodoroService) StopAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	stopped := 0
	for _, sess := range s.sessions {
		if sess.cancel != nil {
			stopped++
		}
		s.haltLocked(sess)
		if sess.clock.Snapshot().Running {
			sess.clock.Toggle()
		}
	}
	return stopped
}

func (s *PomodoroService) tick(userID string, gen uint64) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok || sess.gen != gen {
		s.mu.Unlock()
		return
	}
	change := sess.clock.Tick()
	if change == nil {
		s.mu.Unlock()
		return
	}
	s.haltLocked(sess)
	snap := sess.clock.Snapshot()
	user := sess.user
	notifier := s.notifier
	s.mu.Unlock()

	metrics.TimerEvents.WithLabelValues("phase").Inc()
	s.log.Info().Str("user", userID).Str("from", change.From.String()).Str("to", change.To.String()).Msg("pomodoro phase over")
	if notifier != nil {
		notifier.PomodoroPhaseChanged(user, *change, snap)
	}
}

// haltLocked cancels ticking; the countdown itself is left as is.
func (s *PomodoroService) haltLocked(sess *pomodoroSession) {
	if sess.cancel != nil {
		sess.cancel()
		sess.cancel = nil
	}
	sess.gen = 0
}
