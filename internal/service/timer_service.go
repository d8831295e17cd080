package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tempowise/internal/metrics"
	"tempowise/internal/model"
	"tempowise/internal/repository"
	"tempowise/internal/timer"
)

// ErrNoSession is returned when a timer command needs an active session.
var ErrNoSession = errors.New("no active timer session")

const persistTimeout = 10 * time.Second

// TimerNotifier receives events raised by background ticks.
type TimerNotifier interface {
	TimerInterval(user model.User, snapshot timer.Snapshot)
	// TimerCompleted is called after an auto-stopped session was persisted.
	// err is the persistence error, if any.
	TimerCompleted(user model.User, activity model.Activity, err error)
}

type timerSession struct {
	user   model.User
	engine *timer.Engine
	cancel func()
	// gen identifies the ticker of the current run; 0 when not ticking.
	gen uint64
}

// TimerService keeps one timer engine per user and drives it once per second.
type TimerService struct {
	activities   *ActivityService
	categoryRepo *repository.CategoryRepository
	ticker       timer.Ticker
	clock        timer.Clock
	log          zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*timerSession
	notifier TimerNotifier
	lastGen  uint64
}

func NewTimerService(activities *ActivityService, categoryRepo *repository.CategoryRepository, ticker timer.Ticker, clock timer.Clock, log zerolog.Logger) *TimerService {
	if clock == nil {
		clock = timer.SystemClock
	}
	return &TimerService{
		activities:   activities,
		categoryRepo: categoryRepo,
		ticker:       ticker,
		clock:        clock,
		log:          log,
		sessions:     make(map[string]*timerSession),
	}
}

// SetNotifier registers the receiver of interval and completion events.
func (s *TimerService) SetNotifier(n TimerNotifier) {
	s.mu.Lock()
	s.notifier = n
	s.mu.Unlock()
}

// Start begins timing description under categoryID.
func (s *TimerService) Start(ctx context.Context, user *model.User, description, categoryID string) (timer.Snapshot, error) {
	if categoryID != "" {
		if _, err := s.categoryRepo.GetByID(ctx, user.ID, categoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return timer.Snapshot{}, invalid("category", "category does not exist")
			}
			return timer.Snapshot{}, storeErr(err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionLocked(user)
	if err := sess.engine.Start(description, categoryID); err != nil {
		return sess.engine.Snapshot(), engineErr(err)
	}

	s.lastGen++
	userID, gen := user.ID, s.lastGen
	cancel, err := s.ticker.Every(time.Second, func() { s.tick(userID, gen) })
	if err != nil {
		sess.engine.Reset()
		return sess.engine.Snapshot(), err
	}
	sess.cancel = cancel
	sess.gen = gen
	metrics.ActiveSessions.Inc()

	s.log.Info().Str("user", user.ID).Str("category", categoryID).Msg("timer started")
	return sess.engine.Snapshot(), nil
}

func (s *TimerService) Pause(user *model.User) (timer.Snapshot, error) {
	return s.withSession(user, func(e *timer.Engine) error { return e.Pause() })
}

func (s *TimerService) Resume(user *model.User) (timer.Snapshot, error) {
	return s.withSession(user, func(e *timer.Engine) error { return e.Resume() })
}

// AddTags merges tags into the running session.
func (s *TimerService) AddTags(user *model.User, tags ...string) (timer.Snapshot, error) {
	return s.withSession(user, func(e *timer.Engine) error {
		e.AddTags(tags...)
		return nil
	})
}

// SetTarget sets the auto-stop duration. It works before a session starts too.
func (s *TimerService) SetTarget(user *model.User, seconds int64) (timer.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionLocked(user)
	if err := sess.engine.SetTarget(seconds); err != nil {
		return sess.engine.Snapshot(), engineErr(err)
	}
	return sess.engine.Snapshot(), nil
}

// Status returns the user's current session; Idle when there is none.
func (s *TimerService) Status(user *model.User) timer.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[user.ID]; ok {
		return sess.engine.Snapshot()
	}
	return timer.Snapshot{State: timer.StateIdle}
}

// Stop ends the session and persists it. With nothing timed yet it returns a
// ValidationError and the session keeps going. Otherwise the engine is back
// to Idle, even when persistence fails.
func (s *TimerService) Stop(ctx context.Context, user *model.User) (*model.Activity, error) {
	s.mu.Lock()
	sess, ok := s.sessions[user.ID]
	if !ok || !sess.engine.Snapshot().Active() {
		s.mu.Unlock()
		return nil, ErrNoSession
	}
	activity, emitted := sess.engine.Stop()
	if !emitted {
		s.mu.Unlock()
		return nil, invalid("timer", "nothing has been timed yet")
	}
	s.endLocked(sess)
	s.mu.Unlock()

	return s.activities.Record(ctx, user, activity)
}

// StopAll stops and persists every active session. Used on shutdown.
func (s *TimerService) StopAll(ctx context.Context) int {
	s.mu.Lock()
	users := make([]model.User, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if sess.engine.Snapshot().Active() {
			users = append(users, sess.user)
		}
	}
	s.mu.Unlock()

	stopped := 0
	for i := range users {
		activity, err := s.Stop(ctx, &users[i])
		if IsValidation(err) {
			s.discard(users[i].ID)
			continue
		}
		if err != nil {
			s.log.Error().Err(err).Str("user", users[i].ID).Msg("stop timer on shutdown")
			continue
		}
		if activity != nil {
			stopped++
		}
	}
	return stopped
}

func (s *TimerService) tick(userID string, gen uint64) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok || sess.gen != gen {
		s.mu.Unlock()
		return
	}

	var (
		intervals []timer.Snapshot
		completed *model.Activity
	)
	for _, ev := range sess.engine.Tick() {
		metrics.TimerEvents.WithLabelValues(ev.Kind.String()).Inc()
		switch ev.Kind {
		case timer.EventInterval:
			intervals = append(intervals, sess.engine.Snapshot())
		case timer.EventCompleted:
			completed = ev.Activity
		}
	}
	if completed != nil {
		s.endLocked(sess)
	}
	user := sess.user
	notifier := s.notifier
	s.mu.Unlock()

	if notifier != nil {
		for _, snap := range intervals {
			notifier.TimerInterval(user, snap)
		}
	}
	if completed == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	saved, err := s.activities.Record(ctx, &user, *completed)
	if err != nil {
		s.log.Error().Stack().Err(err).Str("user", user.ID).Msg("persist completed session")
	} else {
		completed = saved
	}
	s.log.Info().Str("user", user.ID).Int64("seconds", completed.Duration).Msg("timer reached target")
	if notifier != nil {
		notifier.TimerCompleted(user, *completed, err)
	}
}

func (s *TimerService) withSession(user *model.User, fn func(*timer.Engine) error) (timer.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[user.ID]
	if !ok || !sess.engine.Snapshot().Active() {
		return timer.Snapshot{State: timer.StateIdle}, ErrNoSession
	}
	if err := fn(sess.engine); err != nil {
		return sess.engine.Snapshot(), err
	}
	return sess.engine.Snapshot(), nil
}

func (s *TimerService) sessionLocked(user *model.User) *timerSession {
	sess, ok := s.sessions[user.ID]
	if !ok {
		sess = &timerSession{engine: timer.NewEngine(s.clock)}
		s.sessions[user.ID] = sess
	}
	sess.user = *user
	return sess
}

// endLocked cancels ticking and resets the engine to Idle.
func (s *TimerService) endLocked(sess *timerSession) {
	if sess.cancel != nil {
		sess.cancel()
		sess.cancel = nil
		metrics.ActiveSessions.Dec()
	}
	sess.gen = 0
	sess.engine.Reset()
}

// discard drops a session without recording it.
func (s *TimerService) discard(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		s.endLocked(sess)
		s.log.Info().Str("user", userID).Msg("empty timer session discarded")
	}
}

func engineErr(err error) error {
	switch {
	case errors.Is(err, timer.ErrDescriptionRequired):
		return invalid("description", err.Error())
	case errors.Is(err, timer.ErrCategoryRequired):
		return invalid("category", err.Error())
	case errors.Is(err, timer.ErrNegativeTarget), errors.Is(err, timer.ErrTargetPassed):
		return invalid("target", err.Error())
	default:
		return err
	}
}
