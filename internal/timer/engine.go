// Package timer implements the single-session stopwatch used to log
// activities: start/pause/resume/stop, an optional target duration that
// stops the session on its own, and a chime every IntervalSeconds.
//
// Engine is a plain state machine. It never starts goroutines; something
// outside (see Ticker) calls Tick once per second while the session runs.
package timer

import (
	"errors"
	"strings"
	"time"

	"tempowise/internal/model"
)

// IntervalSeconds is the spacing of interval notifications.
const IntervalSeconds = 1800

var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrCategoryRequired    = errors.New("category is required")
	ErrAlreadyActive       = errors.New("a session is already active")
	ErrNotRunning          = errors.New("session is not running")
	ErrNotPaused           = errors.New("session is not paused")
	ErrSessionStopped      = errors.New("session is stopped")
	ErrTargetPassed        = errors.New("target is not after the elapsed time")
	ErrNegativeTarget      = errors.New("target must not be negative")
)

// State of the engine.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Clock supplies wall-clock time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the real wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// EventKind distinguishes notifications produced by Tick.
type EventKind int

const (
	// EventInterval fires once each time elapsed reaches a multiple of IntervalSeconds.
	EventInterval EventKind = iota
	// EventCompleted fires when elapsed reaches the target; the session is stopped
	// and Activity carries the emitted record.
	EventCompleted
)

func (k EventKind) String() string {
	if k == EventCompleted {
		return "completed"
	}
	return "interval"
}

// Event is returned by Tick.
type Event struct {
	Kind     EventKind
	Elapsed  int64
	Activity *model.Activity
}

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	State       State
	Elapsed     int64
	Target      int64
	StartedAt   time.Time
	Description string
	CategoryID  string
	Tags        []string
}

// Remaining returns seconds left until the target, or 0 when no target is set.
func (s Snapshot) Remaining() int64 {
	if s.Target <= 0 || s.Elapsed >= s.Target {
		return 0
	}
	return s.Target - s.Elapsed
}

// Active reports whether the session is running or paused.
func (s Snapshot) Active() bool {
	return s.State == StateRunning || s.State == StatePaused
}

// Engine is not safe for concurrent use; callers serialize access.
type Engine struct {
	clock Clock

	state        State
	elapsed      int64
	target       int64
	startedAt    time.Time
	description  string
	categoryID   string
	tags         []string
	lastInterval int64
}

func NewEngine(clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock
	}
	return &Engine{clock: clock}
}

// Start begins a session. Validation failures leave the engine untouched.
func (e *Engine) Start(description, categoryID string) error {
	switch e.state {
	case StateRunning, StatePaused:
		return ErrAlreadyActive
	case StateStopped:
		return ErrSessionStopped
	}

	description = strings.TrimSpace(description)
	categoryID = strings.TrimSpace(categoryID)
	if description == "" {
		return ErrDescriptionRequired
	}
	if categoryID == "" {
		return ErrCategoryRequired
	}

	e.description = description
	e.categoryID = categoryID
	e.elapsed = 0
	e.lastInterval = 0
	e.startedAt = e.clock.Now()
	e.state = StateRunning
	return nil
}

// Tick advances a running session by one second. Ticks in any other state are ignored.
func (e *Engine) Tick() []Event {
	if e.state != StateRunning {
		return nil
	}

	e.elapsed++
	if e.target > 0 && e.elapsed > e.target {
		e.elapsed = e.target
	}

	var events []Event
	if e.elapsed%IntervalSeconds == 0 && e.elapsed > e.lastInterval {
		e.lastInterval = e.elapsed
		events = append(events, Event{Kind: EventInterval, Elapsed: e.elapsed})
	}
	if e.target > 0 && e.elapsed == e.target {
		activity := e.emit()
		events = append(events, Event{Kind: EventCompleted, Elapsed: e.elapsed, Activity: &activity})
	}
	return events
}

// Stop ends a running or paused session and returns the activity to log.
// It is a no-op (ok=false) when nothing has been timed yet.
func (e *Engine) Stop() (activity model.Activity, ok bool) {
	if e.state != StateRunning && e.state != StatePaused {
		return model.Activity{}, false
	}
	if e.elapsed == 0 {
		return model.Activity{}, false
	}
	return e.emit(), true
}

func (e *Engine) Pause() error {
	if e.state != StateRunning {
		return ErrNotRunning
	}
	e.state = StatePaused
	return nil
}

func (e *Engine) Resume() error {
	if e.state != StatePaused {
		return ErrNotPaused
	}
	e.state = StateRunning
	return nil
}

// SetTarget sets the auto-stop duration in seconds; 0 disables it.
// The target survives Reset so it applies to the next session too.
func (e *Engine) SetTarget(seconds int64) error {
	if seconds < 0 {
		return ErrNegativeTarget
	}
	if e.state == StateStopped {
		return ErrSessionStopped
	}
	if seconds > 0 && seconds <= e.elapsed {
		return ErrTargetPassed
	}
	e.target = seconds
	return nil
}

// AddTags merges tags into the session, skipping blanks and duplicates.
func (e *Engine) AddTags(tags ...string) {
	e.tags = MergeTags(e.tags, tags...)
}

// Reset returns to Idle and clears the session. The target is kept.
func (e *Engine) Reset() {
	e.state = StateIdle
	e.elapsed = 0
	e.lastInterval = 0
	e.startedAt = time.Time{}
	e.description = ""
	e.categoryID = ""
	e.tags = nil
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:       e.state,
		Elapsed:     e.elapsed,
		Target:      e.target,
		StartedAt:   e.startedAt,
		Description: e.description,
		CategoryID:  e.categoryID,
		Tags:        append([]string(nil), e.tags...),
	}
}

func (e *Engine) emit() model.Activity {
	e.state = StateStopped
	return model.Activity{
		Description: e.description,
		CategoryID:  e.categoryID,
		Tags:        append([]string(nil), e.tags...),
		StartTime:   e.startedAt,
		EndTime:     e.clock.Now(),
		Duration:    e.elapsed,
	}
}

// MergeTags appends tags to base keeping first-seen order and dropping duplicates.
func MergeTags(base []string, tags ...string) []string {
	seen := make(map[string]struct{}, len(base)+len(tags))
	out := make([]string, 0, len(base)+len(tags))
	for _, list := range [][]string{base, tags} {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
