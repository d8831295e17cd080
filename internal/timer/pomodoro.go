package timer

// Pomodoro phase lengths in seconds.
const (
	PomodoroWorkSeconds  = 25 * 60
	PomodoroBreakSeconds = 5 * 60
)

// Phase of a pomodoro cycle.
type Phase int

const (
	PhaseWork Phase = iota
	PhaseBreak
)

func (p Phase) String() string {
	if p == PhaseBreak {
		return "break"
	}
	return "work"
}

// Seconds is the length of the phase.
func (p Phase) Seconds() int64 {
	if p == PhaseBreak {
		return PomodoroBreakSeconds
	}
	return PomodoroWorkSeconds
}

// PhaseChange is returned by Pomodoro.Tick when a phase runs out.
type PhaseChange struct {
	From Phase
	To   Phase
}

// PomodoroSnapshot is a read-only copy of a Pomodoro.
type PomodoroSnapshot struct {
	Phase     Phase
	Remaining int64
	Running   bool
}

// Progress is the share of the current phase already spent, 0..100.
func (s PomodoroSnapshot) Progress() float64 {
	total := s.Phase.Seconds()
	return float64(total-s.Remaining) / float64(total) * 100
}

// Pomodoro alternates work and break countdowns. When a phase runs out the
// next one is loaded and the countdown pauses until it is toggled again.
// Like Engine it is driven from outside and is not safe for concurrent use.
type Pomodoro struct {
	phase     Phase
	remaining int64
	running   bool
}

func NewPomodoro() *Pomodoro {
	return &Pomodoro{phase: PhaseWork, remaining: PomodoroWorkSeconds}
}

// Toggle starts or pauses the countdown and reports whether it now runs.
func (p *Pomodoro) Toggle() bool {
	p.running = !p.running
	return p.running
}

// Tick counts one second down. It returns the phase change when the
// current phase reaches zero, nil otherwise.
func (p *Pomodoro) Tick() *PhaseChange {
	if !p.running {
		return nil
	}
	if p.remaining > 0 {
		p.remaining--
	}
	if p.remaining > 0 {
		return nil
	}

	change := &PhaseChange{From: p.phase, To: PhaseBreak}
	if p.phase == PhaseBreak {
		change.To = PhaseWork
	}
	p.phase = change.To
	p.remaining = change.To.Seconds()
	p.running = false
	return change
}

// Reset goes back to a paused, full work phase.
func (p *Pomodoro) Reset() {
	p.phase = PhaseWork
	p.remaining = PomodoroWorkSeconds
	p.running = false
}

func (p *Pomodoro) Snapshot() PomodoroSnapshot {
	return PomodoroSnapshot{Phase: p.phase, Remaining: p.remaining, Running: p.running}
}
