package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tickPomodoro(p *Pomodoro, n int) []PhaseChange {
	var changes []PhaseChange
	for i := 0; i < n; i++ {
		if c := p.Tick(); c != nil {
			changes = append(changes, *c)
		}
	}
	return changes
}

func TestPomodoro_IdleUntilToggled(t *testing.T) {
	p := NewPomodoro()
	assert.Empty(t, tickPomodoro(p, 10))
	assert.Equal(t, PomodoroSnapshot{Phase: PhaseWork, Remaining: PomodoroWorkSeconds}, p.Snapshot())

	assert.True(t, p.Toggle())
	tickPomodoro(p, 60)
	assert.Equal(t, int64(PomodoroWorkSeconds-60), p.Snapshot().Remaining)

	assert.False(t, p.Toggle())
	tickPomodoro(p, 60)
	assert.Equal(t, int64(PomodoroWorkSeconds-60), p.Snapshot().Remaining)
}

func TestPomodoro_WorkFlipsToBreak(t *testing.T) {
	p := NewPomodoro()
	p.Toggle()

	assert.Empty(t, tickPomodoro(p, PomodoroWorkSeconds-1))
	c := p.Tick()
	require.NotNil(t, c)
	assert.Equal(t, PhaseChange{From: PhaseWork, To: PhaseBreak}, *c)

	snap := p.Snapshot()
	assert.Equal(t, PhaseBreak, snap.Phase)
	assert.Equal(t, int64(PomodoroBreakSeconds), snap.Remaining)
	assert.False(t, snap.Running)
	assert.Zero(t, snap.Progress())
}

func TestPomodoro_BreakFlipsToWork(t *testing.T) {
	p := NewPomodoro()
	p.Toggle()
	tickPomodoro(p, PomodoroWorkSeconds)

	p.Toggle()
	changes := tickPomodoro(p, PomodoroBreakSeconds+30)
	require.Len(t, changes, 1)
	assert.Equal(t, PhaseChange{From: PhaseBreak, To: PhaseWork}, changes[0])
	assert.Equal(t, int64(PomodoroWorkSeconds), p.Snapshot().Remaining)
	assert.False(t, p.Snapshot().Running)
}

func TestPomodoro_Reset(t *testing.T) {
	p := NewPomodoro()
	p.Toggle()
	tickPomodoro(p, PomodoroWorkSeconds)
	p.Toggle()
	tickPomodoro(p, 20)

	p.Reset()
	assert.Equal(t, PomodoroSnapshot{Phase: PhaseWork, Remaining: PomodoroWorkSeconds}, p.Snapshot())
	assert.Empty(t, tickPomodoro(p, 5))
}

func TestPomodoroSnapshot_Progress(t *testing.T) {
	snap := PomodoroSnapshot{Phase: PhaseWork, Remaining: PomodoroWorkSeconds / 4}
	assert.InDelta(t, 75.0, snap.Progress(), 0.001)
	assert.Equal(t, "work", PhaseWork.String())
	assert.Equal(t, "break", PhaseBreak.String())
}
