package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tempowise/internal/model"
)

func TestProgress(t *testing.T) {
	activities := []model.Activity{
		{CategoryID: "1", Duration: 9000},
		{CategoryID: "1", Duration: 9000},
		{CategoryID: "2", Duration: 3600},
	}

	tests := []struct {
		name        string
		goal        model.Goal
		wantHours   float64
		wantPercent float64
	}{
		{"half way", model.Goal{CategoryID: "1", TargetHours: 10}, 5, 50},
		{"over target", model.Goal{CategoryID: "1", TargetHours: 2}, 5, 250},
		{"zero target", model.Goal{CategoryID: "1", TargetHours: 0}, 5, 0},
		{"fractional", model.Goal{CategoryID: "2", TargetHours: 4}, 1, 25},
		{"no activities", model.Goal{CategoryID: "9", TargetHours: 3}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Progress(tt.goal, activities)
			assert.InDelta(t, tt.wantHours, p.CurrentHours, 1e-9)
			assert.InDelta(t, tt.wantPercent, p.ProgressPercent, 1e-9)
		})
	}
}

func TestProgress_Unrounded(t *testing.T) {
	p := Progress(model.Goal{CategoryID: "1", TargetHours: 1}, []model.Activity{{CategoryID: "1", Duration: 900}})
	assert.InDelta(t, 0.25, p.CurrentHours, 1e-9)
	assert.InDelta(t, 25.0, p.ProgressPercent, 1e-9)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-3))
	assert.Equal(t, 42.0, ClampPercent(42))
	assert.Equal(t, 100.0, ClampPercent(250))
}
