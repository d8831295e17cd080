package stats

import "tempowise/internal/model"

// GoalProgress is the derived state of a goal.
type GoalProgress struct {
	Goal            model.Goal
	CurrentHours    float64
	ProgressPercent float64
}

// Progress sums every activity in the goal's category. CurrentHours is not
// rounded and ProgressPercent may exceed 100; a zero target yields 0%.
func Progress(goal model.Goal, activities []model.Activity) GoalProgress {
	var total int64
	for _, a := range activities {
		if a.CategoryID == goal.CategoryID {
			total += a.Duration
		}
	}
	current := float64(total) / secondsPerHour

	var percent float64
	if goal.TargetHours > 0 {
		percent = current / goal.TargetHours * 100
	}
	return GoalProgress{Goal: goal, CurrentHours: current, ProgressPercent: percent}
}

// ClampPercent bounds a percentage to [0, 100] for progress bars.
func ClampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
