package stats

import (
	"fmt"
	"math"
	"time"

	"tempowise/internal/model"
)

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// trend buckets activity time by start time: 4-hour slots for a day,
// weekdays for a week and 7-day blocks for a month.
func trend(activities []model.Activity, period Period, start time.Time) []TrendPoint {
	var labels []string
	switch period {
	case PeriodDay:
		for h := 0; h < 24; h += 4 {
			labels = append(labels, fmt.Sprintf("%02d:00", h))
		}
	case PeriodMonth:
		for w := 1; w <= 5; w++ {
			labels = append(labels, fmt.Sprintf("Week %d", w))
		}
	default:
		labels = weekdayLabels[:]
	}

	seconds := make([]int64, len(labels))
	for _, a := range activities {
		local := a.StartTime.In(start.Location())
		var idx int
		switch period {
		case PeriodDay:
			idx = local.Hour() / 4
		case PeriodMonth:
			idx = (local.Day() - 1) / 7
		default:
			idx = int(local.Weekday())
		}
		if idx >= 0 && idx < len(seconds) {
			seconds[idx] += a.Duration
		}
	}

	points := make([]TrendPoint, len(labels))
	for i, label := range labels {
		points[i] = TrendPoint{Label: label, Hours: math.Round(float64(seconds[i])/secondsPerHour*10) / 10}
	}
	return points
}
