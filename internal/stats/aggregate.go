// Package stats turns activity lists into the numbers behind the charts:
// hours per category, category distribution, time trend and goal progress.
package stats

import (
	"math"
	"time"

	"tempowise/internal/model"
)

const secondsPerHour = 3600

// CategoryHours is one bar of the time-per-category chart.
type CategoryHours struct {
	Name  string `json:"name"`
	Hours int64  `json:"hours"`
	Color string `json:"color"`
}

// Slice is one slice of the distribution chart. Percent is derived from the
// rounded Hours of all slices, not from raw seconds.
type Slice struct {
	Name    string  `json:"name"`
	Hours   int64   `json:"hours"`
	Color   string  `json:"color"`
	Percent float64 `json:"percent"`
}

// TrendPoint is hours logged in one sub-bucket of the period.
type TrendPoint struct {
	Label string  `json:"label"`
	Hours float64 `json:"hours"`
}

// Summary is the full aggregation for one period.
type Summary struct {
	Period               Period          `json:"period"`
	Start                time.Time       `json:"start"`
	TimeByCategory       []CategoryHours `json:"timeByCategory"`
	CategoryDistribution []Slice         `json:"categoryDistribution"`
	ProductivityTrend    []TrendPoint    `json:"productivityTrend"`
}

// RoundHours converts seconds to whole hours rounding half up, the way
// JavaScript's Math.round does for non-negative values.
func RoundHours(seconds int64) int64 {
	return int64(math.Floor(float64(seconds)/secondsPerHour + 0.5))
}

// Aggregate computes the summary of activities started since the period start.
// With no activities or no categories every output is empty.
func Aggregate(activities []model.Activity, categories []model.Category, period Period, now time.Time) Summary {
	start := period.Start(now)
	summary := Summary{
		Period:               period,
		Start:                start,
		TimeByCategory:       []CategoryHours{},
		CategoryDistribution: []Slice{},
		ProductivityTrend:    []TrendPoint{},
	}
	if len(activities) == 0 || len(categories) == 0 {
		return summary
	}

	inPeriod := FilterSince(activities, start)

	totals := make(map[string]int64, len(categories))
	for _, a := range inPeriod {
		totals[a.CategoryID] += a.Duration
	}

	var totalHours int64
	for _, c := range categories {
		hours := RoundHours(totals[c.ID])
		summary.TimeByCategory = append(summary.TimeByCategory, CategoryHours{Name: c.Name, Hours: hours, Color: c.Color})
		totalHours += hours
	}

	for _, entry := range summary.TimeByCategory {
		if entry.Hours <= 0 {
			continue
		}
		summary.CategoryDistribution = append(summary.CategoryDistribution, Slice{
			Name:    entry.Name,
			Hours:   entry.Hours,
			Color:   entry.Color,
			Percent: float64(entry.Hours) / float64(totalHours) * 100,
		})
	}

	summary.ProductivityTrend = trend(inPeriod, period, start)
	return summary
}

// FilterSince keeps activities with StartTime >= since.
func FilterSince(activities []model.Activity, since time.Time) []model.Activity {
	out := make([]model.Activity, 0, len(activities))
	for _, a := range activities {
		if !a.StartTime.Before(since) {
			out = append(out, a)
		}
	}
	return out
}

// TotalSeconds sums durations.
func TotalSeconds(activities []model.Activity) int64 {
	var total int64
	for _, a := range activities {
		total += a.Duration
	}
	return total
}
