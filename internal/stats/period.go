package stats

import (
	"fmt"
	"strings"
	"time"
)

// Period selects the aggregation window.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts day, week or month (case-insensitive). Empty means week.
func ParsePeriod(raw string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(raw))) {
	case PeriodDay:
		return PeriodDay, nil
	case PeriodWeek, "":
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unknown period %q, expected day, week or month", raw)
	}
}

// Start returns the beginning of the period containing now, in now's location:
// midnight today, the most recent Sunday at midnight, or the first of the month.
func (p Period) Start(now time.Time) time.Time {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	switch p {
	case PeriodDay:
		return midnight
	case PeriodMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	default:
		return midnight.AddDate(0, 0, -int(now.Weekday()))
	}
}

func (p Period) String() string { return string(p) }
