package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"tempowise/internal/model"
	"tempowise/internal/repository"
	"tempowise/internal/stats"
)

// ReportService builds the periodic summary: today's time per category and goal progress.
type ReportService struct {
	activityRepo *repository.ActivityRepository
	categoryRepo *repository.CategoryRepository
	goals        *GoalService
}

func NewReportService(activityRepo *repository.ActivityRepository, categoryRepo *repository.CategoryRepository, goals *GoalService) *ReportService {
	return &ReportService{activityRepo: activityRepo, categoryRepo: categoryRepo, goals: goals}
}

type categoryTotal struct {
	ref     stats.CategoryRef
	seconds int64
}

func (s *ReportService) DailySummary(ctx context.Context, user *model.User, now time.Time) (string, error) {
	activities, err := s.activityRepo.ListSince(ctx, user.ID, stats.PeriodDay.Start(now))
	if err != nil {
		return "", storeErr(err)
	}
	categories, err := s.categoryRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return "", storeErr(err)
	}
	progress, err := s.goals.List(ctx, user)
	if err != nil {
		return "", err
	}

	idx := stats.NewCategoryIndex(categories)
	totals := make(map[string]*categoryTotal)
	for _, a := range activities {
		t, ok := totals[a.CategoryID]
		if !ok {
			t = &categoryTotal{ref: idx.Resolve(a.CategoryID)}
			totals[a.CategoryID] = t
		}
		t.seconds += a.Duration
	}
	rows := make([]*categoryTotal, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, t)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].seconds != rows[j].seconds {
			return rows[i].seconds > rows[j].seconds
		}
		return rows[i].ref.Name() < rows[j].ref.Name()
	})

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily report</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Mon, 02 Jan 2006")))

	builder.WriteString("⏱ <b>Time today</b>\n")
	if len(rows) == 0 {
		builder.WriteString("— nothing logged yet\n")
	} else {
		for _, row := range rows {
			builder.WriteString(fmt.Sprintf("• %s: %s\n", html.EscapeString(row.ref.Name()), stats.FormatDuration(row.seconds)))
		}
		builder.WriteString(fmt.Sprintf("Total: <b>%s</b>\n", stats.FormatDuration(stats.TotalSeconds(activities))))
	}

	builder.WriteString("\n🎯 <b>Goals</b>\n")
	if len(progress) == 0 {
		builder.WriteString("— no goals set\n")
	} else {
		for _, p := range progress {
			builder.WriteString(FormatGoalLine(p))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

// FormatGoalLine renders one goal with a ten-cell progress bar.
func FormatGoalLine(p stats.GoalProgress) string {
	icon := "🟡"
	if p.ProgressPercent >= 100 {
		icon = "✅"
	}
	return fmt.Sprintf("%s %s %s %.1f/%gh (%.0f%%)\n",
		icon,
		html.EscapeString(strings.TrimSpace(p.Goal.Name)),
		ProgressBar(p.ProgressPercent, 10),
		p.CurrentHours,
		p.Goal.TargetHours,
		p.ProgressPercent,
	)
}

// ProgressBar draws percent (clamped to 0..100) with width cells.
func ProgressBar(percent float64, width int) string {
	filled := int(stats.ClampPercent(percent) / 100 * float64(width))
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
}
