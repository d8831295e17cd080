package bot

import (
	"errors"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tempowise/internal/model"
	"tempowise/internal/stats"
	"tempowise/internal/timer"
)

const helpText = "ℹ️ <b>Commands</b>\n" +
	"⏱ <b>Timer</b>\n" +
	"• /track &lt;what&gt; — start timing, then pick a category\n" +
	"• /pause, /resume, /stop, /status\n" +
	"• /target &lt;minutes&gt; — stop automatically (/target off)\n" +
	"• /tags [text] — AI tag suggestions\n" +
	"🍅 <b>Pomodoro</b>\n" +
	"• /pomodoro — start or pause 25/5 focus rounds\n" +
	"• /pomodoro reset · /pomodoro status\n" +
	"📝 <b>Activities</b>\n" +
	"• /log — add a past activity step by step\n" +
	"• /activities — recent entries · /delete &lt;n&gt;\n" +
	"📂 <b>Categories</b>\n" +
	"• /categories · /newcategory &lt;name&gt; [#color]\n" +
	"• /editcategory &lt;n&gt; &lt;name&gt; [#color] · /delcategory &lt;n&gt;\n" +
	"🎯 <b>Goals</b>\n" +
	"• /goals · /newgoal · /delgoal &lt;n&gt;\n" +
	"📊 <b>Insights</b>\n" +
	"• /stats [day|week|month]\n" +
	"• /energy &lt;1-5&gt; &lt;1-5&gt; — energy and motivation today\n" +
	"• /insights — AI advice from the last 30 days\n" +
	"• /report — today's summary\n" +
	"• /cancel — abort the current input"

func commandList() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "track", Description: "Start a timer"},
		{Command: "stop", Description: "Stop and save the timer"},
		{Command: "status", Description: "Show the running timer"},
		{Command: "pomodoro", Description: "Start or pause a pomodoro"},
		{Command: "log", Description: "Log a past activity"},
		{Command: "activities", Description: "Recent activities"},
		{Command: "stats", Description: "Time per category"},
		{Command: "goals", Description: "Weekly goals"},
		{Command: "insights", Description: "AI productivity insights"},
		{Command: "help", Description: "All commands"},
	}
}

func escape(s string) string {
	return html.EscapeString(s)
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func shortLabel(s string, maxLen int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= maxLen {
		return string(runes)
	}
	return string(runes[:maxLen-1]) + "…"
}

func formatStatus(snap timer.Snapshot, categoryName string, loc *time.Location) string {
	var b strings.Builder
	icon := "▶️"
	if snap.State == timer.StatePaused {
		icon = "⏸"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s</b> <i>(%s)</i>\n", icon, escape(snap.Description), escape(categoryName)))
	b.WriteString(fmt.Sprintf("   ⏱ <code>%s</code> since %s\n", stats.FormatClock(snap.Elapsed), snap.StartedAt.In(loc).Format("15:04")))
	if snap.Target > 0 {
		b.WriteString(fmt.Sprintf("   🎯 %s left of %s\n", stats.FormatClock(snap.Remaining()), stats.FormatDuration(snap.Target)))
	}
	if len(snap.Tags) > 0 {
		b.WriteString("   🏷 " + formatTags(snap.Tags) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatActivitySaved(a model.Activity) string {
	text := fmt.Sprintf("«%s» · %s", escape(a.Description), stats.FormatDuration(a.Duration))
	if len(a.Tags) > 0 {
		text += "\n🏷 " + formatTags(a.Tags)
	}
	return text
}

func formatActivityLine(n int, a model.Activity, ref stats.CategoryRef, loc *time.Location) string {
	start := a.StartTime.In(loc)
	line := fmt.Sprintf("%d. <b>%s</b> <i>(%s)</i>\n   🕒 %s–%s · %s\n",
		n,
		escape(a.Description),
		escape(ref.Name()),
		start.Format("Jan 02 15:04"),
		a.EndTime.In(loc).Format("15:04"),
		stats.FormatDuration(a.Duration),
	)
	if len(a.Tags) > 0 {
		line += "   🏷 " + formatTags(a.Tags) + "\n"
	}
	return line
}

func formatTags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, "#"+escape(strings.ReplaceAll(t, " ", "_")))
	}
	return strings.Join(parts, " ")
}

// formatElapsedWords renders whole intervals: "30 minutes", "1 hour", "1.5 hours".
func formatElapsedWords(seconds int64) string {
	if seconds < 3600 {
		return fmt.Sprintf("%d minutes", seconds/60)
	}
	hours := float64(seconds) / 3600
	if hours == 1 {
		return "1 hour"
	}
	return strconv.FormatFloat(hours, 'f', -1, 64) + " hours"
}

func formatSummary(s stats.Summary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Stats for this %s</b> (since %s)\n", s.Period, s.Start.Format("Jan 02")))
	if len(s.TimeByCategory) == 0 {
		b.WriteString("\nNo data yet. Track something with /track.")
		return b.String()
	}

	var maxHours int64
	for _, c := range s.TimeByCategory {
		if c.Hours > maxHours {
			maxHours = c.Hours
		}
	}
	b.WriteString("\n⏱ <b>Time by category</b>\n")
	for _, c := range s.TimeByCategory {
		b.WriteString(fmt.Sprintf("%s %s %dh\n", bar(float64(c.Hours), float64(maxHours), 10), escape(c.Name), c.Hours))
	}

	b.WriteString("\n🥧 <b>Distribution</b>\n")
	if len(s.CategoryDistribution) == 0 {
		b.WriteString("— less than half an hour logged\n")
	}
	for _, slice := range s.CategoryDistribution {
		b.WriteString(fmt.Sprintf("• %s %.0f%%\n", escape(slice.Name), slice.Percent))
	}

	var maxTrend float64
	for _, p := range s.ProductivityTrend {
		maxTrend = math.Max(maxTrend, p.Hours)
	}
	b.WriteString("\n📈 <b>Trend</b>\n")
	for _, p := range s.ProductivityTrend {
		b.WriteString(fmt.Sprintf("<code>%-7s</code> %s %.1fh\n", p.Label, bar(p.Hours, maxTrend, 10), p.Hours))
	}
	return strings.TrimRight(b.String(), "\n")
}

func bar(value, peak float64, width int) string {
	filled := 0
	if peak > 0 {
		filled = int(math.Round(value / peak * float64(width)))
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func ratingDots(n int) string {
	return strings.Repeat("●", n) + strings.Repeat("○", 5-n)
}

var timeLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "02.01.2006 15:04"}

// parseWhen reads "HH:MM" (today in now's location) or a full date and time.
func parseWhen(text string, now time.Time) (time.Time, error) {
	text = strings.TrimSpace(text)
	if clock, err := time.Parse("15:04", text); err == nil {
		y, m, d := now.Date()
		return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, text, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", text)
}

// parseEnd accepts a time (see parseWhen, relative to start's day) or a positive duration.
func parseEnd(text string, start time.Time) (time.Time, error) {
	text = strings.TrimSpace(text)
	if d, err := time.ParseDuration(text); err == nil {
		if d <= 0 {
			return time.Time{}, errors.New("duration must be positive")
		}
		return start.Add(d), nil
	}
	return parseWhen(text, start)
}

func parseTagList(text string) []string {
	var tags []string
	for _, part := range strings.Split(text, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "#")))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return timer.MergeTags(nil, tags...)
}

// parseIndex converts a 1-based list number into an index below n.
func parseIndex(arg string, n int) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 0, errors.New("number is missing")
	}
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("there is no item %d", i)
	}
	return i - 1, nil
}

// splitColor separates a trailing #rrggbb token from a name.
func splitColor(args string) (name, color string) {
	fields := strings.Fields(args)
	if len(fields) > 1 && strings.HasPrefix(fields[len(fields)-1], "#") {
		color = fields[len(fields)-1]
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " "), color
}

func parseHours(text string) (float64, error) {
	hours, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
	if err != nil || hours <= 0 || math.IsInf(hours, 0) || math.IsNaN(hours) {
		return 0, errors.New("hours must be a positive number")
	}
	return hours, nil
}

func formatPomodoro(snap timer.PomodoroSnapshot) string {
	icon, label := "🍅", "Focus"
	if snap.Phase == timer.PhaseBreak {
		icon, label = "☕", "Break"
	}
	state := "paused"
	if snap.Running {
		state = "running"
	}
	return fmt.Sprintf("%s <b>%s</b> · %02d:%02d left (%s)\n%s",
		icon, label, snap.Remaining/60, snap.Remaining%60, state,
		bar(snap.Progress(), 100, 10))
}

func pomodoroPhaseText(change timer.PhaseChange) string {
	if change.To == timer.PhaseBreak {
		return fmt.Sprintf("🍅 Focus round done. Time for a break! Send /pomodoro to start the %d-minute break.",
			timer.PomodoroBreakSeconds/60)
	}
	return "☕ Break is over. Back to work! Send /pomodoro to start the next focus round."
}
