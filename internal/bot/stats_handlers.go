package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tempowise/internal/stats"
)

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) error {
	period, err := stats.ParsePeriod(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /stats [day|week|month]")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	summary, err := b.svc.Stats.Summary(ctx, user, period, b.now())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, formatSummary(summary))
}

func (b *Bot) handleEnergy(ctx context.Context, msg *tgbotapi.Message) error {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) != 2 {
		return b.sendText(msg.Chat.ID, "Usage: /energy &lt;energy 1-5&gt; &lt;motivation 1-5&gt;, for example /energy 4 3")
	}
	level, errLevel := strconv.Atoi(fields[0])
	motivation, errMotivation := strconv.Atoi(fields[1])
	if errLevel != nil || errMotivation != nil {
		return b.sendText(msg.Chat.ID, "Both ratings must be whole numbers from 1 to 5.")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if _, err := b.svc.Energy.Record(ctx, user, level, motivation, b.now()); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, "⚡ Energy "+ratingDots(level)+"\n🔥 Motivation "+ratingDots(motivation)+"\nSaved for today.")
}

func (b *Bot) handleInsights(ctx context.Context, msg *tgbotapi.Message) error {
	if !b.svc.Insights.Enabled() {
		return b.sendText(msg.Chat.ID, "AI insights are not configured on this bot.")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if err := b.sendText(msg.Chat.ID, "🤖 Looking at your last 30 days…"); err != nil {
		return err
	}
	text, err := b.svc.Insights.Insights(ctx, user, b.now())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, "💡 <b>Insights</b>\n\n"+escape(text))
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	text, err := b.svc.Reports.DailySummary(ctx, user, b.now())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, text)
}
