package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tempowise/internal/model"
	"tempowise/internal/service"
	"tempowise/internal/stats"
	"tempowise/internal/timer"
)

func (b *Bot) handleTrack(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if b.svc.Timer.Status(user).Active() {
		return b.replyError(msg.Chat.ID, timer.ErrAlreadyActive)
	}

	description := strings.TrimSpace(msg.CommandArguments())
	if description == "" {
		b.setDialog(msg.Chat.ID, &dialogState{stage: stageTrackDescription})
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏱ What are you working on?", cancelKeyboard())
	}
	return b.continueTrack(ctx, msg, description)
}

func (b *Bot) continueTrack(ctx context.Context, msg *tgbotapi.Message, description string) error {
	if description == "" {
		return b.sendWithReplyMarkup(msg.Chat.ID, "The description cannot be empty. What are you working on?", cancelKeyboard())
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	categories, err := b.svc.Categories.List(ctx, user)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if len(categories) == 0 {
		b.clearDialog(msg.Chat.ID)
		return b.sendText(msg.Chat.ID, "You have no categories yet. Add one with /newcategory &lt;name&gt;.")
	}

	b.setDialog(msg.Chat.ID, &dialogState{stage: stageTrackCategory, description: description})
	text := fmt.Sprintf("🏷 Category for <b>%s</b>?", escape(description))
	return b.sendWithReplyMarkup(msg.Chat.ID, text, categoryInlineKeyboard(categories, cbTrackPrefix))
}

func (b *Bot) startTimer(ctx context.Context, chatID int64, user *model.User, categoryID string) error {
	state := b.takeDialog(chatID, stageTrackCategory)
	if state == nil {
		return b.sendText(chatID, "This selection has expired. Use /track again.")
	}
	b.clearDialog(chatID)

	snap, err := b.svc.Timer.Start(ctx, user, state.description, categoryID)
	if err != nil {
		return b.replyError(chatID, err)
	}
	b.setFocus(chatID, true)
	b.log.Info().Str("user", user.ID).Msg("focus mode on")

	return b.sendText(chatID, "▶️ <b>Timer started</b>\n"+b.statusText(ctx, user, snap))
}

func (b *Bot) handlePause(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	snap, err := b.svc.Timer.Pause(user)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, "⏸ <b>Paused</b>\n"+b.statusText(ctx, user, snap))
}

func (b *Bot) handleResume(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	snap, err := b.svc.Timer.Resume(user)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, "▶️ <b>Resumed</b>\n"+b.statusText(ctx, user, snap))
}

func (b *Bot) handleStop(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	activity, err := b.svc.Timer.Stop(ctx, user)
	// A stop with nothing timed leaves the session, and focus mode, as they were.
	if !b.svc.Timer.Status(user).Active() {
		b.setFocus(msg.Chat.ID, false)
	}
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, "⏹ <b>Stopped</b>\n"+formatActivitySaved(*activity))
}

func (b *Bot) handleStatus(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	snap := b.svc.Timer.Status(user)
	if !snap.Active() {
		b.setFocus(msg.Chat.ID, false)
		text := "No timer is running. Start one with /track."
		if snap.Target > 0 {
			text += fmt.Sprintf("\n🎯 Next session stops after %s.", stats.FormatDuration(snap.Target))
		}
		return b.sendText(msg.Chat.ID, text)
	}
	return b.sendText(msg.Chat.ID, b.statusText(ctx, user, snap))
}

func (b *Bot) handleTarget(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
	if args == "" {
		return b.sendText(msg.Chat.ID, "Send the target in minutes, for example /target 25. Use /target off to disable it.")
	}
	var minutes int64
	if args != "off" {
		parsed, err := strconv.ParseInt(args, 10, 64)
		if err != nil {
			return b.sendText(msg.Chat.ID, "The target must be a whole number of minutes, for example /target 25.")
		}
		minutes = parsed
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	snap, err := b.svc.Timer.SetTarget(user, minutes*60)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if snap.Target == 0 {
		return b.sendText(msg.Chat.ID, "🎯 Target disabled. The timer runs until you /stop it.")
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🎯 Target set: the timer stops by itself after %s.", stats.FormatDuration(snap.Target)))
}

func (b *Bot) handleTags(ctx context.Context, msg *tgbotapi.Message) error {
	if !b.svc.Insights.Enabled() {
		return b.sendText(msg.Chat.ID, "AI suggestions are not configured on this bot.")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	text := strings.TrimSpace(msg.CommandArguments())
	snap := b.svc.Timer.Status(user)
	if text == "" && !snap.Active() {
		return b.sendText(msg.Chat.ID, "Send some text (/tags reading a paper) or start a timer first.")
	}
	fromTimer := text == ""
	if fromTimer {
		text = snap.Description
	}

	tags := b.svc.Insights.SuggestTags(ctx, text)
	if len(tags) == 0 {
		return b.sendText(msg.Chat.ID, "🏷 No tag suggestions right now.")
	}
	if fromTimer {
		snap, err = b.svc.Timer.AddTags(user, tags...)
		if err != nil && !errors.Is(err, service.ErrNoSession) {
			return b.replyError(msg.Chat.ID, err)
		}
		if err == nil {
			return b.sendText(msg.Chat.ID, "🏷 Added to the running timer: "+formatTags(snap.Tags))
		}
	}
	return b.sendText(msg.Chat.ID, "🏷 Suggested tags: "+formatTags(tags))
}

func (b *Bot) statusText(ctx context.Context, user *model.User, snap timer.Snapshot) string {
	categoryName := stats.UncategorizedName
	if categories, err := b.svc.Categories.List(ctx, user); err == nil {
		categoryName = stats.ResolveCategory(snap.CategoryID, categories).Name()
	}
	return formatStatus(snap, categoryName, b.loc)
}
