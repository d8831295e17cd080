package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tempowise/internal/model"
	"tempowise/internal/service"
	"tempowise/internal/stats"
)

func (b *Bot) handleGoals(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendGoalList(ctx, msg.Chat.ID, user)
}

func (b *Bot) sendGoalList(ctx context.Context, chatID int64, user *model.User) error {
	progress, err := b.svc.Goals.List(ctx, user)
	if err != nil {
		return b.replyError(chatID, err)
	}
	if len(progress) == 0 {
		return b.sendText(chatID, "🎯 No goals yet. Create one with /newgoal.")
	}
	categories, err := b.svc.Categories.List(ctx, user)
	if err != nil {
		return b.replyError(chatID, err)
	}

	var builder strings.Builder
	builder.WriteString("🎯 <b>Goals</b>\n")
	ids := make([]string, 0, len(progress))
	for i, p := range progress {
		ref := stats.ResolveCategory(p.Goal.CategoryID, categories)
		builder.WriteString(fmt.Sprintf("%d. <i>%s</i> · ", i+1, escape(ref.Name())))
		builder.WriteString(service.FormatGoalLine(p))
		ids = append(ids, p.Goal.ID)
	}
	return b.sendWithReplyMarkup(chatID, builder.String(), deleteInlineKeyboard(ids, cbDeleteGoal))
}

func (b *Bot) startGoalDialog(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	b.setDialog(msg.Chat.ID, &dialogState{stage: stageGoalName})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🎯 New weekly goal.\n<b>Step 1:</b> how should it be called?", cancelKeyboard())
}

func (b *Bot) continueGoalDialog(ctx context.Context, msg *tgbotapi.Message, state *dialogState, text string) error {
	chatID := msg.Chat.ID
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(chatID, err)
	}

	switch state.stage {
	case stageGoalName:
		if text == "" {
			return b.sendWithReplyMarkup(chatID, "The goal needs a name.", cancelKeyboard())
		}
		categories, err := b.svc.Categories.List(ctx, user)
		if err != nil {
			return b.replyError(chatID, err)
		}
		if len(categories) == 0 {
			b.clearDialog(chatID)
			return b.sendText(chatID, "You have no categories yet. Add one with /newcategory &lt;name&gt;.")
		}
		state.goalName = text
		state.stage = stageGoalCategory
		return b.sendWithReplyMarkup(chatID, "<b>Step 2:</b> which category counts towards it?", categoryInlineKeyboard(categories, cbGoalCategory))
	case stageGoalTarget:
		hours, err := parseHours(text)
		if err != nil {
			return b.sendWithReplyMarkup(chatID, "Send a positive number of hours, for example <code>10</code> or <code>7.5</code>.", cancelKeyboard())
		}
		b.clearDialog(chatID)
		goal, err := b.svc.Goals.Create(ctx, user, service.GoalInput{
			Name:        state.goalName,
			CategoryID:  state.categoryID,
			TargetHours: hours,
		})
		if err != nil {
			return b.replyError(chatID, err)
		}
		return b.sendText(chatID, fmt.Sprintf("✅ Goal <b>%s</b> saved: %gh.", escape(goal.Name), goal.TargetHours))
	default:
		return nil
	}
}

func (b *Bot) goalCategoryChosen(ctx context.Context, chatID int64, categoryID string) error {
	state := b.takeDialog(chatID, stageGoalCategory)
	if state == nil {
		return b.sendText(chatID, "This selection has expired. Use /newgoal again.")
	}
	state.categoryID = categoryID
	state.stage = stageGoalTarget
	return b.sendWithReplyMarkup(chatID, "<b>Step 3:</b> how many hours per week?", cancelKeyboard())
}

func (b *Bot) handleDeleteGoal(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	progress, err := b.svc.Goals.List(ctx, user)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	n, err := parseIndex(msg.CommandArguments(), len(progress))
	if err != nil {
		return b.sendText(msg.Chat.ID, "Use the number from /goals, for example /delgoal 1. "+escape(capitalize(err.Error()))+".")
	}
	goal := progress[n].Goal
	if err := b.svc.Goals.Delete(ctx, user, goal.ID); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Goal «%s» deleted.", escape(goal.Name)))
}
