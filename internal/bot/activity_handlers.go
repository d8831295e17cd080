package bot

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tempowise/internal/model"
	"tempowise/internal/service"
	"tempowise/internal/stats"
)

const recentActivities = 10

func (b *Bot) startLogDialog(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	b.setDialog(msg.Chat.ID, &dialogState{stage: stageLogDescription})
	return b.sendWithReplyMarkup(msg.Chat.ID, "📝 Logging a past activity.\n<b>Step 1:</b> what did you do?", cancelKeyboard())
}

func (b *Bot) continueLogDialog(ctx context.Context, msg *tgbotapi.Message, state *dialogState, text string) error {
	chatID := msg.Chat.ID
	switch state.stage {
	case stageLogDescription:
		if utf8.RuneCountInString(text) < 2 {
			return b.sendWithReplyMarkup(chatID, "The description needs at least 2 characters.", cancelKeyboard())
		}
		user, err := b.ensureUser(ctx, msg.From)
		if err != nil {
			return b.replyError(chatID, err)
		}
		categories, err := b.svc.Categories.List(ctx, user)
		if err != nil {
			return b.replyError(chatID, err)
		}
		if len(categories) == 0 {
			b.clearDialog(chatID)
			return b.sendText(chatID, "You have no categories yet. Add one with /newcategory &lt;name&gt;.")
		}
		state.description = text
		state.stage = stageLogCategory
		return b.sendWithReplyMarkup(chatID, "<b>Step 2:</b> pick a category.", categoryInlineKeyboard(categories, cbLogCategoryPrefix))
	case stageLogStart:
		start, err := parseWhen(text, b.now())
		if err != nil {
			return b.sendWithReplyMarkup(chatID, "I could not read that time. Use <code>14:30</code> or <code>2024-05-01 14:30</code>.", cancelKeyboard())
		}
		state.start = start
		state.stage = stageLogEnd
		return b.sendWithReplyMarkup(chatID, "<b>Step 4:</b> when did you finish? Send a time or a duration such as <code>45m</code> or <code>1h30m</code>.", cancelKeyboard())
	case stageLogEnd:
		end, err := parseEnd(text, state.start)
		if err != nil {
			return b.sendWithReplyMarkup(chatID, "I could not read that. Send a time like <code>16:00</code> or a duration like <code>45m</code>.", cancelKeyboard())
		}
		if !end.After(state.start) {
			return b.sendWithReplyMarkup(chatID, "⚠️ End time must be after start time.", cancelKeyboard())
		}
		state.end = end
		state.stage = stageLogTags
		prompt := "<b>Step 5:</b> add tags separated by commas, or skip."
		if b.svc.Insights.Enabled() {
			prompt += " Press «" + btnSuggest + "» to let AI pick."
		}
		return b.sendWithReplyMarkup(chatID, prompt, tagsKeyboard(b.svc.Insights.Enabled()))
	case stageLogTags:
		var tags []string
		switch {
		case isSkipInput(text):
		case text == btnSuggest:
			tags = b.svc.Insights.SuggestTags(ctx, state.description)
		default:
			tags = parseTagList(text)
		}
		return b.finishLog(ctx, msg, state, tags)
	default:
		return nil
	}
}

func (b *Bot) logCategoryChosen(ctx context.Context, chatID int64, categoryID string) error {
	state := b.takeDialog(chatID, stageLogCategory)
	if state == nil {
		return b.sendText(chatID, "This selection has expired. Use /log again.")
	}
	state.categoryID = categoryID
	state.stage = stageLogStart
	return b.sendWithReplyMarkup(chatID, "<b>Step 3:</b> when did you start? <code>14:30</code> means today.", cancelKeyboard())
}

func (b *Bot) finishLog(ctx context.Context, msg *tgbotapi.Message, state *dialogState, tags []string) error {
	b.clearDialog(msg.Chat.ID)
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	activity, err := b.svc.Activities.Log(ctx, user, service.ActivityInput{
		Description: state.description,
		CategoryID:  state.categoryID,
		Tags:        tags,
		Start:       state.start,
		End:         state.end,
	})
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	b.log.Info().Str("user", user.ID).Str("activity", activity.ID).Msg("activity logged")
	return b.sendText(msg.Chat.ID, "✅ <b>Activity saved</b>\n"+formatActivitySaved(*activity))
}

func (b *Bot) handleActivities(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendActivityList(ctx, msg.Chat.ID, user)
}

func (b *Bot) sendActivityList(ctx context.Context, chatID int64, user *model.User) error {
	activities, err := b.svc.Activities.Recent(ctx, user, recentActivities)
	if err != nil {
		return b.replyError(chatID, err)
	}
	if len(activities) == 0 {
		return b.sendText(chatID, "No activities yet. Start a timer with /track or add one with /log.")
	}
	categories, err := b.svc.Categories.List(ctx, user)
	if err != nil {
		return b.replyError(chatID, err)
	}
	idx := stats.NewCategoryIndex(categories)

	var builder strings.Builder
	builder.WriteString("🗂 <b>Recent activities</b>\n\n")
	ids := make([]string, 0, len(activities))
	for i, a := range activities {
		builder.WriteString(formatActivityLine(i+1, a, idx.Resolve(a.CategoryID), b.loc))
		ids = append(ids, a.ID)
	}
	builder.WriteString("\nDelete with the buttons or /delete &lt;n&gt;.")
	return b.sendWithReplyMarkup(chatID, builder.String(), deleteInlineKeyboard(ids, cbDeleteActivity))
}

func (b *Bot) handleDeleteActivity(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	activities, err := b.svc.Activities.Recent(ctx, user, recentActivities)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	n, err := parseIndex(msg.CommandArguments(), len(activities))
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Send the number from /activities, for example /delete 1. %s", escape(capitalize(err.Error()))+"."))
	}
	target := activities[n]
	if err := b.svc.Activities.Delete(ctx, user, target.ID); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Deleted «%s».", escape(target.Description)))
}
