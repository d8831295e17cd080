package bot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type dialogStage int

const (
	stageNone dialogStage = iota
	stageTrackDescription
	stageTrackCategory
	stageLogDescription
	stageLogCategory
	stageLogStart
	stageLogEnd
	stageLogTags
	stageGoalName
	stageGoalCategory
	stageGoalTarget
)

const (
	cbTrackPrefix       = "track:"
	cbLogCategoryPrefix = "logcat:"
	cbGoalCategory      = "goalcat:"
	cbDeleteActivity    = "delact:"
	cbDeleteCategory    = "delcat:"
	cbDeleteGoal        = "delgoal:"
)

// dialogState is the per-chat state of a multi-step form.
type dialogState struct {
	stage       dialogStage
	description string
	categoryID  string
	start       time.Time
	end         time.Time
	goalName    string
}

func (b *Bot) handleDialog(ctx context.Context, msg *tgbotapi.Message, state *dialogState) error {
	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTrackDescription:
		return b.continueTrack(ctx, msg, text)
	case stageTrackCategory, stageLogCategory, stageGoalCategory:
		return b.sendText(msg.Chat.ID, "Pick a category with the buttons above, or press «"+btnCancel+"».")
	case stageLogDescription, stageLogStart, stageLogEnd, stageLogTags:
		return b.continueLogDialog(ctx, msg, state, text)
	case stageGoalName, stageGoalTarget:
		return b.continueGoalDialog(ctx, msg, state, text)
	default:
		b.clearDialog(msg.Chat.ID)
		return b.sendText(msg.Chat.ID, "The dialog was reset. Please start again.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	chatID := cb.Message.Chat.ID
	data := cb.Data
	b.log.Debug().Int64("user", cb.From.ID).Str("data", data).Msg("callback")

	user, err := b.ensureUser(ctx, cb.From)
	if err != nil {
		b.ackCallback(cb, "")
		return b.replyError(chatID, err)
	}

	switch {
	case strings.HasPrefix(data, cbTrackPrefix):
		b.ackCallback(cb, "")
		return b.startTimer(ctx, chatID, user, strings.TrimPrefix(data, cbTrackPrefix))
	case strings.HasPrefix(data, cbLogCategoryPrefix):
		b.ackCallback(cb, "")
		return b.logCategoryChosen(ctx, chatID, strings.TrimPrefix(data, cbLogCategoryPrefix))
	case strings.HasPrefix(data, cbGoalCategory):
		b.ackCallback(cb, "")
		return b.goalCategoryChosen(ctx, chatID, strings.TrimPrefix(data, cbGoalCategory))
	case strings.HasPrefix(data, cbDeleteActivity):
		if err := b.svc.Activities.Delete(ctx, user, strings.TrimPrefix(data, cbDeleteActivity)); err != nil {
			b.ackCallback(cb, "")
			return b.replyError(chatID, err)
		}
		b.ackCallback(cb, "Deleted")
		return b.sendActivityList(ctx, chatID, user)
	case strings.HasPrefix(data, cbDeleteCategory):
		if err := b.svc.Categories.Delete(ctx, user, strings.TrimPrefix(data, cbDeleteCategory)); err != nil {
			b.ackCallback(cb, "")
			return b.replyError(chatID, err)
		}
		b.ackCallback(cb, "Deleted")
		return b.sendCategoryList(ctx, chatID, user)
	case strings.HasPrefix(data, cbDeleteGoal):
		if err := b.svc.Goals.Delete(ctx, user, strings.TrimPrefix(data, cbDeleteGoal)); err != nil {
			b.ackCallback(cb, "")
			return b.replyError(chatID, err)
		}
		b.ackCallback(cb, "Deleted")
		return b.sendGoalList(ctx, chatID, user)
	default:
		b.ackCallback(cb, "")
		return nil
	}
}

func (b *Bot) setDialog(chatID int64, state *dialogState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dialogs[chatID] = state
}

func (b *Bot) getDialog(chatID int64) *dialogState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dialogs[chatID]
}

func (b *Bot) clearDialog(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.dialogs, chatID)
}

// takeDialog returns the dialog only if it is at the given stage.
func (b *Bot) takeDialog(chatID int64, stage dialogStage) *dialogState {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, ok := b.dialogs[chatID]
	if !ok || state.stage != stage {
		return nil
	}
	return state
}
