package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tempowise/internal/model"
	"tempowise/internal/timer"
)

// handlePomodoro toggles the countdown; "reset" and "status" are subcommands.
func (b *Bot) handlePomodoro(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	switch strings.ToLower(strings.TrimSpace(msg.CommandArguments())) {
	case "":
		snap, err := b.svc.Pomodoro.Toggle(user)
		if err != nil {
			return b.replyError(msg.Chat.ID, err)
		}
		return b.sendText(msg.Chat.ID, formatPomodoro(snap))
	case "reset":
		snap := b.svc.Pomodoro.Reset(user)
		return b.sendText(msg.Chat.ID, "🔄 Pomodoro reset.\n"+formatPomodoro(snap))
	case "status":
		return b.sendText(msg.Chat.ID, formatPomodoro(b.svc.Pomodoro.Status(user)))
	default:
		return b.sendText(msg.Chat.ID, "Use /pomodoro to start or pause, /pomodoro reset or /pomodoro status.")
	}
}

// PomodoroPhaseChanged implements service.PomodoroNotifier.
func (b *Bot) PomodoroPhaseChanged(user model.User, change timer.PhaseChange, snap timer.PomodoroSnapshot) {
	if err := b.sendText(user.TelegramID, pomodoroPhaseText(change)+"\n"+formatPomodoro(snap)); err != nil {
		b.log.Error().Err(err).Int64("telegram_id", user.TelegramID).Msg("send pomodoro phase")
	}
}
