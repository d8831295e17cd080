// Package bot is the Telegram front end: commands, dialogs, inline keyboards
// and push notifications from the timer and the report scheduler.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"tempowise/internal/model"
	"tempowise/internal/repository"
	"tempowise/internal/service"
	"tempowise/internal/timer"
)

// Services bundles everything the handlers call.
type Services struct {
	Users      *repository.UserRepository
	Categories *service.CategoryService
	Activities *service.ActivityService
	Goals      *service.GoalService
	Stats      *service.StatsService
	Energy     *service.EnergyService
	Timer      *service.TimerService
	Pomodoro   *service.PomodoroService
	Insights   *service.InsightService
	Reports    *service.ReportService
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api *tgbotapi.BotAPI
	svc Services
	loc *time.Location
	log zerolog.Logger

	mu      sync.Mutex
	dialogs map[int64]*dialogState
	// focus marks chats whose timer is active; their keyboard shows only timer controls.
	focus map[int64]bool
}

func New(token string, svc Services, loc *time.Location, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}

	log.Info().Str("account", api.Self.UserName).Msg("bot authorized")

	b := &Bot{
		api:     api,
		svc:     svc,
		loc:     loc,
		log:     log,
		dialogs: make(map[int64]*dialogState),
		focus:   make(map[int64]bool),
	}
	svc.Timer.SetNotifier(b)
	svc.Pomodoro.SetNotifier(b)
	return b, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commandList()...)); err != nil {
		b.log.Warn().Err(err).Msg("register command list")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info().Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Error().Err(err).Msg("handle callback")
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Error().Err(err).Int64("chat", update.Message.Chat.ID).Msg("handle message")
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelInput(msg.Text) {
		b.clearDialog(msg.Chat.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	}

	if msg.IsCommand() {
		b.log.Info().Int64("user", msg.From.ID).Str("command", msg.Command()).Msg("command")
		b.clearDialog(msg.Chat.ID)
		return b.handleCommand(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	if state := b.getDialog(msg.Chat.ID); state != nil {
		return b.handleDialog(ctx, msg, state)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Try /track to start a timer or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.sendText(msg.Chat.ID, helpText)
	case "track":
		return b.handleTrack(ctx, msg)
	case "pause":
		return b.handlePause(ctx, msg)
	case "resume":
		return b.handleResume(ctx, msg)
	case "stop":
		return b.handleStop(ctx, msg)
	case "status":
		return b.handleStatus(ctx, msg)
	case "target":
		return b.handleTarget(ctx, msg)
	case "tags":
		return b.handleTags(ctx, msg)
	case "pomodoro":
		return b.handlePomodoro(ctx, msg)
	case "log":
		return b.startLogDialog(ctx, msg)
	case "activities":
		return b.handleActivities(ctx, msg)
	case "delete":
		return b.handleDeleteActivity(ctx, msg)
	case "categories":
		return b.handleCategories(ctx, msg)
	case "newcategory":
		return b.handleNewCategory(ctx, msg)
	case "editcategory":
		return b.handleEditCategory(ctx, msg)
	case "delcategory":
		return b.handleDeleteCategory(ctx, msg)
	case "goals":
		return b.handleGoals(ctx, msg)
	case "newgoal":
		return b.startGoalDialog(ctx, msg)
	case "delgoal":
		return b.handleDeleteGoal(ctx, msg)
	case "stats":
		return b.handleStats(ctx, msg)
	case "energy":
		return b.handleEnergy(ctx, msg)
	case "insights":
		return b.handleInsights(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg)
	case "cancel":
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	seeded, err := b.svc.Categories.SeedDefaults(ctx, user)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if seeded {
		b.log.Info().Str("user", user.ID).Msg("default categories created")
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf("👋 Hi, %s!\n<b>I track where your time goes.</b>\n\n%s", escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(msg.Text) {
	case menuTrack:
		return true, b.handleTrack(ctx, msg)
	case menuLog:
		return true, b.startLogDialog(ctx, msg)
	case menuStats:
		return true, b.handleStats(ctx, msg)
	case menuGoals:
		return true, b.handleGoals(ctx, msg)
	case menuActivities:
		return true, b.handleActivities(ctx, msg)
	case menuHelp:
		return true, b.sendText(msg.Chat.ID, helpText)
	case menuPause:
		return true, b.handlePause(ctx, msg)
	case menuResume:
		return true, b.handleResume(ctx, msg)
	case menuStop:
		return true, b.handleStop(ctx, msg)
	case menuStatus:
		return true, b.handleStatus(ctx, msg)
	default:
		return false, nil
	}
}

// SendReports sends the daily summary to every known user.
func (b *Bot) SendReports(ctx context.Context) error {
	users, err := b.svc.Users.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now().In(b.loc)
	for i := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		user := users[i]
		text, err := b.svc.Reports.DailySummary(ctx, &user, now)
		if err != nil {
			b.log.Error().Err(err).Int64("telegram_id", user.TelegramID).Msg("build summary")
			continue
		}
		if err := b.sendText(user.TelegramID, text); err != nil {
			b.log.Error().Err(err).Int64("telegram_id", user.TelegramID).Msg("send summary")
		}
	}
	return nil
}

// TimerInterval implements service.TimerNotifier.
func (b *Bot) TimerInterval(user model.User, snap timer.Snapshot) {
	text := fmt.Sprintf("🔔 %s on <b>%s</b>. Keep going or take a short break.",
		formatElapsedWords(snap.Elapsed), escape(snap.Description))
	if err := b.sendText(user.TelegramID, text); err != nil {
		b.log.Error().Err(err).Int64("telegram_id", user.TelegramID).Msg("send interval chime")
	}
}

// TimerCompleted implements service.TimerNotifier.
func (b *Bot) TimerCompleted(user model.User, activity model.Activity, err error) {
	b.setFocus(user.TelegramID, false)
	text := "🏁 <b>Target reached!</b>\n" + formatActivitySaved(activity)
	if err != nil {
		text = "🏁 <b>Target reached</b>, but the activity could not be saved. Please log it with /log."
	}
	if sendErr := b.sendText(user.TelegramID, text); sendErr != nil {
		b.log.Error().Err(sendErr).Int64("telegram_id", user.TelegramID).Msg("send completion")
	}
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.svc.Users.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

// replyError turns a handler error into a chat reply. Only unexpected
// failures are logged; the returned error is the send error.
func (b *Bot) replyError(chatID int64, err error) error {
	var v *service.ValidationError
	switch {
	case errors.As(err, &v):
		return b.sendText(chatID, "⚠️ "+escape(capitalize(v.Message))+".")
	case errors.Is(err, service.ErrNoSession):
		return b.sendText(chatID, "No timer is running. Start one with /track.")
	case errors.Is(err, timer.ErrAlreadyActive):
		return b.sendText(chatID, "A timer is already running. /stop it first.")
	case errors.Is(err, timer.ErrNotRunning):
		return b.sendText(chatID, "The timer is not running.")
	case errors.Is(err, timer.ErrNotPaused):
		return b.sendText(chatID, "The timer is not paused.")
	case errors.Is(err, repository.ErrNotFound):
		return b.sendText(chatID, "Not found. It may have been deleted already.")
	default:
		b.log.Error().Stack().Err(err).Int64("chat", chatID).Msg("request failed")
		return b.sendText(chatID, "❌ Something went wrong while talking to the database. Please try again.")
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendWithReplyMarkup(chatID, text, b.menuFor(chatID))
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) ackCallback(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		b.log.Warn().Err(err).Msg("callback ack")
	}
}

func (b *Bot) menuFor(chatID int64) tgbotapi.ReplyKeyboardMarkup {
	if b.inFocus(chatID) {
		return focusKeyboard()
	}
	return mainMenuKeyboard()
}

func (b *Bot) setFocus(chatID int64, on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if on {
		b.focus[chatID] = true
	} else {
		delete(b.focus, chatID)
	}
}

func (b *Bot) inFocus(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.focus[chatID]
}

func (b *Bot) now() time.Time {
	return time.Now().In(b.loc)
}
