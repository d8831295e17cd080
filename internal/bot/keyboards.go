package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tempowise/internal/model"
)

const (
	menuTrack      = "⏱ Track"
	menuLog        = "📝 Log"
	menuActivities = "🗂 Activities"
	menuStats      = "📊 Stats"
	menuGoals      = "🎯 Goals"
	menuHelp       = "ℹ️ Help"
	menuPause      = "⏸ Pause"
	menuResume     = "▶️ Resume"
	menuStop       = "⏹ Stop"
	menuStatus     = "⏱ Status"

	btnCancel  = "⏪ Cancel"
	btnSkip    = "⏭️ Skip"
	btnSuggest = "✨ Suggest"

	inlineColumns = 2
	deleteColumns = 5
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuTrack),
			tgbotapi.NewKeyboardButton(menuLog),
			tgbotapi.NewKeyboardButton(menuActivities),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuStats),
			tgbotapi.NewKeyboardButton(menuGoals),
			tgbotapi.NewKeyboardButton(menuHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// focusKeyboard hides everything except the timer controls.
func focusKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuPause),
			tgbotapi.NewKeyboardButton(menuResume),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuStop),
			tgbotapi.NewKeyboardButton(menuStatus),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func tagsKeyboard(withSuggest bool) tgbotapi.ReplyKeyboardMarkup {
	row := tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip))
	if withSuggest {
		row = append(row, tgbotapi.NewKeyboardButton(btnSuggest))
	}
	row = append(row, tgbotapi.NewKeyboardButton(btnCancel))
	kb := tgbotapi.NewReplyKeyboard(row)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func categoryInlineKeyboard(categories []model.Category, prefix string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range categories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(shortLabel(c.Name, 24), prefix+c.ID))
		if len(row) == inlineColumns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// deleteInlineKeyboard numbers buttons 1..len(ids) to match the list above it.
func deleteInlineKeyboard(ids []string, prefix string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, id := range ids {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 %d", i+1), prefix+id))
		if len(row) == deleteColumns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func isCancelInput(text string) bool {
	text = strings.TrimSpace(text)
	return text == btnCancel || strings.EqualFold(text, "cancel")
}

func isSkipInput(text string) bool {
	text = strings.TrimSpace(text)
	return text == btnSkip || strings.EqualFold(text, "skip") || text == "-"
}
