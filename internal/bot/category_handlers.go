package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tempowise/internal/model"
)

func (b *Bot) handleCategories(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendCategoryList(ctx, msg.Chat.ID, user)
}

func (b *Bot) sendCategoryList(ctx context.Context, chatID int64, user *model.User) error {
	categories, err := b.svc.Categories.List(ctx, user)
	if err != nil {
		return b.replyError(chatID, err)
	}
	if len(categories) == 0 {
		return b.sendText(chatID, "No categories yet. Add one with /newcategory &lt;name&gt; [#color].")
	}

	var builder strings.Builder
	builder.WriteString("📂 <b>Categories</b>\n")
	ids := make([]string, 0, len(categories))
	for i, c := range categories {
		builder.WriteString(fmt.Sprintf("%d. %s <code>%s</code>\n", i+1, escape(c.Name), escape(c.Color)))
		ids = append(ids, c.ID)
	}
	builder.WriteString("\n/newcategory &lt;name&gt; [#color] · /editcategory &lt;n&gt; &lt;name&gt; [#color] · /delcategory &lt;n&gt;")
	return b.sendWithReplyMarkup(chatID, builder.String(), deleteInlineKeyboard(ids, cbDeleteCategory))
}

func (b *Bot) handleNewCategory(ctx context.Context, msg *tgbotapi.Message) error {
	name, color := splitColor(msg.CommandArguments())
	if name == "" {
		return b.sendText(msg.Chat.ID, "Usage: /newcategory &lt;name&gt; [#color], for example /newcategory Reading #0891b2")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	category, err := b.svc.Categories.Create(ctx, user, name, color)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Category <b>%s</b> created (<code>%s</code>).", escape(category.Name), escape(category.Color)))
}

func (b *Bot) handleEditCategory(ctx context.Context, msg *tgbotapi.Message) error {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) < 2 {
		return b.sendText(msg.Chat.ID, "Usage: /editcategory &lt;n&gt; &lt;name&gt; [#color]")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	categories, err := b.svc.Categories.List(ctx, user)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	n, err := parseIndex(fields[0], len(categories))
	if err != nil {
		return b.sendText(msg.Chat.ID, "Use the number from /categories. "+escape(capitalize(err.Error()))+".")
	}
	name, color := splitColor(strings.Join(fields[1:], " "))
	category, err := b.svc.Categories.Update(ctx, user, categories[n].ID, name, color)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✏️ Category updated: <b>%s</b> (<code>%s</code>).", escape(category.Name), escape(category.Color)))
}

func (b *Bot) handleDeleteCategory(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	categories, err := b.svc.Categories.List(ctx, user)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	n, err := parseIndex(msg.CommandArguments(), len(categories))
	if err != nil {
		return b.sendText(msg.Chat.ID, "Use the number from /categories, for example /delcategory 2. "+escape(capitalize(err.Error()))+".")
	}
	if err := b.svc.Categories.Delete(ctx, user, categories[n].ID); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Category «%s» deleted. Its activities now show as Uncategorized.", escape(categories[n].Name)))
}
