package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kasbot/internal/state"
)

const helpText = "📖 **Bot Usage Guide**\n\n" +
	"**🗒️ Input Menu:**\n" +
	"• Press '🗒️ Input' to open the data menu.\n" +
	"• You can **Add**, **View**, **Edit**, or **Delete** entries.\n" +
	"• When adding/editing, type data naturally, e.g., 'Laptop terjual 2 unit harga 3.6jt'.\n\n" +
	"**📝 Header Management:**\n" +
	"• View, add, rename, or delete columns. The 'timestamp' header is mandatory and cannot be changed."

// handleStart resets the chat to idle and shows the main menu.
func (b *Bot) handleStart(msg *tgbotapi.Message) {
	b.states.SetMode(msg.Chat.ID, state.ModeIdle)

	reply := tgbotapi.NewMessage(msg.Chat.ID, "🤖 **Welcome to the bookkeeping bot!**\n\nPlease select an option from the menu below to get started.")
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = mainMenuKeyboard()
	b.send(reply)
}

// handleMenuButton routes main menu reply-keyboard presses.
func (b *Bot) handleMenuButton(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Text {
	case buttonHelp:
		b.reply(msg.Chat.ID, helpText)
	case buttonInput:
		b.showDataMenu(ctx, msg.Chat.ID)
	case buttonHeader:
		b.showHeaderOverview(ctx, msg.Chat.ID)
	default:
		b.reply(msg.Chat.ID, fmt.Sprintf("'%s' feature is not yet implemented.", msg.Text))
	}
}

func (b *Bot) showDataMenu(ctx context.Context, chatID int64) {
	session := b.states.Get(chatID)
	if err := b.store.EnsureMandatoryHeader(ctx); err != nil {
		b.reply(chatID, fmt.Sprintf("❌ Error accessing sheet: %v", err))
		return
	}

	text := fmt.Sprintf("🗒️ **Data Input Menu**\n\nYou are working on sheet: **'%s'**.\n\nPlease choose an action:", session.SheetName)
	b.replyWithKeyboard(chatID, text, dataMenuKeyboard())
}

func (b *Bot) showHeaderOverview(ctx context.Context, chatID int64) {
	session := b.states.Get(chatID)
	if err := b.store.EnsureMandatoryHeader(ctx); err != nil {
		b.reply(chatID, fmt.Sprintf("❌ Error accessing headers: %v", err))
		return
	}
	headers, err := b.store.Headers(ctx)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("❌ Error accessing headers: %v", err))
		return
	}

	var text string
	if len(headers) > 0 {
		text = fmt.Sprintf("📝 **Headers in '%s':**\n- %s", session.SheetName, strings.Join(headers, "\n- "))
	} else {
		text = fmt.Sprintf("📝 **Sheet '%s' has no headers yet.**", session.SheetName)
	}
	b.replyWithKeyboard(chatID, text+"\n\nSelect an option:", headerMenuKeyboard())
}
