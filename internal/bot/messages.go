package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kasbot/internal/models"
	"kasbot/internal/projector"
	"kasbot/internal/state"
)

// confirmationOrder fixes the order entities appear in the saved-data
// confirmation message.
var confirmationOrder = []models.Entity{
	models.EntityTimestamp,
	models.EntityItemName,
	models.EntityQuantity,
	models.EntityUnitPrice,
	models.EntityTotalPrice,
	models.EntityTransactionType,
	models.EntityProfit,
}

// handleText routes a plain text message based on the chat's current mode.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	session := b.states.Get(msg.Chat.ID)

	switch session.Mode {
	case state.ModeInput:
		b.handleInputData(ctx, msg, session)
	case state.ModeAwaitHeaderAdd:
		b.receiveHeaderAdd(ctx, msg)
	case state.ModeAwaitHeaderRename:
		b.receiveHeaderRename(ctx, msg, session)
	case state.ModeAwaitRowText:
		b.receiveRowUpdate(ctx, msg, session)
	default:
		b.reply(msg.Chat.ID, "💡 Please use the menu buttons to interact with the bot.")
	}
}

// handleInputData parses the message as a transaction and appends it as a
// row. The parse is header-driven: the live headers decide which fields are
// extracted and which reconciliations may fire.
func (b *Bot) handleInputData(ctx context.Context, msg *tgbotapi.Message, session state.Session) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	headers, err := b.store.Headers(ctx)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("❌ **Error processing data:**\n`%v`", err))
		return
	}
	if len(headers) == 0 {
		b.reply(chatID, "⚠️ **Error:** Sheet has no headers!")
		return
	}

	record := b.parser.Parse(text, headers)
	row := projector.Project(record, headers, b.parser.Resolve(headers))

	if err := b.store.AppendRow(ctx, row); err != nil {
		log.WithError(err).Error("Failed to append row")
		b.reply(chatID, "❌ **Failed to save data!**")
		return
	}

	b.replyWithKeyboard(chatID, confirmationText(record, session.SheetName), stopInputKeyboard())
}

// confirmationText builds the human-readable summary of the detected values.
func confirmationText(record models.Record, sheetName string) string {
	var sb strings.Builder
	sb.WriteString("✅ **Data saved successfully!**\n\n**Detected Values:**\n")
	for _, e := range confirmationOrder {
		value := record.Format(e)
		if value == "" {
			continue
		}
		fmt.Fprintf(&sb, "- **%s:** `%s`\n", entityLabel(e), value)
	}
	fmt.Fprintf(&sb, "\n📊 **Saved to:** %s", sheetName)
	return sb.String()
}

// entityLabel turns an entity key into a display label, e.g. "unit_price"
// becomes "Unit Price".
func entityLabel(e models.Entity) string {
	words := strings.Split(string(e), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// receiveHeaderAdd takes the typed header name and creates the column.
func (b *Bot) receiveHeaderAdd(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	name := strings.TrimSpace(msg.Text)

	if err := b.store.AddHeader(ctx, name); err != nil {
		log.WithError(err).Error("Failed to add header")
		b.reply(chatID, fmt.Sprintf("❌ Failed to add header **'%s'**.", name))
	} else {
		b.reply(chatID, fmt.Sprintf("✅ Header **'%s'** has been added successfully.", name))
	}
	b.states.SetMode(chatID, state.ModeIdle)
}

// receiveHeaderRename takes the new name for the header recorded in the
// session payload.
func (b *Bot) receiveHeaderRename(ctx context.Context, msg *tgbotapi.Message, session state.Session) {
	chatID := msg.Chat.ID
	newName := strings.TrimSpace(msg.Text)
	oldName := session.HeaderToRename

	if oldName == "" {
		b.reply(chatID, "❌ An error occurred. Please start over from the Header menu.")
		b.states.SetMode(chatID, state.ModeIdle)
		return
	}

	if err := b.store.RenameHeader(ctx, oldName, newName); err != nil {
		log.WithError(err).Error("Failed to rename header")
		b.reply(chatID, "❌ Failed to rename header. Make sure the header exists.")
	} else {
		b.reply(chatID, fmt.Sprintf("✅ Header **'%s'** has been renamed to **'%s'**.", oldName, newName))
	}
	b.states.SetMode(chatID, state.ModeIdle)
}

// receiveRowUpdate reparses the typed text and overwrites the row recorded
// in the session payload.
func (b *Bot) receiveRowUpdate(ctx context.Context, msg *tgbotapi.Message, session state.Session) {
	chatID := msg.Chat.ID
	rowNumber := session.RowToEdit

	if rowNumber == 0 {
		b.reply(chatID, "❌ An error occurred. Please start the edit process again.")
		b.states.SetMode(chatID, state.ModeIdle)
		return
	}

	headers, err := b.store.Headers(ctx)
	if err != nil || len(headers) == 0 {
		b.reply(chatID, fmt.Sprintf("❌ Error processing updated data: %v", err))
		b.states.SetMode(chatID, state.ModeIdle)
		return
	}

	record := b.parser.Parse(strings.TrimSpace(msg.Text), headers)
	row := projector.Project(record, headers, b.parser.Resolve(headers))

	if err := b.store.UpdateRow(ctx, rowNumber, row); err != nil {
		log.WithError(err).Error("Failed to update row")
		b.reply(chatID, fmt.Sprintf("❌ Failed to update **Row %d**.", rowNumber))
	} else {
		b.reply(chatID, fmt.Sprintf("✅ **Row %d** has been successfully updated.", rowNumber))
	}
	b.states.SetMode(chatID, state.ModeIdle)
}
