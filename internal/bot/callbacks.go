package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kasbot/internal/models"
	"kasbot/internal/state"
)

// recentRowLimit caps how many rows the view/edit/delete pickers show.
const recentRowLimit = 5

// handleCallback routes inline keyboard presses.
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	data := cb.Data

	switch {
	case data == callbackStopInput:
		return b.stopInput(cb)
	case data == callbackCancel:
		return b.cancelAction(cb)

	case data == callbackHeaderAdd:
		return b.startHeaderAdd(cb)
	case data == callbackHeaderRenameStart:
		return b.pickHeaderForRename(ctx, cb)
	case strings.HasPrefix(data, prefixRenameHeader):
		return b.startHeaderRename(cb, strings.TrimPrefix(data, prefixRenameHeader))
	case data == callbackHeaderDeleteStart:
		return b.pickHeaderForDelete(ctx, cb)
	case strings.HasPrefix(data, prefixDeleteHeader):
		return b.deleteHeader(ctx, cb, strings.TrimPrefix(data, prefixDeleteHeader))

	case data == callbackDataAddStart:
		return b.startDataInput(cb)
	case data == callbackDataViewRecent:
		return b.viewRecentRows(ctx, cb)
	case data == callbackDataEditStart:
		return b.pickRowForEdit(ctx, cb)
	case strings.HasPrefix(data, prefixEditRow):
		return b.startRowEdit(cb, strings.TrimPrefix(data, prefixEditRow))
	case data == callbackDataDeleteStart:
		return b.pickRowForDelete(ctx, cb)
	case strings.HasPrefix(data, prefixDeleteRow):
		return b.confirmRowDelete(cb, strings.TrimPrefix(data, prefixDeleteRow))
	case strings.HasPrefix(data, prefixConfirmDelete):
		return b.deleteRow(ctx, cb, strings.TrimPrefix(data, prefixConfirmDelete))
	}
	return nil
}

func (b *Bot) stopInput(cb *tgbotapi.CallbackQuery) error {
	chatID := cb.Message.Chat.ID
	b.states.SetMode(chatID, state.ModeIdle)
	b.answerCallback(cb.ID, "Input mode stopped.", false)

	msg := tgbotapi.NewMessage(chatID, "🛑 **Input mode has been stopped.** You are back to the main menu.")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = mainMenuKeyboard()
	b.send(msg)
	return nil
}

func (b *Bot) cancelAction(cb *tgbotapi.CallbackQuery) error {
	b.states.SetMode(cb.Message.Chat.ID, state.ModeIdle)
	b.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, "❌ **Action has been cancelled.**", nil)
	b.answerCallback(cb.ID, "Cancelled.", false)
	return nil
}

func (b *Bot) startHeaderAdd(cb *tgbotapi.CallbackQuery) error {
	b.states.SetMode(cb.Message.Chat.ID, state.ModeAwaitHeaderAdd)
	keyboard := cancelKeyboard()
	b.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, "Please type the name for the new header column:", &keyboard)
	b.answerCallback(cb.ID, "", false)
	return nil
}

// editableHeaders filters out the mandatory header, which can be neither
// renamed nor deleted.
func (b *Bot) editableHeaders(ctx context.Context) ([]string, error) {
	headers, err := b.store.Headers(ctx)
	if err != nil {
		return nil, err
	}
	var editable []string
	for _, h := range headers {
		if !strings.EqualFold(h, models.MandatoryHeader) {
			editable = append(editable, h)
		}
	}
	return editable, nil
}

func (b *Bot) pickHeaderForRename(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	headers, err := b.editableHeaders(ctx)
	if err != nil {
		return err
	}
	if len(headers) == 0 {
		b.answerCallback(cb.ID, "No other headers are available to rename.", true)
		return nil
	}
	keyboard := headerListKeyboard(headers, prefixRenameHeader, "")
	b.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, "Select the header you want to rename:", &keyboard)
	return nil
}

func (b *Bot) startHeaderRename(cb *tgbotapi.CallbackQuery, oldName string) error {
	chatID := cb.Message.Chat.ID
	session := b.states.Get(chatID)
	session.Mode = state.ModeAwaitHeaderRename
	session.HeaderToRename = oldName
	b.states.Set(chatID, session)

	keyboard := cancelKeyboard()
	b.editMessage(chatID, cb.Message.MessageID, fmt.Sprintf("What is the new name for **'%s'**?", oldName), &keyboard)
	b.answerCallback(cb.ID, "", false)
	return nil
}

func (b *Bot) pickHeaderForDelete(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	headers, err := b.editableHeaders(ctx)
	if err != nil {
		return err
	}
	if len(headers) == 0 {
		b.answerCallback(cb.ID, "No other headers are available to delete.", true)
		return nil
	}
	keyboard := headerListKeyboard(headers, prefixDeleteHeader, "🗑️ ")
	b.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, "Select the header you want to **delete permanently**:", &keyboard)
	return nil
}

func (b *Bot) deleteHeader(ctx context.Context, cb *tgbotapi.CallbackQuery, name string) error {
	if err := b.store.DeleteHeader(ctx, name); err != nil {
		log.WithError(err).Error("Failed to delete header")
		b.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("❌ Failed to delete header **'%s'**.", name), nil)
		b.answerCallback(cb.ID, "Error!", true)
		return nil
	}
	b.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("✅ Header **'%s'** and its column have been deleted.", name), nil)
	b.answerCallback(cb.ID, "Header deleted!", true)
	return nil
}

func (b *Bot) startDataInput(cb *tgbotapi.CallbackQuery) error {
	b.states.SetMode(cb.Message.Chat.ID, state.ModeInput)
	keyboard := cancelKeyboard()
	b.editMessage(cb.Message.Chat.ID, cb.Message.MessageID,
		"✅ **Input Mode Activated**\n\nStart typing your entries. Press 'Cancel' if you change your mind.", &keyboard)
	return nil
}

func (b *Bot) viewRecentRows(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	session := b.states.Get(cb.Message.Chat.ID)
	rows, err := b.store.RecentRows(ctx, recentRowLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		b.answerCallback(cb.ID, "No recent data found.", true)
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📄 **%d Recent Entries in '%s':**\n\n", len(rows), session.SheetName)
	for _, row := range rows {
		preview := strings.Join(row.Cells[:min(3, len(row.Cells))], " | ")
		if len(preview) > 50 {
			preview = preview[:50]
		}
		fmt.Fprintf(&sb, "`Row %d`: %s...\n", row.Number, preview)
	}

	keyboard := cancelKeyboard()
	b.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, sb.String(), &keyboard)
	b.answerCallback(cb.ID, "", false)
	return nil
}

func (b *Bot) pickRowForEdit(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	rows, err := b.store.RecentRows(ctx, recentRowLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		b.answerCallback(cb.ID, "No recent data to edit.", true)
		return nil
	}
	keyboard := rowListKeyboard(rows, prefixEditRow, "")
	b.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, "✏️ Select an entry to edit:", &keyboard)
	return nil
}

func (b *Bot) startRowEdit(cb *tgbotapi.CallbackQuery, payload string) error {
	rowNumber, err := strconv.Atoi(payload)
	if err != nil {
		return fmt.Errorf("bad row payload %q: %w", payload, err)
	}

	chatID := cb.Message.Chat.ID
	session := b.states.Get(chatID)
	session.Mode = state.ModeAwaitRowText
	session.RowToEdit = rowNumber
	b.states.Set(chatID, session)

	keyboard := cancelKeyboard()
	b.editMessage(chatID, cb.Message.MessageID, fmt.Sprintf("Please send the new, complete text for **Row %d**.", rowNumber), &keyboard)
	return nil
}

func (b *Bot) pickRowForDelete(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	rows, err := b.store.RecentRows(ctx, recentRowLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		b.answerCallback(cb.ID, "No recent data to delete.", true)
		return nil
	}
	keyboard := rowListKeyboard(rows, prefixDeleteRow, "🗑️ ")
	b.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, "🗑️ Select an entry to delete:", &keyboard)
	return nil
}

func (b *Bot) confirmRowDelete(cb *tgbotapi.CallbackQuery, payload string) error {
	rowNumber, err := strconv.Atoi(payload)
	if err != nil {
		return fmt.Errorf("bad row payload %q: %w", payload, err)
	}
	keyboard := confirmDeleteKeyboard(rowNumber)
	b.editMessage(cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("⚠️ Are you sure you want to permanently delete **Row %d**?", rowNumber), &keyboard)
	return nil
}

func (b *Bot) deleteRow(ctx context.Context, cb *tgbotapi.CallbackQuery, payload string) error {
	rowNumber, err := strconv.Atoi(payload)
	if err != nil {
		return fmt.Errorf("bad row payload %q: %w", payload, err)
	}

	if err := b.store.DeleteRow(ctx, rowNumber); err != nil {
		log.WithError(err).Error("Failed to delete row")
		b.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("❌ Failed to delete **Row %d**.", rowNumber), nil)
		b.answerCallback(cb.ID, "Error!", true)
		return nil
	}
	b.editMessage(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("✅ **Row %d** has been deleted successfully.", rowNumber), nil)
	b.answerCallback(cb.ID, "Row deleted!", true)
	return nil
}
