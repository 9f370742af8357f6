package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kasbot/internal/sheetstore"
)

// Main menu reply keyboard labels.
const (
	buttonHelp         = "🆘 Help"
	buttonInput        = "🗒️ Input"
	buttonHeader       = "📝 Header"
	buttonSheets       = "📒 Sheets"
	buttonSpreadsheets = "🗃️ Spreadsheets"
)

// Callback data values for inline keyboards. Values carrying a payload
// (header name, row number) append it after the prefix.
const (
	callbackStopInput         = "stop_input"
	callbackCancel            = "cancel_action"
	callbackHeaderAdd         = "header_add"
	callbackHeaderRenameStart = "header_rename_start"
	callbackHeaderDeleteStart = "header_delete_start"
	callbackDataAddStart      = "data_add_start"
	callbackDataViewRecent    = "data_view_recent"
	callbackDataEditStart     = "data_edit_start"
	callbackDataDeleteStart   = "data_delete_start"

	prefixRenameHeader  = "rename_header_"
	prefixDeleteHeader  = "delete_header_"
	prefixEditRow       = "edit_row_"
	prefixDeleteRow     = "delete_row_"
	prefixConfirmDelete = "confirm_delete_"
)

func isMenuButton(text string) bool {
	switch text {
	case buttonHelp, buttonInput, buttonHeader, buttonSheets, buttonSpreadsheets:
		return true
	}
	return false
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonHelp),
			tgbotapi.NewKeyboardButton(buttonInput),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonHeader),
			tgbotapi.NewKeyboardButton(buttonSheets),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonSpreadsheets),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func cancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", callbackCancel),
		),
	)
}

func stopInputKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛑 Stop Input Mode", callbackStopInput),
		),
	)
}

func headerMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add Header", callbackHeaderAdd),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Rename Header", callbackHeaderRenameStart),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Delete Header", callbackHeaderDeleteStart),
		),
	)
}

func dataMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add New Entry", callbackDataAddStart),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 View Recent Entries", callbackDataViewRecent),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit an Entry", callbackDataEditStart),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Delete an Entry", callbackDataDeleteStart),
		),
	)
}

// headerListKeyboard renders one button per header, payload appended to the
// given callback prefix, plus a cancel row.
func headerListKeyboard(headers []string, prefix, labelPrefix string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(headers)+1)
	for _, h := range headers {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(labelPrefix+h, prefix+h),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", callbackCancel),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// rowListKeyboard renders one button per recent row with a short preview,
// payload appended to the given callback prefix, plus a cancel row.
func rowListKeyboard(rows []sheetstore.RowData, prefix, labelPrefix string) tgbotapi.InlineKeyboardMarkup {
	buttons := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows)+1)
	for _, row := range rows {
		label := fmt.Sprintf("%sRow %d: %s", labelPrefix, row.Number, rowPreview(row.Cells, 1, 30))
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d", prefix, row.Number)),
		))
	}
	buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", callbackCancel),
	))
	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}

func confirmDeleteKeyboard(rowNumber int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("‼️ YES, DELETE THIS ROW", fmt.Sprintf("%s%d", prefixConfirmDelete, rowNumber)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ No, go back", callbackDataDeleteStart),
		),
	)
}

// rowPreview returns a truncated view of the cell at idx, falling back to
// the first cell for narrow rows.
func rowPreview(cells []string, idx, max int) string {
	if idx >= len(cells) {
		idx = 0
	}
	if len(cells) == 0 {
		return ""
	}
	text := cells[idx]
	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}
