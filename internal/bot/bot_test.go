package bot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasbot/internal/entity"
	"kasbot/internal/nlparser"
	"kasbot/internal/sheetstore"
	"kasbot/internal/state"
)

const testChatID int64 = 42

// fakeAPI records every chattable handed to the Telegram client.
type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// lastMessageText returns the text of the most recently sent message,
// whether it was a new message or an edit.
func (f *fakeAPI) lastMessageText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent)
	switch msg := f.sent[len(f.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return msg.Text
	case tgbotapi.EditMessageTextConfig:
		return msg.Text
	default:
		t.Fatalf("unexpected chattable type %T", msg)
		return ""
	}
}

func newTestBot(t *testing.T, headers ...string) (*Bot, *fakeAPI, *sheetstore.MockStore, *state.Manager) {
	t.Helper()
	api := &fakeAPI{}
	store := sheetstore.NewMockStore(headers...)
	states := state.NewManager(filepath.Join(t.TempDir(), "states.json"), "spreadsheet-1", "Sheet1")
	parser := nlparser.NewWithClock(entity.NewResolver(), func() time.Time {
		return time.Date(2024, 5, 20, 14, 30, 0, 0, time.UTC)
	})
	return New(api, store, states, parser), api, store, states
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: testChatID},
		},
	}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-1",
			Data: data,
			Message: &tgbotapi.Message{
				MessageID: 10,
				Chat:      &tgbotapi.Chat{ID: testChatID},
			},
		},
	}
}

func TestStartCommandResetsToIdle(t *testing.T) {
	b, api, _, states := newTestBot(t, "timestamp", "item")
	states.SetMode(testChatID, state.ModeInput)

	update := textUpdate("/start")
	update.Message.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: 6},
	}
	b.HandleUpdate(context.Background(), update)

	assert.Equal(t, state.ModeIdle, states.Get(testChatID).Mode)
	assert.Contains(t, api.lastMessageText(t), "Welcome")
}

func TestIdleTextPointsToMenu(t *testing.T) {
	b, api, _, _ := newTestBot(t, "timestamp", "item")

	b.HandleUpdate(context.Background(), textUpdate("Laptop terjual 2 unit"))

	assert.Contains(t, api.lastMessageText(t), "menu buttons")
}

func TestInputModeAppendsProjectedRow(t *testing.T) {
	b, api, store, states := newTestBot(t, "timestamp", "item", "qty", "harga satuan", "total", "tipe")
	states.SetMode(testChatID, state.ModeInput)

	b.HandleUpdate(context.Background(), textUpdate("Laptop terjual 2 unit harga 3.6jt"))

	rows := store.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		"2024-05-20 14:30:00", "Laptop", "2", "3600000", "7200000", "sold",
	}, rows[0])

	confirmation := api.lastMessageText(t)
	assert.Contains(t, confirmation, "Data saved successfully")
	assert.Contains(t, confirmation, "Laptop")
	assert.Contains(t, confirmation, "Sheet1")

	// Input mode stays on for the next entry.
	assert.Equal(t, state.ModeInput, states.Get(testChatID).Mode)
}

func TestInputModeWithoutHeaders(t *testing.T) {
	b, api, store, states := newTestBot(t)
	states.SetMode(testChatID, state.ModeInput)

	b.HandleUpdate(context.Background(), textUpdate("Laptop terjual 2 unit"))

	assert.Empty(t, store.Rows())
	assert.Contains(t, api.lastMessageText(t), "no headers")
}

func TestHeaderAddFlow(t *testing.T) {
	b, api, store, states := newTestBot(t, "timestamp", "item")
	ctx := context.Background()

	b.HandleUpdate(ctx, callbackUpdate(callbackHeaderAdd))
	assert.Equal(t, state.ModeAwaitHeaderAdd, states.Get(testChatID).Mode)

	b.HandleUpdate(ctx, textUpdate("laba"))

	headers, err := store.Headers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"timestamp", "item", "laba"}, headers)
	assert.Equal(t, state.ModeIdle, states.Get(testChatID).Mode)
	assert.Contains(t, api.lastMessageText(t), "added successfully")
}

func TestHeaderRenameFlow(t *testing.T) {
	b, _, store, states := newTestBot(t, "timestamp", "qty")
	ctx := context.Background()

	b.HandleUpdate(ctx, callbackUpdate(prefixRenameHeader+"qty"))
	session := states.Get(testChatID)
	assert.Equal(t, state.ModeAwaitHeaderRename, session.Mode)
	assert.Equal(t, "qty", session.HeaderToRename)

	b.HandleUpdate(ctx, textUpdate("jumlah"))

	headers, err := store.Headers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"timestamp", "jumlah"}, headers)
	assert.Equal(t, state.ModeIdle, states.Get(testChatID).Mode)
}

func TestHeaderDeleteCallback(t *testing.T) {
	b, _, store, _ := newTestBot(t, "timestamp", "item", "qty")
	ctx := context.Background()

	b.HandleUpdate(ctx, callbackUpdate(prefixDeleteHeader+"qty"))

	headers, err := store.Headers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"timestamp", "item"}, headers)
}

func TestRowEditFlow(t *testing.T) {
	b, _, store, states := newTestBot(t, "timestamp", "item", "qty", "harga satuan", "total", "tipe")
	ctx := context.Background()
	require.NoError(t, store.AppendRow(ctx, []string{"2024-05-19 09:00:00", "Pulsa", "1", "50000", "50000", "bought"}))

	b.HandleUpdate(ctx, callbackUpdate(prefixEditRow+"2"))
	session := states.Get(testChatID)
	assert.Equal(t, state.ModeAwaitRowText, session.Mode)
	assert.Equal(t, 2, session.RowToEdit)

	b.HandleUpdate(ctx, textUpdate("Laptop terjual 2 unit harga 3.6jt"))

	rows := store.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Laptop", rows[0][1])
	assert.Equal(t, "7200000", rows[0][4])
	assert.Equal(t, state.ModeIdle, states.Get(testChatID).Mode)
}

func TestRowDeleteNeedsConfirmation(t *testing.T) {
	b, api, store, _ := newTestBot(t, "timestamp", "item")
	ctx := context.Background()
	require.NoError(t, store.AppendRow(ctx, []string{"2024-05-19 09:00:00", "Pulsa"}))

	b.HandleUpdate(ctx, callbackUpdate(prefixDeleteRow+"2"))
	assert.Len(t, store.Rows(), 1)
	assert.Contains(t, api.lastMessageText(t), "Are you sure")

	b.HandleUpdate(ctx, callbackUpdate(prefixConfirmDelete+"2"))
	assert.Empty(t, store.Rows())
}

func TestCancelCallbackResetsMode(t *testing.T) {
	b, api, _, states := newTestBot(t, "timestamp", "item")
	states.SetMode(testChatID, state.ModeAwaitHeaderAdd)

	b.HandleUpdate(context.Background(), callbackUpdate(callbackCancel))

	assert.Equal(t, state.ModeIdle, states.Get(testChatID).Mode)
	assert.Contains(t, api.lastMessageText(t), "cancelled")
}

func TestStopInputCallback(t *testing.T) {
	b, api, _, states := newTestBot(t, "timestamp", "item")
	states.SetMode(testChatID, state.ModeInput)

	b.HandleUpdate(context.Background(), callbackUpdate(callbackStopInput))

	assert.Equal(t, state.ModeIdle, states.Get(testChatID).Mode)
	assert.Contains(t, api.lastMessageText(t), "stopped")
}

func TestHelpButton(t *testing.T) {
	b, api, _, _ := newTestBot(t, "timestamp", "item")

	b.HandleUpdate(context.Background(), textUpdate(buttonHelp))

	assert.Contains(t, api.lastMessageText(t), "Usage Guide")
}

func TestHeaderButtonEnsuresMandatoryHeader(t *testing.T) {
	b, api, store, _ := newTestBot(t, "item", "qty")
	ctx := context.Background()

	b.HandleUpdate(ctx, textUpdate(buttonHeader))

	headers, err := store.Headers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"timestamp", "item", "qty"}, headers)
	assert.Contains(t, api.lastMessageText(t), "timestamp")
}
