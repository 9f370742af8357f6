// Package bot wires the Telegram transport to the parser core and the sheet
// store: command and menu routing, mode-based text handling, and inline
// keyboard callbacks for the header and data CRUD flows.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"kasbot/internal/nlparser"
	"kasbot/internal/sheetstore"
	"kasbot/internal/state"
)

var log = logrus.New()

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// api is the slice of the Telegram client the bot uses. *tgbotapi.BotAPI
// satisfies it; tests substitute a recorder.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot routes Telegram updates to the right flow based on per-chat state.
type Bot struct {
	api    api
	store  sheetstore.Store
	states *state.Manager
	parser *nlparser.Parser
}

// New assembles a bot from its collaborators.
func New(api api, store sheetstore.Store, states *state.Manager, parser *nlparser.Parser) *Bot {
	return &Bot{
		api:    api,
		store:  store,
		states: states,
		parser: parser,
	}
}

// Run consumes updates until the channel closes or the context is canceled.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches one update. Handler errors are logged and surfaced
// to the user as error replies; they never stop the loop.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			log.WithError(err).Error("Callback handler failed")
			b.answerCallback(update.CallbackQuery.ID, "An error occurred.", true)
		}
	case update.Message != nil && update.Message.Text != "":
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		if msg.Command() == "start" {
			b.handleStart(msg)
		}
		return
	}
	if isMenuButton(msg.Text) {
		b.handleMenuButton(ctx, msg)
		return
	}
	b.handleText(ctx, msg)
}

// send delivers a chattable and logs failures; Telegram hiccups must not
// bring the update loop down.
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.WithError(err).Error("Failed to send message")
	}
}

// reply sends a Markdown text message to a chat.
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.send(msg)
}

// replyWithKeyboard sends a Markdown text message with an inline keyboard.
func (b *Bot) replyWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

// editMessage replaces the text and keyboard of an existing message, used by
// callback flows to update the menu in place.
func (b *Bot) editMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.ReplyMarkup = keyboard
	b.send(edit)
}

func (b *Bot) answerCallback(callbackID, text string, alert bool) {
	answer := tgbotapi.NewCallback(callbackID, text)
	answer.ShowAlert = alert
	if _, err := b.api.Request(answer); err != nil {
		log.WithError(err).Error("Failed to answer callback query")
	}
}
