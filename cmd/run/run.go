// Package run contains the command that starts the Telegram bot.
package run

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"kasbot/cmd/root"
	"kasbot/internal/bot"
	"kasbot/internal/entity"
	"kasbot/internal/nlparser"
	"kasbot/internal/sheetstore"
	"kasbot/internal/state"
)

// Cmd is the run command
var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Telegram bot with long polling.",
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg
	if err := cfg.ValidateForBot(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sheetstore.NewGoogleStore(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName)
	if err != nil {
		return fmt.Errorf("initialize sheet store: %w", err)
	}

	states := state.NewManager(cfg.State.File, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName)
	if err := states.Load(); err != nil {
		return fmt.Errorf("load user states: %w", err)
	}
	root.Log.Info("User states loaded")

	table, err := entity.LoadSynonyms(cfg.Parser.SynonymsFile)
	if err != nil {
		return fmt.Errorf("load synonym table: %w", err)
	}
	parser := nlparser.New(entity.NewResolverWithTable(table))

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("create bot API client: %w", err)
	}
	api.Debug = cfg.Telegram.Debug

	// Refresh the command list on every startup.
	commands := tgbotapi.NewSetMyCommands(tgbotapi.BotCommand{
		Command:     "start",
		Description: "▶️ Start the bot & show the main menu",
	})
	if _, err := api.Request(commands); err != nil {
		root.Log.WithError(err).Error("Failed to set bot commands")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)

	root.Log.WithField("username", api.Self.UserName).Info("Bot started")

	bot.New(api, store, states, parser).Run(ctx, updates)

	if err := states.Save(); err != nil {
		root.Log.WithError(err).Error("Failed to save user states")
	}
	root.Log.Info("Bot shutdown complete")
	return nil
}
