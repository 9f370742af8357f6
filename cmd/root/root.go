// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"kasbot/internal/bot"
	"kasbot/internal/config"
	"kasbot/internal/nlparser"
	"kasbot/internal/sheetstore"
	"kasbot/internal/state"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration, available to all
	// subcommands after PersistentPreRunE has run.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "kasbot",
		Short: "A Telegram bookkeeping bot that logs natural-language entries to Google Sheets.",
		Long: `kasbot is a Telegram bot for simple bookkeeping. Users type transactions
in colloquial Indonesian/English ("Laptop terjual 2 unit harga 3.6jt") and the
bot parses them against the sheet's live column headers and appends a row.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to kasbot!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			var err error
			Cfg, err = config.Initialize()
			if err != nil {
				return err
			}
			Log = config.ConfigureLogging(Cfg)

			// Set the configured logger everywhere
			nlparser.SetLogger(Log)
			sheetstore.SetLogger(Log)
			state.SetLogger(Log)
			bot.SetLogger(Log)
			return nil
		},
	}
)
