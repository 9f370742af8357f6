// Package export contains the command that dumps the bound sheet to a local
// CSV file.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"kasbot/cmd/root"
	"kasbot/internal/sheetstore"
)

var (
	output string

	// Cmd is the export command
	Cmd = &cobra.Command{
		Use:   "export",
		Short: "Export the sheet (headers and all data rows) to a CSV file.",
		RunE:  run,
	}
)

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "export.csv", "Output CSV file")
}

func run(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg
	if cfg.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("missing required environment variable: SPREADSHEET_ID")
	}

	ctx := context.Background()
	store, err := sheetstore.NewGoogleStore(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName)
	if err != nil {
		return fmt.Errorf("initialize sheet store: %w", err)
	}

	headers, err := store.Headers(ctx)
	if err != nil {
		return err
	}
	rows, err := store.RecentRows(ctx, 0)
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close output file")
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for _, row := range rows {
		// Pad narrow rows so every CSV record has one field per header.
		cells := row.Cells
		for len(cells) < len(headers) {
			cells = append(cells, "")
		}
		if err := w.Write(cells); err != nil {
			return fmt.Errorf("write row %d: %w", row.Number, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	root.Log.WithFields(logrus.Fields{
		"rows":   len(rows),
		"output": output,
	}).Info("Sheet exported")
	return nil
}
