// Package parse contains the command that runs the transaction parser
// offline, without talking to Telegram or Google Sheets. Useful for checking
// how a sentence will be split up against a given header set.
package parse

import (
	"fmt"

	"github.com/spf13/cobra"

	"kasbot/cmd/root"
	"kasbot/internal/entity"
	"kasbot/internal/models"
	"kasbot/internal/nlparser"
	"kasbot/internal/projector"
)

var (
	text    string
	headers []string

	// Cmd is the parse command
	Cmd = &cobra.Command{
		Use:   "parse",
		Short: "Parse a transaction sentence against a header list and print the result.",
		RunE:  run,
	}
)

func init() {
	Cmd.Flags().StringVarP(&text, "text", "t", "", "Transaction sentence to parse")
	Cmd.Flags().StringSliceVarP(&headers, "headers", "H", []string{"timestamp", "item", "qty", "harga satuan", "total", "tipe"}, "Sheet headers, in column order")
	_ = Cmd.MarkFlagRequired("text")
}

func run(cmd *cobra.Command, args []string) error {
	if len(headers) == 0 {
		return fmt.Errorf("at least one header is required")
	}

	table, err := entity.LoadSynonyms(root.Cfg.Parser.SynonymsFile)
	if err != nil {
		return err
	}
	resolver := entity.NewResolverWithTable(table)
	parser := nlparser.New(resolver)

	active := resolver.Resolve(headers)
	record := parser.Parse(text, headers)
	row := projector.Project(record, headers, active)

	fmt.Println("Active entities:")
	for e, header := range active {
		fmt.Printf("  %-17s -> %s\n", e, header)
	}
	fmt.Println("Record:")
	for _, e := range []models.Entity{
		models.EntityTimestamp,
		models.EntityItemName,
		models.EntityQuantity,
		models.EntityUnitPrice,
		models.EntityTotalPrice,
		models.EntityTransactionType,
		models.EntityProfit,
	} {
		if v := record.Format(e); v != "" {
			fmt.Printf("  %-17s = %s\n", e, v)
		}
	}
	fmt.Println("Row:")
	for i, header := range headers {
		fmt.Printf("  %-20s | %s\n", header, row[i])
	}
	return nil
}
