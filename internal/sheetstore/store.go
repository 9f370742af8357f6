// Package sheetstore abstracts the tabular store behind row and column
// primitives. The bot only ever talks to the Store interface; the Google
// Sheets implementation lives in google.go and an in-memory mock for tests
// in mock.go.
package sheetstore

import (
	"context"
	"errors"
	"strings"

	"kasbot/internal/models"
)

// Sentinel errors shared by all implementations.
var (
	// ErrMandatoryHeader is returned when an operation would rename or
	// delete the mandatory timestamp column.
	ErrMandatoryHeader = errors.New("the mandatory timestamp header cannot be changed")

	// ErrHeaderNotFound is returned when a named header does not exist.
	ErrHeaderNotFound = errors.New("header not found")

	// ErrRowNotFound is returned when a row number is out of range.
	ErrRowNotFound = errors.New("row not found")
)

// RowData is one data row together with its 1-based sheet row number
// (the header row is row 1, so data starts at row 2).
type RowData struct {
	Number int
	Cells  []string
}

// Store is the tabular store the bot writes bookkeeping rows to.
type Store interface {
	// Headers returns the header row, in column order.
	Headers(ctx context.Context) ([]string, error)

	// AddHeader appends a new header in the first empty column.
	AddHeader(ctx context.Context, name string) error

	// RenameHeader renames an existing header. The mandatory header is
	// protected.
	RenameHeader(ctx context.Context, oldName, newName string) error

	// DeleteHeader removes a header and its whole column. The mandatory
	// header is protected.
	DeleteHeader(ctx context.Context, name string) error

	// AppendRow appends one data row below the existing rows.
	AppendRow(ctx context.Context, row []string) error

	// UpdateRow overwrites the cells of the given 1-based row.
	UpdateRow(ctx context.Context, rowNumber int, row []string) error

	// DeleteRow removes the given 1-based row.
	DeleteRow(ctx context.Context, rowNumber int) error

	// RecentRows returns up to limit of the most recent data rows. A
	// limit of zero or less returns every data row.
	RecentRows(ctx context.Context, limit int) ([]RowData, error)

	// EnsureMandatoryHeader makes sure the mandatory timestamp header
	// exists and sits in the first column, rewriting the header row if
	// needed.
	EnsureMandatoryHeader(ctx context.Context) error
}

// isMandatory reports whether name is the protected timestamp header.
func isMandatory(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), models.MandatoryHeader)
}
