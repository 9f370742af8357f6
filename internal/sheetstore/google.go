package sheetstore

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"kasbot/internal/models"
)

var log = logrus.New()

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// GoogleStore implements Store on top of the Google Sheets API, bound to one
// spreadsheet and one sheet (tab).
type GoogleStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

var _ Store = (*GoogleStore)(nil)

// NewGoogleStore builds a Sheets client from a service account credentials
// file and binds it to the given spreadsheet and sheet.
func NewGoogleStore(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*GoogleStore, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	config, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("JWT config from JSON: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func (s *GoogleStore) Headers(ctx context.Context) ([]string, error) {
	rng := fmt.Sprintf("%s!1:1", s.sheetName)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get headers: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return toStrings(resp.Values[0]), nil
}

func (s *GoogleStore) AddHeader(ctx context.Context, name string) error {
	if err := s.EnsureMandatoryHeader(ctx); err != nil {
		return err
	}
	headers, err := s.Headers(ctx)
	if err != nil {
		return err
	}
	cell := fmt.Sprintf("%s!%s1", s.sheetName, columnLetter(len(headers)))
	vr := &sheets.ValueRange{Values: [][]any{{name}}}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, cell, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add header %q: %w", name, err)
	}
	return nil
}

func (s *GoogleStore) RenameHeader(ctx context.Context, oldName, newName string) error {
	if isMandatory(oldName) {
		return ErrMandatoryHeader
	}
	idx, err := s.headerIndex(ctx, oldName)
	if err != nil {
		return err
	}
	cell := fmt.Sprintf("%s!%s1", s.sheetName, columnLetter(idx))
	vr := &sheets.ValueRange{Values: [][]any{{newName}}}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, cell, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("rename header %q: %w", oldName, err)
	}
	return nil
}

func (s *GoogleStore) DeleteHeader(ctx context.Context, name string) error {
	if isMandatory(name) {
		return ErrMandatoryHeader
	}
	idx, err := s.headerIndex(ctx, name)
	if err != nil {
		return err
	}
	sheetID, err := s.sheetID(ctx)
	if err != nil {
		return err
	}
	return s.deleteDimension(ctx, sheetID, "COLUMNS", idx, idx+1)
}

func (s *GoogleStore) AppendRow(ctx context.Context, row []string) error {
	rng := fmt.Sprintf("%s!A1", s.sheetName)
	vr := &sheets.ValueRange{Values: [][]any{toAnys(row)}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

func (s *GoogleStore) UpdateRow(ctx context.Context, rowNumber int, row []string) error {
	rng := fmt.Sprintf("%s!A%d", s.sheetName, rowNumber)
	vr := &sheets.ValueRange{Values: [][]any{toAnys(row)}}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update row %d: %w", rowNumber, err)
	}
	return nil
}

func (s *GoogleStore) DeleteRow(ctx context.Context, rowNumber int) error {
	sheetID, err := s.sheetID(ctx)
	if err != nil {
		return err
	}
	return s.deleteDimension(ctx, sheetID, "ROWS", rowNumber-1, rowNumber)
}

func (s *GoogleStore) RecentRows(ctx context.Context, limit int) ([]RowData, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.sheetName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get rows: %w", err)
	}
	if len(resp.Values) <= 1 {
		return nil, nil
	}

	dataRows := resp.Values[1:]
	start := 0
	if limit > 0 && len(dataRows) > limit {
		start = len(dataRows) - limit
	}

	var result []RowData
	for i, row := range dataRows[start:] {
		result = append(result, RowData{
			// +2: one for the header row, one for 1-based numbering.
			Number: start + i + 2,
			Cells:  toStrings(row),
		})
	}
	return result, nil
}

func (s *GoogleStore) EnsureMandatoryHeader(ctx context.Context) error {
	headers, err := s.Headers(ctx)
	if err != nil {
		return err
	}
	if len(headers) > 0 && strings.EqualFold(headers[0], models.MandatoryHeader) {
		return nil
	}

	log.WithField("sheet", s.sheetName).Info("Fixing header row, mandatory header rule not met")

	newHeaders := []string{models.MandatoryHeader}
	for _, h := range headers {
		if !isMandatory(h) {
			newHeaders = append(newHeaders, h)
		}
	}

	sheetID, err := s.sheetID(ctx)
	if err != nil {
		return err
	}
	if len(headers) > 0 {
		if err := s.deleteDimension(ctx, sheetID, "ROWS", 0, 1); err != nil {
			return err
		}
	}
	if err := s.insertRows(ctx, sheetID, 0, 1); err != nil {
		return err
	}
	return s.UpdateRow(ctx, 1, newHeaders)
}

// headerIndex returns the 0-based column index of a header, matched
// case-insensitively.
func (s *GoogleStore) headerIndex(ctx context.Context, name string) (int, error) {
	headers, err := s.Headers(ctx)
	if err != nil {
		return 0, err
	}
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrHeaderNotFound, name)
}

// sheetID resolves the numeric sheet id of the bound tab, needed for
// dimension requests.
func (s *GoogleStore) sheetID(ctx context.Context) (int64, error) {
	resp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == s.sheetName {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", s.sheetName)
}

func (s *GoogleStore) deleteDimension(ctx context.Context, sheetID int64, dimension string, start, end int) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  dimension,
					StartIndex: int64(start),
					EndIndex:   int64(end),
				},
			},
		}},
	}
	_, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete %s %d-%d: %w", strings.ToLower(dimension), start, end, err)
	}
	return nil
}

func (s *GoogleStore) insertRows(ctx context.Context, sheetID int64, start, end int) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(start),
					EndIndex:   int64(end),
				},
			},
		}},
	}
	_, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("insert rows %d-%d: %w", start, end, err)
	}
	return nil
}

// columnLetter converts a 0-based column index to its A1-notation letters.
func columnLetter(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func toAnys(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
