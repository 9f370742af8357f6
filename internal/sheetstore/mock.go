package sheetstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"kasbot/internal/models"
)

// MockStore is an in-memory Store used in tests and offline development. It
// keeps the same header and row semantics as the Google implementation,
// including mandatory header protection.
type MockStore struct {
	mu      sync.Mutex
	headers []string
	rows    [][]string

	// Err, when set, is returned by every operation. Lets tests exercise
	// failure paths.
	Err error
}

var _ Store = (*MockStore)(nil)

// NewMockStore creates a mock store with the given headers and no data rows.
func NewMockStore(headers ...string) *MockStore {
	return &MockStore{headers: headers}
}

// Rows returns a copy of the current data rows, for assertions.
func (s *MockStore) Rows() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func (s *MockStore) Headers(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]string(nil), s.headers...), nil
}

func (s *MockStore) AddHeader(ctx context.Context, name string) error {
	if err := s.EnsureMandatoryHeader(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.headers = append(s.headers, name)
	return nil
}

func (s *MockStore) RenameHeader(ctx context.Context, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if isMandatory(oldName) {
		return ErrMandatoryHeader
	}
	idx := s.headerIndex(oldName)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrHeaderNotFound, oldName)
	}
	s.headers[idx] = newName
	return nil
}

func (s *MockStore) DeleteHeader(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if isMandatory(name) {
		return ErrMandatoryHeader
	}
	idx := s.headerIndex(name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrHeaderNotFound, name)
	}
	s.headers = append(s.headers[:idx], s.headers[idx+1:]...)
	for i, row := range s.rows {
		if idx < len(row) {
			s.rows[i] = append(row[:idx], row[idx+1:]...)
		}
	}
	return nil
}

func (s *MockStore) AppendRow(ctx context.Context, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.rows = append(s.rows, append([]string(nil), row...))
	return nil
}

func (s *MockStore) UpdateRow(ctx context.Context, rowNumber int, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	idx := rowNumber - 2
	if idx < 0 || idx >= len(s.rows) {
		return fmt.Errorf("%w: %d", ErrRowNotFound, rowNumber)
	}
	s.rows[idx] = append([]string(nil), row...)
	return nil
}

func (s *MockStore) DeleteRow(ctx context.Context, rowNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	idx := rowNumber - 2
	if idx < 0 || idx >= len(s.rows) {
		return fmt.Errorf("%w: %d", ErrRowNotFound, rowNumber)
	}
	s.rows = append(s.rows[:idx], s.rows[idx+1:]...)
	return nil
}

func (s *MockStore) RecentRows(ctx context.Context, limit int) ([]RowData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	start := 0
	if limit > 0 && len(s.rows) > limit {
		start = len(s.rows) - limit
	}
	var result []RowData
	for i, row := range s.rows[start:] {
		result = append(result, RowData{
			Number: start + i + 2,
			Cells:  append([]string(nil), row...),
		})
	}
	return result, nil
}

func (s *MockStore) EnsureMandatoryHeader(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if len(s.headers) > 0 && strings.EqualFold(s.headers[0], models.MandatoryHeader) {
		return nil
	}
	newHeaders := []string{models.MandatoryHeader}
	for _, h := range s.headers {
		if !isMandatory(h) {
			newHeaders = append(newHeaders, h)
		}
	}
	s.headers = newHeaders
	return nil
}

func (s *MockStore) headerIndex(name string) int {
	for i, h := range s.headers {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}
