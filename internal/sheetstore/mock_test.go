package sheetstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStoreHeaderOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("add header appends a column", func(t *testing.T) {
		store := NewMockStore("timestamp", "item")
		require.NoError(t, store.AddHeader(ctx, "laba"))

		headers, err := store.Headers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"timestamp", "item", "laba"}, headers)
	})

	t.Run("rename header", func(t *testing.T) {
		store := NewMockStore("timestamp", "qty")
		require.NoError(t, store.RenameHeader(ctx, "qty", "jumlah"))

		headers, err := store.Headers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"timestamp", "jumlah"}, headers)
	})

	t.Run("rename matches case-insensitively", func(t *testing.T) {
		store := NewMockStore("timestamp", "Qty")
		require.NoError(t, store.RenameHeader(ctx, "qty", "jumlah"))

		headers, err := store.Headers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"timestamp", "jumlah"}, headers)
	})

	t.Run("rename of a missing header fails", func(t *testing.T) {
		store := NewMockStore("timestamp")
		err := store.RenameHeader(ctx, "qty", "jumlah")
		assert.ErrorIs(t, err, ErrHeaderNotFound)
	})

	t.Run("mandatory header cannot be renamed or deleted", func(t *testing.T) {
		store := NewMockStore("timestamp", "item")
		assert.ErrorIs(t, store.RenameHeader(ctx, "timestamp", "tanggal"), ErrMandatoryHeader)
		assert.ErrorIs(t, store.DeleteHeader(ctx, "Timestamp"), ErrMandatoryHeader)
	})

	t.Run("delete header removes its column from every row", func(t *testing.T) {
		store := NewMockStore("timestamp", "item", "qty")
		require.NoError(t, store.AppendRow(ctx, []string{"2024-05-20", "Laptop", "2"}))
		require.NoError(t, store.AppendRow(ctx, []string{"2024-05-21", "Pulsa", "1"}))

		require.NoError(t, store.DeleteHeader(ctx, "item"))

		headers, err := store.Headers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"timestamp", "qty"}, headers)
		assert.Equal(t, [][]string{
			{"2024-05-20", "2"},
			{"2024-05-21", "1"},
		}, store.Rows())
	})
}

func TestMockStoreEnsureMandatoryHeader(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		headers  []string
		expected []string
	}{
		{
			name:     "already in place is a no-op",
			headers:  []string{"timestamp", "item"},
			expected: []string{"timestamp", "item"},
		},
		{
			name:     "missing header is prepended",
			headers:  []string{"item", "qty"},
			expected: []string{"timestamp", "item", "qty"},
		},
		{
			name:     "misplaced header is moved to the front",
			headers:  []string{"item", "timestamp", "qty"},
			expected: []string{"timestamp", "item", "qty"},
		},
		{
			name:     "empty sheet gets the header",
			headers:  nil,
			expected: []string{"timestamp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMockStore(tt.headers...)
			require.NoError(t, store.EnsureMandatoryHeader(ctx))

			headers, err := store.Headers(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, headers)
		})
	}
}

func TestMockStoreRowOperations(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) *MockStore {
		t.Helper()
		store := NewMockStore("timestamp", "item")
		require.NoError(t, store.AppendRow(ctx, []string{"2024-05-20", "Laptop"}))
		require.NoError(t, store.AppendRow(ctx, []string{"2024-05-21", "Pulsa"}))
		require.NoError(t, store.AppendRow(ctx, []string{"2024-05-22", "Kabel"}))
		return store
	}

	t.Run("recent rows are numbered from sheet row two", func(t *testing.T) {
		store := newStore(t)
		rows, err := store.RecentRows(ctx, 2)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 3, rows[0].Number)
		assert.Equal(t, []string{"2024-05-21", "Pulsa"}, rows[0].Cells)
		assert.Equal(t, 4, rows[1].Number)
	})

	t.Run("zero limit returns every row", func(t *testing.T) {
		store := newStore(t)
		rows, err := store.RecentRows(ctx, 0)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, 2, rows[0].Number)
	})

	t.Run("update row overwrites in place", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.UpdateRow(ctx, 3, []string{"2024-05-21", "Baju"}))
		assert.Equal(t, []string{"2024-05-21", "Baju"}, store.Rows()[1])
	})

	t.Run("delete row shifts the rows below it", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.DeleteRow(ctx, 3))

		rows, err := store.RecentRows(ctx, 0)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"2024-05-22", "Kabel"}, rows[1].Cells)
	})

	t.Run("out of range row numbers fail", func(t *testing.T) {
		store := newStore(t)
		assert.ErrorIs(t, store.UpdateRow(ctx, 99, nil), ErrRowNotFound)
		assert.ErrorIs(t, store.DeleteRow(ctx, 1), ErrRowNotFound)
	})
}

func TestMockStoreInjectedError(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore("timestamp")
	store.Err = assert.AnError

	_, err := store.Headers(ctx)
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorIs(t, store.AppendRow(ctx, nil), assert.AnError)
	assert.ErrorIs(t, store.EnsureMandatoryHeader(ctx), assert.AnError)
}
