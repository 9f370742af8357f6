package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kasbot/internal/models"
)

func TestResolve(t *testing.T) {
	resolver := NewResolver()

	tests := []struct {
		name     string
		headers  []string
		expected ActiveMap
	}{
		{
			name:    "full indonesian header set",
			headers: []string{"timestamp", "barang", "jumlah", "harga satuan", "total", "tipe"},
			expected: ActiveMap{
				models.EntityTimestamp:       "timestamp",
				models.EntityItemName:        "barang",
				models.EntityQuantity:        "jumlah",
				models.EntityUnitPrice:       "harga satuan",
				models.EntityTotalPrice:      "total",
				models.EntityTransactionType: "tipe",
			},
		},
		{
			name:    "canonical entity keys work as headers",
			headers: []string{"timestamp", "item_name", "quantity", "unit_price", "total_price", "transaction_type"},
			expected: ActiveMap{
				models.EntityTimestamp:       "timestamp",
				models.EntityItemName:        "item_name",
				models.EntityQuantity:        "quantity",
				models.EntityUnitPrice:       "unit_price",
				models.EntityTotalPrice:      "total_price",
				models.EntityTransactionType: "transaction_type",
			},
		},
		{
			name:    "original casing is preserved in the map",
			headers: []string{"Tanggal", "Item", "Qty"},
			expected: ActiveMap{
				models.EntityTimestamp: "Tanggal",
				models.EntityItemName:  "Item",
				models.EntityQuantity:  "Qty",
			},
		},
		{
			name:    "unknown headers are ignored",
			headers: []string{"timestamp", "notes", "item"},
			expected: ActiveMap{
				models.EntityTimestamp: "timestamp",
				models.EntityItemName:  "item",
			},
		},
		{
			name:    "bare harga maps to total price not unit price",
			headers: []string{"harga", "item"},
			expected: ActiveMap{
				models.EntityTotalPrice: "harga",
				models.EntityItemName:   "item",
			},
		},
		{
			name:    "harga satuan and harga coexist",
			headers: []string{"harga", "harga satuan"},
			expected: ActiveMap{
				models.EntityUnitPrice:  "harga satuan",
				models.EntityTotalPrice: "harga",
			},
		},
		{
			name:    "earlier synonym wins regardless of header position",
			headers: []string{"jumlah", "qty"},
			expected: ActiveMap{
				models.EntityQuantity: "qty",
			},
		},
		{
			name:    "headers are trimmed and lowercased for matching",
			headers: []string{"  TIMESTAMP  ", "LABA"},
			expected: ActiveMap{
				models.EntityTimestamp: "  TIMESTAMP  ",
				models.EntityProfit:    "LABA",
			},
		},
		{
			name:     "empty header list resolves nothing",
			headers:  []string{},
			expected: ActiveMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolver.Resolve(tt.headers))
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	resolver := NewResolver()
	headers := []string{"timestamp", "barang", "jumlah", "harga satuan", "total", "tipe"}

	first := resolver.Resolve(headers)
	second := resolver.Resolve(headers)
	assert.Equal(t, first, second)
}

func TestActiveMapInverse(t *testing.T) {
	active := ActiveMap{
		models.EntityTimestamp: "Tanggal",
		models.EntityItemName:  "barang",
	}

	inv := active.Inverse()
	assert.Equal(t, models.EntityTimestamp, inv["Tanggal"])
	assert.Equal(t, models.EntityItemName, inv["barang"])
	assert.Len(t, inv, 2)
}

func TestNewResolverWithTable(t *testing.T) {
	custom := []Synonyms{
		{models.EntityItemName, []string{"thing"}},
	}
	resolver := NewResolverWithTable(custom)

	active := resolver.Resolve([]string{"thing", "timestamp"})
	assert.Equal(t, ActiveMap{models.EntityItemName: "thing"}, active)

	// An empty table falls back to the built-in one.
	fallback := NewResolverWithTable(nil)
	active = fallback.Resolve([]string{"timestamp"})
	assert.Equal(t, ActiveMap{models.EntityTimestamp: "timestamp"}, active)
}
