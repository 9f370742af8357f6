// Package entity resolves which semantic fields are present in a sheet by
// matching its literal column headers against a synonym table. The result is
// recomputed for every call because users can add, rename or delete headers
// between messages; nothing here is cached.
package entity

import (
	"strings"

	"kasbot/internal/models"
)

// Synonyms pairs a canonical entity with the lower-cased header names users
// commonly pick for it. Order matters twice: entities are resolved in table
// order, and within one entity the first synonym that matches a header wins.
type Synonyms struct {
	Entity  models.Entity
	Headers []string
}

// DefaultSynonyms is the built-in synonym table. It is treated as immutable;
// LoadSynonyms returns a copy when an override file is present.
var DefaultSynonyms = []Synonyms{
	{models.EntityTimestamp, []string{"timestamp", "tanggal", "waktu", "tgl", "date"}},
	{models.EntityItemName, []string{"item_name", "item", "nama", "barang", "produk", "deskripsi", "keterangan"}},
	{models.EntityQuantity, []string{"quantity", "qty", "jumlah", "unit", "buah"}},
	{models.EntityUnitPrice, []string{"unit_price", "harga satuan", "harga/unit", "harga per unit", "satuan"}},
	{models.EntityTotalPrice, []string{"total_price", "total", "total harga", "harga total", "amount", "harga", "jumlah pengeluaran"}},
	{models.EntityTransactionType, []string{"transaction_type", "type", "tipe", "jenis", "kategori"}},
	{models.EntityProfit, []string{"laba", "profit", "keuntungan"}},
}

// ActiveMap maps an entity to the original-cased header currently hosting it.
type ActiveMap map[models.Entity]string

// Resolver computes active entity maps from header lists.
type Resolver struct {
	table []Synonyms
}

// NewResolver returns a resolver backed by the built-in synonym table.
func NewResolver() *Resolver {
	return &Resolver{table: DefaultSynonyms}
}

// NewResolverWithTable returns a resolver backed by a custom synonym table,
// typically loaded from a YAML override file.
func NewResolverWithTable(table []Synonyms) *Resolver {
	if len(table) == 0 {
		table = DefaultSynonyms
	}
	return &Resolver{table: table}
}

// Resolve returns the entity -> header mapping for the given headers.
// Matching is case-insensitive on trimmed header names. For each entity the
// synonym list is walked in declared order and the first header equal to a
// synonym wins; headers matching no synonym are ignored. The returned map
// always records the header with its original casing.
func (r *Resolver) Resolve(headers []string) ActiveMap {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	active := make(ActiveMap)
	for _, syn := range r.table {
		for _, candidate := range syn.Headers {
			idx := indexOf(normalized, candidate)
			if idx >= 0 {
				active[syn.Entity] = headers[idx]
				break
			}
		}
	}
	return active
}

// Inverse returns the header -> entity mapping. Safe to call on any map
// produced by Resolve, where headers are unique per entity by construction.
func (m ActiveMap) Inverse() map[string]models.Entity {
	inv := make(map[string]models.Entity, len(m))
	for e, header := range m {
		inv[header] = e
	}
	return inv
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
