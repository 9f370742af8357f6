// Package models defines the data types shared between the parser core and
// the surrounding bot/store layers.
package models

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Entity is a canonical semantic field, independent of the literal column
// name a user picked for it in the sheet.
type Entity string

const (
	EntityTimestamp       Entity = "timestamp"
	EntityItemName        Entity = "item_name"
	EntityQuantity        Entity = "quantity"
	EntityUnitPrice       Entity = "unit_price"
	EntityTotalPrice      Entity = "total_price"
	EntityTransactionType Entity = "transaction_type"
	EntityProfit          Entity = "profit"
)

// Transaction type values inferred from trigger words in the input text.
const (
	TypeSold    = "sold"
	TypeBought  = "bought"
	TypeExpense = "expense"
)

// MandatoryHeader is the column every sheet must carry in the first
// position. The sheet store enforces the placement; the resolver recognizes
// it like any other entity.
const MandatoryHeader = "timestamp"

// TimestampLayout is the format used for the timestamp cell.
const TimestampLayout = "2006-01-02 15:04:05"

// Record holds the fields extracted from one input sentence, keyed by
// entity. A key is present only if a value could be extracted or derived.
// Values are string (item name, transaction type, timestamp), int64
// (quantity) or decimal.Decimal (prices).
type Record map[Entity]any

// Quantity returns the extracted quantity, if any.
func (r Record) Quantity() (int64, bool) {
	v, ok := r[EntityQuantity].(int64)
	return v, ok
}

// Price returns the extracted price for the given entity, if any.
func (r Record) Price(e Entity) (decimal.Decimal, bool) {
	v, ok := r[e].(decimal.Decimal)
	return v, ok
}

// Format renders the value for an entity as a cell string. Absent entities
// render as the empty string, matching the projection contract.
func (r Record) Format(e Entity) string {
	v, ok := r[e]
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case decimal.Decimal:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
