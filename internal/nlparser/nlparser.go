// Package nlparser extracts a structured bookkeeping record from a free-form
// Indonesian/English transaction sentence. The set of fields it looks for is
// not fixed: it is derived per call from the live column headers of the
// target sheet, so extraction and arithmetic back-fill always stay in step
// with whatever columns the user currently has.
package nlparser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"kasbot/internal/dateutils"
	"kasbot/internal/entity"
	"kasbot/internal/models"
)

var log = logrus.New()

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

var (
	quantityRe = regexp.MustCompile(`(?i)(\d+)\s*(?:unit|buah|pcs)`)
	priceRe    = regexp.MustCompile(`(?i)(?:harga|seharga|senilai)\s+([\d.,]+(?:jt|juta|rb|ribu|k)?(?:\s*/\s*\d+)?)`)
	typeWordRe = regexp.MustCompile(`(?i)terjual|dijual|laku|beli|dibeli|membeli|biaya|pengeluaran`)
)

// Trigger word sets for transaction type inference, checked in order.
var typeTriggers = []struct {
	words []string
	value string
}{
	{[]string{"terjual", "dijual", "laku"}, models.TypeSold},
	{[]string{"beli", "dibeli", "membeli"}, models.TypeBought},
	{[]string{"biaya", "pengeluaran"}, models.TypeExpense},
}

// Parser turns transaction sentences into Records. It is stateless apart
// from its synonym table and clock, and safe for concurrent use.
type Parser struct {
	resolver *entity.Resolver
	now      func() time.Time
}

// New returns a parser using the given resolver. A nil resolver falls back
// to the built-in synonym table.
func New(resolver *entity.Resolver) *Parser {
	return NewWithClock(resolver, time.Now)
}

// NewWithClock returns a parser with an injected clock, used by tests and
// anywhere the date-defaulting behavior must be deterministic.
func NewWithClock(resolver *entity.Resolver, now func() time.Time) *Parser {
	if resolver == nil {
		resolver = entity.NewResolver()
	}
	if now == nil {
		now = time.Now
	}
	return &Parser{resolver: resolver, now: now}
}

// Resolve exposes the parser's resolver so callers can project the record
// through the same active entity map the parse used.
func (p *Parser) Resolve(headers []string) entity.ActiveMap {
	return p.resolver.Resolve(headers)
}

// Parse extracts a Record from the text given the sheet's current headers.
// Stages run in a fixed order and each strips what it matched from a working
// copy of the text, so later stages see a cleaner remainder. No stage fails
// on malformed input; fields that cannot be extracted are simply absent.
func (p *Parser) Parse(text string, headers []string) models.Record {
	active := p.resolver.Resolve(headers)
	record := models.Record{}

	// 1. Date: relative phrase or the current moment.
	date, working := dateutils.ExtractRelativeDate(text, p.now())
	record[models.EntityTimestamp] = date.Format(models.TimestampLayout)

	// 2. Quantity: integer followed by a unit word.
	if m := quantityRe.FindStringSubmatchIndex(working); m != nil {
		qty, err := strconv.ParseInt(working[m[2]:m[3]], 10, 64)
		if err == nil {
			record[models.EntityQuantity] = qty
		}
		working = working[:m[0]] + working[m[1]:]
	}

	// 3. Price: introducer word followed by a numeric token. The matched
	// span is stripped even when the token itself does not parse.
	if m := priceRe.FindStringSubmatchIndex(working); m != nil {
		price := parsePriceToken(working[m[2]:m[3]])
		if price.hasTotal {
			record[models.EntityTotalPrice] = price.total
		}
		if price.hasUnit {
			record[models.EntityUnitPrice] = price.unit
		}
		working = working[:m[0]] + working[m[1]:]
	}

	// 4. Transaction type from trigger words in the remainder.
	lowerWorking := strings.ToLower(working)
	for _, trigger := range typeTriggers {
		if containsAny(lowerWorking, trigger.words) {
			record[models.EntityTransactionType] = trigger.value
			break
		}
	}

	// 5. Whatever is left, minus the trigger words, is the item name.
	record[models.EntityItemName] = strings.TrimSpace(typeWordRe.ReplaceAllString(working, ""))

	p.reconcile(record, active)

	log.WithFields(logrus.Fields{
		"fields":  len(record),
		"headers": len(headers),
	}).Debug("Parsed transaction text")

	return record
}

// reconcile derives the missing one of quantity x unit price = total price,
// but only when the destination schema actually has a column for the derived
// field. Synthesizing a value the sheet cannot hold would be silently
// dropped at projection time.
func (p *Parser) reconcile(record models.Record, active entity.ActiveMap) {
	qty, hasQty := record.Quantity()
	unitPrice, hasUnit := record.Price(models.EntityUnitPrice)
	totalPrice, hasTotal := record.Price(models.EntityTotalPrice)

	_, wantsTotal := active[models.EntityTotalPrice]
	_, wantsUnit := active[models.EntityUnitPrice]

	switch {
	case hasQty && hasUnit && !hasTotal && wantsTotal:
		record[models.EntityTotalPrice] = unitPrice.Mul(decimal.NewFromInt(qty))
	case hasQty && hasTotal && !hasUnit && wantsUnit:
		if qty == 0 {
			record[models.EntityUnitPrice] = decimal.Zero
		} else {
			record[models.EntityUnitPrice] = totalPrice.Div(decimal.NewFromInt(qty))
		}
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
