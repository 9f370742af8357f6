package nlparser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Magnitude suffixes of the informal Indonesian numeric shorthand.
var (
	millionSuffixRe  = regexp.MustCompile(`jt|juta`)
	thousandSuffixRe = regexp.MustCompile(`rb|ribu|k`)
)

// priceFields carries the outcome of one price token parse. Both flags
// false means the token was unparseable and no price fields are set.
type priceFields struct {
	unit     decimal.Decimal
	total    decimal.Decimal
	hasUnit  bool
	hasTotal bool
}

// parsePriceToken parses tokens such as "3.6jt/2", "500rb" or "7200000".
// A "/N" suffix with N > 1 marks the amount as a total covering N items and
// additionally derives the unit price; otherwise the amount is a unit price.
// Any parse failure yields the zero value, never an error.
func parsePriceToken(token string) priceFields {
	if token == "" {
		return priceFields{}
	}

	token = strings.ReplaceAll(strings.ToLower(token), ",", "")
	parts := strings.SplitN(token, "/", 2)

	perItem := 1
	if len(parts) > 1 {
		n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return priceFields{}
		}
		perItem = n
	}

	amount := parts[0]
	multiplier := decimal.NewFromInt(1)
	switch {
	case strings.Contains(amount, "jt") || strings.Contains(amount, "juta"):
		multiplier = decimal.NewFromInt(1_000_000)
		amount = millionSuffixRe.ReplaceAllString(amount, "")
	case strings.Contains(amount, "rb") || strings.Contains(amount, "ribu") || strings.Contains(amount, "k"):
		multiplier = decimal.NewFromInt(1_000)
		amount = thousandSuffixRe.ReplaceAllString(amount, "")
	}

	base, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return priceFields{}
	}
	base = base.Mul(multiplier)

	if perItem > 1 {
		return priceFields{
			total:    base,
			unit:     base.Div(decimal.NewFromInt(int64(perItem))),
			hasUnit:  true,
			hasTotal: true,
		}
	}
	return priceFields{unit: base, hasUnit: true}
}
