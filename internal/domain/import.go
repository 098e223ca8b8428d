package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ImportCandidate is one row extracted from free text by the import parser.
// Everything besides Symbol is optional - the parser is best-effort and may
// omit or garble fields. Normalize applies the defaulting rules in one place
// so callers never have to reason about missing fields.
type ImportCandidate struct {
	Symbol        string   `json:"symbol"`
	Amount        *float64 `json:"amount"`
	PurchasePrice *float64 `json:"purchase_price"`
	Price         *float64 `json:"price"`
	CurrentPrice  *float64 `json:"current_price"`
	PurchaseDate  *string  `json:"purchase_date"`
	IsBond        *bool    `json:"is_bond"`
	Notes         *string  `json:"notes"`
}

// NormalizedCandidate is an ImportCandidate after coercion. Pointer fields
// stay nil when the parser omitted them, which the merge uses to decide
// between replace-if-present and keep-existing.
type NormalizedCandidate struct {
	Symbol        string
	Amount        decimal.Decimal
	PurchasePrice *decimal.Decimal
	CurrentPrice  *decimal.Decimal
	PurchaseDate  time.Time
	IsBond        *bool
	Notes         *string
}

// Normalize canonicalizes the symbol to uppercase and applies defaults:
// amount falls back to 0, the current price is taken from either the price
// or current_price field (first non-nil wins, zero treated as unset), and
// the purchase date falls back to today.
func (c ImportCandidate) Normalize(now time.Time) NormalizedCandidate {
	out := NormalizedCandidate{
		Symbol: strings.ToUpper(strings.TrimSpace(c.Symbol)),
		Amount: decimal.Zero,
		IsBond: c.IsBond,
		Notes:  c.Notes,
	}

	if c.Amount != nil {
		out.Amount = decimal.NewFromFloat(*c.Amount)
	}
	if c.PurchasePrice != nil {
		p := decimal.NewFromFloat(*c.PurchasePrice)
		out.PurchasePrice = &p
	}

	rawCurrent := c.Price
	if rawCurrent == nil {
		rawCurrent = c.CurrentPrice
	}
	if rawCurrent != nil && *rawCurrent != 0 {
		p := decimal.NewFromFloat(*rawCurrent)
		out.CurrentPrice = &p
	}

	out.PurchaseDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if c.PurchaseDate != nil {
		if parsed, err := time.Parse(time.DateOnly, *c.PurchaseDate); err == nil {
			out.PurchaseDate = parsed
		}
	}

	return out
}
