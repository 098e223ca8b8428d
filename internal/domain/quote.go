package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the ephemeral market snapshot for one symbol. Quotes are fetched
// on demand, held in memory only, and never persisted.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
