package service

import (
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// manualPrice returns the holding's price override when present. A zero
// override is treated as unset.
func manualPrice(h model.Holding) *decimal.Decimal {
	if h.CurrentPrice != nil && !h.CurrentPrice.IsZero() {
		return h.CurrentPrice
	}
	return nil
}

// EffectivePrice resolves the price a holding is valued at: the manual
// override wins, then the market quote (stocks only, and only when manual
// mode is off), then the purchase price. Every place that displays or sums
// a current price goes through this function.
func EffectivePrice(h model.Holding, quotes map[string]domain.Quote, manualMode bool) decimal.Decimal {
	if p := manualPrice(h); p != nil {
		return *p
	}
	if !h.IsBond && !manualMode {
		if q, ok := quotes[h.Symbol]; ok && !q.Price.IsZero() {
			return q.Price
		}
	}
	return h.PurchasePrice
}

func PositionValue(h model.Holding, quotes map[string]domain.Quote, manualMode bool) decimal.Decimal {
	return h.Amount.Mul(EffectivePrice(h, quotes, manualMode))
}

func PositionGain(h model.Holding, quotes map[string]domain.Quote, manualMode bool) decimal.Decimal {
	return PositionValue(h, quotes, manualMode).Sub(h.Amount.Mul(h.PurchasePrice))
}

// PositionGainPercent is undefined when the purchase price is not positive;
// it returns nil rather than dividing by zero.
func PositionGainPercent(h model.Holding, quotes map[string]domain.Quote, manualMode bool) *decimal.Decimal {
	if !h.PurchasePrice.IsPositive() {
		return nil
	}
	pct := EffectivePrice(h, quotes, manualMode).
		Div(h.PurchasePrice).
		Sub(one).
		Mul(hundred)
	return &pct
}

// DailyChangePercent only applies to non-bond holdings priced off market
// data; bonds, manual-mode and manually-priced holdings return nil.
func DailyChangePercent(h model.Holding, quotes map[string]domain.Quote, manualMode bool) *decimal.Decimal {
	if h.IsBond || manualMode || manualPrice(h) != nil {
		return nil
	}
	if q, ok := quotes[h.Symbol]; ok {
		pct := q.ChangePercent
		return &pct
	}
	return nil
}

type PositionValuation struct {
	Holding        model.Holding
	EffectivePrice decimal.Decimal
	Value          decimal.Decimal
	Gain           decimal.Decimal
	GainPercent    *decimal.Decimal
	ChangePercent  *decimal.Decimal
	ManualPrice    bool
}

type PortfolioValuation struct {
	Positions  []PositionValuation
	TotalValue decimal.Decimal
	TotalGain  decimal.Decimal
}

// ValuePortfolio computes per-position and aggregate valuations. Totals are
// exact sums of the per-position values.
func ValuePortfolio(holdings []model.Holding, quotes map[string]domain.Quote, manualMode bool) PortfolioValuation {
	out := PortfolioValuation{
		Positions:  make([]PositionValuation, 0, len(holdings)),
		TotalValue: decimal.Zero,
		TotalGain:  decimal.Zero,
	}

	for _, h := range holdings {
		pv := PositionValuation{
			Holding:        h,
			EffectivePrice: EffectivePrice(h, quotes, manualMode),
			Value:          PositionValue(h, quotes, manualMode),
			Gain:           PositionGain(h, quotes, manualMode),
			GainPercent:    PositionGainPercent(h, quotes, manualMode),
			ChangePercent:  DailyChangePercent(h, quotes, manualMode),
			ManualPrice:    manualMode || manualPrice(h) != nil,
		}
		out.Positions = append(out.Positions, pv)
		out.TotalValue = out.TotalValue.Add(pv.Value)
		out.TotalGain = out.TotalGain.Add(pv.Gain)
	}

	return out
}
