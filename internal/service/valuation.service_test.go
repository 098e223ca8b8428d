package service

import (
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/domain"
	"divmetrics/internal/util"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_EffectivePrice(t *testing.T) {
	quotes := map[string]domain.Quote{
		"AAPL": {Symbol: "AAPL", Price: decimal.NewFromInt(180)},
	}

	t.Run("manual price wins over quote", func(t *testing.T) {
		h := model.Holding{
			Symbol:        "AAPL",
			PurchasePrice: decimal.NewFromInt(100),
			CurrentPrice:  util.DecimalPointer(decimal.NewFromInt(150)),
		}
		require.True(t, decimal.NewFromInt(150).Equal(EffectivePrice(h, quotes, false)))
	})

	t.Run("zero manual price is unset", func(t *testing.T) {
		h := model.Holding{
			Symbol:        "AAPL",
			PurchasePrice: decimal.NewFromInt(100),
			CurrentPrice:  util.DecimalPointer(decimal.Zero),
		}
		require.True(t, decimal.NewFromInt(180).Equal(EffectivePrice(h, quotes, false)))
	})

	t.Run("quote used for stock", func(t *testing.T) {
		h := model.Holding{
			Symbol:        "AAPL",
			PurchasePrice: decimal.NewFromInt(100),
		}
		require.True(t, decimal.NewFromInt(180).Equal(EffectivePrice(h, quotes, false)))
	})

	t.Run("bond never consults quotes", func(t *testing.T) {
		h := model.Holding{
			Symbol:        "AAPL",
			PurchasePrice: decimal.NewFromInt(100),
			IsBond:        true,
		}
		require.True(t, decimal.NewFromInt(100).Equal(EffectivePrice(h, quotes, false)))
	})

	t.Run("manual mode skips quotes", func(t *testing.T) {
		h := model.Holding{
			Symbol:        "AAPL",
			PurchasePrice: decimal.NewFromInt(100),
		}
		require.True(t, decimal.NewFromInt(100).Equal(EffectivePrice(h, quotes, true)))
	})

	t.Run("missing quote falls back to purchase price", func(t *testing.T) {
		h := model.Holding{
			Symbol:        "MSFT",
			PurchasePrice: decimal.NewFromInt(100),
		}
		require.True(t, decimal.NewFromInt(100).Equal(EffectivePrice(h, quotes, false)))
	})
}

func Test_PositionGainPercent(t *testing.T) {
	t.Run("computed from effective price", func(t *testing.T) {
		h := model.Holding{
			Symbol:        "VTI",
			Amount:        decimal.NewFromInt(10),
			PurchasePrice: decimal.NewFromInt(100),
			CurrentPrice:  util.DecimalPointer(decimal.NewFromInt(120)),
		}
		pct := PositionGainPercent(h, nil, false)
		require.NotNil(t, pct)
		require.True(t, decimal.NewFromInt(20).Equal(*pct), pct.String())
	})

	t.Run("nil when purchase price is zero", func(t *testing.T) {
		h := model.Holding{
			Symbol:       "VTI",
			Amount:       decimal.NewFromInt(10),
			CurrentPrice: util.DecimalPointer(decimal.NewFromInt(120)),
		}
		require.Nil(t, PositionGainPercent(h, nil, false))
	})
}

func Test_DailyChangePercent(t *testing.T) {
	quotes := map[string]domain.Quote{
		"AAPL": {Symbol: "AAPL", Price: decimal.NewFromInt(180), ChangePercent: decimal.NewFromFloat(1.5)},
	}

	t.Run("from quote", func(t *testing.T) {
		h := model.Holding{Symbol: "AAPL", PurchasePrice: decimal.NewFromInt(100)}
		pct := DailyChangePercent(h, quotes, false)
		require.NotNil(t, pct)
		require.True(t, decimal.NewFromFloat(1.5).Equal(*pct))
	})

	t.Run("nil for bonds", func(t *testing.T) {
		h := model.Holding{Symbol: "AAPL", PurchasePrice: decimal.NewFromInt(100), IsBond: true}
		require.Nil(t, DailyChangePercent(h, quotes, false))
	})

	t.Run("nil when manually priced", func(t *testing.T) {
		h := model.Holding{
			Symbol:        "AAPL",
			PurchasePrice: decimal.NewFromInt(100),
			CurrentPrice:  util.DecimalPointer(decimal.NewFromInt(170)),
		}
		require.Nil(t, DailyChangePercent(h, quotes, false))
	})

	t.Run("nil in manual mode", func(t *testing.T) {
		h := model.Holding{Symbol: "AAPL", PurchasePrice: decimal.NewFromInt(100)}
		require.Nil(t, DailyChangePercent(h, quotes, true))
	})
}

func Test_ValuePortfolio(t *testing.T) {
	quotes := map[string]domain.Quote{
		"AAPL": {Symbol: "AAPL", Price: decimal.NewFromInt(200)},
	}
	holdings := []model.Holding{
		{
			Symbol:        "AAPL",
			Amount:        decimal.NewFromInt(10),
			PurchasePrice: decimal.NewFromInt(150),
		},
		{
			Symbol:        "GOVT-BOND",
			Amount:        decimal.NewFromInt(5),
			PurchasePrice: decimal.NewFromInt(1000),
			IsBond:        true,
		},
	}

	valuation := ValuePortfolio(holdings, quotes, false)

	require.Len(t, valuation.Positions, 2)

	// 10 * 200 + 5 * 1000
	require.True(t, decimal.NewFromInt(7000).Equal(valuation.TotalValue), valuation.TotalValue.String())
	// (200-150)*10 + 0
	require.True(t, decimal.NewFromInt(500).Equal(valuation.TotalGain), valuation.TotalGain.String())

	sum := decimal.Zero
	for _, p := range valuation.Positions {
		sum = sum.Add(p.Value)
	}
	require.True(t, sum.Equal(valuation.TotalValue))
}
