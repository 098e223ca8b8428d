package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// PriceHistoryRepository exposes historical daily returns, used by the
// recommendation engine to estimate portfolio risk/return.
type PriceHistoryRepository interface {
	GetDailyReturns(ctx context.Context, symbol string, start, end time.Time) ([]float64, error)
}

type priceHistoryRepositoryHandler struct{}

func NewPriceHistoryRepository() PriceHistoryRepository {
	return priceHistoryRepositoryHandler{}
}

func (h priceHistoryRepositoryHandler) GetDailyReturns(ctx context.Context, symbol string, start, end time.Time) ([]float64, error) {
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	closes := []float64{}
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		closes = append(closes, iter.Bar().AdjClose.InexactFloat64())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get price history for %s: %w", symbol, err)
	}

	returns := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}

	return returns, nil
}
