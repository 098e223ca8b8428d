package service

import (
	"context"
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/logger"
	"divmetrics/internal/repository"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// RecommendationService suggests rebalancing trades. For every stock in the
// portfolio it simulates shifting a slice of portfolio value into or out of
// that position and keeps the moves that improve the portfolio Sharpe ratio.
// Bonds are excluded: they have no market return series to reason about.
type RecommendationService interface {
	GetRecommendations(ctx context.Context, holdings []model.Holding, max int) ([]Recommendation, error)
}

type Recommendation struct {
	Symbol          string          `json:"symbol"`
	Action          string          `json:"action"`
	Amount          decimal.Decimal `json:"amount"`
	CurrentSharpe   float64         `json:"currentSharpe"`
	ProjectedSharpe float64         `json:"projectedSharpe"`
	Improvement     float64         `json:"improvement"`
}

type recommendationServiceHandler struct {
	PriceHistoryRepository repository.PriceHistoryRepository
}

func NewRecommendationService(priceHistoryRepository repository.PriceHistoryRepository) RecommendationService {
	return recommendationServiceHandler{
		PriceHistoryRepository: priceHistoryRepository,
	}
}

const (
	riskFreeRate     = 0.045
	tradingDays      = 252
	lookbackYears    = 3
	tradeFraction    = 0.1
	maxRecsDefault   = 5
	minImprovementEp = 1e-9
)

func (h recommendationServiceHandler) GetRecommendations(ctx context.Context, holdings []model.Holding, max int) ([]Recommendation, error) {
	log := logger.FromContext(ctx)

	if max <= 0 {
		max = maxRecsDefault
	}

	positions := []model.Holding{}
	for _, holding := range holdings {
		if holding.IsBond || !holding.Amount.IsPositive() {
			continue
		}
		positions = append(positions, holding)
	}
	if len(positions) < 2 {
		return []Recommendation{}, nil
	}

	end := time.Now().UTC()
	start := end.AddDate(-lookbackYears, 0, 0)

	returnsBySymbol := map[string][]float64{}
	for _, p := range positions {
		returns, err := h.PriceHistoryRepository.GetDailyReturns(ctx, p.Symbol, start, end)
		if err != nil {
			log.Warnf("skipping %s: no return history: %v", p.Symbol, err)
			continue
		}
		if len(returns) < 2 {
			continue
		}
		returnsBySymbol[p.Symbol] = returns
	}
	if len(returnsBySymbol) < 2 {
		return []Recommendation{}, nil
	}

	// align all series to the shortest one, keeping the most recent days
	minLen := math.MaxInt
	for _, returns := range returnsBySymbol {
		if len(returns) < minLen {
			minLen = len(returns)
		}
	}
	for symbol, returns := range returnsBySymbol {
		returnsBySymbol[symbol] = returns[len(returns)-minLen:]
	}

	weights := map[string]float64{}
	totalValue := 0.0
	for _, p := range positions {
		if _, ok := returnsBySymbol[p.Symbol]; !ok {
			continue
		}
		value := p.Amount.Mul(p.PurchasePrice).InexactFloat64()
		weights[p.Symbol] += value
		totalValue += value
	}
	if totalValue <= 0 {
		return []Recommendation{}, nil
	}
	for symbol := range weights {
		weights[symbol] /= totalValue
	}

	current := make([]float64, minLen)
	for symbol, returns := range returnsBySymbol {
		w := weights[symbol]
		for i, r := range returns {
			current[i] += w * r
		}
	}
	currentSharpe := sharpeRatio(current)

	tradeValue := tradeFraction * totalValue
	recs := []Recommendation{}
	for symbol, returns := range returnsBySymbol {
		if projected := buyProjection(current, returns, totalValue, tradeValue); projected != nil {
			if s := sharpeRatio(projected); s-currentSharpe > minImprovementEp {
				recs = append(recs, Recommendation{
					Symbol:          symbol,
					Action:          "buy",
					Amount:          decimal.NewFromFloat(tradeValue).Round(2),
					CurrentSharpe:   currentSharpe,
					ProjectedSharpe: s,
					Improvement:     s - currentSharpe,
				})
			}
		}

		sellValue := math.Min(tradeValue, weights[symbol]*totalValue)
		if projected := sellProjection(current, returns, totalValue, sellValue); projected != nil {
			if s := sharpeRatio(projected); s-currentSharpe > minImprovementEp {
				recs = append(recs, Recommendation{
					Symbol:          symbol,
					Action:          "sell",
					Amount:          decimal.NewFromFloat(sellValue).Round(2),
					CurrentSharpe:   currentSharpe,
					ProjectedSharpe: s,
					Improvement:     s - currentSharpe,
				})
			}
		}
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Improvement > recs[j].Improvement
	})
	if len(recs) > max {
		recs = recs[:max]
	}

	return recs, nil
}

// buyProjection blends buyValue of the symbol's returns into the portfolio
// return series, diluting the existing positions proportionally.
func buyProjection(current, symbolReturns []float64, totalValue, buyValue float64) []float64 {
	if buyValue <= 0 {
		return nil
	}
	newTotal := totalValue + buyValue
	out := make([]float64, len(current))
	for i := range current {
		out[i] = current[i]*(totalValue/newTotal) + symbolReturns[i]*(buyValue/newTotal)
	}
	return out
}

// sellProjection removes sellValue of the symbol's returns from the
// portfolio return series. Selling the entire portfolio is undefined.
func sellProjection(current, symbolReturns []float64, totalValue, sellValue float64) []float64 {
	if sellValue <= 0 || sellValue >= totalValue {
		return nil
	}
	newTotal := totalValue - sellValue
	out := make([]float64, len(current))
	for i := range current {
		out[i] = current[i]*(totalValue/newTotal) - symbolReturns[i]*(sellValue/newTotal)
	}
	return out
}

// sharpeRatio annualizes a daily return series against the risk-free rate.
// Degenerate series (too short or near-zero volatility) score 0.
func sharpeRatio(dailyReturns []float64) float64 {
	if len(dailyReturns) < 2 {
		return 0
	}

	mean, err := stats.Mean(dailyReturns)
	if err != nil {
		return 0
	}
	stdev, err := stats.StandardDeviationSample(dailyReturns)
	if err != nil {
		return 0
	}

	vol := stdev * math.Sqrt(tradingDays)
	if vol < 1e-6 {
		return 0
	}

	return (mean*tradingDays - riskFreeRate) / vol
}
