package service

import (
	"context"
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/domain"
	"divmetrics/internal/logger"
	"divmetrics/internal/repository"
	"sort"
	"sync/atomic"
	"time"
)

// QuoteService fetches current prices for a holding set. Manual mode skips
// fetching entirely unless the caller forces a refresh. Results from a
// refresh that was superseded by a newer one are discarded so a slow fetch
// can never clobber fresher prices.
type QuoteService interface {
	GetQuotes(ctx context.Context, holdings []model.Holding, manualMode bool, force bool) (map[string]domain.Quote, error)
}

type quoteServiceHandler struct {
	QuoteRepository  repository.QuoteRepository
	AlpacaRepository repository.AlpacaRepository

	generation atomic.Uint64
}

func NewQuoteService(quoteRepository repository.QuoteRepository, alpacaRepository repository.AlpacaRepository) QuoteService {
	return &quoteServiceHandler{
		QuoteRepository:  quoteRepository,
		AlpacaRepository: alpacaRepository,
	}
}

const quoteFetchTimeout = 15 * time.Second

func (h *quoteServiceHandler) GetQuotes(ctx context.Context, holdings []model.Holding, manualMode bool, force bool) (map[string]domain.Quote, error) {
	log := logger.FromContext(ctx)

	if manualMode && !force {
		return map[string]domain.Quote{}, nil
	}

	symbols := QuoteSymbols(holdings)
	if len(symbols) == 0 {
		return map[string]domain.Quote{}, nil
	}

	gen := h.generation.Add(1)

	fetchCtx, cancel := context.WithTimeout(ctx, quoteFetchTimeout)
	defer cancel()

	quotes, err := h.QuoteRepository.GetQuotes(fetchCtx, symbols)
	if err != nil {
		return nil, err
	}

	missing := []string{}
	for _, symbol := range symbols {
		if _, ok := quotes[symbol]; !ok {
			missing = append(missing, symbol)
		}
	}
	if len(missing) > 0 && h.AlpacaRepository != nil {
		prices, err := h.AlpacaRepository.GetLatestPrices(fetchCtx, missing)
		if err != nil {
			log.Warnf("failed to fill %d symbols from secondary source: %v", len(missing), err)
		} else {
			now := time.Now().UTC()
			for symbol, price := range prices {
				quotes[symbol] = domain.Quote{
					Symbol:    symbol,
					Price:     price,
					UpdatedAt: now,
				}
			}
		}
	}

	// a newer refresh started while this one was in flight
	if h.generation.Load() != gen {
		log.Infof("discarding stale quote refresh")
		return nil, nil
	}

	return quotes, nil
}

// QuoteSymbols returns the symbols worth quoting: bonds and holdings with a
// manual current price are priced locally and never hit the market feed.
func QuoteSymbols(holdings []model.Holding) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, h := range holdings {
		if h.IsBond || manualPrice(h) != nil {
			continue
		}
		if h.Symbol == "" || seen[h.Symbol] {
			continue
		}
		seen[h.Symbol] = true
		out = append(out, h.Symbol)
	}
	sort.Strings(out)
	return out
}
