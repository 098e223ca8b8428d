package repository

import (
	"context"
	"divmetrics/internal/domain"
	"divmetrics/internal/logger"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// QuoteRepository returns best-effort current prices keyed by symbol.
// Missing symbols are simply absent from the result; it only errors when
// nothing at all could be fetched.
type QuoteRepository interface {
	GetQuotes(ctx context.Context, symbols []string) (map[string]domain.Quote, error)
}

type quoteRepositoryHandler struct {
	cache *cache.Cache
}

const quoteCacheTtl = 5 * time.Minute

func NewQuoteRepository() QuoteRepository {
	return &quoteRepositoryHandler{
		cache: cache.New(quoteCacheTtl, 2*quoteCacheTtl),
	}
}

func (h *quoteRepositoryHandler) GetQuotes(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	log := logger.FromContext(ctx)

	out := map[string]domain.Quote{}
	var lastErr error
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if cached, ok := h.cache.Get(symbol); ok {
			out[symbol] = cached.(domain.Quote)
			continue
		}

		q, err := quote.Get(symbol)
		if err != nil || q == nil {
			if err != nil {
				lastErr = err
			}
			log.Warnf("no quote for %s: %v", symbol, err)
			continue
		}

		result := domain.Quote{
			Symbol:        symbol,
			Price:         decimal.NewFromFloat(q.RegularMarketPrice),
			ChangePercent: decimal.NewFromFloat(q.RegularMarketChangePercent),
			UpdatedAt:     time.Now().UTC(),
		}
		h.cache.Set(symbol, result, cache.DefaultExpiration)
		out[symbol] = result
	}

	if len(out) == 0 && lastErr != nil {
		return nil, domain.MarketDataUnavailableError{Err: lastErr}
	}

	return out, nil
}
