package service

import (
	"context"
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/domain"
	mock_repository "divmetrics/internal/repository/mocks"
	"divmetrics/internal/util"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_QuoteSymbols(t *testing.T) {
	holdings := []model.Holding{
		{Symbol: "VTI"},
		{Symbol: "AAPL"},
		{Symbol: "AAPL"},
		{Symbol: "BND", IsBond: true},
		{Symbol: "MSFT", CurrentPrice: util.DecimalPointer(decimal.NewFromInt(400))},
		{Symbol: ""},
	}

	require.Equal(t, []string{"AAPL", "VTI"}, QuoteSymbols(holdings))
}

func Test_GetQuotes(t *testing.T) {
	holdings := []model.Holding{
		{Symbol: "AAPL", PurchasePrice: decimal.NewFromInt(100)},
		{Symbol: "VTI", PurchasePrice: decimal.NewFromInt(200)},
	}

	t.Run("manual mode skips fetching", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewQuoteService(mock_repository.NewMockQuoteRepository(ctrl), mock_repository.NewMockAlpacaRepository(ctrl))

		quotes, err := svc.GetQuotes(context.Background(), holdings, true, false)
		require.NoError(t, err)
		require.Empty(t, quotes)
	})

	t.Run("manual mode with force still fetches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)
		quoteRepository.EXPECT().
			GetQuotes(gomock.Any(), []string{"AAPL", "VTI"}).
			Return(map[string]domain.Quote{
				"AAPL": {Symbol: "AAPL", Price: decimal.NewFromInt(180)},
				"VTI":  {Symbol: "VTI", Price: decimal.NewFromInt(250)},
			}, nil)

		svc := NewQuoteService(quoteRepository, mock_repository.NewMockAlpacaRepository(ctrl))

		quotes, err := svc.GetQuotes(context.Background(), holdings, true, true)
		require.NoError(t, err)
		require.Len(t, quotes, 2)
	})

	t.Run("missing symbols filled from secondary source", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)
		quoteRepository.EXPECT().
			GetQuotes(gomock.Any(), []string{"AAPL", "VTI"}).
			Return(map[string]domain.Quote{
				"AAPL": {Symbol: "AAPL", Price: decimal.NewFromInt(180)},
			}, nil)

		alpacaRepository := mock_repository.NewMockAlpacaRepository(ctrl)
		alpacaRepository.EXPECT().
			GetLatestPrices(gomock.Any(), []string{"VTI"}).
			Return(map[string]decimal.Decimal{"VTI": decimal.NewFromInt(251)}, nil)

		svc := NewQuoteService(quoteRepository, alpacaRepository)

		quotes, err := svc.GetQuotes(context.Background(), holdings, false, false)
		require.NoError(t, err)
		require.Len(t, quotes, 2)
		require.True(t, decimal.NewFromInt(251).Equal(quotes["VTI"].Price))
	})

	t.Run("secondary source failure is non-fatal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)
		quoteRepository.EXPECT().
			GetQuotes(gomock.Any(), []string{"AAPL", "VTI"}).
			Return(map[string]domain.Quote{
				"AAPL": {Symbol: "AAPL", Price: decimal.NewFromInt(180)},
			}, nil)

		alpacaRepository := mock_repository.NewMockAlpacaRepository(ctrl)
		alpacaRepository.EXPECT().
			GetLatestPrices(gomock.Any(), []string{"VTI"}).
			Return(nil, errors.New("feed down"))

		svc := NewQuoteService(quoteRepository, alpacaRepository)

		quotes, err := svc.GetQuotes(context.Background(), holdings, false, false)
		require.NoError(t, err)
		require.Len(t, quotes, 1)
	})

	t.Run("primary source failure propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)
		quoteRepository.EXPECT().
			GetQuotes(gomock.Any(), gomock.Any()).
			Return(nil, domain.MarketDataUnavailableError{Err: errors.New("rate limited")})

		svc := NewQuoteService(quoteRepository, mock_repository.NewMockAlpacaRepository(ctrl))

		_, err := svc.GetQuotes(context.Background(), holdings, false, false)

		var unavailableErr domain.MarketDataUnavailableError
		require.True(t, errors.As(err, &unavailableErr))
	})

	t.Run("no quotable symbols short-circuits", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewQuoteService(mock_repository.NewMockQuoteRepository(ctrl), mock_repository.NewMockAlpacaRepository(ctrl))

		quotes, err := svc.GetQuotes(context.Background(), []model.Holding{
			{Symbol: "BND", IsBond: true},
		}, false, false)
		require.NoError(t, err)
		require.Empty(t, quotes)
	})

	t.Run("stale refresh is discarded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)

		svc := NewQuoteService(quoteRepository, mock_repository.NewMockAlpacaRepository(ctrl)).(*quoteServiceHandler)

		// simulate a refresh that started after ours but finished first
		quoteRepository.EXPECT().
			GetQuotes(gomock.Any(), []string{"AAPL", "VTI"}).
			DoAndReturn(func(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
				svc.generation.Add(1)
				return map[string]domain.Quote{
					"AAPL": {Symbol: "AAPL", Price: decimal.NewFromInt(180)},
					"VTI":  {Symbol: "VTI", Price: decimal.NewFromInt(250)},
				}, nil
			})

		quotes, err := svc.GetQuotes(context.Background(), holdings, false, false)
		require.NoError(t, err)
		require.Nil(t, quotes)
	})
}
