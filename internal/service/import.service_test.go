package service

import (
	"context"
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/domain"
	mock_repository "divmetrics/internal/repository/mocks"
	"divmetrics/internal/util"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_mergeCandidates(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("case-insensitive match merges additively and keeps id", func(t *testing.T) {
		existingID := uuid.New()
		existing := []model.Holding{
			{
				HoldingID:     existingID,
				Symbol:        "AAPL",
				Amount:        decimal.NewFromInt(10),
				PurchasePrice: decimal.NewFromInt(100),
			},
		}
		candidates := []domain.ImportCandidate{
			{
				Symbol:        "aapl",
				Amount:        util.FloatPointer(5),
				PurchasePrice: util.FloatPointer(110),
			},
		}

		toUpsert, result := mergeCandidates(existing, normalizeAll(candidates, now), &userID, now)

		require.Equal(t, 1, result.Merged)
		require.Equal(t, 0, result.Created)
		require.Len(t, toUpsert, 1)
		require.Equal(t, existingID, toUpsert[0].HoldingID)
		require.True(t, decimal.NewFromInt(15).Equal(toUpsert[0].Amount), toUpsert[0].Amount.String())
		require.True(t, decimal.NewFromInt(110).Equal(toUpsert[0].PurchasePrice))
	})

	t.Run("purchase price kept when candidate omits it", func(t *testing.T) {
		existing := []model.Holding{
			{
				HoldingID:     uuid.New(),
				Symbol:        "AAPL",
				Amount:        decimal.NewFromInt(10),
				PurchasePrice: decimal.NewFromInt(100),
			},
		}
		candidates := []domain.ImportCandidate{
			{Symbol: "AAPL", Amount: util.FloatPointer(5)},
		}

		toUpsert, _ := mergeCandidates(existing, normalizeAll(candidates, now), &userID, now)

		require.Len(t, toUpsert, 1)
		require.True(t, decimal.NewFromInt(100).Equal(toUpsert[0].PurchasePrice))
	})

	t.Run("current price replaced only when truthy", func(t *testing.T) {
		existing := []model.Holding{
			{
				HoldingID:     uuid.New(),
				Symbol:        "AAPL",
				Amount:        decimal.NewFromInt(10),
				PurchasePrice: decimal.NewFromInt(100),
				CurrentPrice:  util.DecimalPointer(decimal.NewFromInt(150)),
			},
		}
		candidates := []domain.ImportCandidate{
			{Symbol: "AAPL", Amount: util.FloatPointer(1), Price: util.FloatPointer(0)},
		}

		toUpsert, _ := mergeCandidates(existing, normalizeAll(candidates, now), &userID, now)

		require.Len(t, toUpsert, 1)
		require.NotNil(t, toUpsert[0].CurrentPrice)
		require.True(t, decimal.NewFromInt(150).Equal(*toUpsert[0].CurrentPrice))
	})

	t.Run("new symbols insert with fresh distinct ids", func(t *testing.T) {
		candidates := []domain.ImportCandidate{
			{Symbol: "VTI", Amount: util.FloatPointer(3), PurchasePrice: util.FloatPointer(200)},
			{Symbol: "BND", Amount: util.FloatPointer(7), PurchasePrice: util.FloatPointer(80), IsBond: util.BoolPointer(true)},
		}

		toUpsert, result := mergeCandidates(nil, normalizeAll(candidates, now), &userID, now)

		require.Equal(t, 2, result.Created)
		require.Len(t, toUpsert, 2)
		require.NotEqual(t, toUpsert[0].HoldingID, toUpsert[1].HoldingID)
		require.Equal(t, &userID, toUpsert[0].UserAccountID)
		require.True(t, toUpsert[1].IsBond)
	})

	t.Run("repeated candidate symbols merge into the staged row", func(t *testing.T) {
		candidates := []domain.ImportCandidate{
			{Symbol: "VTI", Amount: util.FloatPointer(3), PurchasePrice: util.FloatPointer(200)},
			{Symbol: "vti", Amount: util.FloatPointer(2)},
		}

		toUpsert, result := mergeCandidates(nil, normalizeAll(candidates, now), &userID, now)

		require.Equal(t, 1, result.Created)
		require.Equal(t, 1, result.Merged)
		require.Len(t, toUpsert, 1)
		require.True(t, decimal.NewFromInt(5).Equal(toUpsert[0].Amount))
	})

	t.Run("merge events are counted per matching candidate", func(t *testing.T) {
		existing := []model.Holding{
			{
				HoldingID:     uuid.New(),
				Symbol:        "AAPL",
				Amount:        decimal.NewFromInt(10),
				PurchasePrice: decimal.NewFromInt(100),
			},
		}
		candidates := []domain.ImportCandidate{
			{Symbol: "aapl", Amount: util.FloatPointer(5)},
			{Symbol: "AAPL", Amount: util.FloatPointer(2)},
		}

		toUpsert, result := mergeCandidates(existing, normalizeAll(candidates, now), &userID, now)

		require.Equal(t, 2, result.Merged)
		require.Equal(t, 0, result.Created)
		require.Len(t, toUpsert, 1)
		require.True(t, decimal.NewFromInt(17).Equal(toUpsert[0].Amount), toUpsert[0].Amount.String())
	})

	t.Run("negative amounts never merge", func(t *testing.T) {
		existing := []model.Holding{
			{
				HoldingID:     uuid.New(),
				Symbol:        "AAPL",
				Amount:        decimal.NewFromInt(10),
				PurchasePrice: decimal.NewFromInt(100),
			},
		}
		candidates := []domain.ImportCandidate{
			{Symbol: "AAPL", Amount: util.FloatPointer(-15)},
		}

		toUpsert, result := mergeCandidates(existing, normalizeAll(candidates, now), &userID, now)

		require.Equal(t, 1, result.Skipped)
		require.Equal(t, 0, result.Merged)
		require.Empty(t, toUpsert)
	})

	t.Run("new symbols without amount or price are skipped", func(t *testing.T) {
		candidates := []domain.ImportCandidate{
			{Symbol: "VTI", PurchasePrice: util.FloatPointer(200)},
			{Symbol: "BND", Amount: util.FloatPointer(7)},
			{Symbol: ""},
		}

		toUpsert, result := mergeCandidates(nil, normalizeAll(candidates, now), &userID, now)

		require.Equal(t, 3, result.Skipped)
		require.Empty(t, toUpsert)
	})

	t.Run("untouched holdings are not rewritten", func(t *testing.T) {
		existing := []model.Holding{
			{HoldingID: uuid.New(), Symbol: "AAPL", Amount: decimal.NewFromInt(1), PurchasePrice: decimal.NewFromInt(1)},
			{HoldingID: uuid.New(), Symbol: "MSFT", Amount: decimal.NewFromInt(1), PurchasePrice: decimal.NewFromInt(1)},
		}
		candidates := []domain.ImportCandidate{
			{Symbol: "MSFT", Amount: util.FloatPointer(1)},
		}

		toUpsert, _ := mergeCandidates(existing, normalizeAll(candidates, now), &userID, now)

		require.Len(t, toUpsert, 1)
		require.Equal(t, "MSFT", toUpsert[0].Symbol)
	})
}

func Test_csvCandidates(t *testing.T) {
	t.Run("strict header parses without the llm", func(t *testing.T) {
		out := csvCandidates("Symbol, Amount, Price\nAAPL,10,150.5\nVTI,3,200")

		want := []domain.ImportCandidate{
			{Symbol: "AAPL", Amount: util.FloatPointer(10), PurchasePrice: util.FloatPointer(150.5)},
			{Symbol: "VTI", Amount: util.FloatPointer(3), PurchasePrice: util.FloatPointer(200)},
		}
		require.Empty(t, cmp.Diff(want, out))
	})

	t.Run("non-csv input returns nil", func(t *testing.T) {
		require.Nil(t, csvCandidates("I own ten shares of apple"))
		require.Nil(t, csvCandidates("Symbol,Amount\nAAPL,10"))
	})
}

func Test_ImportHoldings(t *testing.T) {
	t.Run("empty input is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewImportService(nil, mock_repository.NewMockHoldingRepository(ctrl), mock_repository.NewMockGptRepository(ctrl))

		_, err := svc.ImportHoldings(context.Background(), nil, "   ")

		var validationErr domain.ValidationError
		require.True(t, errors.As(err, &validationErr))
	})

	t.Run("parser failure surfaces without touching the db", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gptRepository := mock_repository.NewMockGptRepository(ctrl)
		gptRepository.EXPECT().
			ParseHoldings(gomock.Any(), gomock.Any()).
			Return(nil, domain.ImportParseError{Err: errors.New("gibberish")})

		svc := NewImportService(nil, mock_repository.NewMockHoldingRepository(ctrl), gptRepository)

		_, err := svc.ImportHoldings(context.Background(), nil, "not a portfolio")

		var parseErr domain.ImportParseError
		require.True(t, errors.As(err, &parseErr))
	})

	t.Run("zero candidates is a parse error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gptRepository := mock_repository.NewMockGptRepository(ctrl)
		gptRepository.EXPECT().
			ParseHoldings(gomock.Any(), gomock.Any()).
			Return([]domain.ImportCandidate{}, nil)

		svc := NewImportService(nil, mock_repository.NewMockHoldingRepository(ctrl), gptRepository)

		_, err := svc.ImportHoldings(context.Background(), nil, "hello world")

		var parseErr domain.ImportParseError
		require.True(t, errors.As(err, &parseErr))
	})
}

func normalizeAll(candidates []domain.ImportCandidate, now time.Time) []domain.NormalizedCandidate {
	out := make([]domain.NormalizedCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Normalize(now))
	}
	return out
}
