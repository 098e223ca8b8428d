package service

import (
	"context"
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/domain"
	mock_repository "divmetrics/internal/repository/mocks"
	"errors"
	"testing"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_ownedBy(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	t.Run("nil scope matches everything", func(t *testing.T) {
		require.True(t, ownedBy(model.Holding{UserAccountID: &owner}, nil))
		require.True(t, ownedBy(model.Holding{}, nil))
	})

	t.Run("scoped caller only matches their own rows", func(t *testing.T) {
		require.True(t, ownedBy(model.Holding{UserAccountID: &owner}, &owner))
		require.False(t, ownedBy(model.Holding{UserAccountID: &other}, &owner))
		require.False(t, ownedBy(model.Holding{}, &owner))
	})
}

func Test_UpdateHolding_ownerScope(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	holdingID := uuid.New()

	input := HoldingInput{
		UserAccountID: &other,
		Symbol:        "AAPL",
		Amount:        decimal.NewFromInt(5),
		PurchasePrice: decimal.NewFromInt(100),
	}

	t.Run("another owner's row reads as not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		holdingRepository := mock_repository.NewMockHoldingRepository(ctrl)
		holdingRepository.EXPECT().
			Get(gomock.Any(), holdingID).
			Return(&model.Holding{
				HoldingID:     holdingID,
				UserAccountID: &owner,
				Symbol:        "AAPL",
				Amount:        decimal.NewFromInt(10),
				PurchasePrice: decimal.NewFromInt(100),
			}, nil)

		svc := NewHoldingService(nil, holdingRepository)

		_, err := svc.UpdateHolding(context.Background(), holdingID, input)
		require.True(t, errors.Is(err, qrm.ErrNoRows))
	})

	t.Run("own row updates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		holdingRepository := mock_repository.NewMockHoldingRepository(ctrl)
		holdingRepository.EXPECT().
			Get(gomock.Any(), holdingID).
			Return(&model.Holding{
				HoldingID:     holdingID,
				UserAccountID: &other,
				Symbol:        "AAPL",
				Amount:        decimal.NewFromInt(10),
				PurchasePrice: decimal.NewFromInt(100),
			}, nil)
		holdingRepository.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&model.Holding{HoldingID: holdingID}, nil)

		svc := NewHoldingService(nil, holdingRepository)

		out, err := svc.UpdateHolding(context.Background(), holdingID, input)
		require.NoError(t, err)
		require.Equal(t, holdingID, out.HoldingID)
	})
}

func Test_DeleteHolding_ownerScope(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	holdingID := uuid.New()

	t.Run("another owner's row is left alone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		holdingRepository := mock_repository.NewMockHoldingRepository(ctrl)
		holdingRepository.EXPECT().
			Get(gomock.Any(), holdingID).
			Return(&model.Holding{HoldingID: holdingID, UserAccountID: &owner}, nil)

		svc := NewHoldingService(nil, holdingRepository)

		require.NoError(t, svc.DeleteHolding(context.Background(), holdingID, &other))
	})

	t.Run("missing row is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		holdingRepository := mock_repository.NewMockHoldingRepository(ctrl)
		holdingRepository.EXPECT().
			Get(gomock.Any(), holdingID).
			Return(nil, domain.StorageError{Op: "get holding", Err: qrm.ErrNoRows})

		svc := NewHoldingService(nil, holdingRepository)

		require.NoError(t, svc.DeleteHolding(context.Background(), holdingID, &owner))
	})

	t.Run("own row deletes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		holdingRepository := mock_repository.NewMockHoldingRepository(ctrl)
		holdingRepository.EXPECT().
			Get(gomock.Any(), holdingID).
			Return(&model.Holding{HoldingID: holdingID, UserAccountID: &owner}, nil)
		holdingRepository.EXPECT().
			Delete(gomock.Any(), holdingID).
			Return(nil)

		svc := NewHoldingService(nil, holdingRepository)

		require.NoError(t, svc.DeleteHolding(context.Background(), holdingID, &owner))
	})
}
