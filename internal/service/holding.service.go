package service

import (
	"context"
	"database/sql"
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/db/models/postgres/public/table"
	"divmetrics/internal/domain"
	"divmetrics/internal/repository"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingService covers manual create/update/delete of single holdings.
// Mutations take the caller's user scope; a row belonging to someone else is
// treated as not found.
type HoldingService interface {
	ListHoldings(ctx context.Context, userAccountID *uuid.UUID) ([]model.Holding, error)
	CreateHolding(ctx context.Context, input HoldingInput) (*model.Holding, error)
	UpdateHolding(ctx context.Context, holdingID uuid.UUID, input HoldingInput) (*model.Holding, error)
	DeleteHolding(ctx context.Context, holdingID uuid.UUID, userAccountID *uuid.UUID) error
}

type HoldingInput struct {
	UserAccountID *uuid.UUID
	Symbol        string
	Amount        decimal.Decimal
	PurchasePrice decimal.Decimal
	PurchaseDate  time.Time
	CurrentPrice  *decimal.Decimal
	IsBond        bool
	Notes         *string
}

type holdingServiceHandler struct {
	Db                *sql.DB
	HoldingRepository repository.HoldingRepository
}

func NewHoldingService(db *sql.DB, holdingRepository repository.HoldingRepository) HoldingService {
	return holdingServiceHandler{
		Db:                db,
		HoldingRepository: holdingRepository,
	}
}

// normalizeHoldingInput validates required fields and applies defaults. The
// symbol is trimmed but deliberately not uppercased here - only the import
// merge canonicalizes casing.
func normalizeHoldingInput(input HoldingInput) (HoldingInput, error) {
	input.Symbol = strings.TrimSpace(input.Symbol)
	if input.Symbol == "" {
		return input, domain.ValidationError{Field: "symbol", Reason: "must not be empty"}
	}
	if !input.Amount.IsPositive() {
		return input, domain.ValidationError{Field: "amount", Reason: "must be a positive number"}
	}
	if !input.PurchasePrice.IsPositive() {
		return input, domain.ValidationError{Field: "purchasePrice", Reason: "must be a positive number"}
	}
	if input.CurrentPrice != nil {
		if input.CurrentPrice.IsZero() {
			input.CurrentPrice = nil
		} else if input.CurrentPrice.IsNegative() {
			return input, domain.ValidationError{Field: "currentPrice", Reason: "must be a positive number when set"}
		}
	}
	if input.PurchaseDate.IsZero() {
		now := time.Now().UTC()
		input.PurchaseDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return input, nil
}

func (h holdingServiceHandler) ListHoldings(ctx context.Context, userAccountID *uuid.UUID) ([]model.Holding, error) {
	return h.HoldingRepository.List(h.Db, repository.HoldingListFilter{
		UserAccountID: userAccountID,
	})
}

func (h holdingServiceHandler) CreateHolding(ctx context.Context, input HoldingInput) (*model.Holding, error) {
	input, err := normalizeHoldingInput(input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return h.HoldingRepository.Add(h.Db, model.Holding{
		UserAccountID: input.UserAccountID,
		Symbol:        input.Symbol,
		Amount:        input.Amount,
		PurchasePrice: input.PurchasePrice,
		PurchaseDate:  input.PurchaseDate,
		CurrentPrice:  input.CurrentPrice,
		IsBond:        input.IsBond,
		Notes:         input.Notes,
		CreatedAt:     now,
		ModifiedAt:    now,
	})
}

// ownedBy reports whether the holding belongs to the given user scope. A nil
// scope (anonymous, single-user deployment) matches everything.
func ownedBy(h model.Holding, userAccountID *uuid.UUID) bool {
	if userAccountID == nil {
		return true
	}
	return h.UserAccountID != nil && *h.UserAccountID == *userAccountID
}

func (h holdingServiceHandler) UpdateHolding(ctx context.Context, holdingID uuid.UUID, input HoldingInput) (*model.Holding, error) {
	input, err := normalizeHoldingInput(input)
	if err != nil {
		return nil, err
	}

	existing, err := h.HoldingRepository.Get(h.Db, holdingID)
	if err != nil {
		return nil, err
	}
	if !ownedBy(*existing, input.UserAccountID) {
		return nil, fmt.Errorf("holding %s not found: %w", holdingID.String(), qrm.ErrNoRows)
	}

	// the id is immutable; everything else is a full replacement
	return h.HoldingRepository.Update(h.Db, model.Holding{
		HoldingID:     holdingID,
		Symbol:        input.Symbol,
		Amount:        input.Amount,
		PurchasePrice: input.PurchasePrice,
		PurchaseDate:  input.PurchaseDate,
		CurrentPrice:  input.CurrentPrice,
		IsBond:        input.IsBond,
		Notes:         input.Notes,
		ModifiedAt:    time.Now().UTC(),
	}, postgres.ColumnList{
		table.Holding.Symbol,
		table.Holding.Amount,
		table.Holding.PurchasePrice,
		table.Holding.PurchaseDate,
		table.Holding.CurrentPrice,
		table.Holding.IsBond,
		table.Holding.Notes,
		table.Holding.ModifiedAt,
	})
}

// DeleteHolding stays idempotent: a missing row, or one owned by someone
// else, is a no-op.
func (h holdingServiceHandler) DeleteHolding(ctx context.Context, holdingID uuid.UUID, userAccountID *uuid.UUID) error {
	existing, err := h.HoldingRepository.Get(h.Db, holdingID)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return nil
		}
		return err
	}
	if !ownedBy(*existing, userAccountID) {
		return nil
	}

	return h.HoldingRepository.Delete(h.Db, holdingID)
}
