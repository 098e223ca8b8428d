package service

import (
	"context"
	"database/sql"
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/db/models/postgres/public/table"
	"divmetrics/internal/domain"
	"divmetrics/internal/repository"
	"fmt"
	"time"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeService applies buy and sell transactions to an existing holding.
// Each operation runs in a single transaction so the read-modify-write is
// atomic relative to other mutations.
type TradeService interface {
	Buy(ctx context.Context, input TransactionInput) (*model.Holding, error)
	// Sell returns nil when the position was closed (sold to zero).
	Sell(ctx context.Context, input TransactionInput) (*model.Holding, error)
}

type TransactionInput struct {
	HoldingID     uuid.UUID
	UserAccountID *uuid.UUID
	Amount        decimal.Decimal
	Price         decimal.Decimal
}

type tradeServiceHandler struct {
	Db                *sql.DB
	HoldingRepository repository.HoldingRepository
}

func NewTradeService(db *sql.DB, holdingRepository repository.HoldingRepository) TradeService {
	return tradeServiceHandler{
		Db:                db,
		HoldingRepository: holdingRepository,
	}
}

func validateTransactionInput(input TransactionInput) error {
	if !input.Amount.IsPositive() {
		return domain.ValidationError{Field: "amount", Reason: "must be a positive number"}
	}
	if !input.Price.IsPositive() {
		return domain.ValidationError{Field: "price", Reason: "must be a positive number"}
	}
	return nil
}

// applyBuy folds a purchase into the holding using cost-basis weighted
// averaging: newPrice = (a1*p1 + a2*p2) / (a1+a2).
func applyBuy(h model.Holding, amount, price decimal.Decimal) model.Holding {
	newAmount := h.Amount.Add(amount)
	totalCost := h.Amount.Mul(h.PurchasePrice).Add(amount.Mul(price))
	h.PurchasePrice = totalCost.Div(newAmount)
	h.Amount = newAmount
	return h
}

// applySell reduces the amount, leaving the cost basis untouched. Selling
// more than is owned fails before anything is changed.
func applySell(h model.Holding, amount decimal.Decimal) (model.Holding, error) {
	if amount.GreaterThan(h.Amount) {
		return h, domain.InsufficientHoldingError{
			Symbol:    h.Symbol,
			Requested: amount,
			Owned:     h.Amount,
		}
	}
	h.Amount = h.Amount.Sub(amount)
	return h, nil
}

func (h tradeServiceHandler) Buy(ctx context.Context, input TransactionInput) (*model.Holding, error) {
	if err := validateTransactionInput(input); err != nil {
		return nil, err
	}

	tx, err := h.Db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	holding, err := h.HoldingRepository.Get(tx, input.HoldingID)
	if err != nil {
		return nil, err
	}
	if !ownedBy(*holding, input.UserAccountID) {
		return nil, fmt.Errorf("holding %s not found: %w", input.HoldingID.String(), qrm.ErrNoRows)
	}

	updated := applyBuy(*holding, input.Amount, input.Price)
	updated.ModifiedAt = time.Now().UTC()

	out, err := h.HoldingRepository.Update(tx, updated, postgres.ColumnList{
		table.Holding.Amount,
		table.Holding.PurchasePrice,
		table.Holding.ModifiedAt,
	})
	if err != nil {
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit buy transaction: %w", err)
	}

	return out, nil
}

func (h tradeServiceHandler) Sell(ctx context.Context, input TransactionInput) (*model.Holding, error) {
	if err := validateTransactionInput(input); err != nil {
		return nil, err
	}

	tx, err := h.Db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	holding, err := h.HoldingRepository.Get(tx, input.HoldingID)
	if err != nil {
		return nil, err
	}
	if !ownedBy(*holding, input.UserAccountID) {
		return nil, fmt.Errorf("holding %s not found: %w", input.HoldingID.String(), qrm.ErrNoRows)
	}

	updated, err := applySell(*holding, input.Amount)
	if err != nil {
		return nil, err
	}

	// selling to zero closes the position - zero-amount holdings are
	// never persisted
	if updated.Amount.IsZero() {
		if err := h.HoldingRepository.Delete(tx, input.HoldingID); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit sell transaction: %w", err)
		}
		return nil, nil
	}

	updated.ModifiedAt = time.Now().UTC()
	out, err := h.HoldingRepository.Update(tx, updated, postgres.ColumnList{
		table.Holding.Amount,
		table.Holding.ModifiedAt,
	})
	if err != nil {
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit sell transaction: %w", err)
	}

	return out, nil
}
