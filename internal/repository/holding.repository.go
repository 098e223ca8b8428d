package repository

import (
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/db/models/postgres/public/table"
	"divmetrics/internal/domain"
	"fmt"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

type HoldingListFilter struct {
	UserAccountID *uuid.UUID
}

// HoldingRepository is the persistent collection of holding records. Every
// method takes the db handle (or an open tx) explicitly so callers control
// transaction boundaries.
type HoldingRepository interface {
	Get(db qrm.DB, holdingID uuid.UUID) (*model.Holding, error)
	List(db qrm.DB, filter HoldingListFilter) ([]model.Holding, error)
	Add(db qrm.DB, h model.Holding) (*model.Holding, error)
	Update(db qrm.DB, h model.Holding, columns postgres.ColumnList) (*model.Holding, error)
	Delete(db qrm.DB, holdingID uuid.UUID) error
	BulkUpsert(db qrm.DB, holdings []model.Holding) error
}

type holdingRepositoryHandler struct{}

func NewHoldingRepository() HoldingRepository {
	return holdingRepositoryHandler{}
}

func (h holdingRepositoryHandler) Get(db qrm.DB, holdingID uuid.UUID) (*model.Holding, error) {
	query := table.Holding.
		SELECT(table.Holding.AllColumns).
		WHERE(table.Holding.HoldingID.EQ(postgres.UUID(holdingID)))

	out := model.Holding{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, domain.StorageError{Op: fmt.Sprintf("get holding %s", holdingID.String()), Err: err}
	}

	return &out, nil
}

func (h holdingRepositoryHandler) List(db qrm.DB, filter HoldingListFilter) ([]model.Holding, error) {
	query := table.Holding.SELECT(table.Holding.AllColumns)
	if filter.UserAccountID != nil {
		query = query.WHERE(table.Holding.UserAccountID.EQ(postgres.UUID(*filter.UserAccountID)))
	}
	query = query.ORDER_BY(table.Holding.CreatedAt.ASC())

	out := []model.Holding{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, domain.StorageError{Op: "list holdings", Err: err}
	}

	return out, nil
}

func (h holdingRepositoryHandler) Add(db qrm.DB, in model.Holding) (*model.Holding, error) {
	query := table.Holding.
		INSERT(table.Holding.MutableColumns).
		MODEL(in).
		RETURNING(table.Holding.AllColumns)

	out := model.Holding{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, domain.StorageError{Op: "insert holding", Err: err}
	}

	return &out, nil
}

func (h holdingRepositoryHandler) Update(db qrm.DB, in model.Holding, columns postgres.ColumnList) (*model.Holding, error) {
	query := table.Holding.
		UPDATE(columns).
		MODEL(in).
		WHERE(table.Holding.HoldingID.EQ(postgres.UUID(in.HoldingID))).
		RETURNING(table.Holding.AllColumns)

	out := model.Holding{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, domain.StorageError{Op: fmt.Sprintf("update holding %s", in.HoldingID.String()), Err: err}
	}

	return &out, nil
}

// Delete is idempotent - removing an id that does not exist is a no-op.
func (h holdingRepositoryHandler) Delete(db qrm.DB, holdingID uuid.UUID) error {
	query := table.Holding.
		DELETE().
		WHERE(table.Holding.HoldingID.EQ(postgres.UUID(holdingID)))

	_, err := query.Exec(db)
	if err != nil {
		return domain.StorageError{Op: fmt.Sprintf("delete holding %s", holdingID.String()), Err: err}
	}

	return nil
}

// BulkUpsert writes the whole merged set in one statement so an observer
// never sees a partially-applied import.
func (h holdingRepositoryHandler) BulkUpsert(db qrm.DB, holdings []model.Holding) error {
	if len(holdings) == 0 {
		return nil
	}

	query := table.Holding.
		INSERT(table.Holding.AllColumns).
		MODELS(holdings).
		ON_CONFLICT(table.Holding.HoldingID).DO_UPDATE(
		postgres.SET(
			table.Holding.Symbol.SET(table.Holding.EXCLUDED.Symbol),
			table.Holding.Amount.SET(table.Holding.EXCLUDED.Amount),
			table.Holding.PurchasePrice.SET(table.Holding.EXCLUDED.PurchasePrice),
			table.Holding.PurchaseDate.SET(table.Holding.EXCLUDED.PurchaseDate),
			table.Holding.CurrentPrice.SET(table.Holding.EXCLUDED.CurrentPrice),
			table.Holding.IsBond.SET(table.Holding.EXCLUDED.IsBond),
			table.Holding.Notes.SET(table.Holding.EXCLUDED.Notes),
			table.Holding.ModifiedAt.SET(table.Holding.EXCLUDED.ModifiedAt),
		),
	)

	_, err := query.Exec(db)
	if err != nil {
		return domain.StorageError{Op: fmt.Sprintf("bulk upsert %d holdings", len(holdings)), Err: err}
	}

	return nil
}
