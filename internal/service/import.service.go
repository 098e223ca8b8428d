package service

import (
	"context"
	"database/sql"
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/domain"
	"divmetrics/internal/logger"
	"divmetrics/internal/repository"
	"fmt"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
)

// ImportService bulk-imports holdings from free text. Strict CSV input is
// parsed locally; anything else goes through the LLM parser. The resulting
// candidates are merged into the current holding set in one batch.
type ImportService interface {
	ImportHoldings(ctx context.Context, userAccountID *uuid.UUID, freeText string) (*ImportResult, error)
}

type ImportResult struct {
	Created  int
	Merged   int
	Skipped  int
	Holdings []model.Holding
}

type importServiceHandler struct {
	Db                *sql.DB
	HoldingRepository repository.HoldingRepository
	GptRepository     repository.GptRepository
}

func NewImportService(db *sql.DB, holdingRepository repository.HoldingRepository, gptRepository repository.GptRepository) ImportService {
	return importServiceHandler{
		Db:                db,
		HoldingRepository: holdingRepository,
		GptRepository:     gptRepository,
	}
}

const parseTimeout = 60 * time.Second

func (h importServiceHandler) ImportHoldings(ctx context.Context, userAccountID *uuid.UUID, freeText string) (*ImportResult, error) {
	log := logger.FromContext(ctx)

	freeText = strings.TrimSpace(freeText)
	if freeText == "" {
		return nil, domain.ValidationError{Field: "input", Reason: "must not be empty"}
	}

	candidates := csvCandidates(freeText)
	if candidates == nil {
		parseCtx, cancel := context.WithTimeout(ctx, parseTimeout)
		defer cancel()

		var err error
		candidates, err = h.GptRepository.ParseHoldings(parseCtx, freeText)
		if err != nil {
			return nil, err
		}
	} else {
		log.Infof("import input recognized as CSV, skipping parser")
	}
	if len(candidates) == 0 {
		return nil, domain.ImportParseError{}
	}

	now := time.Now().UTC()
	normalized := make([]domain.NormalizedCandidate, 0, len(candidates))
	for _, c := range candidates {
		normalized = append(normalized, c.Normalize(now))
	}

	tx, err := h.Db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing, err := h.HoldingRepository.List(tx, repository.HoldingListFilter{
		UserAccountID: userAccountID,
	})
	if err != nil {
		return nil, err
	}

	toUpsert, result := mergeCandidates(existing, normalized, userAccountID, now)
	err = h.HoldingRepository.BulkUpsert(tx, toUpsert)
	if err != nil {
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	result.Holdings = toUpsert
	return result, nil
}

// mergeCandidates folds candidates into the existing set. Matching is
// case-insensitive on symbol; a match adds the candidate amount to the
// existing one, replaces the purchase price only when the candidate carries
// one, and keeps the existing id. Unmatched candidates become new holdings
// with fresh ids, provided they carry a positive amount and purchase price.
// Merged counts merge events, one per matching candidate.
func mergeCandidates(existing []model.Holding, candidates []domain.NormalizedCandidate, userAccountID *uuid.UUID, now time.Time) ([]model.Holding, *ImportResult) {
	result := &ImportResult{}

	working := make([]model.Holding, len(existing))
	copy(working, existing)

	changed := map[uuid.UUID]bool{}

	for _, c := range candidates {
		if c.Symbol == "" {
			result.Skipped++
			continue
		}
		// a negative amount could drive a merged holding to zero or below
		if c.Amount.IsNegative() {
			result.Skipped++
			continue
		}

		idx := -1
		for i, h := range working {
			if strings.ToUpper(h.Symbol) == c.Symbol {
				idx = i
				break
			}
		}

		if idx >= 0 {
			h := working[idx]
			h.Amount = h.Amount.Add(c.Amount)
			if c.PurchasePrice != nil {
				h.PurchasePrice = *c.PurchasePrice
			}
			if !c.PurchaseDate.IsZero() {
				h.PurchaseDate = c.PurchaseDate
			}
			if c.IsBond != nil {
				h.IsBond = *c.IsBond
			}
			if c.CurrentPrice != nil {
				h.CurrentPrice = c.CurrentPrice
			}
			if c.Notes != nil {
				h.Notes = c.Notes
			}
			h.ModifiedAt = now
			working[idx] = h
			changed[h.HoldingID] = true
			result.Merged++
			continue
		}

		// new symbols must satisfy the holding invariants up front
		if !c.Amount.IsPositive() || c.PurchasePrice == nil || !c.PurchasePrice.IsPositive() {
			result.Skipped++
			continue
		}

		isBond := false
		if c.IsBond != nil {
			isBond = *c.IsBond
		}
		working = append(working, model.Holding{
			HoldingID:     uuid.New(),
			UserAccountID: userAccountID,
			Symbol:        c.Symbol,
			Amount:        c.Amount,
			PurchasePrice: *c.PurchasePrice,
			PurchaseDate:  c.PurchaseDate,
			CurrentPrice:  c.CurrentPrice,
			IsBond:        isBond,
			Notes:         c.Notes,
			CreatedAt:     now,
			ModifiedAt:    now,
		})
		changed[working[len(working)-1].HoldingID] = true
		result.Created++
	}

	toUpsert := []model.Holding{}
	for _, h := range working {
		if changed[h.HoldingID] {
			toUpsert = append(toUpsert, h)
		}
	}

	return toUpsert, result
}

type csvImportRow struct {
	Symbol string  `csv:"Symbol"`
	Amount float64 `csv:"Amount"`
	Price  float64 `csv:"Price"`
}

// csvCandidates handles the strict "Symbol,Amount,Price" format without an
// LLM round trip. Returns nil when the input doesn't look like that.
func csvCandidates(freeText string) []domain.ImportCandidate {
	lines := strings.Split(freeText, "\n")
	header := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lines[0]), " ", ""))
	if header != "symbol,amount,price" {
		return nil
	}
	lines[0] = "Symbol,Amount,Price"

	rows := []*csvImportRow{}
	if err := gocsv.UnmarshalString(strings.Join(lines, "\n"), &rows); err != nil {
		return nil
	}

	out := make([]domain.ImportCandidate, 0, len(rows))
	for _, row := range rows {
		amount := row.Amount
		price := row.Price
		out = append(out, domain.ImportCandidate{
			Symbol:        row.Symbol,
			Amount:        &amount,
			PurchasePrice: &price,
		})
	}

	return out
}
