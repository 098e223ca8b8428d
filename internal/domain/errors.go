package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports a missing or out-of-range field on create, update
// or transaction input. Nothing is mutated when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientHoldingError is returned when a sell exceeds the owned amount.
// Owned carries the currently-held quantity so the caller can report it.
type InsufficientHoldingError struct {
	Symbol    string
	Requested decimal.Decimal
	Owned     decimal.Decimal
}

func (e InsufficientHoldingError) Error() string {
	return fmt.Sprintf("cannot sell %s units of %s - you only own %s", e.Requested.String(), e.Symbol, e.Owned.String())
}

// StorageError wraps a failed store operation. The engine never retries;
// callers re-fetch to learn true state.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error {
	return e.Err
}

// MarketDataUnavailableError means the price fetch failed or returned nothing
// usable. It is non-fatal: valuation falls back to purchase price, and the
// error is only surfaced on an explicit user-initiated refresh.
type MarketDataUnavailableError struct {
	Err error
}

func (e MarketDataUnavailableError) Error() string {
	return fmt.Sprintf("market data unavailable: %v", e.Err)
}

func (e MarketDataUnavailableError) Unwrap() error {
	return e.Err
}

// ImportParseError means the parser failed outright or produced nothing
// usable. No holdings are merged when one is returned.
type ImportParseError struct {
	Err error
}

func (e ImportParseError) Error() string {
	if e.Err == nil {
		return "could not extract portfolio data from input"
	}
	return fmt.Sprintf("failed to parse portfolio data: %v", e.Err)
}

func (e ImportParseError) Unwrap() error {
	return e.Err
}
