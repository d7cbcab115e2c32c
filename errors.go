package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrValidation is returned when a lot does not belong in the basket it is added to,
	// or when a snapshot row cannot be turned into a lot.
	ErrValidation = errors.New("validation error")
	// ErrInvalidTransaction is returned for malformed transactions.
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrInsufficientInventory is returned when a disposal exceeds the held quantity.
	ErrInsufficientInventory = errors.New("insufficient inventory")
	// ErrMissingPrice is returned when an oracle has no price for the requested date.
	ErrMissingPrice = errors.New("missing price")
)

// InvalidTransactionError describes why a transaction was rejected.
type InvalidTransactionError struct {
	TxID   string
	Reason string
}

func (e *InvalidTransactionError) Error() string {
	if e.TxID == "" {
		return fmt.Sprintf("invalid transaction: %s", e.Reason)
	}
	return fmt.Sprintf("invalid transaction %s: %s", e.TxID, e.Reason)
}

func (e *InvalidTransactionError) Unwrap() error { return ErrInvalidTransaction }

// InsufficientInventoryError reports how much was asked for and how much was held.
type InsufficientInventoryError struct {
	Asset     string
	Requested decimal.Decimal
	Held      decimal.Decimal
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient %s: want %s, have %s", e.Asset, e.Requested, e.Held)
}

func (e *InsufficientInventoryError) Unwrap() error { return ErrInsufficientInventory }

// MissingPriceError names the asset and the exact date that had no price.
type MissingPriceError struct {
	Asset string
	Date  time.Time
}

func (e *MissingPriceError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("missing historical prices for %s", e.Asset)
	}
	return fmt.Sprintf("missing %s historical price for %s", e.Asset, e.Date.Format(DateFormat))
}

func (e *MissingPriceError) Unwrap() error { return ErrMissingPrice }

// ValidationError is returned when a lot or snapshot row breaks a basket invariant.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }
