package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Business-rule failures of the trading core. Every one of them aborts the
// operation with zero mutation; the HTTP layer maps them to status codes.
var (
	ErrSymbolNotFound   = errors.New("symbol not found")
	ErrSymbolDisabled   = errors.New("symbol disabled")
	ErrPriceUnavailable = errors.New("price unavailable")
	ErrPositionNotFound = errors.New("position not found")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
)

// InsufficientFundsError carries the amounts so the caller can display
// required vs. available.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s", e.Required, e.Available)
}

// InsufficientSharesError carries owned vs. requested share counts.
type InsufficientSharesError struct {
	Owned     int64
	Requested int64
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares: owned %d, requested %d", e.Owned, e.Requested)
}
