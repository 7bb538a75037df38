package domain

import (
	"fmt"

	"github.com/ketoan-erp/accounting-core/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Money is a decimal amount bound to a currency. Arithmetic stays in exact
// decimal semantics so financial sums never accumulate binary rounding drift.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// NewMoney creates a Money value. Negative amounts are rejected: bookkeeping
// records amounts as non-negative debits or credits, never signed values.
func NewMoney(amount decimal.Decimal, currencyCode string) (Money, error) {
	if currencyCode == "" {
		return Money{}, fmt.Errorf("%w: currency code is required", apperrors.ErrValidation)
	}
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: amount must not be negative, got %s", apperrors.ErrValidation, amount.String())
	}
	return Money{Amount: amount, CurrencyCode: currencyCode}, nil
}

// Add returns the sum of two Money values of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.CurrencyCode != other.CurrencyCode {
		return Money{}, fmt.Errorf("%w: cannot add %s to %s", apperrors.ErrValidation, other.CurrencyCode, m.CurrencyCode)
	}
	return Money{Amount: m.Amount.Add(other.Amount), CurrencyCode: m.CurrencyCode}, nil
}

// Equal reports exact decimal equality of amount and currency.
func (m Money) Equal(other Money) bool {
	return m.CurrencyCode == other.CurrencyCode && m.Amount.Equal(other.Amount)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) String() string {
	return m.Amount.String() + " " + m.CurrencyCode
}
