package domain

import (
	"fmt"

	"github.com/ketoan-erp/accounting-core/internal/apperrors"
)

// AccountType defines the fundamental accounting classification of an account.
type AccountType string

const (
	Asset        AccountType = "ASSET"
	Liability    AccountType = "LIABILITY"
	Equity       AccountType = "EQUITY"
	Revenue      AccountType = "REVENUE"
	Expense      AccountType = "EXPENSE"
	OtherIncome  AccountType = "OTHER_INCOME"
	OtherExpense AccountType = "OTHER_EXPENSE"
)

// IsValid reports whether the account type is one of the known classifications.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense, OtherIncome, OtherExpense:
		return true
	}
	return false
}

// Account represents a financial account in the chart of accounts.
// The code is the stable business key; once a posted line references it the
// account is never hard-deleted and the code is never reused.
type Account struct {
	Code        string      `json:"code"`       // Stable key, 3-4 digits (e.g. 111, 511, 3331)
	Name        string      `json:"name"`       // Display name
	AccountType AccountType `json:"accountType"`
	ParentCode  string      `json:"parentCode"` // Optional hierarchy parent, empty for roots
	Description string      `json:"description"`
	IsActive    bool        `json:"isActive"`
	AuditFields
}

// ValidateAccountCode checks the chart-of-accounts code format: 3 or 4 digits.
func ValidateAccountCode(code string) error {
	if len(code) < 3 || len(code) > 4 {
		return fmt.Errorf("%w: account code must be 3-4 digits, got %q", apperrors.ErrValidation, code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: account code must be numeric, got %q", apperrors.ErrValidation, code)
		}
	}
	return nil
}
