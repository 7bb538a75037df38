package repositories

import (
	"context"

	"github.com/ketoan-erp/accounting-core/internal/core/domain"
)

// AccountReader defines read operations for the account registry
type AccountReader interface {
	// FindAccountByCode retrieves a specific account by its chart-of-accounts code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves multiple accounts by their codes.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// FindAccountsByType retrieves every account of a given classification, ordered by code.
	FindAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
}

// AccountWriter defines write operations for the account registry
type AccountWriter interface {
	// SaveAccount persists an account using replace-on-update semantics.
	// Codes are never reused for a different account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
