package services

import (
	"context"

	"github.com/ketoan-erp/accounting-core/internal/core/domain"
	"github.com/ketoan-erp/accounting-core/internal/dto"
)

// AccountReaderSvc defines read operations over the account registry
type AccountReaderSvc interface {
	// GetAccountByCode retrieves an account by its chart-of-accounts code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// GetAccountsByType retrieves every account of a classification, ordered by code.
	GetAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations over the account registry
type AccountWriterSvc interface {
	// CreateAccount registers a new account or replaces the attributes of an
	// existing one with the same code.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, createdBy string) (*domain.Account, error)
}

// AccountSvcFacade combines all account service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
