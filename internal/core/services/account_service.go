package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ketoan-erp/accounting-core/internal/apperrors"
	"github.com/ketoan-erp/accounting-core/internal/core/domain"
	portsrepo "github.com/ketoan-erp/accounting-core/internal/core/ports/repositories"
	portssvc "github.com/ketoan-erp/accounting-core/internal/core/ports/services"
	"github.com/ketoan-erp/accounting-core/internal/dto"
)

// accountService implements the account registry over a keyed store.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewAccountService creates a new account registry service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, logger *slog.Logger) portssvc.AccountSvcFacade {
	if logger == nil {
		logger = slog.Default()
	}
	return &accountService{
		accountRepo: accountRepo,
		validate:    validator.New(),
		logger:      logger,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount registers an account, replacing the attributes of an existing
// account with the same code. A code is never handed to a different account:
// once created, the code keeps its identity and only attributes change.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, createdBy string) (*domain.Account, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := domain.ValidateAccountCode(req.Code); err != nil {
		return nil, err
	}

	accountType := domain.AccountType(req.AccountType)
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	if req.ParentCode != "" {
		if _, err := s.accountRepo.FindAccountByCode(ctx, req.ParentCode); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrValidation, req.ParentCode)
			}
			s.logger.Error("failed to resolve parent account", slog.String("parent_code", req.ParentCode), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to resolve parent account: %w", err)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		Code:        req.Code,
		Name:        req.Name,
		AccountType: accountType,
		ParentCode:  req.ParentCode,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}

	// Replace-on-update keeps the original creation audit trail.
	if existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code); err == nil {
		account.CreatedAt = existing.CreatedAt
		account.CreatedBy = existing.CreatedBy
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Error("failed to check for existing account", slog.String("code", req.Code), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check for existing account: %w", err)
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.logger.Error("failed to save account", slog.String("code", req.Code), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.logger.Info("account registered", slog.String("code", account.Code), slog.String("type", string(account.AccountType)))
	return &account, nil
}

// GetAccountByCode resolves a single account.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return account, nil
}

// GetAccountsByType lists accounts of one classification ordered by code.
func (s *accountService) GetAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}
	accounts, err := s.accountRepo.FindAccountsByType(ctx, accountType)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by type: %w", err)
	}
	return accounts, nil
}
