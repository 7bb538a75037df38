package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ketoan-erp/accounting-core/internal/apperrors"
	"github.com/ketoan-erp/accounting-core/internal/core/domain"
	portsrepo "github.com/ketoan-erp/accounting-core/internal/core/ports/repositories"
	portssvc "github.com/ketoan-erp/accounting-core/internal/core/ports/services"
	"github.com/ketoan-erp/accounting-core/internal/dto"
	"github.com/ketoan-erp/accounting-core/internal/platform/metrics"
)

// periodLockingService orchestrates close/reopen transitions across
// accounting periods. Authorization and business-rule refusals come back as
// tagged results, never as errors: for the caller they are ordinary control
// flow. No partial state change survives a refused transition.
type periodLockingService struct {
	periodRepo  portsrepo.PeriodRepositoryFacade
	journalRepo portsrepo.JournalEntryReader
	policy      portssvc.AuthorizationPolicy
	logger      *slog.Logger
}

// NewPeriodLockingService creates a new period locking service.
func NewPeriodLockingService(
	periodRepo portsrepo.PeriodRepositoryFacade,
	journalRepo portsrepo.JournalEntryReader,
	policy portssvc.AuthorizationPolicy,
	logger *slog.Logger,
) portssvc.PeriodLockingSvcFacade {
	if logger == nil {
		logger = slog.Default()
	}
	return &periodLockingService{
		periodRepo:  periodRepo,
		journalRepo: journalRepo,
		policy:      policy,
		logger:      logger,
	}
}

var _ portssvc.PeriodLockingSvcFacade = (*periodLockingService)(nil)

// recordTransition appends one history record and bumps the transition counter.
func (s *periodLockingService) recordTransition(ctx context.Context, periodID string, action domain.PeriodLockAction, performedBy, reason string) error {
	record := domain.PeriodLockHistory{
		HistoryID:   uuid.NewString(),
		PeriodID:    periodID,
		Action:      action,
		PerformedBy: performedBy,
		PerformedAt: time.Now().UTC(),
		Reason:      reason,
	}
	if err := s.periodRepo.AppendHistory(ctx, record); err != nil {
		return err
	}
	metrics.PeriodTransitions.WithLabelValues(string(action)).Inc()
	return nil
}

// ClosePeriod runs the close checks in order: authorization, existence,
// state, unposted entries, trial balance. The failure reason for unposted
// entries carries their count.
func (s *periodLockingService) ClosePeriod(ctx context.Context, periodID, performedBy, reason string) dto.PeriodLockResult {
	if !s.policy.CanClosePeriod(performedBy) {
		return dto.PeriodLockFailure(dto.PeriodLockFailureAuthorization, "insufficient authorization to close period")
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return dto.PeriodLockFailure(dto.PeriodLockFailureNotFound, "period not found")
		}
		s.logger.Error("failed to load period for close", slog.String("period_id", periodID), slog.String("error", err.Error()))
		return dto.PeriodLockFailure(dto.PeriodLockFailureInternal, "failed to load period")
	}

	if period.Status == domain.PeriodClosed || period.Status == domain.PeriodLocked {
		return dto.PeriodLockFailure(dto.PeriodLockFailureInvalidState, fmt.Sprintf("period %s is already %s", period.Label(), period.Status))
	}

	entries, err := s.journalRepo.ListEntriesByDateRange(ctx, period.StartDate(), period.EndDate())
	if err != nil {
		s.logger.Error("failed to list entries for close", slog.String("period_id", periodID), slog.String("error", err.Error()))
		return dto.PeriodLockFailure(dto.PeriodLockFailureInternal, "failed to list entries for period")
	}
	unposted := 0
	for _, entry := range entries {
		if entry.Status == domain.Draft {
			unposted++
		}
	}
	if unposted > 0 {
		return dto.PeriodLockFailure(dto.PeriodLockFailureSequencing, fmt.Sprintf("cannot close period %s with %d unposted entries", period.Label(), unposted))
	}

	if period.TrialBalanceStatus == domain.TrialBalanceUnbalanced {
		return dto.PeriodLockFailure(dto.PeriodLockFailureSequencing, fmt.Sprintf("cannot close period %s with an unbalanced trial balance", period.Label()))
	}

	if err := period.Close(performedBy); err != nil {
		return dto.PeriodLockFailure(dto.PeriodLockFailureInvalidState, err.Error())
	}
	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		s.logger.Error("failed to persist closed period", slog.String("period_id", periodID), slog.String("error", err.Error()))
		return dto.PeriodLockFailure(dto.PeriodLockFailureInternal, "failed to persist period")
	}
	if err := s.recordTransition(ctx, period.PeriodID, domain.PeriodActionClose, performedBy, reason); err != nil {
		s.logger.Error("failed to append close history", slog.String("period_id", periodID), slog.String("error", err.Error()))
		return dto.PeriodLockFailure(dto.PeriodLockFailureInternal, "failed to record close history")
	}

	s.logger.Info("period closed",
		slog.String("period", period.Label()),
		slog.String("performed_by", performedBy),
		slog.String("reason", reason))
	return dto.PeriodLockSuccess()
}

// ReopenPeriod reopens a Closed period unless a calendar-later period is
// already Closed or beyond: the books reopen strictly from the end.
func (s *periodLockingService) ReopenPeriod(ctx context.Context, periodID, performedBy, reason string) dto.PeriodLockResult {
	if !s.policy.CanReopenPeriod(performedBy) {
		return dto.PeriodLockFailure(dto.PeriodLockFailureAuthorization, "insufficient authorization to reopen period")
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return dto.PeriodLockFailure(dto.PeriodLockFailureNotFound, "period not found")
		}
		s.logger.Error("failed to load period for reopen", slog.String("period_id", periodID), slog.String("error", err.Error()))
		return dto.PeriodLockFailure(dto.PeriodLockFailureInternal, "failed to load period")
	}

	if period.Status == domain.PeriodOpen {
		return dto.PeriodLockFailure(dto.PeriodLockFailureInvalidState, fmt.Sprintf("period %s is already open", period.Label()))
	}
	if period.Status != domain.PeriodClosed {
		return dto.PeriodLockFailure(dto.PeriodLockFailureInvalidState, fmt.Sprintf("period %s is %s and cannot be reopened", period.Label(), period.Status))
	}

	all, err := s.periodRepo.ListPeriods(ctx)
	if err != nil {
		s.logger.Error("failed to list periods for reopen", slog.String("period_id", periodID), slog.String("error", err.Error()))
		return dto.PeriodLockFailure(dto.PeriodLockFailureInternal, "failed to list periods")
	}
	for _, other := range all {
		if !period.Before(other) {
			continue
		}
		if other.Status == domain.PeriodClosed || other.Status == domain.PeriodLocked {
			return dto.PeriodLockFailure(dto.PeriodLockFailureSequencing,
				fmt.Sprintf("cannot reopen period %s while later period %s is %s", period.Label(), other.Label(), other.Status))
		}
	}

	if err := period.Reopen(performedBy, reason); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return dto.PeriodLockFailure(dto.PeriodLockFailureValidation, err.Error())
		}
		return dto.PeriodLockFailure(dto.PeriodLockFailureInvalidState, err.Error())
	}
	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		s.logger.Error("failed to persist reopened period", slog.String("period_id", periodID), slog.String("error", err.Error()))
		return dto.PeriodLockFailure(dto.PeriodLockFailureInternal, "failed to persist period")
	}
	if err := s.recordTransition(ctx, period.PeriodID, domain.PeriodActionReopen, performedBy, reason); err != nil {
		s.logger.Error("failed to append reopen history", slog.String("period_id", periodID), slog.String("error", err.Error()))
		return dto.PeriodLockFailure(dto.PeriodLockFailureInternal, "failed to record reopen history")
	}

	s.logger.Info("period reopened",
		slog.String("period", period.Label()),
		slog.String("performed_by", performedBy),
		slog.String("reason", reason))
	return dto.PeriodLockSuccess()
}

// CanAddEntryToPeriod reports whether the period currently accepts postings.
func (s *periodLockingService) CanAddEntryToPeriod(ctx context.Context, periodID string) (bool, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load period %s: %w", periodID, err)
	}
	return period.CanPostEntries(), nil
}

// CanModifyEntry resolves the entry's owning period by date and reports
// whether that period is Open. Entries whose date matches no known period
// are not modifiable.
func (s *periodLockingService) CanModifyEntry(ctx context.Context, entryID string) (bool, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load entry %s: %w", entryID, err)
	}
	period, err := s.periodRepo.FindPeriodForDate(ctx, entry.EntryDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve period for entry %s: %w", entryID, err)
	}
	return period.CanPostEntries(), nil
}

// IsPeriodClosed reports whether the period is Closed.
func (s *periodLockingService) IsPeriodClosed(ctx context.Context, periodID string) (bool, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load period %s: %w", periodID, err)
	}
	return period.Status == domain.PeriodClosed, nil
}

// GetClosedPeriods lists Closed periods ordered by year then month.
func (s *periodLockingService) GetClosedPeriods(ctx context.Context) ([]*domain.AccountingPeriod, error) {
	all, err := s.periodRepo.ListPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	closed := make([]*domain.AccountingPeriod, 0, len(all))
	for _, period := range all {
		if period.Status == domain.PeriodClosed {
			closed = append(closed, period)
		}
	}
	return closed, nil
}

// RefreshTrialBalance recomputes the period's posted debit/credit totals and
// records whether they balance. Sums run in exact decimal Money values.
func (s *periodLockingService) RefreshTrialBalance(ctx context.Context, periodID string) (domain.TrialBalanceStatus, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return "", fmt.Errorf("failed to load period %s: %w", periodID, err)
	}

	entries, err := s.journalRepo.ListEntriesByDateRange(ctx, period.StartDate(), period.EndDate())
	if err != nil {
		return "", fmt.Errorf("failed to list entries for period %s: %w", period.Label(), err)
	}

	var totalDebit, totalCredit *domain.Money
	for _, entry := range entries {
		if !entry.IsPosted() {
			continue
		}
		debit, err := domain.NewMoney(entry.TotalDebit(), entry.CurrencyCode)
		if err != nil {
			return "", err
		}
		credit, err := domain.NewMoney(entry.TotalCredit(), entry.CurrencyCode)
		if err != nil {
			return "", err
		}
		if totalDebit == nil {
			totalDebit, totalCredit = &debit, &credit
			continue
		}
		sumDebit, err := totalDebit.Add(debit)
		if err != nil {
			return "", err
		}
		sumCredit, err := totalCredit.Add(credit)
		if err != nil {
			return "", err
		}
		totalDebit, totalCredit = &sumDebit, &sumCredit
	}

	status := domain.TrialBalanceBalanced
	if totalDebit != nil && !totalDebit.Equal(*totalCredit) {
		status = domain.TrialBalanceUnbalanced
	}

	period.SetTrialBalanceStatus(status)
	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		return "", fmt.Errorf("failed to persist trial balance status for period %s: %w", period.Label(), err)
	}

	s.logger.Debug("trial balance refreshed",
		slog.String("period", period.Label()),
		slog.String("status", string(status)))
	return status, nil
}
