package services

import (
	"context"

	"github.com/ketoan-erp/accounting-core/internal/core/domain"
	"github.com/ketoan-erp/accounting-core/internal/dto"
)

// AuthorizationPolicy is the capability consulted before period transitions.
// The core only consumes the boolean decision; what an actor string means is
// the identity collaborator's concern.
type AuthorizationPolicy interface {
	// CanClosePeriod reports whether the actor may close periods.
	CanClosePeriod(actor string) bool

	// CanReopenPeriod reports whether the actor may reopen closed periods.
	// Reopening is the stricter capability.
	CanReopenPeriod(actor string) bool
}

// PeriodLockingSvcFacade governs which accounting periods currently accept
// postings. Close/reopen return tagged results and never surface
// business-rule refusals as errors.
type PeriodLockingSvcFacade interface {
	// ClosePeriod transitions a period to Closed after authorization,
	// unposted-entry and trial-balance checks. No partial state change on
	// failure.
	ClosePeriod(ctx context.Context, periodID, performedBy, reason string) dto.PeriodLockResult

	// ReopenPeriod transitions a Closed period back to Open, refused while
	// any calendar-later period is Closed or beyond.
	ReopenPeriod(ctx context.Context, periodID, performedBy, reason string) dto.PeriodLockResult

	// CanAddEntryToPeriod reports whether the period currently accepts postings.
	CanAddEntryToPeriod(ctx context.Context, periodID string) (bool, error)

	// CanModifyEntry resolves the entry's owning period by date and reports
	// whether that period is Open.
	CanModifyEntry(ctx context.Context, entryID string) (bool, error)

	// IsPeriodClosed reports whether the period is Closed.
	IsPeriodClosed(ctx context.Context, periodID string) (bool, error)

	// GetClosedPeriods lists Closed periods ordered by year then month.
	GetClosedPeriods(ctx context.Context) ([]*domain.AccountingPeriod, error)

	// RefreshTrialBalance recomputes the period's posted debit/credit totals
	// and updates its trial balance status.
	RefreshTrialBalance(ctx context.Context, periodID string) (domain.TrialBalanceStatus, error)
}
