package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ketoan-erp/accounting-core/internal/apperrors"
)

// PeriodStatus is the lifecycle state of an accounting period.
// Open -> Closing -> Closed -> Locked; Locked is terminal and only reachable
// through year-end finalization, never through the ordinary close/reopen flow.
type PeriodStatus string

const (
	PeriodOpen    PeriodStatus = "OPEN"
	PeriodClosing PeriodStatus = "CLOSING"
	PeriodClosed  PeriodStatus = "CLOSED"
	PeriodLocked  PeriodStatus = "LOCKED"
)

// TrialBalanceStatus records whether the period's posted entries sum to
// equal debit and credit totals.
type TrialBalanceStatus string

const (
	TrialBalanceBalanced   TrialBalanceStatus = "BALANCED"
	TrialBalanceUnbalanced TrialBalanceStatus = "UNBALANCED"
)

// maxReopenCount caps emergency reopens per period.
const maxReopenCount = 1

// AccountingPeriod represents one fiscal month. It owns the set of journal
// entries dated within its month by date-range association, not containment.
type AccountingPeriod struct {
	PeriodID           string             `json:"periodID"`
	Year               int                `json:"year"`
	Month              time.Month         `json:"month"`
	Status             PeriodStatus       `json:"status"`
	TrialBalanceStatus TrialBalanceStatus `json:"trialBalanceStatus"`
	ClosedAt           *time.Time         `json:"closedAt,omitempty"`
	ClosedBy           string             `json:"closedBy,omitempty"`
	LockedAt           *time.Time         `json:"lockedAt,omitempty"`
	LockedBy           string             `json:"lockedBy,omitempty"`
	ReopenReason       string             `json:"reopenReason,omitempty"`
	ReopenCount        int                `json:"reopenCount"`
	AuditFields
}

// NewAccountingPeriod creates an Open period for the given fiscal month.
// Uniqueness per (year, month) is the period repository's concern.
func NewAccountingPeriod(year int, month time.Month) (*AccountingPeriod, error) {
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("%w: fiscal year %d out of range", apperrors.ErrValidation, year)
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d out of range", apperrors.ErrValidation, month)
	}
	now := time.Now().UTC()
	return &AccountingPeriod{
		PeriodID:           uuid.NewString(),
		Year:               year,
		Month:              month,
		Status:             PeriodOpen,
		TrialBalanceStatus: TrialBalanceBalanced,
		AuditFields: AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}, nil
}

// StartDate is the first instant of the period's month, UTC.
func (p *AccountingPeriod) StartDate() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// EndDate is the first instant of the following month, UTC (exclusive bound).
func (p *AccountingPeriod) EndDate() time.Time {
	return p.StartDate().AddDate(0, 1, 0)
}

// Contains reports whether a date falls inside the period's month.
func (p *AccountingPeriod) Contains(date time.Time) bool {
	d := date.UTC()
	return !d.Before(p.StartDate()) && d.Before(p.EndDate())
}

// Before orders periods chronologically: earlier year, or same year and
// earlier month.
func (p *AccountingPeriod) Before(other *AccountingPeriod) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// CanPostEntries reports whether the period currently accepts postings.
func (p *AccountingPeriod) CanPostEntries() bool {
	return p.Status == PeriodOpen
}

// Close transitions Open -> Closing -> Closed. Pre-close business checks
// (unposted entries, trial balance) are the period locking service's job;
// the entity only enforces the state machine itself.
func (p *AccountingPeriod) Close(closedBy string) error {
	if p.Status == PeriodClosed || p.Status == PeriodLocked {
		return fmt.Errorf("%w: period %s is already %s", apperrors.ErrInvalidState, p.Label(), p.Status)
	}
	if strings.TrimSpace(closedBy) == "" {
		return fmt.Errorf("%w: closedBy is required", apperrors.ErrValidation)
	}
	now := time.Now().UTC()
	p.Status = PeriodClosing
	p.Status = PeriodClosed
	p.ClosedAt = &now
	p.ClosedBy = closedBy
	p.LastUpdatedAt = now
	p.LastUpdatedBy = closedBy
	return nil
}

// Reopen transitions Closed -> Open. A reason is mandatory and each period
// may be reopened at most once.
func (p *AccountingPeriod) Reopen(reopenedBy, reason string) error {
	if p.Status == PeriodLocked {
		return fmt.Errorf("%w: period %s is locked and cannot be reopened", apperrors.ErrInvalidState, p.Label())
	}
	if p.Status != PeriodClosed {
		return fmt.Errorf("%w: period %s is %s, only Closed periods can be reopened", apperrors.ErrInvalidState, p.Label(), p.Status)
	}
	if strings.TrimSpace(reopenedBy) == "" {
		return fmt.Errorf("%w: reopenedBy is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: reopen reason is required", apperrors.ErrValidation)
	}
	if p.ReopenCount >= maxReopenCount {
		return fmt.Errorf("%w: period %s has already been reopened %d time(s)", apperrors.ErrInvalidState, p.Label(), p.ReopenCount)
	}
	now := time.Now().UTC()
	p.Status = PeriodOpen
	p.ReopenReason = strings.TrimSpace(reason)
	p.ReopenCount++
	p.ClosedAt = nil
	p.ClosedBy = ""
	p.LastUpdatedAt = now
	p.LastUpdatedBy = reopenedBy
	return nil
}

// Lock finalizes a Closed period permanently. Year-end finalization hook;
// there is no unlock.
func (p *AccountingPeriod) Lock(lockedBy string) error {
	if p.Status != PeriodClosed {
		return fmt.Errorf("%w: period %s must be Closed before locking, is %s", apperrors.ErrInvalidState, p.Label(), p.Status)
	}
	if strings.TrimSpace(lockedBy) == "" {
		return fmt.Errorf("%w: lockedBy is required", apperrors.ErrValidation)
	}
	now := time.Now().UTC()
	p.Status = PeriodLocked
	p.LockedAt = &now
	p.LockedBy = lockedBy
	p.LastUpdatedAt = now
	p.LastUpdatedBy = lockedBy
	return nil
}

// SetTrialBalanceStatus records the latest trial balance evaluation.
func (p *AccountingPeriod) SetTrialBalanceStatus(status TrialBalanceStatus) {
	p.TrialBalanceStatus = status
	p.LastUpdatedAt = time.Now().UTC()
}

// Label renders the period as YYYY/MM.
func (p *AccountingPeriod) Label() string {
	return fmt.Sprintf("%04d/%02d", p.Year, int(p.Month))
}
