package repositories

import (
	"context"
	"time"

	"github.com/ketoan-erp/accounting-core/internal/core/domain"
)

// PeriodReader defines read operations for accounting periods
type PeriodReader interface {
	// FindPeriodByID retrieves a period by its identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodByYearMonth retrieves the unique period for a fiscal month.
	FindPeriodByYearMonth(ctx context.Context, year int, month time.Month) (*domain.AccountingPeriod, error)

	// FindPeriodForDate resolves the period owning a given date.
	FindPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves all periods ordered by year then month.
	ListPeriods(ctx context.Context) ([]*domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting periods
type PeriodWriter interface {
	// SavePeriod persists a period. Only one period may exist per (year, month).
	SavePeriod(ctx context.Context, period *domain.AccountingPeriod) error
}

// PeriodLockHistoryAppender records period transitions in an append-only log.
type PeriodLockHistoryAppender interface {
	// AppendHistory appends one transition record. Records are never updated or removed.
	AppendHistory(ctx context.Context, record domain.PeriodLockHistory) error

	// ListHistoryByPeriod retrieves the transition log for a period in append order.
	ListHistoryByPeriod(ctx context.Context, periodID string) ([]domain.PeriodLockHistory, error)
}

// PeriodRepositoryFacade combines all period repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
	PeriodLockHistoryAppender
}
