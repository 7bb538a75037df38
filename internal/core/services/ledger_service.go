package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ketoan-erp/accounting-core/internal/apperrors"
	"github.com/ketoan-erp/accounting-core/internal/core/domain"
	portsrepo "github.com/ketoan-erp/accounting-core/internal/core/ports/repositories"
	portssvc "github.com/ketoan-erp/accounting-core/internal/core/ports/services"
	"github.com/ketoan-erp/accounting-core/internal/platform/metrics"
)

// ledgerService owns the hash chain. All chain state (tail sequence number
// and tail hash) belongs to the instance, never to a package-level variable,
// so independent ledgers coexist without cross-talk and tests construct a
// fresh instance instead of resetting shared state.
type ledgerService struct {
	store      portsrepo.LedgerEntryStore
	periodRepo portsrepo.PeriodReader
	logger     *slog.Logger

	// mu serializes the append path: sequence assignment, previous-hash
	// consumption and the owning period's Open re-check are one critical
	// section. Readers take the read lock so verification never observes a
	// chain mid-append.
	mu          sync.RWMutex
	initialized bool
	lastSeq     int64
	lastHash    string
}

// NewLedgerService creates a ledger over the given store. periodRepo may be
// nil for a ledger that is not governed by accounting periods; when present,
// the owning period must be Open at append time.
func NewLedgerService(store portsrepo.LedgerEntryStore, periodRepo portsrepo.PeriodReader, logger *slog.Logger) portssvc.LedgerSvcFacade {
	if logger == nil {
		logger = slog.Default()
	}
	return &ledgerService{
		store:      store,
		periodRepo: periodRepo,
		logger:     logger,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ensureHead loads the chain tail from the store once. Caller holds mu.
func (s *ledgerService) ensureHead(ctx context.Context) error {
	if s.initialized {
		return nil
	}
	last, err := s.store.LastLedgerEntry(ctx)
	if err != nil {
		return fmt.Errorf("failed to load chain head: %w", err)
	}
	if last == nil {
		s.lastSeq = 0
		s.lastHash = domain.GenesisHash
	} else {
		s.lastSeq = last.SequenceNumber()
		s.lastHash = last.Hash()
	}
	s.initialized = true
	return nil
}

// Append snapshots a Posted journal entry onto the chain.
func (s *ledgerService) Append(ctx context.Context, entry *domain.JournalEntry, appendedBy string) (*domain.LedgerEntry, error) {
	if entry == nil {
		return nil, fmt.Errorf("%w: journal entry is required", apperrors.ErrValidation)
	}
	if !entry.IsPosted() {
		return nil, fmt.Errorf("%w: journal entry %s is %s, only Posted entries enter the ledger", apperrors.ErrInvalidState, entry.EntryNumber, entry.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHead(ctx); err != nil {
		return nil, err
	}

	// The period's Open status is re-checked here, inside the critical
	// section, so a period closing between the caller's validation and this
	// append cannot slip an entry into a closed period.
	if s.periodRepo != nil {
		period, err := s.periodRepo.FindPeriodForDate(ctx, entry.EntryDate)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve period for entry %s: %w", entry.EntryNumber, err)
		}
		if !period.CanPostEntries() {
			return nil, fmt.Errorf("%w: period %s is %s and does not accept postings", apperrors.ErrInvalidState, period.Label(), period.Status)
		}
	}

	ledgerEntry, err := domain.NewLedgerEntry(entry, s.lastSeq+1, s.lastHash, appendedBy)
	if err != nil {
		return nil, err
	}

	if err := s.store.AppendLedgerEntry(ctx, ledgerEntry); err != nil {
		s.logger.Error("failed to persist ledger entry",
			slog.String("entry_number", entry.EntryNumber),
			slog.Int64("sequence", ledgerEntry.SequenceNumber()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist ledger entry: %w", err)
	}

	s.lastSeq = ledgerEntry.SequenceNumber()
	s.lastHash = ledgerEntry.Hash()

	metrics.LedgerAppends.Inc()
	s.logger.Info("ledger entry appended",
		slog.String("entry_number", ledgerEntry.EntryNumber()),
		slog.Int64("sequence", ledgerEntry.SequenceNumber()),
		slog.String("hash", ledgerEntry.Hash()))
	return ledgerEntry, nil
}

// Entries returns a point-in-time snapshot of the chain in sequence order.
func (s *ledgerService) Entries(ctx context.Context) ([]*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := s.store.ListLedgerEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

// VerifyChain checks the whole stored chain for integrity and continuity.
func (s *ledgerService) VerifyChain(ctx context.Context) (bool, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return false, err
	}
	ok := domain.VerifyChain(entries)
	if !ok {
		metrics.TamperingDetections.Inc()
		s.logger.Warn("ledger chain verification failed", slog.Int("entries", len(entries)))
	}
	return ok, nil
}

// DetectTampering localizes integrity failures to chain indices.
func (s *ledgerService) DetectTampering(ctx context.Context) (domain.TamperingResult, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return domain.TamperingResult{}, err
	}
	result := domain.DetectTampering(entries)
	if result.HasTampering {
		metrics.TamperingDetections.Inc()
		s.logger.Warn("ledger tampering detected",
			slog.Int("entries", len(entries)),
			slog.Int("tampered", len(result.TamperedIndices)))
	}
	return result, nil
}

// IntegrityReport summarises a full verification run over the stored chain.
func (s *ledgerService) IntegrityReport(ctx context.Context) (domain.IntegrityReport, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return domain.IntegrityReport{}, err
	}
	return domain.BuildIntegrityReport(entries), nil
}
