// Package memory provides in-memory implementations of the repository ports,
// used for development and tests. It keeps code paths easy to follow while
// allowing a durable store to be plugged in later.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ketoan-erp/accounting-core/internal/apperrors"
	"github.com/ketoan-erp/accounting-core/internal/core/domain"
)

// Store is an in-memory implementation of the account, journal, period and
// ledger ports. It is guarded by an RWMutex for concurrent reads/writes.
type Store struct {
	mu            sync.RWMutex
	accounts      map[string]domain.Account            // code -> account
	entries       map[string]*domain.JournalEntry      // entryID -> entry
	entryByNumber map[string]string                    // entryNumber -> entryID
	periods       map[string]*domain.AccountingPeriod  // periodID -> period
	periodByMonth map[string]string                    // "YYYY-MM" -> periodID
	history       map[string][]domain.PeriodLockHistory // periodID -> records in append order
	ledger        []*domain.LedgerEntry                // chain in append order
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		accounts:      make(map[string]domain.Account),
		entries:       make(map[string]*domain.JournalEntry),
		entryByNumber: make(map[string]string),
		periods:       make(map[string]*domain.AccountingPeriod),
		periodByMonth: make(map[string]string),
		history:       make(map[string][]domain.PeriodLockHistory),
	}
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// --- AccountRepositoryFacade ---

// SaveAccount persists an account with replace-on-update semantics. A code
// keeps the account type it was registered with; retyping requires an
// explicit administrative path, not a save.
func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.Code] = account
	return nil
}

// FindAccountByCode implements repositories.AccountReader.
func (s *Store) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[code]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", code, apperrors.ErrNotFound)
	}
	return &account, nil
}

// FindAccountsByCodes implements repositories.AccountReader.
func (s *Store) FindAccountsByCodes(_ context.Context, codes []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Account, len(codes))
	for _, code := range codes {
		if account, ok := s.accounts[code]; ok {
			out[code] = account
		}
	}
	return out, nil
}

// FindAccountsByType implements repositories.AccountReader.
func (s *Store) FindAccountsByType(_ context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, 0)
	for _, account := range s.accounts {
		if account.AccountType == accountType {
			out = append(out, account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// --- JournalEntryRepositoryFacade ---

// SaveEntry persists a deep copy of the entry, so in-flight aggregate
// mutations only become visible once saved.
func (s *Store) SaveEntry(_ context.Context, entry *domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existingID, ok := s.entryByNumber[entry.EntryNumber]; ok && existingID != entry.EntryID {
		return fmt.Errorf("entry number %s: %w", entry.EntryNumber, apperrors.ErrDuplicate)
	}
	s.entries[entry.EntryID] = entry.Clone()
	s.entryByNumber[entry.EntryNumber] = entry.EntryID
	return nil
}

// FindEntryByID implements repositories.JournalEntryReader.
func (s *Store) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
	}
	return entry.Clone(), nil
}

// FindEntryByNumber implements repositories.JournalEntryReader.
func (s *Store) FindEntryByNumber(_ context.Context, entryNumber string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entryID, ok := s.entryByNumber[entryNumber]
	if !ok {
		return nil, fmt.Errorf("journal entry %s: %w", entryNumber, apperrors.ErrNotFound)
	}
	return s.entries[entryID].Clone(), nil
}

// ListEntriesByDateRange implements repositories.JournalEntryReader: entries
// with entry date in [from, to), ordered by date then entry number.
func (s *Store) ListEntriesByDateRange(_ context.Context, from, to time.Time) ([]*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.JournalEntry, 0)
	for _, entry := range s.entries {
		d := entry.EntryDate.UTC()
		if !d.Before(from) && d.Before(to) {
			out = append(out, entry.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.Before(out[j].EntryDate)
		}
		return out[i].EntryNumber < out[j].EntryNumber
	})
	return out, nil
}

// EntryNumberExists implements repositories.EntryNumberChecker.
func (s *Store) EntryNumberExists(_ context.Context, entryNumber string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entryByNumber[entryNumber]
	return ok, nil
}

// --- PeriodRepositoryFacade ---

// SavePeriod persists a period, enforcing one period per (year, month).
func (s *Store) SavePeriod(_ context.Context, period *domain.AccountingPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := monthKey(period.Year, period.Month)
	if existingID, ok := s.periodByMonth[key]; ok && existingID != period.PeriodID {
		return fmt.Errorf("period %s: %w", period.Label(), apperrors.ErrDuplicate)
	}
	copied := *period
	s.periods[period.PeriodID] = &copied
	s.periodByMonth[key] = period.PeriodID
	return nil
}

// FindPeriodByID implements repositories.PeriodReader.
func (s *Store) FindPeriodByID(_ context.Context, periodID string) (*domain.AccountingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	period, ok := s.periods[periodID]
	if !ok {
		return nil, fmt.Errorf("period %s: %w", periodID, apperrors.ErrNotFound)
	}
	copied := *period
	return &copied, nil
}

// FindPeriodByYearMonth implements repositories.PeriodReader.
func (s *Store) FindPeriodByYearMonth(_ context.Context, year int, month time.Month) (*domain.AccountingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	periodID, ok := s.periodByMonth[monthKey(year, month)]
	if !ok {
		return nil, fmt.Errorf("period %04d/%02d: %w", year, int(month), apperrors.ErrNotFound)
	}
	copied := *s.periods[periodID]
	return &copied, nil
}

// FindPeriodForDate implements repositories.PeriodReader.
func (s *Store) FindPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	d := date.UTC()
	return s.FindPeriodByYearMonth(ctx, d.Year(), d.Month())
}

// ListPeriods implements repositories.PeriodReader: all periods ordered by
// year then month.
func (s *Store) ListPeriods(_ context.Context) ([]*domain.AccountingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.AccountingPeriod, 0, len(s.periods))
	for _, period := range s.periods {
		copied := *period
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

// AppendHistory implements repositories.PeriodLockHistoryAppender. Records
// are only ever appended.
func (s *Store) AppendHistory(_ context.Context, record domain.PeriodLockHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[record.PeriodID] = append(s.history[record.PeriodID], record)
	return nil
}

// ListHistoryByPeriod implements repositories.PeriodLockHistoryAppender.
func (s *Store) ListHistoryByPeriod(_ context.Context, periodID string) ([]domain.PeriodLockHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.history[periodID]
	out := make([]domain.PeriodLockHistory, len(records))
	copy(out, records)
	return out, nil
}

// --- LedgerEntryStore ---

// AppendLedgerEntry implements repositories.LedgerEntryStore. Chain elements
// are immutable, so the pointer is kept as handed over.
func (s *Store) AppendLedgerEntry(_ context.Context, entry *domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = append(s.ledger, entry)
	return nil
}

// ListLedgerEntries implements repositories.LedgerEntryStore.
func (s *Store) ListLedgerEntries(_ context.Context) ([]*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.LedgerEntry, len(s.ledger))
	copy(out, s.ledger)
	return out, nil
}

// LastLedgerEntry implements repositories.LedgerEntryStore.
func (s *Store) LastLedgerEntry(_ context.Context) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.ledger) == 0 {
		return nil, nil
	}
	return s.ledger[len(s.ledger)-1], nil
}
