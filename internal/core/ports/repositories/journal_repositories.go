package repositories

import (
	"context"
	"time"

	"github.com/ketoan-erp/accounting-core/internal/core/domain"
)

// JournalEntryReader defines read operations for journal entries
type JournalEntryReader interface {
	// FindEntryByID retrieves a journal entry by its generated identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByNumber retrieves a journal entry by its business key.
	FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)

	// ListEntriesByDateRange retrieves entries whose entry date falls in
	// [from, to), ordered by entry date then entry number.
	ListEntriesByDateRange(ctx context.Context, from, to time.Time) ([]*domain.JournalEntry, error)
}

// JournalEntryWriter defines write operations for journal entries
type JournalEntryWriter interface {
	// SaveEntry persists a journal entry and its lines.
	SaveEntry(ctx context.Context, entry *domain.JournalEntry) error
}

// EntryNumberChecker answers the uniqueness collaborator check invoked
// before an entry is created.
type EntryNumberChecker interface {
	// EntryNumberExists reports whether the business key is already taken.
	EntryNumberExists(ctx context.Context, entryNumber string) (bool, error)
}

// JournalEntryRepositoryFacade combines all journal entry repository interfaces
type JournalEntryRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
	EntryNumberChecker
}
