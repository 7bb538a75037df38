package services

import (
	"context"

	"github.com/ketoan-erp/accounting-core/internal/core/domain"
	"github.com/ketoan-erp/accounting-core/internal/dto"
	"github.com/shopspring/decimal"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetEntryByID retrieves a journal entry by its generated identifier.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// GetEntryByNumber retrieves a journal entry by its business key.
	GetEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)
}

// JournalWriterSvc defines write operations for journal entries
type JournalWriterSvc interface {
	// CreateEntry validates the request against the registry and uniqueness
	// collaborators and persists a new Draft entry with its lines.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, createdBy string) (*domain.JournalEntry, error)

	// AddLine appends a line to an existing Draft entry after resolving the
	// account code in the registry.
	AddLine(ctx context.Context, entryID, accountCode string, debit, credit decimal.Decimal, description string) (*domain.JournalEntry, error)

	// PostEntry posts a Draft entry and appends it to the ledger. The owning
	// period must be Open; the check is repeated inside the ledger's append
	// critical section.
	PostEntry(ctx context.Context, entryID, postedBy string) (*domain.LedgerEntry, error)
}

// JournalSvcFacade combines all journal service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
