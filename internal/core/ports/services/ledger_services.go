package services

import (
	"context"

	"github.com/ketoan-erp/accounting-core/internal/core/domain"
)

// LedgerAppenderSvc is the single write path into the hash chain.
type LedgerAppenderSvc interface {
	// Append snapshots a Posted journal entry onto the chain. Sequence
	// assignment, previous-hash consumption and the owning period's Open
	// check happen inside one critical section.
	Append(ctx context.Context, entry *domain.JournalEntry, appendedBy string) (*domain.LedgerEntry, error)
}

// LedgerVerifierSvc defines the integrity read paths. Verification runs on a
// point-in-time snapshot of the chain.
type LedgerVerifierSvc interface {
	// Entries returns a snapshot of the chain in sequence order.
	Entries(ctx context.Context) ([]*domain.LedgerEntry, error)

	// VerifyChain checks the whole stored chain for integrity and continuity.
	VerifyChain(ctx context.Context) (bool, error)

	// DetectTampering localizes integrity failures to chain indices.
	DetectTampering(ctx context.Context) (domain.TamperingResult, error)

	// IntegrityReport summarises a full verification run.
	IntegrityReport(ctx context.Context) (domain.IntegrityReport, error)
}

// LedgerSvcFacade combines the ledger service interfaces
type LedgerSvcFacade interface {
	LedgerAppenderSvc
	LedgerVerifierSvc
}
