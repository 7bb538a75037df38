package repositories

import (
	"context"

	"github.com/ketoan-erp/accounting-core/internal/core/domain"
)

// LedgerEntryStore is the durable backing for the ledger chain. The ledger
// service is the only component that appends; storage never reorders and
// never rewrites, it only keeps what it is handed.
type LedgerEntryStore interface {
	// AppendLedgerEntry persists a new chain element.
	AppendLedgerEntry(ctx context.Context, entry *domain.LedgerEntry) error

	// ListLedgerEntries retrieves the whole chain in sequence order.
	ListLedgerEntries(ctx context.Context) ([]*domain.LedgerEntry, error)

	// LastLedgerEntry retrieves the current chain head, or nil for an empty chain.
	LastLedgerEntry(ctx context.Context) (*domain.LedgerEntry, error)
}
