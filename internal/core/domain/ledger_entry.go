package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ketoan-erp/accounting-core/internal/apperrors"
	"github.com/shopspring/decimal"
)

// GenesisHash is the previous-hash sentinel carried by the first entry of a
// ledger chain: 64 zero hex characters, the width of a SHA-256 digest.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// LedgerLine is the immutable snapshot of one journal entry line inside a
// ledger entry.
type LedgerLine struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// LedgerEntry is one element of the append-only hash chain: a snapshot of a
// posted journal entry's critical fields plus the previous chain element's
// digest. All fields are unexported and set once at construction; the type
// exposes no mutator, so tamper-evidence rests on structure, not discipline.
type LedgerEntry struct {
	ledgerEntryID          string
	journalEntryID         string
	sequenceNumber         int64
	entryNumber            string
	originalDocumentNumber string
	entryDate              time.Time
	originalDocumentDate   time.Time
	description            string
	reference              string
	currencyCode           string
	lines                  []LedgerLine
	totalDebit             decimal.Decimal
	totalCredit            decimal.Decimal
	postedAt               time.Time
	postedBy               string
	previousHash           string
	hash                   string
	timestamp              time.Time
	createdBy              string
}

// NewLedgerEntry snapshots a posted journal entry into a chain element.
// The sequence number and previous hash are supplied by the owning ledger,
// which is the only component allowed to construct chain elements.
func NewLedgerEntry(entry *JournalEntry, sequenceNumber int64, previousHash, createdBy string) (*LedgerEntry, error) {
	if entry == nil {
		return nil, fmt.Errorf("%w: journal entry is required", apperrors.ErrValidation)
	}
	if !entry.IsPosted() {
		return nil, fmt.Errorf("%w: journal entry %s is %s, only Posted entries enter the ledger", apperrors.ErrInvalidState, entry.EntryNumber, entry.Status)
	}
	if sequenceNumber < 1 {
		return nil, fmt.Errorf("%w: sequence number must start at 1, got %d", apperrors.ErrValidation, sequenceNumber)
	}
	if previousHash == "" {
		return nil, fmt.Errorf("%w: previous hash is required (use the genesis sentinel for the first entry)", apperrors.ErrValidation)
	}

	var postedAt time.Time
	if entry.PostedAt != nil {
		postedAt = entry.PostedAt.UTC()
	}

	srcLines := entry.Lines()
	lines := make([]LedgerLine, len(srcLines))
	for i, l := range srcLines {
		lines[i] = LedgerLine{
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}

	le := &LedgerEntry{
		ledgerEntryID:          uuid.NewString(),
		journalEntryID:         entry.EntryID,
		sequenceNumber:         sequenceNumber,
		entryNumber:            entry.EntryNumber,
		originalDocumentNumber: entry.OriginalDocumentNumber,
		entryDate:              entry.EntryDate.UTC(),
		originalDocumentDate:   entry.OriginalDocumentDate.UTC(),
		description:            entry.Description,
		reference:              entry.Reference,
		currencyCode:           entry.CurrencyCode,
		lines:                  lines,
		totalDebit:             entry.TotalDebit(),
		totalCredit:            entry.TotalCredit(),
		postedAt:               postedAt,
		postedBy:               entry.PostedBy,
		previousHash:           previousHash,
		timestamp:              time.Now().UTC(),
		createdBy:              createdBy,
	}
	le.hash = le.computeHash()
	return le, nil
}

// RehydratedLedgerEntry carries every stored field of a ledger entry so a
// persistence collaborator can reconstruct chain elements. The hash is taken
// as stored, not recomputed: rehydrating must not mask tampering, and
// integrity tests use this same path to build deliberately corrupted records
// instead of reaching for reflection.
type RehydratedLedgerEntry struct {
	LedgerEntryID          string
	JournalEntryID         string
	SequenceNumber         int64
	EntryNumber            string
	OriginalDocumentNumber string
	EntryDate              time.Time
	OriginalDocumentDate   time.Time
	Description            string
	Reference              string
	CurrencyCode           string
	Lines                  []LedgerLine
	TotalDebit             decimal.Decimal
	TotalCredit            decimal.Decimal
	PostedAt               time.Time
	PostedBy               string
	PreviousHash           string
	Hash                   string
	Timestamp              time.Time
	CreatedBy              string
}

// RehydrateLedgerEntry rebuilds a chain element from stored fields.
func RehydrateLedgerEntry(r RehydratedLedgerEntry) *LedgerEntry {
	lines := make([]LedgerLine, len(r.Lines))
	copy(lines, r.Lines)
	return &LedgerEntry{
		ledgerEntryID:          r.LedgerEntryID,
		journalEntryID:         r.JournalEntryID,
		sequenceNumber:         r.SequenceNumber,
		entryNumber:            r.EntryNumber,
		originalDocumentNumber: r.OriginalDocumentNumber,
		entryDate:              r.EntryDate,
		originalDocumentDate:   r.OriginalDocumentDate,
		description:            r.Description,
		reference:              r.Reference,
		currencyCode:           r.CurrencyCode,
		lines:                  lines,
		totalDebit:             r.TotalDebit,
		totalCredit:            r.TotalCredit,
		postedAt:               r.PostedAt,
		postedBy:               r.PostedBy,
		previousHash:           r.PreviousHash,
		hash:                   r.Hash,
		timestamp:              r.Timestamp,
		createdBy:              r.CreatedBy,
	}
}

// Snapshot exports every stored field, the inverse of RehydrateLedgerEntry.
func (le *LedgerEntry) Snapshot() RehydratedLedgerEntry {
	lines := make([]LedgerLine, len(le.lines))
	copy(lines, le.lines)
	return RehydratedLedgerEntry{
		LedgerEntryID:          le.ledgerEntryID,
		JournalEntryID:         le.journalEntryID,
		SequenceNumber:         le.sequenceNumber,
		EntryNumber:            le.entryNumber,
		OriginalDocumentNumber: le.originalDocumentNumber,
		EntryDate:              le.entryDate,
		OriginalDocumentDate:   le.originalDocumentDate,
		Description:            le.description,
		Reference:              le.reference,
		CurrencyCode:           le.currencyCode,
		Lines:                  lines,
		TotalDebit:             le.totalDebit,
		TotalCredit:            le.totalCredit,
		PostedAt:               le.postedAt,
		PostedBy:               le.postedBy,
		PreviousHash:           le.previousHash,
		Hash:                   le.hash,
		Timestamp:              le.timestamp,
		CreatedBy:              le.createdBy,
	}
}

// computeHash digests a canonical, order-preserving serialization of every
// critical field plus the previous hash. Field order is fixed; times use
// RFC3339Nano in UTC; decimals use their exact string form.
func (le *LedgerEntry) computeHash() string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(le.sequenceNumber, 10))
	b.WriteByte('|')
	b.WriteString(le.timestamp.UTC().Format(time.RFC3339Nano))
	b.WriteByte('|')
	b.WriteString(le.journalEntryID)
	b.WriteByte('|')
	b.WriteString(le.entryNumber)
	b.WriteByte('|')
	b.WriteString(le.originalDocumentNumber)
	b.WriteByte('|')
	b.WriteString(le.entryDate.UTC().Format(time.RFC3339Nano))
	b.WriteByte('|')
	b.WriteString(le.originalDocumentDate.UTC().Format(time.RFC3339Nano))
	b.WriteByte('|')
	b.WriteString(le.description)
	b.WriteByte('|')
	b.WriteString(le.reference)
	b.WriteByte('|')
	b.WriteString(le.currencyCode)
	b.WriteByte('|')
	b.WriteString(le.totalDebit.String())
	b.WriteByte('|')
	b.WriteString(le.totalCredit.String())
	b.WriteByte('|')
	b.WriteString(le.postedAt.UTC().Format(time.RFC3339Nano))
	b.WriteByte('|')
	b.WriteString(le.postedBy)
	b.WriteByte('|')
	b.WriteString(le.createdBy)
	b.WriteByte('|')
	b.WriteString(le.previousHash)
	for _, l := range le.lines {
		b.WriteByte('|')
		b.WriteString(l.AccountCode)
		b.WriteByte(',')
		b.WriteString(l.Debit.String())
		b.WriteByte(',')
		b.WriteString(l.Credit.String())
		b.WriteByte(',')
		b.WriteString(l.Description)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// VerifyIntegrity recomputes the digest from the stored fields and compares
// it to the stored hash. Any altered field yields false.
func (le *LedgerEntry) VerifyIntegrity() bool {
	return le.hash == le.computeHash()
}

func (le *LedgerEntry) LedgerEntryID() string          { return le.ledgerEntryID }
func (le *LedgerEntry) JournalEntryID() string         { return le.journalEntryID }
func (le *LedgerEntry) SequenceNumber() int64          { return le.sequenceNumber }
func (le *LedgerEntry) EntryNumber() string            { return le.entryNumber }
func (le *LedgerEntry) OriginalDocumentNumber() string { return le.originalDocumentNumber }
func (le *LedgerEntry) EntryDate() time.Time           { return le.entryDate }
func (le *LedgerEntry) OriginalDocumentDate() time.Time {
	return le.originalDocumentDate
}
func (le *LedgerEntry) Description() string          { return le.description }
func (le *LedgerEntry) Reference() string            { return le.reference }
func (le *LedgerEntry) CurrencyCode() string         { return le.currencyCode }
func (le *LedgerEntry) TotalDebit() decimal.Decimal  { return le.totalDebit }
func (le *LedgerEntry) TotalCredit() decimal.Decimal { return le.totalCredit }
func (le *LedgerEntry) PostedAt() time.Time          { return le.postedAt }
func (le *LedgerEntry) PostedBy() string             { return le.postedBy }
func (le *LedgerEntry) PreviousHash() string         { return le.previousHash }
func (le *LedgerEntry) Hash() string                 { return le.hash }
func (le *LedgerEntry) Timestamp() time.Time         { return le.timestamp }
func (le *LedgerEntry) CreatedBy() string            { return le.createdBy }

// Lines returns a copy of the snapshot lines in original order.
func (le *LedgerEntry) Lines() []LedgerLine {
	out := make([]LedgerLine, len(le.lines))
	copy(out, le.lines)
	return out
}
