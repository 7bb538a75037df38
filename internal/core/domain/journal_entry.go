package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ketoan-erp/accounting-core/internal/apperrors"
	"github.com/shopspring/decimal"
)

// JournalEntryStatus indicates the lifecycle state of a journal entry.
type JournalEntryStatus string

const (
	Draft     JournalEntryStatus = "DRAFT"
	Posted    JournalEntryStatus = "POSTED"
	Cancelled JournalEntryStatus = "CANCELLED"
	Adjusted  JournalEntryStatus = "ADJUSTED"
)

// MaxEntryNumberLength bounds the caller-supplied business key.
const MaxEntryNumberLength = 20

// JournalEntryLine is a single debit-or-credit line within a journal entry.
// Exactly one of Debit/Credit is strictly positive; both are non-negative and
// expressed in the entry's currency.
type JournalEntryLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalEntry is the in-memory transactional unit of the bookkeeping core:
// a document header plus an ordered set of lines, with a one-way Draft ->
// Posted transition. A Draft entry accepts lines; a Posted entry refuses all
// mutation. Entry number uniqueness and account existence are enforced by the
// caller before construction, so the aggregate stays pure.
type JournalEntry struct {
	EntryID                string             `json:"entryID"`
	EntryNumber            string             `json:"entryNumber"`            // Business key, caller-supplied, <= 20 chars
	OriginalDocumentNumber string             `json:"originalDocumentNumber"` // Source document reference, mandatory
	EntryDate              time.Time          `json:"entryDate"`
	OriginalDocumentDate   time.Time          `json:"originalDocumentDate"`
	Description            string             `json:"description"`
	Reference              string             `json:"reference"` // Optional
	CurrencyCode           string             `json:"currencyCode"`
	Status                 JournalEntryStatus `json:"status"`
	PostedAt               *time.Time         `json:"postedAt,omitempty"`
	PostedBy               string             `json:"postedBy,omitempty"`
	InvoiceID              string             `json:"invoiceID,omitempty"`
	AuditFields

	lines []JournalEntryLine
}

// NewJournalEntry creates a Draft journal entry with no lines.
func NewJournalEntry(entryNumber, originalDocumentNumber string, entryDate, originalDocumentDate time.Time, description, reference string) (*JournalEntry, error) {
	now := time.Now().UTC()

	if strings.TrimSpace(entryNumber) == "" {
		return nil, fmt.Errorf("%w: entry number is required", apperrors.ErrValidation)
	}
	if len(entryNumber) > MaxEntryNumberLength {
		return nil, fmt.Errorf("%w: entry number %q exceeds %d characters", apperrors.ErrValidation, entryNumber, MaxEntryNumberLength)
	}
	if strings.TrimSpace(originalDocumentNumber) == "" {
		return nil, fmt.Errorf("%w: original document number is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if entryDate.After(now) {
		return nil, fmt.Errorf("%w: entry date %s is in the future", apperrors.ErrValidation, entryDate.Format(time.RFC3339))
	}
	if originalDocumentDate.After(now) {
		return nil, fmt.Errorf("%w: original document date %s is in the future", apperrors.ErrValidation, originalDocumentDate.Format(time.RFC3339))
	}

	return &JournalEntry{
		EntryID:                uuid.NewString(),
		EntryNumber:            entryNumber,
		OriginalDocumentNumber: originalDocumentNumber,
		EntryDate:              entryDate,
		OriginalDocumentDate:   originalDocumentDate,
		Description:            description,
		Reference:              reference,
		Status:                 Draft,
		AuditFields: AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}, nil
}

// AddLine appends a line to a Draft entry. Exactly one of debit/credit must
// be strictly positive; a line is never both sides and never neither.
func (e *JournalEntry) AddLine(accountCode string, debit, credit decimal.Decimal, description string) error {
	if e.Status != Draft {
		return fmt.Errorf("%w: cannot add line to %s entry %s", apperrors.ErrInvalidState, e.Status, e.EntryNumber)
	}
	if strings.TrimSpace(accountCode) == "" {
		return fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}
	if debit.IsNegative() || credit.IsNegative() {
		return fmt.Errorf("%w: line amounts must not be negative (debit %s, credit %s)", apperrors.ErrValidation, debit.String(), credit.String())
	}
	if debit.IsPositive() && credit.IsPositive() {
		return fmt.Errorf("%w: a line is either debit or credit, not both", apperrors.ErrValidation)
	}
	if debit.IsZero() && credit.IsZero() {
		return fmt.Errorf("%w: a line must carry a debit or a credit amount", apperrors.ErrValidation)
	}

	e.lines = append(e.lines, JournalEntryLine{
		LineID:      uuid.NewString(),
		EntryID:     e.EntryID,
		AccountCode: accountCode,
		Debit:       debit,
		Credit:      credit,
		Description: description,
	})
	e.LastUpdatedAt = time.Now().UTC()
	return nil
}

// Post transitions the entry from Draft to Posted after verifying the
// double-entry balance law: total debits must equal total credits exactly.
func (e *JournalEntry) Post(postedBy string) error {
	if e.Status != Draft {
		return fmt.Errorf("%w: entry %s is %s, only Draft entries can be posted", apperrors.ErrInvalidState, e.EntryNumber, e.Status)
	}
	if strings.TrimSpace(postedBy) == "" {
		return fmt.Errorf("%w: postedBy is required", apperrors.ErrValidation)
	}
	if len(e.lines) == 0 {
		return fmt.Errorf("%w: entry %s has no lines", apperrors.ErrInvalidState, e.EntryNumber)
	}

	totalDebit := e.TotalDebit()
	totalCredit := e.TotalCredit()
	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: entry %s has debit total %s and credit total %s", apperrors.ErrUnbalanced, e.EntryNumber, totalDebit.String(), totalCredit.String())
	}

	now := time.Now().UTC()
	e.Status = Posted
	e.PostedAt = &now
	e.PostedBy = postedBy
	e.LastUpdatedAt = now
	e.LastUpdatedBy = postedBy
	return nil
}

// LinkToInvoice records a cross-reference to the originating invoice.
// Draft-only, like every other mutation.
func (e *JournalEntry) LinkToInvoice(invoiceID string) error {
	if e.Status != Draft {
		return fmt.Errorf("%w: cannot link invoice to %s entry %s", apperrors.ErrInvalidState, e.Status, e.EntryNumber)
	}
	if strings.TrimSpace(invoiceID) == "" {
		return fmt.Errorf("%w: invoice ID is required", apperrors.ErrValidation)
	}
	e.InvoiceID = invoiceID
	e.LastUpdatedAt = time.Now().UTC()
	return nil
}

// Cancel marks a Posted entry as cancelled. The cancellation mechanics
// (compensating entries) are the caller's concern.
func (e *JournalEntry) Cancel(cancelledBy string) error {
	if e.Status != Posted {
		return fmt.Errorf("%w: entry %s is %s, only Posted entries can be cancelled", apperrors.ErrInvalidState, e.EntryNumber, e.Status)
	}
	e.Status = Cancelled
	e.LastUpdatedAt = time.Now().UTC()
	e.LastUpdatedBy = cancelledBy
	return nil
}

// MarkAdjusted marks a Posted entry as superseded by an adjusting entry.
func (e *JournalEntry) MarkAdjusted(adjustedBy string) error {
	if e.Status != Posted {
		return fmt.Errorf("%w: entry %s is %s, only Posted entries can be adjusted", apperrors.ErrInvalidState, e.EntryNumber, e.Status)
	}
	e.Status = Adjusted
	e.LastUpdatedAt = time.Now().UTC()
	e.LastUpdatedBy = adjustedBy
	return nil
}

// Clone returns a deep copy of the entry. Storage keeps clones so that
// in-flight aggregate mutations only become visible once saved.
func (e *JournalEntry) Clone() *JournalEntry {
	c := *e
	c.lines = make([]JournalEntryLine, len(e.lines))
	copy(c.lines, e.lines)
	return &c
}

// Lines returns a copy of the entry's lines in insertion order.
func (e *JournalEntry) Lines() []JournalEntryLine {
	out := make([]JournalEntryLine, len(e.lines))
	copy(out, e.lines)
	return out
}

// TotalDebit sums the debit side of all lines.
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.lines {
		sum = sum.Add(l.Debit)
	}
	return sum
}

// TotalCredit sums the credit side of all lines.
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.lines {
		sum = sum.Add(l.Credit)
	}
	return sum
}

// IsPosted reports whether the entry has been posted.
func (e *JournalEntry) IsPosted() bool {
	return e.Status == Posted
}
