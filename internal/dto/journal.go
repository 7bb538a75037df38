package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one debit-or-credit line of a new entry.
type CreateJournalLineRequest struct {
	AccountCode string          `json:"accountCode" validate:"required,min=3,max=4,numeric"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateJournalEntryRequest carries the fields needed to create a Draft
// journal entry with its initial lines.
type CreateJournalEntryRequest struct {
	EntryNumber            string                     `json:"entryNumber" validate:"required,max=20"`
	OriginalDocumentNumber string                     `json:"originalDocumentNumber" validate:"required"`
	EntryDate              time.Time                  `json:"entryDate" validate:"required"`
	OriginalDocumentDate   time.Time                  `json:"originalDocumentDate" validate:"required"`
	Description            string                     `json:"description" validate:"required"`
	Reference              string                     `json:"reference"`
	CurrencyCode           string                     `json:"currencyCode" validate:"omitempty,len=3"`
	InvoiceID              string                     `json:"invoiceID"`
	Lines                  []CreateJournalLineRequest `json:"lines" validate:"omitempty,dive"`
}
