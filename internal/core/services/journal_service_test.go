package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ketoan-erp/accounting-core/internal/apperrors"
	"github.com/ketoan-erp/accounting-core/internal/core/domain"
	portssvc "github.com/ketoan-erp/accounting-core/internal/core/ports/services"
	"github.com/ketoan-erp/accounting-core/internal/core/services"
	"github.com/ketoan-erp/accounting-core/internal/dto"
	"github.com/ketoan-erp/accounting-core/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// JournalServiceTestSuite exercises the journal service against the in-memory
// store with a real ledger behind it, so posting drives the full path from
// Draft entry to chain element.
type JournalServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	ledgerSvc portssvc.LedgerSvcFacade
	service   portssvc.JournalSvcFacade
	period    *domain.AccountingPeriod
	entryDate time.Time
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.New()
	suite.ledgerSvc = services.NewLedgerService(suite.store, suite.store, nil)
	suite.service = services.NewJournalService(suite.store, suite.store, suite.store, suite.ledgerSvc, "VND", nil)

	period, err := domain.NewAccountingPeriod(2024, time.January)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.store.SavePeriod(suite.ctx, period))
	suite.period = period
	suite.entryDate = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	for _, account := range []domain.Account{
		{Code: "111", Name: "Cash on hand", AccountType: domain.Asset, IsActive: true},
		{Code: "511", Name: "Sales revenue", AccountType: domain.Revenue, IsActive: true},
		{Code: "642", Name: "Admin expenses", AccountType: domain.Expense, IsActive: false},
	} {
		suite.Require().NoError(suite.store.SaveAccount(suite.ctx, account))
	}
}

func (suite *JournalServiceTestSuite) balancedRequest(entryNumber string) dto.CreateJournalEntryRequest {
	amount := decimal.NewFromInt(1_000_000)
	return dto.CreateJournalEntryRequest{
		EntryNumber:            entryNumber,
		OriginalDocumentNumber: "HD-001",
		EntryDate:              suite.entryDate,
		OriginalDocumentDate:   suite.entryDate,
		Description:            "Cash sale",
		Lines: []dto.CreateJournalLineRequest{
			{AccountCode: "111", Debit: amount, Description: "cash in"},
			{AccountCode: "511", Credit: amount, Description: "revenue"},
		},
	}
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	entry, err := suite.service.CreateEntry(suite.ctx, suite.balancedRequest("BT-0001"), "accountant")

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)
	suite.Equal("VND", entry.CurrencyCode)
	suite.Len(entry.Lines(), 2)

	stored, err := suite.service.GetEntryByNumber(suite.ctx, "BT-0001")
	suite.Require().NoError(err)
	suite.Equal(entry.EntryID, stored.EntryID)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_DuplicateNumber() {
	_, err := suite.service.CreateEntry(suite.ctx, suite.balancedRequest("BT-0001"), "accountant")
	suite.Require().NoError(err)

	_, err = suite.service.CreateEntry(suite.ctx, suite.balancedRequest("BT-0001"), "accountant")
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnknownAccount() {
	req := suite.balancedRequest("BT-0002")
	req.Lines[0].AccountCode = "999"

	_, err := suite.service.CreateEntry(suite.ctx, req, "accountant")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.GetEntryByNumber(suite.ctx, "BT-0002")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAccount() {
	req := suite.balancedRequest("BT-0003")
	req.Lines[0].AccountCode = "642"

	_, err := suite.service.CreateEntry(suite.ctx, req, "accountant")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestAddLine() {
	req := suite.balancedRequest("BT-0004")
	req.Lines = nil
	entry, err := suite.service.CreateEntry(suite.ctx, req, "accountant")
	suite.Require().NoError(err)

	updated, err := suite.service.AddLine(suite.ctx, entry.EntryID, "111", decimal.NewFromInt(500), decimal.Zero, "")
	suite.Require().NoError(err)
	suite.Len(updated.Lines(), 1)

	stored, err := suite.service.GetEntryByID(suite.ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.Len(stored.Lines(), 1)
}

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	entry, err := suite.service.CreateEntry(suite.ctx, suite.balancedRequest("BT-0005"), "accountant")
	suite.Require().NoError(err)

	ledgerEntry, err := suite.service.PostEntry(suite.ctx, entry.EntryID, "accountant")
	suite.Require().NoError(err)

	suite.Equal(int64(1), ledgerEntry.SequenceNumber())
	suite.Equal(domain.GenesisHash, ledgerEntry.PreviousHash())
	suite.Equal(entry.EntryID, ledgerEntry.JournalEntryID())

	stored, err := suite.service.GetEntryByID(suite.ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Posted, stored.Status)
	suite.Equal("accountant", stored.PostedBy)

	valid, err := suite.ledgerSvc.VerifyChain(suite.ctx)
	suite.Require().NoError(err)
	suite.True(valid)
}

func (suite *JournalServiceTestSuite) TestPostEntry_SequencesChain() {
	for _, number := range []string{"BT-0006", "BT-0007", "BT-0008"} {
		entry, err := suite.service.CreateEntry(suite.ctx, suite.balancedRequest(number), "accountant")
		suite.Require().NoError(err)
		_, err = suite.service.PostEntry(suite.ctx, entry.EntryID, "accountant")
		suite.Require().NoError(err)
	}

	entries, err := suite.ledgerSvc.Entries(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 3)
	for i, le := range entries {
		suite.Equal(int64(i+1), le.SequenceNumber())
	}
	suite.Equal(entries[0].Hash(), entries[1].PreviousHash())
	suite.Equal(entries[1].Hash(), entries[2].PreviousHash())
}

func (suite *JournalServiceTestSuite) TestPostEntry_Unbalanced() {
	req := suite.balancedRequest("BT-0009")
	req.Lines[1].Credit = decimal.NewFromInt(999_999)
	entry, err := suite.service.CreateEntry(suite.ctx, req, "accountant")
	suite.Require().NoError(err)

	_, err = suite.service.PostEntry(suite.ctx, entry.EntryID, "accountant")
	suite.ErrorIs(err, apperrors.ErrUnbalanced)

	stored, err := suite.service.GetEntryByID(suite.ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Draft, stored.Status)
}

func (suite *JournalServiceTestSuite) TestPostEntry_ClosedPeriodRefused() {
	entry, err := suite.service.CreateEntry(suite.ctx, suite.balancedRequest("BT-0010"), "accountant")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.period.Close("accountant"))
	suite.Require().NoError(suite.store.SavePeriod(suite.ctx, suite.period))

	_, err = suite.service.PostEntry(suite.ctx, entry.EntryID, "accountant")
	suite.ErrorIs(err, apperrors.ErrInvalidState)

	// The stored entry is untouched and the chain is empty.
	stored, err := suite.service.GetEntryByID(suite.ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Draft, stored.Status)

	entries, err := suite.ledgerSvc.Entries(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(entries)
}

func (suite *JournalServiceTestSuite) TestPostEntry_NoPeriodForDate() {
	req := suite.balancedRequest("BT-0011")
	req.EntryDate = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	req.OriginalDocumentDate = req.EntryDate
	entry, err := suite.service.CreateEntry(suite.ctx, req, "accountant")
	suite.Require().NoError(err)

	_, err = suite.service.PostEntry(suite.ctx, entry.EntryID, "accountant")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestPostEntry_DoublePostRefused() {
	entry, err := suite.service.CreateEntry(suite.ctx, suite.balancedRequest("BT-0012"), "accountant")
	suite.Require().NoError(err)

	_, err = suite.service.PostEntry(suite.ctx, entry.EntryID, "accountant")
	suite.Require().NoError(err)

	_, err = suite.service.PostEntry(suite.ctx, entry.EntryID, "accountant")
	suite.ErrorIs(err, apperrors.ErrInvalidState)

	entries, err := suite.ledgerSvc.Entries(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(entries, 1)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
