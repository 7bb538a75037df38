package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ketoan-erp/accounting-core/internal/core/domain"
	portssvc "github.com/ketoan-erp/accounting-core/internal/core/ports/services"
	"github.com/ketoan-erp/accounting-core/internal/core/services"
	"github.com/ketoan-erp/accounting-core/internal/dto"
	"github.com/ketoan-erp/accounting-core/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PeriodLockingServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	service portssvc.PeriodLockingSvcFacade
	january *domain.AccountingPeriod
}

func (suite *PeriodLockingServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.New()

	policy := services.NewRolePolicy(map[string]services.Role{
		"accountant": services.RoleAccountant,
		"cfo":        services.RoleManager,
		"admin":      services.RoleAdmin,
	})
	suite.service = services.NewPeriodLockingService(suite.store, suite.store, policy, nil)

	january, err := domain.NewAccountingPeriod(2024, time.January)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.store.SavePeriod(suite.ctx, january))
	suite.january = january
}

// savePeriod stores an additional period and returns it.
func (suite *PeriodLockingServiceTestSuite) savePeriod(year int, month time.Month) *domain.AccountingPeriod {
	period, err := domain.NewAccountingPeriod(year, month)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.store.SavePeriod(suite.ctx, period))
	return period
}

// saveEntry stores a balanced journal entry dated inside January 2024,
// optionally posted.
func (suite *PeriodLockingServiceTestSuite) saveEntry(entryNumber string, posted bool) *domain.JournalEntry {
	date := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	entry, err := domain.NewJournalEntry(entryNumber, "HD-001", date, date, "Cash sale", "")
	suite.Require().NoError(err)
	entry.CurrencyCode = "VND"

	amount := decimal.NewFromInt(1_000_000)
	suite.Require().NoError(entry.AddLine("111", amount, decimal.Zero, ""))
	suite.Require().NoError(entry.AddLine("511", decimal.Zero, amount, ""))
	if posted {
		suite.Require().NoError(entry.Post("accountant"))
	}
	suite.Require().NoError(suite.store.SaveEntry(suite.ctx, entry))
	return entry
}

func (suite *PeriodLockingServiceTestSuite) TestClosePeriod_Success() {
	suite.saveEntry("BT-0001", true)

	result := suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "month-end close")
	suite.True(result.OK)

	closed, err := suite.service.IsPeriodClosed(suite.ctx, suite.january.PeriodID)
	suite.Require().NoError(err)
	suite.True(closed)

	history, err := suite.store.ListHistoryByPeriod(suite.ctx, suite.january.PeriodID)
	suite.Require().NoError(err)
	suite.Require().Len(history, 1)
	suite.Equal(domain.PeriodActionClose, history[0].Action)
	suite.Equal("accountant", history[0].PerformedBy)
	suite.Equal("month-end close", history[0].Reason)
}

func (suite *PeriodLockingServiceTestSuite) TestClosePeriod_Unauthorized() {
	result := suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "intern", "trying")
	suite.False(result.OK)
	suite.Equal(dto.PeriodLockFailureAuthorization, result.Kind)
}

func (suite *PeriodLockingServiceTestSuite) TestClosePeriod_NotFound() {
	result := suite.service.ClosePeriod(suite.ctx, "no-such-period", "accountant", "")
	suite.False(result.OK)
	suite.Equal(dto.PeriodLockFailureNotFound, result.Kind)
}

func (suite *PeriodLockingServiceTestSuite) TestClosePeriod_UnpostedEntriesBlock() {
	suite.saveEntry("BT-0001", true)
	suite.saveEntry("BT-0002", false)
	suite.saveEntry("BT-0003", false)

	result := suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "month-end close")
	suite.False(result.OK)
	suite.Equal(dto.PeriodLockFailureSequencing, result.Kind)
	suite.Contains(result.Reason, "2 unposted entries")

	// Posting the drafts clears the block.
	for _, number := range []string{"BT-0002", "BT-0003"} {
		entry, err := suite.store.FindEntryByNumber(suite.ctx, number)
		suite.Require().NoError(err)
		suite.Require().NoError(entry.Post("accountant"))
		suite.Require().NoError(suite.store.SaveEntry(suite.ctx, entry))
	}

	result = suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "month-end close")
	suite.True(result.OK)
}

func (suite *PeriodLockingServiceTestSuite) TestClosePeriod_UnbalancedTrialBalanceBlocks() {
	suite.january.SetTrialBalanceStatus(domain.TrialBalanceUnbalanced)
	suite.Require().NoError(suite.store.SavePeriod(suite.ctx, suite.january))

	result := suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "month-end close")
	suite.False(result.OK)
	suite.Equal(dto.PeriodLockFailureSequencing, result.Kind)
}

func (suite *PeriodLockingServiceTestSuite) TestClosePeriod_AlreadyClosed() {
	result := suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "")
	suite.Require().True(result.OK)

	result = suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "")
	suite.False(result.OK)
	suite.Equal(dto.PeriodLockFailureInvalidState, result.Kind)
}

func (suite *PeriodLockingServiceTestSuite) TestReopenPeriod_Success() {
	suite.Require().True(suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "").OK)

	result := suite.service.ReopenPeriod(suite.ctx, suite.january.PeriodID, "admin", "late supplier invoice")
	suite.True(result.OK)

	period, err := suite.store.FindPeriodByID(suite.ctx, suite.january.PeriodID)
	suite.Require().NoError(err)
	suite.Equal(domain.PeriodOpen, period.Status)
	suite.Equal(1, period.ReopenCount)

	history, err := suite.store.ListHistoryByPeriod(suite.ctx, suite.january.PeriodID)
	suite.Require().NoError(err)
	suite.Require().Len(history, 2)
	suite.Equal(domain.PeriodActionReopen, history[1].Action)
}

func (suite *PeriodLockingServiceTestSuite) TestReopenPeriod_AdminOnly() {
	suite.Require().True(suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "").OK)

	for _, actor := range []string{"accountant", "cfo", "intern"} {
		result := suite.service.ReopenPeriod(suite.ctx, suite.january.PeriodID, actor, "reason")
		suite.False(result.OK, actor)
		suite.Equal(dto.PeriodLockFailureAuthorization, result.Kind, actor)
	}
}

func (suite *PeriodLockingServiceTestSuite) TestReopenPeriod_LaterClosedPeriodBlocks() {
	february := suite.savePeriod(2024, time.February)
	suite.Require().True(suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "").OK)
	suite.Require().True(suite.service.ClosePeriod(suite.ctx, february.PeriodID, "accountant", "").OK)

	result := suite.service.ReopenPeriod(suite.ctx, suite.january.PeriodID, "admin", "late invoice")
	suite.False(result.OK)
	suite.Equal(dto.PeriodLockFailureSequencing, result.Kind)
	suite.Contains(result.Reason, "2024/02")

	// Reopening the later period first unblocks January.
	suite.Require().True(suite.service.ReopenPeriod(suite.ctx, february.PeriodID, "admin", "reopen from the end").OK)
	suite.True(suite.service.ReopenPeriod(suite.ctx, suite.january.PeriodID, "admin", "late invoice").OK)
}

func (suite *PeriodLockingServiceTestSuite) TestReopenPeriod_ReasonMandatory() {
	suite.Require().True(suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "").OK)

	result := suite.service.ReopenPeriod(suite.ctx, suite.january.PeriodID, "admin", "  ")
	suite.False(result.OK)
	suite.Equal(dto.PeriodLockFailureValidation, result.Kind)
}

func (suite *PeriodLockingServiceTestSuite) TestReopenPeriod_OnlyOnce() {
	suite.Require().True(suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "").OK)
	suite.Require().True(suite.service.ReopenPeriod(suite.ctx, suite.january.PeriodID, "admin", "first").OK)
	suite.Require().True(suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "").OK)

	result := suite.service.ReopenPeriod(suite.ctx, suite.january.PeriodID, "admin", "second")
	suite.False(result.OK)
	suite.Equal(dto.PeriodLockFailureInvalidState, result.Kind)
}

func (suite *PeriodLockingServiceTestSuite) TestReopenPeriod_OpenPeriodRefused() {
	result := suite.service.ReopenPeriod(suite.ctx, suite.january.PeriodID, "admin", "reason")
	suite.False(result.OK)
	suite.Equal(dto.PeriodLockFailureInvalidState, result.Kind)
}

func (suite *PeriodLockingServiceTestSuite) TestCanAddEntryToPeriod() {
	ok, err := suite.service.CanAddEntryToPeriod(suite.ctx, suite.january.PeriodID)
	suite.Require().NoError(err)
	suite.True(ok)

	suite.Require().True(suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "").OK)

	ok, err = suite.service.CanAddEntryToPeriod(suite.ctx, suite.january.PeriodID)
	suite.Require().NoError(err)
	suite.False(ok)

	ok, err = suite.service.CanAddEntryToPeriod(suite.ctx, "no-such-period")
	suite.Require().NoError(err)
	suite.False(ok)
}

func (suite *PeriodLockingServiceTestSuite) TestCanModifyEntry() {
	entry := suite.saveEntry("BT-0001", false)

	ok, err := suite.service.CanModifyEntry(suite.ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.True(ok)

	suite.Require().True(suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "").OK)

	ok, err = suite.service.CanModifyEntry(suite.ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.False(ok)

	ok, err = suite.service.CanModifyEntry(suite.ctx, "no-such-entry")
	suite.Require().NoError(err)
	suite.False(ok)
}

func (suite *PeriodLockingServiceTestSuite) TestGetClosedPeriods_Ordered() {
	february := suite.savePeriod(2024, time.February)
	march := suite.savePeriod(2024, time.March)

	suite.Require().True(suite.service.ClosePeriod(suite.ctx, suite.january.PeriodID, "accountant", "").OK)
	suite.Require().True(suite.service.ClosePeriod(suite.ctx, february.PeriodID, "accountant", "").OK)
	_ = march

	closed, err := suite.service.GetClosedPeriods(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(closed, 2)
	suite.Equal(time.January, closed[0].Month)
	suite.Equal(time.February, closed[1].Month)
}

func (suite *PeriodLockingServiceTestSuite) TestRefreshTrialBalance() {
	suite.saveEntry("BT-0001", true)
	suite.saveEntry("BT-0002", false) // drafts are excluded from the sums

	status, err := suite.service.RefreshTrialBalance(suite.ctx, suite.january.PeriodID)
	suite.Require().NoError(err)
	suite.Equal(domain.TrialBalanceBalanced, status)

	period, err := suite.store.FindPeriodByID(suite.ctx, suite.january.PeriodID)
	suite.Require().NoError(err)
	suite.Equal(domain.TrialBalanceBalanced, period.TrialBalanceStatus)
}

func TestPeriodLockingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodLockingServiceTestSuite))
}
