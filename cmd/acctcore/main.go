package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ketoan-erp/accounting-core/internal/core/domain"
	"github.com/ketoan-erp/accounting-core/internal/core/services"
	"github.com/ketoan-erp/accounting-core/internal/dto"
	"github.com/ketoan-erp/accounting-core/internal/platform/config"
	"github.com/ketoan-erp/accounting-core/internal/repositories/memory"
)

// main wires the bookkeeping core against the in-memory store and walks one
// posting cycle end to end: register accounts, record and post an entry,
// verify the hash chain, then close the period.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := memory.New()

	accountSvc := services.NewAccountService(store, logger)
	ledgerSvc := services.NewLedgerService(store, store, logger)
	journalSvc := services.NewJournalService(store, store, store, ledgerSvc, cfg.DefaultCurrency, logger)

	policy := services.NewRolePolicy(map[string]services.Role{
		"accountant": services.RoleAccountant,
		"cfo":        services.RoleManager,
		"admin":      services.RoleAdmin,
	})
	periodSvc := services.NewPeriodLockingService(store, store, policy, logger)

	ctx := context.Background()
	now := time.Now().UTC()

	period, err := domain.NewAccountingPeriod(now.Year(), now.Month())
	if err != nil {
		logger.Error("Failed to open period", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := store.SavePeriod(ctx, period); err != nil {
		logger.Error("Failed to save period", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Period opened", slog.String("period", period.Label()))

	for _, req := range []dto.CreateAccountRequest{
		{Code: "111", Name: "Cash on hand", AccountType: "ASSET"},
		{Code: "511", Name: "Sales revenue", AccountType: "REVENUE"},
	} {
		if _, err := accountSvc.CreateAccount(ctx, req, cfg.LedgerActor); err != nil {
			logger.Error("Failed to register account", slog.String("code", req.Code), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	amount := decimal.NewFromInt(1_000_000)
	entry, err := journalSvc.CreateEntry(ctx, dto.CreateJournalEntryRequest{
		EntryNumber:            "BT-0001",
		OriginalDocumentNumber: "HD-2026-001",
		EntryDate:              now,
		OriginalDocumentDate:   now,
		Description:            "Cash sale",
		Lines: []dto.CreateJournalLineRequest{
			{AccountCode: "111", Debit: amount, Description: "Cash received"},
			{AccountCode: "511", Credit: amount, Description: "Revenue recognised"},
		},
	}, "accountant")
	if err != nil {
		logger.Error("Failed to create entry", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ledgerEntry, err := journalSvc.PostEntry(ctx, entry.EntryID, "accountant")
	if err != nil {
		logger.Error("Failed to post entry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Entry posted",
		slog.String("entryNumber", entry.EntryNumber),
		slog.Int64("sequence", ledgerEntry.SequenceNumber()),
		slog.String("hash", ledgerEntry.Hash()),
	)

	valid, err := ledgerSvc.VerifyChain(ctx)
	if err != nil {
		logger.Error("Chain verification failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Chain verified", slog.Bool("valid", valid))

	if _, err := periodSvc.RefreshTrialBalance(ctx, period.PeriodID); err != nil {
		logger.Error("Failed to refresh trial balance", slog.String("error", err.Error()))
		os.Exit(1)
	}
	result := periodSvc.ClosePeriod(ctx, period.PeriodID, "accountant", "month-end close")
	if !result.OK {
		logger.Error("Failed to close period", slog.String("kind", string(result.Kind)), slog.String("reason", result.Reason))
		os.Exit(1)
	}
	logger.Info("Period closed", slog.String("period", period.Label()))
}
