package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/ketoan-erp/accounting-core/internal/apperrors"
	"github.com/ketoan-erp/accounting-core/internal/core/domain"
	portsrepo "github.com/ketoan-erp/accounting-core/internal/core/ports/repositories"
	portssvc "github.com/ketoan-erp/accounting-core/internal/core/ports/services"
	"github.com/ketoan-erp/accounting-core/internal/dto"
	"github.com/ketoan-erp/accounting-core/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// DefaultCurrencyCode is used when a request does not name a currency.
const DefaultCurrencyCode = "VND"

// journalService orchestrates the journal entry aggregate against its
// collaborators: the account registry for code resolution, the uniqueness
// check for entry numbers, the period reader for posting governance and the
// ledger for the append after posting. The aggregate itself never sees any
// of these.
type journalService struct {
	journalRepo     portsrepo.JournalEntryRepositoryFacade
	accountRepo     portsrepo.AccountReader
	periodRepo      portsrepo.PeriodReader
	ledgerSvc       portssvc.LedgerAppenderSvc
	validate        *validator.Validate
	logger          *slog.Logger
	defaultCurrency string
}

// NewJournalService creates a new journal service.
func NewJournalService(
	journalRepo portsrepo.JournalEntryRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	periodRepo portsrepo.PeriodReader,
	ledgerSvc portssvc.LedgerAppenderSvc,
	defaultCurrency string,
	logger *slog.Logger,
) portssvc.JournalSvcFacade {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultCurrency == "" {
		defaultCurrency = DefaultCurrencyCode
	}
	return &journalService{
		journalRepo:     journalRepo,
		accountRepo:     accountRepo,
		periodRepo:      periodRepo,
		ledgerSvc:       ledgerSvc,
		validate:        validator.New(),
		logger:          logger,
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// resolveAccount checks a line's account code against the registry.
func (s *journalService) resolveAccount(ctx context.Context, code string) error {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, code)
		}
		return fmt.Errorf("failed to resolve account %s: %w", code, err)
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, code)
	}
	return nil
}

// CreateEntry validates the request, enforces entry number uniqueness, and
// persists a new Draft entry with its initial lines.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, createdBy string) (*domain.JournalEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	exists, err := s.journalRepo.EntryNumberExists(ctx, req.EntryNumber)
	if err != nil {
		s.logger.Error("entry number uniqueness check failed", slog.String("entry_number", req.EntryNumber), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check entry number uniqueness: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: entry number %s is already taken", apperrors.ErrDuplicate, req.EntryNumber)
	}

	entry, err := domain.NewJournalEntry(req.EntryNumber, req.OriginalDocumentNumber, req.EntryDate, req.OriginalDocumentDate, req.Description, req.Reference)
	if err != nil {
		return nil, err
	}
	entry.CurrencyCode = req.CurrencyCode
	if entry.CurrencyCode == "" {
		entry.CurrencyCode = s.defaultCurrency
	}
	entry.CreatedBy = createdBy
	entry.LastUpdatedBy = createdBy

	for _, line := range req.Lines {
		if err := s.resolveAccount(ctx, line.AccountCode); err != nil {
			return nil, err
		}
		if err := entry.AddLine(line.AccountCode, line.Debit, line.Credit, line.Description); err != nil {
			return nil, err
		}
	}

	if req.InvoiceID != "" {
		if err := entry.LinkToInvoice(req.InvoiceID); err != nil {
			return nil, err
		}
	}

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		s.logger.Error("failed to save journal entry", slog.String("entry_number", entry.EntryNumber), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.logger.Info("journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.Int("lines", len(entry.Lines())))
	return entry, nil
}

// AddLine appends a line to an existing Draft entry.
func (s *journalService) AddLine(ctx context.Context, entryID, accountCode string, debit, credit decimal.Decimal, description string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	if err := s.resolveAccount(ctx, accountCode); err != nil {
		return nil, err
	}
	if err := entry.AddLine(accountCode, debit, credit, description); err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		s.logger.Error("failed to save journal entry line", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}
	return entry, nil
}

// PostEntry posts a Draft entry and appends it to the ledger. The owning
// period must be Open; the ledger repeats that check inside its append
// critical section, so a period closing mid-flight fails the append and the
// posted state is never persisted.
func (s *journalService) PostEntry(ctx context.Context, entryID, postedBy string) (*domain.LedgerEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	period, err := s.periodRepo.FindPeriodForDate(ctx, entry.EntryDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no accounting period covers %s", apperrors.ErrValidation, entry.EntryDate.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve period for entry %s: %w", entry.EntryNumber, err)
	}
	if !period.CanPostEntries() {
		return nil, fmt.Errorf("%w: period %s is %s and does not accept postings", apperrors.ErrInvalidState, period.Label(), period.Status)
	}

	if err := entry.Post(postedBy); err != nil {
		return nil, err
	}

	// Append before persisting the posted state: if the period closed since
	// the check above, the ledger refuses inside its critical section and
	// the stored entry stays Draft.
	ledgerEntry, err := s.ledgerSvc.Append(ctx, entry, postedBy)
	if err != nil {
		s.logger.Warn("ledger append refused, posting rolled back",
			slog.String("entry_number", entry.EntryNumber),
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		s.logger.Error("failed to persist posted journal entry", slog.String("entry_number", entry.EntryNumber), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist posted journal entry: %w", err)
	}

	metrics.JournalEntriesPosted.Inc()
	s.logger.Info("journal entry posted",
		slog.String("entry_number", entry.EntryNumber),
		slog.String("posted_by", postedBy),
		slog.Int64("ledger_sequence", ledgerEntry.SequenceNumber()))
	return ledgerEntry, nil
}

// GetEntryByID retrieves a journal entry by its generated identifier.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

// GetEntryByNumber retrieves a journal entry by its business key.
func (s *journalService) GetEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByNumber(ctx, entryNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryNumber, err)
	}
	return entry, nil
}
