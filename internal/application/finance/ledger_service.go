package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/finance"
	"github.com/rentfold/backend/internal/domain/shared"
)

// LedgerService posts and queries actuals
type LedgerService struct {
	entryRepo   finance.LedgerEntryRepository
	accountRepo finance.LedgerAccountRepository
	logger      *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	entryRepo finance.LedgerEntryRepository,
	accountRepo finance.LedgerAccountRepository,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// PostEntryInput contains input for a manual ledger entry. AmountCents
// is the natural positive amount; the debit sign is applied here based
// on the account's normal balance.
type PostEntryInput struct {
	BusinessID  uuid.UUID
	AccountID   uuid.UUID
	EntryDate   time.Time
	AmountCents int64
	Memo        string
	Source      finance.EntrySource
	SourceID    *uuid.UUID
}

// Post records an actual against an account
func (s *LedgerService) Post(ctx context.Context, input PostEntryInput) (*finance.LedgerEntry, error) {
	account, err := s.accountRepo.FindByIDForBusiness(ctx, input.BusinessID, input.AccountID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
		}
		s.logger.Error("Failed to load account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load account")
	}
	if !account.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is inactive")
	}
	if input.AmountCents <= 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Entry amount must be positive")
	}

	// Revenue is credit-normal, stored negative in the debit-signed ledger.
	signed := input.AmountCents
	if account.NormalBalance() == finance.BalanceSideCredit {
		signed = -signed
	}

	source := input.Source
	if source == "" {
		source = finance.EntrySourceManual
	}

	entry, err := finance.NewLedgerEntry(input.BusinessID, input.AccountID, input.EntryDate, signed, input.Memo, source)
	if err != nil {
		return nil, err
	}
	if input.SourceID != nil {
		entry.AttachSource(*input.SourceID)
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		s.logger.Error("Failed to save ledger entry", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to post entry")
	}

	s.logger.Info("Ledger entry posted",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("account_id", input.AccountID.String()),
		zap.Int64("amount_cents", signed),
		zap.String("source", source.String()))

	return entry, nil
}

// List lists ledger entries for a business
func (s *LedgerService) List(ctx context.Context, businessID uuid.UUID, filter finance.LedgerEntryFilter) ([]finance.LedgerEntry, error) {
	entries, err := s.entryRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list ledger entries", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list entries")
	}
	return entries, nil
}

// Void removes an entry from the actuals
func (s *LedgerService) Void(ctx context.Context, businessID, entryID uuid.UUID) error {
	entry, err := s.entryRepo.FindByIDForBusiness(ctx, businessID, entryID)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("ENTRY_NOT_FOUND", "Ledger entry not found")
		}
		s.logger.Error("Failed to load ledger entry", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load entry")
	}

	if err := entry.Void(); err != nil {
		return err
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		s.logger.Error("Failed to save voided entry", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to void entry")
	}

	s.logger.Info("Ledger entry voided",
		zap.String("business_id", businessID.String()),
		zap.String("entry_id", entryID.String()))

	return nil
}
