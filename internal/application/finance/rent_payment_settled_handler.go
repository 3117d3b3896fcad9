package finance

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/finance"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/shared"
)

// RentRevenueAccountCode is the chart-of-accounts code entries posted
// from rent settlements land on. Seeded with the default chart.
const RentRevenueAccountCode = "4000"

// RentPaymentSettledHandler posts a revenue ledger entry when a rent
// payment settles, so actuals flow into variance reports without manual
// bookkeeping.
type RentPaymentSettledHandler struct {
	entryRepo   finance.LedgerEntryRepository
	accountRepo finance.LedgerAccountRepository
	logger      *zap.Logger
}

// NewRentPaymentSettledHandler creates a new handler for settled rent payments
func NewRentPaymentSettledHandler(
	entryRepo finance.LedgerEntryRepository,
	accountRepo finance.LedgerAccountRepository,
	logger *zap.Logger,
) *RentPaymentSettledHandler {
	return &RentPaymentSettledHandler{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *RentPaymentSettledHandler) EventTypes() []string {
	return []string{"RentPaymentSettled"}
}

// Handle posts the matching revenue entry for a settled rent payment
func (h *RentPaymentSettledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	settled, ok := event.(*leasing.RentPaymentSettledEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", "RentPaymentSettled"),
			zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: expected RentPaymentSettled, got %s", event.EventType())
	}

	businessID := settled.BusinessID()

	account, err := h.accountRepo.FindByCode(ctx, businessID, RentRevenueAccountCode)
	if err != nil {
		if err == shared.ErrNotFound {
			h.logger.Warn("rent revenue account missing, skipping ledger posting",
				zap.String("business_id", businessID.String()),
				zap.String("account_code", RentRevenueAccountCode))
			return nil
		}
		h.logger.Error("failed to load rent revenue account", zap.Error(err))
		return fmt.Errorf("failed to load rent revenue account: %w", err)
	}

	// Idempotency: settlement events can be redelivered; one entry per payment.
	sourceID := settled.PaymentID
	existing, err := h.entryRepo.FindAllForBusiness(ctx, businessID, finance.LedgerEntryFilter{
		AccountID: &account.ID,
		Source:    sourcePtr(finance.EntrySourcePayment),
	})
	if err != nil {
		h.logger.Error("failed to check existing entries", zap.Error(err))
		return fmt.Errorf("failed to check existing entries: %w", err)
	}
	for _, entry := range existing {
		if entry.SourceID != nil && *entry.SourceID == sourceID {
			h.logger.Warn("ledger entry already posted for payment, skipping",
				zap.String("payment_id", sourceID.String()))
			return nil
		}
	}

	// Revenue is credit-normal: debit-signed ledger stores it negative.
	entry, err := finance.NewLedgerEntry(
		businessID,
		account.ID,
		time.Now(),
		-settled.AmountCents,
		fmt.Sprintf("Rent payment %s", sourceID),
		finance.EntrySourcePayment,
	)
	if err != nil {
		return err
	}
	entry.AttachSource(sourceID)

	if err := h.entryRepo.Save(ctx, entry); err != nil {
		h.logger.Error("failed to save rent revenue entry",
			zap.String("payment_id", sourceID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to save rent revenue entry: %w", err)
	}

	h.logger.Info("rent revenue posted",
		zap.String("business_id", businessID.String()),
		zap.String("payment_id", sourceID.String()),
		zap.Int64("amount_cents", settled.AmountCents))

	return nil
}

func sourcePtr(source finance.EntrySource) *finance.EntrySource {
	return &source
}
