package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// EntrySource identifies where a ledger entry originated
type EntrySource string

const (
	EntrySourcePayment EntrySource = "PAYMENT" // Posted from a rent payment
	EntrySourceManual  EntrySource = "MANUAL"  // Entered by a user
	EntrySourceImport  EntrySource = "IMPORT"  // Loaded from an external system
)

// IsValid checks if the entry source is valid
func (s EntrySource) IsValid() bool {
	switch s {
	case EntrySourcePayment, EntrySourceManual, EntrySourceImport:
		return true
	}
	return false
}

// String returns the string representation of EntrySource
func (s EntrySource) String() string {
	return string(s)
}

// LedgerEntry records an actual amount posted against a ledger account.
// AmountCents is debit-signed: debits are positive, credits negative.
// Aggregations flip the sign for credit-normal (revenue) accounts so that
// reported actuals are positive for both account types.
type LedgerEntry struct {
	shared.BusinessAggregateRoot
	AccountID   uuid.UUID   `json:"account_id"`
	EntryDate   time.Time   `json:"entry_date"`
	AmountCents int64       `json:"amount_cents"`
	Memo        string      `json:"memo"`
	Source      EntrySource `json:"source"`
	SourceID    *uuid.UUID  `json:"source_id"` // Originating document (payment, import batch)
	IsActive    bool        `json:"is_active"`
}

// NewLedgerEntry creates a new ledger entry
func NewLedgerEntry(
	businessID uuid.UUID,
	accountID uuid.UUID,
	entryDate time.Time,
	amountCents int64,
	memo string,
	source EntrySource,
) (*LedgerEntry, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if entryDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ENTRY_DATE", "Entry date is required")
	}
	if amountCents == 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Entry amount cannot be zero")
	}
	if len(memo) > 500 {
		return nil, shared.NewDomainError("INVALID_MEMO", "Memo cannot exceed 500 characters")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Entry source is not valid")
	}

	entry := &LedgerEntry{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		AccountID:             accountID,
		EntryDate:             entryDate,
		AmountCents:           amountCents,
		Memo:                  memo,
		Source:                source,
		IsActive:              true,
	}

	entry.AddDomainEvent(NewLedgerEntryPostedEvent(entry))

	return entry, nil
}

// AttachSource links the entry to its originating document
func (e *LedgerEntry) AttachSource(sourceID uuid.UUID) {
	e.SourceID = &sourceID
	e.UpdatedAt = time.Now()
}

// Period returns the 1-based month of the entry within its calendar year
func (e *LedgerEntry) Period() int {
	return int(e.EntryDate.Month())
}

// Void deactivates the entry so it no longer contributes to actuals
func (e *LedgerEntry) Void() error {
	if !e.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Entry is already voided")
	}

	e.IsActive = false
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}
