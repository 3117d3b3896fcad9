package finance

import (
	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// LedgerAccountCreatedEvent is raised when a new ledger account is created
type LedgerAccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID   uuid.UUID   `json:"account_id"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"account_type"`
}

// EventType returns the event type name
func (e *LedgerAccountCreatedEvent) EventType() string {
	return "LedgerAccountCreated"
}

// NewLedgerAccountCreatedEvent creates a new LedgerAccountCreatedEvent
func NewLedgerAccountCreatedEvent(account *LedgerAccount) *LedgerAccountCreatedEvent {
	return &LedgerAccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerAccountCreated", "LedgerAccount", account.ID, account.BusinessID),
		AccountID:       account.ID,
		Code:            account.Code,
		Name:            account.Name,
		AccountType:     account.Type,
	}
}

// LedgerAccountDeactivatedEvent is raised when a ledger account is soft deleted
type LedgerAccountDeactivatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
	Code      string    `json:"code"`
}

// EventType returns the event type name
func (e *LedgerAccountDeactivatedEvent) EventType() string {
	return "LedgerAccountDeactivated"
}

// NewLedgerAccountDeactivatedEvent creates a new LedgerAccountDeactivatedEvent
func NewLedgerAccountDeactivatedEvent(account *LedgerAccount) *LedgerAccountDeactivatedEvent {
	return &LedgerAccountDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerAccountDeactivated", "LedgerAccount", account.ID, account.BusinessID),
		AccountID:       account.ID,
		Code:            account.Code,
	}
}

// LedgerEntryPostedEvent is raised when an actual amount is posted to an account
type LedgerEntryPostedEvent struct {
	shared.BaseDomainEvent
	EntryID     uuid.UUID   `json:"entry_id"`
	AccountID   uuid.UUID   `json:"account_id"`
	AmountCents int64       `json:"amount_cents"`
	Source      EntrySource `json:"source"`
}

// EventType returns the event type name
func (e *LedgerEntryPostedEvent) EventType() string {
	return "LedgerEntryPosted"
}

// NewLedgerEntryPostedEvent creates a new LedgerEntryPostedEvent
func NewLedgerEntryPostedEvent(entry *LedgerEntry) *LedgerEntryPostedEvent {
	return &LedgerEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerEntryPosted", "LedgerEntry", entry.ID, entry.BusinessID),
		EntryID:         entry.ID,
		AccountID:       entry.AccountID,
		AmountCents:     entry.AmountCents,
		Source:          entry.Source,
	}
}
