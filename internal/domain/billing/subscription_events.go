package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// SubscriptionStartedEvent is raised when a business starts a subscription
type SubscriptionStartedEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID  `json:"subscription_id"`
	TierCode       TierCode   `json:"tier_code"`
	TrialEnd       *time.Time `json:"trial_end"`
}

// EventType returns the event type name
func (e *SubscriptionStartedEvent) EventType() string {
	return "SubscriptionStarted"
}

// NewSubscriptionStartedEvent creates a new SubscriptionStartedEvent
func NewSubscriptionStartedEvent(sub *Subscription) *SubscriptionStartedEvent {
	return &SubscriptionStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SubscriptionStarted", "Subscription", sub.ID, sub.BusinessID),
		SubscriptionID:  sub.ID,
		TierCode:        sub.TierCode,
		TrialEnd:        sub.TrialEnd,
	}
}

// SubscriptionTierChangedEvent is raised when a subscription moves tiers
type SubscriptionTierChangedEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID `json:"subscription_id"`
	PreviousTier   TierCode  `json:"previous_tier"`
	NewTier        TierCode  `json:"new_tier"`
}

// EventType returns the event type name
func (e *SubscriptionTierChangedEvent) EventType() string {
	return "SubscriptionTierChanged"
}

// NewSubscriptionTierChangedEvent creates a new SubscriptionTierChangedEvent
func NewSubscriptionTierChangedEvent(sub *Subscription, previous TierCode) *SubscriptionTierChangedEvent {
	return &SubscriptionTierChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SubscriptionTierChanged", "Subscription", sub.ID, sub.BusinessID),
		SubscriptionID:  sub.ID,
		PreviousTier:    previous,
		NewTier:         sub.TierCode,
	}
}

// SubscriptionPastDueEvent is raised when a subscription lapses without payment
type SubscriptionPastDueEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID `json:"subscription_id"`
	TierCode       TierCode  `json:"tier_code"`
	PeriodEnd      time.Time `json:"period_end"`
}

// EventType returns the event type name
func (e *SubscriptionPastDueEvent) EventType() string {
	return "SubscriptionPastDue"
}

// NewSubscriptionPastDueEvent creates a new SubscriptionPastDueEvent
func NewSubscriptionPastDueEvent(sub *Subscription) *SubscriptionPastDueEvent {
	return &SubscriptionPastDueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SubscriptionPastDue", "Subscription", sub.ID, sub.BusinessID),
		SubscriptionID:  sub.ID,
		TierCode:        sub.TierCode,
		PeriodEnd:       sub.PeriodEnd,
	}
}

// SubscriptionCancelledEvent is raised when a subscription is cancelled
type SubscriptionCancelledEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID `json:"subscription_id"`
	TierCode       TierCode  `json:"tier_code"`
}

// EventType returns the event type name
func (e *SubscriptionCancelledEvent) EventType() string {
	return "SubscriptionCancelled"
}

// NewSubscriptionCancelledEvent creates a new SubscriptionCancelledEvent
func NewSubscriptionCancelledEvent(sub *Subscription) *SubscriptionCancelledEvent {
	return &SubscriptionCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SubscriptionCancelled", "Subscription", sub.ID, sub.BusinessID),
		SubscriptionID:  sub.ID,
		TierCode:        sub.TierCode,
	}
}
