package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// SubscriptionStatus represents the lifecycle status of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing  SubscriptionStatus = "TRIALING"
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPastDue   SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SubscriptionStatus
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusTrialing, SubscriptionStatusActive,
		SubscriptionStatusPastDue, SubscriptionStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SubscriptionStatus
func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsUsable returns true if the subscription currently grants access
func (s SubscriptionStatus) IsUsable() bool {
	return s == SubscriptionStatusTrialing || s == SubscriptionStatusActive
}

// Subscription ties a business to a package tier for a billing period
type Subscription struct {
	shared.BusinessAggregateRoot
	TierCode    TierCode           `json:"tier_code"`
	Status      SubscriptionStatus `json:"status"`
	PeriodStart time.Time          `json:"period_start"`
	PeriodEnd   time.Time          `json:"period_end"`
	TrialEnd    *time.Time         `json:"trial_end"`
	AddOnKeys   []string           `json:"addon_keys"`
	CancelledAt *time.Time         `json:"cancelled_at"`
	IsActive    bool               `json:"is_active"`
}

// NewSubscription starts a trialing subscription on the given tier
func NewSubscription(businessID uuid.UUID, tier TierCode, trialDays int) (*Subscription, error) {
	if !tier.IsValid() {
		return nil, shared.NewDomainError("INVALID_TIER_CODE", "Tier code is not valid")
	}
	if trialDays < 0 {
		return nil, shared.NewDomainError("INVALID_TRIAL", "Trial days cannot be negative")
	}

	now := time.Now()
	sub := &Subscription{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		TierCode:              tier,
		Status:                SubscriptionStatusActive,
		PeriodStart:           now,
		PeriodEnd:             now.AddDate(0, 1, 0),
		AddOnKeys:             make([]string, 0),
		IsActive:              true,
	}

	if trialDays > 0 {
		trialEnd := now.AddDate(0, 0, trialDays)
		sub.Status = SubscriptionStatusTrialing
		sub.TrialEnd = &trialEnd
	}

	sub.AddDomainEvent(NewSubscriptionStartedEvent(sub))

	return sub, nil
}

// ChangeTier moves the subscription to a different package tier
func (s *Subscription) ChangeTier(tier TierCode) error {
	if !tier.IsValid() {
		return shared.NewDomainError("INVALID_TIER_CODE", "Tier code is not valid")
	}
	if s.Status == SubscriptionStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot change tier on a cancelled subscription")
	}
	if s.TierCode == tier {
		return shared.NewDomainError("INVALID_TIER_CODE", "Subscription is already on this tier")
	}

	previous := s.TierCode
	s.TierCode = tier
	s.touch()
	s.AddDomainEvent(NewSubscriptionTierChangedEvent(s, previous))

	return nil
}

// PurchaseAddOn attaches an add-on to the subscription
func (s *Subscription) PurchaseAddOn(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_ADDON_KEY", "Add-on key cannot be empty")
	}
	if !s.Status.IsUsable() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot purchase add-ons in %s status", s.Status))
	}
	for _, existing := range s.AddOnKeys {
		if existing == key {
			return shared.ErrAlreadyExists
		}
	}

	s.AddOnKeys = append(s.AddOnKeys, key)
	s.touch()

	return nil
}

// RemoveAddOn detaches an add-on from the subscription
func (s *Subscription) RemoveAddOn(key string) error {
	for idx, existing := range s.AddOnKeys {
		if existing == key {
			s.AddOnKeys = append(s.AddOnKeys[:idx], s.AddOnKeys[idx+1:]...)
			s.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Renew starts the next billing period
func (s *Subscription) Renew() error {
	if s.Status == SubscriptionStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot renew a cancelled subscription")
	}

	s.Status = SubscriptionStatusActive
	s.TrialEnd = nil
	s.PeriodStart = s.PeriodEnd
	s.PeriodEnd = s.PeriodEnd.AddDate(0, 1, 0)
	s.touch()

	return nil
}

// MarkPastDue flags a subscription whose period ended without payment
func (s *Subscription) MarkPastDue() error {
	if !s.Status.IsUsable() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark %s subscription past due", s.Status))
	}

	s.Status = SubscriptionStatusPastDue
	s.touch()
	s.AddDomainEvent(NewSubscriptionPastDueEvent(s))

	return nil
}

// Cancel ends the subscription
func (s *Subscription) Cancel() error {
	if s.Status == SubscriptionStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Subscription is already cancelled")
	}

	now := time.Now()
	s.Status = SubscriptionStatusCancelled
	s.CancelledAt = &now
	s.touch()
	s.AddDomainEvent(NewSubscriptionCancelledEvent(s))

	return nil
}

// PeriodExpired returns true if the current period has ended
func (s *Subscription) PeriodExpired(now time.Time) bool {
	return now.After(s.PeriodEnd)
}

func (s *Subscription) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
