package affiliate

import (
	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// AffiliateRegisteredEvent is raised when an affiliate partner signs up.
// Affiliates are platform-level so the business scope is empty.
type AffiliateRegisteredEvent struct {
	shared.BaseDomainEvent
	AffiliateID  uuid.UUID `json:"affiliate_id"`
	Name         string    `json:"name"`
	ReferralCode string    `json:"referral_code"`
}

// EventType returns the event type name
func (e *AffiliateRegisteredEvent) EventType() string {
	return "AffiliateRegistered"
}

// NewAffiliateRegisteredEvent creates a new AffiliateRegisteredEvent
func NewAffiliateRegisteredEvent(affiliate *Affiliate) *AffiliateRegisteredEvent {
	return &AffiliateRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AffiliateRegistered", "Affiliate", affiliate.ID, uuid.Nil),
		AffiliateID:     affiliate.ID,
		Name:            affiliate.Name,
		ReferralCode:    affiliate.ReferralCode,
	}
}

// ReferralRecordedEvent is raised when a business signs up through a code
type ReferralRecordedEvent struct {
	shared.BaseDomainEvent
	ReferralID  uuid.UUID `json:"referral_id"`
	AffiliateID uuid.UUID `json:"affiliate_id"`
}

// EventType returns the event type name
func (e *ReferralRecordedEvent) EventType() string {
	return "ReferralRecorded"
}

// NewReferralRecordedEvent creates a new ReferralRecordedEvent
func NewReferralRecordedEvent(referral *Referral) *ReferralRecordedEvent {
	return &ReferralRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ReferralRecorded", "Referral", referral.ID, referral.BusinessID),
		ReferralID:      referral.ID,
		AffiliateID:     referral.AffiliateID,
	}
}

// ReferralConvertedEvent is raised when commission is credited
type ReferralConvertedEvent struct {
	shared.BaseDomainEvent
	ReferralID      uuid.UUID `json:"referral_id"`
	AffiliateID     uuid.UUID `json:"affiliate_id"`
	CommissionCents int64     `json:"commission_cents"`
}

// EventType returns the event type name
func (e *ReferralConvertedEvent) EventType() string {
	return "ReferralConverted"
}

// NewReferralConvertedEvent creates a new ReferralConvertedEvent
func NewReferralConvertedEvent(referral *Referral) *ReferralConvertedEvent {
	return &ReferralConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ReferralConverted", "Referral", referral.ID, referral.BusinessID),
		ReferralID:      referral.ID,
		AffiliateID:     referral.AffiliateID,
		CommissionCents: referral.CommissionCents,
	}
}
