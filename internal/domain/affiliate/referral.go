package affiliate

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// Referral links a signed-up business back to the affiliate whose code
// it arrived with. Commission is credited when the business converts,
// which means its first subscription payment settles.
type Referral struct {
	shared.BaseAggregateRoot
	AffiliateID     uuid.UUID  `json:"affiliate_id"`
	BusinessID      uuid.UUID  `json:"business_id"`
	SignupDate      time.Time  `json:"signup_date"`
	Converted       bool       `json:"converted"`
	ConvertedAt     *time.Time `json:"converted_at,omitempty"`
	CommissionCents int64      `json:"commission_cents"`
	PayoutApproved  bool       `json:"payout_approved"`
	PayoutApprovedAt *time.Time `json:"payout_approved_at,omitempty"`
	IsActive        bool       `json:"is_active"`
}

// NewReferral records that a business signed up through an affiliate
func NewReferral(affiliateID, businessID uuid.UUID, signupDate time.Time) (*Referral, error) {
	if affiliateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AFFILIATE", "Affiliate ID cannot be empty")
	}
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if signupDate.IsZero() {
		signupDate = time.Now()
	}

	referral := &Referral{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AffiliateID:       affiliateID,
		BusinessID:        businessID,
		SignupDate:        signupDate,
		IsActive:          true,
	}

	referral.AddDomainEvent(NewReferralRecordedEvent(referral))

	return referral, nil
}

// Convert credits commission once the business's first subscription
// payment settles. A referral converts at most once.
func (r *Referral) Convert(commissionCents int64) error {
	if r.Converted {
		return shared.NewDomainError("INVALID_STATE", "Referral has already converted")
	}
	if commissionCents < 0 {
		return shared.NewDomainError("INVALID_COMMISSION", "Commission cannot be negative")
	}

	now := time.Now()
	r.Converted = true
	r.ConvertedAt = &now
	r.CommissionCents = commissionCents
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReferralConvertedEvent(r))

	return nil
}

// ApprovePayout releases the commission for payment
func (r *Referral) ApprovePayout() error {
	if !r.Converted {
		return shared.NewDomainError("INVALID_STATE", "Only converted referrals can be paid out")
	}
	if r.PayoutApproved {
		return shared.NewDomainError("INVALID_STATE", "Payout is already approved")
	}

	now := time.Now()
	r.PayoutApproved = true
	r.PayoutApprovedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}
