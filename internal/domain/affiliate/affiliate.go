package affiliate

import (
	"regexp"
	"strings"
	"time"

	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var referralCodePattern = regexp.MustCompile(`^[A-Z0-9]{4,16}$`)

// AffiliateStatus represents whether an affiliate can earn commissions
type AffiliateStatus string

const (
	AffiliateStatusActive    AffiliateStatus = "active"
	AffiliateStatusSuspended AffiliateStatus = "suspended"
	AffiliateStatusClosed    AffiliateStatus = "closed"
)

// IsValid checks if the status is a valid AffiliateStatus
func (s AffiliateStatus) IsValid() bool {
	switch s {
	case AffiliateStatusActive, AffiliateStatusSuspended, AffiliateStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of AffiliateStatus
func (s AffiliateStatus) String() string {
	return string(s)
}

// Affiliate is a partner who refers new businesses for a commission.
// Affiliates are platform-level, not scoped to any business.
type Affiliate struct {
	shared.BaseAggregateRoot
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	ReferralCode   string          `json:"referral_code" gorm:"uniqueIndex"`
	CommissionRate decimal.Decimal `json:"commission_rate" gorm:"type:decimal(5,4)"`
	PayoutDetails  string          `json:"payout_details"`
	Status         AffiliateStatus `json:"status"`
	IsActive       bool            `json:"is_active"`
}

// NewAffiliate registers an affiliate partner. The commission rate is a
// fraction of the referred business's first subscription payment, 0 to 1.
func NewAffiliate(name, email, referralCode string, commissionRate decimal.Decimal) (*Affiliate, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Affiliate name is required")
	}
	referralCode = strings.ToUpper(strings.TrimSpace(referralCode))
	if !referralCodePattern.MatchString(referralCode) {
		return nil, shared.NewDomainError("INVALID_CODE", "Referral code must be 4-16 uppercase letters or digits")
	}
	if commissionRate.IsNegative() || commissionRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_RATE", "Commission rate must be between 0 and 1")
	}

	affiliate := &Affiliate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		ReferralCode:      referralCode,
		CommissionRate:    commissionRate,
		Status:            AffiliateStatusActive,
		IsActive:          true,
	}

	affiliate.AddDomainEvent(NewAffiliateRegisteredEvent(affiliate))

	return affiliate, nil
}

// CommissionFor computes the commission, in cents, on a payment amount.
// Decimal multiplication truncated toward zero so the affiliate is never
// overpaid by a fraction of a cent.
func (a *Affiliate) CommissionFor(paymentCents int64) int64 {
	return a.CommissionRate.Mul(decimal.NewFromInt(paymentCents)).IntPart()
}

// SetCommissionRate changes the rate for future referrals
func (a *Affiliate) SetCommissionRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_RATE", "Commission rate must be between 0 and 1")
	}

	a.CommissionRate = rate
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// SetPayoutDetails records where commissions are sent
func (a *Affiliate) SetPayoutDetails(details string) {
	a.PayoutDetails = details
	a.UpdatedAt = time.Now()
}

// Suspend stops new referrals from earning commission
func (a *Affiliate) Suspend() error {
	if a.Status != AffiliateStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active affiliates can be suspended")
	}
	a.Status = AffiliateStatusSuspended
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Reinstate returns a suspended affiliate to active
func (a *Affiliate) Reinstate() error {
	if a.Status != AffiliateStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Only suspended affiliates can be reinstated")
	}
	a.Status = AffiliateStatusActive
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Close permanently ends the partnership
func (a *Affiliate) Close() error {
	if a.Status == AffiliateStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Affiliate is already closed")
	}
	a.Status = AffiliateStatusClosed
	a.IsActive = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// CanEarn reports whether new referrals credit this affiliate
func (a *Affiliate) CanEarn() bool {
	return a.Status == AffiliateStatusActive && a.IsActive
}
