package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentfold/backend/internal/domain/affiliate"
)

// AffiliateModel is the persistence model for the Affiliate aggregate.
// Affiliates are platform-level, not scoped to a business.
type AffiliateModel struct {
	AggregateModel
	Name           string                    `gorm:"type:varchar(200);not null"`
	Email          string                    `gorm:"type:varchar(200);not null"`
	Phone          string                    `gorm:"type:varchar(50)"`
	ReferralCode   string                    `gorm:"type:varchar(50);not null;uniqueIndex"`
	CommissionRate decimal.Decimal           `gorm:"type:decimal(5,4);not null"`
	PayoutDetails  string                    `gorm:"type:text"`
	Status         affiliate.AffiliateStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	IsActive       bool                      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (AffiliateModel) TableName() string {
	return "affiliates"
}

// ToDomain converts the persistence model to a domain Affiliate aggregate.
func (m *AffiliateModel) ToDomain() *affiliate.Affiliate {
	return &affiliate.Affiliate{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		ReferralCode:      m.ReferralCode,
		CommissionRate:    m.CommissionRate,
		PayoutDetails:     m.PayoutDetails,
		Status:            m.Status,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Affiliate aggregate.
func (m *AffiliateModel) FromDomain(a *affiliate.Affiliate) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Name = a.Name
	m.Email = a.Email
	m.Phone = a.Phone
	m.ReferralCode = a.ReferralCode
	m.CommissionRate = a.CommissionRate
	m.PayoutDetails = a.PayoutDetails
	m.Status = a.Status
	m.IsActive = a.IsActive
}

// AffiliateModelFromDomain creates a new persistence model from a domain Affiliate aggregate.
func AffiliateModelFromDomain(a *affiliate.Affiliate) *AffiliateModel {
	m := &AffiliateModel{}
	m.FromDomain(a)
	return m
}

// ReferralModel is the persistence model for the Referral aggregate.
// One referral per business: the first-payment conversion is idempotent.
type ReferralModel struct {
	AggregateModel
	AffiliateID      uuid.UUID `gorm:"type:uuid;not null;index"`
	BusinessID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	SignupDate       time.Time `gorm:"not null"`
	Converted        bool      `gorm:"not null;default:false"`
	ConvertedAt      *time.Time
	CommissionCents  int64 `gorm:"not null;default:0"`
	PayoutApproved   bool  `gorm:"not null;default:false"`
	PayoutApprovedAt *time.Time
	IsActive         bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ReferralModel) TableName() string {
	return "referrals"
}

// ToDomain converts the persistence model to a domain Referral aggregate.
func (m *ReferralModel) ToDomain() *affiliate.Referral {
	return &affiliate.Referral{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AffiliateID:       m.AffiliateID,
		BusinessID:        m.BusinessID,
		SignupDate:        m.SignupDate,
		Converted:         m.Converted,
		ConvertedAt:       m.ConvertedAt,
		CommissionCents:   m.CommissionCents,
		PayoutApproved:    m.PayoutApproved,
		PayoutApprovedAt:  m.PayoutApprovedAt,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Referral aggregate.
func (m *ReferralModel) FromDomain(r *affiliate.Referral) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.AffiliateID = r.AffiliateID
	m.BusinessID = r.BusinessID
	m.SignupDate = r.SignupDate
	m.Converted = r.Converted
	m.ConvertedAt = r.ConvertedAt
	m.CommissionCents = r.CommissionCents
	m.PayoutApproved = r.PayoutApproved
	m.PayoutApprovedAt = r.PayoutApprovedAt
	m.IsActive = r.IsActive
}

// ReferralModelFromDomain creates a new persistence model from a domain Referral aggregate.
func ReferralModelFromDomain(r *affiliate.Referral) *ReferralModel {
	m := &ReferralModel{}
	m.FromDomain(r)
	return m
}
