package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentfold/backend/internal/domain/billing"
)

// PackageTierModel is the persistence model for the PackageTier aggregate.
type PackageTierModel struct {
	AggregateModel
	Code              billing.TierCode     `gorm:"type:varchar(30);not null;uniqueIndex"`
	Name              string               `gorm:"type:varchar(100);not null"`
	MonthlyPriceCents int64                `gorm:"not null"`
	MaxProperties     *int                 `gorm:""`
	MaxUnits          *int                 `gorm:""`
	MaxTenants        *int                 `gorm:""`
	FeatureKeys       []billing.FeatureKey `gorm:"serializer:json"`
	IsActive          bool                 `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PackageTierModel) TableName() string {
	return "package_tiers"
}

// ToDomain converts the persistence model to a domain PackageTier aggregate.
func (m *PackageTierModel) ToDomain() *billing.PackageTier {
	keys := m.FeatureKeys
	if keys == nil {
		keys = make([]billing.FeatureKey, 0)
	}
	return &billing.PackageTier{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		MonthlyPriceCents: m.MonthlyPriceCents,
		MaxProperties:     m.MaxProperties,
		MaxUnits:          m.MaxUnits,
		MaxTenants:        m.MaxTenants,
		FeatureKeys:       keys,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain PackageTier aggregate.
func (m *PackageTierModel) FromDomain(t *billing.PackageTier) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Code = t.Code
	m.Name = t.Name
	m.MonthlyPriceCents = t.MonthlyPriceCents
	m.MaxProperties = t.MaxProperties
	m.MaxUnits = t.MaxUnits
	m.MaxTenants = t.MaxTenants
	m.FeatureKeys = t.FeatureKeys
	m.IsActive = t.IsActive
}

// PackageTierModelFromDomain creates a new persistence model from a domain PackageTier aggregate.
func PackageTierModelFromDomain(t *billing.PackageTier) *PackageTierModel {
	m := &PackageTierModel{}
	m.FromDomain(t)
	return m
}

// AddOnModel is the persistence model for the AddOn aggregate.
type AddOnModel struct {
	AggregateModel
	Key               string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name              string              `gorm:"type:varchar(100);not null"`
	Description       string              `gorm:"type:text"`
	MonthlyPriceCents int64               `gorm:"not null"`
	GrantsFeature     *billing.FeatureKey `gorm:"type:varchar(50)"`
	ExtraProperties   int                 `gorm:"not null;default:0"`
	ExtraUnits        int                 `gorm:"not null;default:0"`
	ExtraTenants      int                 `gorm:"not null;default:0"`
	IsActive          bool                `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (AddOnModel) TableName() string {
	return "addons"
}

// ToDomain converts the persistence model to a domain AddOn aggregate.
func (m *AddOnModel) ToDomain() *billing.AddOn {
	return &billing.AddOn{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Key:               m.Key,
		Name:              m.Name,
		Description:       m.Description,
		MonthlyPriceCents: m.MonthlyPriceCents,
		GrantsFeature:     m.GrantsFeature,
		ExtraProperties:   m.ExtraProperties,
		ExtraUnits:        m.ExtraUnits,
		ExtraTenants:      m.ExtraTenants,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain AddOn aggregate.
func (m *AddOnModel) FromDomain(a *billing.AddOn) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Key = a.Key
	m.Name = a.Name
	m.Description = a.Description
	m.MonthlyPriceCents = a.MonthlyPriceCents
	m.GrantsFeature = a.GrantsFeature
	m.ExtraProperties = a.ExtraProperties
	m.ExtraUnits = a.ExtraUnits
	m.ExtraTenants = a.ExtraTenants
	m.IsActive = a.IsActive
}

// AddOnModelFromDomain creates a new persistence model from a domain AddOn aggregate.
func AddOnModelFromDomain(a *billing.AddOn) *AddOnModel {
	m := &AddOnModel{}
	m.FromDomain(a)
	return m
}

// SubscriptionModel is the persistence model for the Subscription aggregate.
type SubscriptionModel struct {
	BusinessAggregateModel
	TierCode    billing.TierCode           `gorm:"type:varchar(30);not null;index"`
	Status      billing.SubscriptionStatus `gorm:"type:varchar(20);not null;index"`
	PeriodStart time.Time                  `gorm:"not null"`
	PeriodEnd   time.Time                  `gorm:"not null;index"`
	TrialEnd    *time.Time                 `gorm:""`
	AddOnKeys   []string                   `gorm:"serializer:json"`
	CancelledAt *time.Time                 `gorm:""`
	IsActive    bool                       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts the persistence model to a domain Subscription aggregate.
func (m *SubscriptionModel) ToDomain() *billing.Subscription {
	keys := m.AddOnKeys
	if keys == nil {
		keys = make([]string, 0)
	}
	return &billing.Subscription{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		TierCode:              m.TierCode,
		Status:                m.Status,
		PeriodStart:           m.PeriodStart,
		PeriodEnd:             m.PeriodEnd,
		TrialEnd:              m.TrialEnd,
		AddOnKeys:             keys,
		CancelledAt:           m.CancelledAt,
		IsActive:              m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Subscription aggregate.
func (m *SubscriptionModel) FromDomain(s *billing.Subscription) {
	m.FromDomainBusinessAggregateRoot(s.BusinessAggregateRoot)
	m.TierCode = s.TierCode
	m.Status = s.Status
	m.PeriodStart = s.PeriodStart
	m.PeriodEnd = s.PeriodEnd
	m.TrialEnd = s.TrialEnd
	m.AddOnKeys = s.AddOnKeys
	m.CancelledAt = s.CancelledAt
	m.IsActive = s.IsActive
}

// SubscriptionModelFromDomain creates a new persistence model from a domain Subscription aggregate.
func SubscriptionModelFromDomain(s *billing.Subscription) *SubscriptionModel {
	m := &SubscriptionModel{}
	m.FromDomain(s)
	return m
}

// AIAPIKeyModel is the persistence model for the AIAPIKey aggregate.
// KeyCiphertext holds the AES-GCM sealed key; the plaintext never touches the database.
type AIAPIKeyModel struct {
	BusinessAggregateModel
	Provider           billing.AIProvider `gorm:"type:varchar(30);not null"`
	Label              string             `gorm:"type:varchar(100);not null"`
	KeyCiphertext      []byte             `gorm:"type:bytea;not null"`
	KeyLastFour        string             `gorm:"type:varchar(4);not null"`
	MonthlyTokenBudget *int64             `gorm:""`
	LastUsedAt         *time.Time         `gorm:""`
	IsActive           bool               `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (AIAPIKeyModel) TableName() string {
	return "ai_api_keys"
}

// ToDomain converts the persistence model to a domain AIAPIKey aggregate.
func (m *AIAPIKeyModel) ToDomain() *billing.AIAPIKey {
	return &billing.AIAPIKey{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		Provider:              m.Provider,
		Label:                 m.Label,
		KeyCiphertext:         m.KeyCiphertext,
		KeyLastFour:           m.KeyLastFour,
		MonthlyTokenBudget:    m.MonthlyTokenBudget,
		LastUsedAt:            m.LastUsedAt,
		IsActive:              m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain AIAPIKey aggregate.
func (m *AIAPIKeyModel) FromDomain(k *billing.AIAPIKey) {
	m.FromDomainBusinessAggregateRoot(k.BusinessAggregateRoot)
	m.Provider = k.Provider
	m.Label = k.Label
	m.KeyCiphertext = k.KeyCiphertext
	m.KeyLastFour = k.KeyLastFour
	m.MonthlyTokenBudget = k.MonthlyTokenBudget
	m.LastUsedAt = k.LastUsedAt
	m.IsActive = k.IsActive
}

// AIAPIKeyModelFromDomain creates a new persistence model from a domain AIAPIKey aggregate.
func AIAPIKeyModelFromDomain(k *billing.AIAPIKey) *AIAPIKeyModel {
	m := &AIAPIKeyModel{}
	m.FromDomain(k)
	return m
}

// AIUsageRecordModel is the persistence model for the AIUsageRecord aggregate.
type AIUsageRecordModel struct {
	BusinessAggregateModel
	KeyID        uuid.UUID          `gorm:"type:uuid;not null;index"`
	Provider     billing.AIProvider `gorm:"type:varchar(30);not null"`
	Feature      string             `gorm:"type:varchar(50);not null;index"`
	InputTokens  int64              `gorm:"not null"`
	OutputTokens int64              `gorm:"not null"`
	CostCents    int64              `gorm:"not null"`
	OccurredAt   time.Time          `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AIUsageRecordModel) TableName() string {
	return "ai_usage_records"
}

// ToDomain converts the persistence model to a domain AIUsageRecord aggregate.
func (m *AIUsageRecordModel) ToDomain() *billing.AIUsageRecord {
	return &billing.AIUsageRecord{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		KeyID:                 m.KeyID,
		Provider:              m.Provider,
		Feature:               m.Feature,
		InputTokens:           m.InputTokens,
		OutputTokens:          m.OutputTokens,
		CostCents:             m.CostCents,
		OccurredAt:            m.OccurredAt,
	}
}

// FromDomain populates the persistence model from a domain AIUsageRecord aggregate.
func (m *AIUsageRecordModel) FromDomain(r *billing.AIUsageRecord) {
	m.FromDomainBusinessAggregateRoot(r.BusinessAggregateRoot)
	m.KeyID = r.KeyID
	m.Provider = r.Provider
	m.Feature = r.Feature
	m.InputTokens = r.InputTokens
	m.OutputTokens = r.OutputTokens
	m.CostCents = r.CostCents
	m.OccurredAt = r.OccurredAt
}

// AIUsageRecordModelFromDomain creates a new persistence model from a domain AIUsageRecord aggregate.
func AIUsageRecordModelFromDomain(r *billing.AIUsageRecord) *AIUsageRecordModel {
	m := &AIUsageRecordModel{}
	m.FromDomain(r)
	return m
}

// AIUsagePeriodTotalModel is the persistence model for the AIUsagePeriodTotal aggregate.
type AIUsagePeriodTotalModel struct {
	BusinessAggregateModel
	PeriodStart    time.Time `gorm:"not null;index:idx_ai_usage_period_totals_business_period,unique,composite:business_id"`
	PeriodEnd      time.Time `gorm:"not null"`
	TotalTokens    int64     `gorm:"not null"`
	TotalCostCents int64     `gorm:"not null"`
	CallCount      int64     `gorm:"not null"`
	AggregatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AIUsagePeriodTotalModel) TableName() string {
	return "ai_usage_period_totals"
}

// ToDomain converts the persistence model to a domain AIUsagePeriodTotal aggregate.
func (m *AIUsagePeriodTotalModel) ToDomain() *billing.AIUsagePeriodTotal {
	return &billing.AIUsagePeriodTotal{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		PeriodStart:           m.PeriodStart,
		PeriodEnd:             m.PeriodEnd,
		TotalTokens:           m.TotalTokens,
		TotalCostCents:        m.TotalCostCents,
		CallCount:             m.CallCount,
		AggregatedAt:          m.AggregatedAt,
	}
}

// FromDomain populates the persistence model from a domain AIUsagePeriodTotal aggregate.
func (m *AIUsagePeriodTotalModel) FromDomain(t *billing.AIUsagePeriodTotal) {
	m.FromDomainBusinessAggregateRoot(t.BusinessAggregateRoot)
	m.PeriodStart = t.PeriodStart
	m.PeriodEnd = t.PeriodEnd
	m.TotalTokens = t.TotalTokens
	m.TotalCostCents = t.TotalCostCents
	m.CallCount = t.CallCount
	m.AggregatedAt = t.AggregatedAt
}

// AIUsagePeriodTotalModelFromDomain creates a new persistence model from a domain AIUsagePeriodTotal aggregate.
func AIUsagePeriodTotalModelFromDomain(t *billing.AIUsagePeriodTotal) *AIUsagePeriodTotalModel {
	m := &AIUsagePeriodTotalModel{}
	m.FromDomain(t)
	return m
}
