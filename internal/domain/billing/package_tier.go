package billing

import (
	"time"

	"github.com/rentfold/backend/internal/domain/shared"
)

// TierCode identifies a subscription package tier
type TierCode string

const (
	TierStarter      TierCode = "starter"
	TierGrowth       TierCode = "growth"
	TierProfessional TierCode = "professional"
	TierEnterprise   TierCode = "enterprise"
)

// IsValid returns true if the tier code is valid
func (c TierCode) IsValid() bool {
	switch c {
	case TierStarter, TierGrowth, TierProfessional, TierEnterprise:
		return true
	}
	return false
}

// String returns the string representation of TierCode
func (c TierCode) String() string {
	return string(c)
}

// FeatureKey represents a unique identifier for a product feature
type FeatureKey string

// Predefined feature keys for the system
const (
	FeatureOnlinePayments      FeatureKey = "online_payments"
	FeatureMaintenanceTracking FeatureKey = "maintenance_tracking"
	FeatureListings            FeatureKey = "listings"
	FeatureApplications        FeatureKey = "rental_applications"
	FeatureBudgeting           FeatureKey = "budgeting"
	FeatureOwnerPortal         FeatureKey = "owner_portal"
	FeatureCSVImport           FeatureKey = "csv_import"
	FeatureAffiliateProgram    FeatureKey = "affiliate_program"
	FeatureAIAssistant         FeatureKey = "ai_assistant"
	FeaturePrioritySupport     FeatureKey = "priority_support"
)

// IsValid checks if the key is one of the predefined features
func (k FeatureKey) IsValid() bool {
	switch k {
	case FeatureOnlinePayments, FeatureMaintenanceTracking, FeatureListings,
		FeatureApplications, FeatureBudgeting, FeatureOwnerPortal,
		FeatureCSVImport, FeatureAffiliateProgram, FeatureAIAssistant,
		FeaturePrioritySupport:
		return true
	}
	return false
}

// String returns the string representation of FeatureKey
func (k FeatureKey) String() string {
	return string(k)
}

// PackageTier represents a platform subscription plan bounding resource
// limits and feature access. Nil limits mean unlimited.
type PackageTier struct {
	shared.BaseAggregateRoot
	Code              TierCode     `json:"code"`
	Name              string       `json:"name"`
	MonthlyPriceCents int64        `json:"monthly_price_cents"`
	MaxProperties     *int         `json:"max_properties"`
	MaxUnits          *int         `json:"max_units"`
	MaxTenants        *int         `json:"max_tenants"`
	FeatureKeys       []FeatureKey `json:"feature_keys"`
	IsActive          bool         `json:"is_active"`
}

// NewPackageTier creates a new package tier
func NewPackageTier(code TierCode, name string, monthlyPriceCents int64) (*PackageTier, error) {
	if !code.IsValid() {
		return nil, shared.NewDomainError("INVALID_TIER_CODE", "Tier code is not valid")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TIER_NAME", "Tier name cannot be empty")
	}
	if monthlyPriceCents < 0 {
		return nil, shared.NewDomainError("INVALID_PRICE", "Monthly price cannot be negative")
	}

	return &PackageTier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		MonthlyPriceCents: monthlyPriceCents,
		FeatureKeys:       make([]FeatureKey, 0),
		IsActive:          true,
	}, nil
}

// WithLimits sets the resource limits for the tier
func (t *PackageTier) WithLimits(maxProperties, maxUnits, maxTenants *int) *PackageTier {
	t.MaxProperties = maxProperties
	t.MaxUnits = maxUnits
	t.MaxTenants = maxTenants
	return t
}

// WithFeatures sets the included feature keys
func (t *PackageTier) WithFeatures(keys ...FeatureKey) *PackageTier {
	t.FeatureKeys = keys
	return t
}

// HasFeature returns true if the tier includes the feature
func (t *PackageTier) HasFeature(key FeatureKey) bool {
	for _, k := range t.FeatureKeys {
		if k == key {
			return true
		}
	}
	return false
}

// LimitFor returns the tier limit for a resource (nil = unlimited)
func (t *PackageTier) LimitFor(resource LimitedResource) *int {
	switch resource {
	case ResourceProperty:
		return t.MaxProperties
	case ResourceUnit:
		return t.MaxUnits
	case ResourceTenant:
		return t.MaxTenants
	}
	return nil
}

// UpdatePricing changes the monthly price
func (t *PackageTier) UpdatePricing(monthlyPriceCents int64) error {
	if monthlyPriceCents < 0 {
		return shared.NewDomainError("INVALID_PRICE", "Monthly price cannot be negative")
	}
	t.MonthlyPriceCents = monthlyPriceCents
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Deactivate retires the tier from sale
func (t *PackageTier) Deactivate() {
	t.IsActive = false
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

func intPtr(v int) *int { return &v }

// DefaultPackageTiers returns the seeded plan catalog
func DefaultPackageTiers() []*PackageTier {
	starter, _ := NewPackageTier(TierStarter, "Starter", 0)
	starter.WithLimits(intPtr(1), intPtr(5), intPtr(5)).
		WithFeatures(FeatureMaintenanceTracking)

	growth, _ := NewPackageTier(TierGrowth, "Growth", 4900)
	growth.WithLimits(intPtr(5), intPtr(50), intPtr(50)).
		WithFeatures(FeatureMaintenanceTracking, FeatureOnlinePayments,
			FeatureListings, FeatureApplications, FeatureCSVImport)

	professional, _ := NewPackageTier(TierProfessional, "Professional", 14900)
	professional.WithLimits(intPtr(25), intPtr(300), intPtr(300)).
		WithFeatures(FeatureMaintenanceTracking, FeatureOnlinePayments,
			FeatureListings, FeatureApplications, FeatureCSVImport,
			FeatureBudgeting, FeatureOwnerPortal, FeatureAffiliateProgram)

	enterprise, _ := NewPackageTier(TierEnterprise, "Enterprise", 39900)
	enterprise.WithFeatures(FeatureMaintenanceTracking, FeatureOnlinePayments,
		FeatureListings, FeatureApplications, FeatureCSVImport,
		FeatureBudgeting, FeatureOwnerPortal, FeatureAffiliateProgram,
		FeatureAIAssistant, FeaturePrioritySupport)

	return []*PackageTier{starter, growth, professional, enterprise}
}
