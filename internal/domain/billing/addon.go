package billing

import (
	"time"

	"github.com/rentfold/backend/internal/domain/shared"
)

// AddOn represents an optionally purchased capability beyond a package
// tier's defaults: either a feature grant, a resource limit bump, or both.
type AddOn struct {
	shared.BaseAggregateRoot
	Key               string      `json:"key"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	MonthlyPriceCents int64       `json:"monthly_price_cents"`
	GrantsFeature     *FeatureKey `json:"grants_feature"`
	ExtraProperties   int         `json:"extra_properties"`
	ExtraUnits        int         `json:"extra_units"`
	ExtraTenants      int         `json:"extra_tenants"`
	IsActive          bool        `json:"is_active"`
}

// NewAddOn creates a new add-on
func NewAddOn(key, name string, monthlyPriceCents int64) (*AddOn, error) {
	if key == "" {
		return nil, shared.NewDomainError("INVALID_ADDON_KEY", "Add-on key cannot be empty")
	}
	if len(key) > 50 {
		return nil, shared.NewDomainError("INVALID_ADDON_KEY", "Add-on key cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ADDON_NAME", "Add-on name cannot be empty")
	}
	if monthlyPriceCents < 0 {
		return nil, shared.NewDomainError("INVALID_PRICE", "Monthly price cannot be negative")
	}

	return &AddOn{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Key:               key,
		Name:              name,
		MonthlyPriceCents: monthlyPriceCents,
		IsActive:          true,
	}, nil
}

// WithFeatureGrant sets the feature this add-on unlocks
func (a *AddOn) WithFeatureGrant(key FeatureKey) *AddOn {
	a.GrantsFeature = &key
	return a
}

// WithLimitBumps sets extra resource capacity granted by this add-on
func (a *AddOn) WithLimitBumps(extraProperties, extraUnits, extraTenants int) *AddOn {
	a.ExtraProperties = extraProperties
	a.ExtraUnits = extraUnits
	a.ExtraTenants = extraTenants
	return a
}

// BumpFor returns the extra capacity this add-on grants for a resource
func (a *AddOn) BumpFor(resource LimitedResource) int {
	switch resource {
	case ResourceProperty:
		return a.ExtraProperties
	case ResourceUnit:
		return a.ExtraUnits
	case ResourceTenant:
		return a.ExtraTenants
	}
	return 0
}

// Deactivate retires the add-on from sale
func (a *AddOn) Deactivate() {
	a.IsActive = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}
