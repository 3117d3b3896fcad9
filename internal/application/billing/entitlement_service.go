package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ResourceCounter reports how many of each limited resource a business
// currently has. Counts cover active rows only so soft-deleted records
// free their slot.
type ResourceCounter interface {
	CountProperties(ctx context.Context, businessID uuid.UUID) (int64, error)
	CountUnits(ctx context.Context, businessID uuid.UUID) (int64, error)
	CountTenants(ctx context.Context, businessID uuid.UUID) (int64, error)
}

// EntitlementService enforces package tier limits and feature gates.
// Creation paths call CheckResourceCreation BEFORE inserting; a
// *billing.LimitReachedError return means nothing may be written.
type EntitlementService struct {
	subscriptionRepo billing.SubscriptionRepository
	tierRepo         billing.PackageTierRepository
	addOnRepo        billing.AddOnRepository
	counter          ResourceCounter
	planCache        billing.PlanCache
	logger           *zap.Logger
}

// EntitlementServiceOption configures optional collaborators
type EntitlementServiceOption func(*EntitlementService)

// WithPlanCache enables plan snapshot caching. Entitlement checks run on
// every creation path, so resolving the plan from cache instead of three
// table reads matters under load. The cache is best-effort: errors fall
// through to the repositories.
func WithPlanCache(cache billing.PlanCache) EntitlementServiceOption {
	return func(s *EntitlementService) {
		s.planCache = cache
	}
}

// NewEntitlementService creates a new EntitlementService
func NewEntitlementService(
	subscriptionRepo billing.SubscriptionRepository,
	tierRepo billing.PackageTierRepository,
	addOnRepo billing.AddOnRepository,
	counter ResourceCounter,
	logger *zap.Logger,
	opts ...EntitlementServiceOption,
) *EntitlementService {
	s := &EntitlementService{
		subscriptionRepo: subscriptionRepo,
		tierRepo:         tierRepo,
		addOnRepo:        addOnRepo,
		counter:          counter,
		logger:           logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckResourceCreation verifies the business may create one more of the
// given resource. Returns nil when allowed, *billing.LimitReachedError
// when the tier limit (plus add-on bumps) is already used up.
func (s *EntitlementService) CheckResourceCreation(ctx context.Context, businessID uuid.UUID, resource billing.LimitedResource) error {
	if businessID == uuid.Nil {
		return shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if !resource.IsValid() {
		return shared.NewDomainError("INVALID_RESOURCE", "Unknown limited resource")
	}

	plan, err := s.resolvePlan(ctx, businessID)
	if err != nil {
		return err
	}

	limit := plan.EffectiveLimit(resource)
	if limit == nil {
		return nil // Unlimited
	}
	effectiveLimit := *limit

	current, err := s.currentCount(ctx, businessID, resource)
	if err != nil {
		s.logger.Error("Failed to count resources",
			zap.String("business_id", businessID.String()),
			zap.String("resource", string(resource)),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to count resources")
	}

	if current >= int64(effectiveLimit) {
		s.logger.Info("Tier limit reached, blocking creation",
			zap.String("business_id", businessID.String()),
			zap.String("resource", string(resource)),
			zap.Int64("current", current),
			zap.Int("limit", effectiveLimit))
		return billing.NewLimitReachedError(resource, current, effectiveLimit)
	}

	return nil
}

// HasFeature reports whether the business's tier or add-ons grant a feature
func (s *EntitlementService) HasFeature(ctx context.Context, businessID uuid.UUID, feature billing.FeatureKey) (bool, error) {
	plan, err := s.resolvePlan(ctx, businessID)
	if err != nil {
		return false, err
	}

	return plan.HasFeature(feature), nil
}

// RequireFeature returns a domain error unless the feature is granted
func (s *EntitlementService) RequireFeature(ctx context.Context, businessID uuid.UUID, feature billing.FeatureKey) error {
	granted, err := s.HasFeature(ctx, businessID, feature)
	if err != nil {
		return err
	}
	if !granted {
		return shared.NewDomainError("FEATURE_NOT_AVAILABLE", "Current plan does not include this feature")
	}
	return nil
}

// EntitlementSummary describes what a business's plan currently allows
type EntitlementSummary struct {
	TierCode  billing.TierCode             `json:"tier_code"`
	TierName  string                       `json:"tier_name"`
	Features  []billing.FeatureKey         `json:"features"`
	Limits    map[string]*ResourceUsageDTO `json:"limits"`
	AddOnKeys []string                     `json:"add_on_keys"`
}

// ResourceUsageDTO reports usage against one limit. Limit is nil when
// the tier places no cap on the resource.
type ResourceUsageDTO struct {
	Current int64 `json:"current"`
	Limit   *int  `json:"limit,omitempty"`
}

// GetSummary reports the business's tier, granted features, and usage
// against each limit
func (s *EntitlementService) GetSummary(ctx context.Context, businessID uuid.UUID) (*EntitlementSummary, error) {
	plan, err := s.resolvePlan(ctx, businessID)
	if err != nil {
		return nil, err
	}

	summary := &EntitlementSummary{
		TierCode:  plan.TierCode,
		TierName:  plan.TierName,
		Features:  plan.Features,
		Limits:    make(map[string]*ResourceUsageDTO),
		AddOnKeys: plan.AddOnKeys,
	}

	for _, resource := range []billing.LimitedResource{
		billing.ResourceProperty, billing.ResourceUnit, billing.ResourceTenant,
	} {
		current, err := s.currentCount(ctx, businessID, resource)
		if err != nil {
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count resources")
		}

		usage := &ResourceUsageDTO{Current: current}
		if limit := plan.EffectiveLimit(resource); limit != nil {
			usage.Limit = limit
		}
		summary.Limits[string(resource)] = usage
	}

	return summary, nil
}

// resolvePlan returns the business's current plan snapshot, reading through
// the cache when one is configured. Cache failures are logged and ignored;
// the repositories stay the source of truth.
func (s *EntitlementService) resolvePlan(ctx context.Context, businessID uuid.UUID) (*billing.PlanSnapshot, error) {
	if s.planCache != nil {
		snapshot, err := s.planCache.Get(ctx, businessID)
		if err != nil {
			s.logger.Warn("Plan cache read failed",
				zap.String("business_id", businessID.String()),
				zap.Error(err))
		}
		if snapshot != nil {
			return snapshot, nil
		}
	}

	tier, addOns, err := s.effectivePlan(ctx, businessID)
	if err != nil {
		return nil, err
	}

	snapshot := billing.NewPlanSnapshot(businessID, tier, addOns)
	if s.planCache != nil {
		if err := s.planCache.Set(ctx, snapshot, 0); err != nil {
			s.logger.Warn("Plan cache write failed",
				zap.String("business_id", businessID.String()),
				zap.Error(err))
		}
	}

	return snapshot, nil
}

func (s *EntitlementService) effectivePlan(ctx context.Context, businessID uuid.UUID) (*billing.PackageTier, []*billing.AddOn, error) {
	subscription, err := s.subscriptionRepo.FindByBusiness(ctx, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, nil, shared.NewDomainError("SUBSCRIPTION_NOT_FOUND", "Business has no subscription")
		}
		s.logger.Error("Failed to find subscription", zap.Error(err))
		return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find subscription")
	}
	if !subscription.Status.IsUsable() {
		return nil, nil, shared.NewDomainError("SUBSCRIPTION_INACTIVE", "Subscription is not active")
	}

	tier, err := s.tierRepo.FindByCode(ctx, subscription.TierCode)
	if err != nil {
		s.logger.Error("Failed to find package tier",
			zap.String("tier_code", string(subscription.TierCode)),
			zap.Error(err))
		return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find package tier")
	}

	var addOns []*billing.AddOn
	if len(subscription.AddOnKeys) > 0 {
		addOns, err = s.addOnRepo.FindByKeys(ctx, subscription.AddOnKeys)
		if err != nil {
			s.logger.Error("Failed to find add-ons", zap.Error(err))
			return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find add-ons")
		}
	}

	return tier, addOns, nil
}

func (s *EntitlementService) currentCount(ctx context.Context, businessID uuid.UUID, resource billing.LimitedResource) (int64, error) {
	switch resource {
	case billing.ResourceProperty:
		return s.counter.CountProperties(ctx, businessID)
	case billing.ResourceUnit:
		return s.counter.CountUnits(ctx, businessID)
	case billing.ResourceTenant:
		return s.counter.CountTenants(ctx, businessID)
	}
	return 0, shared.NewDomainError("INVALID_RESOURCE", "Unknown limited resource")
}
