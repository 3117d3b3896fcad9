package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/identity"
	"github.com/rentfold/backend/internal/domain/shared"
)

// TierOverrider changes a business's subscription tier outside the normal
// upgrade flow. The billing service implements it.
type TierOverrider interface {
	ChangeTier(ctx context.Context, businessID uuid.UUID, tierCode billing.TierCode) (*billing.Subscription, error)
}

// SubscriptionCounter counts subscriptions for platform stats. The billing
// subscription repository implements it.
type SubscriptionCounter interface {
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PlatformStats summarizes the platform for the operator dashboard
type PlatformStats struct {
	TotalBusinesses     int64 `json:"total_businesses"`
	ActiveBusinesses    int64 `json:"active_businesses"`
	PendingBusinesses   int64 `json:"pending_businesses"`
	SuspendedBusinesses int64 `json:"suspended_businesses"`
	Subscriptions       int64 `json:"subscriptions"`
}

// SuperAdminService exposes platform-operator actions: stats, the
// cross-business directory, suspension and tier overrides. Callers are
// authenticated as super admins before any of this is reachable.
type SuperAdminService struct {
	businessRepo  identity.BusinessRepository
	businesses    *BusinessService
	tiers         TierOverrider
	subscriptions SubscriptionCounter
	logger        *zap.Logger
}

// NewSuperAdminService creates a new super admin service
func NewSuperAdminService(
	businessRepo identity.BusinessRepository,
	businesses *BusinessService,
	tiers TierOverrider,
	subscriptions SubscriptionCounter,
	logger *zap.Logger,
) *SuperAdminService {
	return &SuperAdminService{
		businessRepo:  businessRepo,
		businesses:    businesses,
		tiers:         tiers,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// Stats aggregates the platform-wide counters
func (s *SuperAdminService) Stats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}

	total, err := s.businessRepo.Count(ctx, identity.BusinessFilter{IncludeInactive: true})
	if err != nil {
		s.logger.Error("Failed to count businesses", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load platform stats")
	}
	stats.TotalBusinesses = total

	byStatus := []struct {
		status identity.BusinessStatus
		target *int64
	}{
		{identity.BusinessStatusActive, &stats.ActiveBusinesses},
		{identity.BusinessStatusPending, &stats.PendingBusinesses},
		{identity.BusinessStatusSuspended, &stats.SuspendedBusinesses},
	}
	for _, bucket := range byStatus {
		status := bucket.status
		count, err := s.businessRepo.Count(ctx, identity.BusinessFilter{Status: &status})
		if err != nil {
			s.logger.Error("Failed to count businesses by status",
				zap.String("status", status.String()), zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load platform stats")
		}
		*bucket.target = count
	}

	subs, err := s.subscriptions.Count(ctx, shared.Filter{})
	if err != nil {
		s.logger.Error("Failed to count subscriptions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load platform stats")
	}
	stats.Subscriptions = subs

	return stats, nil
}

// ListBusinesses lists businesses across the platform
func (s *SuperAdminService) ListBusinesses(ctx context.Context, filter identity.BusinessFilter) ([]*identity.Business, int64, error) {
	return s.businesses.List(ctx, filter)
}

// SuspendBusiness suspends a business account
func (s *SuperAdminService) SuspendBusiness(ctx context.Context, businessID uuid.UUID, reason string) error {
	if err := s.businesses.Suspend(ctx, businessID, reason); err != nil {
		return err
	}
	s.logger.Warn("Business suspended by platform operator",
		zap.String("business_id", businessID.String()),
		zap.String("reason", reason))
	return nil
}

// ReinstateBusiness lifts a suspension
func (s *SuperAdminService) ReinstateBusiness(ctx context.Context, businessID uuid.UUID) error {
	return s.businesses.Reinstate(ctx, businessID)
}

// OverrideTier moves a business to a tier regardless of the self-service
// upgrade path. Used for comped accounts and support escalations.
func (s *SuperAdminService) OverrideTier(ctx context.Context, businessID uuid.UUID, tierCode billing.TierCode) (*billing.Subscription, error) {
	subscription, err := s.tiers.ChangeTier(ctx, businessID, tierCode)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Tier overridden by platform operator",
		zap.String("business_id", businessID.String()),
		zap.String("tier", tierCode.String()))

	return subscription, nil
}
