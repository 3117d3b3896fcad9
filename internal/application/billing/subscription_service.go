package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReferralConverter credits affiliate commission when a business's first
// subscription payment settles. Implemented by the affiliate service.
type ReferralConverter interface {
	ConvertFirstPayment(ctx context.Context, businessID uuid.UUID, paymentCents int64) error
}

// SubscriptionService manages business subscriptions against the tier catalog
type SubscriptionService struct {
	subscriptionRepo  billing.SubscriptionRepository
	tierRepo          billing.PackageTierRepository
	addOnRepo         billing.AddOnRepository
	referralConverter ReferralConverter // Optional
	planCache         billing.PlanCache // Optional
	logger            *zap.Logger
}

// SubscriptionServiceOption configures optional collaborators
type SubscriptionServiceOption func(*SubscriptionService)

// WithPlanCacheInvalidation drops a business's cached plan snapshot after
// any change that alters its entitlements.
func WithPlanCacheInvalidation(cache billing.PlanCache) SubscriptionServiceOption {
	return func(s *SubscriptionService) {
		s.planCache = cache
	}
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	subscriptionRepo billing.SubscriptionRepository,
	tierRepo billing.PackageTierRepository,
	addOnRepo billing.AddOnRepository,
	referralConverter ReferralConverter,
	logger *zap.Logger,
	opts ...SubscriptionServiceOption,
) *SubscriptionService {
	s := &SubscriptionService{
		subscriptionRepo:  subscriptionRepo,
		tierRepo:          tierRepo,
		addOnRepo:         addOnRepo,
		referralConverter: referralConverter,
		logger:            logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// invalidatePlan drops the cached plan snapshot. Best-effort: the cache
// carries a TTL, so a failed invalidation only delays the new entitlements.
func (s *SubscriptionService) invalidatePlan(ctx context.Context, businessID uuid.UUID) {
	if s.planCache == nil {
		return
	}
	if err := s.planCache.Invalidate(ctx, businessID); err != nil {
		s.logger.Warn("Failed to invalidate plan cache",
			zap.String("business_id", businessID.String()),
			zap.Error(err))
	}
}

// StartInput contains input for starting a subscription
type StartInput struct {
	BusinessID uuid.UUID
	TierCode   billing.TierCode
	TrialDays  int
}

// Start subscribes a business to a tier. A business holds one
// subscription at a time.
func (s *SubscriptionService) Start(ctx context.Context, input StartInput) (*billing.Subscription, error) {
	if input.BusinessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}

	if _, err := s.tierRepo.FindByCode(ctx, input.TierCode); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TIER_NOT_FOUND", "Unknown package tier")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load tier catalog")
	}

	existing, err := s.subscriptionRepo.FindByBusiness(ctx, input.BusinessID)
	if err != nil && err != shared.ErrNotFound {
		s.logger.Error("Failed to check existing subscription", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check existing subscription")
	}
	if existing != nil && existing.Status.IsUsable() {
		return nil, shared.NewDomainError("SUBSCRIPTION_EXISTS", "Business already has an active subscription")
	}

	subscription, err := billing.NewSubscription(input.BusinessID, input.TierCode, input.TrialDays)
	if err != nil {
		return nil, err
	}

	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		s.logger.Error("Failed to save subscription", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save subscription")
	}

	s.logger.Info("Subscription started",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("tier", string(input.TierCode)))

	return subscription, nil
}

// StartDefault puts a freshly registered business on the starter tier.
// It satisfies the signup flow's SubscriptionStarter port.
func (s *SubscriptionService) StartDefault(ctx context.Context, businessID uuid.UUID) error {
	_, err := s.Start(ctx, StartInput{
		BusinessID: businessID,
		TierCode:   billing.TierStarter,
	})
	return err
}

// ChangeTier moves the business to a different tier
func (s *SubscriptionService) ChangeTier(ctx context.Context, businessID uuid.UUID, tierCode billing.TierCode) (*billing.Subscription, error) {
	if _, err := s.tierRepo.FindByCode(ctx, tierCode); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TIER_NOT_FOUND", "Unknown package tier")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load tier catalog")
	}

	subscription, err := s.findUsable(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if err := subscription.ChangeTier(tierCode); err != nil {
		return nil, err
	}

	if err := s.subscriptionRepo.SaveWithLock(ctx, subscription, subscription.Version-1); err != nil {
		s.logger.Error("Failed to save tier change", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save tier change")
	}

	s.invalidatePlan(ctx, businessID)

	return subscription, nil
}

// PurchaseAddOn attaches an add-on to the subscription
func (s *SubscriptionService) PurchaseAddOn(ctx context.Context, businessID uuid.UUID, addOnKey string) (*billing.Subscription, error) {
	addOn, err := s.addOnRepo.FindByKey(ctx, addOnKey)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ADDON_NOT_FOUND", "Unknown add-on")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load add-on catalog")
	}
	if !addOn.IsActive {
		return nil, shared.NewDomainError("ADDON_RETIRED", "Add-on is no longer sold")
	}

	subscription, err := s.findUsable(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if err := subscription.PurchaseAddOn(addOnKey); err != nil {
		return nil, err
	}

	if err := s.subscriptionRepo.SaveWithLock(ctx, subscription, subscription.Version-1); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save add-on purchase")
	}

	s.invalidatePlan(ctx, businessID)

	return subscription, nil
}

// RemoveAddOn detaches an add-on from the subscription
func (s *SubscriptionService) RemoveAddOn(ctx context.Context, businessID uuid.UUID, addOnKey string) (*billing.Subscription, error) {
	subscription, err := s.findUsable(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if err := subscription.RemoveAddOn(addOnKey); err != nil {
		return nil, err
	}

	if err := s.subscriptionRepo.SaveWithLock(ctx, subscription, subscription.Version-1); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save add-on removal")
	}

	s.invalidatePlan(ctx, businessID)

	return subscription, nil
}

// Cancel ends the subscription at the business's request
func (s *SubscriptionService) Cancel(ctx context.Context, businessID uuid.UUID) error {
	subscription, err := s.findUsable(ctx, businessID)
	if err != nil {
		return err
	}

	if err := subscription.Cancel(); err != nil {
		return err
	}

	if err := s.subscriptionRepo.SaveWithLock(ctx, subscription, subscription.Version-1); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save cancellation")
	}

	s.invalidatePlan(ctx, businessID)

	s.logger.Info("Subscription cancelled", zap.String("business_id", businessID.String()))

	return nil
}

// RecordPayment settles a subscription payment: the period renews, and a
// pending referral for the business converts on the first payment.
func (s *SubscriptionService) RecordPayment(ctx context.Context, businessID uuid.UUID, amountCents int64) (*billing.Subscription, error) {
	if amountCents <= 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	subscription, err := s.findUsable(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if err := subscription.Renew(); err != nil {
		return nil, err
	}

	if err := s.subscriptionRepo.SaveWithLock(ctx, subscription, subscription.Version-1); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save renewal")
	}

	s.invalidatePlan(ctx, businessID)

	if s.referralConverter != nil {
		if err := s.referralConverter.ConvertFirstPayment(ctx, businessID, amountCents); err != nil {
			// Commission credit must not fail the payment itself.
			s.logger.Warn("Failed to convert referral",
				zap.String("business_id", businessID.String()),
				zap.Error(err))
		}
	}

	return subscription, nil
}

// RolloverExpired marks usable subscriptions past due once their period
// lapses without payment. Called by the scheduler.
func (s *SubscriptionService) RolloverExpired(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	expired, err := s.subscriptionRepo.FindExpired(ctx, time.Now(), batchSize)
	if err != nil {
		s.logger.Error("Failed to find expired subscriptions", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to find expired subscriptions")
	}

	processed := 0
	for _, subscription := range expired {
		if err := subscription.MarkPastDue(); err != nil {
			s.logger.Warn("Skipping subscription during rollover",
				zap.String("subscription_id", subscription.ID.String()),
				zap.Error(err))
			continue
		}
		if err := s.subscriptionRepo.SaveWithLock(ctx, subscription, subscription.Version-1); err != nil {
			s.logger.Warn("Failed to save past-due subscription",
				zap.String("subscription_id", subscription.ID.String()),
				zap.Error(err))
			continue
		}
		s.invalidatePlan(ctx, subscription.BusinessID)
		processed++
	}

	if processed > 0 {
		s.logger.Info("Marked expired subscriptions past due", zap.Int("count", processed))
	}

	return processed, nil
}

// Get returns the business's subscription
func (s *SubscriptionService) Get(ctx context.Context, businessID uuid.UUID) (*billing.Subscription, error) {
	subscription, err := s.subscriptionRepo.FindByBusiness(ctx, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("SUBSCRIPTION_NOT_FOUND", "Business has no subscription")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find subscription")
	}
	return subscription, nil
}

// ListTiers returns the sellable tier catalog
func (s *SubscriptionService) ListTiers(ctx context.Context) ([]*billing.PackageTier, error) {
	tiers, err := s.tierRepo.FindAll(ctx, false)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load tier catalog")
	}
	return tiers, nil
}

func (s *SubscriptionService) findUsable(ctx context.Context, businessID uuid.UUID) (*billing.Subscription, error) {
	subscription, err := s.subscriptionRepo.FindByBusiness(ctx, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("SUBSCRIPTION_NOT_FOUND", "Business has no subscription")
		}
		s.logger.Error("Failed to find subscription", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find subscription")
	}
	if !subscription.Status.IsUsable() {
		return nil, shared.NewDomainError("SUBSCRIPTION_INACTIVE", "Subscription is not active")
	}
	return subscription, nil
}
