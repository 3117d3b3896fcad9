package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/identity"
	"github.com/rentfold/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SubscriptionStarter provisions the free plan for a new business. The
// billing service implements it.
type SubscriptionStarter interface {
	StartDefault(ctx context.Context, businessID uuid.UUID) error
}

// ReferralRecorder credits an affiliate for a signup made through their
// link. The affiliate service implements it.
type ReferralRecorder interface {
	RecordSignup(ctx context.Context, referralCode string, businessID uuid.UUID) error
}

// BusinessService handles business account lifecycle
type BusinessService struct {
	businessRepo     identity.BusinessRepository
	userRepo         identity.UserRepository
	subscriptions    SubscriptionStarter
	referralRecorder ReferralRecorder
	logger           *zap.Logger
}

// NewBusinessService creates a new business service
func NewBusinessService(
	businessRepo identity.BusinessRepository,
	userRepo identity.UserRepository,
	subscriptions SubscriptionStarter,
	referralRecorder ReferralRecorder,
	logger *zap.Logger,
) *BusinessService {
	return &BusinessService{
		businessRepo:     businessRepo,
		userRepo:         userRepo,
		subscriptions:    subscriptions,
		referralRecorder: referralRecorder,
		logger:           logger,
	}
}

// Register creates a business, its owner account and the default
// subscription in one signup step.
func (s *BusinessService) Register(ctx context.Context, input RegisterBusinessInput) (*RegisterBusinessResult, error) {
	s.logger.Info("Business registration",
		zap.String("name", input.BusinessName),
		zap.String("slug", input.Slug))

	exists, err := s.businessRepo.ExistsBySlug(ctx, input.Slug)
	if err != nil {
		s.logger.Error("Failed to check slug", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check slug availability")
	}
	if exists {
		return nil, shared.NewDomainError("SLUG_TAKEN", "A business with this slug already exists")
	}

	emailTaken, err := s.userRepo.ExistsByEmail(ctx, input.OwnerEmail)
	if err != nil {
		s.logger.Error("Failed to check email", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if emailTaken {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	business, err := identity.NewBusiness(input.BusinessName, input.Slug, input.ContactEmail)
	if err != nil {
		return nil, err
	}

	if input.ReferralCode != "" {
		if err := business.AttachReferralCode(input.ReferralCode); err != nil {
			return nil, err
		}
	}

	if err := s.businessRepo.Save(ctx, business); err != nil {
		s.logger.Error("Failed to save business", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create business")
	}

	owner, err := identity.NewUser(business.ID, input.OwnerEmail, input.Password, identity.UserRoleOwner)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, owner); err != nil {
		s.logger.Error("Failed to save owner user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create owner account")
	}

	if err := s.subscriptions.StartDefault(ctx, business.ID); err != nil {
		s.logger.Error("Failed to start default subscription",
			zap.String("business_id", business.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to provision subscription")
	}

	// Affiliate credit must not block the signup
	if input.ReferralCode != "" && s.referralRecorder != nil {
		if err := s.referralRecorder.RecordSignup(ctx, input.ReferralCode, business.ID); err != nil {
			s.logger.Warn("Failed to record referral signup",
				zap.String("referral_code", input.ReferralCode),
				zap.Error(err))
		}
	}

	s.logger.Info("Business registered",
		zap.String("business_id", business.ID.String()),
		zap.String("owner_id", owner.ID.String()))

	return &RegisterBusinessResult{
		Business: business,
		Owner:    toUserInfo(owner),
	}, nil
}

// Get retrieves a business by ID
func (s *BusinessService) Get(ctx context.Context, businessID uuid.UUID) (*identity.Business, error) {
	business, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("BUSINESS_NOT_FOUND", "Business not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load business")
	}
	return business, nil
}

// IsBusinessActive reports whether the business may currently serve
// requests. The HTTP business scope middleware calls this on every
// scoped request, so it must stay cheap.
func (s *BusinessService) IsBusinessActive(businessID uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	business, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return business.IsOperational(), nil
}

// List lists businesses for the platform operators
func (s *BusinessService) List(ctx context.Context, filter identity.BusinessFilter) ([]*identity.Business, int64, error) {
	businesses, err := s.businessRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list businesses", zap.Error(err))
		return nil, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to list businesses")
	}

	total, err := s.businessRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count businesses", zap.Error(err))
		return nil, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to count businesses")
	}

	return businesses, total, nil
}

// AdvanceOnboarding moves the signup wizard one step forward
func (s *BusinessService) AdvanceOnboarding(ctx context.Context, businessID uuid.UUID) (*identity.Business, error) {
	business, err := s.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if err := business.AdvanceOnboarding(); err != nil {
		return nil, err
	}

	if err := s.businessRepo.SaveWithLock(ctx, business, business.Version-1); err != nil {
		s.logger.Error("Failed to save business after onboarding step", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save business")
	}

	s.logger.Info("Onboarding advanced",
		zap.String("business_id", businessID.String()),
		zap.String("step", business.OnboardingStep.String()))

	return business, nil
}

// UpdateProfile updates the business display information
func (s *BusinessService) UpdateProfile(ctx context.Context, input UpdateBusinessProfileInput) (*identity.Business, error) {
	business, err := s.Get(ctx, input.BusinessID)
	if err != nil {
		return nil, err
	}

	if err := business.UpdateProfile(input.Name, input.Address, input.LogoURL); err != nil {
		return nil, err
	}

	if err := s.businessRepo.SaveWithLock(ctx, business, business.Version-1); err != nil {
		s.logger.Error("Failed to save business profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save business")
	}

	return business, nil
}

// SetContact updates the business contact information
func (s *BusinessService) SetContact(ctx context.Context, input SetBusinessContactInput) (*identity.Business, error) {
	business, err := s.Get(ctx, input.BusinessID)
	if err != nil {
		return nil, err
	}

	if err := business.SetContact(input.ContactName, input.ContactPhone, input.ContactEmail); err != nil {
		return nil, err
	}

	if err := s.businessRepo.SaveWithLock(ctx, business, business.Version-1); err != nil {
		s.logger.Error("Failed to save business contact", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save business")
	}

	return business, nil
}

// Suspend blocks a business (platform operator action)
func (s *BusinessService) Suspend(ctx context.Context, businessID uuid.UUID, reason string) error {
	business, err := s.Get(ctx, businessID)
	if err != nil {
		return err
	}

	if err := business.Suspend(reason); err != nil {
		return err
	}

	if err := s.businessRepo.SaveWithLock(ctx, business, business.Version-1); err != nil {
		s.logger.Error("Failed to save suspended business", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save business")
	}

	s.logger.Info("Business suspended",
		zap.String("business_id", businessID.String()),
		zap.String("reason", reason))

	return nil
}

// Reinstate restores a suspended business
func (s *BusinessService) Reinstate(ctx context.Context, businessID uuid.UUID) error {
	business, err := s.Get(ctx, businessID)
	if err != nil {
		return err
	}

	if err := business.Reinstate(); err != nil {
		return err
	}

	if err := s.businessRepo.SaveWithLock(ctx, business, business.Version-1); err != nil {
		s.logger.Error("Failed to save reinstated business", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save business")
	}

	s.logger.Info("Business reinstated", zap.String("business_id", businessID.String()))

	return nil
}

// Cancel closes a business account permanently
func (s *BusinessService) Cancel(ctx context.Context, businessID uuid.UUID) error {
	business, err := s.Get(ctx, businessID)
	if err != nil {
		return err
	}

	if err := business.Cancel(); err != nil {
		return err
	}

	if err := s.businessRepo.SaveWithLock(ctx, business, business.Version-1); err != nil {
		s.logger.Error("Failed to save cancelled business", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save business")
	}

	s.logger.Info("Business cancelled", zap.String("business_id", businessID.String()))

	return nil
}
