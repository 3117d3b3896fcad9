package affiliate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/affiliate"
	"github.com/rentfold/backend/internal/domain/shared"
)

// AffiliateService manages the referral partner program. It sits behind
// two seams: the signup flow records referrals through RecordSignup, and
// the billing service credits commission through ConvertFirstPayment.
type AffiliateService struct {
	affiliateRepo affiliate.AffiliateRepository
	referralRepo  affiliate.ReferralRepository
	logger        *zap.Logger
}

// NewAffiliateService creates a new affiliate service
func NewAffiliateService(
	affiliateRepo affiliate.AffiliateRepository,
	referralRepo affiliate.ReferralRepository,
	logger *zap.Logger,
) *AffiliateService {
	return &AffiliateService{
		affiliateRepo: affiliateRepo,
		referralRepo:  referralRepo,
		logger:        logger,
	}
}

// RegisterAffiliateInput contains input for registering a partner
type RegisterAffiliateInput struct {
	Name           string
	Email          string
	Phone          string
	ReferralCode   string
	CommissionRate decimal.Decimal
	PayoutDetails  string
}

// Register signs up a new affiliate partner with a unique referral code
func (s *AffiliateService) Register(ctx context.Context, input RegisterAffiliateInput) (*affiliate.Affiliate, error) {
	partner, err := affiliate.NewAffiliate(input.Name, input.Email, input.ReferralCode, input.CommissionRate)
	if err != nil {
		return nil, err
	}

	exists, err := s.affiliateRepo.ExistsByReferralCode(ctx, partner.ReferralCode)
	if err != nil {
		s.logger.Error("Failed to check referral code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check referral code")
	}
	if exists {
		return nil, shared.NewDomainError("CODE_TAKEN", "Referral code is already in use")
	}

	partner.Phone = input.Phone
	if input.PayoutDetails != "" {
		partner.SetPayoutDetails(input.PayoutDetails)
	}

	if err := s.affiliateRepo.Save(ctx, partner); err != nil {
		s.logger.Error("Failed to save affiliate", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register affiliate")
	}

	s.logger.Info("Affiliate registered",
		zap.String("affiliate_id", partner.ID.String()),
		zap.String("referral_code", partner.ReferralCode))

	return partner, nil
}

// Get retrieves an affiliate by id
func (s *AffiliateService) Get(ctx context.Context, affiliateID uuid.UUID) (*affiliate.Affiliate, error) {
	partner, err := s.affiliateRepo.FindByID(ctx, affiliateID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("AFFILIATE_NOT_FOUND", "Affiliate not found")
		}
		s.logger.Error("Failed to load affiliate", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load affiliate")
	}
	return partner, nil
}

// List lists affiliates
func (s *AffiliateService) List(ctx context.Context, filter affiliate.AffiliateFilter) (*shared.Paginated[*affiliate.Affiliate], error) {
	page, err := s.affiliateRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list affiliates", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list affiliates")
	}
	return page, nil
}

// SetCommissionRate changes an affiliate's rate for future conversions
func (s *AffiliateService) SetCommissionRate(ctx context.Context, affiliateID uuid.UUID, rate decimal.Decimal) (*affiliate.Affiliate, error) {
	partner, err := s.Get(ctx, affiliateID)
	if err != nil {
		return nil, err
	}

	if err := partner.SetCommissionRate(rate); err != nil {
		return nil, err
	}

	if err := s.affiliateRepo.SaveWithLock(ctx, partner, partner.Version-1); err != nil {
		s.logger.Error("Failed to save affiliate", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update affiliate")
	}

	return partner, nil
}

// Suspend stops an affiliate from earning on new signups
func (s *AffiliateService) Suspend(ctx context.Context, affiliateID uuid.UUID) (*affiliate.Affiliate, error) {
	return s.transition(ctx, affiliateID, (*affiliate.Affiliate).Suspend)
}

// Reinstate returns a suspended affiliate to active
func (s *AffiliateService) Reinstate(ctx context.Context, affiliateID uuid.UUID) (*affiliate.Affiliate, error) {
	return s.transition(ctx, affiliateID, (*affiliate.Affiliate).Reinstate)
}

// Close permanently ends the partnership
func (s *AffiliateService) Close(ctx context.Context, affiliateID uuid.UUID) (*affiliate.Affiliate, error) {
	return s.transition(ctx, affiliateID, (*affiliate.Affiliate).Close)
}

func (s *AffiliateService) transition(ctx context.Context, affiliateID uuid.UUID, apply func(*affiliate.Affiliate) error) (*affiliate.Affiliate, error) {
	partner, err := s.Get(ctx, affiliateID)
	if err != nil {
		return nil, err
	}

	if err := apply(partner); err != nil {
		return nil, err
	}

	if err := s.affiliateRepo.SaveWithLock(ctx, partner, partner.Version-1); err != nil {
		s.logger.Error("Failed to save affiliate", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update affiliate")
	}

	s.logger.Info("Affiliate status changed",
		zap.String("affiliate_id", affiliateID.String()),
		zap.String("status", partner.Status.String()))

	return partner, nil
}

// RecordSignup links a newly registered business to the affiliate whose
// code it arrived with. An unknown or non-earning code is logged and
// skipped rather than failing the signup.
func (s *AffiliateService) RecordSignup(ctx context.Context, code string, businessID uuid.UUID) error {
	partner, err := s.affiliateRepo.FindByReferralCode(ctx, code)
	if err != nil {
		if err == shared.ErrNotFound {
			s.logger.Warn("Signup carried an unknown referral code",
				zap.String("referral_code", code),
				zap.String("business_id", businessID.String()))
			return nil
		}
		s.logger.Error("Failed to look up referral code", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to look up referral code")
	}
	if !partner.CanEarn() {
		s.logger.Warn("Referral code belongs to a non-earning affiliate",
			zap.String("referral_code", code),
			zap.String("status", partner.Status.String()))
		return nil
	}

	existing, err := s.referralRepo.FindByBusiness(ctx, businessID)
	if err != nil && err != shared.ErrNotFound {
		s.logger.Error("Failed to check existing referral", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check existing referral")
	}
	if existing != nil {
		return nil
	}

	referral, err := affiliate.NewReferral(partner.ID, businessID, time.Now())
	if err != nil {
		return err
	}

	if err := s.referralRepo.Save(ctx, referral); err != nil {
		s.logger.Error("Failed to save referral", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to record referral")
	}

	s.logger.Info("Referral recorded",
		zap.String("affiliate_id", partner.ID.String()),
		zap.String("business_id", businessID.String()))

	return nil
}

// ConvertFirstPayment credits commission when the referred business's
// first subscription payment settles. A business without a referral, or
// one whose referral already converted, is a no-op.
func (s *AffiliateService) ConvertFirstPayment(ctx context.Context, businessID uuid.UUID, paymentCents int64) error {
	referral, err := s.referralRepo.FindByBusiness(ctx, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil
		}
		s.logger.Error("Failed to load referral", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load referral")
	}
	if referral.Converted {
		return nil
	}

	partner, err := s.affiliateRepo.FindByID(ctx, referral.AffiliateID)
	if err != nil {
		s.logger.Error("Failed to load affiliate for conversion", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load affiliate")
	}

	commission := int64(0)
	if partner.CanEarn() {
		commission = partner.CommissionFor(paymentCents)
	}

	if err := referral.Convert(commission); err != nil {
		return err
	}

	if err := s.referralRepo.SaveWithLock(ctx, referral, referral.Version-1); err != nil {
		s.logger.Error("Failed to save converted referral", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save referral")
	}

	s.logger.Info("Referral converted",
		zap.String("affiliate_id", partner.ID.String()),
		zap.String("business_id", businessID.String()),
		zap.Int64("commission_cents", commission))

	return nil
}

// ApprovePayout releases a converted referral's commission for payment
func (s *AffiliateService) ApprovePayout(ctx context.Context, referralID uuid.UUID) (*affiliate.Referral, error) {
	referral, err := s.referralRepo.FindByID(ctx, referralID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("REFERRAL_NOT_FOUND", "Referral not found")
		}
		s.logger.Error("Failed to load referral", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load referral")
	}

	if err := referral.ApprovePayout(); err != nil {
		return nil, err
	}

	if err := s.referralRepo.SaveWithLock(ctx, referral, referral.Version-1); err != nil {
		s.logger.Error("Failed to save payout approval", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to approve payout")
	}

	s.logger.Info("Referral payout approved",
		zap.String("referral_id", referralID.String()),
		zap.Int64("commission_cents", referral.CommissionCents))

	return referral, nil
}

// ListReferrals lists an affiliate's referrals
func (s *AffiliateService) ListReferrals(ctx context.Context, affiliateID uuid.UUID, filter affiliate.ReferralFilter) (*shared.Paginated[*affiliate.Referral], error) {
	page, err := s.referralRepo.FindByAffiliate(ctx, affiliateID, filter)
	if err != nil {
		s.logger.Error("Failed to list referrals", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list referrals")
	}
	return page, nil
}
