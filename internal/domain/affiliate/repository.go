package affiliate

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// AffiliateRepository defines the interface for affiliate persistence
type AffiliateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Affiliate, error)
	FindByReferralCode(ctx context.Context, code string) (*Affiliate, error)
	FindAll(ctx context.Context, filter AffiliateFilter) (*shared.Paginated[*Affiliate], error)
	Save(ctx context.Context, affiliate *Affiliate) error
	SaveWithLock(ctx context.Context, affiliate *Affiliate, expectedVersion int) error
	ExistsByReferralCode(ctx context.Context, code string) (bool, error)
}

// AffiliateFilter defines filtering options for affiliate queries
type AffiliateFilter struct {
	shared.Filter
	Status          *AffiliateStatus
	IncludeInactive bool
}

// ReferralRepository defines the interface for referral persistence
type ReferralRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Referral, error)
	FindByBusiness(ctx context.Context, businessID uuid.UUID) (*Referral, error)
	FindByAffiliate(ctx context.Context, affiliateID uuid.UUID, filter ReferralFilter) (*shared.Paginated[*Referral], error)
	Save(ctx context.Context, referral *Referral) error
	SaveWithLock(ctx context.Context, referral *Referral, expectedVersion int) error
}

// ReferralFilter defines filtering options for referral queries
type ReferralFilter struct {
	shared.Filter
	Converted      *bool
	PayoutApproved *bool
}
