package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// PackageTierRepository defines the interface for tier catalog persistence
type PackageTierRepository interface {
	// FindByID finds a tier by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PackageTier, error)

	// FindByCode finds a tier by its code
	FindByCode(ctx context.Context, code TierCode) (*PackageTier, error)

	// FindAll returns the tier catalog
	FindAll(ctx context.Context, includeInactive bool) ([]*PackageTier, error)

	// Save creates or updates a tier
	Save(ctx context.Context, tier *PackageTier) error
}

// AddOnRepository defines the interface for add-on catalog persistence
type AddOnRepository interface {
	// FindByKey finds an add-on by its key
	FindByKey(ctx context.Context, key string) (*AddOn, error)

	// FindByKeys finds multiple add-ons by key
	FindByKeys(ctx context.Context, keys []string) ([]*AddOn, error)

	// FindAll returns the add-on catalog
	FindAll(ctx context.Context, includeInactive bool) ([]*AddOn, error)

	// Save creates or updates an add-on
	Save(ctx context.Context, addon *AddOn) error
}

// SubscriptionRepository defines the interface for subscription persistence
type SubscriptionRepository interface {
	// FindByID finds a subscription by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)

	// FindByBusiness finds the current subscription for a business
	FindByBusiness(ctx context.Context, businessID uuid.UUID) (*Subscription, error)

	// FindExpired finds usable subscriptions whose period ended before the cutoff
	FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]*Subscription, error)

	// FindUsable lists trialing and active subscriptions in batches
	FindUsable(ctx context.Context, limit, offset int) ([]*Subscription, error)

	// FindAll lists subscriptions across businesses (super-admin)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Subscription, error)

	// Save creates or updates a subscription
	Save(ctx context.Context, sub *Subscription) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, sub *Subscription, expectedVersion int) error

	// Count counts subscriptions (super-admin stats)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// AIAPIKeyRepository defines the interface for AI key persistence
type AIAPIKeyRepository interface {
	// FindByID finds a key by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AIAPIKey, error)

	// FindByIDForBusiness finds a key by ID scoped to a business
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*AIAPIKey, error)

	// FindAllForBusiness lists keys for a business
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]*AIAPIKey, error)

	// Save creates or updates a key
	Save(ctx context.Context, key *AIAPIKey) error

	// DeleteForBusiness soft deletes a key
	DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error
}

// AIUsageRepository defines the interface for AI usage persistence
type AIUsageRepository interface {
	// Save persists a usage record
	Save(ctx context.Context, record *AIUsageRecord) error

	// FindForBusiness lists usage records for a business within a window
	FindForBusiness(ctx context.Context, businessID uuid.UUID, from, to time.Time, filter shared.Filter) ([]*AIUsageRecord, error)

	// SummarizeForBusiness aggregates tokens and cost for a business within a window
	SummarizeForBusiness(ctx context.Context, businessID uuid.UUID, from, to time.Time) (*AIUsageSummary, error)

	// TokensUsedByKey sums tokens consumed by a key within a window
	TokensUsedByKey(ctx context.Context, keyID uuid.UUID, from, to time.Time) (int64, error)

	// SavePeriodTotal upserts a rolled-up period total, keyed on business and period start
	SavePeriodTotal(ctx context.Context, total *AIUsagePeriodTotal) error

	// FindPeriodTotal finds a period total by business and period start
	FindPeriodTotal(ctx context.Context, businessID uuid.UUID, periodStart time.Time) (*AIUsagePeriodTotal, error)
}
