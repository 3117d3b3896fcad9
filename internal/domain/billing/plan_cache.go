package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PlanSnapshot is the resolved entitlement state of one business: its tier,
// granted features, and effective limits with add-on bumps already applied.
// Snapshots are what the entitlement service caches; they are rebuilt from
// the subscription whenever the plan changes.
type PlanSnapshot struct {
	BusinessID uuid.UUID                `json:"business_id"`
	TierCode   TierCode                 `json:"tier_code"`
	TierName   string                   `json:"tier_name"`
	Features   []FeatureKey             `json:"features"`
	Limits     map[LimitedResource]*int `json:"limits"`
	AddOnKeys  []string                 `json:"add_on_keys"`
	ResolvedAt time.Time                `json:"resolved_at"`
}

// NewPlanSnapshot resolves a tier plus purchased add-ons into a snapshot.
// Limits hold the effective cap per resource; nil means unlimited.
func NewPlanSnapshot(businessID uuid.UUID, tier *PackageTier, addOns []*AddOn) *PlanSnapshot {
	features := append([]FeatureKey{}, tier.FeatureKeys...)
	addOnKeys := make([]string, 0, len(addOns))
	for _, addOn := range addOns {
		addOnKeys = append(addOnKeys, addOn.Key)
		if addOn.GrantsFeature != nil {
			features = append(features, *addOn.GrantsFeature)
		}
	}

	limits := make(map[LimitedResource]*int, 3)
	for _, resource := range []LimitedResource{ResourceProperty, ResourceUnit, ResourceTenant} {
		if limit := tier.LimitFor(resource); limit != nil {
			effective := *limit
			for _, addOn := range addOns {
				effective += addOn.BumpFor(resource)
			}
			limits[resource] = &effective
		} else {
			limits[resource] = nil
		}
	}

	return &PlanSnapshot{
		BusinessID: businessID,
		TierCode:   tier.Code,
		TierName:   tier.Name,
		Features:   features,
		Limits:     limits,
		AddOnKeys:  addOnKeys,
		ResolvedAt: time.Now(),
	}
}

// HasFeature reports whether the snapshot grants the feature
func (s *PlanSnapshot) HasFeature(key FeatureKey) bool {
	for _, f := range s.Features {
		if f == key {
			return true
		}
	}
	return false
}

// EffectiveLimit returns the effective cap for a resource, nil when unlimited
func (s *PlanSnapshot) EffectiveLimit(resource LimitedResource) *int {
	return s.Limits[resource]
}

// PlanCache caches resolved plan snapshots per business.
//
// The cache operates as part of a multi-tier strategy:
// - L1: local in-memory cache for ultra-fast access
// - L2: Redis cache for distributed consistency
// - L3: the subscription/tier tables as the source of truth
//
// Cache keys follow the pattern plan:{business_id}.
type PlanCache interface {
	// Get retrieves a snapshot by business ID.
	// Returns nil, nil on a cache miss.
	Get(ctx context.Context, businessID uuid.UUID) (*PlanSnapshot, error)

	// Set stores a snapshot with the specified TTL.
	// If ttl is 0, the implementation uses its default TTL.
	Set(ctx context.Context, snapshot *PlanSnapshot, ttl time.Duration) error

	// Invalidate removes the cached snapshot for a business.
	// Called when the business's subscription changes.
	Invalidate(ctx context.Context, businessID uuid.UUID) error

	// InvalidateAll removes all cached snapshots, e.g. after a tier
	// catalog change that affects every business.
	InvalidateAll(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}

// PlanCacheConfig holds TTLs and the invalidation channel for plan caches
type PlanCacheConfig struct {
	// SnapshotTTL is the TTL in the shared (Redis) tier
	SnapshotTTL time.Duration
	// L1TTL is the TTL in the local in-memory tier; kept short so stale
	// entitlements self-heal even if an invalidation message is lost
	L1TTL time.Duration
	// PubSubChannel is the Redis Pub/Sub channel for invalidation messages
	PubSubChannel string
}

// DefaultPlanCacheConfig returns the default cache configuration
func DefaultPlanCacheConfig() PlanCacheConfig {
	return PlanCacheConfig{
		SnapshotTTL:   5 * time.Minute,
		L1TTL:         30 * time.Second,
		PubSubChannel: "plan:invalidation",
	}
}

// PlanCacheAction represents the type of cache update notification
type PlanCacheAction string

const (
	// PlanCacheActionInvalidated indicates one business's snapshot is stale
	PlanCacheActionInvalidated PlanCacheAction = "invalidated"
	// PlanCacheActionInvalidateAll indicates every snapshot is stale
	PlanCacheActionInvalidateAll PlanCacheAction = "invalidate_all"
)

// PlanCacheMessage is the invalidation message sent via Pub/Sub so other
// instances drop their local copies.
type PlanCacheMessage struct {
	Action     PlanCacheAction `json:"action"`
	BusinessID string          `json:"business_id,omitempty"`
	Timestamp  int64           `json:"timestamp"`
}

// PlanCacheInvalidator broadcasts snapshot invalidation across instances
type PlanCacheInvalidator interface {
	Publish(ctx context.Context, msg PlanCacheMessage) error
	Subscribe(ctx context.Context, callback func(msg PlanCacheMessage)) error
	Close() error
}
