package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// TieredPlanCache implements a two-tier caching strategy for plan snapshots.
// L1: Local in-memory cache (fast, but local to instance)
// L2: Redis cache (slower, but shared across instances)
// This follows a read-through pattern with Pub/Sub invalidation so a
// subscription change on one instance drops the local copies everywhere.
type TieredPlanCache struct {
	l1Cache     *InMemoryPlanCache
	l2Cache     *RedisPlanCache
	invalidator *RedisPlanCacheInvalidator
	config      billing.PlanCacheConfig
	logger      *zap.Logger

	// Stats for monitoring
	l1Hits   int64
	l1Misses int64
	l2Hits   int64
	l2Misses int64
}

// TieredPlanCacheOption is a functional option for configuring the cache
type TieredPlanCacheOption func(*TieredPlanCache)

// WithTieredConfig sets the cache configuration
func WithTieredConfig(config billing.PlanCacheConfig) TieredPlanCacheOption {
	return func(c *TieredPlanCache) {
		c.config = config
	}
}

// WithTieredLogger sets the logger for the cache
func WithTieredLogger(logger *zap.Logger) TieredPlanCacheOption {
	return func(c *TieredPlanCache) {
		c.logger = logger
	}
}

// NewTieredPlanCache creates a new tiered plan snapshot cache
func NewTieredPlanCache(
	l1Cache *InMemoryPlanCache,
	l2Cache *RedisPlanCache,
	invalidator *RedisPlanCacheInvalidator,
	opts ...TieredPlanCacheOption,
) *TieredPlanCache {
	cache := &TieredPlanCache{
		l1Cache:     l1Cache,
		l2Cache:     l2Cache,
		invalidator: invalidator,
		config:      billing.DefaultPlanCacheConfig(),
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// StartInvalidationSubscription starts listening for cache invalidation messages.
// This should be called after creating the cache, typically in a goroutine.
func (c *TieredPlanCache) StartInvalidationSubscription(ctx context.Context) error {
	if c.invalidator == nil {
		return nil
	}

	return c.invalidator.Subscribe(ctx, func(msg billing.PlanCacheMessage) {
		c.handleInvalidationMessage(msg)
	})
}

// handleInvalidationMessage processes cache invalidation messages
func (c *TieredPlanCache) handleInvalidationMessage(msg billing.PlanCacheMessage) {
	ctx := context.Background()

	switch msg.Action {
	case billing.PlanCacheActionInvalidated:
		businessID, err := uuid.Parse(msg.BusinessID)
		if err != nil {
			c.logger.Error("Failed to parse business ID in invalidation message",
				zap.String("business_id", msg.BusinessID),
				zap.Error(err))
			return
		}
		if err := c.l1Cache.Invalidate(ctx, businessID); err != nil {
			c.logger.Error("Failed to invalidate L1 cache for business",
				zap.String("business_id", msg.BusinessID),
				zap.Error(err))
		}
		c.logger.Debug("Invalidated L1 plan snapshot",
			zap.String("business_id", msg.BusinessID))

	case billing.PlanCacheActionInvalidateAll:
		if err := c.l1Cache.InvalidateAll(ctx); err != nil {
			c.logger.Error("Failed to invalidate all L1 cache", zap.Error(err))
		}
		c.logger.Info("Invalidated all L1 plan snapshot cache")
	}
}

// Get retrieves a plan snapshot from cache (L1 -> L2)
func (c *TieredPlanCache) Get(ctx context.Context, businessID uuid.UUID) (*billing.PlanSnapshot, error) {
	// Try L1 first
	snapshot, err := c.l1Cache.Get(ctx, businessID)
	if err != nil {
		c.logger.Warn("L1 cache error", zap.String("business_id", businessID.String()), zap.Error(err))
	}
	if snapshot != nil {
		atomic.AddInt64(&c.l1Hits, 1)
		return snapshot, nil
	}
	atomic.AddInt64(&c.l1Misses, 1)

	// Try L2
	snapshot, err = c.l2Cache.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		atomic.AddInt64(&c.l2Hits, 1)
		// Populate L1 cache
		if err := c.l1Cache.Set(ctx, snapshot, c.config.L1TTL); err != nil {
			c.logger.Warn("Failed to populate L1 cache",
				zap.String("business_id", businessID.String()), zap.Error(err))
		}
		return snapshot, nil
	}
	atomic.AddInt64(&c.l2Misses, 1)

	return nil, nil
}

// Set stores a plan snapshot in both tiers
func (c *TieredPlanCache) Set(ctx context.Context, snapshot *billing.PlanSnapshot, ttl time.Duration) error {
	if snapshot == nil {
		return nil
	}

	// Set in L2
	if err := c.l2Cache.Set(ctx, snapshot, ttl); err != nil {
		return err
	}

	// Also set in L1 for immediate local access
	if err := c.l1Cache.Set(ctx, snapshot, c.config.L1TTL); err != nil {
		c.logger.Warn("Failed to set L1 cache",
			zap.String("business_id", snapshot.BusinessID.String()), zap.Error(err))
	}

	return nil
}

// Invalidate removes a business's snapshot from both tiers and notifies
// other instances
func (c *TieredPlanCache) Invalidate(ctx context.Context, businessID uuid.UUID) error {
	if err := c.l2Cache.Invalidate(ctx, businessID); err != nil {
		return err
	}

	if err := c.l1Cache.Invalidate(ctx, businessID); err != nil {
		c.logger.Warn("Failed to invalidate L1 cache",
			zap.String("business_id", businessID.String()), zap.Error(err))
	}

	if c.invalidator != nil {
		if err := c.invalidator.PublishInvalidate(ctx, businessID); err != nil {
			c.logger.Warn("Failed to publish plan invalidation",
				zap.String("business_id", businessID.String()), zap.Error(err))
		}
	}

	return nil
}

// InvalidateAll removes all snapshots from both tiers and notifies other instances
func (c *TieredPlanCache) InvalidateAll(ctx context.Context) error {
	if err := c.l2Cache.InvalidateAll(ctx); err != nil {
		return err
	}

	if err := c.l1Cache.InvalidateAll(ctx); err != nil {
		c.logger.Warn("Failed to invalidate all L1 cache", zap.Error(err))
	}

	if c.invalidator != nil {
		if err := c.invalidator.PublishInvalidateAll(ctx); err != nil {
			c.logger.Warn("Failed to publish invalidate-all", zap.Error(err))
		}
	}

	return nil
}

// Close releases resources held by both tiers and the invalidator
func (c *TieredPlanCache) Close() error {
	var firstErr error

	if c.invalidator != nil {
		if err := c.invalidator.Close(); err != nil {
			firstErr = err
		}
	}
	if err := c.l1Cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.l2Cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}

// GetStats returns cache statistics for monitoring
func (c *TieredPlanCache) GetStats() (l1Hits, l1Misses, l2Hits, l2Misses int64) {
	return atomic.LoadInt64(&c.l1Hits),
		atomic.LoadInt64(&c.l1Misses),
		atomic.LoadInt64(&c.l2Hits),
		atomic.LoadInt64(&c.l2Misses)
}

// Ensure TieredPlanCache implements PlanCache
var _ billing.PlanCache = (*TieredPlanCache)(nil)
