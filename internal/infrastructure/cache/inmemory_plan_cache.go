package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemoryPlanCache implements PlanCache using in-memory storage.
// This is designed to be used as L1 cache in front of Redis.
type InMemoryPlanCache struct {
	snapshots sync.Map // map[uuid.UUID]*planCacheEntry
	config    billing.PlanCacheConfig
	logger    *zap.Logger
	stopCh    chan struct{} // Channel to stop the cleanup goroutine
	stopped   int32         // Atomic flag to track if cache is stopped

	// Stats for monitoring
	hits   int64
	misses int64
}

// planCacheEntry wraps a cached snapshot with expiration time
type planCacheEntry struct {
	snapshot  *billing.PlanSnapshot
	expiresAt time.Time
}

// isExpired checks if the cache entry has expired
func (e *planCacheEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryPlanCacheOption is a functional option for configuring the cache
type InMemoryPlanCacheOption func(*InMemoryPlanCache)

// WithInMemoryConfig sets the cache configuration
func WithInMemoryConfig(config billing.PlanCacheConfig) InMemoryPlanCacheOption {
	return func(c *InMemoryPlanCache) {
		c.config = config
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryPlanCacheOption {
	return func(c *InMemoryPlanCache) {
		c.logger = logger
	}
}

// NewInMemoryPlanCache creates a new in-memory plan snapshot cache
func NewInMemoryPlanCache(opts ...InMemoryPlanCacheOption) *InMemoryPlanCache {
	cache := &InMemoryPlanCache{
		config: billing.DefaultPlanCacheConfig(),
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	// Start background cleanup goroutine
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a plan snapshot from cache
func (c *InMemoryPlanCache) Get(ctx context.Context, businessID uuid.UUID) (*billing.PlanSnapshot, error) {
	if value, ok := c.snapshots.Load(businessID); ok {
		entry := value.(*planCacheEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("L1 cache hit for plan snapshot",
				zap.String("business_id", businessID.String()))
			return entry.snapshot, nil
		}
		// Expired, remove from cache
		c.snapshots.Delete(businessID)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("L1 cache miss for plan snapshot",
		zap.String("business_id", businessID.String()))
	return nil, nil
}

// Set stores a plan snapshot in cache
func (c *InMemoryPlanCache) Set(ctx context.Context, snapshot *billing.PlanSnapshot, ttl time.Duration) error {
	if snapshot == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.L1TTL
	}

	entry := &planCacheEntry{
		snapshot:  snapshot,
		expiresAt: time.Now().Add(ttl),
	}

	c.snapshots.Store(snapshot.BusinessID, entry)
	c.logger.Debug("Cached plan snapshot in L1",
		zap.String("business_id", snapshot.BusinessID.String()),
		zap.Duration("ttl", ttl))
	return nil
}

// Invalidate removes a business's plan snapshot from cache
func (c *InMemoryPlanCache) Invalidate(ctx context.Context, businessID uuid.UUID) error {
	c.snapshots.Delete(businessID)
	c.logger.Debug("Deleted plan snapshot from L1 cache",
		zap.String("business_id", businessID.String()))
	return nil
}

// InvalidateAll removes all cached plan snapshots
func (c *InMemoryPlanCache) InvalidateAll(ctx context.Context) error {
	c.snapshots.Range(func(key, _ any) bool {
		c.snapshots.Delete(key)
		return true
	})

	c.logger.Info("Invalidated all L1 plan snapshot cache")
	return nil
}

// Close releases any resources held by the cache
func (c *InMemoryPlanCache) Close() error {
	// Only close once
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryPlanCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// ResetStats resets the cache statistics
func (c *InMemoryPlanCache) ResetStats() {
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
}

// Count returns the number of entries in the cache
func (c *InMemoryPlanCache) Count() int {
	count := 0
	c.snapshots.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// cleanupExpired periodically removes expired entries from the cache
func (c *InMemoryPlanCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("Panic in cache cleanup",
							zap.Any("panic", r))
					}
				}()
				c.doCleanup()
			}()
		}
	}
}

// doCleanup removes expired entries
func (c *InMemoryPlanCache) doCleanup() {
	var removed int

	c.snapshots.Range(func(key, value any) bool {
		entry := value.(*planCacheEntry)
		if entry.isExpired() {
			c.snapshots.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		c.logger.Debug("Cleaned up expired L1 cache entries",
			zap.Int("removed", removed))
	}
}

// Ensure InMemoryPlanCache implements PlanCache
var _ billing.PlanCache = (*InMemoryPlanCache)(nil)
