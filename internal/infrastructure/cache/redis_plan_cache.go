package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rentfold/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// Constants for Redis cache configuration
const (
	defaultScanBatchSize = 100
)

// RedisPlanCache implements PlanCache using Redis
type RedisPlanCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	config     billing.PlanCacheConfig
	logger     *zap.Logger
}

// RedisPlanCacheOption is a functional option for configuring the cache
type RedisPlanCacheOption func(*RedisPlanCache)

// WithCacheConfig sets the cache configuration
func WithCacheConfig(config billing.PlanCacheConfig) RedisPlanCacheOption {
	return func(c *RedisPlanCache) {
		c.config = config
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisPlanCacheOption {
	return func(c *RedisPlanCache) {
		c.logger = logger
	}
}

// NewRedisPlanCache creates a new Redis-based plan snapshot cache
func NewRedisPlanCache(cfg RedisConfig, opts ...RedisPlanCacheOption) (*RedisPlanCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisPlanCache{
		client:     client,
		ownsClient: true, // We created this client, so we own it
		config:     billing.DefaultPlanCacheConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisPlanCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisPlanCacheWithClient(client *redis.Client, opts ...RedisPlanCacheOption) *RedisPlanCache {
	cache := &RedisPlanCache{
		client:     client,
		ownsClient: false, // Client is shared, don't close it
		config:     billing.DefaultPlanCacheConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// planCacheKey generates the cache key for a business's plan snapshot
func (c *RedisPlanCache) planCacheKey(businessID uuid.UUID) string {
	return fmt.Sprintf("plan:%s", businessID.String())
}

// Get retrieves a plan snapshot from cache
func (c *RedisPlanCache) Get(ctx context.Context, businessID uuid.UUID) (*billing.PlanSnapshot, error) {
	cacheKey := c.planCacheKey(businessID)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		// Cache miss
		c.logger.Debug("Cache miss for plan snapshot", zap.String("business_id", businessID.String()))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get plan snapshot from cache",
			zap.String("business_id", businessID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get snapshot from cache: %w", err)
	}

	var snapshot billing.PlanSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.Error("Failed to unmarshal plan snapshot",
			zap.String("business_id", businessID.String()),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	c.logger.Debug("Cache hit for plan snapshot", zap.String("business_id", businessID.String()))
	return &snapshot, nil
}

// Set stores a plan snapshot in cache
func (c *RedisPlanCache) Set(ctx context.Context, snapshot *billing.PlanSnapshot, ttl time.Duration) error {
	if snapshot == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.SnapshotTTL
	}

	cacheKey := c.planCacheKey(snapshot.BusinessID)

	data, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Error("Failed to marshal plan snapshot",
			zap.String("business_id", snapshot.BusinessID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set plan snapshot in cache",
			zap.String("business_id", snapshot.BusinessID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to set snapshot in cache: %w", err)
	}

	c.logger.Debug("Cached plan snapshot",
		zap.String("business_id", snapshot.BusinessID.String()),
		zap.Duration("ttl", ttl))
	return nil
}

// Invalidate removes a business's plan snapshot from cache
func (c *RedisPlanCache) Invalidate(ctx context.Context, businessID uuid.UUID) error {
	cacheKey := c.planCacheKey(businessID)

	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Error("Failed to delete plan snapshot from cache",
			zap.String("business_id", businessID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to delete snapshot from cache: %w", err)
	}

	c.logger.Debug("Deleted plan snapshot from cache", zap.String("business_id", businessID.String()))
	return nil
}

// InvalidateAll removes all cached plan snapshots
func (c *RedisPlanCache) InvalidateAll(ctx context.Context) error {
	// Use SCAN to find all plan keys to avoid blocking Redis with KEYS command
	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, "plan:*", defaultScanBatchSize).Result()
		if err != nil {
			c.logger.Error("Failed to scan plan snapshot keys", zap.Error(err))
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Error("Failed to delete plan snapshot keys", zap.Error(err))
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	c.logger.Info("Invalidated all plan snapshot cache",
		zap.Int64("deleted_count", deletedCount))
	return nil
}

// Close releases any resources held by the cache
func (c *RedisPlanCache) Close() error {
	// Only close client if we own it
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisPlanCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisPlanCache implements PlanCache
var _ billing.PlanCache = (*RedisPlanCache)(nil)
