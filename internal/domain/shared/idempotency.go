package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so redelivered events
// are handled exactly once.
type IdempotencyStore interface {
	// MarkProcessed records an event ID with a TTL. It returns true when
	// the ID was newly recorded and false when it was already present.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether an event ID has been recorded
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close releases the store's resources
	Close() error
}

// IdempotencyConfig controls duplicate-event suppression
type IdempotencyConfig struct {
	// TTL bounds how long a processed event ID is remembered. Once it
	// lapses, the same ID would be processed again.
	TTL time.Duration

	// Enabled turns the duplicate check on or off
	Enabled bool
}

// DefaultIdempotencyConfig remembers event IDs for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
