package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rentfold/backend/internal/domain/shared"
)

// How often the background sweep drops expired markers.
const inmemorySweepInterval = 5 * time.Minute

// InMemoryIdempotencyStore tracks processed event IDs in a local map.
// State is per-process, so it only deduplicates within one instance;
// multi-instance deployments should use RedisIdempotencyStore.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	seen      map[string]time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates the store and starts its sweep
// goroutine. Call Close to stop it.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		seen:     make(map[string]time.Time),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.sweepLoop()

	return store
}

// MarkProcessed records the event ID for ttl. It returns true when the
// ID was newly recorded and false when a live marker already exists.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt, exists := s.seen[eventID]; exists && time.Now().Before(expiresAt) {
		return false, nil
	}

	s.seen[eventID] = time.Now().Add(ttl)
	return true, nil
}

// IsProcessed reports whether a live marker exists for the event ID.
// An expired marker counts as not processed.
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, exists := s.seen[eventID]
	return exists && time.Now().Before(expiresAt), nil
}

// Close stops the sweep goroutine. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(inmemorySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for eventID, expiresAt := range s.seen {
		if now.After(expiresAt) {
			delete(s.seen, eventID)
		}
	}
}

// Size returns the marker count, expired entries included.
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
