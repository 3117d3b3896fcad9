package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/shared"
)

// leaseActivatedEvent is the fixture event used across this package's tests.
type leaseActivatedEvent struct {
	shared.BaseDomainEvent
	LeaseID uuid.UUID `json:"lease_id"`
}

func newLeaseActivatedEvent(businessID uuid.UUID) *leaseActivatedEvent {
	leaseID := uuid.New()
	return &leaseActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("leasing.LeaseActivated", "Lease", leaseID, businessID),
		LeaseID:         leaseID,
	}
}

// fixtureEvent builds a fixture event carrying an arbitrary event type.
func fixtureEvent(eventType string, businessID uuid.UUID) *leaseActivatedEvent {
	leaseID := uuid.New()
	return &leaseActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Lease", leaseID, businessID),
		LeaseID:         leaseID,
	}
}

// captureHandler records what it receives and can be told to fail.
type captureHandler struct {
	eventTypes []string

	mu      sync.Mutex
	handled []shared.DomainEvent
	err     error
}

func newCaptureHandler(eventTypes ...string) *captureHandler {
	return &captureHandler{eventTypes: eventTypes}
}

func (h *captureHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *captureHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *captureHandler) failWith(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *captureHandler) captured() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func newBusForTest() *InMemoryEventBus {
	return NewInMemoryEventBus(zap.NewNop())
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("delivers to the subscribed handler", func(t *testing.T) {
		bus := newBusForTest()
		handler := newCaptureHandler("leasing.LeaseActivated")
		bus.Subscribe(handler, "leasing.LeaseActivated")

		event := newLeaseActivatedEvent(uuid.New())
		require.NoError(t, bus.Publish(context.Background(), event))

		captured := handler.captured()
		require.Len(t, captured, 1)
		assert.Equal(t, event, captured[0])
	})

	t.Run("delivers a batch in order", func(t *testing.T) {
		bus := newBusForTest()
		handler := newCaptureHandler("leasing.LeaseActivated")
		bus.Subscribe(handler, "leasing.LeaseActivated")

		first := newLeaseActivatedEvent(uuid.New())
		second := newLeaseActivatedEvent(uuid.New())
		require.NoError(t, bus.Publish(context.Background(), first, second))

		captured := handler.captured()
		require.Len(t, captured, 2)
		assert.Equal(t, first, captured[0])
		assert.Equal(t, second, captured[1])
	})

	t.Run("fans out to every matching handler", func(t *testing.T) {
		bus := newBusForTest()
		accounting := newCaptureHandler("leasing.LeaseActivated")
		notifier := newCaptureHandler("leasing.LeaseActivated")
		bus.Subscribe(accounting, "leasing.LeaseActivated")
		bus.Subscribe(notifier, "leasing.LeaseActivated")

		require.NoError(t, bus.Publish(context.Background(), newLeaseActivatedEvent(uuid.New())))

		assert.Len(t, accounting.captured(), 1)
		assert.Len(t, notifier.captured(), 1)
	})

	t.Run("catch-all handler sees every event type", func(t *testing.T) {
		bus := newBusForTest()
		auditLog := newCaptureHandler()
		bus.Subscribe(auditLog)

		require.NoError(t, bus.Publish(context.Background(), fixtureEvent("portfolio.UnitStatusChanged", uuid.New())))

		assert.Len(t, auditLog.captured(), 1)
	})

	t.Run("skips handlers subscribed to other types", func(t *testing.T) {
		bus := newBusForTest()
		handler := newCaptureHandler("billing.SubscriptionRenewed")
		bus.Subscribe(handler, "billing.SubscriptionRenewed")

		require.NoError(t, bus.Publish(context.Background(), newLeaseActivatedEvent(uuid.New())))

		assert.Empty(t, handler.captured())
	})
}

func TestInMemoryEventBus_Publish_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := newBusForTest()
	failing := newCaptureHandler("leasing.LeaseActivated")
	failing.failWith(errors.New("ledger projection unavailable"))
	healthy := newCaptureHandler("leasing.LeaseActivated")
	bus.Subscribe(failing, "leasing.LeaseActivated")
	bus.Subscribe(healthy, "leasing.LeaseActivated")

	require.NoError(t, bus.Publish(context.Background(), newLeaseActivatedEvent(uuid.New())))

	assert.Len(t, failing.captured(), 1)
	assert.Len(t, healthy.captured(), 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := newBusForTest()
	handler := newCaptureHandler("leasing.LeaseActivated")
	bus.Subscribe(handler, "leasing.LeaseActivated")

	_ = bus.Publish(context.Background(), newLeaseActivatedEvent(uuid.New()))
	require.Len(t, handler.captured(), 1)

	bus.Unsubscribe(handler)

	_ = bus.Publish(context.Background(), newLeaseActivatedEvent(uuid.New()))
	assert.Len(t, handler.captured(), 1)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := newBusForTest()

	require.NoError(t, bus.Start(context.Background()))

	handler := newCaptureHandler("leasing.LeaseActivated")
	bus.Subscribe(handler, "leasing.LeaseActivated")
	require.NoError(t, bus.Publish(context.Background(), newLeaseActivatedEvent(uuid.New())))
	assert.Len(t, handler.captured(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
}
