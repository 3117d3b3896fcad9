package shared

import "context"

// EventHandler consumes domain events
type EventHandler interface {
	// Handle processes one domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes names the event types the handler wants.
	// An empty slice subscribes it to everything.
	EventTypes() []string
}

// EventPublisher fans domain events out to subscribers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations
type EventSubscriber interface {
	// Subscribe registers a handler for the given event types.
	// With no types, the handler receives every event.
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes a previously registered handler
	Unsubscribe(handler EventHandler)
}

// EventBus is a publisher and subscriber with a lifecycle
type EventBus interface {
	EventPublisher
	EventSubscriber
	// Start begins background dispatch
	Start(ctx context.Context) error
	// Stop drains and shuts down the bus
	Stop(ctx context.Context) error
}

// OutboxEventSaver persists domain events to the outbox table inside the
// caller's transaction, so the event write commits or rolls back with the
// aggregate write.
type OutboxEventSaver interface {
	// SaveEvents writes events to the outbox. txProvider is the open
	// *gorm.DB transaction.
	SaveEvents(ctx context.Context, txProvider interface{}, events ...DomainEvent) error
}
