package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to an aggregate. Events are
// collected on the aggregate, written to the outbox in the same
// transaction, and delivered by the outbox processor.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	BusinessID() uuid.UUID
}

// VersionedEvent is implemented by events whose payload schema has
// evolved. The serializer uses the version to pick the right upgrader
// chain; see infrastructure/event.
type VersionedEvent interface {
	DomainEvent
	// SchemaVersion is 1-based. Payloads with no version field read as 1.
	SchemaVersion() int
}

// BaseDomainEvent carries the envelope fields every event shares.
// Concrete events embed it and add their own payload fields.
type BaseDomainEvent struct {
	ID              uuid.UUID `json:"id"`
	Type            string    `json:"type"`
	Timestamp       time.Time `json:"timestamp"`
	AggID           uuid.UUID `json:"aggregate_id"`
	AggType         string    `json:"aggregate_type"`
	BusinessIDValue uuid.UUID `json:"business_id"`
	Version         int       `json:"schema_version,omitempty"`
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.Timestamp }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.AggID }
func (e *BaseDomainEvent) AggregateType() string  { return e.AggType }
func (e *BaseDomainEvent) BusinessID() uuid.UUID  { return e.BusinessIDValue }

// SchemaVersion treats the zero value as version 1 so events serialized
// before versioning existed keep deserializing.
func (e *BaseDomainEvent) SchemaVersion() int {
	if e.Version == 0 {
		return 1
	}
	return e.Version
}

// NewBaseDomainEvent stamps a fresh envelope at schema version 1.
func NewBaseDomainEvent(eventType, aggType string, aggID, businessID uuid.UUID) BaseDomainEvent {
	return NewVersionedBaseDomainEvent(eventType, aggType, aggID, businessID, 1)
}

// NewVersionedBaseDomainEvent stamps a fresh envelope at the given
// schema version. Versions below 1 clamp to 1.
func NewVersionedBaseDomainEvent(eventType, aggType string, aggID, businessID uuid.UUID, schemaVersion int) BaseDomainEvent {
	if schemaVersion < 1 {
		schemaVersion = 1
	}
	return BaseDomainEvent{
		ID:              uuid.New(),
		Type:            eventType,
		Timestamp:       time.Now(),
		AggID:           aggID,
		AggType:         aggType,
		BusinessIDValue: businessID,
		Version:         schemaVersion,
	}
}
