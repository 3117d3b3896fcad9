package portfolio

import (
	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// PropertyCreatedEvent is raised when a new property is added to a portfolio
type PropertyCreatedEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID    `json:"property_id"`
	Name       string       `json:"name"`
	Type       PropertyType `json:"type"`
}

// EventType returns the event type name
func (e *PropertyCreatedEvent) EventType() string {
	return "PropertyCreated"
}

// NewPropertyCreatedEvent creates a new PropertyCreatedEvent
func NewPropertyCreatedEvent(property *Property) *PropertyCreatedEvent {
	return &PropertyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PropertyCreated", "Property", property.ID, property.BusinessID),
		PropertyID:      property.ID,
		Name:            property.Name,
		Type:            property.Type,
	}
}

// PropertyUpdatedEvent is raised when property details change
type PropertyUpdatedEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID `json:"property_id"`
	Name       string    `json:"name"`
}

// EventType returns the event type name
func (e *PropertyUpdatedEvent) EventType() string {
	return "PropertyUpdated"
}

// NewPropertyUpdatedEvent creates a new PropertyUpdatedEvent
func NewPropertyUpdatedEvent(property *Property) *PropertyUpdatedEvent {
	return &PropertyUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PropertyUpdated", "Property", property.ID, property.BusinessID),
		PropertyID:      property.ID,
		Name:            property.Name,
	}
}

// PropertyDeactivatedEvent is raised when a property is soft deleted
type PropertyDeactivatedEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID `json:"property_id"`
}

// EventType returns the event type name
func (e *PropertyDeactivatedEvent) EventType() string {
	return "PropertyDeactivated"
}

// NewPropertyDeactivatedEvent creates a new PropertyDeactivatedEvent
func NewPropertyDeactivatedEvent(property *Property) *PropertyDeactivatedEvent {
	return &PropertyDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PropertyDeactivated", "Property", property.ID, property.BusinessID),
		PropertyID:      property.ID,
	}
}
