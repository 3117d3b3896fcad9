package portfolio

import (
	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// UnitCreatedEvent is raised when a new unit is added to a property
type UnitCreatedEvent struct {
	shared.BaseDomainEvent
	UnitID     uuid.UUID `json:"unit_id"`
	PropertyID uuid.UUID `json:"property_id"`
	UnitNumber string    `json:"unit_number"`
}

// EventType returns the event type name
func (e *UnitCreatedEvent) EventType() string {
	return "UnitCreated"
}

// NewUnitCreatedEvent creates a new UnitCreatedEvent
func NewUnitCreatedEvent(unit *Unit) *UnitCreatedEvent {
	return &UnitCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UnitCreated", "Unit", unit.ID, unit.BusinessID),
		UnitID:          unit.ID,
		PropertyID:      unit.PropertyID,
		UnitNumber:      unit.UnitNumber,
	}
}

// UnitStatusChangedEvent is raised when a unit's occupancy status changes
type UnitStatusChangedEvent struct {
	shared.BaseDomainEvent
	UnitID     uuid.UUID  `json:"unit_id"`
	PropertyID uuid.UUID  `json:"property_id"`
	Status     UnitStatus `json:"status"`
}

// EventType returns the event type name
func (e *UnitStatusChangedEvent) EventType() string {
	return "UnitStatusChanged"
}

// NewUnitStatusChangedEvent creates a new UnitStatusChangedEvent
func NewUnitStatusChangedEvent(unit *Unit) *UnitStatusChangedEvent {
	return &UnitStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UnitStatusChanged", "Unit", unit.ID, unit.BusinessID),
		UnitID:          unit.ID,
		PropertyID:      unit.PropertyID,
		Status:          unit.Status,
	}
}
