package identity

import (
	"github.com/rentfold/backend/internal/domain/shared"
)

// BusinessRegisteredEvent is raised when a new business signs up
type BusinessRegisteredEvent struct {
	shared.BaseDomainEvent
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ContactEmail string `json:"contact_email"`
}

// EventType returns the event type name
func (e *BusinessRegisteredEvent) EventType() string {
	return "BusinessRegistered"
}

// NewBusinessRegisteredEvent creates a new BusinessRegisteredEvent
func NewBusinessRegisteredEvent(b *Business) *BusinessRegisteredEvent {
	return &BusinessRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BusinessRegistered", "Business", b.ID, b.ID),
		Name:            b.Name,
		Slug:            b.Slug,
		ContactEmail:    b.ContactEmail,
	}
}

// BusinessActivatedEvent is raised when onboarding completes
type BusinessActivatedEvent struct {
	shared.BaseDomainEvent
	Slug string `json:"slug"`
}

// EventType returns the event type name
func (e *BusinessActivatedEvent) EventType() string {
	return "BusinessActivated"
}

// NewBusinessActivatedEvent creates a new BusinessActivatedEvent
func NewBusinessActivatedEvent(b *Business) *BusinessActivatedEvent {
	return &BusinessActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BusinessActivated", "Business", b.ID, b.ID),
		Slug:            b.Slug,
	}
}

// BusinessUpdatedEvent is raised when profile information changes
type BusinessUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// EventType returns the event type name
func (e *BusinessUpdatedEvent) EventType() string {
	return "BusinessUpdated"
}

// NewBusinessUpdatedEvent creates a new BusinessUpdatedEvent
func NewBusinessUpdatedEvent(b *Business) *BusinessUpdatedEvent {
	return &BusinessUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BusinessUpdated", "Business", b.ID, b.ID),
		Name:            b.Name,
	}
}

// BusinessSuspendedEvent is raised when platform operators suspend a business
type BusinessSuspendedEvent struct {
	shared.BaseDomainEvent
	Reason string `json:"reason"`
}

// EventType returns the event type name
func (e *BusinessSuspendedEvent) EventType() string {
	return "BusinessSuspended"
}

// NewBusinessSuspendedEvent creates a new BusinessSuspendedEvent
func NewBusinessSuspendedEvent(b *Business, reason string) *BusinessSuspendedEvent {
	return &BusinessSuspendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BusinessSuspended", "Business", b.ID, b.ID),
		Reason:          reason,
	}
}

// BusinessCancelledEvent is raised when an account is closed
type BusinessCancelledEvent struct {
	shared.BaseDomainEvent
	Slug string `json:"slug"`
}

// EventType returns the event type name
func (e *BusinessCancelledEvent) EventType() string {
	return "BusinessCancelled"
}

// NewBusinessCancelledEvent creates a new BusinessCancelledEvent
func NewBusinessCancelledEvent(b *Business) *BusinessCancelledEvent {
	return &BusinessCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BusinessCancelled", "Business", b.ID, b.ID),
		Slug:            b.Slug,
	}
}
