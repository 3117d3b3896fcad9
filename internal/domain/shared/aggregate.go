package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the write-model contract: versioned for optimistic
// locking, and a collector for the domain events a mutation raised.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot is embedded by every aggregate. The event slice is
// transient; repositories drain it into the outbox on save.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// GetVersion returns the optimistic-lock version.
func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// BusinessAggregateRoot adds the tenancy key. BusinessID is the single
// scoping column across the system; every business-owned table carries
// it and every query filters on it.
type BusinessAggregateRoot struct {
	BaseAggregateRoot
	BusinessID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid;index"`
}

func NewBusinessAggregateRoot(businessID uuid.UUID) BusinessAggregateRoot {
	return BusinessAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		BusinessID:        businessID,
	}
}

// NewBusinessAggregateRootWithCreator also records the acting user, for
// audit columns on records created through the dashboard.
func NewBusinessAggregateRootWithCreator(businessID, createdBy uuid.UUID) BusinessAggregateRoot {
	root := NewBusinessAggregateRoot(businessID)
	root.CreatedBy = &createdBy
	return root
}

func (b *BusinessAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	b.CreatedBy = &userID
}

func (b *BusinessAggregateRoot) GetCreatedBy() *uuid.UUID {
	return b.CreatedBy
}
