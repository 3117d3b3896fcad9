package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// TenantCreatedEvent is raised when a renter is added
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	TenantID uuid.UUID `json:"tenant_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

// EventType returns the event type name
func (e *TenantCreatedEvent) EventType() string {
	return "TenantCreated"
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(tenant *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TenantCreated", "Tenant", tenant.ID, tenant.BusinessID),
		TenantID:        tenant.ID,
		FullName:        tenant.FullName(),
		Email:           tenant.Email,
	}
}

// LeaseCreatedEvent is raised when a draft lease is drawn up
type LeaseCreatedEvent struct {
	shared.BaseDomainEvent
	LeaseID   uuid.UUID `json:"lease_id"`
	UnitID    uuid.UUID `json:"unit_id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	RentCents int64     `json:"rent_cents"`
	StartDate time.Time `json:"start_date"`
}

// EventType returns the event type name
func (e *LeaseCreatedEvent) EventType() string {
	return "LeaseCreated"
}

// NewLeaseCreatedEvent creates a new LeaseCreatedEvent
func NewLeaseCreatedEvent(lease *Lease) *LeaseCreatedEvent {
	return &LeaseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseCreated", "Lease", lease.ID, lease.BusinessID),
		LeaseID:         lease.ID,
		UnitID:          lease.UnitID,
		TenantID:        lease.TenantID,
		RentCents:       lease.RentCents,
		StartDate:       lease.StartDate,
	}
}

// LeaseActivatedEvent is raised when a lease goes into effect
type LeaseActivatedEvent struct {
	shared.BaseDomainEvent
	LeaseID  uuid.UUID `json:"lease_id"`
	UnitID   uuid.UUID `json:"unit_id"`
	TenantID uuid.UUID `json:"tenant_id"`
}

// EventType returns the event type name
func (e *LeaseActivatedEvent) EventType() string {
	return "LeaseActivated"
}

// NewLeaseActivatedEvent creates a new LeaseActivatedEvent
func NewLeaseActivatedEvent(lease *Lease) *LeaseActivatedEvent {
	return &LeaseActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseActivated", "Lease", lease.ID, lease.BusinessID),
		LeaseID:         lease.ID,
		UnitID:          lease.UnitID,
		TenantID:        lease.TenantID,
	}
}

// LeaseClosedEvent is raised when a lease ends or is terminated
type LeaseClosedEvent struct {
	shared.BaseDomainEvent
	LeaseID uuid.UUID   `json:"lease_id"`
	UnitID  uuid.UUID   `json:"unit_id"`
	Status  LeaseStatus `json:"status"`
}

// EventType returns the event type name
func (e *LeaseClosedEvent) EventType() string {
	return "LeaseClosed"
}

// NewLeaseClosedEvent creates a new LeaseClosedEvent
func NewLeaseClosedEvent(lease *Lease) *LeaseClosedEvent {
	return &LeaseClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseClosed", "Lease", lease.ID, lease.BusinessID),
		LeaseID:         lease.ID,
		UnitID:          lease.UnitID,
		Status:          lease.Status,
	}
}
