package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// LeaseStatus represents the lifecycle state of a lease
type LeaseStatus string

const (
	LeaseStatusDraft      LeaseStatus = "draft"
	LeaseStatusActive     LeaseStatus = "active"
	LeaseStatusEnded      LeaseStatus = "ended"      // Ran to its end date
	LeaseStatusTerminated LeaseStatus = "terminated" // Cut short
)

// IsValid checks if the status is a valid LeaseStatus
func (s LeaseStatus) IsValid() bool {
	switch s {
	case LeaseStatusDraft, LeaseStatusActive, LeaseStatusEnded, LeaseStatusTerminated:
		return true
	}
	return false
}

// String returns the string representation of LeaseStatus
func (s LeaseStatus) String() string {
	return string(s)
}

// IsOpen returns true if the lease still binds the unit
func (s LeaseStatus) IsOpen() bool {
	return s == LeaseStatusDraft || s == LeaseStatusActive
}

// Lease binds a tenant to a unit for a period at an agreed rent
type Lease struct {
	shared.BusinessAggregateRoot
	UnitID        uuid.UUID   `json:"unit_id"`
	TenantID      uuid.UUID   `json:"tenant_id"`
	StartDate     time.Time   `json:"start_date"`
	EndDate       *time.Time  `json:"end_date,omitempty"` // Nil for month-to-month
	RentCents     int64       `json:"rent_cents"`
	DepositCents  int64       `json:"deposit_cents"`
	MonthToMonth  bool        `json:"month_to_month"`
	Status        LeaseStatus `json:"status"`
	ActivatedAt   *time.Time  `json:"activated_at,omitempty"`
	ClosedAt      *time.Time  `json:"closed_at,omitempty"`
	TerminationReason string  `json:"termination_reason,omitempty"`
	IsActive      bool        `json:"is_active"`
}

// NewLease creates a draft lease. Fixed-term leases need an end date
// after the start date; month-to-month leases carry none.
func NewLease(businessID, unitID, tenantID uuid.UUID, startDate time.Time, endDate *time.Time, rentCents, depositCents int64) (*Lease, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATES", "Lease start date is required")
	}
	if endDate != nil && !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "Lease end date must be after the start date")
	}
	if rentCents <= 0 {
		return nil, shared.NewDomainError("INVALID_RENT", "Rent must be positive")
	}
	if depositCents < 0 {
		return nil, shared.NewDomainError("INVALID_DEPOSIT", "Deposit cannot be negative")
	}

	lease := &Lease{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		UnitID:                unitID,
		TenantID:              tenantID,
		StartDate:             startDate,
		EndDate:               endDate,
		RentCents:             rentCents,
		DepositCents:          depositCents,
		MonthToMonth:          endDate == nil,
		Status:                LeaseStatusDraft,
		IsActive:              true,
	}

	lease.AddDomainEvent(NewLeaseCreatedEvent(lease))

	return lease, nil
}

// Activate puts the lease into effect. The caller is responsible for
// marking the unit occupied in the same transaction.
func (l *Lease) Activate() error {
	if l.Status != LeaseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft leases can be activated")
	}

	now := time.Now()
	l.Status = LeaseStatusActive
	l.ActivatedAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLeaseActivatedEvent(l))

	return nil
}

// End closes an active lease that ran its course. The caller marks the
// unit vacant in the same transaction.
func (l *Lease) End() error {
	if l.Status != LeaseStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active leases can be ended")
	}

	now := time.Now()
	l.Status = LeaseStatusEnded
	l.ClosedAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLeaseClosedEvent(l))

	return nil
}

// Terminate cuts an active lease short
func (l *Lease) Terminate(reason string) error {
	if l.Status != LeaseStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active leases can be terminated")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Termination reason is required")
	}

	now := time.Now()
	l.Status = LeaseStatusTerminated
	l.TerminationReason = reason
	l.ClosedAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLeaseClosedEvent(l))

	return nil
}

// UpdateTerms adjusts rent and deposit while the lease is still a draft
func (l *Lease) UpdateTerms(rentCents, depositCents int64) error {
	if l.Status != LeaseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Terms can only change on a draft lease")
	}
	if rentCents <= 0 {
		return shared.NewDomainError("INVALID_RENT", "Rent must be positive")
	}
	if depositCents < 0 {
		return shared.NewDomainError("INVALID_DEPOSIT", "Deposit cannot be negative")
	}

	l.RentCents = rentCents
	l.DepositCents = depositCents
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Expired reports whether a fixed-term active lease has passed its end date
func (l *Lease) Expired(now time.Time) bool {
	return l.Status == LeaseStatusActive && l.EndDate != nil && now.After(*l.EndDate)
}
