package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// MaintenancePriority ranks how urgently a request needs attention
type MaintenancePriority string

const (
	PriorityLow       MaintenancePriority = "low"
	PriorityNormal    MaintenancePriority = "normal"
	PriorityHigh      MaintenancePriority = "high"
	PriorityEmergency MaintenancePriority = "emergency"
)

// IsValid checks if the priority is a valid MaintenancePriority
func (p MaintenancePriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityEmergency:
		return true
	}
	return false
}

// String returns the string representation of MaintenancePriority
func (p MaintenancePriority) String() string {
	return string(p)
}

// MaintenanceStatus represents the workflow state of a request
type MaintenanceStatus string

const (
	MaintenanceStatusOpen       MaintenanceStatus = "open"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusResolved   MaintenanceStatus = "resolved"
	MaintenanceStatusCancelled  MaintenanceStatus = "cancelled"
)

// IsValid checks if the status is a valid MaintenanceStatus
func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceStatusOpen, MaintenanceStatusInProgress, MaintenanceStatusResolved, MaintenanceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of MaintenanceStatus
func (s MaintenanceStatus) String() string {
	return string(s)
}

// IsClosed returns true if no further work will happen on the request
func (s MaintenanceStatus) IsClosed() bool {
	return s == MaintenanceStatusResolved || s == MaintenanceStatusCancelled
}

// MaintenanceRequest tracks a repair reported against a unit
type MaintenanceRequest struct {
	shared.BusinessAggregateRoot
	UnitID          uuid.UUID           `json:"unit_id"`
	TenantID        *uuid.UUID          `json:"tenant_id,omitempty"` // Nil when staff-reported
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Priority        MaintenancePriority `json:"priority"`
	Status          MaintenanceStatus   `json:"status"`
	AssignedTo      *uuid.UUID          `json:"assigned_to,omitempty"`
	ResolutionNotes string              `json:"resolution_notes,omitempty"`
	ResolvedAt      *time.Time          `json:"resolved_at,omitempty"`
	IsActive        bool                `json:"is_active"`
}

// NewMaintenanceRequest opens a repair request
func NewMaintenanceRequest(businessID, unitID uuid.UUID, tenantID *uuid.UUID, title, description string, priority MaintenancePriority) (*MaintenanceRequest, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Request title is required")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Request title cannot exceed 200 characters")
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Invalid priority")
	}

	request := &MaintenanceRequest{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		UnitID:                unitID,
		TenantID:              tenantID,
		Title:                 title,
		Description:           description,
		Priority:              priority,
		Status:                MaintenanceStatusOpen,
		IsActive:              true,
	}

	request.AddDomainEvent(NewMaintenanceRequestOpenedEvent(request))

	return request, nil
}

// Start moves the request into active work
func (m *MaintenanceRequest) Start(assignee *uuid.UUID) error {
	if m.Status != MaintenanceStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Only open requests can be started")
	}

	m.Status = MaintenanceStatusInProgress
	m.AssignedTo = assignee
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// Resolve closes the request with notes on what was done
func (m *MaintenanceRequest) Resolve(notes string) error {
	if m.Status != MaintenanceStatusOpen && m.Status != MaintenanceStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Only open or in-progress requests can be resolved")
	}
	if notes == "" {
		return shared.NewDomainError("INVALID_NOTES", "Resolution notes are required")
	}

	now := time.Now()
	m.Status = MaintenanceStatusResolved
	m.ResolutionNotes = notes
	m.ResolvedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()

	m.AddDomainEvent(NewMaintenanceRequestClosedEvent(m))

	return nil
}

// Cancel withdraws the request without work being done
func (m *MaintenanceRequest) Cancel() error {
	if m.Status.IsClosed() {
		return shared.NewDomainError("INVALID_STATE", "Request is already closed")
	}

	m.Status = MaintenanceStatusCancelled
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	m.AddDomainEvent(NewMaintenanceRequestClosedEvent(m))

	return nil
}

// Escalate raises the priority of an open request
func (m *MaintenanceRequest) Escalate(priority MaintenancePriority) error {
	if m.Status.IsClosed() {
		return shared.NewDomainError("INVALID_STATE", "Cannot escalate a closed request")
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Invalid priority")
	}

	m.Priority = priority
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}
