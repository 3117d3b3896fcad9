package leasing

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

var tenantEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// EmergencyContact holds someone to reach if the tenant cannot be
type EmergencyContact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

// Tenant represents a renter
type Tenant struct {
	shared.BusinessAggregateRoot
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty"`
	CurrentUnitID    *uuid.UUID        `json:"current_unit_id,omitempty"`
	Notes            string            `json:"notes"`
	IsActive         bool              `json:"is_active"`
}

// NewTenant creates a new tenant record
func NewTenant(businessID uuid.UUID, firstName, lastName, email, phone string) (*Tenant, error) {
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant first and last name are required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !tenantEmailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	tenant := &Tenant{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		FirstName:             firstName,
		LastName:              lastName,
		Email:                 email,
		Phone:                 phone,
		IsActive:              true,
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// FullName returns the tenant's display name
func (t *Tenant) FullName() string {
	return t.FirstName + " " + t.LastName
}

// UpdateContact updates the tenant's contact details
func (t *Tenant) UpdateContact(email, phone string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !tenantEmailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	t.Email = email
	t.Phone = phone
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetEmergencyContact records who to call in an emergency
func (t *Tenant) SetEmergencyContact(name, phone, relation string) error {
	if name == "" || phone == "" {
		return shared.NewDomainError("INVALID_CONTACT", "Emergency contact name and phone are required")
	}

	t.EmergencyContact = &EmergencyContact{Name: name, Phone: phone, Relation: relation}
	t.UpdatedAt = time.Now()

	return nil
}

// AssignUnit records the unit the tenant currently occupies
func (t *Tenant) AssignUnit(unitID uuid.UUID) {
	t.CurrentUnitID = &unitID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// ClearUnit detaches the tenant from their current unit
func (t *Tenant) ClearUnit() {
	t.CurrentUnitID = nil
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Deactivate soft deletes the tenant
func (t *Tenant) Deactivate() error {
	if !t.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Tenant is already inactive")
	}
	if t.CurrentUnitID != nil {
		return shared.NewDomainError("INVALID_STATE", "Cannot deactivate a tenant who occupies a unit")
	}

	t.IsActive = false
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}
