package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/domain/shared/valueobject"
)

// PropertyType classifies a property
type PropertyType string

const (
	PropertyTypeSingleFamily PropertyType = "single_family"
	PropertyTypeMultiFamily  PropertyType = "multi_family"
	PropertyTypeApartment    PropertyType = "apartment"
	PropertyTypeCommercial   PropertyType = "commercial"
)

// IsValid checks if the property type is valid
func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyTypeSingleFamily, PropertyTypeMultiFamily, PropertyTypeApartment, PropertyTypeCommercial:
		return true
	}
	return false
}

// String returns the string representation of PropertyType
func (t PropertyType) String() string {
	return string(t)
}

// Property represents a building or parcel managed by a business. Rentable
// spaces within it are Units.
type Property struct {
	shared.BusinessAggregateRoot
	Name      string              `json:"name"`
	Type      PropertyType        `json:"type"`
	Address   valueobject.Address `json:"address"`
	YearBuilt *int                `json:"year_built"`
	Notes     string              `json:"notes"`
	IsActive  bool                `json:"is_active"`
}

// NewProperty creates a new property
func NewProperty(businessID uuid.UUID, name string, propertyType PropertyType, address valueobject.Address) (*Property, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PROPERTY_NAME", "Property name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PROPERTY_NAME", "Property name cannot exceed 200 characters")
	}
	if !propertyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROPERTY_TYPE", "Property type is not valid")
	}
	if address.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Property address is required")
	}

	property := &Property{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Name:                  name,
		Type:                  propertyType,
		Address:               address,
		IsActive:              true,
	}

	property.AddDomainEvent(NewPropertyCreatedEvent(property))

	return property, nil
}

// SetYearBuilt records the construction year
func (p *Property) SetYearBuilt(year int) error {
	if year < 1800 || year > time.Now().Year()+1 {
		return shared.NewDomainError("INVALID_YEAR_BUILT", "Year built is out of range")
	}
	p.YearBuilt = &year
	p.UpdatedAt = time.Now()
	return nil
}

// Update updates the property's details
func (p *Property) Update(name string, propertyType PropertyType, address valueobject.Address, notes string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_PROPERTY_NAME", "Property name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PROPERTY_NAME", "Property name cannot exceed 200 characters")
	}
	if !propertyType.IsValid() {
		return shared.NewDomainError("INVALID_PROPERTY_TYPE", "Property type is not valid")
	}
	if address.IsEmpty() {
		return shared.NewDomainError("INVALID_ADDRESS", "Property address is required")
	}

	p.Name = name
	p.Type = propertyType
	p.Address = address
	p.Notes = notes
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPropertyUpdatedEvent(p))

	return nil
}

// Deactivate soft deletes the property
func (p *Property) Deactivate() error {
	if !p.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Property is already inactive")
	}

	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPropertyDeactivatedEvent(p))

	return nil
}

// Reactivate restores a deactivated property
func (p *Property) Reactivate() error {
	if p.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Property is already active")
	}

	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}
