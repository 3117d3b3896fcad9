package portfolio

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UnitStatus represents the occupancy status of a unit
type UnitStatus string

const (
	UnitStatusVacant      UnitStatus = "vacant"
	UnitStatusOccupied    UnitStatus = "occupied"
	UnitStatusMaintenance UnitStatus = "maintenance" // Temporarily unrentable
	UnitStatusOffline     UnitStatus = "offline"     // Withheld from the rental pool
)

// IsValid checks if the status is a valid UnitStatus
func (s UnitStatus) IsValid() bool {
	switch s {
	case UnitStatusVacant, UnitStatusOccupied, UnitStatusMaintenance, UnitStatusOffline:
		return true
	}
	return false
}

// String returns the string representation of UnitStatus
func (s UnitStatus) String() string {
	return string(s)
}

// IsRentable returns true if a lease can start on a unit in this status
func (s UnitStatus) IsRentable() bool {
	return s == UnitStatusVacant
}

// Unit represents a single rentable space within a property
type Unit struct {
	shared.BusinessAggregateRoot
	PropertyID     uuid.UUID       `json:"property_id"`
	UnitNumber     string          `json:"unit_number"` // Unique within the property
	Bedrooms       int             `json:"bedrooms"`
	Bathrooms      decimal.Decimal `json:"bathrooms"` // Half baths as .5
	SquareFeet     *int            `json:"square_feet"`
	MarketRentCents int64          `json:"market_rent_cents"`
	Status         UnitStatus      `json:"status"`
	Notes          string          `json:"notes"`
	IsActive       bool            `json:"is_active"`
}

// NewUnit creates a new unit within a property
func NewUnit(businessID, propertyID uuid.UUID, unitNumber string, bedrooms int, bathrooms decimal.Decimal, marketRentCents int64) (*Unit, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if unitNumber == "" {
		return nil, shared.NewDomainError("INVALID_UNIT_NUMBER", "Unit number cannot be empty")
	}
	if len(unitNumber) > 20 {
		return nil, shared.NewDomainError("INVALID_UNIT_NUMBER", "Unit number cannot exceed 20 characters")
	}
	if bedrooms < 0 {
		return nil, shared.NewDomainError("INVALID_BEDROOMS", "Bedroom count cannot be negative")
	}
	if bathrooms.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BATHROOMS", "Bathroom count cannot be negative")
	}
	if marketRentCents < 0 {
		return nil, shared.NewDomainError("INVALID_RENT", "Market rent cannot be negative")
	}

	unit := &Unit{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		PropertyID:            propertyID,
		UnitNumber:            unitNumber,
		Bedrooms:              bedrooms,
		Bathrooms:             bathrooms,
		MarketRentCents:       marketRentCents,
		Status:                UnitStatusVacant,
		IsActive:              true,
	}

	unit.AddDomainEvent(NewUnitCreatedEvent(unit))

	return unit, nil
}

// SetSquareFeet records the unit's floor area
func (u *Unit) SetSquareFeet(sqft int) error {
	if sqft <= 0 {
		return shared.NewDomainError("INVALID_SQUARE_FEET", "Square feet must be positive")
	}
	u.SquareFeet = &sqft
	u.UpdatedAt = time.Now()
	return nil
}

// UpdateDetails updates the unit's rentable characteristics
func (u *Unit) UpdateDetails(bedrooms int, bathrooms decimal.Decimal, marketRentCents int64, notes string) error {
	if bedrooms < 0 {
		return shared.NewDomainError("INVALID_BEDROOMS", "Bedroom count cannot be negative")
	}
	if bathrooms.IsNegative() {
		return shared.NewDomainError("INVALID_BATHROOMS", "Bathroom count cannot be negative")
	}
	if marketRentCents < 0 {
		return shared.NewDomainError("INVALID_RENT", "Market rent cannot be negative")
	}

	u.Bedrooms = bedrooms
	u.Bathrooms = bathrooms
	u.MarketRentCents = marketRentCents
	u.Notes = notes
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// MarkOccupied transitions the unit to occupied. Only lease activation
// does this, and only from vacant.
func (u *Unit) MarkOccupied() error {
	if !u.Status.IsRentable() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot occupy a %s unit", u.Status))
	}

	u.Status = UnitStatusOccupied
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUnitStatusChangedEvent(u))

	return nil
}

// MarkVacant returns the unit to the rental pool
func (u *Unit) MarkVacant() error {
	if u.Status == UnitStatusVacant {
		return shared.NewDomainError("INVALID_STATE", "Unit is already vacant")
	}

	u.Status = UnitStatusVacant
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUnitStatusChangedEvent(u))

	return nil
}

// MarkMaintenance pulls the unit for repairs
func (u *Unit) MarkMaintenance() error {
	if u.Status == UnitStatusOccupied {
		return shared.NewDomainError("INVALID_STATE", "Cannot pull an occupied unit for maintenance")
	}
	if u.Status == UnitStatusMaintenance {
		return shared.NewDomainError("INVALID_STATE", "Unit is already in maintenance")
	}

	u.Status = UnitStatusMaintenance
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUnitStatusChangedEvent(u))

	return nil
}

// MarkOffline withholds the unit from the rental pool
func (u *Unit) MarkOffline() error {
	if u.Status == UnitStatusOccupied {
		return shared.NewDomainError("INVALID_STATE", "Cannot take an occupied unit offline")
	}
	if u.Status == UnitStatusOffline {
		return shared.NewDomainError("INVALID_STATE", "Unit is already offline")
	}

	u.Status = UnitStatusOffline
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUnitStatusChangedEvent(u))

	return nil
}

// Deactivate soft deletes the unit
func (u *Unit) Deactivate() error {
	if !u.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Unit is already inactive")
	}
	if u.Status == UnitStatusOccupied {
		return shared.NewDomainError("INVALID_STATE", "Cannot deactivate an occupied unit")
	}

	u.IsActive = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}
