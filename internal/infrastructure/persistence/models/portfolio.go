package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared/valueobject"
)

// PropertyModel is the persistence model for the Property aggregate.
type PropertyModel struct {
	BusinessAggregateModel
	Name      string                 `gorm:"type:varchar(200);not null"`
	Type      portfolio.PropertyType `gorm:"type:varchar(30);not null"`
	Address   valueobject.Address    `gorm:"type:jsonb"`
	YearBuilt *int
	Notes     string `gorm:"type:text"`
	IsActive  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property aggregate.
func (m *PropertyModel) ToDomain() *portfolio.Property {
	return &portfolio.Property{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		Name:                  m.Name,
		Type:                  m.Type,
		Address:               m.Address,
		YearBuilt:             m.YearBuilt,
		Notes:                 m.Notes,
		IsActive:              m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Property aggregate.
func (m *PropertyModel) FromDomain(p *portfolio.Property) {
	m.FromDomainBusinessAggregateRoot(p.BusinessAggregateRoot)
	m.Name = p.Name
	m.Type = p.Type
	m.Address = p.Address
	m.YearBuilt = p.YearBuilt
	m.Notes = p.Notes
	m.IsActive = p.IsActive
}

// PropertyModelFromDomain creates a new persistence model from a domain Property aggregate.
func PropertyModelFromDomain(p *portfolio.Property) *PropertyModel {
	m := &PropertyModel{}
	m.FromDomain(p)
	return m
}

// UnitModel is the persistence model for the Unit aggregate.
type UnitModel struct {
	BusinessAggregateModel
	PropertyID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	UnitNumber      string               `gorm:"type:varchar(50);not null;index:idx_units_property_number,unique,composite:property_id"`
	Bedrooms        int                  `gorm:"not null;default:0"`
	Bathrooms       decimal.Decimal      `gorm:"type:decimal(3,1);not null;default:0"`
	SquareFeet      *int
	MarketRentCents int64                `gorm:"not null;default:0"`
	Status          portfolio.UnitStatus `gorm:"type:varchar(20);not null;default:'vacant';index"`
	Notes           string               `gorm:"type:text"`
	IsActive        bool                 `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the persistence model to a domain Unit aggregate.
func (m *UnitModel) ToDomain() *portfolio.Unit {
	return &portfolio.Unit{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		PropertyID:            m.PropertyID,
		UnitNumber:            m.UnitNumber,
		Bedrooms:              m.Bedrooms,
		Bathrooms:             m.Bathrooms,
		SquareFeet:            m.SquareFeet,
		MarketRentCents:       m.MarketRentCents,
		Status:                m.Status,
		Notes:                 m.Notes,
		IsActive:              m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Unit aggregate.
func (m *UnitModel) FromDomain(u *portfolio.Unit) {
	m.FromDomainBusinessAggregateRoot(u.BusinessAggregateRoot)
	m.PropertyID = u.PropertyID
	m.UnitNumber = u.UnitNumber
	m.Bedrooms = u.Bedrooms
	m.Bathrooms = u.Bathrooms
	m.SquareFeet = u.SquareFeet
	m.MarketRentCents = u.MarketRentCents
	m.Status = u.Status
	m.Notes = u.Notes
	m.IsActive = u.IsActive
}

// UnitModelFromDomain creates a new persistence model from a domain Unit aggregate.
func UnitModelFromDomain(u *portfolio.Unit) *UnitModel {
	m := &UnitModel{}
	m.FromDomain(u)
	return m
}
