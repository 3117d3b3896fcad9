package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentfold/backend/internal/domain/listing"
)

// ListingModel is the persistence model for the Listing aggregate.
// PhotoKeys holds S3 object keys, serialized as a JSON array.
type ListingModel struct {
	BusinessAggregateModel
	UnitID           uuid.UUID             `gorm:"type:uuid;not null;index"`
	Headline         string                `gorm:"type:varchar(200)"`
	Description      string                `gorm:"type:text"`
	MonthlyRentCents int64                 `gorm:"not null;default:0"`
	AvailableDate    *time.Time
	Status           listing.ListingStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	PhotoKeys        []string              `gorm:"serializer:json"`
	PublishedAt      *time.Time
	IsActive         bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ListingModel) TableName() string {
	return "listings"
}

// ToDomain converts the persistence model to a domain Listing aggregate.
func (m *ListingModel) ToDomain() *listing.Listing {
	photoKeys := m.PhotoKeys
	if photoKeys == nil {
		photoKeys = make([]string, 0)
	}
	return &listing.Listing{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		UnitID:                m.UnitID,
		Headline:              m.Headline,
		Description:           m.Description,
		MonthlyRentCents:      m.MonthlyRentCents,
		AvailableDate:         m.AvailableDate,
		Status:                m.Status,
		PhotoKeys:             photoKeys,
		PublishedAt:           m.PublishedAt,
		IsActive:              m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Listing aggregate.
func (m *ListingModel) FromDomain(l *listing.Listing) {
	m.FromDomainBusinessAggregateRoot(l.BusinessAggregateRoot)
	m.UnitID = l.UnitID
	m.Headline = l.Headline
	m.Description = l.Description
	m.MonthlyRentCents = l.MonthlyRentCents
	m.AvailableDate = l.AvailableDate
	m.Status = l.Status
	m.PhotoKeys = l.PhotoKeys
	m.PublishedAt = l.PublishedAt
	m.IsActive = l.IsActive
}

// ListingModelFromDomain creates a new persistence model from a domain Listing aggregate.
func ListingModelFromDomain(l *listing.Listing) *ListingModel {
	m := &ListingModel{}
	m.FromDomain(l)
	return m
}
