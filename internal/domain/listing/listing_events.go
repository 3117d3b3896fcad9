package listing

import (
	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// ListingCreatedEvent is raised when a draft listing is created
type ListingCreatedEvent struct {
	shared.BaseDomainEvent
	ListingID uuid.UUID `json:"listing_id"`
	UnitID    uuid.UUID `json:"unit_id"`
}

// EventType returns the event type name
func (e *ListingCreatedEvent) EventType() string {
	return "ListingCreated"
}

// NewListingCreatedEvent creates a new ListingCreatedEvent
func NewListingCreatedEvent(listing *Listing) *ListingCreatedEvent {
	return &ListingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ListingCreated", "Listing", listing.ID, listing.BusinessID),
		ListingID:       listing.ID,
		UnitID:          listing.UnitID,
	}
}

// ListingPublishedEvent is raised when a listing goes public
type ListingPublishedEvent struct {
	shared.BaseDomainEvent
	ListingID        uuid.UUID `json:"listing_id"`
	UnitID           uuid.UUID `json:"unit_id"`
	Headline         string    `json:"headline"`
	MonthlyRentCents int64     `json:"monthly_rent_cents"`
}

// EventType returns the event type name
func (e *ListingPublishedEvent) EventType() string {
	return "ListingPublished"
}

// NewListingPublishedEvent creates a new ListingPublishedEvent
func NewListingPublishedEvent(listing *Listing) *ListingPublishedEvent {
	return &ListingPublishedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("ListingPublished", "Listing", listing.ID, listing.BusinessID),
		ListingID:        listing.ID,
		UnitID:           listing.UnitID,
		Headline:         listing.Headline,
		MonthlyRentCents: listing.MonthlyRentCents,
	}
}

// ListingArchivedEvent is raised when a listing is retired
type ListingArchivedEvent struct {
	shared.BaseDomainEvent
	ListingID uuid.UUID `json:"listing_id"`
	UnitID    uuid.UUID `json:"unit_id"`
}

// EventType returns the event type name
func (e *ListingArchivedEvent) EventType() string {
	return "ListingArchived"
}

// NewListingArchivedEvent creates a new ListingArchivedEvent
func NewListingArchivedEvent(listing *Listing) *ListingArchivedEvent {
	return &ListingArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ListingArchived", "Listing", listing.ID, listing.BusinessID),
		ListingID:       listing.ID,
		UnitID:          listing.UnitID,
	}
}
