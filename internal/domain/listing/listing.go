package listing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

const maxPhotosPerListing = 20

// ListingStatus represents the publication state of a listing
type ListingStatus string

const (
	ListingStatusDraft     ListingStatus = "draft"
	ListingStatusPublished ListingStatus = "published"
	ListingStatusArchived  ListingStatus = "archived"
)

// IsValid checks if the status is a valid ListingStatus
func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusDraft, ListingStatusPublished, ListingStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of ListingStatus
func (s ListingStatus) String() string {
	return string(s)
}

// Listing advertises a vacant unit. Photos are stored as object keys;
// the storage layer hands out presigned URLs for upload and display.
type Listing struct {
	shared.BusinessAggregateRoot
	UnitID           uuid.UUID     `json:"unit_id"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description"`
	MonthlyRentCents int64         `json:"monthly_rent_cents"`
	AvailableDate    *time.Time    `json:"available_date,omitempty"`
	Status           ListingStatus `json:"status"`
	PhotoKeys        []string      `json:"photo_keys" gorm:"serializer:json"`
	PublishedAt      *time.Time    `json:"published_at,omitempty"`
	IsActive         bool          `json:"is_active"`
}

// NewListing creates a draft listing for a unit
func NewListing(businessID, unitID uuid.UUID) (*Listing, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}

	listing := &Listing{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		UnitID:                unitID,
		Status:                ListingStatusDraft,
		PhotoKeys:             []string{},
		IsActive:              true,
	}

	listing.AddDomainEvent(NewListingCreatedEvent(listing))

	return listing, nil
}

// UpdateContent sets the advertised copy and rent
func (l *Listing) UpdateContent(headline, description string, monthlyRentCents int64) error {
	if l.Status == ListingStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Archived listings cannot be edited")
	}
	if len(headline) > 150 {
		return shared.NewDomainError("INVALID_HEADLINE", "Headline cannot exceed 150 characters")
	}
	if monthlyRentCents < 0 {
		return shared.NewDomainError("INVALID_RENT", "Rent cannot be negative")
	}

	l.Headline = strings.TrimSpace(headline)
	l.Description = description
	l.MonthlyRentCents = monthlyRentCents
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetAvailableDate records when the unit can be moved into
func (l *Listing) SetAvailableDate(date time.Time) error {
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Available date cannot be empty")
	}
	l.AvailableDate = &date
	l.UpdatedAt = time.Now()
	return nil
}

// AddPhoto appends an uploaded photo's object key
func (l *Listing) AddPhoto(objectKey string) error {
	if objectKey == "" {
		return shared.NewDomainError("INVALID_PHOTO", "Photo object key cannot be empty")
	}
	if len(l.PhotoKeys) >= maxPhotosPerListing {
		return shared.NewDomainError("TOO_MANY_PHOTOS", "Listing photo limit reached")
	}
	for _, key := range l.PhotoKeys {
		if key == objectKey {
			return shared.NewDomainError("DUPLICATE_PHOTO", "Photo is already attached")
		}
	}

	l.PhotoKeys = append(l.PhotoKeys, objectKey)
	l.UpdatedAt = time.Now()

	return nil
}

// RemovePhoto detaches a photo by its object key
func (l *Listing) RemovePhoto(objectKey string) error {
	for i, key := range l.PhotoKeys {
		if key == objectKey {
			l.PhotoKeys = append(l.PhotoKeys[:i], l.PhotoKeys[i+1:]...)
			l.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("PHOTO_NOT_FOUND", "Photo is not attached to this listing")
}

// CanPublish reports whether the listing has the minimum advertised content
func (l *Listing) CanPublish() bool {
	return l.Headline != "" && l.MonthlyRentCents > 0
}

// Publish makes the listing public. The caller verifies the unit is
// vacant before publishing.
func (l *Listing) Publish() error {
	if l.Status == ListingStatusPublished {
		return shared.NewDomainError("INVALID_STATE", "Listing is already published")
	}
	if l.Status == ListingStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Archived listings cannot be republished directly")
	}
	if !l.CanPublish() {
		return shared.NewDomainError("INCOMPLETE_LISTING", "Listing needs a headline and rent before publishing")
	}

	now := time.Now()
	l.Status = ListingStatusPublished
	l.PublishedAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewListingPublishedEvent(l))

	return nil
}

// Unpublish pulls a published listing back to draft
func (l *Listing) Unpublish() error {
	if l.Status != ListingStatusPublished {
		return shared.NewDomainError("INVALID_STATE", "Only published listings can be unpublished")
	}

	l.Status = ListingStatusDraft
	l.PublishedAt = nil
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Archive retires the listing
func (l *Listing) Archive() error {
	if l.Status == ListingStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Listing is already archived")
	}

	l.Status = ListingStatusArchived
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewListingArchivedEvent(l))

	return nil
}
