package listing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// ListingRepository defines the interface for listing persistence
type ListingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*Listing, error)
	FindByUnit(ctx context.Context, unitID, businessID uuid.UUID) ([]*Listing, error)
	FindPublished(ctx context.Context, businessID uuid.UUID, filter ListingFilter) (*shared.Paginated[*Listing], error)
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter ListingFilter) (*shared.Paginated[*Listing], error)
	Save(ctx context.Context, listing *Listing) error
	SaveWithLock(ctx context.Context, listing *Listing, expectedVersion int) error
	DeleteForBusiness(ctx context.Context, id, businessID uuid.UUID) error
}

// ListingFilter defines filtering options for listing queries
type ListingFilter struct {
	shared.Filter
	UnitID       *uuid.UUID
	Status       *ListingStatus
	MaxRentCents *int64
}
