package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// PropertyRepository defines the interface for property persistence
type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*Property, error)
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter PropertyFilter) (*shared.Paginated[*Property], error)
	Save(ctx context.Context, property *Property) error
	SaveWithLock(ctx context.Context, property *Property, expectedVersion int) error
	DeleteForBusiness(ctx context.Context, id, businessID uuid.UUID) error
	CountForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error)
}

// PropertyFilter defines filtering options for property queries
type PropertyFilter struct {
	shared.Filter
	Type            *PropertyType
	IncludeInactive bool
}

// UnitRepository defines the interface for unit persistence
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*Unit, error)
	FindByUnitNumber(ctx context.Context, propertyID uuid.UUID, unitNumber string) (*Unit, error)
	FindByProperty(ctx context.Context, propertyID, businessID uuid.UUID) ([]*Unit, error)
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter UnitFilter) (*shared.Paginated[*Unit], error)
	Save(ctx context.Context, unit *Unit) error
	SaveWithLock(ctx context.Context, unit *Unit, expectedVersion int) error
	DeleteForBusiness(ctx context.Context, id, businessID uuid.UUID) error
	CountForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error)
}

// UnitFilter defines filtering options for unit queries
type UnitFilter struct {
	shared.Filter
	PropertyID      *uuid.UUID
	Status          *UnitStatus
	IncludeInactive bool
}
