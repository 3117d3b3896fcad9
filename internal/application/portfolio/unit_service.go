package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UnitService handles unit operations
type UnitService struct {
	unitRepo     portfolio.UnitRepository
	propertyRepo portfolio.PropertyRepository
	entitlements EntitlementChecker
	logger       *zap.Logger
}

// NewUnitService creates a new unit service
func NewUnitService(
	unitRepo portfolio.UnitRepository,
	propertyRepo portfolio.PropertyRepository,
	entitlements EntitlementChecker,
	logger *zap.Logger,
) *UnitService {
	return &UnitService{
		unitRepo:     unitRepo,
		propertyRepo: propertyRepo,
		entitlements: entitlements,
		logger:       logger,
	}
}

// CreateUnitInput contains input for unit creation
type CreateUnitInput struct {
	BusinessID      uuid.UUID
	PropertyID      uuid.UUID
	UnitNumber      string
	Bedrooms        int
	Bathrooms       decimal.Decimal
	SquareFeet      *int
	MarketRentCents int64
	Notes           string
}

// UpdateUnitInput contains input for unit updates
type UpdateUnitInput struct {
	BusinessID      uuid.UUID
	UnitID          uuid.UUID
	Bedrooms        int
	Bathrooms       decimal.Decimal
	SquareFeet      *int
	MarketRentCents int64
	Notes           string
}

// Create creates a unit under a property. The plan limit is checked
// before anything is written.
func (s *UnitService) Create(ctx context.Context, input CreateUnitInput) (*portfolio.Unit, error) {
	if err := s.entitlements.CheckResourceCreation(ctx, input.BusinessID, billing.ResourceUnit); err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.FindByIDForBusiness(ctx, input.PropertyID, input.BusinessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("PROPERTY_NOT_FOUND", "Property not found")
		}
		s.logger.Error("Failed to load property", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load property")
	}
	if !property.IsActive {
		return nil, shared.NewDomainError("PROPERTY_INACTIVE", "Cannot add units to an inactive property")
	}

	existing, err := s.unitRepo.FindByUnitNumber(ctx, input.PropertyID, input.UnitNumber)
	if err != nil && err != shared.ErrNotFound {
		s.logger.Error("Failed to check unit number", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check unit number")
	}
	if existing != nil {
		return nil, shared.NewDomainError("UNIT_NUMBER_TAKEN", "A unit with this number already exists in the property")
	}

	unit, err := portfolio.NewUnit(input.BusinessID, input.PropertyID, input.UnitNumber, input.Bedrooms, input.Bathrooms, input.MarketRentCents)
	if err != nil {
		return nil, err
	}

	if input.SquareFeet != nil {
		if err := unit.SetSquareFeet(*input.SquareFeet); err != nil {
			return nil, err
		}
	}
	unit.Notes = input.Notes

	if err := s.unitRepo.Save(ctx, unit); err != nil {
		s.logger.Error("Failed to save unit", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create unit")
	}

	s.logger.Info("Unit created",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("property_id", input.PropertyID.String()),
		zap.String("unit_number", input.UnitNumber))

	return unit, nil
}

// Get retrieves a unit scoped to a business
func (s *UnitService) Get(ctx context.Context, businessID, unitID uuid.UUID) (*portfolio.Unit, error) {
	unit, err := s.unitRepo.FindByIDForBusiness(ctx, unitID, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("UNIT_NOT_FOUND", "Unit not found")
		}
		s.logger.Error("Failed to load unit", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load unit")
	}
	return unit, nil
}

// List lists units for a business
func (s *UnitService) List(ctx context.Context, businessID uuid.UUID, filter portfolio.UnitFilter) (*shared.Paginated[*portfolio.Unit], error) {
	page, err := s.unitRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list units", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list units")
	}
	return page, nil
}

// ListByProperty lists the units of one property
func (s *UnitService) ListByProperty(ctx context.Context, businessID, propertyID uuid.UUID) ([]*portfolio.Unit, error) {
	units, err := s.unitRepo.FindByProperty(ctx, propertyID, businessID)
	if err != nil {
		s.logger.Error("Failed to list units by property", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list units")
	}
	return units, nil
}

// Update updates a unit's rentable characteristics
func (s *UnitService) Update(ctx context.Context, input UpdateUnitInput) (*portfolio.Unit, error) {
	unit, err := s.Get(ctx, input.BusinessID, input.UnitID)
	if err != nil {
		return nil, err
	}

	if err := unit.UpdateDetails(input.Bedrooms, input.Bathrooms, input.MarketRentCents, input.Notes); err != nil {
		return nil, err
	}
	if input.SquareFeet != nil {
		if err := unit.SetSquareFeet(*input.SquareFeet); err != nil {
			return nil, err
		}
	}

	if err := s.unitRepo.SaveWithLock(ctx, unit, unit.Version-1); err != nil {
		s.logger.Error("Failed to save unit", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save unit")
	}

	return unit, nil
}

// SetStatus moves a unit between the manually reachable statuses. Occupied
// is owned by the leasing flow and is rejected here.
func (s *UnitService) SetStatus(ctx context.Context, businessID, unitID uuid.UUID, status portfolio.UnitStatus) (*portfolio.Unit, error) {
	unit, err := s.Get(ctx, businessID, unitID)
	if err != nil {
		return nil, err
	}

	switch status {
	case portfolio.UnitStatusVacant:
		err = unit.MarkVacant()
	case portfolio.UnitStatusMaintenance:
		err = unit.MarkMaintenance()
	case portfolio.UnitStatusOffline:
		err = unit.MarkOffline()
	case portfolio.UnitStatusOccupied:
		return nil, shared.NewDomainError("INVALID_STATE", "Units become occupied through lease activation")
	default:
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown unit status")
	}
	if err != nil {
		return nil, err
	}

	if err := s.unitRepo.SaveWithLock(ctx, unit, unit.Version-1); err != nil {
		s.logger.Error("Failed to save unit status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save unit")
	}

	s.logger.Info("Unit status changed",
		zap.String("unit_id", unitID.String()),
		zap.String("status", status.String()))

	return unit, nil
}

// Deactivate soft deletes a unit
func (s *UnitService) Deactivate(ctx context.Context, businessID, unitID uuid.UUID) error {
	unit, err := s.Get(ctx, businessID, unitID)
	if err != nil {
		return err
	}

	if err := unit.Deactivate(); err != nil {
		return err
	}

	if err := s.unitRepo.SaveWithLock(ctx, unit, unit.Version-1); err != nil {
		s.logger.Error("Failed to save deactivated unit", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save unit")
	}

	return nil
}
