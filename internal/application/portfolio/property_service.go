package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// EntitlementChecker gates resource creation on the business's plan. The
// billing entitlement service implements it.
type EntitlementChecker interface {
	CheckResourceCreation(ctx context.Context, businessID uuid.UUID, resource billing.LimitedResource) error
}

// PropertyService handles property operations
type PropertyService struct {
	propertyRepo portfolio.PropertyRepository
	entitlements EntitlementChecker
	logger       *zap.Logger
}

// NewPropertyService creates a new property service
func NewPropertyService(
	propertyRepo portfolio.PropertyRepository,
	entitlements EntitlementChecker,
	logger *zap.Logger,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		entitlements: entitlements,
		logger:       logger,
	}
}

// CreatePropertyInput contains input for property creation
type CreatePropertyInput struct {
	BusinessID uuid.UUID
	Name       string
	Type       portfolio.PropertyType
	Address    valueobject.Address
	YearBuilt  *int
	Notes      string
}

// UpdatePropertyInput contains input for property updates
type UpdatePropertyInput struct {
	BusinessID uuid.UUID
	PropertyID uuid.UUID
	Name       string
	Type       portfolio.PropertyType
	Address    valueobject.Address
	YearBuilt  *int
	Notes      string
}

// Create creates a property. The plan limit is checked before anything
// is written.
func (s *PropertyService) Create(ctx context.Context, input CreatePropertyInput) (*portfolio.Property, error) {
	if err := s.entitlements.CheckResourceCreation(ctx, input.BusinessID, billing.ResourceProperty); err != nil {
		return nil, err
	}

	property, err := portfolio.NewProperty(input.BusinessID, input.Name, input.Type, input.Address)
	if err != nil {
		return nil, err
	}

	if input.YearBuilt != nil {
		if err := property.SetYearBuilt(*input.YearBuilt); err != nil {
			return nil, err
		}
	}
	property.Notes = input.Notes

	if err := s.propertyRepo.Save(ctx, property); err != nil {
		s.logger.Error("Failed to save property", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create property")
	}

	s.logger.Info("Property created",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("property_id", property.ID.String()))

	return property, nil
}

// Get retrieves a property scoped to a business
func (s *PropertyService) Get(ctx context.Context, businessID, propertyID uuid.UUID) (*portfolio.Property, error) {
	property, err := s.propertyRepo.FindByIDForBusiness(ctx, propertyID, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("PROPERTY_NOT_FOUND", "Property not found")
		}
		s.logger.Error("Failed to load property", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load property")
	}
	return property, nil
}

// List lists properties for a business
func (s *PropertyService) List(ctx context.Context, businessID uuid.UUID, filter portfolio.PropertyFilter) (*shared.Paginated[*portfolio.Property], error) {
	page, err := s.propertyRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list properties", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list properties")
	}
	return page, nil
}

// Update updates a property's details
func (s *PropertyService) Update(ctx context.Context, input UpdatePropertyInput) (*portfolio.Property, error) {
	property, err := s.Get(ctx, input.BusinessID, input.PropertyID)
	if err != nil {
		return nil, err
	}

	if err := property.Update(input.Name, input.Type, input.Address, input.Notes); err != nil {
		return nil, err
	}
	if input.YearBuilt != nil {
		if err := property.SetYearBuilt(*input.YearBuilt); err != nil {
			return nil, err
		}
	}

	if err := s.propertyRepo.SaveWithLock(ctx, property, property.Version-1); err != nil {
		s.logger.Error("Failed to save property", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save property")
	}

	return property, nil
}

// Deactivate soft deletes a property
func (s *PropertyService) Deactivate(ctx context.Context, businessID, propertyID uuid.UUID) error {
	property, err := s.Get(ctx, businessID, propertyID)
	if err != nil {
		return err
	}

	if err := property.Deactivate(); err != nil {
		return err
	}

	if err := s.propertyRepo.SaveWithLock(ctx, property, property.Version-1); err != nil {
		s.logger.Error("Failed to save deactivated property", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save property")
	}

	s.logger.Info("Property deactivated",
		zap.String("business_id", businessID.String()),
		zap.String("property_id", propertyID.String()))

	return nil
}

// Reactivate restores a soft-deleted property
func (s *PropertyService) Reactivate(ctx context.Context, businessID, propertyID uuid.UUID) error {
	property, err := s.Get(ctx, businessID, propertyID)
	if err != nil {
		return err
	}

	if err := property.Reactivate(); err != nil {
		return err
	}

	if err := s.propertyRepo.SaveWithLock(ctx, property, property.Version-1); err != nil {
		s.logger.Error("Failed to save reactivated property", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save property")
	}

	return nil
}
