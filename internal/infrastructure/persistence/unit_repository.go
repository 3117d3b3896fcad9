package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Unit, error) {
	var model models.UnitModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBusiness finds a unit by ID within a business
func (r *GormUnitRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*portfolio.Unit, error) {
	var model models.UnitModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUnitNumber finds a unit by its number within a property
func (r *GormUnitRepository) FindByUnitNumber(ctx context.Context, propertyID uuid.UUID, unitNumber string) (*portfolio.Unit, error) {
	var model models.UnitModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ? AND unit_number = ?", propertyID, unitNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProperty lists all units of a property
func (r *GormUnitRepository) FindByProperty(ctx context.Context, propertyID, businessID uuid.UUID) ([]*portfolio.Unit, error) {
	var unitModels []models.UnitModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ? AND business_id = ?", propertyID, businessID).
		Order("unit_number ASC").
		Find(&unitModels).Error; err != nil {
		return nil, err
	}

	units := make([]*portfolio.Unit, len(unitModels))
	for i, model := range unitModels {
		units[i] = model.ToDomain()
	}
	return units, nil
}

// FindAllForBusiness lists units for a business with pagination
func (r *GormUnitRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter portfolio.UnitFilter) (*shared.Paginated[*portfolio.Unit], error) {
	base := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.UnitModel{}).Where("business_id = ?", businessID),
		filter,
	)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var unitModels []models.UnitModel
	query := base.Offset((page - 1) * pageSize).Limit(pageSize)
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, UnitSortFields, "unit_number")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("unit_number ASC")
	}

	if err := query.Find(&unitModels).Error; err != nil {
		return nil, err
	}

	units := make([]*portfolio.Unit, len(unitModels))
	for i, model := range unitModels {
		units[i] = model.ToDomain()
	}
	paginated := shared.NewPaginated(units, total, page, pageSize)
	return &paginated, nil
}

// Save creates or updates a unit
func (r *GormUnitRepository) Save(ctx context.Context, unit *portfolio.Unit) error {
	model := models.UnitModelFromDomain(unit)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a unit with optimistic locking (version check)
func (r *GormUnitRepository) SaveWithLock(ctx context.Context, unit *portfolio.Unit, expectedVersion int) error {
	model := models.UnitModelFromDomain(unit)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", unit.ID, expectedVersion).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The unit record has been modified by another transaction")
	}
	return nil
}

// DeleteForBusiness deletes a unit within a business
func (r *GormUnitRepository) DeleteForBusiness(ctx context.Context, id, businessID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UnitModel{}, "id = ? AND business_id = ?", id, businessID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForBusiness counts active units in a business
func (r *GormUnitRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UnitModel{}).
		Where("business_id = ? AND is_active = ?", businessID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormUnitRepository) applyFilterWithoutPagination(query *gorm.DB, filter portfolio.UnitFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("unit_number ILIKE ? OR notes ILIKE ?", searchPattern, searchPattern)
	}

	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	return query
}

// Ensure GormUnitRepository implements UnitRepository
var _ portfolio.UnitRepository = (*GormUnitRepository)(nil)
