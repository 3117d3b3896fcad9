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

// GormPropertyRepository implements PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID finds a property by its ID
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Property, error) {
	var model models.PropertyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBusiness finds a property by ID within a business
func (r *GormPropertyRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*portfolio.Property, error) {
	var model models.PropertyModel
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

// FindAllForBusiness lists properties for a business with pagination
func (r *GormPropertyRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter portfolio.PropertyFilter) (*shared.Paginated[*portfolio.Property], error) {
	base := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.PropertyModel{}).Where("business_id = ?", businessID),
		filter,
	)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var propertyModels []models.PropertyModel
	query := base.Offset((page - 1) * pageSize).Limit(pageSize)
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, PropertySortFields, "name")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("name ASC")
	}

	if err := query.Find(&propertyModels).Error; err != nil {
		return nil, err
	}

	properties := make([]*portfolio.Property, len(propertyModels))
	for i, model := range propertyModels {
		properties[i] = model.ToDomain()
	}
	paginated := shared.NewPaginated(properties, total, page, pageSize)
	return &paginated, nil
}

// Save creates or updates a property
func (r *GormPropertyRepository) Save(ctx context.Context, property *portfolio.Property) error {
	model := models.PropertyModelFromDomain(property)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a property with optimistic locking (version check)
func (r *GormPropertyRepository) SaveWithLock(ctx context.Context, property *portfolio.Property, expectedVersion int) error {
	model := models.PropertyModelFromDomain(property)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", property.ID, expectedVersion).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The property record has been modified by another transaction")
	}
	return nil
}

// DeleteForBusiness deletes a property within a business
func (r *GormPropertyRepository) DeleteForBusiness(ctx context.Context, id, businessID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PropertyModel{}, "id = ? AND business_id = ?", id, businessID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForBusiness counts active properties in a business
func (r *GormPropertyRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PropertyModel{}).
		Where("business_id = ? AND is_active = ?", businessID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPropertyRepository) applyFilterWithoutPagination(query *gorm.DB, filter portfolio.PropertyFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR address->>'street' ILIKE ? OR address->>'city' ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	return query
}

// Ensure GormPropertyRepository implements PropertyRepository
var _ portfolio.PropertyRepository = (*GormPropertyRepository)(nil)
