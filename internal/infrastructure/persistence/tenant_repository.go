package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormTenantRepository implements TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBusiness finds a tenant by ID within a business
func (r *GormTenantRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*leasing.Tenant, error) {
	var model models.TenantModel
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

// FindAllForBusiness lists tenants for a business with pagination
func (r *GormTenantRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter leasing.TenantFilter) (*shared.Paginated[*leasing.Tenant], error) {
	base := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.TenantModel{}).Where("business_id = ?", businessID),
		filter,
	)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var tenantModels []models.TenantModel
	query := base.Offset((page - 1) * pageSize).Limit(pageSize)
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, TenantSortFields, "last_name")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("last_name ASC, first_name ASC")
	}

	if err := query.Find(&tenantModels).Error; err != nil {
		return nil, err
	}

	tenants := make([]*leasing.Tenant, len(tenantModels))
	for i, model := range tenantModels {
		tenants[i] = model.ToDomain()
	}
	paginated := shared.NewPaginated(tenants, total, page, pageSize)
	return &paginated, nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *leasing.Tenant) error {
	model := models.TenantModelFromDomain(tenant)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a tenant with optimistic locking (version check)
func (r *GormTenantRepository) SaveWithLock(ctx context.Context, tenant *leasing.Tenant, expectedVersion int) error {
	model := models.TenantModelFromDomain(tenant)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", tenant.ID, expectedVersion).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The tenant record has been modified by another transaction")
	}
	return nil
}

// DeleteForBusiness deletes a tenant within a business
func (r *GormTenantRepository) DeleteForBusiness(ctx context.Context, id, businessID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TenantModel{}, "id = ? AND business_id = ?", id, businessID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForBusiness counts active tenants in a business
func (r *GormTenantRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TenantModel{}).
		Where("business_id = ? AND is_active = ?", businessID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTenantRepository) applyFilterWithoutPagination(query *gorm.DB, filter leasing.TenantFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	if filter.UnitID != nil {
		query = query.Where("current_unit_id = ?", *filter.UnitID)
	}
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	return query
}

// Ensure GormTenantRepository implements TenantRepository
var _ leasing.TenantRepository = (*GormTenantRepository)(nil)
