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

// GormMaintenanceRequestRepository implements MaintenanceRequestRepository using GORM
type GormMaintenanceRequestRepository struct {
	db *gorm.DB
}

// NewGormMaintenanceRequestRepository creates a new GormMaintenanceRequestRepository
func NewGormMaintenanceRequestRepository(db *gorm.DB) *GormMaintenanceRequestRepository {
	return &GormMaintenanceRequestRepository{db: db}
}

// FindByID finds a maintenance request by its ID
func (r *GormMaintenanceRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.MaintenanceRequest, error) {
	var model models.MaintenanceRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBusiness finds a maintenance request by ID within a business
func (r *GormMaintenanceRequestRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*leasing.MaintenanceRequest, error) {
	var model models.MaintenanceRequestModel
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

// FindAllForBusiness lists maintenance requests for a business with pagination
func (r *GormMaintenanceRequestRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter leasing.MaintenanceFilter) (*shared.Paginated[*leasing.MaintenanceRequest], error) {
	base := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.MaintenanceRequestModel{}).Where("business_id = ?", businessID),
		filter,
	)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var requestModels []models.MaintenanceRequestModel
	query := base.Offset((page - 1) * pageSize).Limit(pageSize)
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, MaintenanceSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}

	requests := make([]*leasing.MaintenanceRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = model.ToDomain()
	}
	paginated := shared.NewPaginated(requests, total, page, pageSize)
	return &paginated, nil
}

// Save creates or updates a maintenance request
func (r *GormMaintenanceRequestRepository) Save(ctx context.Context, request *leasing.MaintenanceRequest) error {
	model := models.MaintenanceRequestModelFromDomain(request)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a maintenance request with optimistic locking (version check)
func (r *GormMaintenanceRequestRepository) SaveWithLock(ctx context.Context, request *leasing.MaintenanceRequest, expectedVersion int) error {
	model := models.MaintenanceRequestModelFromDomain(request)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", request.ID, expectedVersion).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The maintenance request has been modified by another transaction")
	}
	return nil
}

// CountOpenForBusiness counts requests still awaiting work in a business
func (r *GormMaintenanceRequestRepository) CountOpenForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MaintenanceRequestModel{}).
		Where("business_id = ? AND status IN ?", businessID,
			[]leasing.MaintenanceStatus{leasing.MaintenanceStatusOpen, leasing.MaintenanceStatusInProgress}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMaintenanceRequestRepository) applyFilterWithoutPagination(query *gorm.DB, filter leasing.MaintenanceFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	if filter.UnitID != nil {
		query = query.Where("unit_id = ?", *filter.UnitID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}

	return query
}

// Ensure GormMaintenanceRequestRepository implements MaintenanceRequestRepository
var _ leasing.MaintenanceRequestRepository = (*GormMaintenanceRequestRepository)(nil)
