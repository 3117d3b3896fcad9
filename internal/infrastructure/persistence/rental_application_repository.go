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

// GormRentalApplicationRepository implements RentalApplicationRepository using GORM
type GormRentalApplicationRepository struct {
	db *gorm.DB
}

// NewGormRentalApplicationRepository creates a new GormRentalApplicationRepository
func NewGormRentalApplicationRepository(db *gorm.DB) *GormRentalApplicationRepository {
	return &GormRentalApplicationRepository{db: db}
}

// FindByID finds a rental application by its ID
func (r *GormRentalApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.RentalApplication, error) {
	var model models.RentalApplicationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBusiness finds a rental application by ID within a business
func (r *GormRentalApplicationRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*leasing.RentalApplication, error) {
	var model models.RentalApplicationModel
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

// FindAllForBusiness lists rental applications for a business with pagination
func (r *GormRentalApplicationRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter leasing.ApplicationFilter) (*shared.Paginated[*leasing.RentalApplication], error) {
	base := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.RentalApplicationModel{}).Where("business_id = ?", businessID),
		filter,
	)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var applicationModels []models.RentalApplicationModel
	query := base.Offset((page - 1) * pageSize).Limit(pageSize)
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, ApplicationSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	if err := query.Find(&applicationModels).Error; err != nil {
		return nil, err
	}

	applications := make([]*leasing.RentalApplication, len(applicationModels))
	for i, model := range applicationModels {
		applications[i] = model.ToDomain()
	}
	paginated := shared.NewPaginated(applications, total, page, pageSize)
	return &paginated, nil
}

// Save creates or updates a rental application
func (r *GormRentalApplicationRepository) Save(ctx context.Context, application *leasing.RentalApplication) error {
	model := models.RentalApplicationModelFromDomain(application)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a rental application with optimistic locking (version check)
func (r *GormRentalApplicationRepository) SaveWithLock(ctx context.Context, application *leasing.RentalApplication, expectedVersion int) error {
	model := models.RentalApplicationModelFromDomain(application)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", application.ID, expectedVersion).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The application record has been modified by another transaction")
	}
	return nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormRentalApplicationRepository) applyFilterWithoutPagination(query *gorm.DB, filter leasing.ApplicationFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("applicant_name ILIKE ? OR applicant_email ILIKE ?", searchPattern, searchPattern)
	}

	if filter.UnitID != nil {
		query = query.Where("unit_id = ?", *filter.UnitID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ReferralCode != nil {
		query = query.Where("referral_code = ?", *filter.ReferralCode)
	}

	return query
}

// Ensure GormRentalApplicationRepository implements RentalApplicationRepository
var _ leasing.RentalApplicationRepository = (*GormRentalApplicationRepository)(nil)
