package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormLeaseRepository implements LeaseRepository using GORM
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

// FindByID finds a lease by its ID
func (r *GormLeaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Lease, error) {
	var model models.LeaseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBusiness finds a lease by ID within a business
func (r *GormLeaseRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*leasing.Lease, error) {
	var model models.LeaseModel
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

// FindOpenByUnit finds the draft or active lease on a unit, if any
func (r *GormLeaseRepository) FindOpenByUnit(ctx context.Context, unitID uuid.UUID) (*leasing.Lease, error) {
	var model models.LeaseModel
	if err := r.db.WithContext(ctx).
		Where("unit_id = ? AND status IN ?", unitID, []leasing.LeaseStatus{leasing.LeaseStatusDraft, leasing.LeaseStatusActive}).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindExpiredActive finds active fixed-term leases whose end date has passed
func (r *GormLeaseRepository) FindExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]*leasing.Lease, error) {
	var leaseModels []models.LeaseModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND month_to_month = ? AND end_date IS NOT NULL AND end_date < ?",
			leasing.LeaseStatusActive, false, cutoff).
		Order("end_date ASC").
		Limit(limit).
		Find(&leaseModels).Error; err != nil {
		return nil, err
	}

	leases := make([]*leasing.Lease, len(leaseModels))
	for i, model := range leaseModels {
		leases[i] = model.ToDomain()
	}
	return leases, nil
}

// FindAllForBusiness lists leases for a business with pagination
func (r *GormLeaseRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter leasing.LeaseFilter) (*shared.Paginated[*leasing.Lease], error) {
	base := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.LeaseModel{}).Where("business_id = ?", businessID),
		filter,
	)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var leaseModels []models.LeaseModel
	query := base.Offset((page - 1) * pageSize).Limit(pageSize)
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, LeaseSortFields, "start_date")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("start_date DESC")
	}

	if err := query.Find(&leaseModels).Error; err != nil {
		return nil, err
	}

	leases := make([]*leasing.Lease, len(leaseModels))
	for i, model := range leaseModels {
		leases[i] = model.ToDomain()
	}
	paginated := shared.NewPaginated(leases, total, page, pageSize)
	return &paginated, nil
}

// Save creates or updates a lease
func (r *GormLeaseRepository) Save(ctx context.Context, lease *leasing.Lease) error {
	model := models.LeaseModelFromDomain(lease)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a lease with optimistic locking (version check)
func (r *GormLeaseRepository) SaveWithLock(ctx context.Context, lease *leasing.Lease, expectedVersion int) error {
	model := models.LeaseModelFromDomain(lease)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", lease.ID, expectedVersion).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The lease record has been modified by another transaction")
	}
	return nil
}

// CountForBusiness counts active leases in a business
func (r *GormLeaseRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LeaseModel{}).
		Where("business_id = ? AND status = ?", businessID, leasing.LeaseStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormLeaseRepository) applyFilterWithoutPagination(query *gorm.DB, filter leasing.LeaseFilter) *gorm.DB {
	if filter.UnitID != nil {
		query = query.Where("unit_id = ?", *filter.UnitID)
	}
	if filter.TenantID != nil {
		query = query.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	return query
}

// Ensure GormLeaseRepository implements LeaseRepository
var _ leasing.LeaseRepository = (*GormLeaseRepository)(nil)
