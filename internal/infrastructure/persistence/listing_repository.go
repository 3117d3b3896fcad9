package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/listing"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormListingRepository implements ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID finds a listing by its ID
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	var model models.ListingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBusiness finds a listing by ID within a business
func (r *GormListingRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*listing.Listing, error) {
	var model models.ListingModel
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

// FindByUnit lists all listings created for a unit
func (r *GormListingRepository) FindByUnit(ctx context.Context, unitID, businessID uuid.UUID) ([]*listing.Listing, error) {
	var listingModels []models.ListingModel
	if err := r.db.WithContext(ctx).
		Where("unit_id = ? AND business_id = ?", unitID, businessID).
		Order("created_at DESC").
		Find(&listingModels).Error; err != nil {
		return nil, err
	}

	listings := make([]*listing.Listing, len(listingModels))
	for i, model := range listingModels {
		listings[i] = model.ToDomain()
	}
	return listings, nil
}

// FindPublished lists published listings for a business with pagination
func (r *GormListingRepository) FindPublished(ctx context.Context, businessID uuid.UUID, filter listing.ListingFilter) (*shared.Paginated[*listing.Listing], error) {
	published := listing.ListingStatusPublished
	filter.Status = &published
	return r.FindAllForBusiness(ctx, businessID, filter)
}

// FindAllForBusiness lists listings for a business with pagination
func (r *GormListingRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter listing.ListingFilter) (*shared.Paginated[*listing.Listing], error) {
	base := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.ListingModel{}).Where("business_id = ?", businessID),
		filter,
	)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var listingModels []models.ListingModel
	query := base.Offset((page - 1) * pageSize).Limit(pageSize)
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, ListingSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	if err := query.Find(&listingModels).Error; err != nil {
		return nil, err
	}

	listings := make([]*listing.Listing, len(listingModels))
	for i, model := range listingModels {
		listings[i] = model.ToDomain()
	}
	paginated := shared.NewPaginated(listings, total, page, pageSize)
	return &paginated, nil
}

// Save creates or updates a listing
func (r *GormListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	model := models.ListingModelFromDomain(l)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a listing with optimistic locking (version check)
func (r *GormListingRepository) SaveWithLock(ctx context.Context, l *listing.Listing, expectedVersion int) error {
	model := models.ListingModelFromDomain(l)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", l.ID, expectedVersion).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The listing record has been modified by another transaction")
	}
	return nil
}

// DeleteForBusiness deletes a listing within a business
func (r *GormListingRepository) DeleteForBusiness(ctx context.Context, id, businessID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ListingModel{}, "id = ? AND business_id = ?", id, businessID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormListingRepository) applyFilterWithoutPagination(query *gorm.DB, filter listing.ListingFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("headline ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	if filter.UnitID != nil {
		query = query.Where("unit_id = ?", *filter.UnitID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.MaxRentCents != nil {
		query = query.Where("monthly_rent_cents <= ?", *filter.MaxRentCents)
	}

	return query
}

// Ensure GormListingRepository implements ListingRepository
var _ listing.ListingRepository = (*GormListingRepository)(nil)
