package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/identity"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormBusinessRepository implements BusinessRepository using GORM
type GormBusinessRepository struct {
	db *gorm.DB
}

// NewGormBusinessRepository creates a new GormBusinessRepository
func NewGormBusinessRepository(db *gorm.DB) *GormBusinessRepository {
	return &GormBusinessRepository{db: db}
}

// FindByID finds a business by its ID
func (r *GormBusinessRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Business, error) {
	var model models.BusinessModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a business by its unique slug
func (r *GormBusinessRepository) FindBySlug(ctx context.Context, slug string) (*identity.Business, error) {
	var model models.BusinessModel
	if err := r.db.WithContext(ctx).
		Where("slug = ?", strings.ToLower(slug)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists businesses matching the filter
func (r *GormBusinessRepository) FindAll(ctx context.Context, filter identity.BusinessFilter) ([]*identity.Business, error) {
	var businessModels []models.BusinessModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BusinessModel{}), filter)

	if err := query.Find(&businessModels).Error; err != nil {
		return nil, err
	}

	businesses := make([]*identity.Business, len(businessModels))
	for i, model := range businessModels {
		businesses[i] = model.ToDomain()
	}
	return businesses, nil
}

// Save creates or updates a business
func (r *GormBusinessRepository) Save(ctx context.Context, business *identity.Business) error {
	model := models.BusinessModelFromDomain(business)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a business with optimistic locking (version check)
func (r *GormBusinessRepository) SaveWithLock(ctx context.Context, business *identity.Business, expectedVersion int) error {
	model := models.BusinessModelFromDomain(business)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", business.ID, expectedVersion).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The business record has been modified by another transaction")
	}
	return nil
}

// Count counts businesses matching the filter
func (r *GormBusinessRepository) Count(ctx context.Context, filter identity.BusinessFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.BusinessModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySlug checks if a business with the given slug exists
func (r *GormBusinessRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BusinessModel{}).
		Where("slug = ?", strings.ToLower(slug)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormBusinessRepository) applyFilter(query *gorm.DB, filter identity.BusinessFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, BusinessSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBusinessRepository) applyFilterWithoutPagination(query *gorm.DB, filter identity.BusinessFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR slug ILIKE ? OR contact_email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ReferralCode != nil {
		query = query.Where("referral_code = ?", *filter.ReferralCode)
	}
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	return query
}

// Ensure GormBusinessRepository implements BusinessRepository
var _ identity.BusinessRepository = (*GormBusinessRepository)(nil)
