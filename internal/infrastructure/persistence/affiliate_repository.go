package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/affiliate"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormAffiliateRepository implements AffiliateRepository using GORM
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewGormAffiliateRepository creates a new GormAffiliateRepository
func NewGormAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// FindByID finds an affiliate by its ID
func (r *GormAffiliateRepository) FindByID(ctx context.Context, id uuid.UUID) (*affiliate.Affiliate, error) {
	var model models.AffiliateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReferralCode finds an affiliate by its referral code
func (r *GormAffiliateRepository) FindByReferralCode(ctx context.Context, code string) (*affiliate.Affiliate, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_REFERRAL_CODE", "Referral code cannot be empty")
	}
	var model models.AffiliateModel
	if err := r.db.WithContext(ctx).
		Where("referral_code = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists affiliates matching the filter with pagination
func (r *GormAffiliateRepository) FindAll(ctx context.Context, filter affiliate.AffiliateFilter) (*shared.Paginated[*affiliate.Affiliate], error) {
	base := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.AffiliateModel{}), filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var affiliateModels []models.AffiliateModel
	query := base.Offset((page - 1) * pageSize).Limit(pageSize)
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, AffiliateSortFields, "name")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("name ASC")
	}

	if err := query.Find(&affiliateModels).Error; err != nil {
		return nil, err
	}

	affiliates := make([]*affiliate.Affiliate, len(affiliateModels))
	for i, model := range affiliateModels {
		affiliates[i] = model.ToDomain()
	}
	paginated := shared.NewPaginated(affiliates, total, page, pageSize)
	return &paginated, nil
}

// Save creates or updates an affiliate
func (r *GormAffiliateRepository) Save(ctx context.Context, a *affiliate.Affiliate) error {
	model := models.AffiliateModelFromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves an affiliate with optimistic locking (version check)
func (r *GormAffiliateRepository) SaveWithLock(ctx context.Context, a *affiliate.Affiliate, expectedVersion int) error {
	model := models.AffiliateModelFromDomain(a)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", a.ID, expectedVersion).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The affiliate record has been modified by another transaction")
	}
	return nil
}

// ExistsByReferralCode checks if an affiliate with the given code exists
func (r *GormAffiliateRepository) ExistsByReferralCode(ctx context.Context, code string) (bool, error) {
	if code == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AffiliateModel{}).
		Where("referral_code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormAffiliateRepository) applyFilterWithoutPagination(query *gorm.DB, filter affiliate.AffiliateFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR referral_code ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	return query
}

// Ensure GormAffiliateRepository implements AffiliateRepository
var _ affiliate.AffiliateRepository = (*GormAffiliateRepository)(nil)
