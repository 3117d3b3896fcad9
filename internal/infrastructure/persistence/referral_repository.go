package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/affiliate"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormReferralRepository implements ReferralRepository using GORM
type GormReferralRepository struct {
	db *gorm.DB
}

// NewGormReferralRepository creates a new GormReferralRepository
func NewGormReferralRepository(db *gorm.DB) *GormReferralRepository {
	return &GormReferralRepository{db: db}
}

// FindByID finds a referral by its ID
func (r *GormReferralRepository) FindByID(ctx context.Context, id uuid.UUID) (*affiliate.Referral, error) {
	var model models.ReferralModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBusiness finds the referral credited for a business signup.
// A business carries at most one referral.
func (r *GormReferralRepository) FindByBusiness(ctx context.Context, businessID uuid.UUID) (*affiliate.Referral, error) {
	var model models.ReferralModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAffiliate lists referrals credited to an affiliate with pagination
func (r *GormReferralRepository) FindByAffiliate(ctx context.Context, affiliateID uuid.UUID, filter affiliate.ReferralFilter) (*shared.Paginated[*affiliate.Referral], error) {
	base := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.ReferralModel{}).Where("affiliate_id = ?", affiliateID),
		filter,
	)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var referralModels []models.ReferralModel
	query := base.Offset((page - 1) * pageSize).Limit(pageSize)
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, ReferralSortFields, "signup_date")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("signup_date DESC")
	}

	if err := query.Find(&referralModels).Error; err != nil {
		return nil, err
	}

	referrals := make([]*affiliate.Referral, len(referralModels))
	for i, model := range referralModels {
		referrals[i] = model.ToDomain()
	}
	paginated := shared.NewPaginated(referrals, total, page, pageSize)
	return &paginated, nil
}

// Save creates or updates a referral
func (r *GormReferralRepository) Save(ctx context.Context, referral *affiliate.Referral) error {
	model := models.ReferralModelFromDomain(referral)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a referral with optimistic locking (version check)
func (r *GormReferralRepository) SaveWithLock(ctx context.Context, referral *affiliate.Referral, expectedVersion int) error {
	model := models.ReferralModelFromDomain(referral)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", referral.ID, expectedVersion).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The referral record has been modified by another transaction")
	}
	return nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReferralRepository) applyFilterWithoutPagination(query *gorm.DB, filter affiliate.ReferralFilter) *gorm.DB {
	if filter.Converted != nil {
		query = query.Where("converted = ?", *filter.Converted)
	}
	if filter.PayoutApproved != nil {
		query = query.Where("payout_approved = ?", *filter.PayoutApproved)
	}

	return query
}

// Ensure GormReferralRepository implements ReferralRepository
var _ affiliate.ReferralRepository = (*GormReferralRepository)(nil)
