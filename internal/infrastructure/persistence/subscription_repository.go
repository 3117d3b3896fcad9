package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindByID finds a subscription by its ID
func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBusiness finds the current subscription for a business
func (r *GormSubscriptionRepository) FindByBusiness(ctx context.Context, businessID uuid.UUID) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND is_active = ?", businessID, true).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindExpired finds usable subscriptions whose period ended before the cutoff
func (r *GormSubscriptionRepository) FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]*billing.Subscription, error) {
	var subscriptionModels []models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND period_end < ?",
			[]billing.SubscriptionStatus{billing.SubscriptionStatusTrialing, billing.SubscriptionStatusActive}, cutoff).
		Order("period_end ASC").
		Limit(limit).
		Find(&subscriptionModels).Error; err != nil {
		return nil, err
	}

	subscriptions := make([]*billing.Subscription, len(subscriptionModels))
	for i, model := range subscriptionModels {
		subscriptions[i] = model.ToDomain()
	}
	return subscriptions, nil
}

// FindUsable lists trialing and active subscriptions in batches
func (r *GormSubscriptionRepository) FindUsable(ctx context.Context, limit, offset int) ([]*billing.Subscription, error) {
	var subscriptionModels []models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("status IN ?",
			[]billing.SubscriptionStatus{billing.SubscriptionStatusTrialing, billing.SubscriptionStatusActive}).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&subscriptionModels).Error; err != nil {
		return nil, err
	}

	subscriptions := make([]*billing.Subscription, len(subscriptionModels))
	for i, model := range subscriptionModels {
		subscriptions[i] = model.ToDomain()
	}
	return subscriptions, nil
}

// FindAll lists subscriptions across businesses
func (r *GormSubscriptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*billing.Subscription, error) {
	var subscriptionModels []models.SubscriptionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SubscriptionModel{}), filter)

	if err := query.Find(&subscriptionModels).Error; err != nil {
		return nil, err
	}

	subscriptions := make([]*billing.Subscription, len(subscriptionModels))
	for i, model := range subscriptionModels {
		subscriptions[i] = model.ToDomain()
	}
	return subscriptions, nil
}

// Save creates or updates a subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, sub *billing.Subscription) error {
	model := models.SubscriptionModelFromDomain(sub)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a subscription with optimistic locking (version check)
func (r *GormSubscriptionRepository) SaveWithLock(ctx context.Context, sub *billing.Subscription, expectedVersion int) error {
	model := models.SubscriptionModelFromDomain(sub)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", sub.ID, expectedVersion).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The subscription record has been modified by another transaction")
	}
	return nil
}

// Count counts subscriptions matching the filter
func (r *GormSubscriptionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.SubscriptionModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSubscriptionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, SubscriptionSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSubscriptionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "tier_code":
			query = query.Where("tier_code = ?", value)
		case "business_id":
			query = query.Where("business_id = ?", value)
		}
	}

	return query
}

// Ensure GormSubscriptionRepository implements SubscriptionRepository
var _ billing.SubscriptionRepository = (*GormSubscriptionRepository)(nil)
