package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormAIAPIKeyRepository implements AIAPIKeyRepository using GORM
type GormAIAPIKeyRepository struct {
	db *gorm.DB
}

// NewGormAIAPIKeyRepository creates a new GormAIAPIKeyRepository
func NewGormAIAPIKeyRepository(db *gorm.DB) *GormAIAPIKeyRepository {
	return &GormAIAPIKeyRepository{db: db}
}

// FindByID finds a key by its ID
func (r *GormAIAPIKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.AIAPIKey, error) {
	var model models.AIAPIKeyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBusiness finds a key by ID within a business
func (r *GormAIAPIKeyRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*billing.AIAPIKey, error) {
	var model models.AIAPIKeyModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForBusiness lists keys for a business
func (r *GormAIAPIKeyRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]*billing.AIAPIKey, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AIAPIKeyModel{}).
		Where("business_id = ?", businessID)

	for key, value := range filter.Filters {
		switch key {
		case "provider":
			query = query.Where("provider = ?", value)
		case "include_inactive":
			// handled below
		}
	}
	if v, ok := filter.Filters["include_inactive"]; !ok || v != true {
		query = query.Where("is_active = ?", true)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var keyModels []models.AIAPIKeyModel
	if err := query.Order("created_at DESC").Find(&keyModels).Error; err != nil {
		return nil, err
	}

	keys := make([]*billing.AIAPIKey, len(keyModels))
	for i, model := range keyModels {
		keys[i] = model.ToDomain()
	}
	return keys, nil
}

// Save creates or updates a key
func (r *GormAIAPIKeyRepository) Save(ctx context.Context, key *billing.AIAPIKey) error {
	model := models.AIAPIKeyModelFromDomain(key)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForBusiness soft deletes a key within a business
func (r *GormAIAPIKeyRepository) DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.AIAPIKeyModel{}).
		Where("business_id = ? AND id = ?", businessID, id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAIAPIKeyRepository implements AIAPIKeyRepository
var _ billing.AIAPIKeyRepository = (*GormAIAPIKeyRepository)(nil)
