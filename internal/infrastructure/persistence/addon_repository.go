package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormAddOnRepository implements AddOnRepository using GORM
type GormAddOnRepository struct {
	db *gorm.DB
}

// NewGormAddOnRepository creates a new GormAddOnRepository
func NewGormAddOnRepository(db *gorm.DB) *GormAddOnRepository {
	return &GormAddOnRepository{db: db}
}

// FindByKey finds an add-on by its key
func (r *GormAddOnRepository) FindByKey(ctx context.Context, key string) (*billing.AddOn, error) {
	if key == "" {
		return nil, shared.NewDomainError("INVALID_ADDON_KEY", "Add-on key cannot be empty")
	}
	var model models.AddOnModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByKeys finds multiple add-ons by key
func (r *GormAddOnRepository) FindByKeys(ctx context.Context, keys []string) ([]*billing.AddOn, error) {
	if len(keys) == 0 {
		return []*billing.AddOn{}, nil
	}

	var addonModels []models.AddOnModel
	if err := r.db.WithContext(ctx).
		Where("key IN ?", keys).
		Find(&addonModels).Error; err != nil {
		return nil, err
	}

	addons := make([]*billing.AddOn, len(addonModels))
	for i, model := range addonModels {
		addons[i] = model.ToDomain()
	}
	return addons, nil
}

// FindAll returns the add-on catalog
func (r *GormAddOnRepository) FindAll(ctx context.Context, includeInactive bool) ([]*billing.AddOn, error) {
	query := r.db.WithContext(ctx).Model(&models.AddOnModel{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var addonModels []models.AddOnModel
	if err := query.Order("name ASC").Find(&addonModels).Error; err != nil {
		return nil, err
	}

	addons := make([]*billing.AddOn, len(addonModels))
	for i, model := range addonModels {
		addons[i] = model.ToDomain()
	}
	return addons, nil
}

// Save creates or updates an add-on
func (r *GormAddOnRepository) Save(ctx context.Context, addon *billing.AddOn) error {
	model := models.AddOnModelFromDomain(addon)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormAddOnRepository implements AddOnRepository
var _ billing.AddOnRepository = (*GormAddOnRepository)(nil)
