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

// GormPackageTierRepository implements PackageTierRepository using GORM
type GormPackageTierRepository struct {
	db *gorm.DB
}

// NewGormPackageTierRepository creates a new GormPackageTierRepository
func NewGormPackageTierRepository(db *gorm.DB) *GormPackageTierRepository {
	return &GormPackageTierRepository{db: db}
}

// FindByID finds a tier by its ID
func (r *GormPackageTierRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PackageTier, error) {
	var model models.PackageTierModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a tier by its code
func (r *GormPackageTierRepository) FindByCode(ctx context.Context, code billing.TierCode) (*billing.PackageTier, error) {
	var model models.PackageTierModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns the tier catalog ordered by price
func (r *GormPackageTierRepository) FindAll(ctx context.Context, includeInactive bool) ([]*billing.PackageTier, error) {
	query := r.db.WithContext(ctx).Model(&models.PackageTierModel{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var tierModels []models.PackageTierModel
	if err := query.Order("monthly_price_cents ASC").Find(&tierModels).Error; err != nil {
		return nil, err
	}

	tiers := make([]*billing.PackageTier, len(tierModels))
	for i, model := range tierModels {
		tiers[i] = model.ToDomain()
	}
	return tiers, nil
}

// Save creates or updates a tier
func (r *GormPackageTierRepository) Save(ctx context.Context, tier *billing.PackageTier) error {
	model := models.PackageTierModelFromDomain(tier)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormPackageTierRepository implements PackageTierRepository
var _ billing.PackageTierRepository = (*GormPackageTierRepository)(nil)
