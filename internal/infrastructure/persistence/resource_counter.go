package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	billingapp "github.com/rentfold/backend/internal/application/billing"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormResourceCounter counts limited resources for entitlement checks.
// Only active rows count against tier limits.
type GormResourceCounter struct {
	db *gorm.DB
}

// NewGormResourceCounter creates a new GormResourceCounter
func NewGormResourceCounter(db *gorm.DB) *GormResourceCounter {
	return &GormResourceCounter{db: db}
}

// CountProperties counts active properties in a business
func (r *GormResourceCounter) CountProperties(ctx context.Context, businessID uuid.UUID) (int64, error) {
	return r.countActive(ctx, &models.PropertyModel{}, businessID)
}

// CountUnits counts active units in a business
func (r *GormResourceCounter) CountUnits(ctx context.Context, businessID uuid.UUID) (int64, error) {
	return r.countActive(ctx, &models.UnitModel{}, businessID)
}

// CountTenants counts active tenants in a business
func (r *GormResourceCounter) CountTenants(ctx context.Context, businessID uuid.UUID) (int64, error) {
	return r.countActive(ctx, &models.TenantModel{}, businessID)
}

func (r *GormResourceCounter) countActive(ctx context.Context, model interface{}, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("business_id = ? AND is_active = ?", businessID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormResourceCounter implements ResourceCounter
var _ billingapp.ResourceCounter = (*GormResourceCounter)(nil)
