package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormPlatformSettingRepository stores platform-wide settings such as payment
// gateway credentials as JSON values keyed by name.
type GormPlatformSettingRepository struct {
	db *gorm.DB
}

// NewGormPlatformSettingRepository creates a new GormPlatformSettingRepository
func NewGormPlatformSettingRepository(db *gorm.DB) *GormPlatformSettingRepository {
	return &GormPlatformSettingRepository{db: db}
}

// Get returns the raw JSON value stored under the given key
func (r *GormPlatformSettingRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, shared.NewDomainError("INVALID_SETTING_KEY", "Setting key cannot be empty")
	}
	var model models.PlatformSettingModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.Value, nil
}

// Set upserts the raw JSON value stored under the given key
func (r *GormPlatformSettingRepository) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return shared.NewDomainError("INVALID_SETTING_KEY", "Setting key cannot be empty")
	}

	now := time.Now()
	var model models.PlatformSettingModel
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&model).Error
	switch {
	case err == nil:
		model.Value = value
		model.UpdatedAt = now
	case errors.Is(err, gorm.ErrRecordNotFound):
		model = models.PlatformSettingModel{
			ID:        uuid.New(),
			Key:       key,
			Value:     value,
			CreatedAt: now,
			UpdatedAt: now,
		}
	default:
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}
