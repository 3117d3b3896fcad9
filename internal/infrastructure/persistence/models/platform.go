package models

import (
	"time"

	"github.com/google/uuid"
)

// PlatformSettingModel stores platform-wide configuration such as payment
// gateway credentials. Values are stored as JSON so each setting can carry
// its own shape.
type PlatformSettingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key       string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Value     []byte    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

// TableName returns the table name for GORM
func (PlatformSettingModel) TableName() string {
	return "platform_settings"
}
