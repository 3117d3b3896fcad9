// Package scope provides business-level database scoping for GORM.
//
// This package implements automatic business_id filtering to prevent
// cross-business data access at the repository layer. It extracts the
// business ID from the request context and automatically applies
// WHERE business_id = ? conditions to all queries.
//
// Usage:
//
//	db := scope.NewBusinessDB(gormDB)
//	scopedDB := db.WithContext(ctx) // automatically applies business filtering
//	scopedDB.Find(&units) // WHERE business_id = 'xxx' is auto-added
package scope

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/infrastructure/logger"
)

// ErrBusinessIDRequired is returned when business_id is required but not found
var ErrBusinessIDRequired = errors.New("business_id is required but not found in context")

// ErrInvalidBusinessID is returned when business_id format is invalid
var ErrInvalidBusinessID = errors.New("invalid business_id format")

// BusinessScope applies business filtering to GORM queries
func BusinessScope(businessID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("business_id = ?", businessID)
	}
}

// BusinessScopeString applies business filtering using a string business ID
func BusinessScopeString(businessID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("business_id = ?", businessID)
	}
}

// BusinessDB wraps GORM DB with automatic business scoping
type BusinessDB struct {
	db             *gorm.DB
	businessColumn string
	required       bool
}

// Config holds configuration for BusinessDB
type Config struct {
	// BusinessColumn is the name of the business ID column (default: "business_id")
	BusinessColumn string
	// Required determines if business_id is mandatory (default: true)
	Required bool
}

// DefaultConfig returns default BusinessDB configuration
func DefaultConfig() Config {
	return Config{
		BusinessColumn: "business_id",
		Required:       true,
	}
}

// NewBusinessDB creates a new BusinessDB with default configuration
func NewBusinessDB(db *gorm.DB) *BusinessDB {
	return NewBusinessDBWithConfig(db, DefaultConfig())
}

// NewBusinessDBWithConfig creates a new BusinessDB with custom configuration
func NewBusinessDBWithConfig(db *gorm.DB, cfg Config) *BusinessDB {
	if cfg.BusinessColumn == "" {
		cfg.BusinessColumn = "business_id"
	}
	return &BusinessDB{
		db:             db,
		businessColumn: cfg.BusinessColumn,
		required:       cfg.Required,
	}
}

// DB returns the underlying GORM DB without business scoping
// Use with caution - this bypasses business isolation
func (b *BusinessDB) DB() *gorm.DB {
	return b.db
}

// WithContext returns a GORM DB scoped to the business from context.
// It extracts business_id from the context (set by auth middleware)
// and automatically applies the business filter to all queries.
//
// If business_id is not found in context and Required is true, it returns
// a DB that will error on any operation.
func (b *BusinessDB) WithContext(ctx context.Context) *gorm.DB {
	businessID := logger.GetBusinessID(ctx)

	if businessID == "" {
		if b.required {
			// Return a DB that will error on execution
			db := b.db.WithContext(ctx)
			_ = db.AddError(ErrBusinessIDRequired)
			return db
		}
		// If not required, return DB without business scope
		return b.db.WithContext(ctx)
	}

	// Validate UUID format
	if _, err := uuid.Parse(businessID); err != nil {
		db := b.db.WithContext(ctx)
		_ = db.AddError(ErrInvalidBusinessID)
		return db
	}

	// Apply business scope
	return b.db.WithContext(ctx).Scopes(BusinessScopeString(businessID))
}

// WithBusiness returns a GORM DB scoped to a specific business ID.
// Use this when you have the business ID directly rather than from context.
func (b *BusinessDB) WithBusiness(businessID uuid.UUID) *gorm.DB {
	if businessID == uuid.Nil {
		if b.required {
			db := b.db
			_ = db.AddError(ErrBusinessIDRequired)
			return db
		}
		return b.db
	}
	return b.db.Scopes(BusinessScope(businessID))
}

// WithBusinessString returns a GORM DB scoped to a specific business ID string.
func (b *BusinessDB) WithBusinessString(businessID string) *gorm.DB {
	if businessID == "" {
		if b.required {
			db := b.db
			_ = db.AddError(ErrBusinessIDRequired)
			return db
		}
		return b.db
	}

	// Validate UUID format
	if _, err := uuid.Parse(businessID); err != nil {
		db := b.db
		_ = db.AddError(ErrInvalidBusinessID)
		return db
	}

	return b.db.Scopes(BusinessScopeString(businessID))
}

// ForBusiness creates a scoped DB bound to both a context and a business ID.
// This is useful for creating a scoped DB that can be passed around.
func (b *BusinessDB) ForBusiness(ctx context.Context, businessID uuid.UUID) *gorm.DB {
	return b.db.WithContext(ctx).Scopes(BusinessScope(businessID))
}

// Transaction executes a function within a database transaction with business scope
func (b *BusinessDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	businessID := logger.GetBusinessID(ctx)

	if businessID == "" && b.required {
		return ErrBusinessIDRequired
	}

	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if businessID != "" {
			tx = tx.Scopes(BusinessScopeString(businessID))
		}
		return fn(tx)
	})
}

// Unscoped returns the underlying DB without any business scoping.
// WARNING: Use this with extreme caution as it bypasses business isolation.
// This should only be used for platform-level operations or migrations.
func (b *BusinessDB) Unscoped() *gorm.DB {
	return b.db
}

// SetRequired changes whether business_id is required
func (b *BusinessDB) SetRequired(required bool) *BusinessDB {
	return &BusinessDB{
		db:             b.db,
		businessColumn: b.businessColumn,
		required:       required,
	}
}
