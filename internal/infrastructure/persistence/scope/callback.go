package scope

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentfold/backend/internal/infrastructure/logger"
)

// BusinessCallback provides GORM callback hooks for automatic business filtering
type BusinessCallback struct {
	businessColumn string
	required       bool
}

// NewBusinessCallback creates a new business callback handler
func NewBusinessCallback(businessColumn string, required bool) *BusinessCallback {
	if businessColumn == "" {
		businessColumn = "business_id"
	}
	return &BusinessCallback{
		businessColumn: businessColumn,
		required:       required,
	}
}

// RegisterCallbacks registers business callbacks with GORM
func (bc *BusinessCallback) RegisterCallbacks(db *gorm.DB) {
	// Register query callback - add business filter
	_ = db.Callback().Query().Before("gorm:query").Register("business:before_query", bc.beforeQuery)

	// Register update callback - ensure business filter
	_ = db.Callback().Update().Before("gorm:update").Register("business:before_update", bc.beforeUpdate)

	// Register delete callback - ensure business filter
	_ = db.Callback().Delete().Before("gorm:delete").Register("business:before_delete", bc.beforeDelete)

	// Register row query callback - add business filter
	_ = db.Callback().Row().Before("gorm:row").Register("business:before_row", bc.beforeQuery)

	// Note: Create callback is not registered because business_id should be set
	// explicitly by the application when creating entities
}

// beforeQuery adds business filter to SELECT queries
func (bc *BusinessCallback) beforeQuery(db *gorm.DB) {
	bc.addBusinessFilter(db)
}

// beforeUpdate adds business filter to UPDATE queries
func (bc *BusinessCallback) beforeUpdate(db *gorm.DB) {
	bc.addBusinessFilter(db)
}

// beforeDelete adds business filter to DELETE queries
func (bc *BusinessCallback) beforeDelete(db *gorm.DB) {
	bc.addBusinessFilter(db)
}

// addBusinessFilter adds business filtering to the query
func (bc *BusinessCallback) addBusinessFilter(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}

	// Skip if unscoped
	if db.Statement.Unscoped {
		return
	}

	// Skip if already has business condition
	if bc.hasBusinessCondition(db) {
		return
	}

	// Get business ID from context
	businessID := logger.GetBusinessID(db.Statement.Context)
	if businessID == "" {
		if bc.required {
			_ = db.AddError(ErrBusinessIDRequired)
		}
		return
	}

	// Validate UUID format
	if _, err := uuid.Parse(businessID); err != nil {
		_ = db.AddError(ErrInvalidBusinessID)
		return
	}

	// Add business filter using GORM's clause
	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: bc.businessColumn},
				Value:  businessID,
			},
		},
	})
}

// hasBusinessCondition checks if business_id condition is already present
func (bc *BusinessCallback) hasBusinessCondition(db *gorm.DB) bool {
	// Check if there's a manual scope applied via Unscoped
	if db.Statement.Unscoped {
		return true
	}

	// Check existing where clauses for business_id
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if bc.exprContainsBusiness(expr) {
					return true
				}
			}
		}
	}

	// Also check the built SQL if available
	sql := db.Statement.SQL.String()
	if sql != "" && strings.Contains(sql, bc.businessColumn) {
		return true
	}

	return false
}

// exprContainsBusiness checks if an expression contains business_id column
func (bc *BusinessCallback) exprContainsBusiness(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == bc.businessColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == bc.businessColumn
		}
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if bc.exprContainsBusiness(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if bc.exprContainsBusiness(cond) {
				return true
			}
		}
	}
	return false
}

// EnableAutoBusinessFilter enables automatic business filtering on a GORM DB instance
// This registers callbacks that automatically add business_id filtering to all queries
func EnableAutoBusinessFilter(db *gorm.DB, required bool) {
	bc := NewBusinessCallback("business_id", required)
	bc.RegisterCallbacks(db)
}

// DisableAutoBusinessFilter removes the business callbacks (not recommended in production)
func DisableAutoBusinessFilter(db *gorm.DB) {
	// Note: GORM doesn't provide a clean way to remove callbacks
	// This is mainly for testing purposes
	_ = db.Callback().Query().Remove("business:before_query")
	_ = db.Callback().Update().Remove("business:before_update")
	_ = db.Callback().Delete().Remove("business:before_delete")
	_ = db.Callback().Row().Remove("business:before_row")
}
