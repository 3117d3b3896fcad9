package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/finance"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormBudgetRepository implements BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// FindByID finds a budget by its ID
func (r *GormBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Budget, error) {
	var model models.BudgetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBusiness finds a budget by ID within a business
func (r *GormBudgetRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*finance.Budget, error) {
	var model models.BudgetModel
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

// FindByYear finds the active budget for a fiscal year
func (r *GormBudgetRepository) FindByYear(ctx context.Context, businessID uuid.UUID, fiscalYear int) (*finance.Budget, error) {
	var model models.BudgetModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND fiscal_year = ? AND status = ?", businessID, fiscalYear, finance.BudgetStatusActive).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForBusiness lists budgets for a business
func (r *GormBudgetRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter finance.BudgetFilter) ([]finance.Budget, error) {
	var budgetModels []models.BudgetModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.BudgetModel{}).Where("business_id = ?", businessID),
		filter,
	)

	if err := query.Find(&budgetModels).Error; err != nil {
		return nil, err
	}

	budgets := make([]finance.Budget, len(budgetModels))
	for i, model := range budgetModels {
		budgets[i] = *model.ToDomain()
	}
	return budgets, nil
}

// Save creates or updates a budget
func (r *GormBudgetRepository) Save(ctx context.Context, budget *finance.Budget) error {
	model := models.BudgetModelFromDomain(budget)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a budget with optimistic locking (version check)
func (r *GormBudgetRepository) SaveWithLock(ctx context.Context, budget *finance.Budget) error {
	model := models.BudgetModelFromDomain(budget)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", budget.ID, budget.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The budget record has been modified by another transaction")
	}
	return nil
}

// DeleteForBusiness soft deletes a budget within a business
func (r *GormBudgetRepository) DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.BudgetModel{}).
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

// CountForBusiness counts budgets for a business
func (r *GormBudgetRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID, filter finance.BudgetFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.BudgetModel{}).Where("business_id = ?", businessID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormBudgetRepository) applyFilter(query *gorm.DB, filter finance.BudgetFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, BudgetSortFields, "fiscal_year")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("fiscal_year DESC, name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBudgetRepository) applyFilterWithoutPagination(query *gorm.DB, filter finance.BudgetFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ?", searchPattern)
	}

	if filter.FiscalYear != nil {
		query = query.Where("fiscal_year = ?", *filter.FiscalYear)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	return query
}

// Ensure GormBudgetRepository implements BudgetRepository
var _ finance.BudgetRepository = (*GormBudgetRepository)(nil)
