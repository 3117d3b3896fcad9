package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/finance"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormLedgerAccountRepository implements LedgerAccountRepository using GORM
type GormLedgerAccountRepository struct {
	db *gorm.DB
}

// NewGormLedgerAccountRepository creates a new GormLedgerAccountRepository
func NewGormLedgerAccountRepository(db *gorm.DB) *GormLedgerAccountRepository {
	return &GormLedgerAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormLedgerAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerAccount, error) {
	var model models.LedgerAccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBusiness finds an account by ID within a business
func (r *GormLedgerAccountRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*finance.LedgerAccount, error) {
	var model models.LedgerAccountModel
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

// FindByCode finds an account by its code within a business
func (r *GormLedgerAccountRepository) FindByCode(ctx context.Context, businessID uuid.UUID, code string) (*finance.LedgerAccount, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot be empty")
	}
	var model models.LedgerAccountModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND code = ?", businessID, strings.TrimSpace(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple accounts by their IDs within a business
func (r *GormLedgerAccountRepository) FindByIDs(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]*finance.LedgerAccount, error) {
	if len(ids) == 0 {
		return []*finance.LedgerAccount{}, nil
	}

	var accountModels []models.LedgerAccountModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND id IN ?", businessID, ids).
		Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]*finance.LedgerAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = model.ToDomain()
	}
	return accounts, nil
}

// FindAllForBusiness lists accounts for a business
func (r *GormLedgerAccountRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]finance.LedgerAccount, error) {
	var accountModels []models.LedgerAccountModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.LedgerAccountModel{}).Where("business_id = ?", businessID),
		filter,
	)

	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]finance.LedgerAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// Save creates or updates an account
func (r *GormLedgerAccountRepository) Save(ctx context.Context, account *finance.LedgerAccount) error {
	model := models.LedgerAccountModelFromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForBusiness soft deletes an account within a business
func (r *GormLedgerAccountRepository) DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.LedgerAccountModel{}).
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

// applyFilter applies filter options to the query
func (r *GormLedgerAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "include_inactive":
			if value != true {
				query = query.Where("is_active = ?", true)
			}
		}
	}
	if _, ok := filter.Filters["include_inactive"]; !ok {
		query = query.Where("is_active = ?", true)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, LedgerAccountSortFields, "code")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("code ASC")
	}

	return query
}

// Ensure GormLedgerAccountRepository implements LedgerAccountRepository
var _ finance.LedgerAccountRepository = (*GormLedgerAccountRepository)(nil)
