package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormAIUsageRepository implements AIUsageRepository using GORM
type GormAIUsageRepository struct {
	db *gorm.DB
}

// NewGormAIUsageRepository creates a new GormAIUsageRepository
func NewGormAIUsageRepository(db *gorm.DB) *GormAIUsageRepository {
	return &GormAIUsageRepository{db: db}
}

// Save persists a usage record
func (r *GormAIUsageRepository) Save(ctx context.Context, record *billing.AIUsageRecord) error {
	model := models.AIUsageRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindForBusiness lists usage records for a business within a window
func (r *GormAIUsageRepository) FindForBusiness(ctx context.Context, businessID uuid.UUID, from, to time.Time, filter shared.Filter) ([]*billing.AIUsageRecord, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AIUsageRecordModel{}).
		Where("business_id = ? AND occurred_at >= ? AND occurred_at < ?", businessID, from, to)

	for key, value := range filter.Filters {
		switch key {
		case "feature":
			query = query.Where("feature = ?", value)
		case "key_id":
			query = query.Where("key_id = ?", value)
		case "provider":
			query = query.Where("provider = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var recordModels []models.AIUsageRecordModel
	if err := query.Order("occurred_at DESC").Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]*billing.AIUsageRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = model.ToDomain()
	}
	return records, nil
}

// SummarizeForBusiness aggregates tokens and cost for a business within a window
func (r *GormAIUsageRepository) SummarizeForBusiness(ctx context.Context, businessID uuid.UUID, from, to time.Time) (*billing.AIUsageSummary, error) {
	var row struct {
		TotalTokens    int64
		TotalCostCents int64
		CallCount      int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AIUsageRecordModel{}).
		Select("COALESCE(SUM(input_tokens + output_tokens), 0) AS total_tokens, COALESCE(SUM(cost_cents), 0) AS total_cost_cents, COUNT(*) AS call_count").
		Where("business_id = ? AND occurred_at >= ? AND occurred_at < ?", businessID, from, to).
		Scan(&row).Error; err != nil {
		return nil, err
	}

	return &billing.AIUsageSummary{
		BusinessID:     businessID,
		PeriodStart:    from,
		PeriodEnd:      to,
		TotalTokens:    row.TotalTokens,
		TotalCostCents: row.TotalCostCents,
		CallCount:      row.CallCount,
	}, nil
}

// TokensUsedByKey sums tokens consumed by a key within a window
func (r *GormAIUsageRepository) TokensUsedByKey(ctx context.Context, keyID uuid.UUID, from, to time.Time) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.AIUsageRecordModel{}).
		Select("COALESCE(SUM(input_tokens + output_tokens), 0)").
		Where("key_id = ? AND occurred_at >= ? AND occurred_at < ?", keyID, from, to).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SavePeriodTotal upserts a rolled-up period total, keyed on business and period start
func (r *GormAIUsageRepository) SavePeriodTotal(ctx context.Context, total *billing.AIUsagePeriodTotal) error {
	model := models.AIUsagePeriodTotalModelFromDomain(total)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "business_id"}, {Name: "period_start"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"period_end", "total_tokens", "total_cost_cents", "call_count", "aggregated_at", "updated_at",
			}),
		}).
		Create(model).Error
}

// FindPeriodTotal finds a period total by business and period start
func (r *GormAIUsageRepository) FindPeriodTotal(ctx context.Context, businessID uuid.UUID, periodStart time.Time) (*billing.AIUsagePeriodTotal, error) {
	var model models.AIUsagePeriodTotalModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND period_start = ?", businessID, periodStart).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormAIUsageRepository implements AIUsageRepository
var _ billing.AIUsageRepository = (*GormAIUsageRepository)(nil)
