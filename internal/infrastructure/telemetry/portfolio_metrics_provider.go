// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPortfolioMetricsProvider implements PortfolioMetricsProvider using GORM.
// It queries the units and maintenance_requests tables directly for aggregates.
type GormPortfolioMetricsProvider struct {
	db *gorm.DB
}

// NewGormPortfolioMetricsProvider creates a new GormPortfolioMetricsProvider.
func NewGormPortfolioMetricsProvider(db *gorm.DB) *GormPortfolioMetricsProvider {
	return &GormPortfolioMetricsProvider{db: db}
}

// VacantUnitCountByProperty returns the vacant unit count per property for a business.
func (p *GormPortfolioMetricsProvider) VacantUnitCountByProperty(ctx context.Context, businessID uuid.UUID) (map[uuid.UUID]int64, error) {
	type result struct {
		PropertyID  uuid.UUID `gorm:"column:property_id"`
		VacantCount int64     `gorm:"column:vacant_count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("units").
		Select("property_id, COUNT(*) as vacant_count").
		Where("business_id = ? AND status = ? AND is_active = ?", businessID, "vacant", true).
		Group("property_id").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]int64, len(results))
	for _, r := range results {
		m[r.PropertyID] = r.VacantCount
	}

	return m, nil
}

// OpenMaintenanceCount returns the count of unresolved maintenance requests for a business.
func (p *GormPortfolioMetricsProvider) OpenMaintenanceCount(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("maintenance_requests").
		Where("business_id = ?", businessID).
		Where("status IN ?", []string{"open", "in_progress"}).
		Count(&count).Error

	return count, err
}
