// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks leasing activity: lease activations, rent payment
// flow, and the vacancy and maintenance backlog gauges.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	leaseActivatedTotal *Counter
	rentPaymentTotal    *Counter
	rentAmountTotal     *Counter

	// Gauge metrics (point-in-time values)
	vacantUnitCount      *Gauge
	openMaintenanceCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	portfolioProvider PortfolioMetricsProvider
}

// PortfolioMetricsProvider provides portfolio data for periodic metrics
// collection without the telemetry layer depending on the portfolio domain.
type PortfolioMetricsProvider interface {
	// VacantUnitCountByProperty returns the vacant unit count per property for a business
	VacantUnitCountByProperty(ctx context.Context, businessID uuid.UUID) (map[uuid.UUID]int64, error)

	// OpenMaintenanceCount returns the count of unresolved maintenance requests for a business
	OpenMaintenanceCount(ctx context.Context, businessID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	CollectInterval   time.Duration // Default: 5 minutes
	PortfolioProvider PortfolioMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:             cfg.Meter,
		logger:            logger,
		stopChan:          make(chan struct{}),
		portfolioProvider: cfg.PortfolioProvider,
	}

	var err error

	bm.leaseActivatedTotal, err = NewCounter(
		cfg.Meter,
		"rentfold_lease_activated_total",
		"Total number of leases activated",
		"{leases}",
	)
	if err != nil {
		return nil, err
	}

	bm.rentPaymentTotal, err = NewCounter(
		cfg.Meter,
		"rentfold_rent_payment_total",
		"Total number of rent payment transactions",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	bm.rentAmountTotal, err = NewCounter(
		cfg.Meter,
		"rentfold_rent_amount_total",
		"Total settled rent amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.vacantUnitCount, err = NewGauge(
		cfg.Meter,
		"rentfold_vacant_unit_count",
		"Current number of vacant units",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	bm.openMaintenanceCount, err = NewGauge(
		cfg.Meter,
		"rentfold_open_maintenance_count",
		"Number of unresolved maintenance requests",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Leasing Metrics
// =============================================================================

// RecordLeaseActivated records a lease activation.
// Called from the application layer when a lease goes active.
func (bm *BusinessMetrics) RecordLeaseActivated(ctx context.Context, businessID uuid.UUID) {
	bm.leaseActivatedTotal.Inc(ctx,
		AttrBusinessID.String(businessID.String()),
	)
}

// PaymentOutcome represents the outcome of a rent payment for metrics labeling.
type PaymentOutcome string

const (
	PaymentOutcomePaid     PaymentOutcome = "paid"
	PaymentOutcomeFailed   PaymentOutcome = "failed"
	PaymentOutcomeRefunded PaymentOutcome = "refunded"
)

// RecordRentPayment records a rent payment transition.
// Called when a payment is marked paid, failed, or refunded.
func (bm *BusinessMetrics) RecordRentPayment(ctx context.Context, businessID uuid.UUID, method string, outcome PaymentOutcome) {
	bm.rentPaymentTotal.Inc(ctx,
		AttrBusinessID.String(businessID.String()),
		AttrPaymentMethod.String(method),
		AttrPaymentStatus.String(string(outcome)),
	)
}

// RecordRentAmount adds a settled payment's amount in cents.
func (bm *BusinessMetrics) RecordRentAmount(ctx context.Context, businessID uuid.UUID, amountCents int64) {
	bm.rentAmountTotal.Add(ctx, amountCents,
		AttrBusinessID.String(businessID.String()),
	)
}

// =============================================================================
// Portfolio Gauges
// =============================================================================

// RecordVacantUnits records the current vacant unit count for a property.
func (bm *BusinessMetrics) RecordVacantUnits(ctx context.Context, businessID, propertyID uuid.UUID, count int64) {
	bm.vacantUnitCount.Record(ctx, count,
		AttrBusinessID.String(businessID.String()),
		AttrPropertyID.String(propertyID.String()),
	)
}

// RecordOpenMaintenance records the unresolved maintenance request count.
func (bm *BusinessMetrics) RecordOpenMaintenance(ctx context.Context, businessID uuid.UUID, count int64) {
	bm.openMaintenanceCount.Record(ctx, count,
		AttrBusinessID.String(businessID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// BusinessProvider provides business IDs for periodic metrics collection.
type BusinessProvider interface {
	GetActiveBusinessIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of the portfolio gauges.
// Non-blocking; use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, businessProvider BusinessProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, businessProvider, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, businessProvider BusinessProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectPortfolioMetrics(ctx, businessProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectPortfolioMetrics(ctx, businessProvider)
		}
	}
}

func (bm *BusinessMetrics) collectPortfolioMetrics(ctx context.Context, businessProvider BusinessProvider) {
	if bm.portfolioProvider == nil {
		bm.logger.Debug("No portfolio provider configured, skipping gauge collection")
		return
	}

	businessIDs, err := businessProvider.GetActiveBusinessIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get business IDs for metrics collection", zap.Error(err))
		return
	}

	for _, businessID := range businessIDs {
		bm.collectBusinessPortfolioMetrics(ctx, businessID)
	}
}

func (bm *BusinessMetrics) collectBusinessPortfolioMetrics(ctx context.Context, businessID uuid.UUID) {
	vacantByProperty, err := bm.portfolioProvider.VacantUnitCountByProperty(ctx, businessID)
	if err != nil {
		bm.logger.Warn("Failed to get vacant unit counts for business",
			zap.String("business_id", businessID.String()),
			zap.Error(err),
		)
	} else {
		for propertyID, count := range vacantByProperty {
			bm.RecordVacantUnits(ctx, businessID, propertyID, count)
		}
	}

	openCount, err := bm.portfolioProvider.OpenMaintenanceCount(ctx, businessID)
	if err != nil {
		bm.logger.Warn("Failed to get open maintenance count for business",
			zap.String("business_id", businessID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOpenMaintenance(ctx, businessID, openCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
