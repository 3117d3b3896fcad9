package reporting

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
)

// DashboardOverview is the landing-page snapshot for one business
type DashboardOverview struct {
	PropertyCount        int64 `json:"property_count"`
	UnitCount            int64 `json:"unit_count"`
	VacantUnitCount      int64 `json:"vacant_unit_count"`
	TenantCount          int64 `json:"tenant_count"`
	ActiveLeaseCount     int64 `json:"active_lease_count"`
	OpenMaintenanceCount int64 `json:"open_maintenance_count"`
	OverduePaymentCount  int64 `json:"overdue_payment_count"`
}

// DashboardService aggregates cross-context counts for the dashboard.
// Reads are independent, so they run as one goroutine each.
type DashboardService struct {
	propertyRepo    portfolio.PropertyRepository
	unitRepo        portfolio.UnitRepository
	tenantRepo      leasing.TenantRepository
	leaseRepo       leasing.LeaseRepository
	paymentRepo     leasing.RentPaymentRepository
	maintenanceRepo leasing.MaintenanceRequestRepository
	logger          *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	propertyRepo portfolio.PropertyRepository,
	unitRepo portfolio.UnitRepository,
	tenantRepo leasing.TenantRepository,
	leaseRepo leasing.LeaseRepository,
	paymentRepo leasing.RentPaymentRepository,
	maintenanceRepo leasing.MaintenanceRequestRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		propertyRepo:    propertyRepo,
		unitRepo:        unitRepo,
		tenantRepo:      tenantRepo,
		leaseRepo:       leaseRepo,
		paymentRepo:     paymentRepo,
		maintenanceRepo: maintenanceRepo,
		logger:          logger,
	}
}

// countFilter asks paginated finders for totals only
var countFilter = shared.Filter{Page: 1, PageSize: 1}

// Overview collects the dashboard counts for a business. Each count is an
// independent read; they run in parallel and the first error wins.
func (s *DashboardService) Overview(ctx context.Context, businessID uuid.UUID) (*DashboardOverview, error) {
	var (
		overview DashboardOverview
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	run(func() error {
		count, err := s.propertyRepo.CountForBusiness(ctx, businessID)
		overview.PropertyCount = count
		return err
	})
	run(func() error {
		count, err := s.unitRepo.CountForBusiness(ctx, businessID)
		overview.UnitCount = count
		return err
	})
	run(func() error {
		status := portfolio.UnitStatusVacant
		result, err := s.unitRepo.FindAllForBusiness(ctx, businessID, portfolio.UnitFilter{Filter: countFilter, Status: &status})
		if err != nil {
			return err
		}
		overview.VacantUnitCount = result.Total
		return nil
	})
	run(func() error {
		count, err := s.tenantRepo.CountForBusiness(ctx, businessID)
		overview.TenantCount = count
		return err
	})
	run(func() error {
		status := leasing.LeaseStatusActive
		result, err := s.leaseRepo.FindAllForBusiness(ctx, businessID, leasing.LeaseFilter{Filter: countFilter, Status: &status})
		if err != nil {
			return err
		}
		overview.ActiveLeaseCount = result.Total
		return nil
	})
	run(func() error {
		count, err := s.maintenanceRepo.CountOpenForBusiness(ctx, businessID)
		overview.OpenMaintenanceCount = count
		return err
	})
	run(func() error {
		status := leasing.PaymentStatusPending
		now := time.Now()
		result, err := s.paymentRepo.FindAllForBusiness(ctx, businessID, leasing.RentPaymentFilter{Filter: countFilter, Status: &status, DueBefore: &now})
		if err != nil {
			return err
		}
		overview.OverduePaymentCount = result.Total
		return nil
	})

	wg.Wait()

	if firstErr != nil {
		s.logger.Error("Dashboard overview failed", zap.String("business_id", businessID.String()), zap.Error(firstErr))
		return nil, firstErr
	}
	return &overview, nil
}
