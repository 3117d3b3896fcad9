package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LeaseService handles the lease lifecycle. Lease state and unit status
// move together: activation occupies the unit, closing vacates it.
type LeaseService struct {
	leaseRepo  leasing.LeaseRepository
	tenantRepo leasing.TenantRepository
	unitRepo   portfolio.UnitRepository
	logger     *zap.Logger
}

// NewLeaseService creates a new lease service
func NewLeaseService(
	leaseRepo leasing.LeaseRepository,
	tenantRepo leasing.TenantRepository,
	unitRepo portfolio.UnitRepository,
	logger *zap.Logger,
) *LeaseService {
	return &LeaseService{
		leaseRepo:  leaseRepo,
		tenantRepo: tenantRepo,
		unitRepo:   unitRepo,
		logger:     logger,
	}
}

// CreateLeaseInput contains input for lease creation
type CreateLeaseInput struct {
	BusinessID   uuid.UUID
	UnitID       uuid.UUID
	TenantID     uuid.UUID
	StartDate    time.Time
	EndDate      *time.Time // Nil for month-to-month
	RentCents    int64
	DepositCents int64
}

// Create drafts a lease. One open lease per unit at a time.
func (s *LeaseService) Create(ctx context.Context, input CreateLeaseInput) (*leasing.Lease, error) {
	unit, err := s.unitRepo.FindByIDForBusiness(ctx, input.UnitID, input.BusinessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("UNIT_NOT_FOUND", "Unit not found")
		}
		s.logger.Error("Failed to load unit", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load unit")
	}
	if !unit.Status.IsRentable() {
		return nil, shared.NewDomainError("UNIT_NOT_RENTABLE", "Unit is not available for lease")
	}

	tenant, err := s.tenantRepo.FindByIDForBusiness(ctx, input.TenantID, input.BusinessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		s.logger.Error("Failed to load tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load tenant")
	}
	if !tenant.IsActive {
		return nil, shared.NewDomainError("TENANT_INACTIVE", "Tenant is inactive")
	}

	open, err := s.leaseRepo.FindOpenByUnit(ctx, input.UnitID)
	if err != nil && err != shared.ErrNotFound {
		s.logger.Error("Failed to check open lease", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check open lease")
	}
	if open != nil {
		return nil, shared.NewDomainError("LEASE_EXISTS", "Unit already has an open lease")
	}

	lease, err := leasing.NewLease(input.BusinessID, input.UnitID, input.TenantID, input.StartDate, input.EndDate, input.RentCents, input.DepositCents)
	if err != nil {
		return nil, err
	}

	if err := s.leaseRepo.Save(ctx, lease); err != nil {
		s.logger.Error("Failed to save lease", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create lease")
	}

	s.logger.Info("Lease drafted",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("lease_id", lease.ID.String()),
		zap.Bool("month_to_month", lease.MonthToMonth))

	return lease, nil
}

// Get retrieves a lease scoped to a business
func (s *LeaseService) Get(ctx context.Context, businessID, leaseID uuid.UUID) (*leasing.Lease, error) {
	lease, err := s.leaseRepo.FindByIDForBusiness(ctx, leaseID, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("LEASE_NOT_FOUND", "Lease not found")
		}
		s.logger.Error("Failed to load lease", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load lease")
	}
	return lease, nil
}

// List lists leases for a business
func (s *LeaseService) List(ctx context.Context, businessID uuid.UUID, filter leasing.LeaseFilter) (*shared.Paginated[*leasing.Lease], error) {
	page, err := s.leaseRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list leases", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list leases")
	}
	return page, nil
}

// UpdateTerms adjusts rent and deposit on a draft lease
func (s *LeaseService) UpdateTerms(ctx context.Context, businessID, leaseID uuid.UUID, rentCents, depositCents int64) (*leasing.Lease, error) {
	lease, err := s.Get(ctx, businessID, leaseID)
	if err != nil {
		return nil, err
	}

	if err := lease.UpdateTerms(rentCents, depositCents); err != nil {
		return nil, err
	}

	if err := s.leaseRepo.SaveWithLock(ctx, lease, lease.Version-1); err != nil {
		s.logger.Error("Failed to save lease terms", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save lease")
	}

	return lease, nil
}

// Activate puts a draft lease into effect, occupies the unit and pins
// the tenant to it.
func (s *LeaseService) Activate(ctx context.Context, businessID, leaseID uuid.UUID) (*leasing.Lease, error) {
	lease, err := s.Get(ctx, businessID, leaseID)
	if err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.FindByIDForBusiness(ctx, lease.UnitID, businessID)
	if err != nil {
		s.logger.Error("Failed to load unit for activation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load unit")
	}

	tenant, err := s.tenantRepo.FindByIDForBusiness(ctx, lease.TenantID, businessID)
	if err != nil {
		s.logger.Error("Failed to load tenant for activation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load tenant")
	}

	if err := lease.Activate(); err != nil {
		return nil, err
	}
	if err := unit.MarkOccupied(); err != nil {
		return nil, err
	}
	tenant.AssignUnit(unit.ID)

	if err := s.leaseRepo.SaveWithLock(ctx, lease, lease.Version-1); err != nil {
		s.logger.Error("Failed to save activated lease", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save lease")
	}
	if err := s.unitRepo.SaveWithLock(ctx, unit, unit.Version-1); err != nil {
		s.logger.Error("Failed to save occupied unit", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save unit")
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to save tenant unit assignment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save tenant")
	}

	s.logger.Info("Lease activated",
		zap.String("lease_id", leaseID.String()),
		zap.String("unit_id", unit.ID.String()))

	return lease, nil
}

// End closes an active lease that ran its course and vacates the unit
func (s *LeaseService) End(ctx context.Context, businessID, leaseID uuid.UUID) (*leasing.Lease, error) {
	return s.close(ctx, businessID, leaseID, "")
}

// Terminate cuts an active lease short and vacates the unit
func (s *LeaseService) Terminate(ctx context.Context, businessID, leaseID uuid.UUID, reason string) (*leasing.Lease, error) {
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Termination reason is required")
	}
	return s.close(ctx, businessID, leaseID, reason)
}

func (s *LeaseService) close(ctx context.Context, businessID, leaseID uuid.UUID, terminationReason string) (*leasing.Lease, error) {
	lease, err := s.Get(ctx, businessID, leaseID)
	if err != nil {
		return nil, err
	}

	if terminationReason != "" {
		err = lease.Terminate(terminationReason)
	} else {
		err = lease.End()
	}
	if err != nil {
		return nil, err
	}

	if err := s.leaseRepo.SaveWithLock(ctx, lease, lease.Version-1); err != nil {
		s.logger.Error("Failed to save closed lease", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save lease")
	}

	if err := s.releaseUnit(ctx, lease); err != nil {
		return nil, err
	}

	s.logger.Info("Lease closed",
		zap.String("lease_id", leaseID.String()),
		zap.String("status", lease.Status.String()))

	return lease, nil
}

// CloseExpired ends fixed-term leases past their end date. The scheduler
// runs it in batches.
func (s *LeaseService) CloseExpired(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	leases, err := s.leaseRepo.FindExpiredActive(ctx, time.Now(), batchSize)
	if err != nil {
		s.logger.Error("Failed to find expired leases", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to find expired leases")
	}

	closed := 0
	for _, lease := range leases {
		if err := lease.End(); err != nil {
			s.logger.Warn("Skipping lease that cannot be ended",
				zap.String("lease_id", lease.ID.String()),
				zap.Error(err))
			continue
		}
		if err := s.leaseRepo.SaveWithLock(ctx, lease, lease.Version-1); err != nil {
			s.logger.Error("Failed to save expired lease",
				zap.String("lease_id", lease.ID.String()),
				zap.Error(err))
			continue
		}
		if err := s.releaseUnit(ctx, lease); err != nil {
			s.logger.Error("Failed to vacate unit for expired lease",
				zap.String("lease_id", lease.ID.String()),
				zap.Error(err))
		}
		closed++
	}

	if closed > 0 {
		s.logger.Info("Expired leases closed", zap.Int("count", closed))
	}

	return closed, nil
}

// releaseUnit vacates the leased unit and clears the tenant's assignment
func (s *LeaseService) releaseUnit(ctx context.Context, lease *leasing.Lease) error {
	unit, err := s.unitRepo.FindByIDForBusiness(ctx, lease.UnitID, lease.BusinessID)
	if err != nil {
		s.logger.Error("Failed to load unit for release", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load unit")
	}
	if unit.Status == portfolio.UnitStatusOccupied {
		if err := unit.MarkVacant(); err != nil {
			return err
		}
		if err := s.unitRepo.SaveWithLock(ctx, unit, unit.Version-1); err != nil {
			s.logger.Error("Failed to save vacated unit", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to save unit")
		}
	}

	tenant, err := s.tenantRepo.FindByIDForBusiness(ctx, lease.TenantID, lease.BusinessID)
	if err != nil {
		s.logger.Error("Failed to load tenant for release", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load tenant")
	}
	if tenant.CurrentUnitID != nil && *tenant.CurrentUnitID == lease.UnitID {
		tenant.ClearUnit()
		if err := s.tenantRepo.Save(ctx, tenant); err != nil {
			s.logger.Error("Failed to save tenant release", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to save tenant")
		}
	}

	return nil
}
