package leasing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
)

func setupLeaseService(t *testing.T) (*LeaseService, *mockLeaseRepository, *mockTenantRepository, *mockUnitRepository) {
	t.Helper()
	leaseRepo := new(mockLeaseRepository)
	tenantRepo := new(mockTenantRepository)
	unitRepo := new(mockUnitRepository)
	service := NewLeaseService(leaseRepo, tenantRepo, unitRepo, zap.NewNop())
	return service, leaseRepo, tenantRepo, unitRepo
}

func newTestUnit(t *testing.T, businessID uuid.UUID) *portfolio.Unit {
	t.Helper()
	unit, err := portfolio.NewUnit(businessID, uuid.New(), "2B", 2, decimal.NewFromFloat(1.5), 185000)
	require.NoError(t, err)
	return unit
}

func newTestTenant(t *testing.T, businessID uuid.UUID) *leasing.Tenant {
	t.Helper()
	tenant, err := leasing.NewTenant(businessID, "Dana", "Whitfield", "dana@example.com", "+15035550142")
	require.NoError(t, err)
	return tenant
}

func newTestLease(t *testing.T, businessID, unitID, tenantID uuid.UUID) *leasing.Lease {
	t.Helper()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	lease, err := leasing.NewLease(businessID, unitID, tenantID, start, &end, 185000, 185000)
	require.NoError(t, err)
	return lease
}

func TestLeaseService_Create(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("drafts a lease on a vacant unit", func(t *testing.T) {
		service, leaseRepo, tenantRepo, unitRepo := setupLeaseService(t)
		unit := newTestUnit(t, businessID)
		tenant := newTestTenant(t, businessID)

		unitRepo.On("FindByIDForBusiness", ctx, unit.ID, businessID).Return(unit, nil)
		tenantRepo.On("FindByIDForBusiness", ctx, tenant.ID, businessID).Return(tenant, nil)
		leaseRepo.On("FindOpenByUnit", ctx, unit.ID).Return(nil, shared.ErrNotFound)
		leaseRepo.On("Save", ctx, mock.AnythingOfType("*leasing.Lease")).Return(nil)

		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		lease, err := service.Create(ctx, CreateLeaseInput{
			BusinessID:   businessID,
			UnitID:       unit.ID,
			TenantID:     tenant.ID,
			StartDate:    start,
			RentCents:    185000,
			DepositCents: 185000,
		})

		require.NoError(t, err)
		assert.Equal(t, leasing.LeaseStatusDraft, lease.Status)
		assert.True(t, lease.MonthToMonth)
		leaseRepo.AssertExpectations(t)
	})

	t.Run("refuses a second open lease on the unit", func(t *testing.T) {
		service, leaseRepo, tenantRepo, unitRepo := setupLeaseService(t)
		unit := newTestUnit(t, businessID)
		tenant := newTestTenant(t, businessID)
		open := newTestLease(t, businessID, unit.ID, tenant.ID)

		unitRepo.On("FindByIDForBusiness", ctx, unit.ID, businessID).Return(unit, nil)
		tenantRepo.On("FindByIDForBusiness", ctx, tenant.ID, businessID).Return(tenant, nil)
		leaseRepo.On("FindOpenByUnit", ctx, unit.ID).Return(open, nil)

		_, err := service.Create(ctx, CreateLeaseInput{
			BusinessID: businessID,
			UnitID:     unit.ID,
			TenantID:   tenant.ID,
			StartDate:  time.Now(),
			RentCents:  185000,
		})

		assert.Equal(t, "LEASE_EXISTS", domainCode(t, err))
		leaseRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("refuses a unit that is not rentable", func(t *testing.T) {
		service, _, _, unitRepo := setupLeaseService(t)
		unit := newTestUnit(t, businessID)
		require.NoError(t, unit.MarkMaintenance())

		unitRepo.On("FindByIDForBusiness", ctx, unit.ID, businessID).Return(unit, nil)

		_, err := service.Create(ctx, CreateLeaseInput{
			BusinessID: businessID,
			UnitID:     unit.ID,
			TenantID:   uuid.New(),
			StartDate:  time.Now(),
			RentCents:  185000,
		})

		assert.Equal(t, "UNIT_NOT_RENTABLE", domainCode(t, err))
	})

	t.Run("refuses an inactive tenant", func(t *testing.T) {
		service, _, tenantRepo, unitRepo := setupLeaseService(t)
		unit := newTestUnit(t, businessID)
		tenant := newTestTenant(t, businessID)
		require.NoError(t, tenant.Deactivate())

		unitRepo.On("FindByIDForBusiness", ctx, unit.ID, businessID).Return(unit, nil)
		tenantRepo.On("FindByIDForBusiness", ctx, tenant.ID, businessID).Return(tenant, nil)

		_, err := service.Create(ctx, CreateLeaseInput{
			BusinessID: businessID,
			UnitID:     unit.ID,
			TenantID:   tenant.ID,
			StartDate:  time.Now(),
			RentCents:  185000,
		})

		assert.Equal(t, "TENANT_INACTIVE", domainCode(t, err))
	})
}

func TestLeaseService_Activate(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("occupies the unit and pins the tenant", func(t *testing.T) {
		service, leaseRepo, tenantRepo, unitRepo := setupLeaseService(t)
		unit := newTestUnit(t, businessID)
		tenant := newTestTenant(t, businessID)
		lease := newTestLease(t, businessID, unit.ID, tenant.ID)

		leaseRepo.On("FindByIDForBusiness", ctx, lease.ID, businessID).Return(lease, nil)
		unitRepo.On("FindByIDForBusiness", ctx, unit.ID, businessID).Return(unit, nil)
		tenantRepo.On("FindByIDForBusiness", ctx, tenant.ID, businessID).Return(tenant, nil)
		leaseRepo.On("SaveWithLock", ctx, lease, mock.AnythingOfType("int")).Return(nil)
		unitRepo.On("SaveWithLock", ctx, unit, mock.AnythingOfType("int")).Return(nil)
		tenantRepo.On("Save", ctx, tenant).Return(nil)

		activated, err := service.Activate(ctx, businessID, lease.ID)

		require.NoError(t, err)
		assert.Equal(t, leasing.LeaseStatusActive, activated.Status)
		assert.Equal(t, portfolio.UnitStatusOccupied, unit.Status)
		require.NotNil(t, tenant.CurrentUnitID)
		assert.Equal(t, unit.ID, *tenant.CurrentUnitID)
		leaseRepo.AssertExpectations(t)
		unitRepo.AssertExpectations(t)
		tenantRepo.AssertExpectations(t)
	})

	t.Run("cannot activate twice", func(t *testing.T) {
		service, leaseRepo, tenantRepo, unitRepo := setupLeaseService(t)
		unit := newTestUnit(t, businessID)
		tenant := newTestTenant(t, businessID)
		lease := newTestLease(t, businessID, unit.ID, tenant.ID)
		require.NoError(t, lease.Activate())

		leaseRepo.On("FindByIDForBusiness", ctx, lease.ID, businessID).Return(lease, nil)
		unitRepo.On("FindByIDForBusiness", ctx, unit.ID, businessID).Return(unit, nil)
		tenantRepo.On("FindByIDForBusiness", ctx, tenant.ID, businessID).Return(tenant, nil)

		_, err := service.Activate(ctx, businessID, lease.ID)

		require.Error(t, err)
		leaseRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLeaseService_Close(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	activeFixture := func(t *testing.T) (*leasing.Lease, *portfolio.Unit, *leasing.Tenant) {
		unit := newTestUnit(t, businessID)
		tenant := newTestTenant(t, businessID)
		lease := newTestLease(t, businessID, unit.ID, tenant.ID)
		require.NoError(t, lease.Activate())
		require.NoError(t, unit.MarkOccupied())
		tenant.AssignUnit(unit.ID)
		return lease, unit, tenant
	}

	t.Run("terminate vacates the unit and clears the tenant", func(t *testing.T) {
		service, leaseRepo, tenantRepo, unitRepo := setupLeaseService(t)
		lease, unit, tenant := activeFixture(t)

		leaseRepo.On("FindByIDForBusiness", ctx, lease.ID, businessID).Return(lease, nil)
		leaseRepo.On("SaveWithLock", ctx, lease, mock.AnythingOfType("int")).Return(nil)
		unitRepo.On("FindByIDForBusiness", ctx, unit.ID, businessID).Return(unit, nil)
		unitRepo.On("SaveWithLock", ctx, unit, mock.AnythingOfType("int")).Return(nil)
		tenantRepo.On("FindByIDForBusiness", ctx, tenant.ID, businessID).Return(tenant, nil)
		tenantRepo.On("Save", ctx, tenant).Return(nil)

		closed, err := service.Terminate(ctx, businessID, lease.ID, "non-payment")

		require.NoError(t, err)
		assert.Equal(t, leasing.LeaseStatusTerminated, closed.Status)
		assert.Equal(t, portfolio.UnitStatusVacant, unit.Status)
		assert.Nil(t, tenant.CurrentUnitID)
	})

	t.Run("terminate requires a reason", func(t *testing.T) {
		service, _, _, _ := setupLeaseService(t)

		_, err := service.Terminate(ctx, businessID, uuid.New(), "")

		assert.Equal(t, "INVALID_REASON", domainCode(t, err))
	})

	t.Run("end leaves the tenant alone when another unit is assigned", func(t *testing.T) {
		service, leaseRepo, tenantRepo, unitRepo := setupLeaseService(t)
		lease, unit, tenant := activeFixture(t)
		otherUnit := uuid.New()
		tenant.AssignUnit(otherUnit)

		leaseRepo.On("FindByIDForBusiness", ctx, lease.ID, businessID).Return(lease, nil)
		leaseRepo.On("SaveWithLock", ctx, lease, mock.AnythingOfType("int")).Return(nil)
		unitRepo.On("FindByIDForBusiness", ctx, unit.ID, businessID).Return(unit, nil)
		unitRepo.On("SaveWithLock", ctx, unit, mock.AnythingOfType("int")).Return(nil)
		tenantRepo.On("FindByIDForBusiness", ctx, tenant.ID, businessID).Return(tenant, nil)

		closed, err := service.End(ctx, businessID, lease.ID)

		require.NoError(t, err)
		assert.Equal(t, leasing.LeaseStatusEnded, closed.Status)
		require.NotNil(t, tenant.CurrentUnitID)
		assert.Equal(t, otherUnit, *tenant.CurrentUnitID)
		tenantRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("cannot close a draft", func(t *testing.T) {
		service, leaseRepo, _, _ := setupLeaseService(t)
		lease := newTestLease(t, businessID, uuid.New(), uuid.New())

		leaseRepo.On("FindByIDForBusiness", ctx, lease.ID, businessID).Return(lease, nil)

		_, err := service.End(ctx, businessID, lease.ID)

		require.Error(t, err)
		leaseRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLeaseService_CloseExpired(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("ends each expired lease and vacates its unit", func(t *testing.T) {
		service, leaseRepo, tenantRepo, unitRepo := setupLeaseService(t)

		var leases []*leasing.Lease
		for i := 0; i < 2; i++ {
			unit := newTestUnit(t, businessID)
			tenant := newTestTenant(t, businessID)
			lease := newTestLease(t, businessID, unit.ID, tenant.ID)
			require.NoError(t, lease.Activate())
			require.NoError(t, unit.MarkOccupied())
			tenant.AssignUnit(unit.ID)
			leases = append(leases, lease)

			unitRepo.On("FindByIDForBusiness", ctx, unit.ID, businessID).Return(unit, nil)
			unitRepo.On("SaveWithLock", ctx, unit, mock.AnythingOfType("int")).Return(nil)
			tenantRepo.On("FindByIDForBusiness", ctx, tenant.ID, businessID).Return(tenant, nil)
			tenantRepo.On("Save", ctx, tenant).Return(nil)
		}

		leaseRepo.On("FindExpiredActive", ctx, mock.AnythingOfType("time.Time"), 100).Return(leases, nil)
		leaseRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*leasing.Lease"), mock.AnythingOfType("int")).Return(nil)

		closed, err := service.CloseExpired(ctx, 0)

		require.NoError(t, err)
		assert.Equal(t, 2, closed)
		for _, lease := range leases {
			assert.Equal(t, leasing.LeaseStatusEnded, lease.Status)
		}
	})

	t.Run("honors the batch size", func(t *testing.T) {
		service, leaseRepo, _, _ := setupLeaseService(t)

		leaseRepo.On("FindExpiredActive", ctx, mock.AnythingOfType("time.Time"), 25).Return([]*leasing.Lease{}, nil)

		closed, err := service.CloseExpired(ctx, 25)

		require.NoError(t, err)
		assert.Zero(t, closed)
		leaseRepo.AssertExpectations(t)
	})
}
