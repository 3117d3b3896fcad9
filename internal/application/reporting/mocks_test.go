package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rentfold/backend/internal/domain/finance"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
)

type mockPropertyRepository struct {
	mock.Mock
}

func (m *mockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Property), args.Error(1)
}

func (m *mockPropertyRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*portfolio.Property, error) {
	args := m.Called(ctx, id, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Property), args.Error(1)
}

func (m *mockPropertyRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter portfolio.PropertyFilter) (*shared.Paginated[*portfolio.Property], error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*portfolio.Property]), args.Error(1)
}

func (m *mockPropertyRepository) Save(ctx context.Context, property *portfolio.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *mockPropertyRepository) SaveWithLock(ctx context.Context, property *portfolio.Property, expectedVersion int) error {
	args := m.Called(ctx, property, expectedVersion)
	return args.Error(0)
}

func (m *mockPropertyRepository) DeleteForBusiness(ctx context.Context, id, businessID uuid.UUID) error {
	args := m.Called(ctx, id, businessID)
	return args.Error(0)
}

func (m *mockPropertyRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(int64), args.Error(1)
}

type mockUnitRepository struct {
	mock.Mock
}

func (m *mockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Unit), args.Error(1)
}

func (m *mockUnitRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*portfolio.Unit, error) {
	args := m.Called(ctx, id, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Unit), args.Error(1)
}

func (m *mockUnitRepository) FindByUnitNumber(ctx context.Context, propertyID uuid.UUID, unitNumber string) (*portfolio.Unit, error) {
	args := m.Called(ctx, propertyID, unitNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Unit), args.Error(1)
}

func (m *mockUnitRepository) FindByProperty(ctx context.Context, propertyID, businessID uuid.UUID) ([]*portfolio.Unit, error) {
	args := m.Called(ctx, propertyID, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*portfolio.Unit), args.Error(1)
}

func (m *mockUnitRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter portfolio.UnitFilter) (*shared.Paginated[*portfolio.Unit], error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*portfolio.Unit]), args.Error(1)
}

func (m *mockUnitRepository) Save(ctx context.Context, unit *portfolio.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *mockUnitRepository) SaveWithLock(ctx context.Context, unit *portfolio.Unit, expectedVersion int) error {
	args := m.Called(ctx, unit, expectedVersion)
	return args.Error(0)
}

func (m *mockUnitRepository) DeleteForBusiness(ctx context.Context, id, businessID uuid.UUID) error {
	args := m.Called(ctx, id, businessID)
	return args.Error(0)
}

func (m *mockUnitRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(int64), args.Error(1)
}

type mockTenantRepository struct {
	mock.Mock
}

func (m *mockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Tenant), args.Error(1)
}

func (m *mockTenantRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*leasing.Tenant, error) {
	args := m.Called(ctx, id, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Tenant), args.Error(1)
}

func (m *mockTenantRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter leasing.TenantFilter) (*shared.Paginated[*leasing.Tenant], error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*leasing.Tenant]), args.Error(1)
}

func (m *mockTenantRepository) Save(ctx context.Context, tenant *leasing.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *mockTenantRepository) SaveWithLock(ctx context.Context, tenant *leasing.Tenant, expectedVersion int) error {
	args := m.Called(ctx, tenant, expectedVersion)
	return args.Error(0)
}

func (m *mockTenantRepository) DeleteForBusiness(ctx context.Context, id, businessID uuid.UUID) error {
	args := m.Called(ctx, id, businessID)
	return args.Error(0)
}

func (m *mockTenantRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(int64), args.Error(1)
}

type mockLeaseRepository struct {
	mock.Mock
}

func (m *mockLeaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Lease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Lease), args.Error(1)
}

func (m *mockLeaseRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*leasing.Lease, error) {
	args := m.Called(ctx, id, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Lease), args.Error(1)
}

func (m *mockLeaseRepository) FindOpenByUnit(ctx context.Context, unitID uuid.UUID) (*leasing.Lease, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Lease), args.Error(1)
}

func (m *mockLeaseRepository) FindExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]*leasing.Lease, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*leasing.Lease), args.Error(1)
}

func (m *mockLeaseRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter leasing.LeaseFilter) (*shared.Paginated[*leasing.Lease], error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*leasing.Lease]), args.Error(1)
}

func (m *mockLeaseRepository) Save(ctx context.Context, lease *leasing.Lease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}

func (m *mockLeaseRepository) SaveWithLock(ctx context.Context, lease *leasing.Lease, expectedVersion int) error {
	args := m.Called(ctx, lease, expectedVersion)
	return args.Error(0)
}

func (m *mockLeaseRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(int64), args.Error(1)
}

type mockRentPaymentRepository struct {
	mock.Mock
}

func (m *mockRentPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.RentPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.RentPayment), args.Error(1)
}

func (m *mockRentPaymentRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*leasing.RentPayment, error) {
	args := m.Called(ctx, id, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.RentPayment), args.Error(1)
}

func (m *mockRentPaymentRepository) FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*leasing.RentPayment, error) {
	args := m.Called(ctx, gatewayPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.RentPayment), args.Error(1)
}

func (m *mockRentPaymentRepository) FindByLease(ctx context.Context, leaseID, businessID uuid.UUID) ([]*leasing.RentPayment, error) {
	args := m.Called(ctx, leaseID, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*leasing.RentPayment), args.Error(1)
}

func (m *mockRentPaymentRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter leasing.RentPaymentFilter) (*shared.Paginated[*leasing.RentPayment], error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*leasing.RentPayment]), args.Error(1)
}

func (m *mockRentPaymentRepository) Save(ctx context.Context, payment *leasing.RentPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *mockRentPaymentRepository) SaveWithLock(ctx context.Context, payment *leasing.RentPayment, expectedVersion int) error {
	args := m.Called(ctx, payment, expectedVersion)
	return args.Error(0)
}

type mockMaintenanceRepository struct {
	mock.Mock
}

func (m *mockMaintenanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.MaintenanceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.MaintenanceRequest), args.Error(1)
}

func (m *mockMaintenanceRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*leasing.MaintenanceRequest, error) {
	args := m.Called(ctx, id, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.MaintenanceRequest), args.Error(1)
}

func (m *mockMaintenanceRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter leasing.MaintenanceFilter) (*shared.Paginated[*leasing.MaintenanceRequest], error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*leasing.MaintenanceRequest]), args.Error(1)
}

func (m *mockMaintenanceRepository) Save(ctx context.Context, request *leasing.MaintenanceRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *mockMaintenanceRepository) SaveWithLock(ctx context.Context, request *leasing.MaintenanceRequest, expectedVersion int) error {
	args := m.Called(ctx, request, expectedVersion)
	return args.Error(0)
}

func (m *mockMaintenanceRepository) CountOpenForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(int64), args.Error(1)
}

type mockEntryRepository struct {
	mock.Mock
}

func (m *mockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerEntry), args.Error(1)
}

func (m *mockEntryRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*finance.LedgerEntry, error) {
	args := m.Called(ctx, businessID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerEntry), args.Error(1)
}

func (m *mockEntryRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter finance.LedgerEntryFilter) ([]finance.LedgerEntry, error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.LedgerEntry), args.Error(1)
}

func (m *mockEntryRepository) SumByAccountForYear(ctx context.Context, businessID uuid.UUID, year int) (map[uuid.UUID][finance.PeriodsPerYear]int64, error) {
	args := m.Called(ctx, businessID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][finance.PeriodsPerYear]int64), args.Error(1)
}

func (m *mockEntryRepository) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockEntryRepository) DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error {
	args := m.Called(ctx, businessID, id)
	return args.Error(0)
}

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerAccount), args.Error(1)
}

func (m *mockAccountRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*finance.LedgerAccount, error) {
	args := m.Called(ctx, businessID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerAccount), args.Error(1)
}

func (m *mockAccountRepository) FindByCode(ctx context.Context, businessID uuid.UUID, code string) (*finance.LedgerAccount, error) {
	args := m.Called(ctx, businessID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerAccount), args.Error(1)
}

func (m *mockAccountRepository) FindByIDs(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]*finance.LedgerAccount, error) {
	args := m.Called(ctx, businessID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.LedgerAccount), args.Error(1)
}

func (m *mockAccountRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]finance.LedgerAccount, error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.LedgerAccount), args.Error(1)
}

func (m *mockAccountRepository) Save(ctx context.Context, account *finance.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepository) DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error {
	args := m.Called(ctx, businessID, id)
	return args.Error(0)
}
