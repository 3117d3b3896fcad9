package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/listing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
)

type mockListingRepository struct {
	mock.Mock
}

func (m *mockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *mockListingRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *mockListingRepository) FindByUnit(ctx context.Context, unitID, businessID uuid.UUID) ([]*listing.Listing, error) {
	args := m.Called(ctx, unitID, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listing.Listing), args.Error(1)
}

func (m *mockListingRepository) FindPublished(ctx context.Context, businessID uuid.UUID, filter listing.ListingFilter) (*shared.Paginated[*listing.Listing], error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*listing.Listing]), args.Error(1)
}

func (m *mockListingRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter listing.ListingFilter) (*shared.Paginated[*listing.Listing], error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*listing.Listing]), args.Error(1)
}

func (m *mockListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *mockListingRepository) SaveWithLock(ctx context.Context, l *listing.Listing, expectedVersion int) error {
	args := m.Called(ctx, l, expectedVersion)
	return args.Error(0)
}

func (m *mockListingRepository) DeleteForBusiness(ctx context.Context, id, businessID uuid.UUID) error {
	args := m.Called(ctx, id, businessID)
	return args.Error(0)
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

type mockApplicationRepository struct {
	mock.Mock
}

func (m *mockApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.RentalApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.RentalApplication), args.Error(1)
}

func (m *mockApplicationRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*leasing.RentalApplication, error) {
	args := m.Called(ctx, id, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.RentalApplication), args.Error(1)
}

func (m *mockApplicationRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter leasing.ApplicationFilter) (*shared.Paginated[*leasing.RentalApplication], error) {
	args := m.Called(ctx, businessID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*leasing.RentalApplication]), args.Error(1)
}

func (m *mockApplicationRepository) Save(ctx context.Context, application *leasing.RentalApplication) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *mockApplicationRepository) SaveWithLock(ctx context.Context, application *leasing.RentalApplication, expectedVersion int) error {
	args := m.Called(ctx, application, expectedVersion)
	return args.Error(0)
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

// mockIdempotencyStore is an in-memory shared.IdempotencyStore for tests
type mockIdempotencyStore struct {
	seen map[string]bool
	err  error
}

func newMockIdempotencyStore() *mockIdempotencyStore {
	return &mockIdempotencyStore{seen: make(map[string]bool)}
}

func (s *mockIdempotencyStore) MarkProcessed(_ context.Context, eventID string, _ time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.seen[eventID] {
		return false, nil
	}
	s.seen[eventID] = true
	return true, nil
}

func (s *mockIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.seen[eventID], nil
}

func (s *mockIdempotencyStore) Close() error { return nil }

type stubFeatureGate struct {
	err error
}

func (g *stubFeatureGate) RequireFeature(context.Context, uuid.UUID, billing.FeatureKey) error {
	return g.err
}

type stubPhotoStorage struct {
	uploadURL string
	viewURL   string
	err       error
}

func (s *stubPhotoStorage) PresignUpload(_ context.Context, _, _ string, _ time.Duration) (string, error) {
	return s.uploadURL, s.err
}

func (s *stubPhotoStorage) PresignView(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.viewURL + objectKey, nil
}
