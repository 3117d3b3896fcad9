package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/domain/shared/valueobject"
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

type mockEntitlementChecker struct {
	mock.Mock
}

func (m *mockEntitlementChecker) CheckResourceCreation(ctx context.Context, businessID uuid.UUID, resource billing.LimitedResource) error {
	args := m.Called(ctx, businessID, resource)
	return args.Error(0)
}

func setupPropertyService(t *testing.T) (*PropertyService, *mockPropertyRepository, *mockEntitlementChecker) {
	t.Helper()
	propertyRepo := new(mockPropertyRepository)
	entitlements := new(mockEntitlementChecker)
	svc := NewPropertyService(propertyRepo, entitlements, zap.NewNop())
	return svc, propertyRepo, entitlements
}

func testAddress(t *testing.T) valueobject.Address {
	t.Helper()
	address, err := valueobject.NewAddress("100 Main St", "Springfield", "IL", "62701")
	require.NoError(t, err)
	return address
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	return domainErr.Code
}

func TestPropertyServiceCreate(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("creates a property when under the plan limit", func(t *testing.T) {
		svc, propertyRepo, entitlements := setupPropertyService(t)

		entitlements.On("CheckResourceCreation", ctx, businessID, billing.ResourceProperty).Return(nil)
		propertyRepo.On("Save", ctx, mock.AnythingOfType("*portfolio.Property")).Return(nil)

		year := 1998
		property, err := svc.Create(ctx, CreatePropertyInput{
			BusinessID: businessID,
			Name:       "Maple Court",
			Type:       portfolio.PropertyTypeMultiFamily,
			Address:    testAddress(t),
			YearBuilt:  &year,
		})

		require.NoError(t, err)
		assert.Equal(t, "Maple Court", property.Name)
		assert.Equal(t, businessID, property.BusinessID)
		require.NotNil(t, property.YearBuilt)
		assert.Equal(t, 1998, *property.YearBuilt)
	})

	t.Run("plan limit blocks creation before any write", func(t *testing.T) {
		svc, propertyRepo, entitlements := setupPropertyService(t)

		limitErr := billing.NewLimitReachedError(billing.ResourceProperty, 5, 5)
		entitlements.On("CheckResourceCreation", ctx, businessID, billing.ResourceProperty).Return(limitErr)

		_, err := svc.Create(ctx, CreatePropertyInput{
			BusinessID: businessID,
			Name:       "Maple Court",
			Type:       portfolio.PropertyTypeMultiFamily,
			Address:    testAddress(t),
		})

		var reached *billing.LimitReachedError
		require.True(t, errors.As(err, &reached))
		assert.Equal(t, billing.ResourceProperty, reached.Resource)
		propertyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid year built is rejected", func(t *testing.T) {
		svc, propertyRepo, entitlements := setupPropertyService(t)

		entitlements.On("CheckResourceCreation", ctx, businessID, billing.ResourceProperty).Return(nil)

		year := 1550
		_, err := svc.Create(ctx, CreatePropertyInput{
			BusinessID: businessID,
			Name:       "Maple Court",
			Type:       portfolio.PropertyTypeSingleFamily,
			Address:    testAddress(t),
			YearBuilt:  &year,
		})

		assert.Equal(t, "INVALID_YEAR_BUILT", domainCode(t, err))
		propertyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPropertyServiceUpdate(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("updates name and type", func(t *testing.T) {
		svc, propertyRepo, _ := setupPropertyService(t)
		property, err := portfolio.NewProperty(businessID, "Maple Court", portfolio.PropertyTypeMultiFamily, testAddress(t))
		require.NoError(t, err)

		propertyRepo.On("FindByIDForBusiness", ctx, property.ID, businessID).Return(property, nil)
		propertyRepo.On("SaveWithLock", ctx, property, mock.AnythingOfType("int")).Return(nil)

		updated, err := svc.Update(ctx, UpdatePropertyInput{
			BusinessID: businessID,
			PropertyID: property.ID,
			Name:       "Maple Court Apartments",
			Type:       portfolio.PropertyTypeApartment,
			Address:    testAddress(t),
			Notes:      "renamed after renovation",
		})

		require.NoError(t, err)
		assert.Equal(t, "Maple Court Apartments", updated.Name)
		assert.Equal(t, portfolio.PropertyTypeApartment, updated.Type)
	})

	t.Run("missing property maps to not found", func(t *testing.T) {
		svc, propertyRepo, _ := setupPropertyService(t)
		id := uuid.New()

		propertyRepo.On("FindByIDForBusiness", ctx, id, businessID).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, UpdatePropertyInput{
			BusinessID: businessID,
			PropertyID: id,
			Name:       "Anything",
			Type:       portfolio.PropertyTypeApartment,
			Address:    testAddress(t),
		})

		assert.Equal(t, "PROPERTY_NOT_FOUND", domainCode(t, err))
	})
}

func TestPropertyServiceDeactivate(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("deactivate then reactivate", func(t *testing.T) {
		svc, propertyRepo, _ := setupPropertyService(t)
		property, err := portfolio.NewProperty(businessID, "Maple Court", portfolio.PropertyTypeMultiFamily, testAddress(t))
		require.NoError(t, err)

		propertyRepo.On("FindByIDForBusiness", ctx, property.ID, businessID).Return(property, nil)
		propertyRepo.On("SaveWithLock", ctx, property, mock.AnythingOfType("int")).Return(nil)

		require.NoError(t, svc.Deactivate(ctx, businessID, property.ID))
		assert.False(t, property.IsActive)

		require.NoError(t, svc.Reactivate(ctx, businessID, property.ID))
		assert.True(t, property.IsActive)
	})
}
