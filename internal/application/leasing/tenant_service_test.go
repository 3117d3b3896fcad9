package leasing

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
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/shared"
)

func setupTenantService(t *testing.T) (*TenantService, *mockTenantRepository, *mockEntitlementChecker) {
	t.Helper()
	tenantRepo := new(mockTenantRepository)
	entitlements := new(mockEntitlementChecker)
	service := NewTenantService(tenantRepo, entitlements, zap.NewNop())
	return service, tenantRepo, entitlements
}

func TestTenantService_Create(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	input := CreateTenantInput{
		BusinessID: businessID,
		FirstName:  "Dana",
		LastName:   "Whitfield",
		Email:      "dana@example.com",
		Phone:      "+15035550142",
	}

	t.Run("creates a tenant under the plan limit", func(t *testing.T) {
		service, tenantRepo, entitlements := setupTenantService(t)

		entitlements.On("CheckResourceCreation", ctx, businessID, billing.ResourceTenant).Return(nil)
		tenantRepo.On("Save", ctx, mock.AnythingOfType("*leasing.Tenant")).Return(nil)

		tenant, err := service.Create(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "Dana Whitfield", tenant.FullName())
		assert.True(t, tenant.IsActive)
		assert.Nil(t, tenant.CurrentUnitID)
		tenantRepo.AssertExpectations(t)
	})

	t.Run("plan limit blocks creation before any write", func(t *testing.T) {
		service, tenantRepo, entitlements := setupTenantService(t)

		entitlements.On("CheckResourceCreation", ctx, businessID, billing.ResourceTenant).
			Return(billing.NewLimitReachedError(billing.ResourceTenant, 10, 10))

		_, err := service.Create(ctx, input)

		var limitErr *billing.LimitReachedError
		require.True(t, errors.As(err, &limitErr))
		assert.Equal(t, billing.ResourceTenant, limitErr.Resource)
		tenantRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestTenantService_UpdateContact(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("updates email and phone", func(t *testing.T) {
		service, tenantRepo, _ := setupTenantService(t)
		tenant := newTestTenant(t, businessID)

		tenantRepo.On("FindByIDForBusiness", ctx, tenant.ID, businessID).Return(tenant, nil)
		tenantRepo.On("SaveWithLock", ctx, tenant, mock.AnythingOfType("int")).Return(nil)

		updated, err := service.UpdateContact(ctx, businessID, tenant.ID, "dana.w@example.com", "+15035550177")

		require.NoError(t, err)
		assert.Equal(t, "dana.w@example.com", updated.Email)
		assert.Equal(t, "+15035550177", updated.Phone)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		service, tenantRepo, _ := setupTenantService(t)
		tenantID := uuid.New()

		tenantRepo.On("FindByIDForBusiness", ctx, tenantID, businessID).Return(nil, shared.ErrNotFound)

		_, err := service.UpdateContact(ctx, businessID, tenantID, "x@example.com", "+15035550100")

		assert.Equal(t, "TENANT_NOT_FOUND", domainCode(t, err))
	})
}

func TestTenantService_SetEmergencyContact(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	service, tenantRepo, _ := setupTenantService(t)
	tenant := newTestTenant(t, businessID)

	tenantRepo.On("FindByIDForBusiness", ctx, tenant.ID, businessID).Return(tenant, nil)
	tenantRepo.On("SaveWithLock", ctx, tenant, mock.AnythingOfType("int")).Return(nil)

	updated, err := service.SetEmergencyContact(ctx, EmergencyContactInput{
		BusinessID: businessID,
		TenantID:   tenant.ID,
		Name:       "Ray Whitfield",
		Phone:      "+15035550190",
		Relation:   "brother",
	})

	require.NoError(t, err)
	require.NotNil(t, updated.EmergencyContact)
	assert.Equal(t, "Ray Whitfield", updated.EmergencyContact.Name)
}

func TestTenantService_Deactivate(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("deactivates an unassigned tenant", func(t *testing.T) {
		service, tenantRepo, _ := setupTenantService(t)
		tenant := newTestTenant(t, businessID)

		tenantRepo.On("FindByIDForBusiness", ctx, tenant.ID, businessID).Return(tenant, nil)
		tenantRepo.On("SaveWithLock", ctx, tenant, mock.AnythingOfType("int")).Return(nil)

		err := service.Deactivate(ctx, businessID, tenant.ID)

		require.NoError(t, err)
		assert.False(t, tenant.IsActive)
	})

	t.Run("refuses while a unit is assigned", func(t *testing.T) {
		service, tenantRepo, _ := setupTenantService(t)
		tenant := newTestTenant(t, businessID)
		tenant.AssignUnit(uuid.New())

		tenantRepo.On("FindByIDForBusiness", ctx, tenant.ID, businessID).Return(tenant, nil)

		err := service.Deactivate(ctx, businessID, tenant.ID)

		require.Error(t, err)
		assert.True(t, tenant.IsActive)
		tenantRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTenantService_List(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	service, tenantRepo, _ := setupTenantService(t)
	tenant := newTestTenant(t, businessID)
	page := shared.NewPaginated([]*leasing.Tenant{tenant}, 1, 1, 20)

	tenantRepo.On("FindAllForBusiness", ctx, businessID, mock.AnythingOfType("leasing.TenantFilter")).Return(&page, nil)

	result, err := service.List(ctx, businessID, leasing.TenantFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Len(t, result.Items, 1)
}
