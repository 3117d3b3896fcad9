package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfold/backend/internal/domain/finance"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence"
	"github.com/rentfold/backend/tests/testutil"
)

// TestBusinessIsolation_Integration verifies that business-scoped queries
// never leak rows across businesses.
func TestBusinessIsolation_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	ctx := context.Background()

	businessA := testutil.NewTestUUID("isolation-business-a")
	businessB := testutil.NewTestUUID("isolation-business-b")
	testDB.CreateTestBusiness(businessA)
	testDB.CreateTestBusiness(businessB)

	t.Run("Properties are invisible across businesses", func(t *testing.T) {
		repo := persistence.NewGormPropertyRepository(testDB.DB)

		propA, err := portfolio.NewProperty(businessA, "A-Side Lofts", portfolio.PropertyTypeApartment, testAddress(t))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, propA))

		propB, err := portfolio.NewProperty(businessB, "B-Side Lofts", portfolio.PropertyTypeApartment, testAddress(t))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, propB))

		listA, err := repo.FindAllForBusiness(ctx, businessA, portfolio.PropertyFilter{Filter: shared.Filter{Page: 1, PageSize: 10}})
		require.NoError(t, err)
		require.Equal(t, int64(1), listA.Total)
		assert.Equal(t, propA.ID, listA.Items[0].ID)

		_, err = repo.FindByIDForBusiness(ctx, propB.ID, businessA)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		err = repo.DeleteForBusiness(ctx, propB.ID, businessA)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		countA, err := repo.CountForBusiness(ctx, businessA)
		require.NoError(t, err)
		assert.Equal(t, int64(1), countA)
	})

	t.Run("Tenants are invisible across businesses", func(t *testing.T) {
		repo := persistence.NewGormTenantRepository(testDB.DB)

		tenantA, err := leasing.NewTenant(businessA, "Iris", "Kane", "iris.kane@example.com", "+1-555-0150")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, tenantA))

		_, err = repo.FindByIDForBusiness(ctx, tenantA.ID, businessB)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		countB, err := repo.CountForBusiness(ctx, businessB)
		require.NoError(t, err)
		assert.Equal(t, int64(0), countB)
	})

	t.Run("Account codes are unique per business, not globally", func(t *testing.T) {
		repo := persistence.NewGormLedgerAccountRepository(testDB.DB)

		accountA, err := finance.NewLedgerAccount(businessA, "4000", "Rent Revenue", finance.AccountTypeRevenue)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, accountA))

		// Same code in another business is fine
		accountB, err := finance.NewLedgerAccount(businessB, "4000", "Rent Revenue", finance.AccountTypeRevenue)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, accountB))

		// Duplicate code within the same business hits the unique index
		dup, err := finance.NewLedgerAccount(businessA, "4000", "Rent Again", finance.AccountTypeRevenue)
		require.NoError(t, err)
		err = repo.Save(ctx, dup)
		require.Error(t, err)

		foundA, err := repo.FindByCode(ctx, businessA, "4000")
		require.NoError(t, err)
		assert.Equal(t, accountA.ID, foundA.ID)

		foundB, err := repo.FindByCode(ctx, businessB, "4000")
		require.NoError(t, err)
		assert.Equal(t, accountB.ID, foundB.ID)
	})

	t.Run("Unit numbers only collide within one property", func(t *testing.T) {
		propertyRepo := persistence.NewGormPropertyRepository(testDB.DB)
		unitRepo := persistence.NewGormUnitRepository(testDB.DB)

		propA, err := portfolio.NewProperty(businessA, "North Yard", portfolio.PropertyTypeMultiFamily, testAddress(t))
		require.NoError(t, err)
		require.NoError(t, propertyRepo.Save(ctx, propA))

		propB, err := portfolio.NewProperty(businessB, "South Yard", portfolio.PropertyTypeMultiFamily, testAddress(t))
		require.NoError(t, err)
		require.NoError(t, propertyRepo.Save(ctx, propB))

		unitA, err := portfolio.NewUnit(businessA, propA.ID, "1A", 1, decimal.NewFromInt(1), 120000)
		require.NoError(t, err)
		require.NoError(t, unitRepo.Save(ctx, unitA))

		unitB, err := portfolio.NewUnit(businessB, propB.ID, "1A", 1, decimal.NewFromInt(1), 120000)
		require.NoError(t, err)
		require.NoError(t, unitRepo.Save(ctx, unitB))

		_, err = unitRepo.FindByIDForBusiness(ctx, unitA.ID, businessB)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
