package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence"
	"github.com/rentfold/backend/tests/testutil"
)

// TestLeaseFlow_Integration walks a lease from draft through an activated
// lease with a settled rent payment, against a real database.
func TestLeaseFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	propertyRepo := persistence.NewGormPropertyRepository(testDB.DB)
	unitRepo := persistence.NewGormUnitRepository(testDB.DB)
	tenantRepo := persistence.NewGormTenantRepository(testDB.DB)
	leaseRepo := persistence.NewGormLeaseRepository(testDB.DB)
	paymentRepo := persistence.NewGormRentPaymentRepository(testDB.DB)
	ctx := context.Background()
	businessID := testutil.TestBusinessID()

	testDB.CreateTestBusiness(businessID)

	property, err := portfolio.NewProperty(businessID, "Sunset Commons", portfolio.PropertyTypeMultiFamily, testAddress(t))
	require.NoError(t, err)
	require.NoError(t, propertyRepo.Save(ctx, property))

	unit, err := portfolio.NewUnit(businessID, property.ID, "1A", 2, decimal.NewFromInt(1), 162500)
	require.NoError(t, err)
	require.NoError(t, unitRepo.Save(ctx, unit))

	tenant, err := leasing.NewTenant(businessID, "Dana", "Whitfield", "dana.whitfield@example.com", "+1-555-0142")
	require.NoError(t, err)
	require.NoError(t, tenantRepo.Save(ctx, tenant))

	start := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	end := start.AddDate(1, 0, 0)
	lease, err := leasing.NewLease(businessID, unit.ID, tenant.ID, start, &end, 162500, 162500)
	require.NoError(t, err)
	require.NoError(t, leaseRepo.Save(ctx, lease))

	t.Run("Activate lease and occupy unit", func(t *testing.T) {
		loaded, err := leaseRepo.FindByIDForBusiness(ctx, lease.ID, businessID)
		require.NoError(t, err)
		require.NoError(t, loaded.Activate())
		require.NoError(t, leaseRepo.SaveWithLock(ctx, loaded, loaded.Version-1))

		loadedUnit, err := unitRepo.FindByID(ctx, unit.ID)
		require.NoError(t, err)
		require.NoError(t, loadedUnit.MarkOccupied())
		require.NoError(t, unitRepo.SaveWithLock(ctx, loadedUnit, loadedUnit.Version-1))

		open, err := leaseRepo.FindOpenByUnit(ctx, unit.ID)
		require.NoError(t, err)
		assert.Equal(t, lease.ID, open.ID)
		assert.Equal(t, leasing.LeaseStatusActive, open.Status)
		require.NotNil(t, open.ActivatedAt)
	})

	t.Run("Record and settle a rent payment", func(t *testing.T) {
		payment, err := leasing.NewRentPayment(businessID, lease.ID, 162500, start, leasing.PaymentMethodCard)
		require.NoError(t, err)
		require.NoError(t, paymentRepo.Save(ctx, payment))

		loaded, err := paymentRepo.FindByIDForBusiness(ctx, payment.ID, businessID)
		require.NoError(t, err)
		assert.Equal(t, leasing.PaymentStatusPending, loaded.Status)

		require.NoError(t, loaded.MarkPaid(time.Now(), "sq-payment-42"))
		require.NoError(t, paymentRepo.SaveWithLock(ctx, loaded, loaded.Version-1))

		byGateway, err := paymentRepo.FindByGatewayPaymentID(ctx, "sq-payment-42")
		require.NoError(t, err)
		assert.Equal(t, payment.ID, byGateway.ID)
		assert.Equal(t, leasing.PaymentStatusPaid, byGateway.Status)

		history, err := paymentRepo.FindByLease(ctx, lease.ID, businessID)
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("Overdue filter catches pending payments past due", func(t *testing.T) {
		overdue, err := leasing.NewRentPayment(businessID, lease.ID, 162500, time.Now().AddDate(0, -1, 0), leasing.PaymentMethodACH)
		require.NoError(t, err)
		require.NoError(t, paymentRepo.Save(ctx, overdue))

		status := leasing.PaymentStatusPending
		now := time.Now()
		result, err := paymentRepo.FindAllForBusiness(ctx, businessID, leasing.RentPaymentFilter{
			Filter:    shared.Filter{Page: 1, PageSize: 10},
			Status:    &status,
			DueBefore: &now,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		assert.Equal(t, overdue.ID, result.Items[0].ID)
	})

	t.Run("Expired active sweep finds leases past their end date", func(t *testing.T) {
		backUnit, err := portfolio.NewUnit(businessID, property.ID, "1B", 1, decimal.NewFromInt(1), 140000)
		require.NoError(t, err)
		require.NoError(t, unitRepo.Save(ctx, backUnit))

		expiredEnd := time.Now().AddDate(0, 0, -3)
		expiredStart := expiredEnd.AddDate(-1, 0, 0)
		expired, err := leasing.NewLease(businessID, backUnit.ID, tenant.ID, expiredStart, &expiredEnd, 140000, 0)
		require.NoError(t, err)
		require.NoError(t, expired.Activate())
		require.NoError(t, leaseRepo.Save(ctx, expired))

		found, err := leaseRepo.FindExpiredActive(ctx, time.Now(), 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, expired.ID, found[0].ID)
	})

	t.Run("End lease frees the unit", func(t *testing.T) {
		loaded, err := leaseRepo.FindByIDForBusiness(ctx, lease.ID, businessID)
		require.NoError(t, err)
		require.NoError(t, loaded.End())
		require.NoError(t, leaseRepo.SaveWithLock(ctx, loaded, loaded.Version-1))

		_, err = leaseRepo.FindOpenByUnit(ctx, unit.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
