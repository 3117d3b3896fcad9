package portfolio

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUnit(t *testing.T) *Unit {
	t.Helper()
	unit, err := NewUnit(uuid.New(), uuid.New(), "2B", 2, decimal.NewFromFloat(1.5), 185000)
	require.NoError(t, err)
	return unit
}

func TestNewUnit(t *testing.T) {
	businessID := uuid.New()
	propertyID := uuid.New()

	t.Run("valid unit", func(t *testing.T) {
		unit, err := NewUnit(businessID, propertyID, "2B", 2, decimal.NewFromFloat(1.5), 185000)
		require.NoError(t, err)

		assert.Equal(t, propertyID, unit.PropertyID)
		assert.Equal(t, "2B", unit.UnitNumber)
		assert.Equal(t, UnitStatusVacant, unit.Status)
		assert.Equal(t, int64(185000), unit.MarketRentCents)
		assert.True(t, unit.IsActive)
	})

	t.Run("empty unit number is rejected", func(t *testing.T) {
		_, err := NewUnit(businessID, propertyID, "", 2, decimal.NewFromInt(1), 185000)
		assert.Error(t, err)
	})

	t.Run("negative rent is rejected", func(t *testing.T) {
		_, err := NewUnit(businessID, propertyID, "2B", 2, decimal.NewFromInt(1), -1)
		assert.Error(t, err)
	})

	t.Run("negative bathrooms are rejected", func(t *testing.T) {
		_, err := NewUnit(businessID, propertyID, "2B", 2, decimal.NewFromFloat(-0.5), 185000)
		assert.Error(t, err)
	})
}

func TestUnitStatusTransitions(t *testing.T) {
	t.Run("vacant unit can be occupied", func(t *testing.T) {
		unit := newTestUnit(t)
		require.NoError(t, unit.MarkOccupied())
		assert.Equal(t, UnitStatusOccupied, unit.Status)
	})

	t.Run("occupied unit cannot be occupied again", func(t *testing.T) {
		unit := newTestUnit(t)
		require.NoError(t, unit.MarkOccupied())
		assert.Error(t, unit.MarkOccupied())
	})

	t.Run("unit in maintenance cannot be occupied", func(t *testing.T) {
		unit := newTestUnit(t)
		require.NoError(t, unit.MarkMaintenance())
		assert.Error(t, unit.MarkOccupied())
	})

	t.Run("occupied unit cannot go to maintenance or offline", func(t *testing.T) {
		unit := newTestUnit(t)
		require.NoError(t, unit.MarkOccupied())
		assert.Error(t, unit.MarkMaintenance())
		assert.Error(t, unit.MarkOffline())
	})

	t.Run("occupied unit returns to vacant", func(t *testing.T) {
		unit := newTestUnit(t)
		require.NoError(t, unit.MarkOccupied())
		require.NoError(t, unit.MarkVacant())
		assert.True(t, unit.Status.IsRentable())
	})

	t.Run("offline unit returns to vacant", func(t *testing.T) {
		unit := newTestUnit(t)
		require.NoError(t, unit.MarkOffline())
		require.NoError(t, unit.MarkVacant())
		assert.Equal(t, UnitStatusVacant, unit.Status)
	})
}

func TestUnitDeactivate(t *testing.T) {
	t.Run("occupied unit cannot be deactivated", func(t *testing.T) {
		unit := newTestUnit(t)
		require.NoError(t, unit.MarkOccupied())
		assert.Error(t, unit.Deactivate())
	})

	t.Run("vacant unit can be deactivated", func(t *testing.T) {
		unit := newTestUnit(t)
		require.NoError(t, unit.Deactivate())
		assert.False(t, unit.IsActive)
		assert.Error(t, unit.Deactivate())
	})
}

func TestUnitUpdateDetails(t *testing.T) {
	unit := newTestUnit(t)

	require.NoError(t, unit.UpdateDetails(3, decimal.NewFromInt(2), 210000, "renovated kitchen"))
	assert.Equal(t, 3, unit.Bedrooms)
	assert.Equal(t, int64(210000), unit.MarketRentCents)

	assert.Error(t, unit.UpdateDetails(-1, decimal.NewFromInt(2), 210000, ""))

	require.NoError(t, unit.SetSquareFeet(950))
	require.NotNil(t, unit.SquareFeet)
	assert.Equal(t, 950, *unit.SquareFeet)
	assert.Error(t, unit.SetSquareFeet(0))
}
