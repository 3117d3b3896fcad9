package leasing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTermLease(t *testing.T) *Lease {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	lease, err := NewLease(uuid.New(), uuid.New(), uuid.New(), start, &end, 185000, 185000)
	require.NoError(t, err)
	return lease
}

func TestNewLease(t *testing.T) {
	businessID := uuid.New()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("fixed term lease", func(t *testing.T) {
		end := start.AddDate(1, 0, 0)
		lease, err := NewLease(businessID, uuid.New(), uuid.New(), start, &end, 185000, 185000)
		require.NoError(t, err)

		assert.Equal(t, LeaseStatusDraft, lease.Status)
		assert.False(t, lease.MonthToMonth)
		assert.True(t, lease.Status.IsOpen())
	})

	t.Run("month to month lease has no end date", func(t *testing.T) {
		lease, err := NewLease(businessID, uuid.New(), uuid.New(), start, nil, 185000, 0)
		require.NoError(t, err)

		assert.True(t, lease.MonthToMonth)
		assert.Nil(t, lease.EndDate)
	})

	t.Run("end date before start is rejected", func(t *testing.T) {
		end := start.AddDate(0, 0, -1)
		_, err := NewLease(businessID, uuid.New(), uuid.New(), start, &end, 185000, 0)
		assert.Error(t, err)
	})

	t.Run("zero rent is rejected", func(t *testing.T) {
		_, err := NewLease(businessID, uuid.New(), uuid.New(), start, nil, 0, 0)
		assert.Error(t, err)
	})
}

func TestLeaseLifecycle(t *testing.T) {
	t.Run("draft activates then ends", func(t *testing.T) {
		lease := fixedTermLease(t)

		require.NoError(t, lease.Activate())
		assert.Equal(t, LeaseStatusActive, lease.Status)
		require.NotNil(t, lease.ActivatedAt)

		require.NoError(t, lease.End())
		assert.Equal(t, LeaseStatusEnded, lease.Status)
		require.NotNil(t, lease.ClosedAt)
	})

	t.Run("draft cannot be ended", func(t *testing.T) {
		lease := fixedTermLease(t)
		assert.Error(t, lease.End())
	})

	t.Run("active cannot be activated again", func(t *testing.T) {
		lease := fixedTermLease(t)
		require.NoError(t, lease.Activate())
		assert.Error(t, lease.Activate())
	})

	t.Run("termination requires a reason", func(t *testing.T) {
		lease := fixedTermLease(t)
		require.NoError(t, lease.Activate())

		assert.Error(t, lease.Terminate(""))
		require.NoError(t, lease.Terminate("tenant defaulted"))
		assert.Equal(t, LeaseStatusTerminated, lease.Status)
	})

	t.Run("terms lock once active", func(t *testing.T) {
		lease := fixedTermLease(t)
		require.NoError(t, lease.UpdateTerms(190000, 190000))

		require.NoError(t, lease.Activate())
		assert.Error(t, lease.UpdateTerms(200000, 0))
	})
}

func TestLeaseExpired(t *testing.T) {
	lease := fixedTermLease(t)
	require.NoError(t, lease.Activate())

	assert.False(t, lease.Expired(lease.StartDate.AddDate(0, 6, 0)))
	assert.True(t, lease.Expired(lease.EndDate.AddDate(0, 0, 1)))

	monthToMonth, err := NewLease(uuid.New(), uuid.New(), uuid.New(), lease.StartDate, nil, 185000, 0)
	require.NoError(t, err)
	require.NoError(t, monthToMonth.Activate())
	assert.False(t, monthToMonth.Expired(time.Now().AddDate(10, 0, 0)))
}
