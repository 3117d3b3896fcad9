package affiliate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeAffiliate(t *testing.T, rate string) *Affiliate {
	t.Helper()
	affiliate, err := NewAffiliate("Sunrise Realty", "partners@sunrise.example.com", "SUNRISE10", decimal.RequireFromString(rate))
	require.NoError(t, err)
	return affiliate
}

func TestNewAffiliate(t *testing.T) {
	t.Run("valid affiliate", func(t *testing.T) {
		affiliate := activeAffiliate(t, "0.15")
		assert.Equal(t, "SUNRISE10", affiliate.ReferralCode)
		assert.Equal(t, AffiliateStatusActive, affiliate.Status)
		assert.True(t, affiliate.CanEarn())
	})

	t.Run("code is uppercased", func(t *testing.T) {
		affiliate, err := NewAffiliate("Sunrise", "a@b.co", " sunrise10 ", decimal.RequireFromString("0.1"))
		require.NoError(t, err)
		assert.Equal(t, "SUNRISE10", affiliate.ReferralCode)
	})

	t.Run("rate above 1 is rejected", func(t *testing.T) {
		_, err := NewAffiliate("Sunrise", "a@b.co", "SUNRISE10", decimal.RequireFromString("1.01"))
		assert.Error(t, err)
	})

	t.Run("negative rate is rejected", func(t *testing.T) {
		_, err := NewAffiliate("Sunrise", "a@b.co", "SUNRISE10", decimal.RequireFromString("-0.1"))
		assert.Error(t, err)
	})

	t.Run("short code is rejected", func(t *testing.T) {
		_, err := NewAffiliate("Sunrise", "a@b.co", "AB", decimal.RequireFromString("0.1"))
		assert.Error(t, err)
	})
}

func TestCommissionFor(t *testing.T) {
	t.Run("truncates toward zero", func(t *testing.T) {
		// 15% of $49.99 is 749.85 cents; the affiliate gets 749.
		affiliate := activeAffiliate(t, "0.15")
		assert.Equal(t, int64(749), affiliate.CommissionFor(4999))
	})

	t.Run("exact rate", func(t *testing.T) {
		affiliate := activeAffiliate(t, "0.10")
		assert.Equal(t, int64(1490), affiliate.CommissionFor(14900))
	})

	t.Run("zero rate earns nothing", func(t *testing.T) {
		affiliate := activeAffiliate(t, "0")
		assert.Equal(t, int64(0), affiliate.CommissionFor(14900))
	})

	t.Run("sub-cent commission truncates to zero", func(t *testing.T) {
		affiliate := activeAffiliate(t, "0.0001")
		assert.Equal(t, int64(0), affiliate.CommissionFor(4999))
	})
}

func TestAffiliateStatusTransitions(t *testing.T) {
	affiliate := activeAffiliate(t, "0.15")

	require.NoError(t, affiliate.Suspend())
	assert.False(t, affiliate.CanEarn())
	assert.Error(t, affiliate.Suspend())

	require.NoError(t, affiliate.Reinstate())
	assert.True(t, affiliate.CanEarn())

	require.NoError(t, affiliate.Close())
	assert.False(t, affiliate.CanEarn())
	assert.Error(t, affiliate.Reinstate())
}

func TestReferralConversion(t *testing.T) {
	newReferral := func(t *testing.T) *Referral {
		t.Helper()
		referral, err := NewReferral(uuid.New(), uuid.New(), time.Now())
		require.NoError(t, err)
		return referral
	}

	t.Run("converts once with commission", func(t *testing.T) {
		referral := newReferral(t)

		require.NoError(t, referral.Convert(749))
		assert.True(t, referral.Converted)
		assert.Equal(t, int64(749), referral.CommissionCents)

		assert.Error(t, referral.Convert(749), "second conversion should fail")
	})

	t.Run("payout requires conversion", func(t *testing.T) {
		referral := newReferral(t)
		assert.Error(t, referral.ApprovePayout())

		require.NoError(t, referral.Convert(749))
		require.NoError(t, referral.ApprovePayout())
		assert.True(t, referral.PayoutApproved)
		assert.Error(t, referral.ApprovePayout())
	})
}
