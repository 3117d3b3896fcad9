package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbilling "github.com/rentfold/backend/internal/application/billing"
	appidentity "github.com/rentfold/backend/internal/application/identity"
	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/auth"
	"github.com/rentfold/backend/internal/infrastructure/config"
	"github.com/rentfold/backend/internal/infrastructure/persistence"
)

func newAuthStack(t *testing.T, testDB *TestDB) (*appidentity.BusinessService, *appidentity.AuthService, billing.SubscriptionRepository) {
	t.Helper()

	logger := zap.NewNop()
	businessRepo := persistence.NewGormBusinessRepository(testDB.DB)
	userRepo := persistence.NewGormUserRepository(testDB.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(testDB.DB)
	tierRepo := persistence.NewGormPackageTierRepository(testDB.DB)
	addOnRepo := persistence.NewGormAddOnRepository(testDB.DB)

	subscriptions := appbilling.NewSubscriptionService(subscriptionRepo, tierRepo, addOnRepo, nil, logger)
	businessService := appidentity.NewBusinessService(businessRepo, userRepo, subscriptions, nil, logger)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-test-secret-0123456789",
		RefreshSecret:          "integration-test-refresh-0123456789",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "rentfold-test",
		MaxRefreshCount:        10,
	})
	authService := appidentity.NewAuthService(userRepo, jwtService, auth.NewInMemoryTokenBlacklist(), appidentity.DefaultAuthServiceConfig(), logger)

	return businessService, authService, subscriptionRepo
}

// TestSignupAndLogin_Integration registers a business end to end, then
// authenticates the owner against the stored credentials.
func TestSignupAndLogin_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	businessService, authService, subscriptionRepo := newAuthStack(t, testDB)
	ctx := context.Background()

	result, err := businessService.Register(ctx, appidentity.RegisterBusinessInput{
		BusinessName: "Harbor Property Group",
		Slug:         "harbor-property",
		ContactEmail: "hello@harborproperty.example.com",
		OwnerEmail:   "owner@harborproperty.example.com",
		Password:     "correct-horse-battery",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Business)
	assert.Equal(t, "harbor-property", result.Business.Slug)

	t.Run("Signup provisions the starter subscription", func(t *testing.T) {
		subscription, err := subscriptionRepo.FindByBusiness(ctx, result.Business.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.TierStarter, subscription.TierCode)
		assert.True(t, subscription.Status.IsUsable())
	})

	t.Run("Duplicate slug is rejected", func(t *testing.T) {
		_, err := businessService.Register(ctx, appidentity.RegisterBusinessInput{
			BusinessName: "Harbor Clone",
			Slug:         "harbor-property",
			ContactEmail: "clone@example.com",
			OwnerEmail:   "clone@example.com",
			Password:     "another-password",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SLUG_TAKEN", domainErr.Code)
	})

	t.Run("Owner can log in and refresh", func(t *testing.T) {
		login, err := authService.Login(ctx, appidentity.LoginInput{
			Email:    "owner@harborproperty.example.com",
			Password: "correct-horse-battery",
			IP:       "203.0.113.10",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, login.AccessToken)
		assert.NotEmpty(t, login.RefreshToken)
		require.NotNil(t, login.User.BusinessID)
		assert.Equal(t, result.Business.ID, *login.User.BusinessID)
		assert.Equal(t, "owner", login.User.Role)

		refreshed, err := authService.RefreshToken(ctx, appidentity.RefreshTokenInput{
			RefreshToken: login.RefreshToken,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEqual(t, login.AccessToken, refreshed.AccessToken)
	})

	t.Run("Wrong password fails and eventually locks the account", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			_, err := authService.Login(ctx, appidentity.LoginInput{
				Email:    "owner@harborproperty.example.com",
				Password: "not-the-password",
			})
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
		}

		// Fifth failure trips the lock
		_, err := authService.Login(ctx, appidentity.LoginInput{
			Email:    "owner@harborproperty.example.com",
			Password: "not-the-password",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)

		// Correct password is refused while locked
		_, err = authService.Login(ctx, appidentity.LoginInput{
			Email:    "owner@harborproperty.example.com",
			Password: "correct-horse-battery",
		})
		require.Error(t, err)
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	})
}
