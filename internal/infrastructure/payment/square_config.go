package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// SettingKeySquare is the platform_settings key holding Square credentials.
// Credentials live in the database so a platform admin can rotate them
// without a deploy.
const SettingKeySquare = "payments.square"

// SquareConfig contains credentials and settings for the Square Payments API
type SquareConfig struct {
	// AccessToken is the Square API bearer token
	AccessToken string `json:"access_token"`
	// LocationID is the Square location payments are attributed to
	LocationID string `json:"location_id"`
	// WebhookSignatureKey signs webhook deliveries (HMAC-SHA256)
	WebhookSignatureKey string `json:"webhook_signature_key"`
	// Environment selects the API host: "production" or "sandbox"
	Environment string `json:"environment"`
	// NotificationURL is the webhook URL registered with Square, used
	// as the signature prefix when verifying deliveries
	NotificationURL string `json:"notification_url"`
}

// Errors for configuration validation
var (
	ErrSquareMissingAccessToken  = errors.New("square: missing access token")
	ErrSquareMissingLocationID   = errors.New("square: missing location ID")
	ErrSquareInvalidEnvironment  = errors.New("square: environment must be 'production' or 'sandbox'")
	ErrSquareCredentialsNotFound = errors.New("square: gateway credentials are not configured")
)

// Validate validates the configuration
func (c *SquareConfig) Validate() error {
	if c.AccessToken == "" {
		return ErrSquareMissingAccessToken
	}
	if c.LocationID == "" {
		return ErrSquareMissingLocationID
	}
	if c.Environment != "" && c.Environment != "production" && c.Environment != "sandbox" {
		return ErrSquareInvalidEnvironment
	}
	return nil
}

// CredentialSource supplies raw platform setting values by key.
// The platform settings repository satisfies this interface.
type CredentialSource interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// LoadSquareConfig loads and validates Square credentials from the
// platform settings store
func LoadSquareConfig(ctx context.Context, source CredentialSource) (*SquareConfig, error) {
	raw, err := source.Get(ctx, SettingKeySquare)
	if err != nil {
		return nil, ErrSquareCredentialsNotFound
	}

	var cfg SquareConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("square: failed to parse credentials: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
