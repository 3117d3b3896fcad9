package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// AIProvider identifies a supported AI model provider
type AIProvider string

const (
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
	AIProviderGemini    AIProvider = "gemini"
)

// IsValid returns true if the provider is valid
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	}
	return false
}

// String returns the string representation of AIProvider
func (p AIProvider) String() string {
	return string(p)
}

// AIAPIKey stores an encrypted provider credential used for the AI
// assistant features. Only the ciphertext and the last four characters
// are retained.
type AIAPIKey struct {
	shared.BusinessAggregateRoot
	Provider           AIProvider `json:"provider"`
	Label              string     `json:"label"`
	KeyCiphertext      []byte     `json:"-"`
	KeyLastFour        string     `json:"key_last_four"`
	MonthlyTokenBudget *int64     `json:"monthly_token_budget"` // nil = unlimited
	LastUsedAt         *time.Time `json:"last_used_at"`
	IsActive           bool       `json:"is_active"`
}

// NewAIAPIKey creates a new AI API key record
func NewAIAPIKey(businessID uuid.UUID, provider AIProvider, label string, ciphertext []byte, lastFour string) (*AIAPIKey, error) {
	if !provider.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "AI provider is not valid")
	}
	if label == "" {
		return nil, shared.NewDomainError("INVALID_LABEL", "Key label cannot be empty")
	}
	if len(label) > 100 {
		return nil, shared.NewDomainError("INVALID_LABEL", "Key label cannot exceed 100 characters")
	}
	if len(ciphertext) == 0 {
		return nil, shared.NewDomainError("INVALID_KEY", "Key ciphertext cannot be empty")
	}
	if len(lastFour) != 4 {
		return nil, shared.NewDomainError("INVALID_KEY", "Key last-four must be exactly 4 characters")
	}

	return &AIAPIKey{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Provider:              provider,
		Label:                 label,
		KeyCiphertext:         ciphertext,
		KeyLastFour:           lastFour,
		IsActive:              true,
	}, nil
}

// Rotate replaces the stored credential
func (k *AIAPIKey) Rotate(ciphertext []byte, lastFour string) error {
	if len(ciphertext) == 0 {
		return shared.NewDomainError("INVALID_KEY", "Key ciphertext cannot be empty")
	}
	if len(lastFour) != 4 {
		return shared.NewDomainError("INVALID_KEY", "Key last-four must be exactly 4 characters")
	}

	k.KeyCiphertext = ciphertext
	k.KeyLastFour = lastFour
	k.UpdatedAt = time.Now()
	k.IncrementVersion()

	return nil
}

// SetMonthlyBudget caps the tokens this key may consume per month
func (k *AIAPIKey) SetMonthlyBudget(tokens int64) error {
	if tokens <= 0 {
		return shared.NewDomainError("INVALID_BUDGET", "Token budget must be positive")
	}
	k.MonthlyTokenBudget = &tokens
	k.UpdatedAt = time.Now()
	return nil
}

// ClearMonthlyBudget removes the token cap
func (k *AIAPIKey) ClearMonthlyBudget() {
	k.MonthlyTokenBudget = nil
	k.UpdatedAt = time.Now()
}

// MarkUsed stamps the key's last use
func (k *AIAPIKey) MarkUsed(at time.Time) {
	k.LastUsedAt = &at
	k.UpdatedAt = time.Now()
}

// Deactivate soft deletes the key
func (k *AIAPIKey) Deactivate() error {
	if !k.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Key is already inactive")
	}
	k.IsActive = false
	k.UpdatedAt = time.Now()
	k.IncrementVersion()
	return nil
}
