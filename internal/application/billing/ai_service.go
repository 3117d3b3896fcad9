package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// KeyCipher encrypts provider API keys at rest. Implemented in
// infrastructure/crypto.
type KeyCipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// AIService manages per-business AI provider keys and meters their usage
type AIService struct {
	keyRepo     billing.AIAPIKeyRepository
	usageRepo   billing.AIUsageRepository
	entitlement *EntitlementService
	cipher      KeyCipher
	logger      *zap.Logger
}

// NewAIService creates a new AIService
func NewAIService(
	keyRepo billing.AIAPIKeyRepository,
	usageRepo billing.AIUsageRepository,
	entitlement *EntitlementService,
	cipher KeyCipher,
	logger *zap.Logger,
) *AIService {
	return &AIService{
		keyRepo:     keyRepo,
		usageRepo:   usageRepo,
		entitlement: entitlement,
		cipher:      cipher,
		logger:      logger,
	}
}

// RegisterKeyInput contains input for registering a provider key
type RegisterKeyInput struct {
	BusinessID uuid.UUID
	Provider   billing.AIProvider
	Label      string
	PlainKey   string
}

// RegisterKey stores a provider API key, encrypted at rest. The plan
// must grant the AI assistant feature.
func (s *AIService) RegisterKey(ctx context.Context, input RegisterKeyInput) (*billing.AIAPIKey, error) {
	if err := s.entitlement.RequireFeature(ctx, input.BusinessID, billing.FeatureAIAssistant); err != nil {
		return nil, err
	}
	if len(input.PlainKey) < 8 {
		return nil, shared.NewDomainError("INVALID_KEY", "API key is too short")
	}

	ciphertext, err := s.cipher.Encrypt([]byte(input.PlainKey))
	if err != nil {
		s.logger.Error("Failed to encrypt API key", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to encrypt API key")
	}

	key, err := billing.NewAIAPIKey(input.BusinessID, input.Provider, input.Label, ciphertext, input.PlainKey[len(input.PlainKey)-4:])
	if err != nil {
		return nil, err
	}

	if err := s.keyRepo.Save(ctx, key); err != nil {
		s.logger.Error("Failed to save API key", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save API key")
	}

	s.logger.Info("AI API key registered",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("provider", string(input.Provider)),
		zap.String("last_four", key.KeyLastFour))

	return key, nil
}

// RotateKey replaces a key's secret material
func (s *AIService) RotateKey(ctx context.Context, businessID, keyID uuid.UUID, plainKey string) (*billing.AIAPIKey, error) {
	if len(plainKey) < 8 {
		return nil, shared.NewDomainError("INVALID_KEY", "API key is too short")
	}

	key, err := s.findKey(ctx, businessID, keyID)
	if err != nil {
		return nil, err
	}

	ciphertext, err := s.cipher.Encrypt([]byte(plainKey))
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to encrypt API key")
	}

	if err := key.Rotate(ciphertext, plainKey[len(plainKey)-4:]); err != nil {
		return nil, err
	}

	if err := s.keyRepo.Save(ctx, key); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save rotated key")
	}

	return key, nil
}

// SetMonthlyBudget caps the tokens a key may spend per calendar month
func (s *AIService) SetMonthlyBudget(ctx context.Context, businessID, keyID uuid.UUID, tokens int64) error {
	key, err := s.findKey(ctx, businessID, keyID)
	if err != nil {
		return err
	}

	if tokens <= 0 {
		key.ClearMonthlyBudget()
	} else if err := key.SetMonthlyBudget(tokens); err != nil {
		return err
	}

	if err := s.keyRepo.Save(ctx, key); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save budget")
	}

	return nil
}

// DeactivateKey retires a key
func (s *AIService) DeactivateKey(ctx context.Context, businessID, keyID uuid.UUID) error {
	key, err := s.findKey(ctx, businessID, keyID)
	if err != nil {
		return err
	}

	if err := key.Deactivate(); err != nil {
		return err
	}

	if err := s.keyRepo.Save(ctx, key); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save key")
	}

	return nil
}

// ListKeys returns a business's provider keys. Ciphertext never leaves
// the service; callers see only the last four characters.
func (s *AIService) ListKeys(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]*billing.AIAPIKey, error) {
	keys, err := s.keyRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list keys")
	}
	return keys, nil
}

// RecordUsageInput contains input for metering one AI call
type RecordUsageInput struct {
	BusinessID   uuid.UUID
	KeyID        uuid.UUID
	Feature      string
	InputTokens  int64
	OutputTokens int64
	CostCents    int64
	OccurredAt   time.Time
}

// RecordUsage meters an AI call against a key. Calls that would push the
// key past its monthly token budget are refused before being recorded.
func (s *AIService) RecordUsage(ctx context.Context, input RecordUsageInput) (*billing.AIUsageRecord, error) {
	key, err := s.findKey(ctx, input.BusinessID, input.KeyID)
	if err != nil {
		return nil, err
	}
	if !key.IsActive {
		return nil, shared.NewDomainError("KEY_INACTIVE", "API key has been deactivated")
	}

	if key.MonthlyTokenBudget != nil {
		monthStart, monthEnd := currentMonth()
		used, err := s.usageRepo.TokensUsedByKey(ctx, key.ID, monthStart, monthEnd)
		if err != nil {
			s.logger.Error("Failed to sum token usage", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to sum token usage")
		}
		if used+input.InputTokens+input.OutputTokens > *key.MonthlyTokenBudget {
			s.logger.Info("Monthly token budget exhausted",
				zap.String("key_id", key.ID.String()),
				zap.Int64("used", used),
				zap.Int64("budget", *key.MonthlyTokenBudget))
			return nil, shared.NewDomainError("AI_BUDGET_EXCEEDED", "Monthly token budget exhausted for this key")
		}
	}

	record, err := billing.NewAIUsageRecord(
		input.BusinessID, input.KeyID, key.Provider, input.Feature,
		input.InputTokens, input.OutputTokens, input.CostCents, input.OccurredAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.usageRepo.Save(ctx, record); err != nil {
		s.logger.Error("Failed to save usage record", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save usage record")
	}

	key.MarkUsed(record.OccurredAt)
	if err := s.keyRepo.Save(ctx, key); err != nil {
		s.logger.Warn("Failed to stamp key last-used time", zap.Error(err))
	}

	return record, nil
}

// GetUsageSummary aggregates a business's AI spend over a window
func (s *AIService) GetUsageSummary(ctx context.Context, businessID uuid.UUID, from, to time.Time) (*billing.AIUsageSummary, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Summary window end must be after start")
	}

	summary, err := s.usageRepo.SummarizeForBusiness(ctx, businessID, from, to)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to summarize usage")
	}
	return summary, nil
}

func (s *AIService) findKey(ctx context.Context, businessID, keyID uuid.UUID) (*billing.AIAPIKey, error) {
	key, err := s.keyRepo.FindByIDForBusiness(ctx, businessID, keyID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("KEY_NOT_FOUND", "API key not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find API key")
	}
	return key, nil
}

func currentMonth() (time.Time, time.Time) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}
