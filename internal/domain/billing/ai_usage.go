package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// AIUsageRecord captures one metered AI call for billing. Records are
// immutable once written; a scheduled job rolls them up per billing period.
type AIUsageRecord struct {
	shared.BusinessAggregateRoot
	KeyID        uuid.UUID  `json:"key_id"`
	Provider     AIProvider `json:"provider"`
	Feature      string     `json:"feature"` // Which assistant feature made the call
	InputTokens  int64      `json:"input_tokens"`
	OutputTokens int64      `json:"output_tokens"`
	CostCents    int64      `json:"cost_cents"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

// NewAIUsageRecord creates a new usage record
func NewAIUsageRecord(
	businessID, keyID uuid.UUID,
	provider AIProvider,
	feature string,
	inputTokens, outputTokens, costCents int64,
	occurredAt time.Time,
) (*AIUsageRecord, error) {
	if keyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_KEY", "Key ID cannot be empty")
	}
	if !provider.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "AI provider is not valid")
	}
	if feature == "" {
		return nil, shared.NewDomainError("INVALID_FEATURE", "Feature cannot be empty")
	}
	if inputTokens < 0 || outputTokens < 0 {
		return nil, shared.NewDomainError("INVALID_TOKENS", "Token counts cannot be negative")
	}
	if costCents < 0 {
		return nil, shared.NewDomainError("INVALID_COST", "Cost cannot be negative")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return &AIUsageRecord{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		KeyID:                 keyID,
		Provider:              provider,
		Feature:               feature,
		InputTokens:           inputTokens,
		OutputTokens:          outputTokens,
		CostCents:             costCents,
		OccurredAt:            occurredAt,
	}, nil
}

// TotalTokens returns input plus output tokens
func (r *AIUsageRecord) TotalTokens() int64 {
	return r.InputTokens + r.OutputTokens
}

// AIUsageSummary aggregates usage for a business over a period
type AIUsageSummary struct {
	BusinessID     uuid.UUID `json:"business_id"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	TotalTokens    int64     `json:"total_tokens"`
	TotalCostCents int64     `json:"total_cost_cents"`
	CallCount      int64     `json:"call_count"`
}

// AIUsagePeriodTotal is the rolled-up usage for one subscription period.
// The aggregation job recomputes and upserts it, keyed on business plus
// period start.
type AIUsagePeriodTotal struct {
	shared.BusinessAggregateRoot
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	TotalTokens    int64     `json:"total_tokens"`
	TotalCostCents int64     `json:"total_cost_cents"`
	CallCount      int64     `json:"call_count"`
	AggregatedAt   time.Time `json:"aggregated_at"`
}

// NewAIUsagePeriodTotal builds a period total from a computed summary
func NewAIUsagePeriodTotal(summary *AIUsageSummary) (*AIUsagePeriodTotal, error) {
	if summary == nil {
		return nil, shared.NewDomainError("INVALID_SUMMARY", "Summary cannot be nil")
	}
	if summary.BusinessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if !summary.PeriodEnd.After(summary.PeriodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after start")
	}

	return &AIUsagePeriodTotal{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(summary.BusinessID),
		PeriodStart:           summary.PeriodStart,
		PeriodEnd:             summary.PeriodEnd,
		TotalTokens:           summary.TotalTokens,
		TotalCostCents:        summary.TotalCostCents,
		CallCount:             summary.CallCount,
		AggregatedAt:          time.Now(),
	}, nil
}
