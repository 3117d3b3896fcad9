package billing

import (
	"context"

	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UsageAggregationService rolls AI usage records up into per-subscription-period
// totals. The scheduler runs it in batches.
type UsageAggregationService struct {
	subscriptionRepo billing.SubscriptionRepository
	usageRepo        billing.AIUsageRepository
	logger           *zap.Logger
}

// NewUsageAggregationService creates a new UsageAggregationService
func NewUsageAggregationService(
	subscriptionRepo billing.SubscriptionRepository,
	usageRepo billing.AIUsageRepository,
	logger *zap.Logger,
) *UsageAggregationService {
	return &UsageAggregationService{
		subscriptionRepo: subscriptionRepo,
		usageRepo:        usageRepo,
		logger:           logger,
	}
}

// AggregateCurrentPeriods recomputes the current-period usage total for every
// usable subscription and upserts it. Returns the number of totals written.
func (s *UsageAggregationService) AggregateCurrentPeriods(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	written := 0
	for offset := 0; ; offset += batchSize {
		subscriptions, err := s.subscriptionRepo.FindUsable(ctx, batchSize, offset)
		if err != nil {
			s.logger.Error("Failed to list usable subscriptions", zap.Error(err))
			return written, shared.NewDomainError("INTERNAL_ERROR", "Failed to list usable subscriptions")
		}
		if len(subscriptions) == 0 {
			break
		}

		for _, subscription := range subscriptions {
			summary, err := s.usageRepo.SummarizeForBusiness(ctx, subscription.BusinessID, subscription.PeriodStart, subscription.PeriodEnd)
			if err != nil {
				s.logger.Warn("Failed to summarize usage for business",
					zap.String("business_id", subscription.BusinessID.String()),
					zap.Error(err))
				continue
			}
			if summary.CallCount == 0 {
				continue
			}

			total, err := billing.NewAIUsagePeriodTotal(summary)
			if err != nil {
				s.logger.Warn("Skipping invalid usage summary",
					zap.String("business_id", subscription.BusinessID.String()),
					zap.Error(err))
				continue
			}

			if err := s.usageRepo.SavePeriodTotal(ctx, total); err != nil {
				s.logger.Warn("Failed to save usage period total",
					zap.String("business_id", subscription.BusinessID.String()),
					zap.Error(err))
				continue
			}
			written++
		}

		if len(subscriptions) < batchSize {
			break
		}
	}

	if written > 0 {
		s.logger.Info("Aggregated AI usage period totals", zap.Int("count", written))
	}

	return written, nil
}
