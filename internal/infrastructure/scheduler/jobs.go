package scheduler

import (
	"context"

	"github.com/rentfold/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Job names, used for registration and RunNow.
const (
	JobLeaseExpirySweep     = "lease_expiry_sweep"
	JobSubscriptionRollover = "subscription_rollover"
	JobUsageAggregation     = "ai_usage_aggregation"
)

// jobBatchSize bounds how many rows one job run touches.
const jobBatchSize = 200

// LeaseSweeper ends active fixed-term leases past their end date
type LeaseSweeper interface {
	CloseExpired(ctx context.Context, batchSize int) (int, error)
}

// SubscriptionRoller marks usable subscriptions past due once their period lapses
type SubscriptionRoller interface {
	RolloverExpired(ctx context.Context, batchSize int) (int, error)
}

// UsageAggregator rolls AI usage records into subscription period totals
type UsageAggregator interface {
	AggregateCurrentPeriods(ctx context.Context, batchSize int) (int, error)
}

// NewLeaseSweepJob returns the lease expiry sweep job
func NewLeaseSweepJob(sweeper LeaseSweeper, logger *zap.Logger) JobFunc {
	return func(ctx context.Context) error {
		closed, err := sweeper.CloseExpired(ctx, jobBatchSize)
		if err != nil {
			return err
		}
		if closed > 0 {
			logger.Info("Lease expiry sweep closed leases", zap.Int("count", closed))
		}
		return nil
	}
}

// NewSubscriptionRolloverJob returns the subscription past-due rollover job
func NewSubscriptionRolloverJob(roller SubscriptionRoller, logger *zap.Logger) JobFunc {
	return func(ctx context.Context) error {
		marked, err := roller.RolloverExpired(ctx, jobBatchSize)
		if err != nil {
			return err
		}
		if marked > 0 {
			logger.Info("Subscription rollover marked subscriptions past due", zap.Int("count", marked))
		}
		return nil
	}
}

// NewUsageAggregationJob returns the AI usage aggregation job
func NewUsageAggregationJob(aggregator UsageAggregator, logger *zap.Logger) JobFunc {
	return func(ctx context.Context) error {
		written, err := aggregator.AggregateCurrentPeriods(ctx, jobBatchSize)
		if err != nil {
			return err
		}
		if written > 0 {
			logger.Info("Usage aggregation wrote period totals", zap.Int("count", written))
		}
		return nil
	}
}

// RegisterStandardJobs registers the three recurring jobs from configuration.
// The sweep and rollover run on intervals; usage aggregation follows a cron
// expression so it can land off-peak.
func RegisterStandardJobs(
	s *Scheduler,
	cfg config.SchedulerConfig,
	sweeper LeaseSweeper,
	roller SubscriptionRoller,
	aggregator UsageAggregator,
	logger *zap.Logger,
) error {
	if err := s.RegisterInterval(JobLeaseExpirySweep, cfg.LeaseSweepInterval, NewLeaseSweepJob(sweeper, logger)); err != nil {
		return err
	}
	if err := s.RegisterInterval(JobSubscriptionRollover, cfg.SubscriptionInterval, NewSubscriptionRolloverJob(roller, logger)); err != nil {
		return err
	}
	return s.RegisterCron(JobUsageAggregation, cfg.UsageAggregationCron, NewUsageAggregationJob(aggregator, logger))
}
