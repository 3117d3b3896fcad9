package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rentfold/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBatchRunner struct {
	processed int
	err       error
	batchSize int
}

func (f *fakeBatchRunner) run(_ context.Context, batchSize int) (int, error) {
	f.batchSize = batchSize
	return f.processed, f.err
}

func (f *fakeBatchRunner) CloseExpired(ctx context.Context, batchSize int) (int, error) {
	return f.run(ctx, batchSize)
}

func (f *fakeBatchRunner) RolloverExpired(ctx context.Context, batchSize int) (int, error) {
	return f.run(ctx, batchSize)
}

func (f *fakeBatchRunner) AggregateCurrentPeriods(ctx context.Context, batchSize int) (int, error) {
	return f.run(ctx, batchSize)
}

func TestJobFuncs(t *testing.T) {
	ctx := context.Background()

	t.Run("lease sweep passes batch size and errors through", func(t *testing.T) {
		runner := &fakeBatchRunner{processed: 3}
		job := NewLeaseSweepJob(runner, zap.NewNop())

		require.NoError(t, job(ctx))
		assert.Equal(t, jobBatchSize, runner.batchSize)

		runner.err = errors.New("db down")
		assert.Error(t, job(ctx))
	})

	t.Run("subscription rollover errors through", func(t *testing.T) {
		runner := &fakeBatchRunner{err: errors.New("db down")}
		job := NewSubscriptionRolloverJob(runner, zap.NewNop())

		assert.Error(t, job(ctx))
	})

	t.Run("usage aggregation succeeds", func(t *testing.T) {
		runner := &fakeBatchRunner{processed: 5}
		job := NewUsageAggregationJob(runner, zap.NewNop())

		assert.NoError(t, job(ctx))
	})
}

func TestRegisterStandardJobs(t *testing.T) {
	cfg := config.SchedulerConfig{
		Enabled:              true,
		LeaseSweepInterval:   time.Hour,
		SubscriptionInterval: time.Hour,
		UsageAggregationCron: "0 1 * * *",
		MaxConcurrentJobs:    3,
		JobTimeout:           time.Minute,
		RetryAttempts:        1,
		RetryDelay:           time.Second,
	}

	runner := &fakeBatchRunner{}

	t.Run("registers all three jobs", func(t *testing.T) {
		s, err := NewScheduler(testConfig(), zap.NewNop())
		require.NoError(t, err)

		require.NoError(t, RegisterStandardJobs(s, cfg, runner, runner, runner, zap.NewNop()))

		ctx := context.Background()
		require.NoError(t, s.Start(ctx))
		defer s.Stop(ctx)

		assert.NoError(t, s.RunNow(ctx, JobLeaseExpirySweep))
		assert.NoError(t, s.RunNow(ctx, JobSubscriptionRollover))
		assert.NoError(t, s.RunNow(ctx, JobUsageAggregation))
	})

	t.Run("rejects bad aggregation cron", func(t *testing.T) {
		s, err := NewScheduler(testConfig(), zap.NewNop())
		require.NoError(t, err)

		badCfg := cfg
		badCfg.UsageAggregationCron = "never"
		assert.ErrorIs(t, RegisterStandardJobs(s, badCfg, runner, runner, runner, zap.NewNop()), ErrInvalidSchedule)
	})
}
