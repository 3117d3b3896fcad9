// Package scheduler runs the recurring background jobs: the lease expiry
// sweep, subscription period rollover, and AI usage aggregation. Jobs are
// registered with a name plus an interval or a standard cron expression and
// executed in-process.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobFunc is a single job run. Implementations honor ctx cancellation.
type JobFunc func(ctx context.Context) error

// Config holds scheduler configuration
type Config struct {
	// MaxConcurrentJobs bounds how many jobs may run at once
	MaxConcurrentJobs int

	// JobTimeout is the maximum duration of one job run
	JobTimeout time.Duration

	// RetryAttempts is how many times a failed run is retried
	RetryAttempts int

	// RetryDelay is the pause between retries
	RetryDelay time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrentJobs: 3,
		JobTimeout:        30 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        5 * time.Minute,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.MaxConcurrentJobs <= 0 || c.JobTimeout <= 0 || c.RetryAttempts < 0 {
		return ErrInvalidConfig
	}
	return nil
}

type job struct {
	name     string
	schedule cron.Schedule
	run      JobFunc
}

// Scheduler executes registered jobs on their schedules with a bounded
// level of concurrency, a per-run timeout, and retries on failure.
type Scheduler struct {
	config Config
	logger *zap.Logger

	mu        sync.Mutex
	jobs      map[string]*job
	sem       chan struct{}
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
}

// NewScheduler creates a new scheduler
func NewScheduler(config Config, logger *zap.Logger) (*Scheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{
		config: config,
		logger: logger,
		jobs:   make(map[string]*job),
		sem:    make(chan struct{}, config.MaxConcurrentJobs),
	}, nil
}

// RegisterInterval registers a job that runs every interval
func (s *Scheduler) RegisterInterval(name string, interval time.Duration, fn JobFunc) error {
	if interval <= 0 {
		return ErrInvalidSchedule
	}
	return s.register(name, cron.Every(interval), fn)
}

// RegisterCron registers a job on a standard five-field cron expression
func (s *Scheduler) RegisterCron(name, spec string, fn JobFunc) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return ErrInvalidSchedule
	}
	return s.register(name, schedule, fn)
}

func (s *Scheduler) register(name string, schedule cron.Schedule, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return ErrSchedulerAlreadyRunning
	}
	if _, exists := s.jobs[name]; exists {
		return ErrJobAlreadyRegistered
	}

	s.jobs[name] = &job{name: name, schedule: schedule, run: fn}
	return nil
}

// Start launches one goroutine per registered job
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}

	s.logger.Info("Scheduler started",
		zap.Int("jobs", len(s.jobs)),
		zap.Int("max_concurrent", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop cancels all job loops and waits for in-flight runs to finish
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// RunNow executes a registered job immediately, outside its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	j, ok := s.jobs[name]
	s.mu.Unlock()

	if !ok {
		return ErrJobNotFound
	}

	s.execute(ctx, j)
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// loop sleeps until each scheduled run, then executes the job
func (s *Scheduler) loop(ctx context.Context, j *job) {
	defer s.wg.Done()

	for {
		next := j.schedule.Next(time.Now())
		delay := time.Until(next)

		s.logger.Debug("Job run scheduled",
			zap.String("job", j.name),
			zap.Time("next_run", next),
		)

		select {
		case <-ctx.Done():
			s.logger.Debug("Job loop stopping", zap.String("job", j.name))
			return
		case <-time.After(delay):
			s.execute(ctx, j)
		}
	}
}

// execute runs a job once with the concurrency bound, per-run timeout, and retries
func (s *Scheduler) execute(ctx context.Context, j *job) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-s.sem }()

	for attempt := 0; ; attempt++ {
		runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
		start := time.Now()
		err := j.run(runCtx)
		cancel()

		if err == nil {
			s.logger.Info("Job completed",
				zap.String("job", j.name),
				zap.Duration("duration", time.Since(start)),
			)
			return
		}

		s.logger.Error("Job failed",
			zap.String("job", j.name),
			zap.Int("attempt", attempt+1),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)

		if attempt >= s.config.RetryAttempts {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.config.RetryDelay):
		}
	}
}
