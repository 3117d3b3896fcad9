package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when triggering a job on a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrSchedulerAlreadyRunning is returned when registering a job after Start
	ErrSchedulerAlreadyRunning = errors.New("scheduler is already running")

	// ErrJobAlreadyRegistered is returned when a job name is registered twice
	ErrJobAlreadyRegistered = errors.New("job already registered")

	// ErrJobNotFound is returned when a job name is not registered
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidSchedule is returned for an unparsable cron expression
	ErrInvalidSchedule = errors.New("invalid job schedule")

	// ErrInvalidConfig is returned when scheduler configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
