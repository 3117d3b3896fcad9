package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls GORM span generation.
type DBTracingConfig struct {
	Enabled          bool
	LogFullSQL       bool          // include full SQL in spans; leaks data in prod
	SlowQueryThresh  time.Duration // default 200ms
	DBSystem         string        // default "postgresql"
	WithoutVariables bool          // strip bind variables from recorded SQL
}

// DefaultDBTracingConfig returns the secure defaults: tracing off, SQL and
// bind variables hidden.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          false,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

// DBTracingPlugin wraps otelgorm with slow query detection and error
// marking on spans.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin builds a tracing plugin with the given configuration.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// RegisterOtelGorm installs the otelgorm plugin plus the timing and slow
// query callbacks on the GORM DB. Registering twice on the same DB errors.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}

	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	plugin := otelgorm.NewPlugin(opts...)
	if err := db.Use(plugin); err != nil {
		return err
	}

	if err := p.registerBeforeCallbacks(db); err != nil {
		return err
	}

	if err := p.registerSlowQueryCallback(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)

	return nil
}

func (p *DBTracingPlugin) registerBeforeCallbacks(db *gorm.DB) error {
	beforeCallback := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
		}
	}
	return registerForAllOps(db, "otel_timing:before_", beforeCallback, true)
}

func (p *DBTracingPlugin) registerSlowQueryCallback(db *gorm.DB) error {
	return registerForAllOps(db, "otel_slow_query:", p.slowQueryCallback, false)
}

// registerForAllOps registers the callback around every GORM operation
// type. before selects the Before hook position, otherwise After.
func registerForAllOps(db *gorm.DB, namePrefix string, fn func(*gorm.DB), before bool) error {
	if before {
		if err := db.Callback().Create().Before("gorm:create").Register(namePrefix+"create", fn); err != nil {
			return err
		}
		if err := db.Callback().Query().Before("gorm:query").Register(namePrefix+"query", fn); err != nil {
			return err
		}
		if err := db.Callback().Update().Before("gorm:update").Register(namePrefix+"update", fn); err != nil {
			return err
		}
		if err := db.Callback().Delete().Before("gorm:delete").Register(namePrefix+"delete", fn); err != nil {
			return err
		}
		if err := db.Callback().Row().Before("gorm:row").Register(namePrefix+"row", fn); err != nil {
			return err
		}
		return db.Callback().Raw().Before("gorm:raw").Register(namePrefix+"raw", fn)
	}

	if err := db.Callback().Create().After("gorm:create").Register(namePrefix+"create", fn); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register(namePrefix+"query", fn); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register(namePrefix+"update", fn); err != nil {
		return err
	}
	if err := db.Callback().Delete().After("gorm:delete").Register(namePrefix+"delete", fn); err != nil {
		return err
	}
	if err := db.Callback().Row().After("gorm:row").Register(namePrefix+"row", fn); err != nil {
		return err
	}
	return db.Callback().Raw().After("gorm:raw").Register(namePrefix+"raw", fn)
}

// slowQueryCallback annotates the active span with row counts, table name,
// errors, and a slow query event when the threshold is exceeded.
func (p *DBTracingPlugin) slowQueryCallback(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	annotateSpan(span, db)

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		markSlowQuery(span, time.Since(startTime), p.config.SlowQueryThresh)
	}
}

func annotateSpan(span trace.Span, db *gorm.DB) {
	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// record-not-found is an expected outcome, not a span error
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
}

func markSlowQuery(span trace.Span, elapsed, threshold time.Duration) {
	if elapsed <= threshold {
		return
	}
	span.SetAttributes(attribute.Bool("db.slow_query", true))
	span.SetAttributes(attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()))
	span.AddEvent("slow_query_warning", trace.WithAttributes(
		attribute.Int64("duration_ms", elapsed.Milliseconds()),
		attribute.Int64("threshold_ms", threshold.Milliseconds()),
	))
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime stamps the context with the query start time used by
// the slow query callbacks.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}

// DBTracingCallback is the standalone callback pair used when the full
// otelgorm plugin is not wanted.
type DBTracingCallback struct {
	slowQueryThresh time.Duration
}

// NewDBTracingCallback builds a callback pair with the given threshold.
func NewDBTracingCallback(slowQueryThresh time.Duration) *DBTracingCallback {
	return &DBTracingCallback{
		slowQueryThresh: slowQueryThresh,
	}
}

// BeforeCallback stamps the statement context with the start time.
func (c *DBTracingCallback) BeforeCallback(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// AfterCallback annotates the active span and flags slow queries.
func (c *DBTracingCallback) AfterCallback(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}

	span := trace.SpanFromContext(db.Statement.Context)
	if span == nil || !span.IsRecording() {
		return
	}

	annotateSpan(span, db)

	if startTime, ok := db.Statement.Context.Value(queryStartTimeKey).(time.Time); ok {
		markSlowQuery(span, time.Since(startTime), c.slowQueryThresh)
	}
}

// RegisterCallbacks installs the before/after callbacks on the GORM DB.
func (c *DBTracingCallback) RegisterCallbacks(db *gorm.DB) error {
	if err := registerForAllOps(db, "otel_timing:before_", c.BeforeCallback, true); err != nil {
		return err
	}
	return registerForAllOps(db, "otel_timing:after_", c.AfterCallback, false)
}
