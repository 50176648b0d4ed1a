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

// DBTracingConfig holds configuration for database tracing
type DBTracingConfig struct {
	Enabled          bool          // enable database tracing
	LogFullSQL       bool          // include full SQL statements in spans, development only
	SlowQueryThresh  time.Duration // threshold for marking queries as slow
	DBSystem         string        // database system name
	WithoutVariables bool          // exclude query variables from the recorded SQL
}

// DefaultDBTracingConfig returns the default, secure configuration
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          false,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime stores the query start time in the context for slow
// query detection
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}

// DBTracingPlugin wraps the otelgorm plugin and augments its spans with
// row counts, table names, error status and slow query events.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a database tracing plugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// RegisterOtelGorm registers the otelgorm plugin plus the timing and span
// annotation callbacks on the GORM instance. A no-op when tracing is
// disabled.
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

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

// registerCallbacks hooks the timing callback before, and the annotation
// callback after, every GORM operation
func (p *DBTracingPlugin) registerCallbacks(db *gorm.DB) error {
	registrations := []func() error{
		func() error {
			return db.Callback().Create().Before("gorm:create").Register("otel_timing:before_create", startTimeCallback)
		},
		func() error {
			return db.Callback().Create().After("gorm:create").Register("otel_annotate:after_create", p.annotateSpanCallback)
		},
		func() error {
			return db.Callback().Query().Before("gorm:query").Register("otel_timing:before_query", startTimeCallback)
		},
		func() error {
			return db.Callback().Query().After("gorm:query").Register("otel_annotate:after_query", p.annotateSpanCallback)
		},
		func() error {
			return db.Callback().Update().Before("gorm:update").Register("otel_timing:before_update", startTimeCallback)
		},
		func() error {
			return db.Callback().Update().After("gorm:update").Register("otel_annotate:after_update", p.annotateSpanCallback)
		},
		func() error {
			return db.Callback().Delete().Before("gorm:delete").Register("otel_timing:before_delete", startTimeCallback)
		},
		func() error {
			return db.Callback().Delete().After("gorm:delete").Register("otel_annotate:after_delete", p.annotateSpanCallback)
		},
		func() error {
			return db.Callback().Row().Before("gorm:row").Register("otel_timing:before_row", startTimeCallback)
		},
		func() error {
			return db.Callback().Row().After("gorm:row").Register("otel_annotate:after_row", p.annotateSpanCallback)
		},
		func() error {
			return db.Callback().Raw().Before("gorm:raw").Register("otel_timing:before_raw", startTimeCallback)
		},
		func() error {
			return db.Callback().Raw().After("gorm:raw").Register("otel_annotate:after_raw", p.annotateSpanCallback)
		},
	}

	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

// startTimeCallback records when the operation began
func startTimeCallback(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = WithQueryStartTime(db.Statement.Context)
	}
}

// annotateSpanCallback enriches the active span after a database operation
func (p *DBTracingPlugin) annotateSpanCallback(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// Record not found is an expected outcome, not a span error
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}
