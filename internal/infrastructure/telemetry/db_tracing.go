package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls the otelgorm plugin and the slow query marker.
type DBTracingConfig struct {
	Enabled          bool
	DBName           string
	IncludeQueryArgs bool
	SlowQueryThresh  time.Duration
}

type queryStartKey struct{}

// InstrumentDB registers otelgorm on db plus callbacks that tag each statement
// span with its table, affected rows and a slow query flag.
func InstrumentDB(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.IncludeQueryArgs {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	thresh := cfg.SlowQueryThresh
	if thresh <= 0 {
		thresh = 200 * time.Millisecond
	}
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateStatement(tx, thresh) }

	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("backoffice:trace_before_create", before),
		cb.Query().Before("gorm:query").Register("backoffice:trace_before_query", before),
		cb.Update().Before("gorm:update").Register("backoffice:trace_before_update", before),
		cb.Delete().Before("gorm:delete").Register("backoffice:trace_before_delete", before),
		cb.Row().Before("gorm:row").Register("backoffice:trace_before_row", before),
		cb.Raw().Before("gorm:raw").Register("backoffice:trace_before_raw", before),
		cb.Create().After("gorm:create").Register("backoffice:trace_after_create", after),
		cb.Query().After("gorm:query").Register("backoffice:trace_after_query", after),
		cb.Update().After("gorm:update").Register("backoffice:trace_after_update", after),
		cb.Delete().After("gorm:delete").Register("backoffice:trace_after_delete", after),
		cb.Row().After("gorm:row").Register("backoffice:trace_after_row", after),
		cb.Raw().After("gorm:raw").Register("backoffice:trace_after_raw", after),
	} {
		if err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.String("db_name", cfg.DBName),
		zap.Duration("slow_query_threshold", thresh),
	)
	return nil
}

func annotateStatement(tx *gorm.DB, thresh time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		RecordError(span, tx.Error)
	}

	started, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(started); elapsed > thresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
