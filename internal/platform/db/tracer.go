package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const slowQueryThreshold = 250 * time.Millisecond

type queryStartKey struct{}

type queryStart struct {
	sql   string
	begin time.Time
}

// QueryTracer logs query timing and failures through slog. It replaces
// ad hoc wrapping of individual client calls with a single choke point
// on the connection.
type QueryTracer struct {
	logger *slog.Logger
}

// NewQueryTracer constructs a tracer bound to the given logger.
func NewQueryTracer(logger *slog.Logger) *QueryTracer {
	return &QueryTracer{logger: logger}
}

// TraceQueryStart implements pgx.QueryTracer.
func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, begin: time.Now()})
}

// TraceQueryEnd implements pgx.QueryTracer.
func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := time.Since(start.begin)
	if data.Err != nil {
		t.logger.Warn("query failed",
			slog.String("sql", start.sql),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", data.Err))
		return
	}
	if elapsed >= slowQueryThreshold {
		t.logger.Warn("slow query",
			slog.String("sql", start.sql),
			slog.Duration("elapsed", elapsed))
	}
}
