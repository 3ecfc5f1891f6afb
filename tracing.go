package sqlbuilder

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/golobby/sqlbuilder"

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// startSpan opens one span per executed statement, named after its leading
// keyword, e.g. sqlbuilder.SELECT.
func (t *Table) startSpan(ctx context.Context, query string) (context.Context, trace.Span) {
	operation := statementOperation(query)
	ctx, span := t.tracer.Start(ctx, "sqlbuilder."+operation, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("db.system", t.dialect.Name),
		attribute.String("db.statement", query),
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", t.name),
	)
	return ctx, span
}

func endSpan(span trace.Span, res *Result, elapsed time.Duration) {
	span.SetAttributes(attribute.Float64("db.duration_ms", float64(elapsed.Microseconds())/1000.0))
	if res.RowsAffected > 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", res.RowsAffected))
	}
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
