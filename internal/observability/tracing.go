package observability

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const syncTracerName = "ordersync/pipeline"

type contextKey string

const (
	requestIDKey contextKey = "observability.request_id"
	routeKey     contextKey = "observability.route"
)

// Span is the application-level tracing span contract.
type Span interface {
	End()
	RecordError(error)
}

type otelSpan struct {
	inner trace.Span
}

// StartSyncSpan starts a tracing span for one synchronization run.
func StartSyncSpan(ctx context.Context, collection, table, runID string) (context.Context, Span) {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		collection = "unknown"
	}
	attrs := []attribute.KeyValue{
		attribute.String("sync.collection", collection),
		attribute.String("sync.table", strings.TrimSpace(table)),
		attribute.String("sync.run_id", runID),
	}

	ctx, span := otel.Tracer(syncTracerName).Start(ctx, "sync."+collection,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)

	return ctx, otelSpan{inner: span}
}

// WithRequestMetadata enriches context and current span with request metadata.
func WithRequestMetadata(ctx context.Context, requestID, route string) context.Context {
	requestID = strings.TrimSpace(requestID)
	route = strings.TrimSpace(route)
	if requestID != "" {
		ctx = context.WithValue(ctx, requestIDKey, requestID)
	}
	if route != "" {
		ctx = context.WithValue(ctx, routeKey, route)
	}
	setSpanRequestAttributes(ctx, requestID, route)
	return ctx
}

// RequestIDFromContext extracts request id.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(requestIDKey).(string)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

// RouteFromContext extracts normalized route path.
func RouteFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(routeKey).(string)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func setSpanRequestAttributes(ctx context.Context, requestID, route string) {
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return
	}
	attrs := make([]attribute.KeyValue, 0, 2)
	if requestID != "" {
		attrs = append(attrs, attribute.String("request.id", requestID))
	}
	if route != "" {
		attrs = append(attrs, attribute.String("http.route", route))
	}
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
}

func (s otelSpan) End() {
	if s.inner == nil {
		return
	}
	s.inner.End()
}

func (s otelSpan) RecordError(err error) {
	if s.inner == nil || err == nil {
		return
	}
	s.inner.RecordError(err)
	s.inner.SetStatus(codes.Error, err.Error())
}
