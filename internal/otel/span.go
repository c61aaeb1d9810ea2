// Package otel holds span helpers shared by the sync pipeline.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Attribute keys used on sync spans
const (
	AttrStage       = attribute.Key("sync.stage")
	AttrJob         = attribute.Key("sync.job")
	AttrRunID       = attribute.Key("sync.run_id")
	AttrTarget      = attribute.Key("sync.target")
	AttrProcessed   = attribute.Key("sync.processed")
	AttrFailedUnits = attribute.Key("sync.failed_units")
)

// StartSpan starts a span on tracer. A nil tracer yields a no-op span and
// leaves ctx untouched, so ending it never touches a caller's span.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, noop.Span{}
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError marks span as failed. The status description stays generic;
// the error itself is attached as a span event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}

// End records err (if any) and ends span
func End(span trace.Span, err error) {
	if span == nil {
		return
	}
	RecordError(span, err)
	span.End()
}
