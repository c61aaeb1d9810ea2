package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zigwheels/catalog-sync/internal/config"
)

// spanBatchTimeout bounds how long finished unit spans wait before export.
// A single stage can emit thousands of unit spans, so batches are flushed often.
const spanBatchTimeout = 2 * time.Second

// NewTracerProvider exports spans for res over OTLP/HTTP.
// A nil config or an empty endpoint yields a no-op provider.
func NewTracerProvider(ctx context.Context, res *resource.Resource, tc *config.TracingConfig) (trace.TracerProvider, error) {
	if tc == nil || tc.Endpoint == "" {
		slog.Debug("No trace collector configured")
		return noop.NewTracerProvider(), nil
	}

	clientOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(tc.Endpoint)}
	if tc.Insecure {
		slog.Warn("Spans are sent to the collector over plain HTTP", "endpoint", tc.Endpoint)
		clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	ratio := tc.GetSampleRatio()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(spanBatchTimeout)),
		// unit spans follow the decision made for their stage span
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.Info("Tracing initialized", "endpoint", tc.Endpoint, "sampling_ratio", ratio)
	return tp, nil
}
