package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// SyncMetricsMeterName is the name used for the sync metrics meter
	SyncMetricsMeterName = "github.com/zigwheels/catalog-sync/sync"
)

// SyncMetrics holds the OpenTelemetry instruments for stage execution.
// A nil *SyncMetrics records nothing.
type SyncMetrics struct {
	stageDuration metric.Float64Histogram
	recordsTotal  metric.Int64Counter
	unitsTotal    metric.Int64Counter
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	stageDuration, err := meter.Float64Histogram(
		"catalog_sync_stage_duration_seconds",
		metric.WithDescription("Duration of sync stage runs in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 10, 30, 60, 300, 900, 1800, 3600),
	)
	if err != nil {
		return nil, err
	}

	recordsTotal, err := meter.Int64Counter(
		"catalog_sync_records_total",
		metric.WithDescription("Remote records reconciled, by stage and outcome"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	unitsTotal, err := meter.Int64Counter(
		"catalog_sync_units_total",
		metric.WithDescription("Variant units of work finished, by status"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		stageDuration: stageDuration,
		recordsTotal:  recordsTotal,
		unitsTotal:    unitsTotal,
	}, nil
}

// RecordStageDuration records how long one stage run took
func (m *SyncMetrics) RecordStageDuration(ctx context.Context, stage string, duration time.Duration, success bool) {
	if m == nil || m.stageDuration == nil {
		return
	}

	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.Bool("success", success),
	))
}

// RecordRecord counts one reconciled record
func (m *SyncMetrics) RecordRecord(ctx context.Context, stage, outcome string) {
	if m == nil || m.recordsTotal == nil {
		return
	}

	m.recordsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("outcome", outcome),
	))
}

// RecordUnit counts one finished variant unit
func (m *SyncMetrics) RecordUnit(ctx context.Context, status string) {
	if m == nil || m.unitsTotal == nil {
		return
	}

	m.unitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
