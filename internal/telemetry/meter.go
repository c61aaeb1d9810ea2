package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/zigwheels/catalog-sync/internal/config"
)

// DefaultMetricsInterval is the push interval of the OTLP metric reader
const DefaultMetricsInterval = 60 * time.Second

// NewMeterProvider registers a Prometheus reader with reg and, when mc names
// an endpoint, adds a periodic OTLP/HTTP push reader.
// A nil or disabled config yields a no-op provider.
func NewMeterProvider(
	ctx context.Context,
	res *resource.Resource,
	mc *config.MetricsConfig,
	reg prometheus.Registerer,
) (metric.MeterProvider, error) {
	if mc == nil || !mc.Enabled {
		slog.Debug("Metrics disabled")
		return noop.NewMeterProvider(), nil
	}

	scrape, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	readers := []sdkmetric.Option{sdkmetric.WithReader(scrape)}

	if mc.Endpoint != "" {
		clientOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(mc.Endpoint)}
		if mc.Insecure {
			clientOpts = append(clientOpts, otlpmetrichttp.WithInsecure())
		}
		push, err := otlpmetrichttp.New(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(push, sdkmetric.WithInterval(DefaultMetricsInterval)),
		))
	}

	mp := sdkmetric.NewMeterProvider(append(readers, sdkmetric.WithResource(res))...)
	otel.SetMeterProvider(mp)

	slog.Info("Metrics initialized", "otlp_endpoint", mc.Endpoint, "insecure", mc.Insecure)
	return mp, nil
}
