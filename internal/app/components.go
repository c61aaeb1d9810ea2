package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zigwheels/catalog-sync/internal/catalog"
	"github.com/zigwheels/catalog-sync/internal/config"
	"github.com/zigwheels/catalog-sync/internal/db"
	"github.com/zigwheels/catalog-sync/internal/httpclient"
	"github.com/zigwheels/catalog-sync/internal/inventory"
	"github.com/zigwheels/catalog-sync/internal/jobs"
	"github.com/zigwheels/catalog-sync/internal/reconcile"
	pkgsync "github.com/zigwheels/catalog-sync/internal/sync"
	"github.com/zigwheels/catalog-sync/internal/sync/coordinator"
	"github.com/zigwheels/catalog-sync/internal/sync/queue"
	"github.com/zigwheels/catalog-sync/internal/telemetry"
	"github.com/zigwheels/catalog-sync/internal/versions"
)

// SyncTracerName is the name used for stage and unit spans
const SyncTracerName = "github.com/zigwheels/catalog-sync/sync"

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Pool is the database connection pool shared by every component
	Pool *pgxpool.Pool

	// Orchestrator runs the sync stages
	Orchestrator *pkgsync.Orchestrator

	// Runner runs jobs and records their history
	Runner *jobs.Runner

	// Runs reads the run history
	Runs jobs.RunStore

	// Variants reads stored variants for the API
	Variants inventory.Reader

	// SyncCoordinator runs scheduled jobs in the background
	SyncCoordinator coordinator.Coordinator

	// Telemetry holds the tracer and meter providers
	Telemetry *telemetry.Telemetry

	ownsPool bool
}

// NewComponents builds the sync pipeline without the HTTP server.
// The caller must call Close when done.
func NewComponents(ctx context.Context, opts ...CatalogSyncAppOptions) (*AppComponents, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}
	return buildComponents(ctx, cfg)
}

// Close stops background runs and releases the pool and telemetry providers
func (c *AppComponents) Close(ctx context.Context) error {
	if c.Runner != nil {
		c.Runner.Close()
	}
	if c.ownsPool && c.Pool != nil {
		c.Pool.Close()
	}
	if c.Telemetry != nil {
		if err := c.Telemetry.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown telemetry: %w", err)
		}
	}
	return nil
}

// NewCatalogClient builds the remote catalog client described by api.
// A nil httpClient is replaced by the retrying default client.
func NewCatalogClient(api *config.APIConfig, httpClient httpclient.Client) catalog.Client {
	if httpClient == nil {
		httpClient = httpclient.NewDefaultClient(
			api.TimeoutDuration(),
			httpclient.WithRetry(api.Retry.GetMaxRetries(), api.Retry.BackoffDuration(), api.Retry.StatusCodes),
			httpclient.WithUserAgent("catalog-sync/"+versions.Get().Version),
		)
	}
	return catalog.NewClient(httpClient, api.BaseURL(), catalog.WithFixedParams(api.FixedParams()))
}

// buildComponents wires the remote client, reconciler, queue, orchestrator and jobs
func buildComponents(ctx context.Context, b *catalogSyncAppConfig) (*AppComponents, error) {
	if b.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	slog.Info("Initializing sync components")

	version := versions.Get().Version
	tel, err := telemetry.New(ctx,
		telemetry.WithTelemetryConfig(b.config.Telemetry),
		telemetry.WithServiceVersion(version),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	components := &AppComponents{Telemetry: tel}

	// Release whatever was built so far if a later step fails
	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			if err := components.Close(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("Failed to clean up components", "error", err)
			}
		}
	}()

	components.Pool = b.pool
	if components.Pool == nil {
		if b.config.Database == nil {
			return nil, fmt.Errorf("database configuration is required")
		}
		components.Pool, err = db.NewPool(ctx, b.config.Database)
		if err != nil {
			return nil, err
		}
		components.ownsPool = true
	}

	client := NewCatalogClient(&b.config.API, b.httpClient)

	reconciler, err := reconcile.New(components.Pool, b.config.API.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to create reconciler: %w", err)
	}

	syncMetrics, err := telemetry.NewSyncMetrics(tel.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create sync metrics: %w", err)
	}

	components.Orchestrator = pkgsync.New(
		client,
		reconciler,
		pkgsync.NewPostgresStore(components.Pool),
		queue.NewPostgres(components.Pool),
		pkgsync.WithWorkers(b.config.Sync.Workers),
		pkgsync.WithMetrics(syncMetrics),
		pkgsync.WithTracer(tel.Tracer(SyncTracerName)),
	)

	table, err := jobs.NewTable(jobs.StageJobs(components.Orchestrator)...)
	if err != nil {
		return nil, fmt.Errorf("failed to build job table: %w", err)
	}
	components.Runs = jobs.NewPostgresRunStore(components.Pool)
	components.Runner = jobs.NewRunner(table, components.Runs)
	components.Variants = inventory.NewPostgresReader(components.Pool)
	components.SyncCoordinator = coordinator.New(components.Runner, &b.config.Sync)

	cleanupNeeded = false
	slog.Info("Sync components initialized successfully", "jobs", table.Names())
	return components, nil
}
