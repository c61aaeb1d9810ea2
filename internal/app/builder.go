package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zigwheels/catalog-sync/internal/api"
	"github.com/zigwheels/catalog-sync/internal/config"
	"github.com/zigwheels/catalog-sync/internal/httpclient"
	"github.com/zigwheels/catalog-sync/internal/telemetry"
)

const (
	defaultHTTPAddress    = ":8080"
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// CatalogSyncAppOptions is a function that configures the catalog sync app builder
type CatalogSyncAppOptions func(*catalogSyncAppConfig) error

// catalogSyncAppConfig collects the builder inputs.
// The pool and HTTP client may be injected; otherwise they are built from config.
type catalogSyncAppConfig struct {
	config *config.Config

	pool       *pgxpool.Pool
	httpClient httpclient.Client

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
}

func baseConfig(opts ...CatalogSyncAppOptions) (*catalogSyncAppConfig, error) {
	cfg := &catalogSyncAppConfig{
		address:        defaultHTTPAddress,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// NewCatalogSyncApp builds the sync pipeline and the operator HTTP server
func NewCatalogSyncApp(
	ctx context.Context,
	opts ...CatalogSyncAppOptions,
) (*CatalogSyncApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	components, err := buildComponents(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync components: %w", err)
	}

	server, err := buildHTTPServer(ctx, cfg, components)
	if err != nil {
		if cerr := components.Close(context.WithoutCancel(ctx)); cerr != nil {
			slog.Warn("Failed to clean up components", "error", cerr)
		}
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	return &CatalogSyncApp{
		config:     cfg.config,
		components: components,
		httpServer: server,
		ctx:        appCtx,
		cancelFunc: cancel,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(config *config.Config) CatalogSyncAppOptions {
	return func(cfg *catalogSyncAppConfig) error {
		cfg.config = config
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) CatalogSyncAppOptions {
	return func(cfg *catalogSyncAppConfig) error {
		host, port, found := strings.Cut(addr, ":")
		if !found {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) CatalogSyncAppOptions {
	return func(cfg *catalogSyncAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithRequestTimeout bounds the handling of a single API request
func WithRequestTimeout(timeout time.Duration) CatalogSyncAppOptions {
	return func(cfg *catalogSyncAppConfig) error {
		if timeout <= 0 {
			return fmt.Errorf("request timeout must be positive, got %s", timeout)
		}
		cfg.requestTimeout = timeout
		return nil
	}
}

// WithPool injects an existing database pool; the app does not close it
func WithPool(pool *pgxpool.Pool) CatalogSyncAppOptions {
	return func(cfg *catalogSyncAppConfig) error {
		cfg.pool = pool
		return nil
	}
}

// WithHTTPClient injects the client used to reach the remote catalog (for testing)
func WithHTTPClient(client httpclient.Client) CatalogSyncAppOptions {
	return func(cfg *catalogSyncAppConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// buildHTTPServer builds the HTTP server with router and middleware
//
//nolint:unparam // we prefer having a similar interface
func buildHTTPServer(
	_ context.Context,
	b *catalogSyncAppConfig,
	components *AppComponents,
) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	serverOpts := []api.ServerOption{}
	if tel := components.Telemetry; tel != nil {
		httpMetrics, err := telemetry.NewHTTPMetrics(tel.MeterProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
		}
		// Prepend so requests rejected by later middlewares are still measured
		b.middlewares = append([]func(http.Handler) http.Handler{
			telemetry.Middleware(httpMetrics, tel.TracerProvider()),
		}, b.middlewares...)

		if handler := tel.MetricsHandler(); handler != nil {
			serverOpts = append(serverOpts, api.WithMetricsHandler(handler))
			slog.Info("Prometheus metrics endpoint enabled", "path", "/metrics")
		}
	}
	serverOpts = append(serverOpts, api.WithMiddlewares(b.middlewares...))

	deps := api.Dependencies{
		Runner:   components.Runner,
		Runs:     components.Runs,
		Variants: components.Variants,
	}
	if components.Pool != nil {
		deps.Database = components.Pool
	}
	router := api.NewServer(deps, serverOpts...)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
