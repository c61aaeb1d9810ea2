package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zigwheels/catalog-sync/internal/app"
	"github.com/zigwheels/catalog-sync/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the operator API and the sync scheduler",
	Long: `Start the operator HTTP API and run the sync stages on their configured schedules.

The server requires a configuration file (--config) that specifies:
- The remote catalog host, locale parameters and retry policy
- The PostgreSQL connection
- Stage schedules, worker count and telemetry

See examples/ directory for sample configurations.`,
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second // Kubernetes-friendly shutdown time
	serverRequestTimeout   = 10 * time.Second // Operator API should respond quickly
)

func init() {
	serveCmd.Flags().String("address", ":8080", "Address to listen on")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		panic(err)
	}

	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	address := viper.GetString("address")
	configPath := viper.GetString("config")

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Info("Loaded configuration", "path", configPath, "remote", cfg.API.BaseURL(), "workers", cfg.Sync.Workers)

	catalogSyncApp, err := app.NewCatalogSyncApp(ctx,
		app.WithConfig(cfg),
		app.WithAddress(address),
		app.WithRequestTimeout(serverRequestTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- catalogSyncApp.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if stopErr := catalogSyncApp.Stop(defaultGracefulTimeout); stopErr != nil {
			slog.Error("Failed to stop application", "error", stopErr)
		}
		return err
	case sig := <-quit:
		slog.Info("Received shutdown signal", "signal", sig.String())
	}

	return catalogSyncApp.Stop(defaultGracefulTimeout)
}
