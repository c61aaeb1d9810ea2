package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zigwheels/catalog-sync/internal/app"
	"github.com/zigwheels/catalog-sync/internal/config"
	"github.com/zigwheels/catalog-sync/internal/jobs"
)

const stageAll = "all"

var syncCmd = &cobra.Command{
	Use:   "sync <stage>... | all",
	Short: "Run sync stages once",
	Long: `Run the given stages once, in the order given, and print each stage result as JSON.
Stages are cities, brands, models and variants; "all" runs every stage in that order.
Every run is recorded in the run history like scheduled runs.

Examples:
  # Refresh the brand list
  catalog-sync sync brands --config config.yaml

  # Mirror the whole catalog
  catalog-sync sync all --config config.yaml

  # Re-run the variants of one stored model
  catalog-sync sync variants --model 0b5f0f6e-5e5f-4d5c-9f8e-2f1c3d4b5a69 --config config.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	syncCmd.Flags().String("model", "", "Stored model id; limits the variants stage to that model")

	if err := syncCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
}

// parseStages expands "all" and rejects unknown or repeated stages
func parseStages(args []string) ([]string, error) {
	if len(args) == 1 && args[0] == stageAll {
		return slices.Clone(config.Stages), nil
	}

	stages := make([]string, 0, len(args))
	for _, arg := range args {
		stage := strings.ToLower(strings.TrimSpace(arg))
		if stage == stageAll {
			return nil, fmt.Errorf("%q cannot be combined with other stages", stageAll)
		}
		if !slices.Contains(config.Stages, stage) {
			return nil, fmt.Errorf("unknown stage %q (expected one of %s or %s)",
				arg, strings.Join(config.Stages, ", "), stageAll)
		}
		if slices.Contains(stages, stage) {
			return nil, fmt.Errorf("stage %q given more than once", stage)
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

// parseModel validates --model, which only applies to a lone variants stage
func parseModel(raw string, stages []string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	if len(stages) != 1 || stages[0] != config.StageVariants {
		return uuid.Nil, fmt.Errorf("--model can only be used with the %s stage alone", config.StageVariants)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --model: %w", err)
	}
	return id, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	stages, err := parseStages(args)
	if err != nil {
		return err
	}
	rawModel, err := cmd.Flags().GetString("model")
	if err != nil {
		return fmt.Errorf("failed to get model flag: %w", err)
	}
	modelID, err := parseModel(rawModel, stages)
	if err != nil {
		return err
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := app.NewComponents(ctx, app.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to build sync components: %w", err)
	}
	defer func() {
		if err := components.Close(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("Failed to close sync components", "error", err)
		}
	}()

	return runStages(ctx, components.Runner, stages, jobs.Params{ModelID: modelID}, cmd.OutOrStdout())
}

// stageRunner runs one job to completion
type stageRunner interface {
	Run(ctx context.Context, name string, params jobs.Params) (*jobs.Result, error)
}

// runStages runs stages in order and prints each result. A failed stage stops
// the sequence, since later stages read what earlier ones write.
func runStages(
	ctx context.Context, runner stageRunner, stages []string, params jobs.Params, out io.Writer,
) error {
	enc := json.NewEncoder(out)
	for _, stage := range stages {
		res, err := runner.Run(ctx, jobs.JobName(stage), params)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Warn("Sync interrupted", "stage", stage)
			}
			return fmt.Errorf("stage %s failed: %w", stage, err)
		}
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to print %s result: %w", stage, err)
		}
		if res.FailedUnits > 0 {
			slog.Warn("Stage completed with failed units; run it again to retry them",
				"stage", stage, "failed_units", res.FailedUnits)
		}
	}
	return nil
}
