package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zigwheels/catalog-sync/internal/app"
	"github.com/zigwheels/catalog-sync/internal/catalog"
	"github.com/zigwheels/catalog-sync/internal/config"
	"github.com/zigwheels/catalog-sync/internal/money"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Fetch sample records from the remote catalog and print counts",
	Long: `Fetch the brand list, the models of one brand, the variants of one model and the
overview of one variant, and print how many records each call returned. Nothing is
written to the database. Useful to check connectivity and locale parameters.`,
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().String("config", "", "Path to configuration file (YAML format, optional)")
	probeCmd.Flags().String("brand", "30", "Remote brand id whose models are fetched")
	probeCmd.Flags().String("model", "1943", "Remote model id whose variants are fetched")
	probeCmd.Flags().String("variant", "4069", "Remote variant id whose overview is fetched")
}

// probeIDs are the remote identifiers queried by probe
type probeIDs struct {
	brand, model, variant catalog.ExternalID
	currency              string
}

func runProbe(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.LoadConfig(config.WithConfigPath(configPath))
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	ids := probeIDs{currency: cfg.API.Currency}
	for name, dst := range map[string]*catalog.ExternalID{"brand": &ids.brand, "model": &ids.model, "variant": &ids.variant} {
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = catalog.ExternalID(value)
	}

	client := app.NewCatalogClient(&cfg.API, nil)
	return probe(cmd.Context(), client, ids, cmd.OutOrStdout())
}

// probe runs the sample calls in order and stops at the first failure
func probe(ctx context.Context, client catalog.Client, ids probeIDs, out io.Writer) error {
	brands, err := client.FetchBrands(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch brands: %w", err)
	}
	fmt.Fprintf(out, "brands: %d\n", len(brands))

	models, err := client.FetchModels(ctx, ids.brand)
	if err != nil {
		return fmt.Errorf("failed to fetch models of brand %s: %w", ids.brand, err)
	}
	fmt.Fprintf(out, "models of brand %s: %d\n", ids.brand, len(models))

	variants, err := client.FetchVariants(ctx, ids.model)
	if err != nil {
		return fmt.Errorf("failed to fetch variants of model %s: %w", ids.model, err)
	}
	fmt.Fprintf(out, "variants of model %s: %d\n", ids.model, len(variants))

	overview, err := client.FetchVariantOverview(ctx, ids.model, ids.variant)
	if err != nil {
		return fmt.Errorf("failed to fetch overview of variant %s: %w", ids.variant, err)
	}
	if overview == nil {
		fmt.Fprintf(out, "overview of variant %s: none\n", ids.variant)
		return nil
	}
	fmt.Fprintf(out, "overview of variant %s: %s\n", ids.variant, money.PriceRange(
		money.New(overview.MinPrice, ids.currency),
		money.New(overview.MaxPrice, ids.currency),
	))
	return nil
}
