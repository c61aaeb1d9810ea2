// Package app provides the command line interface of catalog-sync.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zigwheels/catalog-sync/internal/versions"
)

var rootCmd = &cobra.Command{
	Use:               "catalog-sync",
	DisableAutoGenTag: true,
	Short:             "Automotive catalog sync service",
	Long: `catalog-sync mirrors cities, brands, models and variants from the remote
automotive catalog into PostgreSQL. Every stage is idempotent and may be re-run.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			slog.Error("Error displaying help", "error", err)
		}
	},
}

// NewRootCmd creates the root command. enableDebug is called before any
// subcommand runs when --debug is set.
func NewRootCmd(enableDebug func()) *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	if err != nil {
		slog.Error("Error binding debug flag", "error", err)
	}
	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if viper.GetBool("debug") && enableDebug != nil {
			enableDebug()
			slog.Debug("Debug logging enabled")
		}
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := versions.Get()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format version info as JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
		return nil
	},
}

func init() {
	versionCmd.Flags().String("format", "", "Output format (json)")
}
