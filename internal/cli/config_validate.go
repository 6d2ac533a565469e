package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonfocus/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration (global file, project overlay and
environment overrides) for semantic correctness:

- Output format and precision
- Logging level and format
- Server listen address, rate limit, body limit and shutdown timeout
- Carbon budget amount, alert thresholds and exit code
- The emission factor table named by factors.file, if any`,
		Example: `  # Validate current configuration
  carbonfocus config validate

  # Validate and show detailed information
  carbonfocus config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	table, err := loadTable(cmd)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
		cmd.Printf("  Emission factors: %s (schema %s)\n", table.Source(), table.SchemaVersion())
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	if dir := config.GetResolvedProjectDir(); dir != "" {
		cmd.Printf("  Project directory: %s\n", dir)
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	cmd.Printf("  Listen address: %s\n", cfg.Server.ListenAddr)
	cmd.Printf("  Rate limit: %g req/s (burst %d)\n", cfg.Server.RateLimit, cfg.Server.Burst)

	if cfg.Budget.IsEnabled() {
		cmd.Printf("  Carbon budget: %g kg CO2/month, %d alert(s)\n", cfg.Budget.MonthlyKg, len(cfg.Budget.Alerts))
	} else {
		cmd.Println("  No carbon budget configured")
	}
}
