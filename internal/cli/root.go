package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/carbonfocus/internal/config"
	"github.com/rshade/carbonfocus/internal/factors"
	"github.com/rshade/carbonfocus/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// baseLogger is logger without the cli component tag, for subsystems that tag their own.
var baseLogger zerolog.Logger //nolint:gochecknoglobals // Set alongside logger

// NewRootCmd creates the root Cobra command for the carbonfocus CLI.
// It resolves the project directory, loads configuration, wires up logging,
// and registers the calculate, factors, config, equivalency and serve commands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		projectDir string
	)

	cmd := &cobra.Command{
		Use:           "carbonfocus",
		Short:         "Household carbon footprint calculator",
		Long:          "carbonfocus: estimate monthly CO2 emissions from transport, home energy and food",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				wd = ""
			}
			resolved := config.ResolveProjectDir(cmd.Context(), projectDir, wd)
			config.SetResolvedProjectDir(resolved)
			config.InitGlobalConfigWithProject(cmd.Context(), resolved)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("factors", "",
		"emission factor table (YAML); overrides config and "+config.EnvFactorsFile)
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project directory containing .carbonfocus/ (default: nearest .carbonfocus above the working directory)")

	cmd.AddCommand(
		NewCalculateCmd(),
		NewBatchCmd(),
		newFactorsCmd(),
		newConfigCmd(),
		NewEquivalencyCmd(),
		NewServeCmd(ver),
	)

	return cmd
}

const rootCmdExample = `  # Answer questions about your month interactively
  carbonfocus calculate

  # Calculate from flags and print JSON
  carbonfocus calculate --km-car 400 --car-fuel diesel --kwh-electricity 250 --diet vegetarian --output json

  # Use a custom emission factor table
  carbonfocus calculate --factors ./factors.yaml

  # Show what 300 kg CO2 looks like
  carbonfocus equivalency 300

  # Run the HTTP API
  carbonfocus serve --listen 127.0.0.1:8080

  # Initialize configuration
  carbonfocus config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}

// loadTable loads the emission factor table selected by --factors, then the
// configuration, falling back to the embedded table.
func loadTable(cmd *cobra.Command) (*factors.Table, error) {
	path, _ := cmd.Flags().GetString("factors")
	if path == "" {
		path = config.GetFactorsFile()
	}

	var (
		table *factors.Table
		err   error
	)
	if path == "" {
		table, err = factors.LoadDefault()
	} else {
		table, err = factors.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading emission factors: %w", err)
	}

	logging.FromContext(cmd.Context()).Debug().
		Str("component", "cli").
		Str("operation", "load_factors").
		Str("source", table.Source()).
		Str("schema_version", table.SchemaVersion()).
		Msg("emission factors loaded")
	return table, nil
}
