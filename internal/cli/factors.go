package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonfocus/internal/config"
	"github.com/rshade/carbonfocus/internal/factors"
)

// newFactorsCmd creates the factors command group.
func newFactorsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "factors", Short: "Emission factor table commands"}
	cmd.AddCommand(NewFactorsShowCmd(), NewFactorsValidateCmd(), NewFactorsExportCmd())
	return cmd
}

// NewFactorsShowCmd creates the factors show command.
func NewFactorsShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the emission factor table in use",
		Example: `  # Show the embedded defaults
  carbonfocus factors show

  # Show a custom table as JSON
  carbonfocus factors show --factors ./factors.yaml --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := loadTable(cmd)
			if err != nil {
				return err
			}
			if output == "" {
				output = config.GetDefaultOutputFormat()
			}
			return renderTable(cmd, table, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json (default from config)")
	return cmd
}

func renderTable(cmd *cobra.Command, table *factors.Table, output string) error {
	snapshot := table.Snapshot()

	switch output {
	case config.FormatJSON:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"source":         table.Source(),
			"schema_version": table.SchemaVersion(),
			"factors":        snapshot,
		})
	case config.FormatTable:
	default:
		return fmt.Errorf("%w: got %q", config.ErrInvalidOutputFormat, output)
	}

	cmd.Printf("Source: %s\nSchema: %s\n\n", table.Source(), table.SchemaVersion())

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tKEY\tFACTOR")
	categories := make([]string, 0, len(snapshot))
	for c := range snapshot {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		keys := make([]string, 0, len(snapshot[c]))
		for k := range snapshot[c] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(tw, "%s\t%s\t%g\n", c, k, snapshot[c][k])
		}
	}
	if grid, ok := table.GridIntensity(); ok {
		fmt.Fprintf(tw, "grid_intensity_kg_per_kwh\t-\t%g\n", grid)
	}
	return tw.Flush()
}

// NewFactorsValidateCmd creates the factors validate command.
func NewFactorsValidateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an emission factor table for errors",
		Long: `Parses an emission factor table and checks that every required category is
present, every factor is a finite non-negative number, and the schema version
satisfies ` + factors.SupportedSchema + `. Exits non-zero on any problem.`,
		Example: `  # Validate a table file
  carbonfocus factors validate --file ./factors.yaml

  # Validate the table selected by config or --factors
  carbonfocus factors validate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				table *factors.Table
				err   error
			)
			if file != "" {
				table, err = factors.Load(file)
			} else {
				table, err = loadTable(cmd)
			}
			if err != nil {
				return fmt.Errorf("emission factor table is invalid: %w", err)
			}
			cmd.Printf("✅ Emission factor table is valid (source: %s, schema %s)\n",
				table.Source(), table.SchemaVersion())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "table file to validate (default: the table in use)")
	return cmd
}

// NewFactorsExportCmd creates the factors export command.
func NewFactorsExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the built-in emission factor table as YAML",
		Long:  "Prints the built-in table, a starting point for a custom --factors file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(factors.DefaultYAML())
			return err
		},
	}
}
