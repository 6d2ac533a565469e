package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonfocus/internal/config"
	"github.com/rshade/carbonfocus/internal/greenops"
)

// NewEquivalencyCmd creates the equivalency command.
func NewEquivalencyCmd() *cobra.Command {
	var (
		unit   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "equivalency <amount>",
		Short: "Express an amount of CO2 in everyday terms",
		Long: `Converts an amount of CO2 into EPA equivalencies: miles driven by an average
passenger car, smartphones charged, tree seedlings grown for ten years and
days of home electricity. Amounts below 1 kg have no equivalencies.`,
		Example: `  carbonfocus equivalency 300
  carbonfocus equivalency 1.2 --unit t
  carbonfocus equivalency 500 --unit lb --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("amount %q is not a number", args[0])
			}

			out, err := greenops.Calculate(greenops.CarbonInput{Value: value, Unit: unit})
			if err != nil {
				return fmt.Errorf("calculating equivalencies: %w", err)
			}

			if output == "" {
				output = config.GetDefaultOutputFormat()
			}
			if output == config.FormatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			precision := config.GetOutputPrecision()
			if out.IsEmpty {
				cmd.Printf("%s is too small for meaningful equivalencies.\n", greenops.FormatKg(out.InputKg, precision))
				return nil
			}
			cmd.Printf("%s\n", greenops.FormatKg(out.InputKg, precision))
			cmd.Println(out.DisplayText)
			for _, r := range out.Results {
				cmd.Printf("  ~%s %s\n", r.FormattedValue, r.Label)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&unit, "unit", "u", "kg", "unit of the amount: g, kg, t, lb (optionally suffixed CO2 or CO2e)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json (default from config)")
	return cmd
}
