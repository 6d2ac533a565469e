package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/rshade/carbonfocus/internal/api"
	"github.com/rshade/carbonfocus/internal/config"
	"github.com/rshade/carbonfocus/internal/engine"
	"github.com/rshade/carbonfocus/internal/engine/batch"
	"github.com/rshade/carbonfocus/internal/greenops"
	"github.com/rshade/carbonfocus/internal/logging"
)

// BatchReport is the JSON form of a batch run.
type BatchReport struct {
	Results []api.BatchItem `json:"results"`
	Summary batch.Totals    `json:"summary"`
}

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	var (
		output       string
		concurrency  int
		showProgress bool
	)

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Estimate many households from a JSON file",
		Long: `Reads {"households": [...]} where each household uses the same fields as
POST /api/calculate, and estimates them all. Households that fail validation
are reported alongside the others. Use "-" to read from stdin.`,
		Example: `  # Estimate every household in a file
  carbonfocus batch households.json

  # Pipe JSON in and get JSON out
  cat households.json | carbonfocus batch - --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = config.GetDefaultOutputFormat()
			}
			if output != config.FormatTable && output != config.FormatJSON {
				return fmt.Errorf("%w: got %q", config.ErrInvalidOutputFormat, output)
			}

			households, err := readHouseholds(cmd, args[0])
			if err != nil {
				return err
			}

			table, err := loadTable(cmd)
			if err != nil {
				return err
			}
			eng, err := engine.New(table)
			if err != nil {
				return fmt.Errorf("creating engine: %w", err)
			}

			ctx := cmd.Context()
			log := logging.FromContext(ctx)
			var bar *progressbar.ProgressBar
			if showProgress {
				bar = newBatchProgressBar(cmd.ErrOrStderr(), len(households))
			}
			proc, err := batch.NewProcessor(eng,
				batch.WithConcurrency(concurrency),
				batch.WithProgress(func(done, total int) {
					log.Debug().
						Str("component", "cli").
						Int("done", done).
						Int("total", total).
						Msg("batch progress")
					if bar != nil {
						_ = bar.Set(done)
					}
				}),
			)
			if err != nil {
				return err
			}

			reqs := make([]engine.Request, len(households))
			for i, h := range households {
				reqs[i] = h.ToEngineRequest()
			}
			outcomes, err := proc.Run(ctx, reqs)
			if err != nil {
				return err
			}

			report := newBatchReport(outcomes)
			if output == config.FormatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return renderBatch(cmd.OutOrStdout(), report, config.GetOutputPrecision())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json (default from config)")
	cmd.Flags().IntVar(&concurrency, "concurrency", batch.DefaultConcurrency, "number of chunks estimated at once")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "show a progress bar on stderr")
	return cmd
}

func newBatchProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("Estimating households"),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}

func readHouseholds(cmd *cobra.Command, path string) ([]api.EmissionRequest, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening batch file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var body api.BatchRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing batch file %s: %w", path, err)
	}
	return body.Households, nil
}

func newBatchReport(outcomes []batch.Outcome) BatchReport {
	report := BatchReport{
		Results: make([]api.BatchItem, len(outcomes)),
		Summary: batch.Summarize(outcomes),
	}
	for i, o := range outcomes {
		item := api.BatchItem{Index: o.Index, Errors: o.Validation.Errors}
		if o.OK() {
			item.Result = &api.EmissionResponse{
				Transport:        o.Estimate.Summary.TransportKg,
				Food:             o.Estimate.Summary.FoodKg,
				Energy:           o.Estimate.Summary.EnergyKg,
				Total:            o.Estimate.Summary.TotalKg,
				Percentages:      o.Estimate.Summary.Percentages,
				AnnualProjection: o.Estimate.Summary.AnnualProjectionKg(),
				DailyAverage:     o.Estimate.Summary.DailyAverageKg(),
				Rating:           greenops.Rate(o.Estimate.Summary.TotalKg),
				Warnings:         o.Validation.Warnings,
			}
		}
		report.Results[i] = item
	}
	return report
}

func renderBatch(w io.Writer, report BatchReport, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTRANSPORT\tENERGY\tFOOD\tTOTAL\tRATING")
	for _, item := range report.Results {
		if item.Result == nil {
			msgs := make([]string, len(item.Errors))
			for i, fe := range item.Errors {
				msgs[i] = fe.Error()
			}
			fmt.Fprintf(tw, "%d\t-\t-\t-\t-\tinvalid: %s\n", item.Index+1, strings.Join(msgs, "; "))
			continue
		}
		res := item.Result
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", item.Index+1,
			greenops.FormatFloat(res.Transport, precision),
			greenops.FormatFloat(res.Energy, precision),
			greenops.FormatFloat(res.Food, precision),
			greenops.FormatFloat(res.Total, precision),
			res.Rating)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := report.Summary
	fmt.Fprintf(w, "\nHouseholds: %d (%d estimated, %d invalid)\n", s.Households, s.Succeeded, s.Failed)
	if s.Succeeded > 0 {
		fmt.Fprintf(w, "Combined total: %s\n", greenops.FormatKg(s.TotalKg, precision))
		fmt.Fprintf(w, "Mean per household: %s\n", greenops.FormatKg(s.MeanKg, precision))
		fmt.Fprintf(w, "Highest: household %d at %s\n", s.MaxIndex+1, greenops.FormatKg(s.MaxKg, precision))
	}
	return nil
}
