package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonfocus/internal/config"
	"github.com/rshade/carbonfocus/internal/engine"
	"github.com/rshade/carbonfocus/internal/greenops"
	"github.com/rshade/carbonfocus/internal/timeframe"
	"github.com/rshade/carbonfocus/internal/validate"
)

// calculateFlags holds the activity values for non-interactive runs.
type calculateFlags struct {
	transport engine.TransportInput

	kwhElectricity float64
	kwhOil         float64
	kwhGas         float64
	kwhWood        float64

	diet       string
	servings   map[string]string
	localPct   float64
	organicPct float64

	interactive bool
	output      string
	budgetKg    float64
	exitOnAlert bool
}

// CalculationReport is the JSON form of a calculate run.
type CalculationReport struct {
	Transport        engine.Result                `json:"transport"`
	Energy           engine.Result                `json:"energy"`
	Food             engine.Result                `json:"food"`
	Summary          engine.Summary               `json:"summary"`
	LargestSource    engine.Domain                `json:"largest_source"`
	AnnualProjection float64                      `json:"annual_projection"`
	DailyAverage     float64                      `json:"daily_average"`
	Rating           greenops.Rating              `json:"rating"`
	Benchmarks       []greenops.Comparison        `json:"benchmarks"`
	Equivalencies    []greenops.EquivalencyResult `json:"equivalencies,omitempty"`
	Suggestions      []greenops.Suggestion        `json:"suggestions"`
	FoodTier         greenops.FoodTier            `json:"food_tier"`
	FoodTips         []string                     `json:"food_tips"`
	Budget           *config.BudgetStatus         `json:"budget,omitempty"`
	Warnings         []validate.FieldWarning      `json:"warnings,omitempty"`
}

// BudgetExitError carries the process exit code for a carbon budget alert.
type BudgetExitError struct {
	ExitCode int
	Reason   string
}

func (e *BudgetExitError) Error() string {
	return e.Reason
}

// NewCalculateCmd creates the calculate command.
func NewCalculateCmd() *cobra.Command {
	var flags calculateFlags

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Estimate one month of household CO2 emissions",
		Long: `Estimates monthly CO2 emissions from transport, home energy and food.

When stdin is a terminal and no activity flags are given, carbonfocus asks
for each value in turn. Otherwise values come from flags; omitted values
count as zero. Pass --servings to use the itemised food calculation instead
of a diet category.

` + timeframe.HelpText("transport"),
		Example: `  # Interactive questionnaire
  carbonfocus calculate

  # From flags
  carbonfocus calculate --km-car 600 --car-fuel petrol --short-flights 0.17 \
    --kwh-electricity 300 --kwh-gas 800 --diet average

  # Itemised food with JSON output
  carbonfocus calculate --servings beef=4,chicken=10,legumes=12,milk=1 --local-pct 30 --output json

  # Fail CI when the month exceeds an 80% alert on a 400 kg budget
  carbonfocus calculate --budget-kg 400 --exit-on-threshold`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculate(cmd, &flags)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&flags.transport.KmCar, "km-car", 0, "km driven by car per month")
	f.StringVar(&flags.transport.CarFuelType, "car-fuel", "petrol", "car fuel type: petrol, diesel, electric")
	f.Float64Var(&flags.transport.KmBus, "km-bus", 0, "km travelled by bus per month")
	f.StringVar(&flags.transport.BusFuelType, "bus-fuel", "diesel", "bus fuel type: diesel, biofuel, electric")
	f.Float64Var(&flags.transport.KmTrain, "km-train", 0, "km travelled by train per month")
	f.StringVar(&flags.transport.TrainType, "train-type", "electric", "train type: diesel, electric")
	f.Float64Var(&flags.transport.ShortFlights, "short-flights", 0, "short flights (<3h) per month")
	f.Float64Var(&flags.transport.MediumFlights, "medium-flights", 0, "medium flights (3-6h) per month")
	f.Float64Var(&flags.transport.LongFlights, "long-flights", 0, "long flights (>6h) per month")

	f.Float64Var(&flags.kwhElectricity, "kwh-electricity", 0, "electricity used per month (kWh)")
	f.Float64Var(&flags.kwhOil, "kwh-oil", 0, "heating oil used per month (kWh)")
	f.Float64Var(&flags.kwhGas, "kwh-gas", 0, "gas used per month (kWh)")
	f.Float64Var(&flags.kwhWood, "kwh-wood", 0, "wood burned per month (kWh)")

	f.StringVar(&flags.diet, "diet", "average", "diet category: high_meat, average, vegetarian, vegan")
	f.StringToStringVar(&flags.servings, "servings", nil,
		"itemised monthly servings, e.g. beef=4,chicken=10 (milk is glasses per day)")
	f.Float64Var(&flags.localPct, "local-pct", 0, "share of food that is locally sourced (0-100)")
	f.Float64Var(&flags.organicPct, "organic-pct", 0, "share of food that is organic (0-100)")

	f.BoolVarP(&flags.interactive, "interactive", "i", false, "ask for every value even when flags are given")
	f.StringVarP(&flags.output, "output", "o", "", "output format: table, json (default from config)")
	f.Float64Var(&flags.budgetKg, "budget-kg", 0, "monthly carbon budget in kg CO2 (overrides config)")
	f.BoolVar(&flags.exitOnAlert, "exit-on-threshold", false, "exit non-zero when a budget alert fires")

	return cmd
}

func runCalculate(cmd *cobra.Command, flags *calculateFlags) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	output := flags.output
	if output == "" {
		output = cfg.Output.DefaultFormat
	}
	if output != config.FormatTable && output != config.FormatJSON {
		return fmt.Errorf("%w: got %q", config.ErrInvalidOutputFormat, output)
	}

	budget := cfg.Budget
	if cmd.Flags().Changed("budget-kg") {
		budget.MonthlyKg = flags.budgetKg
	}
	if cmd.Flags().Changed("exit-on-threshold") {
		budget.ExitOnThreshold = flags.exitOnAlert
	}
	if err := budget.Validate(); err != nil {
		return fmt.Errorf("invalid budget configuration: %w", err)
	}

	table, err := loadTable(cmd)
	if err != nil {
		return err
	}
	eng, err := engine.New(table)
	if err != nil {
		return err
	}

	var req engine.Request
	if flags.interactive || (isInteractiveInput(cmd) && !anyActivityFlag(cmd)) {
		req, err = askRequest(NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()))
		if err != nil {
			return err
		}
	} else {
		req, err = flags.request()
		if err != nil {
			return err
		}
	}

	res := validate.Request(&req, table)
	if valErr := res.Err(); valErr != nil {
		return fmt.Errorf("invalid input: %w", valErr)
	}

	est := eng.Estimate(ctx, req)
	res.Warnings = append(res.Warnings, validate.Monthly("total", est.Summary.TotalKg).Warnings...)
	for _, w := range res.Warnings {
		logger.Warn().Ctx(ctx).Str("field", w.Field).Msg(w.Message)
	}

	report := buildReport(cmd, est, res.Warnings)
	if budget.IsEnabled() {
		status := budget.Evaluate(est.Summary.TotalKg)
		report.Budget = &status
	}

	if output == config.FormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			return fmt.Errorf("encoding report: %w", encErr)
		}
	} else {
		renderReport(cmd.OutOrStdout(), report, cfg.Output.Precision)
	}

	return checkBudgetExit(cmd, budget, report.Budget)
}

func buildReport(cmd *cobra.Command, est engine.Estimate, warnings []validate.FieldWarning) CalculationReport {
	total := est.Summary.TotalKg
	eq := greenops.CalculateKg(cmd.Context(), total)
	tier, tips := greenops.FoodTips(est.Summary.FoodKg)
	return CalculationReport{
		Transport:        est.Transport,
		Energy:           est.Energy,
		Food:             est.Food,
		Summary:          est.Summary,
		LargestSource:    est.Summary.Largest(),
		AnnualProjection: est.Summary.AnnualProjectionKg(),
		DailyAverage:     est.Summary.DailyAverageKg(),
		Rating:           greenops.Rate(total),
		Benchmarks:       greenops.Compare(total),
		Equivalencies:    eq.Results,
		Suggestions:      greenops.Suggest(est.Summary),
		FoodTier:         tier,
		FoodTips:         tips,
		Warnings:         warnings,
	}
}

// checkBudgetExit returns a BudgetExitError when an alert fired (or the
// budget was exceeded) and exit_on_threshold is enabled. Exit code 0 only
// prints a warning.
func checkBudgetExit(cmd *cobra.Command, budget config.BudgetConfig, status *config.BudgetStatus) error {
	if status == nil || !budget.ExitOnThreshold {
		return nil
	}
	if len(status.Triggered) == 0 && !status.Exceeded() {
		return nil
	}

	reason := fmt.Sprintf("carbon budget alert: %.1f%% of %.1f kg CO2 used", status.UsedPercent, status.MonthlyKg)
	exitCode := budget.GetExitCode()
	if exitCode == 0 {
		cmd.PrintErrf("WARNING: %s\n", reason)
		return nil
	}
	return &BudgetExitError{ExitCode: exitCode, Reason: reason}
}

// isInteractiveInput reports whether the command reads from a terminal.
func isInteractiveInput(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && isTerminal(f)
}

var activityFlags = []string{ //nolint:gochecknoglobals // Constant flag list.
	"km-car", "car-fuel", "km-bus", "bus-fuel", "km-train", "train-type",
	"short-flights", "medium-flights", "long-flights",
	"kwh-electricity", "kwh-oil", "kwh-gas", "kwh-wood",
	"diet", "servings", "local-pct", "organic-pct",
}

func anyActivityFlag(cmd *cobra.Command) bool {
	for _, name := range activityFlags {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// request converts flag values into an engine request.
func (f *calculateFlags) request() (engine.Request, error) {
	req := engine.Request{
		Transport: f.transport,
		Energy: engine.EnergyInput{
			engine.EnergyElectricity: f.kwhElectricity,
			engine.EnergyOil:         f.kwhOil,
			engine.EnergyGas:         f.kwhGas,
			engine.EnergyWood:        f.kwhWood,
		},
		DietCategory: f.diet,
	}

	if len(f.servings) > 0 {
		servings := make(map[string]float64, len(f.servings))
		for item, raw := range f.servings {
			qty, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return engine.Request{}, fmt.Errorf("--servings %s: %q is not a number", item, raw)
			}
			servings[item] = qty
		}
		req.DetailedFood = &engine.DetailedFoodInput{
			Servings:   servings,
			LocalPct:   f.localPct,
			OrganicPct: f.organicPct,
		}
	}
	return req, nil
}

// askRequest runs the interactive questionnaire.
func askRequest(p *Prompter) (engine.Request, error) {
	var req engine.Request
	var err error

	fmt.Fprintln(p.out, "Welcome to carbonfocus.")
	fmt.Fprintln(p.out, "Answer a few questions about a typical month. Press Enter for 0.")
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, timeframe.HelpText("transport"))

	ask := func(dst *float64, question string) {
		if err == nil {
			*dst, err = p.Float(question)
		}
	}
	askInt := func(dst *float64, question string) {
		if err == nil {
			var n int
			n, err = p.Int(question)
			*dst = float64(n)
		}
	}
	choose := func(dst *string, question string, options []string) {
		if err == nil {
			*dst, err = p.Choice(question, options)
		}
	}

	t := &req.Transport
	ask(&t.KmCar, "How many km do you drive by car per month? ")
	choose(&t.CarFuelType, "Select car fuel type:", validate.CarFuelTypes())
	ask(&t.KmBus, "How many km do you travel by bus per month? ")
	choose(&t.BusFuelType, "Select bus fuel type:", []string{"diesel", "biofuel", "electric"})
	ask(&t.KmTrain, "How many km do you travel by train per month? ")
	choose(&t.TrainType, "Select train type:", []string{"diesel", "electric"})
	if err == nil {
		fmt.Fprintln(p.out, "\nFlights per month:")
	}
	askInt(&t.ShortFlights, "Short flights (< 3h): ")
	askInt(&t.MediumFlights, "Medium flights (3-6h): ")
	askInt(&t.LongFlights, "Long flights (> 6h): ")

	if err == nil {
		fmt.Fprintln(p.out, "\n"+timeframe.HelpText("food"))
	}
	choose(&req.DietCategory, "Select your diet type:", validate.DietCategories())

	var electricity, oil, gas, wood float64
	if err == nil {
		fmt.Fprintln(p.out, "\n"+timeframe.HelpText("energy"))
	}
	ask(&electricity, "Electricity: ")
	ask(&oil, "Oil: ")
	ask(&gas, "Gas: ")
	ask(&wood, "Wood: ")

	if err != nil {
		if errors.Is(err, ErrInputClosed) {
			return engine.Request{}, fmt.Errorf("questionnaire aborted: %w", err)
		}
		return engine.Request{}, err
	}

	req.Energy = engine.EnergyInput{
		engine.EnergyElectricity: electricity,
		engine.EnergyOil:         oil,
		engine.EnergyGas:         gas,
		engine.EnergyWood:        wood,
	}
	fmt.Fprintln(p.out)
	return req, nil
}
