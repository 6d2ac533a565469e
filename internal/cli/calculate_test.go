package cli_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonfocus/internal/cli"
	"github.com/rshade/carbonfocus/internal/engine"
	"github.com/rshade/carbonfocus/internal/greenops"
)

func decodeReport(t *testing.T, out string) cli.CalculationReport {
	t.Helper()
	var report cli.CalculationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	return report
}

func TestCalculate_FlagsJSON(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "", "calculate",
		"--km-car", "100", "--car-fuel", "Gasoline",
		"--kwh-electricity", "100", "--diet", "vegan", "--output", "json")
	require.NoError(t, err)

	report := decodeReport(t, out)
	assert.InDelta(t, 46.2, report.Summary.TransportKg, 1e-9)
	assert.InDelta(t, 2.0, report.Summary.EnergyKg, 1e-9)
	assert.InDelta(t, 87.0, report.Summary.FoodKg, 1e-9)
	assert.InDelta(t, 135.2, report.Summary.TotalKg, 1e-9)
	assert.InDelta(t, 135.2*12, report.AnnualProjection, 1e-9)
	assert.Equal(t, engine.DomainFood, report.LargestSource)
	assert.Equal(t, greenops.RatingExcellent, report.Rating)
	assert.Len(t, report.Benchmarks, 3)
	assert.Len(t, report.Equivalencies, 4)
	assert.NotEmpty(t, report.Suggestions)
	assert.Nil(t, report.Budget)
}

func TestCalculate_TableOutput(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "", "calculate",
		"--km-car", "100", "--kwh-electricity", "100", "--diet", "vegan")
	require.NoError(t, err)

	assert.Contains(t, out, "Monthly Emission Summary")
	assert.Contains(t, out, "135.2 kg CO₂")
	assert.Contains(t, out, "Largest source:")
	assert.Contains(t, out, "Excellent")
	assert.Contains(t, out, "Paris Agreement Target")
	assert.Contains(t, out, "miles driven")
}

func TestCalculate_DetailedFood(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "", "calculate", "--servings", "Beef=10", "--output", "json")
	require.NoError(t, err)

	report := decodeReport(t, out)
	assert.InDelta(t, 66.0, report.Food.TotalKg, 1e-9)
	assert.Contains(t, report.Food.Breakdown, engine.ReductionPctKey)
}

func TestCalculate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"negative distance", []string{"--km-car", "-5"}, "km_car"},
		{"unknown fuel", []string{"--km-car", "10", "--car-fuel", "hydrogen"}, "car_fuel_type"},
		{"unknown diet", []string{"--diet", "paleo"}, "diet_type"},
		{"too many flights", []string{"--long-flights", "40"}, "long_flights"},
		{"bad servings", []string{"--servings", "beef=lots"}, "not a number"},
		{"bad sourcing", []string{"--servings", "beef=1", "--organic-pct", "150"}, "organic_pct"},
		{"bad output", []string{"--output", "xml"}, "default_format"},
		{"missing factors", []string{"--factors", "/nonexistent/factors.yaml"}, "loading emission factors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			_, _, err := execute(t, "", append([]string{"calculate"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCalculate_Interactive(t *testing.T) {
	setupCLITest(t)

	answers := strings.Join([]string{
		"-5",  // km car, rejected
		"abc", // km car, rejected
		"100", // km car
		"1",   // petrol
		"",    // km bus
		"1",   // bus fuel
		"",    // km train
		"9",   // invalid train choice
		"electric",
		"", "", "1", // flights: short, medium, long
		"4",   // vegan
		"100", // electricity
		"", "", "",
	}, "\n") + "\n"

	out, _, err := execute(t, answers, "calculate", "--interactive")
	require.NoError(t, err)

	assert.Contains(t, out, "Please enter a non-negative number.")
	assert.Contains(t, out, "Invalid input. Please enter a valid number.")
	assert.Contains(t, out, "Invalid choice. Please try again.")
	assert.Contains(t, out, "1,235.2 kg CO₂")
}

func TestCalculate_InteractiveInputClosed(t *testing.T) {
	setupCLITest(t)

	_, _, err := execute(t, "100\n", "calculate", "--interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "questionnaire aborted")
}

func TestCalculate_Budget(t *testing.T) {
	t.Run("exceeded with exit", func(t *testing.T) {
		setupCLITest(t)
		_, _, err := execute(t, "", "calculate", "--km-car", "100", "--diet", "vegan",
			"--budget-kg", "100", "--exit-on-threshold", "--output", "json")
		require.Error(t, err)

		var budgetErr *cli.BudgetExitError
		require.True(t, errors.As(err, &budgetErr))
		assert.Equal(t, 1, budgetErr.ExitCode)
	})

	t.Run("within budget", func(t *testing.T) {
		setupCLITest(t)
		out, _, err := execute(t, "", "calculate", "--km-car", "100", "--kwh-electricity", "100",
			"--diet", "vegan", "--budget-kg", "1000", "--exit-on-threshold", "--output", "json")
		require.NoError(t, err)

		report := decodeReport(t, out)
		require.NotNil(t, report.Budget)
		assert.InDelta(t, 13.52, report.Budget.UsedPercent, 1e-9)
		assert.InDelta(t, 864.8, report.Budget.RemainingKg, 1e-9)
	})

	t.Run("alerts from config", func(t *testing.T) {
		home := setupCLITest(t)
		cfg := "budget:\n  monthly_kg: 150\n  alerts:\n    - threshold: 80\n      label: nearly there\n" +
			"  exit_on_threshold: true\n  exit_code: 3\n"
		require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(cfg), 0o600))

		out, _, err := execute(t, "", "calculate", "--km-car", "100", "--kwh-electricity", "100", "--diet", "vegan")
		var budgetErr *cli.BudgetExitError
		require.True(t, errors.As(err, &budgetErr))
		assert.Equal(t, 3, budgetErr.ExitCode)
		assert.Contains(t, out, "nearly there")
	})

	t.Run("warn only", func(t *testing.T) {
		home := setupCLITest(t)
		cfg := "budget:\n  monthly_kg: 100\n  exit_on_threshold: true\n  exit_code: 0\n"
		require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(cfg), 0o600))

		_, stderr, err := execute(t, "", "calculate", "--km-car", "100", "--diet", "vegan")
		require.NoError(t, err)
		assert.Contains(t, stderr, "WARNING: carbon budget alert")
	})
}

func TestCalculate_ProjectOverlaySetsFormat(t *testing.T) {
	setupCLITest(t)

	project := t.TempDir()
	overlay := filepath.Join(project, ".carbonfocus")
	require.NoError(t, os.MkdirAll(overlay, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(overlay, "config.yaml"),
		[]byte("output:\n  default_format: json\n"), 0o600))

	out, _, err := execute(t, "", "calculate", "--project-dir", project, "--diet", "average")
	require.NoError(t, err)
	assert.InDelta(t, 168.0, decodeReport(t, out).Summary.FoodKg, 1e-9)
}
