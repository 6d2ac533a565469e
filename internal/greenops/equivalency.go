package greenops

import (
	"context"
	"fmt"
	"math"

	"github.com/rshade/carbonfocus/internal/logging"
)

// Calculate converts a CarbonInput to kilograms and computes EPA-based
// equivalencies: miles driven, smartphones charged, tree seedlings grown for
// ten years and days of home electricity.
//
// Inputs below MinEquivalencyThresholdKg return an empty output with InputKg
// set and no error. Normalization failures return an empty output and the
// error; non-finite results return ErrCalculationOverflow.
func Calculate(input CarbonInput) (EquivalencyOutput, error) {
	kg, err := NormalizeToKg(input.Value, input.Unit)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}

	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor
	trees := kg / EPATreeSeedlingFactor
	homeDays := kg / EPAHomeDayFactor

	for _, v := range []float64{miles, phones, trees, homeDays} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
		}
	}

	milesFormatted := formatEquivalencyValue(miles)
	phonesFormatted := formatEquivalencyValue(phones)

	results := []EquivalencyResult{
		{Type: EquivalencyMilesDriven, Value: miles, FormattedValue: milesFormatted, Label: "miles driven"},
		{Type: EquivalencySmartphonesCharged, Value: phones, FormattedValue: phonesFormatted, Label: "smartphones charged"},
		{Type: EquivalencyTreeSeedlings, Value: trees, FormattedValue: formatEquivalencyValue(trees),
			Label: "tree seedlings grown for 10 years"},
		{Type: EquivalencyHomeDays, Value: homeDays, FormattedValue: formatEquivalencyValue(homeDays),
			Label: "days of home electricity"},
	}

	displayText := fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
		milesFormatted, phonesFormatted)

	return EquivalencyOutput{
		InputKg:     kg,
		Results:     results,
		DisplayText: displayText,
		CompactText: fmt.Sprintf("(≈ %s mi, %s phones)", milesFormatted, phonesFormatted),
	}, nil
}

// CalculateKg is Calculate for a kilogram value. Failures are logged at warn
// and yield an empty output, so callers can always render the result.
func CalculateKg(ctx context.Context, kg float64) EquivalencyOutput {
	out, err := Calculate(CarbonInput{Value: kg, Unit: "kg"})
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "greenops").
			Str("operation", "equivalency").
			Err(err).
			Float64("input_kg", kg).
			Msg("equivalency calculation failed")
		return EquivalencyOutput{IsEmpty: true}
	}
	return out
}

// formatEquivalencyValue rounds to a whole number with separators, or uses
// million/billion notation for large values.
func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
