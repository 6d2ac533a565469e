// Package greenops puts a household's monthly CO2 figure in context. It
// translates kilograms into everyday equivalencies using EPA factors, rates a
// monthly total against fixed bands and per-capita benchmarks, and picks
// improvement suggestions from the per-domain split.
package greenops

import (
	"fmt"

	"github.com/rshade/carbonfocus/internal/engine"
)

// EquivalencyType represents a category of carbon emission equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven converts CO2e to miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged converts CO2e to smartphone full charges.
	EquivalencySmartphonesCharged

	// EquivalencyTreeSeedlings converts CO2e to tree seedlings grown for 10 years.
	EquivalencyTreeSeedlings

	// EquivalencyHomeDays converts CO2e to days of average US home electricity use.
	EquivalencyHomeDays
)

// String returns a human-readable representation of the EquivalencyType.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	case EquivalencyHomeDays:
		return "HomeDays"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// MarshalText encodes the type by name so JSON output stays readable.
func (e EquivalencyType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (e *EquivalencyType) UnmarshalText(text []byte) error {
	for _, t := range []EquivalencyType{
		EquivalencyMilesDriven, EquivalencySmartphonesCharged, EquivalencyTreeSeedlings, EquivalencyHomeDays,
	} {
		if t.String() == string(text) {
			*e = t
			return nil
		}
	}
	return fmt.Errorf("unknown equivalency type %q", text)
}

// CarbonInput is a carbon quantity with its unit.
type CarbonInput struct {
	Value float64 `json:"value"`
	// Unit is one of g, kg, t, lb with an optional CO2/CO2e suffix.
	Unit string `json:"unit"`
}

// EquivalencyResult represents a single calculated equivalency.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// EquivalencyOutput contains all equivalency results for display.
type EquivalencyOutput struct {
	// InputKg is the normalized input value in kilograms CO2e.
	InputKg float64 `json:"input_kg"`

	// Results contains calculated equivalencies in priority order.
	Results []EquivalencyResult `json:"results"`

	// DisplayText is the prose form for CLI output.
	// Example: "Equivalent to driving ~781 miles or charging ~18,248 smartphones"
	DisplayText string `json:"display_text"`

	// CompactText is the abbreviated form for log lines and narrow output.
	// Example: "(≈ 781 mi, 18,248 phones)"
	CompactText string `json:"compact_text"`

	IsEmpty bool `json:"is_empty"`
}

// Rating is a qualitative band for a monthly total.
type Rating string

// Rating bands, from lowest to highest emissions.
const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingAverage   Rating = "Average"
	RatingHigh      Rating = "High"
)

// Benchmark is a reference monthly per-capita figure.
type Benchmark struct {
	Name      string  `json:"name"`
	MonthlyKg float64 `json:"monthly_kg"`
}

// Comparison relates a monthly total to one benchmark.
type Comparison struct {
	Benchmark
	// DifferenceKg is total minus benchmark; negative means below it.
	DifferenceKg float64 `json:"difference_kg"`
	// PercentOf is the total as a percentage of the benchmark.
	PercentOf float64 `json:"percent_of"`
	Below     bool    `json:"below"`
}

// Suggestion is one improvement tip.
type Suggestion struct {
	// Domain is empty for general encouragement.
	Domain engine.Domain `json:"domain,omitempty"`
	Text   string        `json:"text"`
}
