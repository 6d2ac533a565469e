package greenops

import (
	"math"
	"strings"
)

// unitFactors maps lowercased unit spellings to their kilogram factor.
//
//nolint:gochecknoglobals // Constant lookup table.
var unitFactors = map[string]float64{
	"g":      GramsToKg,
	"gco2":   GramsToKg,
	"gco2e":  GramsToKg,
	"kg":     KgToKg,
	"kgco2":  KgToKg,
	"kgco2e": KgToKg,
	"t":      TonsToKg,
	"tco2":   TonsToKg,
	"tco2e":  TonsToKg,
	"lb":     PoundsToKg,
	"lbco2":  PoundsToKg,
	"lbco2e": PoundsToKg,
}

// NormalizeToKg converts a carbon quantity to kilograms. Units are g, kg, t
// and lb, optionally suffixed CO2 or CO2e, matched case-insensitively; an
// empty unit means kg.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}

	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = "kg"
	}
	factor, ok := unitFactors[u]
	if !ok {
		return 0, ErrInvalidUnit
	}

	result := value * factor
	if math.IsInf(result, 0) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}

// IsRecognizedUnit reports whether unit is accepted by NormalizeToKg.
func IsRecognizedUnit(unit string) bool {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		return true
	}
	_, ok := unitFactors[u]
	return ok
}
