// Package validate checks caller-supplied activity inputs before they reach
// the engine. The engine itself never rejects numeric input; callers (the
// HTTP API and the CLI) use this package to refuse negative, out-of-range, or
// unrecognised values with a message naming the offending field.
package validate

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rshade/carbonfocus/internal/engine"
	"github.com/rshade/carbonfocus/internal/factors"
)

// Plausibility ceilings for a single month.
const (
	MaxKm        = 10000.0
	MaxKWh       = 5000.0
	MaxFlights   = 10.0
	MaxServings  = 30.0 // every food field, milk glasses included
	MaxPercent   = 100.0
	MaxMonthlyKg = 10000.0
)

// CarFuelTypes are the car fuel types accepted by callers.
func CarFuelTypes() []string { return []string{"petrol", "diesel", "electric"} }

// DietCategories are the diet categories accepted by callers.
func DietCategories() []string { return []string{"high_meat", "average", "vegetarian", "vegan"} }

// fuelAliases maps alternative spellings onto table keys.
//
//nolint:gochecknoglobals // Constant lookup table.
var fuelAliases = map[string]string{
	"gasoline": "petrol",
	"bio":      "biofuel",
}

// FieldError is a blocking problem with one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldWarning is a non-blocking advisory about one input field.
type FieldWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects validation findings.
type Result struct {
	Errors   []FieldError   `json:"errors"`
	Warnings []FieldWarning `json:"warnings"`
}

// Valid reports whether there are no blocking errors.
func (r Result) Valid() bool { return len(r.Errors) == 0 }

// Err returns nil when valid, otherwise all field errors joined.
// errors.As recovers the first FieldError.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

func (r *Result) merge(o Result) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

func (r *Result) fail(field, format string, args ...any) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) warn(field, format string, args ...any) {
	r.Warnings = append(r.Warnings, FieldWarning{Field: field, Message: fmt.Sprintf(format, args...)})
}

// quantity checks that v is a finite, non-negative number no larger than limit.
func (r *Result) quantity(field string, v, limit float64, unit string) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		r.fail(field, "must be a finite number")
	case v < 0:
		r.fail(field, "must be a non-negative number, got %g", v)
	case v > limit:
		r.fail(field, "seems unusually high: %g %s, please check your input", v, unit)
	}
}

// Normalize lowercases and trims a category key and resolves known aliases.
func Normalize(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if alias, ok := fuelAliases[k]; ok {
		return alias
	}
	return k
}

func sortedSources(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Transport normalises fuel and train types in place and checks distances
// and flight counts. Unknown bus or train types are warnings, since the
// engine resolves them to zero; an unknown car fuel type is an error.
func Transport(in *engine.TransportInput, table *factors.Table) Result {
	var r Result

	in.CarFuelType = Normalize(in.CarFuelType)
	in.BusFuelType = Normalize(in.BusFuelType)
	in.TrainType = Normalize(in.TrainType)

	r.quantity("km_car", in.KmCar, MaxKm, "km")
	r.quantity("km_bus", in.KmBus, MaxKm, "km")
	r.quantity("km_train", in.KmTrain, MaxKm, "km")
	r.quantity("short_flights", in.ShortFlights, MaxFlights, "flights per month")
	r.quantity("medium_flights", in.MediumFlights, MaxFlights, "flights per month")
	r.quantity("long_flights", in.LongFlights, MaxFlights, "flights per month")

	if in.KmCar > 0 || in.CarFuelType != "" {
		if !contains(CarFuelTypes(), in.CarFuelType) {
			r.fail("car_fuel_type", "must be one of %v, got %q", CarFuelTypes(), in.CarFuelType)
		}
	}

	if table != nil {
		if in.KmBus > 0 {
			if _, ok := table.TransportFactor(factors.ModeBus, in.BusFuelType); !ok {
				r.warn("bus_fuel_type", "%q is not in the emission factor table and will count as zero", in.BusFuelType)
			}
		}
		if in.KmTrain > 0 {
			if _, ok := table.TransportFactor(factors.ModeTrain, in.TrainType); !ok {
				r.warn("train_type", "%q is not in the emission factor table and will count as zero", in.TrainType)
			}
		}
	}

	return r
}

// Energy normalises source names in place (a "kwh_" prefix is dropped, so
// "kwh_electricity" and "electricity" are the same source) and checks each
// source's monthly kWh. Sources unknown to the table are warnings.
func Energy(in *engine.EnergyInput, table *factors.Table) Result {
	var r Result

	normalized := make(engine.EnergyInput, len(*in))
	for source, kwh := range *in {
		key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(source)), "kwh_")
		normalized[key] += kwh
	}
	*in = normalized

	for _, source := range sortedSources(normalized) {
		field := "kwh_" + source
		r.quantity(field, normalized[source], MaxKWh, "kWh")
		if table != nil {
			if _, ok := table.EnergyFactor(source); !ok {
				r.warn(field, "%q is not in the emission factor table and will count as zero", source)
			}
		}
	}
	return r
}

// DietCategory normalises the category in place and requires a known value.
func DietCategory(category *string) Result {
	var r Result
	*category = Normalize(*category)
	if !contains(DietCategories(), *category) {
		r.fail("diet_type", "must be one of %v, got %q", DietCategories(), *category)
	}
	return r
}

// DetailedFood checks servings and sourcing percentages.
func DetailedFood(in *engine.DetailedFoodInput) Result {
	var r Result

	normalized := make(map[string]float64, len(in.Servings))
	for item, qty := range in.Servings {
		normalized[Normalize(item)] += qty
	}
	in.Servings = normalized

	for _, item := range sortedSources(in.Servings) {
		unit := "servings"
		if item == engine.FoodMilk {
			unit = "glasses per day"
		} else if !contains(engine.FoodItems(), item) {
			r.warn("servings."+item, "%q is not a tracked food item and will count as zero", item)
		}
		r.quantity("servings."+item, in.Servings[item], MaxServings, unit)
	}

	r.quantity("local_pct", in.LocalPct, MaxPercent, "percent")
	r.quantity("organic_pct", in.OrganicPct, MaxPercent, "percent")

	return r
}

// Request validates every part of a full estimate request.
func Request(req *engine.Request, table *factors.Table) Result {
	var r Result
	r.merge(Transport(&req.Transport, table))
	r.merge(Energy(&req.Energy, table))
	if req.DetailedFood != nil {
		r.merge(DetailedFood(req.DetailedFood))
	} else {
		r.merge(DietCategory(&req.DietCategory))
	}
	return r
}

// Monthly checks a monthly emission total for sanity. Negative totals are
// errors and totals above MaxMonthlyKg are warnings.
func Monthly(field string, kg float64) Result {
	var r Result
	switch {
	case kg < 0:
		r.fail(field, "negative value detected (%g)", kg)
	case kg > MaxMonthlyKg:
		r.warn(field, "unusually high monthly value (%g kg CO2)", kg)
	}
	return r
}
