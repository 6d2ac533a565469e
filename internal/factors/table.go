// Package factors holds the emission coefficient table.
//
// A Table is loaded once at process start (from a YAML file or the embedded
// default) and is immutable afterwards, so it can be shared by any number of
// concurrent readers without locking. Lookups follow a two-tier rule: an
// exact key match returns the configured factor, anything else returns the
// documented default for that category (zero, or the "average" diet).
package factors

import (
	"sort"
)

// Category names used as top-level keys in a table file.
const (
	CategoryTransport      = "transport"
	CategoryCarConsumption = "car_fuel_consumption"
	CategoryDiet           = "diet"
	CategoryEnergy         = "energy"
	CategoryFoodItems      = "food_items"
)

// Transport modes.
const (
	ModeCar    = "car"
	ModeBus    = "bus"
	ModeTrain  = "train"
	ModeFlight = "flight"
)

// Flight distance bands.
const (
	FlightShort  = "short"
	FlightMedium = "medium"
	FlightLong   = "long"
)

// DefaultDietCategory is the diet used when a category is not in the table.
const DefaultDietCategory = "average"

// Table is an immutable set of emission factors.
type Table struct {
	schemaVersion  string
	source         string
	transport      map[string]map[string]float64
	carConsumption map[string]float64
	diet           map[string]float64
	energy         map[string]float64
	foodItems      map[string]float64
	gridIntensity  float64
	hasGrid        bool
}

// Source describes where the table was loaded from ("embedded" or a file path).
func (t *Table) Source() string { return t.source }

// SchemaVersion returns the table's declared schema version.
func (t *Table) SchemaVersion() string { return t.schemaVersion }

// TransportFactor returns the factor for a transport mode and sub-type.
// Unknown modes or sub-types resolve to 0 with ok=false.
func (t *Table) TransportFactor(mode, subType string) (float64, bool) {
	byType, ok := t.transport[mode]
	if !ok {
		return 0, false
	}
	f, ok := byType[subType]
	return f, ok
}

// CarConsumption returns litres (or kWh) per km for a car fuel type.
// Unknown fuel types resolve to 0 with ok=false.
func (t *Table) CarConsumption(fuel string) (float64, bool) {
	f, ok := t.carConsumption[fuel]
	return f, ok
}

// DietFactor returns kg CO2 per day for a diet category.
// Unknown categories resolve to the DefaultDietCategory factor with ok=false.
func (t *Table) DietFactor(category string) (float64, bool) {
	if f, ok := t.diet[category]; ok {
		return f, true
	}
	return t.diet[DefaultDietCategory], false
}

// EnergyFactor returns kg CO2 per kWh for an energy source.
// Unknown sources resolve to 0 with ok=false.
func (t *Table) EnergyFactor(source string) (float64, bool) {
	f, ok := t.energy[source]
	return f, ok
}

// FoodItemFactor returns kg CO2 per serving for a food item.
// Unknown items resolve to 0 with ok=false.
func (t *Table) FoodItemFactor(item string) (float64, bool) {
	f, ok := t.foodItems[item]
	return f, ok
}

// GridIntensity returns the optional electricity grid intensity (kg CO2 per kWh)
// used for electric cars. ok is false when the table does not declare one.
func (t *Table) GridIntensity() (float64, bool) {
	return t.gridIntensity, t.hasGrid
}

// TransportModes returns the configured transport modes in sorted order.
func (t *Table) TransportModes() []string { return sortedKeys(t.transport) }

// TransportSubTypes returns the sub-types configured for a mode in sorted order.
func (t *Table) TransportSubTypes(mode string) []string { return sortedKeys(t.transport[mode]) }

// DietCategories returns the configured diet categories in sorted order.
func (t *Table) DietCategories() []string { return sortedKeys(t.diet) }

// EnergySources returns the configured energy sources in sorted order.
func (t *Table) EnergySources() []string { return sortedKeys(t.energy) }

// FoodItems returns the configured food items in sorted order.
func (t *Table) FoodItems() []string { return sortedKeys(t.foodItems) }

// Snapshot returns a deep copy of the table's factors keyed by category.
// Mutating the result does not affect the table.
func (t *Table) Snapshot() map[string]map[string]float64 {
	out := map[string]map[string]float64{
		CategoryCarConsumption: copyMap(t.carConsumption),
		CategoryDiet:           copyMap(t.diet),
		CategoryEnergy:         copyMap(t.energy),
		CategoryFoodItems:      copyMap(t.foodItems),
	}
	for mode, byType := range t.transport {
		out[CategoryTransport+"."+mode] = copyMap(byType)
	}
	return out
}

func copyMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
