package factors

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SourceEmbedded is the Source of a table loaded from the built-in defaults.
const SourceEmbedded = "embedded"

// SupportedSchema is the semver constraint a table's schema_version must satisfy.
const SupportedSchema = "^1.0.0"

// assumedSchemaVersion is used when a table omits schema_version.
const assumedSchemaVersion = "1.0.0"

//go:embed default_factors.yaml
var defaultTableYAML []byte

// defaultFoodItems is applied when a table has no food_items section.
//
//nolint:gochecknoglobals // Constant lookup table.
var defaultFoodItems = map[string]float64{
	"beef":    6.6,
	"pork":    2.9,
	"chicken": 1.6,
	"fish":    1.2,
	"legumes": 0.1,
	"tofu":    0.3,
	"milk":    0.4,
	"cheese":  1.0,
	"eggs":    0.4,
}

// document mirrors the on-disk YAML layout.
type document struct {
	SchemaVersion      string                        `yaml:"schema_version"`
	Transport          map[string]map[string]float64 `yaml:"transport"`
	CarFuelConsumption map[string]float64            `yaml:"car_fuel_consumption"`
	Diet               map[string]float64            `yaml:"diet"`
	Energy             map[string]float64            `yaml:"energy"`
	FoodItems          map[string]float64            `yaml:"food_items"`
	GridIntensity      *float64                      `yaml:"grid_intensity_kg_per_kwh"`
}

// DefaultYAML returns a copy of the embedded default table file.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultTableYAML))
	copy(out, defaultTableYAML)
	return out
}

// LoadDefault parses the embedded default table.
func LoadDefault() (*Table, error) {
	return Parse(defaultTableYAML, SourceEmbedded)
}

// Load reads a table from path. An empty path loads the embedded default.
//
// Any failure is a configuration error: the file is missing or unreadable
// (ErrTableNotFound), not valid YAML (ErrInvalidTable), lacks a required
// category (ErrMissingCategory), carries a bad factor (ErrInvalidFactor), or
// declares an incompatible schema (ErrUnsupportedSchema).
func Load(path string) (*Table, error) {
	if path == "" {
		return LoadDefault()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", ErrTableNotFound, path, err)
	}

	return Parse(data, path)
}

// Parse builds a Table from YAML bytes. source is recorded for diagnostics.
func Parse(data []byte, source string) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalidTable, source, err)
	}

	version, err := checkSchema(doc.SchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	if err = doc.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	t := &Table{
		schemaVersion:  version,
		source:         source,
		transport:      make(map[string]map[string]float64, len(doc.Transport)),
		carConsumption: copyMap(doc.CarFuelConsumption),
		diet:           copyMap(doc.Diet),
		energy:         copyMap(doc.Energy),
		foodItems:      copyMap(doc.FoodItems),
	}
	for mode, byType := range doc.Transport {
		t.transport[mode] = copyMap(byType)
	}
	if len(t.foodItems) == 0 {
		t.foodItems = copyMap(defaultFoodItems)
	}
	if doc.GridIntensity != nil {
		t.gridIntensity = *doc.GridIntensity
		t.hasGrid = true
	}

	return t, nil
}

// checkSchema validates the declared schema version against SupportedSchema.
func checkSchema(declared string) (string, error) {
	if declared == "" {
		declared = assumedSchemaVersion
	}

	v, err := semver.NewVersion(declared)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrUnsupportedSchema, declared, err)
	}

	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return "", fmt.Errorf("%w: bad constraint %q: %w", ErrUnsupportedSchema, SupportedSchema, err)
	}

	if !constraint.Check(v) {
		return "", fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedSchema, v, SupportedSchema)
	}

	return v.String(), nil
}

func (d *document) validate() error {
	if len(d.Transport) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingCategory, CategoryTransport)
	}
	if len(d.Diet) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingCategory, CategoryDiet)
	}
	if len(d.Energy) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingCategory, CategoryEnergy)
	}
	if _, ok := d.Diet[DefaultDietCategory]; !ok {
		return fmt.Errorf("%w: %s.%s (default diet category)", ErrMissingCategory, CategoryDiet, DefaultDietCategory)
	}
	if len(d.Transport[ModeCar]) > 0 && len(d.CarFuelConsumption) == 0 {
		return fmt.Errorf("%w: %s (required when transport.car is set)", ErrMissingCategory, CategoryCarConsumption)
	}

	for mode, byType := range d.Transport {
		if err := checkFactors(CategoryTransport+"."+mode, byType); err != nil {
			return err
		}
	}

	sections := []struct {
		name    string
		factors map[string]float64
	}{
		{CategoryCarConsumption, d.CarFuelConsumption},
		{CategoryDiet, d.Diet},
		{CategoryEnergy, d.Energy},
		{CategoryFoodItems, d.FoodItems},
	}
	for _, s := range sections {
		if err := checkFactors(s.name, s.factors); err != nil {
			return err
		}
	}

	if d.GridIntensity != nil && !validFactor(*d.GridIntensity) {
		return fmt.Errorf("%w: grid_intensity_kg_per_kwh = %v", ErrInvalidFactor, *d.GridIntensity)
	}

	return nil
}

func checkFactors(section string, factors map[string]float64) error {
	for _, key := range sortedKeys(factors) {
		if v := factors[key]; !validFactor(v) {
			return fmt.Errorf("%w: %s.%s = %v", ErrInvalidFactor, section, key, v)
		}
	}
	return nil
}

func validFactor(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
