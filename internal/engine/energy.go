package engine

import (
	"context"
	"sort"

	"github.com/rshade/carbonfocus/internal/logging"
)

// Common energy sources. The recognised set is whatever the coefficient
// table declares; these names exist for callers building an EnergyInput.
const (
	EnergyElectricity = "electricity"
	EnergyOil         = "oil"
	EnergyGas         = "gas"
	EnergyWood        = "wood"
)

// EnergyInput maps an energy source to monthly kWh consumed.
type EnergyInput map[string]float64

// Energy computes monthly household energy emissions as the sum of
// kwh × energy[source]. Sources missing from the table contribute zero.
// Terms are summed in sorted source order so the total does not depend on
// map iteration order.
func (e *Engine) Energy(ctx context.Context, in EnergyInput) Result {
	logger := logging.FromContext(ctx).With().
		Str("component", "engine").
		Str("operation", "Energy").
		Logger()

	sources := make([]string, 0, len(in))
	for source := range in {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	var total float64
	breakdown := make(map[string]float64, len(in))
	inputs := make(map[string]any, len(in))
	for _, source := range sources {
		kwh := in[source]
		factor, ok := e.table.EnergyFactor(source)
		if !ok {
			logger.Debug().Str("source", source).Msg("unknown energy source, using zero factor")
		}
		term := kwh * factor
		breakdown[source] = term
		inputs[source] = kwh
		total += term
	}

	return Result{
		Domain:    DomainEnergy,
		TotalKg:   total,
		Breakdown: breakdown,
		Inputs:    inputs,
	}
}
