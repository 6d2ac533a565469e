package engine

import (
	"context"

	"github.com/rshade/carbonfocus/internal/logging"
)

// Request bundles the inputs for a full household estimate.
// Food uses the detailed calculation when DetailedFood is set and the diet
// category otherwise.
type Request struct {
	Transport    TransportInput
	Energy       EnergyInput
	DietCategory string
	DetailedFood *DetailedFoodInput
}

// Estimate is the result of a full household calculation.
type Estimate struct {
	Transport Result  `json:"transport"`
	Energy    Result  `json:"energy"`
	Food      Result  `json:"food"`
	Summary   Summary `json:"summary"`
}

// Estimate runs all three domain calculations and aggregates them.
func (e *Engine) Estimate(ctx context.Context, req Request) Estimate {
	logger := logging.FromContext(ctx).With().
		Str("component", "engine").
		Str("operation", "Estimate").
		Logger()

	transport := e.Transport(ctx, req.Transport)
	energy := e.Energy(ctx, req.Energy)

	var food Result
	if req.DetailedFood != nil {
		food = e.DetailedFood(ctx, *req.DetailedFood)
	} else {
		food = e.Diet(ctx, req.DietCategory)
	}

	summary := Aggregate(transport.TotalKg, energy.TotalKg, food.TotalKg)

	logger.Debug().
		Float64("transport_kg", transport.TotalKg).
		Float64("energy_kg", energy.TotalKg).
		Float64("food_kg", food.TotalKg).
		Float64("total_kg", summary.TotalKg).
		Msg("estimate computed")

	return Estimate{
		Transport: transport,
		Energy:    energy,
		Food:      food,
		Summary:   summary,
	}
}
