package engine

import (
	"context"
	"math"

	"github.com/rshade/carbonfocus/internal/logging"
	"github.com/rshade/carbonfocus/internal/timeframe"
)

// Food items recognised by the detailed food calculation.
const (
	FoodBeef    = "beef"
	FoodPork    = "pork"
	FoodChicken = "chicken"
	FoodFish    = "fish"
	FoodLegumes = "legumes"
	FoodTofu    = "tofu"
	FoodMilk    = "milk"
	FoodCheese  = "cheese"
	FoodEggs    = "eggs"
)

// Local and organic sourcing modifiers.
const (
	// LocalReductionWeight is the reduction at 100% local produce.
	LocalReductionWeight = 0.15

	// OrganicReductionWeight is the reduction at 100% organic food.
	OrganicReductionWeight = 0.05

	// MaxSourcingReduction caps the combined sourcing reduction.
	MaxSourcingReduction = 0.25
)

// ReductionPctKey is the breakdown key carrying the applied sourcing reduction (in percent).
const ReductionPctKey = "reduction_pct"

// FoodItems lists the detailed food items in display order.
func FoodItems() []string {
	return []string{FoodBeef, FoodPork, FoodChicken, FoodFish, FoodLegumes, FoodTofu, FoodMilk, FoodCheese, FoodEggs}
}

// DetailedFoodInput is an itemised month of eating.
//
// Servings holds monthly servings per food item, except FoodMilk which is
// glasses per day. LocalPct and OrganicPct are percentages in [0,100].
type DetailedFoodInput struct {
	Servings   map[string]float64 `json:"servings"`
	LocalPct   float64            `json:"local_pct"`
	OrganicPct float64            `json:"organic_pct"`
}

// Diet computes monthly food emissions from a diet category:
// diet[category] × 30. Unknown categories use the "average" factor.
func (e *Engine) Diet(ctx context.Context, category string) Result {
	factor, ok := e.table.DietFactor(category)
	if !ok {
		logging.FromContext(ctx).Debug().
			Str("component", "engine").
			Str("operation", "Diet").
			Str("diet_category", category).
			Msg("unknown diet category, using average")
	}

	return Result{
		Domain:  DomainFood,
		TotalKg: factor * timeframe.FixedMonthDays,
		Inputs:  map[string]any{"diet_category": category},
	}
}

// SourcingReduction returns the fraction removed from raw food emissions for
// local and organic sourcing, capped at MaxSourcingReduction.
func SourcingReduction(localPct, organicPct float64) float64 {
	r := localPct/100*LocalReductionWeight + organicPct/100*OrganicReductionWeight
	return math.Min(r, MaxSourcingReduction)
}

// DetailedFood computes monthly food emissions from itemised servings.
//
// Each item contributes servings × food_items[item] (milk glasses per day are
// first converted to a monthly count). The raw sum is then scaled by
// 1 − SourcingReduction(local, organic). The breakdown reports each item's
// pre-reduction contribution and the applied reduction under ReductionPctKey.
func (e *Engine) DetailedFood(ctx context.Context, in DetailedFoodInput) Result {
	logger := logging.FromContext(ctx).With().
		Str("component", "engine").
		Str("operation", "DetailedFood").
		Logger()

	for item := range in.Servings {
		if _, ok := e.table.FoodItemFactor(item); !ok {
			logger.Debug().Str("item", item).Msg("unknown food item, using zero factor")
		}
	}

	items := e.table.FoodItems()
	breakdown := make(map[string]float64, len(items)+1)
	servings := make(map[string]float64, len(in.Servings))
	var raw float64
	for _, item := range items {
		qty := in.Servings[item]
		servings[item] = qty
		if item == FoodMilk {
			qty = timeframe.DailyToMonthly(qty)
		}
		factor, _ := e.table.FoodItemFactor(item)
		term := qty * factor
		breakdown[item] = term
		raw += term
	}

	reduction := SourcingReduction(in.LocalPct, in.OrganicPct)
	breakdown[ReductionPctKey] = reduction * 100

	return Result{
		Domain:    DomainFood,
		TotalKg:   raw * (1 - reduction),
		Breakdown: breakdown,
		Inputs: map[string]any{
			"servings":    servings,
			"local_pct":   in.LocalPct,
			"organic_pct": in.OrganicPct,
		},
	}
}
