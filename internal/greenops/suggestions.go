package greenops

import "github.com/rshade/carbonfocus/internal/engine"

// Suggest picks improvement tips for a month's summary. Domains holding more
// than DominantShare of the total are called out first, followed by
// threshold tips per domain. A month that triggers nothing gets a single
// encouragement.
func Suggest(s engine.Summary) []Suggestion {
	var out []Suggestion

	if s.TotalKg > 0 {
		if s.TransportKg > s.TotalKg*DominantShare {
			out = append(out, Suggestion{Domain: engine.DomainTransport,
				Text: "Transport is your highest emission source. Consider public transport, cycling, or an electric vehicle."})
		}
		if s.EnergyKg > s.TotalKg*DominantShare {
			out = append(out, Suggestion{Domain: engine.DomainEnergy,
				Text: "Energy use is high. Consider renewable tariffs, better insulation, or efficient appliances."})
		}
		if s.FoodKg > s.TotalKg*DominantShare {
			out = append(out, Suggestion{Domain: engine.DomainFood,
				Text: "Food emissions are significant. Consider eating less meat and choosing local, seasonal produce."})
		}
	}

	if s.TransportKg > TransportHighKg {
		out = append(out, Suggestion{Domain: engine.DomainTransport,
			Text: "Walk or cycle for short trips under 5 km."})
	}
	if s.EnergyKg > EnergyHighKg {
		out = append(out, Suggestion{Domain: engine.DomainEnergy,
			Text: "Improve home insulation and use a programmable thermostat."})
	}
	if s.FoodKg > FoodMeatlessDaysKg {
		out = append(out, Suggestion{Domain: engine.DomainFood,
			Text: "Try plant-based meals two or three times a week."})
	}

	if len(out) == 0 {
		out = append(out, Suggestion{Text: "Your emissions are quite low. Keep up the good work."})
	}
	return out
}

// FoodTier classifies a monthly food total.
type FoodTier string

// Food tiers.
const (
	FoodTierLow      FoodTier = "low"
	FoodTierModerate FoodTier = "moderate"
	FoodTierHigh     FoodTier = "high"
)

// FoodTips returns the tier and tips for a monthly food total.
func FoodTips(foodKg float64) (FoodTier, []string) {
	switch {
	case foodKg > FoodHighKg:
		return FoodTierHigh, []string{
			"Reduce red meat: replace one or two beef meals a week with chicken or plant-based alternatives.",
			"Try plant-based proteins such as legumes, tofu, and nuts.",
			"Choose local produce to cut transport emissions by 10-15%.",
		}
	case foodKg > FoodModerateKg:
		return FoodTierModerate, []string{
			"Try one plant-based day per week.",
			"Choose fruit and vegetables in season.",
			"Reduce food waste by planning meals and storing food properly.",
		}
	default:
		return FoodTierLow, []string{
			"Your current diet has a low carbon footprint.",
			"Help others reduce their food emissions.",
			"Consider organic produce to support sustainable farming.",
		}
	}
}
