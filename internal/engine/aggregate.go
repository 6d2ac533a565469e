package engine

import "github.com/rshade/carbonfocus/internal/timeframe"

// Summary combines the three domain totals for one month.
type Summary struct {
	TransportKg float64            `json:"transport"`
	EnergyKg    float64            `json:"energy"`
	FoodKg      float64            `json:"food"`
	TotalKg     float64            `json:"total"`
	Percentages map[Domain]float64 `json:"percentages"`
}

// Aggregate sums the domain totals and computes each domain's share of the
// total in percent. When the total is not positive every share is zero,
// so callers never see NaN or Inf.
func Aggregate(transportKg, energyKg, foodKg float64) Summary {
	total := transportKg + energyKg + foodKg

	pct := map[Domain]float64{
		DomainTransport: 0,
		DomainEnergy:    0,
		DomainFood:      0,
	}
	if total > 0 {
		pct[DomainTransport] = transportKg / total * 100
		pct[DomainEnergy] = energyKg / total * 100
		pct[DomainFood] = foodKg / total * 100
	}

	return Summary{
		TransportKg: transportKg,
		EnergyKg:    energyKg,
		FoodKg:      foodKg,
		TotalKg:     total,
		Percentages: pct,
	}
}

// AnnualProjectionKg projects the monthly total over a year.
func (s Summary) AnnualProjectionKg() float64 {
	return timeframe.MonthlyToAnnual(s.TotalKg)
}

// DailyAverageKg is the monthly total spread over an average day.
func (s Summary) DailyAverageKg() float64 {
	return timeframe.MonthlyToDaily(s.TotalKg)
}

// Largest returns the domain with the highest total. Ties resolve in
// Domains() order.
func (s Summary) Largest() Domain {
	best := DomainTransport
	bestKg := s.TransportKg
	if s.EnergyKg > bestKg {
		best, bestKg = DomainEnergy, s.EnergyKg
	}
	if s.FoodKg > bestKg {
		best = DomainFood
	}
	return best
}
