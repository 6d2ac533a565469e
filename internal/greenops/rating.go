package greenops

import "math"

// Rate places a monthly total in a rating band. Band ceilings are inclusive.
func Rate(monthlyKg float64) Rating {
	switch {
	case monthlyKg <= ExcellentMaxKg:
		return RatingExcellent
	case monthlyKg <= GoodMaxKg:
		return RatingGood
	case monthlyKg <= AverageMaxKg:
		return RatingAverage
	default:
		return RatingHigh
	}
}

// Benchmarks returns the reference figures, highest first.
func Benchmarks() []Benchmark {
	return []Benchmark{
		{Name: "Global Average", MonthlyKg: GlobalAverageMonthlyKg},
		{Name: "EU Average", MonthlyKg: EUAverageMonthlyKg},
		{Name: "Paris Agreement Target", MonthlyKg: ParisTargetMonthlyKg},
	}
}

// Compare relates a monthly total to every benchmark.
func Compare(monthlyKg float64) []Comparison {
	benchmarks := Benchmarks()
	out := make([]Comparison, 0, len(benchmarks))
	for _, b := range benchmarks {
		out = append(out, Comparison{
			Benchmark:    b,
			DifferenceKg: monthlyKg - b.MonthlyKg,
			PercentOf:    monthlyKg / b.MonthlyKg * 100,
			Below:        monthlyKg <= b.MonthlyKg,
		})
	}
	return out
}

// ReductionNeededPct is the percentage cut that brings monthlyKg down to
// targetKg. It is 0 when already at or below the target, and 100 for a
// non-positive target.
func ReductionNeededPct(monthlyKg, targetKg float64) float64 {
	if monthlyKg <= 0 || monthlyKg <= targetKg {
		return 0
	}
	if targetKg <= 0 {
		return 100
	}
	return math.Min(100, (monthlyKg-targetKg)/monthlyKg*100)
}
