package greenops

// EPA Formula Constants (2024 Edition)
// Source: https://www.epa.gov/energy/greenhouse-gas-equivalencies-calculator
//
// Each factor is the kg CO2e of one unit of the activity:
//
//	equivalency = kg_CO2e / factor
const (
	// EPAMilesDrivenFactor is kg CO2e per mile for an average passenger vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2e per smartphone charge.
	EPASmartphoneChargeFactor = 0.00822

	// EPATreeSeedlingFactor is kg CO2e absorbed per tree seedling over 10 years.
	EPATreeSeedlingFactor = 60.0

	// EPAHomeDayFactor is kg CO2e per day of average US home electricity.
	EPAHomeDayFactor = 18.3
)

// Unit conversion factors to kilograms.
const (
	GramsToKg  = 0.001
	KgToKg     = 1.0
	TonsToKg   = 1000.0
	PoundsToKg = 0.453592
)

// Display thresholds.
const (
	// MinEquivalencyThresholdKg is the smallest value worth translating;
	// below it equivalencies are meaninglessly small.
	MinEquivalencyThresholdKg = 1.0

	// LargeNumberThreshold switches to "~X.X million" display.
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches to "~X.X billion" display.
	BillionThreshold = 1_000_000_000
)

// Monthly rating band ceilings in kg CO2 (inclusive).
const (
	ExcellentMaxKg = 167.0
	GoodMaxKg      = 400.0
	AverageMaxKg   = 667.0
)

// Monthly per-capita benchmarks in kg CO2.
const (
	GlobalAverageMonthlyKg = 833.0 // ~10 t/year
	EUAverageMonthlyKg     = 667.0 // ~8 t/year
	ParisTargetMonthlyKg   = 167.0 // ~2 t/year
)

// Suggestion thresholds in kg CO2 per month.
const (
	// DominantShare is the fraction of the total above which a domain is
	// called out as a main source.
	DominantShare = 0.4

	TransportHighKg    = 150.0
	EnergyHighKg       = 100.0
	FoodHighKg         = 150.0
	FoodModerateKg     = 100.0
	FoodMeatlessDaysKg = 120.0
)
