// Package timeframe centralises conversions to and from the monthly reporting
// period. Every engine input and output is a monthly quantity; callers that
// collect daily, weekly, or annual figures convert them here and nowhere else.
package timeframe

import "fmt"

// Conversion constants.
const (
	// DaysPerMonth is the average number of days in a month.
	DaysPerMonth = 30.44

	// WeeksPerMonth is the average number of weeks in a month.
	WeeksPerMonth = 4.33

	// MonthsPerYear converts between monthly and annual figures.
	MonthsPerYear = 12

	// FixedMonthDays is the flat month length used by category-based diet
	// estimates, whose factors are calibrated against a 30-day month.
	FixedMonthDays = 30
)

// Period names a reporting timeframe for display.
type Period string

// Supported display periods.
const (
	Daily   Period = "daily"
	Monthly Period = "monthly"
	Annual  Period = "annual"
)

// DailyToMonthly converts a per-day quantity to its monthly equivalent.
func DailyToMonthly(v float64) float64 { return v * DaysPerMonth }

// WeeklyToMonthly converts a per-week quantity to its monthly equivalent.
func WeeklyToMonthly(v float64) float64 { return v * WeeksPerMonth }

// MonthlyToAnnual projects a monthly quantity to a year.
func MonthlyToAnnual(v float64) float64 { return v * MonthsPerYear }

// AnnualToMonthly converts an annual quantity to its monthly equivalent.
func AnnualToMonthly(v float64) float64 { return v / MonthsPerYear }

// MonthlyToDaily converts a monthly quantity to a per-day average.
func MonthlyToDaily(v float64) float64 { return v / DaysPerMonth }

// Format renders an emission value with a unit label for the given period.
func Format(kg float64, p Period) string {
	switch p {
	case Daily:
		return fmt.Sprintf("%.1f kg CO₂/day", kg)
	case Monthly:
		return fmt.Sprintf("%.1f kg CO₂/month", kg)
	case Annual:
		return fmt.Sprintf("%.1f kg CO₂/year", kg)
	default:
		return fmt.Sprintf("%.1f kg CO₂", kg)
	}
}

// HelpText explains the expected input timeframe for a section
// ("transport", "energy", or "food").
func HelpText(section string) string {
	switch section {
	case "transport":
		return "Enter your typical monthly transportation usage. For flights, use average monthly flights " +
			"(e.g., 2 flights per year = 0.17 flights per month)."
	case "energy":
		return "Enter your monthly energy consumption from utility bills, in kWh."
	case "food":
		return "Select your typical diet type, or enter monthly servings per food item. " +
			"Milk is entered as glasses per day."
	default:
		return "Enter monthly values for this category."
	}
}
