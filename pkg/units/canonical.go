// Package units provides canonical unit types and conversions.
package units

// Unit represents a measurable quantity.
type Unit string

const (
	// Energy units
	UnitKWh Unit = "kWh"
	UnitMWh Unit = "MWh"

	// Time units
	UnitHours Unit = "hours"

	// Water units
	UnitLiters       Unit = "L"
	UnitLitersPerSec Unit = "L/s"
)

// KWhPerMWh is the conversion constant between the two energy scales.
const KWhPerMWh = 1000.0

// WorkingDaysPerYear is the standard assumption for shift-based savings math.
const WorkingDaysPerYear = 250

// HoursPerDay for forecast curves.
const HoursPerDay = 24

// PricePerMWhToKWh converts a market price quoted in currency/MWh
// to currency/kWh, the unit all cost formulas work in.
func PricePerMWhToKWh(price float64) float64 {
	return price / KWhPerMWh
}

// PricePerKWhToMWh converts back to the market quotation unit.
func PricePerKWhToMWh(price float64) float64 {
	return price * KWhPerMWh
}

// AnnualEnergyKWh computes yearly energy draw from rated power and
// effective operating profile.
func AnnualEnergyKWh(powerKW, annualHours, loadFactor, efficiencyFactor float64) float64 {
	return powerKW * annualHours * loadFactor * efficiencyFactor
}
