package components

import "asset-tco/pkg/api"

// Rates collects the benchmark percentage constants used by the cost
// formulas. Their provenance is industry benchmarks, so they are supplied
// as configuration rather than hard-coded; DefaultRates carries the
// standard values.
type Rates struct {
	// BaseMaintenance maps machine class to the annual maintenance rate
	// as a share of purchase price.
	BaseMaintenance map[string]float64

	// SparePartsRate is the annual spare-parts share of purchase price;
	// SparePartsAgeRate is the additional wear share per year of age.
	SparePartsRate    float64
	SparePartsAgeRate float64

	// InsuranceRate is the annual premium share of asset value.
	InsuranceRate float64

	// CleaningRates maps hygienic category to the annual cleaning share
	// of purchase price. Categories not present need no hygienic cleaning.
	CleaningRates map[string]float64

	// Compliance base costs per year, EUR.
	ComplianceHygienic float64
	ComplianceBase     float64
	// ComplianceSizeDivisor and ComplianceSizeShare form the size factor
	// 1 + share * price/divisor.
	ComplianceSizeDivisor float64
	ComplianceSizeShare   float64

	// Monitoring base costs per year by criticality, EUR.
	MonitoringByCriticality map[api.Criticality]float64
	// MonitoringLargeSurcharge is added above MonitoringLargeThreshold.
	MonitoringLargeThreshold float64
	MonitoringLargeSurcharge float64
	// MonitoringSoftwareShare is the recurring license share of the
	// hardware cost, surcharge included.
	MonitoringSoftwareShare float64

	// SeasonalMultiplier applies to energy for seasonal food categories.
	SeasonalMultiplier float64
}

// Machine classes for maintenance rates.
const (
	ClassDiscStack   = "disc_stack"
	ClassDecanter    = "decanter"
	ClassChamberBowl = "chamber_bowl"
)

// DefaultRates returns the benchmark values.
func DefaultRates() Rates {
	return Rates{
		BaseMaintenance: map[string]float64{
			ClassDiscStack:   0.12,
			ClassDecanter:    0.14,
			ClassChamberBowl: 0.10,
		},
		SparePartsRate:    0.04,
		SparePartsAgeRate: 0.12,
		InsuranceRate:     0.008,
		CleaningRates: map[string]float64{
			"citrus": 0.025,
			"wine":   0.020,
			"dairy":  0.035,
		},
		ComplianceHygienic:    2500,
		ComplianceBase:        1000,
		ComplianceSizeDivisor: 500000,
		ComplianceSizeShare:   0.5,
		MonitoringByCriticality: map[api.Criticality]float64{
			api.CriticalityLow:      0,
			api.CriticalityMedium:   1000,
			api.CriticalityHigh:     2500,
			api.CriticalityCritical: 5000,
		},
		MonitoringLargeThreshold: 200000,
		MonitoringLargeSurcharge: 1500,
		MonitoringSoftwareShare:  0.3,
		SeasonalMultiplier:       1.2,
	}
}
