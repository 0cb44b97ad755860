package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostClass distinguishes how a component behaves over time.
type CostClass string

const (
	CostFixed    CostClass = "fixed"
	CostVariable CostClass = "variable"
	CostOneTime  CostClass = "one_time"
)

// CostComponent is one named cost stream of an asset's TCO. Components are
// created fresh per estimation call and immutable once returned.
type CostComponent struct {
	Name       string          `json:"name"`
	AnnualCost decimal.Decimal `json:"annual_cost"`
	Class      CostClass       `json:"cost_class"`
	Confidence float64         `json:"confidence"`

	// Method is a short human-readable formula, e.g.
	// "price * base_rate * complexity * quality * age".
	Method string `json:"calculation_method"`

	// Factors records every input that went into the derivation, for
	// audit/explainability. Substituted defaults are flagged here as
	// "<field>_defaulted": true.
	Factors map[string]any `json:"factors"`

	RegionDependent    bool `json:"region_dependent"`
	EquipmentDependent bool `json:"equipment_dependent"`
}

// AssetInfo summarizes the asset an estimate belongs to.
type AssetInfo struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Manufacturer string `json:"manufacturer"`
	Location     string `json:"location"`
}

// CostSummary is the headline TCO figure set.
type CostSummary struct {
	AcquisitionCosts decimal.Decimal `json:"acquisition_costs"`
	OperatingCosts   decimal.Decimal `json:"operating_costs"`
	DisposalCosts    decimal.Decimal `json:"disposal_costs"`
	TotalTCO         decimal.Decimal `json:"total_tco"`
	AnnualAverage    decimal.Decimal `json:"annual_average"`
	TCOMultiple      float64         `json:"tco_multiple"`
}

// FinancialMetrics breaks out the one-time positions behind the summary.
type FinancialMetrics struct {
	PurchasePrice        decimal.Decimal `json:"purchase_price"`
	InstallationCost     decimal.Decimal `json:"installation_cost"`
	TrainingCost         decimal.Decimal `json:"training_cost"`
	DisposalCost         decimal.Decimal `json:"disposal_cost"`
	ResidualValue        decimal.Decimal `json:"residual_value"`
	TotalAnnualOperating decimal.Decimal `json:"total_annual_operating"`
	DiscountedOperating  decimal.Decimal `json:"discounted_operating"`
	LifetimeYears        int             `json:"lifetime_years"`
}

// ConfidenceMetrics carries the quality signal of an estimate.
type ConfidenceMetrics struct {
	Overall      float64            `json:"overall_confidence"`
	Level        string             `json:"confidence_level"`
	PerComponent map[string]float64 `json:"component_confidence"`
	LiveBonus    float64            `json:"live_data_bonus"`
}

// EstimateMetadata provides reproducibility information.
type EstimateMetadata struct {
	EstimateID     uuid.UUID `json:"estimate_id"`
	CalculatedAt   time.Time `json:"calculated_at"`
	EngineVersion  string    `json:"engine_version"`
	Location       string    `json:"location"`
	ComponentCount int       `json:"component_count"`
	LivePricing    bool      `json:"live_pricing_used"`
}

// TCOResult is the aggregate output of one estimation call. Field names and
// nesting are the contract reporting/export collaborators rely on.
type TCOResult struct {
	AssetInfo       AssetInfo                  `json:"asset_info"`
	Components      map[string]CostComponent   `json:"components"`
	AnnualBreakdown map[string]decimal.Decimal `json:"annual_breakdown"`
	EscalatedCosts  map[string]decimal.Decimal `json:"escalated_costs"`
	Summary         CostSummary                `json:"cost_summary"`
	Financials      FinancialMetrics           `json:"financial_metrics"`
	Confidence      ConfidenceMetrics          `json:"confidence_metrics"`
	EnergyInsights  *EnergyInsights            `json:"energy_insights,omitempty"`
	Metadata        EstimateMetadata           `json:"analysis_metadata"`
}

// TopComponents returns the n largest annual cost streams, highest first.
func (r *TCOResult) TopComponents(n int) []string {
	type entry struct {
		name string
		cost decimal.Decimal
	}
	entries := make([]entry, 0, len(r.AnnualBreakdown))
	for name, cost := range r.AnnualBreakdown {
		entries = append(entries, entry{name, cost})
	}
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[j].cost.GreaterThan(entries[i].cost) {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
	}
	if n > len(entries) {
		n = len(entries)
	}
	names := make([]string, 0, n)
	for _, e := range entries[:n] {
		names = append(names, e.name)
	}
	return names
}

// MaintenancePrediction is the regression baseline for the maintenance
// component: point estimate plus an uncertainty band derived from ensemble
// prediction dispersion.
type MaintenancePrediction struct {
	AnnualCost decimal.Decimal `json:"annual_prediction"`
	RangeMin   decimal.Decimal `json:"range_min"`
	RangeMax   decimal.Decimal `json:"range_max"`
	Confidence float64         `json:"confidence"`
	Band       string          `json:"confidence_level"`
	StdDev     float64         `json:"prediction_std"`
	ModelType  string          `json:"model_type"`
}
