package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// EnergyPriceQuote is the result of a price lookup for a location.
type EnergyPriceQuote struct {
	PricePerKWh float64   `json:"price_per_kwh"`
	Source      string    `json:"source_label"`
	IsLive      bool      `json:"is_live"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// EnergyPrice is one point of an hourly price curve, quoted in the market
// unit (currency per MWh).
type EnergyPrice struct {
	Timestamp   time.Time `json:"timestamp"`
	PriceEURMWh float64   `json:"price_eur_mwh"`
	Currency    string    `json:"currency"`
	Market      string    `json:"market"`
	Region      string    `json:"region"`
}

// Recommendation priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation is one energy optimization suggestion derived from the
// price curve and the asset's consumption profile.
type Recommendation struct {
	Priority         string `json:"priority"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Action           string `json:"action"`
	Avoid            string `json:"avoid,omitempty"`
	SavingsPotential string `json:"savings_potential,omitempty"`
	RevenuePotential string `json:"revenue_potential,omitempty"`
	Investment       string `json:"investment,omitempty"`
	Requirements     string `json:"requirements,omitempty"`
}

// EnergyInsights summarizes the energy situation of an estimate when a
// live price source backed the energy component.
type EnergyInsights struct {
	CurrentEnergyCost decimal.Decimal  `json:"current_energy_cost"`
	AnnualKWh         float64          `json:"annual_kwh"`
	EfficiencyRating  string           `json:"energy_efficiency_rating"`
	SmartGridReady    bool             `json:"smart_grid_ready"`
	PriceSource       string           `json:"price_source"`
	PriceIsLive       bool             `json:"price_is_live"`
	Recommendations   []Recommendation `json:"recommendations,omitempty"`
}
