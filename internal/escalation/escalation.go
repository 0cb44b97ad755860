// Package escalation projects annual cost components across the asset
// lifetime. Variable costs compound faster than fixed costs, and present
// value discounting converts the projection into today's money.
package escalation

import (
	"math"

	"github.com/shopspring/decimal"

	"asset-tco/pkg/api"
)

// Default annual rates.
const (
	DefaultVariableRate = 0.05
	DefaultFixedRate    = 0.03
	DefaultDiscountRate = 0.05
)

// Escalator compounds annual component costs over a lifetime horizon.
// The zero value is unusable; construct with New or NewWithRates.
type Escalator struct {
	variableRate float64
	fixedRate    float64
	discountRate float64
}

// New returns an Escalator with the default rate set.
func New() *Escalator {
	return NewWithRates(DefaultVariableRate, DefaultFixedRate, DefaultDiscountRate)
}

// NewWithRates returns an Escalator with explicit annual rates.
func NewWithRates(variable, fixed, discount float64) *Escalator {
	return &Escalator{
		variableRate: variable,
		fixedRate:    fixed,
		discountRate: discount,
	}
}

// rateFor picks the compounding rate by cost class. One-time costs do not
// escalate.
func (e *Escalator) rateFor(class api.CostClass) float64 {
	switch class {
	case api.CostVariable:
		return e.variableRate
	case api.CostFixed:
		return e.fixedRate
	default:
		return 0
	}
}

// YearCost returns the component's cost in a given year of the lifetime.
// Years are 1-based; year 1 is the unescalated annual cost.
func (e *Escalator) YearCost(c api.CostComponent, year int) decimal.Decimal {
	if year < 1 {
		return decimal.Zero
	}
	if c.Class == api.CostOneTime {
		if year == 1 {
			return c.AnnualCost
		}
		return decimal.Zero
	}
	growth := math.Pow(1+e.rateFor(c.Class), float64(year-1))
	return c.AnnualCost.Mul(decimal.NewFromFloat(growth)).Round(2)
}

// Series returns the escalated cost of a component for each year of the
// horizon, index 0 being year 1.
func (e *Escalator) Series(c api.CostComponent, lifetimeYears int) []decimal.Decimal {
	out := make([]decimal.Decimal, lifetimeYears)
	for year := 1; year <= lifetimeYears; year++ {
		out[year-1] = e.YearCost(c, year)
	}
	return out
}

// LifetimeCost sums the escalated component cost over the full horizon.
func (e *Escalator) LifetimeCost(c api.CostComponent, lifetimeYears int) decimal.Decimal {
	total := decimal.Zero
	for year := 1; year <= lifetimeYears; year++ {
		total = total.Add(e.YearCost(c, year))
	}
	return total.Round(2)
}

// EscalateAll projects every component over the horizon and returns the
// per-component lifetime totals keyed by component name.
func (e *Escalator) EscalateAll(components map[string]api.CostComponent, lifetimeYears int) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(components))
	for name, c := range components {
		out[name] = e.LifetimeCost(c, lifetimeYears)
	}
	return out
}

// PresentValue discounts a constant annual operating cost over the horizon
// to today's money. Year 1 is already discounted one period.
func (e *Escalator) PresentValue(annualCost decimal.Decimal, lifetimeYears int) decimal.Decimal {
	total := decimal.Zero
	for year := 1; year <= lifetimeYears; year++ {
		factor := math.Pow(1+e.discountRate, float64(year))
		total = total.Add(annualCost.Div(decimal.NewFromFloat(factor)))
	}
	return total.Round(2)
}

// DiscountedTotals returns the nominal and present-value lifetime totals of
// a constant annual operating cost. Acquisition money spent in year 0 is
// never discounted and is not part of either figure.
func (e *Escalator) DiscountedTotals(annualCost decimal.Decimal, lifetimeYears int) (nominal, discounted decimal.Decimal) {
	nominal = annualCost.Mul(decimal.NewFromInt(int64(lifetimeYears))).Round(2)
	return nominal, e.PresentValue(annualCost, lifetimeYears)
}
