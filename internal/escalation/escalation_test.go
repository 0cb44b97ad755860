package escalation

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-tco/pkg/api"
)

func component(class api.CostClass, annual float64) api.CostComponent {
	return api.CostComponent{
		Name:       "test",
		AnnualCost: decimal.NewFromFloat(annual),
		Class:      class,
	}
}

func TestVariableEscalation(t *testing.T) {
	e := New()
	c := component(api.CostVariable, 1000)

	got, _ := e.LifetimeCost(c, 3).Float64()
	want := 1000.0 + 1000*1.05 + 1000*math.Pow(1.05, 2)
	assert.InDelta(t, want, got, 0.02)
}

func TestFixedEscalation(t *testing.T) {
	e := New()
	c := component(api.CostFixed, 1000)

	got, _ := e.LifetimeCost(c, 3).Float64()
	want := 1000.0 + 1000*1.03 + 1000*math.Pow(1.03, 2)
	assert.InDelta(t, want, got, 0.02)
}

func TestOneTimeDoesNotEscalate(t *testing.T) {
	e := New()
	c := component(api.CostOneTime, 5000)

	got, _ := e.LifetimeCost(c, 10).Float64()
	assert.InDelta(t, 5000.0, got, 0.001)
	assert.True(t, e.YearCost(c, 2).IsZero())
}

func TestYearOneIsUnescalated(t *testing.T) {
	e := New()
	c := component(api.CostVariable, 1234.56)

	assert.True(t, e.YearCost(c, 1).Equal(c.AnnualCost))
	assert.True(t, e.YearCost(c, 0).IsZero())
}

func TestPresentValue(t *testing.T) {
	e := New()
	annual := decimal.NewFromInt(1000)

	got, _ := e.PresentValue(annual, 3).Float64()
	want := 1000/1.05 + 1000/math.Pow(1.05, 2) + 1000/math.Pow(1.05, 3)
	assert.InDelta(t, want, got, 0.02)
}

func TestSeriesLengthAndGrowth(t *testing.T) {
	e := New()
	c := component(api.CostVariable, 1000)

	series := e.Series(c, 10)
	require.Len(t, series, 10)
	assert.True(t, series[0].Equal(c.AnnualCost))
	for i := 1; i < len(series); i++ {
		assert.True(t, series[i].GreaterThan(series[i-1]),
			"year %d must exceed year %d", i+1, i)
	}
}

func TestDiscountedTotals(t *testing.T) {
	e := New()
	annual := decimal.NewFromInt(1000)

	nominal, discounted := e.DiscountedTotals(annual, 3)
	gotNominal, _ := nominal.Float64()
	assert.InDelta(t, 3000.0, gotNominal, 0.001)
	assert.True(t, discounted.LessThan(nominal))
	assert.True(t, discounted.Equal(e.PresentValue(annual, 3)))
}

func TestEscalateAllKeysPreserved(t *testing.T) {
	e := New()
	components := map[string]api.CostComponent{
		"energy":     component(api.CostVariable, 100),
		"insurance":  component(api.CostFixed, 100),
		"decommiss.": component(api.CostOneTime, 100),
	}

	out := e.EscalateAll(components, 5)
	assert.Len(t, out, 3)
	assert.True(t, out["energy"].GreaterThan(out["insurance"]),
		"variable escalation outpaces fixed over 5 years")
	gotOne, _ := out["decommiss."].Float64()
	assert.InDelta(t, 100.0, gotOne, 0.001)
}
