package components

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-tco/internal/regional"
	"asset-tco/pkg/api"
)

func testAsset() *api.AssetRecord {
	return &api.AssetRecord{
		Name:                  "CF 8000",
		Category:              "Citrus",
		Subcategory:           "Self-cleaning Separator",
		Manufacturer:          "GEA",
		PurchasePrice:         decimal.NewFromInt(250000),
		AgeYears:              2,
		WarrantyYears:         1,
		ExpectedLifetimeYears: 15,
		Location:              "Düsseldorf",
		UsagePattern:          api.UsageExtended,
		Criticality:           api.CriticalityHigh,
		TotalPowerKW:          44,
		WaterConsumptionLS:    0.5,
		WaterPerCycleL:        120,
		DriveType:             api.DriveIntegratedDirect,
		QualityLevel:          api.QualityPremium,
	}
}

func testLibrary() *Library {
	return NewLibrary(regional.DefaultTable(), DefaultRates())
}

func TestMaintenanceGrowsWithAge(t *testing.T) {
	lib := testLibrary()

	young := testAsset()
	young.AgeYears = 0
	old := testAsset()
	old.AgeYears = 10

	cy := lib.Maintenance(young)
	co := lib.Maintenance(old)

	assert.True(t, co.AnnualCost.GreaterThan(cy.AnnualCost),
		"maintenance at age 10 (%s) must exceed age 0 (%s)", co.AnnualCost, cy.AnnualCost)
	assert.Equal(t, api.CostVariable, cy.Class)
	assert.False(t, cy.RegionDependent)
}

func TestMaintenanceClassFromSubcategory(t *testing.T) {
	cases := map[string]string{
		"Self-cleaning Separator": ClassDiscStack,
		"Clarifier":               ClassDiscStack,
		"Decanter Centrifuge":     ClassDecanter,
		"Chamber Bowl":            ClassChamberBowl,
		"Unknown Type":            ClassDiscStack,
	}
	for sub, want := range cases {
		assert.Equal(t, want, maintenanceClass(sub), "subcategory %q", sub)
	}
}

func TestEnergyExactFormula(t *testing.T) {
	lib := testLibrary()
	asset := testAsset()

	c := lib.Energy(asset)

	// 44 kW * 3500 h * 0.85 load * 0.95 premium efficiency * 0.28 EUR/kWh
	want := 44.0 * 3500 * 0.85 * 0.95 * 0.28
	got, _ := c.AnnualCost.Float64()
	assert.InDelta(t, want, got, 0.01)
	assert.Equal(t, 0.90, c.Confidence)
	assert.True(t, c.RegionDependent)
}

func TestLiveEnergyUsesQuoteAndSeasonal(t *testing.T) {
	lib := testLibrary()
	asset := testAsset() // Citrus is seasonal

	quote := api.EnergyPriceQuote{
		PricePerKWh: 0.31,
		Source:      "energy-charts (live)",
		IsLive:      true,
		RetrievedAt: time.Now(),
	}
	c := lib.LiveEnergy(asset, quote)

	want := 44.0 * 3500 * 0.85 * 0.95 * 0.31 * 1.2
	got, _ := c.AnnualCost.Float64()
	assert.InDelta(t, want, got, 0.01)
	assert.Equal(t, 0.95, c.Confidence)
	assert.Equal(t, 1.2, c.Factors["seasonal_multiplier"])

	quote.IsLive = false
	c = lib.LiveEnergy(asset, quote)
	assert.Equal(t, 0.85, c.Confidence)
}

func TestLiveEnergyNoSeasonalForIndustrial(t *testing.T) {
	lib := testLibrary()
	asset := testAsset()
	asset.Category = "Industrial"

	c := lib.LiveEnergy(asset, api.EnergyPriceQuote{PricePerKWh: 0.30, IsLive: true})
	_, hasSeasonal := c.Factors["seasonal_multiplier"]
	assert.False(t, hasSeasonal)
}

func TestWaterExactFormula(t *testing.T) {
	lib := testLibrary()
	asset := testAsset()

	c := lib.Water(asset)

	// (0.5 draw + 4 cycles * 120 L) * 1.5 CIP * 3500 h * 0.0025 EUR/L
	want := (0.5 + 4*120.0) * 1.5 * 3500 * 0.0025
	got, _ := c.AnnualCost.Float64()
	assert.InDelta(t, want, got, 0.01)
}

func TestWaterHygienicSurcharge(t *testing.T) {
	lib := testLibrary()

	hygienic := testAsset() // Citrus
	plain := testAsset()
	plain.Category = "Mining"

	ch := lib.Water(hygienic)
	cp := lib.Water(plain)

	assert.True(t, ch.AnnualCost.GreaterThan(cp.AnnualCost),
		"hygienic CIP water (%s) must exceed plain (%s)", ch.AnnualCost, cp.AnnualCost)
	assert.Equal(t, cipWaterFactor, ch.Factors["cip_factor"])
	assert.Equal(t, 1.0, cp.Factors["cip_factor"])
}

func TestCleaningZeroForNonHygienic(t *testing.T) {
	lib := testLibrary()
	asset := testAsset()
	asset.Category = "Marine"

	c := lib.Cleaning(asset)
	assert.True(t, c.AnnualCost.IsZero())
	assert.Equal(t, 1.0, c.Confidence)
}

func TestCleaningRatesByCategory(t *testing.T) {
	lib := testLibrary()

	dairy := testAsset()
	dairy.Category = "Dairy"
	wine := testAsset()
	wine.Category = "Wine"

	cd := lib.Cleaning(dairy)
	cw := lib.Cleaning(wine)

	require.False(t, cd.AnnualCost.IsZero())
	require.False(t, cw.AnnualCost.IsZero())
	assert.True(t, cd.AnnualCost.GreaterThan(cw.AnnualCost),
		"dairy cleaning rate exceeds wine")
}

func TestMonitoringCriticalitySteps(t *testing.T) {
	lib := testLibrary()

	asset := testAsset()
	asset.PurchasePrice = decimal.NewFromInt(150000) // below the size surcharge

	asset.Criticality = api.CriticalityLow
	low := lib.Monitoring(asset)
	assert.True(t, low.AnnualCost.IsZero(), "low criticality has no monitoring")

	asset.Criticality = api.CriticalityCritical
	crit := lib.Monitoring(asset)
	// 5000 base + 30% software share
	got, _ := crit.AnnualCost.Float64()
	assert.InDelta(t, 6500.0, got, 0.01)
	assert.Equal(t, api.CostFixed, crit.Class)
}

func TestMonitoringLargeAssetSurcharge(t *testing.T) {
	lib := testLibrary()
	asset := testAsset()
	asset.PurchasePrice = decimal.NewFromInt(300000)

	// Software share applies to base plus surcharge.
	cases := map[api.Criticality]float64{
		api.CriticalityMedium: (1000 + 1500) * 1.3,
		api.CriticalityHigh:   (2500 + 1500) * 1.3,
		api.CriticalityLow:    1500 * 1.3,
	}
	for crit, want := range cases {
		asset.Criticality = crit
		c := lib.Monitoring(asset)
		got, _ := c.AnnualCost.Float64()
		assert.InDelta(t, want, got, 0.01, "criticality %s", crit)
	}
}

func TestInsuranceFormula(t *testing.T) {
	lib := testLibrary()
	asset := testAsset()

	c := lib.Insurance(asset)
	// 250000 * 0.008 * 1.3 high * 1.2 hygienic risk * 1.0 Düsseldorf
	got, _ := c.AnnualCost.Float64()
	assert.InDelta(t, 250000*0.008*1.3*1.2, got, 0.01)
	assert.Equal(t, 0.90, c.Confidence)
}

func TestSparePartsBrandPremium(t *testing.T) {
	lib := testLibrary()

	branded := testAsset() // GEA
	generic := testAsset()
	generic.Manufacturer = "Acme"

	cb := lib.SpareParts(branded)
	cg := lib.SpareParts(generic)

	ratio := cb.AnnualCost.Div(cg.AnnualCost)
	got, _ := ratio.Float64()
	assert.InDelta(t, brandPartsFactor, got, 0.001)
}

func TestUnknownEnumsResolveNeutralAndFlag(t *testing.T) {
	lib := testLibrary()
	asset := testAsset()
	asset.DriveType = "hydraulic"
	asset.QualityLevel = "mil-spec"
	asset.UsagePattern = "sometimes"
	asset.Criticality = "extreme"
	asset.Location = "Atlantis"

	m := lib.Maintenance(asset)
	assert.Equal(t, true, m.Factors["drive_type_defaulted"])
	assert.Equal(t, true, m.Factors["quality_level_defaulted"])
	assert.Equal(t, driveComplexity[api.DriveBelt].maintenance, m.Factors["drive_complexity"])

	e := lib.Energy(asset)
	assert.Equal(t, true, e.Factors["usage_pattern_defaulted"])
	assert.Equal(t, true, e.Factors["location_defaulted"])
	assert.Equal(t, annualOperatingHours[api.UsageStandard], e.Factors["operating_hours"])

	p := lib.Personnel(asset)
	assert.Equal(t, true, p.Factors["criticality_defaulted"])
	assert.False(t, p.AnnualCost.IsNegative())
}

func TestComplianceSizeFactor(t *testing.T) {
	lib := testLibrary()

	small := testAsset()
	small.PurchasePrice = decimal.NewFromInt(50000)
	large := testAsset()
	large.PurchasePrice = decimal.NewFromInt(500000)

	cs := lib.Compliance(small)
	cl := lib.Compliance(large)
	assert.True(t, cl.AnnualCost.GreaterThan(cs.AnnualCost))
	assert.False(t, cl.EquipmentDependent)
}

func TestAllCostsNonNegative(t *testing.T) {
	lib := testLibrary()
	asset := testAsset()
	asset.TotalPowerKW = 0
	asset.WaterConsumptionLS = 0
	asset.WaterPerCycleL = 0

	for name, c := range map[string]api.CostComponent{
		"maintenance": lib.Maintenance(asset),
		"energy":      lib.Energy(asset),
		"water":       lib.Water(asset),
		"personnel":   lib.Personnel(asset),
		"spare_parts": lib.SpareParts(asset),
		"cleaning":    lib.Cleaning(asset),
		"monitoring":  lib.Monitoring(asset),
		"compliance":  lib.Compliance(asset),
		"insurance":   lib.Insurance(asset),
	} {
		assert.False(t, c.AnnualCost.IsNegative(), "component %s", name)
		assert.NotEmpty(t, c.Method, "component %s", name)
	}
}
