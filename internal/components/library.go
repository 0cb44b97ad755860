// Package components implements the per-stream annual cost formulas. Each
// builder is a pure function of the asset record, the regional factor table
// and the rate configuration; builders never do I/O and never mutate the
// asset.
package components

import (
	"strings"

	"github.com/shopspring/decimal"

	"asset-tco/internal/regional"
	"asset-tco/pkg/api"
	"asset-tco/pkg/units"
)

// Component names double as map keys in estimation results.
const (
	NameMaintenance = "maintenance"
	NameEnergy      = "energy"
	NameWater       = "water"
	NamePersonnel   = "personnel"
	NameSpareParts  = "spare_parts"
	NameCleaning    = "cleaning"
	NameMonitoring  = "monitoring"
	NameCompliance  = "compliance"
	NameInsurance   = "insurance"
)

// Library builds the annual cost components for one asset.
type Library struct {
	table *regional.Table
	rates Rates
}

// NewLibrary wires a component library against a factor table and rate set.
func NewLibrary(table *regional.Table, rates Rates) *Library {
	return &Library{table: table, rates: rates}
}

// money rounds a computed float cost to a two-decimal currency amount.
// Negative intermediate results clamp to zero.
func money(cost float64) decimal.Decimal {
	if cost < 0 {
		cost = 0
	}
	return decimal.NewFromFloat(cost).Round(2)
}

// maintenanceClass maps the subcategory text to a machine class rate key.
func maintenanceClass(subcategory string) string {
	s := strings.ToLower(subcategory)
	switch {
	case strings.Contains(s, "decanter"):
		return ClassDecanter
	case strings.Contains(s, "chamber"):
		return ClassChamberBowl
	case strings.Contains(s, "separator"), strings.Contains(s, "clarif"):
		return ClassDiscStack
	}
	return ClassDiscStack
}

// Maintenance estimates annual preventive and corrective maintenance from
// purchase price, machine class, drive complexity, build quality and age
// wear.
func (l *Library) Maintenance(asset *api.AssetRecord) api.CostComponent {
	price, _ := asset.PurchasePrice.Float64()

	class := maintenanceClass(asset.Subcategory)
	baseRate := l.rates.BaseMaintenance[class]
	drive, driveKnown := resolveDrive(asset.DriveType)
	quality, qualityKnown := resolveQuality(asset.QualityLevel)
	wear := ageWearFactor(asset.AgeYears)

	cost := price * baseRate * drive.maintenance * quality.maintenance * wear

	factors := map[string]any{
		"machine_class":    class,
		"base_rate":        baseRate,
		"drive_complexity": drive.maintenance,
		"quality_factor":   quality.maintenance,
		"age_factor":       wear,
		"age_years":        asset.AgeYears,
	}
	if !driveKnown {
		factors["drive_type_defaulted"] = true
	}
	if !qualityKnown {
		factors["quality_level_defaulted"] = true
	}

	return api.CostComponent{
		Name:               NameMaintenance,
		AnnualCost:         money(cost),
		Class:              api.CostVariable,
		Confidence:         0.85,
		Method:             "price * base_rate * drive_complexity * quality * age_wear",
		Factors:            factors,
		RegionDependent:    false,
		EquipmentDependent: true,
	}
}

// Energy estimates annual electricity cost using the static regional tariff.
func (l *Library) Energy(asset *api.AssetRecord) api.CostComponent {
	region, regionKnown := l.table.Lookup(asset.Location)
	return l.energyAt(asset, region.ElectricityPriceKWh, regionKnown, nil)
}

// LiveEnergy estimates annual electricity cost using a market price quote
// instead of the static tariff. Seasonal campaign categories carry a peak
// multiplier on top of the quote.
func (l *Library) LiveEnergy(asset *api.AssetRecord, quote api.EnergyPriceQuote) api.CostComponent {
	return l.energyAt(asset, quote.PricePerKWh, true, &quote)
}

func (l *Library) energyAt(asset *api.AssetRecord, priceKWh float64, regionKnown bool, quote *api.EnergyPriceQuote) api.CostComponent {
	hours, hoursKnown := resolveHours(asset.UsagePattern)
	load, _ := resolveLoadFactor(asset.UsagePattern)
	quality, qualityKnown := resolveQuality(asset.QualityLevel)

	annualKWh := units.AnnualEnergyKWh(asset.TotalPowerKW, hours, load, quality.efficiency)
	cost := annualKWh * priceKWh

	factors := map[string]any{
		"power_kw":          asset.TotalPowerKW,
		"operating_hours":   hours,
		"load_factor":       load,
		"efficiency_factor": quality.efficiency,
		"annual_kwh":        annualKWh,
		"price_per_kwh":     priceKWh,
	}
	confidence := 0.90
	if quote != nil {
		factors["price_source"] = quote.Source
		factors["price_is_live"] = quote.IsLive
		if quote.IsLive {
			confidence = 0.95
		} else {
			confidence = 0.85
		}
		if isSeasonal(asset.Category) {
			cost *= l.rates.SeasonalMultiplier
			factors["seasonal_multiplier"] = l.rates.SeasonalMultiplier
		}
	}
	if !hoursKnown {
		factors["usage_pattern_defaulted"] = true
	}
	if !qualityKnown {
		factors["quality_level_defaulted"] = true
	}
	if !regionKnown {
		factors["location_defaulted"] = true
	}

	return api.CostComponent{
		Name:               NameEnergy,
		AnnualCost:         money(cost),
		Class:              api.CostVariable,
		Confidence:         confidence,
		Method:             "power * hours * load * efficiency * price_per_kwh",
		Factors:            factors,
		RegionDependent:    true,
		EquipmentDependent: true,
	}
}

// Water estimates annual process and cleaning water cost. Continuous draw
// plus discharge cycles, with a CIP surcharge for hygienic applications.
func (l *Library) Water(asset *api.AssetRecord) api.CostComponent {
	region, regionKnown := l.table.Lookup(asset.Location)
	hours, hoursKnown := resolveHours(asset.UsagePattern)
	cycles, cyclesKnown := resolveCycles(asset.Category)

	// Sustained draw plus per-cycle ejection water.
	litersPerHour := asset.WaterConsumptionLS + cycles*asset.WaterPerCycleL

	cip := 1.0
	hygienic := isHygienic(asset.Category)
	if hygienic {
		cip = cipWaterFactor
	}

	cost := litersPerHour * cip * hours * region.WaterPriceLiter

	factors := map[string]any{
		"liters_per_hour":   litersPerHour,
		"cycles_per_hour":   cycles,
		"cip_factor":        cip,
		"hygienic":          hygienic,
		"operating_hours":   hours,
		"water_price_liter": region.WaterPriceLiter,
	}
	if !hoursKnown {
		factors["usage_pattern_defaulted"] = true
	}
	if !cyclesKnown {
		factors["category_cycles_defaulted"] = true
	}
	if !regionKnown {
		factors["location_defaulted"] = true
	}

	return api.CostComponent{
		Name:               NameWater,
		AnnualCost:         money(cost),
		Class:              api.CostVariable,
		Confidence:         0.80,
		Method:             "(draw + cycles * per_cycle) * cip * hours * water_price",
		Factors:            factors,
		RegionDependent:    true,
		EquipmentDependent: true,
	}
}

// Personnel estimates annual operator and supervision labor cost.
func (l *Library) Personnel(asset *api.AssetRecord) api.CostComponent {
	region, regionKnown := l.table.Lookup(asset.Location)
	drive, driveKnown := resolveDrive(asset.DriveType)
	quality, qualityKnown := resolveQuality(asset.QualityLevel)
	crit, critKnown := resolveCriticality(asset.Criticality)

	hygiene := 1.0
	hygienic := isHygienic(asset.Category)
	if hygienic {
		hygiene = hygienePersonnel
	}

	hoursNeeded := baseOperatorHours * quality.personnelShare * drive.personnel * crit * hygiene
	cost := hoursNeeded * region.LaborRateHour

	factors := map[string]any{
		"base_hours":          float64(baseOperatorHours),
		"automation_share":    quality.personnelShare,
		"drive_factor":        drive.personnel,
		"criticality_factor":  crit,
		"hygiene_factor":      hygiene,
		"annual_labor_hours":  hoursNeeded,
		"labor_rate_per_hour": region.LaborRateHour,
	}
	if !driveKnown {
		factors["drive_type_defaulted"] = true
	}
	if !qualityKnown {
		factors["quality_level_defaulted"] = true
	}
	if !critKnown {
		factors["criticality_defaulted"] = true
	}
	if !regionKnown {
		factors["location_defaulted"] = true
	}

	return api.CostComponent{
		Name:               NamePersonnel,
		AnnualCost:         money(cost),
		Class:              api.CostVariable,
		Confidence:         0.75,
		Method:             "base_hours * automation * drive * criticality * hygiene * wage",
		Factors:            factors,
		RegionDependent:    true,
		EquipmentDependent: true,
	}
}

// SpareParts estimates the annual spare and wear part budget.
func (l *Library) SpareParts(asset *api.AssetRecord) api.CostComponent {
	price, _ := asset.PurchasePrice.Float64()
	quality, qualityKnown := resolveQuality(asset.QualityLevel)
	usage, usageKnown := resolveUsageIntensity(asset.UsagePattern)

	ageFactor := 1.0 + l.rates.SparePartsAgeRate*asset.AgeYears
	brand := 1.0
	if premiumBrands[asset.Manufacturer] {
		brand = brandPartsFactor
	}

	cost := price * l.rates.SparePartsRate * quality.spareParts * usage * ageFactor * brand

	factors := map[string]any{
		"base_rate":      l.rates.SparePartsRate,
		"quality_factor": quality.spareParts,
		"usage_factor":   usage,
		"age_factor":     ageFactor,
		"brand_factor":   brand,
	}
	if !qualityKnown {
		factors["quality_level_defaulted"] = true
	}
	if !usageKnown {
		factors["usage_pattern_defaulted"] = true
	}

	return api.CostComponent{
		Name:               NameSpareParts,
		AnnualCost:         money(cost),
		Class:              api.CostVariable,
		Confidence:         0.70,
		Method:             "price * parts_rate * quality * usage * age * brand",
		Factors:            factors,
		RegionDependent:    false,
		EquipmentDependent: true,
	}
}

// Cleaning estimates annual CIP/SIP chemical and validation cost. It is
// zero with full confidence for non-hygienic applications.
func (l *Library) Cleaning(asset *api.AssetRecord) api.CostComponent {
	category := strings.ToLower(asset.Category)
	rate, hygienic := l.rates.CleaningRates[category]
	if !hygienic {
		return api.CostComponent{
			Name:       NameCleaning,
			AnnualCost: decimal.Zero,
			Class:      api.CostVariable,
			Confidence: 1.0,
			Method:     "non-hygienic application, no CIP regime",
			Factors: map[string]any{
				"hygienic": false,
				"category": asset.Category,
			},
			RegionDependent:    false,
			EquipmentDependent: true,
		}
	}

	price, _ := asset.PurchasePrice.Float64()
	region, regionKnown := l.table.Lookup(asset.Location)
	usage, usageKnown := resolveCleaningUsage(asset.UsagePattern)

	cost := price * rate * usage * region.ComplianceFactor

	factors := map[string]any{
		"hygienic":          true,
		"cleaning_rate":     rate,
		"usage_factor":      usage,
		"compliance_factor": region.ComplianceFactor,
	}
	if !usageKnown {
		factors["usage_pattern_defaulted"] = true
	}
	if !regionKnown {
		factors["location_defaulted"] = true
	}

	return api.CostComponent{
		Name:               NameCleaning,
		AnnualCost:         money(cost),
		Class:              api.CostVariable,
		Confidence:         0.80,
		Method:             "price * cleaning_rate * usage * regional_compliance",
		Factors:            factors,
		RegionDependent:    true,
		EquipmentDependent: true,
	}
}

// Monitoring estimates annual condition monitoring and software cost.
func (l *Library) Monitoring(asset *api.AssetRecord) api.CostComponent {
	base, critKnown := l.rates.MonitoringByCriticality[asset.Criticality]
	if !critKnown {
		base = l.rates.MonitoringByCriticality[api.CriticalityMedium]
	}

	price, _ := asset.PurchasePrice.Float64()
	surcharge := 0.0
	if price > l.rates.MonitoringLargeThreshold {
		surcharge = l.rates.MonitoringLargeSurcharge
	}

	// Software licensing scales with the full hardware base, surcharge
	// included.
	hardware := base + surcharge
	software := 0.0
	if hardware > 0 {
		software = hardware * l.rates.MonitoringSoftwareShare
	}

	cost := hardware + software

	factors := map[string]any{
		"criticality_base": base,
		"size_surcharge":   surcharge,
		"software_license": software,
	}
	if !critKnown {
		factors["criticality_defaulted"] = true
	}

	return api.CostComponent{
		Name:               NameMonitoring,
		AnnualCost:         money(cost),
		Class:              api.CostFixed,
		Confidence:         0.85,
		Method:             "criticality_base + size_surcharge + software_share",
		Factors:            factors,
		RegionDependent:    false,
		EquipmentDependent: true,
	}
}

// Compliance estimates annual certification, audit and documentation cost.
func (l *Library) Compliance(asset *api.AssetRecord) api.CostComponent {
	region, regionKnown := l.table.Lookup(asset.Location)
	price, _ := asset.PurchasePrice.Float64()

	base := l.rates.ComplianceBase
	hygienic := isHygienic(asset.Category)
	if hygienic {
		base = l.rates.ComplianceHygienic
	}

	sizeFactor := 1.0 + l.rates.ComplianceSizeShare*price/l.rates.ComplianceSizeDivisor
	cost := base * region.ComplianceFactor * sizeFactor

	factors := map[string]any{
		"base_cost":         base,
		"hygienic":          hygienic,
		"compliance_factor": region.ComplianceFactor,
		"size_factor":       sizeFactor,
	}
	if !regionKnown {
		factors["location_defaulted"] = true
	}

	return api.CostComponent{
		Name:               NameCompliance,
		AnnualCost:         money(cost),
		Class:              api.CostFixed,
		Confidence:         0.75,
		Method:             "base * regional_compliance * size_factor",
		Factors:            factors,
		RegionDependent:    true,
		EquipmentDependent: false,
	}
}

// Insurance estimates the annual premium from asset value, criticality,
// application risk and regional market conditions.
func (l *Library) Insurance(asset *api.AssetRecord) api.CostComponent {
	region, regionKnown := l.table.Lookup(asset.Location)
	price, _ := asset.PurchasePrice.Float64()
	crit, critKnown := resolveCriticality(asset.Criticality)

	risk := 1.0
	hygienic := isHygienic(asset.Category)
	if hygienic {
		risk = hygieneRiskFactor
	}

	cost := price * l.rates.InsuranceRate * crit * risk * region.InsuranceFactor

	factors := map[string]any{
		"insurance_rate":     l.rates.InsuranceRate,
		"criticality_factor": crit,
		"category_risk":      risk,
		"regional_factor":    region.InsuranceFactor,
	}
	if !critKnown {
		factors["criticality_defaulted"] = true
	}
	if !regionKnown {
		factors["location_defaulted"] = true
	}

	return api.CostComponent{
		Name:               NameInsurance,
		AnnualCost:         money(cost),
		Class:              api.CostFixed,
		Confidence:         0.90,
		Method:             "price * rate * criticality * risk * regional_factor",
		Factors:            factors,
		RegionDependent:    true,
		EquipmentDependent: false,
	}
}
