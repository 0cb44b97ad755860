package components

import (
	"math"
	"strings"

	"asset-tco/pkg/api"
)

// Fixed factor tables for the cost formulas. Unknown keys resolve to the
// neutral/standard bucket; resolvers report whether a default was
// substituted so component factor maps can record it.

var annualOperatingHours = map[api.UsagePattern]float64{
	api.UsageOccasional: 1000,
	api.UsageStandard:   2000,
	api.UsageExtended:   3500,
	api.UsageContinuous: 8000, // net of maintenance and outage downtime
}

var loadFactors = map[api.UsagePattern]float64{
	api.UsageOccasional: 0.60,
	api.UsageStandard:   0.75,
	api.UsageExtended:   0.85,
	api.UsageContinuous: 0.80, // variable throughput averages below peak
}

var usageIntensityFactors = map[api.UsagePattern]float64{
	api.UsageOccasional: 0.6,
	api.UsageStandard:   1.0,
	api.UsageExtended:   1.4,
	api.UsageContinuous: 2.0,
}

var cleaningUsageFactors = map[api.UsagePattern]float64{
	api.UsageOccasional: 0.7,
	api.UsageStandard:   1.0,
	api.UsageExtended:   1.3,
	api.UsageContinuous: 1.6,
}

// driveFactors holds maintenance and personnel complexity per drive type.
type driveFactors struct {
	maintenance float64
	personnel   float64
}

var driveComplexity = map[api.DriveType]driveFactors{
	api.DriveIntegratedDirect: {maintenance: 0.85, personnel: 0.7},
	api.DriveBelt:             {maintenance: 1.0, personnel: 1.0},
	api.DriveGear:             {maintenance: 1.15, personnel: 1.3},
}

// qualityFactors holds the quality-tier multipliers.
type qualityFactors struct {
	maintenance    float64
	personnelShare float64
	efficiency     float64
	spareParts     float64
}

var qualityTiers = map[api.QualityLevel]qualityFactors{
	api.QualityPremium:  {maintenance: 1.2, personnelShare: 0.6, efficiency: 0.95, spareParts: 1.3},
	api.QualityStandard: {maintenance: 1.0, personnelShare: 1.0, efficiency: 1.0, spareParts: 1.0},
}

var criticalityFactors = map[api.Criticality]float64{
	api.CriticalityLow:      0.8,
	api.CriticalityMedium:   1.0,
	api.CriticalityHigh:     1.3,
	api.CriticalityCritical: 1.6,
}

// cyclesPerHour is the discharge/ejection frequency per application.
var cyclesPerHour = map[string]float64{
	"citrus": 4,
	"wine":   2,
	"dairy":  6,
}

const defaultCyclesPerHour = 3

// Hygiene-related constants.
const (
	cipWaterFactor    = 1.5
	hygienePersonnel  = 1.4
	hygieneRiskFactor = 1.2
	baseOperatorHours = 400
)

// premiumBrands carry a spare-parts price premium.
var premiumBrands = map[string]bool{
	"GEA":        true,
	"Alfa Laval": true,
}

const brandPartsFactor = 1.2

// seasonalCategories are food applications with seasonal campaigns.
var seasonalCategories = map[string]bool{
	"citrus": true,
	"wine":   true,
}

func isHygienic(category string) bool {
	switch strings.ToLower(category) {
	case "citrus", "wine", "dairy":
		return true
	}
	return false
}

func isSeasonal(category string) bool {
	return seasonalCategories[strings.ToLower(category)]
}

// ageWearFactor models non-linear wear acceleration with age.
func ageWearFactor(ageYears float64) float64 {
	return 1.0 + 0.08*ageYears + 0.015*math.Pow(ageYears, 1.3)
}

func resolveHours(p api.UsagePattern) (float64, bool) {
	if h, ok := annualOperatingHours[p]; ok {
		return h, true
	}
	return annualOperatingHours[api.UsageStandard], false
}

func resolveLoadFactor(p api.UsagePattern) (float64, bool) {
	if f, ok := loadFactors[p]; ok {
		return f, true
	}
	return loadFactors[api.UsageStandard], false
}

func resolveUsageIntensity(p api.UsagePattern) (float64, bool) {
	if f, ok := usageIntensityFactors[p]; ok {
		return f, true
	}
	return usageIntensityFactors[api.UsageStandard], false
}

func resolveCleaningUsage(p api.UsagePattern) (float64, bool) {
	if f, ok := cleaningUsageFactors[p]; ok {
		return f, true
	}
	return cleaningUsageFactors[api.UsageStandard], false
}

func resolveDrive(d api.DriveType) (driveFactors, bool) {
	if f, ok := driveComplexity[d]; ok {
		return f, true
	}
	return driveComplexity[api.DriveBelt], false
}

func resolveQuality(q api.QualityLevel) (qualityFactors, bool) {
	if f, ok := qualityTiers[q]; ok {
		return f, true
	}
	return qualityTiers[api.QualityStandard], false
}

func resolveCriticality(c api.Criticality) (float64, bool) {
	if f, ok := criticalityFactors[c]; ok {
		return f, true
	}
	return criticalityFactors[api.CriticalityMedium], false
}

func resolveCycles(category string) (float64, bool) {
	if c, ok := cyclesPerHour[strings.ToLower(category)]; ok {
		return c, true
	}
	return defaultCyclesPerHour, false
}
