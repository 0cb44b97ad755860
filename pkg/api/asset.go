// Package api defines the shared contracts between the estimation engine,
// its collaborators, and downstream reporting/export consumers.
package api

import (
	"github.com/shopspring/decimal"

	apperrors "asset-tco/pkg/errors"
)

// UsagePattern describes how intensively an asset is run.
type UsagePattern string

const (
	UsageOccasional UsagePattern = "occasional"
	UsageStandard   UsagePattern = "standard"
	UsageExtended   UsagePattern = "extended"
	UsageContinuous UsagePattern = "continuous"
)

// Criticality describes how important the asset is to production.
type Criticality string

const (
	CriticalityLow      Criticality = "low"
	CriticalityMedium   Criticality = "medium"
	CriticalityHigh     Criticality = "high"
	CriticalityCritical Criticality = "critical"
)

// DriveType describes the mechanical drive of the machine.
type DriveType string

const (
	DriveIntegratedDirect DriveType = "integrated_direct"
	DriveBelt             DriveType = "belt"
	DriveGear             DriveType = "gear"
)

// QualityLevel describes the build tier of the machine.
type QualityLevel string

const (
	QualityStandard QualityLevel = "standard"
	QualityPremium  QualityLevel = "premium"
)

// AssetRecord is the input to the estimation engine: one industrial asset
// (centrifuge, pump, homogenizer) with the attributes the cost formulas
// consume. All fields are plain values; the engine never mutates a record.
type AssetRecord struct {
	// Identity
	Name         string `json:"name"`
	Category     string `json:"category"`
	Subcategory  string `json:"subcategory"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model,omitempty"`

	// Financial
	PurchasePrice decimal.Decimal `json:"purchase_price"`

	// Lifecycle
	AgeYears              float64 `json:"age_years"`
	WarrantyYears         float64 `json:"warranty_years"`
	ExpectedLifetimeYears float64 `json:"expected_lifetime_years"`

	// Operating context
	Location     string       `json:"location"`
	UsagePattern UsagePattern `json:"usage_pattern"`
	Criticality  Criticality  `json:"criticality"`

	// Equipment-specific
	TotalPowerKW       float64      `json:"total_power_consumption_kw"`
	WaterConsumptionLS float64      `json:"water_consumption_l_s"`
	WaterPerCycleL     float64      `json:"water_per_cycle_l"`
	DriveType          DriveType    `json:"drive_type"`
	QualityLevel       QualityLevel `json:"quality_level"`
}

// Validate rejects malformed records at the engine boundary. Unknown
// categorical values are NOT errors (they resolve via documented defaults
// downstream); only invariant violations are.
func (a *AssetRecord) Validate() error {
	if !a.PurchasePrice.IsPositive() {
		return apperrors.NewInvalidAssetError("purchase_price", "purchase price must be > 0")
	}
	if a.AgeYears < 0 {
		return apperrors.NewInvalidAssetError("age_years", "age must be >= 0")
	}
	if a.WarrantyYears < 0 {
		return apperrors.NewInvalidAssetError("warranty_years", "warranty must be >= 0")
	}
	if a.ExpectedLifetimeYears < 1 {
		return apperrors.NewInvalidAssetError("expected_lifetime_years", "expected lifetime must be >= 1")
	}
	if a.TotalPowerKW < 0 {
		return apperrors.NewInvalidAssetError("total_power_consumption_kw", "power consumption must be >= 0")
	}
	if a.WaterConsumptionLS < 0 {
		return apperrors.NewInvalidAssetError("water_consumption_l_s", "water consumption must be >= 0")
	}
	return nil
}
