package api

// HistoricalAsset is one row of the historical-asset training dataset:
// an asset whose actual annual maintenance cost is known. The maintenance
// cost is the regression label; everything else is a feature.
type HistoricalAsset struct {
	Name                  string  `json:"asset_name"`
	Category              string  `json:"category"`
	Subcategory           string  `json:"subcategory"`
	Manufacturer          string  `json:"manufacturer"`
	Model                 string  `json:"model,omitempty"`
	PurchasePrice         float64 `json:"purchase_price"`
	AnnualMaintenanceCost float64 `json:"annual_maintenance_cost"`
	AgeYears              float64 `json:"age_years"`
	WarrantyYears         float64 `json:"warranty_years"`
	ExpectedLifetime      float64 `json:"expected_lifetime"`
	Location              string  `json:"location"`
	UsagePattern          string  `json:"usage_pattern"`
	Criticality           string  `json:"criticality"`
}
