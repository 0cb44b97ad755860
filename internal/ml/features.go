package ml

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"asset-tco/pkg/api"
)

// Feature vector layout: four numeric base features, six label-encoded
// categoricals, three derived features. Order is part of the persisted
// model contract.
const (
	idxPrice = iota
	idxAge
	idxWarranty
	idxLifetime
	idxCategory
	idxSubcategory
	idxManufacturer
	idxLocation
	idxUsage
	idxCriticality
	idxPricePerAge
	idxAgeBucket
	idxWarrantyActive
	numFeatures
)

var featureNames = [numFeatures]string{
	"purchase_price",
	"age_years",
	"warranty_years",
	"expected_lifetime_years",
	"category",
	"subcategory",
	"manufacturer",
	"location",
	"usage_pattern",
	"criticality",
	"price_per_age",
	"age_bucket",
	"warranty_active",
}

// LabelEncoder maps categorical strings to dense integer codes. Code 0 is
// reserved for values unseen during fitting, so prediction never fails on
// a new category.
type LabelEncoder struct {
	Codes map[string]int `json:"codes"`
}

// FitLabelEncoder assigns codes 1..n to the distinct values, sorted for
// reproducibility.
func FitLabelEncoder(values []string) LabelEncoder {
	distinct := make(map[string]bool, len(values))
	for _, v := range values {
		distinct[v] = true
	}
	ordered := make([]string, 0, len(distinct))
	for v := range distinct {
		ordered = append(ordered, v)
	}
	sort.Strings(ordered)

	codes := make(map[string]int, len(ordered))
	for i, v := range ordered {
		codes[v] = i + 1
	}
	return LabelEncoder{Codes: codes}
}

// Encode returns the code for a value, 0 when unseen.
func (e LabelEncoder) Encode(value string) float64 {
	return float64(e.Codes[value])
}

// Scaler standardizes features to zero mean and unit variance.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitScaler computes per-column mean and standard deviation. Constant
// columns scale by 1 so transformation is a no-op for them.
func FitScaler(rows [][]float64) Scaler {
	if len(rows) == 0 {
		return Scaler{}
	}
	n := len(rows[0])
	mean := make([]float64, n)
	scale := make([]float64, n)

	column := make([]float64, len(rows))
	for j := 0; j < n; j++ {
		for i, row := range rows {
			column[i] = row[j]
		}
		mean[j] = stat.Mean(column, nil)
		std := stat.StdDev(column, nil)
		if std > 0 && !math.IsNaN(std) {
			scale[j] = std
		} else {
			scale[j] = 1
		}
	}
	return Scaler{Mean: mean, Scale: scale}
}

// Transform returns the standardized copy of a row.
func (s Scaler) Transform(row []float64) []float64 {
	if len(s.Mean) != len(row) {
		out := make([]float64, len(row))
		copy(out, row)
		return out
	}
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

// Encoders bundles the fitted categorical encoders, in feature order.
type Encoders struct {
	Category     LabelEncoder `json:"category"`
	Subcategory  LabelEncoder `json:"subcategory"`
	Manufacturer LabelEncoder `json:"manufacturer"`
	Location     LabelEncoder `json:"location"`
	Usage        LabelEncoder `json:"usage_pattern"`
	Criticality  LabelEncoder `json:"criticality"`
}

// FitEncoders fits all categorical encoders over the training records.
func FitEncoders(records []api.HistoricalAsset) Encoders {
	col := func(pick func(api.HistoricalAsset) string) []string {
		out := make([]string, len(records))
		for i, r := range records {
			out[i] = pick(r)
		}
		return out
	}
	return Encoders{
		Category:     FitLabelEncoder(col(func(r api.HistoricalAsset) string { return r.Category })),
		Subcategory:  FitLabelEncoder(col(func(r api.HistoricalAsset) string { return r.Subcategory })),
		Manufacturer: FitLabelEncoder(col(func(r api.HistoricalAsset) string { return r.Manufacturer })),
		Location:     FitLabelEncoder(col(func(r api.HistoricalAsset) string { return r.Location })),
		Usage:        FitLabelEncoder(col(func(r api.HistoricalAsset) string { return r.UsagePattern })),
		Criticality:  FitLabelEncoder(col(func(r api.HistoricalAsset) string { return r.Criticality })),
	}
}

// ageBucket groups age into new (0), young (1) and mature (2).
func ageBucket(age float64) float64 {
	switch {
	case age <= 1:
		return 0
	case age <= 3:
		return 1
	default:
		return 2
	}
}

// FeaturesFromHistorical builds the raw (unscaled) feature vector for a
// training record.
func (e Encoders) FeaturesFromHistorical(r api.HistoricalAsset) []float64 {
	return e.features(
		r.PurchasePrice, r.AgeYears, r.WarrantyYears, r.ExpectedLifetime,
		r.Category, r.Subcategory, r.Manufacturer, r.Location,
		r.UsagePattern, r.Criticality,
	)
}

// FeaturesFromAsset builds the raw feature vector for a prediction input.
func (e Encoders) FeaturesFromAsset(a *api.AssetRecord) []float64 {
	price, _ := a.PurchasePrice.Float64()
	return e.features(
		price, a.AgeYears, a.WarrantyYears, a.ExpectedLifetimeYears,
		a.Category, a.Subcategory, a.Manufacturer, a.Location,
		string(a.UsagePattern), string(a.Criticality),
	)
}

func (e Encoders) features(price, age, warranty, lifetime float64,
	category, subcategory, manufacturer, location, usage, criticality string) []float64 {

	row := make([]float64, numFeatures)
	row[idxPrice] = price
	row[idxAge] = age
	row[idxWarranty] = warranty
	row[idxLifetime] = lifetime
	row[idxCategory] = e.Category.Encode(category)
	row[idxSubcategory] = e.Subcategory.Encode(subcategory)
	row[idxManufacturer] = e.Manufacturer.Encode(manufacturer)
	row[idxLocation] = e.Location.Encode(location)
	row[idxUsage] = e.Usage.Encode(usage)
	row[idxCriticality] = e.Criticality.Encode(criticality)
	row[idxPricePerAge] = price / (age + 1)
	row[idxAgeBucket] = ageBucket(age)
	if warranty > age {
		row[idxWarrantyActive] = 1
	}
	return row
}

// FeatureNames returns the layout names, in vector order.
func FeatureNames() []string {
	return featureNames[:]
}
