// Package regional provides the process-wide static table of per-location
// cost factors: electricity price, water price, labor rate, compliance and
// insurance multipliers. Loaded once at startup, read-only thereafter.
package regional

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// DefaultLocation is the neutral bucket unknown locations resolve to.
const DefaultLocation = "Andere"

// Factors holds the cost factors for one location.
type Factors struct {
	ElectricityPriceKWh float64 `json:"electricity_price_kwh"`
	WaterPriceLiter     float64 `json:"water_price_liter"`
	LaborRateHour       float64 `json:"labor_rate_hour"`
	ComplianceFactor    float64 `json:"compliance_factor"`
	InsuranceFactor     float64 `json:"insurance_factor"`
}

// Table is the read-only lookup of location factors.
type Table struct {
	locations map[string]Factors
}

// DefaultTable returns the built-in factor table for the known plant
// locations. Industrial tariffs, EUR based.
func DefaultTable() *Table {
	return &Table{locations: map[string]Factors{
		"Düsseldorf":    {0.28, 0.0025, 48, 1.2, 1.0},
		"Oelde":         {0.26, 0.0020, 42, 1.2, 1.0},
		"Berlin":        {0.27, 0.0028, 45, 1.2, 1.0},
		"Hamburg":       {0.28, 0.0024, 47, 1.2, 1.0},
		"München":       {0.29, 0.0030, 50, 1.2, 1.0},
		"Kopenhagen":    {0.32, 0.0035, 58, 1.3, 0.95},
		"Mailand":       {0.25, 0.0020, 38, 1.1, 1.1},
		"Lyon":          {0.24, 0.0022, 35, 1.1, 1.0},
		"Shanghai":      {0.08, 0.0008, 12, 0.8, 1.3},
		"Singapur":      {0.18, 0.0030, 25, 1.0, 1.0},
		"Chicago":       {0.12, 0.0015, 35, 0.9, 1.2},
		"São Paulo":     {0.15, 0.0010, 15, 0.7, 1.4},
		DefaultLocation: {0.25, 0.0020, 40, 1.0, 1.0},
	}}
}

// LoadTable reads a factor table from a JSON file mapping location name to
// Factors. The default bucket must be present.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read factor table: %w", err)
	}
	var locations map[string]Factors
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, fmt.Errorf("parse factor table: %w", err)
	}
	if _, ok := locations[DefaultLocation]; !ok {
		return nil, fmt.Errorf("factor table is missing the %q default bucket", DefaultLocation)
	}
	return &Table{locations: locations}, nil
}

// Lookup resolves the factors for a location. The second return reports
// whether the location was known; false means the default bucket was
// substituted, which callers record in component factor maps.
func (t *Table) Lookup(location string) (Factors, bool) {
	if f, ok := t.locations[location]; ok {
		return f, true
	}
	return t.locations[DefaultLocation], false
}

// Locations returns the known location keys, sorted.
func (t *Table) Locations() []string {
	keys := make([]string, 0, len(t.locations))
	for k := range t.locations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
