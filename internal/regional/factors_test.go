package regional

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownLocation(t *testing.T) {
	table := DefaultTable()

	f, known := table.Lookup("Düsseldorf")
	assert.True(t, known)
	assert.Equal(t, 0.28, f.ElectricityPriceKWh)
	assert.Equal(t, 48.0, f.LaborRateHour)
}

func TestLookupUnknownFallsBackToDefault(t *testing.T) {
	table := DefaultTable()

	got, known := table.Lookup("Atlantis")
	assert.False(t, known)

	want, _ := table.Lookup(DefaultLocation)
	assert.Equal(t, want, got)
	assert.Equal(t, 0.25, got.ElectricityPriceKWh)
}

func TestLocationsSortedAndComplete(t *testing.T) {
	table := DefaultTable()
	locations := table.Locations()

	assert.Len(t, locations, 13)
	assert.Contains(t, locations, DefaultLocation)
	for i := 1; i < len(locations); i++ {
		assert.LessOrEqual(t, locations[i-1], locations[i])
	}
}

func TestAllFactorsPositive(t *testing.T) {
	table := DefaultTable()
	for _, loc := range table.Locations() {
		f, _ := table.Lookup(loc)
		assert.Greater(t, f.ElectricityPriceKWh, 0.0, loc)
		assert.Greater(t, f.WaterPriceLiter, 0.0, loc)
		assert.Greater(t, f.LaborRateHour, 0.0, loc)
		assert.Greater(t, f.ComplianceFactor, 0.0, loc)
		assert.Greater(t, f.InsuranceFactor, 0.0, loc)
	}
}

func TestLoadTableOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factors.json")
	payload := `{
		"Testhausen": {"electricity_price_kwh": 0.30, "water_price_liter": 0.003, "labor_rate_hour": 55, "compliance_factor": 1.1, "insurance_factor": 1.0},
		"Andere": {"electricity_price_kwh": 0.20, "water_price_liter": 0.002, "labor_rate_hour": 40, "compliance_factor": 1.0, "insurance_factor": 1.0}
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)

	f, known := table.Lookup("Testhausen")
	assert.True(t, known)
	assert.Equal(t, 0.30, f.ElectricityPriceKWh)

	f, known = table.Lookup("Düsseldorf")
	assert.False(t, known, "override replaces the built-in table entirely")
	assert.Equal(t, 0.20, f.ElectricityPriceKWh)
}

func TestLoadTableRequiresDefaultBucket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factors.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"X": {"electricity_price_kwh": 0.1}}`), 0o644))

	_, err := LoadTable(path)
	assert.Error(t, err)
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable("/nonexistent/factors.json")
	assert.Error(t, err)
}
