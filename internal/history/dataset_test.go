package history

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "asset-tco/pkg/errors"
)

const sampleCSV = `asset_name,category,subcategory,manufacturer,purchase_price,annual_maintenance_cost,age_years,warranty_years,expected_lifetime,location,usage_pattern,criticality
CF 8000,Citrus,Separator,GEA,344261,41200,1,2,15,Düsseldorf,extended,high
WD 200,Wine,Decanter,Flottweg,180000,22100,4,1,12,Mailand,standard,medium
MK 50,Dairy,Separator,GEA,95000,14800,7,0,15,Oelde,continuous,critical
`

func TestReadTrainingDataset(t *testing.T) {
	records, err := ReadTrainingDataset(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "CF 8000", first.Name)
	assert.Equal(t, "Citrus", first.Category)
	assert.Equal(t, 344261.0, first.PurchasePrice)
	assert.Equal(t, 41200.0, first.AnnualMaintenanceCost)
	assert.Equal(t, 1.0, first.AgeYears)
	assert.Equal(t, "Düsseldorf", first.Location)
	assert.Equal(t, "extended", first.UsagePattern)
}

func TestReadTrainingDatasetHeaderCaseInsensitive(t *testing.T) {
	csvData := "Purchase_Price,Annual_Maintenance_Cost,Age_Years,Category\n100000,12000,3,Dairy\n"
	records, err := ReadTrainingDataset(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 100000.0, records[0].PurchasePrice)
}

func TestReadTrainingDatasetMissingColumn(t *testing.T) {
	csvData := "purchase_price,age_years,category\n100000,3,Dairy\n"
	_, err := ReadTrainingDataset(strings.NewReader(csvData))
	require.Error(t, err)

	var engErr *apperrors.EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, apperrors.ErrCodeBadDataset, engErr.Code)
	assert.Contains(t, err.Error(), "annual_maintenance_cost")
}

func TestReadTrainingDatasetSkipsBadRows(t *testing.T) {
	csvData := "purchase_price,annual_maintenance_cost,age_years,category\n" +
		"100000,12000,3,Dairy\n" +
		"not-a-number,9000,2,Wine\n" +
		"80000,9500,5,Citrus\n"
	records, err := ReadTrainingDataset(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestReadTrainingDatasetEmpty(t *testing.T) {
	_, err := ReadTrainingDataset(strings.NewReader(""))
	require.Error(t, err)

	csvData := "purchase_price,annual_maintenance_cost,age_years,category\n"
	_, err = ReadTrainingDataset(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable rows")
}
