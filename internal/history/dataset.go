package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"asset-tco/pkg/api"
	apperrors "asset-tco/pkg/errors"
)

// Columns the training CSV must carry. Extra columns are ignored; order
// does not matter because the header is mapped by name.
var requiredColumns = []string{
	"purchase_price",
	"annual_maintenance_cost",
	"age_years",
	"category",
}

// LoadTrainingCSV reads a historical-asset dataset from a CSV file.
func LoadTrainingCSV(path string) ([]api.HistoricalAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open training dataset: %w", err)
	}
	defer f.Close()
	return ReadTrainingDataset(f)
}

// ReadTrainingDataset parses historical-asset records from CSV. Rows with
// unparseable numeric fields are skipped rather than failing the load.
func ReadTrainingDataset(r io.Reader) ([]api.HistoricalAsset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewBadDatasetError("dataset has no header row")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, apperrors.NewBadDatasetError(
				fmt.Sprintf("dataset is missing required column %q", col))
		}
	}

	str := func(row []string, col string) string {
		if i, ok := index[col]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	num := func(row []string, col string) (float64, bool) {
		s := str(row, col)
		if s == "" {
			return 0, true
		}
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	}

	var records []api.HistoricalAsset
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}

		price, ok1 := num(row, "purchase_price")
		maint, ok2 := num(row, "annual_maintenance_cost")
		age, ok3 := num(row, "age_years")
		warranty, ok4 := num(row, "warranty_years")
		lifetime, ok5 := num(row, "expected_lifetime")
		if !(ok1 && ok2 && ok3 && ok4 && ok5) {
			continue
		}

		records = append(records, api.HistoricalAsset{
			Name:                  str(row, "asset_name"),
			Category:              str(row, "category"),
			Subcategory:           str(row, "subcategory"),
			Manufacturer:          str(row, "manufacturer"),
			Model:                 str(row, "model"),
			PurchasePrice:         price,
			AnnualMaintenanceCost: maint,
			AgeYears:              age,
			WarrantyYears:         warranty,
			ExpectedLifetime:      lifetime,
			Location:              str(row, "location"),
			UsagePattern:          str(row, "usage_pattern"),
			Criticality:           str(row, "criticality"),
		})
	}

	if len(records) == 0 {
		return nil, apperrors.NewBadDatasetError("dataset contains no usable rows")
	}
	return records, nil
}
