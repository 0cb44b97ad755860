package ml

import (
	"io"
	"log/slog"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-tco/pkg/api"
	apperrors "asset-tco/pkg/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	categories    = []string{"Citrus", "Wine", "Dairy", "Industrial"}
	manufacturers = []string{"GEA", "Alfa Laval", "Flottweg"}
	locations     = []string{"Düsseldorf", "Oelde", "Shanghai", "Chicago"}
	usages        = []string{"occasional", "standard", "extended", "continuous"}
	criticalities = []string{"low", "medium", "high", "critical"}
)

// syntheticRecords builds a dataset with a strong linear structure so a
// tree ensemble can recover it: maintenance grows with price, age and
// usage intensity plus bounded noise.
func syntheticRecords(n int, seed int64) []api.HistoricalAsset {
	rng := rand.New(rand.NewSource(seed))
	usageWeight := map[string]float64{
		"occasional": 0.6, "standard": 1.0, "extended": 1.4, "continuous": 2.0,
	}

	records := make([]api.HistoricalAsset, 0, n)
	for i := 0; i < n; i++ {
		price := 50000 + rng.Float64()*450000
		age := rng.Float64() * 12
		usage := usages[rng.Intn(len(usages))]

		maint := price*0.10*usageWeight[usage]*(1+0.08*age) + rng.NormFloat64()*500

		records = append(records, api.HistoricalAsset{
			Name:                  "HA",
			Category:              categories[rng.Intn(len(categories))],
			Subcategory:           "Separator",
			Manufacturer:          manufacturers[rng.Intn(len(manufacturers))],
			PurchasePrice:         price,
			AnnualMaintenanceCost: maint,
			AgeYears:              age,
			WarrantyYears:         float64(rng.Intn(4)),
			ExpectedLifetime:      15,
			Location:              locations[rng.Intn(len(locations))],
			UsagePattern:          usage,
			Criticality:           criticalities[rng.Intn(len(criticalities))],
		})
	}
	return records
}

func fastConfig() TrainingConfig {
	cfg := DefaultTrainingConfig()
	cfg.Trees = 25
	cfg.MaxDepth = 10
	return cfg
}

func predictionAsset() *api.AssetRecord {
	return &api.AssetRecord{
		Name:                  "CF 3000",
		Category:              "Dairy",
		Subcategory:           "Separator",
		Manufacturer:          "GEA",
		PurchasePrice:         decimal.NewFromInt(200000),
		AgeYears:              4,
		WarrantyYears:         1,
		ExpectedLifetimeYears: 15,
		Location:              "Oelde",
		UsagePattern:          api.UsageExtended,
		Criticality:           api.CriticalityHigh,
	}
}

func TestPredictBeforeTrainReturnsNotTrained(t *testing.T) {
	p := NewPredictor(fastConfig(), discardLogger())

	_, err := p.Predict(predictionAsset())
	assert.ErrorIs(t, err, apperrors.ErrNotTrained)
	assert.False(t, p.IsTrained())
	assert.Nil(t, p.Report())
}

func TestTrainRejectsTinyDataset(t *testing.T) {
	p := NewPredictor(fastConfig(), discardLogger())

	_, err := p.Train(syntheticRecords(5, 1))
	require.Error(t, err)
	var engErr *apperrors.EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, apperrors.ErrCodeBadDataset, engErr.Code)
}

func TestTrainLearnsLinearStructure(t *testing.T) {
	p := NewPredictor(fastConfig(), discardLogger())

	report, err := p.Train(syntheticRecords(500, 7))
	require.NoError(t, err)
	require.True(t, p.IsTrained())

	assert.Greater(t, report.TestR2, 0.8, "ensemble must capture the generating structure")
	assert.Equal(t, 500, report.SamplesTotal)
	assert.LessOrEqual(t, report.SamplesUsed, 500)

	// Price and age dominate the synthetic target, so together they must
	// carry meaningful importance.
	combined := report.Importances["purchase_price"] +
		report.Importances["price_per_age"] +
		report.Importances["age_years"] +
		report.Importances["usage_pattern"]
	assert.Greater(t, combined, 0.5)
}

func TestPredictPlausibleValue(t *testing.T) {
	p := NewPredictor(fastConfig(), discardLogger())
	_, err := p.Train(syntheticRecords(500, 7))
	require.NoError(t, err)

	pred, err := p.Predict(predictionAsset())
	require.NoError(t, err)

	got, _ := pred.AnnualCost.Float64()
	// Generating formula: 200000 * 0.10 * 1.4 * (1 + 0.08*4) = 36960.
	assert.InDelta(t, 36960, got, 12000)
	assert.True(t, pred.RangeMin.LessThan(pred.AnnualCost))
	assert.True(t, pred.RangeMax.GreaterThan(pred.AnnualCost))
	assert.GreaterOrEqual(t, pred.Confidence, 0.5)
	assert.LessOrEqual(t, pred.Confidence, 1.0)
	assert.Equal(t, ModelType, pred.ModelType)
}

func TestPredictUnknownCategoriesDoNotPanic(t *testing.T) {
	p := NewPredictor(fastConfig(), discardLogger())
	_, err := p.Train(syntheticRecords(200, 3))
	require.NoError(t, err)

	asset := predictionAsset()
	asset.Category = "Mining"
	asset.Manufacturer = "Unknown Corp"
	asset.Location = "Atlantis"
	asset.UsagePattern = "sometimes"

	pred, err := p.Predict(asset)
	require.NoError(t, err)
	assert.False(t, pred.AnnualCost.IsNegative())
}

func TestOutlierRemoval(t *testing.T) {
	records := syntheticRecords(100, 11)
	// One record with an absurd maintenance-to-price ratio.
	records = append(records, api.HistoricalAsset{
		Category: "Dairy", Subcategory: "Separator", Manufacturer: "GEA",
		PurchasePrice: 100000, AnnualMaintenanceCost: 5_000_000,
		AgeYears: 2, ExpectedLifetime: 15,
		Location: "Oelde", UsagePattern: "standard", Criticality: "medium",
	})

	clean, removed := removeOutliers(records, 3)
	assert.Equal(t, 1, removed)
	assert.Len(t, clean, 100)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")

	p := NewPredictor(fastConfig(), discardLogger())
	_, err := p.Train(syntheticRecords(200, 5))
	require.NoError(t, err)

	want, err := p.Predict(predictionAsset())
	require.NoError(t, err)
	require.NoError(t, p.Save(path))

	restored := NewPredictor(fastConfig(), discardLogger())
	require.NoError(t, restored.Load(path))
	require.True(t, restored.IsTrained())

	got, err := restored.Predict(predictionAsset())
	require.NoError(t, err)
	assert.True(t, got.AnnualCost.Equal(want.AnnualCost))
	assert.Equal(t, want.Confidence, got.Confidence)
}

func TestSaveUntrainedFails(t *testing.T) {
	p := NewPredictor(fastConfig(), discardLogger())
	err := p.Save(filepath.Join(t.TempDir(), "model.json"))
	assert.ErrorIs(t, err, apperrors.ErrNotTrained)
}

func TestSimilarAssets(t *testing.T) {
	p := NewPredictor(fastConfig(), discardLogger())
	records := syntheticRecords(200, 9)
	_, err := p.Train(records)
	require.NoError(t, err)

	asset := predictionAsset() // Separator subcategory, 200k
	similar, err := p.SimilarAssets(asset, 5)
	require.NoError(t, err)
	require.Len(t, similar, 5)

	// Nearest-by-price within the shared subcategory: sorted by distance
	// to the 200k target.
	prev := 0.0
	for _, s := range similar {
		assert.Equal(t, "Separator", s.Subcategory)
		dist := s.PurchasePrice - 200000
		if dist < 0 {
			dist = -dist
		}
		assert.GreaterOrEqual(t, dist, prev)
		prev = dist
	}

	_, err = NewPredictor(fastConfig(), discardLogger()).SimilarAssets(predictionAsset(), 5)
	assert.ErrorIs(t, err, apperrors.ErrNotTrained)
}

func TestLabelEncoderUnknownIsZero(t *testing.T) {
	e := FitLabelEncoder([]string{"b", "a", "b", "c"})
	assert.Equal(t, 1.0, e.Encode("a"))
	assert.Equal(t, 2.0, e.Encode("b"))
	assert.Equal(t, 3.0, e.Encode("c"))
	assert.Equal(t, 0.0, e.Encode("never seen"))
}

func TestScalerRoundTrip(t *testing.T) {
	rows := [][]float64{{1, 100}, {2, 200}, {3, 300}}
	s := FitScaler(rows)

	out := s.Transform([]float64{2, 200})
	assert.InDelta(t, 0, out[0], 1e-9)
	assert.InDelta(t, 0, out[1], 1e-9)
}

func TestForestSubsampleBoundsSpreadOnly(t *testing.T) {
	leaf := func(v float64) *regressionTree {
		return &regressionTree{Root: &node{Leaf: true, Value: v}}
	}
	f := &forest{Trees: []*regressionTree{leaf(100), leaf(200), leaf(300), leaf(400)}}

	fullMean, fullStd := f.predict(nil, 0)
	subMean, subStd := f.predict(nil, 2)

	// The point estimate always averages the whole ensemble.
	assert.InDelta(t, 250, fullMean, 1e-9)
	assert.InDelta(t, 250, subMean, 1e-9)
	assert.NotEqual(t, fullStd, subStd)
}

func TestAgeBuckets(t *testing.T) {
	assert.Equal(t, 0.0, ageBucket(0.5))
	assert.Equal(t, 0.0, ageBucket(1))
	assert.Equal(t, 1.0, ageBucket(2.5))
	assert.Equal(t, 2.0, ageBucket(7))
}
