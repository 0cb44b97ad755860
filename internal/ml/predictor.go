// Package ml implements the regression baseline for annual maintenance
// cost: a bagged ensemble of CART trees over historical asset records,
// with label-encoded categoricals and standardized numeric features.
package ml

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"asset-tco/pkg/api"
	"asset-tco/pkg/confidence"
	apperrors "asset-tco/pkg/errors"
)

// ModelType identifies the persisted model format.
const ModelType = "bagged_cart"

// modelFormatVersion guards persisted model compatibility.
const modelFormatVersion = 1

// TrainingConfig tunes the ensemble fit.
type TrainingConfig struct {
	Trees           int     `json:"trees"`
	MaxDepth        int     `json:"max_depth"`
	MinSamplesSplit int     `json:"min_samples_split"`
	MinSamplesLeaf  int     `json:"min_samples_leaf"`
	TestFraction    float64 `json:"test_fraction"`
	OutlierZScore   float64 `json:"outlier_z_score"`

	// ConfidenceSubsample bounds how many trees feed the per-prediction
	// spread estimate. Zero means the full ensemble.
	ConfidenceSubsample int `json:"confidence_subsample"`

	Seed int64 `json:"seed"`
}

// DefaultTrainingConfig returns the standard hyperparameters.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Trees:               100,
		MaxDepth:            15,
		MinSamplesSplit:     5,
		MinSamplesLeaf:      3,
		TestFraction:        0.2,
		OutlierZScore:       3,
		ConfidenceSubsample: 0,
		Seed:                42,
	}
}

// TrainingReport summarizes one training run.
type TrainingReport struct {
	SamplesTotal    int                `json:"samples_total"`
	SamplesUsed     int                `json:"samples_used"`
	OutliersRemoved int                `json:"outliers_removed"`
	TestR2          float64            `json:"test_r2"`
	TestMAE         float64            `json:"test_mae"`
	TestRMSE        float64            `json:"test_rmse"`
	Importances     map[string]float64 `json:"feature_importances"`
	TrainedAt       time.Time          `json:"trained_at"`
	Duration        time.Duration      `json:"duration"`
}

// model is the trained state, swapped atomically under the predictor lock.
type model struct {
	Version   int            `json:"format_version"`
	ModelType string         `json:"model_type"`
	Forest    *forest        `json:"forest"`
	Encoders  Encoders       `json:"encoders"`
	Scaler    Scaler         `json:"scaler"`
	Config    TrainingConfig `json:"config"`
	Report    TrainingReport `json:"report"`

	// training set retained for similarity lookups
	Records []api.HistoricalAsset `json:"records"`
}

// Predictor predicts annual maintenance cost. Safe for concurrent use:
// Train and Load swap the whole model under the write lock while Predict
// reads under the read lock.
type Predictor struct {
	cfg    TrainingConfig
	logger *slog.Logger

	mu    sync.RWMutex
	model *model
}

// NewPredictor creates an untrained predictor.
func NewPredictor(cfg TrainingConfig, logger *slog.Logger) *Predictor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Predictor{cfg: cfg, logger: logger}
}

// IsTrained reports whether a model is available.
func (p *Predictor) IsTrained() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model != nil
}

// Train fits the ensemble on historical records and swaps it in. Records
// whose maintenance-to-price ratio is a z-score outlier are dropped first.
func (p *Predictor) Train(records []api.HistoricalAsset) (*TrainingReport, error) {
	start := time.Now()

	minimum := p.cfg.MinSamplesSplit * 4
	if minimum < 20 {
		minimum = 20
	}
	if len(records) < minimum {
		return nil, apperrors.NewBadDatasetError(
			fmt.Sprintf("need at least %d training records, got %d", minimum, len(records)))
	}

	clean, removed := removeOutliers(records, p.cfg.OutlierZScore)
	if len(clean) < minimum {
		return nil, apperrors.NewBadDatasetError(
			fmt.Sprintf("only %d records remain after outlier removal", len(clean)))
	}

	encoders := FitEncoders(clean)
	raw := make([][]float64, len(clean))
	y := make([]float64, len(clean))
	for i, r := range clean {
		raw[i] = encoders.FeaturesFromHistorical(r)
		y[i] = r.AnnualMaintenanceCost
	}
	scaler := FitScaler(raw)
	x := make([][]float64, len(raw))
	for i, row := range raw {
		x[i] = scaler.Transform(row)
	}

	rng := rand.New(rand.NewSource(p.cfg.Seed))
	trainIdx, testIdx := splitIndices(len(x), p.cfg.TestFraction, rng)

	trainX := pick(x, trainIdx)
	trainY := pickY(y, trainIdx)

	params := treeParams{
		maxDepth:        p.cfg.MaxDepth,
		minSamplesSplit: p.cfg.MinSamplesSplit,
		minSamplesLeaf:  p.cfg.MinSamplesLeaf,
	}
	f := fitForest(trainX, trainY, p.cfg.Trees, params, rng)

	r2, mae, rmse := evaluate(f, pick(x, testIdx), pickY(y, testIdx))

	report := TrainingReport{
		SamplesTotal:    len(records),
		SamplesUsed:     len(clean),
		OutliersRemoved: removed,
		TestR2:          r2,
		TestMAE:         mae,
		TestRMSE:        rmse,
		Importances:     namedImportances(f.Importances),
		TrainedAt:       start.UTC(),
		Duration:        time.Since(start),
	}

	m := &model{
		Version:   modelFormatVersion,
		ModelType: ModelType,
		Forest:    f,
		Encoders:  encoders,
		Scaler:    scaler,
		Config:    p.cfg,
		Report:    report,
		Records:   clean,
	}

	p.mu.Lock()
	p.model = m
	p.mu.Unlock()

	p.logger.Info("maintenance model trained",
		"samples", len(clean),
		"outliers_removed", removed,
		"trees", p.cfg.Trees,
		"test_r2", r2,
		"test_mae", mae,
		"duration", report.Duration)

	return &report, nil
}

// Predict estimates the annual maintenance cost of one asset. Returns
// apperrors.ErrNotTrained before any Train or Load succeeded.
func (p *Predictor) Predict(asset *api.AssetRecord) (api.MaintenancePrediction, error) {
	p.mu.RLock()
	m := p.model
	p.mu.RUnlock()
	if m == nil {
		return api.MaintenancePrediction{}, apperrors.ErrNotTrained
	}

	row := m.Scaler.Transform(m.Encoders.FeaturesFromAsset(asset))
	mean, std := m.Forest.predict(row, m.Config.ConfidenceSubsample)

	if mean < 0 || math.IsNaN(mean) {
		mean = 0
	}

	conf := 0.5
	if mean > 0 {
		conf = 1 - 2*std/mean
		if conf < 0.5 {
			conf = 0.5
		}
	}
	conf = confidence.Clamp(conf)

	cost := decimal.NewFromFloat(mean).Round(2)
	return api.MaintenancePrediction{
		AnnualCost: cost,
		RangeMin:   cost.Mul(decimal.NewFromFloat(0.8)).Round(2),
		RangeMax:   cost.Mul(decimal.NewFromFloat(1.2)).Round(2),
		Confidence: conf,
		Band:       confidence.Band(conf),
		StdDev:     std,
		ModelType:  ModelType,
	}, nil
}

// Report returns the last training report, nil when untrained.
func (p *Predictor) Report() *TrainingReport {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.model == nil {
		return nil
	}
	r := p.model.Report
	return &r
}

// SimilarAssets returns up to limit training records nearest to the asset
// by purchase price, restricted to the same subcategory or manufacturer.
// When nothing shares either attribute the whole training table is ranked.
func (p *Predictor) SimilarAssets(asset *api.AssetRecord, limit int) ([]api.HistoricalAsset, error) {
	p.mu.RLock()
	m := p.model
	p.mu.RUnlock()
	if m == nil {
		return nil, apperrors.ErrNotTrained
	}

	price, _ := asset.PurchasePrice.Float64()

	candidates := make([]api.HistoricalAsset, 0, len(m.Records))
	for _, r := range m.Records {
		if r.Subcategory == asset.Subcategory || r.Manufacturer == asset.Manufacturer {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		candidates = append(candidates, m.Records...)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return math.Abs(candidates[i].PurchasePrice-price) < math.Abs(candidates[j].PurchasePrice-price)
	})
	if limit > len(candidates) {
		limit = len(candidates)
	}
	out := make([]api.HistoricalAsset, limit)
	copy(out, candidates[:limit])
	return out, nil
}

// Save persists the trained model as JSON.
func (p *Predictor) Save(path string) error {
	p.mu.RLock()
	m := p.model
	p.mu.RUnlock()
	if m == nil {
		return apperrors.ErrNotTrained
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// Load restores a persisted model and swaps it in.
func (p *Predictor) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read model: %w", err)
	}
	var m model
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode model: %w", err)
	}
	if m.Version != modelFormatVersion || m.Forest == nil {
		return fmt.Errorf("unsupported model file (format version %d)", m.Version)
	}

	p.mu.Lock()
	p.model = &m
	p.mu.Unlock()
	return nil
}

// removeOutliers drops records whose maintenance-to-price ratio deviates
// more than maxZ standard deviations from the dataset mean.
func removeOutliers(records []api.HistoricalAsset, maxZ float64) ([]api.HistoricalAsset, int) {
	ratios := make([]float64, 0, len(records))
	usable := make([]api.HistoricalAsset, 0, len(records))
	for _, r := range records {
		if r.PurchasePrice <= 0 || r.AnnualMaintenanceCost < 0 {
			continue
		}
		usable = append(usable, r)
		ratios = append(ratios, r.AnnualMaintenanceCost/r.PurchasePrice)
	}
	if len(usable) < 3 {
		return usable, len(records) - len(usable)
	}

	mean := stat.Mean(ratios, nil)
	std := stat.StdDev(ratios, nil)
	if std == 0 || math.IsNaN(std) {
		return usable, len(records) - len(usable)
	}

	clean := make([]api.HistoricalAsset, 0, len(usable))
	for i, r := range usable {
		if math.Abs(ratios[i]-mean)/std <= maxZ {
			clean = append(clean, r)
		}
	}
	return clean, len(records) - len(clean)
}

// splitIndices shuffles and partitions row indices into train and test.
func splitIndices(n int, testFraction float64, rng *rand.Rand) (train, test []int) {
	indices := rng.Perm(n)
	cut := int(float64(n) * testFraction)
	if cut < 1 {
		cut = 1
	}
	if cut >= n {
		cut = n - 1
	}
	return indices[cut:], indices[:cut]
}

func pick(x [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for i, idx := range indices {
		out[i] = x[idx]
	}
	return out
}

func pickY(y []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = y[idx]
	}
	return out
}

// evaluate computes R², mean absolute error and root mean squared error on
// a held-out set.
func evaluate(f *forest, x [][]float64, y []float64) (r2, mae, rmse float64) {
	if len(x) == 0 {
		return 0, 0, 0
	}
	preds := make([]float64, len(x))
	var absErr, sqErr float64
	for i, row := range x {
		mean, _ := f.predict(row, 0)
		preds[i] = mean
		absErr += math.Abs(mean - y[i])
		sqErr += (mean - y[i]) * (mean - y[i])
	}
	r2 = stat.RSquaredFrom(preds, y, nil)
	if math.IsNaN(r2) {
		r2 = 0
	}
	n := float64(len(x))
	return r2, absErr / n, math.Sqrt(sqErr / n)
}

func namedImportances(values []float64) map[string]float64 {
	names := FeatureNames()
	out := make(map[string]float64, len(names))
	for i, name := range names {
		if i < len(values) {
			out[name] = values[i]
		}
	}
	return out
}
