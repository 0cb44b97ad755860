// Package tco aggregates cost components, lifetime escalation and one-time
// positions into a full total cost of ownership estimate.
package tco

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"asset-tco/internal/components"
	"asset-tco/internal/energy"
	"asset-tco/internal/escalation"
	"asset-tco/internal/regional"
	"asset-tco/pkg/api"
	"asset-tco/pkg/confidence"
	apperrors "asset-tco/pkg/errors"
)

// EngineVersion is stamped into estimate metadata.
const EngineVersion = "2.1.0"

// Rates for the one-time acquisition and end-of-life positions, as shares
// of purchase price.
type Rates struct {
	Installation  float64
	Training      float64
	Disposal      float64
	ResidualValue float64
}

// DefaultRates returns the benchmark one-time position shares.
func DefaultRates() Rates {
	return Rates{
		Installation:  0.05,
		Training:      0.02,
		Disposal:      0.03,
		ResidualValue: 0.15,
	}
}

// PriceSource resolves live electricity prices. *energy.Source satisfies it.
type PriceSource interface {
	GetPrice(ctx context.Context, location string) api.EnergyPriceQuote
	Forecast(ctx context.Context, location string, days int) []api.EnergyPrice
}

// MaintenancePredictor supplies a regression-based maintenance baseline.
// Implementations return apperrors.ErrNotTrained when no model is loaded;
// the engine then keeps the rule-based maintenance component.
type MaintenancePredictor interface {
	Predict(asset *api.AssetRecord) (api.MaintenancePrediction, error)
}

// Engine computes TCO estimates. Safe for concurrent use; all state is
// read-only after construction.
type Engine struct {
	library   *components.Library
	escalator *escalation.Escalator
	table     *regional.Table
	rates     Rates
	prices    PriceSource
	predictor MaintenancePredictor
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithPriceSource enables live market pricing for the energy component.
func WithPriceSource(src PriceSource) Option {
	return func(e *Engine) { e.prices = src }
}

// WithPredictor wires a regression baseline for the maintenance component.
func WithPredictor(p MaintenancePredictor) Option {
	return func(e *Engine) { e.predictor = p }
}

// WithRates overrides the one-time position shares.
func WithRates(r Rates) Option {
	return func(e *Engine) { e.rates = r }
}

// WithEscalator overrides the lifetime escalation rates.
func WithEscalator(esc *escalation.Escalator) Option {
	return func(e *Engine) { e.escalator = esc }
}

// WithClock injects the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an estimation engine over a regional factor table.
func NewEngine(table *regional.Table, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		library:   components.NewLibrary(table, components.DefaultRates()),
		escalator: escalation.New(),
		table:     table,
		rates:     DefaultRates(),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate computes the full TCO for one asset over lifetimeYears. The
// asset is validated first; a zero lifetime falls back to the asset's
// expected lifetime.
func (e *Engine) Estimate(ctx context.Context, asset *api.AssetRecord, lifetimeYears int) (*api.TCOResult, error) {
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	if lifetimeYears < 1 {
		lifetimeYears = int(asset.ExpectedLifetimeYears)
	}

	comps, quote := e.buildComponents(ctx, asset)

	annual := make(map[string]decimal.Decimal, len(comps))
	operatingAnnual := decimal.Zero
	for name, c := range comps {
		annual[name] = c.AnnualCost
		operatingAnnual = operatingAnnual.Add(c.AnnualCost)
	}

	escalated := e.escalator.EscalateAll(comps, lifetimeYears)
	operatingLifetime := decimal.Zero
	for _, cost := range escalated {
		operatingLifetime = operatingLifetime.Add(cost)
	}

	price := asset.PurchasePrice
	installation := price.Mul(decimal.NewFromFloat(e.rates.Installation)).Round(2)
	training := price.Mul(decimal.NewFromFloat(e.rates.Training)).Round(2)
	disposal := price.Mul(decimal.NewFromFloat(e.rates.Disposal)).Round(2)
	residual := price.Mul(decimal.NewFromFloat(e.rates.ResidualValue)).Round(2)

	acquisition := price.Add(installation).Add(training)
	total := acquisition.Add(operatingLifetime).Add(disposal).Sub(residual)
	annualAverage := total.Div(decimal.NewFromInt(int64(lifetimeYears))).Round(2)

	tcoMultiple := 0.0
	if price.IsPositive() {
		tcoMultiple, _ = total.Div(price).Round(4).Float64()
	}

	_, discountedOperating := e.escalator.DiscountedTotals(operatingAnnual, lifetimeYears)

	overall, liveBonus, perComponent := e.confidence(comps, annual, quote)

	result := &api.TCOResult{
		AssetInfo: api.AssetInfo{
			Name:         asset.Name,
			Category:     asset.Category,
			Manufacturer: asset.Manufacturer,
			Location:     asset.Location,
		},
		Components:      comps,
		AnnualBreakdown: annual,
		EscalatedCosts:  escalated,
		Summary: api.CostSummary{
			AcquisitionCosts: acquisition,
			OperatingCosts:   operatingLifetime,
			DisposalCosts:    disposal,
			TotalTCO:         total,
			AnnualAverage:    annualAverage,
			TCOMultiple:      tcoMultiple,
		},
		Financials: api.FinancialMetrics{
			PurchasePrice:        price,
			InstallationCost:     installation,
			TrainingCost:         training,
			DisposalCost:         disposal,
			ResidualValue:        residual,
			TotalAnnualOperating: operatingAnnual,
			DiscountedOperating:  discountedOperating,
			LifetimeYears:        lifetimeYears,
		},
		Confidence: api.ConfidenceMetrics{
			Overall:      overall,
			Level:        confidence.Band(overall),
			PerComponent: perComponent,
			LiveBonus:    liveBonus,
		},
		Metadata: api.EstimateMetadata{
			EstimateID:     uuid.New(),
			CalculatedAt:   e.now().UTC(),
			EngineVersion:  EngineVersion,
			Location:       asset.Location,
			ComponentCount: len(comps),
			LivePricing:    quote != nil && quote.IsLive,
		},
	}

	if quote != nil && quote.IsLive {
		result.EnergyInsights = e.energyInsights(ctx, asset, comps[components.NameEnergy], *quote)
	}

	e.logger.Info("estimate calculated",
		"asset", asset.Name,
		"location", asset.Location,
		"lifetime_years", lifetimeYears,
		"total_tco", total,
		"confidence", overall,
		"live_pricing", result.Metadata.LivePricing)

	return result, nil
}

// buildComponents assembles the nine cost streams, substituting the live
// energy quote and the regression maintenance baseline when available.
func (e *Engine) buildComponents(ctx context.Context, asset *api.AssetRecord) (map[string]api.CostComponent, *api.EnergyPriceQuote) {
	comps := make(map[string]api.CostComponent, 9)

	comps[components.NameMaintenance] = e.maintenanceComponent(asset)

	var quote *api.EnergyPriceQuote
	if e.prices != nil {
		q := e.prices.GetPrice(ctx, asset.Location)
		quote = &q
		comps[components.NameEnergy] = e.library.LiveEnergy(asset, q)
	} else {
		comps[components.NameEnergy] = e.library.Energy(asset)
	}

	comps[components.NameWater] = e.library.Water(asset)
	comps[components.NamePersonnel] = e.library.Personnel(asset)
	comps[components.NameSpareParts] = e.library.SpareParts(asset)
	comps[components.NameCleaning] = e.library.Cleaning(asset)
	comps[components.NameMonitoring] = e.library.Monitoring(asset)
	comps[components.NameCompliance] = e.library.Compliance(asset)
	comps[components.NameInsurance] = e.library.Insurance(asset)

	return comps, quote
}

// maintenanceComponent prefers the regression baseline over the rule-based
// formula when a trained model is wired in and answers.
func (e *Engine) maintenanceComponent(asset *api.AssetRecord) api.CostComponent {
	ruleBased := e.library.Maintenance(asset)
	if e.predictor == nil {
		return ruleBased
	}

	pred, err := e.predictor.Predict(asset)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotTrained) {
			e.logger.Warn("maintenance prediction failed, using rule-based formula", "error", err)
		}
		return ruleBased
	}

	return api.CostComponent{
		Name:       components.NameMaintenance,
		AnnualCost: pred.AnnualCost,
		Class:      api.CostVariable,
		Confidence: pred.Confidence,
		Method:     "regression ensemble over historical maintenance records",
		Factors: map[string]any{
			"model_type":     pred.ModelType,
			"range_min":      pred.RangeMin,
			"range_max":      pred.RangeMax,
			"prediction_std": pred.StdDev,
			"rule_based_alt": ruleBased.AnnualCost,
		},
		RegionDependent:    false,
		EquipmentDependent: true,
	}
}

// confidence computes the cost-weighted overall score. Components with
// zero annual cost carry no weight; when everything is zero the default
// score answers. A live market quote earns a bonus, clamped to 1.0.
func (e *Engine) confidence(comps map[string]api.CostComponent, annual map[string]decimal.Decimal, quote *api.EnergyPriceQuote) (overall, liveBonus float64, perComponent map[string]float64) {
	perComponent = make(map[string]float64, len(comps))
	scores := make([]float64, 0, len(comps))
	weights := make([]float64, 0, len(comps))
	for name, c := range comps {
		perComponent[name] = c.Confidence
		weight, _ := annual[name].Float64()
		if weight <= 0 {
			continue
		}
		scores = append(scores, c.Confidence)
		weights = append(weights, weight)
	}

	overall = confidence.WeightedAverage(scores, weights)
	if len(scores) == 0 {
		overall = confidence.Default
	}
	if quote != nil && quote.IsLive {
		liveBonus = confidence.LiveDataBonus
		overall = confidence.Clamp(overall + liveBonus)
	}
	return overall, liveBonus, perComponent
}

// energyInsights builds the live-pricing appendix: consumption profile,
// efficiency rating and optimization recommendations from a short forecast.
func (e *Engine) energyInsights(ctx context.Context, asset *api.AssetRecord, energyComp api.CostComponent, quote api.EnergyPriceQuote) *api.EnergyInsights {
	annualKWh := 0.0
	if v, ok := energyComp.Factors["annual_kwh"].(float64); ok {
		annualKWh = v
	}

	insights := &api.EnergyInsights{
		CurrentEnergyCost: energyComp.AnnualCost,
		AnnualKWh:         annualKWh,
		EfficiencyRating:  efficiencyRating(asset, annualKWh),
		SmartGridReady:    asset.TotalPowerKW >= 50,
		PriceSource:       quote.Source,
		PriceIsLive:       quote.IsLive,
	}

	if e.prices != nil {
		forecast := e.prices.Forecast(ctx, asset.Location, 1)
		insights.Recommendations = energy.Recommendations(*asset, forecast)
	}
	return insights
}

// efficiencyRating grades specific consumption per kW of rated power.
func efficiencyRating(asset *api.AssetRecord, annualKWh float64) string {
	if asset.TotalPowerKW <= 0 {
		return "n/a"
	}
	// Hours-equivalent at full load; lower means better part-load behavior.
	specific := annualKWh / asset.TotalPowerKW
	switch {
	case specific < 1500:
		return "A"
	case specific < 2500:
		return "B"
	case specific < 4000:
		return "C"
	default:
		return "D"
	}
}
