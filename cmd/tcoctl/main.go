// tcoctl - TCO estimation for industrial assets
//
// Usage:
//
//	tcoctl estimate --asset asset.json [options]
//	tcoctl train --dataset history.csv --model model.json
//	tcoctl price --location "Düsseldorf"
//	tcoctl history --location "Oelde" --limit 20
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"asset-tco/internal/energy"
	"asset-tco/internal/escalation"
	"asset-tco/internal/history"
	"asset-tco/internal/ml"
	"asset-tco/internal/regional"
	"asset-tco/internal/tco"
	"asset-tco/pkg/api"
	"asset-tco/pkg/platform"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "tcoctl",
		Usage:   "Total cost of ownership estimation for industrial assets",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"TCOCTL_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "factors",
				Usage:   "Path to a regional factor table JSON (overrides built-in)",
				EnvVars: []string{"TCOCTL_FACTOR_TABLE"},
			},
			&cli.StringFlag{
				Name:    "entsoe-token",
				Usage:   "ENTSO-E transparency platform API token",
				EnvVars: []string{"ENTSOE_API_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-host",
				Value:   "localhost",
				Usage:   "ClickHouse host",
				EnvVars: []string{"CLICKHOUSE_HOST"},
			},
			&cli.IntFlag{
				Name:    "clickhouse-port",
				Value:   9000,
				Usage:   "ClickHouse native port",
				EnvVars: []string{"CLICKHOUSE_PORT"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-database",
				Value:   "assettco",
				Usage:   "ClickHouse database",
				EnvVars: []string{"CLICKHOUSE_DATABASE"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-user",
				Value:   "default",
				Usage:   "ClickHouse user",
				EnvVars: []string{"CLICKHOUSE_USER"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-password",
				Value:   "",
				Usage:   "ClickHouse password",
				EnvVars: []string{"CLICKHOUSE_PASSWORD"},
			},
		},

		Commands: []*cli.Command{
			estimateCommand(),
			trainCommand(),
			priceCommand(),
			historyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// escalatorFromEnv honors rate overrides for planning what-if runs.
func escalatorFromEnv() *escalation.Escalator {
	return escalation.NewWithRates(
		platform.GetEnvFloat("TCOCTL_VARIABLE_RATE", escalation.DefaultVariableRate),
		platform.GetEnvFloat("TCOCTL_FIXED_RATE", escalation.DefaultFixedRate),
		platform.GetEnvFloat("TCOCTL_DISCOUNT_RATE", escalation.DefaultDiscountRate),
	)
}

func factorTable(c *cli.Context) (*regional.Table, error) {
	if path := c.String("factors"); path != "" {
		return regional.LoadTable(path)
	}
	return regional.DefaultTable(), nil
}

func historyStore(c *cli.Context) (*history.Store, error) {
	return history.NewStore(&history.Config{
		Host:     c.String("clickhouse-host"),
		Port:     c.Int("clickhouse-port"),
		Database: c.String("clickhouse-database"),
		Username: c.String("clickhouse-user"),
		Password: c.String("clickhouse-password"),
	})
}

// =============================================================================
// ESTIMATE COMMAND
// =============================================================================

func estimateCommand() *cli.Command {
	return &cli.Command{
		Name:  "estimate",
		Usage: "Estimate lifetime TCO for one asset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "asset",
				Aliases:  []string{"a"},
				Usage:    "Path to asset record JSON",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "lifetime",
				Aliases: []string{"l"},
				Usage:   "Lifetime horizon in years (default: the asset's expected lifetime)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format (table, json)",
			},
			&cli.BoolFlag{
				Name:  "live-pricing",
				Value: false,
				Usage: "Fetch live electricity prices for the energy component",
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "Path to a trained maintenance model (enables the regression baseline)",
			},
			&cli.BoolFlag{
				Name:  "store",
				Value: false,
				Usage: "Persist the estimate to ClickHouse",
			},
		},
		Action: runEstimate,
	}
}

func runEstimate(c *cli.Context) error {
	ctx := context.Background()
	logger := platform.InitLogger(c.String("log-level"))

	data, err := os.ReadFile(c.String("asset"))
	if err != nil {
		return fmt.Errorf("failed to read asset file: %w", err)
	}
	var asset api.AssetRecord
	if err := json.Unmarshal(data, &asset); err != nil {
		return fmt.Errorf("failed to parse asset file: %w", err)
	}

	table, err := factorTable(c)
	if err != nil {
		return err
	}

	opts := []tco.Option{tco.WithEscalator(escalatorFromEnv())}
	if c.Bool("live-pricing") {
		opts = append(opts, tco.WithPriceSource(
			energy.NewSource(c.String("entsoe-token"), logger)))
	}
	if modelPath := c.String("model"); modelPath != "" {
		predictor := ml.NewPredictor(ml.DefaultTrainingConfig(), logger)
		if err := predictor.Load(modelPath); err != nil {
			return fmt.Errorf("failed to load maintenance model: %w", err)
		}
		opts = append(opts, tco.WithPredictor(predictor))
	}

	engine := tco.NewEngine(table, logger, opts...)
	result, err := engine.Estimate(ctx, &asset, c.Int("lifetime"))
	if err != nil {
		return fmt.Errorf("estimation failed: %w", err)
	}

	if c.Bool("store") {
		store, err := historyStore(c)
		if err != nil {
			return fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := store.InsertEstimate(ctx, result); err != nil {
			return fmt.Errorf("failed to persist estimate: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Estimate %s stored\n", result.Metadata.EstimateID)
	}

	if c.String("format") == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return outputEstimateTable(result)
}

func outputEstimateTable(result *api.TCOResult) error {
	fmt.Println()
	fmt.Printf("Asset:      %s (%s, %s)\n",
		result.AssetInfo.Name, result.AssetInfo.Category, result.AssetInfo.Location)
	fmt.Printf("Lifetime:   %d years\n", result.Financials.LifetimeYears)
	fmt.Println()

	fmt.Println("ANNUAL COST BREAKDOWN")
	for _, name := range result.TopComponents(len(result.AnnualBreakdown)) {
		fmt.Printf("  %-14s EUR %12s   (confidence %.0f%%)\n",
			name,
			result.AnnualBreakdown[name].StringFixed(2),
			result.Components[name].Confidence*100)
	}
	fmt.Println()

	fmt.Println("LIFETIME SUMMARY")
	fmt.Printf("  Acquisition    EUR %12s\n", result.Summary.AcquisitionCosts.StringFixed(2))
	fmt.Printf("  Operating      EUR %12s\n", result.Summary.OperatingCosts.StringFixed(2))
	fmt.Printf("  Disposal       EUR %12s\n", result.Summary.DisposalCosts.StringFixed(2))
	fmt.Printf("  Residual value EUR %11s-\n", result.Financials.ResidualValue.StringFixed(2))
	fmt.Printf("  Total TCO      EUR %12s   (%.2fx purchase price)\n",
		result.Summary.TotalTCO.StringFixed(2), result.Summary.TCOMultiple)
	fmt.Printf("  Annual average EUR %12s\n", result.Summary.AnnualAverage.StringFixed(2))
	fmt.Printf("  Operating NPV  EUR %12s\n", result.Financials.DiscountedOperating.StringFixed(2))
	fmt.Println()

	fmt.Printf("Confidence: %.0f%% (%s)", result.Confidence.Overall*100, result.Confidence.Level)
	if result.Metadata.LivePricing {
		fmt.Print("  ⚡ live market pricing")
	}
	fmt.Println()

	if insights := result.EnergyInsights; insights != nil && len(insights.Recommendations) > 0 {
		fmt.Println()
		fmt.Println("ENERGY OPTIMIZATION")
		for _, rec := range insights.Recommendations {
			fmt.Printf("  [%s] %s\n", rec.Priority, rec.Title)
			if rec.SavingsPotential != "" {
				fmt.Printf("         %s\n", rec.SavingsPotential)
			}
		}
	}
	return nil
}

// =============================================================================
// TRAIN COMMAND
// =============================================================================

func trainCommand() *cli.Command {
	return &cli.Command{
		Name:  "train",
		Usage: "Train the maintenance regression model on a historical dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dataset",
				Aliases:  []string{"d"},
				Usage:    "Path to the historical maintenance CSV",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "model",
				Aliases:  []string{"m"},
				Usage:    "Output path for the trained model",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "trees",
				Value: 100,
				Usage: "Ensemble size",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Value: 42,
				Usage: "Random seed for reproducible training",
			},
		},
		Action: runTrain,
	}
}

func runTrain(c *cli.Context) error {
	logger := platform.InitLogger(c.String("log-level"))

	records, err := history.LoadTrainingCSV(c.String("dataset"))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "📊 Loaded %d historical records\n", len(records))

	cfg := ml.DefaultTrainingConfig()
	cfg.Trees = c.Int("trees")
	cfg.Seed = c.Int64("seed")

	predictor := ml.NewPredictor(cfg, logger)
	report, err := predictor.Train(records)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	if err := predictor.Save(c.String("model")); err != nil {
		return err
	}

	fmt.Printf("Model trained on %d records (%d outliers removed)\n",
		report.SamplesUsed, report.OutliersRemoved)
	fmt.Printf("Held-out R²: %.3f, MAE: EUR %.0f, RMSE: EUR %.0f\n",
		report.TestR2, report.TestMAE, report.TestRMSE)
	fmt.Printf("Saved to %s\n", c.String("model"))
	return nil
}

// =============================================================================
// PRICE COMMAND
// =============================================================================

func priceCommand() *cli.Command {
	return &cli.Command{
		Name:  "price",
		Usage: "Resolve the current electricity price for a location",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "location",
				Aliases:  []string{"l"},
				Usage:    "Plant location",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "forecast",
				Usage: "Also print an hourly forecast for this many days",
			},
		},
		Action: runPrice,
	}
}

func runPrice(c *cli.Context) error {
	ctx := context.Background()
	logger := platform.InitLogger(c.String("log-level"))
	src := energy.NewSource(c.String("entsoe-token"), logger)

	location := c.String("location")
	quote := src.GetPrice(ctx, location)

	fmt.Printf("%s: EUR %.4f/kWh (%s)\n", location, quote.PricePerKWh, quote.Source)

	if days := c.Int("forecast"); days > 0 {
		for _, p := range src.Forecast(ctx, location, days) {
			fmt.Printf("  %s  EUR %7.2f/MWh\n",
				p.Timestamp.Format("2006-01-02 15:04"), p.PriceEURMWh)
		}
	}
	return nil
}

// =============================================================================
// HISTORY COMMAND
// =============================================================================

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent estimates from the ClickHouse store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "location",
				Aliases: []string{"l"},
				Usage:   "Filter by plant location",
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: 20,
				Usage: "Maximum rows",
			},
			&cli.BoolFlag{
				Name:  "averages",
				Usage: "Print the average TCO multiple per location instead",
			},
		},
		Action: runHistory,
	}
}

func runHistory(c *cli.Context) error {
	ctx := context.Background()

	store, err := historyStore(c)
	if err != nil {
		return fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	defer store.Close()

	if c.Bool("averages") {
		averages, err := store.LocationAverages(ctx)
		if err != nil {
			return err
		}
		for location, avg := range averages {
			fmt.Printf("%-14s %.2fx\n", location, avg)
		}
		return nil
	}

	rows, err := store.RecentEstimates(ctx, c.String("location"), c.Int("limit"))
	if err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Printf("%s  %-20s %-12s EUR %12s  %.2fx  %.0f%%\n",
			r.CalculatedAt.Format("2006-01-02 15:04"),
			r.AssetName, r.Location,
			r.TotalTCO.StringFixed(2), r.TCOMultiple, r.Confidence*100)
	}
	return nil
}
