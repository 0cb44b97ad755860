// Package history persists finished TCO estimates for trend analysis and
// loads the historical maintenance dataset the regression model trains on.
// The store implementation targets ClickHouse, which fits the append-only
// columnar shape of estimate history.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"asset-tco/pkg/api"
	"asset-tco/pkg/platform"
)

// EstimateRow is one persisted estimate, flattened for columnar storage.
// The full result document is kept as JSON alongside the queryable columns.
type EstimateRow struct {
	EstimateID   uuid.UUID       `ch:"estimate_id"`
	AssetName    string          `ch:"asset_name"`
	Category     string          `ch:"category"`
	Manufacturer string          `ch:"manufacturer"`
	Location     string          `ch:"location"`
	TotalTCO     decimal.Decimal `ch:"total_tco"`
	AnnualAvg    decimal.Decimal `ch:"annual_average"`
	TCOMultiple  float64         `ch:"tco_multiple"`
	Confidence   float64         `ch:"confidence"`
	LivePricing  bool            `ch:"live_pricing"`
	Lifetime     int32           `ch:"lifetime_years"`
	ResultJSON   string          `ch:"result_json"`
	CalculatedAt time.Time       `ch:"calculated_at"`
	CreatedAt    time.Time       `ch:"created_at"`
}

// Config holds ClickHouse connection configuration.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Debug    bool
}

// DefaultConfig reads the connection settings from the environment,
// falling back to the development defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:     platform.GetEnv("CLICKHOUSE_HOST", "localhost"),
		Port:     platform.GetEnvInt("CLICKHOUSE_PORT", 9000),
		Database: platform.GetEnv("CLICKHOUSE_DATABASE", "assettco"),
		Username: platform.GetEnv("CLICKHOUSE_USER", "default"),
		Password: platform.GetEnv("CLICKHOUSE_PASSWORD", ""),
		Debug:    platform.GetEnvBool("CLICKHOUSE_DEBUG", false),
	}
}

// Store persists TCO estimates in ClickHouse.
type Store struct {
	conn clickhouse.Conn
	cfg  *Config
}

// NewStore connects to ClickHouse with the standard session settings.
func NewStore(cfg *Config) (*Store, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: cfg.Debug,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	return &Store{conn: conn, cfg: cfg}, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// EnsureSchema creates the estimate history table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS tco_estimates (
			estimate_id    UUID,
			asset_name     String,
			category       LowCardinality(String),
			manufacturer   LowCardinality(String),
			location       LowCardinality(String),
			total_tco      Decimal64(2),
			annual_average Decimal64(2),
			tco_multiple   Float64,
			confidence     Float64,
			live_pricing   UInt8,
			lifetime_years Int32,
			result_json    String,
			calculated_at  DateTime,
			created_at     DateTime DEFAULT now()
		)
		ENGINE = MergeTree()
		PARTITION BY toYYYYMM(calculated_at)
		ORDER BY (location, category, calculated_at)
	`
	if err := s.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create estimate table: %w", err)
	}
	return nil
}

// InsertEstimate persists one finished estimate.
func (s *Store) InsertEstimate(ctx context.Context, result *api.TCOResult) error {
	doc, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	query := `
		INSERT INTO tco_estimates (
			estimate_id, asset_name, category, manufacturer, location,
			total_tco, annual_average, tco_multiple, confidence,
			live_pricing, lifetime_years, result_json, calculated_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return s.conn.Exec(ctx, query,
		result.Metadata.EstimateID,
		result.AssetInfo.Name,
		result.AssetInfo.Category,
		result.AssetInfo.Manufacturer,
		result.AssetInfo.Location,
		result.Summary.TotalTCO,
		result.Summary.AnnualAverage,
		result.Summary.TCOMultiple,
		result.Confidence.Overall,
		boolToUInt8(result.Metadata.LivePricing),
		int32(result.Financials.LifetimeYears),
		string(doc),
		result.Metadata.CalculatedAt,
		time.Now(),
	)
}

// RecentEstimates returns the newest estimates, optionally filtered by
// location. A zero limit defaults to 50.
func (s *Store) RecentEstimates(ctx context.Context, location string, limit int) ([]EstimateRow, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT estimate_id, asset_name, category, manufacturer, location,
			   total_tco, annual_average, tco_multiple, confidence,
			   live_pricing, lifetime_years, result_json, calculated_at, created_at
		FROM tco_estimates
	`
	args := []any{}
	if location != "" {
		query += " WHERE location = ?"
		args = append(args, location)
	}
	query += " ORDER BY calculated_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query estimates: %w", err)
	}
	defer rows.Close()

	var out []EstimateRow
	for rows.Next() {
		var r EstimateRow
		var live uint8
		if err := rows.Scan(
			&r.EstimateID, &r.AssetName, &r.Category, &r.Manufacturer, &r.Location,
			&r.TotalTCO, &r.AnnualAvg, &r.TCOMultiple, &r.Confidence,
			&live, &r.Lifetime, &r.ResultJSON, &r.CalculatedAt, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan estimate row: %w", err)
		}
		r.LivePricing = live == 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// LocationAverages returns the average TCO multiple per location, for
// cross-site benchmarking.
func (s *Store) LocationAverages(ctx context.Context) (map[string]float64, error) {
	query := `
		SELECT location, avg(tco_multiple)
		FROM tco_estimates
		GROUP BY location
	`
	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query location averages: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var location string
		var avg float64
		if err := rows.Scan(&location, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan average row: %w", err)
		}
		out[location] = avg
	}
	return out, rows.Err()
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
