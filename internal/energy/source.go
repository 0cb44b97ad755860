// Package energy resolves per-kWh electricity prices for plant locations.
// A chain of live market-data providers is tried in order, each attempt
// cached per hour bucket; when every provider fails the static per-country
// fallback table answers, so a price lookup never fails.
package energy

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"asset-tco/pkg/api"
	"asset-tco/pkg/units"
)

// DefaultTimeout bounds each live provider attempt so a hung provider
// cannot block the estimation pipeline.
const DefaultTimeout = 10 * time.Second

// cacheTTL is how long a live quote stays valid. Cache keys carry the hour
// bucket, so entries are also implicitly evicted by key rollover.
const cacheTTL = time.Hour

// DefaultCountry is the fallback bucket for unmapped locations.
const DefaultCountry = "Default"

// locationCountries maps the known plant locations to market countries.
var locationCountries = map[string]string{
	"Düsseldorf": "Germany",
	"Oelde":      "Germany",
	"Berlin":     "Germany",
	"Hamburg":    "Germany",
	"München":    "Germany",
	"Kopenhagen": "Denmark",
	"Mailand":    "Italy",
	"Lyon":       "France",
	"Shanghai":   "China",
	"Singapur":   "Singapore",
	"Chicago":    "USA",
	"São Paulo":  "Brazil",
}

// fallbackPrices are static industrial tariffs in EUR/kWh, used when no
// live provider can answer.
var fallbackPrices = map[string]float64{
	"Germany":        0.28,
	"Denmark":        0.32,
	"Italy":          0.25,
	"France":         0.24,
	"Netherlands":    0.26,
	"Belgium":        0.27,
	"Austria":        0.26,
	"Switzerland":    0.22,
	"Poland":         0.18,
	"Czech Republic": 0.16,
	DefaultCountry:   0.25,
}

type cachedQuote struct {
	pricePerKWh float64
	retrievedAt time.Time
}

// Source resolves electricity prices for locations. Safe for concurrent
// use; the quote cache is the only mutable state.
type Source struct {
	providers []Provider
	fallback  map[string]float64
	logger    *slog.Logger

	mu    sync.RWMutex
	cache map[string]cachedQuote

	now func() time.Time
}

// Option configures a Source.
type Option func(*Source)

// WithProviders replaces the default provider chain. Order matters: the
// first supporting provider that answers wins.
func WithProviders(providers ...Provider) Option {
	return func(s *Source) { s.providers = providers }
}

// WithFallbackPrices replaces the static per-country fallback table.
func WithFallbackPrices(prices map[string]float64) Option {
	return func(s *Source) { s.fallback = prices }
}

// WithClock injects the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Source) { s.now = now }
}

// NewSource creates a price source with the standard provider chain:
// energy-charts, then ENTSO-E (token from the environment), then aWATTar.
func NewSource(entsoeToken string, logger *slog.Logger, opts ...Option) *Source {
	client := &http.Client{Timeout: DefaultTimeout}
	s := &Source{
		providers: []Provider{
			NewEnergyChartsProvider(client),
			NewEntsoeProvider(entsoeToken, client),
			NewAwattarProvider(client),
		},
		fallback: fallbackPrices,
		logger:   logger,
		cache:    make(map[string]cachedQuote),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// GetPrice resolves a per-kWh price for a location. Provider failures are
// logged and swallowed; the call always returns a usable quote.
func (s *Source) GetPrice(ctx context.Context, location string) api.EnergyPriceQuote {
	country := s.country(location)

	for _, provider := range s.providers {
		if !provider.Supports(country) {
			continue
		}

		key := s.cacheKey(provider.Name(), country)
		if quote, ok := s.cached(key); ok {
			return api.EnergyPriceQuote{
				PricePerKWh: quote.pricePerKWh,
				Source:      provider.Name() + " (cached)",
				IsLive:      true,
				RetrievedAt: quote.retrievedAt,
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
		priceMWh, err := provider.FetchPrice(attemptCtx, country)
		cancel()
		if err != nil {
			s.logger.Warn("price provider failed",
				"provider", provider.Name(), "country", country, "error", err)
			continue
		}

		priceKWh := units.PricePerMWhToKWh(priceMWh)
		retrieved := s.now()
		s.store(key, cachedQuote{pricePerKWh: priceKWh, retrievedAt: retrieved})

		return api.EnergyPriceQuote{
			PricePerKWh: priceKWh,
			Source:      provider.Name() + " (live)",
			IsLive:      true,
			RetrievedAt: retrieved,
		}
	}

	price, ok := s.fallback[country]
	if !ok {
		price = s.fallback[DefaultCountry]
	}
	return api.EnergyPriceQuote{
		PricePerKWh: price,
		Source:      "static fallback",
		IsLive:      false,
		RetrievedAt: s.now(),
	}
}

func (s *Source) country(location string) string {
	if c, ok := locationCountries[location]; ok {
		return c
	}
	return DefaultCountry
}

// cacheKey buckets by provider, country and hour so stale entries roll
// out of reach when the hour changes.
func (s *Source) cacheKey(provider, country string) string {
	return provider + "|" + country + "|" + s.now().Format("2006010215")
}

func (s *Source) cached(key string) (cachedQuote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quote, ok := s.cache[key]
	if !ok || s.now().Sub(quote.retrievedAt) >= cacheTTL {
		return cachedQuote{}, false
	}
	return quote, true
}

func (s *Source) store(key string, quote cachedQuote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = quote
}
