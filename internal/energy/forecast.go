package energy

import (
	"context"
	"time"

	"asset-tco/pkg/api"
	"asset-tco/pkg/units"
)

// Intraday shaping factors for the synthetic forecast curve. Day-ahead
// auctions only publish one day out, so beyond that the curve repeats the
// daily shape around the current quote.
const (
	peakFactor    = 1.3
	offPeakFactor = 0.7
	normalFactor  = 1.0
)

func hourShape(hour int) float64 {
	switch {
	case (hour >= 6 && hour <= 9) || (hour >= 18 && hour <= 21):
		return peakFactor
	case hour >= 23 || hour <= 5:
		return offPeakFactor
	default:
		return normalFactor
	}
}

// Forecast builds a deterministic hour-by-hour price curve for the next
// days, anchored on the current quote for the location.
func (s *Source) Forecast(ctx context.Context, location string, days int) []api.EnergyPrice {
	if days < 1 {
		days = 1
	}
	quote := s.GetPrice(ctx, location)
	baseMWh := units.PricePerKWhToMWh(quote.PricePerKWh)
	country := s.country(location)

	start := s.now().Truncate(time.Hour)
	curve := make([]api.EnergyPrice, 0, days*units.HoursPerDay)
	for day := 0; day < days; day++ {
		for hour := 0; hour < units.HoursPerDay; hour++ {
			ts := start.Add(time.Duration(day*units.HoursPerDay+hour) * time.Hour)
			curve = append(curve, api.EnergyPrice{
				Timestamp:   ts,
				PriceEURMWh: baseMWh * hourShape(ts.Hour()),
				Currency:    "EUR",
				Market:      quote.Source,
				Region:      country,
			})
		}
	}
	return curve
}
