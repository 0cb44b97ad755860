package energy

import (
	"fmt"
	"sort"
	"strings"

	"asset-tco/pkg/api"
	"asset-tco/pkg/units"
)

// Thresholds for the optimization heuristics.
const (
	spreadThresholdPct    = 15.0   // intraday spread worth shifting for
	shiftSavingsThreshold = 1000.0 // EUR/year before load shifting pays
	demandResponseMinKW   = 100.0  // minimum size for balancing markets
	smartControllerCost   = 3500.0 // midpoint of the 2k-5k controller range
)

// Recommendations derives energy optimization suggestions from a price
// curve and the asset's consumption profile. Purely deterministic.
func Recommendations(asset api.AssetRecord, forecast []api.EnergyPrice) []api.Recommendation {
	var recs []api.Recommendation
	if len(forecast) == 0 {
		return recs
	}

	day := forecast
	if len(day) > units.HoursPerDay {
		day = day[:units.HoursPerDay]
	}

	byPrice := make([]api.EnergyPrice, len(day))
	copy(byPrice, day)
	sort.Slice(byPrice, func(i, j int) bool { return byPrice[i].PriceEURMWh < byPrice[j].PriceEURMWh })

	minPrice := byPrice[0].PriceEURMWh
	maxPrice := byPrice[len(byPrice)-1].PriceEURMWh
	var sum float64
	for _, p := range day {
		sum += p.PriceEURMWh
	}
	avgPrice := sum / float64(len(day))

	spreadPct := 0.0
	if avgPrice > 0 {
		spreadPct = (maxPrice - minPrice) / avgPrice * 100
	}

	if spreadPct > spreadThresholdPct {
		// Shorter curves get correspondingly shorter hour windows.
		cheap := min(6, len(byPrice))
		expensive := min(4, len(byPrice))
		recs = append(recs, api.Recommendation{
			Priority:         api.PriorityHigh,
			Title:            "Optimize operating window",
			Description:      fmt.Sprintf("Electricity prices vary by %.1f%% across the day.", spreadPct),
			Action:           "Run in the cheapest hours: " + hourList(byPrice[:cheap]),
			Avoid:            "Avoid the most expensive hours: " + hourList(byPrice[len(byPrice)-expensive:]),
			SavingsPotential: fmt.Sprintf("%.1f%% energy cost reduction", spreadPct),
		})
	}

	powerKW := asset.TotalPowerKW
	dailyAvgCost := powerKW * float64(units.HoursPerDay) * avgPrice / units.KWhPerMWh
	dailyOptCost := powerKW * float64(units.HoursPerDay) * minPrice / units.KWhPerMWh
	annualSavings := (dailyAvgCost - dailyOptCost) * float64(units.WorkingDaysPerYear)

	if annualSavings > shiftSavingsThreshold {
		recs = append(recs, api.Recommendation{
			Priority:         api.PriorityMedium,
			Title:            "Implement load shifting",
			Description:      "Automatically shift operating hours into low-price windows.",
			Action:           "Time-based control or smart grid integration",
			SavingsPotential: fmt.Sprintf("EUR %.0f/year energy cost reduction", annualSavings),
			Investment:       "Smart controller: EUR 2,000-5,000",
			Requirements:     fmt.Sprintf("Payback approx. %.1f months", smartControllerCost/annualSavings*12),
		})
	}

	if powerKW > demandResponseMinKW {
		recs = append(recs, api.Recommendation{
			Priority:         api.PriorityLow,
			Title:            "Demand response participation",
			Description:      fmt.Sprintf("With %.0f kW the asset qualifies for balancing markets.", powerKW),
			Action:           "Check prequalification for secondary reserve",
			RevenuePotential: fmt.Sprintf("EUR %.0f-%.0f/year additional revenue", powerKW*15, powerKW*40),
			Requirements:     "Remote controllability and 15-minute availability",
		})
	}

	return recs
}

func hourList(prices []api.EnergyPrice) string {
	hours := make([]int, len(prices))
	for i, p := range prices {
		hours[i] = p.Timestamp.Hour()
	}
	sort.Ints(hours)
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = fmt.Sprintf("%02d:00", h)
	}
	return strings.Join(parts, ", ")
}
