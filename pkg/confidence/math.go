// Package confidence provides confidence score math utilities.
package confidence

// WeightedAverage calculates cost-weighted confidence.
func WeightedAverage(scores []float64, weights []float64) float64 {
	if len(scores) == 0 || len(scores) != len(weights) {
		return 0
	}

	var sum, weightSum float64
	for i, s := range scores {
		sum += s * weights[i]
		weightSum += weights[i]
	}

	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}

// Clamp ensures confidence is in valid range [0, 1].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Band classification thresholds
const (
	VeryHighThreshold = 0.85
	HighThreshold     = 0.70
	MediumThreshold   = 0.60
)

// Band names
const (
	BandVeryHigh = "very_high"
	BandHigh     = "high"
	BandMedium   = "medium"
	BandLow      = "low"
)

// Band classifies a confidence score into a named band.
func Band(score float64) string {
	switch {
	case score >= VeryHighThreshold:
		return BandVeryHigh
	case score >= HighThreshold:
		return BandHigh
	case score >= MediumThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

// Default is used when no cost-weighted signal is available,
// e.g. when every component resolved to zero annual cost.
const Default = 0.80

// LiveDataBonus is added when a live market quote backed the energy
// component. The result is always clamped to 1.0.
const LiveDataBonus = 0.10
