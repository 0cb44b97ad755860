package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedAverage(t *testing.T) {
	got := WeightedAverage([]float64{0.9, 0.5}, []float64{3, 1})
	assert.InDelta(t, 0.8, got, 1e-9)

	assert.Equal(t, 0.0, WeightedAverage(nil, nil))
	assert.Equal(t, 0.0, WeightedAverage([]float64{0.9}, []float64{0.9, 0.1}))
	assert.Equal(t, 0.0, WeightedAverage([]float64{0.9}, []float64{0}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-0.2))
	assert.Equal(t, 1.0, Clamp(1.3))
	assert.Equal(t, 0.75, Clamp(0.75))
}

func TestBand(t *testing.T) {
	assert.Equal(t, BandVeryHigh, Band(0.9))
	assert.Equal(t, BandVeryHigh, Band(0.85))
	assert.Equal(t, BandHigh, Band(0.7))
	assert.Equal(t, BandMedium, Band(0.6))
	assert.Equal(t, BandLow, Band(0.59))
}
