package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.Zero(t, Median(nil))
}

func TestPercentileLinear(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	// rank 0.9*9 = 8.1 -> 9 + 0.1*(10-9)
	assert.InDelta(t, 9.1, Percentile(x, 90), 1e-12)
	assert.Equal(t, 42.0, Percentile([]float64{42}, 90))
}

func TestPopStdDev(t *testing.T) {
	assert.InDelta(t, 2.0, PopStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
}

func TestConstantSampleHasNoShape(t *testing.T) {
	x := []float64{128, 128, 128, 128, 128}
	s := Summarize(x)
	assert.Equal(t, 128.0, s.Mean)
	assert.Equal(t, 128.0, s.Median)
	assert.Zero(t, s.StdDev)
	assert.Zero(t, s.Skewness)
	assert.Zero(t, s.Kurtosis)
	assert.Zero(t, PopSkew(x))
	assert.Zero(t, PopExKurtosis(x))
}

func TestSmallSamplesFallBack(t *testing.T) {
	assert.Zero(t, Skew([]float64{1, 2}))
	assert.Zero(t, ExKurtosis([]float64{1, 2}))
	assert.Zero(t, PopSkew([]float64{1, 9}))
}

func TestSkewMatchesAdjustedEstimator(t *testing.T) {
	x := []float64{1, 2, 3, 10}
	// population skew g1 = m3/m2^1.5, adjusted G1 = g1*sqrt(n(n-1))/(n-2)
	g1 := PopSkew(x)
	assert.InDelta(t, g1*3.4641016151377544/2, Skew(x), 1e-9)
	assert.Greater(t, g1, 0.0)
}

func TestExKurtosisThreeSamplesUsesPopulation(t *testing.T) {
	x := []float64{1, 2, 6}
	assert.Equal(t, PopExKurtosis(x), ExKurtosis(x))
}

func TestSymmetricSampleHasZeroSkew(t *testing.T) {
	assert.InDelta(t, 0, Skew([]float64{1, 2, 3, 4, 5}), 1e-12)
	assert.InDelta(t, -1.3, PopExKurtosis([]float64{1, 2, 3, 4, 5}), 1e-12)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 33.33, Round(100.0/3, 2))
	assert.Equal(t, 66.67, Round(200.0/3, 2))
	assert.Equal(t, 2.0, Round(1.995, 0))
}
