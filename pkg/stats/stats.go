// Package stats provides the distribution summaries used for particle and
// pixel feature vectors. Population moments match the conventions the
// downstream classifiers were trained with; skewness and kurtosis come in a
// bias-corrected and a population flavor.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// minHigherMoments is the smallest sample count for which skewness and
// kurtosis are computed; smaller samples report 0.
const minHigherMoments = 3

// Summary is the distributional vector reported per channel or feature.
type Summary struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// Summarize computes mean, median, population standard deviation and the
// bias-corrected skewness and excess kurtosis of x.
func Summarize(x []float64) Summary {
	return Summary{
		Mean:     Mean(x),
		Median:   Median(x),
		StdDev:   PopStdDev(x),
		Skewness: Skew(x),
		Kurtosis: ExKurtosis(x),
	}
}

// Mean returns the arithmetic mean, or 0 for an empty sample.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// Sum returns the sum of x.
func Sum(x []float64) float64 {
	return floats.Sum(x)
}

// Median returns the middle value of x, averaging the two central values for
// even-sized samples. Returns 0 for an empty sample.
func Median(x []float64) float64 {
	return Percentile(x, 50)
}

// Percentile returns the p-th percentile (0-100) of x using linear
// interpolation between closest ranks. Returns 0 for an empty sample.
func Percentile(x []float64, p float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// PopStdDev returns the population standard deviation (divisor n).
func PopStdDev(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(stat.Moment(2, x, nil))
}

// Skew returns the bias-corrected sample skewness (adjusted Fisher-Pearson).
// Samples smaller than three or without spread report 0.
func Skew(x []float64) float64 {
	if len(x) < minHigherMoments || flat(x) {
		return 0
	}
	return stat.Skew(x, nil)
}

// ExKurtosis returns the bias-corrected sample excess kurtosis. The
// correction needs four samples; exactly three fall back to the population
// estimator. Samples smaller than three or without spread report 0.
func ExKurtosis(x []float64) float64 {
	if len(x) < minHigherMoments || flat(x) {
		return 0
	}
	if len(x) == minHigherMoments {
		return PopExKurtosis(x)
	}
	return stat.ExKurtosis(x, nil)
}

// PopSkew returns the population (biased) skewness m3 / m2^1.5. Samples
// smaller than three or without spread report 0, where the moment ratio
// itself is undefined (NaN).
func PopSkew(x []float64) float64 {
	if len(x) < minHigherMoments || flat(x) {
		return 0
	}
	m2 := stat.Moment(2, x, nil)
	return stat.Moment(3, x, nil) / math.Pow(m2, 1.5)
}

// PopExKurtosis returns the population (biased) excess kurtosis
// m4 / m2^2 - 3. Samples smaller than three or without spread report 0,
// where the moment ratio itself is undefined (NaN).
func PopExKurtosis(x []float64) float64 {
	if len(x) < minHigherMoments || flat(x) {
		return 0
	}
	m2 := stat.Moment(2, x, nil)
	return stat.Moment(4, x, nil)/(m2*m2) - 3
}

// flat reports whether x has no measurable spread.
func flat(x []float64) bool {
	lo, hi := floats.Min(x), floats.Max(x)
	return hi-lo <= 1e-12*math.Max(1, math.Abs(hi))
}

// Round rounds v to the given number of decimals, half away from zero.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
