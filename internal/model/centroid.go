package model

import (
	"context"
	"fmt"
	"math"
)

// minStd keeps near-constant features from dominating the distance.
const minStd = 1e-3

// Class is the feature distribution of one label.
type Class struct {
	Label string    `json:"label"`
	Mean  []float64 `json:"mean"`
	Std   []float64 `json:"std"`
}

// CentroidClassifier predicts the label whose class distribution is closest
// to the features, measured as the per-feature standardized distance.
type CentroidClassifier struct {
	Classes []Class `json:"classes"`
}

// LoadCentroid reads a CentroidClassifier from a JSON file.
func LoadCentroid(path string) (*CentroidClassifier, error) {
	var c CentroidClassifier
	if err := loadJSON(path, &c); err != nil {
		return nil, err
	}
	if len(c.Classes) == 0 {
		return nil, fmt.Errorf("classifier %s: no classes", path)
	}
	dim := len(c.Classes[0].Mean)
	for _, cl := range c.Classes {
		if len(cl.Mean) != dim || (len(cl.Std) != 0 && len(cl.Std) != dim) {
			return nil, fmt.Errorf("classifier %s: class %q: %w", path, cl.Label, ErrDimension)
		}
	}
	return &c, nil
}

// Predict returns the label of the nearest class. Ties keep the first class.
func (c *CentroidClassifier) Predict(_ context.Context, features []float64) (string, error) {
	if len(c.Classes) == 0 {
		return "", ErrUnavailable
	}
	best, bestDist := "", math.Inf(1)
	for _, cl := range c.Classes {
		if err := checkDim(len(features), len(cl.Mean)); err != nil {
			return "", err
		}
		if d := cl.distance(features); d < bestDist {
			best, bestDist = cl.Label, d
		}
	}
	return best, nil
}

func (cl Class) distance(x []float64) float64 {
	var sum float64
	for i, v := range x {
		s := 1.0
		if len(cl.Std) > 0 {
			s = max(cl.Std[i], minStd)
		}
		d := (v - cl.Mean[i]) / s
		sum += d * d
	}
	return math.Sqrt(sum)
}
