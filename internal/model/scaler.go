package model

import "fmt"

// StandardScaler centers and scales each feature: (x - mean) / scale.
// A zero scale leaves the centered value unscaled.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// LoadScaler reads a StandardScaler from a JSON file.
func LoadScaler(path string) (*StandardScaler, error) {
	var s StandardScaler
	if err := loadJSON(path, &s); err != nil {
		return nil, err
	}
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("scaler %s: %d means and %d scales", path, len(s.Mean), len(s.Scale))
	}
	return &s, nil
}

// Transform returns the scaled copy of features.
func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if err := checkDim(len(features), len(s.Mean)); err != nil {
		return nil, err
	}
	out := make([]float64, len(features))
	for i, x := range features {
		out[i] = x - s.Mean[i]
		if s.Scale[i] != 0 {
			out[i] /= s.Scale[i]
		}
	}
	return out, nil
}
