// Package model adapts the pre-trained quality classifiers: feature scalers
// and label predictors loaded from JSON artifacts or served remotely.
package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrUnavailable is returned when a classifier artifact is not
	// configured or could not be loaded.
	ErrUnavailable = errors.New("classification unavailable")
	// ErrDimension is returned when a feature vector does not match the
	// artifact it is applied to.
	ErrDimension = errors.New("feature dimension mismatch")
)

// Predictor maps a feature vector to a categorical label.
type Predictor interface {
	Predict(ctx context.Context, features []float64) (string, error)
}

// Scaler normalizes a feature vector before prediction.
type Scaler interface {
	Transform(features []float64) ([]float64, error)
}

func checkDim(got, want int) error {
	if got != want {
		return fmt.Errorf("%w: got %d features, want %d", ErrDimension, got, want)
	}
	return nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
