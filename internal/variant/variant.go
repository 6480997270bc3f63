package variant

import (
	"context"
	"errors"
	"fmt"

	"qualitea/internal/colorstats"
	"qualitea/internal/segment"
	"qualitea/internal/sizecluster"

	"gocv.io/x/gocv"
)

// VectorLen is the length of Features.Vector.
const VectorLen = ProfileLen + sizecluster.StatsLen

// Params configures feature extraction.
type Params struct {
	MinProfileArea float64 // noise floor of the color profile, px²
	Size           sizecluster.Params
}

// DefaultParams returns the extraction the variant classifier was trained
// with.
func DefaultParams() Params {
	return Params{
		MinProfileArea: 300,
		Size:           sizecluster.DefaultParams(),
	}
}

// Features is the extracted input of the variant classifier.
type Features struct {
	Profile *Profile           `json:"color_profile"`
	Size    *sizecluster.Stats `json:"size_statistics"`
}

// Vector concatenates the color profile and the size statistics. Either part
// missing makes the vector unavailable; the error then wraps
// colorstats.ErrNoPixels.
func (f Features) Vector() ([]float64, error) {
	if f.Profile == nil {
		return nil, fmt.Errorf("no color profile: %w", colorstats.ErrNoPixels)
	}
	if f.Size == nil {
		return nil, fmt.Errorf("no small particles: %w", colorstats.ErrNoPixels)
	}
	out := make([]float64, 0, VectorLen)
	out = append(out, f.Profile.Values()...)
	return append(out, f.Size.Values()...), nil
}

// Extract computes the color profile and small-particle statistics of img.
// A part that cannot be computed is left nil; only unexpected failures are
// returned as errors.
func Extract(ctx context.Context, img gocv.Mat, set *segment.ContourSet, p Params, workers int) (*Features, error) {
	f := &Features{}

	profile, err := ColorProfile(ctx, img, set, p.MinProfileArea, workers)
	switch {
	case err == nil:
		f.Profile = profile
	case !errors.Is(err, colorstats.ErrNoPixels):
		return nil, err
	}

	size, err := sizecluster.Analyze(ctx, set, p.Size, workers)
	if err != nil {
		return nil, err
	}
	f.Size = size.Stats
	return f, nil
}
