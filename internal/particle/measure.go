package particle

import (
	"context"
	"errors"
	"runtime"

	"qualitea/internal/segment"

	"golang.org/x/sync/errgroup"
)

// Measurement pairs a contour's features with the per-contour outcome.
// Err is nil or wraps ErrDegenerateGeometry.
type Measurement struct {
	Features Features
	Err      error
}

// Valid reports whether all descriptors, elongation included, are defined.
func (m Measurement) Valid() bool {
	return m.Err == nil
}

// MeasureAll measures the selected contours concurrently using up to workers
// goroutines (GOMAXPROCS when workers < 1). Results are indexed like the
// input slice and returned only after every contour is measured.
func MeasureAll(ctx context.Context, set *segment.ContourSet, contours []segment.Contour, workers int) ([]Measurement, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]Measurement, len(contours))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range contours {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := Measure(c, set.Width, set.Height)
			if err != nil && !errors.Is(err, ErrDegenerateGeometry) {
				return err
			}
			out[i] = Measurement{Features: f, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
