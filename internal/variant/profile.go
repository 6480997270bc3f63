// Package variant builds the feature vector of the tea variant classifier:
// a color profile of the larger particles followed by the small-particle
// size statistics.
package variant

import (
	"context"
	"fmt"

	"qualitea/internal/colorstats"
	"qualitea/internal/segment"
	"qualitea/pkg/stats"

	"gocv.io/x/gocv"
)

// ProfileLen is the length of Profile.Values.
const ProfileLen = 21

// Channel summarizes one channel of the profiled pixels.
type Channel struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

func summarize(x []float64) Channel {
	return Channel{Mean: stats.Mean(x), Median: stats.Median(x), StdDev: stats.PopStdDev(x)}
}

// Profile is the pooled color description of the profiled particles.
// Brightness repeats the HSV value channel.
type Profile struct {
	R          Channel `json:"r"`
	G          Channel `json:"g"`
	B          Channel `json:"b"`
	H          Channel `json:"h"`
	S          Channel `json:"s"`
	V          Channel `json:"v"`
	Brightness Channel `json:"brightness"`
	Pixels     int     `json:"pixels"`
}

// Values returns mean, median and standard deviation of R, G, B, H, S, V and
// brightness, in that order.
func (p Profile) Values() []float64 {
	out := make([]float64, 0, ProfileLen)
	for _, c := range []Channel{p.R, p.G, p.B, p.H, p.S, p.V, p.Brightness} {
		out = append(out, c.Mean, c.Median, c.StdDev)
	}
	return out
}

// ProfileParticles returns the outer contours of set that exceed minArea and
// do not touch the image border. The reference box is not excluded.
func ProfileParticles(set *segment.ContourSet, minArea float64) []segment.Contour {
	var out []segment.Contour
	for _, c := range set.Contours {
		if c.Area > minArea && !c.IsHole() && !set.TouchesBorder(c) {
			out = append(out, c)
		}
	}
	return out
}

// ColorProfile pools the pixels of the profiled particles of img and
// summarizes them in RGB and HSV. Returns an error wrapping
// colorstats.ErrNoPixels when no particle qualifies.
func ColorProfile(ctx context.Context, img gocv.Mat, set *segment.ContourSet, minArea float64, workers int) (*Profile, error) {
	regions, err := colorstats.CollectRegions(ctx, img, ProfileParticles(set, minArea), workers)
	if err != nil {
		return nil, fmt.Errorf("collect profile pixels: %w", err)
	}
	pixels := colorstats.Concat(regions...)

	rgb, err := pixels.Channels(colorstats.RGB)
	if err != nil {
		return nil, fmt.Errorf("color profile: %w", err)
	}
	hsv, err := pixels.Channels(colorstats.HSV)
	if err != nil {
		return nil, fmt.Errorf("color profile: %w", err)
	}

	p := &Profile{
		R:      summarize(rgb[0]),
		G:      summarize(rgb[1]),
		B:      summarize(rgb[2]),
		H:      summarize(hsv[0]),
		S:      summarize(hsv[1]),
		V:      summarize(hsv[2]),
		Pixels: pixels.Len(),
	}
	p.Brightness = p.V
	return p, nil
}
