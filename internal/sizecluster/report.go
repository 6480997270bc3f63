package sizecluster

import (
	"context"
	"fmt"

	"qualitea/internal/particle"
	"qualitea/internal/segment"
	"qualitea/pkg/stats"
)

// StatsLen is the length of Stats.Values.
const StatsLen = 25

// Stats summarizes the small-particle population.
type Stats struct {
	Count     int     `json:"small_particle_count"`
	TotalArea float64 `json:"total_small_particle_area"`
	MeanArea  float64 `json:"mean_small_particle_area"`
	Median    float64 `json:"median_small_particle_area"`
	StdArea   float64 `json:"std_dev_small_particle_area"`
	SkewArea  float64 `json:"skewness_small_particle_area"`
	KurtArea  float64 `json:"kurtosis_small_particle_area"`

	MeanWidth    float64 `json:"mean_width"`
	MedianWidth  float64 `json:"median_width"`
	StdWidth     float64 `json:"std_dev_width"`
	MeanHeight   float64 `json:"mean_height"`
	MedianHeight float64 `json:"median_height"`
	StdHeight    float64 `json:"std_dev_height"`

	MeanAspect      float64 `json:"mean_aspect_ratio"`
	StdAspect       float64 `json:"std_aspect_ratio"`
	MeanSolidity    float64 `json:"mean_solidity"`
	StdSolidity     float64 `json:"std_solidity"`
	MeanExtent      float64 `json:"mean_extent"`
	StdExtent       float64 `json:"std_extent"`
	MeanPerimeter   float64 `json:"mean_perimeter"`
	StdPerimeter    float64 `json:"std_perimeter"`
	MeanRoundness   float64 `json:"mean_roundness"`
	StdRoundness    float64 `json:"std_roundness"`
	MeanCompactness float64 `json:"mean_compactness"`
	StdCompactness  float64 `json:"std_compactness"`
}

// Values returns the statistics in their fixed vector order.
func (s Stats) Values() []float64 {
	return []float64{
		float64(s.Count), s.TotalArea, s.MeanArea, s.Median, s.StdArea, s.SkewArea, s.KurtArea,
		s.MeanWidth, s.MedianWidth, s.StdWidth,
		s.MeanHeight, s.MedianHeight, s.StdHeight,
		s.MeanAspect, s.StdAspect,
		s.MeanSolidity, s.StdSolidity,
		s.MeanExtent, s.StdExtent,
		s.MeanPerimeter, s.StdPerimeter,
		s.MeanRoundness, s.StdRoundness,
		s.MeanCompactness, s.StdCompactness,
	}
}

// Summarize computes Stats over a particle population. Area skewness and
// kurtosis use the population estimator. Returns nil for an empty population.
func Summarize(fs []particle.Features) *Stats {
	if len(fs) == 0 {
		return nil
	}
	col := func(get func(particle.Features) float64) []float64 {
		out := make([]float64, len(fs))
		for i, f := range fs {
			out[i] = get(f)
		}
		return out
	}
	area := col(func(f particle.Features) float64 { return f.Area })
	width := col(func(f particle.Features) float64 { return float64(f.Width) })
	height := col(func(f particle.Features) float64 { return float64(f.Height) })
	aspect := col(func(f particle.Features) float64 { return f.AspectRatio })
	solidity := col(func(f particle.Features) float64 { return f.Solidity })
	extent := col(func(f particle.Features) float64 { return f.Extent })
	perimeter := col(func(f particle.Features) float64 { return f.Perimeter })
	roundness := col(func(f particle.Features) float64 { return f.Roundness })
	compactness := col(func(f particle.Features) float64 { return f.Compactness })

	return &Stats{
		Count:     len(fs),
		TotalArea: stats.Sum(area),
		MeanArea:  stats.Mean(area),
		Median:    stats.Median(area),
		StdArea:   stats.PopStdDev(area),
		SkewArea:  stats.PopSkew(area),
		KurtArea:  stats.PopExKurtosis(area),

		MeanWidth:    stats.Mean(width),
		MedianWidth:  stats.Median(width),
		StdWidth:     stats.PopStdDev(width),
		MeanHeight:   stats.Mean(height),
		MedianHeight: stats.Median(height),
		StdHeight:    stats.PopStdDev(height),

		MeanAspect:      stats.Mean(aspect),
		StdAspect:       stats.PopStdDev(aspect),
		MeanSolidity:    stats.Mean(solidity),
		StdSolidity:     stats.PopStdDev(solidity),
		MeanExtent:      stats.Mean(extent),
		StdExtent:       stats.PopStdDev(extent),
		MeanPerimeter:   stats.Mean(perimeter),
		StdPerimeter:    stats.PopStdDev(perimeter),
		MeanRoundness:   stats.Mean(roundness),
		StdRoundness:    stats.PopStdDev(roundness),
		MeanCompactness: stats.Mean(compactness),
		StdCompactness:  stats.PopStdDev(compactness),
	}
}

// Result is the outcome of a size analysis.
type Result struct {
	Assignment Assignment
	Particles  []particle.Features // every positive-area contour, clustered
	Small      []particle.Features // outer, non-boundary members of small clusters
	Stats      *Stats              // nil when Small is empty
}

// Analyze clusters every positive-area contour of set and summarizes the
// small-particle population: outer contours that do not touch the image
// border. The reference box is not excluded here.
func Analyze(ctx context.Context, set *segment.ContourSet, p Params, workers int) (*Result, error) {
	var positive []segment.Contour
	for _, c := range set.Contours {
		if c.Area > 0 {
			positive = append(positive, c)
		}
	}

	ms, err := particle.MeasureAll(ctx, set, positive, workers)
	if err != nil {
		return nil, fmt.Errorf("measure particles: %w", err)
	}
	res := &Result{Particles: make([]particle.Features, len(ms))}
	for i, m := range ms {
		res.Particles[i] = m.Features
	}

	res.Assignment = Cluster(res.Particles, p)
	for i, c := range positive {
		if c.IsHole() || res.Particles[i].BoundaryTouch || !res.Assignment.IsSmall(i) {
			continue
		}
		res.Small = append(res.Small, res.Particles[i])
	}
	res.Stats = Summarize(res.Small)
	return res, nil
}
