package colorstats

import (
	"fmt"

	"qualitea/pkg/stats"
)

// VectorLen is the length of a color feature vector:
// 5 statistics x 3 channels x 4 spaces.
const VectorLen = 5 * 3 * len(FeatureSpaces)

// SpaceStats holds per-channel summaries for one color space.
type SpaceStats struct {
	Space    Space            `json:"-"`
	Name     string           `json:"space"`
	Channels [3]stats.Summary `json:"channels"`
}

// Vector is the 60-value color description of a pixel population.
type Vector struct {
	Spaces [len(FeatureSpaces)]SpaceStats `json:"spaces"`
	Pixels int                            `json:"pixels"`
}

// Compute summarizes the population in RGB, HSV, LAB and YCrCb. Skewness and
// kurtosis are bias-corrected. Returns ErrNoPixels for an empty population.
func Compute(p Pixels) (*Vector, error) {
	if p.Len() == 0 {
		return nil, ErrNoPixels
	}
	v := &Vector{Pixels: p.Len()}
	for i, space := range FeatureSpaces {
		channels, err := p.Channels(space)
		if err != nil {
			return nil, fmt.Errorf("%s channels: %w", space, err)
		}
		v.Spaces[i] = SpaceStats{Space: space, Name: space.String()}
		for c, values := range channels {
			v.Spaces[i].Channels[c] = stats.Summarize(values)
		}
	}
	return v, nil
}

// Values flattens the vector in classifier order: for each space, the three
// channel means, then medians, standard deviations, skewness and kurtosis.
func (v *Vector) Values() []float64 {
	out := make([]float64, 0, VectorLen)
	for _, s := range v.Spaces {
		ch := s.Channels
		out = append(out, ch[0].Mean, ch[1].Mean, ch[2].Mean)
		out = append(out, ch[0].Median, ch[1].Median, ch[2].Median)
		out = append(out, ch[0].StdDev, ch[1].StdDev, ch[2].StdDev)
		out = append(out, ch[0].Skewness, ch[1].Skewness, ch[2].Skewness)
		out = append(out, ch[0].Kurtosis, ch[1].Kurtosis, ch[2].Kurtosis)
	}
	return out
}
