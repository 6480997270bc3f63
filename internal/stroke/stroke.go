// Package stroke finds oxidized ("brown") tea particles by their mean color.
package stroke

import (
	"context"
	"fmt"

	"qualitea/internal/colorstats"
	"qualitea/internal/segment"
	"qualitea/pkg/colorutil"
	"qualitea/pkg/stats"

	"gocv.io/x/gocv"
)

// Report is the brown particle summary returned to clients. Averages are
// taken over the pooled pixels of the respective particles.
type Report struct {
	Eligible int     `json:"number_of_external_contours"`
	Brown    int     `json:"number_of_brown_particles"`
	Ratio    float64 `json:"brown_particle_ratio"`

	AllR   float64 `json:"average_all_r"`
	AllG   float64 `json:"average_all_g"`
	AllB   float64 `json:"average_all_b"`
	BrownR float64 `json:"average_brown_r"`
	BrownG float64 `json:"average_brown_g"`
	BrownB float64 `json:"average_brown_b"`
}

// Particle is one eligible contour with its mean color.
type Particle struct {
	Contour segment.Contour
	Mean    colorutil.RGB
	Pixels  int
	Brown   bool
}

// Result holds the report and the brown-only overlay. Close releases the
// image.
type Result struct {
	Report    Report
	Particles []Particle
	// Overlay shows only the brown particles on white.
	Overlay gocv.Mat
}

// Close releases the overlay image.
func (r *Result) Close() {
	r.Overlay.Close()
}

// UpperArea returns the exclusive upper area bound for eligible particles.
func (p Params) UpperArea(set *segment.ContourSet) float64 {
	areas := set.PositiveAreas()
	if len(areas) == 0 {
		return p.DefaultUpper * p.UpperFactor
	}
	return stats.Percentile(areas, p.UpperPercentile) * p.UpperFactor
}

// Eligible reports whether c takes part in the brown test: outer, inside the
// area window, outside box and not clipped by the image border.
func (p Params) Eligible(set *segment.ContourSet, box *segment.ReferenceBox, c segment.Contour, upper float64) bool {
	return c.Area > p.MinArea && c.Area < upper &&
		!c.IsHole() && !box.Contains(c) && !set.TouchesBorder(c)
}

// Classify tests every eligible contour of set and renders the brown
// particles of img on a white overlay. The ratio is 0 when no particle is
// eligible; averages are 0 for empty populations.
func Classify(ctx context.Context, img gocv.Mat, set *segment.ContourSet, box *segment.ReferenceBox, p Params, workers int) (*Result, error) {
	upper := p.UpperArea(set)
	var eligible []segment.Contour
	for _, c := range set.Contours {
		if p.Eligible(set, box, c, upper) {
			eligible = append(eligible, c)
		}
	}

	pixels, err := colorstats.CollectRegions(ctx, img, eligible, workers)
	if err != nil {
		return nil, fmt.Errorf("collect particle pixels: %w", err)
	}

	res := &Result{Particles: make([]Particle, len(eligible))}
	var brownPixels []colorstats.Pixels
	var brownContours []segment.Contour
	for i, c := range eligible {
		pt := Particle{Contour: c, Pixels: pixels[i].Len()}
		if mean, err := pixels[i].MeanRGB(); err == nil {
			pt.Mean = mean
			pt.Brown = p.IsBrown(mean)
		}
		if pt.Brown {
			brownPixels = append(brownPixels, pixels[i])
			brownContours = append(brownContours, c)
		}
		res.Particles[i] = pt
	}

	res.Report = Report{
		Eligible: len(eligible),
		Brown:    len(brownContours),
	}
	if len(eligible) > 0 {
		res.Report.Ratio = stats.Round(100*float64(len(brownContours))/float64(len(eligible)), 2)
	}
	allMean := meanOrZero(colorstats.Concat(pixels...))
	brownMean := meanOrZero(colorstats.Concat(brownPixels...))
	res.Report.AllR, res.Report.AllG, res.Report.AllB = allMean.R, allMean.G, allMean.B
	res.Report.BrownR, res.Report.BrownG, res.Report.BrownB = brownMean.R, brownMean.G, brownMean.B

	res.Overlay = segment.BlankLike(img)
	segment.CopyRegions(&res.Overlay, img, brownContours...)
	return res, nil
}

func meanOrZero(p colorstats.Pixels) colorutil.RGB {
	mean, err := p.MeanRGB()
	if err != nil {
		return colorutil.RGB{}
	}
	return mean.Round(2)
}
