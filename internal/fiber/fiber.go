// Package fiber detects thin fibers among tea particles by thresholding
// their geometry.
package fiber

import (
	"context"
	"fmt"

	"qualitea/internal/particle"
	"qualitea/internal/segment"
	"qualitea/pkg/stats"

	"gocv.io/x/gocv"
)

// Report is the fiber summary returned to clients.
type Report struct {
	Fibers     int     `json:"number_of_thin_particles"`
	Total      int     `json:"total_number_of_particles"`
	Percentage float64 `json:"fiber_percentage"`
}

// Particle is one measured contour above the noise floor.
type Particle struct {
	Contour  segment.Contour
	Features particle.Features
	Valid    bool // false when elongation is undefined
	Eligible bool // outer and not clipped by the image border
	Fiber    bool
	Label    string // empty when !Valid
}

// Result holds the report and its overlays. Close releases the images.
type Result struct {
	Report    Report
	Particles []Particle

	// Fibers shows only the fiber particles on white, each labelled.
	Fibers gocv.Mat
	// Segmented shows every measured particle outlined, holes blanked and
	// valid particles labelled.
	Segmented gocv.Mat
}

// Close releases the overlay images.
func (r *Result) Close() {
	r.Fibers.Close()
	r.Segmented.Close()
}

// Matches reports whether features fall inside every fiber band. It does not
// check topology or the image border.
func (p Params) Matches(f particle.Features) bool {
	pa := f.PerimeterAreaRatio()
	return f.Area >= p.MinArea && f.Area <= p.MaxArea &&
		f.Elongation >= p.MinElongation && f.Elongation <= p.MaxElongation &&
		pa >= p.MinPARatio && pa <= p.MaxPARatio &&
		f.LongestDistance > p.MinLongest
}

// Label returns the annotation drawn next to a particle.
func Label(f particle.Features) string {
	return fmt.Sprintf("A:%d E:%.1f H:%d P/A:%.2f",
		int(f.Area), f.Elongation, int(f.LongestDistance), f.PerimeterAreaRatio())
}

// Classify measures every contour of set that lies outside box and exceeds
// the noise floor, applies the fiber test and renders both overlays from img.
// The percentage is taken over outer, non-border contours above the floor and
// is 0 when there are none.
func Classify(ctx context.Context, img gocv.Mat, set *segment.ContourSet, box *segment.ReferenceBox, p Params, workers int) (*Result, error) {
	var candidates []segment.Contour
	for _, c := range set.Contours {
		if box.Contains(c) || c.Area <= p.MinContourArea {
			continue
		}
		candidates = append(candidates, c)
	}

	ms, err := particle.MeasureAll(ctx, set, candidates, workers)
	if err != nil {
		return nil, fmt.Errorf("measure fibers: %w", err)
	}

	res := &Result{Particles: make([]Particle, len(candidates))}
	for i, c := range candidates {
		m := ms[i]
		pt := Particle{
			Contour:  c,
			Features: m.Features,
			Valid:    m.Valid(),
			Eligible: !c.IsHole() && !m.Features.BoundaryTouch,
		}
		if pt.Eligible {
			res.Report.Total++
		}
		if pt.Valid {
			pt.Label = Label(m.Features)
			pt.Fiber = pt.Eligible && p.Matches(m.Features)
		}
		if pt.Fiber {
			res.Report.Fibers++
		}
		res.Particles[i] = pt
	}
	res.Report.Percentage = percentage(res.Report.Fibers, res.Report.Total)

	res.Segmented = drawSegmented(img, res.Particles)
	res.Fibers = drawFibers(img, res.Particles)
	return res, nil
}

func percentage(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return stats.Round(100*float64(n)/float64(total), 2)
}
