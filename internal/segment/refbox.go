package segment

import (
	"qualitea/pkg/geometry"

	"gocv.io/x/gocv"
)

// Reference box detection parameters.
const (
	boxEpsilonRatio = 0.02 // polygon approximation tolerance, fraction of perimeter
	boxVertices     = 4
	boxBorderMargin = 10 // px; the frame is printed close to the photo edge
)

// ReferenceBox is the printed calibration frame found in a photo. Particles
// inside it are excluded from analysis; the frame itself is not a particle.
type ReferenceBox struct {
	Contour Contour
}

// FindReferenceBox returns the largest contour that approximates to a
// quadrilateral and comes within boxBorderMargin pixels of an image edge.
// Returns nil when no contour qualifies; that is not an error.
func FindReferenceBox(set *ContourSet) *ReferenceBox {
	var best *ReferenceBox
	var bestArea float64

	for _, c := range set.Contours {
		if len(c.Points) < boxVertices || c.Area <= bestArea {
			continue
		}
		if !geometry.NearBorder(c.Points, set.Width, set.Height, boxBorderMargin) {
			continue
		}
		if !isQuadrilateral(c) {
			continue
		}
		bestArea = c.Area
		best = &ReferenceBox{Contour: c}
	}
	return best
}

func isQuadrilateral(c Contour) bool {
	pv := gocv.NewPointVectorFromPoints(c.Points)
	defer pv.Close()
	approx := gocv.ApproxPolyDP(pv, boxEpsilonRatio*gocv.ArcLength(pv, true), true)
	defer approx.Close()
	return approx.Size() == boxVertices
}

// Contains reports whether the contour's first vertex lies inside or on the
// box outline. A nil box or a contour without points is never inside.
func (b *ReferenceBox) Contains(c Contour) bool {
	if b == nil || len(c.Points) == 0 || len(b.Contour.Points) == 0 {
		return false
	}
	pv := gocv.NewPointVectorFromPoints(b.Contour.Points)
	defer pv.Close()
	return gocv.PointPolygonTest(pv, c.Points[0], false) >= 0
}
