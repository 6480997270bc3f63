// Package particle measures the shape of individual tea particles from their
// contours.
package particle

import (
	"errors"
	"fmt"
	"image"
	"math"

	"qualitea/internal/segment"
	"qualitea/pkg/geometry"

	"gocv.io/x/gocv"
)

// ErrDegenerateGeometry marks a contour whose shape descriptors are
// undefined (its minimum-area rectangle has a zero side). Such contours are
// skipped individually; they never abort an analysis.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Features is the geometric description of one contour.
type Features struct {
	Index int `json:"index"`

	Area        float64          `json:"area"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	AspectRatio float64          `json:"aspect_ratio"`
	Solidity    float64          `json:"solidity"`
	Extent      float64          `json:"extent"`
	Perimeter   float64          `json:"perimeter"`
	Roundness   float64          `json:"roundness"`
	Compactness float64          `json:"compactness"`
	Bounds      geometry.RectInt `json:"bounds"`

	Elongation      float64     `json:"elongation"`
	LongestDistance float64     `json:"longest_distance"`
	BoundaryTouch   bool        `json:"boundary_touch"`
	Centroid        image.Point `json:"centroid"`
}

// SizeVector returns the nine size/shape descriptors used for clustering, in
// the order area, width, height, aspect ratio, solidity, extent, perimeter,
// roundness, compactness.
func (f Features) SizeVector() []float64 {
	return []float64{
		f.Area,
		float64(f.Width),
		float64(f.Height),
		f.AspectRatio,
		f.Solidity,
		f.Extent,
		f.Perimeter,
		f.Roundness,
		f.Compactness,
	}
}

// PerimeterAreaRatio returns perimeter / area, or 0 for a zero area.
func (f Features) PerimeterAreaRatio() float64 {
	return ratio(f.Perimeter, f.Area)
}

// Shape computes the size/shape descriptors of a contour: area, bounding
// rectangle, aspect ratio, solidity, extent, perimeter, roundness and
// compactness. Every ratio with a zero denominator is reported as 0.
func Shape(c segment.Contour) Features {
	f := Features{Index: c.Index, Area: c.Area}
	if len(c.Points) == 0 {
		return f
	}

	pv := gocv.NewPointVectorFromPoints(c.Points)
	defer pv.Close()

	rect := gocv.BoundingRect(pv)
	f.Bounds = geometry.FromImageRect(rect)
	f.Width, f.Height = rect.Dx(), rect.Dy()
	f.AspectRatio = ratio(float64(f.Width), float64(f.Height))

	hullArea := geometry.PolygonArea(geometry.ConvexHull(geometry.FromImagePoints(c.Points)))
	f.Solidity = ratio(f.Area, hullArea)
	f.Extent = ratio(f.Area, float64(f.Width*f.Height))

	f.Perimeter = gocv.ArcLength(pv, true)
	f.Roundness = ratio(4*math.Pi*f.Area, f.Perimeter*f.Perimeter)
	f.Compactness = ratio(f.Perimeter*f.Perimeter, f.Area)
	return f
}

// Measure computes the full descriptor set of a contour within a
// width x height image. When the minimum-area rectangle has a zero side the
// returned error wraps ErrDegenerateGeometry; the other fields are still set.
func Measure(c segment.Contour, width, height int) (Features, error) {
	f := Shape(c)
	f.LongestDistance = geometry.LongestDistance(c.Points)
	f.BoundaryTouch = geometry.TouchesBorder(c.Points, width, height)
	if len(c.Points) == 0 {
		return f, fmt.Errorf("contour %d: no points: %w", c.Index, ErrDegenerateGeometry)
	}

	pv := gocv.NewPointVectorFromPoints(c.Points)
	defer pv.Close()
	f.Centroid = Centroid(pv)

	rect := gocv.MinAreaRect2f(pv)
	long := float64(max(rect.Width, rect.Height))
	short := float64(min(rect.Width, rect.Height))
	if short == 0 {
		return f, fmt.Errorf("contour %d: zero-width minimum rectangle: %w", c.Index, ErrDegenerateGeometry)
	}
	f.Elongation = long / short
	return f, nil
}

// Centroid returns the first-moment centroid of a contour, truncated to whole
// pixels. Contours enclosing no area fall back to their first point.
func Centroid(pv gocv.PointVector) image.Point {
	if pv.Size() == 0 {
		return image.Point{}
	}
	points := gocv.NewMatFromPointVector(pv, true)
	defer points.Close()

	m := gocv.Moments(points, false)
	if m["m00"] == 0 {
		return pv.At(0)
	}
	return image.Point{X: int(m["m10"] / m["m00"]), Y: int(m["m01"] / m["m00"])}
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
