package segment

import (
	"image"

	"qualitea/pkg/geometry"

	"gocv.io/x/gocv"
)

// Contour is the closed outline of one connected foreground region, or of a
// hole inside one. Points are simplified (runs of collinear pixels collapse
// to their endpoints).
type Contour struct {
	Index  int           // position in the extraction order
	Parent int           // enclosing contour index, -1 for outer contours
	Points []image.Point // closed boundary polygon
	Area   float64       // enclosed polygon area in px²
}

// IsHole reports whether the contour is nested inside another contour.
func (c Contour) IsHole() bool {
	return c.Parent != -1
}

// Perimeter returns the closed arc length of the contour.
func (c Contour) Perimeter() float64 {
	if len(c.Points) == 0 {
		return 0
	}
	pv := gocv.NewPointVectorFromPoints(c.Points)
	defer pv.Close()
	return gocv.ArcLength(pv, true)
}

// ContourSet holds every contour of one mask together with the image size
// the coordinates refer to.
type ContourSet struct {
	Contours []Contour
	Width    int
	Height   int
}

// Extract traces the boundaries of all foreground regions in a binary mask.
// The hierarchy has two levels: outer boundaries (Parent -1) and the holes
// directly inside them. Regions nested inside a hole are reported as outer
// contours again. Returns ErrNoContours when nothing is found.
func Extract(mask gocv.Mat) (*ContourSet, error) {
	if mask.Empty() {
		return nil, ErrEmptyImage
	}

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()
	contours := gocv.FindContoursWithParams(mask, &hierarchy, gocv.RetrievalCComp, gocv.ChainApproxSimple)
	defer contours.Close()

	if hierarchy.Empty() || contours.Size() == 0 {
		return nil, ErrNoContours
	}

	points := contours.ToPoints()
	set := &ContourSet{
		Contours: make([]Contour, len(points)),
		Width:    mask.Cols(),
		Height:   mask.Rows(),
	}
	for i, pts := range points {
		parent := -1
		if i < hierarchy.Cols() {
			// [next, previous, first child, parent]
			parent = int(hierarchy.GetVeciAt(0, i)[3])
		}
		set.Contours[i] = Contour{
			Index:  i,
			Parent: parent,
			Points: pts,
			Area:   gocv.ContourArea(contours.At(i)),
		}
	}
	return set, nil
}

// PositiveAreas returns the areas of all contours enclosing a positive area.
func (s *ContourSet) PositiveAreas() []float64 {
	var areas []float64
	for _, c := range s.Contours {
		if c.Area > 0 {
			areas = append(areas, c.Area)
		}
	}
	return areas
}

// TouchesBorder reports whether the contour lies on the first or last row or
// column of the image the set was extracted from.
func (s *ContourSet) TouchesBorder(c Contour) bool {
	return geometry.TouchesBorder(c.Points, s.Width, s.Height)
}

// Segment binarizes img with the given threshold and extracts its contours.
func Segment(img gocv.Mat, threshold float32) (*ContourSet, error) {
	mask, err := Binarize(img, threshold)
	if err != nil {
		return nil, err
	}
	defer mask.Close()
	return Extract(mask)
}
