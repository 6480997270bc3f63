package segment

import (
	"image"
	"image/color"

	"qualitea/pkg/colorutil"

	"gocv.io/x/gocv"
)

// NewMask returns a zeroed single-channel mask of the given size.
func NewMask(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8U)
}

// FillMask returns a single-channel mask with the given contours filled
// with 255, boundary pixels included. The caller must close it.
func FillMask(width, height int, contours ...Contour) gocv.Mat {
	mask := NewMask(width, height)
	for _, c := range contours {
		Fill(&mask, c, colorutil.White)
	}
	return mask
}

// Fill paints the interior and boundary of c onto dst.
func Fill(dst *gocv.Mat, c Contour, col color.RGBA) {
	if len(c.Points) == 0 {
		return
	}
	pts := gocv.NewPointsVectorFromPoints([][]image.Point{c.Points})
	defer pts.Close()
	gocv.DrawContours(dst, pts, 0, col, -1)
}

// Outline draws the boundary of c onto dst with the given stroke thickness.
func Outline(dst *gocv.Mat, c Contour, col color.RGBA, thickness int) {
	if len(c.Points) == 0 {
		return
	}
	pts := gocv.NewPointsVectorFromPoints([][]image.Point{c.Points})
	defer pts.Close()
	gocv.DrawContours(dst, pts, 0, col, thickness)
}

// BlankLike returns a white image with the size and type of img. The caller
// must close it.
func BlankLike(img gocv.Mat) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), img.Rows(), img.Cols(), img.Type())
}

// CopyRegions copies the pixels of src covered by the filled contours into
// dst. Pixels outside the contours keep their value in dst.
func CopyRegions(dst *gocv.Mat, src gocv.Mat, contours ...Contour) {
	if len(contours) == 0 {
		return
	}
	mask := FillMask(src.Cols(), src.Rows(), contours...)
	defer mask.Close()
	src.CopyToWithMask(dst, mask)
}
