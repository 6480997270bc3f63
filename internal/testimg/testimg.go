// Package testimg paints synthetic particle photographs for tests: dark
// polygons on a white BGR canvas, optionally framed by a calibration box.
package testimg

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// White is the background color of every canvas.
var White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// RGB builds an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Canvas returns a white width x height BGR image. The caller must close it.
func Canvas(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), height, width, gocv.MatTypeCV8UC3)
}

// FillPolygon paints a filled polygon including its boundary pixels.
func FillPolygon(img *gocv.Mat, pts []image.Point, c color.RGBA) {
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.FillPoly(img, pv, c)
}

// FillRect paints the pixels x0..x1, y0..y1 inclusive.
func FillRect(img *gocv.Mat, x0, y0, x1, y1 int, c color.RGBA) {
	FillPolygon(img, Rect(x0, y0, x1, y1), c)
}

// Rect returns the corner polygon of an inclusive pixel rectangle.
func Rect(x0, y0, x1, y1 int) []image.Point {
	return []image.Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// LShape returns an L-shaped outline anchored at (x, y): an 80x5 horizontal
// arm and a 5x50 vertical arm. Its polygon area is 625, perimeter 260,
// minimum-area rectangle 80x50 and longest point distance hypot(80, 50).
func LShape(x, y int) []image.Point {
	return []image.Point{
		{x, y}, {x + 80, y}, {x + 80, y + 5}, {x + 5, y + 5}, {x + 5, y + 50}, {x, y + 50},
	}
}

// Frame paints a hollow rectangular calibration frame whose outer edge is the
// inclusive rectangle x0..x1, y0..y1.
func Frame(img *gocv.Mat, x0, y0, x1, y1, thickness int, c color.RGBA) {
	FillRect(img, x0, y0, x1, y1, c)
	FillRect(img, x0+thickness, y0+thickness, x1-thickness, y1-thickness, White)
}
