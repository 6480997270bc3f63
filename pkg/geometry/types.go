// Package geometry provides the planar primitives used to measure particle outlines.
package geometry

import "image"

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FromImagePoints converts pixel coordinates to Point2D.
func FromImagePoints(points []image.Point) []Point2D {
	out := make([]Point2D, len(points))
	for i, p := range points {
		out[i] = Point2D{X: float64(p.X), Y: float64(p.Y)}
	}
	return out
}

// RectInt represents a rectangle with integer coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FromImageRect converts an image.Rectangle.
func FromImageRect(r image.Rectangle) RectInt {
	return RectInt{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
