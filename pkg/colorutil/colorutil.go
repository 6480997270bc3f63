// Package colorutil provides shared color utilities for overlays and color tests.
package colorutil

import (
	"image/color"
	"math"

	"qualitea/pkg/stats"
)

// Overlay colors used by the annotated result images.
var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// RGB is a mean color with floating-point channels in 0-255.
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// MaxSpread returns the largest absolute pairwise channel difference.
// Near-gray colors have a small spread.
func (c RGB) MaxSpread() float64 {
	return math.Max(math.Abs(c.R-c.G), math.Max(math.Abs(c.G-c.B), math.Abs(c.R-c.B)))
}

// Round returns the color with each channel rounded to the given decimals.
func (c RGB) Round(decimals int) RGB {
	return RGB{R: stats.Round(c.R, decimals), G: stats.Round(c.G, decimals), B: stats.Round(c.B, decimals)}
}
