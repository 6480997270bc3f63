// Package colorstats computes distributional color features over pixel
// populations in four color representations.
package colorstats

import (
	"errors"
	"fmt"

	"qualitea/pkg/colorutil"

	"gocv.io/x/gocv"
)

// ErrNoPixels is returned when a feature vector is requested for an empty
// pixel population. Callers treat it as "classification unavailable".
var ErrNoPixels = errors.New("no pixels to describe")

// Pixels is a population of 8-bit BGR samples, three bytes per pixel.
type Pixels struct {
	bgr []byte
}

// Collect gathers the pixels of a BGR image where mask is non-zero.
// The mask must be a single-channel Mat of the same size as img.
func Collect(img, mask gocv.Mat) (Pixels, error) {
	if img.Rows() != mask.Rows() || img.Cols() != mask.Cols() {
		return Pixels{}, fmt.Errorf("mask %dx%d does not match image %dx%d",
			mask.Cols(), mask.Rows(), img.Cols(), img.Rows())
	}
	if img.Channels() != 3 || mask.Channels() != 1 {
		return Pixels{}, fmt.Errorf("want 3-channel image and 1-channel mask, got %d and %d",
			img.Channels(), mask.Channels())
	}

	data := img.ToBytes()
	m := mask.ToBytes()

	var p Pixels
	for i, v := range m {
		if v != 0 {
			p.bgr = append(p.bgr, data[3*i:3*i+3]...)
		}
	}
	return p, nil
}

// FromBGR wraps raw BGR triplets.
func FromBGR(bgr []byte) Pixels {
	return Pixels{bgr: bgr[:len(bgr)/3*3]}
}

// Len returns the number of pixels.
func (p Pixels) Len() int {
	return len(p.bgr) / 3
}

// Concat returns the union of the given populations.
func Concat(parts ...Pixels) Pixels {
	var n int
	for _, p := range parts {
		n += len(p.bgr)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p.bgr...)
	}
	return Pixels{bgr: out}
}

// WithoutWhite drops pure white (255, 255, 255) pixels.
func (p Pixels) WithoutWhite() Pixels {
	out := make([]byte, 0, len(p.bgr))
	for i := 0; i+2 < len(p.bgr); i += 3 {
		if p.bgr[i] == 255 && p.bgr[i+1] == 255 && p.bgr[i+2] == 255 {
			continue
		}
		out = append(out, p.bgr[i:i+3]...)
	}
	return Pixels{bgr: out}
}

// MeanRGB returns the per-channel mean color of the population.
func (p Pixels) MeanRGB() (colorutil.RGB, error) {
	n := p.Len()
	if n == 0 {
		return colorutil.RGB{}, ErrNoPixels
	}
	var b, g, r int
	for i := 0; i < n; i++ {
		b += int(p.bgr[3*i])
		g += int(p.bgr[3*i+1])
		r += int(p.bgr[3*i+2])
	}
	return colorutil.RGB{R: float64(r) / float64(n), G: float64(g) / float64(n), B: float64(b) / float64(n)}, nil
}

// Channels converts the population to the given space and returns one
// float slice per channel, in the space's channel order.
func (p Pixels) Channels(space Space) ([3][]float64, error) {
	var out [3][]float64
	n := p.Len()
	if n == 0 {
		return out, ErrNoPixels
	}

	converted := p.bgr
	if space != BGR {
		src, err := gocv.NewMatFromBytes(n, 1, gocv.MatTypeCV8UC3, p.bgr)
		if err != nil {
			return out, fmt.Errorf("wrap pixels: %w", err)
		}
		defer src.Close()

		dst := gocv.NewMat()
		defer dst.Close()
		gocv.CvtColor(src, &dst, space.conversion())

		converted = dst.ToBytes()
		if len(converted) != len(p.bgr) {
			return out, fmt.Errorf("convert to %s: got %d bytes for %d pixels", space, len(converted), n)
		}
	}

	for c := range out {
		out[c] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		out[0][i] = float64(converted[3*i])
		out[1][i] = float64(converted[3*i+1])
		out[2][i] = float64(converted[3*i+2])
	}
	return out, nil
}
