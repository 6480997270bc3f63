// Package segment turns a photograph of tea particles into particle outlines:
// fixed-threshold binarization, two-level contour extraction, detection of the
// printed calibration frame, and contour masks.
package segment

import (
	"errors"

	"gocv.io/x/gocv"
)

// Global thresholds per analysis mode. Particles are darker than the
// background, so pixels at or below the threshold become foreground.
const (
	ParticleThreshold = 128 // fiber, stroke and particle color/size analysis
	InfusionThreshold = 100 // infused leaf color analysis
	LiquidThreshold   = 75  // liquor circle detection
)

var (
	// ErrEmptyImage is returned when the input Mat holds no pixels.
	ErrEmptyImage = errors.New("empty image")

	// ErrNoContours is returned when a mask produces no contour hierarchy,
	// e.g. for a blank image.
	ErrNoContours = errors.New("no contours found")
)

// Binarize converts a BGR image to grayscale and applies an inverted binary
// threshold. The returned mask is 255 for foreground pixels and must be closed
// by the caller.
func Binarize(img gocv.Mat, threshold float32) (gocv.Mat, error) {
	if img.Empty() {
		return gocv.NewMat(), ErrEmptyImage
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if img.Channels() == 1 {
		img.CopyTo(&gray)
	} else {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	}

	mask := gocv.NewMat()
	gocv.Threshold(gray, &mask, threshold, 255, gocv.ThresholdBinaryInv)
	return mask, nil
}
