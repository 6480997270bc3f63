// Package liquor extracts the color feature vectors of brewed tea: the
// infusion (spent leaves) and the liquid in its cup.
package liquor

import (
	"fmt"

	"qualitea/internal/colorstats"
	"qualitea/internal/segment"
	"qualitea/pkg/colorutil"

	"gocv.io/x/gocv"
)

// InfusionParams controls the infusion region.
type InfusionParams struct {
	Threshold float32 // binarization threshold
	MinArea   float64 // contours at or below this area are ignored, px²
}

// DefaultInfusionParams returns the settings the infusion classifier was
// trained with.
func DefaultInfusionParams() InfusionParams {
	return InfusionParams{Threshold: segment.InfusionThreshold, MinArea: 300}
}

// Infusion describes the spent leaves of img: every contour above the area
// floor is filled, holes are blanked, and the remaining non-white pixels are
// summarized. Returns segment.ErrNoContours for a blank image and an error
// wrapping colorstats.ErrNoPixels when no region survives.
func Infusion(img gocv.Mat, p InfusionParams) (*colorstats.Vector, error) {
	set, err := segment.Segment(img, p.Threshold)
	if err != nil {
		return nil, err
	}

	var regions, holes []segment.Contour
	for _, c := range set.Contours {
		if c.Area <= p.MinArea {
			continue
		}
		regions = append(regions, c)
		if c.IsHole() {
			holes = append(holes, c)
		}
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("no infusion region above %v px²: %w", p.MinArea, colorstats.ErrNoPixels)
	}

	leaves := segment.BlankLike(img)
	defer leaves.Close()
	segment.CopyRegions(&leaves, img, regions...)
	for _, h := range holes {
		segment.Fill(&leaves, h, colorutil.White)
	}

	mask := segment.FillMask(img.Cols(), img.Rows(), regions...)
	defer mask.Close()
	pixels, err := colorstats.Collect(leaves, mask)
	if err != nil {
		return nil, fmt.Errorf("collect infusion pixels: %w", err)
	}
	return colorstats.Compute(pixels.WithoutWhite())
}
