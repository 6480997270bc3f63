package fiber

import (
	"qualitea/internal/segment"
	"qualitea/pkg/colorutil"

	"gocv.io/x/gocv"
)

const (
	outlineThickness = 2
	labelScale       = 0.4
)

func drawSegmented(img gocv.Mat, particles []Particle) gocv.Mat {
	out := segment.BlankLike(img)
	contours := make([]segment.Contour, len(particles))
	for i, pt := range particles {
		contours[i] = pt.Contour
	}
	segment.CopyRegions(&out, img, contours...)

	for _, pt := range particles {
		segment.Outline(&out, pt.Contour, colorutil.Green, outlineThickness)
		if pt.Contour.IsHole() {
			segment.Fill(&out, pt.Contour, colorutil.White)
		}
		if pt.Valid {
			label(&out, pt)
		}
	}
	return out
}

func drawFibers(img gocv.Mat, particles []Particle) gocv.Mat {
	out := segment.BlankLike(img)
	for _, pt := range particles {
		if !pt.Fiber {
			continue
		}
		segment.CopyRegions(&out, img, pt.Contour)
		label(&out, pt)
	}
	return out
}

func label(dst *gocv.Mat, pt Particle) {
	gocv.PutText(dst, pt.Label, pt.Features.Centroid, gocv.FontHersheySimplex, labelScale, colorutil.Red, 1)
}
