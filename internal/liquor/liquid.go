package liquor

import (
	"fmt"
	"image"
	"math"

	"qualitea/internal/colorstats"
	"qualitea/internal/segment"
	"qualitea/pkg/colorutil"

	"gocv.io/x/gocv"
)

// LiquidParams controls cup detection and sampling.
type LiquidParams struct {
	Threshold float32

	// Hough gradient settings
	DP        float64
	MinDist   float64
	Param1    float64
	Param2    float64
	MinRadius int
	MaxRadius int

	// CropFraction is the half-size of the sampled center window as a
	// fraction of the image width and height.
	CropFraction float64
}

// DefaultLiquidParams returns the settings the liquid classifier was trained
// with.
func DefaultLiquidParams() LiquidParams {
	return LiquidParams{
		Threshold:    segment.LiquidThreshold,
		DP:           1.2,
		MinDist:      100,
		Param1:       50,
		Param2:       30,
		CropFraction: 0.15,
	}
}

// Circle is a detected cup outline.
type Circle struct {
	Center image.Point `json:"center"`
	Radius int         `json:"radius"`
}

// LiquidResult is the outcome of a liquid analysis.
type LiquidResult struct {
	Cup    *Circle            `json:"cup,omitempty"`
	Vector *colorstats.Vector `json:"vector"`
}

// FindCup returns the first circle the Hough transform finds in the
// binarized image, or nil.
func FindCup(img gocv.Mat, p LiquidParams) (*Circle, error) {
	binary, err := segment.Binarize(img, p.Threshold)
	if err != nil {
		return nil, err
	}
	defer binary.Close()

	circles := gocv.NewMat()
	defer circles.Close()
	gocv.HoughCirclesWithParams(binary, &circles, gocv.HoughGradient,
		p.DP, p.MinDist, p.Param1, p.Param2, p.MinRadius, p.MaxRadius)
	if circles.Empty() || circles.Cols() == 0 {
		return nil, nil
	}

	v := circles.GetVecfAt(0, 0)
	return &Circle{
		Center: image.Pt(roundPx(v[0]), roundPx(v[1])),
		Radius: roundPx(v[2]),
	}, nil
}

// Liquid samples the center of the detected cup: pixels outside the cup are
// blanked, a window of ±CropFraction around the image center is cut out and
// its non-white pixels are summarized. Without a cup the population is empty
// and the error wraps colorstats.ErrNoPixels.
func Liquid(img gocv.Mat, p LiquidParams) (*LiquidResult, error) {
	cup, err := FindCup(img, p)
	if err != nil {
		return nil, err
	}
	res := &LiquidResult{Cup: cup}
	if cup == nil {
		return res, fmt.Errorf("no cup found: %w", colorstats.ErrNoPixels)
	}

	mask := segment.NewMask(img.Cols(), img.Rows())
	defer mask.Close()
	gocv.Circle(&mask, cup.Center, cup.Radius, colorutil.White, -1)

	liquid := segment.BlankLike(img)
	defer liquid.Close()
	img.CopyToWithMask(&liquid, mask)

	window := centerWindow(img.Cols(), img.Rows(), p.CropFraction)
	if window.Empty() {
		return res, fmt.Errorf("empty sample window: %w", colorstats.ErrNoPixels)
	}
	region := liquid.Region(window)
	defer region.Close()
	crop := region.Clone()
	defer crop.Close()

	res.Vector, err = colorstats.Compute(colorstats.FromBGR(crop.ToBytes()).WithoutWhite())
	if err != nil {
		return res, fmt.Errorf("liquid pixels: %w", err)
	}
	return res, nil
}

// roundPx rounds a sub-pixel Hough estimate to whole pixels, halves to even.
func roundPx(v float32) int {
	return int(math.RoundToEven(float64(v)))
}

// centerWindow returns the rectangle spanning frac of the width and height
// on either side of the image center, clamped to the image.
func centerWindow(width, height int, frac float64) image.Rectangle {
	cx, cy := width/2, height/2
	mx, my := int(float64(width)*frac), int(float64(height)*frac)
	return image.Rect(max(cx-mx, 0), max(cy-my, 0), min(cx+mx, width), min(cy+my, height))
}
