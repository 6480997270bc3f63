package colorstats

import "gocv.io/x/gocv"

// Space identifies a color representation of 8-bit pixels, using OpenCV's
// 8-bit encodings (H in 0-180; L, a, b and Y, Cr, Cb in 0-255).
type Space int

const (
	BGR Space = iota
	RGB
	HSV
	LAB
	YCrCb
)

// FeatureSpaces is the fixed order of spaces in a feature vector.
var FeatureSpaces = [...]Space{RGB, HSV, LAB, YCrCb}

func (s Space) String() string {
	switch s {
	case BGR:
		return "BGR"
	case RGB:
		return "RGB"
	case HSV:
		return "HSV"
	case LAB:
		return "LAB"
	case YCrCb:
		return "YCrCb"
	default:
		return "Unknown"
	}
}

func (s Space) conversion() gocv.ColorConversionCode {
	switch s {
	case RGB:
		return gocv.ColorBGRToRGB
	case HSV:
		return gocv.ColorBGRToHSV
	case LAB:
		return gocv.ColorBGRToLab
	default:
		return gocv.ColorBGRToYCrCb
	}
}
