package analysis

import (
	"errors"

	"qualitea/internal/colorstats"
	"qualitea/internal/imageio"
	"qualitea/internal/model"
	"qualitea/internal/segment"
)

// Kind classifies analysis failures for callers.
type Kind int

const (
	KindNone Kind = iota
	KindImageDecode
	KindNoContours
	KindFeatureExtraction
	KindUnavailable
	KindInternal
)

var kindNames = map[Kind]string{
	KindNone:              "none",
	KindImageDecode:       "image_decode_error",
	KindNoContours:        "no_contours_found",
	KindFeatureExtraction: "feature_extraction_failure",
	KindUnavailable:       "classification_unavailable",
	KindInternal:          "internal",
}

func (k Kind) String() string {
	return kindNames[k]
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// KindOf maps an error chain to its Kind.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, imageio.ErrDecode), errors.Is(err, segment.ErrEmptyImage):
		return KindImageDecode
	case errors.Is(err, segment.ErrNoContours):
		return KindNoContours
	case errors.Is(err, colorstats.ErrNoPixels):
		return KindFeatureExtraction
	case errors.Is(err, model.ErrUnavailable):
		return KindUnavailable
	default:
		return KindInternal
	}
}
