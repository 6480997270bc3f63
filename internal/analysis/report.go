package analysis

import (
	"context"

	"qualitea/internal/fiber"
	"qualitea/internal/stroke"

	"gocv.io/x/gocv"
)

// Report combines the variant prediction with the fiber and stroke
// analyses of one image.
type Report struct {
	TeaVariant string `json:"tea_variant"`
	// VariantErr is set instead of TeaVariant when no prediction could be
	// made.
	VariantErr error `json:"-"`

	Fiber  *fiber.Result  `json:"-"`
	Stroke *stroke.Result `json:"-"`
}

// Close releases the overlay images.
func (r *Report) Close() {
	if r.Fiber != nil {
		r.Fiber.Close()
	}
	if r.Stroke != nil {
		r.Stroke.Close()
	}
}

// FullReport runs the variant, fiber and stroke analyses. A failed variant
// prediction is recorded in the report; segmentation and measurement
// failures abort it. The caller must Close the report.
func (a *Analyzer) FullReport(ctx context.Context, img gocv.Mat) (*Report, error) {
	r := &Report{}
	r.TeaVariant, r.VariantErr = a.Variant(ctx, img)
	if r.VariantErr != nil {
		switch KindOf(r.VariantErr) {
		case KindFeatureExtraction, KindUnavailable:
			a.log.Warn().Err(r.VariantErr).Msg("report without tea variant")
		default:
			return nil, r.VariantErr
		}
	}

	var err error
	if r.Fiber, err = a.Fiber(ctx, img); err != nil {
		return nil, err
	}
	if r.Stroke, err = a.Stroke(ctx, img); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}
