// Package analysis runs the tea particle analyses on one image at a time.
// An Analyzer is built once at startup and is safe for concurrent use.
package analysis

import (
	"context"
	"fmt"
	"time"

	"qualitea/internal/config"
	"qualitea/internal/fiber"
	"qualitea/internal/liquor"
	"qualitea/internal/model"
	"qualitea/internal/segment"
	"qualitea/internal/stroke"
	"qualitea/internal/variant"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

// Options holds the tunable parameters of every mode.
type Options struct {
	Workers  int
	Fiber    fiber.Params
	Stroke   stroke.Params
	Variant  variant.Params
	Infusion liquor.InfusionParams
	Liquid   liquor.LiquidParams
}

// DefaultOptions returns the parameters the classifiers were trained with.
func DefaultOptions() Options {
	return Options{
		Fiber:    fiber.DefaultParams(),
		Stroke:   stroke.DefaultParams(),
		Variant:  variant.DefaultParams(),
		Infusion: liquor.DefaultInfusionParams(),
		Liquid:   liquor.DefaultLiquidParams(),
	}
}

// Tune applies configured threshold overrides to a copy of the options.
func (o Options) Tune(t config.Tuning) Options {
	if r := t.FiberArea; r != nil {
		o.Fiber = o.Fiber.WithAreaRange(r.Min, r.Max)
	}
	if r := t.FiberElongation; r != nil {
		o.Fiber = o.Fiber.WithElongationRange(r.Min, r.Max)
	}
	if t.FiberMinContour != nil {
		o.Fiber = o.Fiber.WithMinContourArea(*t.FiberMinContour)
	}
	if b := t.StrokeBands; b != nil {
		o.Stroke = o.Stroke.WithBands(
			stroke.Band{Min: b.R.Min, Max: b.R.Max},
			stroke.Band{Min: b.G.Min, Max: b.G.Max},
			stroke.Band{Min: b.B.Min, Max: b.B.Max},
		)
	}
	if t.StrokeMinSpread != nil {
		o.Stroke = o.Stroke.WithMinSpread(*t.StrokeMinSpread)
	}
	if t.ClusterSeed != nil {
		o.Variant.Size = o.Variant.Size.WithSeed(*t.ClusterSeed)
	}
	if len(t.ClusterSmallRanks) > 0 {
		o.Variant.Size = o.Variant.Size.WithSmallRanks(t.ClusterSmallRanks...)
	}
	return o
}

// Analyzer runs analyses with a fixed set of classifiers.
type Analyzer struct {
	log    zerolog.Logger
	models *model.Registry
	opts   Options
}

// New returns an Analyzer. A nil registry makes every prediction
// unavailable while the measurement modes keep working.
func New(log zerolog.Logger, models *model.Registry, opts Options) *Analyzer {
	return &Analyzer{log: log.With().Str("component", "analysis").Logger(), models: models, opts: opts}
}

// Models returns the classifier registry.
func (a *Analyzer) Models() *model.Registry {
	return a.models
}

// particles segments img at the particle threshold and locates the
// reference box.
func (a *Analyzer) particles(img gocv.Mat) (*segment.ContourSet, *segment.ReferenceBox, error) {
	set, err := segment.Segment(img, segment.ParticleThreshold)
	if err != nil {
		return nil, nil, err
	}
	return set, segment.FindReferenceBox(set), nil
}

// Fiber runs the fiber classifier. The caller must Close the result.
func (a *Analyzer) Fiber(ctx context.Context, img gocv.Mat) (*fiber.Result, error) {
	start := time.Now()
	set, box, err := a.particles(img)
	if err != nil {
		return nil, fmt.Errorf("fiber: %w", err)
	}
	res, err := fiber.Classify(ctx, img, set, box, a.opts.Fiber, a.opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("fiber: %w", err)
	}
	a.log.Debug().
		Str("mode", string(ModeFiber)).
		Int("contours", len(set.Contours)).
		Int("eligible", res.Report.Total).
		Bool("reference_box", box != nil).
		Dur("took", time.Since(start)).
		Msg("analysis done")
	return res, nil
}

// Stroke runs the brown particle classifier. The caller must Close the
// result.
func (a *Analyzer) Stroke(ctx context.Context, img gocv.Mat) (*stroke.Result, error) {
	start := time.Now()
	set, box, err := a.particles(img)
	if err != nil {
		return nil, fmt.Errorf("stroke: %w", err)
	}
	res, err := stroke.Classify(ctx, img, set, box, a.opts.Stroke, a.opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("stroke: %w", err)
	}
	a.log.Debug().
		Str("mode", string(ModeStroke)).
		Int("contours", len(set.Contours)).
		Int("eligible", res.Report.Eligible).
		Bool("reference_box", box != nil).
		Dur("took", time.Since(start)).
		Msg("analysis done")
	return res, nil
}

// VariantFeatures extracts the variant classifier input of img.
func (a *Analyzer) VariantFeatures(ctx context.Context, img gocv.Mat) (*variant.Features, error) {
	set, err := segment.Segment(img, segment.ParticleThreshold)
	if err != nil {
		return nil, fmt.Errorf("variant: %w", err)
	}
	f, err := variant.Extract(ctx, img, set, a.opts.Variant, a.opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("variant: %w", err)
	}
	return f, nil
}

// Variant predicts the tea variant of img.
func (a *Analyzer) Variant(ctx context.Context, img gocv.Mat) (string, error) {
	start := time.Now()
	predictor, scaler, err := a.models.Variant()
	if err != nil {
		return "", err
	}
	f, err := a.VariantFeatures(ctx, img)
	if err != nil {
		return "", err
	}
	vec, err := f.Vector()
	if err != nil {
		return "", fmt.Errorf("variant: %w", err)
	}
	label, err := predict(ctx, predictor, scaler, vec)
	if err != nil {
		return "", fmt.Errorf("variant: %w", err)
	}
	a.logPrediction(ModeVariant, label, start)
	return label, nil
}

// Infusion predicts the infusion quality of img.
func (a *Analyzer) Infusion(ctx context.Context, img gocv.Mat) (string, error) {
	start := time.Now()
	predictor, err := a.models.Infusion()
	if err != nil {
		return "", err
	}
	vec, err := liquor.Infusion(img, a.opts.Infusion)
	if err != nil {
		return "", fmt.Errorf("infusion: %w", err)
	}
	label, err := predict(ctx, predictor, nil, vec.Values())
	if err != nil {
		return "", fmt.Errorf("infusion: %w", err)
	}
	a.logPrediction(ModeInfusion, label, start)
	return label, nil
}

// Liquid predicts the liquid grade of img.
func (a *Analyzer) Liquid(ctx context.Context, img gocv.Mat) (string, error) {
	start := time.Now()
	predictor, err := a.models.Liquid()
	if err != nil {
		return "", err
	}
	res, err := liquor.Liquid(img, a.opts.Liquid)
	if err != nil {
		return "", fmt.Errorf("liquid: %w", err)
	}
	label, err := predict(ctx, predictor, nil, res.Vector.Values())
	if err != nil {
		return "", fmt.Errorf("liquid: %w", err)
	}
	a.logPrediction(ModeLiquid, label, start)
	return label, nil
}

func (a *Analyzer) logPrediction(mode Mode, label string, start time.Time) {
	a.log.Debug().
		Str("mode", string(mode)).
		Str("label", label).
		Dur("took", time.Since(start)).
		Msg("prediction done")
}

func predict(ctx context.Context, p model.Predictor, s model.Scaler, vec []float64) (string, error) {
	if s != nil {
		scaled, err := s.Transform(vec)
		if err != nil {
			return "", fmt.Errorf("scale features: %w", err)
		}
		vec = scaled
	}
	return p.Predict(ctx, vec)
}
