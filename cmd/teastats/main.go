// Command teastats analyzes one tea sample photograph and prints the report
// as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"qualitea/internal/analysis"
	"qualitea/internal/config"
	"qualitea/internal/imageio"
	"qualitea/internal/logging"
	"qualitea/internal/model"
	"qualitea/internal/version"

	"gocv.io/x/gocv"
)

func main() {
	imagePath := flag.String("image", "", "Path to sample photo (JPEG, PNG, TIFF, BMP or WebP)")
	modeName := flag.String("mode", "report", "Analysis: "+modeList())
	outDir := flag.String("out", "", "Directory for result images (optional)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *imagePath == "" {
		fmt.Println("Usage: teastats -image <path> [-mode " + modeList() + "] [-out dir]")
		os.Exit(1)
	}
	mode, err := analysis.ParseMode(*modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if err := run(*imagePath, mode, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "teastats: %v (%s)\n", err, analysis.KindOf(err))
		os.Exit(1)
	}
}

func modeList() string {
	names := make([]string, len(analysis.Modes))
	for i, m := range analysis.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, "|")
}

func run(imagePath string, mode analysis.Mode, outDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, "console", os.Stderr)
	if err != nil {
		return err
	}
	models, err := model.Load(model.Refs{
		Variant:       cfg.Models.Variant,
		VariantScaler: cfg.Models.VariantScaler,
		Infusion:      cfg.Models.Infusion,
		Liquid:        cfg.Models.Liquid,
	})
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}
	opts := analysis.DefaultOptions().Tune(cfg.Tuning)
	opts.Workers = cfg.Workers
	a := analysis.New(log, models, opts)

	img, err := imageio.Open(imagePath)
	if err != nil {
		return err
	}
	defer img.Close()
	log.Debug().Int("width", img.Cols()).Int("height", img.Rows()).Str("mode", string(mode)).Msg("loaded image")

	ctx := context.Background()
	out := map[string]any{}
	images := map[string]gocv.Mat{}

	switch mode {
	case analysis.ModeFiber:
		res, err := a.Fiber(ctx, img)
		if err != nil {
			return err
		}
		defer res.Close()
		out["statistics"] = res.Report
		images["fiber"], images["segmented"] = res.Fibers, res.Segmented

	case analysis.ModeStroke:
		res, err := a.Stroke(ctx, img)
		if err != nil {
			return err
		}
		defer res.Close()
		out["statistics"] = res.Report
		images["stroke"] = res.Overlay

	case analysis.ModeVariant:
		f, err := a.VariantFeatures(ctx, img)
		if err != nil {
			return err
		}
		out["features"] = f
		predictInto(out, func() (string, error) { return a.Variant(ctx, img) })

	case analysis.ModeInfusion:
		predictInto(out, func() (string, error) { return a.Infusion(ctx, img) })

	case analysis.ModeLiquid:
		predictInto(out, func() (string, error) { return a.Liquid(ctx, img) })

	case analysis.ModeReport:
		r, err := a.FullReport(ctx, img)
		if err != nil {
			return err
		}
		defer r.Close()
		out["tea_variant"] = r.TeaVariant
		if r.VariantErr != nil {
			out["tea_variant_error"] = r.VariantErr.Error()
		}
		out["fiber_statistics"] = r.Fiber.Report
		out["stroke_statistics"] = r.Stroke.Report
		images["fiber"], images["segmented"], images["stroke"] = r.Fiber.Fibers, r.Fiber.Segmented, r.Stroke.Overlay
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
		base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
		for name, m := range images {
			path := filepath.Join(outDir, base+"_"+name+".jpg")
			if err := imageio.SaveJPEG(path, m); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			log.Info().Str("path", path).Msg("wrote result image")
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// predictInto records a prediction, or the reason none could be made.
func predictInto(out map[string]any, predict func() (string, error)) {
	label, err := predict()
	if err != nil {
		out["prediction_error"] = err.Error()
		out["kind"] = analysis.KindOf(err)
		return
	}
	out["prediction"] = label
}
