package server

import (
	"context"
	"errors"
	"net/http"

	"qualitea/internal/analysis"
	"qualitea/internal/imageio"
	"qualitea/internal/segment"
	"qualitea/internal/version"

	"github.com/gin-gonic/gin"
	"gocv.io/x/gocv"
)

// noContours is the statistics body of a fiber or stroke request on an
// image without particles.
var noContours = gin.H{"error": "No contours found"}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
		"commit":  version.GitCommit,
		"models":  s.analyzer.Models().Available(),
	})
}

// readImage decodes the "image" upload. On failure it writes the response
// and returns false.
func (s *Server) readImage(c *gin.Context) (gocv.Mat, bool) {
	fh, err := c.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
			return gocv.Mat{}, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return gocv.Mat{}, false
	}
	if fh.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return gocv.Mat{}, false
	}

	f, err := fh.Open()
	if err != nil {
		s.fail(c, err)
		return gocv.Mat{}, false
	}
	defer f.Close()

	img, err := imageio.Decode(f)
	if err != nil {
		img.Close()
		s.fail(c, err)
		return gocv.Mat{}, false
	}
	return img, true
}

// fail renders err with the status of its kind.
func (s *Server) fail(c *gin.Context, err error) {
	kind := analysis.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case analysis.KindImageDecode:
		status = http.StatusBadRequest
	case analysis.KindNoContours, analysis.KindFeatureExtraction:
		status = http.StatusUnprocessableEntity
	case analysis.KindUnavailable:
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("analysis failed")
	} else {
		s.log.Warn().Err(err).Str("kind", kind.String()).Msg("request rejected")
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

// statisticsResponse writes {statistics, result_image}.
func (s *Server) statisticsResponse(c *gin.Context, stats any, overlay gocv.Mat) {
	encoded, err := imageio.Base64JPEG(overlay)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statistics": stats, "result_image": encoded})
}

func (s *Server) identifyFiber(c *gin.Context) {
	img, ok := s.readImage(c)
	if !ok {
		return
	}
	defer img.Close()

	res, err := s.analyzer.Fiber(c.Request.Context(), img)
	if errors.Is(err, segment.ErrNoContours) {
		s.statisticsResponse(c, noContours, img)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	defer res.Close()
	s.statisticsResponse(c, res.Report, res.Fibers)
}

func (s *Server) identifyStroke(c *gin.Context) {
	img, ok := s.readImage(c)
	if !ok {
		return
	}
	defer img.Close()

	res, err := s.analyzer.Stroke(c.Request.Context(), img)
	if errors.Is(err, segment.ErrNoContours) {
		s.statisticsResponse(c, noContours, img)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	defer res.Close()
	s.statisticsResponse(c, res.Report, res.Overlay)
}

func (s *Server) predictVariant(c *gin.Context) {
	s.predict(c, s.analyzer.Variant)
}

func (s *Server) predictInfusion(c *gin.Context) {
	s.predict(c, s.analyzer.Infusion)
}

func (s *Server) predictLiquid(c *gin.Context) {
	s.predict(c, s.analyzer.Liquid)
}

type predictFunc func(ctx context.Context, img gocv.Mat) (string, error)

func (s *Server) predict(c *gin.Context, fn predictFunc) {
	img, ok := s.readImage(c)
	if !ok {
		return
	}
	defer img.Close()

	label, err := fn(c.Request.Context(), img)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prediction": label})
}

func (s *Server) generateReport(c *gin.Context) {
	img, ok := s.readImage(c)
	if !ok {
		return
	}
	defer img.Close()

	r, err := s.analyzer.FullReport(c.Request.Context(), img)
	if err != nil {
		s.fail(c, err)
		return
	}
	defer r.Close()

	fiberImage, err := imageio.Base64JPEG(r.Fiber.Fibers)
	if err != nil {
		s.fail(c, err)
		return
	}
	strokeImage, err := imageio.Base64JPEG(r.Stroke.Overlay)
	if err != nil {
		s.fail(c, err)
		return
	}

	body := gin.H{
		"tea_variant":       r.TeaVariant,
		"fiber_statistics":  r.Fiber.Report,
		"fiber_image":       fiberImage,
		"stroke_statistics": r.Stroke.Report,
		"stroke_image":      strokeImage,
	}
	if r.VariantErr != nil {
		body["tea_variant_error"] = r.VariantErr.Error()
	}
	c.JSON(http.StatusOK, body)
}
