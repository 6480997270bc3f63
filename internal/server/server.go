// Package server exposes the analyses over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"qualitea/internal/analysis"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Server serves analysis requests.
type Server struct {
	analyzer  *analysis.Analyzer
	log       zerolog.Logger
	maxUpload int64
	engine    *gin.Engine
}

// New builds the HTTP surface around an Analyzer. Uploads larger than
// maxUpload bytes are rejected.
func New(a *analysis.Analyzer, log zerolog.Logger, maxUpload int64) *Server {
	s := &Server{
		analyzer:  a,
		log:       log.With().Str("component", "server").Logger(),
		maxUpload: maxUpload,
		engine:    gin.New(),
	}
	s.engine.Use(gin.Recovery(), s.requestLogger(), cors())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.engine
	r.GET("/health", s.health)

	upload := r.Group("")
	upload.Use(s.limitBody())
	upload.POST("/identify-fiber", s.identifyFiber)
	upload.POST("/identify-stroke", s.identifyStroke)
	upload.POST("/predict_tea_variant", s.predictVariant)
	upload.POST("/predict_infusion", s.predictInfusion)
	upload.POST("/predict_liquid", s.predictLiquid)
	upload.POST("/generate_report", s.generateReport)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
