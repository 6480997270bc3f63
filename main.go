// Package main provides the entry point for the qualitea analysis service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"qualitea/internal/analysis"
	"qualitea/internal/config"
	"qualitea/internal/logging"
	"qualitea/internal/model"
	"qualitea/internal/server"
	"qualitea/internal/version"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "qualitea: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}
	log.Info().Str("version", version.Version).Str("commit", version.GitCommit).Msg("starting")

	models, err := model.Load(model.Refs{
		Variant:       cfg.Models.Variant,
		VariantScaler: cfg.Models.VariantScaler,
		Infusion:      cfg.Models.Infusion,
		Liquid:        cfg.Models.Liquid,
	})
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}
	for slot, ok := range models.Available() {
		if !ok {
			log.Warn().Str("model", slot).Msg("classifier not configured; predictions unavailable")
		}
	}

	opts := analysis.DefaultOptions().Tune(cfg.Tuning)
	opts.Workers = cfg.Workers
	a := analysis.New(log, models, opts)

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(a, log, cfg.MaxUploadBytes())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, cfg.Addr)
}
