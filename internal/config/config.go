// Package config loads service settings from built-in defaults, an optional
// YAML file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable holding the YAML config path.
const FileEnv = "QUALITEA_CONFIG"

// Config holds service settings.
type Config struct {
	Addr        string `yaml:"addr"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"` // console or json
	Workers     int    `yaml:"workers"`    // per-request analysis goroutines
	MaxUploadMB int    `yaml:"max_upload_mb"`
	Models      Models `yaml:"models"`
	Tuning      Tuning `yaml:"tuning"`
}

// Models references the classifier artifacts: JSON file paths or inference
// service URLs. Empty entries disable the matching prediction.
type Models struct {
	Variant       string `yaml:"variant"`
	VariantScaler string `yaml:"variant_scaler"`
	Infusion      string `yaml:"infusion"`
	Liquid        string `yaml:"liquid"`
}

// Range is an inclusive numeric band.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Bands holds the per-channel mean-color bands of the brown test.
type Bands struct {
	R Range `yaml:"r"`
	G Range `yaml:"g"`
	B Range `yaml:"b"`
}

// Tuning overrides analysis thresholds. Unset entries keep the values the
// classifiers were trained with.
type Tuning struct {
	FiberArea         *Range   `yaml:"fiber_area"` // px²
	FiberElongation   *Range   `yaml:"fiber_elongation"`
	FiberMinContour   *float64 `yaml:"fiber_min_contour_area"` // noise floor, px²
	StrokeBands       *Bands   `yaml:"stroke_bands"`
	StrokeMinSpread   *float64 `yaml:"stroke_min_spread"`
	ClusterSeed       *int64   `yaml:"cluster_seed"`
	ClusterSmallRanks []int    `yaml:"cluster_small_ranks"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Addr:        ":8080",
		LogLevel:    "info",
		LogFormat:   "console",
		Workers:     runtime.GOMAXPROCS(0),
		MaxUploadMB: 16,
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// QUALITEA_CONFIG if set, then QUALITEA_* environment variables.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	setString(&c.Addr, "QUALITEA_ADDR")
	setString(&c.LogLevel, "QUALITEA_LOG_LEVEL")
	setString(&c.LogFormat, "QUALITEA_LOG_FORMAT")
	setString(&c.Models.Variant, "QUALITEA_VARIANT_MODEL")
	setString(&c.Models.VariantScaler, "QUALITEA_VARIANT_SCALER")
	setString(&c.Models.Infusion, "QUALITEA_INFUSION_MODEL")
	setString(&c.Models.Liquid, "QUALITEA_LIQUID_MODEL")
	if err := setInt(&c.Workers, "QUALITEA_WORKERS"); err != nil {
		return err
	}
	if err := setInt(&c.MaxUploadMB, "QUALITEA_MAX_UPLOAD_MB"); err != nil {
		return err
	}
	if v := os.Getenv("QUALITEA_CLUSTER_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("QUALITEA_CLUSTER_SEED: %w", err)
		}
		c.Tuning.ClusterSeed = &seed
	}
	return nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.MaxUploadMB < 1 {
		errs = append(errs, fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format must be console or json, got %q", c.LogFormat))
	}
	return errors.Join(append(errs, c.Tuning.validate()...)...)
}

func (t Tuning) validate() []error {
	var errs []error
	checkRange := func(name string, r *Range) {
		if r != nil && r.Min > r.Max {
			errs = append(errs, fmt.Errorf("%s: min %v exceeds max %v", name, r.Min, r.Max))
		}
	}
	checkRange("tuning.fiber_area", t.FiberArea)
	checkRange("tuning.fiber_elongation", t.FiberElongation)
	if b := t.StrokeBands; b != nil {
		checkRange("tuning.stroke_bands.r", &b.R)
		checkRange("tuning.stroke_bands.g", &b.G)
		checkRange("tuning.stroke_bands.b", &b.B)
	}
	for _, rank := range t.ClusterSmallRanks {
		if rank < 0 {
			errs = append(errs, fmt.Errorf("tuning.cluster_small_ranks: negative rank %d", rank))
		}
	}
	return errs
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
