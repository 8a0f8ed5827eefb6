// Package config loads service configuration from environment variables.
package config

import (
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/united-manufacturing-hub/umh-utils/env"

	"github.com/ironsheep/aquavision/internal/enhance"
	"github.com/ironsheep/aquavision/internal/imaging"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	// LogLevel is "PRODUCTION" (JSON, info) or "DEVELOPMENT" (console, debug).
	LogLevel string

	// HTTPAddr is the listen address of the HTTP API.
	HTTPAddr string

	// HealthAddr is the listen address of the liveness/readiness handler.
	HealthAddr string

	// AllowedOrigins lists the origins allowed by CORS.
	AllowedOrigins []string

	// MaxUploadBytes is the upload size ceiling.
	MaxUploadBytes int64

	// MaxImagePixels bounds width*height of decoded images.
	MaxImagePixels int

	// Enhance holds the CLAHE tile grid and clip limit.
	Enhance enhance.Options

	// EnhanceTimeout bounds the time spent in the engine per request.
	EnhanceTimeout time.Duration

	// MaxConcurrent bounds the number of images enhanced at once.
	MaxConcurrent int

	// ResultCacheSize is the number of encoded results kept in memory.
	ResultCacheSize int

	// Confidence is the placeholder confidence echoed in API responses.
	Confidence float64
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		LogLevel:        "PRODUCTION",
		HTTPAddr:        ":8000",
		HealthAddr:      ":8086",
		AllowedOrigins:  []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		MaxUploadBytes:  imaging.DefaultMaxUploadBytes,
		MaxImagePixels:  50_000_000,
		Enhance:         enhance.DefaultOptions(),
		EnhanceTimeout:  30 * time.Second,
		MaxConcurrent:   runtime.NumCPU(),
		ResultCacheSize: 64,
		Confidence:      0.94,
	}
}

// Load reads the configuration from the environment, falling back to
// Default for unset variables. Malformed or out-of-range values are errors.
func Load() (Config, error) {
	cfg := Default()
	var err error

	if cfg.LogLevel, err = env.GetAsString("LOGGING_LEVEL", false, cfg.LogLevel); err != nil {
		return cfg, err
	}
	if cfg.HTTPAddr, err = env.GetAsString("HTTP_ADDR", false, cfg.HTTPAddr); err != nil {
		return cfg, err
	}
	if cfg.HealthAddr, err = env.GetAsString("HEALTH_ADDR", false, cfg.HealthAddr); err != nil {
		return cfg, err
	}

	origins, err := env.GetAsString("CORS_ALLOWED_ORIGINS", false, strings.Join(cfg.AllowedOrigins, ","))
	if err != nil {
		return cfg, err
	}
	cfg.AllowedOrigins = splitList(origins)

	maxUpload, err := env.GetAsInt("MAX_UPLOAD_BYTES", false, int(cfg.MaxUploadBytes))
	if err != nil {
		return cfg, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	if cfg.MaxImagePixels, err = env.GetAsInt("MAX_IMAGE_PIXELS", false, cfg.MaxImagePixels); err != nil {
		return cfg, err
	}
	if cfg.Enhance.ClipLimit, err = env.GetAsFloat64("CLAHE_CLIP_LIMIT", false, cfg.Enhance.ClipLimit); err != nil {
		return cfg, err
	}

	grid, err := env.GetAsInt("CLAHE_TILE_GRID", false, cfg.Enhance.TileGridX)
	if err != nil {
		return cfg, err
	}
	cfg.Enhance.TileGridX, cfg.Enhance.TileGridY = grid, grid

	timeoutMs, err := env.GetAsInt("ENHANCE_TIMEOUT_MS", false, int(cfg.EnhanceTimeout/time.Millisecond))
	if err != nil {
		return cfg, err
	}
	cfg.EnhanceTimeout = time.Duration(timeoutMs) * time.Millisecond

	if cfg.MaxConcurrent, err = env.GetAsInt("MAX_CONCURRENT_ENHANCE", false, 0); err != nil {
		return cfg, err
	}
	if cfg.MaxConcurrent == 0 {
		cfg.MaxConcurrent = runtime.NumCPU()
	}

	if cfg.ResultCacheSize, err = env.GetAsInt("RESULT_CACHE_SIZE", false, cfg.ResultCacheSize); err != nil {
		return cfg, err
	}
	if cfg.Confidence, err = env.GetAsFloat64("CONFIDENCE_PLACEHOLDER", false, cfg.Confidence); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Validate rejects values that would make the service unusable.
func (c Config) Validate() error {
	if err := c.Enhance.Validate(); err != nil {
		return errors.Wrap(err, "invalid enhancement options")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.MaxImagePixels < 0 {
		return errors.Errorf("MAX_IMAGE_PIXELS must not be negative, got %d", c.MaxImagePixels)
	}
	if c.EnhanceTimeout <= 0 {
		return errors.Errorf("ENHANCE_TIMEOUT_MS must be positive, got %s", c.EnhanceTimeout)
	}
	if c.MaxConcurrent < 1 {
		return errors.Errorf("MAX_CONCURRENT_ENHANCE must be positive, got %d", c.MaxConcurrent)
	}
	if c.ResultCacheSize < 0 {
		return errors.Errorf("RESULT_CACHE_SIZE must not be negative, got %d", c.ResultCacheSize)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return errors.Errorf("CONFIDENCE_PLACEHOLDER must be within [0,1], got %g", c.Confidence)
	}
	return nil
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
