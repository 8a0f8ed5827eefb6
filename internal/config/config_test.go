package config

import (
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults differ (-want +got):\n%s", diff)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("LOGGING_LEVEL", "DEVELOPMENT")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("CLAHE_CLIP_LIMIT", "3.5")
	t.Setenv("CLAHE_TILE_GRID", "4")
	t.Setenv("ENHANCE_TIMEOUT_MS", "1500")
	t.Setenv("MAX_CONCURRENT_ENHANCE", "3")
	t.Setenv("RESULT_CACHE_SIZE", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "DEVELOPMENT" {
		t.Errorf("LogLevel: got %s, want DEVELOPMENT", cfg.LogLevel)
	}
	if cfg.HTTPAddr != ":9000" {
		t.Errorf("HTTPAddr: got %s, want :9000", cfg.HTTPAddr)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins); diff != "" {
		t.Errorf("AllowedOrigins (-want +got):\n%s", diff)
	}
	if cfg.MaxUploadBytes != 2048 {
		t.Errorf("MaxUploadBytes: got %d, want 2048", cfg.MaxUploadBytes)
	}
	if cfg.Enhance.ClipLimit != 3.5 || cfg.Enhance.TileGridX != 4 || cfg.Enhance.TileGridY != 4 {
		t.Errorf("Enhance: got %+v, want 4x4 tiles, clip 3.5", cfg.Enhance)
	}
	if cfg.EnhanceTimeout != 1500*time.Millisecond {
		t.Errorf("EnhanceTimeout: got %s, want 1.5s", cfg.EnhanceTimeout)
	}
	if cfg.MaxConcurrent != 3 {
		t.Errorf("MaxConcurrent: got %d, want 3", cfg.MaxConcurrent)
	}
	if cfg.ResultCacheSize != 0 {
		t.Errorf("ResultCacheSize: got %d, want 0", cfg.ResultCacheSize)
	}
}

func TestLoad_ZeroConcurrencyMeansNumCPU(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_ENHANCE", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxConcurrent != runtime.NumCPU() {
		t.Errorf("MaxConcurrent: got %d, want %d", cfg.MaxConcurrent, runtime.NumCPU())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric upload limit", "MAX_UPLOAD_BYTES", "ten megabytes"},
		{"zero upload limit", "MAX_UPLOAD_BYTES", "0"},
		{"zero tile grid", "CLAHE_TILE_GRID", "0"},
		{"negative clip limit", "CLAHE_CLIP_LIMIT", "-1"},
		{"zero timeout", "ENHANCE_TIMEOUT_MS", "0"},
		{"negative concurrency", "MAX_CONCURRENT_ENHANCE", "-4"},
		{"negative cache", "RESULT_CACHE_SIZE", "-1"},
		{"confidence above one", "CONFIDENCE_PLACEHOLDER", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load should fail for %s=%q", tt.key, tt.value)
			}
		})
	}
}
