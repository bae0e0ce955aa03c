package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"MENUBOARD_PORT", "MENUBOARD_DB_PATH", "MENUBOARD_LOG_LEVEL",
		"MENUBOARD_DEBOUNCE_MS", "MENUBOARD_PREVIEW_RATE_LIMIT", "MENUBOARD_EXPORT_S3_BUCKET",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.DBPath != "menuboard.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if cfg.Debounce != 175*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Debounce)
	}
	if cfg.PreviewRateLimit != 120 {
		t.Errorf("rate limit = %d", cfg.PreviewRateLimit)
	}
	if cfg.Export.Bucket != "" {
		t.Errorf("bucket = %q, want empty", cfg.Export.Bucket)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MENUBOARD_PORT", "9000")
	t.Setenv("MENUBOARD_DEBOUNCE_MS", "200")
	t.Setenv("MENUBOARD_EXPORT_S3_BUCKET", "menus")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.Debounce != 200*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Debounce)
	}
	if cfg.Export.Bucket != "menus" {
		t.Errorf("bucket = %q", cfg.Export.Bucket)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("MENUBOARD_DEBOUNCE_MS", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric debounce")
	}

	t.Setenv("MENUBOARD_DEBOUNCE_MS", "")
	t.Setenv("MENUBOARD_PREVIEW_RATE_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for zero rate limit")
	}
}
