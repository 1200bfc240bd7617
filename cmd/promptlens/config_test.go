package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/promptlens/internal/raster"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing file is zero config", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("LoadConfig returned error: %v", err)
		}
		if cfg != (Config{}) {
			t.Fatalf("expected zero config, got %+v", cfg)
		}
	})

	t.Run("parses fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := "templates_dir: /tmp/tpl\ndefault_model: glm-4.5\nimage_rate_limit: 0.5\nimage:\n  font_size: 14\n"
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig returned error: %v", err)
		}
		if cfg.TemplatesDir != "/tmp/tpl" || cfg.DefaultModel != "glm-4.5" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
		if cfg.ImageRateLimit == nil || *cfg.ImageRateLimit != 0.5 {
			t.Fatalf("unexpected image rate: %v", cfg.ImageRateLimit)
		}
		opts := imageOptions(cfg)
		want := raster.DefaultOptions()
		want.FontSize = 14
		if opts != want {
			t.Fatalf("unexpected image options: got %+v want %+v", opts, want)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("templates_dir: [unclosed"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Fatalf("expected parse error")
		}
	})
}
