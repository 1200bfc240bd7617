package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/promptlens/internal/raster"
)

// Config represents the promptlens configuration file
// (~/.config/promptlens/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	TemplatesDir  string `yaml:"templates_dir"`
	ProfilesFile  string `yaml:"profiles_file"`
	TokenizersDir string `yaml:"tokenizers_dir"`
	DefaultModel  string `yaml:"default_model"`

	// Server
	ServerAddress  string   `yaml:"server_address"`
	SessionDB      string   `yaml:"session_db"`
	ImageRateLimit *float64 `yaml:"image_rate_limit"`

	// Output
	LogLevel  string          `yaml:"log_level"`
	LogFormat string          `yaml:"log_format"`
	Image     *raster.Options `yaml:"image"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "promptlens", "config.yaml")
}

// LoadConfig reads the config file at path. A missing file is a zero Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyConfig copies config file values into the global flag variables
// when the corresponding flag was not set on the command line or from the
// environment.
func applyConfig(c *cli.Command, cfg Config) {
	if cfg.TemplatesDir != "" && !c.IsSet("templates-dir") {
		templatesDir = cfg.TemplatesDir
	}
	if cfg.ProfilesFile != "" && !c.IsSet("profiles") {
		profilesFile = cfg.ProfilesFile
	}
	if cfg.TokenizersDir != "" && !c.IsSet("tokenizers-dir") {
		tokenizersDir = cfg.TokenizersDir
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr, sessionDB *string, imageRate *float64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.SessionDB != "" && !c.IsSet("session-db") {
		*sessionDB = cfg.SessionDB
	}
	if cfg.ImageRateLimit != nil && !c.IsSet("image-rate") {
		*imageRate = *cfg.ImageRateLimit
	}
}

// imageOptions merges the configured image options over the defaults.
func imageOptions(cfg Config) raster.Options {
	opts := raster.DefaultOptions()
	if cfg.Image == nil {
		return opts
	}
	if cfg.Image.FontSize > 0 {
		opts.FontSize = cfg.Image.FontSize
	}
	if cfg.Image.Padding > 0 {
		opts.Padding = cfg.Image.Padding
	}
	if cfg.Image.LineHeight > 0 {
		opts.LineHeight = cfg.Image.LineHeight
	}
	if cfg.Image.MaxWidth > 0 {
		opts.MaxWidth = cfg.Image.MaxWidth
	}
	if cfg.Image.MaxHeight > 0 {
		opts.MaxHeight = cfg.Image.MaxHeight
	}
	if cfg.Image.WrapWidth > 0 {
		opts.WrapWidth = cfg.Image.WrapWidth
	}
	return opts
}
