// Package config loads the application configuration.
//
// Values come from Defaults, then an optional YAML file, then environment
// overrides. Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xob0t/GoPoster/internal/logging"
	"github.com/xob0t/GoPoster/pkg/poster"
)

// ServerConfig configures the static web server.
type ServerConfig struct {
	Port    int    `yaml:"port"`
	Root    string `yaml:"root"`    // served before the embedded app; holds the background asset and poster.wasm
	Metrics bool   `yaml:"metrics"` // expose /metrics
}

// PosterConfig configures rendering.
type PosterConfig struct {
	Background string            `yaml:"background"` // asset path
	Font       string            `yaml:"font"`       // TTF/OTF path; empty uses the embedded font
	Export     poster.Dimensions `yaml:"export"`     // used when the background is missing
}

// AppConfig is the complete configuration.
type AppConfig struct {
	Server  ServerConfig    `yaml:"server"`
	Poster  PosterConfig    `yaml:"poster"`
	Logging logging.Options `yaml:"logging"`
}

// Environment overrides.
const (
	EnvPort       = "PORT"
	EnvRoot       = "POSTER_ROOT"
	EnvBackground = "POSTER_BACKGROUND"
	EnvFont       = "POSTER_FONT"
)

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		Server: ServerConfig{Port: 3000, Root: ".", Metrics: true},
		Poster: PosterConfig{
			Background: poster.BackgroundFile,
			Export:     poster.DefaultExport,
		},
		Logging: logging.Options{Level: "info", Format: "text"},
	}
}

// Load reads path over Defaults and applies environment overrides. A missing
// file is not an error when path is empty.
func Load(path string) (AppConfig, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadOptional is Load, but a missing file falls back to defaults.
func LoadOptional(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Load("")
	}
	return cfg, err
}

// Validate checks ranges.
func (c AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !c.Poster.Export.Valid() {
		return fmt.Errorf("poster.export %v must be positive", c.Poster.Export)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c AppConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func applyEnv(cfg *AppConfig) error {
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvPort, v, err)
		}
		cfg.Server.Port = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvRoot)); v != "" {
		cfg.Server.Root = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackground)); v != "" {
		cfg.Poster.Background = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFont)); v != "" {
		cfg.Poster.Font = v
	}

	env := logging.FromEnv()
	if os.Getenv(logging.EnvLevel) != "" {
		cfg.Logging.Level = env.Level
	}
	if os.Getenv(logging.EnvFormat) != "" {
		cfg.Logging.Format = env.Format
	}
	if os.Getenv(logging.EnvSource) != "" {
		cfg.Logging.AddSource = env.AddSource
	}
	if env.File != "" {
		cfg.Logging.File = env.File
	}
	return nil
}
