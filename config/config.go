// Package config loads distributor settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/effects"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Settings holds every tunable of the distributor.
type Settings struct {
	// DataDir is scanned for *_CID.ini and *_CID.lua rule files.
	DataDir string `yaml:"data_dir" env:"CID_DATA_DIR"`
	Debug   bool   `yaml:"debug" env:"CID_DEBUG"`

	// ChanceMode is "per_entry" or "per_unit".
	ChanceMode string `yaml:"chance_mode" env:"CID_CHANCE_MODE"`
	// Seed seeds the chance RNG; 0 picks a seed from the clock.
	Seed int64 `yaml:"seed" env:"CID_SEED"`

	LogFormat string `yaml:"log_format" env:"CID_LOG_FORMAT"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		DataDir:    "Data",
		ChanceMode: effects.PerEntry.String(),
		LogFormat:  FormatText,
	}
}

// Load reads settings from the YAML file at path, then applies CID_*
// environment overrides. A missing file, or an empty path, yields the
// defaults.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return s, fmt.Errorf("reading settings %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("parsing settings %s: %w", path, err)
			}
		}
	}

	if err := ParseEnv(&s); err != nil {
		return s, err
	}
	return s, s.Validate()
}

// ParseEnv loads overrides from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects settings the distributor cannot run with.
func (s Settings) Validate() error {
	if s.DataDir == "" {
		return fmt.Errorf("settings: data_dir is required")
	}
	if _, err := s.Mode(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	switch s.LogFormat {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("settings: unknown log format %q", s.LogFormat)
	}
	return nil
}

// Mode returns the parsed chance mode.
func (s Settings) Mode() (effects.Mode, error) {
	return effects.ParseMode(s.ChanceMode)
}

// LogLevel is Debug when debug logging is on and Info otherwise.
func (s Settings) LogLevel() slog.Level {
	if s.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Logger builds a logger writing to w in the configured format and level.
func (s Settings) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: s.LogLevel()}
	if s.LogFormat == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
