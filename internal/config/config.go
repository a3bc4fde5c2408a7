// Package config loads deployment settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/peterkuimelis/campaignx/internal/sim"
)

// Config holds settings shared by every campaignx binary. Command flags
// override individual fields after Load.
type Config struct {
	DBPath     string `env:"CAMPAIGNX_DB"          envDefault:"campaignx.db"`
	ArchiveDir string `env:"CAMPAIGNX_ARCHIVE_DIR" envDefault:"archive"`
	TuningPath string `env:"CAMPAIGNX_TUNING"`
	Port       string `env:"CAMPAIGNX_PORT"        envDefault:"9999"`
	WebAddr    string `env:"CAMPAIGNX_WEB_ADDR"    envDefault:":8080"`
	NoRecord   bool   `env:"CAMPAIGNX_NO_RECORD"`
	LogLevel   string `env:"CAMPAIGNX_LOG_LEVEL"   envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Tuning loads the balance table named by TuningPath, or the embedded
// default when it is empty.
func (c Config) Tuning() (*sim.Tuning, error) {
	if c.TuningPath == "" {
		return sim.DefaultTuning(), nil
	}
	return sim.LoadTuning(c.TuningPath)
}

// Logger builds the process logger at LogLevel. Unknown levels fall back
// to info.
func (c Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
