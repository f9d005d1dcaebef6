// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/store"
)

// Config holds the tool configuration loaded from environment variables.
type Config struct {
	DBPath   string `env:"RECIPES_DB_PATH" envDefault:"./data/recipes.db"`
	DBDriver string `env:"RECIPES_DB_DRIVER" envDefault:"sqlite"`
	Env      string `env:"RECIPES_ENV" envDefault:"development"`
	LogLevel string `env:"RECIPES_LOG_LEVEL" envDefault:"info"`

	// Reconciliation
	MatchThreshold    int    `env:"RECIPES_MATCH_THRESHOLD" envDefault:"70"`      // Minimum fuzzy title score, exclusive
	SpotCheckLanguage string `env:"RECIPES_SPOT_CHECK_LANGUAGE" envDefault:"en"` // Language verified after an offset repair

	// Event log
	EventLog bool `env:"RECIPES_EVENT_LOG" envDefault:"true"` // Persist WARN and ERROR logs to the events table
}

// IsDevelopment returns true if the tool is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DBConfig returns the store configuration for the selected driver.
func (c Config) DBConfig() store.DBConfig {
	cfg := store.DefaultDBConfig()
	cfg.Driver = c.DBDriver
	return cfg
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("RECIPES_DB_PATH must not be empty")
	}

	if c.DBDriver != store.DriverModernc && c.DBDriver != store.DriverMattn {
		return fmt.Errorf("RECIPES_DB_DRIVER must be %q or %q, got %q",
			store.DriverModernc, store.DriverMattn, c.DBDriver)
	}

	if c.MatchThreshold < 0 || c.MatchThreshold > 100 {
		return fmt.Errorf("RECIPES_MATCH_THRESHOLD must be between 0 and 100, got %d", c.MatchThreshold)
	}

	if !model.IsValidLanguageCode(c.SpotCheckLanguage) {
		return fmt.Errorf("RECIPES_SPOT_CHECK_LANGUAGE %q is not a language code", c.SpotCheckLanguage)
	}

	// Low thresholds accept almost any title pair
	if c.MatchThreshold < 50 {
		slog.Warn("RECIPES_MATCH_THRESHOLD is low; unrelated titles may be matched",
			"threshold", c.MatchThreshold, "category", model.EventCategoryConfig)
	}

	return nil
}
