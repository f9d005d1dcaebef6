// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd implements the recipectl subcommands.
package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/olegiv/recipe-l10n/internal/config"
	"github.com/olegiv/recipe-l10n/internal/logging"
	"github.com/olegiv/recipe-l10n/internal/store"
	"github.com/olegiv/recipe-l10n/internal/version"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailed  = 1
	ExitSkipped = 2
)

// ErrSkipped reports a batch that completed but skipped some records.
var ErrSkipped = errors.New("batch completed with skipped records")

// app holds what PersistentPreRunE sets up for every command.
var app struct {
	cfg    *config.Config
	db     *sql.DB
	logger *slog.Logger
}

var (
	dbPath      string
	versionInfo version.Info
)

var rootCmd = &cobra.Command{
	Use:   "recipectl",
	Short: "Reconcile, import and audit recipe translations",
	Long: `recipectl keeps the translations of a Spanish recipe collection aligned
with the canonical recipe store.

It repairs recipe_id offsets left by re-imports, matches external
translation files to recipes by id or by title, applies ordered text
substitutions and reports per-language coverage.

Configuration is read from RECIPES_* environment variables and an optional
.env file in the working directory.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default: $RECIPES_DB_PATH)")
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, info version.Info) int {
	versionInfo = info

	err := rootCmd.ExecuteContext(ctx)
	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil {
			slog.Error("error closing database connection", "error", cerr)
		}
		app.db = nil
	}

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrSkipped):
		return ExitSkipped
	default:
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitFailed
	}
}

// setup loads the configuration, opens and migrates the database and
// installs the logger.
func setup(cmd *cobra.Command, _ []string) error {
	if !needsSetup(cmd) {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	app.cfg = cfg

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	app.logger = slog.New(handler)
	slog.SetDefault(app.logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := store.NewDBWithConfig(cfg.DBPath, cfg.DBConfig())
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	app.db = db

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	app.logger.Debug("database ready", "path", cfg.DBPath, "driver", cfg.DBDriver)

	// WARN and ERROR records also go to the events table.
	if cfg.EventLog {
		app.logger = slog.New(logging.NewEventLogHandler(handler, db))
		slog.SetDefault(app.logger)
	}
	return nil
}

// skipSetup marks commands that need no database.
const skipSetup = "skip-setup"

// needsSetup is false for help, completion and annotated commands.
func needsSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipSetup] == "true" {
			return false
		}
		if c.Name() == "help" || c.Name() == "completion" {
			return false
		}
	}
	return true
}
