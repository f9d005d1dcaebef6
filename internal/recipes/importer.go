// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/olegiv/recipe-l10n/internal/logging"
	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/store"
)

// ErrNoRecipes is returned when a directory holds no markdown files.
var ErrNoRecipes = errors.New("no markdown recipes found")

// FileOutcome is the result of importing one file.
type FileOutcome struct {
	Filename string `json:"filename"`
	RecipeID int64  `json:"recipe_id,omitempty"`
	Title    string `json:"title,omitempty"`
	Created  bool   `json:"created"`
	Error    string `json:"error,omitempty"`
}

// Result summarizes a directory import.
type Result struct {
	Dir      string        `json:"dir"`
	Created  int           `json:"created"`
	Updated  int           `json:"updated"`
	Failed   int           `json:"failed"`
	Files    []FileOutcome `json:"files"`
	Duration time.Duration `json:"duration"`

	errs error
}

// Err returns the combined per-file errors, or nil.
func (r *Result) Err() error {
	return r.errs
}

// Importer loads markdown recipes into the recipe store.
type Importer struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewImporter creates a new Importer instance.
func NewImporter(db *sql.DB, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		db:     db,
		logger: logger.With(logging.CategoryKey, model.EventCategoryImport),
	}
}

// ImportDir parses every *.md file in dir, in file name order, and upserts
// it keyed by file name. Re-importing a directory keeps existing recipe ids.
// Files that cannot be read are reported in the result; the import commits
// everything else.
func (i *Importer) ImportDir(ctx context.Context, dir string) (*Result, error) {
	start := time.Now()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading recipe directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRecipes, dir)
	}
	slices.Sort(names)

	result := &Result{Dir: dir}
	if err := i.importFiles(ctx, dir, names, result); err != nil {
		i.logger.Error("recipe import failed", "dir", dir, "error", err)
		return nil, err
	}
	result.Duration = time.Since(start)

	for _, f := range result.Files {
		if f.Error != "" {
			i.logger.Warn("recipe file failed", "filename", f.Filename, "error", f.Error)
		}
	}
	i.logger.Info("recipe import finished",
		"dir", dir,
		"created", result.Created,
		"updated", result.Updated,
		"failed", result.Failed)

	return result, nil
}

func (i *Importer) importFiles(ctx context.Context, dir string, names []string, result *Result) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := store.New(i.db).WithTx(tx)
	existing, err := q.ListRecipes(ctx)
	if err != nil {
		return fmt.Errorf("listing recipes: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, r := range existing {
		if r.Filename.Valid {
			known[r.Filename.String] = true
		}
	}

	now := time.Now()
	for _, name := range names {
		out := FileOutcome{Filename: name}
		rec, err := i.importFile(ctx, q, dir, name, now)
		if err != nil {
			out.Error = err.Error()
			result.Failed++
			result.errs = multierr.Append(result.errs, fmt.Errorf("%s: %w", name, err))
			result.Files = append(result.Files, out)
			continue
		}
		out.RecipeID, out.Title, out.Created = rec.ID, rec.Title, !known[name]
		if out.Created {
			result.Created++
		} else {
			result.Updated++
		}
		result.Files = append(result.Files, out)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (i *Importer) importFile(ctx context.Context, q *store.Queries, dir, name string, now time.Time) (store.Recipe, error) {
	source, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return store.Recipe{}, fmt.Errorf("reading file: %w", err)
	}

	r := Parse(name, source)
	return q.UpsertRecipeByFilename(ctx, store.CreateRecipeParams{
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		Category:     r.Category,
		Filename:     sql.NullString{String: name, Valid: true},
		CreatedAt:    now,
	})
}
