// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the recipe tools.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/olegiv/recipe-l10n/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a test logger that only outputs errors.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary migrated database. It is closed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "recipes-test.db")
	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	return db
}

// SeedRecipes inserts recipes with explicit ids, keyed id -> title.
func SeedRecipes(t *testing.T, db *sql.DB, recipes map[int64]string) {
	t.Helper()

	q := store.New(db)
	for id, title := range recipes {
		_, err := q.CreateRecipeWithID(context.Background(), store.CreateRecipeWithIDParams{
			ID: id,
			CreateRecipeParams: store.CreateRecipeParams{
				Title:        title,
				Description:  "Descripción de " + title,
				Ingredients:  "- ingrediente",
				Instructions: "Cocinar " + title,
				Category:     "Platos",
				CreatedAt:    time.Now(),
			},
		})
		if err != nil {
			t.Fatalf("CreateRecipeWithID(%d): %v", id, err)
		}
	}
}

// SeedRecipeRange inserts recipes first..last titled "Receta <id>".
func SeedRecipeRange(t *testing.T, db *sql.DB, first, last int64) {
	t.Helper()

	recipes := make(map[int64]string, last-first+1)
	for id := first; id <= last; id++ {
		recipes[id] = RecipeTitle(id)
	}
	SeedRecipes(t, db, recipes)
}

// RecipeTitle is the title SeedRecipeRange gives recipe id.
func RecipeTitle(id int64) string {
	return "Receta " + strconv.FormatInt(id, 10)
}

// SeedTranslation writes a translation row directly, bypassing recipe validation,
// so tests can build corrupted stores.
func SeedTranslation(t *testing.T, db *sql.DB, recipeID int64, language, title string) {
	t.Helper()

	err := store.New(db).UpsertTranslation(context.Background(), store.UpsertTranslationParams{
		RecipeID:     recipeID,
		Language:     language,
		Title:        title,
		Description:  "description " + title,
		Ingredients:  "ingredients " + title,
		Instructions: "instructions " + title,
		Category:     "category",
		Now:          time.Now(),
	})
	if err != nil {
		t.Fatalf("UpsertTranslation(%d, %s): %v", recipeID, language, err)
	}
}

// WriteFile writes content to name inside a temporary directory and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
