// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	return testDBWithDriver(t, DriverModernc)
}

func testDBWithDriver(t *testing.T, driver string) (*sql.DB, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "recipes-test.db")

	cfg := DefaultDBConfig()
	cfg.Driver = driver
	db, err := NewDBWithConfig(dbPath, cfg)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	// Run migrations
	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}

	return db, cleanup
}

func seedRecipe(t *testing.T, q *Queries, id int64, title string) Recipe {
	t.Helper()
	r, err := q.CreateRecipeWithID(context.Background(), CreateRecipeWithIDParams{
		ID: id,
		CreateRecipeParams: CreateRecipeParams{
			Title:     title,
			CreatedAt: time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("CreateRecipeWithID(%d): %v", id, err)
	}
	return r
}

func upsert(t *testing.T, q *Queries, recipeID int64, lang, title string) {
	t.Helper()
	err := q.UpsertTranslation(context.Background(), UpsertTranslationParams{
		RecipeID: recipeID,
		Language: lang,
		Title:    title,
		Now:      time.Now(),
	})
	if err != nil {
		t.Fatalf("UpsertTranslation(%d, %s): %v", recipeID, lang, err)
	}
}

func TestNewDBWithConfig_UnsupportedDriver(t *testing.T) {
	cfg := DefaultDBConfig()
	cfg.Driver = "postgres"
	if _, err := NewDBWithConfig(filepath.Join(t.TempDir(), "x.db"), cfg); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	v, err := MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if v != 3 {
		t.Errorf("version = %d, want 3", v)
	}
}

func TestMattnDriver(t *testing.T) {
	db, cleanup := testDBWithDriver(t, DriverMattn)
	defer cleanup()

	q := New(db)
	seedRecipe(t, q, 1, "Pollo al Horno")

	n, err := q.CountRecipes(context.Background())
	if err != nil {
		t.Fatalf("CountRecipes: %v", err)
	}
	if n != 1 {
		t.Errorf("CountRecipes = %d, want 1", n)
	}
}

func TestCreateRecipe(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	r, err := q.CreateRecipe(ctx, CreateRecipeParams{
		Title:        "Tarta de Queso",
		Description:  "Una tarta cremosa",
		Ingredients:  "- queso\n- huevos",
		Instructions: "Mezclar y hornear",
		Category:     "Postres",
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	if r.ID == 0 {
		t.Error("recipe.ID should not be 0")
	}

	got, err := q.GetRecipe(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got.Title != "Tarta de Queso" || got.Category != "Postres" {
		t.Errorf("GetRecipe = %+v", got)
	}

	if _, err := q.GetRecipe(ctx, r.ID+100); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetRecipe(missing) err = %v, want sql.ErrNoRows", err)
	}
}

func TestUpsertRecipeByFilename_KeepsID(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	params := CreateRecipeParams{
		Title:     "Flan",
		Filename:  sql.NullString{String: "flan.md", Valid: true},
		CreatedAt: time.Now(),
	}

	first, err := q.UpsertRecipeByFilename(ctx, params)
	if err != nil {
		t.Fatalf("UpsertRecipeByFilename: %v", err)
	}

	params.Title = "Flan de Huevo"
	second, err := q.UpsertRecipeByFilename(ctx, params)
	if err != nil {
		t.Fatalf("UpsertRecipeByFilename (again): %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("id changed from %d to %d", first.ID, second.ID)
	}
	if second.Title != "Flan de Huevo" {
		t.Errorf("Title = %q", second.Title)
	}
}

func TestRecipeIDRange(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	empty, err := q.GetRecipeIDRange(ctx)
	if err != nil {
		t.Fatalf("GetRecipeIDRange: %v", err)
	}
	if empty.Count != 0 {
		t.Errorf("Count = %d, want 0", empty.Count)
	}

	seedRecipe(t, q, 220, "A")
	seedRecipe(t, q, 292, "B")
	seedRecipe(t, q, 250, "C")

	r, err := q.GetRecipeIDRange(ctx)
	if err != nil {
		t.Fatalf("GetRecipeIDRange: %v", err)
	}
	if r.Min != 220 || r.Max != 292 || r.Count != 3 {
		t.Errorf("range = %+v", r)
	}
}

func TestUpsertTranslation_ReplacesRow(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	seedRecipe(t, q, 1, "Pollo al Horno")

	first := UpsertTranslationParams{
		RecipeID:    1,
		Language:    "en",
		Title:       "Roast Chicken",
		Description: "old",
		Now:         time.Now(),
	}
	if err := q.UpsertTranslation(ctx, first); err != nil {
		t.Fatalf("UpsertTranslation: %v", err)
	}

	second := UpsertTranslationParams{RecipeID: 1, Language: "en", Title: "Baked Chicken", Now: time.Now()}
	if err := q.UpsertTranslation(ctx, second); err != nil {
		t.Fatalf("UpsertTranslation (replace): %v", err)
	}

	n, err := q.CountTranslations(ctx)
	if err != nil {
		t.Fatalf("CountTranslations: %v", err)
	}
	if n != 1 {
		t.Fatalf("CountTranslations = %d, want 1", n)
	}

	got, err := q.GetTranslation(ctx, 1, "en")
	if err != nil {
		t.Fatalf("GetTranslation: %v", err)
	}
	if got.Title != "Baked Chicken" {
		t.Errorf("Title = %q, want Baked Chicken", got.Title)
	}
	if got.Description != "" {
		t.Errorf("Description = %q, want empty", got.Description)
	}
}

func TestShiftTranslationRecipeIDs_OverlappingRanges(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	for id := int64(1); id <= 5; id++ {
		seedRecipe(t, q, id, "r")
	}
	// ids 3..7 must become 1..5; a naive in-place update would collide on 3, 4 and 5.
	for id := int64(3); id <= 7; id++ {
		upsert(t, q, id, "en", "t")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	affected, err := q.WithTx(tx).ShiftTranslationRecipeIDs(ctx, 2)
	if err != nil {
		_ = tx.Rollback()
		t.Fatalf("ShiftTranslationRecipeIDs: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if affected != 5 {
		t.Errorf("affected = %d, want 5", affected)
	}
	r, err := q.GetTranslationIDRange(ctx)
	if err != nil {
		t.Fatalf("GetTranslationIDRange: %v", err)
	}
	if r.Min != 1 || r.Max != 5 {
		t.Errorf("range = %+v, want 1..5", r)
	}
}

func TestListShiftOrphans(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	seedRecipe(t, q, 1, "a")
	seedRecipe(t, q, 2, "b")
	upsert(t, q, 11, "en", "a")
	upsert(t, q, 12, "en", "b")
	upsert(t, q, 30, "en", "x")

	orphans, err := q.ListShiftOrphans(ctx, 10)
	if err != nil {
		t.Fatalf("ListShiftOrphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0] != 30 {
		t.Errorf("orphans = %v, want [30]", orphans)
	}
}

func TestListShiftGaps(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	for id := int64(1); id <= 10; id++ {
		seedRecipe(t, q, id, "r")
	}
	// en covers 1..2 and 6 after the shift, zh covers 1..3 without holes.
	upsert(t, q, 11, "en", "a")
	upsert(t, q, 12, "en", "b")
	upsert(t, q, 16, "en", "c")
	upsert(t, q, 11, "zh", "a")
	upsert(t, q, 12, "zh", "b")
	upsert(t, q, 13, "zh", "c")

	gaps, err := q.ListShiftGaps(ctx, 10)
	if err != nil {
		t.Fatalf("ListShiftGaps: %v", err)
	}
	if len(gaps) != 1 || gaps[0].Language != "en" || gaps[0].Count != 3 {
		t.Errorf("gaps = %+v, want [{en 3}]", gaps)
	}
}

func TestBackupTranslations(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	upsert(t, q, 1, "en", "a")
	upsert(t, q, 1, "zh", "b")

	if err := q.BackupTranslations(ctx); err != nil {
		t.Fatalf("BackupTranslations: %v", err)
	}
	upsert(t, q, 2, "en", "c")
	// A second backup replaces the first one.
	if err := q.BackupTranslations(ctx); err != nil {
		t.Fatalf("BackupTranslations (again): %v", err)
	}

	n, err := q.CountBackupTranslations(ctx)
	if err != nil {
		t.Fatalf("CountBackupTranslations: %v", err)
	}
	if n != 3 {
		t.Errorf("backup rows = %d, want 3", n)
	}
}

func TestRenameLanguageQueries(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	upsert(t, q, 1, "va", "Pollastre")
	upsert(t, q, 2, "va", "Flam")
	upsert(t, q, 1, "ca", "Pollastre vell")

	deleted, err := q.DeleteRenameConflicts(ctx, "va", "ca")
	if err != nil {
		t.Fatalf("DeleteRenameConflicts: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	moved, err := q.RenameLanguage(ctx, "va", "ca", time.Now())
	if err != nil {
		t.Fatalf("RenameLanguage: %v", err)
	}
	if moved != 2 {
		t.Errorf("moved = %d, want 2", moved)
	}

	got, err := q.GetTranslation(ctx, 1, "ca")
	if err != nil {
		t.Fatalf("GetTranslation: %v", err)
	}
	if got.Title != "Pollastre" {
		t.Errorf("Title = %q, want Pollastre", got.Title)
	}
}

func TestCountTranslationsByLanguage(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	upsert(t, q, 1, "en", "a")
	upsert(t, q, 2, "en", "b")
	upsert(t, q, 1, "eu", "c")

	counts, err := q.CountTranslationsByLanguage(ctx)
	if err != nil {
		t.Fatalf("CountTranslationsByLanguage: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("len = %d, want 2", len(counts))
	}
	if counts[0].Language != "en" || counts[0].Count != 2 {
		t.Errorf("counts[0] = %+v", counts[0])
	}
	if counts[1].Language != "eu" || counts[1].Count != 1 {
		t.Errorf("counts[1] = %+v", counts[1])
	}
}

func TestListTranslationsWithRecipe(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	seedRecipe(t, q, 1, "Pollo al Horno")
	upsert(t, q, 1, "en", "Baked Chicken")
	upsert(t, q, 1, "zh", "烤鸡")
	upsert(t, q, 99, "en", "orphan")

	all, err := q.ListTranslationsWithRecipe(ctx, "")
	if err != nil {
		t.Fatalf("ListTranslationsWithRecipe: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].OriginalTitle != "Pollo al Horno" {
		t.Errorf("OriginalTitle = %q", all[0].OriginalTitle)
	}

	en, err := q.ListTranslationsWithRecipe(ctx, "en")
	if err != nil {
		t.Fatalf("ListTranslationsWithRecipe(en): %v", err)
	}
	if len(en) != 1 || en[0].Title != "Baked Chicken" {
		t.Errorf("en = %+v", en)
	}
}

func TestEvents(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	e, err := q.CreateEvent(ctx, CreateEventParams{
		Level:     "warning",
		Category:  "import",
		Message:   "recipe not found",
		Metadata:  `{"key":"147"}`,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if e.ID == 0 {
		t.Error("event.ID should not be 0")
	}

	events, err := q.ListEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 || events[0].Category != "import" {
		t.Errorf("events = %+v", events)
	}
}
