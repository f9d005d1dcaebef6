// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const translationColumns = `id, recipe_id, language, title, description, ingredients, instructions, category, created_at, updated_at`

func scanTranslation(row interface{ Scan(...any) error }) (RecipeTranslation, error) {
	var t RecipeTranslation
	err := row.Scan(
		&t.ID,
		&t.RecipeID,
		&t.Language,
		&t.Title,
		&t.Description,
		&t.Ingredients,
		&t.Instructions,
		&t.Category,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

const upsertTranslation = `-- name: UpsertTranslation :exec
INSERT INTO recipe_translations (
    recipe_id, language, title, description, ingredients, instructions, category, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(recipe_id, language) DO UPDATE SET
    title = excluded.title,
    description = excluded.description,
    ingredients = excluded.ingredients,
    instructions = excluded.instructions,
    category = excluded.category,
    updated_at = excluded.updated_at`

type UpsertTranslationParams struct {
	RecipeID     int64
	Language     string
	Title        string
	Description  string
	Ingredients  string
	Instructions string
	Category     string
	Now          time.Time
}

// UpsertTranslation inserts the (recipe_id, language) row or replaces every
// text field of the existing one in a single statement.
func (q *Queries) UpsertTranslation(ctx context.Context, arg UpsertTranslationParams) error {
	_, err := q.db.ExecContext(ctx, upsertTranslation,
		arg.RecipeID,
		arg.Language,
		arg.Title,
		arg.Description,
		arg.Ingredients,
		arg.Instructions,
		arg.Category,
		arg.Now,
		arg.Now,
	)
	return err
}

const translationExists = `-- name: TranslationExists :one
SELECT EXISTS(SELECT 1 FROM recipe_translations WHERE recipe_id = ? AND language = ?)`

func (q *Queries) TranslationExists(ctx context.Context, recipeID int64, language string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, translationExists, recipeID, language).Scan(&exists)
	return exists, err
}

const getTranslation = `-- name: GetTranslation :one
SELECT ` + translationColumns + ` FROM recipe_translations WHERE recipe_id = ? AND language = ?`

func (q *Queries) GetTranslation(ctx context.Context, recipeID int64, language string) (RecipeTranslation, error) {
	return scanTranslation(q.db.QueryRowContext(ctx, getTranslation, recipeID, language))
}

const listTranslations = `-- name: ListTranslations :many
SELECT ` + translationColumns + ` FROM recipe_translations ORDER BY recipe_id, language`

func (q *Queries) ListTranslations(ctx context.Context) ([]RecipeTranslation, error) {
	return q.listTranslations(ctx, listTranslations)
}

const listTranslationsByLanguage = `-- name: ListTranslationsByLanguage :many
SELECT ` + translationColumns + ` FROM recipe_translations WHERE language = ? ORDER BY recipe_id`

func (q *Queries) ListTranslationsByLanguage(ctx context.Context, language string) ([]RecipeTranslation, error) {
	return q.listTranslations(ctx, listTranslationsByLanguage, language)
}

func (q *Queries) listTranslations(ctx context.Context, query string, args ...any) ([]RecipeTranslation, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []RecipeTranslation
	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const listTranslationsForRecipe = `-- name: ListTranslationsForRecipe :many
SELECT ` + translationColumns + ` FROM recipe_translations WHERE recipe_id = ? ORDER BY language`

func (q *Queries) ListTranslationsForRecipe(ctx context.Context, recipeID int64) ([]RecipeTranslation, error) {
	return q.listTranslations(ctx, listTranslationsForRecipe, recipeID)
}

const countTranslations = `-- name: CountTranslations :one
SELECT COUNT(*) FROM recipe_translations`

func (q *Queries) CountTranslations(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countTranslations).Scan(&n)
	return n, err
}

const countTranslationsForLanguage = `-- name: CountTranslationsForLanguage :one
SELECT COUNT(*) FROM recipe_translations WHERE language = ?`

func (q *Queries) CountTranslationsForLanguage(ctx context.Context, language string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countTranslationsForLanguage, language).Scan(&n)
	return n, err
}

const countTranslationsByLanguage = `-- name: CountTranslationsByLanguage :many
SELECT language, COUNT(*) FROM recipe_translations GROUP BY language ORDER BY language`

func (q *Queries) CountTranslationsByLanguage(ctx context.Context) ([]LanguageCount, error) {
	rows, err := q.db.QueryContext(ctx, countTranslationsByLanguage)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []LanguageCount
	for rows.Next() {
		var i LanguageCount
		if err := rows.Scan(&i.Language, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getTranslationIDRange = `-- name: GetTranslationIDRange :one
SELECT MIN(recipe_id), MAX(recipe_id), COUNT(*) FROM recipe_translations`

// GetTranslationIDRange returns the span of recipe_id values referenced by translations.
func (q *Queries) GetTranslationIDRange(ctx context.Context) (IDRange, error) {
	return scanIDRange(q.db.QueryRowContext(ctx, getTranslationIDRange))
}

const listShiftOrphans = `-- name: ListShiftOrphans :many
SELECT DISTINCT t.recipe_id
FROM recipe_translations t
LEFT JOIN recipes r ON r.id = t.recipe_id - ?
WHERE r.id IS NULL
ORDER BY t.recipe_id`

// ListShiftOrphans returns the recipe_id values that would not reference an
// existing recipe once shifted by -offset.
func (q *Queries) ListShiftOrphans(ctx context.Context, offset int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listShiftOrphans, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const listShiftGaps = `-- name: ListShiftGaps :many
SELECT s.language, COUNT(*)
FROM (
    SELECT language, MIN(recipe_id) - ? AS lo, MAX(recipe_id) - ? AS hi
    FROM recipe_translations
    GROUP BY language
) s
JOIN recipes r ON r.id BETWEEN s.lo AND s.hi
WHERE NOT EXISTS (
    SELECT 1 FROM recipe_translations t
    WHERE t.language = s.language AND t.recipe_id = r.id + ?
)
GROUP BY s.language
ORDER BY s.language`

// ListShiftGaps counts, per language, the recipes inside the language's
// shifted recipe_id span that would have no row once shifted by -offset.
func (q *Queries) ListShiftGaps(ctx context.Context, offset int64) ([]LanguageCount, error) {
	rows, err := q.db.QueryContext(ctx, listShiftGaps, offset, offset, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []LanguageCount
	for rows.Next() {
		var i LanguageCount
		if err := rows.Scan(&i.Language, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const shiftTranslationRecipeIDsNegate = `-- name: ShiftTranslationRecipeIDsNegate :execrows
UPDATE recipe_translations SET recipe_id = -(recipe_id - ?)`

const shiftTranslationRecipeIDsRestore = `-- name: ShiftTranslationRecipeIDsRestore :execrows
UPDATE recipe_translations SET recipe_id = -recipe_id WHERE recipe_id < 0`

// ShiftTranslationRecipeIDs subtracts offset from every recipe_id. The shift is
// done in two passes through negative ids so overlapping source and target
// ranges never violate UNIQUE(recipe_id, language). Run it inside a transaction.
func (q *Queries) ShiftTranslationRecipeIDs(ctx context.Context, offset int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, shiftTranslationRecipeIDsNegate, offset)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := q.db.ExecContext(ctx, shiftTranslationRecipeIDsRestore); err != nil {
		return 0, err
	}
	return affected, nil
}

const dropTranslationsBackup = `DROP TABLE IF EXISTS ` + BackupTable

const createTranslationsBackup = `CREATE TABLE ` + BackupTable + ` AS SELECT * FROM recipe_translations`

// BackupTranslations replaces BackupTable with a full copy of recipe_translations.
func (q *Queries) BackupTranslations(ctx context.Context) error {
	if _, err := q.db.ExecContext(ctx, dropTranslationsBackup); err != nil {
		return err
	}
	_, err := q.db.ExecContext(ctx, createTranslationsBackup)
	return err
}

const countBackupTranslations = `SELECT COUNT(*) FROM ` + BackupTable

func (q *Queries) CountBackupTranslations(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countBackupTranslations).Scan(&n)
	return n, err
}

const updateTranslationText = `-- name: UpdateTranslationText :execrows
UPDATE recipe_translations
SET title = ?, description = ?, ingredients = ?, instructions = ?, category = ?, updated_at = ?
WHERE id = ?`

type UpdateTranslationTextParams struct {
	ID           int64
	Title        string
	Description  string
	Ingredients  string
	Instructions string
	Category     string
	UpdatedAt    time.Time
}

// UpdateTranslationText rewrites the text of an existing row. It never inserts.
func (q *Queries) UpdateTranslationText(ctx context.Context, arg UpdateTranslationTextParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTranslationText,
		arg.Title,
		arg.Description,
		arg.Ingredients,
		arg.Instructions,
		arg.Category,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const updateTranslationTitle = `-- name: UpdateTranslationTitle :execrows
UPDATE recipe_translations SET title = ?, updated_at = ? WHERE recipe_id = ? AND language = ?`

func (q *Queries) UpdateTranslationTitle(ctx context.Context, recipeID int64, language, title string, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTranslationTitle, title, now, recipeID, language)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteRenameConflicts = `-- name: DeleteRenameConflicts :execrows
DELETE FROM recipe_translations
WHERE language = ?
  AND recipe_id IN (SELECT recipe_id FROM recipe_translations WHERE language = ?)`

// DeleteRenameConflicts removes rows in language to that also exist in language from.
func (q *Queries) DeleteRenameConflicts(ctx context.Context, from, to string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteRenameConflicts, to, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const renameLanguage = `-- name: RenameLanguage :execrows
UPDATE recipe_translations SET language = ?, updated_at = ? WHERE language = ?`

func (q *Queries) RenameLanguage(ctx context.Context, from, to string, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, renameLanguage, to, now, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listTranslationsWithRecipe = `-- name: ListTranslationsWithRecipe :many
SELECT t.id, t.recipe_id, t.language, t.title, t.description, t.ingredients, t.instructions,
       t.category, t.created_at, t.updated_at, r.title
FROM recipe_translations t
JOIN recipes r ON r.id = t.recipe_id
WHERE ? = '' OR t.language = ?
ORDER BY t.recipe_id, t.language`

// ListTranslationsWithRecipe lists translations joined with their recipe. An
// empty language lists every language. Rows without a recipe are omitted.
func (q *Queries) ListTranslationsWithRecipe(ctx context.Context, language string) ([]TranslationWithRecipe, error) {
	rows, err := q.db.QueryContext(ctx, listTranslationsWithRecipe, language, language)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []TranslationWithRecipe
	for rows.Next() {
		var i TranslationWithRecipe
		if err := rows.Scan(
			&i.ID,
			&i.RecipeID,
			&i.Language,
			&i.Title,
			&i.Description,
			&i.Ingredients,
			&i.Instructions,
			&i.Category,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.OriginalTitle,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
