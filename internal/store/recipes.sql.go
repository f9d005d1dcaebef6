// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const recipeColumns = `id, title, description, ingredients, instructions, category, filename, created_at`

func scanRecipe(row interface{ Scan(...any) error }) (Recipe, error) {
	var r Recipe
	err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&r.Ingredients,
		&r.Instructions,
		&r.Category,
		&r.Filename,
		&r.CreatedAt,
	)
	return r, err
}

const createRecipe = `-- name: CreateRecipe :one
INSERT INTO recipes (title, description, ingredients, instructions, category, filename, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + recipeColumns

type CreateRecipeParams struct {
	Title        string
	Description  string
	Ingredients  string
	Instructions string
	Category     string
	Filename     sql.NullString
	CreatedAt    time.Time
}

func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (Recipe, error) {
	row := q.db.QueryRowContext(ctx, createRecipe,
		arg.Title,
		arg.Description,
		arg.Ingredients,
		arg.Instructions,
		arg.Category,
		arg.Filename,
		arg.CreatedAt,
	)
	return scanRecipe(row)
}

const createRecipeWithID = `-- name: CreateRecipeWithID :one
INSERT INTO recipes (id, title, description, ingredients, instructions, category, filename, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + recipeColumns

type CreateRecipeWithIDParams struct {
	ID int64
	CreateRecipeParams
}

// CreateRecipeWithID inserts a recipe with an explicit identifier, as restored
// databases and fixtures keep the ids they were exported with.
func (q *Queries) CreateRecipeWithID(ctx context.Context, arg CreateRecipeWithIDParams) (Recipe, error) {
	row := q.db.QueryRowContext(ctx, createRecipeWithID,
		arg.ID,
		arg.Title,
		arg.Description,
		arg.Ingredients,
		arg.Instructions,
		arg.Category,
		arg.Filename,
		arg.CreatedAt,
	)
	return scanRecipe(row)
}

const upsertRecipeByFilename = `-- name: UpsertRecipeByFilename :one
INSERT INTO recipes (title, description, ingredients, instructions, category, filename, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(filename) DO UPDATE SET
    title = excluded.title,
    description = excluded.description,
    ingredients = excluded.ingredients,
    instructions = excluded.instructions,
    category = excluded.category
RETURNING ` + recipeColumns

func (q *Queries) UpsertRecipeByFilename(ctx context.Context, arg CreateRecipeParams) (Recipe, error) {
	row := q.db.QueryRowContext(ctx, upsertRecipeByFilename,
		arg.Title,
		arg.Description,
		arg.Ingredients,
		arg.Instructions,
		arg.Category,
		arg.Filename,
		arg.CreatedAt,
	)
	return scanRecipe(row)
}

const getRecipe = `-- name: GetRecipe :one
SELECT ` + recipeColumns + ` FROM recipes WHERE id = ?`

func (q *Queries) GetRecipe(ctx context.Context, id int64) (Recipe, error) {
	return scanRecipe(q.db.QueryRowContext(ctx, getRecipe, id))
}

const recipeExists = `-- name: RecipeExists :one
SELECT EXISTS(SELECT 1 FROM recipes WHERE id = ?)`

func (q *Queries) RecipeExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, recipeExists, id).Scan(&exists)
	return exists, err
}

const listRecipes = `-- name: ListRecipes :many
SELECT ` + recipeColumns + ` FROM recipes ORDER BY id`

func (q *Queries) ListRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := q.db.QueryContext(ctx, listRecipes)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const listRecipeTitles = `-- name: ListRecipeTitles :many
SELECT id, title FROM recipes ORDER BY id`

func (q *Queries) ListRecipeTitles(ctx context.Context) ([]RecipeTitle, error) {
	rows, err := q.db.QueryContext(ctx, listRecipeTitles)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []RecipeTitle
	for rows.Next() {
		var i RecipeTitle
		if err := rows.Scan(&i.ID, &i.Title); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countRecipes = `-- name: CountRecipes :one
SELECT COUNT(*) FROM recipes`

func (q *Queries) CountRecipes(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countRecipes).Scan(&n)
	return n, err
}

const getRecipeIDRange = `-- name: GetRecipeIDRange :one
SELECT MIN(id), MAX(id), COUNT(*) FROM recipes`

func (q *Queries) GetRecipeIDRange(ctx context.Context) (IDRange, error) {
	return scanIDRange(q.db.QueryRowContext(ctx, getRecipeIDRange))
}

func scanIDRange(row *sql.Row) (IDRange, error) {
	var (
		minID, maxID sql.NullInt64
		r            IDRange
	)
	if err := row.Scan(&minID, &maxID, &r.Count); err != nil {
		return IDRange{}, err
	}
	r.Min = minID.Int64
	r.Max = maxID.Int64
	return r, nil
}
