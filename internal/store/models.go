// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// BackupTable is the snapshot of recipe_translations taken before an offset shift.
const BackupTable = "recipe_translations_backup"

type Recipe struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Ingredients  string         `json:"ingredients"`
	Instructions string         `json:"instructions"`
	Category     string         `json:"category"`
	Filename     sql.NullString `json:"filename"`
	CreatedAt    time.Time      `json:"created_at"`
}

type RecipeTranslation struct {
	ID           int64     `json:"id"`
	RecipeID     int64     `json:"recipe_id"`
	Language     string    `json:"language"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// RecipeTitle is the (id, title) pair used for fuzzy matching.
type RecipeTitle struct {
	ID    int64
	Title string
}

// IDRange describes the identifier span of a table. Count is zero for an empty table.
type IDRange struct {
	Min   int64
	Max   int64
	Count int64
}

// LanguageCount is the number of translation rows stored for one language.
type LanguageCount struct {
	Language string
	Count    int64
}

// TranslationWithRecipe is a translation joined with its canonical recipe title.
type TranslationWithRecipe struct {
	RecipeTranslation
	OriginalTitle string
}
