// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/store"
)

var (
	// ErrRecipeNotFound means the translation references no canonical recipe.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrInvalidLanguage means the language code is malformed.
	ErrInvalidLanguage = errors.New("invalid language code")
)

// Upserter writes whole translations. Every write replaces all five text
// fields, so values absent from the source become empty strings.
type Upserter struct {
	now func() time.Time
}

// NewUpserter creates an Upserter.
func NewUpserter() *Upserter {
	return &Upserter{now: time.Now}
}

// Plan validates t and reports whether Upsert would create or update a row.
// It does not write.
func (u *Upserter) Plan(ctx context.Context, q *store.Queries, t model.Translation) (Outcome, error) {
	if !model.IsValidLanguageCode(t.Language) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, t.Language)
	}

	ok, err := q.RecipeExists(ctx, t.RecipeID)
	if err != nil {
		return "", fmt.Errorf("checking recipe %d: %w", t.RecipeID, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrRecipeNotFound, t.RecipeID)
	}

	exists, err := q.TranslationExists(ctx, t.RecipeID, t.Language)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", t, err)
	}
	if exists {
		return OutcomeUpdated, nil
	}
	return OutcomeCreated, nil
}

// Upsert inserts t or replaces the existing (recipe_id, language) row in one
// statement. Use q bound to a transaction to make the check and write atomic.
func (u *Upserter) Upsert(ctx context.Context, q *store.Queries, t model.Translation) (Outcome, error) {
	outcome, err := u.Plan(ctx, q, t)
	if err != nil {
		return "", err
	}

	err = q.UpsertTranslation(ctx, store.UpsertTranslationParams{
		RecipeID:     t.RecipeID,
		Language:     t.Language,
		Title:        t.Title,
		Description:  t.Description,
		Ingredients:  t.Ingredients,
		Instructions: t.Instructions,
		Category:     t.Category,
		Now:          u.now(),
	})
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", t, err)
	}

	return outcome, nil
}
