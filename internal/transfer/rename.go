// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/store"
)

// ErrNoTranslations means the source language has no rows to move.
var ErrNoTranslations = errors.New("no translations for language")

// RenameResult reports a language code migration.
type RenameResult struct {
	From     string
	To       string
	Moved    int64
	Replaced int64
}

// RenameLanguage moves every translation from one language code to another
// in a single transaction. Rows already stored under to for the same recipe
// are replaced by the moved rows.
func RenameLanguage(ctx context.Context, db *sql.DB, from, to string) (*RenameResult, error) {
	for _, code := range []string{from, to} {
		if !model.IsValidLanguageCode(code) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
		}
	}
	if from == to {
		return nil, fmt.Errorf("source and target language are both %q", from)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := store.New(tx)

	n, err := q.CountTranslationsForLanguage(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("counting %s translations: %w", from, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoTranslations, from)
	}

	replaced, err := q.DeleteRenameConflicts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("removing %s rows replaced by %s: %w", to, from, err)
	}

	moved, err := q.RenameLanguage(ctx, from, to, time.Now())
	if err != nil {
		return nil, fmt.Errorf("renaming %s to %s: %w", from, to, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &RenameResult{From: from, To: to, Moved: moved, Replaced: replaced}, nil
}
