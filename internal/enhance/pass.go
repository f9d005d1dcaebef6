// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package enhance

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/olegiv/recipe-l10n/internal/logging"
	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/store"
)

// Skip reasons for title overrides.
const (
	ReasonRecipeNotFound = "recipe not found"
	ReasonNoTranslation  = "no translation in language"
)

// Change lists the fields rewritten for one translation row.
type Change struct {
	RecipeID int64    `json:"recipe_id"`
	Fields   []string `json:"fields"`
}

// Skip is a title override that could not be applied.
type Skip struct {
	RecipeID int64  `json:"recipe_id"`
	Reason   string `json:"reason"`
}

// Result reports an enhancement pass.
type Result struct {
	Language      string   `json:"language"`
	DryRun        bool     `json:"dry_run"`
	TitlesUpdated int      `json:"titles_updated"`
	RowsScanned   int      `json:"rows_scanned"`
	RowsChanged   int      `json:"rows_changed"`
	Changes       []Change `json:"changes,omitempty"`
	Skipped       []Skip   `json:"skipped,omitempty"`
}

// Pass applies a RuleSet to the stored translations of its language.
type Pass struct {
	db     *sql.DB
	logger *slog.Logger
	dryRun bool
	now    func() time.Time
}

// NewPass creates a Pass. With dryRun set, changes are computed and
// reported but rolled back.
func NewPass(db *sql.DB, logger *slog.Logger, dryRun bool) *Pass {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pass{
		db:     db,
		logger: logger.With(logging.CategoryKey, model.EventCategoryEnhance),
		dryRun: dryRun,
		now:    time.Now,
	}
}

// Run applies title overrides, then the substitution rules, in one
// transaction. Substitutions are not idempotent: running the same rule set
// twice may rewrite text that an earlier run produced.
func (p *Pass) Run(ctx context.Context, rs *RuleSet) (*Result, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}

	res, err := p.run(ctx, rs)
	if err != nil {
		p.logger.Error("enhancement pass failed, rolled back", "language", rs.Language, "error", err)
		return nil, err
	}

	for _, s := range res.Skipped {
		p.logger.Warn("title override skipped", "recipe_id", s.RecipeID, "reason", s.Reason, "language", rs.Language)
	}
	p.logger.Info("enhancement pass finished",
		"language", rs.Language,
		"titles", res.TitlesUpdated,
		"scanned", res.RowsScanned,
		"changed", res.RowsChanged,
		"dry_run", res.DryRun)

	return res, nil
}

func (p *Pass) run(ctx context.Context, rs *RuleSet) (*Result, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := store.New(tx)
	now := p.now()
	res := &Result{Language: rs.Language, DryRun: p.dryRun}

	overridden, err := p.applyTitles(ctx, q, rs, now, res)
	if err != nil {
		return nil, err
	}

	if err := p.applyRules(ctx, q, rs, overridden, now, res); err != nil {
		return nil, err
	}

	if p.dryRun {
		return res, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return res, nil
}

// applyTitles writes curated titles and returns the recipe ids it set.
func (p *Pass) applyTitles(ctx context.Context, q *store.Queries, rs *RuleSet, now time.Time, res *Result) (map[int64]bool, error) {
	overridden := make(map[int64]bool, len(rs.Titles))

	for _, id := range slices.Sorted(maps.Keys(rs.Titles)) {
		ok, err := q.RecipeExists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("checking recipe %d: %w", id, err)
		}
		if !ok {
			res.Skipped = append(res.Skipped, Skip{RecipeID: id, Reason: ReasonRecipeNotFound})
			continue
		}

		n, err := q.UpdateTranslationTitle(ctx, id, rs.Language, rs.Titles[id], now)
		if err != nil {
			return nil, fmt.Errorf("updating title of recipe %d: %w", id, err)
		}
		if n == 0 {
			res.Skipped = append(res.Skipped, Skip{RecipeID: id, Reason: ReasonNoTranslation})
			continue
		}
		overridden[id] = true
		res.TitlesUpdated++
	}

	return overridden, nil
}

// applyRules rewrites the configured fields of every row in the language.
// Titles set by an override are left as written.
func (p *Pass) applyRules(ctx context.Context, q *store.Queries, rs *RuleSet, overridden map[int64]bool, now time.Time, res *Result) error {
	if len(rs.Rules) == 0 {
		return nil
	}

	rows, err := q.ListTranslationsByLanguage(ctx, rs.Language)
	if err != nil {
		return fmt.Errorf("listing %s translations: %w", rs.Language, err)
	}

	for _, row := range rows {
		res.RowsScanned++

		f := model.Fields{
			Title:        row.Title,
			Description:  row.Description,
			Ingredients:  row.Ingredients,
			Instructions: row.Instructions,
			Category:     row.Category,
		}

		var changed []string
		for _, name := range rs.Fields {
			if name == model.FieldTitle && overridden[row.RecipeID] {
				continue
			}
			before, _ := f.Get(name)
			after := Apply(before, rs.Rules, rs.Mode)
			if after != before {
				_ = f.Set(name, after)
				changed = append(changed, name)
			}
		}
		if len(changed) == 0 {
			continue
		}

		_, err := q.UpdateTranslationText(ctx, store.UpdateTranslationTextParams{
			ID:           row.ID,
			Title:        f.Title,
			Description:  f.Description,
			Ingredients:  f.Ingredients,
			Instructions: f.Instructions,
			Category:     f.Category,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("updating recipe %d (%s): %w", row.RecipeID, rs.Language, err)
		}

		res.RowsChanged++
		res.Changes = append(res.Changes, Change{RecipeID: row.RecipeID, Fields: changed})
	}

	return nil
}
