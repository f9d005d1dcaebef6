// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package reconcile detects and repairs a constant offset between the
// recipe_id values of recipe_translations and the ids of recipes.
//
// The offset is min(recipe_translations.recipe_id) - min(recipes.id). A repair
// snapshots the translation table into store.BackupTable and shifts every row
// by -offset inside one transaction, then verifies the result before
// committing. Rows that would not land on an existing recipe mean the table
// does not share a single offset; that is reported and nothing is written.
package reconcile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olegiv/recipe-l10n/internal/logging"
	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/store"
)

var (
	// ErrEmptyRecipeStore means no offset can be computed.
	ErrEmptyRecipeStore = errors.New("recipe store is empty")
	// ErrNonUniformOffset means translation rows do not share one offset.
	ErrNonUniformOffset = errors.New("translation rows do not share a single offset")
	// ErrAmbiguousOffset means a strict run found languages whose shifted
	// rows leave recipes uncovered inside their span.
	ErrAmbiguousOffset = errors.New("offset leaves gaps inside translated ranges")
	// ErrSpotCheckFailed means the shift ran but the result did not verify; it was rolled back.
	ErrSpotCheckFailed = errors.New("post-shift verification failed")
)

// maxReportedOrphans bounds the ids carried in an IntegrityError message.
const maxReportedOrphans = 10

// IntegrityError reports translation rows that the detected offset cannot map
// onto existing recipes.
type IntegrityError struct {
	Offset  int64
	Orphans []int64 // recipe_id values as currently stored
}

func (e *IntegrityError) Error() string {
	ids := make([]string, 0, maxReportedOrphans)
	for i, id := range e.Orphans {
		if i == maxReportedOrphans {
			ids = append(ids, "...")
			break
		}
		ids = append(ids, fmt.Sprint(id))
	}
	return fmt.Sprintf("%v: offset %d leaves %d recipe ids without a recipe [%s]",
		ErrNonUniformOffset, e.Offset, len(e.Orphans), strings.Join(ids, ", "))
}

func (e *IntegrityError) Unwrap() error { return ErrNonUniformOffset }

// Status is the outcome of a reconciliation run.
type Status string

const (
	StatusNoOp      Status = "no-op"
	StatusPlanned   Status = "planned"
	StatusCorrected Status = "corrected"
)

// Plan is the read-only detection result.
type Plan struct {
	Recipes      store.IDRange
	Translations store.IDRange
	Offset       int64
	Orphans      []int64

	// Gaps counts, per language, recipes inside the language's shifted span
	// that would get no row. A partly translated language and a second
	// offset landing on valid ids look the same here.
	Gaps []store.LanguageCount
}

// NeedsShift reports whether applying the plan would change any row.
func (p *Plan) NeedsShift() bool {
	return p.Translations.Count > 0 && p.Offset != 0
}

// Uniform reports whether every row maps onto an existing recipe under Offset.
func (p *Plan) Uniform() bool {
	return len(p.Orphans) == 0
}

// Contiguous reports whether every language's shifted rows cover their span.
func (p *Plan) Contiguous() bool {
	return len(p.Gaps) == 0
}

func describeGaps(gaps []store.LanguageCount) string {
	parts := make([]string, len(gaps))
	for i, g := range gaps {
		parts[i] = fmt.Sprintf("%s: %d", g.Language, g.Count)
	}
	return strings.Join(parts, ", ")
}

// SpotCheck is the translation verified after a shift.
type SpotCheck struct {
	RecipeID int64
	Language string
	Title    string
}

// Result describes what a run did.
type Result struct {
	Status       Status
	Offset       int64
	RowsAffected int64
	Before       store.IDRange
	After        store.IDRange
	BackupTable  string
	BackupRows   int64
	SpotCheck    *SpotCheck
	Gaps         []store.LanguageCount
}

// Options configures a Reconciler.
type Options struct {
	// SpotCheckLanguage is tried first when verifying a shift. Any language
	// with a non-blank title is accepted when it has no row.
	SpotCheckLanguage string
	// DryRun detects and validates without writing.
	DryRun bool
	// Strict refuses a shift that leaves gaps inside any language's span.
	Strict bool
}

// Reconciler repairs translation identifier offsets.
type Reconciler struct {
	db      *sql.DB
	queries *store.Queries
	logger  *slog.Logger
	opts    Options
}

// New creates a Reconciler.
func New(db *sql.DB, logger *slog.Logger, opts Options) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SpotCheckLanguage == "" {
		opts.SpotCheckLanguage = "en"
	}
	return &Reconciler{
		db:      db,
		queries: store.New(db),
		logger:  logger.With(logging.CategoryKey, model.EventCategoryReconcile),
		opts:    opts,
	}
}

// Detect computes the offset without modifying anything.
func (r *Reconciler) Detect(ctx context.Context) (*Plan, error) {
	return detect(ctx, r.queries)
}

func detect(ctx context.Context, q *store.Queries) (*Plan, error) {
	recipes, err := q.GetRecipeIDRange(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading recipe id range: %w", err)
	}
	if recipes.Count == 0 {
		return nil, ErrEmptyRecipeStore
	}

	translations, err := q.GetTranslationIDRange(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading translation id range: %w", err)
	}

	plan := &Plan{Recipes: recipes, Translations: translations}
	if translations.Count == 0 {
		return plan, nil
	}

	plan.Offset = translations.Min - recipes.Min
	plan.Orphans, err = q.ListShiftOrphans(ctx, plan.Offset)
	if err != nil {
		return nil, fmt.Errorf("checking shifted ids: %w", err)
	}
	plan.Gaps, err = q.ListShiftGaps(ctx, plan.Offset)
	if err != nil {
		return nil, fmt.Errorf("checking translated ranges: %w", err)
	}

	return plan, nil
}

// Run detects the offset and, when it is non-zero and uniform, repairs it.
// Running it again after a repair is a no-op.
func (r *Reconciler) Run(ctx context.Context) (*Result, error) {
	res, err := r.run(ctx)

	// Logged after the transaction is closed so the event log can write.
	var integrity *IntegrityError
	switch {
	case errors.As(err, &integrity):
		r.logger.Error("non-uniform offset detected, nothing changed",
			"offset", integrity.Offset, "orphans", len(integrity.Orphans))
	case err != nil:
		r.logger.Error("reconciliation failed, rolled back", "error", err)
	case res.Status == StatusNoOp:
		r.logger.Info("translation ids already aligned", "rows", res.Before.Count)
	case res.Status == StatusPlanned:
		r.logger.Info("offset repair planned", "offset", res.Offset, "rows", res.Before.Count)
	default:
		r.logger.Info("translation ids shifted",
			"offset", res.Offset,
			"rows", res.RowsAffected,
			"min", res.After.Min,
			"max", res.After.Max,
			"backup", res.BackupTable)
	}
	if err == nil && res.Status != StatusNoOp && len(res.Gaps) > 0 {
		r.logger.Warn("shifted ranges have untranslated recipes, a second offset cannot be ruled out",
			"offset", res.Offset, "gaps", describeGaps(res.Gaps))
	}

	return res, err
}

func (r *Reconciler) run(ctx context.Context) (*Result, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := r.queries.WithTx(tx)

	plan, err := detect(ctx, q)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Status: StatusNoOp,
		Offset: plan.Offset,
		Before: plan.Translations,
		After:  plan.Translations,
		Gaps:   plan.Gaps,
	}

	if plan.Translations.Count == 0 {
		return res, nil
	}
	if !plan.Uniform() {
		return nil, &IntegrityError{Offset: plan.Offset, Orphans: plan.Orphans}
	}
	if !plan.NeedsShift() {
		return res, nil
	}
	if r.opts.Strict && !plan.Contiguous() {
		return nil, fmt.Errorf("%w (%s)", ErrAmbiguousOffset, describeGaps(plan.Gaps))
	}
	if r.opts.DryRun {
		res.Status = StatusPlanned
		return res, nil
	}

	if err := q.BackupTranslations(ctx); err != nil {
		return nil, fmt.Errorf("creating %s: %w", store.BackupTable, err)
	}
	backupRows, err := q.CountBackupTranslations(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting %s: %w", store.BackupTable, err)
	}

	affected, err := q.ShiftTranslationRecipeIDs(ctx, plan.Offset)
	if err != nil {
		return nil, fmt.Errorf("shifting recipe ids by %d: %w", -plan.Offset, err)
	}

	after, err := q.GetTranslationIDRange(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading translation id range: %w", err)
	}
	if after.Min != plan.Recipes.Min {
		return nil, fmt.Errorf("%w: minimum recipe_id is %d, want %d",
			ErrSpotCheckFailed, after.Min, plan.Recipes.Min)
	}

	check, err := r.spotCheck(ctx, q, plan.Recipes.Min)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing shift: %w", err)
	}

	res.Status = StatusCorrected
	res.RowsAffected = affected
	res.After = after
	res.BackupTable = store.BackupTable
	res.BackupRows = backupRows
	res.SpotCheck = check
	return res, nil
}

// spotCheck verifies that the first recipe now resolves to a titled translation.
func (r *Reconciler) spotCheck(ctx context.Context, q *store.Queries, recipeID int64) (*SpotCheck, error) {
	t, err := q.GetTranslation(ctx, recipeID, r.opts.SpotCheckLanguage)
	if err == nil && strings.TrimSpace(t.Title) != "" {
		return &SpotCheck{RecipeID: recipeID, Language: t.Language, Title: t.Title}, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("spot check query: %w", err)
	}

	rows, err := q.ListTranslationsForRecipe(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("spot check query: %w", err)
	}
	for _, t := range rows {
		if strings.TrimSpace(t.Title) != "" {
			return &SpotCheck{RecipeID: recipeID, Language: t.Language, Title: t.Title}, nil
		}
	}

	return nil, fmt.Errorf("%w: recipe %d has no titled translation", ErrSpotCheckFailed, recipeID)
}
