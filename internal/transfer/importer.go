// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/recipe-l10n/internal/logging"
	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/store"
)

// ImportOptions configures an import run.
type ImportOptions struct {
	// Language is the code every record is stored under.
	Language string
	// Resolver maps keys to recipe ids. Nil means DirectResolver.
	Resolver Resolver
	// DryRun resolves and validates every record without writing.
	DryRun bool
}

// Importer upserts translation payloads into the store.
type Importer struct {
	db       *sql.DB
	store    *store.Queries
	logger   *slog.Logger
	upserter *Upserter
}

// NewImporter creates a new Importer instance.
func NewImporter(db *sql.DB, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		db:       db,
		store:    store.New(db),
		logger:   logger.With(logging.CategoryKey, model.EventCategoryImport),
		upserter: NewUpserter(),
	}
}

// Import resolves every record of p and upserts it in its own transaction.
// Records that cannot be resolved or written are reported in the result and
// never abort the batch. The returned error is reserved for problems that
// stop the whole run, such as an invalid language or a failed resolution.
func (i *Importer) Import(ctx context.Context, p Payload, opts ImportOptions) (*BatchResult, error) {
	if !model.IsValidLanguageCode(opts.Language) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, opts.Language)
	}
	if opts.Language == model.DefaultLanguage {
		return nil, fmt.Errorf("%w: %q is the language of the recipes table", ErrInvalidLanguage, opts.Language)
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = DirectResolver{}
	}

	result := NewBatchResult(uuid.NewString(), opts.Language, opts.DryRun)
	logger := i.logger.With("run_id", result.RunID, "language", opts.Language)

	res, err := resolver.Resolve(ctx, i.store, p)
	if err != nil {
		return nil, fmt.Errorf("resolving records: %w", err)
	}
	result.Offset = res.Offset

	keys := p.Keys()
	owners := claimRecipes(keys, res)
	for _, key := range keys {
		if skipped, ok := res.Skipped[key]; ok {
			result.Add(skipped)
			logger.Warn("import record skipped",
				"key", key, "reason", skipped.Reason, "best_id", skipped.RecipeID, "score", skipped.Score)
			continue
		}
		if owner := owners[res.IDs[key]]; owner != key {
			result.Add(RecordOutcome{
				Key:         key,
				RecipeID:    res.IDs[key],
				Outcome:     OutcomeSkipped,
				Reason:      ReasonDuplicateRecipe,
				Score:       res.Scores[key],
				DuplicateOf: owner,
			})
			logger.Warn("import record skipped",
				"key", key, "reason", ReasonDuplicateRecipe, "recipe_id", res.IDs[key], "kept_key", owner)
			continue
		}

		t := model.Translation{RecipeID: res.IDs[key], Language: opts.Language, Fields: p[key]}
		o := RecordOutcome{Key: key, RecipeID: t.RecipeID, Score: res.Scores[key]}
		i.apply(ctx, logger, result, o, t)
	}

	result.Duration = time.Since(result.StartedAt)
	logger.Info("import finished",
		"written", result.Written(),
		"created", result.Created,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"dry_run", result.DryRun)

	return result, nil
}

// claimRecipes picks the one key written for each recipe id. The highest
// score wins; on equal scores the first key in natural order keeps it.
func claimRecipes(keys []string, res *Resolution) map[int64]string {
	owners := make(map[int64]string, len(res.IDs))
	for _, key := range keys {
		if _, skipped := res.Skipped[key]; skipped {
			continue
		}
		id, ok := res.IDs[key]
		if !ok {
			continue
		}
		if owner, claimed := owners[id]; !claimed || res.Scores[key] > res.Scores[owner] {
			owners[id] = key
		}
	}
	return owners
}

// ImportFromReader loads a payload from r and imports it.
func (i *Importer) ImportFromReader(ctx context.Context, r io.Reader, load LoadOptions, opts ImportOptions) (*BatchResult, error) {
	p, err := LoadPayload(r, load)
	if err != nil {
		return nil, err
	}
	return i.Import(ctx, p, opts)
}

// ImportFromFile loads a payload from path and imports it.
func (i *Importer) ImportFromFile(ctx context.Context, path string, load LoadOptions, opts ImportOptions) (*BatchResult, error) {
	p, err := LoadPayloadFile(path, load)
	if err != nil {
		return nil, err
	}
	return i.Import(ctx, p, opts)
}

// Restore upserts the rows of a backup document by their stored recipe id
// and language.
func (i *Importer) Restore(ctx context.Context, doc *ExportDocument, dryRun bool) *BatchResult {
	result := NewBatchResult(uuid.NewString(), doc.Language, dryRun)
	logger := i.logger.With("run_id", result.RunID, "restore", true)

	for _, et := range doc.Translations {
		t := model.Translation{RecipeID: et.RecipeID, Language: et.Language, Fields: et.Fields}
		o := RecordOutcome{Key: strconv.FormatInt(et.RecipeID, 10) + "/" + et.Language, RecipeID: et.RecipeID}
		i.apply(ctx, logger, result, o, t)
	}

	result.Duration = time.Since(result.StartedAt)
	logger.Info("restore finished",
		"written", result.Written(),
		"created", result.Created,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"dry_run", result.DryRun)

	return result
}

// ReadExportDocument decodes a backup written by Exporter.
func ReadExportDocument(r io.Reader) (*ExportDocument, error) {
	var doc ExportDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &doc, nil
}

// ReadExportFile decodes a backup file.
func ReadExportFile(path string) (*ExportDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadExportDocument(f)
}

// apply writes t and records the outcome. It logs only after the record's
// transaction is closed.
func (i *Importer) apply(ctx context.Context, logger *slog.Logger, result *BatchResult, o RecordOutcome, t model.Translation) {
	outcome, err := i.importRecord(ctx, t, result.DryRun)
	switch {
	case err == nil:
		o.Outcome = outcome
		result.Add(o)
		logger.Debug("import record written", "key", o.Key, "recipe_id", t.RecipeID, "outcome", outcome)
	case errors.Is(err, ErrRecipeNotFound):
		o.Outcome, o.Reason = OutcomeSkipped, ReasonRecipeNotFound
		result.Add(o)
		logger.Warn("import record skipped", "key", o.Key, "reason", o.Reason, "recipe_id", t.RecipeID)
	case errors.Is(err, ErrInvalidLanguage):
		o.Outcome, o.Reason = OutcomeSkipped, ReasonInvalidLanguage
		result.Add(o)
		logger.Warn("import record skipped", "key", o.Key, "reason", o.Reason, "language", t.Language)
	default:
		result.AddFailure(o, fmt.Errorf("record %s: %w", o.Key, err))
		logger.Error("import record failed", "key", o.Key, "recipe_id", t.RecipeID, "error", err)
	}
}

func (i *Importer) importRecord(ctx context.Context, t model.Translation, dryRun bool) (Outcome, error) {
	if dryRun {
		return i.upserter.Plan(ctx, i.store, t)
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	outcome, err := i.upserter.Upsert(ctx, i.store.WithTx(tx), t)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return outcome, nil
}
