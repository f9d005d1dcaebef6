// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/store"
)

// Exporter writes translation backups.
type Exporter struct {
	store  *store.Queries
	logger *slog.Logger
}

// NewExporter creates a new Exporter instance.
func NewExporter(queries *store.Queries, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{store: queries, logger: logger}
}

// Export collects translations joined to their recipe. Rows whose recipe_id
// references no recipe are left out.
func (e *Exporter) Export(ctx context.Context, opts ExportOptions) (*ExportDocument, error) {
	rows, err := e.store.ListTranslationsWithRecipe(ctx, opts.Language)
	if err != nil {
		return nil, fmt.Errorf("listing translations: %w", err)
	}

	doc := &ExportDocument{
		Version:      ExportVersion,
		ExportedAt:   time.Now().UTC(),
		Language:     opts.Language,
		Count:        len(rows),
		Translations: make([]ExportedTranslation, 0, len(rows)),
	}
	for _, r := range rows {
		doc.Translations = append(doc.Translations, ExportedTranslation{
			RecipeID:      r.RecipeID,
			OriginalTitle: r.OriginalTitle,
			Language:      r.Language,
			Fields: model.Fields{
				Title:        r.Title,
				Description:  r.Description,
				Ingredients:  r.Ingredients,
				Instructions: r.Instructions,
				Category:     r.Category,
			},
			UpdatedAt: r.UpdatedAt,
		})
	}

	e.logger.Debug("translations exported", "language", opts.Language, "count", doc.Count)
	return doc, nil
}

// ExportToWriter writes the export as indented JSON to w.
func (e *Exporter) ExportToWriter(ctx context.Context, opts ExportOptions, w io.Writer) (*ExportDocument, error) {
	doc, err := e.Export(ctx, opts)
	if err != nil {
		return nil, err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return doc, nil
}

// ExportToFile writes the export as JSON to a file.
func (e *Exporter) ExportToFile(ctx context.Context, opts ExportOptions, path string) (*ExportDocument, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return e.ExportToWriter(ctx, opts, f)
}
