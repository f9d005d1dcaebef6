// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package coverage computes read-only translation diagnostics over the
// recipe and translation stores.
package coverage

import (
	"context"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/store"
)

// DefaultTruncationRatio flags a translated field shorter than this share of
// the original field.
const DefaultTruncationRatio = 0.2

// Options configures a report.
type Options struct {
	// Languages are always reported, even with no rows. Empty reports
	// every language present in the store; otherwise ByLanguage holds only
	// these.
	Languages []string
	// TruncationRatio overrides DefaultTruncationRatio when positive.
	TruncationRatio float64
}

// EmptyField lists the blank fields of one translation.
type EmptyField struct {
	RecipeID int64    `json:"recipe_id"`
	Fields   []string `json:"fields"`
}

// Truncation is a translated field much shorter than the original.
type Truncation struct {
	RecipeID       int64  `json:"recipe_id"`
	Field          string `json:"field"`
	Length         int    `json:"length"`
	OriginalLength int    `json:"original_length"`
}

// LanguageReport holds the diagnostics of one language.
type LanguageReport struct {
	Language string `json:"language"`
	// Rows counts every translation row, orphans included.
	Rows int `json:"rows"`
	// Covered counts recipes that have a translation.
	Covered int     `json:"covered"`
	Percent float64 `json:"percent"`
	Missing []int64 `json:"missing,omitempty"`
	// Orphans are recipe_id values that reference no recipe.
	Orphans     []int64      `json:"orphans,omitempty"`
	EmptyFields []EmptyField `json:"empty_fields,omitempty"`
	Truncated   []Truncation `json:"truncated,omitempty"`
}

// Complete reports whether every recipe has a sound translation.
func (l *LanguageReport) Complete() bool {
	return len(l.Missing) == 0 && len(l.Orphans) == 0 && len(l.EmptyFields) == 0
}

// Report is the coverage of every language. Languages lists every language
// stored or requested; ByLanguage may be narrowed by Options.Languages.
type Report struct {
	GeneratedAt      time.Time                  `json:"generated_at"`
	RecipeCount      int                        `json:"recipe_count"`
	TranslationCount int                        `json:"translation_count"`
	Languages        []string                   `json:"languages"`
	ByLanguage       map[string]*LanguageReport `json:"by_language"`
}

// Reporter builds coverage reports.
type Reporter struct {
	queries *store.Queries
}

// New creates a Reporter.
func New(queries *store.Queries) *Reporter {
	return &Reporter{queries: queries}
}

// Report reads both stores and computes coverage. It never writes.
func (r *Reporter) Report(ctx context.Context, opts Options) (*Report, error) {
	ratio := opts.TruncationRatio
	if ratio <= 0 {
		ratio = DefaultTruncationRatio
	}

	for _, lang := range opts.Languages {
		if !model.IsValidLanguageCode(lang) {
			return nil, fmt.Errorf("invalid language code %q", lang)
		}
	}

	recipes, err := r.queries.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	translations, err := r.queries.ListTranslations(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing translations: %w", err)
	}

	byID := make(map[int64]store.Recipe, len(recipes))
	for _, rec := range recipes {
		byID[rec.ID] = rec
	}

	rep := &Report{
		GeneratedAt:      time.Now().UTC(),
		RecipeCount:      len(recipes),
		TranslationCount: len(translations),
		ByLanguage:       make(map[string]*LanguageReport),
	}

	langReport := func(lang string) *LanguageReport {
		lr, ok := rep.ByLanguage[lang]
		if !ok {
			lr = &LanguageReport{Language: lang}
			rep.ByLanguage[lang] = lr
		}
		return lr
	}
	for _, lang := range opts.Languages {
		langReport(lang)
	}

	languages := slices.Clone(opts.Languages)
	covered := make(map[string]map[int64]bool)
	for _, t := range translations {
		if !slices.Contains(languages, t.Language) {
			languages = append(languages, t.Language)
		}
		if len(opts.Languages) > 0 && !slices.Contains(opts.Languages, t.Language) {
			continue
		}
		lr := langReport(t.Language)
		lr.Rows++

		rec, ok := byID[t.RecipeID]
		if !ok {
			lr.Orphans = append(lr.Orphans, t.RecipeID)
			continue
		}

		if covered[t.Language] == nil {
			covered[t.Language] = make(map[int64]bool)
		}
		covered[t.Language][t.RecipeID] = true

		tf := fieldsOf(t.Title, t.Description, t.Ingredients, t.Instructions, t.Category)
		if blank := tf.BlankFields(); len(blank) > 0 {
			lr.EmptyFields = append(lr.EmptyFields, EmptyField{RecipeID: t.RecipeID, Fields: blank})
		}
		of := fieldsOf(rec.Title, rec.Description, rec.Ingredients, rec.Instructions, rec.Category)
		lr.Truncated = append(lr.Truncated, truncations(t.RecipeID, tf, of, ratio)...)
	}

	for lang, lr := range rep.ByLanguage {
		lr.Covered = len(covered[lang])
		if rep.RecipeCount > 0 {
			lr.Percent = float64(lr.Covered) / float64(rep.RecipeCount) * 100
		}
		for _, rec := range recipes {
			if !covered[lang][rec.ID] {
				lr.Missing = append(lr.Missing, rec.ID)
			}
		}
	}
	slices.Sort(languages)
	rep.Languages = languages

	return rep, nil
}

func fieldsOf(title, description, ingredients, instructions, category string) model.Fields {
	return model.Fields{
		Title:        title,
		Description:  description,
		Ingredients:  ingredients,
		Instructions: instructions,
		Category:     category,
	}
}

// truncations compares non-blank translated fields with their originals.
func truncations(recipeID int64, translated, original model.Fields, ratio float64) []Truncation {
	var out []Truncation
	for _, name := range model.AllFields {
		tv, _ := translated.Get(name)
		ov, _ := original.Get(name)
		tl, ol := utf8.RuneCountInString(tv), utf8.RuneCountInString(ov)
		if tl == 0 || ol == 0 {
			continue
		}
		if float64(tl) < ratio*float64(ol) {
			out = append(out, Truncation{RecipeID: recipeID, Field: name, Length: tl, OriginalLength: ol})
		}
	}
	return out
}
