// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer moves recipe translations between JSON files and the
// translation store.
package transfer

import (
	"slices"
	"time"

	"go.uber.org/multierr"

	"github.com/olegiv/recipe-l10n/internal/match"
	"github.com/olegiv/recipe-l10n/internal/model"
)

// ExportVersion is the current version of the backup format.
const ExportVersion = "1.0"

// Payload is an external translation file: record key to text fields.
// Keys are usually ids from a foreign key space.
type Payload map[string]model.Fields

// Keys returns the payload keys in natural order.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, match.CompareKeys)
	return keys
}

// Titles returns key to title, the input of fuzzy matching.
func (p Payload) Titles() map[string]string {
	titles := make(map[string]string, len(p))
	for k, f := range p {
		titles[k] = f.Title
	}
	return titles
}

// Outcome is the result of importing one record.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Skip reasons.
const (
	ReasonInvalidKey      = "invalid key"
	ReasonUnmatched       = "no title match"
	ReasonRecipeNotFound  = "recipe not found"
	ReasonInvalidLanguage = "invalid language"
	ReasonDuplicateRecipe = "recipe already claimed"
)

// RecordOutcome reports what happened to one payload record.
type RecordOutcome struct {
	Key      string  `json:"key"`
	RecipeID int64   `json:"recipe_id,omitempty"`
	Outcome  Outcome `json:"outcome"`
	Reason   string  `json:"reason,omitempty"`
	Score    int     `json:"score,omitempty"`
	Error    string  `json:"error,omitempty"`

	// DuplicateOf names the key that kept the recipe when this record
	// resolved to the same one.
	DuplicateOf string `json:"duplicate_of,omitempty"`
}

// BatchResult summarizes an import run. A batch never stops on a single
// record; failures are collected and returned by Err.
type BatchResult struct {
	RunID     string          `json:"run_id"`
	Language  string          `json:"language"`
	DryRun    bool            `json:"dry_run"`
	Offset    *int64          `json:"offset,omitempty"`
	Created   int             `json:"created"`
	Updated   int             `json:"updated"`
	Skipped   int             `json:"skipped"`
	Failed    int             `json:"failed"`
	Outcomes  []RecordOutcome `json:"outcomes"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`

	errs error
}

// NewBatchResult creates an empty result for a run.
func NewBatchResult(runID, language string, dryRun bool) *BatchResult {
	return &BatchResult{
		RunID:     runID,
		Language:  language,
		DryRun:    dryRun,
		StartedAt: time.Now(),
	}
}

// Add records the outcome of one record.
func (r *BatchResult) Add(o RecordOutcome) {
	switch o.Outcome {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// AddFailure records a failed record and keeps err for Err.
func (r *BatchResult) AddFailure(o RecordOutcome, err error) {
	o.Outcome = OutcomeFailed
	o.Error = err.Error()
	r.Add(o)
	r.errs = multierr.Append(r.errs, err)
}

// Written returns the number of rows created or updated.
func (r *BatchResult) Written() int {
	return r.Created + r.Updated
}

// Total returns the number of records processed.
func (r *BatchResult) Total() int {
	return r.Created + r.Updated + r.Skipped + r.Failed
}

// Success reports whether no record failed.
func (r *BatchResult) Success() bool {
	return r.Failed == 0
}

// Err returns every record failure combined, or nil.
func (r *BatchResult) Err() error {
	return r.errs
}

// Errors returns the individual record failures.
func (r *BatchResult) Errors() []error {
	return multierr.Errors(r.errs)
}

// ExportDocument is a backup of translations with their recipe's original title.
type ExportDocument struct {
	Version      string                `json:"version"`
	ExportedAt   time.Time             `json:"exported_at"`
	Language     string                `json:"language,omitempty"`
	Count        int                   `json:"count"`
	Translations []ExportedTranslation `json:"translations"`
}

// ExportedTranslation is one backed up translation row.
type ExportedTranslation struct {
	RecipeID      int64  `json:"recipe_id"`
	OriginalTitle string `json:"original_title"`
	Language      string `json:"language"`
	model.Fields
	UpdatedAt time.Time `json:"updated_at"`
}

// ExportOptions selects what to export.
type ExportOptions struct {
	// Language limits the export to one language. Empty exports all.
	Language string
}
