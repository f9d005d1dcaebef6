// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/olegiv/recipe-l10n/internal/match"
	"github.com/olegiv/recipe-l10n/internal/reconcile"
	"github.com/olegiv/recipe-l10n/internal/store"
)

// Resolution maps payload keys to canonical recipe ids.
type Resolution struct {
	IDs map[string]int64
	// Scores holds the similarity score of fuzzy matched keys.
	Scores map[string]int
	// Skipped holds keys that could not be resolved, with their outcome.
	Skipped map[string]RecordOutcome
	// Offset is set when the resolver applied one.
	Offset *int64
}

func newResolution() *Resolution {
	return &Resolution{
		IDs:     make(map[string]int64),
		Scores:  make(map[string]int),
		Skipped: make(map[string]RecordOutcome),
	}
}

func (r *Resolution) skip(key, reason string, recipeID int64, score int) {
	r.Skipped[key] = RecordOutcome{
		Key:      key,
		RecipeID: recipeID,
		Outcome:  OutcomeSkipped,
		Reason:   reason,
		Score:    score,
	}
}

// Resolver decides which recipe each payload record belongs to.
type Resolver interface {
	Resolve(ctx context.Context, q *store.Queries, p Payload) (*Resolution, error)
}

// parseKey reads a numeric record key.
func parseKey(key string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
	return id, err == nil
}

// DirectResolver treats each key as the recipe id.
type DirectResolver struct{}

func (DirectResolver) Resolve(_ context.Context, _ *store.Queries, p Payload) (*Resolution, error) {
	return resolveOffset(p, 0, false), nil
}

// OffsetResolver maps key k to recipe k - Offset. With Offset 146, key 147
// resolves to recipe 1.
type OffsetResolver struct {
	Offset int64
}

func (r OffsetResolver) Resolve(_ context.Context, _ *store.Queries, p Payload) (*Resolution, error) {
	return resolveOffset(p, r.Offset, true), nil
}

func resolveOffset(p Payload, offset int64, record bool) *Resolution {
	res := newResolution()
	if record {
		res.Offset = &offset
	}
	for key := range p {
		id, ok := parseKey(key)
		if !ok {
			res.skip(key, ReasonInvalidKey, 0, 0)
			continue
		}
		res.IDs[key] = id - offset
	}
	return res
}

// DetectOffsetResolver computes the offset as the smallest numeric key minus
// the smallest recipe id, then behaves like OffsetResolver.
type DetectOffsetResolver struct{}

func (DetectOffsetResolver) Resolve(ctx context.Context, q *store.Queries, p Payload) (*Resolution, error) {
	offset, ok, err := DetectOffset(ctx, q, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		// No numeric key: every record is skipped.
		return resolveOffset(p, 0, false), nil
	}
	return resolveOffset(p, offset, true), nil
}

// DetectOffset returns min(numeric keys) - min(recipe id). ok is false when
// the payload has no numeric key.
func DetectOffset(ctx context.Context, q *store.Queries, p Payload) (offset int64, ok bool, err error) {
	var minKey int64
	for key := range p {
		id, valid := parseKey(key)
		if !valid {
			continue
		}
		if !ok || id < minKey {
			minKey, ok = id, true
		}
	}
	if !ok {
		return 0, false, nil
	}

	rng, err := q.GetRecipeIDRange(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("reading recipe id range: %w", err)
	}
	if rng.Count == 0 {
		return 0, false, reconcile.ErrEmptyRecipeStore
	}

	return minKey - rng.Min, true, nil
}

// FuzzyResolver matches record titles against canonical recipe titles.
// Reference supplies the titles to match when the payload's own titles are
// not in a comparable language, for example a Spanish file sharing the
// payload's key space. Keys absent from Reference are skipped.
type FuzzyResolver struct {
	Matcher   *match.Matcher
	Reference Payload
}

func (r FuzzyResolver) Resolve(ctx context.Context, q *store.Queries, p Payload) (*Resolution, error) {
	m := r.Matcher
	if m == nil {
		m = match.New()
	}

	recipes, err := q.ListRecipeTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recipe titles: %w", err)
	}
	if len(recipes) == 0 {
		return nil, reconcile.ErrEmptyRecipeStore
	}
	candidates := make([]match.Candidate, len(recipes))
	for i, rt := range recipes {
		candidates[i] = match.Candidate{ID: rt.ID, Title: rt.Title}
	}

	ref := r.Reference
	if ref == nil {
		ref = p
	}

	titles := make(map[string]string, len(p))
	res := newResolution()
	for key := range p {
		f, ok := ref[key]
		if !ok || strings.TrimSpace(f.Title) == "" {
			res.skip(key, ReasonUnmatched, 0, 0)
			continue
		}
		titles[key] = f.Title
	}

	matched := m.MatchAll(titles, candidates)
	for _, mt := range matched.Matches {
		res.IDs[mt.Key] = mt.RecipeID
		res.Scores[mt.Key] = mt.Score
	}
	for _, u := range matched.Unmatched {
		res.skip(u.Key, ReasonUnmatched, u.BestID, u.BestScore)
	}

	return res, nil
}
