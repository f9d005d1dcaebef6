// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package match resolves external recipe titles to canonical recipe ids by
// string similarity when no shared identifier exists.
package match

import (
	"slices"
	"strconv"
	"strings"
)

// DefaultThreshold is the score a match must exceed to be accepted.
const DefaultThreshold = 70

// Candidate is a canonical recipe that titles are matched against.
type Candidate struct {
	ID    int64
	Title string
}

// Match is an accepted resolution.
type Match struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	RecipeID  int64  `json:"recipe_id"`
	Canonical string `json:"canonical"`
	Score     int    `json:"score"`
}

// Unmatched is a record whose best score did not exceed the threshold.
// BestID is zero when there were no candidates.
type Unmatched struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	BestID    int64  `json:"best_id,omitempty"`
	BestTitle string `json:"best_title,omitempty"`
	BestScore int    `json:"best_score"`
}

// Result is the outcome of MatchAll.
type Result struct {
	Matched   map[string]int64 `json:"matched"`
	Matches   []Match          `json:"matches"`
	Unmatched []Unmatched      `json:"unmatched"`
}

// Matcher compares titles with a Scorer after normalizing both sides.
type Matcher struct {
	Scorer     Scorer
	Normalizer Normalizer
	Threshold  int
}

// New returns a Matcher with RatioScorer and DefaultThreshold.
func New() *Matcher {
	return &Matcher{Scorer: RatioScorer{}, Threshold: DefaultThreshold}
}

type normalized struct {
	Candidate
	norm string
}

func (m *Matcher) prepare(candidates []Candidate) []normalized {
	out := make([]normalized, len(candidates))
	for i, c := range candidates {
		out[i] = normalized{Candidate: c, norm: m.Normalizer.Normalize(c.Title)}
	}
	return out
}

func (m *Matcher) scorer() Scorer {
	if m.Scorer == nil {
		return RatioScorer{}
	}
	return m.Scorer
}

// best returns the highest scoring candidate. Ties go to the lowest id.
func (m *Matcher) best(title string, candidates []normalized) (Candidate, int, bool) {
	scorer := m.scorer()
	t := m.Normalizer.Normalize(title)

	var (
		best  Candidate
		score = -1
	)
	for _, c := range candidates {
		s := scorer.Score(t, c.norm)
		if s > score || (s == score && c.ID < best.ID) {
			best, score = c.Candidate, s
		}
	}
	if score < 0 {
		return Candidate{}, 0, false
	}
	return best, score, true
}

// Best returns the candidate most similar to title and its score, whether or
// not the score clears the threshold. ok is false when candidates is empty.
func (m *Matcher) Best(title string, candidates []Candidate) (best Candidate, score int, ok bool) {
	return m.best(title, m.prepare(candidates))
}

// Accepts reports whether score is high enough to accept a match.
func (m *Matcher) Accepts(score int) bool {
	return score > m.Threshold
}

// MatchAll resolves every keyed title. Keys are visited in natural order,
// so "2" comes before "10".
func (m *Matcher) MatchAll(titles map[string]string, candidates []Candidate) *Result {
	prepared := m.prepare(candidates)

	keys := make([]string, 0, len(titles))
	for k := range titles {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, CompareKeys)

	res := &Result{Matched: make(map[string]int64, len(titles))}
	for _, key := range keys {
		title := titles[key]
		best, score, ok := m.best(title, prepared)
		if ok && m.Accepts(score) {
			res.Matched[key] = best.ID
			res.Matches = append(res.Matches, Match{
				Key:       key,
				Title:     title,
				RecipeID:  best.ID,
				Canonical: best.Title,
				Score:     score,
			})
			continue
		}
		res.Unmatched = append(res.Unmatched, Unmatched{
			Key:       key,
			Title:     title,
			BestID:    best.ID,
			BestTitle: best.Title,
			BestScore: score,
		})
	}
	return res
}

// CompareKeys orders integer keys numerically and places them before other
// keys, which are ordered lexically.
func CompareKeys(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		// "0147" and "147" keep a stable order.
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
