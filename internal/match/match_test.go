// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedScorer returns preset scores keyed by the second argument.
type fixedScorer map[string]int

func (f fixedScorer) Score(_, b string) int { return f[b] }

func TestRatioScorer(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "paella", "paella", 100},
		{"empty left", "", "paella", 0},
		{"empty right", "paella", "", 0},
		{"both empty", "", "", 0},
		{"one substitution", "abcd", "abce", 75},
		{"prefix", "paella", "paella valenciana", 52},
		{"exactly seventy", "abcdefghij", "abcdefgxyz", 70},
		{"multibyte", "añ", "an", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RatioScorer{}.Score(tt.a, tt.b))
			assert.Equal(t, tt.want, RatioScorer{}.Score(tt.b, tt.a), "symmetric")
		})
	}
}

func TestLevenshteinScorer(t *testing.T) {
	s := LevenshteinScorer{}
	assert.Equal(t, 100, s.Score("gazpacho", "gazpacho"))
	assert.Equal(t, 57, s.Score("kitten", "sitting"))
	assert.Equal(t, 0, s.Score("", "sitting"))
}

func TestNewScorer(t *testing.T) {
	s, err := NewScorer("")
	require.NoError(t, err)
	assert.IsType(t, RatioScorer{}, s)

	s, err = NewScorer(ScorerLevenshtein)
	require.NoError(t, err)
	assert.IsType(t, LevenshteinScorer{}, s)

	_, err = NewScorer("jaro")
	assert.Error(t, err)
}

func TestNormalizer(t *testing.T) {
	n := Normalizer{}
	assert.Equal(t, "pollo al ajillo", n.Normalize("  Pollo   AL\tAjillo "))
	assert.Equal(t, "crème brûlée", n.Normalize("Crème Brûlée"))
	// Decomposed input composes to the same form.
	assert.Equal(t, "crème", n.Normalize("Cre\u0300me"))

	folded := Normalizer{FoldAccents: true}
	assert.Equal(t, "creme brulee", folded.Normalize("Crème Brûlée"))
}

func TestBest_CaseInsensitive(t *testing.T) {
	m := New()
	candidates := []Candidate{
		{ID: 1, Title: "Tortilla de patatas"},
		{ID: 2, Title: "Paella valenciana"},
		{ID: 3, Title: "Gazpacho andaluz"},
	}

	best, score, ok := m.Best("PAELLA VALENCIANA", candidates)
	require.True(t, ok)
	assert.Equal(t, int64(2), best.ID)
	assert.Equal(t, 100, score)
}

func TestBest_NoCandidates(t *testing.T) {
	_, _, ok := New().Best("Paella", nil)
	assert.False(t, ok)
}

func TestBest_TieGoesToLowestID(t *testing.T) {
	m := New()
	candidates := []Candidate{
		{ID: 9, Title: "Flan"},
		{ID: 4, Title: "Flan"},
		{ID: 7, Title: "Flan"},
	}

	best, score, ok := m.Best("flan", candidates)
	require.True(t, ok)
	assert.Equal(t, int64(4), best.ID)
	assert.Equal(t, 100, score)
}

func TestMatchAll_Threshold(t *testing.T) {
	m := &Matcher{
		Scorer:    fixedScorer{"above": 71, "at": 70, "below": 40},
		Threshold: DefaultThreshold,
	}

	tests := []struct {
		name      string
		candidate string
		matched   bool
	}{
		{"score above threshold is accepted", "above", true},
		{"score equal to threshold is rejected", "at", false},
		{"score below threshold is rejected", "below", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.MatchAll(map[string]string{"1": "x"}, []Candidate{{ID: 5, Title: tt.candidate}})
			if tt.matched {
				assert.Equal(t, map[string]int64{"1": 5}, res.Matched)
				assert.Empty(t, res.Unmatched)
				return
			}
			assert.Empty(t, res.Matched)
			require.Len(t, res.Unmatched, 1)
			assert.Equal(t, int64(5), res.Unmatched[0].BestID)
		})
	}
}

func TestMatchAll(t *testing.T) {
	m := New()
	candidates := []Candidate{
		{ID: 1, Title: "Paella valenciana"},
		{ID: 2, Title: "Tortilla de patatas"},
		{ID: 3, Title: "Crema catalana"},
	}
	titles := map[string]string{
		"10": "Crema Catalana",
		"2":  "Tortilla de patata",
		"1":  "Paella Valenciana",
		"x":  "Sushi",
	}

	res := m.MatchAll(titles, candidates)

	assert.Equal(t, map[string]int64{"1": 1, "2": 2, "10": 3}, res.Matched)
	require.Len(t, res.Matches, 3)
	assert.Equal(t, []string{"1", "2", "10"},
		[]string{res.Matches[0].Key, res.Matches[1].Key, res.Matches[2].Key})
	assert.Equal(t, "Tortilla de patatas", res.Matches[1].Canonical)

	require.Len(t, res.Unmatched, 1)
	assert.Equal(t, "x", res.Unmatched[0].Key)
	assert.LessOrEqual(t, res.Unmatched[0].BestScore, DefaultThreshold)
}

func TestCompareKeys(t *testing.T) {
	assert.Negative(t, CompareKeys("2", "10"))
	assert.Positive(t, CompareKeys("10", "2"))
	assert.Zero(t, CompareKeys("7", "7"))
	assert.Negative(t, CompareKeys("0147", "147"))
	assert.Negative(t, CompareKeys("99", "a"))
	assert.Negative(t, CompareKeys("a", "b"))
}
