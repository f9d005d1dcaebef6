// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package match

import (
	"fmt"
	"math"

	"github.com/agnivade/levenshtein"
	"github.com/hbollon/go-edlib"
)

// Scorer rates the similarity of two normalized strings from 0 to 100.
type Scorer interface {
	Score(a, b string) int
}

// Scorer names accepted by NewScorer.
const (
	ScorerRatio       = "ratio"
	ScorerLevenshtein = "levenshtein"
)

// NewScorer returns the scorer registered under name. An empty name selects RatioScorer.
func NewScorer(name string) (Scorer, error) {
	switch name {
	case "", ScorerRatio:
		return RatioScorer{}, nil
	case ScorerLevenshtein:
		return LevenshteinScorer{}, nil
	default:
		return nil, fmt.Errorf("unknown scorer %q (want %q or %q)", name, ScorerRatio, ScorerLevenshtein)
	}
}

// RatioScorer scores by indel distance: 100 * (1 - d/(len(a)+len(b))), over
// runes. Insertions and deletions cost 1, substitutions count as both.
type RatioScorer struct{}

func (RatioScorer) Score(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	d := edlib.LCSEditDistance(a, b)
	return int(math.Round(100 * float64(la+lb-d) / float64(la+lb)))
}

// LevenshteinScorer scores by edit distance: 100 * (1 - d/max(len(a), len(b))).
type LevenshteinScorer struct{}

func (LevenshteinScorer) Score(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(d)/float64(max(la, lb)))))
}
