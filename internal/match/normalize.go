// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package match

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalizer prepares titles for comparison.
type Normalizer struct {
	// FoldAccents transliterates to ASCII, so "Pollo al Ajillo" and
	// "pollo al ajíllo" compare equal.
	FoldAccents bool
}

// Normalize composes s to NFC, case folds it and collapses whitespace.
func (n Normalizer) Normalize(s string) string {
	s = norm.NFC.String(s)
	if n.FoldAccents {
		s = unidecode.Unidecode(s)
	}
	// cases.Caser keeps state, so one is created per call.
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}
