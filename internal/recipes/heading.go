// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package recipes

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonKeyRunes = regexp.MustCompile(`[^a-z0-9]+`)
	stripMarks  = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// headingKey reduces a section heading to lowercase ASCII words joined by
// hyphens, so "Preparación", "PREPARACION" and "preparación:" compare equal.
func headingKey(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	key := nonKeyRunes.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(key, "-")
}
