// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package enhance

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Apply runs rules over text in order. Each rule replaces every
// non-overlapping occurrence, scanning left to right.
func Apply(text string, rules []Rule, mode Mode) string {
	for _, r := range rules {
		if r.From == "" {
			continue
		}
		if mode == ModeWord {
			text = replaceWords(text, r.From, r.To)
		} else {
			text = strings.ReplaceAll(text, r.From, r.To)
		}
	}
	return text
}

// replaceWords replaces occurrences of from that are not preceded or
// followed by a letter or digit.
func replaceWords(text, from, to string) string {
	if !strings.Contains(text, from) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	rest := text
	consumed := 0
	for {
		i := strings.Index(rest, from)
		if i < 0 {
			break
		}
		start := consumed + i
		end := start + len(from)
		if isBoundary(text, start, end) {
			b.WriteString(rest[:i])
			b.WriteString(to)
		} else {
			b.WriteString(rest[:i+len(from)])
		}
		rest = text[end:]
		consumed = end
	}
	b.WriteString(rest)
	return b.String()
}

func isBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
