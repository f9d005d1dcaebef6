// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "regexp"

// DefaultLanguage is the language of the canonical recipes table.
const DefaultLanguage = "es"

// langCodeRegex accepts ISO 639 style codes with an optional region or script subtag.
var langCodeRegex = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]{2,8})?$`)

// Language describes a translation language known to the site.
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
}

// KnownLanguages lists the languages the site publishes recipes in.
// "va" is the regional Valencian variant kept by older imports.
var KnownLanguages = []Language{
	{"es", "Spanish", "Español"},
	{"en", "English", "English"},
	{"zh", "Chinese", "中文"},
	{"ca", "Catalan", "Català"},
	{"eu", "Basque", "Euskara"},
	{"va", "Valencian", "Valencià"},
}

// IsValidLanguageCode reports whether code is syntactically a language code.
func IsValidLanguageCode(code string) bool {
	return langCodeRegex.MatchString(code)
}

// LookupLanguage returns the known language with the given code.
func LookupLanguage(code string) (Language, bool) {
	for _, l := range KnownLanguages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}
