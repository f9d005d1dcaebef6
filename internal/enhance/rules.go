// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package enhance rewrites stored translation text with an ordered
// dictionary of substitutions, for example general Catalan terms to their
// Valencian equivalents.
package enhance

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/recipe-l10n/internal/model"
)

//go:embed rules/valencian.yaml
var valencianRules []byte

// Mode selects how a rule finds occurrences.
type Mode string

const (
	// ModeLiteral replaces every case-sensitive occurrence, including those
	// inside longer words: with "ajo" -> "all", "trabajo" becomes "traball".
	ModeLiteral Mode = "literal"
	// ModeWord replaces only occurrences not adjacent to a letter or digit.
	ModeWord Mode = "word"
)

// DefaultFields are rewritten when a rule set names none.
var DefaultFields = []string{
	model.FieldTitle,
	model.FieldIngredients,
	model.FieldInstructions,
	model.FieldCategory,
}

// Rule replaces From with To.
type Rule struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// RuleSet is an ordered substitution dictionary for one language. Order is
// significant: each rule sees the output of the rules before it.
type RuleSet struct {
	Language string           `yaml:"language"`
	Mode     Mode             `yaml:"mode"`
	Fields   []string         `yaml:"fields"`
	Rules    []Rule           `yaml:"rules"`
	Titles   map[int64]string `yaml:"titles"`
}

// Validate checks the rule set and fills in the default mode and fields.
func (rs *RuleSet) Validate() error {
	if !model.IsValidLanguageCode(rs.Language) {
		return fmt.Errorf("invalid language code %q", rs.Language)
	}

	switch rs.Mode {
	case "":
		rs.Mode = ModeLiteral
	case ModeLiteral, ModeWord:
	default:
		return fmt.Errorf("unknown mode %q (want %q or %q)", rs.Mode, ModeLiteral, ModeWord)
	}

	if len(rs.Fields) == 0 {
		rs.Fields = DefaultFields
	}
	for _, f := range rs.Fields {
		if !model.IsValidField(f) {
			return fmt.Errorf("unknown field %q", f)
		}
	}

	var errs []error
	for i, r := range rs.Rules {
		if r.From == "" {
			errs = append(errs, fmt.Errorf("rule %d: empty source text", i+1))
		}
	}
	return errors.Join(errs...)
}

// LoadRuleSet decodes and validates a YAML rule set.
func LoadRuleSet(r io.Reader) (*RuleSet, error) {
	var rs RuleSet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rs); err != nil {
		return nil, fmt.Errorf("parsing rule set: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// LoadRuleSetFile reads a rule set from path.
func LoadRuleSetFile(path string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rule set: %w", err)
	}
	defer func() { _ = f.Close() }()

	rs, err := LoadRuleSet(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// DefaultRuleSet returns the built-in Valencian rule set.
func DefaultRuleSet() *RuleSet {
	rs, err := LoadRuleSet(bytes.NewReader(valencianRules))
	if err != nil {
		panic(fmt.Sprintf("enhance: embedded rule set: %v", err))
	}
	return rs
}
