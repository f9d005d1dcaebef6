// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/recipe-l10n/internal/model"
)

// LoadOptions configures payload parsing.
type LoadOptions struct {
	// StripHTML removes markup some translation exports carry in their text.
	StripHTML bool
}

// LoadPayload decodes a JSON object of key to translation fields.
// Missing fields decode as empty strings; unknown fields are ignored.
func LoadPayload(r io.Reader, opts LoadOptions) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("payload must be a JSON object")
	}

	if opts.StripHTML {
		policy := bluemonday.StrictPolicy()
		for k, f := range p {
			p[k] = stripFields(policy, f)
		}
	}

	return p, nil
}

// LoadPayloadFile reads a payload from path.
func LoadPayloadFile(path string, opts LoadOptions) (Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	p, err := LoadPayload(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func stripFields(policy *bluemonday.Policy, f model.Fields) model.Fields {
	for _, name := range model.AllFields {
		v, _ := f.Get(name)
		_ = f.Set(name, stripHTML(policy, v))
	}
	return f
}

// stripHTML drops tags and decodes the entities the policy escapes.
func stripHTML(policy *bluemonday.Policy, s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	return html.UnescapeString(policy.Sanitize(s))
}
