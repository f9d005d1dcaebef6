// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/testutil"
)

func TestLoadPayload(t *testing.T) {
	input := `{
		"147": {"title": "Valencian Paella", "description": "Rice dish", "ingredients": "rice", "instructions": "cook", "category": "Rice"},
		"148": {"title": "Gazpacho", "notes": "ignored"}
	}`

	p, err := LoadPayload(strings.NewReader(input), LoadOptions{})
	require.NoError(t, err)
	require.Len(t, p, 2)

	assert.Equal(t, "Valencian Paella", p["147"].Title)
	assert.Equal(t, "Rice", p["147"].Category)
	assert.Equal(t, model.Fields{Title: "Gazpacho"}, p["148"])
	assert.Equal(t, []string{"147", "148"}, p.Keys())
}

func TestLoadPayload_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"array", `[{"title": "x"}]`},
		{"null", `null`},
		{"truncated", `{"1": {"title": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPayload(strings.NewReader(tt.input), LoadOptions{})
			assert.Error(t, err)
		})
	}
}

func TestLoadPayload_StripHTML(t *testing.T) {
	input := `{"1": {"title": "<b>Paella</b> &amp; arroz", "instructions": "<p>Mix</p><script>x()</script>"}}`

	p, err := LoadPayload(strings.NewReader(input), LoadOptions{StripHTML: true})
	require.NoError(t, err)
	assert.Equal(t, "Paella & arroz", p["1"].Title)
	assert.Equal(t, "Mix", p["1"].Instructions)

	raw, err := LoadPayload(strings.NewReader(input), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "<b>Paella</b> &amp; arroz", raw["1"].Title)
}

func TestLoadPayloadFile(t *testing.T) {
	path := testutil.WriteFile(t, "translations_english.json", `{"10": {"title": "Flan"}, "9": {"title": "Churros"}}`)

	p, err := LoadPayloadFile(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "10"}, p.Keys())
	assert.Equal(t, map[string]string{"9": "Churros", "10": "Flan"}, p.Titles())

	_, err = LoadPayloadFile(path+".missing", LoadOptions{})
	assert.Error(t, err)
}
