// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package coverage

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/recipe-l10n/internal/store"
	"github.com/olegiv/recipe-l10n/internal/testutil"
)

func TestReport_FullCoverage(t *testing.T) {
	db := testutil.TestDB(t)
	testutil.SeedRecipeRange(t, db, 1, 73)
	for id := int64(1); id <= 73; id++ {
		testutil.SeedTranslation(t, db, id, "en", "EN "+testutil.RecipeTitle(id))
	}

	rep, err := New(store.New(db)).Report(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 73, rep.RecipeCount)
	assert.Equal(t, 73, rep.TranslationCount)
	assert.Equal(t, []string{"en"}, rep.Languages)

	en := rep.ByLanguage["en"]
	require.NotNil(t, en)
	assert.Equal(t, 73, en.Rows)
	assert.Equal(t, 73, en.Covered)
	assert.InDelta(t, 100.0, en.Percent, 0.001)
	assert.Empty(t, en.Missing)
	assert.True(t, en.Complete())
}

func TestReport_PartialAndProblems(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	testutil.SeedRecipeRange(t, db, 1, 4)
	testutil.SeedTranslation(t, db, 1, "zh", "一")
	testutil.SeedTranslation(t, db, 2, "zh", "二")
	testutil.SeedTranslation(t, db, 150, "zh", "orphan")
	testutil.SeedTranslation(t, db, 1, "ca", "U")

	// Recipe 2 in Chinese has a blank description.
	q := store.New(db)
	tr, err := q.GetTranslation(ctx, 2, "zh")
	require.NoError(t, err)
	_, err = q.UpdateTranslationText(ctx, store.UpdateTranslationTextParams{
		ID:           tr.ID,
		Title:        tr.Title,
		Description:  "  ",
		Ingredients:  tr.Ingredients,
		Instructions: tr.Instructions,
		Category:     tr.Category,
		UpdatedAt:    time.Now(),
	})
	require.NoError(t, err)

	rep, err := New(q).Report(ctx, Options{})
	require.NoError(t, err)

	assert.Equal(t, 4, rep.RecipeCount)
	assert.Equal(t, 4, rep.TranslationCount)
	assert.Equal(t, []string{"ca", "zh"}, rep.Languages)

	zh := rep.ByLanguage["zh"]
	assert.Equal(t, 3, zh.Rows)
	assert.Equal(t, 2, zh.Covered)
	assert.InDelta(t, 50.0, zh.Percent, 0.001)
	assert.Equal(t, []int64{3, 4}, zh.Missing)
	assert.Equal(t, []int64{150}, zh.Orphans)
	assert.Equal(t, []EmptyField{{RecipeID: 2, Fields: []string{"description"}}}, zh.EmptyFields)
	assert.False(t, zh.Complete())

	ca := rep.ByLanguage["ca"]
	assert.Equal(t, 1, ca.Covered)
	assert.InDelta(t, 25.0, ca.Percent, 0.001)
	// "U" against "Receta 1" is well under a fifth of the original length.
	assert.Contains(t, ca.Truncated, Truncation{RecipeID: 1, Field: "title", Length: 1, OriginalLength: 8})
}

func TestReport_EmptyStores(t *testing.T) {
	db := testutil.TestDB(t)

	rep, err := New(store.New(db)).Report(context.Background(), Options{Languages: []string{"en"}})
	require.NoError(t, err)

	assert.Zero(t, rep.RecipeCount)
	assert.Equal(t, []string{"en"}, rep.Languages)
	assert.Zero(t, rep.ByLanguage["en"].Percent)
}

func TestReport_RequestedLanguages(t *testing.T) {
	db := testutil.TestDB(t)
	testutil.SeedRecipeRange(t, db, 1, 2)
	testutil.SeedTranslation(t, db, 1, "en", "One")
	testutil.SeedTranslation(t, db, 1, "zh", "一")

	rep, err := New(store.New(db)).Report(context.Background(), Options{Languages: []string{"eu", "en"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "eu", "zh"}, rep.Languages, "stored languages stay listed")
	assert.Len(t, rep.ByLanguage, 2)
	assert.NotContains(t, rep.ByLanguage, "zh")
	assert.Equal(t, []int64{1, 2}, rep.ByLanguage["eu"].Missing)

	_, err = New(store.New(db)).Report(context.Background(), Options{Languages: []string{"Basque"}})
	assert.Error(t, err)
}

func TestReport_DoesNotWrite(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	testutil.SeedRecipeRange(t, db, 1, 2)
	testutil.SeedTranslation(t, db, 9, "en", "orphan")

	q := store.New(db)
	before, err := q.ListTranslations(ctx)
	require.NoError(t, err)

	_, err = New(q).Report(ctx, Options{})
	require.NoError(t, err)

	after, err := q.ListTranslations(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestWriteText(t *testing.T) {
	rep := &Report{
		RecipeCount:      1200,
		TranslationCount: 2,
		Languages:        []string{"en"},
		ByLanguage: map[string]*LanguageReport{
			"en": {
				Language: "en",
				Rows:     2,
				Covered:  1,
				Percent:  50,
				Missing:  []int64{2},
				Orphans:  []int64{147},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, rep))
	out := buf.String()

	assert.Contains(t, out, "Recipes:      1,200")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "missing recipes: 2")
	assert.Contains(t, out, "orphaned recipe_ids: 147")
	assert.Contains(t, out, "[en English]")
}

func TestWriteText_SkipsUnreportedLanguages(t *testing.T) {
	rep := &Report{
		RecipeCount: 1,
		Languages:   []string{"en", "zh"},
		ByLanguage: map[string]*LanguageReport{
			"en": {Language: "en", Rows: 1, Covered: 1, Percent: 100},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, rep))
	out := buf.String()

	assert.Contains(t, out, "Languages:    en, zh")
	assert.Contains(t, out, "100.0%")
	assert.NotContains(t, out, "[zh")
}

func TestWriteJSON(t *testing.T) {
	rep := &Report{RecipeCount: 3, Languages: []string{}, ByLanguage: map[string]*LanguageReport{}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, rep))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.RecipeCount)
}

func TestLanguageLabel(t *testing.T) {
	assert.Equal(t, "en English", languageLabel("en"))
	assert.Equal(t, "xx", languageLabel("xx"))
}

func TestListIDs(t *testing.T) {
	ids := make([]int64, 15)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	assert.Equal(t, "1, 2, 3", listIDs(ids[:3]))
	assert.Contains(t, listIDs(ids), "and 3 more")
}
