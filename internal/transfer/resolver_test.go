// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/reconcile"
	"github.com/olegiv/recipe-l10n/internal/store"
	"github.com/olegiv/recipe-l10n/internal/testutil"
)

func TestDirectResolver(t *testing.T) {
	p := Payload{"5": {}, "abc": {}, " 7 ": {}}

	res, err := DirectResolver{}.Resolve(context.Background(), nil, p)
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"5": 5, " 7 ": 7}, res.IDs)
	require.Contains(t, res.Skipped, "abc")
	assert.Equal(t, ReasonInvalidKey, res.Skipped["abc"].Reason)
	assert.Nil(t, res.Offset)
}

func TestOffsetResolver(t *testing.T) {
	p := Payload{"147": {}, "219": {}}

	res, err := OffsetResolver{Offset: 146}.Resolve(context.Background(), nil, p)
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"147": 1, "219": 73}, res.IDs)
	require.NotNil(t, res.Offset)
	assert.Equal(t, int64(146), *res.Offset)
}

func TestDetectOffsetResolver(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	testutil.SeedRecipeRange(t, db, 220, 222)
	q := store.New(db)

	p := Payload{"147": {}, "148": {}, "149": {}, "notes": {}}

	res, err := DetectOffsetResolver{}.Resolve(ctx, q, p)
	require.NoError(t, err)

	require.NotNil(t, res.Offset)
	assert.Equal(t, int64(-73), *res.Offset)
	assert.Equal(t, map[string]int64{"147": 220, "148": 221, "149": 222}, res.IDs)
	assert.Contains(t, res.Skipped, "notes")
}

func TestDetectOffset_EmptyRecipeStore(t *testing.T) {
	db := testutil.TestDB(t)

	_, _, err := DetectOffset(context.Background(), store.New(db), Payload{"1": {}})
	assert.ErrorIs(t, err, reconcile.ErrEmptyRecipeStore)
}

func TestDetectOffset_NoNumericKeys(t *testing.T) {
	db := testutil.TestDB(t)
	testutil.SeedRecipeRange(t, db, 1, 1)

	_, ok, err := DetectOffset(context.Background(), store.New(db), Payload{"a": {}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFuzzyResolver(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	testutil.SeedRecipes(t, db, map[int64]string{
		1: "Paella valenciana",
		2: "Tortilla de patatas",
		3: "Crema catalana",
	})
	q := store.New(db)

	// English titles cannot be compared with Spanish ones, so the Spanish
	// file sharing the same keys is the reference.
	p := Payload{
		"500": {Title: "Valencian paella"},
		"501": {Title: "Spanish omelette"},
		"502": {Title: "Octopus"},
		"503": {Title: "Catalan cream"},
	}
	ref := Payload{
		"500": {Title: "Paella Valenciana"},
		"501": {Title: "Tortilla de patatas"},
		"502": {Title: "Pulpo a la gallega"},
	}

	res, err := FuzzyResolver{Reference: ref}.Resolve(ctx, q, p)
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"500": 1, "501": 2}, res.IDs)
	assert.Equal(t, 100, res.Scores["500"])

	require.Contains(t, res.Skipped, "502")
	assert.Equal(t, ReasonUnmatched, res.Skipped["502"].Reason)
	assert.LessOrEqual(t, res.Skipped["502"].Score, 70)

	require.Contains(t, res.Skipped, "503", "keys missing from the reference are skipped")
	assert.Zero(t, res.Skipped["503"].Score)
}

func TestFuzzyResolver_SelfReference(t *testing.T) {
	db := testutil.TestDB(t)
	testutil.SeedRecipes(t, db, map[int64]string{7: "Fabada asturiana"})

	p := Payload{"x1": model.Fields{Title: "FABADA ASTURIANA"}}

	res, err := FuzzyResolver{}.Resolve(context.Background(), store.New(db), p)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"x1": 7}, res.IDs)
}

func TestFuzzyResolver_EmptyRecipeStore(t *testing.T) {
	db := testutil.TestDB(t)

	_, err := FuzzyResolver{}.Resolve(context.Background(), store.New(db), Payload{"1": {Title: "x"}})
	assert.ErrorIs(t, err, reconcile.ErrEmptyRecipeStore)
}
