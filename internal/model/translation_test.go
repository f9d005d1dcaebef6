// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"reflect"
	"testing"
)

func TestFields_GetSet(t *testing.T) {
	var f Fields
	for _, name := range AllFields {
		if err := f.Set(name, name+"-value"); err != nil {
			t.Fatalf("Set(%q): %v", name, err)
		}
	}
	for _, name := range AllFields {
		got, err := f.Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		if got != name+"-value" {
			t.Errorf("Get(%q) = %q", name, got)
		}
	}

	if err := f.Set("summary", "x"); err == nil {
		t.Error("Set(summary) should fail")
	}
	if _, err := f.Get("summary"); err == nil {
		t.Error("Get(summary) should fail")
	}
}

func TestFields_BlankFields(t *testing.T) {
	f := Fields{Title: "Cheesecake", Ingredients: "  \n", Category: "Desserts"}
	want := []string{FieldDescription, FieldIngredients, FieldInstructions}
	if got := f.BlankFields(); !reflect.DeepEqual(got, want) {
		t.Errorf("BlankFields() = %v, want %v", got, want)
	}

	full := Fields{Title: "a", Description: "b", Ingredients: "c", Instructions: "d", Category: "e"}
	if got := full.BlankFields(); len(got) != 0 {
		t.Errorf("BlankFields() = %v, want none", got)
	}
}

func TestIsValidField(t *testing.T) {
	if !IsValidField(FieldInstructions) {
		t.Error("instructions should be valid")
	}
	if IsValidField("filename") {
		t.Error("filename should not be a text field")
	}
}

func TestTranslation_String(t *testing.T) {
	tr := Translation{RecipeID: 7, Language: "eu"}
	if got := tr.String(); got != "recipe 7 (eu)" {
		t.Errorf("String() = %q", got)
	}
}
