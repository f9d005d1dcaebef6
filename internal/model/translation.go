// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// Text field names shared by recipes and their translations.
const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldIngredients  = "ingredients"
	FieldInstructions = "instructions"
	FieldCategory     = "category"
)

// AllFields lists every text field in storage order.
var AllFields = []string{FieldTitle, FieldDescription, FieldIngredients, FieldInstructions, FieldCategory}

// Fields holds the translatable text of a recipe. Any field may be empty.
type Fields struct {
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description" yaml:"description"`
	Ingredients  string `json:"ingredients" yaml:"ingredients"`
	Instructions string `json:"instructions" yaml:"instructions"`
	Category     string `json:"category" yaml:"category"`
}

// Get returns the value of the named field.
func (f Fields) Get(name string) (string, error) {
	switch name {
	case FieldTitle:
		return f.Title, nil
	case FieldDescription:
		return f.Description, nil
	case FieldIngredients:
		return f.Ingredients, nil
	case FieldInstructions:
		return f.Instructions, nil
	case FieldCategory:
		return f.Category, nil
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// Set assigns the named field.
func (f *Fields) Set(name, value string) error {
	switch name {
	case FieldTitle:
		f.Title = value
	case FieldDescription:
		f.Description = value
	case FieldIngredients:
		f.Ingredients = value
	case FieldInstructions:
		f.Instructions = value
	case FieldCategory:
		f.Category = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// BlankFields returns the names of fields that are empty or whitespace only.
func (f Fields) BlankFields() []string {
	var blank []string
	for _, name := range AllFields {
		v, _ := f.Get(name)
		if strings.TrimSpace(v) == "" {
			blank = append(blank, name)
		}
	}
	return blank
}

// IsValidField reports whether name is a known text field.
func IsValidField(name string) bool {
	for _, f := range AllFields {
		if f == name {
			return true
		}
	}
	return false
}

// Translation is one per-language overlay of a recipe.
type Translation struct {
	RecipeID int64  `json:"recipe_id"`
	Language string `json:"language"`
	Fields
}

func (t Translation) String() string {
	return fmt.Sprintf("recipe %d (%s)", t.RecipeID, t.Language)
}
