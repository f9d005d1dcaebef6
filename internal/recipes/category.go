// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package recipes

import "strings"

// DefaultCategory is used when no keyword matches.
const DefaultCategory = "Otros"

type categoryRule struct {
	Category string
	Keywords []string
}

// categoryRules are checked in order; the first keyword found wins.
var categoryRules = []categoryRule{
	{"Postres", []string{"tarta", "flan", "helado", "bizcocho", "chocolate", "crema", "moka", "galleta", "mousse", "puding"}},
	{"Bebidas", []string{"batido", "coco", "limón", "naranja", "plátano"}},
	{"Pollo", []string{"pollo", "pularda"}},
	{"Pescado", []string{"pescado", "merluza", "lenguado", "arenque", "rosada", "bacalao", "calamares"}},
	{"Carnes", []string{"cordero", "lomo", "ternera", "faisán", "liebre", "jamón"}},
	{"Verduras", []string{"espinacas", "alcachofas", "guisantes", "cebolla", "patata", "espárragos"}},
	{"Aperitivos", []string{"cocktail", "paté", "pinchito", "emparedado", "tortilla"}},
}

// Categorize picks a category from keywords in the title, description or
// ingredients.
func Categorize(title, description, ingredients string) string {
	haystacks := []string{
		strings.ToLower(title),
		strings.ToLower(description),
		strings.ToLower(ingredients),
	}
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			for _, h := range haystacks {
				if strings.Contains(h, kw) {
					return rule.Category
				}
			}
		}
	}
	return DefaultCategory
}
