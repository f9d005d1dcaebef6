// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/recipe-l10n/internal/recipes"
)

var importRecipesCmd = &cobra.Command{
	Use:   "import-recipes <dir>",
	Short: "Load canonical Spanish recipes from markdown files",
	Long: `Parses every *.md file in a directory and stores it in the recipe store.

The first H1 is the title; the Descripción, Ingredientes and Preparación
sections fill the matching fields. Recipes are keyed by file name, so
importing the same directory again updates them in place and keeps their ids.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportRecipes,
}

func init() {
	rootCmd.AddCommand(importRecipesCmd)
}

func runImportRecipes(cmd *cobra.Command, args []string) error {
	res, err := recipes.NewImporter(app.db, app.logger).ImportDir(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Imported recipes from %s: %d created, %d updated, %d failed\n",
		res.Dir, res.Created, res.Updated, res.Failed)
	for _, f := range res.Files {
		if f.Error != "" {
			_, _ = fmt.Fprintf(out, "  %s: %s\n", f.Filename, f.Error)
		}
	}
	return res.Err()
}
