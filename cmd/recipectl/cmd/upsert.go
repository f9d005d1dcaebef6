// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/store"
	"github.com/olegiv/recipe-l10n/internal/transfer"
)

var (
	upsertRecipeID int64
	upsertLang     string
	upsertFields   model.Fields
)

var upsertCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Insert or replace one translation",
	Long: `Writes a single translation for a recipe. An existing translation in the
same language is replaced entirely; fields that are not given are stored
empty.`,
	Args: cobra.NoArgs,
	RunE: runUpsert,
}

func init() {
	rootCmd.AddCommand(upsertCmd)

	f := upsertCmd.Flags()
	f.Int64Var(&upsertRecipeID, "recipe-id", 0, "Canonical recipe id")
	f.StringVarP(&upsertLang, "lang", "l", "", "Language code")
	f.StringVar(&upsertFields.Title, "title", "", "Translated title")
	f.StringVar(&upsertFields.Description, "description", "", "Translated description")
	f.StringVar(&upsertFields.Ingredients, "ingredients", "", "Translated ingredients")
	f.StringVar(&upsertFields.Instructions, "instructions", "", "Translated instructions")
	f.StringVar(&upsertFields.Category, "category", "", "Translated category")

	_ = upsertCmd.MarkFlagRequired("recipe-id")
	_ = upsertCmd.MarkFlagRequired("lang")
}

func runUpsert(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	t := model.Translation{RecipeID: upsertRecipeID, Language: upsertLang, Fields: upsertFields}

	tx, err := app.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	outcome, err := transfer.NewUpserter().Upsert(ctx, store.New(app.db).WithTx(tx), t)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	app.logger.Info("translation upserted", "recipe_id", t.RecipeID, "language", t.Language, "outcome", outcome)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Translation %d/%s %s\n", t.RecipeID, t.Language, outcome)
	return nil
}
