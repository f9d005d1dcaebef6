// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/recipe-l10n/internal/reconcile"
)

var (
	reconcileDryRun    bool
	reconcileStrict    bool
	reconcileSpotCheck string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Detect and repair a recipe_id offset in the translation store",
	Long: `Compares the smallest recipe id with the smallest translated recipe_id.
When every translation row is shifted by the same amount, the rows are moved
back onto their recipes in one transaction, after copying the table to
recipe_translations_backup. Running it again is a no-op.

Rows that do not share the offset stop the command without changes. Rows of
a second offset can still land on existing recipes; that shows up as
untranslated recipes inside a language's range, which --strict refuses.`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "Report the detected offset without changing anything")
	reconcileCmd.Flags().BoolVar(&reconcileStrict, "strict", false, "Refuse a shift that leaves untranslated recipes inside a language's range")
	reconcileCmd.Flags().StringVar(&reconcileSpotCheck, "spot-check-lang", "", "Language verified after the shift (default: $RECIPES_SPOT_CHECK_LANGUAGE)")
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	lang := reconcileSpotCheck
	if lang == "" {
		lang = app.cfg.SpotCheckLanguage
	}

	r := reconcile.New(app.db, app.logger, reconcile.Options{
		SpotCheckLanguage: lang,
		DryRun:            reconcileDryRun,
		Strict:            reconcileStrict,
	})
	res, err := r.Run(cmd.Context())

	out := cmd.OutOrStdout()
	var integrity *reconcile.IntegrityError
	if errors.As(err, &integrity) {
		_, _ = fmt.Fprintf(out, "Offset %d does not apply to every row; %d recipe_id values would not land on a recipe.\n",
			integrity.Offset, len(integrity.Orphans))
		_, _ = fmt.Fprintln(out, "Nothing was changed. Inspect the rows with: recipectl report")
	}
	if errors.Is(err, reconcile.ErrAmbiguousOffset) {
		_, _ = fmt.Fprintln(out, "Nothing was changed. Rerun without --strict if the gaps are untranslated recipes.")
	}
	if err != nil {
		return err
	}

	switch res.Status {
	case reconcile.StatusNoOp:
		_, _ = fmt.Fprintf(out, "Translations already aligned (%d rows).\n", res.Before.Count)
	case reconcile.StatusPlanned:
		_, _ = fmt.Fprintf(out, "Would shift %d rows by %d: recipe_id %d..%d -> %d..%d\n",
			res.Before.Count, -res.Offset,
			res.Before.Min, res.Before.Max,
			res.Before.Min-res.Offset, res.Before.Max-res.Offset)
	case reconcile.StatusCorrected:
		_, _ = fmt.Fprintf(out, "Shifted %d rows by %d: recipe_id %d..%d -> %d..%d\n",
			res.RowsAffected, -res.Offset,
			res.Before.Min, res.Before.Max,
			res.After.Min, res.After.Max)
		_, _ = fmt.Fprintf(out, "Backup: %s (%d rows)\n", res.BackupTable, res.BackupRows)
		if sc := res.SpotCheck; sc != nil {
			_, _ = fmt.Fprintf(out, "Spot check: recipe %d (%s) %q\n", sc.RecipeID, sc.Language, sc.Title)
		}
	}
	if res.Status != reconcile.StatusNoOp {
		for _, g := range res.Gaps {
			_, _ = fmt.Fprintf(out, "Warning: %s has %d untranslated recipes inside its range; check for a second offset.\n",
				g.Language, g.Count)
		}
	}
	return nil
}
