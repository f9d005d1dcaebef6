// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olegiv/recipe-l10n/internal/enhance"
)

var (
	enhanceRules  string
	enhanceLang   string
	enhanceMode   string
	enhanceDryRun bool
	enhanceJSON   bool
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance",
	Short: "Apply ordered text substitutions to one language",
	Long: `Applies a YAML rule set to every stored translation of its language:
first the title overrides, then each substitution rule in file order.

Without --rules the built-in Valencian rule set is used. The pass is not
idempotent: run it once per import.`,
	Args: cobra.NoArgs,
	RunE: runEnhance,
}

func init() {
	rootCmd.AddCommand(enhanceCmd)

	f := enhanceCmd.Flags()
	f.StringVarP(&enhanceRules, "rules", "r", "", "YAML rule set (default: built-in Valencian rules)")
	f.StringVarP(&enhanceLang, "lang", "l", "", "Override the language of the rule set")
	f.StringVar(&enhanceMode, "mode", "", "Override the match mode: literal or word")
	f.BoolVar(&enhanceDryRun, "dry-run", false, "Report the changes without writing")
	f.BoolVar(&enhanceJSON, "json", false, "Print the result as JSON")
}

func runEnhance(cmd *cobra.Command, _ []string) error {
	rs := enhance.DefaultRuleSet()
	if enhanceRules != "" {
		var err error
		if rs, err = enhance.LoadRuleSetFile(enhanceRules); err != nil {
			return err
		}
	}
	if enhanceLang != "" {
		rs.Language = enhanceLang
	}
	if enhanceMode != "" {
		rs.Mode = enhance.Mode(enhanceMode)
	}

	res, err := enhance.NewPass(app.db, app.logger, enhanceDryRun).Run(cmd.Context(), rs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if enhanceJSON {
		return writeJSON(out, res)
	}

	mode := ""
	if res.DryRun {
		mode = " (dry run)"
	}
	_, _ = fmt.Fprintf(out, "Enhanced %s%s: %d titles overridden, %d of %d rows changed\n",
		res.Language, mode, res.TitlesUpdated, res.RowsChanged, res.RowsScanned)
	for _, c := range res.Changes {
		_, _ = fmt.Fprintf(out, "  recipe %d: %s\n", c.RecipeID, strings.Join(c.Fields, ", "))
	}
	for _, s := range res.Skipped {
		_, _ = fmt.Fprintf(out, "  skipped title of recipe %d: %s\n", s.RecipeID, s.Reason)
	}
	if len(res.Skipped) > 0 {
		return ErrSkipped
	}
	return nil
}
