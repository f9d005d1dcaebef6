// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/olegiv/recipe-l10n/internal/coverage"
	"github.com/olegiv/recipe-l10n/internal/store"
)

var (
	reportJSON  bool
	reportLangs []string
	reportRatio float64
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show translation coverage per language",
	Long: `Counts, per language, the recipes with a translation and lists missing
recipes, rows that reference no recipe, blank fields and fields much shorter
than the Spanish original. Nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	f := reportCmd.Flags()
	f.BoolVar(&reportJSON, "json", false, "Print the report as JSON")
	f.StringSliceVarP(&reportLangs, "lang", "l", nil, "Languages to report (default: every stored language)")
	f.Float64Var(&reportRatio, "truncation-ratio", coverage.DefaultTruncationRatio, "Flag fields shorter than this share of the original")
}

func runReport(cmd *cobra.Command, _ []string) error {
	rep, err := coverage.New(store.New(app.db)).Report(cmd.Context(), coverage.Options{
		Languages:       reportLangs,
		TruncationRatio: reportRatio,
	})
	if err != nil {
		return err
	}

	if reportJSON {
		return coverage.WriteJSON(cmd.OutOrStdout(), rep)
	}
	return coverage.WriteText(cmd.OutOrStdout(), rep)
}
