// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/olegiv/recipe-l10n/internal/match"
	"github.com/olegiv/recipe-l10n/internal/reconcile"
	"github.com/olegiv/recipe-l10n/internal/store"
	"github.com/olegiv/recipe-l10n/internal/transfer"
)

var (
	matchFile    string
	matchJSON    bool
	matchMatcher matcherFlags
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Show how the titles of a file match the recipe titles",
	Long: `Scores every title of a JSON file against the Spanish recipe titles and
prints the accepted matches and the best candidate of each rejected title.
Nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	f := matchCmd.Flags()
	f.StringVarP(&matchFile, "file", "f", "", "JSON file whose titles are matched")
	f.IntVar(&matchMatcher.threshold, "threshold", -1, "Minimum title score, exclusive (default: $RECIPES_MATCH_THRESHOLD)")
	f.StringVar(&matchMatcher.scorer, "scorer", "ratio", "Title similarity: ratio or levenshtein")
	f.BoolVar(&matchMatcher.foldAccents, "fold-accents", false, "Ignore accents when matching titles")
	f.BoolVar(&matchJSON, "json", false, "Print the result as JSON")

	_ = matchCmd.MarkFlagRequired("file")
}

func runMatch(cmd *cobra.Command, _ []string) error {
	m, err := matchMatcher.matcher()
	if err != nil {
		return err
	}
	p, err := transfer.LoadPayloadFile(matchFile, transfer.LoadOptions{})
	if err != nil {
		return err
	}

	titles, err := store.New(app.db).ListRecipeTitles(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing recipe titles: %w", err)
	}
	if len(titles) == 0 {
		return reconcile.ErrEmptyRecipeStore
	}
	candidates := make([]match.Candidate, len(titles))
	for i, t := range titles {
		candidates[i] = match.Candidate{ID: t.ID, Title: t.Title}
	}

	res := m.MatchAll(p.Titles(), candidates)
	out := cmd.OutOrStdout()
	if matchJSON {
		return writeJSON(out, res)
	}

	tw := tabwriter.NewWriter(out, 4, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "Key\tTitle\tRecipe\tScore\tCanonical title")
	for _, mt := range res.Matches {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", mt.Key, mt.Title, mt.RecipeID, mt.Score, mt.Canonical)
	}
	for _, u := range res.Unmatched {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t-\t%d\t(best: %d %s)\n", u.Key, u.Title, u.BestScore, u.BestID, u.BestTitle)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "\n%d matched, %d unmatched (threshold %d)\n", len(res.Matches), len(res.Unmatched), m.Threshold)
	return nil
}
