// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/olegiv/recipe-l10n/internal/model"
	"github.com/olegiv/recipe-l10n/internal/store"
)

var statusEvents int64

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database, store and event log status",
	Long: `Prints the schema version, the number of recipes, the translation rows per
language and the most recent warnings and errors from the event log.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Int64VarP(&statusEvents, "events", "n", 10, "Number of recent events to list")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	q := store.New(app.db)
	out := cmd.OutOrStdout()

	schema, err := store.MigrationVersion(app.db)
	if err != nil {
		return err
	}
	recipes, err := q.CountRecipes(ctx)
	if err != nil {
		return fmt.Errorf("counting recipes: %w", err)
	}
	counts, err := q.CountTranslationsByLanguage(ctx)
	if err != nil {
		return fmt.Errorf("counting translations: %w", err)
	}
	eventCount, err := q.CountEvents(ctx)
	if err != nil {
		return fmt.Errorf("counting events: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Database: %s (%s, schema %d)\n", app.cfg.DBPath, app.cfg.DBDriver, schema)
	_, _ = fmt.Fprintf(out, "Recipes:  %s\n\n", humanize.Comma(recipes))

	tw := tabwriter.NewWriter(out, 4, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "Language\tName\tRows")
	for _, c := range counts {
		name := "-"
		if l, ok := model.LookupLanguage(c.Language); ok {
			name = l.Name
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Language, name, humanize.Comma(c.Count))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "\nEvents: %s\n", humanize.Comma(eventCount))
	if statusEvents <= 0 || eventCount == 0 {
		return nil
	}
	events, err := q.ListEvents(ctx, statusEvents)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}
	for _, e := range events {
		_, _ = fmt.Fprintf(out, "  %s  %-7s %-9s %s %s\n",
			humanize.Time(e.CreatedAt), e.Level, e.Category, e.Message, e.Metadata)
	}
	return nil
}
