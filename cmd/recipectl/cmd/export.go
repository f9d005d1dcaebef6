// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/recipe-l10n/internal/store"
	"github.com/olegiv/recipe-l10n/internal/transfer"
)

var exportLang, exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON backup of the translations",
	Long: `Writes the stored translations, with the Spanish title of each recipe,
as a JSON document that "recipectl restore" reads back. Rows whose
recipe_id matches no recipe are left out.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportLang, "lang", "l", "", "Only export this language")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	e := transfer.NewExporter(store.New(app.db), app.logger)
	opts := transfer.ExportOptions{Language: exportLang}

	if exportOut == "" {
		_, err := e.ExportToWriter(cmd.Context(), opts, cmd.OutOrStdout())
		return err
	}

	doc, err := e.ExportToFile(cmd.Context(), opts, exportOut)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d translations to %s\n", doc.Count, exportOut)
	return nil
}
