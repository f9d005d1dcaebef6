// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/recipe-l10n/internal/transfer"
)

var renameFrom, renameTo string

var renameLanguageCmd = &cobra.Command{
	Use:   "rename-language",
	Short: "Move every translation from one language code to another",
	Long: `Moves all translations stored under --from to --to in one transaction.
Translations already stored under --to for the same recipe are replaced.

Example:
  recipectl rename-language --from va --to ca-valencia`,
	Args: cobra.NoArgs,
	RunE: runRenameLanguage,
}

func init() {
	rootCmd.AddCommand(renameLanguageCmd)

	renameLanguageCmd.Flags().StringVar(&renameFrom, "from", "", "Current language code")
	renameLanguageCmd.Flags().StringVar(&renameTo, "to", "", "New language code")
	_ = renameLanguageCmd.MarkFlagRequired("from")
	_ = renameLanguageCmd.MarkFlagRequired("to")
}

func runRenameLanguage(cmd *cobra.Command, _ []string) error {
	res, err := transfer.RenameLanguage(cmd.Context(), app.db, renameFrom, renameTo)
	if err != nil {
		return err
	}

	app.logger.Info("language code renamed", "from", res.From, "to", res.To, "moved", res.Moved, "replaced", res.Replaced)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved %d translations from %s to %s (%d replaced)\n",
		res.Moved, res.From, res.To, res.Replaced)
	return nil
}
