// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/olegiv/recipe-l10n/internal/transfer"
)

var restoreDryRun bool

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Upsert the translations of a backup written by export",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().BoolVar(&restoreDryRun, "dry-run", false, "Validate without writing")
}

func runRestore(cmd *cobra.Command, args []string) error {
	doc, err := transfer.ReadExportFile(args[0])
	if err != nil {
		return err
	}

	res := transfer.NewImporter(app.db, app.logger).Restore(cmd.Context(), doc, restoreDryRun)
	printBatch(cmd.OutOrStdout(), "Restored", res)
	return batchErr(res)
}
