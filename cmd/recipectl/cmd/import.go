// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/recipe-l10n/internal/transfer"
)

// Import modes.
const (
	modeDirect = "direct"
	modeOffset = "offset"
	modeAuto   = "auto"
	modeMatch  = "match"
)

var (
	importLang      string
	importFile      string
	importMode      string
	importOffset    int64
	importReference string
	importStripHTML bool
	importDryRun    bool
	importJSON      bool
	importMatcher   matcherFlags
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Upsert a translation file into the translation store",
	Long: `Reads a JSON object of key -> {title, description, ingredients,
instructions, category} and writes one translation per record.

Modes:
  direct  keys are recipe ids
  offset  keys are recipe ids shifted by --offset
  auto    the offset is detected from the smallest key and recipe id
  match   titles are fuzzy matched against the Spanish recipe titles;
          --reference supplies Spanish titles under the same keys

Exit status is 2 when some records were skipped.

Examples:
  recipectl import --lang en --file translations_en.json --mode auto
  recipectl import --lang zh --file zh.json --mode match --reference es.json`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	f := importCmd.Flags()
	f.StringVarP(&importLang, "lang", "l", "", "Language code of the translations")
	f.StringVarP(&importFile, "file", "f", "", "Translation JSON file")
	f.StringVar(&importMode, "mode", modeDirect, "Key resolution: direct, offset, auto or match")
	f.Int64Var(&importOffset, "offset", 0, "Offset subtracted from keys in offset mode")
	f.StringVar(&importReference, "reference", "", "JSON file with comparable titles under the same keys (match mode)")
	f.IntVar(&importMatcher.threshold, "threshold", -1, "Minimum title score, exclusive (default: $RECIPES_MATCH_THRESHOLD)")
	f.StringVar(&importMatcher.scorer, "scorer", "ratio", "Title similarity: ratio or levenshtein")
	f.BoolVar(&importMatcher.foldAccents, "fold-accents", false, "Ignore accents when matching titles")
	f.BoolVar(&importStripHTML, "strip-html", false, "Remove HTML markup from every field")
	f.BoolVar(&importDryRun, "dry-run", false, "Resolve and validate without writing")
	f.BoolVar(&importJSON, "json", false, "Print the batch result as JSON")

	_ = importCmd.MarkFlagRequired("lang")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, _ []string) error {
	load := transfer.LoadOptions{StripHTML: importStripHTML}

	resolver, err := importResolver(cmd, load)
	if err != nil {
		return err
	}

	res, err := transfer.NewImporter(app.db, app.logger).ImportFromFile(cmd.Context(), importFile, load, transfer.ImportOptions{
		Language: importLang,
		Resolver: resolver,
		DryRun:   importDryRun,
	})
	if err != nil {
		return err
	}

	if importJSON {
		if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	} else {
		printBatch(cmd.OutOrStdout(), "Imported", res)
	}
	return batchErr(res)
}

func importResolver(cmd *cobra.Command, load transfer.LoadOptions) (transfer.Resolver, error) {
	switch importMode {
	case modeDirect:
		return transfer.DirectResolver{}, nil
	case modeOffset:
		if !cmd.Flags().Changed("offset") {
			return nil, fmt.Errorf("--offset is required in %s mode", modeOffset)
		}
		return transfer.OffsetResolver{Offset: importOffset}, nil
	case modeAuto:
		return transfer.DetectOffsetResolver{}, nil
	case modeMatch:
		m, err := importMatcher.matcher()
		if err != nil {
			return nil, err
		}
		r := transfer.FuzzyResolver{Matcher: m}
		if importReference != "" {
			if r.Reference, err = transfer.LoadPayloadFile(importReference, load); err != nil {
				return nil, fmt.Errorf("loading reference: %w", err)
			}
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown mode %q (want %s, %s, %s or %s)",
			importMode, modeDirect, modeOffset, modeAuto, modeMatch)
	}
}
