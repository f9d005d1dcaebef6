// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package coverage

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/olegiv/recipe-l10n/internal/model"
)

// maxListed bounds the ids printed per line in text output.
const maxListed = 12

// WriteText renders the report as an aligned table followed by per-language
// problems.
func WriteText(w io.Writer, rep *Report) error {
	fmt.Fprintf(w, "Recipes:      %s\n", humanize.Comma(int64(rep.RecipeCount)))
	fmt.Fprintf(w, "Translations: %s\n", humanize.Comma(int64(rep.TranslationCount)))
	fmt.Fprintf(w, "Languages:    %s\n\n", strings.Join(rep.Languages, ", "))

	if len(rep.Languages) == 0 {
		_, err := fmt.Fprintln(w, "No translations stored.")
		return err
	}

	tw := tabwriter.NewWriter(w, 6, 6, 2, ' ', 0)
	fmt.Fprintf(tw, "\tLanguage\tRows\tCovered\tCoverage\tMissing\tOrphans\tEmpty\tTruncated\n")
	for _, lang := range rep.Languages {
		lr, ok := rep.ByLanguage[lang]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "\t%s\t%s\t%s\t%.1f%%\t%d\t%d\t%d\t%d\n",
			lang,
			humanize.Comma(int64(lr.Rows)),
			humanize.Comma(int64(lr.Covered)),
			lr.Percent,
			len(lr.Missing),
			len(lr.Orphans),
			len(lr.EmptyFields),
			len(lr.Truncated))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, lang := range rep.Languages {
		lr, ok := rep.ByLanguage[lang]
		if !ok || lr.Complete() && len(lr.Truncated) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n[%s]\n", languageLabel(lang))
		if len(lr.Missing) > 0 {
			fmt.Fprintf(w, "  missing recipes: %s\n", listIDs(lr.Missing))
		}
		if len(lr.Orphans) > 0 {
			fmt.Fprintf(w, "  orphaned recipe_ids: %s\n", listIDs(lr.Orphans))
		}
		for _, e := range lr.EmptyFields {
			fmt.Fprintf(w, "  recipe %d: empty %s\n", e.RecipeID, strings.Join(e.Fields, ", "))
		}
		for _, tr := range lr.Truncated {
			fmt.Fprintf(w, "  recipe %d: %s has %d of %d characters\n",
				tr.RecipeID, tr.Field, tr.Length, tr.OriginalLength)
		}
	}
	return nil
}

// WriteJSON renders the report as indented JSON.
func WriteJSON(w io.Writer, rep *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rep)
}

// languageLabel appends the English name of known languages to the code.
func languageLabel(code string) string {
	if l, ok := model.LookupLanguage(code); ok {
		return code + " " + l.Name
	}
	return code
}

func listIDs(ids []int64) string {
	parts := make([]string, 0, min(len(ids), maxListed)+1)
	for i, id := range ids {
		if i == maxListed {
			parts = append(parts, fmt.Sprintf("and %d more", len(ids)-maxListed))
			break
		}
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ", ")
}
