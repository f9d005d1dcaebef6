// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/olegiv/recipe-l10n/internal/match"
	"github.com/olegiv/recipe-l10n/internal/transfer"
)

// matcherFlags are shared by the commands that match titles.
type matcherFlags struct {
	threshold   int
	scorer      string
	foldAccents bool
}

// matcher builds a Matcher. The threshold falls back to the configured
// RECIPES_MATCH_THRESHOLD when the flag is negative.
func (f matcherFlags) matcher() (*match.Matcher, error) {
	scorer, err := match.NewScorer(f.scorer)
	if err != nil {
		return nil, err
	}
	threshold := f.threshold
	if threshold < 0 {
		threshold = app.cfg.MatchThreshold
	}
	if threshold > 100 {
		return nil, fmt.Errorf("threshold must be between 0 and 100, got %d", threshold)
	}
	return &match.Matcher{
		Scorer:     scorer,
		Normalizer: match.Normalizer{FoldAccents: f.foldAccents},
		Threshold:  threshold,
	}, nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printBatch writes a batch summary followed by every skipped or failed
// record.
func printBatch(w io.Writer, verb string, res *transfer.BatchResult) {
	mode := ""
	if res.DryRun {
		mode = " (dry run)"
	}
	_, _ = fmt.Fprintf(w, "%s %s records%s: %d created, %d updated, %d skipped, %d failed\n",
		verb, humanize.Comma(int64(res.Total())), mode, res.Created, res.Updated, res.Skipped, res.Failed)
	if res.Offset != nil {
		_, _ = fmt.Fprintf(w, "Offset: %d\n", *res.Offset)
	}

	for _, o := range res.Outcomes {
		switch o.Outcome {
		case transfer.OutcomeSkipped:
			switch {
			case o.DuplicateOf != "":
				_, _ = fmt.Fprintf(w, "  skipped %s: %s by %s (recipe %d)\n", o.Key, o.Reason, o.DuplicateOf, o.RecipeID)
			case o.Score > 0:
				_, _ = fmt.Fprintf(w, "  skipped %s: %s (best recipe %d, score %d)\n", o.Key, o.Reason, o.RecipeID, o.Score)
			default:
				_, _ = fmt.Fprintf(w, "  skipped %s: %s\n", o.Key, o.Reason)
			}
		case transfer.OutcomeFailed:
			_, _ = fmt.Fprintf(w, "  failed %s: %s\n", o.Key, o.Error)
		}
	}
}

// batchErr maps a batch result onto the exit status: failures are errors,
// skips are ErrSkipped.
func batchErr(res *transfer.BatchResult) error {
	switch {
	case !res.Success():
		return res.Err()
	case res.Skipped > 0:
		return ErrSkipped
	default:
		return nil
	}
}
