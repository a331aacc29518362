// Package cli provides CLI output utilities for Kondate.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/hyperjump/kondate/internal/models"
	"github.com/hyperjump/kondate/pkg/utils"
)

// OutputFormat is the format for run summary output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// maxReasonLen bounds error reasons in text output; the full reason is in
// the JSON artifact.
const maxReasonLen = 120

// WriteRunSummary writes a run summary to w in the given format. Use
// OutputJSON for parseable output consumable by other apps.
func WriteRunSummary(w io.Writer, summary *models.RunSummary, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	default:
		writeRunSummaryText(w, summary)
		return nil
	}
}

func writeRunSummaryText(w io.Writer, summary *models.RunSummary) {
	elapsed := summary.FinishedAt.Sub(summary.StartedAt)
	fmt.Fprintf(w, "\nRun %s finished in %s\n", summary.RunID, elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Documents: %d  Chunks: %d  Indexed: %d  Failed: %d\n\n",
		summary.Documents, summary.Chunks, summary.TotalSucceeded(), summary.TotalFailed())

	names := make([]string, 0, len(summary.Collections))
	for name := range summary.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		res := summary.Collections[name]
		fmt.Fprintf(w, "  %-12s %d/%d", name, res.Succeeded, res.Attempted)
		if res.Failed > 0 {
			fmt.Fprintf(w, "  (%d failed)", res.Failed)
		}
		fmt.Fprintln(w)
		for _, rec := range res.Errors {
			fmt.Fprintf(w, "    batch @%d (%d chunks): %s\n",
				rec.BatchStart, rec.ChunkCount, utils.Truncate(rec.Reason, maxReasonLen))
		}
	}

	if len(summary.Traces) > 0 {
		fmt.Fprintln(w, "\nStages:")
		for _, tr := range summary.Traces {
			fmt.Fprintf(w, "  %-10s %5d -> %-5d %s\n", tr.Stage, tr.Input, tr.Output, tr.Duration.Round(time.Microsecond))
		}
	}
}
