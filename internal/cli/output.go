package cli

import (
	"fmt"
	"io"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"
	"github.com/pfrederiksen/visa-bulletin/internal/export"
	"github.com/pfrederiksen/visa-bulletin/internal/processor"
)

// Summary describes a finished run
type Summary struct {
	Start   bulletin.Issue
	End     bulletin.Issue
	Format  export.Format
	Written []string
	Entries int
	Skipped []processor.Result
}

// WriteSummary writes a human-readable report of the run
func WriteSummary(w io.Writer, s *Summary, verbose bool) error {
	total := len(s.Written) + len(s.Skipped)
	fmt.Fprintf(w, "Processed %d issue(s) from %s to %s\n", total, s.Start, s.End)

	if verbose {
		for _, path := range s.Written {
			fmt.Fprintf(w, "  wrote %s\n", path)
		}
	}

	if _, err := fmt.Fprintf(w, "Wrote %d issue(s), %d entries as %s\n", len(s.Written), s.Entries, s.Format); err != nil {
		return err
	}

	if len(s.Skipped) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\nSkipped %d issue(s):\n", len(s.Skipped))
	for _, r := range s.Skipped {
		fmt.Fprintf(w, "  %s: %v\n", r.Issue, r.Err)
	}
	_, err := fmt.Fprintf(w, "\nRe-run after fixing, or inspect a page with: visa-bulletin parse FILE --issue YYYY-MM\n")
	return err
}
