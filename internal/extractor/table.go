package extractor

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"
)

// Table is the view of a page table the extractor works against
type Table interface {
	// Rows returns the raw text of each cell, row by row
	Rows() [][]string
	// SectionHeading returns the heading the table sits under
	SectionHeading() (string, bool)
	// PrecedingParagraph returns the nearest paragraph before the table
	PrecedingParagraph() (string, bool)
}

// TableError wraps an extraction failure with the table it came from
type TableError struct {
	Index   int
	Content string
	Err     error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("table %d: %v\n%s", e.Index, e.Err, e.Content)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// rowText joins a row's cells into one normalized string
func rowText(cells []string) string {
	return bulletin.Normalize(strings.Join(cells, " "))
}

// describe renders table rows for error messages
func describe(rows [][]string) string {
	var b strings.Builder
	for _, cells := range rows {
		normalized := make([]string, len(cells))
		for i, c := range cells {
			normalized[i] = strings.Join(strings.Fields(c), " ")
		}
		b.WriteString("  | ")
		b.WriteString(strings.Join(normalized, " | "))
		b.WriteString(" |\n")
	}
	return b.String()
}
