package extractor

import (
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"
	"github.com/pfrederiksen/visa-bulletin/internal/document"
	"github.com/pfrederiksen/visa-bulletin/internal/logger"
)

// Extractor reads the tables of one bulletin issue
type Extractor struct {
	issue bulletin.Issue
	rules *bulletin.Ruleset
}

// New creates an Extractor using the ruleset in effect for issue
func New(issue bulletin.Issue) (*Extractor, error) {
	rules, err := bulletin.RulesetFor(issue)
	if err != nil {
		return nil, err
	}
	return &Extractor{issue: issue, rules: rules}, nil
}

// ExtractDocument parses a bulletin page and extracts all of its entries
func ExtractDocument(issue bulletin.Issue, r io.Reader) ([]bulletin.DataEntry, error) {
	start := time.Now()

	x, err := New(issue)
	if err != nil {
		return nil, err
	}

	doc, err := document.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s bulletin: %w", issue, err)
	}

	pageTables := doc.Tables()
	logger.Debug("Parsed bulletin page", logger.Fields{
		"issue":  issue.String(),
		"title":  doc.Title(),
		"tables": len(pageTables),
	})

	tables := make([]Table, len(pageTables))
	for i, t := range pageTables {
		tables[i] = t
	}

	entries, err := x.Extract(tables)
	if err != nil {
		return nil, fmt.Errorf("extracting %s bulletin: %w", issue, err)
	}

	logger.RecordTiming("extract.document", time.Since(start))
	return entries, nil
}

// Extract processes every table of a page. It fails on the first table that
// cannot be fully interpreted, and when two tables report the same cell.
func (x *Extractor) Extract(tables []Table) ([]bulletin.DataEntry, error) {
	entries := make([]bulletin.DataEntry, 0)
	seen := make(map[bulletin.EntryKey]int)

	for i, t := range tables {
		got, err := x.ExtractTable(t)
		if err != nil {
			return nil, &TableError{Index: i, Content: describe(t.Rows()), Err: err}
		}

		for _, e := range got {
			if prev, dup := seen[e.Key()]; dup {
				err := bulletin.Anomaly(e.Key().String(), "cell already reported by table %d", prev)
				return nil, &TableError{Index: i, Content: describe(t.Rows()), Err: err}
			}
			seen[e.Key()] = i
		}

		entries = append(entries, got...)
	}

	logger.IncrCounter("documents.extracted")
	return entries, nil
}

// ExtractTable returns the entries of a single table, or nothing when the
// table is classified as irrelevant.
func (x *Extractor) ExtractTable(t Table) ([]bulletin.DataEntry, error) {
	class := Classify(t)
	if class.Skip {
		logger.Debug("Skipping table", logger.Fields{
			"issue":  x.issue.String(),
			"reason": class.Reason,
		})
		logger.IncrCounter("tables.skipped")
		return nil, nil
	}

	rows := t.Rows()
	firstCellBlank := len(rows[0]) == 0 || bulletin.Normalize(rows[0][0]) == ""
	layout := bulletin.LayoutFor(x.issue, firstCellBlank)

	if layout.LeadingRows >= len(rows) {
		return nil, bulletin.Anomaly(rowText(rows[0]), "table has no rows after %d leading rows", layout.LeadingRows)
	}
	rows = rows[layout.LeadingRows:]

	if len(rows) < layout.HeaderRows {
		// Early bulletins carry single-row layout tables alongside the charts
		logger.Debug("Skipping table", logger.Fields{
			"issue":  x.issue.String(),
			"reason": "split header table with a single row",
		})
		logger.IncrCounter("tables.skipped")
		return nil, nil
	}

	section, countryCells, err := splitHeader(rows, layout)
	if err != nil {
		return nil, err
	}

	countries := make([]bulletin.CountryCategory, len(countryCells))
	for i, cell := range countryCells {
		countries[i], err = x.rules.Country(cell)
		if err != nil {
			return nil, fmt.Errorf("header column %d: %w", i+1, err)
		}
	}

	entries := make([]bulletin.DataEntry, 0, len(countries)*(len(rows)-layout.HeaderRows))
	for r, cells := range rows[layout.HeaderRows:] {
		rowNum := r + layout.HeaderRows + layout.LeadingRows + 1
		if rowText(cells) == "" {
			continue
		}

		if len(cells)-1 != len(countries) {
			return nil, bulletin.Anomaly(rowText(cells), "row %d has %d date cells for %d countries",
				rowNum, len(cells)-1, len(countries))
		}

		category, err := x.rules.Category(cells[0], section)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		for i, cell := range cells[1:] {
			date, err := bulletin.ParseDate(cell, x.issue)
			if err != nil {
				return nil, fmt.Errorf("row %d, %s column: %w", rowNum, countries[i], err)
			}

			entries = append(entries, bulletin.DataEntry{
				Year:        x.issue.Year,
				Month:       x.issue.Month,
				Country:     countries[i],
				Category:    category,
				FinalAction: class.FinalAction,
				Date:        date,
			})
		}
	}

	logger.IncrCounter("tables.extracted")
	logger.Debug("Extracted table", logger.Fields{
		"issue":        x.issue.String(),
		"final_action": class.FinalAction,
		"entries":      len(entries),
	})
	return entries, nil
}

// splitHeader returns the section label and the country header cells
func splitHeader(rows [][]string, layout bulletin.Layout) (string, []string, error) {
	if layout.SplitHeader() {
		if len(rows[1]) == 0 {
			return "", nil, bulletin.Anomaly("", "second header row is empty")
		}
		if len(rows[0]) == 0 {
			return "", nil, bulletin.Anomaly("", "first header row is empty")
		}
		return rows[1][0], rows[0][1:], nil
	}

	if len(rows[0]) == 0 {
		return "", nil, bulletin.Anomaly("", "header row has no cells")
	}
	return rows[0][0], rows[0][1:], nil
}
