package extractor

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"
)

// Classification is the verdict on one table
type Classification struct {
	Skip        bool
	Reason      string
	FinalAction bool
}

// Diversity visa region names. A table whose first row mentions one of them is
// a DV chart, not a preference chart.
var dvRegionHeaders = []string{
	"dv chargeability areas",
	"africa",
	"asia",
	"europe",
	"north america",
	"oceania",
	"south america, central america, and the caribbean",
}

// Paragraph text that introduces a DV or otherwise unrelated table
var dvParagraphMarkers = buildParagraphMarkers()

// Paragraphs consisting of nothing but a region name
var dvParagraphRegions = []string{
	"africa",
	"asia",
	"europe",
	"oceania",
	"south america, central america, and the caribbean",
	"north america bahamas, the 12",
}

const (
	firstDVProgramYear = 2003
	lastDVProgramYear  = 2025
)

func buildParagraphMarkers() []string {
	markers := make([]string, 0, lastDVProgramYear-firstDVProgramYear+6)
	for year := firstDVProgramYear; year <= lastDVProgramYear; year++ {
		markers = append(markers, fmt.Sprintf("dv-%d", year))
	}
	return append(markers,
		"all dv chargeability areas",
		"ina 202",
		"possible cut-off date actions based on demand",
		"worldwide dates:",
		"employment third:",
	)
}

const finalActionMarker = "final action dates"

// Classify decides whether a table is a preference chart and which kind of
// date it reports. Tables default to dates for filing unless their section
// heading says final action dates.
func Classify(t Table) Classification {
	var c Classification
	if heading, ok := t.SectionHeading(); ok {
		c.FinalAction = strings.Contains(bulletin.Normalize(heading), finalActionMarker)
	}

	rows := t.Rows()
	if len(rows) == 0 {
		return c.skip("no rows")
	}

	first := rowText(rows[0])
	for _, name := range dvRegionHeaders {
		if strings.Contains(first, name) {
			return c.skip("diversity visa region " + name)
		}
	}

	para, ok := t.PrecedingParagraph()
	if !ok {
		if first == "" {
			return c.skip("empty table")
		}
		return c
	}

	para = bulletin.Normalize(para)
	for _, marker := range dvParagraphMarkers {
		if strings.Contains(para, marker) {
			return c.skip("preceded by " + marker)
		}
	}
	for _, region := range dvParagraphRegions {
		if para == region {
			return c.skip("preceded by region " + region)
		}
	}

	return c
}

func (c Classification) skip(reason string) Classification {
	c.Skip = true
	c.Reason = reason
	return c
}
