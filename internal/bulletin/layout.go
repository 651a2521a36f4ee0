package bulletin

import "time"

var (
	lastSplitHeaderIssue = Issue{Year: 2003, Month: time.September}
	splitHeaderNov2005   = Issue{Year: 2005, Month: time.November}
	splitHeaderFeb2007   = Issue{Year: 2007, Month: time.February}
)

// Layout describes where the header of a bulletin table sits
type Layout struct {
	// LeadingRows are stray rows above the header that carry no data
	LeadingRows int
	// HeaderRows is 2 when the section label sits in the second physical row
	// and the country names in the first
	HeaderRows int
}

// SplitHeader reports whether the header spans two physical rows
func (l Layout) SplitHeader() bool {
	return l.HeaderRows == 2
}

// LayoutFor returns the header layout of a table in the given issue.
// firstCellBlank reports whether the table's top-left cell has no text.
func LayoutFor(issue Issue, firstCellBlank bool) Layout {
	switch {
	case !issue.After(lastSplitHeaderIssue),
		issue == splitHeaderNov2005,
		issue == splitHeaderFeb2007 && firstCellBlank:
		return Layout{HeaderRows: 2}
	case issue.Year == 2004 && issue.Month >= time.February && issue.Month <= time.April:
		return Layout{LeadingRows: 1, HeaderRows: 1}
	default:
		return Layout{HeaderRows: 1}
	}
}
