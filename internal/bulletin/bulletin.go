package bulletin

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Issue identifies one monthly bulletin
type Issue struct {
	Year  int
	Month time.Month
}

// FirstIssue is the earliest bulletin published in the online archive
var FirstIssue = Issue{Year: 2001, Month: time.December}

// IssueOf returns the issue containing t
func IssueOf(t time.Time) Issue {
	return Issue{Year: t.Year(), Month: t.Month()}
}

// ParseIssue parses "YYYY-MM" or "YYYYMM"
func ParseIssue(s string) (Issue, error) {
	s = strings.TrimSpace(s)
	var yearStr, monthStr string
	switch {
	case len(s) == 7 && s[4] == '-':
		yearStr, monthStr = s[:4], s[5:]
	case len(s) == 6:
		yearStr, monthStr = s[:4], s[4:]
	default:
		return Issue{}, fmt.Errorf("invalid issue %q: expected YYYY-MM or YYYYMM", s)
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Issue{}, fmt.Errorf("invalid issue year %q: %w", s, err)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return Issue{}, fmt.Errorf("invalid issue month %q", s)
	}

	return Issue{Year: year, Month: time.Month(month)}, nil
}

// String formats the issue as YYYY-MM
func (i Issue) String() string {
	return fmt.Sprintf("%04d-%02d", i.Year, int(i.Month))
}

// Before reports whether i was published before other
func (i Issue) Before(other Issue) bool {
	if i.Year != other.Year {
		return i.Year < other.Year
	}
	return i.Month < other.Month
}

// After reports whether i was published after other
func (i Issue) After(other Issue) bool {
	return other.Before(i)
}

// Next returns the following month's issue
func (i Issue) Next() Issue {
	if i.Month == time.December {
		return Issue{Year: i.Year + 1, Month: time.January}
	}
	return Issue{Year: i.Year, Month: i.Month + 1}
}

// Prev returns the previous month's issue
func (i Issue) Prev() Issue {
	if i.Month == time.January {
		return Issue{Year: i.Year - 1, Month: time.December}
	}
	return Issue{Year: i.Year, Month: i.Month - 1}
}

// FileName returns the per-issue file name used by the cache and the
// writers, e.g. "01_January.csv"
func (i Issue) FileName(ext string) string {
	return fmt.Sprintf("%02d_%s%s", int(i.Month), i.Month, ext)
}

// FirstDay returns midnight UTC on the first day of the issue month
func (i Issue) FirstDay() time.Time {
	return time.Date(i.Year, i.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Range returns every issue from start to end inclusive.
// It returns nil if end is before start.
func Range(start, end Issue) []Issue {
	var issues []Issue
	for cur := start; !cur.After(end); cur = cur.Next() {
		issues = append(issues, cur)
	}
	return issues
}

// CountryCategory is a chargeability column of the bulletin.
// The value is the label used in exported data.
type CountryCategory string

const (
	India                       CountryCategory = "India"
	China                       CountryCategory = "China"
	Mexico                      CountryCategory = "Mexico"
	Philippines                 CountryCategory = "Philippines"
	ElSalvadorGuatemalaHonduras CountryCategory = "El Salvador/Guatemala/Honduras"
	Vietnam                     CountryCategory = "Vietnam"
	DominicanRepublic           CountryCategory = "Dominican Republic"
	RestOfWorld                 CountryCategory = "Rest-of-World"
)

// VisaCategory is a preference category row of the bulletin
type VisaCategory string

// Employment-based categories
const (
	EB1                       VisaCategory = "EB1"
	EB2                       VisaCategory = "EB2"
	EB3                       VisaCategory = "EB3"
	EBOther                   VisaCategory = "EB-Other"
	EBScheduleA               VisaCategory = "EB-Schedule-A"
	EB4                       VisaCategory = "EB4"
	EB5                       VisaCategory = "EB5"
	EBReligious               VisaCategory = "EB-Religious"
	EBIraqiAfghaniTranslators VisaCategory = "EB-Iraqi-Afghani-Translators"
	EB5Unreserved             VisaCategory = "EB5-Unreserved"
	EB5Rural                  VisaCategory = "EB5-Rural"
	EB5HighUnemployment       VisaCategory = "EB5-High-Unemployment"
	EB5Infrastructure         VisaCategory = "EB5-Infrastructure"
	EB5TargetedEmployment     VisaCategory = "EB5-Targeted-Employment"
	EB5NonRegionalCenter      VisaCategory = "EB5-Non-Regional-Center"
	EB5RegionalCenter         VisaCategory = "EB5-Regional-Center"
	EB5PilotPrograms          VisaCategory = "EB5-Pilot-Programs"
)

// Family-sponsored categories
const (
	F1  VisaCategory = "F1"
	F2A VisaCategory = "F2A"
	F2B VisaCategory = "F2B"
	F3  VisaCategory = "F3"
	F4  VisaCategory = "F4"
)

// Family reports whether c is a family-sponsored category
func (c VisaCategory) Family() bool {
	switch c {
	case F1, F2A, F2B, F3, F4:
		return true
	}
	return false
}

// DataEntry is one cell of a bulletin table: the cut-off date for a
// (country, category) pair in a given issue.
type DataEntry struct {
	Year        int             `json:"year"`
	Month       time.Month      `json:"month"`
	Country     CountryCategory `json:"country"`
	Category    VisaCategory    `json:"category"`
	FinalAction bool            `json:"is_final_action_date"`
	// Date is nil when the category is unavailable
	Date *time.Time `json:"date"`
}

// Issue returns the issue the entry was extracted from
func (e DataEntry) Issue() Issue {
	return Issue{Year: e.Year, Month: e.Month}
}

// Key identifies the cell within its issue
func (e DataEntry) Key() EntryKey {
	return EntryKey{Country: e.Country, Category: e.Category, FinalAction: e.FinalAction}
}

// EntryKey is the (country, category, date kind) triple that must be unique per issue
type EntryKey struct {
	Country     CountryCategory
	Category    VisaCategory
	FinalAction bool
}

// String formats the key for error messages
func (k EntryKey) String() string {
	kind := "filing"
	if k.FinalAction {
		kind = "final action"
	}
	return fmt.Sprintf("%s/%s (%s)", k.Country, k.Category, kind)
}
