package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"
)

// Format specifies the output format
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// Formats lists the supported formats
var Formats = []Format{FormatCSV, FormatJSON, FormatXLSX, FormatSQLite}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format: %q (want csv, json, xlsx or sqlite)", s)
}

// Ext returns the file extension of the format
func (f Format) Ext() string {
	if f == FormatSQLite {
		return ".db"
	}
	return "." + string(f)
}

// Header is the column order shared by every tabular output
var Header = []string{"year", "month", "country", "category", "final_action_date", "filing_date"}

// Row pairs the final action and filing dates of one category
type Row struct {
	Year            int
	Month           time.Month
	Country         bulletin.CountryCategory
	Category        bulletin.VisaCategory
	FinalActionDate *time.Time
	FilingDate      *time.Time
}

// Issue returns the issue the row belongs to
func (r Row) Issue() bulletin.Issue {
	return bulletin.Issue{Year: r.Year, Month: r.Month}
}

// Record returns the row as strings in Header order
func (r Row) Record() []string {
	return []string{
		fmt.Sprintf("%d", r.Year),
		fmt.Sprintf("%d", int(r.Month)),
		string(r.Country),
		string(r.Category),
		isoDate(r.FinalActionDate),
		isoDate(r.FilingDate),
	}
}

// isoDate formats a date as YYYY-MM-DD, or "" when unavailable
func isoDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(time.DateOnly)
}

type rowKey struct {
	year     int
	month    time.Month
	country  bulletin.CountryCategory
	category bulletin.VisaCategory
}

// Aggregate folds entries into rows keyed by (year, month, country, category).
// Rows keep the order in which their key was first seen.
func Aggregate(entries []bulletin.DataEntry) []Row {
	index := make(map[rowKey]int)
	var rows []Row

	for _, e := range entries {
		key := rowKey{e.Year, e.Month, e.Country, e.Category}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, Row{
				Year:     e.Year,
				Month:    e.Month,
				Country:  e.Country,
				Category: e.Category,
			})
		}

		if e.FinalAction {
			rows[i].FinalActionDate = e.Date
		} else {
			rows[i].FilingDate = e.Date
		}
	}

	return rows
}

// Encode writes rows to out in a file format. FormatSQLite has no stream
// encoding and is rejected.
func Encode(out io.Writer, format Format, rows []Row) error {
	switch format {
	case FormatCSV:
		return WriteCSV(out, rows)
	case FormatJSON:
		return WriteJSON(out, rows)
	case FormatXLSX:
		return WriteXLSX(out, rows)
	default:
		return fmt.Errorf("format %s cannot be streamed", format)
	}
}
