// Package filter narrows extracted rows down to selected countries and
// visa categories.
//
// Example usage:
//
//	f, err := filter.Parse("india,china", "eb2,eb3")
//	if err != nil {
//		return err
//	}
//	rows = f.Apply(rows)
package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"
	"github.com/pfrederiksen/visa-bulletin/internal/export"
)

// Filter represents row filtering criteria
type Filter struct {
	Countries  []bulletin.CountryCategory
	Categories []bulletin.VisaCategory
}

// IsEmpty checks if the filter has any active criteria.
// An empty filter matches every row.
func (f *Filter) IsEmpty() bool {
	return len(f.Countries) == 0 && len(f.Categories) == 0
}

// Matches checks if a row matches all active criteria
func (f *Filter) Matches(r export.Row) bool {
	if len(f.Countries) > 0 && !contains(f.Countries, r.Country) {
		return false
	}
	if len(f.Categories) > 0 && !contains(f.Categories, r.Category) {
		return false
	}
	return true
}

// Apply returns the matching rows. An empty filter returns rows unchanged.
func (f *Filter) Apply(rows []export.Row) []export.Row {
	if f.IsEmpty() {
		return rows
	}

	var filtered []export.Row
	for _, r := range rows {
		if f.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if len(f.Countries) > 0 {
		parts = append(parts, fmt.Sprintf("Countries: %s", join(f.Countries)))
	}
	if len(f.Categories) > 0 {
		parts = append(parts, fmt.Sprintf("Categories: %s", join(f.Categories)))
	}
	return strings.Join(parts, " | ")
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func join[T ~string](list []T) string {
	s := make([]string, len(list))
	for i, v := range list {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}
