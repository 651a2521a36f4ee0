package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/visa-bulletin/internal/export"
)

// SortOrder represents the available row orders of the parse command
type SortOrder string

const (
	SortByDocument SortOrder = "document"
	SortByCountry  SortOrder = "country"
	SortByCategory SortOrder = "category"
)

// ParseSortOrder validates a --sort value
func ParseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortByDocument, SortByCountry, SortByCategory:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'document', 'country' or 'category')", s)
	}
}

// sortRows sorts rows in place. SortByDocument keeps the extraction order.
func sortRows(rows []export.Row, order SortOrder) {
	switch order {
	case SortByCountry:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Country != rows[j].Country {
				return rows[i].Country < rows[j].Country
			}
			return rows[i].Category < rows[j].Category
		})
	case SortByCategory:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Category != rows[j].Category {
				return rows[i].Category < rows[j].Category
			}
			// If categories are equal, sort by country
			return rows[i].Country < rows[j].Country
		})
	}
}
