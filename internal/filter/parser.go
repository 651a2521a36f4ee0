package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"
)

// Parse builds a filter from comma-separated country and category lists.
// Either list may be empty.
func Parse(countries, categories string) (*Filter, error) {
	f := &Filter{}

	for _, name := range splitList(countries) {
		c, err := ParseCountry(name)
		if err != nil {
			return nil, err
		}
		if !contains(f.Countries, c) {
			f.Countries = append(f.Countries, c)
		}
	}

	for _, name := range splitList(categories) {
		cats, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		for _, c := range cats {
			if !contains(f.Categories, c) {
				f.Categories = append(f.Categories, c)
			}
		}
	}

	return f, nil
}

// ParseCountry matches an exported country label, ignoring case.
// "row" is accepted for Rest-of-World.
func ParseCountry(name string) (bulletin.CountryCategory, error) {
	if strings.EqualFold(name, "row") {
		return bulletin.RestOfWorld, nil
	}
	for _, c := range latest().Countries() {
		if strings.EqualFold(string(c), name) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown country: %s", name)
}

// ParseCategory matches an exported category label, ignoring case.
// "family" and "employment" select every category of that section.
func ParseCategory(name string) ([]bulletin.VisaCategory, error) {
	all := latest().Categories()

	if section, ok := parseSection(name); ok {
		var out []bulletin.VisaCategory
		for _, c := range all {
			if c.Family() == (section == bulletin.SectionFamily) {
				out = append(out, c)
			}
		}
		return out, nil
	}

	for _, c := range all {
		if strings.EqualFold(string(c), name) {
			return []bulletin.VisaCategory{c}, nil
		}
	}
	return nil, fmt.Errorf("unknown category: %s", name)
}

func parseSection(name string) (bulletin.Section, bool) {
	if strings.EqualFold(name, "employment") {
		return bulletin.SectionEmployment, true
	}
	section, err := bulletin.ParseSection(name)
	return section, err == nil
}

// latest is the ruleset of the newest era, which knows every label
func latest() *bulletin.Ruleset {
	rs := bulletin.Rulesets()
	return rs[len(rs)-1]
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
