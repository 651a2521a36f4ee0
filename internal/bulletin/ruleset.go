package bulletin

import (
	"fmt"
	"sort"
	"strings"
)

// Section is the family of a bulletin table, read from its top-left header cell
type Section int

const (
	SectionFamily Section = iota + 1
	SectionEmployment
)

func (s Section) String() string {
	switch s {
	case SectionFamily:
		return "family-sponsored"
	case SectionEmployment:
		return "employment-based"
	default:
		return "unknown"
	}
}

// Hyphenation and spacing of the section header changes from release to release.
var sectionLabels = map[string]Section{
	"family":             SectionFamily,
	"family- sponsored":  SectionFamily,
	"family-sponsored":   SectionFamily,
	"family sponsored":   SectionFamily,
	"employment- based":  SectionEmployment,
	"employment-based":   SectionEmployment,
	"employment - based": SectionEmployment,
	"employment -based":  SectionEmployment,
	"employment based":   SectionEmployment,
}

// ParseSection maps a table's top-left header cell to its Section
func ParseSection(raw string) (Section, error) {
	if s, ok := sectionLabels[Normalize(raw)]; ok {
		return s, nil
	}
	return 0, unrecognized(raw, "not a family-sponsored or employment-based section header")
}

type prefixRule struct {
	prefix   string
	category VisaCategory
}

// Ruleset is the vocabulary in effect for one era of the bulletin. A Ruleset
// never changes after construction and is safe to share between goroutines.
type Ruleset struct {
	name  string
	since Issue

	countries          map[string]CountryCategory
	family             map[string]VisaCategory
	employment         map[string]VisaCategory
	employmentPrefixes []prefixRule
}

// Name returns the era name
func (r *Ruleset) Name() string {
	return r.name
}

// Since returns the first issue the ruleset applies to
func (r *Ruleset) Since() Issue {
	return r.since
}

// Country resolves a country column header. Only exact matches against the
// era's literal variants are accepted.
func (r *Ruleset) Country(raw string) (CountryCategory, error) {
	if c, ok := r.countries[Normalize(raw)]; ok {
		return c, nil
	}
	return "", unrecognized(raw, "no country matches in the %s ruleset", r.name)
}

// Category resolves a row label within the table section named by sectionRaw.
func (r *Ruleset) Category(rowRaw, sectionRaw string) (VisaCategory, error) {
	section, err := ParseSection(sectionRaw)
	if err != nil {
		return "", err
	}

	label := Normalize(rowRaw)
	switch section {
	case SectionFamily:
		if c, ok := r.family[label]; ok {
			return c, nil
		}
	case SectionEmployment:
		if c, ok := r.employment[label]; ok {
			return c, nil
		}
		// EB-5 rows carry trailing explanations, e.g. "5th Set Aside: Rural (20%)"
		for _, rule := range r.employmentPrefixes {
			if strings.HasPrefix(label, rule.prefix) {
				return rule.category, nil
			}
		}
	}

	return "", unrecognized(rowRaw, "no %s category matches in the %s ruleset", section, r.name)
}

// Countries lists the country columns the era recognizes
func (r *Ruleset) Countries() []CountryCategory {
	seen := make(map[CountryCategory]bool)
	for _, c := range r.countries {
		seen[c] = true
	}
	out := make([]CountryCategory, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Categories lists the visa categories the era recognizes
func (r *Ruleset) Categories() []VisaCategory {
	seen := make(map[VisaCategory]bool)
	for _, c := range r.family {
		seen[c] = true
	}
	for _, c := range r.employment {
		seen[c] = true
	}
	for _, rule := range r.employmentPrefixes {
		seen[rule.category] = true
	}
	out := make([]VisaCategory, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RulesetFor returns the ruleset in effect for an issue
func RulesetFor(issue Issue) (*Ruleset, error) {
	if issue.Before(FirstIssue) {
		return nil, fmt.Errorf("%w: %s is before the first bulletin %s", ErrUnsupportedIssue, issue, FirstIssue)
	}
	selected := rulesets[0]
	for _, r := range rulesets[1:] {
		if issue.Before(r.since) {
			break
		}
		selected = r
	}
	return selected, nil
}

// Rulesets returns every era's ruleset, oldest first
func Rulesets() []*Ruleset {
	out := make([]*Ruleset, len(rulesets))
	copy(out, rulesets)
	return out
}
