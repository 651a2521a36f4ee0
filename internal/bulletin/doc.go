// Package bulletin holds the visa bulletin data model and the rules used to
// interpret a single monthly bulletin page.
//
// A bulletin issue is identified by its year and month. The vocabulary the
// State Department uses for countries and visa categories has drifted over the
// years, so every issue is interpreted against the Ruleset of its era: the set
// of country columns and category rows that were in use when it was published.
// Matching is exact (or an unambiguous prefix for EB-5 sub-categories); an
// unknown label is reported as ErrUnrecognizedCategory instead of being guessed.
//
// Dates in the bulletin use a compact DDMONYY token, or the codes "C" (current)
// and "U" (unavailable). ParseDate decodes them relative to the issue month.
package bulletin
