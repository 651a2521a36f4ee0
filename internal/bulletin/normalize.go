package bulletin

import (
	"regexp"
	"strings"
)

// Runs of spaces, line breaks, non-breaking spaces and the "Â" left behind when
// a UTF-8 NBSP is decoded as Latin-1.
var spaceRun = regexp.MustCompile(`[\s\x{00a0}\x{00c2}]+`)

// Normalize folds a label to the form used by the lookup tables: whitespace
// collapsed to single spaces, trimmed and lowercased.
func Normalize(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}
