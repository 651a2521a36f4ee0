package bulletin

import (
	"strconv"
	"strings"
	"time"
)

var monthAbbrev = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// Tokens published without the leading zero on the day
var dateFixups = map[string]string{
	"2oct91": "02oct91",
	"8may97": "08may97",
}

// centuryPivot splits two-digit years: 80-99 are 19xx, 00-79 are 20xx
const centuryPivot = 80

// ParseDate decodes a bulletin date cell.
//
//   - "C" (current) is the first day of the issue month
//   - "U" (unavailable) or an empty cell is nil
//   - anything else must be a DDMONYY token such as "01JAN15"
func ParseDate(cell string, issue Issue) (*time.Time, error) {
	token := strings.ToLower(strings.TrimSpace(spaceRun.ReplaceAllString(cell, " ")))

	switch token {
	case "c":
		d := issue.FirstDay()
		return &d, nil
	case "u", "":
		return nil, nil
	}

	if fixed, ok := dateFixups[token]; ok {
		token = fixed
	}

	if len(token) != 7 || !isDigits(token[0:2]) || !isDigits(token[5:7]) {
		return nil, malformedDate(cell, "expected DDMONYY, C or U")
	}

	month, ok := monthAbbrev[token[2:5]]
	if !ok {
		return nil, malformedDate(cell, "unknown month %q", token[2:5])
	}

	day, _ := strconv.Atoi(token[0:2])
	year, _ := strconv.Atoi(token[5:7])
	if year >= centuryPivot {
		year += 1900
	} else {
		year += 2000
	}

	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if day == 0 || d.Month() != month {
		return nil, malformedDate(cell, "day %d out of range for %s %d", day, month, year)
	}

	return &d, nil
}

// FormatDate renders a date back into the bulletin's DDMONYY form
func FormatDate(d time.Time) string {
	return strings.ToUpper(d.Format("02Jan06"))
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
