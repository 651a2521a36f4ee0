package bulletin

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	issue := Issue{Year: 2016, Month: time.March}

	tests := []struct {
		name    string
		cell    string
		want    string // YYYY-MM-DD, empty for nil
		wantErr bool
	}{
		{name: "compact token", cell: "01JAN15", want: "2015-01-01"},
		{name: "lowercase token", cell: "15aug08", want: "2008-08-15"},
		{name: "surrounding whitespace", cell: " \n22APR01\u00a0", want: "2001-04-22"},
		{name: "pivot year 80 is 1980", cell: "01JAN80", want: "1980-01-01"},
		{name: "pivot year 79 is 2079", cell: "01JAN79", want: "2079-01-01"},
		{name: "year 99", cell: "31DEC99", want: "1999-12-31"},
		{name: "year 00", cell: "01MAR00", want: "2000-03-01"},
		{name: "leap day", cell: "29FEB12", want: "2012-02-29"},
		{name: "known typo 2OCT91", cell: "2OCT91", want: "1991-10-02"},
		{name: "known typo 8MAY97", cell: "8MAY97", want: "1997-05-08"},
		{name: "current uppercase", cell: "C", want: "2016-03-01"},
		{name: "current lowercase", cell: "c", want: "2016-03-01"},
		{name: "unavailable", cell: "U", want: ""},
		{name: "unavailable lowercase", cell: "u", want: ""},
		{name: "empty cell", cell: "", want: ""},
		{name: "blank cell", cell: " \u00a0 ", want: ""},
		{name: "unknown month", cell: "01JNA15", wantErr: true},
		{name: "day out of range", cell: "31FEB15", wantErr: true},
		{name: "day zero", cell: "00JAN15", wantErr: true},
		{name: "four digit year", cell: "01JAN2015", wantErr: true},
		{name: "missing leading zero", cell: "1JAN15", wantErr: true},
		{name: "slash date", cell: "01/01/15", wantErr: true},
		{name: "free text", cell: "current", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.cell, issue)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) = %v, want error", tt.cell, got)
				}
				if !errors.Is(err, ErrMalformedDate) {
					t.Errorf("ParseDate(%q) error = %v, want ErrMalformedDate", tt.cell, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.cell, err)
			}

			if tt.want == "" {
				if got != nil {
					t.Errorf("ParseDate(%q) = %v, want nil", tt.cell, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseDate(%q) = nil, want %s", tt.cell, tt.want)
			}
			if s := got.Format("2006-01-02"); s != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.cell, s, tt.want)
			}
		})
	}
}

func TestParseDate_RoundTrip(t *testing.T) {
	issue := Issue{Year: 2020, Month: time.January}

	for year := 0; year < 100; year++ {
		for month := time.January; month <= time.December; month++ {
			want := time.Date(1900+year, month, 9, 0, 0, 0, 0, time.UTC)
			if year < centuryPivot {
				want = want.AddDate(100, 0, 0)
			}

			token := FormatDate(want)
			got, err := ParseDate(token, issue)
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", token, err)
			}
			if got == nil || !got.Equal(want) {
				t.Fatalf("ParseDate(%q) = %v, want %v", token, got, want)
			}
		}
	}
}

func TestParseDate_CurrentFollowsIssue(t *testing.T) {
	for _, issue := range []Issue{{2001, time.December}, {2015, time.October}, {2099, time.June}} {
		got, err := ParseDate("C", issue)
		if err != nil {
			t.Fatalf("ParseDate(C, %s) unexpected error: %v", issue, err)
		}
		if !got.Equal(issue.FirstDay()) {
			t.Errorf("ParseDate(C, %s) = %v, want %v", issue, got, issue.FirstDay())
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2079, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "01JAN79" {
		t.Errorf("FormatDate() = %q, want %q", got, "01JAN79")
	}
}
