package bulletin

import (
	"testing"
	"time"
)

func TestParseIssue(t *testing.T) {
	tests := []struct {
		input   string
		want    Issue
		wantErr bool
	}{
		{"2015-01", Issue{2015, time.January}, false},
		{"201512", Issue{2015, time.December}, false},
		{" 2001-12 ", Issue{2001, time.December}, false},
		{"2015-13", Issue{}, true},
		{"2015-00", Issue{}, true},
		{"2015/01", Issue{}, true},
		{"15-01", Issue{}, true},
		{"abcd-01", Issue{}, true},
		{"", Issue{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIssue(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIssue(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseIssue(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIssue_NextPrev(t *testing.T) {
	dec := Issue{2015, time.December}
	if got := dec.Next(); got != (Issue{2016, time.January}) {
		t.Errorf("Next() = %s, want 2016-01", got)
	}
	if got := dec.Next().Prev(); got != dec {
		t.Errorf("Next().Prev() = %s, want %s", got, dec)
	}
	if got := (Issue{2016, time.May}).Prev(); got != (Issue{2016, time.April}) {
		t.Errorf("Prev() = %s, want 2016-04", got)
	}
}

func TestIssue_Ordering(t *testing.T) {
	a := Issue{2015, time.December}
	b := Issue{2016, time.January}

	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Errorf("Before() ordering wrong for %s and %s", a, b)
	}
	if !b.After(a) || a.After(b) {
		t.Errorf("After() ordering wrong for %s and %s", a, b)
	}
}

func TestRange(t *testing.T) {
	got := Range(Issue{2015, time.November}, Issue{2016, time.February})
	want := []Issue{{2015, time.November}, {2015, time.December}, {2016, time.January}, {2016, time.February}}

	if len(got) != len(want) {
		t.Fatalf("Range() returned %d issues, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Range()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if got := Range(Issue{2016, time.March}, Issue{2016, time.February}); got != nil {
		t.Errorf("Range() with end before start = %v, want nil", got)
	}
}

func TestIssue_FileName(t *testing.T) {
	if got := (Issue{2016, time.March}).FileName(".csv"); got != "03_March.csv" {
		t.Errorf("FileName() = %q, want 03_March.csv", got)
	}
	if got := (Issue{2001, time.December}).FileName(".html"); got != "12_December.html" {
		t.Errorf("FileName() = %q, want 12_December.html", got)
	}
}

func TestIssueOf(t *testing.T) {
	got := IssueOf(time.Date(2024, time.July, 18, 10, 0, 0, 0, time.UTC))
	if got.String() != "2024-07" {
		t.Errorf("IssueOf() = %s, want 2024-07", got)
	}
}

func TestVisaCategory_Family(t *testing.T) {
	for _, c := range []VisaCategory{F1, F2A, F2B, F3, F4} {
		if !c.Family() {
			t.Errorf("%s.Family() = false, want true", c)
		}
	}
	for _, c := range []VisaCategory{EB1, EB5Rural, EBOther} {
		if c.Family() {
			t.Errorf("%s.Family() = true, want false", c)
		}
	}
}

func TestEntryKey_String(t *testing.T) {
	k := EntryKey{Country: India, Category: EB2, FinalAction: true}
	if got := k.String(); got != "India/EB2 (final action)" {
		t.Errorf("String() = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  India ", "india"},
		{"CHINA-\n  mainland\tborn", "china- mainland born"},
		{"El\u00a0Salvador", "el salvador"},
		{"Philippines\u00c2\u00a0", "philippines"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLayoutFor(t *testing.T) {
	tests := []struct {
		name           string
		issue          Issue
		firstCellBlank bool
		want           Layout
	}{
		{"2002 split header", Issue{2002, time.May}, false, Layout{HeaderRows: 2}},
		{"last split header issue", Issue{2003, time.September}, false, Layout{HeaderRows: 2}},
		{"first single header issue", Issue{2003, time.October}, false, Layout{HeaderRows: 1}},
		{"stray leading row", Issue{2004, time.March}, false, Layout{LeadingRows: 1, HeaderRows: 1}},
		{"after stray rows", Issue{2004, time.May}, false, Layout{HeaderRows: 1}},
		{"november 2005", Issue{2005, time.November}, false, Layout{HeaderRows: 2}},
		{"february 2007 blank first cell", Issue{2007, time.February}, true, Layout{HeaderRows: 2}},
		{"february 2007 labelled", Issue{2007, time.February}, false, Layout{HeaderRows: 1}},
		{"modern", Issue{2020, time.February}, true, Layout{HeaderRows: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LayoutFor(tt.issue, tt.firstCellBlank); got != tt.want {
				t.Errorf("LayoutFor(%s, %v) = %+v, want %+v", tt.issue, tt.firstCellBlank, got, tt.want)
			}
		})
	}
}
