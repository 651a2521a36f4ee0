package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"
	"github.com/pfrederiksen/visa-bulletin/internal/export"
	"github.com/pfrederiksen/visa-bulletin/internal/processor"
)

const fixturePath = "../../testdata/fixtures/visa_bulletin_2016_01.html"

func TestResolveRange(t *testing.T) {
	early := time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)
	late := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	december := time.Date(2024, time.December, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     string
		end       string
		now       time.Time
		wantStart bulletin.Issue
		wantEnd   bulletin.Issue
		wantErr   bool
	}{
		{"defaults before the 15th", "", "", early, bulletin.Issue{Year: 2024, Month: time.February}, bulletin.Issue{Year: 2024, Month: time.March}, false},
		{"defaults on the 15th", "", "", late, bulletin.Issue{Year: 2024, Month: time.March}, bulletin.Issue{Year: 2024, Month: time.April}, false},
		{"defaults across year end", "", "", december, bulletin.Issue{Year: 2024, Month: time.December}, bulletin.Issue{Year: 2025, Month: time.January}, false},
		{"explicit range", "2015-10", "201601", early, bulletin.Issue{Year: 2015, Month: time.October}, bulletin.Issue{Year: 2016, Month: time.January}, false},
		{"explicit end only", "", "2016-01", early, bulletin.Issue{Year: 2015, Month: time.December}, bulletin.Issue{Year: 2016, Month: time.January}, false},
		{"single month", "2016-01", "2016-01", early, bulletin.Issue{Year: 2016, Month: time.January}, bulletin.Issue{Year: 2016, Month: time.January}, false},
		{"first issue", "2001-12", "2002-01", early, bulletin.FirstIssue, bulletin.Issue{Year: 2002, Month: time.January}, false},
		{"before first issue", "2001-11", "2002-01", early, bulletin.Issue{}, bulletin.Issue{}, true},
		{"start after end", "2016-02", "2016-01", early, bulletin.Issue{}, bulletin.Issue{}, true},
		{"bad start", "January", "2016-01", early, bulletin.Issue{}, bulletin.Issue{}, true},
		{"bad end", "", "2016-13", early, bulletin.Issue{}, bulletin.Issue{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ResolveRange(tt.start, tt.end, tt.now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("ResolveRange() = %s..%s, want %s..%s", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{ErrSkipped, ExitSkipped},
		{fmt.Errorf("run: %w", ErrSkipped), ExitSkipped},
		{errors.New("boom"), ExitError},
	}

	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestSortRows(t *testing.T) {
	rows := func() []export.Row {
		return []export.Row{
			{Country: bulletin.RestOfWorld, Category: bulletin.EB2},
			{Country: bulletin.India, Category: bulletin.EB3},
			{Country: bulletin.China, Category: bulletin.EB2},
		}
	}

	tests := []struct {
		order SortOrder
		want  []bulletin.CountryCategory
	}{
		{SortByDocument, []bulletin.CountryCategory{bulletin.RestOfWorld, bulletin.India, bulletin.China}},
		{SortByCountry, []bulletin.CountryCategory{bulletin.China, bulletin.India, bulletin.RestOfWorld}},
		{SortByCategory, []bulletin.CountryCategory{bulletin.China, bulletin.RestOfWorld, bulletin.India}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			got := rows()
			sortRows(got, tt.order)
			for i, r := range got {
				if r.Country != tt.want[i] {
					t.Errorf("row %d country = %s, want %s", i, r.Country, tt.want[i])
				}
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	if _, err := ParseSortOrder("Country"); err != nil {
		t.Errorf("ParseSortOrder(Country) error = %v", err)
	}
	if _, err := ParseSortOrder("date"); err == nil {
		t.Error("ParseSortOrder(date) expected error")
	}
}

func TestWriteSummary(t *testing.T) {
	s := &Summary{
		Start:   bulletin.Issue{Year: 2016, Month: time.January},
		End:     bulletin.Issue{Year: 2016, Month: time.February},
		Format:  export.FormatCSV,
		Written: []string{"data/2016/01_January.csv"},
		Entries: 130,
		Skipped: []processor.Result{{
			Issue: bulletin.Issue{Year: 2016, Month: time.February},
			Err:   errors.New("page not cached: 2016-02"),
		}},
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, s, true); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Processed 2 issue(s) from 2016-01 to 2016-02",
		"wrote data/2016/01_January.csv",
		"Wrote 1 issue(s), 130 entries as csv",
		"Skipped 1 issue(s)",
		"2016-02: page not cached: 2016-02",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

// runCmd executes the root command with args and returns stdout
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func seedCache(t *testing.T, dir string, issue bulletin.Issue) {
	t.Helper()
	page, err := os.ReadFile(fixturePath)
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	yearDir := filepath.Join(dir, fmt.Sprintf("%04d", issue.Year))
	if err := os.MkdirAll(yearDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(yearDir, issue.FileName(".html")), page, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRootCmd_Offline(t *testing.T) {
	cacheDir := t.TempDir()
	dataDir := t.TempDir()
	seedCache(t, cacheDir, bulletin.Issue{Year: 2016, Month: time.January})

	out, err := runCmd(t,
		"--cache-dir", cacheDir,
		"--data-dir", dataDir,
		"--start", "2016-01",
		"--end", "2016-01",
		"--offline",
	)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Wrote 1 issue(s), 130 entries as csv") {
		t.Errorf("unexpected summary:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(dataDir, "2016", "01_January.csv"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "year,month,country,category,final_action_date,filing_date" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 66 {
		t.Errorf("got %d lines, want 66 (header + 65 rows)", len(lines))
	}
}

func TestRootCmd_OfflineSkipFailed(t *testing.T) {
	cacheDir := t.TempDir()
	dataDir := t.TempDir()
	seedCache(t, cacheDir, bulletin.Issue{Year: 2016, Month: time.January})

	_, err := runCmd(t,
		"--cache-dir", cacheDir,
		"--data-dir", dataDir,
		"--start", "2016-01",
		"--end", "2016-02",
		"--offline",
		"--skip-failed",
		"--format", "json",
	)
	if !errors.Is(err, ErrSkipped) {
		t.Fatalf("Execute() error = %v, want ErrSkipped", err)
	}
	if ExitCode(err) != ExitSkipped {
		t.Errorf("ExitCode() = %d, want %d", ExitCode(err), ExitSkipped)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "2016", "01_January.json")); err != nil {
		t.Errorf("January output missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "2016", "02_February.json")); !os.IsNotExist(err) {
		t.Errorf("February output should not exist, stat error = %v", err)
	}
}

func TestRootCmd_OfflineMissingPage(t *testing.T) {
	_, err := runCmd(t,
		"--cache-dir", t.TempDir(),
		"--data-dir", t.TempDir(),
		"--start", "2016-01",
		"--end", "2016-01",
		"--offline",
	)
	if err == nil || ExitCode(err) != ExitError {
		t.Fatalf("Execute() error = %v, want a hard failure", err)
	}
}

func TestRootCmd_InvalidFormat(t *testing.T) {
	_, err := runCmd(t, "--format", "pdf", "--offline")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParseCmd(t *testing.T) {
	out, err := runCmd(t, "parse", fixturePath, "--issue", "2016-01", "--format", "csv", "--sort", "country")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 66 {
		t.Fatalf("got %d lines, want 66", len(lines))
	}
	if !strings.HasPrefix(lines[1], "2016,1,China,") {
		t.Errorf("first row = %q, want China first when sorted by country", lines[1])
	}
}

func TestParseCmd_Filtered(t *testing.T) {
	out, err := runCmd(t, "parse", fixturePath, "--issue", "201601", "--format", "csv",
		"--country", "india", "--category", "eb2,family")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header + EB2 + five family rows
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, "2016,1,India,") {
			t.Errorf("unexpected row %q", line)
		}
	}
}

func TestParseCmd_UnknownCountry(t *testing.T) {
	if _, err := runCmd(t, "parse", fixturePath, "--issue", "2016-01", "--country", "atlantis"); err == nil {
		t.Fatal("expected error for unknown country")
	}
}

func TestParseCmd_RequiresIssue(t *testing.T) {
	if _, err := runCmd(t, "parse", fixturePath); err == nil {
		t.Fatal("expected error without --issue")
	}
}
