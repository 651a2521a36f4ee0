package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"
	"github.com/pfrederiksen/visa-bulletin/internal/logger"
)

const (
	BaseURL   = "https://travel.state.gov/content/travel/en/legal/visa-law0/visa-bulletin"
	UserAgent = "visa-bulletin-cli/1.0 (github.com/pfrederiksen/visa-bulletin)"
	Timeout   = 30 * time.Second

	// MaxPageSize bounds a single download
	MaxPageSize = 10 << 20
)

// Months published as "visa-bulletin-<month>-<year>.html" without "for-"
var shortNameIssues = map[bulletin.Issue]bool{
	{Year: 2009, Month: time.March}:     true,
	{Year: 2009, Month: time.September}: true,
	{Year: 2009, Month: time.October}:   true,
	{Year: 2009, Month: time.November}:  true,
	{Year: 2012, Month: time.October}:   true,
}

// Scraper handles fetching bulletin pages
type Scraper struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithBaseURL points the scraper at a different archive root
func WithBaseURL(url string) Option {
	return func(s *Scraper) {
		s.baseURL = strings.TrimRight(url, "/")
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		s.userAgent = ua
	}
}

// WithTimeout overrides the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.client.Timeout = d
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL:   BaseURL,
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FiscalYear returns the U.S. government fiscal year an issue belongs to
func FiscalYear(issue bulletin.Issue) int {
	if issue.Month >= time.October {
		return issue.Year + 1
	}
	return issue.Year
}

// URL returns the page address of an issue on the default archive
func URL(issue bulletin.Issue) string {
	return pageURL(BaseURL, issue)
}

// URL returns the page address of an issue
func (s *Scraper) URL(issue bulletin.Issue) string {
	return pageURL(s.baseURL, issue)
}

func pageURL(base string, issue bulletin.Issue) string {
	prefix := "visa-bulletin-for-"
	if shortNameIssues[issue] {
		prefix = "visa-bulletin-"
	}
	return fmt.Sprintf("%s/%d/%s%s-%d.html",
		base, FiscalYear(issue), prefix, strings.ToLower(issue.Month.String()), issue.Year)
}

// Fetch downloads the page of one issue
func (s *Scraper) Fetch(ctx context.Context, issue bulletin.Issue) ([]byte, error) {
	start := time.Now()
	url := s.URL(issue)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status code: %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if len(body) > MaxPageSize {
		return nil, fmt.Errorf("fetching %s: page larger than %d bytes", url, MaxPageSize)
	}

	logger.RecordTiming("fetch.page", time.Since(start))
	logger.Debug("Fetched bulletin", logger.Fields{
		"issue": issue.String(),
		"url":   url,
		"bytes": len(body),
	})
	return body, nil
}
