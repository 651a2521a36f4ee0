package processor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"
	"github.com/pfrederiksen/visa-bulletin/internal/extractor"
	"github.com/pfrederiksen/visa-bulletin/internal/logger"
	"github.com/pfrederiksen/visa-bulletin/internal/storage"
)

// Cache is the page store the processor reads from and fills
type Cache interface {
	Ensure(ctx context.Context, issue bulletin.Issue, fetcher storage.Fetcher) (bool, error)
	Load(issue bulletin.Issue) ([]byte, error)
}

// Options tunes a run
type Options struct {
	// Delay is the pause after each page actually downloaded
	Delay time.Duration
	// Concurrency bounds the number of pages parsed at once
	Concurrency int
	// SkipFailed records failing issues instead of aborting the run
	SkipFailed bool
	// Progress receives the download progress bar; nil disables it
	Progress io.Writer
}

// Result is the outcome of one issue
type Result struct {
	Issue   bulletin.Issue
	Entries []bulletin.DataEntry
	// Err is set for issues skipped under SkipFailed
	Err error
}

// Processor downloads and extracts bulletin issues
type Processor struct {
	cache   Cache
	fetcher storage.Fetcher
	opts    Options
}

// New creates a Processor. fetcher may be nil for offline runs, in which
// case Download must not be called.
func New(cache Cache, fetcher storage.Fetcher, opts Options) *Processor {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Processor{
		cache:   cache,
		fetcher: fetcher,
		opts:    opts,
	}
}

// Download caches every missing page. It returns the issues whose download
// failed; without SkipFailed the first failure aborts with an error.
func (p *Processor) Download(ctx context.Context, issues []bulletin.Issue) ([]bulletin.Issue, error) {
	if p.fetcher == nil {
		return nil, fmt.Errorf("download requested without a fetcher")
	}

	bar := p.newProgressBar(len(issues), "Downloading bulletins")
	defer bar.Finish() // nolint:errcheck

	var failed []bulletin.Issue
	for _, issue := range issues {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		downloaded, err := p.cache.Ensure(ctx, issue, p.fetcher)
		_ = bar.Add(1)
		if err != nil {
			if !p.opts.SkipFailed || ctx.Err() != nil {
				return failed, err
			}
			// Counted as failed once Extract finds the page missing
			logger.Warn("Skipping issue after failed download", logger.Fields{
				"issue": issue.String(),
				"error": err.Error(),
			})
			failed = append(failed, issue)
			continue
		}

		if !downloaded {
			logger.IncrCounter("pages.cached")
			continue
		}

		logger.IncrCounter("pages.fetched")
		logger.Debug("Downloaded bulletin", logger.Fields{"issue": issue.String()})

		if err := sleep(ctx, p.opts.Delay); err != nil {
			return failed, err
		}
	}

	return failed, nil
}

// Extract parses the cached page of every issue. Results are in issue order.
// Without SkipFailed the first failure cancels the remaining work and is
// returned; with it, failing issues carry their error in Result.Err.
func (p *Processor) Extract(ctx context.Context, issues []bulletin.Issue) ([]Result, error) {
	results := make([]Result, len(issues))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i, issue := range issues {
		i, issue := i, issue
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i].Issue = issue
			entries, err := p.extractIssue(issue)
			if err != nil {
				if !p.opts.SkipFailed {
					return err
				}
				logger.Warn("Skipping issue after failed extraction", logger.Fields{
					"issue": issue.String(),
					"error": err.Error(),
				})
				logger.IncrCounter("issues.failed")
				results[i].Err = err
				return nil
			}

			results[i].Entries = entries
			logger.AddCounter("entries.extracted", int64(len(entries)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Processor) extractIssue(issue bulletin.Issue) ([]bulletin.DataEntry, error) {
	data, err := p.cache.Load(issue)
	if err != nil {
		return nil, fmt.Errorf("loading %s page: %w", issue, err)
	}
	return extractor.ExtractDocument(issue, bytes.NewReader(data))
}

func (p *Processor) newProgressBar(total int, description string) *progressbar.ProgressBar {
	w := p.opts.Progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w) // nolint:errcheck
		}),
	)
}

// Failed returns the issues whose extraction was skipped
func Failed(results []Result) []bulletin.Issue {
	var failed []bulletin.Issue
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Issue)
		}
	}
	return failed
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
