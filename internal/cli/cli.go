package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"
	"github.com/pfrederiksen/visa-bulletin/internal/config"
	"github.com/pfrederiksen/visa-bulletin/internal/export"
	"github.com/pfrederiksen/visa-bulletin/internal/extractor"
	"github.com/pfrederiksen/visa-bulletin/internal/filter"
	"github.com/pfrederiksen/visa-bulletin/internal/logger"
	"github.com/pfrederiksen/visa-bulletin/internal/processor"
	"github.com/pfrederiksen/visa-bulletin/internal/scraper"
	"github.com/pfrederiksen/visa-bulletin/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitSkipped = 2
)

// ErrSkipped reports a run that finished but left some issues out
var ErrSkipped = errors.New("some issues were skipped")

var (
	flagConfig     string
	flagStart      string
	flagEnd        string
	flagOffline    bool
	flagSkipFailed bool
	flagVerbose    bool
	flagIssue      string
	flagParseFmt   string
	flagSort       string
	flagCountries  string
	flagCategories string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	v := config.New()
	var cfg *config.Config

	cmd := &cobra.Command{
		Use:   "visa-bulletin",
		Short: "Extract priority dates from the U.S. visa bulletin",
		Long: `A CLI tool to download the monthly U.S. Department of State visa bulletin
and extract its final action and filing dates per country and visa category.
Pages are cached locally and each month is written as CSV, JSON, XLSX or SQLite.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(v, flagConfig)
			if err != nil {
				return err
			}
			return setupLogging(cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default $HOME/.config/visa-bulletin/config.yaml)")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and print run metrics")
	pf.String("log-level", "", "Log level: debug, info, warn or error (default info)")

	f := cmd.Flags()
	f.String("cache-dir", "", "Directory for downloaded pages (default ~/.cache/visa-bulletin)")
	f.String("data-dir", "", "Directory for extracted data (default ./data)")
	f.StringVar(&flagStart, "start", "", "First issue, YYYY-MM or YYYYMM (default: month before --end)")
	f.StringVar(&flagEnd, "end", "", "Last issue, YYYY-MM or YYYYMM (default: current month, next month after the 14th)")
	f.String("format", "", "Output format: csv, json, xlsx or sqlite (default csv)")
	f.BoolVar(&flagOffline, "offline", false, "Use cached pages only")
	f.BoolVar(&flagSkipFailed, "skip-failed", false, "Skip issues that fail instead of aborting")
	f.Int("concurrency", 0, "Pages parsed in parallel (default 4)")
	f.Duration("delay", 0, "Pause between downloads (default 100ms)")

	bindFlags(v, cmd, map[string]string{
		config.KeyCacheDir:    "cache-dir",
		config.KeyDataDir:     "data-dir",
		config.KeyFormat:      "format",
		config.KeyConcurrency: "concurrency",
		config.KeyDelay:       "delay",
		config.KeyLogLevel:    "log-level",
	})

	cmd.AddCommand(newParseCmd())

	return cmd
}

// bindFlags makes changed flags override config file and environment values
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}
		_ = v.BindPFlag(key, flag)
	}
}

func setupLogging(cmd *cobra.Command, cfg *config.Config) error {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
	return nil
}

// ResolveRange turns the --start/--end values into an issue range.
// An empty end means the current month, or the next one from the 15th on,
// when the coming bulletin is usually out. An empty start means the month
// before end.
func ResolveRange(start, end string, now time.Time) (bulletin.Issue, bulletin.Issue, error) {
	var first, last bulletin.Issue
	var err error

	if strings.TrimSpace(end) == "" {
		last = bulletin.IssueOf(now)
		if now.Day() >= 15 {
			last = last.Next()
		}
	} else if last, err = bulletin.ParseIssue(end); err != nil {
		return first, last, fmt.Errorf("invalid --end: %w", err)
	}

	if strings.TrimSpace(start) == "" {
		first = last.Prev()
	} else if first, err = bulletin.ParseIssue(start); err != nil {
		return first, last, fmt.Errorf("invalid --start: %w", err)
	}

	if first.Before(bulletin.FirstIssue) {
		return first, last, fmt.Errorf("start %s is before the first supported issue %s", first, bulletin.FirstIssue)
	}
	if first.After(last) {
		return first, last, fmt.Errorf("start %s is after end %s", first, last)
	}
	return first, last, nil
}

// runFetch is the main command logic
func runFetch(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()

	start, end, err := ResolveRange(flagStart, flagEnd, time.Now())
	if err != nil {
		return err
	}
	issues := bulletin.Range(start, end)
	logger.SetGauge("issues.requested", float64(len(issues)))

	logger.Info("Processing bulletins", logger.Fields{
		"start":     start.String(),
		"end":       end.String(),
		"issues":    len(issues),
		"cache_dir": cfg.CacheDir,
		"data_dir":  cfg.DataDir,
		"format":    string(cfg.Format),
	})

	cache, err := storage.New(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}

	var fetcher storage.Fetcher
	if !flagOffline {
		fetcher = scraper.New(cfg.ScraperOptions()...)
	}

	proc := processor.New(cache, fetcher, processor.Options{
		Delay:       cfg.Delay,
		Concurrency: cfg.Concurrency,
		SkipFailed:  flagSkipFailed,
		Progress:    cmd.ErrOrStderr(),
	})

	if !flagOffline {
		if _, err := proc.Download(ctx, issues); err != nil {
			return fmt.Errorf("downloading bulletins: %w", err)
		}
	}

	results, err := proc.Extract(ctx, issues)
	if err != nil {
		return err
	}

	writer, err := export.NewWriter(ctx, cfg.DataDir, cfg.Format)
	if err != nil {
		return fmt.Errorf("initializing writer: %w", err)
	}
	defer writer.Close() // nolint:errcheck

	summary := &Summary{
		Start:  start,
		End:    end,
		Format: writer.Format(),
	}
	for _, r := range results {
		if r.Err != nil {
			summary.Skipped = append(summary.Skipped, r)
			continue
		}
		path, err := writer.Write(ctx, r.Issue, r.Entries)
		if err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		logger.Debug("Wrote bulletin", logger.Fields{
			"issue":   r.Issue.String(),
			"path":    path,
			"entries": len(r.Entries),
		})
		summary.Written = append(summary.Written, path)
		summary.Entries += len(r.Entries)
	}

	if err := WriteSummary(cmd.OutOrStdout(), summary, flagVerbose); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	if flagVerbose {
		if err := logger.DefaultMetrics().WriteSummary(cmd.ErrOrStderr()); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	if len(summary.Skipped) > 0 {
		return ErrSkipped
	}
	return nil
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Extract a single local bulletin page",
		Long: `Extract one saved bulletin page and print its rows.
The issue must be given explicitly because it selects the vocabulary and
header layout in effect for that month.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}

	cmd.Flags().StringVar(&flagIssue, "issue", "", "Issue of the page, YYYY-MM or YYYYMM (required)")
	cmd.Flags().StringVar(&flagParseFmt, "format", "json", "Output format: json or csv")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByDocument), "Row order: document, country or category")
	cmd.Flags().StringVar(&flagCountries, "country", "", "Only these countries, comma-separated (e.g. india,china)")
	cmd.Flags().StringVar(&flagCategories, "category", "", "Only these categories, comma-separated; family or employment selects a whole section")
	_ = cmd.MarkFlagRequired("issue")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	issue, err := bulletin.ParseIssue(flagIssue)
	if err != nil {
		return fmt.Errorf("invalid --issue: %w", err)
	}

	order, err := ParseSortOrder(flagSort)
	if err != nil {
		return err
	}

	rowFilter, err := filter.Parse(flagCountries, flagCategories)
	if err != nil {
		return err
	}

	format := export.Format(strings.ToLower(flagParseFmt))
	if format != export.FormatJSON && format != export.FormatCSV {
		return fmt.Errorf("invalid format: %s (must be 'json' or 'csv')", flagParseFmt)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening page: %w", err)
	}
	defer f.Close() // nolint:errcheck

	entries, err := extractor.ExtractDocument(issue, f)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", args[0], err)
	}

	rows := rowFilter.Apply(export.Aggregate(entries))
	sortRows(rows, order)

	if !rowFilter.IsEmpty() {
		logger.Debug("Filtered rows", logger.Fields{
			"filter": rowFilter.String(),
			"rows":   len(rows),
		})
	}

	return export.Encode(cmd.OutOrStdout(), format, rows)
}

// ExitCode maps a command error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrSkipped):
		return ExitSkipped
	default:
		return ExitError
	}
}

// Execute runs the CLI and returns the process exit status
func Execute(ctx context.Context) int {
	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrSkipped) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}
