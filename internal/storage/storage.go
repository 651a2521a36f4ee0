package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"
)

// ErrNotCached is returned by Load for issues that were never downloaded
var ErrNotCached = errors.New("page not cached")

// Fetcher downloads the page of one issue
type Fetcher interface {
	Fetch(ctx context.Context, issue bulletin.Issue) ([]byte, error)
}

// Storage handles persistence of downloaded pages
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the cache root
func (s *Storage) Dir() string {
	return s.dataDir
}

// Path returns the cache file of an issue
func (s *Storage) Path(issue bulletin.Issue) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("%04d", issue.Year), issue.FileName(".html"))
}

// Has reports whether the page of an issue is cached
func (s *Storage) Has(issue bulletin.Issue) bool {
	info, err := os.Stat(s.Path(issue))
	return err == nil && info.Mode().IsRegular()
}

// Load reads a cached page
func (s *Storage) Load(issue bulletin.Issue) ([]byte, error) {
	data, err := os.ReadFile(s.Path(issue))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotCached, issue)
		}
		return nil, fmt.Errorf("reading cached page: %w", err)
	}
	return data, nil
}

// Save writes a page to the cache. The file is written under a temporary
// name and renamed so an interrupted download never leaves a partial page.
func (s *Storage) Save(issue bulletin.Issue, data []byte) error {
	path := s.Path(issue)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating year directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing cached page: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // nolint:errcheck
		return fmt.Errorf("writing cached page: %w", err)
	}

	return nil
}

// Ensure downloads the page of an issue unless it is already cached.
// It reports whether a download took place.
func (s *Storage) Ensure(ctx context.Context, issue bulletin.Issue, fetcher Fetcher) (bool, error) {
	if s.Has(issue) {
		return false, nil
	}

	data, err := fetcher.Fetch(ctx, issue)
	if err != nil {
		return false, fmt.Errorf("downloading %s bulletin: %w", issue, err)
	}

	if err := s.Save(issue, data); err != nil {
		return false, err
	}
	return true, nil
}
