package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"
)

// Writer persists the rows of each issue in one format
type Writer struct {
	dir    string
	format Format
	sink   *SQLiteSink
}

// NewWriter creates a Writer rooted at dir. For FormatSQLite the database
// is opened immediately and must be released with Close.
func NewWriter(ctx context.Context, dir string, format Format) (*Writer, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	w := &Writer{dir: dir, format: format}
	if format == FormatSQLite {
		sink, err := OpenSQLite(ctx, filepath.Join(dir, DatabaseName))
		if err != nil {
			return nil, err
		}
		w.sink = sink
	}
	return w, nil
}

// Format returns the output format
func (w *Writer) Format() Format {
	return w.format
}

// Path returns where the rows of an issue end up
func (w *Writer) Path(issue bulletin.Issue) string {
	if w.sink != nil {
		return w.sink.Path()
	}
	return filepath.Join(w.dir, fmt.Sprintf("%04d", issue.Year), issue.FileName(w.format.Ext()))
}

// Write aggregates the entries of one issue and writes them out.
// It returns the path written to.
func (w *Writer) Write(ctx context.Context, issue bulletin.Issue, entries []bulletin.DataEntry) (string, error) {
	rows := Aggregate(entries)
	path := w.Path(issue)

	if w.sink != nil {
		if err := w.sink.Write(ctx, rows); err != nil {
			return "", fmt.Errorf("storing %s: %w", issue, err)
		}
		return path, nil
	}

	var buf bytes.Buffer
	if err := Encode(&buf, w.format, rows); err != nil {
		return "", fmt.Errorf("encoding %s: %w", issue, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating year directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Close releases the database, if any
func (w *Writer) Close() error {
	if w.sink == nil {
		return nil
	}
	return w.sink.Close()
}
