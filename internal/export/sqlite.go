package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pfrederiksen/visa-bulletin/internal/bulletin"

	_ "modernc.org/sqlite" // SQLite driver
)

// DatabaseName is the file name of the SQLite output
const DatabaseName = "visa_bulletin.db"

const schema = `
CREATE TABLE IF NOT EXISTS visa_dates (
	year              INTEGER NOT NULL,
	month             INTEGER NOT NULL,
	country           TEXT    NOT NULL,
	category          TEXT    NOT NULL,
	final_action_date TEXT,
	filing_date       TEXT,
	PRIMARY KEY (year, month, country, category)
)`

const upsertQuery = `
INSERT INTO visa_dates (year, month, country, category, final_action_date, filing_date)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (year, month, country, category) DO UPDATE SET
	final_action_date = excluded.final_action_date,
	filing_date = excluded.filing_date`

// SQLiteSink upserts rows into the visa_dates table
type SQLiteSink struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Writes are serialized by SQLite anyway
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close() // nolint:errcheck
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteSink{db: db, path: path}, nil
}

// Path returns the database file
func (s *SQLiteSink) Path() string {
	return s.path
}

// Close closes the database connection
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// Write upserts rows in a single transaction
func (s *SQLiteSink) Write(ctx context.Context, rows []Row) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback() // nolint:errcheck
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, r := range rows {
		if _, err = stmt.ExecContext(ctx,
			r.Year, int(r.Month), string(r.Country), string(r.Category),
			nullDate(r.FinalActionDate), nullDate(r.FilingDate),
		); err != nil {
			return fmt.Errorf("failed to upsert %s %s/%s: %w", r.Issue(), r.Country, r.Category, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Rows returns the stored rows of one issue ordered by country and category
func (s *SQLiteSink) Rows(ctx context.Context, issue bulletin.Issue) ([]Row, error) {
	query := `
		SELECT year, month, country, category, final_action_date, filing_date
		FROM visa_dates
		WHERE year = ? AND month = ?
		ORDER BY country, category`

	result, err := s.db.QueryContext(ctx, query, issue.Year, int(issue.Month))
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer result.Close() // nolint:errcheck

	var rows []Row
	for result.Next() {
		var (
			r                   Row
			month               int
			country, category   string
			finalAction, filing sql.NullString
		)
		if err := result.Scan(&r.Year, &month, &country, &category, &finalAction, &filing); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.Month = time.Month(month)
		r.Country = bulletin.CountryCategory(country)
		r.Category = bulletin.VisaCategory(category)
		if r.FinalActionDate, err = scanDate(finalAction); err != nil {
			return nil, err
		}
		if r.FilingDate, err = scanDate(filing); err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return rows, nil
}

func nullDate(d *time.Time) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: isoDate(d), Valid: true}
}

func scanDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored date %q: %w", s.String, err)
	}
	return &d, nil
}
