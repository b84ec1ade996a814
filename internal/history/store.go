package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed ledger. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond

	// DefaultRecentLimit bounds Recent when the caller passes no limit.
	DefaultRecentLimit = 20
)

const entryColumns = "id, run_id, source_path, output_path, status, language, script, segments, dropped, captions, elapsed_ms, error_message, created_at"

// Open creates or opens the ledger at path and applies pending migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends entry to the ledger and returns it with ID and CreatedAt
// filled in.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.SourcePath) == "" {
		return entry, errors.New("history entry requires a source path")
	}
	if !entry.Status.Valid() {
		return entry, fmt.Errorf("invalid history status %q", entry.Status)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	var res sql.Result
	err := retryOnBusy(ensureContext(ctx), func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ensureContext(ctx),
			`INSERT INTO runs_ledger (
                run_id, source_path, output_path, status, language, script,
                segments, dropped, captions, elapsed_ms, error_message, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.RunID,
			entry.SourcePath,
			nullableString(entry.OutputPath),
			string(entry.Status),
			nullableString(entry.Language),
			nullableString(entry.Script),
			entry.Segments,
			entry.Dropped,
			entry.Captions,
			entry.Elapsed.Milliseconds(),
			nullableString(entry.ErrorMessage),
			entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		return execErr
	})
	if err != nil {
		return entry, fmt.Errorf("insert history entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return entry, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT "+entryColumns+" FROM runs_ledger ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query recent entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// LastForSource returns the newest entry recorded for sourcePath. The
// boolean is false when the source has never been processed.
func (s *Store) LastForSource(ctx context.Context, sourcePath string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+entryColumns+" FROM runs_ledger WHERE source_path = ? ORDER BY id DESC LIMIT 1", sourcePath)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("query last entry: %w", err)
	}
	return entry, true, nil
}

// CountByStatus tallies entries recorded under runID. An empty runID counts
// the whole ledger.
func (s *Store) CountByStatus(ctx context.Context, runID string) (map[Status]int, error) {
	query := "SELECT status, COUNT(1) FROM runs_ledger"
	var args []any
	if runID != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " GROUP BY status"
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[Status(status)] = count
	}
	return counts, rows.Err()
}
