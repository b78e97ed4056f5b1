package archive

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// schemaVersion is bumped when schema.sql changes; mismatching databases
// are rejected rather than silently reinterpreted.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by an incompatible build.
var ErrSchemaMismatch = errors.New("archive schema version mismatch")

// Entry is one retrieved item recorded in the archive.
type Entry struct {
	Extractor  string
	VideoID    string
	Title      string
	RecordedAt time.Time
}

// Store persists the set of already-retrieved item IDs in SQLite. It
// replaces the flat sidecar text file older builds kept next to the
// output directory; Export/Import bridge to that interchange format.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the archive database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive directory %q: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
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
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create archive schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read archive schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

// Record stores an item ID; recording the same ID twice is a no-op.
func (s *Store) Record(ctx context.Context, extractor, videoID, title string) error {
	extractor = normalizeExtractor(extractor)
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return errors.New("video id required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO archive_entries (extractor, video_id, title, recorded_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (extractor, video_id) DO NOTHING`,
		extractor, videoID, strings.TrimSpace(title), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record archive entry: %w", err)
	}
	return nil
}

// Seen reports whether an item ID has been recorded.
func (s *Store) Seen(ctx context.Context, extractor, videoID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM archive_entries WHERE extractor = ? AND video_id = ?",
		normalizeExtractor(extractor), strings.TrimSpace(videoID),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query archive: %w", err)
	}
	return count > 0, nil
}

// List returns every entry, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT extractor, video_id, title, recorded_at FROM archive_entries ORDER BY recorded_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var recorded string
		if err := rows.Scan(&e.Extractor, &e.VideoID, &e.Title, &recorded); err != nil {
			return nil, fmt.Errorf("scan archive entry: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, recorded); parseErr == nil {
			e.RecordedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes every entry and returns how many were dropped.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM archive_entries")
	if err != nil {
		return 0, fmt.Errorf("clear archive: %w", err)
	}
	return res.RowsAffected()
}

// Export writes the archive in the retrieval engine's sidecar format, one
// "extractor id" pair per line, so the engine can consult it during a run.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT extractor, video_id FROM archive_entries ORDER BY id",
	)
	if err != nil {
		return fmt.Errorf("export archive: %w", err)
	}
	defer rows.Close()

	bw := bufio.NewWriter(w)
	for rows.Next() {
		var extractor, videoID string
		if err := rows.Scan(&extractor, &videoID); err != nil {
			return fmt.Errorf("scan archive entry: %w", err)
		}
		if _, err := fmt.Fprintf(bw, "%s %s\n", extractor, videoID); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return bw.Flush()
}

// ImportFile reads a sidecar archive file written by the retrieval engine
// and records any IDs not yet present. Returns the number of new entries.
// A missing file is not an error.
func (s *Store) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("open sidecar archive %q: %w", path, err)
	}
	defer f.Close()

	added := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		seen, err := s.Seen(ctx, fields[0], fields[1])
		if err != nil {
			return added, err
		}
		if seen {
			continue
		}
		if err := s.Record(ctx, fields[0], fields[1], ""); err != nil {
			return added, err
		}
		added++
	}
	return added, scanner.Err()
}

func normalizeExtractor(extractor string) string {
	extractor = strings.ToLower(strings.TrimSpace(extractor))
	if extractor == "" {
		return "youtube"
	}
	return extractor
}
