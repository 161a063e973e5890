package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DBFileName is the cache database file inside the cache directory.
const DBFileName = "http_cache.sqlite"

// Entry is one cached HTTP response.
type Entry struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	FetchedAt   time.Time
}

// Storage is a persistent response cache keyed by URL.
type Storage struct {
	db     *sql.DB
	dbPath string
	ttl    time.Duration
	now    func() time.Time
}

// New opens (creating if needed) the response cache in dataDir. A ttl of zero
// means entries never expire.
func New(dataDir string, ttl time.Duration) (*Storage, error) {
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

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Storage{
		db:     db,
		dbPath: dbPath,
		ttl:    ttl,
		now:    time.Now,
	}

	if err := s.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *Storage) Path() string {
	return s.dbPath
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS responses (
		url          TEXT PRIMARY KEY,
		status_code  INTEGER NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		body         BLOB NOT NULL,
		fetched_at   INTEGER NOT NULL
	);
	`)
	return err
}

// Get returns the cached entry for url. The boolean is false on a miss or
// when the entry is older than the TTL (the stale row is deleted).
func (s *Storage) Get(ctx context.Context, url string) (*Entry, bool, error) {
	var (
		entry     Entry
		fetchedAt int64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT url, status_code, content_type, body, fetched_at FROM responses WHERE url = ?`,
		url,
	).Scan(&entry.URL, &entry.StatusCode, &entry.ContentType, &entry.Body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached response: %w", err)
	}

	entry.FetchedAt = time.Unix(0, fetchedAt).UTC()

	if s.ttl > 0 && s.now().Sub(entry.FetchedAt) > s.ttl {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM responses WHERE url = ?`, url); err != nil {
			return nil, false, fmt.Errorf("expiring cached response: %w", err)
		}
		return nil, false, nil
	}

	return &entry, true, nil
}

// Put stores or replaces the entry for entry.URL. FetchedAt defaults to now.
func (s *Storage) Put(ctx context.Context, entry *Entry) error {
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = s.now().UTC()
	}
	body := entry.Body
	if body == nil {
		body = []byte{}
	}

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO responses (url, status_code, content_type, body, fetched_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		body = excluded.body,
		fetched_at = excluded.fetched_at
	`, entry.URL, entry.StatusCode, entry.ContentType, body, entry.FetchedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("writing cached response: %w", err)
	}
	return nil
}

// Clear removes every cached response and returns how many were removed.
func (s *Storage) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM responses`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}

// Size returns the number of cached responses.
func (s *Storage) Size(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cached responses: %w", err)
	}
	return n, nil
}
