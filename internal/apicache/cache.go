package apicache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"dogwatch/internal/logging"
)

// Store persists remote API payloads in SQLite, one row per cache key.
type Store struct {
	db     *sql.DB
	path   string
	ttl    time.Duration
	logger *slog.Logger

	// now is injectable for TTL boundary tests.
	now func() time.Time
}

// Open initializes or connects to the cache database at path.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
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

	store := &Store{
		db:     db,
		path:   path,
		ttl:    ttl,
		logger: logging.NewComponentLogger(logger, "apicache"),
		now:    time.Now,
	}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) applySchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS api_cache (
            key       TEXT PRIMARY KEY,
            cached_at TEXT NOT NULL,
            payload   BLOB NOT NULL
        )`)
	if err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path exposes the backing database file for inspection.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Get returns the cached payload for key when a fresh entry exists.
//
// Absent, expired, and malformed entries all report a miss. Corruption is
// recovered silently so a damaged row only costs one refetch.
func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, errors.New("cache store unavailable")
	}

	var (
		cachedRaw string
		payload   []byte
	)
	row := s.db.QueryRowContext(ctx, `SELECT cached_at, payload FROM api_cache WHERE key = ?`, key)
	if err := row.Scan(&cachedRaw, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	cachedAt, err := time.Parse(time.RFC3339Nano, cachedRaw)
	if err != nil {
		s.logger.Debug("discarding cache entry with unreadable timestamp", logging.String("key", key))
		return nil, false, nil
	}
	if s.now().Sub(cachedAt) >= s.ttl {
		return nil, false, nil
	}
	if !json.Valid(payload) {
		s.logger.Debug("discarding malformed cache entry", logging.String("key", key))
		return nil, false, nil
	}
	return json.RawMessage(payload), true, nil
}

// Set writes payload under key, overwriting any prior entry.
func (s *Store) Set(ctx context.Context, key string, payload json.RawMessage) error {
	if s == nil || s.db == nil {
		return errors.New("cache store unavailable")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO api_cache (key, cached_at, payload) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET cached_at = excluded.cached_at, payload = excluded.payload`,
		key,
		s.now().UTC().Format(time.RFC3339Nano),
		[]byte(payload),
	)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Clear removes all entries and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("cache store unavailable")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM api_cache`)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	s.logger.Debug("cache cleared", logging.Int64("entries", removed))
	return removed, nil
}

// Count returns the number of entries currently stored, fresh or stale.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("cache store unavailable")
	}

	var count int64
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM api_cache`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return count, nil
}
