package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DiskCache is a SQLite-backed byte cache. It exists so consecutive CLI
// runs of the same query inside the TTL window skip the network fan-out
// entirely. Values are opaque payloads, typically a JSON-encoded result.
//
// Safe for concurrent use; the underlying sql.DB serializes access.
type DiskCache struct {
	db         *sql.DB
	ttl        time.Duration
	maxEntries int
}

// OpenDisk opens (creating if needed) the cache database at path.
func OpenDisk(path string, ttl time.Duration, maxEntries int) (*DiskCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	c := &DiskCache{db: db, ttl: ttl, maxEntries: maxEntries}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}
	return c, nil
}

func (c *DiskCache) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		saved_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cache_saved_at ON cache_entries(saved_at);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Get returns the payload for key if present and fresh. Expired rows are
// deleted on read.
func (c *DiskCache) Get(key string) ([]byte, bool) {
	var value []byte
	var savedAt time.Time
	err := c.db.QueryRow(
		"SELECT value, saved_at FROM cache_entries WHERE key = ?", key,
	).Scan(&value, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(savedAt) > c.ttl {
		c.db.Exec("DELETE FROM cache_entries WHERE key = ?", key)
		return nil, false
	}
	return value, true
}

// Set stores a payload, then trims the table to the entry cap,
// oldest-first.
func (c *DiskCache) Set(key string, value []byte) error {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO cache_entries (key, value, saved_at) VALUES (?, ?, ?)",
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	if c.maxEntries > 0 {
		_, err = c.db.Exec(`
			DELETE FROM cache_entries WHERE key IN (
				SELECT key FROM cache_entries
				ORDER BY saved_at DESC LIMIT -1 OFFSET ?
			)`, c.maxEntries)
		if err != nil {
			return fmt.Errorf("failed to trim cache: %w", err)
		}
	}
	return nil
}

// Invalidate removes one key, or every row when key is empty.
func (c *DiskCache) Invalidate(key string) error {
	var err error
	if key == "" {
		_, err = c.db.Exec("DELETE FROM cache_entries")
	} else {
		_, err = c.db.Exec("DELETE FROM cache_entries WHERE key = ?", key)
	}
	return err
}

// Stats reports the current row count. Hit counters are process-local
// concerns; the disk cache does not persist them.
func (c *DiskCache) Stats() (Stats, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM cache_entries").Scan(&n); err != nil {
		return Stats{}, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return Stats{Entries: n}, nil
}

// Close closes the underlying database.
func (c *DiskCache) Close() error {
	return c.db.Close()
}
