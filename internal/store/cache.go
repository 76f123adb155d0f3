// Package store caches the public school list in a local SQLite database so
// school browsing keeps working when the API is slow or unreachable. The
// cache is a plain mirror of GET /api/public/schools/; it is never the source
// of truth and is fully rewritten on every sync.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"insider/internal/api"
	"insider/internal/logging"
)

const cacheFile = "cache.db"

// Cache is the SQLite-backed school cache. Safe for concurrent use.
type Cache struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// Open opens (creating if needed) the cache under the given state directory
// and brings the schema up to date.
func Open(stateDir string) (*Cache, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	path := filepath.Join(stateDir, cacheFile)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	c := &Cache{db: db, path: path}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Cache("school cache opened at %s", path)
	return c, nil
}

// Path returns the database file location.
func (c *Cache) Path() string { return c.path }

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveSchools replaces the cached school list atomically and records the
// sync time.
func (c *Cache) SaveSchools(schools []api.School) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM schools`); err != nil {
		return fmt.Errorf("failed to clear schools: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO schools (id, school_name, conference, location, mbb, wbb, fb, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range schools {
		payload, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to encode school %d: %w", s.ID, err)
		}
		if _, err := stmt.Exec(s.ID, s.SchoolName, s.Conference, s.Location,
			boolInt(s.MBB), boolInt(s.WBB), boolInt(s.FB), string(payload)); err != nil {
			return fmt.Errorf("failed to insert school %d: %w", s.ID, err)
		}
	}

	if err := setMeta(tx, "last_sync", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	logging.Cache("cached %d schools", len(schools))
	return nil
}

// LoadSchools returns the cached school list, sorted by name. An empty cache
// yields an empty slice, not an error.
func (c *Cache) LoadSchools() ([]api.School, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.Query(`SELECT payload FROM schools ORDER BY school_name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schools: %w", err)
	}
	defer rows.Close()

	var out []api.School
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var s api.School
		if err := json.Unmarshal([]byte(payload), &s); err != nil {
			logging.CacheWarn("skipping undecodable cached school: %v", err)
			continue
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LastSync reports when the cache was last written. ok is false when the
// cache has never been synced.
func (c *Cache) LastSync() (t time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, err := getMeta(c.db, "last_sync")
	if err != nil || value == "" {
		return time.Time{}, false
	}
	t, err = time.Parse(time.RFC3339, value)
	if err != nil {
		logging.CacheWarn("unreadable last_sync %q: %v", value, err)
		return time.Time{}, false
	}
	return t, true
}

// Stale reports whether the cache is older than the given TTL. A never-synced
// cache is always stale.
func (c *Cache) Stale(ttl time.Duration) bool {
	last, ok := c.LastSync()
	if !ok {
		return true
	}
	return time.Since(last) > ttl
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func setMeta(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set meta %s: %w", key, err)
	}
	return nil
}

func getMeta(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
