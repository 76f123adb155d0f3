package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"insider/internal/logging"
)

// Schema versions:
// v1: schools table keyed by id with the filterable columns
// v2: added payload column carrying the full JSON record
const currentSchemaVersion = 2

// migrate creates the base schema and walks the version forward one step at
// a time. Each step is safe to re-run on a database that already has it.
func (c *Cache) migrate() error {
	base := `
	CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS schools (
		id          INTEGER PRIMARY KEY,
		school_name TEXT NOT NULL,
		conference  TEXT DEFAULT '',
		location    TEXT DEFAULT '',
		mbb         INTEGER DEFAULT 0,
		wbb         INTEGER DEFAULT 0,
		fb          INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_schools_name ON schools(school_name);
	CREATE INDEX IF NOT EXISTS idx_schools_conference ON schools(conference);
	`
	if _, err := c.db.Exec(base); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	version, err := schemaVersion(c.db)
	if err != nil {
		return err
	}

	for version < currentSchemaVersion {
		next := version + 1
		logging.Cache("migrating school cache schema v%d -> v%d", version, next)
		if err := applyMigration(c.db, next); err != nil {
			return fmt.Errorf("migration to v%d failed: %w", next, err)
		}
		if err := writeSchemaVersion(c.db, next); err != nil {
			return err
		}
		version = next
	}
	return nil
}

func applyMigration(db *sql.DB, version int) error {
	switch version {
	case 1:
		// Base schema, created above.
		return nil
	case 2:
		if columnExists(db, "schools", "payload") {
			return nil
		}
		_, err := db.Exec(`ALTER TABLE schools ADD COLUMN payload TEXT DEFAULT '{}'`)
		return err
	default:
		return fmt.Errorf("unknown schema version %d", version)
	}
}

func schemaVersion(db *sql.DB) (int, error) {
	raw, err := getMeta(db, "schema_version")
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if raw == "" {
		return 0, nil
	}
	version, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("corrupt schema version %q: %w", raw, err)
	}
	return version, nil
}

func writeSchemaVersion(db *sql.DB, version int) error {
	_, err := db.Exec(`
		INSERT INTO meta (key, value) VALUES ('schema_version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, strconv.Itoa(version))
	if err != nil {
		return fmt.Errorf("failed to write schema version: %w", err)
	}
	return nil
}

func columnExists(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}
