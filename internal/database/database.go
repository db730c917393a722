package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
}

// New opens the SQLite destination file, creating parent directories as
// needed, and configures the connection for bulk generation. The connection
// is treated as a single-writer resource: MaxOpenConns is pinned to 1 so row
// inserts serialize at the pool.
func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	log.Println("✅ SQLite database opened:", path)

	return &DB{db}, nil
}

// HasUserTables reports whether the destination already contains tables.
// A pre-populated destination is a structural error for a generation run.
func (db *DB) HasUserTables() (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
	`).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect destination: %w", err)
	}
	return count > 0, nil
}

// ApplySchema executes the embedded DDL against a fresh destination.
func (db *DB) ApplySchema() error {
	log.Println("🔍 Applying workspace schema...")

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Println("✅ Schema applied successfully")
	return nil
}

// TableColumns returns the column names of a table via PRAGMA table_info.
// Used by validation to probe for optional schema extensions.
func (db *DB) TableColumns(table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to read table info for %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan table info for %s: %w", table, err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}
