package sqlitestore

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS units (
  name TEXT PRIMARY KEY,
  main_file TEXT NOT NULL,
  module_name TEXT NOT NULL,
  is_system INTEGER NOT NULL DEFAULT 0,
  is_module INTEGER NOT NULL DEFAULT 0,
  is_debug INTEGER NOT NULL DEFAULT 0,
  working_dir TEXT NOT NULL DEFAULT '',
  record_name TEXT NOT NULL DEFAULT ''
)`,
	`CREATE TABLE IF NOT EXISTS records (
  name TEXT PRIMARY KEY
)`,
	`CREATE TABLE IF NOT EXISTS symbols (
  record_name TEXT NOT NULL REFERENCES records(name) ON DELETE CASCADE,
  idx INTEGER NOT NULL,
  usr TEXT NOT NULL,
  name TEXT NOT NULL,
  kind TEXT NOT NULL,
  subkind TEXT NOT NULL DEFAULT 'none',
  PRIMARY KEY (record_name, idx)
)`,
	`CREATE TABLE IF NOT EXISTS occurrences (
  record_name TEXT NOT NULL REFERENCES records(name) ON DELETE CASCADE,
  idx INTEGER NOT NULL,
  symbol_idx INTEGER NOT NULL,
  roles INTEGER NOT NULL,
  line INTEGER NOT NULL,
  col INTEGER NOT NULL,
  PRIMARY KEY (record_name, idx)
)`,
	`CREATE TABLE IF NOT EXISTS relations (
  record_name TEXT NOT NULL REFERENCES records(name) ON DELETE CASCADE,
  occurrence_idx INTEGER NOT NULL,
  symbol_idx INTEGER NOT NULL,
  roles INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_relations_occurrence ON relations(record_name, occurrence_idx)`,
}

func migrateSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply index snapshot schema: %w", err)
		}
	}
	if _, err := db.Exec(`INSERT INTO meta(key, value) VALUES('schema_version', ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`, fmt.Sprint(schemaVersion)); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

func checkSchema(db *sql.DB) error {
	var version string
	err := db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != fmt.Sprint(schemaVersion) {
		return fmt.Errorf("unsupported index snapshot schema version %s (want %d)", version, schemaVersion)
	}
	return nil
}
