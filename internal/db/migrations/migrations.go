package migrations

import (
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed 001_initial_schema.sql
var initialSchemaSQL string

// All holds the schema scripts in order; script i brings the database to
// user_version i+1.
var All = []string{
	initialSchemaSQL,
}

// Version is the schema version after every migration has run
func Version() int {
	return len(All)
}

// CheckVersion rejects databases written by a newer gdpdash
func CheckVersion(version int) error {
	if version > Version() {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, Version())
	}
	return nil
}

// Migrate brings db up to Version and returns the version it started from.
// Each script commits together with its user_version bump, so a failed
// script leaves the database at the previous version.
func Migrate(db *sql.DB) (int, error) {
	var from int
	if err := db.QueryRow("PRAGMA user_version").Scan(&from); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if err := CheckVersion(from); err != nil {
		return from, err
	}

	for v := from + 1; v <= Version(); v++ {
		if err := apply(db, v, All[v-1]); err != nil {
			return from, err
		}
	}
	return from, nil
}

func apply(db *sql.DB, version int, script string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start migration %d: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(script); err != nil {
		return fmt.Errorf("migration %d failed: %w", version, err)
	}
	// PRAGMA does not take bind parameters
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return tx.Commit()
}
