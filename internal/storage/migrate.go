package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrateUp applies every up migration in version order. Migrations are written
// to be idempotent, so running MigrateUp on an existing database is safe.
func MigrateUp(db *sql.DB) error {
	names, err := migrationNames(".up.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	return applyMigrations(db, names)
}

// MigrateDown reverts migrations newest first.
func MigrateDown(db *sql.DB) error {
	names, err := migrationNames(".down.sql")
	if err != nil {
		return err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return applyMigrations(db, names)
}

func migrationNames(suffix string) ([]string, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	return entries, nil
}

func applyMigrations(db *sql.DB, names []string) error {
	for _, name := range names {
		sqlBytes, readErr := migrationFiles.ReadFile(name)
		if readErr != nil {
			return fmt.Errorf("read migration %s: %w", name, readErr)
		}
		if _, execErr := db.Exec(string(sqlBytes)); execErr != nil {
			return fmt.Errorf("apply migration %s: %w", name, execErr)
		}
	}
	return nil
}
