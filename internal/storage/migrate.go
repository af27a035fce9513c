package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrateUp applies every up migration newer than the database's
// user_version, in order.
func MigrateUp(db *sql.DB) error {
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	entries, err := migrationNames(".up.sql")
	if err != nil {
		return err
	}
	for _, name := range entries {
		version, err := migrationVersion(name)
		if err != nil {
			return err
		}
		if version <= current {
			continue
		}
		if err := execMigration(db, name); err != nil {
			return err
		}
		if err := setSchemaVersion(db, version); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts every applied migration, newest first.
func MigrateDown(db *sql.DB) error {
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	entries, err := migrationNames(".down.sql")
	if err != nil {
		return err
	}
	slices.Reverse(entries)
	for _, name := range entries {
		version, err := migrationVersion(name)
		if err != nil {
			return err
		}
		if version > current {
			continue
		}
		if err := execMigration(db, name); err != nil {
			return err
		}
		if err := setSchemaVersion(db, version-1); err != nil {
			return err
		}
	}
	return nil
}

func migrationNames(suffix string) ([]string, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	slices.Sort(entries)
	return entries, nil
}

func migrationVersion(name string) (int, error) {
	base := path.Base(name)
	prefix, _, ok := strings.Cut(base, "_")
	if !ok {
		return 0, fmt.Errorf("migration %s: missing version prefix", name)
	}
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("migration %s: %w", name, err)
	}
	return v, nil
}

func execMigration(db *sql.DB, name string) error {
	sqlBytes, err := migrationFiles.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	if _, err := db.Exec(string(sqlBytes)); err != nil {
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	return nil
}

func schemaVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

func setSchemaVersion(db *sql.DB, v int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}
