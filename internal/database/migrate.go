package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationSuffix = ".up.sql"

type migration struct {
	version  int
	filename string
}

// Migrate applies every embedded migration that schema_migrations does not
// list yet, one transaction per file, in version order.
func Migrate(database *sql.DB) error {
	if _, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	migrations, err := embeddedMigrations()
	if err != nil {
		return err
	}

	applied, err := appliedVersions(database)
	if err != nil {
		return err
	}

	for _, pending := range migrations {
		if applied[pending.version] {
			continue
		}
		if err := apply(database, pending); err != nil {
			return err
		}
		slog.Info("applied migration", "version", pending.version, "file", pending.filename)
	}
	return nil
}

func embeddedMigrations() ([]migration, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []migration
	seen := make(map[int]string)
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), migrationSuffix) {
			continue
		}
		version, err := migrationVersion(entry.Name())
		if err != nil {
			return nil, err
		}
		if previous, ok := seen[version]; ok {
			return nil, fmt.Errorf("migrations %s and %s share version %d", previous, entry.Name(), version)
		}
		seen[version] = entry.Name()
		migrations = append(migrations, migration{version: version, filename: entry.Name()})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})
	return migrations, nil
}

func appliedVersions(database *sql.DB) (map[int]bool, error) {
	rows, err := database.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("listing applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scanning applied migration: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func apply(database *sql.DB, pending migration) error {
	content, err := migrationsFS.ReadFile("migrations/" + pending.filename)
	if err != nil {
		return fmt.Errorf("reading migration %s: %w", pending.filename, err)
	}

	transaction, err := database.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration %s: %w", pending.filename, err)
	}

	if _, err := transaction.Exec(string(content)); err != nil {
		transaction.Rollback()
		return fmt.Errorf("executing migration %s: %w", pending.filename, err)
	}
	if _, err := transaction.Exec("INSERT INTO schema_migrations (version) VALUES (?)", pending.version); err != nil {
		transaction.Rollback()
		return fmt.Errorf("recording migration %s: %w", pending.filename, err)
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("committing migration %s: %w", pending.filename, err)
	}
	return nil
}

// migrationVersion reads the numeric prefix of names like 002_messaging.up.sql.
func migrationVersion(filename string) (int, error) {
	prefix, _, found := strings.Cut(filename, "_")
	if !found {
		return 0, fmt.Errorf("migration %s has no version prefix", filename)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, fmt.Errorf("migration %s has an invalid version prefix %q", filename, prefix)
	}
	return version, nil
}
