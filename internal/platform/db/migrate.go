package db

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate runs the embedded migrations. action is one of up, down or version.
func Migrate(databaseURL, action string) (string, error) {
	m, err := newMigrator(databaseURL)
	if err != nil {
		return "", err
	}
	defer m.Close()

	switch action {
	case "", "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return "", fmt.Errorf("db: migrate up: %w", err)
		}
	case "down":
		if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return "", fmt.Errorf("db: migrate down: %w", err)
		}
	case "version":
	default:
		return "", fmt.Errorf("db: unsupported migrate action %q", action)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return "no migration applied", nil
	}
	if err != nil {
		return "", fmt.Errorf("db: migrate version: %w", err)
	}
	return fmt.Sprintf("version=%d dirty=%t", version, dirty), nil
}

func newMigrator(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("db: open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, pgx5URL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("db: create migrator: %w", err)
	}
	return m, nil
}

// pgx5URL rewrites postgres:// URLs to the scheme registered by the pgx/v5 driver.
func pgx5URL(databaseURL string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}
