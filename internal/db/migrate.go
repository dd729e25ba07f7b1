package db

import (
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Storefront schema: products, orders, client_storage and event_sequences.
//
//go:embed migrations/*.sql
var schema embed.FS

// RunMigrations brings the storefront schema to the newest embedded version.
func RunMigrations(dsn string, logger *log.Logger) error {
	src, err := iofs.New(schema, "migrations")
	if err != nil {
		return fmt.Errorf("read embedded schema: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("prepare schema migration: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Printf("close migrator: %v", errors.Join(srcErr, dbErr))
		}
	}()

	from := schemaVersion(m)

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Printf("schema up to date at version %d", from)
		return nil
	case err != nil:
		return fmt.Errorf("migrate schema from version %d: %w", from, err)
	}

	to := schemaVersion(m)
	logger.Printf("schema migrated from version %d to %d", from, to)
	return nil
}

// schemaVersion is 0 for a database that has never been migrated.
func schemaVersion(m *migrate.Migrate) uint {
	v, _, err := m.Version()
	if err != nil {
		return 0
	}
	return v
}
