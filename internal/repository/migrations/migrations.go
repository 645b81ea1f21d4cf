// Package migrations embeds the storage schema and applies it with
// golang-migrate for both SQL backends.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitedb "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Driver names accepted by Up
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Up applies all pending migrations for the given driver
func Up(db *sql.DB, driver string, logger *zap.Logger) error {
	var (
		dbDriver database.Driver
		err      error
	)

	switch driver {
	case Postgres:
		dbDriver, err = postgresdb.WithInstance(db, &postgresdb.Config{})
	case SQLite:
		dbDriver, err = sqlitedb.WithInstance(db, &sqlitedb.Config{})
	default:
		return fmt.Errorf("unsupported migration driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(files, driver)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply", zap.String("driver", driver))
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully", zap.String("driver", driver))
	}

	return nil
}
