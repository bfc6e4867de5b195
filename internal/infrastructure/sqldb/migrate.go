package sqldb

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/config"
)

//go:embed migrations
var migrationsFS embed.FS

// newMigrator builds a migrator over an already open handle.
// The returned value must not be closed: closing it closes db as well.
func newMigrator(db *sql.DB, driver string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return nil, err
	}
	var dbDriver database.Driver
	switch driver {
	case config.DriverPostgres:
		dbDriver, err = pgmigrate.WithInstance(db, &pgmigrate.Config{})
	case config.DriverSQLite:
		dbDriver, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	default:
		return nil, errors.New("unsupported driver " + driver)
	}
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", src, driver, dbDriver)
}

// Migrate applies pending migrations. It is safe to run on every start.
func Migrate(db *sql.DB, driver string, logger *logrus.Logger) error {
	m, err := newMigrator(db, driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}

// Reset drops every table and recreates the schema from scratch.
// All existing users and posts are lost.
func Reset(db *sql.DB, driver string, logger *logrus.Logger) error {
	m, err := newMigrator(db, driver)
	if err != nil {
		return err
	}
	logger.Warn("dropping existing schema")
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	logger.Info("creating schema")
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
