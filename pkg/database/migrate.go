package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDirtyMigration a previous migration stopped half way; fix it by hand before serving
var ErrDirtyMigration = errors.New("database migration is dirty")

// RunMigrations applies every pending migration. A dirty schema is an error:
// the ledger must not accept scans against a half-applied table.
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err := checkVersion(version, dirty, err); err != nil {
		return err
	}
	logger.Info("database migrated", zap.Uint("version", version))
	return nil
}

func checkVersion(version uint, dirty bool, err error) error {
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return errors.New("no migrations applied")
	case err != nil:
		return fmt.Errorf("read migration version: %w", err)
	case dirty:
		return fmt.Errorf("%w at version %d", ErrDirtyMigration, version)
	}
	return nil
}
