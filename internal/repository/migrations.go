package repository

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

const DefaultMigrationsSource = "file://internal/repository/migrations"

// RunMigrations applies the knowledge schema migrations
func RunMigrations(databaseURL, source string, logger *zap.Logger) error {
	if source == "" {
		source = DefaultMigrationsSource
	}

	m, err := migrate.New(source, databaseURL)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		version, _, _ := m.Version()
		logger.Info("Knowledge schema is up to date", zap.Uint("version", version))
		return nil
	}

	var dirtyErr migrate.ErrDirty
	if !errors.As(err, &dirtyErr) {
		return fmt.Errorf("run migrations: %w", err)
	}

	// A dirty version means the previous run failed half way; step back and retry once.
	forceVersion := dirtyErr.Version - 1
	if forceVersion < 0 {
		forceVersion = 0
	}

	logger.Warn("Dirty migration state, forcing previous version",
		zap.Int("dirty_version", dirtyErr.Version),
		zap.Int("force_version", forceVersion),
	)

	if ferr := m.Force(forceVersion); ferr != nil {
		return fmt.Errorf("force clean migration version %d: %w", forceVersion, ferr)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rerun migrations after dirty state: %w", err)
	}

	return nil
}
