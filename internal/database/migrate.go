package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"

	// Lets the migrator read *.sql pairs from a directory.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations brings the schema up to date from the SQL pairs in dir.
// golang-migrate records the applied version in the database, so both the
// server and userctl call this on every start and it is a no-op when
// nothing is pending.
func RunMigrations(db *sql.DB, dir string) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "mysql", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		slog.Debug("schema already current")
	case err != nil:
		return fmt.Errorf("applying migrations: %w", err)
	default:
		version, dirty, _ := m.Version()
		slog.Info("migrations applied",
			slog.Uint64("version", uint64(version)),
			slog.Bool("dirty", dirty),
		)
	}

	return nil
}
