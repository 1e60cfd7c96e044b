// Package database opens the backing stores (MariaDB and Redis) at
// startup. Connections are created once in main and handed to the rest
// of the application; nothing else in the tree dials a datastore.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// Registers the "mysql" driver with database/sql.
	_ "github.com/go-sql-driver/mysql"

	"github.com/ogonek-app/backend/internal/config"
)

// How long we keep retrying the initial ping. In a compose deployment
// the database container is usually a few seconds behind this one.
const (
	pingAttempts   = 10
	pingTimeout    = 5 * time.Second
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// NewMariaDB opens a MariaDB pool using the config's DSN and verifies it
// with a ping before handing it back. The pool limits come from config so
// deployments can tune them without a rebuild.
func NewMariaDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening mariadb pool: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := pingWithRetry(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func pingWithRetry(db *sql.DB) error {
	backoff := initialBackoff
	var lastErr error

	for attempt := 1; attempt <= pingAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		lastErr = db.PingContext(ctx)
		cancel()

		if lastErr == nil {
			return nil
		}
		if attempt == pingAttempts {
			break
		}

		slog.Warn("mariadb not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
			slog.Any("error", lastErr),
		)
		time.Sleep(backoff)
		backoff = min(backoff*2, maxBackoff)
	}

	return fmt.Errorf("pinging mariadb after %d attempts: %w", pingAttempts, lastErr)
}
