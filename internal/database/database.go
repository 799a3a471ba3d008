// Package database owns the Postgres connection pool backing
// internal/jobstore and internal/contentstore.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/cafe1231/loadout-optimizer/internal/config"
)

// DB wraps *sqlx.DB so jobstore/contentstore can depend on one type.
type DB struct {
	*sqlx.DB
}

// NewConnection opens and pings a Postgres connection per cfg.
func NewConnection(cfg config.DatabaseConfig) (*DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.Database,
	}).Info("connected to database")

	return &DB{db}, nil
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	logrus.Info("closing database connection")
	return db.DB.Close()
}

// Health pings the database with a bounded timeout.
func (db *DB) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// RunMigrations executes the jobstore/contentstore schema in order.
func RunMigrations(db *DB) error {
	logrus.Info("running database migrations")

	for i, migration := range migrations {
		logrus.WithField("migration", i+1).Debug("executing migration")
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", i+1, err)
		}
	}

	logrus.Info("database migrations completed")
	return nil
}
