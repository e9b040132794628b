// Package database persists the inventory ledger with gorm on SQLite or PostgreSQL.
package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL dialect
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config describes the database connection
type Config struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	LogSQL          bool          `yaml:"log_sql"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Open connects to the configured database and applies pool settings.
func Open(cfg Config) (*gorm.DB, error) {
	dsn := cfg.DSN
	switch cfg.Driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = "restoplus.db"
		}
	case DriverPostgres:
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			parsed, err := pq.ParseURL(dsn)
			if err != nil {
				return nil, fmt.Errorf("invalid postgres url: %w", err)
			}
			dsn = parsed
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.LogMode(cfg.LogSQL)

	// Every connection to an in-memory SQLite database gets its own empty database
	if cfg.Driver == DriverSQLite && strings.Contains(dsn, ":memory:") {
		db.DB().SetMaxOpenConns(1)
		return db, nil
	}

	idle, open, lifetime := cfg.MaxIdleConns, cfg.MaxOpenConns, cfg.ConnMaxLifetime
	if idle == 0 {
		idle = 10
	}
	if open == 0 {
		open = 100
	}
	if lifetime == 0 {
		lifetime = time.Hour
	}
	db.DB().SetMaxIdleConns(idle)
	db.DB().SetMaxOpenConns(open)
	db.DB().SetConnMaxLifetime(lifetime)

	return db, nil
}
