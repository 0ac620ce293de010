package data

import (
	"carlton/internal/config"
	"carlton/migrations"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	mysqlmigrate "github.com/golang-migrate/migrate/v4/database/mysql"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Supported values of db.driver.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
)

// ErrNoDatabase is returned by NewDB when no DSN is configured.
var ErrNoDatabase = errors.New("no database configured")

// SQLDriverName maps a configured driver to the database/sql driver it registers as.
func SQLDriverName(driver string) (string, error) {
	switch driver {
	case DriverPostgres, "":
		return "pgx", nil
	case DriverMySQL:
		return "mysql", nil
	case DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewDB creates a new database connection pool.
// MySQL DSNs need parseTime=true and multiStatements=true.
func NewDB(cfg config.DBConfig) (*sqlx.DB, error) {
	if cfg.DSN == "" {
		return nil, ErrNoDatabase
	}
	name, err := SQLDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	// sqlx.Connect opens a connection and pings it to verify it's alive.
	db, err := sqlx.Connect(name, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if name == "sqlite3" {
		// Every in-memory connection is its own database.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// ApplyMigrations runs all up migrations embedded for the given driver.
// The migrate instance is not closed because that would close db.
func ApplyMigrations(db *sqlx.DB, driver string) error {
	if driver == "" {
		driver = DriverPostgres
	}
	src, err := iofs.New(migrations.FS, driver)
	if err != nil {
		return fmt.Errorf("failed to open migrations for %s: %w", driver, err)
	}

	var target database.Driver
	switch driver {
	case DriverPostgres:
		target, err = pgxmigrate.WithInstance(db.DB, &pgxmigrate.Config{})
	case DriverMySQL:
		target, err = mysqlmigrate.WithInstance(db.DB, &mysqlmigrate.Config{})
	case DriverSQLite:
		target, err = sqlitemigrate.WithInstance(db.DB, &sqlitemigrate.Config{})
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Up applies all available up migrations.
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
