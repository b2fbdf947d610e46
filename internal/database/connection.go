package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config describes how to reach the database
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxLife  time.Duration
}

// Queryer is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Rebind(query string) string
}

// Open connects to the database and makes sure the schema exists
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}

	if cfg.Driver == DriverSQLite && !isMemoryDSN(cfg.DSN) {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	switch cfg.Driver {
	case DriverSQLite:
		// SQLite has a single writer, and every :memory: connection is its own database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	default:
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLife)
	}

	if err := initializeSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:") || strings.Contains(dsn, "mode=memory")
}

var schema = []struct {
	name string
	ddl  string
}{
	{"user_profiles", `
		CREATE TABLE IF NOT EXISTS user_profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			chat_id BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"words", `
		CREATE TABLE IF NOT EXISTS words (
			id TEXT PRIMARY KEY,
			user_profile_id TEXT NOT NULL REFERENCES user_profiles(id),
			word TEXT NOT NULL,
			definition TEXT NOT NULL DEFAULT '',
			review_interval INTEGER NOT NULL DEFAULT 1 CHECK (review_interval >= 1),
			ease_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5 CHECK (ease_factor >= 1.3),
			status TEXT NOT NULL DEFAULT 'COLLECTED',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"words_user_idx", `CREATE INDEX IF NOT EXISTS words_user_idx ON words (user_profile_id, word)`},
	{"review_schedules", `
		CREATE TABLE IF NOT EXISTS review_schedules (
			id TEXT PRIMARY KEY,
			user_profile_id TEXT NOT NULL REFERENCES user_profiles(id),
			schedule_date TEXT NOT NULL,
			total_words INTEGER NOT NULL DEFAULT 0 CHECK (total_words >= 0),
			to_be_reviewed_count INTEGER NOT NULL DEFAULT 0 CHECK (to_be_reviewed_count >= 0),
			reviewed_count INTEGER NOT NULL DEFAULT 0 CHECK (reviewed_count >= 0),
			notification_id TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_profile_id, schedule_date)
		)`},
	// word_id has no foreign key: reviewed rows outlive an uncollected word
	// so past schedules keep their counts.
	{"schedule_words", `
		CREATE TABLE IF NOT EXISTS schedule_words (
			id TEXT PRIMARY KEY,
			review_schedule_id TEXT NOT NULL REFERENCES review_schedules(id),
			word_id TEXT NOT NULL,
			status TEXT NOT NULL,
			score DOUBLE PRECISION,
			answered_at TIMESTAMP,
			answered_on TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"schedule_words_schedule_idx", `CREATE INDEX IF NOT EXISTS schedule_words_schedule_idx ON schedule_words (review_schedule_id, status)`},
	{"schedule_words_one_pending", `CREATE UNIQUE INDEX IF NOT EXISTS schedule_words_one_pending ON schedule_words (word_id) WHERE status = 'TO_REVIEW'`},
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt.ddl); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a unique constraint failure from either driver
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
