package database

import (
	"fmt"
	"strings"
)

// Dialect hides the SQL differences between SQLite and PostgreSQL that the
// run store cares about.
type Dialect interface {
	// DriverName is the database/sql driver name.
	DriverName() string

	// Placeholder returns the parameter marker for a 1-indexed position.
	Placeholder(position int) string

	// SupportsLastInsertID reports whether sql.Result.LastInsertId works.
	// When false, inserts append ReturningClause instead.
	SupportsLastInsertID() bool
	ReturningClause(column string) string

	// InitStatements run once per Open, before migrations.
	InitStatements() []string

	IsDuplicateKeyError(err error) bool

	// CaseInsensitiveText is the column type for text compared without case.
	CaseInsensitiveText() string

	// AutoIncrementPrimaryKey is the column definition of a generated id.
	AutoIncrementPrimaryKey() string
}

// DialectType identifies the database dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the dialect for a driver name. Unknown names get SQLite.
func NewDialect(dialectType DialectType) Dialect {
	switch dialectType {
	case DialectPostgres:
		return &PostgresDialect{}
	default:
		return &SQLiteDialect{}
	}
}

// SQLiteDialect targets modernc.org/sqlite.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string { return "sqlite" }
func (d *SQLiteDialect) Placeholder(int) string { return "?" }
func (d *SQLiteDialect) SupportsLastInsertID() bool { return true }
func (d *SQLiteDialect) ReturningClause(string) string { return "" }
func (d *SQLiteDialect) CaseInsensitiveText() string { return "TEXT COLLATE NOCASE" }
func (d *SQLiteDialect) AutoIncrementPrimaryKey() string { return "INTEGER PRIMARY KEY AUTOINCREMENT" }

// InitStatements enables foreign keys and WAL, and waits on locks instead of
// failing immediately.
func (d *SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

func (d *SQLiteDialect) IsDuplicateKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// PostgresDialect targets github.com/lib/pq.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string { return "postgres" }
func (d *PostgresDialect) Placeholder(position int) string { return fmt.Sprintf("$%d", position) }
func (d *PostgresDialect) SupportsLastInsertID() bool { return false }
func (d *PostgresDialect) CaseInsensitiveText() string { return "CITEXT" }
func (d *PostgresDialect) AutoIncrementPrimaryKey() string { return "BIGSERIAL PRIMARY KEY" }

func (d *PostgresDialect) ReturningClause(column string) string {
	return " RETURNING " + column
}

// InitStatements installs citext, which backs CaseInsensitiveText.
func (d *PostgresDialect) InitStatements() []string {
	return []string{"CREATE EXTENSION IF NOT EXISTS citext"}
}

// IsDuplicateKeyError matches unique_violation (SQLSTATE 23505).
func (d *PostgresDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505") ||
		strings.Contains(msg, "unique constraint")
}
