package database

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewDialect(t *testing.T) {
	tests := []struct {
		kind DialectType
		want string
	}{
		{DialectSQLite, "sqlite"},
		{DialectPostgres, "postgres"},
		{"unknown", "sqlite"},
	}
	for _, tt := range tests {
		if got := NewDialect(tt.kind).DriverName(); got != tt.want {
			t.Errorf("NewDialect(%q).DriverName() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestDialect_InterfaceCompliance(t *testing.T) {
	var _ Dialect = (*SQLiteDialect)(nil)
	var _ Dialect = (*PostgresDialect)(nil)
}

func TestDialect_Placeholder(t *testing.T) {
	tests := []struct {
		dialect  Dialect
		position int
		want     string
	}{
		{&SQLiteDialect{}, 1, "?"},
		{&SQLiteDialect{}, 12, "?"},
		{&PostgresDialect{}, 1, "$1"},
		{&PostgresDialect{}, 12, "$12"},
	}
	for _, tt := range tests {
		if got := tt.dialect.Placeholder(tt.position); got != tt.want {
			t.Errorf("%T.Placeholder(%d) = %q, want %q", tt.dialect, tt.position, got, tt.want)
		}
	}
}

func TestDialect_InsertIDs(t *testing.T) {
	sqlite, pg := &SQLiteDialect{}, &PostgresDialect{}

	if !sqlite.SupportsLastInsertID() || sqlite.ReturningClause("id") != "" {
		t.Error("sqlite should use LastInsertId without RETURNING")
	}
	if pg.SupportsLastInsertID() || pg.ReturningClause("id") != " RETURNING id" {
		t.Error("postgres should use RETURNING id")
	}
}

func TestDialect_SchemaFragments(t *testing.T) {
	tests := []struct {
		dialect Dialect
		text    string
		pk      string
	}{
		{&SQLiteDialect{}, "TEXT COLLATE NOCASE", "INTEGER PRIMARY KEY AUTOINCREMENT"},
		{&PostgresDialect{}, "CITEXT", "BIGSERIAL PRIMARY KEY"},
	}
	for _, tt := range tests {
		if got := tt.dialect.CaseInsensitiveText(); got != tt.text {
			t.Errorf("%T.CaseInsensitiveText() = %q, want %q", tt.dialect, got, tt.text)
		}
		if got := tt.dialect.AutoIncrementPrimaryKey(); got != tt.pk {
			t.Errorf("%T.AutoIncrementPrimaryKey() = %q, want %q", tt.dialect, got, tt.pk)
		}
	}
}

func TestDialect_InitStatements(t *testing.T) {
	sqlite := (&SQLiteDialect{}).InitStatements()
	if len(sqlite) != 3 || sqlite[1] != "PRAGMA journal_mode = WAL" {
		t.Errorf("sqlite InitStatements() = %v", sqlite)
	}
	pg := (&PostgresDialect{}).InitStatements()
	if len(pg) != 1 || !strings.Contains(pg[0], "citext") {
		t.Errorf("postgres InitStatements() = %v", pg)
	}
}

func TestDialect_IsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		dialect Dialect
		err     error
		want    bool
	}{
		{&SQLiteDialect{}, nil, false},
		{&SQLiteDialect{}, errors.New("UNIQUE constraint failed: generation_runs.seed_code"), true},
		{&SQLiteDialect{}, errors.New("no such table: generation_runs"), false},
		{&PostgresDialect{}, nil, false},
		{&PostgresDialect{}, errors.New(`pq: duplicate key value violates unique constraint "generation_runs_seed_code_key"`), true},
		{&PostgresDialect{}, errors.New("ERROR (SQLSTATE 23505)"), true},
		{&PostgresDialect{}, errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		if got := tt.dialect.IsDuplicateKeyError(tt.err); got != tt.want {
			t.Errorf("%T.IsDuplicateKeyError(%v) = %v, want %v", tt.dialect, tt.err, got, tt.want)
		}
	}
}

func TestQueryBuilder_Build(t *testing.T) {
	tests := []struct {
		dialect Dialect
		input   string
		want    string
	}{
		{&SQLiteDialect{}, "SELECT * FROM generation_runs WHERE seed_code = ?", "SELECT * FROM generation_runs WHERE seed_code = ?"},
		{&PostgresDialect{}, "SELECT * FROM generation_runs WHERE seed_code = ?", "SELECT * FROM generation_runs WHERE seed_code = $1"},
		{&PostgresDialect{}, "SELECT * FROM generation_runs WHERE theme = ? LIMIT ?", "SELECT * FROM generation_runs WHERE theme = $1 LIMIT $2"},
		{&PostgresDialect{}, "SELECT COUNT(*) FROM generation_runs", "SELECT COUNT(*) FROM generation_runs"},
		{&PostgresDialect{}, "", ""},
		{
			&PostgresDialect{},
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		},
	}
	for _, tt := range tests {
		if got := NewQueryBuilder(tt.dialect).Build(tt.input); got != tt.want {
			t.Errorf("%T Build(%q) = %q, want %q", tt.dialect, tt.input, got, tt.want)
		}
	}
}

func TestQueryBuilder_BuildWithReturning(t *testing.T) {
	query := "INSERT INTO generation_runs (seed_code, seed) VALUES (?, ?)"

	if got := NewQueryBuilder(&SQLiteDialect{}).BuildWithReturning(query, "id"); got != query {
		t.Errorf("sqlite BuildWithReturning() = %q", got)
	}
	want := "INSERT INTO generation_runs (seed_code, seed) VALUES ($1, $2) RETURNING id"
	if got := NewQueryBuilder(&PostgresDialect{}).BuildWithReturning(query, "id"); got != want {
		t.Errorf("postgres BuildWithReturning() = %q, want %q", got, want)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("data/runs.db")
	if cfg.Driver != "sqlite" || cfg.SQLitePath != "data/runs.db" {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}

	pg := DefaultPostgresConfig()
	if pg.Port != 5432 || pg.SSLMode != "disable" || pg.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("DefaultPostgresConfig() = %+v", pg)
	}
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5433, User: "gen", Database: "runs", SSLMode: "require"}
	want := "host=db port=5433 user=gen dbname=runs sslmode=require"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}

	cfg.Password = "secret"
	if got := cfg.DSN(); !strings.HasSuffix(got, " password=secret") {
		t.Errorf("DSN() with password = %q", got)
	}
}
