package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRunNotFound is returned when no run has the requested seed code.
	ErrRunNotFound = errors.New("generation run not found")

	// ErrRunExists is returned when a seed code has already been recorded.
	ErrRunExists = errors.New("generation run already recorded")
)

// Run is one recorded generation.
type Run struct {
	ID          int64
	SeedCode    string
	Seed        int64
	Theme       string
	Algorithm   string
	Difficulty  float64
	MinRooms    int
	MaxRooms    int
	LevelNumber int
	RoomCount   int
	CreatedAt   time.Time
}

const runColumns = "id, seed_code, seed, theme, algorithm, difficulty, min_rooms, max_rooms, level_number, room_count, created_at"

// RecordRun stores a run and fills in its ID. A zero CreatedAt is set to now;
// a set one is kept, so migrated runs keep their original time. Recording the
// same seed code twice returns ErrRunExists.
func (d *Database) RecordRun(run *Run) error {
	if run.SeedCode == "" {
		return errors.New("seed code cannot be empty")
	}
	if run.Algorithm == "" {
		run.Algorithm = "rooms"
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := d.qb.BuildWithReturning(
		`INSERT INTO generation_runs
			(seed_code, seed, theme, algorithm, difficulty, min_rooms, max_rooms, level_number, room_count, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"id",
	)
	args := []any{
		run.SeedCode, run.Seed, run.Theme, run.Algorithm, run.Difficulty,
		run.MinRooms, run.MaxRooms, run.LevelNumber, run.RoomCount, run.CreatedAt,
	}

	var id int64
	if d.dialect.SupportsLastInsertID() {
		result, err := d.db.Exec(query, args...)
		if err != nil {
			return d.insertError(err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get run ID: %w", err)
		}
	} else if err := d.db.QueryRow(query, args...).Scan(&id); err != nil {
		return d.insertError(err)
	}

	run.ID = id
	return nil
}

func (d *Database) insertError(err error) error {
	if d.dialect.IsDuplicateKeyError(err) {
		return ErrRunExists
	}
	return fmt.Errorf("failed to record run: %w", err)
}

// GetRunByCode retrieves the run recorded for a seed code.
func (d *Database) GetRunByCode(code string) (*Run, error) {
	row := d.db.QueryRow(
		d.qb.Build("SELECT "+runColumns+" FROM generation_runs WHERE seed_code = ?"),
		code,
	)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRecentRuns returns up to limit runs, newest first.
func (d *Database) ListRecentRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return d.listRuns(
		d.qb.Build("SELECT "+runColumns+" FROM generation_runs ORDER BY id DESC LIMIT ?"),
		limit,
	)
}

// ListRunsByTheme returns every run of a theme, newest first. Theme matching
// ignores case.
func (d *Database) ListRunsByTheme(theme string) ([]*Run, error) {
	return d.listRuns(
		d.qb.Build("SELECT "+runColumns+" FROM generation_runs WHERE theme = ? ORDER BY id DESC"),
		theme,
	)
}

// CountRuns returns the number of recorded runs.
func (d *Database) CountRuns() (int, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM generation_runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

func (d *Database) listRuns(query string, args ...any) ([]*Run, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var createdAt sql.NullTime
	err := s.Scan(
		&run.ID, &run.SeedCode, &run.Seed, &run.Theme, &run.Algorithm, &run.Difficulty,
		&run.MinRooms, &run.MaxRooms, &run.LevelNumber, &run.RoomCount, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	if createdAt.Valid {
		run.CreatedAt = createdAt.Time
	}
	return &run, nil
}
