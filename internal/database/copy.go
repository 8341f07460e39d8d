package database

import (
	"errors"
	"fmt"
)

// CopyStats counts the outcome of CopyRuns.
type CopyStats struct {
	Copied  int
	Skipped int // already present in the destination
}

// CopyRuns copies every run from d into dst, oldest first, keeping seed codes
// and creation times. Runs whose seed code dst already holds are skipped, so
// a copy can be re-run safely. With dryRun set nothing is written.
func (d *Database) CopyRuns(dst *Database, dryRun bool) (CopyStats, error) {
	var stats CopyStats

	runs, err := d.listRuns("SELECT " + runColumns + " FROM generation_runs ORDER BY id ASC")
	if err != nil {
		return stats, err
	}

	for _, run := range runs {
		if dryRun {
			if _, err := dst.GetRunByCode(run.SeedCode); err == nil {
				stats.Skipped++
			} else {
				stats.Copied++
			}
			continue
		}

		copied := *run
		copied.ID = 0
		err := dst.RecordRun(&copied)
		switch {
		case errors.Is(err, ErrRunExists):
			stats.Skipped++
		case err != nil:
			return stats, fmt.Errorf("copy %s: %w", run.SeedCode, err)
		default:
			stats.Copied++
		}
	}
	return stats, nil
}
