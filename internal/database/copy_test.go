package database

import (
	"fmt"
	"testing"
)

func TestCopyRuns(t *testing.T) {
	src, dst := openTestDB(t), openTestDB(t)

	for i := 0; i < 4; i++ {
		if err := src.RecordRun(sampleRun(fmt.Sprintf("d1-src%d", i))); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}
	if err := dst.RecordRun(sampleRun("d1-src1")); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	dry, err := src.CopyRuns(dst, true)
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if dry != (CopyStats{Copied: 3, Skipped: 1}) {
		t.Errorf("dry run = %+v, want 3 copied, 1 skipped", dry)
	}
	if n, _ := dst.CountRuns(); n != 1 {
		t.Errorf("dry run wrote %d runs", n-1)
	}

	stats, err := src.CopyRuns(dst, false)
	if err != nil {
		t.Fatalf("CopyRuns() failed: %v", err)
	}
	if stats != (CopyStats{Copied: 3, Skipped: 1}) {
		t.Errorf("CopyRuns() = %+v, want 3 copied, 1 skipped", stats)
	}

	orig, _ := src.GetRunByCode("d1-src3")
	got, err := dst.GetRunByCode("d1-src3")
	if err != nil {
		t.Fatalf("copied run missing: %v", err)
	}
	if !got.CreatedAt.Equal(orig.CreatedAt) || got.Theme != orig.Theme || got.RoomCount != orig.RoomCount {
		t.Errorf("copied run = %+v, want %+v", got, orig)
	}

	again, err := src.CopyRuns(dst, false)
	if err != nil || again.Copied != 0 || again.Skipped != 4 {
		t.Errorf("second CopyRuns() = %+v, %v, want everything skipped", again, err)
	}
}
