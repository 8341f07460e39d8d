package difficulty

import (
	"math"
	"testing"
)

func TestComputeLevel(t *testing.T) {
	tests := []struct {
		name        string
		levelNumber int
		stats       Stats
		want        float64
	}{
		{"first level", 1, DefaultStats(), 1},
		{"level six", 6, DefaultStats(), 3.5},
		{"two deaths", 6, Stats{DeathsInLevel: 2, AverageHealth: 60, AverageSanity: 60}, 2.5},
		{"deaths capped at four", 9, Stats{DeathsInLevel: 9, AverageHealth: 60, AverageSanity: 60}, 3},
		{"low health", 6, Stats{AverageHealth: 20, AverageSanity: 60}, 2.5},
		{"high health", 6, Stats{AverageHealth: 95, AverageSanity: 60}, 4},
		{"low sanity", 6, Stats{AverageHealth: 60, AverageSanity: 10}, 3},
		{"clamped low", 1, Stats{DeathsInLevel: 4, AverageHealth: 10, AverageSanity: 10}, 1},
		{"clamped high", 40, Stats{AverageHealth: 90, AverageSanity: 90}, 10},
		{"level zero treated as one", 0, DefaultStats(), 1},
	}

	for _, tc := range tests {
		got := Compute(tc.levelNumber, tc.stats)
		if got.Level != tc.want {
			t.Errorf("%s: Level = %v, want %v", tc.name, got.Level, tc.want)
		}
	}
}

func TestFromLevelFields(t *testing.T) {
	d := FromLevel(3.5)

	if d.MonsterCount != 8 { // round(3 + 5.25)
		t.Errorf("MonsterCount = %d, want 8", d.MonsterCount)
	}
	if math.Abs(d.MonsterStrength-1.22) > 1e-9 {
		t.Errorf("MonsterStrength = %v, want 1.22", d.MonsterStrength)
	}
	if math.Abs(d.TrapDensity-0.19) > 1e-9 {
		t.Errorf("TrapDensity = %v, want 0.19", d.TrapDensity)
	}
	if math.Abs(d.ResourceScarcity-0.31) > 1e-9 {
		t.Errorf("ResourceScarcity = %v, want 0.31", d.ResourceScarcity)
	}
	if math.Abs(d.SecretChance-0.205) > 1e-9 {
		t.Errorf("SecretChance = %v, want 0.205", d.SecretChance)
	}
}

func TestDescriptorRanges(t *testing.T) {
	for lvl := 0.0; lvl <= 12; lvl += 0.25 {
		d := FromLevel(lvl)
		if d.Level < MinLevel || d.Level > MaxLevel {
			t.Errorf("FromLevel(%v).Level = %v", lvl, d.Level)
		}
		if d.MonsterCount < 2 || d.MonsterCount > 30 {
			t.Errorf("FromLevel(%v).MonsterCount = %d", lvl, d.MonsterCount)
		}
		if d.MonsterStrength < 0.5 || d.MonsterStrength > 3 {
			t.Errorf("FromLevel(%v).MonsterStrength = %v", lvl, d.MonsterStrength)
		}
		if d.TrapDensity < 0 || d.TrapDensity > 0.6 {
			t.Errorf("FromLevel(%v).TrapDensity = %v", lvl, d.TrapDensity)
		}
		if d.ResourceScarcity < 0 || d.ResourceScarcity > 0.8 {
			t.Errorf("FromLevel(%v).ResourceScarcity = %v", lvl, d.ResourceScarcity)
		}
		if d.SecretChance < 0.05 || d.SecretChance > 0.5 {
			t.Errorf("FromLevel(%v).SecretChance = %v", lvl, d.SecretChance)
		}
	}
}

func TestFromLevelRebuildsCompute(t *testing.T) {
	original := Compute(7, Stats{DeathsInLevel: 1, AverageHealth: 85, AverageSanity: 25})
	rebuilt := FromLevel(original.Level)
	if rebuilt != original {
		t.Errorf("FromLevel(%v) = %+v, want %+v", original.Level, rebuilt, original)
	}
}

func TestKeepResource(t *testing.T) {
	d := FromLevel(5) // scarcity 0.4, threshold 0.24
	if d.KeepResource(0.2) {
		t.Error("KeepResource(0.2) should drop below threshold")
	}
	if !d.KeepResource(0.5) {
		t.Error("KeepResource(0.5) should keep above threshold")
	}
}
