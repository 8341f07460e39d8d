package hazard

import (
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/rng"
)

func at(def Def) *Hazard {
	return newHazard(1, def, 0, dungeon.Point{X: 5, Y: 5}, difficulty.Descriptor{MonsterStrength: 1})
}

func defOf(k Kind) Def {
	for _, d := range Defs {
		if d.Kind == k {
			return d
		}
	}
	panic("unknown hazard " + string(k))
}

func TestEligible(t *testing.T) {
	tests := []struct {
		level float64
		want  int
	}{
		{1, 2},
		{3, 3},
		{4.9, 3},
		{5, 4},
		{7, 5},
		{10, 5},
	}
	for _, tc := range tests {
		if got := len(Eligible(tc.level)); got != tc.want {
			t.Errorf("len(Eligible(%v)) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		rooms   int
		density float64
		want    int
	}{
		{6, 0.05, 1},
		{8, 0.25, 3},
		{10, 0.45, 6},
		{0, 0.6, 0},
	}
	for _, tc := range tests {
		if got := Count(tc.rooms, tc.density); got != tc.want {
			t.Errorf("Count(%d, %v) = %d, want %d", tc.rooms, tc.density, got, tc.want)
		}
	}
}

func TestSpikesStep(t *testing.T) {
	h := at(defOf(KindSpikes))

	if got := h.Update(1.5, 1.5, 0.1); got != 0 {
		t.Errorf("off tile damage = %d, want 0", got)
	}
	if got := h.Update(5.5, 5.5, 0.1); got != 8 {
		t.Errorf("stepping on = %d, want 8", got)
	}
	if got := h.Update(5.2, 5.8, 0.1); got != 0 {
		t.Errorf("standing still = %d, want 0", got)
	}
	h.Update(7, 7, 0.1)
	if got := h.Update(5.5, 5.5, 0.1); got != 8 {
		t.Errorf("stepping on again = %d, want 8", got)
	}
}

func TestCollapseDelayed(t *testing.T) {
	h := at(defOf(KindCollapse))

	total := 0
	for i := 0; i < 14; i++ {
		total += h.Update(5.5, 5.5, 0.1)
	}
	if total != 0 || h.Disabled {
		t.Fatalf("collapsed after 1.4s, damage %d", total)
	}

	// Leaving resets exposure
	h.Update(0, 0, 0.1)
	for i := 0; i < 14; i++ {
		total += h.Update(5.5, 5.5, 0.1)
	}
	if total != 0 {
		t.Fatalf("exposure was not reset, damage %d", total)
	}

	total += h.Update(5.5, 5.5, 0.2)
	if total != 20 || !h.Disabled {
		t.Errorf("collapse damage = %d, disabled = %v", total, h.Disabled)
	}
	if got := h.Update(5.5, 5.5, 5); got != 0 {
		t.Errorf("disabled hazard dealt %d", got)
	}
}

func TestFireArea(t *testing.T) {
	h := at(defOf(KindFire))

	total := h.Update(6.5, 5.5, 0.25)
	total += h.Update(6.5, 5.5, 0.25)
	total += h.Update(6.5, 5.5, 0.5)
	if total != 6 {
		t.Errorf("one second in fire = %d, want 6", total)
	}
	if got := h.Update(8, 8, 1); got != 0 {
		t.Errorf("outside radius = %d, want 0", got)
	}
}

func TestPoisonProximity(t *testing.T) {
	h := at(defOf(KindPoison))

	if got := h.Update(7.4, 5.5, 0.1); got != 4 {
		t.Errorf("entering radius = %d, want 4", got)
	}
	if got := h.Update(7.4, 5.5, 0.1); got != 0 {
		t.Errorf("staying in radius = %d, want 0", got)
	}
	if got := h.Update(8.6, 5.5, 0.1); got != 0 {
		t.Errorf("outside radius = %d, want 0", got)
	}
}

func TestElectricTimed(t *testing.T) {
	h := at(defOf(KindElectric))

	if got := h.Update(5.5, 5.5, 1.5); got != 0 {
		t.Errorf("before pulse = %d, want 0", got)
	}
	if got := h.Update(5.5, 5.5, 0.5); got != 10 {
		t.Errorf("pulse = %d, want 10", got)
	}
	// The timer runs even when nobody is near
	if got := h.Update(20, 20, 2); got != 0 {
		t.Errorf("pulse far away = %d, want 0", got)
	}
	if got := h.Update(5.5, 5.5, 4); got != 20 {
		t.Errorf("two pulses = %d, want 20", got)
	}
}

func TestPlace(t *testing.T) {
	for _, level := range []float64{2, 8} {
		cfg := dungeon.DefaultConfig()
		r := rng.New(42)
		desc := difficulty.FromLevel(level)
		d, err := dungeon.NewBuilder(cfg, desc, r).Build()
		if err != nil {
			t.Skipf("Build() failed: %v", err)
		}

		hazards := Place(d, r)
		if len(hazards) > Count(len(d.MainRooms()), desc.TrapDensity) {
			t.Errorf("level %v: %d hazards, more than Count", level, len(hazards))
		}
		for _, h := range hazards {
			def := defOf(h.Kind)
			if def.MinLevel > level {
				t.Errorf("level %v: %s not eligible", level, h.Kind)
			}
			room := d.Room(h.RoomID)
			if room == nil || room.Type == dungeon.RoomStart {
				t.Errorf("level %v: %s in start or no room", level, h.ID)
			}
			if !d.Grid.At(h.Position).Walkable() {
				t.Errorf("level %v: %s on %s", level, h.ID, d.Grid.At(h.Position))
			}
		}
	}
}
