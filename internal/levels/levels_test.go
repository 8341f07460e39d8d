package levels

import (
	"errors"
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/rng"
)

func TestCount(t *testing.T) {
	tests := []struct {
		depth int
		want  int
	}{
		{0, 2},
		{4, 2},
		{5, 2},
		{10, 3},
		{15, 4},
		{20, 5},
		{99, 5},
	}
	for _, tc := range tests {
		if got := Count(tc.depth); got != tc.want {
			t.Errorf("Count(%d) = %d, want %d", tc.depth, got, tc.want)
		}
	}
}

func TestSeedFor(t *testing.T) {
	if got := SeedFor(42, 0); got != 42 {
		t.Errorf("SeedFor(42, 0) = %d, want 42", got)
	}
	if got := SeedFor(42, 3); got != 3042 {
		t.Errorf("SeedFor(42, 3) = %d, want 3042", got)
	}
}

func buildChain(t *testing.T, base int64, n int) []*Level {
	t.Helper()
	var chain []*Level
	for i := 0; i < n; i++ {
		seed := SeedFor(base, i)
		var d *dungeon.Dungeon
		var r *rng.RNG
		var err error
		for k := 0; k < 8; k++ {
			r = rng.New(rng.Perturb(seed, k))
			d, err = dungeon.NewBuilder(dungeon.DefaultConfig(), difficulty.FromLevel(4), r).Build()
			if err == nil {
				break
			}
		}
		if err != nil {
			t.Fatalf("level %d did not build: %v", i, err)
		}

		lvl := &Level{Depth: i, Seed: seed, Dungeon: d}
		if err := PlaceStairs(lvl, n, r); err != nil {
			t.Fatalf("PlaceStairs(level %d) failed: %v", i, err)
		}
		chain = append(chain, lvl)
	}
	return chain
}

func TestPlaceStairsChain(t *testing.T) {
	chain := buildChain(t, 42, 4)
	if err := ValidateChain(chain); err != nil {
		t.Fatalf("ValidateChain() = %v", err)
	}

	for _, lvl := range chain {
		d := lvl.Dungeon
		for _, s := range []*Stair{lvl.Up, lvl.Down} {
			if s == nil {
				continue
			}
			room := d.Room(s.RoomID)
			if room.Type == dungeon.RoomStart || room.Secret {
				t.Errorf("level %d: stairs in %s room", lvl.Depth, room.Type)
			}
			if !d.ReachableFromSpawn().Has(s.Position) {
				t.Errorf("level %d: stairs at %v unreachable", lvl.Depth, s.Position)
			}
		}
		if lvl.Up != nil && d.Grid.At(lvl.Up.Position) != dungeon.TileStairsUp {
			t.Errorf("level %d: up tile = %s", lvl.Depth, d.Grid.At(lvl.Up.Position))
		}
		if lvl.Down != nil && d.Grid.At(lvl.Down.Position) != dungeon.TileStairsDown {
			t.Errorf("level %d: down tile = %s", lvl.Depth, d.Grid.At(lvl.Down.Position))
		}
	}

	if chain[0].Up != nil || chain[0].Down == nil {
		t.Error("first level should only go down")
	}
	last := chain[len(chain)-1]
	if last.Down != nil || last.Up == nil {
		t.Error("last level should only go up")
	}
}

func TestPlaceStairsDeterministic(t *testing.T) {
	a := buildChain(t, 7, 3)
	b := buildChain(t, 7, 3)
	for i := range a {
		if a[i].Down != nil && *a[i].Down != *b[i].Down {
			t.Errorf("level %d: down stairs differ %+v vs %+v", i, *a[i].Down, *b[i].Down)
		}
		if a[i].Up != nil && *a[i].Up != *b[i].Up {
			t.Errorf("level %d: up stairs differ %+v vs %+v", i, *a[i].Up, *b[i].Up)
		}
	}
}

func TestValidateChainRejects(t *testing.T) {
	down := func(target int) *Stair { return &Stair{Position: dungeon.Point{X: 1, Y: 1}, Target: target} }
	up := func(target int) *Stair { return &Stair{Position: dungeon.Point{X: 2, Y: 2}, Target: target} }

	tests := []struct {
		name  string
		chain []*Level
	}{
		{"single level", []*Level{{Depth: 0}}},
		{"up on first", []*Level{{Depth: 0, Up: up(0), Down: down(1)}, {Depth: 1, Up: up(0)}}},
		{"down on last", []*Level{{Depth: 0, Down: down(1)}, {Depth: 1, Up: up(0), Down: down(2)}}},
		{"missing up", []*Level{{Depth: 0, Down: down(1)}, {Depth: 1}}},
		{"misrouted down", []*Level{{Depth: 0, Down: down(2)}, {Depth: 1, Up: up(0)}}},
		{"shared tile", []*Level{
			{Depth: 0, Down: down(1)},
			{Depth: 1, Up: &Stair{Position: dungeon.Point{X: 1, Y: 1}, Target: 0}, Down: down(2)},
			{Depth: 2, Up: up(1)},
		}},
	}
	for _, tc := range tests {
		if err := ValidateChain(tc.chain); !errors.Is(err, ErrBrokenChain) {
			t.Errorf("%s: ValidateChain() = %v, want ErrBrokenChain", tc.name, err)
		}
	}

	ok := []*Level{{Depth: 0, Down: down(1)}, {Depth: 1, Up: up(0)}}
	if err := ValidateChain(ok); err != nil {
		t.Errorf("ValidateChain(valid) = %v", err)
	}
}
