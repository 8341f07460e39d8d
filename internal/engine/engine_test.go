package engine

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/lockkey"
	"github.com/lawnchairsociety/delvegen/internal/seedcodec"
)

func generate(t *testing.T, levelNumber int, opts Options) *Result {
	t.Helper()
	res, err := New(DefaultConfig()).GenerateLevel(levelNumber, difficulty.DefaultStats(), opts)
	if err != nil {
		t.Fatalf("GenerateLevel(%d, %+v) failed: %v", levelNumber, opts, err)
	}
	return res
}

func TestGenerateLevelScenario(t *testing.T) {
	res := generate(t, 6, Options{Seed: 42, Theme: "dungeon", MinRooms: 5, MaxRooms: 8})
	d := res.Dungeon

	main := d.MainRooms()
	if len(main) < 5 || len(main) > 8 {
		t.Errorf("room count = %d, want 5-8", len(main))
	}

	starts, goals := 0, 0
	for _, room := range main {
		switch room.Type {
		case dungeon.RoomStart:
			starts++
		case dungeon.RoomEnd, dungeon.RoomBoss:
			goals++
		}
	}
	if starts != 1 {
		t.Errorf("start rooms = %d, want 1", starts)
	}
	if goals != 1 {
		t.Errorf("end or boss rooms = %d, want 1", goals)
	}

	reach := d.ReachableFromSpawn()
	for _, room := range d.Rooms {
		if !reach.Has(room.Center()) {
			t.Errorf("room %d (%s) not connected to start", room.ID, room.Type)
		}
	}

	if res.LevelNumber != 6 || res.Difficulty.Level != 3.5 {
		t.Errorf("level = %d, difficulty = %v, want 6, 3.5", res.LevelNumber, res.Difficulty.Level)
	}
}

func TestGenerateLevelDeterministic(t *testing.T) {
	for _, seed := range []int64{1, 42, 7919, 123456} {
		opts := Options{Seed: seed}
		a := generate(t, 4, opts)
		b := generate(t, 4, opts)

		if a.Seed != b.Seed {
			t.Errorf("seed %d: codes differ %s vs %s", seed, a.Seed, b.Seed)
		}
		if !reflect.DeepEqual(a.Tiles, b.Tiles) {
			t.Errorf("seed %d: tiles differ", seed)
		}
		if !reflect.DeepEqual(a.Entities, b.Entities) {
			t.Errorf("seed %d: entities differ", seed)
		}
		if a.Spawn != b.Spawn || a.Exit != b.Exit {
			t.Errorf("seed %d: spawn/exit differ", seed)
		}
	}
}

func TestGenerateLevelWorldUnits(t *testing.T) {
	res := generate(t, 3, Options{Seed: 5})
	ts := res.TileSize

	if res.Spawn.X%ts != ts/2 || res.Spawn.Y%ts != ts/2 {
		t.Errorf("spawn %+v is not a tile centre", res.Spawn)
	}
	if res.Bounds.MaxX != res.Dungeon.Grid.Width*ts || res.Bounds.MaxY != res.Dungeon.Grid.Height*ts {
		t.Errorf("bounds = %+v for %dx%d grid", res.Bounds, res.Dungeon.Grid.Width, res.Dungeon.Grid.Height)
	}
	for _, tile := range res.Tiles {
		if tile.W != ts || tile.H != ts || tile.X%ts != 0 || tile.Y%ts != 0 {
			t.Fatalf("tile %+v not aligned to %d", tile, ts)
		}
		if tile.Type == "void" {
			t.Fatal("void tiles should be left out")
		}
	}
}

func TestGenerateLevelSolvable(t *testing.T) {
	for seed := int64(1); seed <= 15; seed++ {
		res := generate(t, 8, Options{Seed: seed})
		e := res.Entities
		if stuck := lockkey.Verify(res.Dungeon, e.Keys, e.Doors); len(stuck) > 0 {
			t.Errorf("seed %d: doors %v unopenable", seed, stuck)
		}
		if !res.Dungeon.ReachableFromSpawn().Has(res.Dungeon.Exit) {
			t.Errorf("seed %d: exit unreachable", seed)
		}
	}
}

func TestGenerateFromSeed(t *testing.T) {
	eng := New(DefaultConfig())
	for _, opts := range []Options{
		{Seed: 42, Theme: "crypt"},
		{SeedPhrase: "the lich sleeps", MinRooms: 6, MaxRooms: 9},
		{Seed: 77, Algorithm: dungeon.AlgorithmWFC, Theme: "cavern"},
	} {
		orig, err := eng.GenerateLevel(5, difficulty.Stats{DeathsInLevel: 1, AverageHealth: 90, AverageSanity: 50}, opts)
		if err != nil {
			t.Fatalf("GenerateLevel(%+v) failed: %v", opts, err)
		}

		again, err := eng.GenerateFromSeed(orig.Seed)
		if err != nil {
			t.Fatalf("GenerateFromSeed(%s) failed: %v", orig.Seed, err)
		}
		if again.Seed != orig.Seed {
			t.Errorf("code = %s, want %s", again.Seed, orig.Seed)
		}
		c, err := seedcodec.Decode(orig.Seed)
		if err != nil {
			t.Fatalf("Decode(%s) failed: %v", orig.Seed, err)
		}
		if c.Rooms != len(orig.Dungeon.MainRooms()) {
			t.Errorf("code rooms = %d, want %d", c.Rooms, len(orig.Dungeon.MainRooms()))
		}
		if len(again.Dungeon.MainRooms()) != c.Rooms {
			t.Errorf("rebuilt rooms = %d, want %d", len(again.Dungeon.MainRooms()), c.Rooms)
		}
		if again.Difficulty != orig.Difficulty {
			t.Errorf("difficulty = %+v, want %+v", again.Difficulty, orig.Difficulty)
		}
		if !reflect.DeepEqual(again.Tiles, orig.Tiles) {
			t.Errorf("%+v: tiles differ after round trip", opts)
		}
		if !reflect.DeepEqual(again.Entities, orig.Entities) {
			t.Errorf("%+v: entities differ after round trip", opts)
		}
	}

	if _, err := eng.GenerateFromSeed("not-a-seed"); err == nil {
		t.Error("GenerateFromSeed(garbage) should fail")
	}
}

func TestGenerateFromSeedRoomMismatch(t *testing.T) {
	eng := New(DefaultConfig())
	orig := generate(t, 6, Options{Seed: 42, Theme: "dungeon", MinRooms: 5, MaxRooms: 8})

	c, err := seedcodec.Decode(orig.Seed)
	if err != nil {
		t.Fatalf("Decode(%s) failed: %v", orig.Seed, err)
	}
	if c.Seed != 42 || c.Theme != "dungeon" || c.Difficulty != 3.5 || c.Rooms != len(orig.Dungeon.MainRooms()) {
		t.Errorf("decoded code = %+v", c)
	}

	c.Rooms--
	if _, err := eng.GenerateFromSeed(seedcodec.Encode(c)); !errors.Is(err, ErrSeedMismatch) {
		t.Errorf("GenerateFromSeed(wrong room count) error = %v, want ErrSeedMismatch", err)
	}
}

func TestGenerateLevelSeedPhrase(t *testing.T) {
	a := generate(t, 2, Options{SeedPhrase: "moss"})
	b := generate(t, 2, Options{SeedPhrase: "moss"})
	c := generate(t, 2, Options{SeedPhrase: "rust"})
	if a.Seed != b.Seed {
		t.Error("same phrase produced different codes")
	}
	if a.Seed == c.Seed {
		t.Error("different phrases produced the same code")
	}
}

func TestGenerateLevelWFC(t *testing.T) {
	res := generate(t, 4, Options{Seed: 9, Algorithm: dungeon.AlgorithmWFC})
	if len(res.Dungeon.Rooms) != 0 {
		t.Errorf("wfc layout has %d rooms", len(res.Dungeon.Rooms))
	}
	if len(res.Entities.Keys) != 0 || len(res.Entities.Doors) != 0 || len(res.Entities.Puzzles) != 0 {
		t.Error("wfc layout should not get locks or puzzles")
	}
	if len(res.Tiles) == 0 || len(res.Entities.Monsters) == 0 {
		t.Errorf("tiles = %d, monsters = %d", len(res.Tiles), len(res.Entities.Monsters))
	}
}

func TestGenerateLevelInvalidConfig(t *testing.T) {
	_, err := New(DefaultConfig()).GenerateLevel(1, difficulty.DefaultStats(), Options{Algorithm: "bsp"})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("error = %v, want ErrGenerationFailed", err)
	}
	if !errors.Is(err, dungeon.ErrInvalidConfig) {
		t.Errorf("error = %v, want it to wrap ErrInvalidConfig", err)
	}
}

func TestGenerateLevels(t *testing.T) {
	chain, err := New(DefaultConfig()).GenerateLevels(10, difficulty.DefaultStats(), Options{Seed: 42})
	if err != nil {
		t.Fatalf("GenerateLevels() failed: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("levels = %d, want 3", len(chain))
	}

	for i, res := range chain {
		if res.Depth != i {
			t.Errorf("level %d depth = %d", i, res.Depth)
		}
		hasUp, hasDown := res.StairsUp != nil, res.StairsDown != nil
		if hasUp != (i > 0) || hasDown != (i < len(chain)-1) {
			t.Errorf("level %d: up = %v, down = %v", i, hasUp, hasDown)
		}
		if hasDown && res.StairsDown.Target != i+1 {
			t.Errorf("level %d: down leads to %d", i, res.StairsDown.Target)
		}
		if hasUp && res.StairsUp.Target != i-1 {
			t.Errorf("level %d: up leads to %d", i, res.StairsUp.Target)
		}
		if hasDown && res.Dungeon.Grid.At(res.StairsDown.Position) != dungeon.TileStairsDown {
			t.Errorf("level %d: no stairs tile at %v", i, res.StairsDown.Position)
		}
		if i > 0 && res.Seed == chain[i-1].Seed {
			t.Errorf("level %d reuses the seed of level %d", i, i-1)
		}
	}

	if chain[1].Difficulty.Level <= chain[0].Difficulty.Level {
		t.Errorf("deeper level is not harder: %v then %v", chain[0].Difficulty.Level, chain[1].Difficulty.Level)
	}
}

func TestConcurrentGeneration(t *testing.T) {
	eng := New(DefaultConfig())
	seeds := []int64{3, 14, 15, 92, 65, 35, 89, 79}

	want := make([]*Result, len(seeds))
	for i, s := range seeds {
		want[i] = generate(t, 5, Options{Seed: s})
	}

	got := make([]*Result, len(seeds))
	errs := make([]error, len(seeds))
	var wg sync.WaitGroup
	for i, s := range seeds {
		wg.Add(1)
		go func(i int, s int64) {
			defer wg.Done()
			got[i], errs[i] = eng.GenerateLevel(5, difficulty.DefaultStats(), Options{Seed: s})
		}(i, s)
	}
	wg.Wait()

	for i := range seeds {
		if errs[i] != nil {
			t.Errorf("seed %d: %v", seeds[i], errs[i])
			continue
		}
		if !reflect.DeepEqual(got[i].Tiles, want[i].Tiles) || !reflect.DeepEqual(got[i].Entities, want[i].Entities) {
			t.Errorf("seed %d: concurrent result differs from sequential", seeds[i])
		}
	}
}
