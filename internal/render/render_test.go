package render

import (
	"strings"
	"testing"

	"github.com/gookit/color"
	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/engine"
	"github.com/lawnchairsociety/delvegen/internal/lockkey"
)

func TestMapPlain(t *testing.T) {
	g, err := dungeon.ParseGrid([]string{
		"#####",
		"#...#",
		"#.+.#",
		"#####",
	})
	if err != nil {
		t.Fatalf("ParseGrid() failed: %v", err)
	}

	marks := Marks(engine.Entities{
		Keys:     []lockkey.Key{{ID: "key_1", Position: dungeon.Point{X: 3, Y: 1}}},
		Monsters: []dungeon.Monster{{ID: "m1", Position: dungeon.Point{X: 3, Y: 2}, Boss: true}},
	}, dungeon.Point{X: 1, Y: 1}, dungeon.Point{X: 1, Y: 2})

	want := "#####\n#@.k#\n#X+B#\n#####\n"
	if got := Map(g, marks, false); got != want {
		t.Errorf("Map() =\n%s\nwant\n%s", got, want)
	}
}

func TestMarksSpawnWins(t *testing.T) {
	p := dungeon.Point{X: 2, Y: 2}
	marks := Marks(engine.Entities{
		Items: []dungeon.Item{{ID: "i1", Position: p}},
	}, p, dungeon.Point{X: 5, Y: 5})
	if marks[p] != GlyphSpawn {
		t.Errorf("marks[%v] = %q, want %q", p, marks[p], GlyphSpawn)
	}
}

func TestLevel(t *testing.T) {
	res, err := engine.New(engine.DefaultConfig()).GenerateLevel(4, difficulty.DefaultStats(), engine.Options{Seed: 42})
	if err != nil {
		t.Fatalf("GenerateLevel() failed: %v", err)
	}

	plain := Level(res, false)
	rows := strings.Split(strings.TrimSuffix(plain, "\n"), "\n")
	if len(rows) != res.Dungeon.Grid.Height {
		t.Errorf("rows = %d, want %d", len(rows), res.Dungeon.Grid.Height)
	}
	if strings.Count(plain, string(GlyphSpawn)) != 1 {
		t.Error("map should show exactly one spawn")
	}

	if got := color.ClearCode(Level(res, true)); got != plain {
		t.Error("coloured map differs from the plain map once codes are stripped")
	}

	sum := Summary(res)
	if !strings.Contains(sum, res.Seed) || !strings.Contains(sum, "monsters=") {
		t.Errorf("Summary() = %s", sum)
	}
}

func TestLegend(t *testing.T) {
	legend := Legend(false)
	for _, want := range []string{"wall", "locked door", "boss", "hazard"} {
		if !strings.Contains(legend, want) {
			t.Errorf("legend missing %q", want)
		}
	}
}
