package wfc

import (
	"errors"
	"math"
	"testing"

	"github.com/lawnchairsociety/delvegen/internal/rng"
)

func TestNewSolver(t *testing.T) {
	solver, err := NewSolver(10, 8, nil, rng.New(42))
	if err != nil {
		t.Fatalf("NewSolver() failed: %v", err)
	}

	if solver.Width != 10 {
		t.Errorf("Width = %d, want 10", solver.Width)
	}
	if solver.Height != 8 {
		t.Errorf("Height = %d, want 8", solver.Height)
	}
	if len(solver.Grid) != 8 || len(solver.Grid[0]) != 10 {
		t.Fatalf("Grid is %dx%d, want 10x8", len(solver.Grid[0]), len(solver.Grid))
	}
	if got := solver.Grid[0][0].Possible.Count(); got != 16 {
		t.Errorf("initial possibilities = %d, want 16", got)
	}
}

func TestNewSolverInvalidSize(t *testing.T) {
	if _, err := NewSolver(0, 5, nil, rng.New(1)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("NewSolver(0,5) error = %v, want ErrInvalidSize", err)
	}
}

func TestCellEntropy(t *testing.T) {
	catalog := DefaultCatalog()

	single := &Cell{Possible: Bitset(0).With(3)}
	if got := single.Entropy(catalog); got != 0 {
		t.Errorf("singleton Entropy() = %v, want 0", got)
	}

	// Two tiles of equal weight: ln 2
	pair := &Cell{Possible: Bitset(0).With(1).With(2)}
	if got := pair.Entropy(catalog); math.Abs(got-math.Ln2) > 1e-12 {
		t.Errorf("pair Entropy() = %v, want %v", got, math.Ln2)
	}

	full := &Cell{Possible: FullSet(16)}
	if full.Entropy(catalog) <= pair.Entropy(catalog) {
		t.Error("full set should have higher entropy than a pair")
	}
}

func TestSolveCollapsesEveryCell(t *testing.T) {
	solver, _ := NewSolver(12, 9, nil, rng.New(7))
	tiles, err := solver.Solve()
	if err != nil {
		t.Fatalf("Solve() failed: %v", err)
	}

	if len(tiles) != 12*9 {
		t.Fatalf("len(tiles) = %d, want %d", len(tiles), 12*9)
	}
	for y := 0; y < solver.Height; y++ {
		for x := 0; x < solver.Width; x++ {
			cell := solver.Grid[y][x]
			if !cell.Collapsed {
				t.Errorf("cell (%d,%d) not collapsed", x, y)
			}
			if cell.Possible.Count() != 1 {
				t.Errorf("cell (%d,%d) has %d possibilities", x, y, cell.Possible.Count())
			}
		}
	}
}

func TestSolveAdjacencyValid(t *testing.T) {
	rules := DefaultRules()
	for _, seed := range []int64{1, 42, 999, 123456} {
		solver, _ := NewSolver(10, 10, rules, rng.New(seed))
		solver.ClosedBorder = seed%2 == 0
		tiles, err := solver.Solve()
		if err != nil {
			t.Fatalf("seed %d: Solve() failed: %v", seed, err)
		}
		result := &Result{Width: 10, Height: 10, Tiles: tiles}
		if err := result.CheckAdjacency(rules); err != nil {
			t.Errorf("seed %d: %v", seed, err)
		}
	}
}

func TestSolveClosedBorder(t *testing.T) {
	solver, _ := NewSolver(8, 6, nil, rng.New(31))
	solver.ClosedBorder = true
	tiles, err := solver.Solve()
	if err != nil {
		t.Fatalf("Solve() failed: %v", err)
	}

	for _, tile := range tiles {
		if tile.Y == 0 && tile.Type.Open(North) {
			t.Errorf("(%d,%d) %s opens north off the grid", tile.X, tile.Y, tile.Type)
		}
		if tile.Y == 5 && tile.Type.Open(South) {
			t.Errorf("(%d,%d) %s opens south off the grid", tile.X, tile.Y, tile.Type)
		}
		if tile.X == 0 && tile.Type.Open(West) {
			t.Errorf("(%d,%d) %s opens west off the grid", tile.X, tile.Y, tile.Type)
		}
		if tile.X == 7 && tile.Type.Open(East) {
			t.Errorf("(%d,%d) %s opens east off the grid", tile.X, tile.Y, tile.Type)
		}
	}
}

func TestSolveDeterministic(t *testing.T) {
	solve := func() []Tile {
		solver, _ := NewSolver(10, 10, nil, rng.New(2024))
		tiles, err := solver.Solve()
		if err != nil {
			t.Fatalf("Solve() failed: %v", err)
		}
		return tiles
	}

	a, b := solve(), solve()
	for i := range a {
		if a[i].Type.ID != b[i].Type.ID {
			t.Fatalf("tile %d differs: %s vs %s", i, a[i].Type, b[i].Type)
		}
	}
}

func TestSolveContradiction(t *testing.T) {
	// A lone north dead end can never have a neighbour to its north.
	catalog := Catalog{{ID: 0, Name: "dead_end_n", Connectors: [4]uint8{1, 0, 0, 0}, Weight: 1}}
	rules, err := NewRules(catalog)
	if err != nil {
		t.Fatalf("NewRules() failed: %v", err)
	}

	solver, _ := NewSolver(3, 3, rules, rng.New(1))
	if _, err := solver.Solve(); !errors.Is(err, ErrContradiction) {
		t.Errorf("Solve() error = %v, want ErrContradiction", err)
	}
}

func TestSortTilesByPosition(t *testing.T) {
	tiles := []Tile{{X: 2, Y: 1}, {X: 0, Y: 1}, {X: 5, Y: 0}}
	SortTilesByPosition(tiles)

	if tiles[0].X != 5 || tiles[1].X != 0 || tiles[2].X != 2 {
		t.Errorf("unexpected order: %+v", tiles)
	}
}
