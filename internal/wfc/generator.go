package wfc

import (
	"fmt"

	"github.com/lawnchairsociety/delvegen/internal/rng"
)

// ExpandFactor is the side of the walkable sub-grid each cell expands into.
const ExpandFactor = 3

// Config contains parameters for a collapse run
type Config struct {
	Width        int
	Height       int
	MaxAttempts  int  // Fresh-grid retries after a contradiction
	ClosedBorder bool // Forbid passages leading off the grid
}

// DefaultConfig returns reasonable defaults for a maze grid
func DefaultConfig() Config {
	return Config{
		Width:        12,
		Height:       12,
		MaxAttempts:  10,
		ClosedBorder: true,
	}
}

// Result is a fully collapsed grid.
type Result struct {
	Width, Height int
	Tiles         []Tile // Scan order: index = y*Width + x
	Attempts      int
}

// At returns the tile at (x, y).
func (r *Result) At(x, y int) Tile {
	return r.Tiles[y*r.Width+x]
}

// Generator runs the solver with bounded retry.
type Generator struct {
	config Config
	rules  *Rules
}

// NewGenerator creates a generator; nil rules selects the default catalog.
func NewGenerator(config Config, rules *Rules) *Generator {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if rules == nil {
		rules = DefaultRules()
	}
	return &Generator{config: config, rules: rules}
}

// Generate collapses a grid. Each retry starts from a fresh grid but keeps
// drawing from the same RNG, so the outcome depends only on the seed.
func (g *Generator) Generate(r *rng.RNG) (*Result, error) {
	solver, err := NewSolver(g.config.Width, g.config.Height, g.rules, r)
	if err != nil {
		return nil, err
	}
	solver.ClosedBorder = g.config.ClosedBorder

	var lastErr error
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		tiles, err := solver.Solve()
		if err != nil {
			lastErr = err
			continue
		}
		return &Result{
			Width:    g.config.Width,
			Height:   g.config.Height,
			Tiles:    tiles,
			Attempts: attempt,
		}, nil
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrNoSolution, g.config.MaxAttempts, lastErr)
}

// Expand converts the tile grid into a walkable boolean grid where every cell
// becomes a 3x3 block: the centre is open when the tile has any connector and
// each edge midpoint is open when the tile connects that way.
func (r *Result) Expand() [][]bool {
	out := make([][]bool, r.Height*ExpandFactor)
	for i := range out {
		out[i] = make([]bool, r.Width*ExpandFactor)
	}

	for _, t := range r.Tiles {
		if t.Type.ConnectionCount() == 0 {
			continue
		}
		cx, cy := t.X*ExpandFactor+1, t.Y*ExpandFactor+1
		out[cy][cx] = true
		for _, dir := range AllDirections() {
			if t.Type.Open(dir) {
				dx, dy := dir.Delta()
				out[cy+dy][cx+dx] = true
			}
		}
	}
	return out
}

// CheckAdjacency returns an error naming the first pair of neighbouring tiles
// whose touching connectors do not match.
func (r *Result) CheckAdjacency(rules *Rules) error {
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			a := r.At(x, y)
			for _, dir := range []Direction{East, South} {
				dx, dy := dir.Delta()
				nx, ny := x+dx, y+dy
				if nx >= r.Width || ny >= r.Height {
					continue
				}
				b := r.At(nx, ny)
				if !rules.Compatible(a.Type.ID, b.Type.ID, dir) {
					return fmt.Errorf("wfc: %s at (%d,%d) cannot sit %s of %s at (%d,%d)",
						b.Type.Name, nx, ny, dir, a.Type.Name, x, y)
				}
			}
		}
	}
	return nil
}
