package wfc

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/lawnchairsociety/delvegen/internal/rng"
	"github.com/zyedidia/generic/stack"
)

var (
	ErrContradiction = errors.New("wfc: contradiction - no valid tiles for cell")
	ErrNoSolution    = errors.New("wfc: failed to find valid solution")
	ErrInvalidSize   = errors.New("wfc: invalid grid size")
)

// entropyEpsilon is the tolerance under which two entropies count as tied.
const entropyEpsilon = 1e-9

// Cell represents a single cell in the WFC grid during solving
type Cell struct {
	X, Y      int
	Possible  Bitset // Which tile types are still possible
	Collapsed bool   // Whether this cell has been assigned
	Type      int    // The assigned tile ID (if collapsed)
}

// Entropy returns the Shannon entropy of the cell's weighted possibilities.
func (c *Cell) Entropy(catalog Catalog) float64 {
	total := 0.0
	for _, id := range c.Possible.Members() {
		total += catalog[id].Weight
	}
	if total <= 0 {
		return 0
	}
	h := 0.0
	for _, id := range c.Possible.Members() {
		p := catalog[id].Weight / total
		h -= p * math.Log(p)
	}
	return h
}

// Solver implements the Wave Function Collapse algorithm over a fixed grid.
type Solver struct {
	Width, Height int
	Grid          [][]*Cell
	Rules         *Rules

	// ClosedBorder forbids connectors pointing out of the grid.
	ClosedBorder bool

	rng *rng.RNG
}

// NewSolver creates a new WFC solver with the given dimensions. The random
// source is shared with the caller so the whole generation stays on one stream.
func NewSolver(width, height int, rules *Rules, r *rng.RNG) (*Solver, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if rules == nil {
		rules = DefaultRules()
	}
	s := &Solver{
		Width:  width,
		Height: height,
		Rules:  rules,
		rng:    r,
	}
	s.initializeGrid()
	return s, nil
}

// initializeGrid resets every cell to the full catalog
func (s *Solver) initializeGrid() {
	full := FullSet(len(s.Rules.Catalog))
	s.Grid = make([][]*Cell, s.Height)
	for y := 0; y < s.Height; y++ {
		s.Grid[y] = make([]*Cell, s.Width)
		for x := 0; x < s.Width; x++ {
			s.Grid[y][x] = &Cell{X: x, Y: y, Possible: full, Type: -1}
		}
	}
}

// applyBorder removes outward-facing tiles from edge cells.
func (s *Solver) applyBorder() error {
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			cell := s.Grid[y][x]
			for _, dir := range AllDirections() {
				if s.getNeighbor(x, y, dir) == nil {
					cell.Possible &= s.Rules.closedOn(dir)
				}
			}
			if cell.Possible == 0 {
				return fmt.Errorf("%w at (%d,%d)", ErrContradiction, x, y)
			}
		}
	}
	return nil
}

// Solve runs one collapse pass over a fresh grid.
func (s *Solver) Solve() ([]Tile, error) {
	s.initializeGrid()

	if s.ClosedBorder {
		if err := s.applyBorder(); err != nil {
			return nil, err
		}
		if err := s.propagateAll(); err != nil {
			return nil, err
		}
	}

	for {
		cell := s.lowestEntropyCell()
		if cell == nil {
			break
		}
		if err := s.collapse(cell); err != nil {
			return nil, err
		}
		if err := s.propagate(cell); err != nil {
			return nil, err
		}
	}

	return s.extractTiles(), nil
}

// lowestEntropyCell picks an uncollapsed cell of minimal entropy; ties are
// broken uniformly with the RNG. Returns nil when every cell is collapsed.
func (s *Solver) lowestEntropyCell() *Cell {
	best := math.Inf(1)
	var candidates []*Cell

	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			cell := s.Grid[y][x]
			if cell.Collapsed {
				continue
			}
			h := cell.Entropy(s.Rules.Catalog)
			switch {
			case h < best-entropyEpsilon:
				best = h
				candidates = candidates[:0]
				candidates = append(candidates, cell)
			case math.Abs(h-best) <= entropyEpsilon:
				candidates = append(candidates, cell)
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	return candidates[s.rng.Intn(len(candidates))]
}

// collapse assigns one tile to the cell, chosen by weight.
func (s *Solver) collapse(cell *Cell) error {
	members := cell.Possible.Members()
	if len(members) == 0 {
		return fmt.Errorf("%w at (%d,%d)", ErrContradiction, cell.X, cell.Y)
	}

	weights := make([]float64, len(members))
	for i, id := range members {
		weights[i] = s.Rules.Catalog[id].Weight
	}
	idx := s.rng.WeightedIndex(weights)
	if idx < 0 {
		idx = 0
	}

	chosen := members[idx]
	cell.Possible = Bitset(0).With(chosen)
	cell.Collapsed = true
	cell.Type = chosen
	return nil
}

// propagate restores arc consistency outward from a changed cell.
func (s *Solver) propagate(start *Cell) error {
	pending := stack.New[*Cell]()
	pending.Push(start)
	return s.drain(pending)
}

// propagateAll seeds propagation from every cell.
func (s *Solver) propagateAll() error {
	pending := stack.New[*Cell]()
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			pending.Push(s.Grid[y][x])
		}
	}
	return s.drain(pending)
}

func (s *Solver) drain(pending *stack.Stack[*Cell]) error {
	for pending.Size() > 0 {
		cell := pending.Pop()

		for _, dir := range AllDirections() {
			neighbor := s.getNeighbor(cell.X, cell.Y, dir)
			if neighbor == nil {
				continue
			}

			allowed := s.Rules.Allowed(cell.Possible, dir)
			narrowed := neighbor.Possible & allowed
			if narrowed == neighbor.Possible {
				continue
			}
			if narrowed == 0 {
				return fmt.Errorf("%w at (%d,%d)", ErrContradiction, neighbor.X, neighbor.Y)
			}

			neighbor.Possible = narrowed
			if id, ok := narrowed.Single(); ok && !neighbor.Collapsed {
				neighbor.Collapsed = true
				neighbor.Type = id
			}
			pending.Push(neighbor)
		}
	}
	return nil
}

// neighborCoords returns the coordinates of the neighbor in the given direction
func (s *Solver) neighborCoords(x, y int, dir Direction) (int, int) {
	dx, dy := dir.Delta()
	return x + dx, y + dy
}

// getNeighbor returns the neighbor cell in the given direction
func (s *Solver) getNeighbor(x, y int, dir Direction) *Cell {
	nx, ny := s.neighborCoords(x, y, dir)
	if nx < 0 || nx >= s.Width || ny < 0 || ny >= s.Height {
		return nil
	}
	return s.Grid[ny][nx]
}

// extractTiles converts the collapsed grid into Tile values in scan order
func (s *Solver) extractTiles() []Tile {
	tiles := make([]Tile, 0, s.Width*s.Height)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			cell := s.Grid[y][x]
			tiles = append(tiles, Tile{X: x, Y: y, Type: s.Rules.Catalog[cell.Type]})
		}
	}
	return tiles
}

// SortTilesByPosition sorts tiles by Y then X for deterministic output
func SortTilesByPosition(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Y != tiles[j].Y {
			return tiles[i].Y < tiles[j].Y
		}
		return tiles[i].X < tiles[j].X
	})
}
