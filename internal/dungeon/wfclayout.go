package dungeon

import (
	"fmt"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/rng"
	"github.com/lawnchairsociety/delvegen/internal/wfc"
)

// buildWFC lays the whole level out as one collapsed tile grid. Only the
// largest connected floor component is kept.
func (b *Builder) buildWFC() (*Dungeon, error) {
	gen := wfc.NewGenerator(b.config.WFC, nil)
	result, err := gen.Generate(b.rng)
	if err != nil {
		return nil, fmt.Errorf("wfc layout: %w", err)
	}

	open := result.Expand()
	h := len(open)
	w := len(open[0])

	g := NewGrid(w+2, h+2)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if open[y][x] {
				g.Set(Point{x + 1, y + 1}, TileFloor)
			}
		}
	}

	keep := largestComponent(g)
	if len(keep) < 2 {
		return nil, fmt.Errorf("%w: wfc layout has no usable floor", ErrPlacementShortfall)
	}
	kept := make(map[Point]bool, len(keep))
	for _, p := range keep {
		kept[p] = true
	}
	g.Each(func(p Point, k TileKind) {
		if k == TileFloor && !kept[p] {
			g.Set(p, TileVoid)
		}
	})
	g.wallIn()

	d := &Dungeon{
		Theme:      b.theme.Name,
		Algorithm:  AlgorithmWFC,
		Difficulty: b.desc,
		TileSize:   b.config.TileSize,
		Grid:       g,
	}

	// keep is in BFS order from the first floor tile in scan order
	d.Spawn = keep[0]
	dist, order := g.Distances(d.Spawn)
	far := d.Spawn
	for _, p := range order {
		if dist[p] > dist[far] {
			far = p
		}
	}
	d.Exit = far
	d.Occupy(d.Spawn)
	d.Occupy(d.Exit)

	populateOpen(d, b.theme, b.rng)
	return d, nil
}

// largestComponent returns the biggest 4-connected floor region in BFS order
// from its first tile in scan order. Earlier regions win ties.
func largestComponent(g *Grid) []Point {
	seen := make(map[Point]bool)
	var best []Point

	g.Each(func(p Point, k TileKind) {
		if k != TileFloor || seen[p] {
			return
		}
		_, order := g.Distances(p)
		for _, q := range order {
			seen[q] = true
		}
		if len(order) > len(best) {
			best = order
		}
	})
	return best
}

// FreeFloor returns every free reachable floor tile in scan order.
func (d *Dungeon) FreeFloor() []Point {
	var out []Point
	d.Grid.Each(func(p Point, k TileKind) {
		if k == TileFloor && !d.Occupied(p) && d.ReachableFromSpawn().Has(p) {
			out = append(out, p)
		}
	})
	return out
}

// TakeFloor picks and occupies a random free floor tile anywhere on the level.
func (d *Dungeon) TakeFloor(r *rng.RNG) (Point, bool) {
	free := d.FreeFloor()
	if len(free) == 0 {
		return Point{}, false
	}
	p := free[r.Intn(len(free))]
	d.Occupy(p)
	return p, true
}

// populateOpen decorates a room-less layout using free floor tiles.
func populateOpen(d *Dungeon, theme *Theme, r *rng.RNG) {
	desc := d.Difficulty
	tier := difficulty.MonsterTier(desc.Level)
	pool := theme.monstersForTier(tier)

	for i := 0; i < desc.MonsterCount; i++ {
		p, ok := d.TakeFloor(r)
		if !ok {
			break
		}
		def := pool[r.Intn(len(pool))]
		d.Monsters = append(d.Monsters, newMonster(d, def, -1, p, desc.MonsterStrength, false))
	}

	items := max(2, desc.MonsterCount/2)
	for i := 0; i < items; i++ {
		if !desc.KeepResource(r.Next()) {
			continue
		}
		p, ok := d.TakeFloor(r)
		if !ok {
			break
		}
		name := theme.Items[r.Intn(len(theme.Items))]
		d.Items = append(d.Items, Item{
			ID:       fmt.Sprintf("item_%d", len(d.Items)+1),
			Name:     name,
			Kind:     itemKind(name),
			RoomID:   -1,
			Position: p,
			Tier:     difficulty.LootTier(desc.Level),
		})
	}

	traps := int(float64(desc.MonsterCount)*desc.TrapDensity + 0.5)
	for i := 0; i < traps; i++ {
		p, ok := d.TakeFloor(r)
		if !ok {
			break
		}
		d.Traps = append(d.Traps, Trap{
			ID:       fmt.Sprintf("trap_%d", len(d.Traps)+1),
			Kind:     theme.Traps[r.Intn(len(theme.Traps))],
			RoomID:   -1,
			Position: p,
			Damage:   difficulty.ScaleDamage(5, desc.MonsterStrength),
		})
	}
}
