package dungeon

import (
	"fmt"
	"unicode/utf8"

	"github.com/zyedidia/generic/mapset"
)

// TileKind is the content of one grid cell
type TileKind int

const (
	TileVoid TileKind = iota
	TileWall
	TileFloor
	TileCorridor
	TilePillar
	TileDoor
	TileSecret
	TileStairsUp
	TileStairsDown
)

var tileNames = map[TileKind]string{
	TileVoid:       "void",
	TileWall:       "wall",
	TileFloor:      "floor",
	TileCorridor:   "corridor",
	TilePillar:     "pillar",
	TileDoor:       "door",
	TileSecret:     "secret",
	TileStairsUp:   "stairs_up",
	TileStairsDown: "stairs_down",
}

// String returns the string representation of a TileKind
func (k TileKind) String() string {
	if name, ok := tileNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseTileKind converts a tile name back into a TileKind.
func ParseTileKind(s string) (TileKind, bool) {
	for k, name := range tileNames {
		if name == s {
			return k, true
		}
	}
	return TileVoid, false
}

// Glyph returns the ASCII character used when printing maps
func (k TileKind) Glyph() rune {
	switch k {
	case TileWall:
		return '#'
	case TileFloor:
		return '.'
	case TileCorridor:
		return ','
	case TilePillar:
		return 'o'
	case TileDoor:
		return '+'
	case TileSecret:
		return '?'
	case TileStairsUp:
		return '<'
	case TileStairsDown:
		return '>'
	default:
		return ' '
	}
}

// ParseGlyph is the inverse of Glyph.
func ParseGlyph(c rune) (TileKind, bool) {
	for k := TileVoid; k <= TileStairsDown; k++ {
		if k.Glyph() == c {
			return k, true
		}
	}
	return TileVoid, false
}

// ParseGrid rebuilds a grid from rows printed by String. Room ownership is
// not part of the text form, so every tile comes back unowned.
func ParseGrid(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty map")
	}
	width := 0
	for _, row := range rows {
		width = max(width, utf8.RuneCountInString(row))
	}

	g := NewGrid(width, len(rows))
	for y, row := range rows {
		x := 0
		for _, c := range row {
			k, ok := ParseGlyph(c)
			if !ok {
				return nil, fmt.Errorf("unknown glyph %q at %d,%d", c, x, y)
			}
			g.Set(Point{x, y}, k)
			x++
		}
	}
	return g, nil
}

// Walkable reports whether a player can stand on the tile. Doors and secret
// passages are walkable once opened; callers that care pass a blocked func.
func (k TileKind) Walkable() bool {
	switch k {
	case TileFloor, TileCorridor, TileDoor, TileSecret, TileStairsUp, TileStairsDown:
		return true
	}
	return false
}

// Grid is the rasterized level
type Grid struct {
	Width, Height int
	tiles         []TileKind
	rooms         []int
}

// NewGrid creates a void grid
func NewGrid(width, height int) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		tiles:  make([]TileKind, width*height),
		rooms:  make([]int, width*height),
	}
	for i := range g.rooms {
		g.rooms[i] = -1
	}
	return g
}

// InBounds reports whether p is on the grid
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// At returns the tile at p; off-grid reads as void
func (g *Grid) At(p Point) TileKind {
	if !g.InBounds(p) {
		return TileVoid
	}
	return g.tiles[p.Y*g.Width+p.X]
}

// Set writes a tile; off-grid writes are ignored
func (g *Grid) Set(p Point, k TileKind) {
	if g.InBounds(p) {
		g.tiles[p.Y*g.Width+p.X] = k
	}
}

// RoomAt returns the room owning p, or -1 for corridors and void
func (g *Grid) RoomAt(p Point) int {
	if !g.InBounds(p) {
		return -1
	}
	return g.rooms[p.Y*g.Width+p.X]
}

func (g *Grid) setRoom(p Point, id int) {
	if g.InBounds(p) {
		g.rooms[p.Y*g.Width+p.X] = id
	}
}

// Count returns the number of tiles of the given kind
func (g *Grid) Count(k TileKind) int {
	n := 0
	for _, t := range g.tiles {
		if t == k {
			n++
		}
	}
	return n
}

// Each calls fn for every non-void tile in scan order
func (g *Grid) Each(fn func(p Point, k TileKind)) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if k := g.tiles[y*g.Width+x]; k != TileVoid {
				fn(Point{x, y}, k)
			}
		}
	}
}

// String renders the grid as ASCII rows
func (g *Grid) String() string {
	buf := make([]rune, 0, (g.Width+1)*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			buf = append(buf, g.tiles[y*g.Width+x].Glyph())
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

// wallIn turns void tiles next to walkable tiles into walls.
func (g *Grid) wallIn() {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Point{x, y}
			if !g.At(p).Walkable() {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					n := p.Add(dx, dy)
					if g.InBounds(n) && g.At(n) == TileVoid {
						g.Set(n, TileWall)
					}
				}
			}
		}
	}
}

var neighbors4 = []Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Reachable returns every walkable tile reachable from start with a BFS.
// blocked may veto tiles (closed doors, unrevealed secrets); nil allows all.
func (g *Grid) Reachable(start Point, blocked func(Point) bool) *mapset.Set[Point] {
	seen := mapset.New[Point]()
	if !g.At(start).Walkable() {
		return &seen
	}

	seen.Put(start)
	queue := []Point{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, d := range neighbors4 {
			next := cur.Add(d.X, d.Y)
			if seen.Has(next) || !g.At(next).Walkable() {
				continue
			}
			if blocked != nil && blocked(next) {
				continue
			}
			seen.Put(next)
			queue = append(queue, next)
		}
	}
	return &seen
}

// Distances returns BFS step counts from start over walkable tiles, plus the
// visit order, so callers can pick the farthest tile deterministically.
func (g *Grid) Distances(start Point) (map[Point]int, []Point) {
	dist := map[Point]int{start: 0}
	order := []Point{start}
	for i := 0; i < len(order); i++ {
		cur := order[i]
		for _, d := range neighbors4 {
			next := cur.Add(d.X, d.Y)
			if _, ok := dist[next]; ok || !g.At(next).Walkable() {
				continue
			}
			dist[next] = dist[cur] + 1
			order = append(order, next)
		}
	}
	return dist, order
}

// occupancy tracks tiles taken by entities
type occupancy struct {
	set mapset.Set[Point]
}

func (o *occupancy) Has(p Point) bool { return o.set.Has(p) }
func (o *occupancy) Put(p Point)      { o.set.Put(p) }

func (d *Dungeon) occupancy() *occupancy {
	if d.occupied == nil {
		d.occupied = &occupancy{set: mapset.New[Point]()}
	}
	return d.occupied
}
