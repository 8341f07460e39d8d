// Package dungeon builds the geometry of a single level: rooms joined by
// corridors, rasterized onto a tile grid, and populated with monsters,
// items and traps.
package dungeon

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/wfc"
	"github.com/zyedidia/generic/mapset"
)

var (
	// ErrPlacementShortfall is returned when the frontier empties before MinRooms rooms are placed.
	ErrPlacementShortfall = errors.New("dungeon: placement shortfall")
	ErrInvalidConfig      = errors.New("dungeon: invalid config")
)

// Point is a tile coordinate.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Add returns p moved by (dx, dy)
func (p Point) Add(dx, dy int) Point {
	return Point{p.X + dx, p.Y + dy}
}

// Step returns p moved n tiles in direction d
func (p Point) Step(d wfc.Direction, n int) Point {
	dx, dy := d.Delta()
	return Point{p.X + dx*n, p.Y + dy*n}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Rect is an axis-aligned box in tile coordinates.
type Rect struct {
	X, Y, W, H int
}

// Grow returns the rect expanded by n tiles on every side
func (r Rect) Grow(n int) Rect {
	return Rect{r.X - n, r.Y - n, r.W + 2*n, r.H + 2*n}
}

// Intersects reports whether two rects share at least one tile
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Contains reports whether p lies inside the rect
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Exit is a doorway on a room's boundary.
type Exit struct {
	Position  Point
	Direction wfc.Direction
	Connected bool
	Target    int  // ID of the room on the other side, -1 if none
	Secret    bool // Hidden passage into a secret room
}

// Room is a placed template instance.
type Room struct {
	ID       int
	Name     string
	Type     RoomType
	X, Y     int
	Width    int
	Height   int
	Layout   []string
	Exits    []*Exit
	Locked   bool
	Secret   bool
	Template string
}

// Bounds returns the room's bounding box
func (r *Room) Bounds() Rect {
	return Rect{r.X, r.Y, r.Width, r.Height}
}

// Center returns the room's central tile
func (r *Room) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// ExitFacing returns the first exit on the given side
func (r *Room) ExitFacing(d wfc.Direction) *Exit {
	for _, e := range r.Exits {
		if e.Direction == d {
			return e
		}
	}
	return nil
}

// IsMain reports whether the room counts toward the level's room budget.
func (r *Room) IsMain() bool {
	return !r.Secret
}

// translate shifts the room and its exits
func (r *Room) translate(dx, dy int) {
	r.X += dx
	r.Y += dy
	for _, e := range r.Exits {
		e.Position = e.Position.Add(dx, dy)
	}
}

// Corridor is a carved passage between two rooms.
type Corridor struct {
	From, To int
	Points   []Point
	Width    int
	Loop     bool
	Secret   bool
}

// Monster is a spawned enemy.
type Monster struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	RoomID   int    `yaml:"room_id"`
	Position Point  `yaml:"position"`
	HP       int    `yaml:"hp"`
	Damage   int    `yaml:"damage"`
	Tier     int    `yaml:"tier"`
	Boss     bool   `yaml:"boss,omitempty"`
}

// Item is a pickup.
type Item struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	RoomID   int    `yaml:"room_id"`
	Position Point  `yaml:"position"`
	Tier     int    `yaml:"tier"`
}

// Trap is a static floor trap.
type Trap struct {
	ID       string `yaml:"id"`
	Kind     string `yaml:"kind"`
	RoomID   int    `yaml:"room_id"`
	Position Point  `yaml:"position"`
	Damage   int    `yaml:"damage"`
}

// Secret is a hidden passage tile. Revealed is mutated by gameplay.
type Secret struct {
	ID       string `yaml:"id"`
	RoomID   int    `yaml:"room_id"` // the hidden room behind it
	Position Point  `yaml:"position"`
	Revealed bool   `yaml:"revealed"`
}

// Dungeon is one generated level layout.
type Dungeon struct {
	Seed       int64
	Theme      string
	Algorithm  string
	Difficulty difficulty.Descriptor
	TileSize   int

	Rooms     []*Room
	Corridors []*Corridor
	Grid      *Grid

	Monsters []Monster
	Items    []Item
	Traps    []Trap
	Secrets  []*Secret

	Spawn Point
	Exit  Point

	occupied *occupancy
	reach    *mapset.Set[Point]
}

// Room returns the room with the given ID, or nil.
func (d *Dungeon) Room(id int) *Room {
	if id < 0 || id >= len(d.Rooms) {
		return nil
	}
	return d.Rooms[id]
}

// MainRooms returns every non-secret room in placement order.
func (d *Dungeon) MainRooms() []*Room {
	out := make([]*Room, 0, len(d.Rooms))
	for _, r := range d.Rooms {
		if r.IsMain() {
			out = append(out, r)
		}
	}
	return out
}

// RoomsOfType returns rooms with the given type
func (d *Dungeon) RoomsOfType(t RoomType) []*Room {
	var out []*Room
	for _, r := range d.Rooms {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// StartRoom returns the start room
func (d *Dungeon) StartRoom() *Room {
	for _, r := range d.Rooms {
		if r.Type == RoomStart {
			return r
		}
	}
	return nil
}

// GoalRoom returns the end or boss room
func (d *Dungeon) GoalRoom() *Room {
	for _, r := range d.Rooms {
		if r.Type == RoomEnd || r.Type == RoomBoss {
			return r
		}
	}
	return nil
}

// Bounds returns the grid extent in world units.
func (d *Dungeon) Bounds() (minX, minY, maxX, maxY int) {
	if d.Grid == nil {
		return 0, 0, 0, 0
	}
	return 0, 0, d.Grid.Width * d.TileSize, d.Grid.Height * d.TileSize
}

// Occupied reports whether an entity already sits on p.
func (d *Dungeon) Occupied(p Point) bool {
	return d.occupancy().Has(p)
}

// Occupy marks p as taken by an entity.
func (d *Dungeon) Occupy(p Point) {
	d.occupancy().Put(p)
}

// ReachableFromSpawn returns the tiles a player can walk to from the spawn,
// treating doors and secrets as passable. The set is cached.
func (d *Dungeon) ReachableFromSpawn() *mapset.Set[Point] {
	if d.reach == nil {
		d.reach = d.Grid.Reachable(d.Spawn, nil)
	}
	return d.reach
}

// FreeTiles returns the unoccupied, reachable interior floor tiles of a room in scan order.
func (d *Dungeon) FreeTiles(room *Room) []Point {
	var out []Point
	for y := room.Y + 1; y < room.Y+room.Height-1; y++ {
		for x := room.X + 1; x < room.X+room.Width-1; x++ {
			p := Point{x, y}
			if d.Grid.At(p) != TileFloor || d.Grid.RoomAt(p) != room.ID {
				continue
			}
			if d.Occupied(p) || !d.ReachableFromSpawn().Has(p) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
