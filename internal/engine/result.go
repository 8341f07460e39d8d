package engine

import (
	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/hazard"
	"github.com/lawnchairsociety/delvegen/internal/levels"
	"github.com/lawnchairsociety/delvegen/internal/lockkey"
	"github.com/lawnchairsociety/delvegen/internal/puzzle"
)

// Tile is one non-void grid cell in world units.
type Tile struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	W      int    `yaml:"w"`
	H      int    `yaml:"h"`
	Type   string `yaml:"type"`
	RoomID int    `yaml:"room_id"` // -1 outside rooms
}

// Vec is a world-space position.
type Vec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Bounds is the world-space extent of the level.
type Bounds struct {
	MinX int `yaml:"min_x"`
	MinY int `yaml:"min_y"`
	MaxX int `yaml:"max_x"`
	MaxY int `yaml:"max_y"`
}

// Entities groups everything placed on a level. Positions are in tiles.
type Entities struct {
	Monsters []dungeon.Monster `yaml:"monsters"`
	Items    []dungeon.Item    `yaml:"items"`
	Traps    []dungeon.Trap    `yaml:"traps"`
	Secrets  []*dungeon.Secret `yaml:"secrets"`
	Keys     []lockkey.Key     `yaml:"keys,omitempty"`
	Doors    []*lockkey.Door   `yaml:"doors,omitempty"`
	Puzzles  []*puzzle.Puzzle  `yaml:"puzzles,omitempty"`
	Hazards  []*hazard.Hazard  `yaml:"hazards,omitempty"`
}

// Result is the flat contract handed to gameplay and rendering.
type Result struct {
	Tiles      []Tile                `yaml:"tiles"`
	Entities   Entities              `yaml:"entities"`
	Spawn      Vec                   `yaml:"spawn"`
	Exit       Vec                   `yaml:"exit"`
	Seed       string                `yaml:"seed"`
	Difficulty difficulty.Descriptor `yaml:"difficulty"`
	Bounds     Bounds                `yaml:"bounds"`
	TileSize   int                   `yaml:"tile_size"`

	LevelNumber int           `yaml:"level_number"`
	Depth       int           `yaml:"depth"`
	StairsUp    *levels.Stair `yaml:"stairs_up,omitempty"`
	StairsDown  *levels.Stair `yaml:"stairs_down,omitempty"`
	Attempts    int           `yaml:"attempts"`

	// Dungeon is the full generated structure behind the flat view.
	Dungeon *dungeon.Dungeon `yaml:"-"`
}

// flatten converts a decorated dungeon into the flat contract.
func flatten(d *dungeon.Dungeon, code string, locks lockkey.Placement, puzzles []*puzzle.Puzzle, hazards []*hazard.Hazard) *Result {
	ts := d.TileSize
	res := &Result{
		Seed:       code,
		Difficulty: d.Difficulty,
		TileSize:   ts,
		Spawn:      worldCentre(d.Spawn, ts),
		Exit:       worldCentre(d.Exit, ts),
		Dungeon:    d,
		Entities: Entities{
			Monsters: d.Monsters,
			Items:    d.Items,
			Traps:    d.Traps,
			Secrets:  d.Secrets,
			Keys:     locks.Keys,
			Doors:    locks.Doors,
			Puzzles:  puzzles,
			Hazards:  hazards,
		},
	}
	res.Bounds.MinX, res.Bounds.MinY, res.Bounds.MaxX, res.Bounds.MaxY = d.Bounds()
	res.Tiles = tilesOf(d)
	return res
}

// tilesOf lists the non-void cells in scan order.
func tilesOf(d *dungeon.Dungeon) []Tile {
	ts := d.TileSize
	var tiles []Tile
	d.Grid.Each(func(p dungeon.Point, k dungeon.TileKind) {
		tiles = append(tiles, Tile{
			X:      p.X * ts,
			Y:      p.Y * ts,
			W:      ts,
			H:      ts,
			Type:   k.String(),
			RoomID: d.Grid.RoomAt(p),
		})
	})
	return tiles
}

func worldCentre(p dungeon.Point, ts int) Vec {
	return Vec{X: p.X*ts + ts/2, Y: p.Y*ts + ts/2}
}

// ToWorld converts a tile position to the world-space centre of that tile.
func (r *Result) ToWorld(p dungeon.Point) Vec {
	return worldCentre(p, r.TileSize)
}

// ToTile converts a world position to tile units, as used by Session.Tick.
func (r *Result) ToTile(x, y float64) (float64, float64) {
	ts := float64(r.TileSize)
	return x / ts, y / ts
}
