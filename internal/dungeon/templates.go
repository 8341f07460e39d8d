package dungeon

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/delvegen/internal/wfc"
)

// RoomType is the semantic role of a room
type RoomType string

const (
	RoomStart    RoomType = "start"
	RoomEnd      RoomType = "end"
	RoomHallway  RoomType = "hallway"
	RoomChamber  RoomType = "chamber"
	RoomTreasure RoomType = "treasure"
	RoomTrap     RoomType = "trap"
	RoomBoss     RoomType = "boss"
	RoomShrine   RoomType = "shrine"
	RoomArena    RoomType = "arena"
	RoomLibrary  RoomType = "library"
	RoomGarden   RoomType = "garden"
	RoomThrone   RoomType = "throne"
	RoomBridge   RoomType = "bridge"
	RoomCrypt    RoomType = "crypt"
	RoomMaze     RoomType = "maze"
	RoomSecret   RoomType = "secret"
)

// IsPrefab reports whether the type is a themed prefab
func (t RoomType) IsPrefab() bool {
	switch t {
	case RoomShrine, RoomArena, RoomLibrary, RoomGarden, RoomThrone, RoomBridge, RoomCrypt, RoomMaze:
		return true
	}
	return false
}

// Template is a rectangular room layout. '#' is wall, '.' floor, 'o' pillar.
// Exits sit at the midpoint of the listed sides.
type Template struct {
	Name   string
	Type   RoomType
	Layout []string
	Exits  []wfc.Direction
}

// Width returns the layout width
func (t *Template) Width() int { return len(t.Layout[0]) }

// Height returns the layout height
func (t *Template) Height() int { return len(t.Layout) }

// ExitOffset returns the local position of the exit on side d.
func (t *Template) ExitOffset(d wfc.Direction) Point {
	w, h := t.Width(), t.Height()
	switch d {
	case wfc.North:
		return Point{w / 2, 0}
	case wfc.East:
		return Point{w - 1, h / 2}
	case wfc.South:
		return Point{w / 2, h - 1}
	default:
		return Point{0, h / 2}
	}
}

// HasExit reports whether the template has an exit on side d
func (t *Template) HasExit(d wfc.Direction) bool {
	for _, e := range t.Exits {
		if e == d {
			return true
		}
	}
	return false
}

// Validate checks template dimensions, characters and exit placement.
func (t *Template) Validate() error {
	h := len(t.Layout)
	if h < 5 || h%2 == 0 {
		return fmt.Errorf("template %s: height %d must be odd and >= 5", t.Name, h)
	}
	w := len(t.Layout[0])
	if w < 5 || w%2 == 0 {
		return fmt.Errorf("template %s: width %d must be odd and >= 5", t.Name, w)
	}
	for y, row := range t.Layout {
		if len(row) != w {
			return fmt.Errorf("template %s: row %d has width %d, want %d", t.Name, y, len(row), w)
		}
		for x, c := range row {
			if c != '#' && c != '.' && c != 'o' {
				return fmt.Errorf("template %s: bad char %q at (%d,%d)", t.Name, c, x, y)
			}
			border := x == 0 || y == 0 || x == w-1 || y == h-1
			if border && c != '#' {
				return fmt.Errorf("template %s: border must be wall at (%d,%d)", t.Name, x, y)
			}
		}
	}
	if t.Layout[h/2][w/2] != '.' {
		return fmt.Errorf("template %s: center must be floor", t.Name)
	}
	if len(t.Exits) == 0 {
		return fmt.Errorf("template %s: no exits", t.Name)
	}
	return nil
}

// rotate returns the template turned 90 degrees clockwise.
func (t *Template) rotate() *Template {
	w, h := t.Width(), t.Height()
	rows := make([]string, w)
	for y := 0; y < w; y++ {
		var sb strings.Builder
		for x := 0; x < h; x++ {
			sb.WriteByte(t.Layout[h-1-x][y])
		}
		rows[y] = sb.String()
	}
	exits := make([]wfc.Direction, len(t.Exits))
	for i, e := range t.Exits {
		exits[i] = (e + 1) % 4
	}
	return &Template{Name: t.Name, Type: t.Type, Layout: rows, Exits: exits}
}

// rotations returns the four orientations, suffixed _n/_e/_s/_w by the first exit.
func rotations(t *Template) []*Template {
	out := make([]*Template, 0, 4)
	cur := t
	for i := 0; i < 4; i++ {
		r := *cur
		r.Name = fmt.Sprintf("%s_%s", t.Name, cur.Exits[0].String()[:1])
		out = append(out, &r)
		cur = cur.rotate()
	}
	return out
}

var all4 = []wfc.Direction{wfc.North, wfc.East, wfc.South, wfc.West}

// builtinTemplates is the static catalog. Maze interiors are replaced at
// placement time.
func builtinTemplates() []*Template {
	var out []*Template
	add := func(ts ...*Template) { out = append(out, ts...) }

	add(&Template{Name: "start_hall", Type: RoomStart, Exits: all4, Layout: []string{
		"#######",
		"#.....#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#######",
	}})

	add(&Template{Name: "exit_stair", Type: RoomEnd, Exits: all4, Layout: []string{
		"#######",
		"#.....#",
		"#.o.o.#",
		"#.....#",
		"#.o.o.#",
		"#.....#",
		"#######",
	}})

	add(&Template{Name: "boss_lair", Type: RoomBoss, Exits: all4, Layout: []string{
		"###########",
		"#.........#",
		"#.o.....o.#",
		"#.........#",
		"#.........#",
		"#.........#",
		"#.........#",
		"#.........#",
		"#.o.....o.#",
		"#.........#",
		"###########",
	}})

	add(&Template{Name: "hall_ew", Type: RoomHallway, Exits: []wfc.Direction{wfc.East, wfc.West}, Layout: []string{
		"#########",
		"#.......#",
		"#.......#",
		"#.......#",
		"#########",
	}})
	add(&Template{Name: "hall_ns", Type: RoomHallway, Exits: []wfc.Direction{wfc.North, wfc.South}, Layout: []string{
		"#####",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
		"#####",
	}})
	add(&Template{Name: "hall_cross", Type: RoomHallway, Exits: all4, Layout: []string{
		"#####",
		"#...#",
		"#...#",
		"#...#",
		"#####",
	}})
	add(rotations(&Template{Name: "hall_bend", Type: RoomHallway, Exits: []wfc.Direction{wfc.North, wfc.East}, Layout: []string{
		"#######",
		"#.....#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#######",
	}})...)

	add(&Template{Name: "chamber_square", Type: RoomChamber, Exits: all4, Layout: []string{
		"#########",
		"#.......#",
		"#.o...o.#",
		"#.......#",
		"#.......#",
		"#.......#",
		"#.o...o.#",
		"#.......#",
		"#########",
	}})
	add(&Template{Name: "chamber_long", Type: RoomChamber, Exits: all4, Layout: []string{
		"###########",
		"#.........#",
		"#.........#",
		"#.........#",
		"#.........#",
		"#.........#",
		"###########",
	}})

	add(rotations(&Template{Name: "vault", Type: RoomTreasure, Exits: []wfc.Direction{wfc.South}, Layout: []string{
		"#######",
		"#.....#",
		"#.o.o.#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#######",
	}})...)

	add(&Template{Name: "trap_gallery", Type: RoomTrap, Exits: all4, Layout: []string{
		"#########",
		"#.......#",
		"#.......#",
		"#.......#",
		"#.......#",
		"#.......#",
		"#.......#",
		"#.......#",
		"#########",
	}})

	add(&Template{Name: "shrine", Type: RoomShrine, Exits: all4, Layout: []string{
		"#########",
		"#o.....o#",
		"#.......#",
		"#.......#",
		"#.......#",
		"#.......#",
		"#.......#",
		"#o.....o#",
		"#########",
	}})
	add(&Template{Name: "arena", Type: RoomArena, Exits: all4, Layout: []string{
		"#############",
		"#...........#",
		"#.o.......o.#",
		"#...........#",
		"#...........#",
		"#...........#",
		"#...........#",
		"#...........#",
		"#...........#",
		"#...........#",
		"#.o.......o.#",
		"#...........#",
		"#############",
	}})
	add(&Template{Name: "library", Type: RoomLibrary, Exits: all4, Layout: []string{
		"###########",
		"#.........#",
		"#.o.o.o.o.#",
		"#.........#",
		"#.........#",
		"#.........#",
		"#.o.o.o.o.#",
		"#.........#",
		"###########",
	}})
	add(&Template{Name: "garden", Type: RoomGarden, Exits: all4, Layout: []string{
		"#########",
		"#.......#",
		"#.o...o.#",
		"#.......#",
		"#.......#",
		"#.......#",
		"#.o...o.#",
		"#.......#",
		"#########",
	}})
	add(rotations(&Template{Name: "throne", Type: RoomThrone, Exits: []wfc.Direction{wfc.South}, Layout: []string{
		"#########",
		"#.......#",
		"#.......#",
		"#.o...o.#",
		"#.......#",
		"#.o...o.#",
		"#.......#",
		"#.o...o.#",
		"#.......#",
		"#.......#",
		"#########",
	}})...)
	add(&Template{Name: "bridge_ew", Type: RoomBridge, Exits: []wfc.Direction{wfc.East, wfc.West}, Layout: []string{
		"#############",
		"#...........#",
		"#...........#",
		"#...........#",
		"#############",
	}})
	add(&Template{Name: "bridge_ns", Type: RoomBridge, Exits: []wfc.Direction{wfc.North, wfc.South}, Layout: []string{
		"#####",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
		"#####",
	}})
	add(&Template{Name: "crypt", Type: RoomCrypt, Exits: all4, Layout: []string{
		"###########",
		"#.........#",
		"#.o.o.o.o.#",
		"#.........#",
		"#.........#",
		"#.........#",
		"#.o.o.o.o.#",
		"#.........#",
		"#.o.o.o.o.#",
		"#.........#",
		"###########",
	}})
	add(&Template{Name: "maze", Type: RoomMaze, Exits: all4, Layout: blankLayout(mazeCells*wfc.ExpandFactor+2, mazeCells*wfc.ExpandFactor+2)})

	add(rotations(&Template{Name: "closet", Type: RoomSecret, Exits: []wfc.Direction{wfc.South}, Layout: []string{
		"#####",
		"#...#",
		"#...#",
		"#...#",
		"#####",
	}})...)

	return out
}

// mazeCells is the side of the WFC grid inside a maze room.
const mazeCells = 3

// blankLayout returns a walled rectangle with an open interior
func blankLayout(w, h int) []string {
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		if y == 0 || y == h-1 {
			rows[y] = strings.Repeat("#", w)
			continue
		}
		rows[y] = "#" + strings.Repeat(".", w-2) + "#"
	}
	return rows
}

// Catalog indexes templates by type
type Catalog struct {
	byType map[RoomType][]*Template
}

// NewCatalog validates and indexes a template list.
func NewCatalog(templates []*Template) (*Catalog, error) {
	c := &Catalog{byType: make(map[RoomType][]*Template)}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		c.byType[t.Type] = append(c.byType[t.Type], t)
	}
	for _, required := range []RoomType{RoomStart, RoomEnd, RoomBoss, RoomHallway, RoomChamber, RoomTreasure, RoomTrap} {
		if len(c.byType[required]) == 0 {
			return nil, fmt.Errorf("template catalog has no %s rooms", required)
		}
	}
	return c, nil
}

// DefaultCatalog returns the built-in template catalog
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(builtinTemplates())
	if err != nil {
		panic(err) // built-in templates are covered by tests
	}
	return c
}

// Facing returns the templates of type t that have an exit on side d, in catalog order.
func (c *Catalog) Facing(t RoomType, d wfc.Direction) []*Template {
	var out []*Template
	for _, tpl := range c.byType[t] {
		if tpl.HasExit(d) {
			out = append(out, tpl)
		}
	}
	return out
}

// OfType returns every template of a type
func (c *Catalog) OfType(t RoomType) []*Template {
	return c.byType[t]
}
