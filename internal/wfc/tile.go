package wfc

import "fmt"

// Direction represents a cardinal direction in the grid
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// String returns the string representation of a Direction
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return d
	}
}

// Delta returns the grid offset of one step in this direction (y grows southwards).
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

// ParseDirection converts "north"/"n" style names to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "north", "n", "N":
		return North, true
	case "east", "e", "E":
		return East, true
	case "south", "s", "S":
		return South, true
	case "west", "w", "W":
		return West, true
	}
	return North, false
}

// AllDirections returns all four cardinal directions
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// TileType is one entry of the tile catalog. Connectors are indexed by Direction;
// two tiles may touch only where their facing connectors are equal.
type TileType struct {
	ID         int
	Name       string
	Connectors [4]uint8
	Weight     float64
}

// Connector returns the connector value on the given edge.
func (t TileType) Connector(d Direction) uint8 {
	return t.Connectors[d]
}

// Open reports whether the tile has a passage on the given edge.
func (t TileType) Open(d Direction) bool {
	return t.Connectors[d] != 0
}

// ConnectionCount returns the number of open edges
func (t TileType) ConnectionCount() int {
	count := 0
	for _, c := range t.Connectors {
		if c != 0 {
			count++
		}
	}
	return count
}

func (t TileType) String() string {
	return t.Name
}

// Catalog is an ordered tile set. A tile's ID is its index in the catalog.
type Catalog []TileType

// DefaultCatalog returns the 16 built-in tiles, one per connector quadruple
// (north, east, south, west). Weights are part of the difficulty tuning and
// must stay stable so that existing seeds keep producing the same mazes.
func DefaultCatalog() Catalog {
	defs := []struct {
		name       string
		n, e, s, w uint8
		weight     float64
	}{
		{"empty", 0, 0, 0, 0, 6},
		{"dead_end_n", 1, 0, 0, 0, 1},
		{"dead_end_e", 0, 1, 0, 0, 1},
		{"dead_end_s", 0, 0, 1, 0, 1},
		{"dead_end_w", 0, 0, 0, 1, 1},
		{"corridor_ns", 1, 0, 1, 0, 4},
		{"corridor_ew", 0, 1, 0, 1, 4},
		{"corner_ne", 1, 1, 0, 0, 2},
		{"corner_es", 0, 1, 1, 0, 2},
		{"corner_sw", 0, 0, 1, 1, 2},
		{"corner_wn", 1, 0, 0, 1, 2},
		{"junction_nes", 1, 1, 1, 0, 1},
		{"junction_esw", 0, 1, 1, 1, 1},
		{"junction_swn", 1, 0, 1, 1, 1},
		{"junction_wne", 1, 1, 0, 1, 1},
		{"cross", 1, 1, 1, 1, 1},
	}

	catalog := make(Catalog, len(defs))
	for i, d := range defs {
		catalog[i] = TileType{
			ID:         i,
			Name:       d.name,
			Connectors: [4]uint8{d.n, d.e, d.s, d.w},
			Weight:     d.weight,
		}
	}
	return catalog
}

// ByName returns the tile with the given name.
func (c Catalog) ByName(name string) (TileType, bool) {
	for _, t := range c {
		if t.Name == name {
			return t, true
		}
	}
	return TileType{}, false
}

// Validate checks that the catalog can be used by the solver.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("wfc: empty tile catalog")
	}
	if len(c) > MaxCatalogSize {
		return fmt.Errorf("wfc: catalog has %d tiles, max %d", len(c), MaxCatalogSize)
	}
	for i, t := range c {
		if t.ID != i {
			return fmt.Errorf("wfc: tile %q has id %d at index %d", t.Name, t.ID, i)
		}
		if t.Weight <= 0 {
			return fmt.Errorf("wfc: tile %q has non-positive weight", t.Name)
		}
	}
	return nil
}

// Tile is a resolved cell of the output grid.
type Tile struct {
	X, Y int
	Type TileType
}
