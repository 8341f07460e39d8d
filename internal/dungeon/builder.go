package dungeon

import (
	"fmt"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/rng"
	"github.com/lawnchairsociety/delvegen/internal/wfc"
)

// Layout algorithms
const (
	AlgorithmRooms = "rooms"
	AlgorithmWFC   = "wfc"
)

// MaxRoomLimit caps MaxRooms so every config fits in a seed code.
const MaxRoomLimit = 1000

// Config contains parameters for level layout
type Config struct {
	Algorithm      string
	Theme          string
	MinRooms       int
	MaxRooms       int
	Padding        int     // Empty margin kept around every room
	CorridorWidth  int     // Carved width of every corridor
	CorridorLength int     // Tiles between two connected exits
	LoopChance     float64 // Per-pair chance of an extra loop corridor
	MaxLoops       int
	BossLevel      float64 // Difficulty at which the final room becomes a boss room
	TileSize       int     // World units per tile
	PlacementTries int     // Template attempts per exit

	// WFC layout mode
	WFC wfc.Config
}

// DefaultConfig returns reasonable defaults for a level
func DefaultConfig() Config {
	return Config{
		Algorithm:      AlgorithmRooms,
		Theme:          DefaultTheme,
		MinRooms:       5,
		MaxRooms:       8,
		Padding:        1,
		CorridorWidth:  1,
		CorridorLength: 4,
		LoopChance:     0.08,
		MaxLoops:       2,
		BossLevel:      5,
		TileSize:       32,
		PlacementTries: 3,
		WFC:            wfc.Config{Width: 14, Height: 10, MaxAttempts: 10, ClosedBorder: true},
	}
}

// Validate checks the config for impossible values.
func (c Config) Validate() error {
	switch {
	case c.Algorithm != AlgorithmRooms && c.Algorithm != AlgorithmWFC:
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidConfig, c.Algorithm)
	case c.MinRooms < 2:
		return fmt.Errorf("%w: min rooms %d < 2", ErrInvalidConfig, c.MinRooms)
	case c.MaxRooms < c.MinRooms:
		return fmt.Errorf("%w: max rooms %d < min rooms %d", ErrInvalidConfig, c.MaxRooms, c.MinRooms)
	case c.MaxRooms > MaxRoomLimit:
		return fmt.Errorf("%w: max rooms %d > %d", ErrInvalidConfig, c.MaxRooms, MaxRoomLimit)
	case c.Padding < 0:
		return fmt.Errorf("%w: negative padding", ErrInvalidConfig)
	case c.CorridorWidth < 1:
		return fmt.Errorf("%w: corridor width %d < 1", ErrInvalidConfig, c.CorridorWidth)
	case c.CorridorLength < c.Padding+c.CorridorWidth:
		return fmt.Errorf("%w: corridor length %d too short for padding %d", ErrInvalidConfig, c.CorridorLength, c.Padding)
	case c.LoopChance < 0 || c.LoopChance > 1:
		return fmt.Errorf("%w: loop chance %v outside [0,1]", ErrInvalidConfig, c.LoopChance)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d", ErrInvalidConfig, c.TileSize)
	}
	return nil
}

// Builder grows a room graph from a start room using a FIFO frontier.
type Builder struct {
	config    Config
	catalog   *Catalog
	theme     *Theme
	desc      difficulty.Descriptor
	rng       *rng.RNG
	rooms     []*Room
	corridors []*Corridor
	mainCount int
}

// NewBuilder creates a builder for one generation run. The RNG is owned by
// the run and shared with every later decoration pass.
func NewBuilder(config Config, desc difficulty.Descriptor, r *rng.RNG) *Builder {
	if config.PlacementTries <= 0 {
		config.PlacementTries = 3
	}
	return &Builder{
		config:  config,
		catalog: DefaultCatalog(),
		theme:   GetTheme(config.Theme),
		desc:    desc,
		rng:     r,
	}
}

// SetCatalog replaces the template catalog
func (b *Builder) SetCatalog(c *Catalog) {
	b.catalog = c
}

// Build places rooms, carves corridors, adds loops and secrets, rasterizes
// the grid and places the monsters, items and traps.
func (b *Builder) Build() (*Dungeon, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.config.Algorithm == AlgorithmWFC {
		return b.buildWFC()
	}

	target := b.rng.IntRange(b.config.MinRooms, b.config.MaxRooms)

	start := b.pickTemplate(b.catalog.OfType(RoomStart))
	origin := Point{-start.Width() / 2, -start.Height() / 2}
	b.place(start, origin, RoomStart)

	frontier := []*Room{b.rooms[0]}
	for len(frontier) > 0 && b.mainCount < target {
		room := frontier[0]
		frontier = frontier[1:]

		order := make([]int, len(room.Exits))
		for i := range order {
			order[i] = i
		}
		b.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		for _, idx := range order {
			if b.mainCount >= target {
				break
			}
			exit := room.Exits[idx]
			if exit.Connected {
				continue
			}
			roomType := b.chooseType(target - b.mainCount)
			if placed := b.attach(room, exit, roomType); placed != nil {
				frontier = append(frontier, placed)
			}
		}
	}

	if b.mainCount < b.config.MinRooms {
		return nil, fmt.Errorf("%w: placed %d rooms, need %d (target %d)",
			ErrPlacementShortfall, b.mainCount, b.config.MinRooms, target)
	}

	b.ensureGoal()
	b.addLoops()
	b.addSecrets()

	d := &Dungeon{
		Theme:      b.theme.Name,
		Algorithm:  AlgorithmRooms,
		Difficulty: b.desc,
		TileSize:   b.config.TileSize,
		Rooms:      b.rooms,
		Corridors:  b.corridors,
	}
	d.rasterize()

	d.Spawn = d.StartRoom().Center()
	d.Exit = d.GoalRoom().Center()
	d.Occupy(d.Spawn)
	d.Occupy(d.Exit)

	populate(d, b.theme, b.rng)
	return d, nil
}

// chooseType picks the next room type from the remaining budget.
func (b *Builder) chooseType(remaining int) RoomType {
	if remaining <= 1 {
		return b.goalType()
	}
	if remaining == 2 && b.rng.Chance(0.5) {
		return RoomTreasure
	}

	types := []RoomType{RoomHallway, RoomChamber, RoomTrap, RoomTreasure, ""}
	weights := []float64{
		2 + float64(remaining)/2,
		4,
		1 + 4*b.desc.TrapDensity,
		1,
		2,
	}
	if len(b.theme.Prefabs) == 0 {
		weights[4] = 0
	}

	choice := types[b.rng.WeightedIndex(weights)]
	if choice == "" {
		choice = b.theme.Prefabs[b.rng.Intn(len(b.theme.Prefabs))]
	}
	return choice
}

func (b *Builder) goalType() RoomType {
	if b.desc.Level >= b.config.BossLevel {
		return RoomBoss
	}
	return RoomEnd
}

// attach tries to place a room of the given type behind exit.
func (b *Builder) attach(parent *Room, exit *Exit, roomType RoomType) *Room {
	facing := exit.Direction.Opposite()
	candidates := b.catalog.Facing(roomType, facing)
	if len(candidates) == 0 {
		return nil
	}

	for try := 0; try < b.config.PlacementTries; try++ {
		tpl := b.pickTemplate(candidates)

		// The facing exit sits CorridorLength+1 tiles out along the exit direction
		target := exit.Position.Step(exit.Direction, b.config.CorridorLength+1)
		off := tpl.ExitOffset(facing)
		origin := Point{target.X - off.X, target.Y - off.Y}

		box := Rect{origin.X, origin.Y, tpl.Width(), tpl.Height()}
		if b.overlaps(box) {
			continue
		}

		room := b.place(tpl, origin, roomType)
		b.connect(parent, exit, room, room.ExitFacing(facing))
		return room
	}
	return nil
}

// overlaps reports whether box grown by Padding touches any placed room or
// any corridor carved so far.
func (b *Builder) overlaps(box Rect) bool {
	padded := box.Grow(b.config.Padding)
	for _, r := range b.rooms {
		if padded.Intersects(r.Bounds()) {
			return true
		}
	}
	for _, c := range b.corridors {
		for _, seg := range c.Segments() {
			if padded.Intersects(seg) {
				return true
			}
		}
	}
	return false
}

func (b *Builder) pickTemplate(candidates []*Template) *Template {
	return candidates[b.rng.Intn(len(candidates))]
}

// place instantiates a template at origin
func (b *Builder) place(tpl *Template, origin Point, roomType RoomType) *Room {
	room := &Room{
		ID:       len(b.rooms),
		Type:     roomType,
		X:        origin.X,
		Y:        origin.Y,
		Width:    tpl.Width(),
		Height:   tpl.Height(),
		Layout:   append([]string(nil), tpl.Layout...),
		Secret:   roomType == RoomSecret,
		Template: tpl.Name,
	}
	room.Name = fmt.Sprintf("%s_%d", roomType, room.ID)

	for _, d := range tpl.Exits {
		off := tpl.ExitOffset(d)
		room.Exits = append(room.Exits, &Exit{
			Position:  Point{origin.X + off.X, origin.Y + off.Y},
			Direction: d,
			Target:    -1,
		})
	}

	if roomType == RoomMaze {
		b.carveMaze(room)
	}

	b.rooms = append(b.rooms, room)
	if room.IsMain() {
		b.mainCount++
	}
	return room
}

// carveMaze replaces the maze room interior with a WFC-collapsed grid using
// the shared RNG. Non-walkable cells become walls.
func (b *Builder) carveMaze(room *Room) {
	gen := wfc.NewGenerator(wfc.Config{
		Width:        mazeCells,
		Height:       mazeCells,
		MaxAttempts:  b.config.WFC.MaxAttempts,
		ClosedBorder: true,
	}, nil)
	result, err := gen.Generate(b.rng)
	if err != nil {
		return // keep the open layout
	}

	open := result.Expand()
	layout := make([]string, room.Height)
	for y := 0; y < room.Height; y++ {
		row := []byte(room.Layout[y])
		for x := 1; x < room.Width-1 && y > 0 && y < room.Height-1; x++ {
			if open[y-1][x-1] {
				row[x] = '.'
			} else {
				row[x] = '#'
			}
		}
		layout[y] = string(row)
	}
	room.Layout = layout
}

// connect records a corridor between two exits.
func (b *Builder) connect(a *Room, ea *Exit, c *Room, ec *Exit) {
	ea.Connected, ea.Target = true, c.ID
	ec.Connected, ec.Target = true, a.ID

	b.corridors = append(b.corridors, &Corridor{
		From:   a.ID,
		To:     c.ID,
		Points: []Point{a.Center(), ea.Position, ec.Position, c.Center()},
		Width:  b.config.CorridorWidth,
		Secret: c.Secret,
	})
}

// ensureGoal relabels the last placed room when no end or boss room exists.
func (b *Builder) ensureGoal() {
	for _, r := range b.rooms {
		if r.Type == RoomEnd || r.Type == RoomBoss {
			return
		}
	}
	for i := len(b.rooms) - 1; i > 0; i-- {
		r := b.rooms[i]
		if r.IsMain() && r.Type != RoomStart {
			r.Type = b.goalType()
			r.Name = fmt.Sprintf("%s_%d", r.Type, r.ID)
			return
		}
	}
}

// addLoops adds redundant corridors between rooms that are not directly connected.
func (b *Builder) addLoops() {
	if b.config.MaxLoops <= 0 || b.config.LoopChance <= 0 {
		return
	}

	adjacent := make(map[[2]int]bool)
	for _, c := range b.corridors {
		adjacent[[2]int{c.From, c.To}] = true
		adjacent[[2]int{c.To, c.From}] = true
	}

	loops := 0
	for i := 0; i < len(b.rooms) && loops < b.config.MaxLoops; i++ {
		for j := i + 1; j < len(b.rooms) && loops < b.config.MaxLoops; j++ {
			a, c := b.rooms[i], b.rooms[j]
			if !a.IsMain() || !c.IsMain() || adjacent[[2]int{i, j}] {
				continue
			}
			loop := &Corridor{
				From:   a.ID,
				To:     c.ID,
				Points: []Point{a.Center(), c.Center()},
				Width:  b.config.CorridorWidth,
				Loop:   true,
			}
			if b.crossesOtherRoom(loop) || !b.rng.Chance(b.config.LoopChance) {
				continue
			}
			b.corridors = append(b.corridors, loop)
			loops++
		}
	}
}

// crossesOtherRoom reports whether any run of c cuts through a room other
// than its two endpoints.
func (b *Builder) crossesOtherRoom(c *Corridor) bool {
	for _, seg := range c.Segments() {
		for _, r := range b.rooms {
			if r.ID != c.From && r.ID != c.To && seg.Intersects(r.Bounds()) {
				return true
			}
		}
	}
	return false
}

// addSecrets hides closets behind unconnected exits of main rooms.
func (b *Builder) addSecrets() {
	main := len(b.rooms)
	for i := 0; i < main; i++ {
		room := b.rooms[i]
		for _, exit := range room.Exits {
			if exit.Connected || !b.rng.Chance(b.desc.SecretChance) {
				continue
			}
			if closet := b.attach(room, exit, RoomSecret); closet != nil {
				exit.Secret = true
			}
		}
	}
}

// rasterize translates the layout so the minimum room corner is (1,1) and
// draws rooms and corridors onto a fresh grid.
func (d *Dungeon) rasterize() {
	minX, minY := d.Rooms[0].X, d.Rooms[0].Y
	maxX, maxY := minX, minY
	for _, r := range d.Rooms {
		minX = min(minX, r.X)
		minY = min(minY, r.Y)
		maxX = max(maxX, r.X+r.Width-1)
		maxY = max(maxY, r.Y+r.Height-1)
	}

	dx, dy := 1-minX, 1-minY
	for _, r := range d.Rooms {
		r.translate(dx, dy)
	}
	for _, c := range d.Corridors {
		for i := range c.Points {
			c.Points[i] = c.Points[i].Add(dx, dy)
		}
	}

	g := NewGrid(maxX+dx+2, maxY+dy+2)
	d.Grid = g

	for _, r := range d.Rooms {
		for y, row := range r.Layout {
			for x, ch := range row {
				p := Point{r.X + x, r.Y + y}
				g.setRoom(p, r.ID)
				switch ch {
				case '.':
					g.Set(p, TileFloor)
				case 'o':
					g.Set(p, TilePillar)
				default:
					g.Set(p, TileWall)
				}
			}
		}
	}

	for _, c := range d.Corridors {
		for i := 0; i+1 < len(c.Points); i++ {
			carveL(g, c.Points[i], c.Points[i+1], c.Width)
		}
	}

	for _, r := range d.Rooms {
		for _, e := range r.Exits {
			if e.Secret {
				g.Set(e.Position, TileSecret)
				d.Secrets = append(d.Secrets, &Secret{
					ID:       fmt.Sprintf("secret_%d", len(d.Secrets)+1),
					RoomID:   e.Target,
					Position: e.Position,
				})
			}
		}
	}

	g.wallIn()
}

// Segments returns the boxes covered by the corridor's L-shaped runs.
func (c *Corridor) Segments() []Rect {
	var out []Rect
	for i := 0; i+1 < len(c.Points); i++ {
		a, b := c.Points[i], c.Points[i+1]
		corner := Point{b.X, a.Y}
		out = append(out, bandRect(a, corner, c.Width), bandRect(corner, b, c.Width))
	}
	return out
}

// bandRect returns the box of a straight run widened perpendicular to its axis.
func bandRect(a, b Point, width int) Rect {
	lo := -(width - 1) / 2
	x0, x1 := min(a.X, b.X), max(a.X, b.X)
	y0, y1 := min(a.Y, b.Y), max(a.Y, b.Y)
	if a.Y == b.Y {
		return Rect{x0, y0 + lo, x1 - x0 + 1, y1 - y0 + width}
	}
	return Rect{x0 + lo, y0, x1 - x0 + width, y1 - y0 + 1}
}

// carveL carves a horizontal then vertical run from a to b.
func carveL(g *Grid, a, b Point, width int) {
	corner := Point{b.X, a.Y}
	carveRect(g, bandRect(a, corner, width))
	carveRect(g, bandRect(corner, b, width))
}

func carveRect(g *Grid, r Rect) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			carveTile(g, Point{x, y})
		}
	}
}

func carveTile(g *Grid, p Point) {
	if g.RoomAt(p) >= 0 {
		g.Set(p, TileFloor)
		return
	}
	g.Set(p, TileCorridor)
}
