// Package levels links independently generated dungeons into a vertical
// chain connected by staircases.
package levels

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/rng"
)

const (
	MinLevels = 2
	MaxLevels = 5

	// SeedStride separates the seeds of consecutive levels.
	SeedStride = 1000
)

var (
	ErrNoStairTile = errors.New("levels: no free tile for stairs")
	ErrBrokenChain = errors.New("levels: broken stair chain")
)

// Stair is one end of a staircase. Target is the depth it leads to.
type Stair struct {
	RoomID   int           `yaml:"room_id"`
	Position dungeon.Point `yaml:"position"`
	Target   int           `yaml:"target"`
}

// Level is one dungeon in the chain.
type Level struct {
	Depth   int
	Seed    int64
	Dungeon *dungeon.Dungeon
	Up      *Stair
	Down    *Stair
}

// Count returns how many levels a run at the given depth spans.
func Count(depth int) int {
	return min(MaxLevels, max(MinLevels, 1+depth/5))
}

// SeedFor returns the seed of level i in a chain started from base.
func SeedFor(base int64, i int) int64 {
	return base + int64(i)*SeedStride
}

// PlaceStairs adds the staircases for level i of n. Level 0 only gets a way
// down, the last level only a way up.
func PlaceStairs(lvl *Level, n int, r *rng.RNG) error {
	d := lvl.Dungeon
	usedRoom := -1

	if lvl.Depth < n-1 {
		s, err := placeStair(d, usedRoom, r)
		if err != nil {
			return fmt.Errorf("stairs down on level %d: %w", lvl.Depth, err)
		}
		s.Target = lvl.Depth + 1
		d.Grid.Set(s.Position, dungeon.TileStairsDown)
		lvl.Down = s
		usedRoom = s.RoomID
	}

	if lvl.Depth > 0 {
		s, err := placeStair(d, usedRoom, r)
		if err != nil {
			return fmt.Errorf("stairs up on level %d: %w", lvl.Depth, err)
		}
		s.Target = lvl.Depth - 1
		d.Grid.Set(s.Position, dungeon.TileStairsUp)
		lvl.Up = s
	}
	return nil
}

// placeStair picks an ordinary room, preferring one other than avoid, and
// occupies a free interior tile in it.
func placeStair(d *dungeon.Dungeon, avoid int, r *rng.RNG) (*Stair, error) {
	if len(d.Rooms) == 0 {
		p, ok := d.TakeFloor(r)
		if !ok {
			return nil, ErrNoStairTile
		}
		return &Stair{RoomID: -1, Position: p}, nil
	}

	var ordinary, fallback []*dungeon.Room
	for _, room := range d.MainRooms() {
		switch room.Type {
		case dungeon.RoomStart:
			continue
		case dungeon.RoomEnd, dungeon.RoomBoss:
			fallback = append(fallback, room)
		default:
			if room.ID == avoid {
				fallback = append([]*dungeon.Room{room}, fallback...)
				continue
			}
			ordinary = append(ordinary, room)
		}
	}

	for _, pool := range [][]*dungeon.Room{ordinary, fallback} {
		if len(pool) == 0 {
			continue
		}
		first := r.Intn(len(pool))
		for i := range pool {
			room := pool[(first+i)%len(pool)]
			if p, ok := d.TakeTile(room, r); ok {
				return &Stair{RoomID: room.ID, Position: p}, nil
			}
		}
	}
	return nil, ErrNoStairTile
}

// ValidateChain checks stair presence and targets across the chain.
func ValidateChain(chain []*Level) error {
	n := len(chain)
	if n < MinLevels {
		return fmt.Errorf("%w: %d levels", ErrBrokenChain, n)
	}
	for i, lvl := range chain {
		if lvl.Depth != i {
			return fmt.Errorf("%w: level %d has depth %d", ErrBrokenChain, i, lvl.Depth)
		}
		switch {
		case i == 0 && lvl.Up != nil:
			return fmt.Errorf("%w: first level has stairs up", ErrBrokenChain)
		case i == n-1 && lvl.Down != nil:
			return fmt.Errorf("%w: last level has stairs down", ErrBrokenChain)
		case i > 0 && (lvl.Up == nil || lvl.Up.Target != i-1):
			return fmt.Errorf("%w: level %d stairs up missing or misrouted", ErrBrokenChain, i)
		case i < n-1 && (lvl.Down == nil || lvl.Down.Target != i+1):
			return fmt.Errorf("%w: level %d stairs down missing or misrouted", ErrBrokenChain, i)
		}
		if lvl.Up != nil && lvl.Down != nil && lvl.Up.Position == lvl.Down.Position {
			return fmt.Errorf("%w: level %d stairs share a tile", ErrBrokenChain, i)
		}
	}
	return nil
}
