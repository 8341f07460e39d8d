package lockkey

import (
	"fmt"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/rng"
)

// Config contains lock placement parameters
type Config struct {
	DoorChance float64 // Chance that a connected hallway exit gets a locked door
	DoorHP     int     // Base door hit points before scaling
}

// DefaultConfig returns the standard lock settings
func DefaultConfig() Config {
	return Config{DoorChance: 0.3, DoorHP: 30}
}

// Placement is the result of decorating a dungeon with locks.
type Placement struct {
	Keys  []Key
	Doors []*Door
}

// Place puts locked doors on connected hallway exits and then places one key
// per door so that every key is reachable before its door must be opened.
func Place(d *dungeon.Dungeon, cfg Config, r *rng.RNG) Placement {
	var p Placement
	if len(d.Rooms) == 0 {
		return p
	}

	dist, _ := d.Grid.Distances(d.Spawn)
	seen := make(map[dungeon.Point]bool)

	for _, room := range d.MainRooms() {
		if room.Type != dungeon.RoomHallway {
			continue
		}
		for _, exit := range room.Exits {
			if !exit.Connected || exit.Secret || seen[exit.Position] {
				continue
			}
			seen[exit.Position] = true
			if !r.Chance(cfg.DoorChance) {
				continue
			}

			// The door locks whichever side is farther from the spawn
			other := d.Room(exit.Target)
			inner := room
			if dist[other.Center()] > dist[room.Center()] {
				inner = other
			}

			// A loop may already reach the room past this exit
			cut := exit.Position
			behind := d.Grid.Reachable(d.Spawn, func(pt dungeon.Point) bool { return pt == cut })
			if reachesRoom(d, behind.Has, inner) {
				continue
			}

			door := &Door{
				ID:        fmt.Sprintf("door_%d", len(p.Doors)+1),
				RoomID:    inner.ID,
				Position:  exit.Position,
				Direction: exit.Direction,
				HP:        difficulty.ScaleHP(cfg.DoorHP, d.Difficulty.MonsterStrength),
			}
			p.Doors = append(p.Doors, door)
		}
	}

	p.placeKeys(d, r)
	p.placeMasterKey(d, r)
	return p
}

// reachesRoom reports whether any walkable tile of room is in the region.
func reachesRoom(d *dungeon.Dungeon, in func(dungeon.Point) bool, room *dungeon.Room) bool {
	b := room.Bounds()
	for y := b.Y; y < b.Y+b.H; y++ {
		for x := b.X; x < b.X+b.W; x++ {
			p := dungeon.Point{X: x, Y: y}
			if d.Grid.RoomAt(p) == room.ID && d.Grid.At(p).Walkable() && in(p) {
				return true
			}
		}
	}
	return false
}

// placeKeys places key_n for door_n in order. Each key goes in the region
// reachable from spawn with all later doors still closed.
func (p *Placement) placeKeys(d *dungeon.Dungeon, r *rng.RNG) {
	kept := make([]*Door, 0, len(p.Doors))
	for i, door := range p.Doors {
		closed := make(map[dungeon.Point]bool)
		for _, later := range p.Doors[i:] {
			closed[later.Position] = true
		}
		region := d.Grid.Reachable(d.Spawn, func(pt dungeon.Point) bool { return closed[pt] })

		var preferred, fallback []*dungeon.Room
		for _, room := range d.MainRooms() {
			if !region.Has(room.Center()) {
				continue
			}
			switch room.Type {
			case dungeon.RoomTreasure, dungeon.RoomChamber:
				preferred = append(preferred, room)
			default:
				fallback = append(fallback, room)
			}
		}

		pos, roomID, ok := takeIn(d, preferred, r)
		if !ok {
			pos, roomID, ok = takeIn(d, fallback, r)
		}
		if !ok {
			// Nowhere to hide the key: drop the lock
			continue
		}

		n := len(kept) + 1
		door.ID = fmt.Sprintf("door_%d", n)
		kept = append(kept, door)
		d.Room(door.RoomID).Locked = true
		d.Grid.Set(door.Position, dungeon.TileDoor)

		p.Keys = append(p.Keys, Key{
			ID:       fmt.Sprintf("key_%d", n),
			Opens:    []string{door.ID},
			RoomID:   roomID,
			Position: pos,
		})
	}
	p.Doors = kept
}

// takeIn picks a random room from rooms and takes a free tile in it, trying
// the others in order when the pick is full.
func takeIn(d *dungeon.Dungeon, rooms []*dungeon.Room, r *rng.RNG) (dungeon.Point, int, bool) {
	if len(rooms) == 0 {
		return dungeon.Point{}, -1, false
	}
	first := r.Intn(len(rooms))
	for i := 0; i < len(rooms); i++ {
		room := rooms[(first+i)%len(rooms)]
		if pt, ok := d.TakeTile(room, r); ok {
			return pt, room.ID, true
		}
	}
	return dungeon.Point{}, -1, false
}

// placeMasterKey hides a wildcard key in a secret room with SecretChance.
func (p *Placement) placeMasterKey(d *dungeon.Dungeon, r *rng.RNG) {
	secret := d.RoomsOfType(dungeon.RoomSecret)
	if len(secret) == 0 || !r.Chance(d.Difficulty.SecretChance) {
		return
	}
	pos, roomID, ok := takeIn(d, secret, r)
	if !ok {
		return
	}
	p.Keys = append(p.Keys, Key{
		ID:       "master_key",
		Opens:    []string{Wildcard},
		RoomID:   roomID,
		Position: pos,
	})
}

// Verify walks the level as a player would: pick up every reachable key,
// open every reachable door that a held key fits, and repeat. It returns
// the IDs of doors that can never be opened. Doors are not mutated.
func Verify(d *dungeon.Dungeon, keys []Key, doors []*Door) []string {
	open := make(map[string]bool)
	taken := make(map[string]bool)
	inv := NewInventory()

	for {
		closed := make(map[dungeon.Point]bool)
		for _, door := range doors {
			if !open[door.ID] {
				closed[door.Position] = true
			}
		}
		region := d.Grid.Reachable(d.Spawn, func(pt dungeon.Point) bool { return closed[pt] })

		progress := false
		for _, k := range keys {
			if !taken[k.ID] && region.Has(k.Position) {
				taken[k.ID] = true
				inv.Add(k)
				progress = true
			}
		}

		for _, door := range doors {
			if open[door.ID] || !touches(region.Has, door.Position) {
				continue
			}
			probe := &Door{ID: door.ID}
			if _, err := UseKey(inv, probe); err == nil {
				open[door.ID] = true
				progress = true
			}
		}

		if !progress {
			break
		}
	}

	var stuck []string
	for _, door := range doors {
		if !open[door.ID] {
			stuck = append(stuck, door.ID)
		}
	}
	return stuck
}

func touches(in func(dungeon.Point) bool, p dungeon.Point) bool {
	for _, d := range []dungeon.Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}} {
		if in(p.Add(d.X, d.Y)) {
			return true
		}
	}
	return false
}
