package hazard

import (
	"fmt"
	"math"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/rng"
)

// Count returns how many hazards a level with the given number of main
// rooms receives.
func Count(mainRooms int, trapDensity float64) int {
	return int(math.Round(float64(mainRooms) * (0.15 + trapDensity)))
}

// Place scatters hazards across the non-start rooms of a room layout, or
// across free floor when the layout has no rooms.
func Place(d *dungeon.Dungeon, r *rng.RNG) []*Hazard {
	desc := d.Difficulty
	defs := Eligible(desc.Level)
	if len(defs) == 0 {
		return nil
	}

	var rooms []*dungeon.Room
	for _, room := range d.MainRooms() {
		if room.Type != dungeon.RoomStart {
			rooms = append(rooms, room)
		}
	}

	var out []*Hazard
	if len(d.Rooms) == 0 {
		// Open layouts count one pseudo-room per five monsters
		n := Count(max(1, desc.MonsterCount/5), desc.TrapDensity)
		for i := 0; i < n; i++ {
			p, ok := d.TakeFloor(r)
			if !ok {
				break
			}
			out = append(out, newHazard(len(out)+1, defs[r.Intn(len(defs))], -1, p, desc))
		}
		return out
	}

	n := Count(len(d.MainRooms()), desc.TrapDensity)
	for i := 0; i < n && len(rooms) > 0; i++ {
		room := rooms[r.Intn(len(rooms))]
		def := defs[r.Intn(len(defs))]
		p, ok := d.TakeTile(room, r)
		if !ok {
			continue
		}
		out = append(out, newHazard(len(out)+1, def, room.ID, p, desc))
	}
	return out
}

func newHazard(n int, def Def, roomID int, p dungeon.Point, desc difficulty.Descriptor) *Hazard {
	return &Hazard{
		ID:        fmt.Sprintf("hazard_%d", n),
		Kind:      def.Kind,
		Trigger:   def.Trigger,
		RoomID:    roomID,
		Position:  p,
		Damage:    difficulty.ScaleDamage(def.Damage, desc.MonsterStrength),
		Radius:    def.Radius,
		Interval:  def.Interval,
		Threshold: def.Threshold,
	}
}
