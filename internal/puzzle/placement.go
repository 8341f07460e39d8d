package puzzle

import (
	"fmt"
	"math"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/rng"
	"github.com/lawnchairsociety/delvegen/internal/wfc"
)

// Resources a puzzle can reward, with their base amounts.
var rewardBase = []struct {
	resource string
	amount   int
}{
	{"health", 25},
	{"sanity", 20},
	{"ammo", 10},
	{"gold", 50},
}

// AttachChance is the chance a chamber or trap room gets a puzzle.
func AttachChance(level float64) float64 {
	return math.Min(0.8, 0.2+0.06*level)
}

// Place attaches puzzles to chamber and trap rooms.
func Place(d *dungeon.Dungeon, r *rng.RNG) []*Puzzle {
	level := d.Difficulty.Level
	chance := AttachChance(level)

	var out []*Puzzle
	for _, room := range d.MainRooms() {
		if room.Type != dungeon.RoomChamber && room.Type != dungeon.RoomTrap {
			continue
		}
		if !r.Chance(chance) {
			continue
		}
		pos, ok := d.TakeTile(room, r)
		if !ok {
			continue
		}

		kind := AllKinds[r.Intn(len(AllKinds))]
		p := New(fmt.Sprintf("puzzle_%d", len(out)+1), kind, level, r)
		p.RoomID = room.ID
		p.Position = pos
		if kind == KindBeam {
			p.Beam = newBeam(d, room, pos, level, r)
		}

		rw := rewardBase[r.Intn(len(rewardBase))]
		p.Reward = Reward{Resource: rw.resource, Amount: difficulty.ScaleReward(rw.amount, level)}
		out = append(out, p)
	}
	return out
}

// New builds an unsolved puzzle of the given kind, sized for the level.
// Beam puzzles get a state anchored at the origin; Place anchors them in a room.
func New(id string, kind Kind, level float64, r *rng.RNG) *Puzzle {
	p := &Puzzle{ID: id, Kind: kind, RoomID: -1}
	switch kind {
	case KindLever:
		n := min(6, 3+int(level)/3)
		target := make([]bool, n)
		set := false
		for i := range target {
			target[i] = r.Chance(0.5)
			set = set || target[i]
		}
		if !set {
			target[r.Intn(n)] = true
		}
		p.Levers = &LeverState{Target: target, Current: make([]bool, n)}

	case KindFloorTiles:
		size := 3
		if level >= 6 {
			size = 4
		}
		pressed := make([][]bool, size)
		for i := range pressed {
			pressed[i] = make([]bool, size)
		}
		p.Tiles = &TileState{Size: size, Pressed: pressed}

	case KindStatue:
		st := &StatueState{
			Facing: make([]wfc.Direction, 4),
			Target: wfc.Direction(r.Intn(4)),
		}
		for i := range st.Facing {
			st.Facing[i] = wfc.Direction(r.Intn(4))
		}
		if st.Facing[0] == st.Target {
			st.Facing[0] = st.Target.Opposite()
		}
		p.Statues = st

	case KindMemory:
		n := min(8, 3+int(level)/2)
		seq := make([]int, n)
		for i := range seq {
			seq[i] = r.Intn(4)
		}
		p.Memory = &MemoryState{Sequence: seq}

	case KindBeam:
		p.Beam = &BeamState{}
	}
	return p
}

// newBeam lays the source on the puzzle tile and the target and mirrors on
// other free tiles of the room.
func newBeam(d *dungeon.Dungeon, room *dungeon.Room, source dungeon.Point, level float64, r *rng.RNG) *BeamState {
	b := &BeamState{Source: source, Target: source}
	if t, ok := d.TakeTile(room, r); ok {
		b.Target = t
	}
	mirrors := 1 + int(level)/4
	for i := 0; i < mirrors; i++ {
		m, ok := d.TakeTile(room, r)
		if !ok {
			break
		}
		b.Mirrors = append(b.Mirrors, m)
	}
	return b
}
