package dungeon

import (
	"fmt"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/rng"
)

// populate spawns monsters, items and traps into the placed rooms.
func populate(d *Dungeon, theme *Theme, r *rng.RNG) {
	spawnMonsters(d, theme, r)
	spawnItems(d, theme, r)
	spawnTraps(d, theme, r)
}

// spawnMonsters places the boss first, then MonsterCount regular monsters in
// random non-start rooms.
func spawnMonsters(d *Dungeon, theme *Theme, r *rng.RNG) {
	desc := d.Difficulty
	tier := difficulty.MonsterTier(desc.Level)

	if boss := d.RoomsOfType(RoomBoss); len(boss) > 0 {
		if p, ok := d.TakeTile(boss[0], r); ok {
			def := theme.bossForTier(tier)
			d.Monsters = append(d.Monsters, newMonster(d, def, boss[0].ID, p, desc.MonsterStrength, true))
		}
	}

	var eligible []*Room
	for _, room := range d.Rooms {
		if room.Type != RoomStart && room.IsMain() {
			eligible = append(eligible, room)
		}
	}
	if len(eligible) == 0 {
		return
	}

	pool := theme.monstersForTier(tier)
	for i := 0; i < desc.MonsterCount; i++ {
		room := eligible[r.Intn(len(eligible))]
		p, ok := d.TakeTile(room, r)
		if !ok {
			continue
		}
		def := pool[r.Intn(len(pool))]
		d.Monsters = append(d.Monsters, newMonster(d, def, room.ID, p, desc.MonsterStrength, false))
	}
}

func newMonster(d *Dungeon, def MonsterDef, roomID int, p Point, strength float64, boss bool) Monster {
	return Monster{
		ID:       fmt.Sprintf("monster_%d", len(d.Monsters)+1),
		Name:     def.Name,
		RoomID:   roomID,
		Position: p,
		HP:       difficulty.ScaleHP(def.HP, strength),
		Damage:   difficulty.ScaleDamage(def.Damage, strength),
		Tier:     def.Tier,
		Boss:     boss,
	}
}

// spawnItems puts 2-4 candidate items in treasure rooms and 0-1 elsewhere;
// each candidate survives only if its roll beats the scarcity threshold.
func spawnItems(d *Dungeon, theme *Theme, r *rng.RNG) {
	tier := difficulty.LootTier(d.Difficulty.Level)
	for _, room := range d.Rooms {
		if room.Type == RoomStart {
			continue
		}
		var count int
		if room.Type == RoomTreasure || room.Type == RoomSecret {
			count = r.IntRange(2, 4)
		} else {
			count = r.IntRange(0, 1)
		}

		for i := 0; i < count; i++ {
			if !d.Difficulty.KeepResource(r.Next()) {
				continue
			}
			p, ok := d.TakeTile(room, r)
			if !ok {
				break
			}
			name := theme.Items[r.Intn(len(theme.Items))]
			d.Items = append(d.Items, Item{
				ID:       fmt.Sprintf("item_%d", len(d.Items)+1),
				Name:     name,
				Kind:     itemKind(name),
				RoomID:   room.ID,
				Position: p,
				Tier:     tier,
			})
		}
	}
}

func itemKind(name string) string {
	switch name {
	case "health potion", "holy water", "glowing mushroom":
		return "health"
	case "sanity tonic":
		return "sanity"
	case "ammo pouch":
		return "ammo"
	case "gold coins":
		return "gold"
	default:
		return "misc"
	}
}

// spawnTraps fills trap rooms with 2-3 traps and gives other rooms a
// TrapDensity chance of one.
func spawnTraps(d *Dungeon, theme *Theme, r *rng.RNG) {
	for _, room := range d.Rooms {
		if room.Type == RoomStart || !room.IsMain() {
			continue
		}
		count := 0
		if room.Type == RoomTrap {
			count = r.IntRange(2, 3)
		} else if r.Chance(d.Difficulty.TrapDensity) {
			count = 1
		}

		for i := 0; i < count; i++ {
			p, ok := d.TakeTile(room, r)
			if !ok {
				break
			}
			d.Traps = append(d.Traps, Trap{
				ID:       fmt.Sprintf("trap_%d", len(d.Traps)+1),
				Kind:     theme.Traps[r.Intn(len(theme.Traps))],
				RoomID:   room.ID,
				Position: p,
				Damage:   difficulty.ScaleDamage(5, d.Difficulty.MonsterStrength),
			})
		}
	}
}

// TakeTile picks and occupies a random free tile in the room.
func (d *Dungeon) TakeTile(room *Room, r *rng.RNG) (Point, bool) {
	free := d.FreeTiles(room)
	if len(free) == 0 {
		return Point{}, false
	}
	p := free[r.Intn(len(free))]
	d.Occupy(p)
	return p, true
}
