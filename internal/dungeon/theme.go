package dungeon

import "sort"

// MonsterDef is a base monster before difficulty scaling.
type MonsterDef struct {
	Name   string
	HP     int
	Damage int
	Tier   int
}

// Theme defines the flavour of a generated level.
type Theme struct {
	Name     string
	Prefabs  []RoomType   // themed prefabs the builder may pick
	Monsters []MonsterDef // regular spawns, any tier <= current
	Bosses   []MonsterDef
	Items    []string
	Traps    []string
}

// DefaultTheme is used when no theme or an unknown theme is requested
const DefaultTheme = "dungeon"

// themes holds all theme definitions.
var themes = map[string]*Theme{
	"dungeon": {
		Name:    "dungeon",
		Prefabs: []RoomType{RoomShrine, RoomArena, RoomLibrary, RoomThrone, RoomCrypt, RoomMaze},
		Monsters: []MonsterDef{
			{"rat swarm", 8, 2, 1},
			{"skeleton", 14, 4, 1},
			{"ghoul", 22, 6, 2},
			{"cultist", 18, 7, 2},
			{"wraith", 30, 9, 3},
			{"death knight", 45, 12, 4},
		},
		Bosses: []MonsterDef{
			{"warden of bones", 120, 14, 1},
			{"the hollow king", 200, 20, 3},
		},
		Items: []string{"health potion", "sanity tonic", "ammo pouch", "gold coins", "torch"},
		Traps: []string{"spike plate", "dart slit", "pit"},
	},
	"crypt": {
		Name:    "crypt",
		Prefabs: []RoomType{RoomCrypt, RoomShrine, RoomMaze},
		Monsters: []MonsterDef{
			{"bone crawler", 10, 3, 1},
			{"ghoul", 22, 6, 2},
			{"banshee", 26, 8, 3},
			{"lich acolyte", 40, 11, 4},
		},
		Bosses: []MonsterDef{
			{"crypt lord", 160, 16, 1},
		},
		Items: []string{"health potion", "holy water", "sanity tonic", "gold coins"},
		Traps: []string{"spike plate", "poison needle"},
	},
	"cavern": {
		Name:    "cavern",
		Prefabs: []RoomType{RoomGarden, RoomBridge, RoomArena, RoomMaze},
		Monsters: []MonsterDef{
			{"cave bat", 6, 2, 1},
			{"giant spider", 18, 5, 2},
			{"troll", 40, 10, 3},
			{"deep horror", 55, 13, 4},
		},
		Bosses: []MonsterDef{
			{"brood mother", 150, 15, 1},
		},
		Items: []string{"health potion", "ammo pouch", "glowing mushroom", "gold coins"},
		Traps: []string{"pit", "falling rocks"},
	},
}

// GetTheme returns the named theme, falling back to the default.
func GetTheme(name string) *Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[DefaultTheme]
}

// ThemeNames returns all theme names sorted
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// monstersForTier returns regular monsters at or below tier, in declaration order.
func (t *Theme) monstersForTier(tier int) []MonsterDef {
	var out []MonsterDef
	for _, m := range t.Monsters {
		if m.Tier <= tier {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		out = t.Monsters[:1]
	}
	return out
}

// bossForTier returns the strongest boss at or below tier
func (t *Theme) bossForTier(tier int) MonsterDef {
	best := t.Bosses[0]
	for _, b := range t.Bosses {
		if b.Tier <= tier {
			best = b
		}
	}
	return best
}
