// Package hazard places environmental hazards and evaluates the damage they
// deal to a player each tick.
package hazard

import (
	"math"

	"github.com/lawnchairsociety/delvegen/internal/dungeon"
)

// Kind names a hazard.
type Kind string

const (
	KindSpikes   Kind = "spikes"
	KindCollapse Kind = "collapse"
	KindFire     Kind = "fire"
	KindPoison   Kind = "poison"
	KindElectric Kind = "electric"
)

// Trigger decides when a hazard deals damage.
type Trigger string

const (
	TriggerStep      Trigger = "step"      // once per entry onto the tile
	TriggerProximity Trigger = "proximity" // once per entry into the radius
	TriggerArea      Trigger = "area"      // damage per second inside the radius
	TriggerTimed     Trigger = "timed"     // pulse every Interval seconds inside the radius
	TriggerDelayed   Trigger = "delayed"   // once after Threshold seconds on the tile, then disabled
)

// Def is the static description of a hazard kind.
type Def struct {
	Kind      Kind
	Trigger   Trigger
	MinLevel  float64
	Damage    int
	Radius    float64
	Interval  float64
	Threshold float64
}

// Defs lists every hazard kind in selection order.
var Defs = []Def{
	{Kind: KindSpikes, Trigger: TriggerStep, MinLevel: 1, Damage: 8},
	{Kind: KindCollapse, Trigger: TriggerDelayed, MinLevel: 1, Damage: 20, Threshold: 1.5},
	{Kind: KindFire, Trigger: TriggerArea, MinLevel: 3, Damage: 6, Radius: 1.5},
	{Kind: KindPoison, Trigger: TriggerProximity, MinLevel: 5, Damage: 4, Radius: 2},
	{Kind: KindElectric, Trigger: TriggerTimed, MinLevel: 7, Damage: 10, Radius: 1.5, Interval: 2},
}

// Eligible returns the hazard kinds unlocked at a difficulty level.
func Eligible(level float64) []Def {
	var out []Def
	for _, def := range Defs {
		if level >= def.MinLevel {
			out = append(out, def)
		}
	}
	return out
}

// Hazard is one placed hazard. Position is a tile; player positions passed
// to Update are in tile units, so (x+0.5, y+0.5) is the tile centre.
type Hazard struct {
	ID        string        `yaml:"id"`
	Kind      Kind          `yaml:"kind"`
	Trigger   Trigger       `yaml:"trigger"`
	RoomID    int           `yaml:"room_id"`
	Position  dungeon.Point `yaml:"position"`
	Damage    int           `yaml:"damage"`
	Radius    float64       `yaml:"radius,omitempty"`
	Interval  float64       `yaml:"interval,omitempty"`
	Threshold float64       `yaml:"threshold,omitempty"`
	Disabled  bool          `yaml:"disabled"`

	// Live state
	Exposure float64 `yaml:"exposure,omitempty"`
	Timer    float64 `yaml:"timer,omitempty"`
	Inside   bool    `yaml:"inside,omitempty"`
	carry    float64
}

// OnTile reports whether the point is on the hazard's tile.
func (h *Hazard) OnTile(x, y float64) bool {
	return int(math.Floor(x)) == h.Position.X && int(math.Floor(y)) == h.Position.Y
}

// InRadius reports whether the point is within Radius of the tile centre.
func (h *Hazard) InRadius(x, y float64) bool {
	dx := x - (float64(h.Position.X) + 0.5)
	dy := y - (float64(h.Position.Y) + 0.5)
	return dx*dx+dy*dy <= h.Radius*h.Radius
}

// Update advances the hazard by dt seconds with the player at (x, y) and
// returns the damage dealt during the tick.
func (h *Hazard) Update(x, y, dt float64) int {
	if h.Disabled || dt < 0 {
		return 0
	}

	switch h.Trigger {
	case TriggerStep:
		return h.edge(h.OnTile(x, y))

	case TriggerProximity:
		return h.edge(h.InRadius(x, y))

	case TriggerArea:
		if !h.InRadius(x, y) {
			h.carry = 0
			return 0
		}
		h.carry += float64(h.Damage) * dt
		dealt := int(h.carry)
		h.carry -= float64(dealt)
		return dealt

	case TriggerTimed:
		h.Timer += dt
		dealt := 0
		for h.Interval > 0 && h.Timer >= h.Interval {
			h.Timer -= h.Interval
			if h.InRadius(x, y) {
				dealt += h.Damage
			}
		}
		return dealt

	case TriggerDelayed:
		if !h.OnTile(x, y) {
			h.Exposure = 0
			return 0
		}
		h.Exposure += dt
		if h.Exposure >= h.Threshold {
			h.Disabled = true
			return h.Damage
		}
	}
	return 0
}

// edge deals damage when the player crosses into the trigger zone and rearms
// when they leave it.
func (h *Hazard) edge(inside bool) int {
	was := h.Inside
	h.Inside = inside
	if inside && !was {
		return h.Damage
	}
	return 0
}
