// Package difficulty turns player telemetry into the descriptor that drives
// every placement step of a generation run.
package difficulty

import "math"

// Level bounds
const (
	MinLevel = 1.0
	MaxLevel = 10.0
)

// Stats is the player telemetry supplied by the gameplay layer.
type Stats struct {
	DeathsInLevel int     `yaml:"deaths_in_level"`
	AverageHealth float64 `yaml:"average_health"` // 0-100
	AverageSanity float64 `yaml:"average_sanity"` // 0-100
}

// DefaultStats describes a player who is neither struggling nor cruising.
func DefaultStats() Stats {
	return Stats{AverageHealth: 60, AverageSanity: 60}
}

// Descriptor is consumed by the room builder and every decoration pass.
// All fields except Level are derived from Level alone.
type Descriptor struct {
	Level            float64 `yaml:"level"`
	MonsterCount     int     `yaml:"monster_count"`
	MonsterStrength  float64 `yaml:"monster_strength"`
	TrapDensity      float64 `yaml:"trap_density"`
	ResourceScarcity float64 `yaml:"resource_scarcity"`
	SecretChance     float64 `yaml:"secret_chance"`
}

// Compute maps a level number and telemetry to a descriptor.
//
// level = 1 + (levelNumber-1)*0.5
//   - 0.5 per recent death (at most 4 counted)
//   - 1 when average health is below 30, + 0.5 when above 80
//   - 0.5 when average sanity is below 30
//
// clamped to [1,10] and rounded to two decimals.
func Compute(levelNumber int, stats Stats) Descriptor {
	if levelNumber < 1 {
		levelNumber = 1
	}

	level := 1 + float64(levelNumber-1)*0.5

	deaths := stats.DeathsInLevel
	if deaths < 0 {
		deaths = 0
	}
	if deaths > 4 {
		deaths = 4
	}
	level -= 0.5 * float64(deaths)

	switch {
	case stats.AverageHealth < 30:
		level -= 1
	case stats.AverageHealth > 80:
		level += 0.5
	}
	if stats.AverageSanity < 30 {
		level -= 0.5
	}

	return FromLevel(level)
}

// FromLevel rebuilds a descriptor from a difficulty level, as stored in a seed code.
func FromLevel(level float64) Descriptor {
	level = round2(clamp(MinLevel, MaxLevel, level))

	return Descriptor{
		Level:            level,
		MonsterCount:     int(clamp(2, 30, math.Round(3+1.5*level))),
		MonsterStrength:  clamp(0.5, 3, 0.8+0.12*level),
		TrapDensity:      clamp(0, 0.6, 0.05+0.04*level),
		ResourceScarcity: clamp(0, 0.8, 0.1+0.06*level),
		SecretChance:     clamp(0.05, 0.5, 0.1+0.03*level),
	}
}

// KeepResource reports whether a candidate item survives scarcity filtering
// for the given draw in [0,1).
func (d Descriptor) KeepResource(roll float64) bool {
	return roll >= d.ResourceScarcity*0.6
}

func clamp(lo, hi, v float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
