// Package balance runs generation sweeps for tuning difficulty scaling.
// Every sample is a full engine run, so the numbers reflect what players
// would actually meet on a level.
package balance

import (
	"math"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/engine"
)

// SeedStride separates the seeds of consecutive samples.
const SeedStride = 104729

// SweepResult aggregates the samples generated for one level number
type SweepResult struct {
	LevelNumber int
	Difficulty  difficulty.Descriptor
	Samples     int
	Failures    int

	AvgRooms     float64
	AvgMonsters  float64
	AvgBosses    float64
	AvgItems     float64
	AvgTraps     float64
	AvgSecrets   float64
	AvgKeys      float64
	AvgPuzzles   float64
	AvgHazards   float64
	AvgAttempts  float64
	MaxAttempts  int
	AvgMonsterHP float64
}

// SuccessRate returns the share of samples that produced a level, in percent.
func (r SweepResult) SuccessRate() float64 {
	if r.Samples == 0 {
		return 0
	}
	return float64(r.Samples-r.Failures) / float64(r.Samples) * 100
}

// RunLevelSweep generates iterations levels for every level number. Samples
// use seeds baseSeed + i*SeedStride so a sweep is reproducible.
func RunLevelSweep(eng *engine.Engine, levelNumbers []int, stats difficulty.Stats, opts engine.Options, baseSeed int64, iterations int) []SweepResult {
	results := make([]SweepResult, 0, len(levelNumbers))
	for _, n := range levelNumbers {
		results = append(results, sampleLevel(eng, n, stats, opts, baseSeed, iterations))
	}
	return results
}

func sampleLevel(eng *engine.Engine, levelNumber int, stats difficulty.Stats, opts engine.Options, baseSeed int64, iterations int) SweepResult {
	r := SweepResult{
		LevelNumber: levelNumber,
		Difficulty:  difficulty.Compute(levelNumber, stats),
		Samples:     iterations,
	}

	var rooms, monsters, bosses, items, traps, secrets, keys, puzzles, hazards, attempts, hp int
	for i := 0; i < iterations; i++ {
		o := opts
		o.SeedPhrase = ""
		o.Seed = baseSeed + int64(i)*SeedStride

		res, err := eng.GenerateLevel(levelNumber, stats, o)
		if err != nil {
			r.Failures++
			continue
		}

		e := res.Entities
		rooms += len(res.Dungeon.MainRooms())
		monsters += len(e.Monsters)
		items += len(e.Items)
		traps += len(e.Traps)
		secrets += len(e.Secrets)
		keys += len(e.Keys)
		puzzles += len(e.Puzzles)
		hazards += len(e.Hazards)
		attempts += res.Attempts
		if res.Attempts > r.MaxAttempts {
			r.MaxAttempts = res.Attempts
		}
		for _, m := range e.Monsters {
			hp += m.HP
			if m.Boss {
				bosses++
			}
		}
	}

	ok := iterations - r.Failures
	if ok == 0 {
		return r
	}
	n := float64(ok)
	r.AvgRooms = float64(rooms) / n
	r.AvgMonsters = float64(monsters) / n
	r.AvgBosses = float64(bosses) / n
	r.AvgItems = float64(items) / n
	r.AvgTraps = float64(traps) / n
	r.AvgSecrets = float64(secrets) / n
	r.AvgKeys = float64(keys) / n
	r.AvgPuzzles = float64(puzzles) / n
	r.AvgHazards = float64(hazards) / n
	r.AvgAttempts = float64(attempts) / n
	if monsters > 0 {
		r.AvgMonsterHP = float64(hp) / float64(monsters)
	}
	return r
}

// StatsCase names a telemetry profile for a stats sweep
type StatsCase struct {
	Name  string
	Stats difficulty.Stats
}

// DefaultStatsCases covers the telemetry corners the difficulty curve reacts to.
func DefaultStatsCases() []StatsCase {
	return []StatsCase{
		{Name: "steady", Stats: difficulty.DefaultStats()},
		{Name: "cruising", Stats: difficulty.Stats{AverageHealth: 95, AverageSanity: 90}},
		{Name: "bleeding", Stats: difficulty.Stats{AverageHealth: 20, AverageSanity: 60}},
		{Name: "shaken", Stats: difficulty.Stats{AverageHealth: 60, AverageSanity: 15}},
		{Name: "dying", Stats: difficulty.Stats{DeathsInLevel: 3, AverageHealth: 25, AverageSanity: 25}},
	}
}

// StatsResult is the descriptor one telemetry profile yields at a level number
type StatsResult struct {
	Case       StatsCase
	Difficulty difficulty.Descriptor
	Sweep      SweepResult
}

// RunStatsSweep shows how telemetry bends the difficulty at a fixed level number.
func RunStatsSweep(eng *engine.Engine, levelNumber int, cases []StatsCase, opts engine.Options, baseSeed int64, iterations int) []StatsResult {
	results := make([]StatsResult, 0, len(cases))
	for _, c := range cases {
		results = append(results, StatsResult{
			Case:       c,
			Difficulty: difficulty.Compute(levelNumber, c.Stats),
			Sweep:      sampleLevel(eng, levelNumber, c.Stats, opts, baseSeed, iterations),
		})
	}
	return results
}

// ScalingRow is the monster and loot scaling applied at one difficulty level
type ScalingRow struct {
	Level    float64
	Tier     string
	LootTier string
	HP       int
	Damage   int
	Reward   int
}

// ScalingTable lists how a base monster and reward scale across difficulty
// levels from lo to hi in the given step.
func ScalingTable(baseHP, baseDamage, baseReward int, lo, hi, step float64) []ScalingRow {
	if step <= 0 {
		step = 1
	}
	var rows []ScalingRow
	for level := lo; level <= hi+1e-9; level += step {
		d := difficulty.FromLevel(level)
		rows = append(rows, ScalingRow{
			Level:    d.Level,
			Tier:     difficulty.TierName(difficulty.MonsterTier(d.Level)),
			LootTier: difficulty.LootTierName(difficulty.LootTier(d.Level)),
			HP:       difficulty.ScaleHP(baseHP, d.MonsterStrength),
			Damage:   difficulty.ScaleDamage(baseDamage, d.MonsterStrength),
			Reward:   difficulty.ScaleReward(baseReward, d.Level),
		})
	}
	return rows
}

// Monotonic reports whether avg never drops by more than tolerance between
// consecutive sweep results.
func Monotonic(results []SweepResult, avg func(SweepResult) float64, tolerance float64) bool {
	prev := math.Inf(-1)
	for _, r := range results {
		v := avg(r)
		if v+tolerance < prev {
			return false
		}
		prev = math.Max(prev, v)
	}
	return true
}
