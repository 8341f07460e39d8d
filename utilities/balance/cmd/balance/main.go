// balance runs generation sweeps for tuning delvegen's difficulty curve.
//
// Usage:
//
//	balance [command] [options]
//
// Commands:
//
//	levels   - Sample levels across a range of level numbers
//	stats    - Compare telemetry profiles at one level number
//	scaling  - Print monster and reward scaling per difficulty level
//	sweep    - Run a comprehensive balance sweep
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/engine"
	"github.com/lawnchairsociety/delvegen/utilities/balance"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "levels":
		runLevelSim()
	case "stats":
		runStatsSim()
	case "scaling":
		runScaling()
	case "sweep":
		runSweep()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`delvegen Balance Sweeps

Generates many levels and reports what they contain.

Usage: balance <command> [options]

Commands:
  levels   Sample levels across a range of level numbers
  stats    Compare telemetry profiles at one level number
  scaling  Print monster and reward scaling per difficulty level
  sweep    Run a comprehensive balance sweep

Examples:
  balance levels -start-level=1 -end-level=19 -step=2 -iterations=50
  balance levels -algorithm=wfc -theme=cavern
  balance stats -level=9
  balance scaling -base-hp=20 -base-damage=4
  balance sweep

Use "balance <command> -h" for more information about a command.`)
}

func engineOptions(fs *flag.FlagSet) (*string, *string) {
	theme := fs.String("theme", "", "Theme (empty for the configured default)")
	algorithm := fs.String("algorithm", "", "Layout algorithm: rooms or wfc")
	return theme, algorithm
}

func runLevelSim() {
	fs := flag.NewFlagSet("levels", flag.ExitOnError)

	startLevel := fs.Int("start-level", 1, "First level number")
	endLevel := fs.Int("end-level", 19, "Last level number")
	step := fs.Int("step", 2, "Level number step")
	iterations := fs.Int("iterations", 50, "Levels generated per level number")
	seed := fs.Int64("seed", 1, "Base seed")
	theme, algorithm := engineOptions(fs)

	fs.Parse(os.Args[2:])

	if *step < 1 {
		*step = 1
	}
	levelNumbers := make([]int, 0)
	for n := *startLevel; n <= *endLevel; n += *step {
		levelNumbers = append(levelNumbers, n)
	}

	fmt.Println("=== Level Sweep ===")
	fmt.Println()
	fmt.Printf("Levels %d-%d (step %d), %d samples each, base seed %d\n",
		*startLevel, *endLevel, *step, *iterations, *seed)
	fmt.Println()

	eng := engine.New(engine.DefaultConfig())
	opts := engine.Options{Theme: *theme, Algorithm: *algorithm}
	results := balance.RunLevelSweep(eng, levelNumbers, difficulty.DefaultStats(), opts, *seed, *iterations)
	printSweepTable(results)
}

func runStatsSim() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)

	level := fs.Int("level", 9, "Level number")
	iterations := fs.Int("iterations", 50, "Levels generated per profile")
	seed := fs.Int64("seed", 1, "Base seed")
	theme, algorithm := engineOptions(fs)

	fs.Parse(os.Args[2:])

	fmt.Println("=== Telemetry Sweep ===")
	fmt.Println()
	fmt.Printf("Level %d, %d samples per profile\n", *level, *iterations)
	fmt.Println()

	eng := engine.New(engine.DefaultConfig())
	opts := engine.Options{Theme: *theme, Algorithm: *algorithm}
	results := balance.RunStatsSweep(eng, *level, balance.DefaultStatsCases(), opts, *seed, *iterations)

	fmt.Println("Profile  | Deaths | Health | Sanity | Difficulty | Monsters | Traps | Hazards")
	fmt.Println("---------+--------+--------+--------+------------+----------+-------+--------")
	for _, r := range results {
		s := r.Case.Stats
		fmt.Printf("%-8s | %6d | %6.0f | %6.0f | %10.2f | %8.1f | %5.1f | %7.1f\n",
			r.Case.Name, s.DeathsInLevel, s.AverageHealth, s.AverageSanity,
			r.Difficulty.Level, r.Sweep.AvgMonsters, r.Sweep.AvgTraps, r.Sweep.AvgHazards)
	}
}

func runScaling() {
	fs := flag.NewFlagSet("scaling", flag.ExitOnError)

	baseHP := fs.Int("base-hp", 20, "Base monster health")
	baseDamage := fs.Int("base-damage", 4, "Base monster damage")
	baseReward := fs.Int("base-reward", 50, "Base puzzle reward")
	step := fs.Float64("step", 1, "Difficulty step")

	fs.Parse(os.Args[2:])

	fmt.Println("=== Difficulty Scaling ===")
	fmt.Println()
	fmt.Printf("Base monster: %d HP, %d damage. Base reward: %d\n", *baseHP, *baseDamage, *baseReward)
	fmt.Println()

	rows := balance.ScalingTable(*baseHP, *baseDamage, *baseReward, difficulty.MinLevel, difficulty.MaxLevel, *step)

	fmt.Println("Level | Tier      | Loot      |  HP | Damage | Reward")
	fmt.Println("------+-----------+-----------+-----+--------+-------")
	for _, r := range rows {
		fmt.Printf("%5.1f | %-9s | %-9s | %3d | %6d | %6d\n",
			r.Level, r.Tier, r.LootTier, r.HP, r.Damage, r.Reward)
	}
}

func runSweep() {
	fmt.Println("=== Comprehensive Balance Sweep ===")
	fmt.Println()
	fmt.Println("Running standard balance checks...")
	fmt.Println()

	eng := engine.New(engine.DefaultConfig())
	iterations := 30
	levelNumbers := []int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19}

	fmt.Println("--- Test 1: Room layouts across level numbers ---")
	rooms := balance.RunLevelSweep(eng, levelNumbers, difficulty.DefaultStats(), engine.Options{}, 1, iterations)
	printSweepTable(rooms)
	assess("Monsters grow with depth", balance.Monotonic(rooms, func(r balance.SweepResult) float64 { return r.AvgMonsters }, 0.5))
	assess("Traps grow with depth", balance.Monotonic(rooms, func(r balance.SweepResult) float64 { return r.AvgTraps }, 0.5))
	assessSuccess(rooms)
	fmt.Println()

	fmt.Println("--- Test 2: Cave layouts across level numbers ---")
	caves := balance.RunLevelSweep(eng, levelNumbers, difficulty.DefaultStats(), engine.Options{Algorithm: "wfc"}, 1, iterations)
	printSweepTable(caves)
	assessSuccess(caves)
	fmt.Println()

	fmt.Println("--- Test 3: Struggling players get relief ---")
	profiles := balance.RunStatsSweep(eng, 9, balance.DefaultStatsCases(), engine.Options{}, 1, iterations)
	steady := profiles[0].Difficulty.Level
	for _, p := range profiles[1:] {
		fmt.Printf("  %-8s difficulty %.2f (steady %.2f)\n", p.Case.Name, p.Difficulty.Level, steady)
	}
	assess("Dying players face an easier level", profiles[len(profiles)-1].Difficulty.Level < steady)
	fmt.Println()

	fmt.Println("=== Summary ===")
	fmt.Println("Targets:")
	fmt.Println("  - Generation success: 100%")
	fmt.Println("  - Average attempts: below 2")
	fmt.Println("  - Monsters and traps: non-decreasing with level number")
}

func printSweepTable(results []balance.SweepResult) {
	fmt.Println("Level | Diff  | OK%   | Rooms | Monsters | Bosses | Items | Traps | Keys | Puzzles | Hazards | Attempts")
	fmt.Println("------+-------+-------+-------+----------+--------+-------+-------+------+---------+---------+---------")
	for _, r := range results {
		fmt.Printf("%5d | %5.2f | %5.1f | %5.1f | %8.1f | %6.2f | %5.1f | %5.1f | %4.1f | %7.1f | %7.1f | %4.2f/%d\n",
			r.LevelNumber, r.Difficulty.Level, r.SuccessRate(), r.AvgRooms, r.AvgMonsters, r.AvgBosses,
			r.AvgItems, r.AvgTraps, r.AvgKeys, r.AvgPuzzles, r.AvgHazards, r.AvgAttempts, r.MaxAttempts)
	}
}

func assess(name string, ok bool) {
	if ok {
		fmt.Printf("OK: %s\n", name)
	} else {
		fmt.Printf("WARNING: %s does not hold\n", name)
	}
}

func assessSuccess(results []balance.SweepResult) {
	for _, r := range results {
		if r.Failures > 0 {
			fmt.Printf("WARNING: level %d failed %d of %d samples\n", r.LevelNumber, r.Failures, r.Samples)
			return
		}
		if r.AvgAttempts >= 2 {
			fmt.Printf("WARNING: level %d needs %.2f attempts on average\n", r.LevelNumber, r.AvgAttempts)
			return
		}
	}
	fmt.Println("OK: every sample generated within the attempt budget")
}
