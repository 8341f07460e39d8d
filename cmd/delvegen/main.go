// delvegen generates dungeon levels from the command line.
//
// Usage:
//
//	go run ./cmd/delvegen -level 6 -seed 42 -theme crypt
//	go run ./cmd/delvegen -phrase "the lich sleeps" -export level.yaml
//	go run ./cmd/delvegen -depth 10 -export runs/chain.yaml
//	go run ./cmd/delvegen -from <seed code>
//	go run ./cmd/delvegen -runs 10
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lawnchairsociety/delvegen/internal/config"
	"github.com/lawnchairsociety/delvegen/internal/database"
	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/engine"
	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/render"
	"github.com/lawnchairsociety/delvegen/internal/seedcodec"
	"golang.org/x/term"
)

func main() {
	configFile := flag.String("config", "delvegen.yaml", "Path to generator config file")
	level := flag.Int("level", 1, "Level number driving difficulty")
	seed := flag.Int64("seed", 0, "Seed (0 derives one from -phrase or the level number)")
	phrase := flag.String("phrase", "", "Seed phrase hashed into a seed")
	theme := flag.String("theme", "", "Theme override")
	algorithm := flag.String("algorithm", "", "Layout algorithm override: rooms or wfc")
	minRooms := flag.Int("min-rooms", 0, "Minimum room count override")
	maxRooms := flag.Int("max-rooms", 0, "Maximum room count override")
	depth := flag.Int("depth", 0, "Generate a stair-linked chain for this depth instead of one level")
	from := flag.String("from", "", "Rebuild a level from a seed code")
	deaths := flag.Int("deaths", 0, "Player deaths on the previous level")
	health := flag.Float64("health", 60, "Average player health 0-100")
	sanity := flag.Float64("sanity", 60, "Average player sanity 0-100")
	export := flag.String("export", "", "Write the level to this YAML file")
	record := flag.Bool("record", false, "Record the run in the database even if the config does not")
	listRuns := flag.Int("runs", 0, "List this many recent runs and exit")
	colorMode := flag.String("color", "auto", "Map colour: auto, always or never")
	showLegend := flag.Bool("legend", false, "Show the map legend")
	quiet := flag.Bool("quiet", false, "Print only the seed code")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*configFile)
	if err := logger.Initialize(logConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Failed to load config, using defaults", "path", *configFile, "error", err)
	}

	if *listRuns > 0 {
		if err := printRuns(cfg.Database.Config, *listRuns); err != nil {
			logger.Error("Failed to list runs", "error", err)
			os.Exit(1)
		}
		return
	}

	eng := engine.New(cfg.Engine())
	stats := difficulty.Stats{DeathsInLevel: *deaths, AverageHealth: *health, AverageSanity: *sanity}
	opts := engine.Options{
		Seed:       *seed,
		SeedPhrase: *phrase,
		Theme:      *theme,
		Algorithm:  *algorithm,
		MinRooms:   *minRooms,
		MaxRooms:   *maxRooms,
	}

	var results []*engine.Result
	switch {
	case *from != "":
		res, err := eng.GenerateFromSeed(*from)
		if errors.Is(err, seedcodec.ErrInvalidSeedString) {
			logger.Error("Not a seed code", "code", *from)
			os.Exit(2)
		}
		if err != nil {
			logger.Error("Failed to rebuild level", "code", *from, "error", err)
			os.Exit(1)
		}
		results = append(results, res)
	case *depth > 0:
		chain, err := eng.GenerateLevels(*depth, stats, opts)
		if err != nil {
			logger.Error("Failed to generate level chain", "depth", *depth, "error", err)
			os.Exit(1)
		}
		results = chain
	default:
		res, err := eng.GenerateLevel(*level, stats, opts)
		if err != nil {
			logger.Error("Failed to generate level", "level", *level, "error", err)
			os.Exit(1)
		}
		results = append(results, res)
	}

	colored := useColor(*colorMode)
	for i, res := range results {
		logger.Always("Level generated", "seed_code", res.Seed, "depth", res.Depth, "attempts", res.Attempts)

		if *quiet {
			fmt.Println(res.Seed)
		} else {
			if len(results) > 1 {
				fmt.Printf("=== Depth %d of %d ===\n", i+1, len(results))
			}
			fmt.Print(render.Summary(res))
			fmt.Println()
			fmt.Print(render.Level(res, colored))
			fmt.Println()
		}

		if *export != "" {
			path := exportPath(*export, i, len(results))
			if err := engine.SaveDungeon(res, path); err != nil {
				logger.Error("Failed to export level", "path", path, "error", err)
				os.Exit(1)
			}
			logger.Info("Level exported", "path", path)
		}
	}

	if *showLegend && !*quiet {
		fmt.Print(render.Legend(colored))
	}

	if *record || cfg.Database.RecordRuns {
		if err := recordRuns(cfg.Database.Config, results); err != nil {
			logger.Error("Failed to record runs", "error", err)
			os.Exit(1)
		}
	}
}

// useColor resolves the -color flag. Auto colours only a terminal stdout.
func useColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

// exportPath numbers chain files: chain.yaml becomes chain-0.yaml, chain-1.yaml...
func exportPath(path string, i, n int) string {
	if n <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), i, ext)
}

func recordRuns(dbConfig database.Config, results []*engine.Result) error {
	db, err := database.OpenWithConfig(dbConfig)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, res := range results {
		run := runFromResult(res)
		err := db.RecordRun(run)
		switch {
		case errors.Is(err, database.ErrRunExists):
			logger.Debug("Run already recorded", "seed_code", run.SeedCode)
		case err != nil:
			return err
		default:
			logger.Info("Run recorded", "id", run.ID, "seed_code", run.SeedCode, "driver", db.Driver())
		}
	}
	return nil
}

func runFromResult(res *engine.Result) *database.Run {
	d := res.Dungeon
	run := &database.Run{
		SeedCode:    res.Seed,
		Seed:        d.Seed,
		Theme:       d.Theme,
		Algorithm:   d.Algorithm,
		Difficulty:  res.Difficulty.Level,
		LevelNumber: res.LevelNumber,
		RoomCount:   len(d.MainRooms()),
	}
	if c, err := seedcodec.Decode(res.Seed); err == nil {
		run.MinRooms = c.MinRooms
		run.MaxRooms = c.MaxRooms
	}
	return run
}

func printRuns(dbConfig database.Config, limit int) error {
	db, err := database.OpenWithConfig(dbConfig)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%-5d %s  %-8s %-5s level %-3d diff %-5.2f rooms %-3d %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Theme, r.Algorithm,
			r.LevelNumber, r.Difficulty, r.RoomCount, r.SeedCode)
	}
	return nil
}
