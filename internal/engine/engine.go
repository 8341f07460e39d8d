// Package engine is the entry point of the generator. It turns a level
// number and player telemetry into a finished, decorated level and hands it
// to gameplay as a flat data contract.
package engine

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/hazard"
	"github.com/lawnchairsociety/delvegen/internal/levels"
	"github.com/lawnchairsociety/delvegen/internal/lockkey"
	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/puzzle"
	"github.com/lawnchairsociety/delvegen/internal/rng"
	"github.com/lawnchairsociety/delvegen/internal/seedcodec"
)

var (
	ErrGenerationFailed = errors.New("engine: generation failed")
	ErrSeedMismatch     = errors.New("engine: seed code does not reproduce its level")
)

// Config contains everything the engine needs besides per-call options.
type Config struct {
	Dungeon     dungeon.Config
	Locks       lockkey.Config
	MaxAttempts int // Seeds tried per level before giving up
}

// DefaultConfig returns the standard generation settings
func DefaultConfig() Config {
	return Config{
		Dungeon:     dungeon.DefaultConfig(),
		Locks:       lockkey.DefaultConfig(),
		MaxAttempts: 8,
	}
}

// Options are per-call overrides. Zero values keep the configured defaults.
type Options struct {
	Seed       int64
	SeedPhrase string
	Theme      string
	Algorithm  string
	MinRooms   int
	MaxRooms   int
}

// Engine generates levels. It holds no per-call state, so one Engine may be
// shared by concurrent callers.
type Engine struct {
	config Config
}

// New creates an engine
func New(config Config) *Engine {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 8
	}
	return &Engine{config: config}
}

// GenerateLevel builds one level for the given level number and telemetry.
func (e *Engine) GenerateLevel(levelNumber int, stats difficulty.Stats, opts Options) (*Result, error) {
	desc := difficulty.Compute(levelNumber, stats)
	seed := resolveSeed(levelNumber, opts)

	res, err := e.generate(seed, desc, e.layoutConfig(opts), nil)
	if err != nil {
		return nil, err
	}
	res.LevelNumber = levelNumber
	return res, nil
}

// GenerateLevels builds the stair-linked chain for a run at the given depth.
// Level i uses seed base+i*1000 and the difficulty of level number depth+i.
func (e *Engine) GenerateLevels(depth int, stats difficulty.Stats, opts Options) ([]*Result, error) {
	n := levels.Count(depth)
	base := resolveSeed(max(1, depth), opts)
	cfg := e.layoutConfig(opts)

	chain := make([]*levels.Level, 0, n)
	out := make([]*Result, 0, n)
	for i := 0; i < n; i++ {
		levelNumber := max(1, depth) + i
		desc := difficulty.Compute(levelNumber, stats)

		var lvl *levels.Level
		stairs := func(d *dungeon.Dungeon, r *rng.RNG) error {
			lvl = &levels.Level{Depth: i, Dungeon: d}
			return levels.PlaceStairs(lvl, n, r)
		}

		res, err := e.generate(levels.SeedFor(base, i), desc, cfg, stairs)
		if err != nil {
			return nil, fmt.Errorf("level %d of %d: %w", i+1, n, err)
		}
		lvl.Seed = levels.SeedFor(base, i)
		res.LevelNumber = levelNumber
		res.Depth = i
		res.StairsUp = lvl.Up
		res.StairsDown = lvl.Down

		chain = append(chain, lvl)
		out = append(out, res)
	}

	if err := levels.ValidateChain(chain); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	logger.Debug("Generated level chain", "depth", depth, "levels", n, "seed", base)
	return out, nil
}

// GenerateFromSeed rebuilds a level from a seed string produced by Encode.
func (e *Engine) GenerateFromSeed(code string) (*Result, error) {
	c, err := seedcodec.Decode(code)
	if err != nil {
		return nil, err
	}

	opts := Options{Theme: c.Theme, MinRooms: c.MinRooms, MaxRooms: c.MaxRooms, Algorithm: dungeon.AlgorithmRooms}
	if c.WFC {
		opts.Algorithm = dungeon.AlgorithmWFC
	}
	res, err := e.generate(int64(c.Seed), difficulty.FromLevel(c.Difficulty), e.layoutConfig(opts), nil)
	if err != nil {
		return nil, err
	}
	// Rebuilding under a different engine config lands on another layout
	if n := len(res.Dungeon.MainRooms()); n != c.Rooms {
		return nil, fmt.Errorf("%w: %d rooms, code says %d", ErrSeedMismatch, n, c.Rooms)
	}
	return res, nil
}

func (e *Engine) layoutConfig(opts Options) dungeon.Config {
	cfg := e.config.Dungeon
	if opts.Theme != "" {
		cfg.Theme = opts.Theme
	}
	if opts.Algorithm != "" {
		cfg.Algorithm = opts.Algorithm
	}
	if opts.MinRooms > 0 {
		cfg.MinRooms = opts.MinRooms
	}
	if opts.MaxRooms > 0 {
		cfg.MaxRooms = opts.MaxRooms
	}
	return cfg
}

// resolveSeed picks the explicit seed, then the phrase, then a seed derived
// from the level number.
func resolveSeed(levelNumber int, opts Options) int64 {
	switch {
	case opts.Seed != 0:
		return opts.Seed
	case opts.SeedPhrase != "":
		return rng.SeedFromPhrase(opts.SeedPhrase)
	default:
		return rng.SeedFromPhrase(fmt.Sprintf("level-%d", levelNumber))
	}
}

// generate runs the full pipeline, retrying with a perturbed seed when the
// layout falls short or the locks cannot be solved. finish runs last on the
// same RNG and may also reject the attempt.
func (e *Engine) generate(seed int64, desc difficulty.Descriptor, cfg dungeon.Config,
	finish func(*dungeon.Dungeon, *rng.RNG) error) (*Result, error) {

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	var lastErr error
	for attempt := 0; attempt < e.config.MaxAttempts; attempt++ {
		r := rng.New(rng.Perturb(seed, attempt))

		d, err := dungeon.NewBuilder(cfg, desc, r).Build()
		if err != nil {
			lastErr = err
			logger.Warning("Level layout failed, retrying", "seed", seed, "attempt", attempt+1, "error", err)
			continue
		}
		d.Seed = seed

		locks := lockkey.Place(d, e.config.Locks, r)
		puzzles := puzzle.Place(d, r)
		hazards := hazard.Place(d, r)

		if err := verify(d, locks); err != nil {
			lastErr = err
			logger.Warning("Level failed verification, retrying", "seed", seed, "attempt", attempt+1, "error", err)
			continue
		}
		if finish != nil {
			if err := finish(d, r); err != nil {
				lastErr = err
				logger.Warning("Level finishing failed, retrying", "seed", seed, "attempt", attempt+1, "error", err)
				continue
			}
		}

		code := seedcodec.Encode(seedcodec.Code{
			Seed:       uint32(seed),
			Theme:      d.Theme,
			Difficulty: desc.Level,
			MinRooms:   cfg.MinRooms,
			MaxRooms:   cfg.MaxRooms,
			Rooms:      len(d.MainRooms()),
			WFC:        cfg.Algorithm == dungeon.AlgorithmWFC,
		})
		res := flatten(d, code, locks, puzzles, hazards)
		res.Attempts = attempt + 1

		logger.Debug("Generated level",
			"seed", seed,
			"code", code,
			"algorithm", d.Algorithm,
			"rooms", len(d.MainRooms()),
			"difficulty", desc.Level,
			"attempts", res.Attempts)
		return res, nil
	}

	return nil, fmt.Errorf("%w after %d attempts (seed %d): %w", ErrGenerationFailed, e.config.MaxAttempts, seed, lastErr)
}

var errUnsolvable = errors.New("level is not solvable")

// verify checks that every door can be opened and the exit reached.
func verify(d *dungeon.Dungeon, locks lockkey.Placement) error {
	if stuck := lockkey.Verify(d, locks.Keys, locks.Doors); len(stuck) > 0 {
		return fmt.Errorf("%w: doors %v cannot be opened", errUnsolvable, stuck)
	}
	if !d.ReachableFromSpawn().Has(d.Exit) {
		return fmt.Errorf("%w: exit %v unreachable from spawn %v", errUnsolvable, d.Exit, d.Spawn)
	}
	return nil
}
