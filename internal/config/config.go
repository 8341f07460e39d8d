// Package config loads the generator settings file. The same YAML file may
// also carry a logging: block, which the logger package reads on its own.
package config

import (
	"fmt"
	"os"

	"github.com/lawnchairsociety/delvegen/internal/database"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/engine"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the generator.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	WFC        WFCConfig        `yaml:"wfc"`
	Database   DatabaseConfig   `yaml:"database"`
}

// GenerationConfig holds room-and-corridor layout and lock settings.
type GenerationConfig struct {
	// Algorithm is "rooms" or "wfc"
	Algorithm string `yaml:"algorithm"`

	// Theme is used when a request names none. Unknown themes fall back to dungeon.
	Theme string `yaml:"theme"`

	// TileSize is the number of world units per tile.
	TileSize int `yaml:"tile_size"`

	MinRooms int `yaml:"min_rooms"`
	MaxRooms int `yaml:"max_rooms"`

	// Padding is the empty margin kept around every room.
	Padding int `yaml:"padding"`

	CorridorWidth  int `yaml:"corridor_width"`
	CorridorLength int `yaml:"corridor_length"`

	// LoopChance is the per-pair chance of an extra corridor between rooms.
	LoopChance float64 `yaml:"loop_chance"`
	MaxLoops   int     `yaml:"max_loops"`

	// DoorChance is the chance a connected hallway exit gets a locked door.
	DoorChance float64 `yaml:"door_chance"`
	DoorHP     int     `yaml:"door_hp"`

	// BossLevel is the difficulty at which the final room becomes a boss room.
	BossLevel float64 `yaml:"boss_level"`

	// MaxAttempts is the number of seeds tried per level before giving up.
	MaxAttempts int `yaml:"max_attempts"`
}

// WFCConfig holds the tile-collapse layout settings.
type WFCConfig struct {
	Width        int  `yaml:"width"`
	Height       int  `yaml:"height"`
	MaxAttempts  int  `yaml:"max_attempts"`
	ClosedBorder bool `yaml:"closed_border"`
}

// DatabaseConfig selects the run store.
type DatabaseConfig struct {
	// RecordRuns stores every generated seed code when true.
	RecordRuns bool `yaml:"record_runs"`

	database.Config `yaml:",inline"`
}

// DefaultConfig returns the engine defaults with runs recorded to a local
// SQLite file.
func DefaultConfig() *Config {
	e := engine.DefaultConfig()
	d := e.Dungeon

	return &Config{
		Generation: GenerationConfig{
			Algorithm:      d.Algorithm,
			Theme:          d.Theme,
			TileSize:       d.TileSize,
			MinRooms:       d.MinRooms,
			MaxRooms:       d.MaxRooms,
			Padding:        d.Padding,
			CorridorWidth:  d.CorridorWidth,
			CorridorLength: d.CorridorLength,
			LoopChance:     d.LoopChance,
			MaxLoops:       d.MaxLoops,
			DoorChance:     e.Locks.DoorChance,
			DoorHP:         e.Locks.DoorHP,
			BossLevel:      d.BossLevel,
			MaxAttempts:    e.MaxAttempts,
		},
		WFC: WFCConfig{
			Width:        d.WFC.Width,
			Height:       d.WFC.Height,
			MaxAttempts:  d.WFC.MaxAttempts,
			ClosedBorder: d.WFC.ClosedBorder,
		},
		Database: DatabaseConfig{
			RecordRuns: false,
			Config:     database.DefaultConfig("data/delvegen.db"),
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys missing from the file
// keep their defaults. A missing file yields the defaults and no error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Engine converts the settings into an engine configuration.
func (c *Config) Engine() engine.Config {
	e := engine.DefaultConfig()
	g := c.Generation

	e.Dungeon.Algorithm = g.Algorithm
	e.Dungeon.Theme = g.Theme
	e.Dungeon.TileSize = g.TileSize
	e.Dungeon.MinRooms = g.MinRooms
	e.Dungeon.MaxRooms = g.MaxRooms
	e.Dungeon.Padding = g.Padding
	e.Dungeon.CorridorWidth = g.CorridorWidth
	e.Dungeon.CorridorLength = g.CorridorLength
	e.Dungeon.LoopChance = g.LoopChance
	e.Dungeon.MaxLoops = g.MaxLoops
	e.Dungeon.BossLevel = g.BossLevel
	e.Dungeon.WFC.Width = c.WFC.Width
	e.Dungeon.WFC.Height = c.WFC.Height
	e.Dungeon.WFC.MaxAttempts = c.WFC.MaxAttempts
	e.Dungeon.WFC.ClosedBorder = c.WFC.ClosedBorder
	e.Locks.DoorChance = g.DoorChance
	e.Locks.DoorHP = g.DoorHP
	e.MaxAttempts = g.MaxAttempts

	return e
}

// Validate reports the first setting that would make generation impossible.
func (c *Config) Validate() error {
	if err := c.Engine().Dungeon.Validate(); err != nil {
		return err
	}

	g := c.Generation
	switch {
	case g.MaxAttempts < 1:
		return fmt.Errorf("generation.max_attempts must be at least 1, got %d", g.MaxAttempts)
	case g.DoorChance < 0 || g.DoorChance > 1:
		return fmt.Errorf("generation.door_chance %v outside [0,1]", g.DoorChance)
	case g.DoorHP < 1:
		return fmt.Errorf("generation.door_hp must be positive, got %d", g.DoorHP)
	}

	if c.Generation.Algorithm == dungeon.AlgorithmWFC {
		w := c.WFC
		if w.Width < 2 || w.Height < 2 || w.MaxAttempts < 1 {
			return fmt.Errorf("wfc grid %dx%d with %d attempts is unusable", w.Width, w.Height, w.MaxAttempts)
		}
	}

	switch database.DialectType(c.Database.Driver) {
	case database.DialectSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required for the sqlite driver")
		}
	case database.DialectPostgres:
		if c.Database.Postgres.Host == "" || c.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres needs host and database")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	return nil
}
