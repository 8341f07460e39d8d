package engine

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lawnchairsociety/delvegen/internal/difficulty"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/levels"
	"gopkg.in/yaml.v3"
)

// DungeonData represents a serialized level for export and tooling
type DungeonData struct {
	SeedCode    string                `yaml:"seed_code"`
	Seed        int64                 `yaml:"seed"`
	Theme       string                `yaml:"theme"`
	Algorithm   string                `yaml:"algorithm"`
	LevelNumber int                   `yaml:"level_number"`
	Depth       int                   `yaml:"depth"`
	TileSize    int                   `yaml:"tile_size"`
	SavedAt     time.Time             `yaml:"saved_at"`
	Difficulty  difficulty.Descriptor `yaml:"difficulty"`
	Spawn       dungeon.Point         `yaml:"spawn"`
	Exit        dungeon.Point         `yaml:"exit"`
	StairsUp    *levels.Stair         `yaml:"stairs_up,omitempty"`
	StairsDown  *levels.Stair         `yaml:"stairs_down,omitempty"`
	Map         []string              `yaml:"map"`
	Rooms       []RoomData            `yaml:"rooms"`
	Entities    Entities              `yaml:"entities"`
}

// RoomData represents a serialized room
type RoomData struct {
	ID       int        `yaml:"id"`
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type"`
	Template string     `yaml:"template"`
	X        int        `yaml:"x"`
	Y        int        `yaml:"y"`
	Width    int        `yaml:"width"`
	Height   int        `yaml:"height"`
	Locked   bool       `yaml:"locked,omitempty"`
	Secret   bool       `yaml:"secret,omitempty"`
	Exits    []ExitData `yaml:"exits"`
}

// ExitData represents a serialized room exit
type ExitData struct {
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`
	Direction string `yaml:"direction"`
	Connected bool   `yaml:"connected"`
	Target    int    `yaml:"target"`
	Secret    bool   `yaml:"secret,omitempty"`
}

// SaveDungeon saves a generated level to a YAML file
func SaveDungeon(res *Result, filename string) error {
	data, err := serializeLevel(res)
	if err != nil {
		return err
	}

	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal dungeon data: %w", err)
	}

	if err := os.WriteFile(filename, yamlData, 0644); err != nil {
		return fmt.Errorf("failed to write dungeon file: %w", err)
	}
	return nil
}

// serializeLevel converts a Result to DungeonData
func serializeLevel(res *Result) (*DungeonData, error) {
	d := res.Dungeon
	if d == nil || d.Grid == nil {
		return nil, fmt.Errorf("level has no dungeon to serialize")
	}

	data := &DungeonData{
		SeedCode:    res.Seed,
		Seed:        d.Seed,
		Theme:       d.Theme,
		Algorithm:   d.Algorithm,
		LevelNumber: res.LevelNumber,
		Depth:       res.Depth,
		TileSize:    d.TileSize,
		SavedAt:     time.Now(),
		Difficulty:  d.Difficulty,
		Spawn:       d.Spawn,
		Exit:        d.Exit,
		StairsUp:    res.StairsUp,
		StairsDown:  res.StairsDown,
		Map:         strings.Split(strings.TrimSuffix(d.Grid.String(), "\n"), "\n"),
		Rooms:       make([]RoomData, 0, len(d.Rooms)),
		Entities:    res.Entities,
	}

	for _, room := range d.Rooms {
		data.Rooms = append(data.Rooms, serializeRoom(room))
	}
	return data, nil
}

// serializeRoom converts a Room to RoomData
func serializeRoom(room *dungeon.Room) RoomData {
	exits := make([]ExitData, 0, len(room.Exits))
	for _, e := range room.Exits {
		exits = append(exits, ExitData{
			X:         e.Position.X,
			Y:         e.Position.Y,
			Direction: e.Direction.String(),
			Connected: e.Connected,
			Target:    e.Target,
			Secret:    e.Secret,
		})
	}

	return RoomData{
		ID:       room.ID,
		Name:     room.Name,
		Type:     string(room.Type),
		Template: room.Template,
		X:        room.X,
		Y:        room.Y,
		Width:    room.Width,
		Height:   room.Height,
		Locked:   room.Locked,
		Secret:   room.Secret,
		Exits:    exits,
	}
}

// LoadDungeonData loads a saved level from a YAML file
func LoadDungeonData(filename string) (*DungeonData, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read dungeon file: %w", err)
	}

	var data DungeonData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse dungeon YAML: %w", err)
	}
	if len(data.Map) == 0 {
		return nil, fmt.Errorf("dungeon file %s has no map", filename)
	}
	return &data, nil
}

// Grid rebuilds the tile grid from the saved map rows.
func (data *DungeonData) Grid() (*dungeon.Grid, error) {
	g, err := dungeon.ParseGrid(data.Map)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dungeon map: %w", err)
	}
	return g, nil
}
