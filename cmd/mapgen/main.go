// mapgen renders exported dungeon YAML files and checks them.
//
// Usage:
//
//	go run ./cmd/mapgen -input level.yaml
//	go run ./cmd/mapgen runs/chain-0.yaml runs/chain-1.yaml runs/chain-2.yaml
//
// Every walkable room must be reachable from the spawn, the exit must be
// reachable, and stairs in consecutive files must point at each other.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/engine"
	"github.com/lawnchairsociety/delvegen/internal/render"
	"golang.org/x/term"
)

func main() {
	inputFile := flag.String("input", "", "Path to an exported level (positional arguments also accepted)")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	showLegend := flag.Bool("legend", true, "Show legend")
	noMap := flag.Bool("check", false, "Only report problems, do not draw maps")
	flag.Parse()

	files := flag.Args()
	if *inputFile != "" {
		files = append([]string{*inputFile}, files...)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: mapgen [-input level.yaml] [level.yaml ...]")
		os.Exit(2)
	}

	colored := *outputFile == "" && term.IsTerminal(int(os.Stdout.Fd()))

	var output strings.Builder
	var levels []*engine.DungeonData
	problems := 0

	for _, path := range files {
		data, err := engine.LoadDungeonData(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", path, err)
			os.Exit(1)
		}
		g, err := data.Grid()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing map in %s: %v\n", path, err)
			os.Exit(1)
		}
		levels = append(levels, data)

		fmt.Fprintf(&output, "%s (seed code %s, theme %s, level %d, depth %d)\n",
			path, data.SeedCode, data.Theme, data.LevelNumber, data.Depth)
		output.WriteString(strings.Repeat("-", 60) + "\n")

		issues := checkLevel(data, g)
		problems += len(issues)
		writeIssues(&output, issues, fmt.Sprintf("All %d rooms are connected.", len(data.Rooms)))

		if !*noMap {
			output.WriteString(render.Map(g, render.Marks(data.Entities, data.Spawn, data.Exit), colored))
			output.WriteString("\n")
		}
	}

	if len(levels) > 1 {
		issues := checkChain(levels)
		problems += len(issues)
		output.WriteString("Stair links\n")
		output.WriteString(strings.Repeat("-", 60) + "\n")
		writeIssues(&output, issues, fmt.Sprintf("All %d levels are linked.", len(levels)))
	}

	if *showLegend && !*noMap {
		output.WriteString(render.Legend(colored))
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}

	if problems > 0 {
		os.Exit(1)
	}
}

func writeIssues(output *strings.Builder, issues []string, ok string) {
	if len(issues) == 0 {
		output.WriteString(ok + "\n\n")
		return
	}
	output.WriteString("WARNING: problems detected!\n")
	for _, issue := range issues {
		fmt.Fprintf(output, "  - %s\n", issue)
	}
	output.WriteString("\n")
}

// checkLevel reports rooms and landmarks that cannot be reached from the
// spawn when every door and secret is passable.
func checkLevel(data *engine.DungeonData, g *dungeon.Grid) []string {
	var issues []string

	reach := g.Reachable(data.Spawn, nil)
	if reach.Size() == 0 {
		return []string{fmt.Sprintf("spawn %v is not walkable", data.Spawn)}
	}
	if !reach.Has(data.Exit) {
		issues = append(issues, fmt.Sprintf("exit %v is unreachable", data.Exit))
	}

	for _, room := range data.Rooms {
		if !roomReached(room, g, reach.Has) {
			issues = append(issues, fmt.Sprintf("room %d (%s, %s) is unreachable", room.ID, room.Name, room.Type))
		}
	}

	if s := data.StairsUp; s != nil && g.At(s.Position) != dungeon.TileStairsUp {
		issues = append(issues, fmt.Sprintf("no up stairs tile at %v", s.Position))
	}
	if s := data.StairsDown; s != nil && g.At(s.Position) != dungeon.TileStairsDown {
		issues = append(issues, fmt.Sprintf("no down stairs tile at %v", s.Position))
	}

	for _, k := range data.Entities.Keys {
		if !reach.Has(k.Position) {
			issues = append(issues, fmt.Sprintf("key %s at %v is unreachable", k.ID, k.Position))
		}
	}
	return issues
}

func roomReached(room engine.RoomData, g *dungeon.Grid, reached func(dungeon.Point) bool) bool {
	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			p := dungeon.Point{X: x, Y: y}
			if g.At(p).Walkable() && reached(p) {
				return true
			}
		}
	}
	return false
}

// checkChain verifies that consecutive files form a stair-linked chain.
func checkChain(chain []*engine.DungeonData) []string {
	var issues []string
	for i, lvl := range chain {
		first, last := i == 0, i == len(chain)-1
		switch {
		case first && lvl.StairsUp != nil:
			issues = append(issues, fmt.Sprintf("depth %d: first level has up stairs", lvl.Depth))
		case !first && (lvl.StairsUp == nil || lvl.StairsUp.Target != chain[i-1].Depth):
			issues = append(issues, fmt.Sprintf("depth %d: up stairs do not lead to depth %d", lvl.Depth, chain[i-1].Depth))
		}
		switch {
		case last && lvl.StairsDown != nil:
			issues = append(issues, fmt.Sprintf("depth %d: last level has down stairs", lvl.Depth))
		case !last && (lvl.StairsDown == nil || lvl.StairsDown.Target != chain[i+1].Depth):
			issues = append(issues, fmt.Sprintf("depth %d: down stairs do not lead to depth %d", lvl.Depth, chain[i+1].Depth))
		}
	}
	return issues
}
