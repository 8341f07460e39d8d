// Package render draws generated levels as ASCII maps, optionally coloured
// with ANSI styles for terminals.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gookit/color"
	"github.com/lawnchairsociety/delvegen/internal/dungeon"
	"github.com/lawnchairsociety/delvegen/internal/engine"
)

// Entity glyphs drawn over the tile layer.
const (
	GlyphSpawn   = '@'
	GlyphExit    = 'X'
	GlyphMonster = 'M'
	GlyphBoss    = 'B'
	GlyphItem    = '$'
	GlyphTrap    = '^'
	GlyphKey     = 'k'
	GlyphPuzzle  = 'P'
	GlyphHazard  = '!'
)

var styles = map[rune]color.Style{
	'#':          {color.FgGray},
	',':          {color.FgGray},
	'o':          {color.FgGray, color.OpBold},
	'+':          {color.FgYellow, color.OpBold},
	'?':          {color.FgCyan},
	'<':          {color.FgGreen, color.OpBold},
	'>':          {color.FgGreen, color.OpBold},
	GlyphSpawn:   {color.FgGreen, color.BgBlack, color.OpBold},
	GlyphExit:    {color.FgYellow, color.OpBold},
	GlyphMonster: {color.FgRed, color.OpBold},
	GlyphBoss:    {color.FgRed, color.OpBold, color.OpUnderscore},
	GlyphItem:    {color.FgGreen},
	GlyphTrap:    {color.FgRed},
	GlyphKey:     {color.FgBlue, color.OpBold},
	GlyphPuzzle:  {color.FgMagenta, color.OpBold},
	GlyphHazard:  {color.FgRed},
}

// Marks collects the entity glyphs of a level keyed by tile. When two
// entities share a tile the later kind in the draw order wins.
func Marks(e engine.Entities, spawn, exit dungeon.Point) map[dungeon.Point]rune {
	marks := make(map[dungeon.Point]rune)
	for _, t := range e.Traps {
		marks[t.Position] = GlyphTrap
	}
	for _, it := range e.Items {
		marks[it.Position] = GlyphItem
	}
	for _, k := range e.Keys {
		marks[k.Position] = GlyphKey
	}
	for _, p := range e.Puzzles {
		marks[p.Position] = GlyphPuzzle
	}
	for _, h := range e.Hazards {
		marks[h.Position] = GlyphHazard
	}
	for _, m := range e.Monsters {
		if m.Boss {
			marks[m.Position] = GlyphBoss
		} else {
			marks[m.Position] = GlyphMonster
		}
	}
	marks[exit] = GlyphExit
	marks[spawn] = GlyphSpawn
	return marks
}

// Map draws the grid row by row with marks on top. Colour codes are only
// emitted when colored is set.
func Map(g *dungeon.Grid, marks map[dungeon.Point]rune, colored bool) string {
	var b strings.Builder
	b.Grow((g.Width + 1) * g.Height)

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := dungeon.Point{X: x, Y: y}
			glyph, ok := marks[p]
			if !ok {
				glyph = g.At(p).Glyph()
			}
			if style, styled := styles[glyph]; colored && styled {
				b.WriteString(style.Sprint(string(glyph)))
			} else {
				b.WriteRune(glyph)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Level draws a generated level with its entities.
func Level(res *engine.Result, colored bool) string {
	d := res.Dungeon
	return Map(d.Grid, Marks(res.Entities, d.Spawn, d.Exit), colored)
}

// Legend lists every glyph Map can produce.
func Legend(colored bool) string {
	entries := []struct {
		glyph rune
		label string
	}{
		{'#', "wall"}, {'.', "floor"}, {',', "corridor"}, {'o', "pillar"},
		{'+', "locked door"}, {'?', "secret passage"}, {'<', "stairs up"}, {'>', "stairs down"},
		{GlyphSpawn, "spawn"}, {GlyphExit, "exit"}, {GlyphMonster, "monster"}, {GlyphBoss, "boss"},
		{GlyphItem, "item"}, {GlyphTrap, "trap"}, {GlyphKey, "key"}, {GlyphPuzzle, "puzzle"},
		{GlyphHazard, "hazard"},
	}

	var b strings.Builder
	b.WriteString("Legend:\n")
	for _, e := range entries {
		glyph := string(e.glyph)
		if colored {
			glyph = styles[e.glyph].Sprint(glyph)
		}
		fmt.Fprintf(&b, "  %s  %s\n", glyph, e.label)
	}
	return b.String()
}

// Summary reports the counts of everything placed on a level, one per line.
func Summary(res *engine.Result) string {
	d := res.Dungeon
	e := res.Entities

	var b strings.Builder
	fmt.Fprintf(&b, "Seed code:  %s\n", res.Seed)
	fmt.Fprintf(&b, "Theme:      %s (%s)\n", d.Theme, d.Algorithm)
	if res.LevelNumber > 0 {
		fmt.Fprintf(&b, "Level:      %d, difficulty %.2f\n", res.LevelNumber, res.Difficulty.Level)
	} else {
		fmt.Fprintf(&b, "Difficulty: %.2f\n", res.Difficulty.Level)
	}
	fmt.Fprintf(&b, "Size:       %dx%d tiles, %d rooms\n", d.Grid.Width, d.Grid.Height, len(d.Rooms))

	counts := map[string]int{
		"monsters": len(e.Monsters),
		"items":    len(e.Items),
		"traps":    len(e.Traps),
		"secrets":  len(e.Secrets),
		"keys":     len(e.Keys),
		"doors":    len(e.Doors),
		"puzzles":  len(e.Puzzles),
		"hazards":  len(e.Hazards),
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, counts[name]))
	}
	fmt.Fprintf(&b, "Entities:   %s\n", strings.Join(parts, " "))
	if res.Attempts > 1 {
		fmt.Fprintf(&b, "Attempts:   %d\n", res.Attempts)
	}
	return b.String()
}
