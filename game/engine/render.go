package engine

import (
	"strconv"
	"strings"
)

// Glyphs used by RenderBoard.
const (
	GlyphEmpty = '.'
	GlyphTile  = 'o'
	GlyphHit   = 'x'
	GlyphMiss  = '*'
	GlyphKill  = '#'
)

var headGlyphs = [4]byte{North: '^', East: '>', South: 'v', West: '<'}

// RenderBoard draws the board as ASCII with column letters and row numbers.
// Killed planes are always drawn, active ones only with showPlanes. Shot
// markers are drawn over planes.
func RenderBoard(b *Board, showPlanes bool) []string {
	var grid [GridSize][GridSize]byte
	for r := range grid {
		for c := range grid[r] {
			grid[r][c] = GlyphEmpty
		}
	}

	draw := func(p Plane) {
		for _, c := range p.VisibleTiles() {
			grid[c.Row()][c.Col()] = GlyphTile
		}
		if p.Orientation.Valid() {
			grid[p.Head.Row()][p.Head.Col()] = headGlyphs[p.Orientation]
		}
	}
	for _, p := range b.killed {
		draw(p)
	}
	if showPlanes {
		for _, p := range b.planes {
			draw(p)
		}
	}
	for _, c := range b.misses {
		grid[c.Row()][c.Col()] = GlyphMiss
	}
	for _, c := range b.hits {
		grid[c.Row()][c.Col()] = GlyphHit
	}
	for _, c := range b.kills {
		grid[c.Row()][c.Col()] = GlyphKill
	}

	lines := make([]string, 0, GridSize+1)
	var header strings.Builder
	header.WriteString("   ")
	for c := 0; c < GridSize; c++ {
		header.WriteByte(' ')
		header.WriteByte(byte('A' + c))
	}
	lines = append(lines, header.String())

	for r := 0; r < GridSize; r++ {
		var line strings.Builder
		if r+1 < 10 {
			line.WriteByte(' ')
		}
		line.WriteString(strconv.Itoa(r + 1))
		line.WriteByte(' ')
		for c := 0; c < GridSize; c++ {
			line.WriteByte(' ')
			line.WriteByte(grid[r][c])
		}
		lines = append(lines, line.String())
	}
	return lines
}

// RenderSideBySide places two rendered boards next to each other under
// their titles.
func RenderSideBySide(leftTitle string, left []string, rightTitle string, right []string) string {
	width := 0
	for _, l := range left {
		width = max(width, len(l))
	}
	width = max(width, len(leftTitle)) + 4

	var out strings.Builder
	out.WriteString(pad(leftTitle, width))
	out.WriteString(rightTitle)
	out.WriteByte('\n')
	for i := 0; i < max(len(left), len(right)); i++ {
		l, r := "", ""
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		out.WriteString(pad(l, width))
		out.WriteString(r)
		out.WriteByte('\n')
	}
	return out.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
