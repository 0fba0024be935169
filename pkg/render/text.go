package render

import (
	"fmt"
	"strings"

	"github.com/dear23/gridlayout/pkg/grid"
)

const glyphs = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Glyph returns the character Text uses for the item of rank i in natural
// id order.
func Glyph(i int) byte {
	if i < 0 || i >= len(glyphs) {
		return '#'
	}
	return glyphs[i]
}

// Text draws l as a character grid cols wide, one character per cell.
// Empty cells are '.' and cells covered by more than one item are '*'.
// A legend follows the grid.
func Text(l grid.Layout, cols int) string {
	cols = max(cols, 1)
	for _, it := range l {
		cols = max(cols, it.X+it.W)
	}
	rows := l.Bottom()

	glyph := make(map[string]byte, len(l))
	for i, id := range SortedIDs(l) {
		glyph[id] = Glyph(i)
	}

	cells := make([][]byte, rows)
	for y := range cells {
		cells[y] = []byte(strings.Repeat(".", cols))
	}
	for _, it := range l {
		g := glyph[it.ID]
		for y := max(it.Y, 0); y < it.Y+it.H; y++ {
			for x := max(it.X, 0); x < it.X+it.W; x++ {
				if cells[y][x] == '.' {
					cells[y][x] = g
				} else {
					cells[y][x] = '*'
				}
			}
		}
	}

	var b strings.Builder
	for _, row := range cells {
		b.Write(row)
		b.WriteByte('\n')
	}
	if len(l) > 0 {
		b.WriteByte('\n')
	}
	for _, id := range SortedIDs(l) {
		it := l.Find(id)
		flags := ""
		if it.Static {
			flags = " static"
		}
		fmt.Fprintf(&b, "%c  %-20s (%d,%d) %dx%d%s\n", glyph[id], id, it.X, it.Y, it.W, it.H, flags)
	}
	return b.String()
}
