package render

import (
	"image/color"
	"slices"

	"github.com/maruel/natural"

	"github.com/dear23/gridlayout/pkg/grid"
)

// Block is an item placed in pixels.
type Block struct {
	ID     string
	Label  string
	Pos    grid.Position
	Static bool
	Fill   color.NRGBA
}

// palette colors non-static items by their rank in natural id order.
var palette = []color.NRGBA{
	{0x4e, 0x79, 0xa7, 0xff},
	{0xf2, 0x8e, 0x2b, 0xff},
	{0x59, 0xa1, 0x4f, 0xff},
	{0xe1, 0x57, 0x59, 0xff},
	{0x76, 0xb7, 0xb2, 0xff},
	{0xed, 0xc9, 0x48, 0xff},
	{0xb0, 0x7a, 0xa1, 0xff},
	{0xff, 0x9d, 0xa7, 0xff},
	{0x9c, 0x75, 0x5f, 0xff},
}

var (
	staticFill = color.NRGBA{0xba, 0xb0, 0xac, 0xff}
	background = color.NRGBA{0xf7, 0xf7, 0xf7, 0xff}
	stroke     = color.NRGBA{0x33, 0x33, 0x33, 0xff}
)

// SortedIDs returns the item ids in natural order ("item2" before "item10").
func SortedIDs(l grid.Layout) []string {
	ids := make([]string, len(l))
	for i, it := range l {
		ids[i] = it.ID
	}
	slices.SortFunc(ids, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	return ids
}

// Blocks places every item of l. Blocks keep the layout's order.
func Blocks(l grid.Layout, p grid.PositionParams) []Block {
	rank := make(map[string]int, len(l))
	for i, id := range SortedIDs(l) {
		rank[id] = i
	}

	blocks := make([]Block, len(l))
	for i, it := range l {
		b := Block{
			ID:     it.ID,
			Label:  it.ID,
			Pos:    grid.ItemToPixelPosition(p, it.X, it.Y, it.W, it.H, nil, nil),
			Static: it.Static,
			Fill:   palette[rank[it.ID]%len(palette)],
		}
		if it.Static {
			b.Fill = staticFill
		}
		blocks[i] = b
	}
	return blocks
}

// frame returns the picture size for l: the container width and the
// container height, at least one row tall.
func frame(l grid.Layout, p grid.PositionParams) (float64, float64) {
	h := grid.ContainerHeight(p.GridConfig, l)
	if h == 0 {
		pad := p.Padding()
		h = p.RowHeight + 2*pad[1]
	}
	return p.ContainerWidth, h
}
