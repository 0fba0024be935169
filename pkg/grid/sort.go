package grid

import (
	"cmp"
	"slices"
)

// CompactType names the axis a compactor moves items along.
type CompactType string

const (
	CompactVertical   CompactType = "vertical"
	CompactHorizontal CompactType = "horizontal"
	CompactWrap       CompactType = "wrap"
	CompactNone       CompactType = ""
)

// ParseCompactType maps a user-supplied name to a CompactType. "none" and
// the empty string both mean no compaction.
func ParseCompactType(s string) (CompactType, bool) {
	switch s {
	case "vertical":
		return CompactVertical, true
	case "horizontal":
		return CompactHorizontal, true
	case "wrap":
		return CompactWrap, true
	case "", "none":
		return CompactNone, true
	}
	return CompactNone, false
}

func (t CompactType) String() string {
	if t == CompactNone {
		return "none"
	}
	return string(t)
}

// SortLayoutItems returns a new slice holding the items of l in compaction
// order for t. The sort is stable. The items themselves are shared.
func SortLayoutItems(l Layout, t CompactType) Layout {
	out := slices.Clone(l)
	switch t {
	case CompactVertical:
		slices.SortStableFunc(out, byRowCol)
	case CompactHorizontal:
		slices.SortStableFunc(out, byColRow)
	}
	return out
}

func byRowCol(a, b *Item) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}

func byColRow(a, b *Item) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Y, b.Y)
}
