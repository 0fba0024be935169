package grid

import (
	"maps"
	"math"
	"slices"
)

// InfiniteRows is the row limit used when a grid has no maximum row count.
const InfiniteRows = math.MaxInt32

// ResizeHandle names the edge or corner a resize gesture drags.
type ResizeHandle string

// Resize handles. Cardinal handles move one edge, diagonal handles two.
const (
	HandleS  ResizeHandle = "s"
	HandleW  ResizeHandle = "w"
	HandleE  ResizeHandle = "e"
	HandleN  ResizeHandle = "n"
	HandleSW ResizeHandle = "sw"
	HandleNW ResizeHandle = "nw"
	HandleSE ResizeHandle = "se"
	HandleNE ResizeHandle = "ne"
)

// Valid reports whether h is one of the eight known handles.
func (h ResizeHandle) Valid() bool {
	switch h {
	case HandleS, HandleW, HandleE, HandleN, HandleSW, HandleNW, HandleSE, HandleNE:
		return true
	}
	return false
}

// West reports whether the handle moves the left edge.
func (h ResizeHandle) West() bool { return h == HandleW || h == HandleNW || h == HandleSW }

// North reports whether the handle moves the top edge.
func (h ResizeHandle) North() bool { return h == HandleN || h == HandleNW || h == HandleNE }

// Item is a rectangle on the grid. Position and size are in grid units.
//
// Min and max bounds of zero mean "unset": the minimum defaults to 1 and the
// maximum to unbounded. The optional Draggable/Resizable/Bounded pointers
// override the grid-wide setting when non-nil.
type Item struct {
	ID string `json:"i"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
	W  int    `json:"w"`
	H  int    `json:"h"`

	MinW int `json:"minW,omitempty"`
	MaxW int `json:"maxW,omitempty"`
	MinH int `json:"minH,omitempty"`
	MaxH int `json:"maxH,omitempty"`

	Static      bool  `json:"static,omitempty"`
	IsDraggable *bool `json:"isDraggable,omitempty"`
	IsResizable *bool `json:"isResizable,omitempty"`
	IsBounded   *bool `json:"isBounded,omitempty"`

	ResizeHandles []ResizeHandle `json:"resizeHandles,omitempty"`

	// Moved is set while a drag or resize cascade is in flight.
	Moved bool `json:"moved,omitempty"`

	// Constraints run after the grid-level constraints for this item.
	Constraints []Constraint `json:"-"`

	// Extra holds fields the engine does not understand. Codecs write them
	// back unchanged.
	Extra map[string]any `json:"-"`
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	c := *it
	c.IsDraggable = cloneBool(it.IsDraggable)
	c.IsResizable = cloneBool(it.IsResizable)
	c.IsBounded = cloneBool(it.IsBounded)
	c.ResizeHandles = slices.Clone(it.ResizeHandles)
	c.Constraints = slices.Clone(it.Constraints)
	c.Extra = maps.Clone(it.Extra)
	return &c
}

// Draggable resolves the per-item override against the grid default.
// Static items are never draggable unless explicitly marked so.
func (it *Item) Draggable(gridDefault bool) bool {
	if it.IsDraggable != nil {
		return *it.IsDraggable
	}
	return gridDefault && !it.Static
}

// Resizable resolves the per-item override against the grid default.
func (it *Item) Resizable(gridDefault bool) bool {
	if it.IsResizable != nil {
		return *it.IsResizable
	}
	return gridDefault && !it.Static
}

// Bounded resolves the per-item override against the grid default.
func (it *Item) Bounded(gridDefault bool) bool {
	if it.IsBounded != nil {
		return *it.IsBounded
	}
	return gridDefault
}

// Handles returns the item's resize handles, or gridDefault when none are set.
func (it *Item) Handles(gridDefault []ResizeHandle) []ResizeHandle {
	if len(it.ResizeHandles) > 0 {
		return it.ResizeHandles
	}
	return gridDefault
}

// minSize returns the effective minimum width and height.
func (it *Item) minSize() (int, int) {
	return max(1, it.MinW), max(1, it.MinH)
}

// maxSize returns the effective maximum width and height.
func (it *Item) maxSize() (int, int) {
	w, h := it.MaxW, it.MaxH
	if w <= 0 {
		w = InfiniteRows
	}
	if h <= 0 {
		h = InfiniteRows
	}
	return w, h
}

// Bool returns a pointer to b, for the optional item flags.
func Bool(b bool) *bool { return &b }

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// Layout is an ordered collection of items with unique ids.
type Layout []*Item

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	if l == nil {
		return nil
	}
	out := make(Layout, len(l))
	for i, it := range l {
		out[i] = it.Clone()
	}
	return out
}

// Find returns the item with the given id, or nil.
func (l Layout) Find(id string) *Item {
	for _, it := range l {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// Index returns the position of the item with the given id, or -1.
func (l Layout) Index(id string) int {
	for i, it := range l {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Bottom returns the lowest occupied row boundary (max of y+h).
func (l Layout) Bottom() int {
	b := 0
	for _, it := range l {
		b = max(b, it.Y+it.H)
	}
	return b
}

// Statics returns the static items in collection order.
func (l Layout) Statics() Layout {
	var out Layout
	for _, it := range l {
		if it.Static {
			out = append(out, it)
		}
	}
	return out
}

// Replace returns a shallow copy of the layout with the item sharing
// item.ID substituted. The layout is returned unchanged if no item matches.
func (l Layout) Replace(item *Item) Layout {
	out := make(Layout, len(l))
	for i, it := range l {
		if it.ID == item.ID {
			out[i] = item
		} else {
			out[i] = it
		}
	}
	return out
}

// Equal reports whether two layouts hold the same geometry and flags in the
// same order. Constraints and extra fields are not compared.
func (l Layout) Equal(o Layout) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		a, b := l[i], o[i]
		if a.ID != b.ID || a.X != b.X || a.Y != b.Y || a.W != b.W || a.H != b.H || a.Static != b.Static {
			return false
		}
	}
	return true
}
