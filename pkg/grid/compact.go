package grid

// Compactor is a named compaction strategy.
type Compactor interface {
	// Name identifies the strategy in logs and configuration.
	Name() string
	// Type is the axis the strategy compacts along.
	Type() CompactType
	// AllowOverlap reports whether items may be stacked on each other.
	AllowOverlap() bool
	// PreventCollision reports whether drags into occupied cells are
	// rejected instead of displacing the occupant.
	PreventCollision() bool
	// Compact returns a compacted copy of l. The input is not modified.
	Compact(l Layout, cols int) Layout
}

type compactor struct {
	name             string
	typ              CompactType
	allowOverlap     bool
	preventCollision bool
	fn               func(Layout, int) Layout
}

func (c compactor) Name() string                      { return c.name }
func (c compactor) Type() CompactType                 { return c.typ }
func (c compactor) AllowOverlap() bool                { return c.allowOverlap }
func (c compactor) PreventCollision() bool            { return c.preventCollision }
func (c compactor) Compact(l Layout, cols int) Layout { return c.fn(l, cols) }

var (
	verticalCompactor = compactor{
		name: "vertical",
		typ:  CompactVertical,
		fn: func(l Layout, cols int) Layout {
			return compact(l, CompactVertical, cols, false)
		},
	}
	horizontalCompactor = compactor{
		name: "horizontal",
		typ:  CompactHorizontal,
		fn: func(l Layout, cols int) Layout {
			return compact(l, CompactHorizontal, cols, false)
		},
	}
	noCompactor = compactor{
		name: "none",
		typ:  CompactNone,
		fn:   compactNone,
	}
	verticalOverlapCompactor = compactor{
		name:         "vertical-overlap",
		typ:          CompactVertical,
		allowOverlap: true,
		fn: func(l Layout, cols int) Layout {
			return compact(l, CompactVertical, cols, true)
		},
	}
	horizontalOverlapCompactor = compactor{
		name:         "horizontal-overlap",
		typ:          CompactHorizontal,
		allowOverlap: true,
		fn: func(l Layout, cols int) Layout {
			return compact(l, CompactHorizontal, cols, true)
		},
	}
	noOverlapCompactor = compactor{
		name:         "none-overlap",
		typ:          CompactNone,
		allowOverlap: true,
		fn:           compactNone,
	}
	fastVerticalCompactor = compactor{
		name: "fast-vertical",
		typ:  CompactVertical,
		fn:   compactFastVertical,
	}
	fastHorizontalCompactor = compactor{
		name: "fast-horizontal",
		typ:  CompactHorizontal,
		fn:   compactFastHorizontal,
	}
)

// Built-in compactors.
var (
	VerticalCompactor          Compactor = verticalCompactor
	HorizontalCompactor        Compactor = horizontalCompactor
	NoCompactor                Compactor = noCompactor
	VerticalOverlapCompactor   Compactor = verticalOverlapCompactor
	HorizontalOverlapCompactor Compactor = horizontalOverlapCompactor
	NoOverlapCompactor         Compactor = noOverlapCompactor
	FastVerticalCompactor      Compactor = fastVerticalCompactor
	FastHorizontalCompactor    Compactor = fastHorizontalCompactor
)

// CompactorByName returns a compactor by its Name. "wrap" yields a fresh
// WrapCompactor.
func CompactorByName(name string) (Compactor, bool) {
	switch name {
	case "wrap":
		return NewWrapCompactor(), true
	case "":
		return NoCompactor, true
	}
	for _, c := range builtinCompactors {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

var builtinCompactors = []Compactor{
	VerticalCompactor, HorizontalCompactor, NoCompactor,
	VerticalOverlapCompactor, HorizontalOverlapCompactor, NoOverlapCompactor,
	FastVerticalCompactor, FastHorizontalCompactor,
}

// CompactorNames lists every name CompactorByName accepts, wrap included.
func CompactorNames() []string {
	names := make([]string, 0, len(builtinCompactors)+1)
	for _, c := range builtinCompactors {
		names = append(names, c.Name())
	}
	return append(names, "wrap")
}

// CompactorFor maps the legacy grid settings to a built-in compactor.
// CompactWrap has no string mapping and yields the no-op compactor; use
// NewWrapCompactor directly.
func CompactorFor(t CompactType, allowOverlap, preventCollision bool) Compactor {
	var c compactor
	switch t {
	case CompactVertical:
		c = verticalCompactor
		if allowOverlap {
			c = verticalOverlapCompactor
		}
	case CompactHorizontal:
		c = horizontalCompactor
		if allowOverlap {
			c = horizontalOverlapCompactor
		}
	default:
		c = noCompactor
		if allowOverlap {
			c = noOverlapCompactor
		}
	}
	c.preventCollision = preventCollision
	return c
}

// WithPreventCollision returns c with the prevent-collision flag replaced.
func WithPreventCollision(c Compactor, prevent bool) Compactor {
	return compactor{
		name:             c.Name(),
		typ:              c.Type(),
		allowOverlap:     c.AllowOverlap(),
		preventCollision: prevent,
		fn:               c.Compact,
	}
}

func compactNone(l Layout, _ int) Layout {
	out := l.Clone()
	for _, it := range out {
		it.Moved = false
	}
	return out
}

// compact moves every non-static item toward the origin along the axis of t.
// Statics are fixed obstacles. Unless overlap is allowed, items already
// placed are obstacles too and items displaced by a placement are pushed
// further along the axis. The output keeps the input order.
func compact(l Layout, t CompactType, cols int, allowOverlap bool) Layout {
	work := l.Clone()
	index := make(map[*Item]int, len(work))
	for i, it := range work {
		index[it] = i
	}

	compareWith := work.Statics()
	hasStatics := len(compareWith) > 0
	sorted := SortLayoutItems(work, t)
	out := make(Layout, len(work))

	for _, it := range sorted {
		if !it.Static {
			compactItem(compareWith, it, t, cols, sorted, allowOverlap, hasStatics)
			if !allowOverlap {
				compareWith = append(compareWith, it)
			}
		}
		it.Moved = false
		out[index[it]] = it
	}
	return out
}

// compactItem slides item toward the origin until it hits an obstacle in
// compareWith, then steps past any obstacle it still overlaps. item is
// modified in place and so may be later entries of sorted.
func compactItem(compareWith Layout, item *Item, t CompactType, cols int, sorted Layout, allowOverlap, hasStatics bool) {
	switch t {
	case CompactVertical:
		item.Y = min(compareWith.Bottom(), item.Y)
		for item.Y > 0 && FirstCollision(compareWith, item) == nil {
			item.Y--
		}
	case CompactHorizontal:
		slideLeft(compareWith, item)
	}

	for {
		coll := FirstCollision(compareWith, item)
		if coll == nil {
			break
		}
		switch {
		case t == CompactHorizontal && allowOverlap:
			item.X = coll.X + coll.W
		case t == CompactHorizontal:
			ResolveCompactionCollision(sorted, item, coll.X+coll.W, AxisX, hasStatics)
		case allowOverlap:
			item.Y = coll.Y + coll.H
		default:
			ResolveCompactionCollision(sorted, item, coll.Y+coll.H, AxisY, hasStatics)
		}

		if t == CompactHorizontal && item.X+item.W > cols {
			item.X = cols - item.W
			item.Y++
			slideLeft(compareWith, item)
		}
	}

	item.X = max(item.X, 0)
	item.Y = max(item.Y, 0)
}

func slideLeft(compareWith Layout, item *Item) {
	for item.X > 0 && FirstCollision(compareWith, item) == nil {
		item.X--
	}
}
