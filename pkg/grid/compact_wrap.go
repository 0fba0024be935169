package grid

import (
	"slices"
	"sync"
)

// WrapCompactor flows items left to right like words in a paragraph. A row
// is as tall as its tallest item and an item that does not fit the rest of a
// row starts the next one. Statics stay put and flowing items skip past them.
//
// The flow order is a sequence remembered between calls. When an item is
// marked Moved, its new cell decides its new place in the sequence and the
// other items reflow around it: dropping it on an earlier item's cell shifts
// that item and its successors forward, dropping it later shifts the items
// in between back.
//
// A WrapCompactor is safe for concurrent use but is meant to serve one grid.
type WrapCompactor struct {
	mu    sync.Mutex
	order []string
}

// NewWrapCompactor returns a wrap compactor with no remembered sequence.
// The first call orders items by row, then column.
func NewWrapCompactor() *WrapCompactor {
	return &WrapCompactor{}
}

func (w *WrapCompactor) Name() string           { return "wrap" }
func (w *WrapCompactor) Type() CompactType      { return CompactWrap }
func (w *WrapCompactor) AllowOverlap() bool     { return false }
func (w *WrapCompactor) PreventCollision() bool { return false }

// Sequence returns the remembered flow order.
func (w *WrapCompactor) Sequence() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.order)
}

// Reset forgets the remembered sequence.
func (w *WrapCompactor) Reset() {
	w.mu.Lock()
	w.order = nil
	w.mu.Unlock()
}

// Compact returns a reflowed copy of l in the input order.
func (w *WrapCompactor) Compact(l Layout, cols int) Layout {
	w.mu.Lock()
	defer w.mu.Unlock()

	work := l.Clone()
	seq := w.sequence(work, cols)
	flow(seq, work.Statics(), cols)

	w.order = w.order[:0]
	for _, it := range seq {
		w.order = append(w.order, it.ID)
	}
	for _, it := range work {
		it.Moved = false
	}
	return work
}

// sequence returns the non-static items of l in flow order.
func (w *WrapCompactor) sequence(l Layout, cols int) Layout {
	var flowing Layout
	for _, it := range l {
		if !it.Static {
			flowing = append(flowing, it)
		}
	}

	rank := make(map[string]int, len(w.order))
	for i, id := range w.order {
		rank[id] = i
	}
	known := func(it *Item) (int, bool) {
		r, ok := rank[it.ID]
		return r, ok
	}

	// Remembered items keep their order; new ones follow by position.
	base := SortLayoutItems(flowing, CompactVertical)
	slices.SortStableFunc(base, func(a, b *Item) int {
		ra, okA := known(a)
		rb, okB := known(b)
		switch {
		case okA && okB:
			return ra - rb
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})

	// Only a single dragged item reorders. Several moved items mean a
	// cascade, which the reflow undoes anyway.
	var moved *Item
	for _, it := range flowing {
		if !it.Moved {
			continue
		}
		if moved != nil {
			return base
		}
		moved = it
	}
	if moved == nil {
		return base
	}

	oldIndex := slices.Index(base, moved)
	rest := slices.DeleteFunc(slices.Clone(base), func(it *Item) bool { return it == moved })

	key := func(it *Item) int { return it.Y*max(cols, 1) + it.X }
	// rest still holds the pre-drag cells, so counting keys finds the slot.
	target := key(moved)
	lt, le := 0, 0
	for _, it := range rest {
		k := key(it)
		if k < target {
			lt++
		}
		if k <= target {
			le++
		}
	}

	at := lt
	if oldIndex >= 0 && oldIndex <= lt {
		at = le
	}
	return slices.Insert(rest, at, moved)
}

// flow assigns cells to seq in order, avoiding statics.
func flow(seq, statics Layout, cols int) {
	x, y, rowH := 0, 0, 0
	newline := func() {
		if rowH == 0 {
			y++
		} else {
			y += rowH
		}
		x, rowH = 0, 0
	}

	for _, it := range seq {
		for {
			if x > 0 && x+it.W > cols {
				newline()
				continue
			}
			it.X, it.Y = x, y
			if s := FirstCollision(statics, it); s != nil {
				x = s.X + s.W
				if x >= cols {
					newline()
				}
				continue
			}
			break
		}
		x += it.W
		rowH = max(rowH, it.H)
	}
}
