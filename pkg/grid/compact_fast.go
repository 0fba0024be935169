package grid

// compactFastVertical is a rising-tide vertical compactor. Items are visited
// once in (y, x) order and each one drops to the highest free row across the
// columns it spans. Gaps beneath an overhang are not back-filled, which is
// where its results can differ from compact.
func compactFastVertical(l Layout, cols int) Layout {
	work := l.Clone()
	sorted := SortLayoutItems(work, CompactVertical)
	statics := sorted.Statics()
	staticOffset := 0
	tide := make([]int, max(cols, 0))

	for _, it := range sorted {
		lo, hi := spanOf(it.X, it.W, cols)

		if it.Static {
			staticOffset++
		} else {
			top := 0
			for c := lo; c < hi; c++ {
				top = max(top, tide[c])
			}
			it.Y = top

			// Statics not yet reached by the sweep are not in the tide.
			for j := staticOffset; j < len(statics); j++ {
				s := statics[j]
				if s.Y >= it.Y+it.H {
					break
				}
				if Collides(it, s) {
					it.Y = s.Y + s.H
					j = staticOffset - 1
				}
			}
		}
		it.Moved = false

		for c := lo; c < hi; c++ {
			tide[c] = max(tide[c], it.Y+it.H)
		}
	}
	return work
}

// compactFastHorizontal is the sweeping-tide counterpart of
// compactFastVertical. Each row tracks the first free column; an item takes
// the largest tide across its rows and wraps one row down while it would
// cross the right edge.
func compactFastHorizontal(l Layout, cols int) Layout {
	work := l.Clone()
	sorted := SortLayoutItems(work, CompactHorizontal)

	var tide []int
	grow := func(rows int) {
		for len(tide) < rows {
			tide = append(tide, 0)
		}
	}

	for i, it := range sorted {
		if !it.Static {
			placeHorizontal(it, sorted[i+1:], cols, &tide, grow)
		}
		it.Moved = false

		grow(it.Y + it.H)
		for r := max(it.Y, 0); r < it.Y+it.H; r++ {
			tide[r] = max(tide[r], it.X+it.W)
		}
	}
	return work
}

func placeHorizontal(it *Item, rest Layout, cols int, tide *[]int, grow func(int)) {
	it.Y = max(it.Y, 0)
	for {
		grow(it.Y + it.H)
		left := 0
		for r := it.Y; r < it.Y+it.H; r++ {
			left = max(left, (*tide)[r])
		}
		it.X = left
		if left > 0 && left+it.W > cols {
			it.Y++
			continue
		}
		if bumpPastStatics(it, rest) && it.X+it.W > cols && it.X > 0 {
			it.Y++
			continue
		}
		return
	}
}

// bumpPastStatics moves it right past any static in rest it overlaps and
// reports whether it moved.
func bumpPastStatics(it *Item, rest Layout) bool {
	moved := false
	for again := true; again; {
		again = false
		for _, s := range rest {
			if s.Static && Collides(it, s) {
				it.X = s.X + s.W
				moved, again = true, true
			}
		}
	}
	return moved
}

// spanOf clips the column span [x, x+w) to [0, cols).
func spanOf(x, w, cols int) (int, int) {
	lo := max(x, 0)
	hi := min(x+w, cols)
	if hi < lo {
		return lo, lo
	}
	return lo, hi
}
