package grid

// CorrectBounds pulls items back inside a grid of cols columns. An item
// past the right edge is shifted left; one past the left edge is moved to
// column 0 and narrowed to at most cols. Statics that then overlap another
// static are pushed down until free.
//
// l is modified in place and returned.
func CorrectBounds(l Layout, cols int) Layout {
	statics := l.Statics()
	for _, it := range l {
		if it.X+it.W > cols {
			it.X = cols - it.W
		}
		if it.X < 0 {
			it.X = 0
			it.W = max(1, min(it.W, cols))
		}
		if it.Static {
			for FirstCollision(statics, it) != nil {
				it.Y++
			}
		}
	}
	return l
}
