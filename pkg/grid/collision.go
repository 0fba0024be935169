package grid

// Collides reports whether a and b overlap. Items sharing an id never
// collide, and rectangles that only touch along an edge do not overlap.
func Collides(a, b *Item) bool {
	if a.ID == b.ID {
		return false
	}
	return a.X < b.X+b.W &&
		b.X < a.X+a.W &&
		a.Y < b.Y+b.H &&
		b.Y < a.Y+a.H
}

// FirstCollision returns the first item in l that collides with item, or nil.
func FirstCollision(l Layout, item *Item) *Item {
	for _, other := range l {
		if Collides(other, item) {
			return other
		}
	}
	return nil
}

// AllCollisions returns every item in l that collides with item, in
// collection order.
func AllCollisions(l Layout, item *Item) Layout {
	var out Layout
	for _, other := range l {
		if Collides(other, item) {
			out = append(out, other)
		}
	}
	return out
}
