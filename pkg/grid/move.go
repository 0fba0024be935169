package grid

import "slices"

// MoveOptions carries the grid settings a move or resize runs under.
type MoveOptions struct {
	// IsUserAction marks a move made by a drag gesture. Obstacles are then
	// pushed further along the movement axis. Programmatic moves try to
	// slide obstacles toward the origin first.
	IsUserAction bool
	// PreventCollision rejects a move that would overlap another item.
	PreventCollision bool
	// AllowOverlap commits moves without resolving collisions.
	AllowOverlap bool
	CompactType  CompactType
	Cols         int
}

// maxMoveSteps bounds the moves a single cascade may make. Moves past the
// budget are dropped and leave their item in place.
const maxMoveSteps = 1 << 14

type mover struct {
	l     Layout
	opts  MoveOptions
	steps int
}

// MoveElement moves item to (x, y), pushing colliding items out of the way.
// Pass the item's current coordinate to leave an axis alone. x is clamped
// to [0, cols-w] and y to y >= 0.
//
// item and any items it displaces are modified in place and the returned
// layout shares them with l. Callers that need l unchanged must Clone it
// first. A blocked move under PreventCollision leaves item where it was.
func MoveElement(l Layout, item *Item, x, y int, opts MoveOptions) Layout {
	m := &mover{l: l, opts: opts}
	m.move(item, x, y, opts.IsUserAction, opts.PreventCollision)
	return m.l
}

// MoveElementAwayFromCollision relocates itemToMove so it no longer overlaps
// collidesWith. A user action pushes it past collidesWith along the
// compaction axis (down unless compacting horizontally). Otherwise the slot
// just before collidesWith is tried first and the slot just after it is the
// fallback. Any further collisions cascade. Items are modified in place.
func MoveElementAwayFromCollision(l Layout, collidesWith, itemToMove *Item, opts MoveOptions) Layout {
	m := &mover{l: l, opts: opts}
	m.away(collidesWith, itemToMove, opts.IsUserAction)
	return m.l
}

func (m *mover) move(item *Item, x, y int, isUserAction, preventCollision bool) {
	if item.Static && (item.IsDraggable == nil || !*item.IsDraggable) {
		return
	}
	x = Clamp(x, 0, max(0, m.opts.Cols-item.W))
	y = max(y, 0)
	if item.X == x && item.Y == y {
		return
	}
	if m.steps >= maxMoveSteps {
		return
	}
	m.steps++

	oldX, oldY := item.X, item.Y
	item.X, item.Y = x, y
	item.Moved = true

	sorted := SortLayoutItems(m.l, m.opts.CompactType)
	if movingTowardOrigin(m.opts.CompactType, oldX, oldY, x, y) {
		slices.Reverse(sorted)
	}
	collisions := AllCollisions(sorted, item)
	if len(collisions) == 0 || m.opts.AllowOverlap {
		return
	}
	if preventCollision {
		item.X, item.Y = oldX, oldY
		item.Moved = false
		return
	}

	for _, c := range collisions {
		if c.Moved {
			continue
		}
		if c.Static {
			m.away(c, item, isUserAction)
		} else {
			m.away(item, c, isUserAction)
		}
	}
}

func (m *mover) away(collidesWith, itemToMove *Item, isUserAction bool) {
	horizontal := m.opts.CompactType == CompactHorizontal
	preventCollision := collidesWith.Static

	if isUserAction {
		if horizontal {
			m.move(itemToMove, collidesWith.X+collidesWith.W, itemToMove.Y, false, preventCollision)
		} else {
			m.move(itemToMove, itemToMove.X, collidesWith.Y+collidesWith.H, false, preventCollision)
		}
		return
	}

	fake := &Item{ID: itemToMove.ID, X: itemToMove.X, Y: itemToMove.Y, W: itemToMove.W, H: itemToMove.H}
	if horizontal {
		fake.X = max(collidesWith.X-itemToMove.W, 0)
	} else {
		fake.Y = max(collidesWith.Y-itemToMove.H, 0)
	}
	if FirstCollision(m.l, fake) == nil {
		m.move(itemToMove, fake.X, fake.Y, false, preventCollision)
		return
	}

	if horizontal {
		m.move(itemToMove, collidesWith.X+collidesWith.W, itemToMove.Y, false, preventCollision)
	} else {
		m.move(itemToMove, itemToMove.X, collidesWith.Y+collidesWith.H, false, preventCollision)
	}
}

func movingTowardOrigin(t CompactType, oldX, oldY, x, y int) bool {
	switch t {
	case CompactVertical:
		return oldY >= y
	case CompactHorizontal:
		return oldX >= x
	}
	return false
}

// ResizeElement sets item's size to w x h. A west handle keeps the right
// edge fixed and a north handle keeps the bottom edge fixed; neither lets
// the item cross the grid origin. Items overlapping the result are pushed
// away as by a drag. Touching a static, or any item under PreventCollision,
// rejects the resize. Static items are never resized.
//
// Like MoveElement, items are modified in place.
func ResizeElement(l Layout, item *Item, w, h int, handle ResizeHandle, opts MoveOptions) Layout {
	if item.Static {
		return l
	}
	oldX, oldY, oldW, oldH := item.X, item.Y, item.W, item.H
	w, h = max(w, 1), max(h, 1)

	x, y := oldX, oldY
	if handle.West() {
		right := oldX + oldW
		w = min(w, right)
		x = right - w
	} else if opts.Cols > 0 {
		w = min(w, max(1, opts.Cols-x))
	}
	if handle.North() {
		bottom := oldY + oldH
		h = min(h, bottom)
		y = bottom - h
	}
	if x == oldX && y == oldY && w == oldW && h == oldH {
		return l
	}

	item.X, item.Y, item.W, item.H = x, y, w, h
	item.Moved = true
	if opts.AllowOverlap {
		return l
	}

	collisions := AllCollisions(l, item)
	blocked := opts.PreventCollision && len(collisions) > 0
	blocked = blocked || slices.ContainsFunc(collisions, func(c *Item) bool { return c.Static })
	if blocked {
		item.X, item.Y, item.W, item.H = oldX, oldY, oldW, oldH
		item.Moved = false
		return l
	}

	m := &mover{l: l, opts: opts}
	for _, c := range collisions {
		if !c.Moved {
			m.away(item, c, true)
		}
	}
	return m.l
}
