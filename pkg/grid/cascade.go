package grid

// Axis selects the x or y coordinate of an item.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

func (a Axis) coord(it *Item) *int {
	if a == AxisX {
		return &it.X
	}
	return &it.Y
}

func (a Axis) size(it *Item) int {
	if a == AxisX {
		return it.W
	}
	return it.H
}

// maxCascadeSteps bounds the work of one cascade. Hitting it stops the scan;
// items already in the cascade still reach their targets.
const maxCascadeSteps = 1 << 16

type cascadeFrame struct {
	item   *Item
	moveTo int
	next   int
}

// ResolveCompactionCollision moves item to moveTo along axis, first pushing
// every non-static item after it in l that the move would overlap further
// along the axis, transitively. l must be in compaction order for axis and
// contain item. Items are modified in place.
//
// Without statics, the scan stops at the first item that starts beyond the
// moved item's trailing edge. Statics can hold later items out of order, so
// hasStatics disables that cut-off.
func ResolveCompactionCollision(l Layout, item *Item, moveTo int, axis Axis, hasStatics bool) {
	start := l.Index(item.ID)
	if start < 0 {
		*axis.coord(item) = moveTo
		return
	}

	// A frame's item sits one cell past its original coordinate while its
	// followers are scanned, so items that merely touch it are caught.
	*axis.coord(item)++
	stack := []cascadeFrame{{item: item, moveTo: moveTo, next: start + 1}}
	steps := 0

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		pushed := false

		for top.next < len(l) && steps < maxCascadeSteps {
			other := l[top.next]
			top.next++
			steps++

			if other.Static {
				continue
			}
			if !hasStatics && *axis.coord(other) > *axis.coord(top.item)+axis.size(top.item) {
				top.next = len(l)
				break
			}
			if Collides(top.item, other) {
				child := cascadeFrame{
					item:   other,
					moveTo: top.moveTo + axis.size(top.item),
					next:   top.next,
				}
				*axis.coord(other)++
				stack = append(stack, child)
				pushed = true
				break
			}
		}
		if pushed {
			continue
		}

		*axis.coord(top.item) = top.moveTo
		stack = stack[:len(stack)-1]
	}
}
