package grid

import "math"

// ConstraintContext describes the grid a constraint runs against.
type ConstraintContext struct {
	Cols    int
	MaxRows int
	// ContainerWidth and ContainerHeight are in pixels. A zero height
	// means the container grows with its content.
	ContainerWidth   float64
	ContainerHeight  float64
	RowHeight        float64
	Margin           [2]float64
	ContainerPadding [2]float64
	Layout           Layout
}

// NewConstraintContext builds a context from position parameters.
func NewConstraintContext(p PositionParams, containerHeight float64, l Layout) ConstraintContext {
	return ConstraintContext{
		Cols:             p.Cols,
		MaxRows:          p.Rows(),
		ContainerWidth:   p.ContainerWidth,
		ContainerHeight:  containerHeight,
		RowHeight:        p.RowHeight,
		Margin:           p.Margin,
		ContainerPadding: p.Padding(),
		Layout:           l,
	}
}

func (c ConstraintContext) params() PositionParams {
	pad := c.ContainerPadding
	return PositionParams{
		GridConfig: GridConfig{
			Cols:             c.Cols,
			RowHeight:        c.RowHeight,
			Margin:           c.Margin,
			ContainerPadding: &pad,
			MaxRows:          c.MaxRows,
		},
		ContainerWidth: c.ContainerWidth,
	}
}

func (c ConstraintContext) maxRows() int {
	if c.MaxRows <= 0 {
		return InfiniteRows
	}
	return c.MaxRows
}

// Constraint limits where an item may go and how large it may be. Either
// function may be nil.
type Constraint struct {
	Name              string
	ConstrainPosition func(item *Item, x, y int, ctx ConstraintContext) (int, int)
	ConstrainSize     func(item *Item, w, h int, handle ResizeHandle, ctx ConstraintContext) (int, int)
}

// ApplyPositionConstraints runs each constraint's position function over
// (x, y) in order.
func ApplyPositionConstraints(cs []Constraint, item *Item, x, y int, ctx ConstraintContext) (int, int) {
	for _, c := range cs {
		if c.ConstrainPosition != nil {
			x, y = c.ConstrainPosition(item, x, y, ctx)
		}
	}
	return x, y
}

// ApplySizeConstraints runs each constraint's size function over (w, h) in
// order.
func ApplySizeConstraints(cs []Constraint, item *Item, w, h int, handle ResizeHandle, ctx ConstraintContext) (int, int) {
	for _, c := range cs {
		if c.ConstrainSize != nil {
			w, h = c.ConstrainSize(item, w, h, handle, ctx)
		}
	}
	return w, h
}

// DefaultConstraints is used when a grid configures none.
var DefaultConstraints = []Constraint{GridBounds, MinMaxSize}

// ItemConstraints returns the grid-level constraints followed by the item's
// own. A nil gridLevel selects DefaultConstraints.
func ItemConstraints(gridLevel []Constraint, item *Item) []Constraint {
	if gridLevel == nil {
		gridLevel = DefaultConstraints
	}
	out := make([]Constraint, 0, len(gridLevel)+len(item.Constraints))
	out = append(out, gridLevel...)
	return append(out, item.Constraints...)
}

// GridBounds keeps items inside the columns and the maximum row count.
var GridBounds = Constraint{
	Name: "gridBounds",
	ConstrainPosition: func(item *Item, x, y int, ctx ConstraintContext) (int, int) {
		return boundX(item, x, ctx.Cols), boundY(item, y, ctx.maxRows())
	},
	ConstrainSize: func(item *Item, w, h int, handle ResizeHandle, ctx ConstraintContext) (int, int) {
		return boundSize(item, w, h, handle, ctx.Cols, ctx.maxRows())
	},
}

// MinMaxSize clamps the size into the item's own minimum and maximum.
var MinMaxSize = Constraint{
	Name: "minMaxSize",
	ConstrainSize: func(item *Item, w, h int, _ ResizeHandle, _ ConstraintContext) (int, int) {
		minW, minH := item.minSize()
		maxW, maxH := item.maxSize()
		return Clamp(w, minW, max(minW, maxW)), Clamp(h, minH, max(minH, maxH))
	},
}

// ContainerBounds is GridBounds with the row limit taken from the rows that
// fit the container height. A zero height falls back to the maximum row
// count.
var ContainerBounds = Constraint{
	Name: "containerBounds",
	ConstrainPosition: func(item *Item, x, y int, ctx ConstraintContext) (int, int) {
		return boundX(item, x, ctx.Cols), boundY(item, y, visibleRows(ctx))
	},
	ConstrainSize: func(item *Item, w, h int, handle ResizeHandle, ctx ConstraintContext) (int, int) {
		return boundSize(item, w, h, handle, ctx.Cols, visibleRows(ctx))
	},
}

// BoundedX keeps items inside the columns and leaves y alone.
var BoundedX = Constraint{
	Name: "boundedX",
	ConstrainPosition: func(item *Item, x, y int, ctx ConstraintContext) (int, int) {
		return boundX(item, x, ctx.Cols), y
	},
}

// BoundedY keeps items inside the row limit and leaves x alone.
var BoundedY = Constraint{
	Name: "boundedY",
	ConstrainPosition: func(item *Item, x, y int, ctx ConstraintContext) (int, int) {
		return x, boundY(item, y, ctx.maxRows())
	},
}

// AspectRatio keeps the item's pixel width to height ratio at ratio. The
// height follows the width, except for the vertical-only handles n and s
// where the width follows the height.
func AspectRatio(ratio float64) Constraint {
	return Constraint{
		Name: "aspectRatio",
		ConstrainSize: func(_ *Item, w, h int, handle ResizeHandle, ctx ConstraintContext) (int, int) {
			colWidth := ColWidth(ctx.params())
			if ratio <= 0 || colWidth <= 0 || ctx.RowHeight <= 0 {
				return w, h
			}
			if handle == HandleN || handle == HandleS {
				w = int(math.Round(float64(h) * ctx.RowHeight * ratio / colWidth))
				return max(1, w), h
			}
			h = int(math.Round(float64(w) * colWidth / ratio / ctx.RowHeight))
			return w, max(1, h)
		},
	}
}

// SnapToGrid rounds positions to the nearest multiple of the step. stepY
// defaults to stepX. Steps below 1 are treated as 1.
func SnapToGrid(stepX int, stepY ...int) Constraint {
	sx := max(1, stepX)
	sy := sx
	if len(stepY) > 0 {
		sy = max(1, stepY[0])
	}
	return Constraint{
		Name: "snapToGrid",
		ConstrainPosition: func(_ *Item, x, y int, _ ConstraintContext) (int, int) {
			return snap(x, sx), snap(y, sy)
		},
	}
}

// MinSize is a grid-wide minimum size.
func MinSize(minW, minH int) Constraint {
	return Constraint{
		Name: "minSize",
		ConstrainSize: func(_ *Item, w, h int, _ ResizeHandle, _ ConstraintContext) (int, int) {
			return max(w, minW), max(h, minH)
		},
	}
}

// MaxSize is a grid-wide maximum size.
func MaxSize(maxW, maxH int) Constraint {
	return Constraint{
		Name: "maxSize",
		ConstrainSize: func(_ *Item, w, h int, _ ResizeHandle, _ ConstraintContext) (int, int) {
			return min(w, maxW), min(h, maxH)
		},
	}
}

func boundX(item *Item, x, cols int) int {
	return Clamp(x, 0, max(0, cols-item.W))
}

func boundY(item *Item, y, rows int) int {
	return Clamp(y, 0, max(0, rows-item.H))
}

// boundSize limits growth to the grid edge the handle moves toward.
func boundSize(item *Item, w, h int, handle ResizeHandle, cols, rows int) (int, int) {
	maxW := cols - item.X
	if handle.West() {
		maxW = item.X + item.W
	}
	maxH := rows - item.Y
	if handle.North() {
		maxH = item.Y + item.H
	}
	return Clamp(w, 1, max(1, maxW)), Clamp(h, 1, max(1, maxH))
}

func visibleRows(ctx ConstraintContext) int {
	if ctx.ContainerHeight <= 0 {
		return ctx.maxRows()
	}
	avail := ctx.ContainerHeight - 2*ctx.ContainerPadding[1] + ctx.Margin[1]
	rows := int(math.Floor(avail / (ctx.RowHeight + ctx.Margin[1])))
	return max(1, min(rows, ctx.maxRows()))
}

func snap(n, step int) int {
	return int(math.Round(float64(n)/float64(step))) * step
}
