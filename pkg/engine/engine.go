// Package engine hosts a layout the way a grid component does: it turns
// pointer gestures in pixels into moves and resizes, keeps the layout
// compacted, and reports where each item should be drawn.
//
// An [Engine] owns one layout and serializes every operation with a mutex,
// so it can back a UI event loop or an HTTP handler directly. A
// [Responsive] engine switches between per-breakpoint engines as the
// container width changes.
package engine

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/grid"
	"github.com/dear23/gridlayout/pkg/observability"
)

type gestureKind int

const (
	gestureDrag gestureKind = iota + 1
	gestureResize
)

// gesture is an in-flight drag or resize.
type gesture struct {
	kind        gestureKind
	id          string
	handle      grid.ResizeHandle
	drag        *grid.PartialPosition
	resize      *grid.Position
	placeholder *grid.Item
}

// Engine holds a layout and applies gestures to it. It is safe for
// concurrent use.
type Engine struct {
	mu      sync.Mutex
	opts    Options
	layout  grid.Layout
	gesture *gesture
	logger  *log.Logger
}

// New validates l, pulls it inside the grid and compacts it. l is not
// modified.
func New(ctx context.Context, l grid.Layout, opts Options) (*Engine, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	err := grid.ValidateLayout(l, "engine")
	observability.Layout().OnValidate(ctx, "engine", err)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		opts:   opts,
		layout: grid.CorrectBounds(l.Clone(), opts.Grid.Cols),
		logger: opts.Logger,
	}
	e.compact(ctx)
	return e, nil
}

// Layout returns a copy of the current layout.
func (e *Engine) Layout() grid.Layout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layout.Clone()
}

// Item returns a copy of one item.
func (e *Engine) Item(id string) (*grid.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	it, err := e.find(id)
	if err != nil {
		return nil, err
	}
	return it.Clone(), nil
}

// Options returns the engine's options with defaults applied.
func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

// Params returns the position parameters of the grid.
func (e *Engine) Params() grid.PositionParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts.params()
}

// SetContainerWidth changes the container width. Grid units do not change.
func (e *Engine) SetContainerWidth(width float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	opts := e.opts
	opts.ContainerWidth = width
	if err := opts.Validate(); err != nil {
		return err
	}
	e.opts = opts
	return nil
}

// Compact compacts the layout with the configured compactor and returns a
// copy of the result.
func (e *Engine) Compact(ctx context.Context) grid.Layout {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compact(ctx)
	return e.layout.Clone()
}

// DragStart begins dragging id. The item must be draggable.
func (e *Engine) DragStart(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	it, err := e.find(id)
	if err != nil {
		return err
	}
	if !it.Draggable(!e.opts.DisableDrag) {
		return errors.New(errors.ErrCodeInvalidInput, "item %q is not draggable", id)
	}
	pos := e.position(it)
	e.gesture = &gesture{
		kind:        gestureDrag,
		id:          id,
		drag:        &grid.PartialPosition{Left: pos.Left, Top: pos.Top},
		placeholder: it.Clone(),
	}
	e.logger.Debug("drag start", "id", id, "x", it.X, "y", it.Y)
	return nil
}

// Drag moves id so its top-left corner is at (left, top) pixels and
// returns the snapped grid position the item would drop at.
func (e *Engine) Drag(ctx context.Context, id string, left, top float64) (*grid.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.expect(gestureDrag, id); err != nil {
		return nil, err
	}
	e.gesture.drag = &grid.PartialPosition{Left: left, Top: top}
	it, err := e.dragTo(ctx, id, left, top)
	if err != nil {
		return nil, err
	}
	e.gesture.placeholder = it.Clone()
	return it.Clone(), nil
}

// DragStop ends the drag at (left, top) and returns the compacted layout.
func (e *Engine) DragStop(ctx context.Context, id string, left, top float64) (grid.Layout, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.expect(gestureDrag, id); err != nil {
		return nil, err
	}
	e.gesture = nil
	it, err := e.dragTo(ctx, id, left, top)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("drag stop", "id", id, "x", it.X, "y", it.Y)
	return e.layout.Clone(), nil
}

// Move places id at grid cell (x, y) in one step, as a drag would.
func (e *Engine) Move(ctx context.Context, id string, x, y int) (grid.Layout, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	it, err := e.find(id)
	if err != nil {
		return nil, err
	}
	if !it.Draggable(!e.opts.DisableDrag) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "item %q is not draggable", id)
	}
	e.moveTo(ctx, it, x, y)
	return e.layout.Clone(), nil
}

func (e *Engine) dragTo(ctx context.Context, id string, left, top float64) (*grid.Item, error) {
	it, err := e.find(id)
	if err != nil {
		return nil, err
	}
	x, y := grid.PixelToGridUnitsRaw(e.opts.params(), top, left)
	return e.moveTo(ctx, it, x, y), nil
}

// moveTo constrains (x, y), moves it there, compacts and returns the
// item's compacted copy.
func (e *Engine) moveTo(ctx context.Context, it *grid.Item, x, y int) *grid.Item {
	cs := grid.ItemConstraints(e.opts.Constraints, it)
	x, y = grid.ApplyPositionConstraints(cs, it, x, y, e.constraintContext())

	oldX, oldY := it.X, it.Y
	x = grid.Clamp(x, 0, max(0, e.opts.Grid.Cols-it.W))
	y = max(y, 0)
	e.layout = grid.MoveElement(e.layout, it, x, y, e.opts.moveOptions())
	// Blocked means the item stayed put. A static can still deflect an
	// accepted move to another cell.
	blocked := (x != oldX || y != oldY) && it.X == oldX && it.Y == oldY
	observability.Layout().OnMove(ctx, it.ID, x, y, blocked)
	if blocked {
		e.logger.Debug("move blocked", "id", it.ID, "x", x, "y", y)
	}

	e.compact(ctx)
	return e.layout.Find(it.ID)
}

// ResizeStart begins resizing id from handle.
func (e *Engine) ResizeStart(ctx context.Context, id string, handle grid.ResizeHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	it, err := e.find(id)
	if err != nil {
		return err
	}
	if !it.Resizable(!e.opts.DisableResize) {
		return errors.New(errors.ErrCodeInvalidInput, "item %q is not resizable", id)
	}
	if !slices.Contains(it.Handles(e.opts.ResizeHandles), handle) {
		return errors.New(errors.ErrCodeInvalidInput, "item %q has no %q resize handle", id, handle)
	}
	pos := e.position(it)
	e.gesture = &gesture{
		kind:        gestureResize,
		id:          id,
		handle:      handle,
		resize:      &pos,
		placeholder: it.Clone(),
	}
	e.logger.Debug("resize start", "id", id, "handle", handle)
	return nil
}

// Resize sets the pixel size of id during a resize and returns the
// snapped grid geometry.
func (e *Engine) Resize(ctx context.Context, id string, width, height float64) (*grid.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.expect(gestureResize, id); err != nil {
		return nil, err
	}
	it, err := e.resizeTo(ctx, id, e.gesture.handle, width, height)
	if err != nil {
		return nil, err
	}
	pos := e.position(it)
	pos.Width, pos.Height = width, height
	e.gesture.resize = &pos
	e.gesture.placeholder = it.Clone()
	return it.Clone(), nil
}

// ResizeStop ends the resize and returns the compacted layout.
func (e *Engine) ResizeStop(ctx context.Context, id string, width, height float64) (grid.Layout, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.expect(gestureResize, id); err != nil {
		return nil, err
	}
	handle := e.gesture.handle
	e.gesture = nil
	it, err := e.resizeTo(ctx, id, handle, width, height)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("resize stop", "id", id, "w", it.W, "h", it.H)
	return e.layout.Clone(), nil
}

// ResizeTo sets id to w x h grid units in one step, as a resize from
// handle would.
func (e *Engine) ResizeTo(ctx context.Context, id string, w, h int, handle grid.ResizeHandle) (grid.Layout, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	it, err := e.find(id)
	if err != nil {
		return nil, err
	}
	if !it.Resizable(!e.opts.DisableResize) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "item %q is not resizable", id)
	}
	if handle == "" {
		handle = grid.HandleSE
	}
	if !handle.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown resize handle %q", handle)
	}
	e.resizeUnits(ctx, it, w, h, handle)
	return e.layout.Clone(), nil
}

func (e *Engine) resizeTo(ctx context.Context, id string, handle grid.ResizeHandle, width, height float64) (*grid.Item, error) {
	it, err := e.find(id)
	if err != nil {
		return nil, err
	}
	w, h := grid.PixelSizeToGridUnitsRaw(e.opts.params(), width, height)
	return e.resizeUnits(ctx, it, w, h, handle), nil
}

func (e *Engine) resizeUnits(ctx context.Context, it *grid.Item, w, h int, handle grid.ResizeHandle) *grid.Item {
	cs := grid.ItemConstraints(e.opts.Constraints, it)
	w, h = grid.ApplySizeConstraints(cs, it, w, h, handle, e.constraintContext())

	oldW, oldH := it.W, it.H
	w, h = max(w, 1), max(h, 1)
	if handle.West() {
		w = min(w, it.X+it.W)
	} else {
		w = min(w, max(1, e.opts.Grid.Cols-it.X))
	}
	if handle.North() {
		h = min(h, it.Y+it.H)
	}
	e.layout = grid.ResizeElement(e.layout, it, w, h, handle, e.opts.moveOptions())
	blocked := (w != oldW || h != oldH) && it.W == oldW && it.H == oldH
	observability.Layout().OnResize(ctx, it.ID, w, h, blocked)
	// A resize keeps the wrap sequence.
	for _, c := range e.layout {
		c.Moved = false
	}

	e.compact(ctx)
	return e.layout.Find(it.ID)
}

// Drop inserts a new item under the pointer at (left, top) pixels. A
// non-positive w or h takes the configured drop size. The new item gets a
// random id and pushes overlapped items out of the way.
func (e *Engine) Drop(ctx context.Context, left, top float64, w, h int) (*grid.Item, error) {
	if w <= 0 {
		w = e.Options().DropSize[0]
	}
	if h <= 0 {
		h = e.Options().DropSize[1]
	}
	p := e.Params()
	x, y := grid.PixelToGridUnits(p, top, left, w, h)
	return e.Add(ctx, &grid.Item{ID: uuid.NewString(), X: x, Y: y, W: w, H: h})
}

// Add inserts item at its own position, pushing overlapped items out of the
// way, and returns its compacted copy. The id must be new.
func (e *Engine) Add(ctx context.Context, item *grid.Item) (*grid.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.layout.Find(item.ID) != nil {
		return nil, errors.New(errors.ErrCodeDuplicateID, "item %q already exists", item.ID)
	}
	if err := grid.ValidateLayout(grid.Layout{item}, "add"); err != nil {
		return nil, err
	}

	it := item.Clone()
	it.W = min(it.W, e.opts.Grid.Cols)
	x, y := it.X, it.Y
	// Enter below everything, then move in so occupants are pushed as by
	// a drag.
	it.X, it.Y = min(x, e.opts.Grid.Cols-it.W), e.layout.Bottom()
	e.layout = append(e.layout, it)

	if it.Static {
		it.X, it.Y = x, y
		grid.CorrectBounds(e.layout, e.opts.Grid.Cols)
	} else {
		e.layout = grid.MoveElement(e.layout, it, x, y, e.opts.moveOptions())
	}
	e.logger.Debug("added item", "id", it.ID, "x", it.X, "y", it.Y)

	e.compact(ctx)
	return e.layout.Find(it.ID).Clone(), nil
}

// Remove deletes id and compacts the remaining items.
func (e *Engine) Remove(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.layout.Index(id)
	if i < 0 {
		return errors.New(errors.ErrCodeNotFound, "no item %q", id)
	}
	e.layout = slices.Delete(e.layout, i, i+1)
	if e.gesture != nil && e.gesture.id == id {
		e.gesture = nil
	}
	e.compact(ctx)
	return nil
}

// Position returns the pixel rectangle of id. During a gesture on id the
// pointer-driven position wins over the grid position.
func (e *Engine) Position(id string) (grid.Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	it, err := e.find(id)
	if err != nil {
		return grid.Position{}, err
	}
	return e.position(it), nil
}

// Style returns the style properties placing id, from the configured
// position strategy.
func (e *Engine) Style(id string) (map[string]string, error) {
	pos, err := e.Position(id)
	if err != nil {
		return nil, err
	}
	return e.opts.PositionStrategy.Style(pos), nil
}

// Placeholder returns the grid cell the item under a gesture would settle
// in, or nil when no gesture is in flight.
func (e *Engine) Placeholder() *grid.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gesture == nil {
		return nil
	}
	return e.gesture.placeholder.Clone()
}

// ContainerHeight returns the pixel height the layout needs.
func (e *Engine) ContainerHeight() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return grid.ContainerHeight(e.opts.Grid, e.layout)
}

func (e *Engine) position(it *grid.Item) grid.Position {
	var drag *grid.PartialPosition
	var resize *grid.Position
	if g := e.gesture; g != nil && g.id == it.ID {
		drag, resize = g.drag, g.resize
	}
	return grid.ItemToPixelPosition(e.opts.params(), it.X, it.Y, it.W, it.H, drag, resize)
}

func (e *Engine) find(id string) (*grid.Item, error) {
	it := e.layout.Find(id)
	if it == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no item %q", id)
	}
	return it, nil
}

func (e *Engine) expect(kind gestureKind, id string) error {
	if e.gesture == nil || e.gesture.kind != kind || e.gesture.id != id {
		return errors.New(errors.ErrCodeInvalidInput, "no gesture in progress for item %q", id)
	}
	return nil
}

func (e *Engine) constraintContext() grid.ConstraintContext {
	return grid.NewConstraintContext(e.opts.params(), e.opts.ContainerHeight, e.layout)
}

func (e *Engine) compact(ctx context.Context) {
	start := time.Now()
	e.layout = e.opts.Compactor.Compact(e.layout, e.opts.Grid.Cols)
	for _, it := range e.layout {
		it.Moved = false
	}
	observability.Layout().OnCompact(ctx, e.opts.Compactor.Name(), len(e.layout), time.Since(start))
}
