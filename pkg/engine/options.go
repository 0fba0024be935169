package engine

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/grid"
)

// DefaultContainerWidth is the container width used when none is set.
const DefaultContainerWidth = 1200.0

// Options configures an Engine.
type Options struct {
	// Grid holds the grid measurements. A zero column count selects
	// grid.DefaultGridConfig.
	Grid grid.GridConfig

	// ContainerWidth and ContainerHeight are the container size in pixels.
	// A zero height means the container grows with its content.
	ContainerWidth  float64
	ContainerHeight float64

	// Compactor defaults to grid.VerticalCompactor.
	Compactor grid.Compactor

	// Constraints run before the item's own constraints. Nil selects
	// grid.DefaultConstraints.
	Constraints []grid.Constraint

	// PositionStrategy defaults to grid.TransformStrategy.
	PositionStrategy grid.PositionStrategy

	// Grid-wide item defaults, overridable per item.
	DisableDrag   bool
	DisableResize bool
	Bounded       bool
	ResizeHandles []grid.ResizeHandle

	// DropSize is the size in grid units of items dropped without one.
	DropSize [2]int

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset options.
func (o *Options) SetDefaults() {
	if o.Grid.Cols == 0 {
		def := grid.DefaultGridConfig()
		def.ContainerPadding = o.Grid.ContainerPadding
		def.MaxRows = o.Grid.MaxRows
		o.Grid = def
	}
	if o.ContainerWidth == 0 {
		o.ContainerWidth = DefaultContainerWidth
	}
	if o.Compactor == nil {
		o.Compactor = grid.VerticalCompactor
	}
	if o.PositionStrategy == nil {
		o.PositionStrategy = grid.TransformStrategy
	}
	if len(o.ResizeHandles) == 0 {
		o.ResizeHandles = []grid.ResizeHandle{grid.HandleSE}
	}
	if o.DropSize[0] <= 0 {
		o.DropSize[0] = 1
	}
	if o.DropSize[1] <= 0 {
		o.DropSize[1] = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the measurements. Call SetDefaults first.
func (o *Options) Validate() error {
	switch {
	case o.Grid.Cols < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "cols must be positive, got %d", o.Grid.Cols)
	case o.Grid.RowHeight <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "row height must be positive, got %v", o.Grid.RowHeight)
	case o.Grid.Margin[0] < 0 || o.Grid.Margin[1] < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "margin must not be negative, got %v", o.Grid.Margin)
	case o.ContainerWidth <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "container width must be positive, got %v", o.ContainerWidth)
	case o.ContainerHeight < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "container height must not be negative, got %v", o.ContainerHeight)
	}
	if p := o.Grid.Padding(); p[0] < 0 || p[1] < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "container padding must not be negative, got %v", p)
	}
	if grid.ColWidth(o.params()) <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "container width %v leaves no room for %d columns", o.ContainerWidth, o.Grid.Cols)
	}
	for _, h := range o.ResizeHandles {
		if !h.Valid() {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown resize handle %q", h)
		}
	}
	return nil
}

func (o *Options) params() grid.PositionParams {
	return grid.PositionParams{GridConfig: o.Grid, ContainerWidth: o.ContainerWidth}
}

func (o *Options) moveOptions() grid.MoveOptions {
	c := o.Compactor
	return grid.MoveOptions{
		IsUserAction:     true,
		PreventCollision: c.PreventCollision(),
		// Under wrap only the dragged item moves; the compactor reflows
		// the rest.
		AllowOverlap: c.AllowOverlap() || c.Type() == grid.CompactWrap,
		CompactType:  c.Type(),
		Cols:         o.Grid.Cols,
	}
}
