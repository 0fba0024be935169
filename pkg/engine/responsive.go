package engine

import (
	"context"
	"sync"

	"github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/grid"
	"github.com/dear23/gridlayout/pkg/observability"
	"github.com/dear23/gridlayout/pkg/responsive"
	"github.com/dear23/gridlayout/pkg/store"
)

// ResponsiveOptions configures a Responsive engine.
type ResponsiveOptions struct {
	// Options is the per-breakpoint engine configuration. Grid.Cols and
	// the margins are replaced for each breakpoint.
	Options

	// Breakpoints and Cols default to responsive.DefaultBreakpoints and
	// responsive.DefaultCols.
	Breakpoints responsive.Breakpoints
	Cols        responsive.Cols

	// Layouts are the initial per-breakpoint layouts.
	Layouts responsive.Layouts

	// Margin and ContainerPadding may differ per breakpoint. Unset values
	// keep Options.Grid's.
	Margin           *responsive.Indentation
	ContainerPadding *responsive.Indentation

	// Store, when set, supplies the initial layouts of Space and receives
	// them on Save.
	Store *store.Store
	Space string
}

// Responsive keeps one layout per breakpoint and an Engine for the active
// one. It is safe for concurrent use.
type Responsive struct {
	mu      sync.Mutex
	opts    ResponsiveOptions
	layouts responsive.Layouts
	bp      string
	engine  *Engine
}

// NewResponsive picks the breakpoint for width and builds its engine. When
// a store is configured, stored layouts of the space override
// opts.Layouts and the store's defaults fill the breakpoints opts.Layouts
// leaves out.
func NewResponsive(ctx context.Context, width float64, opts ResponsiveOptions) (*Responsive, error) {
	if opts.Breakpoints == nil {
		opts.Breakpoints = responsive.DefaultBreakpoints
	}
	if opts.Cols == nil {
		opts.Cols = responsive.DefaultCols
	}
	if opts.Space == "" {
		opts.Space = store.DefaultSpace
	}
	if err := responsive.Validate(opts.Breakpoints, opts.Cols); err != nil {
		return nil, err
	}

	layouts := opts.Layouts.Clone()
	if layouts == nil {
		layouts = make(responsive.Layouts)
	}
	if opts.Store != nil {
		for _, bp := range opts.Store.Breakpoints() {
			l, stored, err := opts.Store.Get(ctx, opts.Space, bp)
			if errors.Is(err, errors.ErrCodeNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			// Store defaults only fill breakpoints the caller left empty.
			if _, ok := layouts[bp]; stored || !ok {
				layouts[bp] = l
			}
		}
	}

	r := &Responsive{opts: opts, layouts: layouts}
	bp := responsive.BreakpointFromWidth(opts.Breakpoints, width)
	if err := r.activate(ctx, bp, bp, width); err != nil {
		return nil, err
	}
	return r, nil
}

// Engine returns the engine of the active breakpoint. It is replaced when
// SetWidth crosses a breakpoint.
func (r *Responsive) Engine() *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine
}

// Breakpoint returns the active breakpoint.
func (r *Responsive) Breakpoint() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bp
}

// Layouts returns a copy of every breakpoint's layout, the active one
// included.
func (r *Responsive) Layouts() responsive.Layouts {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.layouts.Clone()
	out[r.bp] = r.engine.Layout()
	return out
}

// SetWidth resizes the container. Crossing into another breakpoint saves
// the active layout and loads (or derives) the new breakpoint's layout.
// changed reports whether the breakpoint changed.
func (r *Responsive) SetWidth(ctx context.Context, width float64) (changed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bp := responsive.BreakpointFromWidth(r.opts.Breakpoints, width)
	if bp == r.bp {
		return false, r.engine.SetContainerWidth(width)
	}
	r.layouts[r.bp] = r.engine.Layout()
	if err := r.activate(ctx, bp, r.bp, width); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes every breakpoint's layout to the store. It is a no-op
// without one.
func (r *Responsive) Save(ctx context.Context) error {
	if r.opts.Store == nil {
		return nil
	}
	for bp, l := range r.Layouts() {
		if err := r.opts.Store.Update(ctx, r.opts.Space, bp, l); err != nil {
			return err
		}
	}
	return nil
}

// activate builds the engine for bp, deriving its layout from last's when
// it has none. Callers hold r.mu.
func (r *Responsive) activate(ctx context.Context, bp, last string, width float64) error {
	cols, err := responsive.ColsFromBreakpoint(bp, r.opts.Cols)
	if err != nil {
		return err
	}

	opts := r.opts.Options
	opts.Grid.Cols = cols
	opts.ContainerWidth = width
	if r.opts.Margin != nil {
		opts.Grid.Margin = responsive.IndentationValue(*r.opts.Margin, bp)
	}
	if r.opts.ContainerPadding != nil {
		pad := responsive.IndentationValue(*r.opts.ContainerPadding, bp)
		opts.Grid.ContainerPadding = &pad
	}
	if opts.Grid.RowHeight == 0 {
		opts.Grid.RowHeight = grid.DefaultRowHeight
		if opts.Grid.Margin == [2]float64{} && r.opts.Margin == nil {
			opts.Grid.Margin = [2]float64{grid.DefaultMargin, grid.DefaultMargin}
		}
	}
	if opts.Compactor == nil {
		opts.Compactor = grid.VerticalCompactor
	}
	if w, ok := opts.Compactor.(*grid.WrapCompactor); ok && bp != r.bp {
		w.Reset()
	}

	l := responsive.FindOrGenerateResponsiveLayout(r.layouts, r.opts.Breakpoints, bp, last, cols, opts.Compactor)
	e, err := New(ctx, l, opts)
	if err != nil {
		return err
	}

	from := r.bp
	r.layouts[bp] = e.Layout()
	r.bp, r.engine = bp, e
	if from != "" && from != bp {
		observability.Layout().OnBreakpointChange(ctx, from, bp, cols)
		e.logger.Debug("breakpoint change", "from", from, "to", bp, "cols", cols)
	}
	return nil
}
