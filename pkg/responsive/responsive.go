// Package responsive picks a breakpoint for a container width and derives
// layouts for breakpoints that have none yet.
//
// A breakpoint is a named minimum container width. Each breakpoint has its
// own column count and its own layout. When the container shrinks into a
// breakpoint without a layout, the layout of the nearest wider breakpoint is
// squeezed into the new column count rather than discarded.
package responsive

import (
	"cmp"
	"maps"
	"slices"

	"github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/grid"
)

// Breakpoints maps a breakpoint name to its width threshold in pixels.
type Breakpoints map[string]int

// Cols maps a breakpoint name to its column count.
type Cols map[string]int

// Layouts maps a breakpoint name to its layout.
type Layouts map[string]grid.Layout

// Defaults used when a grid configures no breakpoints.
var (
	DefaultBreakpoints = Breakpoints{"lg": 1200, "md": 996, "sm": 768, "xs": 480, "xxs": 0}
	DefaultCols        = Cols{"lg": 12, "md": 10, "sm": 6, "xs": 4, "xxs": 2}
)

// Sorted returns the breakpoint names from narrowest to widest. Equal
// thresholds are ordered by name.
func (b Breakpoints) Sorted() []string {
	names := slices.Collect(maps.Keys(b))
	slices.SortFunc(names, func(x, y string) int {
		if c := cmp.Compare(b[x], b[y]); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})
	return names
}

// BreakpointFromWidth returns the widest breakpoint whose threshold is
// strictly below width. A width at or under every threshold selects the
// narrowest breakpoint. An empty map yields "".
func BreakpointFromWidth(b Breakpoints, width float64) string {
	sorted := b.Sorted()
	if len(sorted) == 0 {
		return ""
	}
	match := sorted[0]
	for _, name := range sorted[1:] {
		if width > float64(b[name]) {
			match = name
		}
	}
	return match
}

// ColsFromBreakpoint looks up the column count of bp.
func ColsFromBreakpoint(bp string, cols Cols) (int, error) {
	n, ok := cols[bp]
	if !ok {
		return 0, errors.New(errors.ErrCodeMissingBreakpoint, "breakpoint %q has no column count", bp)
	}
	return n, nil
}

// Validate checks that every breakpoint has a positive column count.
func Validate(b Breakpoints, cols Cols) error {
	if len(b) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no breakpoints configured")
	}
	for _, name := range b.Sorted() {
		n, err := ColsFromBreakpoint(name, cols)
		if err != nil {
			return err
		}
		if n < 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "breakpoint %q has %d columns", name, n)
		}
	}
	return nil
}

// FindOrGenerateResponsiveLayout returns the layout for target. A stored
// layout is returned as a deep copy. Otherwise the layout of the nearest
// breakpoint at or above target that has one is used, falling back to
// last's, and it is bounded to cols and compacted with c. layouts is not
// modified.
func FindOrGenerateResponsiveLayout(layouts Layouts, b Breakpoints, target, last string, cols int, c grid.Compactor) grid.Layout {
	if l, ok := layouts[target]; ok {
		return l.Clone()
	}

	base := layouts[last]
	sorted := b.Sorted()
	if i := slices.Index(sorted, target); i >= 0 {
		for _, name := range sorted[i:] {
			if l, ok := layouts[name]; ok {
				base = l
				break
			}
		}
	}

	out := grid.CorrectBounds(base.Clone(), cols)
	if out == nil {
		out = grid.Layout{}
	}
	return c.Compact(out, cols)
}

// Clone deep-copies every layout.
func (l Layouts) Clone() Layouts {
	if l == nil {
		return nil
	}
	out := make(Layouts, len(l))
	for name, layout := range l {
		out[name] = layout.Clone()
	}
	return out
}

// Indentation is a margin or padding given either once for all breakpoints
// or per breakpoint. Fixed wins when set.
type Indentation struct {
	Fixed         *[2]float64
	PerBreakpoint map[string][2]float64
}

// DefaultIndentation is used when nothing matches.
var DefaultIndentation = [2]float64{10, 10}

// FixedIndentation returns an Indentation with the same value everywhere.
func FixedIndentation(x, y float64) Indentation {
	return Indentation{Fixed: &[2]float64{x, y}}
}

// IndentationValue resolves ind for bp. A breakpoint missing from the map
// falls back to the alphabetically first entry, then to
// DefaultIndentation.
func IndentationValue(ind Indentation, bp string) [2]float64 {
	if ind.Fixed != nil {
		return *ind.Fixed
	}
	if v, ok := ind.PerBreakpoint[bp]; ok {
		return v
	}
	keys := slices.Sorted(maps.Keys(ind.PerBreakpoint))
	if len(keys) > 0 {
		return ind.PerBreakpoint[keys[0]]
	}
	return DefaultIndentation
}
