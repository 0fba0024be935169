package pipeline

import (
	"github.com/dear23/gridlayout/pkg/grid"
)

// Compact validates opts.Layout, pulls it inside opts.Cols and compacts it
// with the named compactor. The input layout is not modified.
func Compact(opts Options) (grid.Layout, error) {
	if err := opts.ValidateForCompact(); err != nil {
		return nil, err
	}
	l := grid.CorrectBounds(opts.Layout.Clone(), opts.Cols)
	if l == nil {
		l = grid.Layout{}
	}
	c := opts.NewCompactor()
	out := c.Compact(l, opts.Cols)
	opts.Logger.Debug("compacted layout", "compactor", describe(c), "items", len(out), "rows", out.Bottom())
	return out, nil
}
