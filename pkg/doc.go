// Package pkg holds the gridlayout libraries.
//
// # Overview
//
// A layout is a list of rectangles on a column grid. The libraries keep
// layouts free of overlaps, pull items together, and apply the moves and
// resizes of a drag-and-drop dashboard:
//
//  1. [grid] - the engine: geometry, collision, compaction, mutation
//  2. [responsive] - breakpoints and per-breakpoint layouts
//  3. [engine] - a stateful controller for pixel gestures
//  4. [io], [store], [cache] - encoding and persistence
//  5. [pipeline], [render] - cached compaction and rendering
//
// # Data Flow
//
//	layout file / API request
//	         ↓
//	    [io] package (decode, keep unknown fields)
//	         ↓
//	    [grid] package (validate, correct bounds, compact)
//	         ↓
//	    [engine] package (move, resize, drop, breakpoint changes)
//	         ↓
//	    [render] / [store] (SVG, PNG, text / saved layouts)
//
// # Quick Start
//
//	l := grid.Layout{
//	    {ID: "a", X: 0, Y: 0, W: 2, H: 1},
//	    {ID: "b", X: 0, Y: 3, W: 2, H: 1},
//	}
//	l = grid.VerticalCompactor.Compact(l, 12) // b moves up to y=1
//
// [grid]: https://pkg.go.dev/github.com/dear23/gridlayout/pkg/grid
// [responsive]: https://pkg.go.dev/github.com/dear23/gridlayout/pkg/responsive
// [engine]: https://pkg.go.dev/github.com/dear23/gridlayout/pkg/engine
// [io]: https://pkg.go.dev/github.com/dear23/gridlayout/pkg/io
// [store]: https://pkg.go.dev/github.com/dear23/gridlayout/pkg/store
// [cache]: https://pkg.go.dev/github.com/dear23/gridlayout/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/dear23/gridlayout/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/dear23/gridlayout/pkg/render
package pkg
