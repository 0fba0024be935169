// Package grid implements a responsive grid layout engine.
//
// # Overview
//
// A [Layout] is an ordered set of rectangular [Item] values placed on an
// integer grid. The package converts between grid units and pixels, detects
// collisions, compacts layouts with pluggable [Compactor] strategies, moves
// and resizes items with cascading collision resolution, and applies
// composable [Constraint] values to proposed positions and sizes.
//
// The computation is synchronous and free of I/O:
//
//	l := grid.Layout{
//	    {ID: "a", X: 0, Y: 0, W: 2, H: 1},
//	    {ID: "b", X: 0, Y: 3, W: 2, H: 1},
//	}
//	l = grid.VerticalCompactor.Compact(l, 12) // b rises to y=1
//
// # Ownership
//
// Functions that return a new layout never touch their input. The few that
// mutate in place ([MoveElement], [ResizeElement], [CorrectBounds],
// [MoveElementAwayFromCollision]) take temporary exclusive ownership of the
// layout and its items for the duration of the call and say so in their
// documentation. Callers that need the previous state must [Layout.Clone]
// first. A layout shared between goroutines must be guarded by the caller.
//
// # Compactors
//
//   - [VerticalCompactor], [HorizontalCompactor], [NoCompactor]
//   - [VerticalOverlapCompactor], [HorizontalOverlapCompactor], [NoOverlapCompactor]
//   - [FastVerticalCompactor], [FastHorizontalCompactor] (tide based, O(n log n))
//   - [NewWrapCompactor] (paragraph flow, stateful)
//
// [CompactorFor] maps the legacy (type, allowOverlap, preventCollision)
// knobs to one of these.
package grid
