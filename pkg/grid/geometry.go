package grid

import (
	"cmp"
	"math"
)

// Default grid measurements.
const (
	DefaultCols      = 12
	DefaultRowHeight = 150.0
	DefaultMargin    = 10.0
)

// GridConfig holds the grid-wide measurements.
type GridConfig struct {
	Cols      int        `json:"cols" toml:"cols"`
	RowHeight float64    `json:"rowHeight" toml:"row_height"`
	Margin    [2]float64 `json:"margin" toml:"margin"`
	// ContainerPadding defaults to Margin when nil.
	ContainerPadding *[2]float64 `json:"containerPadding,omitempty" toml:"container_padding,omitempty"`
	// MaxRows of zero or less means unbounded.
	MaxRows int `json:"maxRows,omitempty" toml:"max_rows,omitempty"`
}

// DefaultGridConfig returns a 12 column grid with 150px rows and 10px margins.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Cols:      DefaultCols,
		RowHeight: DefaultRowHeight,
		Margin:    [2]float64{DefaultMargin, DefaultMargin},
	}
}

// Padding returns the effective container padding.
func (g GridConfig) Padding() [2]float64 {
	if g.ContainerPadding != nil {
		return *g.ContainerPadding
	}
	return g.Margin
}

// Rows returns the effective maximum row count.
func (g GridConfig) Rows() int {
	if g.MaxRows <= 0 {
		return InfiniteRows
	}
	return g.MaxRows
}

// PositionParams is a grid configuration bound to a container width.
type PositionParams struct {
	GridConfig
	ContainerWidth float64
}

// Position is a pixel rectangle.
type Position struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PartialPosition is a pixel offset without size.
type PartialPosition struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// Size is a pixel size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ColWidth returns the pixel width of one column. A zero column count
// yields zero rather than a division by zero; callers should not pass it.
func ColWidth(p PositionParams) float64 {
	if p.Cols <= 0 {
		return 0
	}
	pad := p.Padding()
	return (p.ContainerWidth - 2*pad[0] - p.Margin[0]*float64(p.Cols-1)) / float64(p.Cols)
}

// UnitsToPixels converts a span of grid units to pixels: units cells plus
// the margins between them.
func UnitsToPixels(units int, cellSize, margin float64) float64 {
	return math.Round(float64(units)*cellSize + float64(max(0, units-1))*margin)
}

// ItemToPixelPosition computes the pixel rectangle of a grid rectangle.
// A non-nil drag overrides top/left and a non-nil resize overrides every
// field, exactly as given, so a gesture can show sub-cell feedback.
func ItemToPixelPosition(p PositionParams, x, y, w, h int, drag *PartialPosition, resize *Position) Position {
	pad := p.Padding()
	colWidth := ColWidth(p)

	out := Position{
		Width:  UnitsToPixels(w, colWidth, p.Margin[0]),
		Height: UnitsToPixels(h, p.RowHeight, p.Margin[1]),
		Top:    math.Round((p.RowHeight+p.Margin[1])*float64(y) + pad[1]),
		Left:   math.Round((colWidth+p.Margin[0])*float64(x) + pad[0]),
	}

	if drag != nil {
		out.Top = drag.Top
		out.Left = drag.Left
	}
	if resize != nil {
		out = *resize
	}
	return out
}

// ContainerHeight returns the pixel height of a container holding l: its
// occupied rows, the margins between them and the vertical padding.
func ContainerHeight(g GridConfig, l Layout) float64 {
	rows := l.Bottom()
	if rows == 0 {
		return 0
	}
	pad := g.Padding()
	return float64(rows)*g.RowHeight + float64(rows-1)*g.Margin[1] + 2*pad[1]
}

// PixelToGridUnits converts a pixel offset to grid coordinates, rounding to
// the nearest cell and clamping into [0, cols-w] x [0, maxRows-h].
func PixelToGridUnits(p PositionParams, top, left float64, w, h int) (x, y int) {
	x, y = PixelToGridUnitsRaw(p, top, left)
	x = Clamp(x, 0, max(0, p.Cols-w))
	y = Clamp(y, 0, max(0, p.Rows()-h))
	return x, y
}

// PixelToGridUnitsRaw is PixelToGridUnits without clamping, for use when a
// constraint pipeline does the bounding.
func PixelToGridUnitsRaw(p PositionParams, top, left float64) (x, y int) {
	pad := p.Padding()
	colWidth := ColWidth(p)
	x = roundDiv(left-pad[0], colWidth+p.Margin[0])
	y = roundDiv(top-pad[1], p.RowHeight+p.Margin[1])
	return x, y
}

// PixelSizeToGridUnits converts a pixel size to grid units. Both axes are at
// least 1. The width is bounded by the columns right of x and the height by
// the rows below y, except for west and north handles, which move the
// opposite edge and may grow up to the full grid.
func PixelSizeToGridUnits(p PositionParams, width, height float64, x, y int, handle ResizeHandle) (w, h int) {
	w, h = PixelSizeToGridUnitsRaw(p, width, height)

	maxW := p.Cols - x
	if handle.West() {
		maxW = p.Cols
	}
	maxH := p.Rows() - y
	if handle.North() {
		maxH = p.Rows()
	}
	return Clamp(w, 1, max(1, maxW)), Clamp(h, 1, max(1, maxH))
}

// PixelSizeToGridUnitsRaw converts a pixel size to grid units with a floor of
// 1 on each axis and no upper bound.
func PixelSizeToGridUnitsRaw(p PositionParams, width, height float64) (w, h int) {
	colWidth := ColWidth(p)
	w = roundDiv(width+p.Margin[0], colWidth+p.Margin[0])
	h = roundDiv(height+p.Margin[1], p.RowHeight+p.Margin[1])
	return max(1, w), max(1, h)
}

// Clamp limits n to [lo, hi]. lo <= hi is assumed.
func Clamp[T cmp.Ordered](n, lo, hi T) T {
	return max(lo, min(n, hi))
}

func roundDiv(num, den float64) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(num / den))
}
