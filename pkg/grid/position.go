package grid

import (
	"fmt"
	"strconv"
)

// PositionStrategy turns pixel positions into style properties and maps
// pointer coordinates back into the grid's pixel space.
type PositionStrategy interface {
	Name() string
	// Scale is the factor the grid container is scaled by, 1 when unscaled.
	Scale() float64
	// Style returns CSS-style properties placing an item at p.
	Style(p Position) map[string]string
	// DragPosition converts a pointer position and the pointer's offset
	// inside the dragged element to the element's top-left corner.
	DragPosition(clientX, clientY, offsetX, offsetY float64) PartialPosition
}

type positionStrategy struct {
	name  string
	scale float64
	style func(Position) map[string]string
}

func (s positionStrategy) Name() string                       { return s.name }
func (s positionStrategy) Scale() float64                     { return s.scale }
func (s positionStrategy) Style(p Position) map[string]string { return s.style(p) }

func (s positionStrategy) DragPosition(clientX, clientY, offsetX, offsetY float64) PartialPosition {
	return PartialPosition{
		Left: (clientX - offsetX) / s.scale,
		Top:  (clientY - offsetY) / s.scale,
	}
}

var (
	// TransformStrategy places items with a CSS translate.
	TransformStrategy PositionStrategy = positionStrategy{name: "transform", scale: 1, style: transformStyle}
	// AbsoluteStrategy places items with top and left offsets.
	AbsoluteStrategy PositionStrategy = positionStrategy{name: "absolute", scale: 1, style: absoluteStyle}
)

// ScaledStrategy is TransformStrategy for a container under a CSS scale.
// Pointer coordinates are divided by scale. A non-positive scale is 1.
func ScaledStrategy(scale float64) PositionStrategy {
	if scale <= 0 {
		scale = 1
	}
	return positionStrategy{name: "scaled", scale: scale, style: transformStyle}
}

// PositionStrategyFor returns the strategy with the given name.
func PositionStrategyFor(name string, scale float64) (PositionStrategy, bool) {
	switch name {
	case "", "transform":
		return TransformStrategy, true
	case "absolute":
		return AbsoluteStrategy, true
	case "scaled":
		return ScaledStrategy(scale), true
	}
	return nil, false
}

func transformStyle(p Position) map[string]string {
	return map[string]string{
		"position":  "absolute",
		"transform": fmt.Sprintf("translate(%s,%s)", px(p.Left), px(p.Top)),
		"width":     px(p.Width),
		"height":    px(p.Height),
	}
}

func absoluteStyle(p Position) map[string]string {
	return map[string]string{
		"position": "absolute",
		"top":      px(p.Top),
		"left":     px(p.Left),
		"width":    px(p.Width),
		"height":   px(p.Height),
	}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
