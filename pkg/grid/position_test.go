package grid

import "testing"

func TestPositionStrategies(t *testing.T) {
	pos := Position{Left: 115, Top: 130, Width: 200, Height: 50.5}

	style := TransformStrategy.Style(pos)
	if got := style["transform"]; got != "translate(115px,130px)" {
		t.Errorf("transform = %q", got)
	}
	if got := style["height"]; got != "50.5px" {
		t.Errorf("height = %q", got)
	}

	style = AbsoluteStrategy.Style(pos)
	if style["top"] != "130px" || style["left"] != "115px" {
		t.Errorf("absolute = %v", style)
	}
	if _, ok := style["transform"]; ok {
		t.Error("absolute strategy set a transform")
	}

	if got := TransformStrategy.DragPosition(200, 100, 20, 10); got != (PartialPosition{Left: 180, Top: 90}) {
		t.Errorf("DragPosition = %+v", got)
	}

	scaled := ScaledStrategy(2)
	if got := scaled.DragPosition(200, 100, 20, 10); got != (PartialPosition{Left: 90, Top: 45}) {
		t.Errorf("scaled DragPosition = %+v", got)
	}
	if ScaledStrategy(0).Scale() != 1 {
		t.Error("zero scale not defaulted to 1")
	}
}

func TestPositionStrategyFor(t *testing.T) {
	for _, name := range []string{"", "transform", "absolute", "scaled"} {
		if _, ok := PositionStrategyFor(name, 1); !ok {
			t.Errorf("PositionStrategyFor(%q) not found", name)
		}
	}
	if _, ok := PositionStrategyFor("sticky", 1); ok {
		t.Error("PositionStrategyFor(sticky) found")
	}
}
