package grid

import (
	"math"
	"testing"
)

// testParams is a grid whose cells are whole pixels: 4 columns of 95px and
// 50px rows with 10px gaps and padding.
func testParams() PositionParams {
	return PositionParams{
		GridConfig: GridConfig{
			Cols:      4,
			RowHeight: 50,
			Margin:    [2]float64{10, 10},
		},
		ContainerWidth: 430,
	}
}

func TestColWidth(t *testing.T) {
	p := testParams()
	if got := ColWidth(p); got != 95 {
		t.Errorf("ColWidth = %v, want 95", got)
	}

	pad := [2]float64{0, 0}
	p.ContainerPadding = &pad
	if got := ColWidth(p); got != 100 {
		t.Errorf("ColWidth without padding = %v, want 100", got)
	}

	p.Cols = 0
	if got := ColWidth(p); got != 0 {
		t.Errorf("ColWidth(cols=0) = %v, want 0", got)
	}
}

func TestUnitsToPixels(t *testing.T) {
	tests := []struct {
		units int
		want  float64
	}{
		{0, 0},
		{1, 95},
		{2, 200},
		{4, 410},
	}
	for _, tt := range tests {
		if got := UnitsToPixels(tt.units, 95, 10); got != tt.want {
			t.Errorf("UnitsToPixels(%d) = %v, want %v", tt.units, got, tt.want)
		}
	}
}

func TestItemToPixelPosition(t *testing.T) {
	p := testParams()

	got := ItemToPixelPosition(p, 1, 2, 2, 1, nil, nil)
	want := Position{Left: 115, Top: 130, Width: 200, Height: 50}
	if got != want {
		t.Errorf("position = %+v, want %+v", got, want)
	}

	drag := &PartialPosition{Left: 33.5, Top: 44.25}
	got = ItemToPixelPosition(p, 1, 2, 2, 1, drag, nil)
	if got.Left != 33.5 || got.Top != 44.25 || got.Width != 200 || got.Height != 50 {
		t.Errorf("drag override = %+v", got)
	}

	resize := &Position{Left: 1, Top: 2, Width: 3.5, Height: 4.5}
	got = ItemToPixelPosition(p, 1, 2, 2, 1, drag, resize)
	if got != *resize {
		t.Errorf("resize override = %+v, want %+v", got, *resize)
	}
}

func TestPixelToGridUnitsRoundTrip(t *testing.T) {
	p := testParams()
	for w := 1; w <= p.Cols; w++ {
		for x := 0; x+w <= p.Cols; x++ {
			for y := 0; y < 6; y++ {
				pos := ItemToPixelPosition(p, x, y, w, 2, nil, nil)
				gx, gy := PixelToGridUnits(p, pos.Top, pos.Left, w, 2)
				if gx != x || gy != y {
					t.Errorf("round trip (%d,%d,w=%d) = (%d,%d)", x, y, w, gx, gy)
				}
				gw, gh := PixelSizeToGridUnits(p, pos.Width, pos.Height, x, y, HandleSE)
				if gw != w || gh != 2 {
					t.Errorf("size round trip w=%d = (%d,%d)", w, gw, gh)
				}
			}
		}
	}
}

func TestPixelToGridUnitsClamps(t *testing.T) {
	p := testParams()
	p.MaxRows = 5

	tests := []struct {
		name        string
		top, left   float64
		wantX, wantY int
	}{
		{"Negative", -500, -500, 0, 0},
		{"PastRight", 0, 10000, 2, 0},
		{"PastBottom", 10000, 0, 0, 4},
		{"Nearest", 100, 60, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := PixelToGridUnits(p, tt.top, tt.left, 2, 1)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("got (%d,%d), want (%d,%d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}

	x, y := PixelToGridUnitsRaw(p, 10000, 10000)
	if x <= 2 || y <= 4 {
		t.Errorf("raw = (%d,%d), want unclamped", x, y)
	}
}

func TestPixelSizeToGridUnits(t *testing.T) {
	p := testParams()

	tests := []struct {
		name         string
		width        float64
		height       float64
		x, y         int
		handle       ResizeHandle
		wantW, wantH int
	}{
		{"Exact", 200, 50, 0, 0, HandleSE, 2, 1},
		{"Tiny", 0, 0, 0, 0, HandleSE, 1, 1},
		{"PastRight", 2000, 50, 1, 0, HandleE, 3, 1},
		{"WestUsesFullWidth", 2000, 50, 1, 0, HandleW, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := PixelSizeToGridUnits(p, tt.width, tt.height, tt.x, tt.y, tt.handle)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}

	w, h := PixelSizeToGridUnitsRaw(p, 2000, 0)
	if w != 19 || h != 1 {
		t.Errorf("raw = %dx%d, want 19x1", w, h)
	}
}

func TestContainerHeight(t *testing.T) {
	g := testParams().GridConfig
	if got := ContainerHeight(g, nil); got != 0 {
		t.Errorf("ContainerHeight(empty) = %v, want 0", got)
	}
	l := Layout{{ID: "a", X: 0, Y: 1, W: 1, H: 2}}
	// 3 rows of 50, 2 gaps of 10, padding 10 top and bottom.
	if got := ContainerHeight(g, l); got != 190 {
		t.Errorf("ContainerHeight = %v, want 190", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5,0,3) = %d", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Errorf("Clamp(-1,0,3) = %d", got)
	}
	if got := Clamp(1.5, 0.0, 3.0); got != 1.5 {
		t.Errorf("Clamp(1.5) = %v", got)
	}
	if got := Clamp(math.Inf(1), 0, 10); got != 10 {
		t.Errorf("Clamp(+Inf) = %v", got)
	}
}
