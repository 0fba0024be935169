package grid

import (
	"math"
	"testing"
)

func testContext() ConstraintContext {
	p := testParams()
	p.MaxRows = 10
	return NewConstraintContext(p, 0, nil)
}

func TestGridBounds(t *testing.T) {
	ctx := testContext()
	item := &Item{ID: "a", X: 1, Y: 0, W: 2, H: 1}

	tests := []struct {
		name         string
		x, y         int
		wantX, wantY int
	}{
		{"Inside", 1, 3, 1, 3},
		{"PastRight", 5, 0, 2, 0},
		{"Negative", -1, -1, 0, 0},
		{"PastBottom", 0, 99, 0, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := GridBounds.ConstrainPosition(item, tt.x, tt.y, ctx)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("got (%d,%d), want (%d,%d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}

	if w, _ := GridBounds.ConstrainSize(item, 9, 1, HandleE, ctx); w != 3 {
		t.Errorf("east growth w = %d, want 3", w)
	}
	if w, _ := GridBounds.ConstrainSize(item, 9, 1, HandleW, ctx); w != 3 {
		t.Errorf("west growth w = %d, want 3", w)
	}
	if _, h := GridBounds.ConstrainSize(item, 1, 0, HandleS, ctx); h != 1 {
		t.Errorf("h = %d, want floor of 1", h)
	}
}

func TestMinMaxSize(t *testing.T) {
	item := &Item{ID: "a", W: 2, H: 2, MinW: 2, MaxW: 3, MaxH: 4}
	ctx := testContext()

	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{1, 1, 2, 1},
		{5, 9, 3, 4},
		{3, 3, 3, 3},
	}
	for _, tt := range tests {
		w, h := MinMaxSize.ConstrainSize(item, tt.w, tt.h, HandleSE, ctx)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("MinMaxSize(%d,%d) = (%d,%d), want (%d,%d)", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
	if MinMaxSize.ConstrainPosition != nil {
		t.Error("MinMaxSize constrains position")
	}
}

func TestContainerBounds(t *testing.T) {
	ctx := testContext()
	item := &Item{ID: "a", W: 1, H: 1}

	// 190px holds three 50px rows with 10px gaps inside 10px padding.
	ctx.ContainerHeight = 190
	if _, y := ContainerBounds.ConstrainPosition(item, 0, 9, ctx); y != 2 {
		t.Errorf("y = %d, want 2", y)
	}

	ctx.ContainerHeight = 0
	if _, y := ContainerBounds.ConstrainPosition(item, 0, 99, ctx); y != 9 {
		t.Errorf("auto height: y = %d, want 9", y)
	}
}

func TestBoundedAxes(t *testing.T) {
	ctx := testContext()
	item := &Item{ID: "a", W: 2, H: 1}

	if x, y := BoundedX.ConstrainPosition(item, 9, 99, ctx); x != 2 || y != 99 {
		t.Errorf("BoundedX = (%d,%d), want (2,99)", x, y)
	}
	if x, y := BoundedY.ConstrainPosition(item, 9, 99, ctx); x != 9 || y != 9 {
		t.Errorf("BoundedY = (%d,%d), want (9,9)", x, y)
	}
}

func TestAspectRatio(t *testing.T) {
	ctx := testContext()
	colWidth := ColWidth(ctx.params())
	if colWidth == ctx.RowHeight {
		t.Fatal("fixture needs columns and rows of different pixel size")
	}

	ratio := 16.0 / 9.0
	c := AspectRatio(ratio)
	for w := 1; w <= 4; w++ {
		gotW, h := c.ConstrainSize(&Item{ID: "a"}, w, 1, HandleSE, ctx)
		if gotW != w {
			t.Errorf("w changed from %d to %d", w, gotW)
		}
		wantPx := float64(w) * colWidth / ratio
		if math.Abs(float64(h)*ctx.RowHeight-wantPx) > ctx.RowHeight {
			t.Errorf("w=%d: h=%d gives %vpx, want about %vpx", w, h, float64(h)*ctx.RowHeight, wantPx)
		}
	}

	w, h := c.ConstrainSize(&Item{ID: "a"}, 1, 4, HandleS, ctx)
	if h != 4 || w != 4 {
		t.Errorf("vertical handle = %dx%d, want 4x4", w, h)
	}
}

func TestSnapToGrid(t *testing.T) {
	ctx := testContext()
	item := &Item{ID: "a", W: 1, H: 1}

	if x, y := SnapToGrid(2).ConstrainPosition(item, 3, 1, ctx); x != 4 || y != 2 {
		t.Errorf("SnapToGrid(2) = (%d,%d), want (4,2)", x, y)
	}
	if x, y := SnapToGrid(2, 3).ConstrainPosition(item, 1, 4, ctx); x != 2 || y != 3 {
		t.Errorf("SnapToGrid(2,3) = (%d,%d), want (2,3)", x, y)
	}
}

func TestApplyConstraintsOrder(t *testing.T) {
	ctx := testContext()
	item := &Item{ID: "a", W: 2, H: 1}

	snapFirst := []Constraint{SnapToGrid(3), GridBounds}
	if x, _ := ApplyPositionConstraints(snapFirst, item, 2, 0, ctx); x != 2 {
		t.Errorf("snap then bound: x = %d, want 2", x)
	}
	boundFirst := []Constraint{GridBounds, SnapToGrid(3)}
	if x, _ := ApplyPositionConstraints(boundFirst, item, 2, 0, ctx); x != 3 {
		t.Errorf("bound then snap: x = %d, want 3", x)
	}

	sizes := []Constraint{MinSize(2, 2), MaxSize(3, 3)}
	if w, h := ApplySizeConstraints(sizes, item, 1, 9, HandleSE, ctx); w != 2 || h != 3 {
		t.Errorf("sizes = %dx%d, want 2x3", w, h)
	}
}

func TestItemConstraints(t *testing.T) {
	item := &Item{ID: "a", Constraints: []Constraint{SnapToGrid(2)}}

	got := ItemConstraints(nil, item)
	want := []string{"gridBounds", "minMaxSize", "snapToGrid"}
	if len(got) != len(want) {
		t.Fatalf("got %d constraints, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i] {
			t.Errorf("constraint %d = %s, want %s", i, got[i].Name, want[i])
		}
	}

	if got := ItemConstraints([]Constraint{}, item); len(got) != 1 {
		t.Errorf("explicit empty grid set: got %d constraints, want 1", len(got))
	}
}
