package grid_test

import (
	"fmt"

	"github.com/dear23/gridlayout/pkg/grid"
)

func ExampleCompactor_vertical() {
	// Two widgets with a gap between them
	l := grid.Layout{
		{ID: "chat", X: 0, Y: 0, W: 2, H: 2},
		{ID: "feed", X: 0, Y: 5, W: 2, H: 2},
	}

	for _, it := range grid.VerticalCompactor.Compact(l, 12) {
		fmt.Printf("%s: y=%d\n", it.ID, it.Y)
	}
	// Output:
	// chat: y=0
	// feed: y=2
}

func ExampleMoveElement() {
	l := grid.Layout{
		{ID: "a", X: 0, Y: 0, W: 2, H: 1},
		{ID: "b", X: 0, Y: 1, W: 2, H: 1},
	}

	// Drag a onto b; b is pushed below a
	opts := grid.MoveOptions{IsUserAction: true, CompactType: grid.CompactVertical, Cols: 12}
	l = grid.MoveElement(l, l.Find("a"), 0, 1, opts)

	for _, it := range l {
		fmt.Printf("%s: y=%d\n", it.ID, it.Y)
	}
	// Output:
	// a: y=1
	// b: y=2
}

func ExampleNewWrapCompactor() {
	wc := grid.NewWrapCompactor()
	l := wc.Compact(grid.Layout{
		{ID: "a", W: 1, H: 1},
		{ID: "b", X: 1, W: 1, H: 1},
		{ID: "c", Y: 1, W: 1, H: 1},
	}, 2)

	// Drop c on b's cell
	c := l.Find("c")
	c.X, c.Y, c.Moved = 1, 0, true
	l = wc.Compact(l, 2)

	fmt.Println("Sequence:", wc.Sequence())
	fmt.Printf("b: (%d,%d)\n", l.Find("b").X, l.Find("b").Y)
	// Output:
	// Sequence: [a c b]
	// b: (0,1)
}

func ExampleItemToPixelPosition() {
	p := grid.PositionParams{
		GridConfig:     grid.DefaultGridConfig(),
		ContainerWidth: 1210,
	}

	pos := grid.ItemToPixelPosition(p, 2, 1, 4, 2, nil, nil)
	fmt.Printf("left=%g top=%g width=%g height=%g\n", pos.Left, pos.Top, pos.Width, pos.Height)

	x, y := grid.PixelToGridUnits(p, pos.Top, pos.Left, 4, 2)
	fmt.Printf("back to grid: (%d,%d)\n", x, y)
	// Output:
	// left=210 top=170 width=390 height=310
	// back to grid: (2,1)
}
