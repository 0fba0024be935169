package grid

import (
	"fmt"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
)

type fuzzItem struct {
	X, Y, W, H uint8
	Static     bool
}

type fuzzLayout struct {
	Cols  uint8
	Items []fuzzItem
}

// build turns fuzzer output into a well-formed layout of at most 24 items.
func (f fuzzLayout) build() (Layout, int) {
	cols := 1 + int(f.Cols%12)
	var l Layout
	for i, fi := range f.Items {
		if i == 24 {
			break
		}
		w := 1 + int(fi.W)%cols
		it := &Item{
			ID:     fmt.Sprintf("i%d", i),
			X:      int(fi.X) % (cols - w + 1),
			Y:      int(fi.Y % 16),
			W:      w,
			H:      1 + int(fi.H%4),
			Static: fi.Static,
		}
		if it.Static && FirstCollision(l.Statics(), it) != nil {
			it.Static = false
		}
		l = append(l, it)
	}
	return l, cols
}

func FuzzCompactors(f *testing.F) {
	f.Add([]byte{4, 3, 0, 1, 2, 1, 0, 2, 0, 2, 1, 1, 1, 0, 1, 1, 2, 1})
	f.Add([]byte{11, 8, 5, 5, 5, 5, 1, 0, 0, 0, 0, 1, 7, 7, 3, 3, 0})

	f.Fuzz(func(t *testing.T, data []byte) {
		var fl fuzzLayout
		if err := fuzz.NewConsumer(data).GenerateStruct(&fl); err != nil {
			return
		}
		l, cols := fl.build()

		for _, c := range []Compactor{VerticalCompactor, HorizontalCompactor, FastVerticalCompactor, FastHorizontalCompactor} {
			once := c.Compact(l, cols)
			if len(once) != len(l) {
				t.Fatalf("%s: %d items in, %d out", c.Name(), len(l), len(once))
			}
			assertNoOverlap(t, c.Name(), once)
			if !c.Compact(once, cols).Equal(once) {
				t.Fatalf("%s: second pass changed the layout", c.Name())
			}
			for i, it := range once {
				if it.ID != l[i].ID {
					t.Fatalf("%s: order changed at %d", c.Name(), i)
				}
				if it.X < 0 || it.Y < 0 {
					t.Fatalf("%s: %s at (%d,%d)", c.Name(), it.ID, it.X, it.Y)
				}
			}
		}

		wrapped := NewWrapCompactor().Compact(l, cols)
		assertNoOverlap(t, "wrap", wrapped)
	})
}

func FuzzMoveElement(f *testing.F) {
	f.Add([]byte{4, 3, 0, 1, 2, 1, 0, 2, 0, 2, 1, 1, 1, 0, 1, 1, 2, 1}, uint8(0), uint8(2), uint8(3))

	f.Fuzz(func(t *testing.T, data []byte, pick, x, y uint8) {
		var fl fuzzLayout
		if err := fuzz.NewConsumer(data).GenerateStruct(&fl); err != nil {
			return
		}
		l, cols := fl.build()
		if len(l) == 0 {
			return
		}
		l = VerticalCompactor.Compact(l, cols)
		item := l[int(pick)%len(l)]

		opts := MoveOptions{IsUserAction: true, CompactType: CompactVertical, Cols: cols}
		l = MoveElement(l, item, int(x%16), int(y%16), opts)
		l = VerticalCompactor.Compact(l, cols)
		assertNoOverlap(t, "move", l)
	})
}
