package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/dear23/gridlayout/pkg/grid"
)

// PNG rasterizes l at the given scale (1 = one pixel per CSS pixel).
// Overlapping items are blended so overlaps stay visible.
func PNG(l grid.Layout, p grid.PositionParams, scale float64) ([]byte, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("invalid scale %v", scale)
	}
	w, h := frame(l, p)
	width, height := int(math.Ceil(w*scale)), int(math.Ceil(h*scale))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("empty frame %dx%d", width, height)
	}

	img := imaging.New(width, height, background)
	for _, b := range Blocks(l, p) {
		r := scaled(b.Pos, scale)
		if r.Empty() {
			continue
		}
		img = imaging.Overlay(img, tile(r.Dx(), r.Dy(), b.Fill, b.Static), r.Min, 0.85)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func scaled(pos grid.Position, scale float64) image.Rectangle {
	return image.Rect(
		int(math.Round(pos.Left*scale)),
		int(math.Round(pos.Top*scale)),
		int(math.Round((pos.Left+pos.Width)*scale)),
		int(math.Round((pos.Top+pos.Height)*scale)),
	)
}

// tile draws one item: a filled box with a one pixel border, hatched when
// static.
func tile(w, h int, fill color.NRGBA, static bool) *image.NRGBA {
	t := imaging.New(w, h, fill)
	for y := range h {
		for x := range w {
			switch {
			case x == 0 || y == 0 || x == w-1 || y == h-1:
				t.SetNRGBA(x, y, stroke)
			case static && (x+y)%8 < 2:
				t.SetNRGBA(x, y, stroke)
			}
		}
	}
	return t
}
