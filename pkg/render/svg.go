package render

import (
	"bytes"
	"fmt"
	"html"
	"image/color"

	"github.com/dear23/gridlayout/pkg/grid"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels      bool
	gridLines   bool
	title       string
	placeholder *grid.Item
}

// WithoutLabels omits the id labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithGridLines draws the column and row cells behind the items.
func WithGridLines() SVGOption { return func(r *svgRenderer) { r.gridLines = true } }

// WithTitle sets the document title.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// WithPlaceholder outlines where a dragged item would land.
func WithPlaceholder(it *grid.Item) SVGOption {
	return func(r *svgRenderer) { r.placeholder = it }
}

// SVG renders l inside a container described by p.
func SVG(l grid.Layout, p grid.PositionParams, opts ...SVGOption) []byte {
	r := svgRenderer{labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	width, height := frame(l, p)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="%s"/>`+"\n", width, height, hex(background))

	if r.gridLines {
		renderCells(&buf, l, p)
	}
	blocks := Blocks(l, p)
	for _, b := range blocks {
		renderBlock(&buf, b)
	}
	if r.placeholder != nil {
		pos := grid.ItemToPixelPosition(p, r.placeholder.X, r.placeholder.Y, r.placeholder.W, r.placeholder.H, nil, nil)
		fmt.Fprintf(&buf, `  <rect class="placeholder" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="red" fill-opacity="0.2" stroke="red" stroke-dasharray="4 2"/>`+"\n",
			pos.Left, pos.Top, pos.Width, pos.Height)
	}
	if r.labels {
		for _, b := range blocks {
			renderLabel(&buf, b)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <pattern id="static-hatch" width="8" height="8" patternUnits="userSpaceOnUse" patternTransform="rotate(45)">
      <line x1="0" y1="0" x2="0" y2="8" stroke="#333333" stroke-opacity="0.35" stroke-width="2"/>
    </pattern>
  </defs>
`)
}

func renderCells(buf *bytes.Buffer, l grid.Layout, p grid.PositionParams) {
	rows := max(1, l.Bottom())
	for y := range rows {
		for x := range p.Cols {
			pos := grid.ItemToPixelPosition(p, x, y, 1, 1, nil, nil)
			fmt.Fprintf(buf, `  <rect class="cell" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#dddddd"/>`+"\n",
				pos.Left, pos.Top, pos.Width, pos.Height)
		}
	}
}

func renderBlock(buf *bytes.Buffer, b Block) {
	id := html.EscapeString(b.ID)
	fmt.Fprintf(buf, `  <rect id="item-%s" class="item" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s" stroke="%s"/>`+"\n",
		id, b.Pos.Left, b.Pos.Top, b.Pos.Width, b.Pos.Height, hex(b.Fill), hex(stroke))
	if b.Static {
		fmt.Fprintf(buf, `  <rect class="static" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="url(#static-hatch)"/>`+"\n",
			b.Pos.Left, b.Pos.Top, b.Pos.Width, b.Pos.Height)
	}
}

func renderLabel(buf *bytes.Buffer, b Block) {
	cx := b.Pos.Left + b.Pos.Width/2
	cy := b.Pos.Top + b.Pos.Height/2
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="12" fill="#111111">%s</text>`+"\n",
		cx, cy, html.EscapeString(b.Label))
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
