package pipeline

import (
	"bytes"
	"fmt"

	"github.com/dear23/gridlayout/pkg/grid"
	layoutio "github.com/dear23/gridlayout/pkg/io"
	"github.com/dear23/gridlayout/pkg/render"
)

// Render generates output artifacts for l in the requested formats.
func Render(l grid.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	p := opts.Params()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range sortedFormats(opts.Formats) {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.SVG(l, p, buildSVGOptions(opts)...)
		case FormatPNG:
			data, err = render.PNG(l, p, opts.Scale)
		case FormatText:
			data = []byte(render.Text(l, opts.Cols))
		case FormatJSON:
			data, err = encode(l, layoutio.FormatJSON)
		case FormatTOML:
			data, err = encode(l, layoutio.FormatTOML)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []render.SVGOption {
	var svgOpts []render.SVGOption
	if opts.NoLabels {
		svgOpts = append(svgOpts, render.WithoutLabels())
	}
	if opts.GridLines {
		svgOpts = append(svgOpts, render.WithGridLines())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, render.WithTitle(opts.Title))
	}
	return svgOpts
}

func encode(l grid.Layout, f layoutio.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := layoutio.EncodeLayout(&buf, l, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
