package io

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/grid"
	"github.com/dear23/gridlayout/pkg/responsive"
)

// Document is a responsive configuration together with its layouts.
type Document struct {
	Breakpoints responsive.Breakpoints
	Cols        responsive.Cols
	Layouts     responsive.Layouts
}

// Validate checks the breakpoint configuration and every layout.
func (d *Document) Validate() error {
	if len(d.Breakpoints) > 0 || len(d.Cols) > 0 {
		if err := responsive.Validate(d.Breakpoints, d.Cols); err != nil {
			return err
		}
	}
	for _, bp := range sortedKeys(d.Layouts) {
		if err := grid.ValidateLayout(d.Layouts[bp], "layouts."+bp); err != nil {
			return err
		}
	}
	return nil
}

type tomlLayout struct {
	Items []map[string]any `toml:"items"`
}

type rawDocument struct {
	Breakpoints map[string]int              `json:"breakpoints" toml:"breakpoints"`
	Cols        map[string]int              `json:"cols" toml:"cols"`
	Layouts     map[string][]map[string]any `json:"layouts" toml:"layouts"`
}

// DecodeLayout reads a layout in the given format from r.
// DecodeLayout does not close r.
func DecodeLayout(r io.Reader, f Format) (grid.Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var raw []map[string]any
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(bytes.TrimSpace(data), &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode json layout")
		}
	case FormatTOML:
		var doc tomlLayout
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode toml layout")
		}
		raw = doc.Items
	default:
		return nil, unsupported(f)
	}
	return layoutFromMaps(raw)
}

// UnmarshalLayout decodes a JSON layout.
func UnmarshalLayout(data []byte) (grid.Layout, error) {
	return DecodeLayout(bytes.NewReader(data), FormatJSON)
}

// DecodeDocument reads a document in the given format from r.
func DecodeDocument(r io.Reader, f Format) (*Document, error) {
	var raw rawDocument
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode json document")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode toml document")
		}
	default:
		return nil, unsupported(f)
	}

	doc := &Document{
		Breakpoints: responsive.Breakpoints(raw.Breakpoints),
		Cols:        responsive.Cols(raw.Cols),
		Layouts:     make(responsive.Layouts, len(raw.Layouts)),
	}
	for _, bp := range sortedKeys(raw.Layouts) {
		l, err := layoutFromMaps(raw.Layouts[bp])
		if err != nil {
			return nil, fmt.Errorf("layouts.%s: %w", bp, err)
		}
		doc.Layouts[bp] = l
	}
	return doc, nil
}

// ReadLayoutFile reads a layout file, choosing the format by extension.
func ReadLayoutFile(path string) (grid.Layout, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	l, err := DecodeLayout(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// ReadDocumentFile reads a document file, choosing the format by extension.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	doc, err := DecodeDocument(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func layoutFromMaps(raw []map[string]any) (grid.Layout, error) {
	l := make(grid.Layout, 0, len(raw))
	for i, m := range raw {
		it, err := itemFromMap(i, m)
		if err != nil {
			return nil, err
		}
		l = append(l, it)
	}
	return l, nil
}
