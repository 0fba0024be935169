package io

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	jsoniter "github.com/json-iterator/go"

	"github.com/dear23/gridlayout/pkg/grid"
)

// EncodeLayout writes a layout in the given format to w. Item keys come out
// in a fixed order: id, geometry, bounds, flags, handles, then extra fields
// sorted by name.
func EncodeLayout(w io.Writer, l grid.Layout, f Format) error {
	switch f {
	case FormatJSON:
		s := json.BorrowStream(w)
		defer json.ReturnStream(s)
		writeLayoutJSON(s, l)
		s.WriteRaw("\n")
		if err := s.Flush(); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return s.Error
	case FormatTOML:
		return encodeTOML(w, tomlLayout{Items: layoutToMaps(l)})
	}
	return unsupported(f)
}

// MarshalLayout encodes a layout as JSON.
func MarshalLayout(l grid.Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeLayout(&buf, l, FormatJSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeDocument writes a document in the given format to w.
func EncodeDocument(w io.Writer, doc *Document, f Format) error {
	switch f {
	case FormatJSON:
		s := json.BorrowStream(w)
		defer json.ReturnStream(s)
		s.WriteObjectStart()
		s.WriteObjectField("breakpoints")
		s.WriteVal(map[string]int(doc.Breakpoints))
		s.WriteMore()
		s.WriteObjectField("cols")
		s.WriteVal(map[string]int(doc.Cols))
		s.WriteMore()
		s.WriteObjectField("layouts")
		if len(doc.Layouts) == 0 {
			s.WriteEmptyObject()
		} else {
			s.WriteObjectStart()
			for i, bp := range sortedKeys(doc.Layouts) {
				if i > 0 {
					s.WriteMore()
				}
				s.WriteObjectField(bp)
				writeLayoutJSON(s, doc.Layouts[bp])
			}
			s.WriteObjectEnd()
		}
		s.WriteObjectEnd()
		s.WriteRaw("\n")
		if err := s.Flush(); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return s.Error
	case FormatTOML:
		raw := rawDocument{
			Breakpoints: doc.Breakpoints,
			Cols:        doc.Cols,
			Layouts:     make(map[string][]map[string]any, len(doc.Layouts)),
		}
		for bp, l := range doc.Layouts {
			raw.Layouts[bp] = layoutToMaps(l)
		}
		return encodeTOML(w, raw)
	}
	return unsupported(f)
}

// WriteLayoutFile writes a layout file, choosing the format by extension.
func WriteLayoutFile(path string, l grid.Layout) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := EncodeLayout(&buf, l, f); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// WriteDocumentFile writes a document file, choosing the format by extension.
func WriteDocumentFile(path string, doc *Document) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, doc, f); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func encodeTOML(w io.Writer, v any) error {
	if err := toml.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	return nil
}

func writeLayoutJSON(s *jsoniter.Stream, l grid.Layout) {
	if len(l) == 0 {
		s.WriteEmptyArray()
		return
	}
	s.WriteArrayStart()
	for i, it := range l {
		if i > 0 {
			s.WriteMore()
		}
		writeItemJSON(s, it)
	}
	s.WriteArrayEnd()
}

func writeItemJSON(s *jsoniter.Stream, it *grid.Item) {
	s.WriteObjectStart()
	s.WriteObjectField(keyID)
	s.WriteString(it.ID)

	field := func(key string, v any) {
		s.WriteMore()
		s.WriteObjectField(key)
		s.WriteVal(v)
	}
	field(keyX, it.X)
	field(keyY, it.Y)
	field(keyW, it.W)
	field(keyH, it.H)

	for _, f := range []struct {
		key string
		v   int
	}{{keyMinW, it.MinW}, {keyMaxW, it.MaxW}, {keyMinH, it.MinH}, {keyMaxH, it.MaxH}} {
		if f.v != 0 {
			field(f.key, f.v)
		}
	}
	if it.Static {
		field(keyStatic, true)
	}
	for _, f := range []struct {
		key string
		v   *bool
	}{{keyDraggable, it.IsDraggable}, {keyResizable, it.IsResizable}, {keyBounded, it.IsBounded}} {
		if f.v != nil {
			field(f.key, *f.v)
		}
	}
	if len(it.ResizeHandles) > 0 {
		field(keyHandles, it.ResizeHandles)
	}
	if it.Moved {
		field(keyMoved, true)
	}
	for _, k := range extraKeys(it) {
		field(k, it.Extra[k])
	}
	s.WriteObjectEnd()
}

func layoutToMaps(l grid.Layout) []map[string]any {
	out := make([]map[string]any, len(l))
	for i, it := range l {
		out[i] = itemToMap(it)
	}
	return out
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
