package io

import (
	stdjson "encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/grid"
)

// Item keys understood by the codec.
const (
	keyID        = "i"
	keyX         = "x"
	keyY         = "y"
	keyW         = "w"
	keyH         = "h"
	keyMinW      = "minW"
	keyMaxW      = "maxW"
	keyMinH      = "minH"
	keyMaxH      = "maxH"
	keyStatic    = "static"
	keyDraggable = "isDraggable"
	keyResizable = "isResizable"
	keyBounded   = "isBounded"
	keyHandles   = "resizeHandles"
	keyMoved     = "moved"
)

var knownKeys = map[string]bool{
	keyID: true, keyX: true, keyY: true, keyW: true, keyH: true,
	keyMinW: true, keyMaxW: true, keyMinH: true, keyMaxH: true,
	keyStatic: true, keyDraggable: true, keyResizable: true, keyBounded: true,
	keyHandles: true, keyMoved: true,
}

// itemDecoder collects the first field error for one item.
type itemDecoder struct {
	index int
	m     map[string]any
	err   error
}

func (d *itemDecoder) fail(field, format string, args ...any) {
	if d.err == nil {
		d.err = errors.New(errors.ErrCodeInvalidLayout, "item %d: %s: %s", d.index, field, fmt.Sprintf(format, args...))
	}
}

func (d *itemDecoder) str(key string) string {
	v, ok := d.m[key]
	if !ok {
		d.fail(key, "missing")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.fail(key, "want string, got %T", v)
	}
	return s
}

func (d *itemDecoder) int(key string, required bool) int {
	v, ok := d.m[key]
	if !ok {
		if required {
			d.fail(key, "missing")
		}
		return 0
	}
	n, ok := toInt(v)
	if !ok {
		d.fail(key, "want integer, got %v", v)
	}
	return n
}

func (d *itemDecoder) bool(key string) *bool {
	v, ok := d.m[key]
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(key, "want boolean, got %T", v)
		return nil
	}
	return &b
}

func (d *itemDecoder) handles() []grid.ResizeHandle {
	v, ok := d.m[keyHandles]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		d.fail(keyHandles, "want list, got %T", v)
		return nil
	}
	out := make([]grid.ResizeHandle, 0, len(raw))
	for _, r := range raw {
		s, _ := r.(string)
		h := grid.ResizeHandle(s)
		if !h.Valid() {
			d.fail(keyHandles, "unknown handle %v", r)
			return nil
		}
		out = append(out, h)
	}
	return out
}

// toInt accepts any numeric value with no fractional part.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case stdjson.Number:
		if i, err := strconv.Atoi(string(n)); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return toInt(f)
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// itemFromMap builds an item from a decoded object. index is the item's
// position in its layout, used in error messages.
func itemFromMap(index int, m map[string]any) (*grid.Item, error) {
	d := &itemDecoder{index: index, m: m}
	it := &grid.Item{
		ID:            d.str(keyID),
		X:             d.int(keyX, true),
		Y:             d.int(keyY, true),
		W:             d.int(keyW, true),
		H:             d.int(keyH, true),
		MinW:          d.int(keyMinW, false),
		MaxW:          d.int(keyMaxW, false),
		MinH:          d.int(keyMinH, false),
		MaxH:          d.int(keyMaxH, false),
		IsDraggable:   d.bool(keyDraggable),
		IsResizable:   d.bool(keyResizable),
		IsBounded:     d.bool(keyBounded),
		ResizeHandles: d.handles(),
	}
	if b := d.bool(keyStatic); b != nil {
		it.Static = *b
	}
	if b := d.bool(keyMoved); b != nil {
		it.Moved = *b
	}
	if d.err != nil {
		return nil, d.err
	}
	for k, v := range m {
		if knownKeys[k] {
			continue
		}
		if it.Extra == nil {
			it.Extra = make(map[string]any)
		}
		it.Extra[k] = v
	}
	return it, nil
}

// itemToMap flattens an item and its extra fields into one object.
// Optional fields are omitted when unset.
func itemToMap(it *grid.Item) map[string]any {
	m := maps.Clone(it.Extra)
	if m == nil {
		m = make(map[string]any, 8)
	}
	m[keyID] = it.ID
	m[keyX] = it.X
	m[keyY] = it.Y
	m[keyW] = it.W
	m[keyH] = it.H
	for k, v := range map[string]int{keyMinW: it.MinW, keyMaxW: it.MaxW, keyMinH: it.MinH, keyMaxH: it.MaxH} {
		if v != 0 {
			m[k] = v
		}
	}
	if it.Static {
		m[keyStatic] = true
	}
	if it.Moved {
		m[keyMoved] = true
	}
	for k, v := range map[string]*bool{keyDraggable: it.IsDraggable, keyResizable: it.IsResizable, keyBounded: it.IsBounded} {
		if v != nil {
			m[k] = *v
		}
	}
	if len(it.ResizeHandles) > 0 {
		hs := make([]string, len(it.ResizeHandles))
		for i, h := range it.ResizeHandles {
			hs[i] = string(h)
		}
		m[keyHandles] = hs
	}
	return m
}

// extraKeys returns the item's extra keys that do not shadow known fields,
// sorted for stable output.
func extraKeys(it *grid.Item) []string {
	keys := make([]string, 0, len(it.Extra))
	for k := range it.Extra {
		if !knownKeys[k] {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}
