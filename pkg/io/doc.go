// Package io reads and writes grid layouts as JSON or TOML.
//
// # Layout Format
//
// A layout is a list of items. In JSON it is a bare array:
//
//	[
//	  {"i": "chat-shortcut", "x": 0, "y": 0, "w": 2, "h": 2},
//	  {"i": "memo-widget", "x": 6, "y": 0, "w": 2, "h": 4, "static": true}
//	]
//
// In TOML the same items are an array of tables named items:
//
//	[[items]]
//	i = "chat-shortcut"
//	x = 0
//	y = 0
//	w = 2
//	h = 2
//
// # Item Fields
//
// Required: i, x, y, w, h (integers for the geometry).
//
// Optional: minW, maxW, minH, maxH, static, isDraggable, isResizable,
// isBounded, resizeHandles, moved.
//
// Any other key is kept in [grid.Item.Extra] and written back unchanged, so
// host-specific data survives a decode/encode round trip. A missing required
// field or a non-integer coordinate is an INVALID_LAYOUT error naming the
// item index and the field.
//
// # Documents
//
// A [Document] bundles the responsive configuration with per-breakpoint
// layouts:
//
//	{
//	  "breakpoints": {"lg": 1200, "md": 996},
//	  "cols": {"lg": 12, "md": 10},
//	  "layouts": {"lg": [...], "md": [...]}
//	}
//
// # Files
//
// [ReadLayoutFile], [WriteLayoutFile], [ReadDocumentFile] and
// [WriteDocumentFile] pick the format from the file extension (.json or
// .toml). Other extensions are an INVALID_FORMAT error.
package io
