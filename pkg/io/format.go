package io

import (
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/dear23/gridlayout/pkg/errors"
)

// Format is a serialization format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	IndentionStep:          2,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatJSON, FormatTOML:
		return f, nil
	}
	return "", unsupported(Format(s))
}

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "%s: no file extension", path)
	}
	return ParseFormat(ext)
}

func unsupported(f Format) error {
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want json or toml)", string(f))
}
