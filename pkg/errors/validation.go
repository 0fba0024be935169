package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds space, breakpoint and item names.
const maxNameLength = 128

// ValidateName checks a space, breakpoint or item name that ends up in a
// storage key, a file path or a URL. kind names it in the error ("space").
//
// Names are non-empty, at most maxNameLength bytes, and free of control
// characters, path separators, ".." and ':'. The colon separates the parts
// of a stored layout's key, so allowing it would let space "a:b" with
// breakpoint "c" collide with space "a" and breakpoint "b:c".
func ValidateName(kind, name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidName, "%s name cannot be empty", kind)
	case len(name) > maxNameLength:
		return New(ErrCodeInvalidName, "%s name too long (max %d characters)", kind, maxNameLength)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidName, "%s name contains control characters", kind)
	}
	for _, bad := range []string{"..", "/", "\\", ":"} {
		if strings.Contains(name, bad) {
			return New(ErrCodeInvalidName, "%s name contains %q", kind, bad)
		}
	}
	return nil
}
