// Package errors carries the coded errors shared by the engine, the store,
// the CLI and the HTTP API.
//
// A [Code] says what went wrong in a form callers can branch on; the HTTP
// API sends it as the "code" field and maps its [Class] to a status.
// Only validation, lookups and storage fail. Collision handling and
// compaction never return errors: a rejected move is an unchanged layout.
//
//	err := errors.New(errors.ErrCodeDuplicateID, "%s: duplicate id %q", ctxName, id)
//	if errors.IsValidation(err) {
//	    // 400
//	}
//
//	err = errors.Wrap(errors.ErrCodeStorage, cause, "save layout %s/%s", space, bp)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidLayout Code = "INVALID_LAYOUT"
	ErrCodeDuplicateID   Code = "DUPLICATE_ID"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidName   Code = "INVALID_NAME"

	ErrCodeMissingBreakpoint Code = "MISSING_BREAKPOINT"
	ErrCodeNotFound          Code = "NOT_FOUND"

	ErrCodeStorage  Code = "STORAGE"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Class groups codes by who is at fault.
type Class int

const (
	// ClassInternal covers unknown codes and plain errors.
	ClassInternal Class = iota
	// ClassValidation is bad caller input: a layout, a config or a name.
	ClassValidation
	// ClassNotFound is a lookup of an item or layout that does not exist.
	ClassNotFound
	// ClassBackend is a storage failure.
	ClassBackend
)

var classes = map[Code]Class{
	ErrCodeInvalidInput:      ClassValidation,
	ErrCodeInvalidLayout:     ClassValidation,
	ErrCodeDuplicateID:       ClassValidation,
	ErrCodeInvalidConfig:     ClassValidation,
	ErrCodeInvalidFormat:     ClassValidation,
	ErrCodeInvalidName:       ClassValidation,
	ErrCodeMissingBreakpoint: ClassValidation,
	ErrCodeNotFound:          ClassNotFound,
	ErrCodeStorage:           ClassBackend,
}

// Class returns the class of c.
func (c Code) Class() Class { return classes[c] }

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause kept for errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ClassOf returns the class of err's code. Errors without a code are
// internal.
func ClassOf(err error) Class {
	return GetCode(err).Class()
}

// IsValidation reports whether err was caused by caller input.
func IsValidation(err error) bool { return ClassOf(err) == ClassValidation }

// IsBackend reports whether err is a storage failure.
func IsBackend(err error) bool { return ClassOf(err) == ClassBackend }

// UserMessage returns the message without the code prefix or cause, for
// display. Plain errors are returned as they are.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// As is errors.As, so callers of this package need no second errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}
