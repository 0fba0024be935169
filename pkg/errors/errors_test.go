package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAndWrap(t *testing.T) {
	err := New(ErrCodeDuplicateID, "lg: duplicate id %q", "a")
	if got, want := err.Error(), `DUPLICATE_ID: lg: duplicate id "a"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("disk full")
	werr := Wrap(ErrCodeStorage, cause, "save layout %s/%s", "home", "lg")
	if got, want := werr.Error(), "STORAGE: save layout home/lg: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(werr, cause) || errors.Unwrap(werr) != cause {
		t.Error("Wrap should keep the cause reachable")
	}
}

func TestIsAndGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"Match", New(ErrCodeInvalidLayout, "x"), ErrCodeInvalidLayout, true},
		{"Mismatch", New(ErrCodeInvalidLayout, "x"), ErrCodeStorage, false},
		{"OutermostWins", Wrap(ErrCodeStorage, New(ErrCodeInvalidLayout, "inner"), "outer"), ErrCodeStorage, true},
		{"ThroughFmt", fmt.Errorf("compact: %w", New(ErrCodeNotFound, "item z")), ErrCodeNotFound, true},
		{"Plain", errors.New("boom"), ErrCodeInternal, false},
		{"Nil", nil, ErrCodeInternal, false},
		{"EmptyCode", errors.New("boom"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}

	if GetCode(errors.New("plain")) != "" {
		t.Error("GetCode of a plain error should be empty")
	}
}

func TestClass(t *testing.T) {
	tests := []struct {
		err        error
		want       Class
		validation bool
		backend    bool
	}{
		{New(ErrCodeInvalidLayout, "x"), ClassValidation, true, false},
		{New(ErrCodeMissingBreakpoint, "x"), ClassValidation, true, false},
		{New(ErrCodeInvalidName, "x"), ClassValidation, true, false},
		{New(ErrCodeNotFound, "x"), ClassNotFound, false, false},
		{Wrap(ErrCodeStorage, errors.New("dial"), "get"), ClassBackend, false, true},
		{New(ErrCodeInternal, "x"), ClassInternal, false, false},
		{errors.New("plain"), ClassInternal, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := ClassOf(tt.err); got != tt.want {
				t.Errorf("ClassOf = %v, want %v", got, tt.want)
			}
			if IsValidation(tt.err) != tt.validation {
				t.Errorf("IsValidation = %v", !tt.validation)
			}
			if IsBackend(tt.err) != tt.backend {
				t.Errorf("IsBackend = %v", !tt.backend)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	err := fmt.Errorf("put: %w", Wrap(ErrCodeInvalidLayout, errors.New("eof"), "item 2: w: missing"))
	if got := UserMessage(err); got != "item 2: w: missing" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestAs(t *testing.T) {
	var e *Error
	if !As(fmt.Errorf("wrapped: %w", New(ErrCodeNotFound, "item a")), &e) || e.Code != ErrCodeNotFound {
		t.Errorf("As did not find the coded error: %v", e)
	}
}
