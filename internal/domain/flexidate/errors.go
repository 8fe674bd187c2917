package flexidate

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by this package wraps one of them.
var (
	ErrParse = errors.New("flexidate: parse error")
	ErrRange = errors.New("flexidate: range error")
)

// ParseError reports malformed or ambiguous input text.
type ParseError struct {
	Text    string // Input that failed to parse
	Field   string // Offending segment (year, month, day, span, ...)
	Message string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parsing %q: %s: %s", e.Text, e.Field, e.Message)
	}
	return fmt.Sprintf("parsing %q: %s", e.Text, e.Message)
}

// Unwrap lets errors.Is match ErrParse.
func (e *ParseError) Unwrap() error { return ErrParse }

// RangeError reports a structurally invalid field combination passed to a constructor.
type RangeError struct {
	Field   string
	Value   string
	Message string
}

func (e *RangeError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %s: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrRange.
func (e *RangeError) Unwrap() error { return ErrRange }

func parseErr(text, field, format string, args ...any) *ParseError {
	return &ParseError{Text: text, Field: field, Message: fmt.Sprintf(format, args...)}
}
