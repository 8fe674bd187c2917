// Package parsers provides parsers for importing timeline events from various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawEvent represents an event parsed from an external source before validation.
// When is kept as text so that date errors are reported per row by the importer.
type RawEvent struct {
	ID         string `json:"id,omitempty"`
	Title      string `json:"title"`
	Kind       string `json:"kind,omitempty"`
	When       string `json:"when"`
	Context    string `json:"context,omitempty"`
	SourceFile string `json:"source_file,omitempty"`
	LineNum    int    `json:"-"` // Line number in source file (set by parser)
}

// Parser defines the interface for parsing events from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawEvent, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
