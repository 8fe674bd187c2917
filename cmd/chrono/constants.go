package main

// Default limits for CLI commands.
const (
	DefaultListLimit   = 50
	DefaultExportLimit = 0 // All events
)

// Valid export formats.
var validFormats = []string{"json", "csv", "markdown"}
