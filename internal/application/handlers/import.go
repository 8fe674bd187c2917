package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/lore-chrono/internal/domain/entities"
	"github.com/ersonp/lore-chrono/internal/domain/services"
	"github.com/ersonp/lore-chrono/internal/infrastructure/parsers"
)

// ImportHandler handles importing events from files.
type ImportHandler struct {
	service *services.ImportService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{
		service: service,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format      string // "json", "csv", or "auto"
	DryRun      bool   // Validate without saving
	OnConflict  string // "skip" or "overwrite"
	DefaultKind string // Kind for rows that don't name one
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []services.ImportError
	Events   []entities.Event
}

// Handle imports events from a file.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*ImportResult, error) {
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	onConflict, err := parseConflictStrategy(opts.OnConflict)
	if err != nil {
		return nil, err
	}

	defaultKind := entities.EventKind(opts.DefaultKind)
	if defaultKind != "" && !defaultKind.IsValid() {
		return nil, fmt.Errorf("invalid default kind %q", opts.DefaultKind)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	rawEvents, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	if len(rawEvents) == 0 {
		return &ImportResult{}, nil
	}

	// Rows without a source default to the imported file.
	for i := range rawEvents {
		if rawEvents[i].SourceFile == "" {
			rawEvents[i].SourceFile = filePath
		}
	}

	serviceResult, err := h.service.Import(ctx, rawEvents, services.ImportOptions{
		DryRun:      opts.DryRun,
		OnConflict:  onConflict,
		DefaultKind: defaultKind,
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Imported: serviceResult.Imported,
		Skipped:  serviceResult.Skipped,
		Errors:   serviceResult.Errors,
		Events:   serviceResult.Events,
	}, nil
}

func parseConflictStrategy(s string) (services.ConflictStrategy, error) {
	switch s {
	case "", string(services.ConflictSkip):
		return services.ConflictSkip, nil
	case string(services.ConflictOverwrite):
		return services.ConflictOverwrite, nil
	default:
		return "", fmt.Errorf("invalid conflict strategy %q (valid: skip, overwrite)", s)
	}
}
