package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-chrono/internal/application/handlers"
	"github.com/ersonp/lore-chrono/internal/domain/entities"
	"github.com/ersonp/lore-chrono/internal/domain/flexidate"
	"github.com/ersonp/lore-chrono/internal/domain/ports"
)

type exportFlags struct {
	format    string
	output    string
	kind      string
	rangeText string
	limit     int
}

type exporter struct {
	store  ports.EventStore
	calc   *handlers.CalcHandler
	format string
	output string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events to file",
		Long: `Exports events to JSON, CSV, or markdown format. JSON and CSV output can be
imported again with 'chrono import'. Filter by --kind or by --range, not both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&flags.kind, "kind", "k", "", "Filter by event kind")
	cmd.Flags().StringVarP(&flags.rangeText, "range", "r", "", "Only events overlapping a date range")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultExportLimit, "Maximum number of events to export")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if err := validateExportFlags(flags); err != nil {
		return err
	}

	ctx := cmd.Context()

	return withStore(func(deps *Deps, store ports.EventStore) error {
		e := &exporter{
			store:  store,
			calc:   deps.Calc,
			format: flags.format,
			output: flags.output,
		}

		events, err := e.fetchEvents(ctx, flags)
		if err != nil {
			return err
		}

		return e.export(events)
	})
}

func validateExportFlags(flags exportFlags) error {
	if !slices.Contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	if flags.kind != "" && !entities.IsDefaultKind(flags.kind) {
		return fmt.Errorf("invalid kind %q, valid kinds: %v", flags.kind, entities.DefaultKindNames())
	}

	if flags.kind != "" && flags.rangeText != "" {
		return fmt.Errorf("--kind and --range cannot be combined")
	}

	return nil
}

func (e *exporter) fetchEvents(ctx context.Context, flags exportFlags) ([]entities.Event, error) {
	var events []entities.Event
	var err error

	switch {
	case flags.kind != "":
		events, err = e.store.ListByKind(ctx, entities.EventKind(flags.kind), flags.limit)
	case flags.rangeText != "":
		var r flexidate.DateRange
		r, err = parseRangeFlag(flags.rangeText)
		if err != nil {
			return nil, err
		}
		events, err = e.store.ListOverlapping(ctx, r, flags.limit)
	default:
		events, err = e.store.ListEvents(ctx, flags.limit, 0)
	}

	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	if len(events) == 0 {
		return nil, fmt.Errorf("no events found to export")
	}

	return events, nil
}

// parseRangeFlag accepts "low/high", a single date, or a decade.
func parseRangeFlag(text string) (flexidate.DateRange, error) {
	v, err := flexidate.Parse(text)
	if err != nil {
		return flexidate.DateRange{}, err
	}
	switch v := v.(type) {
	case flexidate.DateRange:
		return v, nil
	case flexidate.Date:
		return v.Range(), nil
	default:
		return flexidate.DateRange{}, fmt.Errorf("%q is a span, not a date range", text)
	}
}

func (e *exporter) export(events []entities.Event) (err error) {
	var w io.Writer
	var f *os.File

	if e.output != "" {
		f, err = os.OpenFile(e.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	} else {
		w = os.Stdout
	}

	if err := e.formatEvents(w, events); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if e.output != "" {
		fmt.Printf("Exported %d events to %s\n", len(events), e.output)
	}

	return nil
}

func (e *exporter) formatEvents(w io.Writer, events []entities.Event) error {
	switch e.format {
	case "json":
		return formatJSON(w, events)
	case "csv":
		return formatCSV(w, events)
	case "markdown":
		return formatMarkdown(w, events, e.calc)
	default:
		return fmt.Errorf("unknown format: %s", e.format)
	}
}

// exportEvent mirrors the import row layout so exports round-trip.
type exportEvent struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Kind       string `json:"kind"`
	When       string `json:"when"`
	Context    string `json:"context,omitempty"`
	SourceFile string `json:"source_file,omitempty"`
}

func toExportEvent(ev entities.Event) exportEvent {
	return exportEvent{
		ID:         ev.ID,
		Title:      ev.Title,
		Kind:       string(ev.Kind),
		When:       ev.When.String(),
		Context:    ev.Context,
		SourceFile: ev.SourceFile,
	}
}

func formatJSON(w io.Writer, events []entities.Event) error {
	out := make([]exportEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, toExportEvent(ev))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func formatCSV(w io.Writer, events []entities.Event) error {
	writer := csv.NewWriter(w)

	header := []string{"id", "title", "kind", "when", "context", "source_file"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, ev := range events {
		row := toExportEvent(ev)
		if err := writer.Write([]string{row.ID, row.Title, row.Kind, row.When, row.Context, row.SourceFile}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMarkdown(w io.Writer, events []entities.Event, calc *handlers.CalcHandler) error {
	if _, err := fmt.Fprintf(w, "# Timeline\n\nTotal: %d events\n\n", len(events)); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "| When | Kind | Title | Context |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|------|------|-------|---------|\n"); err != nil {
		return err
	}

	for _, ev := range events {
		if _, err := fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
			escapeMarkdown(calc.Format(ev.When)),
			ev.Kind,
			escapeMarkdown(ev.Title),
			escapeMarkdown(ev.Context),
		); err != nil {
			return err
		}
	}

	return nil
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
