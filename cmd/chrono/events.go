package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-chrono/internal/application/handlers"
	"github.com/ersonp/lore-chrono/internal/domain/entities"
	"github.com/ersonp/lore-chrono/internal/domain/services"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage timeline events",
	}

	cmd.AddCommand(
		newEventsAddCmd(),
		newEventsListCmd(),
		newEventsWithinCmd(),
		newEventsShiftCmd(),
		newEventsDeleteCmd(),
		newEventsElapsedCmd(),
		newEventsHistoryCmd(),
		newEventsLogCmd(),
	)

	return cmd
}

type eventsAddFlags struct {
	kind    string
	context string
	source  string
}

func newEventsAddCmd() *cobra.Command {
	var flags eventsAddFlags

	cmd := &cobra.Command{
		Use:   "add <title> <when>",
		Short: "Record an event",
		Example: `  chrono events add "Assassination of Caesar" "0044-03-15 BC" --kind death
  chrono events add "Founding of the colony" "41? BC" --kind founding`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(func(deps *Deps) error {
				view, err := deps.TimelineHandler.Add(ctx, services.RecordInput{
					Title:      args[0],
					Kind:       flags.kind,
					When:       args[1],
					Context:    flags.context,
					SourceFile: flags.source,
				})
				if err != nil {
					return err
				}
				fmt.Printf("Recorded %s\n\n", view.ID)
				displayEvent(deps.Calc, *view)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&flags.kind, "kind", "k", "", "Event kind (default: other)")
	cmd.Flags().StringVarP(&flags.context, "context", "c", "", "Free text context")
	cmd.Flags().StringVarP(&flags.source, "source", "s", "", "Source the event came from")

	return cmd
}

func newEventsListCmd() *cobra.Command {
	var opts handlers.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events in chronological order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Kind != "" && !entities.IsDefaultKind(opts.Kind) {
				return fmt.Errorf("invalid kind %q, valid kinds: %v", opts.Kind, entities.DefaultKindNames())
			}

			ctx := cmd.Context()
			return withDeps(func(deps *Deps) error {
				events, err := deps.TimelineHandler.List(ctx, opts)
				if err != nil {
					return err
				}
				if len(events) == 0 {
					fmt.Println("No events found.")
					return nil
				}

				total, _ := deps.TimelineHandler.Count(ctx)
				displayEvents(deps.Calc, events, total)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "", "Filter by event kind")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", DefaultListLimit, "Maximum number of events to display")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "Number of events to skip")

	return cmd
}

func newEventsWithinCmd() *cobra.Command {
	var (
		overlapping bool
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "within <range>",
		Short: "List events dated inside a range",
		Long: `Lists events whose whole date lies inside the range. The range may be
"low/high", a single date, or a decade such as "41? BC".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(func(deps *Deps) error {
				events, err := deps.TimelineHandler.Within(ctx, args[0], overlapping, limit)
				if err != nil {
					return err
				}
				if len(events) == 0 {
					fmt.Println("No events found.")
					return nil
				}
				displayEvents(deps.Calc, events, 0)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&overlapping, "overlapping", false, "Include events that only partly overlap the range")
	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultListLimit, "Maximum number of events to display")

	return cmd
}

func newEventsShiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shift <id> <span>",
		Short: "Move an event by a span",
		Long: `Move an event by a span.

An uncertain decade moved by a whole number of decades stays a decade. Any
other span collapses it to a circa year at the shifted start of the decade,
for example 41? BC shifted by P3Y is stored as ca. -0416.`,
		Example: `  chrono events shift 3f1c... P10Y
  chrono events shift 3f1c... -P3M`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(func(deps *Deps) error {
				view, err := deps.TimelineHandler.Shift(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Printf("Shifted %s to %s\n", view.ID, deps.Calc.Format(view.When))
				return nil
			})
		},
	}
}

func newEventsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete events",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && len(args) > 1 {
				return fmt.Errorf("deleting %d events requires --force", len(args))
			}

			ctx := cmd.Context()
			return withDeps(func(deps *Deps) error {
				for _, id := range args {
					if err := deps.TimelineHandler.Delete(ctx, id); err != nil {
						return fmt.Errorf("deleting event %s: %w", id, err)
					}
					fmt.Printf("Deleted event %s\n", id)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Allow deleting several events at once")

	return cmd
}

func newEventsElapsedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "elapsed <from-id> <to-id>",
		Short: "Time elapsed between two events",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(func(deps *Deps) error {
				v, err := deps.TimelineHandler.Elapsed(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Println(deps.Calc.Format(v))
				return nil
			})
		},
	}
}

func newEventsHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the audit trail of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(func(deps *Deps) error {
				entries, err := deps.TimelineHandler.History(ctx, args[0])
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Println("No history recorded.")
					return nil
				}

				fmt.Printf("%-20s %-8s %s\n", "TIME", "ACTION", "DETAILS")
				fmt.Printf("%-20s %-8s %s\n", "----", "------", "-------")
				for _, e := range entries {
					fmt.Printf("%-20s %-8s %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, formatDetails(e.Details))
				}
				return nil
			})
		},
	}
}

func newEventsLogCmd() *cobra.Command {
	var (
		action string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent changes of one kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(func(deps *Deps) error {
				entries, err := deps.TimelineHandler.Activity(ctx, action, limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Printf("No %s actions recorded.\n", action)
					return nil
				}

				fmt.Printf("%-20s %-36s %s\n", "TIME", "EVENT", "DETAILS")
				fmt.Printf("%-20s %-36s %s\n", "----", "-----", "-------")
				for _, e := range entries {
					fmt.Printf("%-20s %-36s %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.EventID, formatDetails(e.Details))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&action, "action", "a", entities.ActionRecord, "Action to show (record, shift, delete, import)")
	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultListLimit, "Maximum number of entries")

	return cmd
}

func displayEvents(calc *handlers.CalcHandler, events []handlers.EventView, total int) {
	if total > 0 {
		fmt.Printf("Showing %d of %d events:\n\n", len(events), total)
	} else {
		fmt.Printf("Showing %d events:\n\n", len(events))
	}
	for _, ev := range events {
		displayEvent(calc, ev)
	}
}

func displayEvent(calc *handlers.CalcHandler, ev handlers.EventView) {
	fmt.Printf("[%s] %s  %s\n", ev.Kind, calc.Format(ev.When), ev.Title)
	fmt.Printf("  ID: %s\n", ev.ID)
	if ev.Ago != nil {
		fmt.Printf("  Before present: %s\n", calc.Format(ev.Ago))
	}
	if ev.Context != "" {
		fmt.Printf("  Context: %s\n", ev.Context)
	}
	if ev.SourceFile != "" {
		fmt.Printf("  Source: %s\n", ev.SourceFile)
	}
	fmt.Println()
}

// formatDetails renders audit details as sorted key=value pairs.
func formatDetails(details map[string]any) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return strings.Join(parts, " ")
}
