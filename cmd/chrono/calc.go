package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text>...",
		Short: "Parse dates, ranges and spans",
		Long: `Parses each argument and prints its canonical form.

Accepted dates: 2020-01-02, -0044-03-15, "44 BC", "ca. 1200-05", "41? BC".
Spans use ISO 8601 style: P1Y2M3D, -P40Y, P2W. Ranges join two values with "/".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(args)
		},
	}
}

func runParse(args []string) error {
	results := loadCalcHandler().Normalize(args)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%s\n  error: %v\n", r.Input, r.Err)
			failed++
			continue
		}
		fmt.Printf("%s\n", r.Input)
		fmt.Printf("  %-10s %s\n", "kind:", r.Kind)
		fmt.Printf("  %-10s %s\n", "canonical:", r.Canonical)
		if r.Display != r.Canonical {
			fmt.Printf("  %-10s %s\n", "display:", r.Display)
		}
		if r.Precision != "" {
			fmt.Printf("  %-10s %s\n", "precision:", r.Precision)
		}
		if r.Earliest != "" {
			fmt.Printf("  %-10s %s .. %s\n", "covers:", r.Earliest, r.Latest)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed to parse", failed, len(results))
	}
	return nil
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <date> <span>",
		Short: "Add a span to a date",
		Long:  "Adds a span or span range to a date or date range. Uncertain inputs produce a range.",
		Example: `  chrono add 2020-01-31 P1M
  chrono add "44 BC" P30Y
  chrono add "41? BC" P3Y
  chrono add 1200-05 P21Y/P39Y`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := loadCalcHandler()
			v, err := calc.Add(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(calc.Format(v))
			return nil
		},
	}
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Span elapsed between two dates",
		Long:  "Prints the span from the first date to the second. Ranges or decades on either side produce a span range.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := loadCalcHandler()
			v, err := calc.Diff(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(calc.Format(v))
			return nil
		},
	}
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Order two dates and report containment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadCalcHandler().Compare(args[0], args[1])
			if err != nil {
				return err
			}

			switch res.Order {
			case -1:
				fmt.Printf("%s sorts before %s\n", args[0], args[1])
			case 1:
				fmt.Printf("%s sorts after %s\n", args[0], args[1])
			default:
				fmt.Printf("%s and %s are the same date\n", args[0], args[1])
			}
			if res.AContainsB && res.Order != 0 {
				fmt.Printf("%s contains %s\n", args[0], args[1])
			}
			if res.BContainsA && res.Order != 0 {
				fmt.Printf("%s contains %s\n", args[1], args[0])
			}
			if !res.AContainsB && !res.BContainsA {
				if res.Overlapping {
					fmt.Println("They overlap.")
				} else {
					fmt.Println("They do not overlap.")
				}
			}
			return nil
		},
	}
}

func newSpanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "span",
		Short: "Span and span range arithmetic",
	}

	for _, op := range []struct{ use, short string }{
		{"add", "Add two spans or span ranges"},
		{"sub", "Subtract the second span or span range from the first"},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   op.use + " <a> <b>",
			Short: op.short,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				calc := loadCalcHandler()
				v, err := calc.Span(op.use, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Println(calc.Format(v))
				return nil
			},
		})
	}

	return cmd
}
