// Package handlers contains application use case handlers.
package handlers

import (
	"fmt"
	"strings"

	"github.com/ersonp/lore-chrono/internal/domain/flexidate"
	"github.com/ersonp/lore-chrono/internal/domain/services"
	"github.com/ersonp/lore-chrono/internal/infrastructure/config"
)

// Value kinds reported by Normalize.
const (
	KindDate          = "date"
	KindDateRange     = "date range"
	KindTimeSpan      = "span"
	KindTimeSpanRange = "span range"
)

// CalcHandler evaluates date arithmetic typed on the command line.
// It touches no storage.
type CalcHandler struct {
	eraStyle string
}

// NewCalcHandler creates a new calc handler. eraStyle is one of
// config.EraStyleSigned or config.EraStyleBC.
func NewCalcHandler(eraStyle string) *CalcHandler {
	return &CalcHandler{eraStyle: eraStyle}
}

// NormalizeResult describes one parsed input.
type NormalizeResult struct {
	Input     string
	Kind      string
	Canonical string
	Display   string
	Earliest  string // Only for dates and date ranges
	Latest    string
	Precision string // Only for dates
	Err       error
}

// Normalize parses every input and reports its canonical form. A bad
// input is reported in its result and does not stop the others.
func (h *CalcHandler) Normalize(inputs []string) []NormalizeResult {
	results := make([]NormalizeResult, 0, len(inputs))
	for _, input := range inputs {
		res := NormalizeResult{Input: input}
		v, err := flexidate.Parse(input)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		res.Canonical = flexidate.Format(v)
		res.Display = h.Format(v)
		switch v := v.(type) {
		case flexidate.Date:
			res.Kind = KindDate
			res.Precision = v.Precision().String()
			if v.Uncertainty() != flexidate.Exact {
				res.Precision += ", " + v.Uncertainty().String()
			}
			res.Earliest = h.formatDate(v.Earliest())
			res.Latest = h.formatDate(v.Latest())
		case flexidate.DateRange:
			res.Kind = KindDateRange
			res.Earliest = h.formatDate(v.Low().Earliest())
			res.Latest = h.formatDate(v.High().Latest())
		case flexidate.TimeSpan:
			res.Kind = KindTimeSpan
		case flexidate.TimeSpanRange:
			res.Kind = KindTimeSpanRange
		}
		results = append(results, res)
	}
	return results
}

// Add shifts a date or date range by a span or span range. An uncertain
// decade that no longer lands on a decade boundary comes back as a range.
func (h *CalcHandler) Add(dateText, spanText string) (flexidate.Value, error) {
	if strings.Contains(spanText, "/") {
		spans, err := flexidate.ParseTimeSpanRange(spanText)
		if err != nil {
			return nil, err
		}
		if strings.Contains(dateText, "/") {
			r, err := flexidate.ParseDateRange(dateText)
			if err != nil {
				return nil, err
			}
			return r.AddSpanRange(spans), nil
		}
		d, err := flexidate.ParseDate(dateText)
		if err != nil {
			return nil, err
		}
		return d.AddSpanRange(spans), nil
	}

	span, err := flexidate.ParseTimeSpan(spanText)
	if err != nil {
		return nil, err
	}
	if strings.Contains(dateText, "/") {
		r, err := flexidate.ParseDateRange(dateText)
		if err != nil {
			return nil, err
		}
		return r.AddSpan(span), nil
	}
	d, err := flexidate.ParseDate(dateText)
	if err != nil {
		return nil, err
	}
	shifted := d.AddSpan(span)
	// A decade moved off its boundary is reported as the range it covers
	// rather than collapsing to a circa year.
	if d.Uncertainty() == flexidate.DecadeUncertain && shifted.Uncertainty() != flexidate.DecadeUncertain {
		return d.Range().AddSpan(span), nil
	}
	return shifted, nil
}

// Diff returns the time from one date (or range) to another. Exact
// answers are spans; anything involving a range or an uncertain decade is
// a span range.
func (h *CalcHandler) Diff(fromText, toText string) (flexidate.Value, error) {
	fromRange := strings.Contains(fromText, "/")
	toRange := strings.Contains(toText, "/")

	if !fromRange && !toRange {
		from, err := flexidate.ParseDate(fromText)
		if err != nil {
			return nil, err
		}
		to, err := flexidate.ParseDate(toText)
		if err != nil {
			return nil, err
		}
		return services.ElapsedBetween(from, to), nil
	}

	from, err := parseAsRange(fromText)
	if err != nil {
		return nil, err
	}
	to, err := parseAsRange(toText)
	if err != nil {
		return nil, err
	}
	return to.SubtractRange(from), nil
}

// Span combines two spans or span ranges. op is "add" or "sub".
func (h *CalcHandler) Span(op, aText, bText string) (flexidate.Value, error) {
	if op != "add" && op != "sub" {
		return nil, fmt.Errorf("unknown span operation %q (valid: add, sub)", op)
	}

	if !strings.Contains(aText, "/") && !strings.Contains(bText, "/") {
		a, err := flexidate.ParseTimeSpan(aText)
		if err != nil {
			return nil, err
		}
		b, err := flexidate.ParseTimeSpan(bText)
		if err != nil {
			return nil, err
		}
		if op == "add" {
			return a.Add(b), nil
		}
		return a.Sub(b), nil
	}

	a, err := parseAsSpanRange(aText)
	if err != nil {
		return nil, err
	}
	b, err := parseAsSpanRange(bText)
	if err != nil {
		return nil, err
	}
	if op == "add" {
		return a.Add(b), nil
	}
	return a.Sub(b), nil
}

// CompareResult describes how two dates relate.
type CompareResult struct {
	Order       int  // -1, 0 or +1 as in flexidate.Date.Compare
	AContainsB  bool // Every day of B is a day of A
	BContainsA  bool
	Overlapping bool
}

// Compare orders two dates and reports containment.
func (h *CalcHandler) Compare(aText, bText string) (*CompareResult, error) {
	a, err := flexidate.ParseDate(aText)
	if err != nil {
		return nil, err
	}
	b, err := flexidate.ParseDate(bText)
	if err != nil {
		return nil, err
	}
	return &CompareResult{
		Order:       a.Compare(b),
		AContainsB:  a.Contains(b),
		BContainsA:  b.Contains(a),
		Overlapping: a.Range().Overlaps(b.Range()),
	}, nil
}

// Format renders v for display, honoring the configured era style.
func (h *CalcHandler) Format(v flexidate.Value) string {
	switch v := v.(type) {
	case flexidate.Date:
		return h.formatDate(v)
	case flexidate.DateRange:
		return h.formatDate(v.Low()) + "/" + h.formatDate(v.High())
	default:
		return flexidate.Format(v)
	}
}

func (h *CalcHandler) formatDate(d flexidate.Date) string {
	return FormatDate(d, h.eraStyle)
}

// FormatDate renders d in the given era style.
func FormatDate(d flexidate.Date, eraStyle string) string {
	if eraStyle == config.EraStyleBC {
		return d.Era()
	}
	return d.String()
}

// parseAsRange reads a date range, or a single date as the range it denotes.
func parseAsRange(text string) (flexidate.DateRange, error) {
	if strings.Contains(text, "/") {
		return flexidate.ParseDateRange(text)
	}
	d, err := flexidate.ParseDate(text)
	if err != nil {
		return flexidate.DateRange{}, err
	}
	return d.Range(), nil
}

// parseAsSpanRange reads a span range, or a single span as a degenerate range.
func parseAsSpanRange(text string) (flexidate.TimeSpanRange, error) {
	if strings.Contains(text, "/") {
		return flexidate.ParseTimeSpanRange(text)
	}
	s, err := flexidate.ParseTimeSpan(text)
	if err != nil {
		return flexidate.TimeSpanRange{}, err
	}
	return flexidate.NewTimeSpanRange(s, s)
}
