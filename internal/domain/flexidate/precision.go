// Package flexidate implements calendar dates that may fall before year 1,
// carry partial precision, and be approximate or partially unknown.
//
// Years use astronomical numbering: year 0 is 1 BC and leap years follow the
// proleptic Gregorian rule extended arithmetically to negative years.
//
// All values are immutable; every operation returns a new value and is safe
// for concurrent use.
package flexidate

import (
	"fmt"
	"strings"
)

// Precision is the coarsest calendar unit a Date is specified to.
type Precision int

const (
	PrecisionYear Precision = iota
	PrecisionYearMonth
	PrecisionYearMonthDay
)

func (p Precision) String() string {
	switch p {
	case PrecisionYear:
		return "year"
	case PrecisionYearMonth:
		return "year-month"
	case PrecisionYearMonthDay:
		return "year-month-day"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// ParsePrecision converts the String form back to a Precision.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "year":
		return PrecisionYear, nil
	case "year-month":
		return PrecisionYearMonth, nil
	case "year-month-day", "day":
		return PrecisionYearMonthDay, nil
	}
	return 0, parseErr(s, "precision", "unknown precision")
}

// Uncertainty qualifies how reliable a Date is, independent of its precision.
type Uncertainty int

const (
	// Exact dates are known to their stated precision.
	Exact Uncertainty = iota
	// Circa dates are approximate ("ca.").
	Circa
	// DecadeUncertain dates have an unknown trailing year digit ("41?").
	DecadeUncertain
)

func (u Uncertainty) String() string {
	switch u {
	case Exact:
		return "exact"
	case Circa:
		return "circa"
	case DecadeUncertain:
		return "decade"
	default:
		return fmt.Sprintf("Uncertainty(%d)", int(u))
	}
}

// ParseUncertainty converts the String form back to an Uncertainty.
func ParseUncertainty(s string) (Uncertainty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return Exact, nil
	case "circa", "ca", "ca.":
		return Circa, nil
	case "decade", "decade-uncertain":
		return DecadeUncertain, nil
	}
	return 0, parseErr(s, "uncertainty", "unknown uncertainty")
}
