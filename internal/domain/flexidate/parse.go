package flexidate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Value is any of Date, DateRange, TimeSpan or TimeSpanRange.
type Value interface {
	fmt.Stringer
	value()
}

// Parse reads any supported text form and returns the matching value:
//
//	"low/high"            DateRange, or TimeSpanRange when both sides are spans
//	"P1Y2M3D", "-P40Y"    TimeSpan
//	"41?", "41? BC"       DateRange covering the decade
//	anything else         Date (see ParseDate)
func Parse(text string) (Value, error) {
	s := strings.TrimSpace(text)
	switch {
	case strings.Contains(s, "/"):
		lo, hi, _ := strings.Cut(s, "/")
		if isSpanText(lo) && isSpanText(hi) {
			return ParseTimeSpanRange(s)
		}
		return ParseDateRange(s)
	case isSpanText(s):
		return ParseTimeSpan(s)
	case strings.Contains(s, "?"):
		d, err := ParseDate(s)
		if err != nil {
			return nil, err
		}
		return d.Range(), nil
	default:
		return ParseDate(s)
	}
}

// Format renders any Value in its canonical text form.
func Format(v Value) string {
	return v.String()
}

// ParseDate reads a single date. Accepted forms, ignoring whitespace:
//
//	[-]YYYY[-MM[-DD]]     unsigned years need at least four digits
//	N BC, N AD            explicit era, optionally with -MM[-DD]
//	N?, N? BC             decade with unknown final digit
//	ca. <date>            circa; "c." and "circa" are also accepted
//
// Two-digit unsigned years are rejected rather than guessed into a century.
func ParseDate(text string) (Date, error) {
	s := strings.Join(strings.Fields(text), "")
	if s == "" {
		return Date{}, parseErr(text, "", "empty input")
	}

	u := Exact
	if rest, ok := cutCirca(s); ok {
		u = Circa
		s = rest
	}

	era := ""
	upper := strings.ToUpper(s)
	for _, suffix := range []string{"BCE", "BC", "AD", "CE"} {
		if strings.HasSuffix(upper, suffix) {
			era = suffix
			s = s[:len(s)-len(suffix)]
			break
		}
	}
	bc := era == "BC" || era == "BCE"

	if prefix, ok := strings.CutSuffix(s, "?"); ok {
		if u == Circa {
			return Date{}, parseErr(text, "", "circa cannot be combined with an uncertain decade")
		}
		return parseDecade(text, prefix, bc, era != "")
	}

	sign, signed := 1, false
	if era == "" {
		switch {
		case strings.HasPrefix(s, "-"):
			sign, signed = -1, true
			s = s[1:]
		case strings.HasPrefix(s, "+"):
			signed = true
			s = s[1:]
		}
	}

	parts := strings.Split(s, "-")
	if len(parts) > 3 {
		return Date{}, parseErr(text, "", "too many segments")
	}

	yearText := parts[0]
	year, err := parseDigits(text, "year", yearText)
	if err != nil {
		return Date{}, err
	}
	if era == "" && !signed && len(yearText) < 4 {
		return Date{}, parseErr(text, "year", "ambiguous year %q: use four digits, a sign, or a BC/AD suffix", yearText)
	}
	if era != "" && year == 0 {
		return Date{}, parseErr(text, "year", "there is no year 0 %s", era)
	}
	if bc || sign < 0 {
		year = -year
	}

	var month, day int
	if len(parts) > 1 {
		if month, err = parseField(text, "month", parts[1]); err != nil {
			return Date{}, err
		}
	}
	if len(parts) > 2 {
		if day, err = parseField(text, "day", parts[2]); err != nil {
			return Date{}, err
		}
	}

	d, err := NewDate(year, time.Month(month), day, u)
	if err != nil {
		return Date{}, asParseError(text, err)
	}
	return d, nil
}

func parseDecade(text, prefix string, bc, hasEra bool) (Date, error) {
	if strings.HasPrefix(prefix, "-") && !hasEra {
		bc = true
		prefix = prefix[1:]
	}
	p, err := parseDigits(text, "decade", prefix)
	if err != nil {
		return Date{}, err
	}
	if p > MaxYear/10 {
		return Date{}, parseErr(text, "decade", "out of supported range")
	}
	return decade(p, bc), nil
}

// cutCirca strips a leading circa marker.
func cutCirca(s string) (string, bool) {
	lower := strings.ToLower(s)
	for _, prefix := range []string{"circa", "ca.", "c.", "~"} {
		if strings.HasPrefix(lower, prefix) {
			return s[len(prefix):], true
		}
	}
	return s, false
}

func parseDigits(text, field, s string) (int, error) {
	if s == "" {
		return 0, parseErr(text, field, "missing")
	}
	if len(s) > 9 {
		return 0, parseErr(text, field, "too many digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, parseErr(text, field, "%q is not a number", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, parseErr(text, field, "%v", err)
	}
	return n, nil
}

// parseField reads a one or two digit month or day.
func parseField(text, field, s string) (int, error) {
	if len(s) > 2 {
		return 0, parseErr(text, field, "%q has too many digits", s)
	}
	n, err := parseDigits(text, field, s)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, parseErr(text, field, "must not be zero")
	}
	return n, nil
}

// asParseError reports a constructor failure against the input text.
func asParseError(text string, err error) error {
	var re *RangeError
	if errors.As(err, &re) {
		return &ParseError{Text: text, Field: re.Field, Message: re.Message}
	}
	return err
}

// ParseDateRange reads "low/high" where each side is a date.
func ParseDateRange(text string) (DateRange, error) {
	lo, hi, ok := strings.Cut(text, "/")
	if !ok || strings.Contains(hi, "/") {
		return DateRange{}, parseErr(text, "", "expected low/high")
	}
	low, err := ParseDate(lo)
	if err != nil {
		return DateRange{}, err
	}
	high, err := ParseDate(hi)
	if err != nil {
		return DateRange{}, err
	}
	r, err := NewDateRange(low, high)
	if err != nil {
		return DateRange{}, asParseError(text, err)
	}
	return r, nil
}

// isSpanText reports whether s looks like a duration rather than a date.
func isSpanText(s string) bool {
	s = strings.TrimLeft(strings.TrimSpace(s), "+-")
	return strings.HasPrefix(s, "P") || strings.HasPrefix(s, "p")
}

// ParseTimeSpan reads an ISO 8601 style duration with Y, M, W and D
// components, in that order. A leading sign applies to every component
// and each component may carry its own sign: "-P40Y", "P1Y-2M", "P2W".
// Weeks are folded into days.
func ParseTimeSpan(text string) (TimeSpan, error) {
	s := strings.ToUpper(strings.Join(strings.Fields(text), ""))
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	body, ok := strings.CutPrefix(s, "P")
	if !ok {
		return TimeSpan{}, parseErr(text, "span", "must start with P")
	}
	if body == "" {
		return TimeSpan{}, parseErr(text, "span", "no components")
	}

	var span TimeSpan
	order := "YMWD"
	last := -1
	for body != "" {
		i := 0
		if body[0] == '-' || body[0] == '+' {
			i = 1
		}
		for i < len(body) && body[i] >= '0' && body[i] <= '9' {
			i++
		}
		if i == len(body) {
			return TimeSpan{}, parseErr(text, "span", "component %q has no unit", body)
		}
		unit := body[i]
		pos := strings.IndexByte(order, unit)
		if pos < 0 {
			return TimeSpan{}, parseErr(text, "span", "unknown unit %q", string(unit))
		}
		if pos <= last {
			return TimeSpan{}, parseErr(text, "span", "unit %q out of order", string(unit))
		}
		last = pos

		numText := body[:i]
		sign := 1
		if numText != "" && (numText[0] == '-' || numText[0] == '+') {
			if numText[0] == '-' {
				sign = -1
			}
			numText = numText[1:]
		}
		n, err := parseDigits(text, "span", numText)
		if err != nil {
			return TimeSpan{}, err
		}
		n *= sign

		switch unit {
		case 'Y':
			span.Years = n
		case 'M':
			span.Months = n
		case 'W':
			span.Days += 7 * n
		case 'D':
			span.Days += n
		}
		body = body[i+1:]
	}

	if neg {
		span = span.Negate()
	}
	return span, nil
}

// ParseTimeSpanRange reads "low/high" where each side is a span.
func ParseTimeSpanRange(text string) (TimeSpanRange, error) {
	lo, hi, ok := strings.Cut(text, "/")
	if !ok || strings.Contains(hi, "/") {
		return TimeSpanRange{}, parseErr(text, "", "expected low/high")
	}
	low, err := ParseTimeSpan(lo)
	if err != nil {
		return TimeSpanRange{}, err
	}
	high, err := ParseTimeSpan(hi)
	if err != nil {
		return TimeSpanRange{}, err
	}
	r, err := NewTimeSpanRange(low, high)
	if err != nil {
		return TimeSpanRange{}, asParseError(text, err)
	}
	return r, nil
}
