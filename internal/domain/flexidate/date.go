package flexidate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxYear bounds the magnitude of years accepted by constructors and parsers.
const MaxYear = 999_999_999

// Date is a calendar date that may be BC, partially specified, and
// approximate. The zero value is the exact year 0 (1 BC).
//
// Which of Month and Day are meaningful is governed by Precision; both
// accessors report presence so callers handle every precision.
type Date struct {
	// year holds the first year of the decade for DecadeUncertain values.
	year        int
	month       time.Month
	day         int
	precision   Precision
	uncertainty Uncertainty
}

// NewDate builds a Date. A zero month or day means the field is absent and
// precision is inferred from what is present.
//
// For DecadeUncertain, year is the known decade prefix (41 for "41?"); a
// negative prefix denotes a BC decade.
func NewDate(year int, month time.Month, day int, u Uncertainty) (Date, error) {
	if year > MaxYear || year < -MaxYear {
		return Date{}, &RangeError{Field: "year", Value: strconv.Itoa(year), Message: "out of supported range"}
	}
	if u < Exact || u > DecadeUncertain {
		return Date{}, &RangeError{Field: "uncertainty", Value: strconv.Itoa(int(u)), Message: "unknown uncertainty"}
	}
	if day != 0 && month == 0 {
		return Date{}, &RangeError{Field: "day", Value: strconv.Itoa(day), Message: "day given without month"}
	}
	if month != 0 && (month < time.January || month > time.December) {
		return Date{}, &RangeError{Field: "month", Value: strconv.Itoa(int(month)), Message: "must be between 1 and 12"}
	}

	if u == DecadeUncertain {
		if month != 0 {
			return Date{}, &RangeError{Field: "month", Value: strconv.Itoa(int(month)), Message: "decade-uncertain dates are year precision"}
		}
		if year < 0 {
			return decade(-year, true), nil
		}
		return decade(year, false), nil
	}

	d := Date{year: year, uncertainty: u, precision: PrecisionYear}
	if month != 0 {
		d.month = month
		d.precision = PrecisionYearMonth
	}
	if day != 0 {
		if n := DaysIn(year, month); day < 1 || day > n {
			return Date{}, &RangeError{Field: "day", Value: strconv.Itoa(day), Message: fmt.Sprintf("must be between 1 and %d", n)}
		}
		d.day = day
		d.precision = PrecisionYearMonthDay
	}
	return d, nil
}

// Year returns an exact year-precision Date.
func Year(year int) (Date, error) {
	return NewDate(year, 0, 0, Exact)
}

// YearMonth returns an exact year+month Date.
func YearMonth(year int, month time.Month) (Date, error) {
	return NewDate(year, month, 0, Exact)
}

// YMD returns an exact, fully specified Date.
func YMD(year int, month time.Month, day int) (Date, error) {
	return NewDate(year, month, day, Exact)
}

// decade builds the DecadeUncertain date for prefix in the given era.
func decade(prefix int, bc bool) Date {
	start := prefix * 10
	if bc {
		start = -(prefix*10 + 9)
	}
	return Date{year: start, precision: PrecisionYear, uncertainty: DecadeUncertain}
}

// isDecadeStart reports whether y opens one of the decades "N?" or "N? BC".
func isDecadeStart(y int) bool {
	if y >= 0 {
		return y%10 == 0
	}
	return (-y-9)%10 == 0
}

// decadePrefix returns the known digits of a decade starting at start.
func decadePrefix(start int) (prefix int, bc bool) {
	if start >= 0 {
		return start / 10, false
	}
	return (-start - 9) / 10, true
}

// Year returns the year. For DecadeUncertain values it returns the signed
// decade prefix (-41 for "41? BC"); use Earliest for the first year.
func (d Date) Year() int {
	if d.uncertainty == DecadeUncertain {
		p, bc := decadePrefix(d.year)
		if bc {
			return -p
		}
		return p
	}
	return d.year
}

// Month returns the month and whether the date carries one.
func (d Date) Month() (time.Month, bool) {
	return d.month, d.precision >= PrecisionYearMonth
}

// Day returns the day of month and whether the date carries one.
func (d Date) Day() (int, bool) {
	return d.day, d.precision == PrecisionYearMonthDay
}

// Precision returns how finely the date is specified.
func (d Date) Precision() Precision { return d.precision }

// Uncertainty returns the date's uncertainty qualifier.
func (d Date) Uncertainty() Uncertainty { return d.uncertainty }

// IsBC reports whether every day the date denotes precedes year 1.
func (d Date) IsBC() bool {
	return d.latest().year < 1
}

// bounds returns the first and last calendar day consistent with d.
func (d Date) bounds() (civil, civil) {
	switch d.precision {
	case PrecisionYearMonthDay:
		c := civil{year: d.year, month: d.month, day: d.day}
		return c, c
	case PrecisionYearMonth:
		return civil{year: d.year, month: d.month, day: 1},
			civil{year: d.year, month: d.month, day: DaysIn(d.year, d.month)}
	default:
		last := d.year
		if d.uncertainty == DecadeUncertain {
			last += 9
		}
		return civil{year: d.year, month: time.January, day: 1},
			civil{year: last, month: time.December, day: 31}
	}
}

func (d Date) earliest() civil {
	lo, _ := d.bounds()
	return lo
}

func (d Date) latest() civil {
	_, hi := d.bounds()
	return hi
}

// Earliest returns the first day consistent with d as an exact day-precision date.
func (d Date) Earliest() Date {
	return fromCivil(d.earliest())
}

// Latest returns the last day consistent with d as an exact day-precision date.
func (d Date) Latest() Date {
	return fromCivil(d.latest())
}

func fromCivil(c civil) Date {
	return Date{year: c.year, month: c.month, day: c.day, precision: PrecisionYearMonthDay}
}

// truncate reduces c to precision p with uncertainty u.
func truncate(c civil, p Precision, u Uncertainty) Date {
	d := Date{year: c.year, precision: p, uncertainty: u}
	if p >= PrecisionYearMonth {
		d.month = c.month
	}
	if p == PrecisionYearMonthDay {
		d.day = c.day
	}
	return d
}

// Compare orders dates by the earliest day they denote, then by the latest
// day, then by precision and uncertainty. It returns 0 only for
// structurally identical dates.
func (d Date) Compare(other Date) int {
	dlo, dhi := d.bounds()
	olo, ohi := other.bounds()
	if c := dlo.compare(olo); c != 0 {
		return c
	}
	if c := dhi.compare(ohi); c != 0 {
		return c
	}
	if c := compareInt(int(d.precision), int(other.precision)); c != 0 {
		return c
	}
	return compareInt(int(d.uncertainty), int(other.uncertainty))
}

// Equal reports structural equality.
func (d Date) Equal(other Date) bool { return d == other }

// Before reports whether d sorts before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d sorts after other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Contains reports whether every day other denotes is also denoted by d.
// It is independent of Compare: 2020 contains 2020-05-01 but is not equal to it.
func (d Date) Contains(other Date) bool {
	dlo, dhi := d.bounds()
	olo, ohi := other.bounds()
	return dlo.compare(olo) <= 0 && ohi.compare(dhi) <= 0
}

// Range returns the interval d denotes. A decade-uncertain date expands to
// its ten years; any other date is the degenerate range [d, d].
func (d Date) Range() DateRange {
	if d.uncertainty == DecadeUncertain {
		return DateRange{
			low:  Date{year: d.year, precision: PrecisionYear},
			high: Date{year: d.year + 9, precision: PrecisionYear},
		}
	}
	return DateRange{low: d, high: d}
}

// AddSpan shifts d by s. Years are applied first, then months, then days,
// each step rolling any day overflow forward before the next. A date coarser than a day
// is anchored at its first day and the result is reduced back to the same
// precision. A decade shifted off a decade boundary becomes a circa year.
func (d Date) AddSpan(s TimeSpan) Date {
	c := shiftYearsMonths(d.earliest(), s.Years, s.Months)
	if s.Days != 0 {
		c = unitDay.apply(c, s.Days)
	}

	if d.uncertainty == DecadeUncertain {
		if s.Months == 0 && s.Days == 0 && isDecadeStart(c.year) {
			return Date{year: c.year, precision: PrecisionYear, uncertainty: DecadeUncertain}
		}
		return truncate(c, PrecisionYear, Circa)
	}

	r := truncate(c, d.precision, d.uncertainty)
	if r.month < 0 || r.month > time.December || r.day < 0 || r.day > 31 {
		panic(fmt.Sprintf("flexidate: normalisation produced %d-%d-%d", r.year, r.month, r.day))
	}
	return r
}

// AddSpanRange shifts d by every span in r and returns the bounds of the results.
func (d Date) AddSpanRange(r TimeSpanRange) DateRange {
	return d.Range().AddSpanRange(r)
}

// Sub returns the span s such that other.AddSpan(s) equals d when both are
// day-precision. Whole months are taken first, split into years and months
// sharing one sign, and the remainder is expressed in days. Coarser dates
// are measured between their earliest days.
func (d Date) Sub(other Date) TimeSpan {
	to := d.earliest()
	from := other.earliest()
	target := to.dayNumber()

	months := (to.year-from.year)*12 + int(to.month) - int(from.month)
	at := func(n int) int { return shiftYearsMonths(from, n/12, n%12).dayNumber() }

	if target >= from.dayNumber() {
		for months > 0 && at(months) > target {
			months--
		}
		for at(months+1) <= target {
			months++
		}
	} else {
		for months < 0 && at(months) < target {
			months++
		}
		for at(months-1) >= target {
			months--
		}
	}

	return TimeSpan{
		Years:  months / 12,
		Months: months % 12,
		Days:   target - at(months),
	}
}

// String formats d in its canonical text form, the inverse of ParseDate.
func (d Date) String() string {
	var b strings.Builder
	if d.uncertainty == DecadeUncertain {
		p, bc := decadePrefix(d.year)
		b.WriteString(strconv.Itoa(p))
		b.WriteByte('?')
		if bc {
			b.WriteString(" BC")
		}
		return b.String()
	}

	if d.uncertainty == Circa {
		b.WriteString("ca. ")
	}
	b.WriteString(formatYear(d.year))
	if d.precision >= PrecisionYearMonth {
		fmt.Fprintf(&b, "-%02d", int(d.month))
	}
	if d.precision == PrecisionYearMonthDay {
		fmt.Fprintf(&b, "-%02d", d.day)
	}
	return b.String()
}

// Format is an alias for String.
func (d Date) Format() string { return d.String() }

// Era renders d with a BC suffix instead of a sign for years before 1,
// e.g. "44 BC" or "ca. 0753-04 BC". AD dates render as String does.
func (d Date) Era() string {
	if d.uncertainty == DecadeUncertain || d.year >= 0 {
		return d.String()
	}
	neg := d
	neg.year = -d.year
	s := neg.String()
	if d.precision == PrecisionYear {
		s = strings.Replace(s, formatYear(-d.year), strconv.Itoa(-d.year), 1)
	}
	return s + " BC"
}

func formatYear(y int) string {
	if y < 0 {
		return fmt.Sprintf("-%04d", -y)
	}
	return fmt.Sprintf("%04d", y)
}

func (Date) value() {}
