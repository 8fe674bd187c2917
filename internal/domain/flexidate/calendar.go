package flexidate

import "time"

// civil is a fully specified proleptic Gregorian calendar day.
type civil struct {
	year  int
	month time.Month
	day   int
}

// IsLeapYear reports whether year is a leap year in the proleptic Gregorian
// calendar with astronomical numbering (year 0 is a leap year).
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// dayNumber returns the days since 1970-01-01 for c. Valid for any year.
func (c civil) dayNumber() int {
	y := c.year
	m := int(c.month)
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + c.day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// civilFromDayNumber is the inverse of dayNumber.
func civilFromDayNumber(n int) civil {
	n += 719468
	era := floorDiv(n, 146097)
	doe := n - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if m > 12 {
		m -= 12
	}
	if m <= 2 {
		y++
	}
	return civil{year: y, month: time.Month(m), day: d}
}

func (c civil) compare(o civil) int {
	return compareInt(c.dayNumber(), o.dayNumber())
}

// unit is a calendar unit a span component is expressed in.
type unit int

const (
	unitYear unit = iota
	unitMonth
	unitDay
)

// shiftYearsMonths applies a year shift and then a month shift as two
// separate steps, so 2020-02-29 plus one year settles on 2021-03-01 before
// any months are added.
func shiftYearsMonths(c civil, years, months int) civil {
	if years != 0 {
		c = unitYear.apply(c, years)
	}
	if months != 0 {
		c = unitMonth.apply(c, months)
	}
	return c
}

// apply shifts c by n of the unit and normalises the result. Year and month
// shifts carry month overflow into the year and roll a day past the end of
// the target month into the following month; day shifts are exact.
func (u unit) apply(c civil, n int) civil {
	switch u {
	case unitYear:
		return unitMonth.apply(c, n*12)
	case unitMonth:
		total := c.year*12 + int(c.month) - 1 + n
		shifted := civil{year: floorDiv(total, 12), month: time.Month(floorMod(total, 12) + 1), day: 1}
		return civilFromDayNumber(shifted.dayNumber() + c.day - 1)
	case unitDay:
		return civilFromDayNumber(c.dayNumber() + n)
	default:
		panic("flexidate: unknown unit")
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
