package flexidate

import (
	"fmt"
	"strings"
)

// TimeSpan is a calendar duration. Components are never folded into one
// another: 30 days is not a month and 12 months is not a year, because the
// real length of each depends on where the span is applied.
type TimeSpan struct {
	Years  int
	Months int
	Days   int
}

// NewTimeSpan builds a span.
func NewTimeSpan(years, months, days int) TimeSpan {
	return TimeSpan{Years: years, Months: months, Days: days}
}

// Years returns a span of n years.
func Years(n int) TimeSpan { return TimeSpan{Years: n} }

// Negate returns the span pointing the other way.
func (s TimeSpan) Negate() TimeSpan {
	return TimeSpan{Years: -s.Years, Months: -s.Months, Days: -s.Days}
}

// Add returns the componentwise sum.
func (s TimeSpan) Add(o TimeSpan) TimeSpan {
	return TimeSpan{Years: s.Years + o.Years, Months: s.Months + o.Months, Days: s.Days + o.Days}
}

// Sub returns the componentwise difference.
func (s TimeSpan) Sub(o TimeSpan) TimeSpan {
	return s.Add(o.Negate())
}

// IsZero reports whether every component is zero.
func (s TimeSpan) IsZero() bool { return s == TimeSpan{} }

// Compare orders spans lexicographically by years, months, then days.
// This is an approximation: it does not know that 1 year and 365 days are
// close, only that 1 year sorts after any span of 0 years.
func (s TimeSpan) Compare(o TimeSpan) int {
	if c := compareInt(s.Years, o.Years); c != 0 {
		return c
	}
	if c := compareInt(s.Months, o.Months); c != 0 {
		return c
	}
	return compareInt(s.Days, o.Days)
}

// String formats s as an ISO 8601 style duration: P1Y2M3D, -P1Y, P1Y-2M, P0D.
func (s TimeSpan) String() string {
	if s.IsZero() {
		return "P0D"
	}
	if s.Years <= 0 && s.Months <= 0 && s.Days <= 0 {
		return "-" + s.Negate().String()
	}
	var b strings.Builder
	b.WriteByte('P')
	if s.Years != 0 {
		fmt.Fprintf(&b, "%dY", s.Years)
	}
	if s.Months != 0 {
		fmt.Fprintf(&b, "%dM", s.Months)
	}
	if s.Days != 0 {
		fmt.Fprintf(&b, "%dD", s.Days)
	}
	return b.String()
}

func (TimeSpan) value() {}
