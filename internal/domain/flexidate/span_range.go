package flexidate

// TimeSpanRange is a closed interval of spans for durations known only
// within bounds.
type TimeSpanRange struct {
	low  TimeSpan
	high TimeSpan
}

// NewTimeSpanRange builds a range, failing if low sorts after high.
func NewTimeSpanRange(low, high TimeSpan) (TimeSpanRange, error) {
	if low.Compare(high) > 0 {
		return TimeSpanRange{}, &RangeError{
			Field:   "span range",
			Value:   low.String() + "/" + high.String(),
			Message: "low bound is after high bound",
		}
	}
	return TimeSpanRange{low: low, high: high}, nil
}

// Low returns the smaller bound.
func (r TimeSpanRange) Low() TimeSpan { return r.low }

// High returns the larger bound.
func (r TimeSpanRange) High() TimeSpan { return r.high }

// Contains reports whether low <= s <= high.
func (r TimeSpanRange) Contains(s TimeSpan) bool {
	return r.low.Compare(s) <= 0 && s.Compare(r.high) <= 0
}

// Add returns [a+c, b+d] for [a,b] + [c,d].
func (r TimeSpanRange) Add(o TimeSpanRange) TimeSpanRange {
	return TimeSpanRange{low: r.low.Add(o.low), high: r.high.Add(o.high)}
}

// Sub returns [a-d, b-c] for [a,b] - [c,d], which bounds every difference
// of a span in r and a span in o.
func (r TimeSpanRange) Sub(o TimeSpanRange) TimeSpanRange {
	return TimeSpanRange{low: r.low.Sub(o.high), high: r.high.Sub(o.low)}
}

// String formats the range as "low/high".
func (r TimeSpanRange) String() string {
	return r.low.String() + "/" + r.high.String()
}

func (TimeSpanRange) value() {}

// spanningSpans returns the smallest range holding every span in ss.
func spanningSpans(ss ...TimeSpan) TimeSpanRange {
	r := TimeSpanRange{low: ss[0], high: ss[0]}
	for _, s := range ss[1:] {
		if s.Compare(r.low) < 0 {
			r.low = s
		}
		if s.Compare(r.high) > 0 {
			r.high = s
		}
	}
	return r
}
