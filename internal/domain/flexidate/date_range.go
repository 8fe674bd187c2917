package flexidate

// DateRange is a closed interval of dates: sometime between Low and High.
type DateRange struct {
	low  Date
	high Date
}

// NewDateRange builds a range, failing if low sorts after high.
func NewDateRange(low, high Date) (DateRange, error) {
	if low.Compare(high) > 0 {
		return DateRange{}, &RangeError{
			Field:   "range",
			Value:   low.String() + "/" + high.String(),
			Message: "low bound is after high bound",
		}
	}
	return DateRange{low: low, high: high}, nil
}

// FromUncertainYear returns the ten years denoted by a decade prefix.
// A non-negative prefix p covers years 10p..10p+9; a negative prefix -p
// covers the BC decade -(10p+9)..-10p, so -41 ("41? BC") is -419..-410.
func FromUncertainYear(prefix int) DateRange {
	if prefix < 0 {
		return decade(-prefix, true).Range()
	}
	return decade(prefix, false).Range()
}

// Low returns the earlier bound.
func (r DateRange) Low() Date { return r.low }

// High returns the later bound.
func (r DateRange) High() Date { return r.high }

// Contains reports whether low <= d <= high.
func (r DateRange) Contains(d Date) bool {
	return r.low.Compare(d) <= 0 && d.Compare(r.high) <= 0
}

// Overlaps reports whether any day of r is also a day of other.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.low.earliest().compare(other.high.latest()) <= 0 &&
		other.low.earliest().compare(r.high.latest()) <= 0
}

// AddSpan shifts both bounds by s.
func (r DateRange) AddSpan(s TimeSpan) DateRange {
	return spanningDates(r.low.AddSpan(s), r.high.AddSpan(s))
}

// AddSpanRange shifts r by every span in sr and returns the bounds of the results.
func (r DateRange) AddSpanRange(sr TimeSpanRange) DateRange {
	return spanningDates(
		r.low.AddSpan(sr.low), r.low.AddSpan(sr.high),
		r.high.AddSpan(sr.low), r.high.AddSpan(sr.high),
	)
}

// SubtractDate returns the spans from d to each bound.
func (r DateRange) SubtractDate(d Date) TimeSpanRange {
	return spanningSpans(r.low.Sub(d), r.high.Sub(d))
}

// SubtractRange returns the spans between any date of other and any date of r.
func (r DateRange) SubtractRange(other DateRange) TimeSpanRange {
	return spanningSpans(
		r.low.Sub(other.low), r.low.Sub(other.high),
		r.high.Sub(other.low), r.high.Sub(other.high),
	)
}

// String formats the range as "low/high".
func (r DateRange) String() string {
	return r.low.String() + "/" + r.high.String()
}

func (DateRange) value() {}

// spanningDates returns the smallest range holding every date in ds.
func spanningDates(ds ...Date) DateRange {
	r := DateRange{low: ds[0], high: ds[0]}
	for _, d := range ds[1:] {
		if d.Compare(r.low) < 0 {
			r.low = d
		}
		if d.Compare(r.high) > 0 {
			r.high = d
		}
	}
	return r
}
