package flexidate

import (
	"database/sql/driver"
	"fmt"
)

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Value implements driver.Valuer, storing the canonical text.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	default:
		return fmt.Errorf("flexidate: cannot scan %T into Date", src)
	}
}

// DayKeys returns the first and last day d denotes, counted from
// 1970-01-01. Sorting by them agrees with Compare on the first two keys,
// which lets stores order and filter dates without parsing them.
func (d Date) DayKeys() (earliest, latest int) {
	lo, hi := d.bounds()
	return lo.dayNumber(), hi.dayNumber()
}

// MarshalText implements encoding.TextMarshaler.
func (r DateRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *DateRange) UnmarshalText(b []byte) error {
	v, err := ParseDateRange(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s TimeSpan) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TimeSpan) UnmarshalText(b []byte) error {
	v, err := ParseTimeSpan(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (r TimeSpanRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *TimeSpanRange) UnmarshalText(b []byte) error {
	v, err := ParseTimeSpanRange(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
