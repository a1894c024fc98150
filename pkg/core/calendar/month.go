// Package calendar provides the month arithmetic used by the cash-flow projection.
// Day-of-month is never significant: every date is bucketed to its calendar month.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical "YYYY-MM" rendering of a Month.
const Layout = "2006-01"

// Month identifies a calendar month as a count of months since January of year 0.
// The integer form gives a total order and makes "add N months" plain addition.
type Month int

// NewMonth builds a Month from a year and a time.Month.
func NewMonth(year int, m time.Month) Month {
	return Month(year*12 + int(m) - 1)
}

// MonthOf buckets a time to its calendar month.
func MonthOf(t time.Time) Month {
	return NewMonth(t.Year(), t.Month())
}

// ParseMonth accepts "YYYY-MM" or a full "YYYY-MM-DD" date.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{Layout, "2006-01-02", time.RFC3339, "2006/01", "01/2006", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return MonthOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
}

// MustParseMonth is like ParseMonth but panics on malformed input. Intended for tables and tests.
func MustParseMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Year returns the calendar year.
func (m Month) Year() int {
	return floorDiv(int(m), 12)
}

// Month returns the month of the year.
func (m Month) Month() time.Month {
	return time.Month(int(m)-m.Year()*12) + 1
}

// AddMonths shifts the month by n (n may be negative).
func (m Month) AddMonths(n int) Month {
	return m + Month(n)
}

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool { return m < o }

// After reports whether m is strictly later than o.
func (m Month) After(o Month) bool { return m > o }

// Time returns the first day of the month at midnight UTC, the anchor used for offset arithmetic.
func (m Month) Time() time.Time {
	return time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year(), int(m.Month()))
}

// MarshalText renders the month as "YYYY-MM" so it can be used as a JSON value or map key.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses "YYYY-MM" (or a full date).
func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML implements yaml.v2's Marshaler.
func (m Month) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// UnmarshalYAML implements yaml.v2's Unmarshaler.
func (m *Month) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return m.UnmarshalText([]byte(s))
}

// Min returns the earlier month.
func Min(a, b Month) Month {
	if a < b {
		return a
	}
	return b
}

// Max returns the later month.
func Max(a, b Month) Month {
	if a > b {
		return a
	}
	return b
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
