package core

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day, held at naive UTC midnight. The business
// operates in a single fixed-offset time zone; Date carries no zone of
// its own and is interpreted against a configured offset when resolved
// to instants.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Key returns the ISO day string used for grouping.
func (d Date) Key() string {
	return d.Format(DateLayout)
}

// DayBounds resolves a calendar date to the inclusive UTC instant range
// covering that local day under the given fixed UTC offset. A negative
// offset (behind UTC, e.g. -5h) shifts the window forward: local
// midnight of 2024-03-15 at -5h is 2024-03-15T05:00:00Z, and the local
// end of day is 2024-03-16T04:59:59.999Z. With a zero offset the
// bounds degenerate to naive UTC midnight and end of day.
func DayBounds(d Date, offset time.Duration) (start, end time.Time) {
	year, month, day := d.Date()
	start = time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Add(-offset)
	end = time.Date(year, month, day, 23, 59, 59, int(999*time.Millisecond), time.UTC).Add(-offset)
	return start, end
}

// MonthBounds resolves (year, month) to the inclusive UTC instant range
// covering the whole local month. The last calendar day comes from the
// day-zero-of-next-month normalization.
func MonthBounds(year, month int, offset time.Duration) (start, end time.Time) {
	first := NewDate(year, month, 1)
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	last := NewDate(year, month, lastDay)
	start, _ = DayBounds(first, offset)
	_, end = DayBounds(last, offset)
	return start, end
}

// LocalDayKey maps a UTC instant to the ISO day it falls on in the
// fixed-offset local calendar. Inverse of DayBounds: every instant
// within DayBounds(d, offset) maps back to d.Key().
func LocalDayKey(t time.Time, offset time.Duration) string {
	return t.UTC().Add(offset).Format(DateLayout)
}

// ValidMonth reports whether m is a calendar month number.
func ValidMonth(m int) bool {
	return m >= 1 && m <= 12
}
