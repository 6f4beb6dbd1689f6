package value

import (
	"fmt"
	"strconv"
	"time"
)

// NanosInDay is the length of a civil day in nanoseconds.
const NanosInDay = 24 * 60 * 60 * 1_000_000_000

// Clock splits the time of day into hour, minute, second and nanosecond
// components.
func (v Time) Clock() (h, m, s, ns int64) {
	d := v.Duration
	h = int64(d / time.Hour)
	d -= time.Duration(h) * time.Hour
	m = int64(d / time.Minute)
	d -= time.Duration(m) * time.Minute
	s = int64(d / time.Second)
	ns = int64(d - time.Duration(s)*time.Second)
	return h, m, s, ns
}

// Clock splits the sub-day part of the interval into hour, minute, second
// and nanosecond magnitudes. The sign of the clock part is Nanos < 0; the
// Months and Days components carry their own signs.
func (v Interval) Clock() (h, m, s, ns int64) {
	n := v.Nanos
	if n < 0 {
		n = -n
	}
	h = n / int64(time.Hour)
	n -= h * int64(time.Hour)
	m = n / int64(time.Minute)
	n -= m * int64(time.Minute)
	s = n / int64(time.Second)
	ns = n - s*int64(time.Second)
	return h, m, s, ns
}

// IsZero reports whether every component of the interval is zero.
func (v Interval) IsZero() bool {
	return v.Months == 0 && v.Days == 0 && v.Nanos == 0
}

// Time returns the date at midnight UTC. The zero Date yields the zero
// time.Time.
func (v Date) Time() time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.Date(int(v.Year), time.Month(v.Month), int(v.Day), 0, 0, 0, 0, time.UTC)
}

// DateOf extracts the calendar date from t.
func DateOf(t time.Time) Date {
	y, mo, d := t.Date()
	return Date{Year: int32(y), Month: uint8(mo), Day: uint8(d), Valid: true}
}

// TimeOfDay extracts the time of day from t as a duration since midnight.
func TimeOfDay(t time.Time) Time {
	h, m, s := t.Clock()
	d := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
	return Time{Duration: d, Valid: true}
}

// ClockString formats clock components as "HH:MM:SS.f". The fraction is
// always present: trailing zeros are trimmed down to a single digit, so a
// whole second renders as ".0" and seven milliseconds as ".007".
func ClockString(h, m, s, ns int64) string {
	frac := strconv.FormatInt(1_000_000_000+ns, 10)[1:]
	end := len(frac)
	for end > 1 && frac[end-1] == '0' {
		end--
	}
	return fmt.Sprintf("%02d:%02d:%02d.%s", h, m, s, frac[:end])
}
