package value

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// scanner is a cursor over an input string for the hand-rolled grammars
// below. All methods are byte oriented; the grammars are ASCII.
type scanner struct {
	s string
	i int
}

func (sc *scanner) done() bool {
	return sc.i >= len(sc.s)
}

func (sc *scanner) peek() byte {
	if sc.done() {
		return 0
	}
	return sc.s[sc.i]
}

func (sc *scanner) skipSpace() {
	for !sc.done() && (sc.s[sc.i] == ' ' || sc.s[sc.i] == '\t') {
		sc.i++
	}
}

// consumeWhile advances the cursor as long as pred holds and returns the
// consumed run.
func (sc *scanner) consumeWhile(pred func(byte) bool) string {
	start := sc.i
	for !sc.done() && pred(sc.s[sc.i]) {
		sc.i++
	}
	return sc.s[start:sc.i]
}

// consumeSign consumes at most one leading sign and reports -1 for minus,
// +1 otherwise.
func (sc *scanner) consumeSign() int64 {
	switch sc.peek() {
	case '-':
		sc.i++
		return -1
	case '+':
		sc.i++
		return 1
	}
	return 1
}

// extractNumber consumes an unsigned digit run.
func (sc *scanner) extractNumber() (int64, bool) {
	digits := sc.consumeWhile(isDigit)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// fractionNanos interprets a run of fractional-second digits. The digit
// count selects the magnitude: up to three digits are milliseconds, up to
// six microseconds, up to nine nanoseconds, with right padding inside each
// three-digit group.
func fractionNanos(digits string) (int64, bool) {
	if digits == "" || len(digits) > 9 {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	for pad := 9 - len(digits); pad > 0; pad-- {
		n *= 10
	}
	return n, true
}

// intervalUnits maps every accepted unit word to its month and nanosecond
// weight. There is deliberately no bare "m": it would be ambiguous between
// months and minutes.
var intervalUnits = map[string]struct {
	months int64
	nanos  int64
}{
	"y": {months: 12}, "year": {months: 12}, "years": {months: 12},
	"mon": {months: 1}, "mons": {months: 1}, "month": {months: 1}, "months": {months: 1},
	"d": {nanos: -1}, "day": {nanos: -1}, "days": {nanos: -1},
	"h": {nanos: int64(time.Hour)}, "hour": {nanos: int64(time.Hour)}, "hours": {nanos: int64(time.Hour)},
	"min": {nanos: int64(time.Minute)}, "mins": {nanos: int64(time.Minute)},
	"minute": {nanos: int64(time.Minute)}, "minutes": {nanos: int64(time.Minute)},
	"s": {nanos: int64(time.Second)}, "sec": {nanos: int64(time.Second)}, "secs": {nanos: int64(time.Second)},
	"second": {nanos: int64(time.Second)}, "seconds": {nanos: int64(time.Second)},
	"micro": {nanos: int64(time.Microsecond)}, "micros": {nanos: int64(time.Microsecond)},
	"microsecond": {nanos: int64(time.Microsecond)}, "microseconds": {nanos: int64(time.Microsecond)},
	"ns": {nanos: 1}, "nano": {nanos: 1}, "nanos": {nanos: 1},
	"nanosecond": {nanos: 1}, "nanoseconds": {nanos: 1},
}

// ParseInterval parses textual intervals of the form
//
//	[<n> <unit>]... [sign]H[:MM[:SS[.fraction]]]
//
// for example "1y 2mon 3d 04:05:06.007" or "-05:00:00". Unit words may be
// singular, plural or abbreviated; day counts land in the Days component,
// years and months in Months, everything smaller in Nanos.
func ParseInterval(s string) (Interval, error) {
	sc := &scanner{s: s}
	out := Interval{Valid: true}
	any := false
	for {
		sc.skipSpace()
		if sc.done() {
			if !any {
				return Interval{}, ParseError{Input: s, Target: "interval", Reason: "empty input"}
			}
			return out, nil
		}
		sign := sc.consumeSign()
		n, ok := sc.extractNumber()
		if !ok {
			return Interval{}, ParseError{Input: s, Target: "interval", Reason: "expected a number"}
		}
		sc.skipSpace()
		if sc.peek() == ':' || sc.done() || !isLetter(sc.peek()) {
			if err := parseClockTail(sc, sign, n, &out); err != nil {
				return Interval{}, ParseError{Input: s, Target: "interval", Reason: err.Error()}
			}
			sc.skipSpace()
			if !sc.done() {
				return Interval{}, ParseError{Input: s, Target: "interval", Reason: "trailing input after clock"}
			}
			return out, nil
		}
		unit := strings.ToLower(sc.consumeWhile(isLetter))
		w, known := intervalUnits[unit]
		if !known {
			return Interval{}, ParseError{Input: s, Target: "interval", Reason: "unknown unit " + strconv.Quote(unit)}
		}
		switch {
		case w.months != 0:
			out.Months += int32(sign * n * w.months)
		case w.nanos < 0:
			out.Days += int32(sign * n)
		default:
			out.Nanos += sign * n * w.nanos
		}
		any = true
	}
}

// parseClockTail consumes the rest of a [sign]H[:MM[:SS[.fraction]]] clock
// whose signed hour part was already read.
func parseClockTail(sc *scanner, sign, hours int64, out *Interval) error {
	nanos := hours * int64(time.Hour)
	if sc.peek() == ':' {
		sc.i++
		mm, ok := sc.extractNumber()
		if !ok || mm > 59 {
			return errors.New("invalid minutes")
		}
		nanos += mm * int64(time.Minute)
		if sc.peek() == ':' {
			sc.i++
			ss, ok := sc.extractNumber()
			if !ok || ss > 59 {
				return errors.New("invalid seconds")
			}
			nanos += ss * int64(time.Second)
			if sc.peek() == '.' {
				sc.i++
				frac, ok := fractionNanos(sc.consumeWhile(isDigit))
				if !ok {
					return errors.New("invalid fraction")
				}
				nanos += frac
			}
		}
	}
	out.Nanos += sign * nanos
	return nil
}

// ParseDate parses "YYYY-MM-DD" with an optional trailing era marker. A
// "BC" suffix shifts into astronomical year numbering, so 1 BC is year 0
// and 753 BC is year -752.
func ParseDate(s string) (Date, error) {
	sc := &scanner{s: s}
	sc.skipSpace()
	sign := sc.consumeSign()
	year, ok := sc.extractNumber()
	if !ok || sc.peek() != '-' {
		return Date{}, ParseError{Input: s, Target: "date", Reason: "expected YYYY-MM-DD"}
	}
	sc.i++
	month, ok := sc.extractNumber()
	if !ok || sc.peek() != '-' {
		return Date{}, ParseError{Input: s, Target: "date", Reason: "expected YYYY-MM-DD"}
	}
	sc.i++
	day, ok := sc.extractNumber()
	if !ok {
		return Date{}, ParseError{Input: s, Target: "date", Reason: "expected YYYY-MM-DD"}
	}
	year *= sign
	sc.skipSpace()
	if !sc.done() {
		era := strings.ToUpper(sc.consumeWhile(isLetter))
		switch era {
		case "AD":
		case "BC":
			year = 1 - year
		default:
			return Date{}, ParseError{Input: s, Target: "date", Reason: "unknown era " + strconv.Quote(era)}
		}
		sc.skipSpace()
		if !sc.done() {
			return Date{}, ParseError{Input: s, Target: "date", Reason: "trailing input"}
		}
	}
	if month < 1 || month > 12 {
		return Date{}, ParseError{Input: s, Target: "date", Reason: "month out of range"}
	}
	norm := time.Date(int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC)
	if norm.Day() != int(day) || norm.Month() != time.Month(month) {
		return Date{}, ParseError{Input: s, Target: "date", Reason: "day out of range"}
	}
	return Date{Year: int32(year), Month: uint8(month), Day: uint8(day), Valid: true}, nil
}

// ParseTime parses a time of day "HH:MM[:SS[.fraction]]".
func ParseTime(s string) (Time, error) {
	sc := &scanner{s: s}
	sc.skipSpace()
	hh, ok := sc.extractNumber()
	if !ok || hh > 23 || sc.peek() != ':' {
		return Time{}, ParseError{Input: s, Target: "time", Reason: "expected HH:MM"}
	}
	out := Interval{}
	if err := parseClockTail(sc, 1, hh, &out); err != nil {
		return Time{}, ParseError{Input: s, Target: "time", Reason: err.Error()}
	}
	sc.skipSpace()
	if !sc.done() {
		return Time{}, ParseError{Input: s, Target: "time", Reason: "trailing input"}
	}
	return Time{Duration: time.Duration(out.Nanos), Valid: true}, nil
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses a naive timestamp with no zone information. The
// result is anchored in UTC purely as a container location.
func ParseTimestamp(s string) (Timestamp, error) {
	in := strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, in); err == nil {
			return Timestamp{Time: t, Valid: true}, nil
		}
	}
	return Timestamp{}, ParseError{Input: s, Target: "timestamp"}
}

var timestampTZLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999 Z07:00",
	"2006-01-02 15:04:05.999999999 Z0700",
}

// ParseTimestampTZ tries the zoned layouts in order and falls back to the
// naive forms, in which case the timestamp is taken to be UTC.
func ParseTimestampTZ(s string) (TimestampTZ, error) {
	in := strings.TrimSpace(s)
	for _, layout := range timestampTZLayouts {
		if t, err := time.Parse(layout, in); err == nil {
			return TimestampTZ{Time: t, Valid: true}, nil
		}
	}
	if naive, err := ParseTimestamp(in); err == nil {
		return TimestampTZ{Time: naive.Time, Valid: true}, nil
	}
	return TimestampTZ{}, ParseError{Input: s, Target: "timestamp with time zone"}
}
