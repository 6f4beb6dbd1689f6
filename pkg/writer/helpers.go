package writer

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/TankHQ/tank/pkg/value"
)

// SeparatedBy writes every item through f, inserting sep in front of each
// item that follows one which produced output. Items that write nothing do
// not cause a separator.
func SeparatedBy[T any](out *strings.Builder, items []T, f func(*strings.Builder, T), sep string) {
	last := out.Len()
	for _, item := range items {
		if out.Len() > last {
			out.WriteString(sep)
		}
		last = out.Len()
		f(out, item)
	}
}

// WriteEscaped copies s into out, replacing every occurrence of search
// with replace.
func WriteEscaped(out *strings.Builder, s string, search rune, replace string) {
	last := 0
	for i, r := range s {
		if r == search {
			out.WriteString(s[last:i])
			out.WriteString(replace)
			last = i + utf8.RuneLen(r)
		}
	}
	out.WriteString(s[last:])
}

// PossiblyParenthesized wraps the output of f in parentheses when cond
// holds.
func PossiblyParenthesized(out *strings.Builder, cond bool, f func(*strings.Builder)) {
	if cond {
		out.WriteByte('(')
	}
	f(out)
	if cond {
		out.WriteByte(')')
	}
}

// PrintDate writes the date as quote YYYY-MM-DD quote. Negative years keep
// their sign inside the zero padding.
func PrintDate(out *strings.Builder, quote string, year int32, month, day uint8) {
	out.WriteString(quote)
	writePadded(out, int64(year), 4)
	out.WriteByte('-')
	writePadded(out, int64(month), 2)
	out.WriteByte('-')
	writePadded(out, int64(day), 2)
	out.WriteString(quote)
}

// PrintTimer writes the clock as quote HH:MM:SS.f quote, trimming trailing
// zeros of the fraction down to a single digit.
func PrintTimer(out *strings.Builder, quote string, h, m, s, ns int64) {
	out.WriteString(quote)
	out.WriteString(value.ClockString(h, m, s, ns))
	out.WriteString(quote)
}

// WriteZoneOffset writes the UTC offset of t as +HH:MM or -HH:MM.
func WriteZoneOffset(out *strings.Builder, t time.Time) {
	_, off := t.Zone()
	sign := byte('+')
	if off < 0 {
		sign = '-'
		off = -off
	}
	out.WriteByte(sign)
	writePadded(out, int64(off/3600), 2)
	out.WriteByte(':')
	writePadded(out, int64(off%3600/60), 2)
}

// WriteHex writes data as uppercase hex pairs.
func WriteHex(out *strings.Builder, data []byte) {
	const digits = "0123456789ABCDEF"
	for _, b := range data {
		out.WriteByte(digits[b>>4])
		out.WriteByte(digits[b&0x0f])
	}
}

// WriteFloat writes the shortest decimal text that round-trips back to f,
// appending ".0" when the result carries neither a point nor an exponent
// so the text stays a float literal.
func WriteFloat(out *strings.Builder, f float64, bits int) {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	out.WriteString(s)
	if !strings.ContainsAny(s, ".eE") {
		out.WriteString(".0")
	}
}

func writePadded(out *strings.Builder, v int64, width int) {
	if v < 0 {
		out.WriteByte('-')
		v = -v
		width--
	}
	s := strconv.FormatInt(v, 10)
	for i := len(s); i < width; i++ {
		out.WriteByte('0')
	}
	out.WriteString(s)
}
