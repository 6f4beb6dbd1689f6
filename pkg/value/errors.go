package value

import "fmt"

// clipLen bounds offending inputs quoted in error and log messages.
const clipLen = 497

// Clip truncates long inputs for inclusion in messages.
func Clip(s string) string {
	if len(s) <= clipLen {
		return s
	}
	return s[:clipLen] + "..."
}

// RangeError reports a numeric conversion whose value does not fit the
// target type.
type RangeError struct {
	// Value is the textual rendering of the offending value.
	Value string
	// From is the source variant.
	From Kind
	// To is the Go name of the requested target type.
	To string
}

func (e RangeError) Error() string {
	return fmt.Sprintf("value %s of type %s is out of range for %s", Clip(e.Value), e.From, e.To)
}

// TypeMismatchError reports a conversion between incompatible types.
type TypeMismatchError struct {
	// From is the source variant.
	From Kind
	// To is the Go name of the requested target type.
	To string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
}

// ParseError reports text that does not satisfy one of the value grammars.
type ParseError struct {
	// Input is the rejected text.
	Input string
	// Target names the grammar (interval, date, time, timestamp...).
	Target string
	// Reason describes the first violation found.
	Reason string
}

func (e ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("cannot parse %q as %s", Clip(e.Input), e.Target)
	}
	return fmt.Sprintf("cannot parse %q as %s: %s", Clip(e.Input), e.Target, e.Reason)
}
