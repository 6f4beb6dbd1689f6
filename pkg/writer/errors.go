package writer

import (
	"fmt"

	"github.com/TankHQ/tank/pkg/value"
)

// UnsupportedValueError reports a value variant the addressed backend has
// no representation for.
type UnsupportedValueError struct {
	// Backend is the dialect or driver that rejected the value.
	Backend string
	// Kind is the variant of the rejected value.
	Kind value.Kind
}

func (e UnsupportedValueError) Error() string {
	return fmt.Sprintf("%s cannot represent a value of kind %s", e.Backend, e.Kind)
}
