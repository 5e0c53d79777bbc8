package evaluation

import (
	"errors"
	"fmt"
)

// ErrFilterMisuse is matched by errors returned when a filter records a second
// result for the same type within one run.
var ErrFilterMisuse = errors.New("filter misuse")

// MisuseError describes a duplicate result within a run.
type MisuseError struct {
	RunID    string
	Variant  string
	Type     FilterType
	Existing Result
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("%s: %s already recorded for %s in run %s (existing %s)",
		ErrFilterMisuse, e.Type, e.Variant, e.RunID, e.Existing)
}

func (e *MisuseError) Unwrap() error {
	return ErrFilterMisuse
}
