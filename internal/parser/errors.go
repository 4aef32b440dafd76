package parser

import (
	"errors"
	"fmt"
)

// ErrInvalidData is the sentinel wrapped by every semantic parse failure
// (a violated field invariant, a length mismatch, truncated input). Read
// failures from an underlying reader are wrapped with ErrIO instead.
var ErrInvalidData = errors.New("parser: invalid data")

// ErrIO wraps an underlying read failure. Running out of bytes counts as
// invalid data, not IO; this slice-based parser never produces ErrIO
// itself, the sentinel exists for callers that feed it from a stream.
var ErrIO = errors.New("parser: io error")

func invalidData(field string) error {
	return fmt.Errorf("%w: %s", ErrInvalidData, field)
}

func invalidDataf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidData, fmt.Sprintf(format, args...))
}
