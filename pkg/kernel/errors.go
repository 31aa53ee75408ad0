package kernel

import "errors"

// ErrInvalidGeometry reports a malformed primitive request (zero or
// negative dimension, too few segments, empty profile). It is fatal
// to the generation that requested the primitive: the layout cannot
// be realized without it.
var ErrInvalidGeometry = errors.New("kernel: invalid geometry")

// ErrBooleanFailed reports that a boolean solve did not produce a
// usable solid in the requested mode. Callers retry once in Fallback
// mode and otherwise skip the operation.
var ErrBooleanFailed = errors.New("kernel: boolean operation failed")

// ErrEmptyResult reports a boolean result with no geometry where some
// was expected (for example a difference that consumed the whole
// target). Surfaced as a failed solve so the compositor can skip it.
var ErrEmptyResult = errors.New("kernel: empty boolean result")
