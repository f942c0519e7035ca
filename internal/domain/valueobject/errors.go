package valueobject

import "errors"

// ErrInvalidInput is the root cause for every value-object constraint
// violation. Constructors wrap it with the violated constraint and the
// offending value so callers can match with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
