package fixedpoint

import "errors"

var (
	// ErrInvalidDecimals is returned when a negative decimals value is supplied.
	ErrInvalidDecimals = errors.New("decimals must be a non-negative integer")
	// ErrInvalidNumber is returned when a value is not a plain integer or decimal literal.
	ErrInvalidNumber = errors.New("invalid number")
)
