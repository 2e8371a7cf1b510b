package point

import "errors"

// Domain-specific errors for data-point operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotNumeric is returned when a wire value cannot be interpreted as
	// a number for a numeric point type. This indicates a protocol
	// mismatch and is never masked.
	ErrNotNumeric = errors.New("point: value is not numeric")

	// ErrNoSender is returned by SetValue when the point has not been
	// bound to a device, so there is nowhere to send the command.
	ErrNoSender = errors.New("point: no sender bound")
)
