package device

import "errors"

// Domain-specific errors for device operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrPayloadShapeChanged is returned by classification when a point
	// the vendor unconditionally reports is missing from the snapshot.
	// This fails loudly on purpose: it signals the vendor changed the
	// payload shape, not a condition to skip over.
	ErrPayloadShapeChanged = errors.New("device: vendor payload shape changed")

	// ErrNoPublisher is returned when an outbound command is attempted
	// on a device that was built without a transport publisher.
	ErrNoPublisher = errors.New("device: no publisher configured")

	// ErrDeviceExists is returned when registering a duplicate MAC.
	ErrDeviceExists = errors.New("device: already registered")
)
