package entity

import "errors"

// Domain-specific errors for entity operations.
var (
	// ErrUnknownMode is returned for a mode with no wire value mapping.
	ErrUnknownMode = errors.New("entity: unknown mode")

	// ErrUnknownOption is returned for a select label with no wire value
	// mapping, and for a wire value with no label.
	ErrUnknownOption = errors.New("entity: unknown option")

	// ErrOutOfRange is returned when a number write falls outside the
	// entity's bounds.
	ErrOutOfRange = errors.New("entity: value out of range")

	// ErrNotNumeric is returned when a point's decoded value is not a
	// number where one is required.
	ErrNotNumeric = errors.New("entity: point value is not numeric")
)
