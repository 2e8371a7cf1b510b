// Package entity adapts capability groups into host-framework-facing
// entities.
//
// Each adapter pairs read-only attribute accessors with the mutators of
// its capability: a water heater exposes temperatures and
// SetTemperature, a switch exposes IsOn and TurnOn/TurnOff, and so on.
// Adapters hold no state of their own; every read decodes the backing
// data point at call time and every write goes through the point codec,
// so the device registry stays the single source of truth.
//
// Attach registers one refresh callback on every backing point; the
// host calls it to start receiving change notifications and Detach to
// stop. Both are idempotent.
package entity
