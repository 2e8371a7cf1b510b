// Package point implements the vendor data-point model at the heart of the
// bridge.
//
// A Point is one named, typed telemetry/control value on a device. Each
// point carries:
//
//   - An immutable wire identity (index, canonical name, type tag)
//   - A mutable raw wire value, safe for concurrent read/write
//   - A codec keyed by the type tag that translates between wire values
//     and display values in both directions
//   - An observer registry that fans inbound updates out to any number of
//     registered listeners
//
// # Codec
//
// The vendor encodes every value as a JSON scalar whose interpretation
// depends on the point type:
//
//	type 1: integer (also used for enums and booleans)
//	type 2: fixed-point with one decimal digit (wire = value * 10)
//	type 7: integer (observed only on read-only/constant points)
//	other:  opaque passthrough (strings such as software versions)
//
// Unknown type tags are passed through unchanged but logged once at point
// construction, so a new vendor type code shows up in the logs instead of
// being silently masked.
//
// # Observers
//
// AddListener returns an opaque Handle used for removal, so callers never
// rely on function identity. Fan-out is synchronous on the caller of
// UpdateRaw; a panicking listener is isolated and the remaining listeners
// still run.
package point
