// Package variant is the value-coercion layer between loosely typed
// management-query records and the typed inventory records built by probes.
//
// A Record maps field names to tagged Values. Typed extraction goes through a
// single conversion table indexed by target type:
//
//	string  <- string
//	bool    <- bool
//	uint16  <- uint8, uint16, int16 (>= 0)
//	uint32  <- uint8, uint16, uint32, int16 (>= 0), int32 (>= 0)
//	uint64  <- any integer (>= 0), or a string holding a decimal integer
//
// Null counts as missing. Extraction never panics; failures are returned as
// *ExtractError wrapping ErrKeyMissing or ErrTypeMismatch.
//
// Usage:
//
//	size, err := variant.Get[uint64](rec, "Capacity")
//	if errors.Is(err, variant.ErrKeyMissing) {
//	    // field absent
//	}
//
// Fields layers an explicit per-field policy on top: optional getters take a
// default, Require getters collect failures for Err.
package variant
