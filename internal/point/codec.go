package point

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type is the vendor's integer type tag selecting the value codec.
type Type int

// Known point types. Anything else is treated as opaque passthrough.
const (
	// TypeInt is a plain integer, also used for enums and booleans.
	TypeInt Type = 1

	// TypeFixed is a fixed-point number with one decimal digit.
	// The wire value is the display value multiplied by ten.
	TypeFixed Type = 2

	// TypeConst is an integer observed only on read-only/constant points
	// (firmware constants, hardware identifiers).
	TypeConst Type = 7

	// TypeRaw is an opaque value passed through unchanged (strings such
	// as software versions).
	TypeRaw Type = 8
)

// fixedScale is the wire multiplier for TypeFixed values.
const fixedScale = 10

// Known reports whether t has a defined codec. Unknown types still decode
// (as passthrough) but are worth a warning at construction time.
func (t Type) Known() bool {
	switch t {
	case TypeInt, TypeFixed, TypeConst, TypeRaw:
		return true
	default:
		return false
	}
}

// Decode translates a raw wire value into its display value per the type
// tag. For numeric types a non-numeric wire value is a loud error: it
// signals the vendor changed the payload shape.
func Decode(t Type, raw any) (any, error) {
	switch t {
	case TypeInt, TypeConst:
		n, err := toInt64(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding type %d: %w", t, err)
		}
		return n, nil
	case TypeFixed:
		f, err := toFloat64(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding type %d: %w", t, err)
		}
		return f / fixedScale, nil
	default:
		return raw, nil
	}
}

// Encode translates a display value into its wire encoding per the type
// tag. Encode is the inverse of Decode for the numeric types.
func Encode(t Type, value any) (any, error) {
	switch t {
	case TypeInt, TypeConst:
		n, err := toInt64(value)
		if err != nil {
			return nil, fmt.Errorf("encoding type %d: %w", t, err)
		}
		return n, nil
	case TypeFixed:
		f, err := toFloat64(value)
		if err != nil {
			return nil, fmt.Errorf("encoding type %d: %w", t, err)
		}
		return int64(math.Round(f * fixedScale)), nil
	default:
		return value, nil
	}
}

// toInt64 converts the scalar shapes encoding/json and callers produce.
// Floats are truncated, matching the reference integer cast.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case float32:
		return int64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), nil
		}
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, n)
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}

// toFloat64 converts the scalar shapes encoding/json and callers produce.
func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}
