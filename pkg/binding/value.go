package binding

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

// Value is a coerced query value. Raw always holds the decoded input;
// exactly one of Int, Float or Bool is meaningful depending on Kind.
type Value struct {
	Kind  Kind
	Raw   string
	Int   int64
	Float float64
	Bool  bool
}

// Coerce trial-parses raw as a 64-bit integer, then a finite float, then
// "true" (case-insensitive), and otherwise keeps it as a string. "false"
// stays a string.
func Coerce(raw string) Value {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Value{Kind: KindInt, Raw: raw, Int: i}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Value{Kind: KindFloat, Raw: raw, Float: f}
	}
	if strings.EqualFold(raw, "true") {
		return Value{Kind: KindBool, Raw: raw, Bool: true}
	}
	return Value{Kind: KindString, Raw: raw}
}

// Any returns the Go value of the active variant: int64, float64, bool
// or string.
func (v Value) Any() any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBool:
		return v.Bool
	default:
		return v.Raw
	}
}

// String returns the raw decoded query value.
func (v Value) String() string {
	return v.Raw
}
