package scval

import (
	"bytes"
	"encoding/json"
	"math/big"
)

// Value is a remote contract value of unknown shape. The set of variants is
// closed; anything the builders cannot classify becomes Unknown.
type Value interface {
	isValue()
}

// Native is implemented by values that can convert themselves to a Go value.
// The decoder tries it before probing the wrapper shape.
type Native interface {
	Value
	ToNative() (any, error)
}

// Tagged is the {_arm, _value} wrapper some transports emit.
type Tagged struct {
	Arm   string
	Inner Value
}

// Pair is a 128-bit unsigned integer split into high and low 64-bit halves.
type Pair struct {
	Hi uint64
	Lo uint64
}

// Prim holds a plain Go primitive: string, bool, json.Number, float64,
// sized integers or *big.Int.
type Prim struct {
	V any
}

type Vec []Value

type Unknown struct {
	V any
}

func (Tagged) isValue()  {}
func (Pair) isValue()    {}
func (Prim) isValue()    {}
func (Vec) isValue()     {}
func (Unknown) isValue() {}

var two64 = new(big.Int).Lsh(big.NewInt(1), 64)

// Big returns hi*2^64 + lo.
func (p Pair) Big() *big.Int {
	out := new(big.Int).SetUint64(p.Hi)
	out.Mul(out, two64)
	return out.Add(out, new(big.Int).SetUint64(p.Lo))
}

var scalarArms = map[string]struct{}{
	"string":  {},
	"symbol":  {},
	"bool":    {},
	"u32":     {},
	"i32":     {},
	"u64":     {},
	"i64":     {},
	"u128":    {},
	"i128":    {},
	"address": {},
	"vec":     {},
}

// FromJSON builds a Value from a JSON document. Malformed input yields Unknown.
func FromJSON(b []byte) Value {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Unknown{V: string(b)}
	}
	return FromAny(raw)
}

// FromAny classifies an already-decoded Go value.
func FromAny(x any) Value {
	switch v := x.(type) {
	case nil:
		return Unknown{}
	case Value:
		return v
	case json.RawMessage:
		return FromJSON(v)
	case []any:
		out := make(Vec, 0, len(v))
		for _, item := range v {
			out = append(out, FromAny(item))
		}
		return out
	case []Value:
		return Vec(v)
	case map[string]any:
		return fromObject(v)
	case string, bool, json.Number, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, *big.Int:
		return Prim{V: v}
	default:
		return Unknown{V: v}
	}
}

func fromObject(m map[string]any) Value {
	if arm, ok := m["_arm"].(string); ok {
		return Tagged{Arm: arm, Inner: FromAny(m["_value"])}
	}
	hiRaw, hasHi := m["hi"]
	loRaw, hasLo := m["lo"]
	if hasHi && hasLo {
		hi, okHi := toUint64(hiRaw)
		lo, okLo := toUint64(loRaw)
		if okHi && okLo {
			return Pair{Hi: hi, Lo: lo}
		}
		return Unknown{V: m}
	}
	if len(m) == 1 {
		for k, inner := range m {
			if _, ok := scalarArms[k]; ok {
				return Tagged{Arm: k, Inner: FromAny(inner)}
			}
			if k == "value" || k == "val" {
				return Tagged{Inner: FromAny(inner)}
			}
		}
	}
	return Unknown{V: m}
}

func toUint64(x any) (uint64, bool) {
	n, ok := toBig(x)
	if !ok || n.Sign() < 0 || !n.IsUint64() {
		return 0, false
	}
	return n.Uint64(), true
}
