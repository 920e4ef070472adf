package scval

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// MaxSafeInteger is the largest integer the application narrows to a machine
// integer, matching the precision of the clients that consume it.
const MaxSafeInteger = 1<<53 - 1

// Scalar is a decoded leaf. The zero Scalar is the unparseable sentinel.
type Scalar struct {
	kind  Kind
	valid bool
	text  string
	num   *big.Int
	b     bool
}

func Unparseable(k Kind) Scalar {
	return Scalar{kind: k}
}

// Zero returns the natural default for k: "", 0 or false.
func Zero(k Kind) Scalar {
	s := Scalar{kind: k, valid: true}
	if k.Numeric() {
		s.num = new(big.Int)
	}
	return s
}

func StringScalar(v string) Scalar {
	return Scalar{kind: KindString, valid: true, text: v}
}

func BoolScalar(v bool) Scalar {
	return Scalar{kind: KindBool, valid: true, b: v}
}

// NumberScalar returns the unparseable sentinel when n is negative or wider
// than k allows.
func NumberScalar(k Kind, n *big.Int) Scalar {
	if n == nil || !k.Numeric() || n.Sign() < 0 || n.BitLen() > k.bits() {
		return Unparseable(k)
	}
	return Scalar{kind: k, valid: true, num: new(big.Int).Set(n)}
}

func (s Scalar) Kind() Kind  { return s.kind }
func (s Scalar) Valid() bool { return s.valid }

func (s Scalar) Text() string {
	if !s.valid {
		return ""
	}
	switch {
	case s.kind == KindString:
		return s.text
	case s.kind == KindBool:
		return strconv.FormatBool(s.b)
	case s.num != nil:
		return s.num.String()
	default:
		return ""
	}
}

func (s Scalar) Big() *big.Int {
	if !s.valid || s.num == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.num)
}

func (s Scalar) Uint64() uint64 {
	if !s.valid || s.num == nil || !s.num.IsUint64() {
		return 0
	}
	return s.num.Uint64()
}

// SafeUint narrows to uint64 only when the value is within MaxSafeInteger.
func (s Scalar) SafeUint() (uint64, bool) {
	if !s.valid || s.num == nil || !s.num.IsUint64() {
		return 0, false
	}
	v := s.num.Uint64()
	if v > MaxSafeInteger {
		return 0, false
	}
	return v, true
}

func (s Scalar) Int() int {
	v, ok := s.SafeUint()
	if !ok {
		return 0
	}
	return int(v)
}

func (s Scalar) Bool() bool {
	return s.valid && s.kind == KindBool && s.b
}

func (s Scalar) String() string {
	if !s.valid {
		return fmt.Sprintf("<unparseable %s>", s.kind)
	}
	return s.Text()
}

// coerceTyped converts a Go primitive without any textual reinterpretation.
func coerceTyped(x any, k Kind) (Scalar, bool) {
	switch k {
	case KindString:
		if v, ok := x.(string); ok {
			return StringScalar(v), true
		}
		if n, ok := toBig(x); ok {
			return StringScalar(n.String()), true
		}
		if v, ok := x.(bool); ok {
			return StringScalar(strconv.FormatBool(v)), true
		}
	case KindBool:
		if v, ok := x.(bool); ok {
			return BoolScalar(v), true
		}
		if _, isString := x.(string); isString {
			return Scalar{}, false
		}
		if n, ok := toBig(x); ok {
			switch {
			case n.Sign() == 0:
				return BoolScalar(false), true
			case n.Cmp(big.NewInt(1)) == 0:
				return BoolScalar(true), true
			}
		}
	default:
		if _, isString := x.(string); isString {
			return Scalar{}, false
		}
		if n, ok := toBig(x); ok {
			s := NumberScalar(k, n)
			return s, s.valid
		}
	}
	return Scalar{}, false
}

// coerceText reinterprets a textual representation.
func coerceText(text string, k Kind) (Scalar, bool) {
	t := strings.TrimSpace(text)
	switch k {
	case KindString:
		return StringScalar(text), true
	case KindBool:
		switch strings.ToLower(t) {
		case "true", "1":
			return BoolScalar(true), true
		case "false", "0":
			return BoolScalar(false), true
		}
		return Scalar{}, false
	default:
		if t == "" {
			return Scalar{}, false
		}
		n, ok := parseNumber(t)
		if !ok {
			return Scalar{}, false
		}
		s := NumberScalar(k, n)
		return s, s.valid
	}
}

func toBig(x any) (*big.Int, bool) {
	switch v := x.(type) {
	case *big.Int:
		if v == nil {
			return nil, false
		}
		return new(big.Int).Set(v), true
	case int:
		return big.NewInt(int64(v)), true
	case int8:
		return big.NewInt(int64(v)), true
	case int16:
		return big.NewInt(int64(v)), true
	case int32:
		return big.NewInt(int64(v)), true
	case int64:
		return big.NewInt(v), true
	case uint:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	case float32:
		return floatToBig(float64(v))
	case float64:
		return floatToBig(v)
	case json.Number:
		return parseNumber(string(v))
	case string:
		return parseNumber(strings.TrimSpace(v))
	default:
		return nil, false
	}
}

func floatToBig(f float64) (*big.Int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	n, _ := big.NewFloat(f).Int(nil)
	return n, true
}

// parseNumber accepts integer text and integral decimal or exponent text.
func parseNumber(t string) (*big.Int, bool) {
	if t == "" {
		return nil, false
	}
	if n, ok := new(big.Int).SetString(t, 10); ok {
		return n, true
	}
	f, ok := new(big.Float).SetPrec(256).SetString(t)
	if !ok || f.IsInf() || !f.IsInt() {
		return nil, false
	}
	n, _ := f.Int(nil)
	return n, true
}
