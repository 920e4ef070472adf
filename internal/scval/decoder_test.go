package scval

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nativeU128 struct {
	Prim
	v *big.Int
}

func (n nativeU128) ToNative() (any, error) { return n.v, nil }

type failingNative struct {
	Unknown
	text string
}

func (f failingNative) ToNative() (any, error) { return nil, errors.New("unsupported") }
func (f failingNative) String() string { return f.text }

type panickyNative struct{ Unknown }

func (panickyNative) ToNative() (any, error) { panic("sdk blew up") }

type textual struct{ s string }

func (t textual) String() string { return t.s }

func TestScalar_SupportedShapes(t *testing.T) {
	d := New()

	cases := []struct {
		name string
		in   Value
		kind Kind
		want string
	}{
		{name: "native conversion", in: nativeU128{v: big.NewInt(42)}, kind: KindU128, want: "42"},
		{name: "tagged u32", in: FromJSON([]byte(`{"_arm":"u32","_value":7}`)), kind: KindU32, want: "7"},
		{name: "tagged string", in: FromJSON([]byte(`{"_arm":"string","_value":"Rex"}`)), kind: KindString, want: "Rex"},
		{name: "tagged bool", in: FromJSON([]byte(`{"_arm":"bool","_value":true}`)), kind: KindBool, want: "true"},
		{name: "tagged u128 as hi/lo", in: FromJSON([]byte(`{"_arm":"u128","_value":{"hi":0,"lo":9}}`)), kind: KindU128, want: "9"},
		{name: "keyed u128", in: FromJSON([]byte(`{"u128":"12"}`)), kind: KindU128, want: "12"},
		{name: "hi/lo pair", in: Pair{Hi: 0, Lo: 5}, kind: KindU64, want: "5"},
		{name: "plain number", in: FromJSON([]byte(`13`)), kind: KindU32, want: "13"},
		{name: "plain string", in: Prim{V: "hello"}, kind: KindString, want: "hello"},
		{name: "plain bool", in: Prim{V: false}, kind: KindBool, want: "false"},
		{name: "numeric bool", in: Prim{V: 1}, kind: KindBool, want: "true"},
		{name: "stringly numeric", in: Prim{V: " 99 "}, kind: KindU64, want: "99"},
		{name: "stringer numeric", in: Unknown{V: textual{s: "1234"}}, kind: KindU64, want: "1234"},
		{name: "exponent number", in: FromJSON([]byte(`1e3`)), kind: KindU32, want: "1000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := d.Scalar(tc.in, tc.kind)
			require.True(t, s.Valid(), "expected %v to decode", tc.in)
			assert.Equal(t, tc.want, s.Text())
			assert.Equal(t, tc.kind, s.Kind())
		})
	}
}

func TestScalar_NativeFailureFallsBack(t *testing.T) {
	d := New()

	s := d.Scalar(failingNative{text: "77"}, KindU32)
	require.True(t, s.Valid())
	assert.Equal(t, uint64(77), s.Uint64())

	s = d.Scalar(panickyNative{}, KindU32)
	assert.False(t, s.Valid())
}

func TestScalar_UnrecognisedShapeIsUnparseable(t *testing.T) {
	var observed []Kind
	d := New(WithObserver(func(_ Value, k Kind) { observed = append(observed, k) }))

	inputs := []Value{
		nil,
		Unknown{V: struct{ X int }{X: 1}},
		FromJSON([]byte(`{"weird":{"nested":true}}`)),
		FromJSON([]byte(`not json`)),
		Prim{V: "abc"},
		Prim{V: -5},
		Prim{V: 1.5},
		Vec{Prim{V: 1}},
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			s := d.Scalar(in, KindU64)
			assert.False(t, s.Valid(), "expected %#v to be unparseable", in)
			assert.Equal(t, uint64(0), s.Uint64())
		})
	}
	assert.Len(t, observed, len(inputs))
}

func TestScalar_RangeCheckedPerKind(t *testing.T) {
	d := New()

	assert.False(t, d.Scalar(Prim{V: uint64(math.MaxUint32) + 1}, KindU32).Valid())
	assert.True(t, d.Scalar(Prim{V: uint64(math.MaxUint32)}, KindU32).Valid())
	assert.False(t, d.Scalar(Pair{Hi: 1}, KindU64).Valid())
	assert.True(t, d.Scalar(Pair{Hi: 1}, KindU128).Valid())
}

func TestPairReconstruction_Boundaries(t *testing.T) {
	d := New()
	two64 := new(big.Int).Lsh(big.NewInt(1), 64)
	maxU64 := new(big.Int).Sub(two64, big.NewInt(1))

	cases := []struct {
		in   Pair
		want *big.Int
	}{
		{in: Pair{Hi: 0, Lo: 0}, want: big.NewInt(0)},
		{in: Pair{Hi: 0, Lo: math.MaxUint64}, want: maxU64},
		{in: Pair{Hi: 1, Lo: 0}, want: two64},
	}
	for _, tc := range cases {
		s := d.Scalar(tc.in, KindU128)
		require.True(t, s.Valid())
		assert.Zero(t, tc.want.Cmp(s.Big()), "got=%s want=%s", s.Big(), tc.want)
	}

	fromJSON := d.Scalar(FromJSON([]byte(`{"hi":"1","lo":"0"}`)), KindU128)
	assert.Equal(t, "18446744073709551616", fromJSON.Text())
}

func TestScalar_SafeNarrowing(t *testing.T) {
	d := New()

	s := d.Scalar(Prim{V: uint64(MaxSafeInteger)}, KindU128)
	v, ok := s.SafeUint()
	require.True(t, ok)
	assert.Equal(t, uint64(MaxSafeInteger), v)

	s = d.Scalar(Prim{V: uint64(MaxSafeInteger) + 1}, KindU128)
	_, ok = s.SafeUint()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Int())
}

func TestTuple_PadsMissingTrailingFields(t *testing.T) {
	d := New()
	kinds := []Kind{KindString, KindU32, KindBool, KindU64}

	out := d.Tuple(FromJSON([]byte(`["Rex", 3]`)), kinds)
	require.Len(t, out, 4)
	assert.Equal(t, "Rex", out[0].Text())
	assert.Equal(t, 3, out[1].Int())
	assert.True(t, out[2].Valid())
	assert.False(t, out[2].Bool())
	assert.True(t, out[3].Valid())
	assert.Equal(t, uint64(0), out[3].Uint64())
}

func TestTuple_WrappedList(t *testing.T) {
	d := New()
	v := FromJSON([]byte(`{"_arm":"vec","_value":[{"_arm":"string","_value":"Rex"},{"_arm":"u32","_value":5}]}`))

	out := d.Tuple(v, []Kind{KindString, KindU32})
	assert.Equal(t, "Rex", out[0].Text())
	assert.Equal(t, 5, out[1].Int())
}

func TestTuple_NotAListGivesDefaults(t *testing.T) {
	d := New()
	out := d.Tuple(Prim{V: "scalar"}, []Kind{KindString, KindU32})
	assert.Equal(t, "", out[0].Text())
	assert.Equal(t, 0, out[1].Int())
}

func TestTuple_BadMiddleFieldIsSentinel(t *testing.T) {
	d := New()
	out := d.Tuple(Vec{Prim{V: "Rex"}, Unknown{}, Prim{V: 4}}, []Kind{KindString, KindU32, KindU32})
	assert.True(t, out[0].Valid())
	assert.False(t, out[1].Valid())
	assert.Equal(t, 4, out[2].Int())
}

func TestIDs_FiltersAndPreservesOrder(t *testing.T) {
	d := New()
	v := FromJSON([]byte(`[5, "bad", 3, 0, 7]`))
	assert.Equal(t, []uint64{5, 3, 7}, d.IDs(v))
}

func TestIDs_MixedShapesNoDedup(t *testing.T) {
	d := New()
	v := FromJSON([]byte(`{"_arm":"vec","_value":[
		{"_arm":"u128","_value":{"hi":0,"lo":2}},
		{"hi":0,"lo":2},
		{"u128":"9"},
		-1,
		{"hi":1,"lo":0}
	]}`))
	assert.Equal(t, []uint64{2, 2, 9}, d.IDs(v))
}

func TestIDs_NonListIsEmpty(t *testing.T) {
	d := New()
	assert.Empty(t, d.IDs(Unknown{}))
	assert.Empty(t, d.IDs(nil))
}

func TestWithMatchers_CustomChain(t *testing.T) {
	always := MatcherFunc(func(_ Decoder, _ Value, k Kind) (Scalar, bool) {
		return NumberScalar(k, big.NewInt(1)), true
	})
	d := New(WithMatchers(always))
	assert.Equal(t, uint64(1), d.Scalar(Unknown{}, KindU64).Uint64())
}
