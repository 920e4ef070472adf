package scval

import "fmt"

// Matcher recognises one representation of a scalar. It reports false when the
// value is not in its shape so the next matcher can try.
type Matcher interface {
	Match(d Decoder, v Value, k Kind) (Scalar, bool)
}

type MatcherFunc func(d Decoder, v Value, k Kind) (Scalar, bool)

func (f MatcherFunc) Match(d Decoder, v Value, k Kind) (Scalar, bool) {
	return f(d, v, k)
}

// Observer is told about every field that fell through all matchers.
type Observer func(v Value, k Kind)

type Decoder struct {
	matchers []Matcher
	observe  Observer
}

type Option func(*Decoder)

func WithObserver(o Observer) Option {
	return func(d *Decoder) { d.observe = o }
}

// WithMatchers replaces the matcher chain.
func WithMatchers(ms ...Matcher) Option {
	return func(d *Decoder) { d.matchers = append([]Matcher(nil), ms...) }
}

// WithExtraMatchers appends matchers after the default chain.
func WithExtraMatchers(ms ...Matcher) Option {
	return func(d *Decoder) { d.matchers = append(d.matchers, ms...) }
}

func New(opts ...Option) Decoder {
	d := Decoder{matchers: DefaultMatchers()}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// DefaultMatchers is the resolution order: native conversion, tagged arm,
// hi/lo pair, plain primitive, textual representation.
func DefaultMatchers() []Matcher {
	return []Matcher{
		MatcherFunc(matchNative),
		MatcherFunc(matchTagged),
		MatcherFunc(matchPair),
		MatcherFunc(matchPrimitive),
		MatcherFunc(matchText),
	}
}

// Scalar decodes v as kind k. It never panics; unrecognised input yields the
// unparseable sentinel for k.
func (d Decoder) Scalar(v Value, k Kind) Scalar {
	if v != nil {
		for _, m := range d.matchers {
			if s, ok := safeMatch(m, d, v, k); ok {
				return s
			}
		}
	}
	if d.observe != nil {
		d.observe(v, k)
	}
	return Unparseable(k)
}

// Tuple decodes an ordered record. Missing trailing positions get the kind's
// zero value; positions that fail to decode hold the unparseable sentinel.
func (d Decoder) Tuple(v Value, kinds []Kind) []Scalar {
	items := d.Items(v)
	out := make([]Scalar, len(kinds))
	for i, k := range kinds {
		if i >= len(items) {
			out[i] = Zero(k)
			continue
		}
		out[i] = d.Scalar(items[i], k)
	}
	return out
}

// IDs decodes a list of positive identifiers, keeping source order and
// duplicates. Unparseable, non-positive and out-of-safe-range entries are
// dropped.
func (d Decoder) IDs(v Value) []uint64 {
	items := d.Items(v)
	out := make([]uint64, 0, len(items))
	for _, item := range items {
		s := d.Scalar(item, KindU128)
		if !s.Valid() || s.Big().Sign() <= 0 {
			continue
		}
		id, ok := s.SafeUint()
		if !ok {
			if d.observe != nil {
				d.observe(item, KindU128)
			}
			continue
		}
		out = append(out, id)
	}
	return out
}

// Items normalises v to a sequence: a plain list, a list wrapped in a tagged
// arm, or a native conversion that yields a slice.
func (d Decoder) Items(v Value) []Value {
	switch t := v.(type) {
	case Vec:
		return t
	case Tagged:
		return d.Items(t.Inner)
	case Prim:
		if xs, ok := t.V.([]any); ok {
			return itemsOf(xs)
		}
	}
	if n, ok := v.(Native); ok {
		if native, err := safeNative(n); err == nil {
			if xs, ok := native.([]any); ok {
				return itemsOf(xs)
			}
			if vs, ok := native.([]Value); ok {
				return vs
			}
		}
	}
	return nil
}

func itemsOf(xs []any) []Value {
	out := make([]Value, 0, len(xs))
	for _, x := range xs {
		out = append(out, FromAny(x))
	}
	return out
}

func safeMatch(m Matcher, d Decoder, v Value, k Kind) (s Scalar, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s, ok = Scalar{}, false
		}
	}()
	return m.Match(d, v, k)
}

func safeNative(n Native) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("native conversion panicked: %v", r)
		}
	}()
	return n.ToNative()
}

func matchNative(_ Decoder, v Value, k Kind) (Scalar, bool) {
	n, ok := v.(Native)
	if !ok {
		return Scalar{}, false
	}
	native, err := safeNative(n)
	if err != nil {
		return Scalar{}, false
	}
	if s, ok := coerceTyped(native, k); ok {
		return s, true
	}
	if text, ok := native.(string); ok {
		return coerceText(text, k)
	}
	return Scalar{}, false
}

func matchTagged(d Decoder, v Value, k Kind) (Scalar, bool) {
	t, ok := v.(Tagged)
	if !ok || t.Inner == nil || t.Arm == "vec" {
		return Scalar{}, false
	}
	if _, isVec := t.Inner.(Vec); isVec {
		return Scalar{}, false
	}
	s := d.Quiet().Scalar(t.Inner, k)
	return s, s.Valid()
}

func matchPair(_ Decoder, v Value, k Kind) (Scalar, bool) {
	p, ok := v.(Pair)
	if !ok {
		return Scalar{}, false
	}
	n := p.Big()
	switch {
	case k.Numeric():
		s := NumberScalar(k, n)
		return s, s.Valid()
	case k == KindString:
		return StringScalar(n.String()), true
	default:
		return Scalar{}, false
	}
}

func matchPrimitive(_ Decoder, v Value, k Kind) (Scalar, bool) {
	p, ok := v.(Prim)
	if !ok {
		return Scalar{}, false
	}
	return coerceTyped(p.V, k)
}

func matchText(_ Decoder, v Value, k Kind) (Scalar, bool) {
	var text string
	switch t := v.(type) {
	case Prim:
		s, ok := t.V.(string)
		if !ok {
			return Scalar{}, false
		}
		text = s
	case Unknown:
		st, ok := t.V.(fmt.Stringer)
		if !ok {
			return Scalar{}, false
		}
		text = st.String()
	case fmt.Stringer:
		text = t.String()
	default:
		return Scalar{}, false
	}
	if k == KindString {
		return StringScalar(text), true
	}
	return coerceText(text, k)
}

// Quiet returns a copy of d that does not report unparseable fields.
func (d Decoder) Quiet() Decoder {
	d.observe = nil
	return d
}
