package scval

type Kind int

const (
	KindString Kind = iota
	KindU32
	KindU64
	KindU128
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindU128:
		return "u128"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

func (k Kind) Numeric() bool {
	return k == KindU32 || k == KindU64 || k == KindU128
}

func (k Kind) bits() int {
	switch k {
	case KindU32:
		return 32
	case KindU64:
		return 64
	case KindU128:
		return 128
	default:
		return 0
	}
}
