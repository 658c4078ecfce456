package sql

// Arity classifies an operator node by its input count: Nullary (sources),
// Unary (one input), Binary (two inputs), or NAry (>=1 input; filter-on-
// subselect and merges).
type Arity uint8

const (
	Nullary Arity = iota
	Unary
	Binary
	NAry
)

func (a Arity) String() string {
	switch a {
	case Nullary:
		return "nullary"
	case Unary:
		return "unary"
	case Binary:
		return "binary"
	case NAry:
		return "n-ary"
	default:
		return "?"
	}
}
