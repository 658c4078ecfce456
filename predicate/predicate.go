// Package predicate implements the closed Predicate variant: Boolean
// predicates (Atomic, Conjunction, Disjunction) and proximity predicates
// (k-NN/k-FN). Every predicate exposes the columns it reads and a digest
// for plan caching.
package predicate

import (
	"fmt"

	"github.com/mitchellh/hashstructure"

	"github.com/cottontaildb/queryengine/binding"
	"github.com/cottontaildb/queryengine/sql"
)

// Predicate is the shared contract of every predicate kind.
type Predicate interface {
	// Columns returns the set of columns this predicate reads.
	Columns() sql.ColumnSet
	// Digest returns a stable, structure-sensitive hash contributing to
	// the plan-cache key.
	Digest() (uint64, error)
	fmt.Stringer
}

// BooleanPredicate additionally supports row-at-a-time matching.
type BooleanPredicate interface {
	Predicate
	IsMatch(row sql.Record) (bool, error)
}

// Atomic is a single comparison between two Bindings, optionally negated.
type Atomic struct {
	Op       Op
	Negated  bool
	Left     binding.Binding
	Right    binding.Binding
	leftCol  sql.ColumnDef
	rightCol sql.ColumnDef
	hasLeft  bool
	hasRight bool
}

// NewAtomic builds an Atomic predicate. leftCol/rightCol are supplied
// separately from the Bindings themselves because a Binding only carries a
// ColumnDef when it is a Column binding; Atomic needs them regardless of
// binding kind so Columns() is always correct.
func NewAtomic(op Op, negated bool, left, right binding.Binding, leftCol, rightCol *sql.ColumnDef) Atomic {
	a := Atomic{Op: op, Negated: negated, Left: left, Right: right}
	if leftCol != nil {
		a.leftCol, a.hasLeft = *leftCol, true
	}
	if rightCol != nil {
		a.rightCol, a.hasRight = *rightCol, true
	}
	return a
}

func (a Atomic) Columns() sql.ColumnSet {
	s := sql.ColumnSet{}
	if a.hasLeft {
		s = s.Add(a.leftCol)
	}
	if a.hasRight {
		s = s.Add(a.rightCol)
	}
	return s
}

func (a Atomic) Digest() (uint64, error) {
	return hashstructure.Hash(struct {
		Op      Op
		Negated bool
		Left    sql.ColumnDef
		Right   sql.ColumnDef
	}{a.Op, a.Negated, a.leftCol, a.rightCol}, nil)
}

func (a Atomic) String() string {
	if a.Negated {
		return fmt.Sprintf("NOT(%s %s %s)", a.leftCol.Name, a.Op, a.rightCol.Name)
	}
	return fmt.Sprintf("%s %s %s", a.leftCol.Name, a.Op, a.rightCol.Name)
}

// IsMatch evaluates the comparison for the given row. For In, the right
// binding is resolved via ResolveMulti and the left value is matched
// against any of the accumulated operands.
func (a Atomic) IsMatch(row sql.Record) (bool, error) {
	lv, err := a.Left.Resolve(row)
	if err != nil {
		return false, err
	}
	var matched bool
	switch a.Op {
	case IsNull:
		matched = lv.IsNull()
	case In:
		rvs, err := a.Right.ResolveMulti()
		if err != nil {
			return false, err
		}
		for _, rv := range rvs {
			if eq, err := equalValues(lv, rv); err == nil && eq {
				matched = true
				break
			}
		}
	default:
		rv, err := a.Right.Resolve(row)
		if err != nil {
			return false, err
		}
		matched, err = compareOp(a.Op, lv, rv)
		if err != nil {
			return false, err
		}
	}
	if a.Negated {
		return !matched, nil
	}
	return matched, nil
}

func equalValues(a, b sql.Value) (bool, error) {
	if a.IsNull() || b.IsNull() {
		return false, nil
	}
	return a.Equal(b), nil
}

func compareOp(op Op, l, r sql.Value) (bool, error) {
	if l.IsNull() || r.IsNull() {
		return false, nil
	}
	switch op {
	case Eq:
		return l.Equal(r), nil
	case Neq:
		return !l.Equal(r), nil
	case Like:
		return l.String() == r.String(), nil
	}
	c, err := l.Compare(r)
	if err != nil {
		return false, err
	}
	switch op {
	case Gt:
		return c > 0, nil
	case Gte:
		return c >= 0, nil
	case Lt:
		return c < 0, nil
	case Lte:
		return c <= 0, nil
	default:
		return false, fmt.Errorf("unsupported operator %s", op)
	}
}

// Conjunction is the logical AND of two BooleanPredicates.
type Conjunction struct {
	Left, Right BooleanPredicate
}

func NewConjunction(left, right BooleanPredicate) Conjunction {
	return Conjunction{Left: left, Right: right}
}

func (c Conjunction) Columns() sql.ColumnSet {
	return c.Left.Columns().Union(c.Right.Columns())
}

func (c Conjunction) Digest() (uint64, error) {
	ld, err := c.Left.Digest()
	if err != nil {
		return 0, err
	}
	rd, err := c.Right.Digest()
	if err != nil {
		return 0, err
	}
	return hashstructure.Hash(struct{ Tag string; L, R uint64 }{"and", ld, rd}, nil)
}

func (c Conjunction) String() string {
	return fmt.Sprintf("(%s AND %s)", c.Left, c.Right)
}

func (c Conjunction) IsMatch(row sql.Record) (bool, error) {
	lm, err := c.Left.IsMatch(row)
	if err != nil || !lm {
		return false, err
	}
	return c.Right.IsMatch(row)
}

// Disjunction is the logical OR of two BooleanPredicates.
type Disjunction struct {
	Left, Right BooleanPredicate
}

func NewDisjunction(left, right BooleanPredicate) Disjunction {
	return Disjunction{Left: left, Right: right}
}

func (d Disjunction) Columns() sql.ColumnSet {
	return d.Left.Columns().Union(d.Right.Columns())
}

func (d Disjunction) Digest() (uint64, error) {
	ld, err := d.Left.Digest()
	if err != nil {
		return 0, err
	}
	rd, err := d.Right.Digest()
	if err != nil {
		return 0, err
	}
	return hashstructure.Hash(struct{ Tag string; L, R uint64 }{"or", ld, rd}, nil)
}

func (d Disjunction) String() string {
	return fmt.Sprintf("(%s OR %s)", d.Left, d.Right)
}

func (d Disjunction) IsMatch(row sql.Record) (bool, error) {
	lm, err := d.Left.IsMatch(row)
	if err != nil {
		return false, err
	}
	if lm {
		return true, nil
	}
	return d.Right.IsMatch(row)
}
