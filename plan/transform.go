package plan

import (
	"fmt"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/physical"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// Fetch grafts additional columns, read back from Entity by TupleId, onto
// every record of its input.
type Fetch struct {
	unaryBase
	Entity catalog.Entity
	Add    sql.ColumnSet
}

func NewFetch(input Node, entity catalog.Entity, add sql.ColumnSet) *Fetch {
	return &Fetch{unaryBase: unaryBase{base: newBase(trait.PropagateThrough(input.Traits(), true)), input: input}, Entity: entity, Add: add}
}

func (f *Fetch) Columns() sql.ColumnSet         { return f.input.Columns().Union(f.Add) }
func (f *Fetch) PhysicalColumns() sql.ColumnSet { return f.input.PhysicalColumns() }
func (f *Fetch) Requires() sql.ColumnSet        { return f.input.Columns() }
func (f *Fetch) SetInputs(inputs []Node) Node {
	cp := *f
	cp.input = inputs[0]
	return &cp
}
func (f *Fetch) OutputSize() int64 { return f.input.OutputSize() }
func (f *Fetch) Copy() Node {
	cp := *f
	cp.base = newBase(f.traits)
	return &cp
}
func (f *Fetch) Equal(other Node) bool {
	o, ok := other.(*Fetch)
	return ok && o.Entity == f.Entity && sameColumnSet(f.Add, o.Add) && f.input.Equal(o.input)
}
func (f *Fetch) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	in, err := implementFirst(ctx, f.input)
	if err != nil {
		return nil, err
	}
	return []physical.Node{physical.NewFetch(in, f.Entity, f.Add)}, nil
}
func (f *Fetch) String() string { return fmt.Sprintf("Fetch(%s)", f.Add.Columns()) }

// Limit passes through at most N records.
type Limit struct {
	unaryBase
	N int64
}

func NewLimit(input Node, n int64) *Limit {
	traits := trait.PropagateThrough(input.Traits(), false).
		With(trait.LimitTrait{Limit: n}).
		With(trait.NotPartitionableTrait{})
	return &Limit{unaryBase: unaryBase{base: newBase(traits), input: input}, N: n}
}

func (l *Limit) Columns() sql.ColumnSet         { return l.input.Columns() }
func (l *Limit) PhysicalColumns() sql.ColumnSet { return l.input.PhysicalColumns() }
func (l *Limit) Requires() sql.ColumnSet        { return l.input.Columns() }
func (l *Limit) SetInputs(inputs []Node) Node {
	cp := *l
	cp.input = inputs[0]
	return &cp
}
func (l *Limit) OutputSize() int64 {
	if s := l.input.OutputSize(); s < l.N {
		return s
	}
	return l.N
}
func (l *Limit) Copy() Node {
	cp := *l
	cp.base = newBase(l.traits)
	return &cp
}
func (l *Limit) Equal(other Node) bool {
	o, ok := other.(*Limit)
	// Strict equality by class + N, not confused with Skip's N.
	return ok && o.N == l.N && l.input.Equal(o.input)
}
func (l *Limit) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	in, err := implementFirst(ctx, l.input)
	if err != nil {
		return nil, err
	}
	return []physical.Node{physical.NewLimit(in, l.N)}, nil
}
func (l *Limit) String() string { return fmt.Sprintf("Limit(%d)", l.N) }

// Skip discards the first N records of its input.
type Skip struct {
	unaryBase
	N int64
}

func NewSkip(input Node, n int64) *Skip {
	traits := trait.PropagateThrough(input.Traits(), false).With(trait.NotPartitionableTrait{})
	return &Skip{unaryBase: unaryBase{base: newBase(traits), input: input}, N: n}
}

func (s *Skip) Columns() sql.ColumnSet         { return s.input.Columns() }
func (s *Skip) PhysicalColumns() sql.ColumnSet { return s.input.PhysicalColumns() }
func (s *Skip) Requires() sql.ColumnSet        { return s.input.Columns() }
func (s *Skip) SetInputs(inputs []Node) Node {
	cp := *s
	cp.input = inputs[0]
	return &cp
}
func (s *Skip) OutputSize() int64 {
	out := s.input.OutputSize() - s.N
	if out < 0 {
		return 0
	}
	return out
}
func (s *Skip) Copy() Node {
	cp := *s
	cp.base = newBase(s.traits)
	return &cp
}
func (s *Skip) Equal(other Node) bool {
	o, ok := other.(*Skip)
	// §9 design note: the teacher's source compares Skip.equals against
	// Limit's field, almost certainly a bug; here it is strictly by class
	// and N, symmetric with Limit.
	return ok && o.N == s.N && s.input.Equal(o.input)
}
func (s *Skip) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	in, err := implementFirst(ctx, s.input)
	if err != nil {
		return nil, err
	}
	return []physical.Node{physical.NewSkip(in, s.N)}, nil
}
func (s *Skip) String() string { return fmt.Sprintf("Skip(%d)", s.N) }

// Sort is a pipeline breaker establishing the given ordering.
type Sort struct {
	unaryBase
	SortOn []trait.OrderTerm
}

func NewSort(input Node, sortOn []trait.OrderTerm) *Sort {
	traits := trait.PropagateThrough(input.Traits(), true).With(trait.OrderTrait{Order: sortOn})
	return &Sort{unaryBase: unaryBase{base: newBase(traits), input: input}, SortOn: sortOn}
}

func (s *Sort) Columns() sql.ColumnSet         { return s.input.Columns() }
func (s *Sort) PhysicalColumns() sql.ColumnSet { return s.input.PhysicalColumns() }
func (s *Sort) Requires() sql.ColumnSet        { return s.input.Columns() }
func (s *Sort) SetInputs(inputs []Node) Node {
	cp := *s
	cp.input = inputs[0]
	return &cp
}
func (s *Sort) OutputSize() int64 { return s.input.OutputSize() }
func (s *Sort) Copy() Node {
	cp := *s
	cp.base = newBase(s.traits)
	return &cp
}
func (s *Sort) Equal(other Node) bool {
	o, ok := other.(*Sort)
	if !ok || len(o.SortOn) != len(s.SortOn) {
		return false
	}
	for i := range s.SortOn {
		if !s.SortOn[i].Column.Equal(o.SortOn[i].Column) || s.SortOn[i].Direction != o.SortOn[i].Direction {
			return false
		}
	}
	return s.input.Equal(o.input)
}
func (s *Sort) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	in, err := implementFirst(ctx, s.input)
	if err != nil {
		return nil, err
	}
	return []physical.Node{physical.NewSort(in, s.SortOn)}, nil
}
func (s *Sort) String() string { return fmt.Sprintf("Sort(%v)", s.SortOn) }
