package physical

import (
	"fmt"

	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/rowexec"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

func columnIndexes(have []sql.ColumnDef, want []sql.ColumnDef) []int {
	idx := make([]int, len(want))
	for i, w := range want {
		idx[i] = -1
		for j, h := range have {
			if h.Name.Equal(w.Name) {
				idx[i] = j
				break
			}
		}
	}
	return idx
}

// Select projects its input down to a chosen column list, in the given
// order.
type Select struct {
	unaryBase
	Cols sql.ColumnSet
}

func NewSelect(input Node, cols sql.ColumnSet) *Select {
	return &Select{unaryBase: unaryBase{base: newBase(trait.PropagateThrough(input.Traits(), true)), input: input}, Cols: cols}
}

func (s *Select) Columns() sql.ColumnSet  { return s.Cols }
func (s *Select) PhysicalColumns() sql.ColumnSet { return s.Cols }
func (s *Select) Requires() sql.ColumnSet { return s.Cols }
func (s *Select) SetInputs(inputs []Node) Node {
	cp := *s
	cp.input = inputs[0]
	return &cp
}
func (s *Select) OutputSize() int64 { return s.input.OutputSize() }
func (s *Select) Cost() cost.Cost {
	return cost.Cost{CPU: float64(s.input.OutputSize()) * cost.CostFlop}
}
func (s *Select) Copy() Node {
	cp := *s
	cp.base = newBase(s.traits)
	return &cp
}
func (s *Select) Equal(other Node) bool {
	o, ok := other.(*Select)
	return ok && sameColumnSet(s.Cols, o.Cols) && s.input.Equal(o.input)
}
func (s *Select) Partition(total, index int) Node {
	return s.SetInputs([]Node{s.input.Partition(total, index)})
}
func (s *Select) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	in, err := s.input.ToOperator(ctx)
	if err != nil {
		return nil, err
	}
	want := s.Cols.Columns()
	idx := columnIndexes(in.Schema(), want)
	return rowexec.NewSelectOperator(in, want, idx), nil
}
func (s *Select) String() string { return fmt.Sprintf("Select(%s)", s.Cols.Columns()) }

// SelectDistinct is Select followed by duplicate elimination, a pipeline
// breaker.
type SelectDistinct struct {
	unaryBase
	Cols sql.ColumnSet
}

func NewSelectDistinct(input Node, cols sql.ColumnSet) *SelectDistinct {
	traits := trait.PropagateThrough(input.Traits(), false).Without(trait.Order)
	return &SelectDistinct{unaryBase: unaryBase{base: newBase(traits), input: input}, Cols: cols}
}

func (s *SelectDistinct) Columns() sql.ColumnSet  { return s.Cols }
func (s *SelectDistinct) PhysicalColumns() sql.ColumnSet { return s.Cols }
func (s *SelectDistinct) Requires() sql.ColumnSet { return s.Cols }
func (s *SelectDistinct) SetInputs(inputs []Node) Node {
	cp := *s
	cp.input = inputs[0]
	return &cp
}
func (s *SelectDistinct) OutputSize() int64 { return s.input.OutputSize() }
func (s *SelectDistinct) Cost() cost.Cost {
	n := float64(s.input.OutputSize())
	return cost.Cost{CPU: n * cost.CostFlop, Memory: n * cost.CostMemoryAccess}
}
func (s *SelectDistinct) Copy() Node {
	cp := *s
	cp.base = newBase(s.traits)
	return &cp
}
func (s *SelectDistinct) Equal(other Node) bool {
	o, ok := other.(*SelectDistinct)
	return ok && sameColumnSet(s.Cols, o.Cols) && s.input.Equal(o.input)
}
func (s *SelectDistinct) Partition(total, index int) Node {
	// Deduplication must see every candidate tuple at once; a partitioned
	// copy could emit the same distinct tuple once per sibling.
	return s
}
func (s *SelectDistinct) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	in, err := s.input.ToOperator(ctx)
	if err != nil {
		return nil, err
	}
	want := s.Cols.Columns()
	idx := columnIndexes(in.Schema(), want)
	return rowexec.NewSelectDistinctOperator(in, want, idx), nil
}
func (s *SelectDistinct) String() string { return fmt.Sprintf("SelectDistinct(%s)", s.Cols.Columns()) }

// Count is a pipeline breaker collapsing its input to a single row count.
type Count struct {
	unaryBase
}

func NewCount(input Node) *Count {
	return &Count{unaryBase{base: newBase(trait.Set{}), input: input}}
}

func (c *Count) Columns() sql.ColumnSet  { return sql.NewColumnSet(countColumn) }
func (c *Count) PhysicalColumns() sql.ColumnSet { return c.Columns() }
func (c *Count) Requires() sql.ColumnSet { return sql.ColumnSet{} }
func (c *Count) SetInputs(inputs []Node) Node {
	cp := *c
	cp.input = inputs[0]
	return &cp
}
func (c *Count) OutputSize() int64 { return 1 }
func (c *Count) Cost() cost.Cost {
	return cost.Cost{CPU: float64(c.input.OutputSize()) * cost.CostFlop}
}
func (c *Count) Copy() Node {
	cp := *c
	cp.base = newBase(c.traits)
	return &cp
}
func (c *Count) Equal(other Node) bool {
	o, ok := other.(*Count)
	return ok && c.input.Equal(o.input)
}
func (c *Count) Partition(total, index int) Node { return c }
func (c *Count) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	in, err := c.input.ToOperator(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.NewCountOperator(in), nil
}
func (c *Count) String() string { return "Count" }

var countColumn = mustCol("count", sql.Long)

// Exists is a pipeline breaker testing whether its input produces at
// least one record.
type Exists struct {
	unaryBase
}

func NewExists(input Node) *Exists {
	return &Exists{unaryBase{base: newBase(trait.Set{}), input: input}}
}

func (e *Exists) Columns() sql.ColumnSet  { return sql.NewColumnSet(existsColumn) }
func (e *Exists) PhysicalColumns() sql.ColumnSet { return e.Columns() }
func (e *Exists) Requires() sql.ColumnSet { return sql.ColumnSet{} }
func (e *Exists) SetInputs(inputs []Node) Node {
	cp := *e
	cp.input = inputs[0]
	return &cp
}
func (e *Exists) OutputSize() int64 { return 1 }
func (e *Exists) Cost() cost.Cost   { return cost.Cost{CPU: cost.CostFlop} }
func (e *Exists) Copy() Node {
	cp := *e
	cp.base = newBase(e.traits)
	return &cp
}
func (e *Exists) Equal(other Node) bool {
	o, ok := other.(*Exists)
	return ok && e.input.Equal(o.input)
}
func (e *Exists) Partition(total, index int) Node { return e }
func (e *Exists) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	in, err := e.input.ToOperator(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.NewExistsOperator(in), nil
}
func (e *Exists) String() string { return "Exists" }

var existsColumn = mustCol("exists", sql.Boolean)

// Aggregate is a pipeline breaker computing Sum/Mean/Min/Max over a single
// numeric column.
type Aggregate struct {
	unaryBase
	Column sql.ColumnDef
	Fn     rowexec.AggFunc
}

func NewAggregate(input Node, col sql.ColumnDef, fn rowexec.AggFunc) *Aggregate {
	return &Aggregate{unaryBase: unaryBase{base: newBase(trait.Set{}), input: input}, Column: col, Fn: fn}
}

func (a *Aggregate) Columns() sql.ColumnSet {
	return sql.NewColumnSet(mustCol(a.Fn.String(), a.Column.Type))
}
func (a *Aggregate) PhysicalColumns() sql.ColumnSet { return a.Columns() }
func (a *Aggregate) Requires() sql.ColumnSet        { return sql.NewColumnSet(a.Column) }
func (a *Aggregate) SetInputs(inputs []Node) Node {
	cp := *a
	cp.input = inputs[0]
	return &cp
}
func (a *Aggregate) OutputSize() int64 { return 1 }
func (a *Aggregate) Cost() cost.Cost {
	return cost.Cost{CPU: float64(a.input.OutputSize()) * cost.CostFlop}
}
func (a *Aggregate) Copy() Node {
	cp := *a
	cp.base = newBase(a.traits)
	return &cp
}
func (a *Aggregate) Equal(other Node) bool {
	o, ok := other.(*Aggregate)
	return ok && a.Fn == o.Fn && a.Column.Equal(o.Column) && a.input.Equal(o.input)
}
func (a *Aggregate) Partition(total, index int) Node { return a }
func (a *Aggregate) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	in, err := a.input.ToOperator(ctx)
	if err != nil {
		return nil, err
	}
	idx := columnIndexes(in.Schema(), []sql.ColumnDef{a.Column})[0]
	return rowexec.NewAggregateOperator(in, idx, a.Fn, a.Column.Type), nil
}
func (a *Aggregate) String() string { return fmt.Sprintf("Aggregate(%s, %s)", a.Fn, a.Column.Name) }

func mustCol(name string, typ sql.Type) sql.ColumnDef {
	n, err := sql.NewName(sql.ColumnName, name)
	if err != nil {
		panic(err)
	}
	return sql.ColumnDef{Name: n, Type: typ}
}
