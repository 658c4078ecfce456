package plan

import (
	"fmt"

	"github.com/cottontaildb/queryengine/physical"
	"github.com/cottontaildb/queryengine/rowexec"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// Select projects its input down to a chosen column list.
type Select struct {
	unaryBase
	Cols sql.ColumnSet
}

func NewSelect(input Node, cols sql.ColumnSet) *Select {
	return &Select{unaryBase: unaryBase{base: newBase(trait.PropagateThrough(input.Traits(), true)), input: input}, Cols: cols}
}

func (s *Select) Columns() sql.ColumnSet         { return s.Cols }
func (s *Select) PhysicalColumns() sql.ColumnSet { return s.Cols }
func (s *Select) Requires() sql.ColumnSet        { return s.Cols }
func (s *Select) SetInputs(inputs []Node) Node {
	cp := *s
	cp.input = inputs[0]
	return &cp
}
func (s *Select) OutputSize() int64 { return s.input.OutputSize() }
func (s *Select) Copy() Node {
	cp := *s
	cp.base = newBase(s.traits)
	return &cp
}
func (s *Select) Equal(other Node) bool {
	o, ok := other.(*Select)
	return ok && sameColumnSet(s.Cols, o.Cols) && s.input.Equal(o.input)
}
func (s *Select) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	in, err := implementFirst(ctx, s.input)
	if err != nil {
		return nil, err
	}
	return []physical.Node{physical.NewSelect(in, s.Cols)}, nil
}
func (s *Select) String() string { return fmt.Sprintf("Select(%s)", s.Cols.Columns()) }

// SelectDistinct is Select followed by duplicate elimination.
type SelectDistinct struct {
	unaryBase
	Cols sql.ColumnSet
}

func NewSelectDistinct(input Node, cols sql.ColumnSet) *SelectDistinct {
	traits := trait.PropagateThrough(input.Traits(), false).Without(trait.Order)
	return &SelectDistinct{unaryBase: unaryBase{base: newBase(traits), input: input}, Cols: cols}
}

func (s *SelectDistinct) Columns() sql.ColumnSet         { return s.Cols }
func (s *SelectDistinct) PhysicalColumns() sql.ColumnSet { return s.Cols }
func (s *SelectDistinct) Requires() sql.ColumnSet        { return s.Cols }
func (s *SelectDistinct) SetInputs(inputs []Node) Node {
	cp := *s
	cp.input = inputs[0]
	return &cp
}
func (s *SelectDistinct) OutputSize() int64 { return s.input.OutputSize() }
func (s *SelectDistinct) Copy() Node {
	cp := *s
	cp.base = newBase(s.traits)
	return &cp
}
func (s *SelectDistinct) Equal(other Node) bool {
	o, ok := other.(*SelectDistinct)
	return ok && sameColumnSet(s.Cols, o.Cols) && s.input.Equal(o.input)
}
func (s *SelectDistinct) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	in, err := implementFirst(ctx, s.input)
	if err != nil {
		return nil, err
	}
	return []physical.Node{physical.NewSelectDistinct(in, s.Cols)}, nil
}
func (s *SelectDistinct) String() string {
	return fmt.Sprintf("SelectDistinct(%s)", s.Cols.Columns())
}

// Count collapses its input to a single row count.
type Count struct{ unaryBase }

func NewCount(input Node) *Count { return &Count{unaryBase{base: newBase(trait.Set{}), input: input}} }

func (c *Count) Columns() sql.ColumnSet         { return sql.NewColumnSet(countColumn) }
func (c *Count) PhysicalColumns() sql.ColumnSet { return c.Columns() }
func (c *Count) Requires() sql.ColumnSet        { return sql.ColumnSet{} }
func (c *Count) SetInputs(inputs []Node) Node {
	cp := *c
	cp.input = inputs[0]
	return &cp
}
func (c *Count) OutputSize() int64 { return 1 }
func (c *Count) Copy() Node {
	cp := *c
	cp.base = newBase(c.traits)
	return &cp
}
func (c *Count) Equal(other Node) bool {
	o, ok := other.(*Count)
	return ok && c.input.Equal(o.input)
}

// Implement produces a plain scan-then-count physical candidate. The
// metadata-count shortcut lives in the CountPushdown rewrite rule
// (planner package), which replaces Count(EntityScan) with MetaCount
// before this phase ever runs.
func (c *Count) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	in, err := implementFirst(ctx, c.input)
	if err != nil {
		return nil, err
	}
	return []physical.Node{physical.NewCount(in)}, nil
}
func (c *Count) String() string { return "Count" }

var countColumn = mustCol("count", sql.Long)

// Exists tests whether its input produces at least one record.
type Exists struct{ unaryBase }

func NewExists(input Node) *Exists {
	return &Exists{unaryBase{base: newBase(trait.Set{}), input: input}}
}

func (e *Exists) Columns() sql.ColumnSet         { return sql.NewColumnSet(existsColumn) }
func (e *Exists) PhysicalColumns() sql.ColumnSet { return e.Columns() }
func (e *Exists) Requires() sql.ColumnSet        { return sql.ColumnSet{} }
func (e *Exists) SetInputs(inputs []Node) Node {
	cp := *e
	cp.input = inputs[0]
	return &cp
}
func (e *Exists) OutputSize() int64 { return 1 }
func (e *Exists) Copy() Node {
	cp := *e
	cp.base = newBase(e.traits)
	return &cp
}
func (e *Exists) Equal(other Node) bool {
	o, ok := other.(*Exists)
	return ok && e.input.Equal(o.input)
}
func (e *Exists) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	in, err := implementFirst(ctx, e.input)
	if err != nil {
		return nil, err
	}
	return []physical.Node{physical.NewExists(in)}, nil
}
func (e *Exists) String() string { return "Exists" }

var existsColumn = mustCol("exists", sql.Boolean)

// Aggregate computes Sum/Mean/Min/Max over a single numeric column.
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
func (a *Aggregate) Copy() Node {
	cp := *a
	cp.base = newBase(a.traits)
	return &cp
}
func (a *Aggregate) Equal(other Node) bool {
	o, ok := other.(*Aggregate)
	return ok && a.Fn == o.Fn && a.Column.Equal(o.Column) && a.input.Equal(o.input)
}
func (a *Aggregate) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	in, err := implementFirst(ctx, a.input)
	if err != nil {
		return nil, err
	}
	return []physical.Node{physical.NewAggregate(in, a.Column, a.Fn)}, nil
}
func (a *Aggregate) String() string { return fmt.Sprintf("Aggregate(%s, %s)", a.Fn, a.Column.Name) }

func mustCol(name string, typ sql.Type) sql.ColumnDef {
	n, err := sql.NewName(sql.ColumnName, name)
	if err != nil {
		panic(err)
	}
	return sql.ColumnDef{Name: n, Type: typ}
}
