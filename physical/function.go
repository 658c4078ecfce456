package physical

import (
	"fmt"

	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/function"
	"github.com/cottontaildb/queryengine/rowexec"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// Function materialises fn(args) as a new output column on every record.
type Function struct {
	unaryBase
	Fn   function.Function
	Args []sql.ColumnDef
	Out  sql.ColumnDef
}

func NewFunction(input Node, fn function.Function, args []sql.ColumnDef, out sql.ColumnDef) *Function {
	return &Function{unaryBase: unaryBase{base: newBase(trait.PropagateThrough(input.Traits(), true)), input: input}, Fn: fn, Args: args, Out: out}
}

func (f *Function) Columns() sql.ColumnSet  { return f.input.Columns().Add(f.Out) }
func (f *Function) PhysicalColumns() sql.ColumnSet { return f.input.PhysicalColumns() }
func (f *Function) Requires() sql.ColumnSet { return sql.NewColumnSet(f.Args...) }
func (f *Function) SetInputs(inputs []Node) Node {
	cp := *f
	cp.input = inputs[0]
	return &cp
}
func (f *Function) OutputSize() int64 { return f.input.OutputSize() }
func (f *Function) Cost() cost.Cost {
	return cost.Cost{CPU: float64(f.input.OutputSize()) * cost.CostFlop}
}
func (f *Function) Copy() Node {
	cp := *f
	cp.base = newBase(f.traits)
	return &cp
}
func (f *Function) Equal(other Node) bool {
	o, ok := other.(*Function)
	if !ok || f.Fn.Signature().String() != o.Fn.Signature().String() || !f.Out.Equal(o.Out) || len(f.Args) != len(o.Args) {
		return false
	}
	for i := range f.Args {
		if !f.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return f.input.Equal(o.input)
}
func (f *Function) Partition(total, index int) Node {
	return f.SetInputs([]Node{f.input.Partition(total, index)})
}
func (f *Function) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	in, err := f.input.ToOperator(ctx)
	if err != nil {
		return nil, err
	}
	idx := columnIndexes(in.Schema(), f.Args)
	return rowexec.NewFunctionOperator(in, f.Fn, idx, f.Out), nil
}
func (f *Function) String() string { return fmt.Sprintf("Function(%s)", f.Fn.Signature()) }

// NestedFunction evaluates fn(args) per record without extending the
// stream's schema; only an immediately downstream consumer (typically
// Filter, via the function's own nested comparison) sees the value.
type NestedFunction struct {
	unaryBase
	Fn   function.Function
	Args []sql.ColumnDef
}

func NewNestedFunction(input Node, fn function.Function, args []sql.ColumnDef) *NestedFunction {
	return &NestedFunction{unaryBase: unaryBase{base: newBase(trait.PropagateThrough(input.Traits(), true)), input: input}, Fn: fn, Args: args}
}

func (n *NestedFunction) Columns() sql.ColumnSet  { return n.input.Columns() }
func (n *NestedFunction) PhysicalColumns() sql.ColumnSet { return n.input.PhysicalColumns() }
func (n *NestedFunction) Requires() sql.ColumnSet { return sql.NewColumnSet(n.Args...) }
func (n *NestedFunction) SetInputs(inputs []Node) Node {
	cp := *n
	cp.input = inputs[0]
	return &cp
}
func (n *NestedFunction) OutputSize() int64 { return n.input.OutputSize() }
func (n *NestedFunction) Cost() cost.Cost {
	return cost.Cost{CPU: float64(n.input.OutputSize()) * cost.CostFlop}
}
func (n *NestedFunction) Copy() Node {
	cp := *n
	cp.base = newBase(n.traits)
	return &cp
}
func (n *NestedFunction) Equal(other Node) bool {
	o, ok := other.(*NestedFunction)
	if !ok || n.Fn.Signature().String() != o.Fn.Signature().String() || len(n.Args) != len(o.Args) {
		return false
	}
	for i := range n.Args {
		if !n.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return n.input.Equal(o.input)
}
func (n *NestedFunction) Partition(total, index int) Node {
	return n.SetInputs([]Node{n.input.Partition(total, index)})
}
func (n *NestedFunction) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	in, err := n.input.ToOperator(ctx)
	if err != nil {
		return nil, err
	}
	idx := columnIndexes(in.Schema(), n.Args)
	return rowexec.NewNestedFunctionOperator(in, n.Fn, idx), nil
}
func (n *NestedFunction) String() string { return fmt.Sprintf("NestedFunction(%s)", n.Fn.Signature()) }
