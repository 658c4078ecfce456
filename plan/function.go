package plan

import (
	"fmt"

	"github.com/cottontaildb/queryengine/function"
	"github.com/cottontaildb/queryengine/physical"
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

func (f *Function) Columns() sql.ColumnSet         { return f.input.Columns().Add(f.Out) }
func (f *Function) PhysicalColumns() sql.ColumnSet { return f.input.PhysicalColumns() }
func (f *Function) Requires() sql.ColumnSet        { return sql.NewColumnSet(f.Args...) }
func (f *Function) SetInputs(inputs []Node) Node {
	cp := *f
	cp.input = inputs[0]
	return &cp
}
func (f *Function) OutputSize() int64 { return f.input.OutputSize() }
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
func (f *Function) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	in, err := implementFirst(ctx, f.input)
	if err != nil {
		return nil, err
	}
	return []physical.Node{physical.NewFunction(in, f.Fn, f.Args, f.Out)}, nil
}
func (f *Function) String() string { return fmt.Sprintf("Function(%s)", f.Fn.Signature()) }

// NestedFunction evaluates fn(args) per record without extending the
// stream's schema.
type NestedFunction struct {
	unaryBase
	Fn   function.Function
	Args []sql.ColumnDef
}

func NewNestedFunction(input Node, fn function.Function, args []sql.ColumnDef) *NestedFunction {
	return &NestedFunction{unaryBase: unaryBase{base: newBase(trait.PropagateThrough(input.Traits(), true)), input: input}, Fn: fn, Args: args}
}

func (n *NestedFunction) Columns() sql.ColumnSet         { return n.input.Columns() }
func (n *NestedFunction) PhysicalColumns() sql.ColumnSet { return n.input.PhysicalColumns() }
func (n *NestedFunction) Requires() sql.ColumnSet        { return sql.NewColumnSet(n.Args...) }
func (n *NestedFunction) SetInputs(inputs []Node) Node {
	cp := *n
	cp.input = inputs[0]
	return &cp
}
func (n *NestedFunction) OutputSize() int64 { return n.input.OutputSize() }
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
func (n *NestedFunction) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	in, err := implementFirst(ctx, n.input)
	if err != nil {
		return nil, err
	}
	return []physical.Node{physical.NewNestedFunction(in, n.Fn, n.Args)}, nil
}
func (n *NestedFunction) String() string { return fmt.Sprintf("NestedFunction(%s)", n.Fn.Signature()) }
