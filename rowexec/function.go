package rowexec

import (
	"github.com/cottontaildb/queryengine/function"
	"github.com/cottontaildb/queryengine/sql"
)

// FunctionOperator materialises the result of fn(args) as an additional
// output column on every record.
type FunctionOperator struct {
	input   Operator
	schema  []sql.ColumnDef
	fn      function.Function
	argIdx  []int
	outType sql.Type
}

func NewFunctionOperator(input Operator, fn function.Function, argIdx []int, out sql.ColumnDef) *FunctionOperator {
	schema := append(append([]sql.ColumnDef{}, input.Schema()...), out)
	return &FunctionOperator{input: input, schema: schema, fn: fn, argIdx: argIdx, outType: out.Type}
}

func (f *FunctionOperator) Schema() []sql.ColumnDef { return f.schema }

func (f *FunctionOperator) Next(ctx *sql.Context) (sql.Record, error) {
	r, err := f.input.Next(ctx)
	if err != nil {
		return sql.Record{}, err
	}
	args := make([]sql.Value, len(f.argIdx))
	for i, idx := range f.argIdx {
		args[i] = r.Values[idx]
	}
	v, err := f.fn.Eval(args)
	if err != nil {
		return sql.Record{}, err
	}
	return r.Append(v), nil
}

func (f *FunctionOperator) Close(ctx *sql.Context) error { return f.input.Close(ctx) }

// NestedFunctionOperator evaluates fn(args) per record without adding a
// column to the stream's schema: the computed value is exposed only
// through Last, valid for the record most recently returned by Next, for
// an operator immediately downstream (e.g. a Filter comparing it to a
// threshold) to consume without persisting it onto every row.
type NestedFunctionOperator struct {
	input  Operator
	fn     function.Function
	argIdx []int
	last   sql.Value
}

func NewNestedFunctionOperator(input Operator, fn function.Function, argIdx []int) *NestedFunctionOperator {
	return &NestedFunctionOperator{input: input, fn: fn, argIdx: argIdx}
}

func (n *NestedFunctionOperator) Schema() []sql.ColumnDef { return n.input.Schema() }

func (n *NestedFunctionOperator) Next(ctx *sql.Context) (sql.Record, error) {
	r, err := n.input.Next(ctx)
	if err != nil {
		return sql.Record{}, err
	}
	args := make([]sql.Value, len(n.argIdx))
	for i, idx := range n.argIdx {
		args[i] = r.Values[idx]
	}
	v, err := n.fn.Eval(args)
	if err != nil {
		return sql.Record{}, err
	}
	n.last = v
	return r, nil
}

// Last returns the function's result for the most recently returned
// record.
func (n *NestedFunctionOperator) Last() sql.Value { return n.last }

func (n *NestedFunctionOperator) Close(ctx *sql.Context) error { return n.input.Close(ctx) }
