package physical

import (
	"fmt"

	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/rowexec"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/stats"
	"github.com/cottontaildb/queryengine/trait"
)

// Filter evaluates a BooleanPredicate against every input record,
// estimating its output size via a selectivity Estimator supplied by the
// planner (stats.NaiveSelectivityCalculator in the absence of a better
// source).
type Filter struct {
	unaryBase
	Predicate   predicate.BooleanPredicate
	Selectivity stats.Estimator
}

func NewFilter(input Node, pred predicate.BooleanPredicate, sel stats.Estimator) *Filter {
	if sel == nil {
		sel = func(rows int64) int64 { return rows }
	}
	traits := trait.PropagateThrough(input.Traits(), false)
	return &Filter{unaryBase: unaryBase{base: newBase(traits), input: input}, Predicate: pred, Selectivity: sel}
}

func (f *Filter) Columns() sql.ColumnSet  { return f.input.Columns() }
func (f *Filter) PhysicalColumns() sql.ColumnSet { return f.input.PhysicalColumns() }
func (f *Filter) Requires() sql.ColumnSet { return f.input.Columns().Union(f.Predicate.Columns()) }
func (f *Filter) SetInputs(inputs []Node) Node {
	cp := *f
	cp.input = inputs[0]
	return &cp
}
func (f *Filter) OutputSize() int64 { return f.Selectivity(f.input.OutputSize()) }
func (f *Filter) Cost() cost.Cost {
	n := f.input.OutputSize()
	return cost.Cost{CPU: float64(n) * cost.CostFlop}
}
func (f *Filter) Copy() Node {
	cp := *f
	cp.base = newBase(f.traits)
	return &cp
}
func (f *Filter) Equal(other Node) bool {
	o, ok := other.(*Filter)
	if !ok {
		return false
	}
	sd, err1 := f.Predicate.Digest()
	od, err2 := o.Predicate.Digest()
	return err1 == nil && err2 == nil && sd == od && f.input.Equal(o.input)
}
func (f *Filter) Partition(total, index int) Node {
	return f.SetInputs([]Node{f.input.Partition(total, index)})
}
func (f *Filter) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	in, err := f.input.ToOperator(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.NewFilterOperator(in, f.Predicate), nil
}
func (f *Filter) String() string { return fmt.Sprintf("Filter(%s)", f.Predicate) }

// SubqueryBranch pairs an independently-planned subquery's physical tree
// with the binding slot FilterOnSubSelect must fill once that subquery
// finishes, and whether that slot is an IN-style multi-value binding.
type SubqueryBranch struct {
	Tree      Node
	BindingID int
	IsIn      bool
}

// FilterOnSubSelect is the n-ary counterpart of Filter: its first input is
// the main stream, every following input is one subquery's physical tree.
// Both operand sides of the governing predicate are treated symmetrically
// (§9): a Subquery binding resolves identically regardless of which side
// of the Atomic comparison it sits on.
type FilterOnSubSelect struct {
	naryBase
	Predicate predicate.BooleanPredicate
	Branches  []SubqueryBranch
}

func NewFilterOnSubSelect(input Node, pred predicate.BooleanPredicate, branches []SubqueryBranch) *FilterOnSubSelect {
	inputs := make([]Node, 0, len(branches)+1)
	inputs = append(inputs, input)
	for _, b := range branches {
		inputs = append(inputs, b.Tree)
	}
	traits := trait.PropagateThrough(input.Traits(), false).With(trait.NotPartitionableTrait{})
	return &FilterOnSubSelect{naryBase: naryBase{base: newBase(traits), inputs: inputs}, Predicate: pred, Branches: branches}
}

func (f *FilterOnSubSelect) main() Node { return f.inputs[0] }

func (f *FilterOnSubSelect) Columns() sql.ColumnSet  { return f.main().Columns() }
func (f *FilterOnSubSelect) PhysicalColumns() sql.ColumnSet { return f.main().PhysicalColumns() }
func (f *FilterOnSubSelect) Requires() sql.ColumnSet { return f.main().Columns().Union(f.Predicate.Columns()) }
func (f *FilterOnSubSelect) SetInputs(inputs []Node) Node {
	cp := *f
	cp.inputs = inputs
	return &cp
}
func (f *FilterOnSubSelect) OutputSize() int64 { return f.main().OutputSize() }
func (f *FilterOnSubSelect) Cost() cost.Cost {
	n := f.main().OutputSize()
	return cost.Cost{CPU: float64(n) * cost.CostFlop}
}
func (f *FilterOnSubSelect) Copy() Node {
	cp := *f
	cp.base = newBase(f.traits)
	return &cp
}
func (f *FilterOnSubSelect) Equal(other Node) bool {
	o, ok := other.(*FilterOnSubSelect)
	if !ok || len(o.Branches) != len(f.Branches) {
		return false
	}
	sd, err1 := f.Predicate.Digest()
	od, err2 := o.Predicate.Digest()
	if err1 != nil || err2 != nil || sd != od {
		return false
	}
	return equalChildren(f.inputs, o.inputs)
}
func (f *FilterOnSubSelect) Partition(total, index int) Node {
	// NotPartitionableTrait: the planner never partitions this node.
	return f
}
func (f *FilterOnSubSelect) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	in, err := f.main().ToOperator(ctx)
	if err != nil {
		return nil, err
	}
	subqueries := make([]rowexec.Subquery, len(f.Branches))
	for i, b := range f.Branches {
		op, err := b.Tree.ToOperator(&ExecContext{Query: ctx.Query, Binding: ctx.Binding})
		if err != nil {
			return nil, err
		}
		subqueries[i] = rowexec.Subquery{Group: b.Tree.GroupID(), BindingID: b.BindingID, Operator: op, IsIn: b.IsIn}
	}
	return rowexec.NewFilterOnSubSelectOperator(in, f.Predicate, ctx.Binding, subqueries), nil
}
func (f *FilterOnSubSelect) String() string { return fmt.Sprintf("FilterOnSubSelect(%s)", f.Predicate) }
