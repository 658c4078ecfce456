package plan

import (
	"fmt"

	"github.com/cottontaildb/queryengine/physical"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/stats"
	"github.com/cottontaildb/queryengine/trait"
)

// Filter evaluates a BooleanPredicate against every input record.
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

func (f *Filter) Columns() sql.ColumnSet         { return f.input.Columns() }
func (f *Filter) PhysicalColumns() sql.ColumnSet { return f.input.PhysicalColumns() }
func (f *Filter) Requires() sql.ColumnSet        { return f.input.Columns().Union(f.Predicate.Columns()) }
func (f *Filter) SetInputs(inputs []Node) Node {
	cp := *f
	cp.input = inputs[0]
	return &cp
}
func (f *Filter) OutputSize() int64 { return f.Selectivity(f.input.OutputSize()) }
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

// Implement always produces the plain Filter-above-scan candidate, and —
// when this Filter sits directly above an EntityScan, per §4.3's
// BooleanIndexScan rule — one additional IndexScan candidate per index
// reporting CanProcess(predicate)=true with a finite Cost, so the
// planner's cost comparison can pick whichever is cheaper.
func (f *Filter) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	in, err := implementFirst(ctx, f.input)
	if err != nil {
		return nil, err
	}
	candidates := []physical.Node{physical.NewFilter(in, f.Predicate, f.Selectivity)}

	scan, ok := f.input.(*EntityScan)
	if !ok || ctx.IndexesFor == nil {
		return candidates, nil
	}
	for _, idx := range ctx.IndexesFor(scan.Entity) {
		if !idx.CanProcess(f.Predicate) {
			continue
		}
		c := idx.Cost(f.Predicate)
		if c.IsInvalid() {
			continue
		}
		cols := idx.ColumnsFor(f.Predicate)
		indexScan := physical.NewIndexScan(idx, f.Predicate, sql.NewColumnSet(cols...), f.OutputSize(), idx.TraitsFor(f.Predicate))
		candidates = append(candidates, indexScan)
	}
	return candidates, nil
}

func (f *Filter) String() string { return fmt.Sprintf("Filter(%s)", f.Predicate) }

// SubqueryBranch pairs an independently-planned logical subquery tree
// with the binding slot FilterOnSubSelect fills once that subquery
// finishes, and whether that slot is an IN-style multi-value binding.
type SubqueryBranch struct {
	Tree      Node
	BindingID int
	IsIn      bool
}

// FilterOnSubSelect is the n-ary counterpart of Filter: its first input is
// the main stream, every following input is one subquery's logical tree.
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

func (f *FilterOnSubSelect) Columns() sql.ColumnSet         { return f.main().Columns() }
func (f *FilterOnSubSelect) PhysicalColumns() sql.ColumnSet { return f.main().PhysicalColumns() }
func (f *FilterOnSubSelect) Requires() sql.ColumnSet {
	return f.main().Columns().Union(f.Predicate.Columns())
}
func (f *FilterOnSubSelect) SetInputs(inputs []Node) Node {
	cp := *f
	cp.inputs = inputs
	return &cp
}
func (f *FilterOnSubSelect) OutputSize() int64 { return f.main().OutputSize() }
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
func (f *FilterOnSubSelect) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	mainPhys, err := implementFirst(ctx, f.main())
	if err != nil {
		return nil, err
	}
	branches := make([]physical.SubqueryBranch, len(f.Branches))
	for i, b := range f.Branches {
		tree, err := implementFirst(ctx, b.Tree)
		if err != nil {
			return nil, err
		}
		branches[i] = physical.SubqueryBranch{Tree: tree, BindingID: b.BindingID, IsIn: b.IsIn}
	}
	return []physical.Node{physical.NewFilterOnSubSelect(mainPhys, f.Predicate, branches)}, nil
}
func (f *FilterOnSubSelect) String() string {
	return fmt.Sprintf("FilterOnSubSelect(%s)", f.Predicate)
}
