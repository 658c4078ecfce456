package physical

import (
	"fmt"

	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/rowexec"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// Merge interleaves several partitioned sibling subtrees, in unspecified
// order, produced by the planner's partitioning pass (§4.3) whenever it
// decides a subtree is worth splitting across workers.
type Merge struct {
	naryBase
}

func NewMerge(inputs []Node) *Merge {
	sets := make([]trait.Set, len(inputs))
	for i, in := range inputs {
		sets[i] = in.Traits()
	}
	return &Merge{naryBase{base: newBase(trait.MergeDownstream(sets...)), inputs: inputs}}
}

func (m *Merge) Columns() sql.ColumnSet {
	if len(m.inputs) == 0 {
		return sql.ColumnSet{}
	}
	return m.inputs[0].Columns()
}
func (m *Merge) PhysicalColumns() sql.ColumnSet { return m.Columns() }
func (m *Merge) Requires() sql.ColumnSet        { return sql.ColumnSet{} }
func (m *Merge) SetInputs(inputs []Node) Node {
	cp := *m
	cp.inputs = inputs
	return &cp
}
func (m *Merge) OutputSize() int64 {
	var total int64
	for _, in := range m.inputs {
		total += in.OutputSize()
	}
	return total
}
func (m *Merge) Cost() cost.Cost { return cost.Cost{CPU: float64(m.OutputSize()) * cost.CostFlop} }
func (m *Merge) Copy() Node {
	cp := *m
	cp.base = newBase(m.traits)
	return &cp
}
func (m *Merge) Equal(other Node) bool {
	o, ok := other.(*Merge)
	return ok && equalChildren(m.inputs, o.inputs)
}
func (m *Merge) Partition(total, index int) Node { return m }
func (m *Merge) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	ops := make([]rowexec.Operator, len(m.inputs))
	for i, in := range m.inputs {
		op, err := in.ToOperator(&ExecContext{Query: ctx.Query, Binding: ctx.Binding, Partition: &Partition{Index: i, Total: len(m.inputs)}})
		if err != nil {
			return nil, err
		}
		ops[i] = op
	}
	return rowexec.NewMergeOperator(ops), nil
}
func (m *Merge) String() string { return fmt.Sprintf("Merge(%d)", len(m.inputs)) }

// MergeLimitingSort merges several partitioned sibling subtrees, then
// sorts the union and keeps only the first Limit records — the physical
// counterpart of a Limit directly above a Sort whose input was worth
// partitioning.
type MergeLimitingSort struct {
	naryBase
	Order []trait.OrderTerm
	Limit int64
}

func NewMergeLimitingSort(inputs []Node, order []trait.OrderTerm, limit int64) *MergeLimitingSort {
	sets := make([]trait.Set, len(inputs))
	for i, in := range inputs {
		sets[i] = in.Traits()
	}
	traits := trait.MergeDownstream(sets...).
		With(trait.OrderTrait{Order: order}).
		With(trait.LimitTrait{Limit: limit})
	return &MergeLimitingSort{naryBase: naryBase{base: newBase(traits), inputs: inputs}, Order: order, Limit: limit}
}

func (m *MergeLimitingSort) Columns() sql.ColumnSet {
	if len(m.inputs) == 0 {
		return sql.ColumnSet{}
	}
	return m.inputs[0].Columns()
}
func (m *MergeLimitingSort) PhysicalColumns() sql.ColumnSet { return m.Columns() }
func (m *MergeLimitingSort) Requires() sql.ColumnSet        { return sql.ColumnSet{} }
func (m *MergeLimitingSort) SetInputs(inputs []Node) Node {
	cp := *m
	cp.inputs = inputs
	return &cp
}
func (m *MergeLimitingSort) OutputSize() int64 {
	var total int64
	for _, in := range m.inputs {
		total += in.OutputSize()
	}
	if total > m.Limit {
		return m.Limit
	}
	return total
}
func (m *MergeLimitingSort) Cost() cost.Cost {
	n := float64(0)
	for _, in := range m.inputs {
		n += float64(in.OutputSize())
	}
	logn := logN(n)
	return cost.Cost{CPU: n * logn * cost.CostFlop, Memory: n * cost.CostMemoryAccess}
}
func (m *MergeLimitingSort) Copy() Node {
	cp := *m
	cp.base = newBase(m.traits)
	return &cp
}
func (m *MergeLimitingSort) Equal(other Node) bool {
	o, ok := other.(*MergeLimitingSort)
	if !ok || m.Limit != o.Limit || len(m.Order) != len(o.Order) {
		return false
	}
	for i := range m.Order {
		if !m.Order[i].Column.Equal(o.Order[i].Column) || m.Order[i].Direction != o.Order[i].Direction {
			return false
		}
	}
	return equalChildren(m.inputs, o.inputs)
}
func (m *MergeLimitingSort) Partition(total, index int) Node { return m }
func (m *MergeLimitingSort) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	ops := make([]rowexec.Operator, len(m.inputs))
	for i, in := range m.inputs {
		op, err := in.ToOperator(&ExecContext{Query: ctx.Query, Binding: ctx.Binding, Partition: &Partition{Index: i, Total: len(m.inputs)}})
		if err != nil {
			return nil, err
		}
		ops[i] = op
	}
	return rowexec.NewMergeLimitingSortOperator(ops, m.Order, m.Limit), nil
}
func (m *MergeLimitingSort) String() string {
	return fmt.Sprintf("MergeLimitingSort(%d, limit=%d)", len(m.inputs), m.Limit)
}
