package plan

import (
	"fmt"

	"github.com/cottontaildb/queryengine/physical"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// Merge interleaves several sibling subtrees. Logical Merge nodes are
// rare — the planner's own partitioning pass (§4.3) is the usual source
// of a Merge, introduced directly into the physical tree — but a bound
// query that already unions several sources (e.g. a federated scan)
// can produce one.
type Merge struct{ naryBase }

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
func (m *Merge) Copy() Node {
	cp := *m
	cp.base = newBase(m.traits)
	return &cp
}
func (m *Merge) Equal(other Node) bool {
	o, ok := other.(*Merge)
	return ok && equalChildren(m.inputs, o.inputs)
}
func (m *Merge) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	children := make([]physical.Node, len(m.inputs))
	for i, in := range m.inputs {
		child, err := implementFirst(ctx, in)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return []physical.Node{physical.NewMerge(children)}, nil
}
func (m *Merge) String() string { return fmt.Sprintf("Merge(%d)", len(m.inputs)) }

// MergeLimitingSort merges several sibling subtrees, sorts the union, and
// keeps only the first Limit records.
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
func (m *MergeLimitingSort) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	children := make([]physical.Node, len(m.inputs))
	for i, in := range m.inputs {
		child, err := implementFirst(ctx, in)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return []physical.Node{physical.NewMergeLimitingSort(children, m.Order, m.Limit)}, nil
}
func (m *MergeLimitingSort) String() string {
	return fmt.Sprintf("MergeLimitingSort(%d, limit=%d)", len(m.inputs), m.Limit)
}
