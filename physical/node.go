// Package physical is the physical half of the two parallel operator
// trees (§4.1): each node carries a Cost estimate and a Trait set in
// addition to the shape every logical node has, and knows how to convert
// itself into a streaming rowexec.Operator.
package physical

import (
	"fmt"

	"github.com/cottontaildb/queryengine/binding"
	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/rowexec"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// ExecContext carries what ToOperator needs to build a live rowexec
// operator: the query Context and the BindingContext every Binding in the
// tree must already be connected to.
type ExecContext struct {
	Query   *sql.Context
	Binding *binding.Context
	// Partition is non-nil when converting one sibling of a partitioned
	// subtree; Index/Total identify which slice of the tuple space this
	// copy owns.
	Partition *Partition
}

// Partition identifies one sibling of a partitioned subtree.
type Partition struct {
	Index int
	Total int
}

// Node is the shared contract of every physical operator node.
type Node interface {
	fmt.Stringer

	Arity() sql.Arity
	GroupID() sql.GroupId
	Columns() sql.ColumnSet
	PhysicalColumns() sql.ColumnSet
	Requires() sql.ColumnSet
	Inputs() []Node
	SetInputs(inputs []Node) Node
	Copy() Node
	Equal(other Node) bool
	Traits() trait.Set

	OutputSize() int64
	// Cost is this node's own contribution, excluding its inputs.
	Cost() cost.Cost
	// Partitionable reports whether the planner may legally call
	// Partition on this node: false whenever Traits() carries
	// NotPartitionableTrait.
	Partitionable() bool
	// Partition returns the sibling copy for partition `index` of
	// `total`. Sources and Fetch return a copy with a fresh GroupId;
	// Filter, Select, Function, NestedFunction and Sort return a copy
	// over their partitioned input that keeps their own GroupId; the
	// remaining nodes return themselves.
	Partition(total, index int) Node

	ToOperator(ctx *ExecContext) (rowexec.Operator, error)
}

// TotalCost sums a node's own Cost with the TotalCost of every input,
// recursively — the property exercised by the cost-monotonicity test.
func TotalCost(n Node) cost.Cost {
	total := n.Cost()
	for _, in := range n.Inputs() {
		total = total.Add(TotalCost(in))
	}
	return total
}

// base carries the fields shared by every concrete physical node
// regardless of arity: its group identity and trait set. Arity-specific
// embeddable bases below add the input-slice shape on top of it.
type base struct {
	group  sql.GroupId
	traits trait.Set
}

func newBase(traits trait.Set) base {
	return base{group: sql.NewGroupId(), traits: traits}
}

func (b base) GroupID() sql.GroupId { return b.group }
func (b base) Traits() trait.Set    { return b.traits }

func (b base) Partitionable() bool {
	return !b.traits.Has(trait.NotPartitionable)
}

// nullaryBase is embedded by source nodes (no inputs).
type nullaryBase struct{ base }

func (nullaryBase) Arity() sql.Arity { return sql.Nullary }
func (nullaryBase) Inputs() []Node   { return nil }

// unaryBase is embedded by single-input nodes.
type unaryBase struct {
	base
	input Node
}

func (unaryBase) Arity() sql.Arity     { return sql.Unary }
func (u unaryBase) Inputs() []Node     { return []Node{u.input} }

// naryBase is embedded by multi-input nodes (merges, filter-on-subselect).
type naryBase struct {
	base
	inputs []Node
}

func (naryBase) Arity() sql.Arity  { return sql.NAry }
func (n naryBase) Inputs() []Node  { return n.inputs }

// equalChildren reports whether two nodes' input lists are pairwise equal,
// the recursive half of arity-specific structural equality (§4.1).
func equalChildren(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
