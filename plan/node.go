// Package plan is the logical half of the two parallel operator trees
// (§4.1): nodes carry no Cost or executable shape of their own — only the
// schema-level bookkeeping (columns/requires/traits) and an Implement
// step turning one logical node into one or more candidate physical
// nodes. A Filter directly above a scan implements to both a plain
// physical Filter and, for every index reporting CanProcess, an
// additional IndexScan candidate; the planner scores all of them.
package plan

import (
	"fmt"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/physical"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// ImplementContext carries what Implement needs: the catalogue's indexes
// for the entity a source reads from.
type ImplementContext struct {
	// Indexes available for the entity a Filter's scan reads from, keyed
	// by the entity itself so a Filter not directly above a scan (e.g.
	// above a Fetch) simply finds none and skips the IndexScan branch.
	IndexesFor func(e catalog.Entity) []catalog.Index
}

// Node is the shared contract of every logical operator node.
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

	// Implement converts this node into one or more equally-correct
	// physical candidates (plural only when an index branch applies);
	// the planner scores every candidate under the active CostPolicy.
	Implement(ctx *ImplementContext) ([]physical.Node, error)
}

type base struct {
	group  sql.GroupId
	traits trait.Set
}

func newBase(traits trait.Set) base {
	return base{group: sql.NewGroupId(), traits: traits}
}

func (b base) GroupID() sql.GroupId { return b.group }
func (b base) Traits() trait.Set    { return b.traits }

type nullaryBase struct{ base }

func (nullaryBase) Arity() sql.Arity { return sql.Nullary }
func (nullaryBase) Inputs() []Node   { return nil }

type unaryBase struct {
	base
	input Node
}

func (unaryBase) Arity() sql.Arity { return sql.Unary }
func (u unaryBase) Inputs() []Node { return []Node{u.input} }

type naryBase struct {
	base
	inputs []Node
}

func (naryBase) Arity() sql.Arity { return sql.NAry }
func (n naryBase) Inputs() []Node { return n.inputs }

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

// implementFirst runs Implement on one input and picks that input's
// first candidate — the planner proper explores the full
// cross-product during its own combination step; a node's own Implement
// only needs one representative physical child to build a structurally
// valid candidate subtree for cost estimation before the planner's
// enumeration pass substitutes in alternatives.
func implementFirst(ctx *ImplementContext, n Node) (physical.Node, error) {
	cands, err := n.Implement(ctx)
	if err != nil {
		return nil, err
	}
	if len(cands) == 0 {
		return nil, fmt.Errorf("plan: %s produced no physical candidate", n)
	}
	return cands[0], nil
}
