package planner

import (
	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/physical"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// ApplyBooleanIndexScan runs Phase 3's mandatory physical rule (§4.3):
// wherever a Filter sits directly above an EntityScan, it is replaced by
// an IndexScan drawn from whichever matching index scores lowest under
// policy. Ties are broken in favour of the index whose own traits
// already satisfy the Order/Limit the immediate parent demands, so a
// partitioning pass downstream finds a stream it doesn't need to re-sort.
//
// This runs after Select chooses the cheapest of Implement's candidates,
// so it only ever fires on a Filter/EntityScan pair that candidate
// generation didn't already turn into an IndexScan branch — e.g. one
// produced by a rewrite rule or subquery branch rather than directly by
// plan.Filter.Implement.
func ApplyBooleanIndexScan(root physical.Node, policy cost.Policy, indexesFor func(e catalog.Entity) []catalog.Index) physical.Node {
	if indexesFor == nil {
		return root
	}
	return rewritePhysical(root, policy, indexesFor, trait.Set{})
}

func rewritePhysical(n physical.Node, policy cost.Policy, indexesFor func(e catalog.Entity) []catalog.Index, demand trait.Set) physical.Node {
	children := n.Inputs()
	if len(children) > 0 {
		newChildren := make([]physical.Node, len(children))
		changed := false
		for i, c := range children {
			nc := rewritePhysical(c, policy, indexesFor, n.Traits())
			newChildren[i] = nc
			if nc != c {
				changed = true
			}
		}
		if changed {
			n = n.SetInputs(newChildren)
		}
	}

	f, ok := n.(*physical.Filter)
	if !ok {
		return n
	}
	scan, ok := f.Inputs()[0].(*physical.EntityScan)
	if !ok {
		return n
	}

	var best catalog.Index
	bestCost := cost.Invalid
	for _, idx := range indexesFor(scan.Entity) {
		if !idx.CanProcess(f.Predicate) {
			continue
		}
		c := idx.Cost(f.Predicate)
		if c.IsInvalid() {
			continue
		}
		switch {
		case best == nil:
			best, bestCost = idx, c
		case policy.ToScore(c) < policy.ToScore(bestCost):
			best, bestCost = idx, c
		case policy.ToScore(c) == policy.ToScore(bestCost) &&
			satisfiesDemand(idx.TraitsFor(f.Predicate), demand) &&
			!satisfiesDemand(best.TraitsFor(f.Predicate), demand):
			best, bestCost = idx, c
		}
	}
	if best == nil {
		return n
	}
	cols := best.ColumnsFor(f.Predicate)
	return physical.NewIndexScan(best, f.Predicate, sql.NewColumnSet(cols...), f.OutputSize(), best.TraitsFor(f.Predicate))
}

// satisfiesDemand reports whether have's Order/Limit traits are
// compatible with what demand asks for; an empty demand is trivially
// satisfied.
func satisfiesDemand(have, demand trait.Set) bool {
	if d, ok := demand.Get(trait.Order); ok {
		o, ok2 := have.Get(trait.Order)
		if !ok2 || !o.(trait.OrderTrait).Satisfies(d.(trait.OrderTrait).Order) {
			return false
		}
	}
	if demand.Has(trait.Limit) && !have.Has(trait.Limit) {
		return false
	}
	return true
}
