package planner

import (
	"math"

	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/physical"
	"github.com/cottontaildb/queryengine/trait"
)

// Partition runs the planner's partitioning pass over the selected
// physical tree. Calling Partition on a physical node recurses down
// through every unary/binary operator's own Partition method to the
// source at the bottom, so one decision at the root is enough: either
// the whole pipeline is worth splitting into EstimateWorkers siblings, or
// it isn't.
//
// The merge introduced above the siblings depends on what the root's own
// traits promise downstream: both an Order and a Limit need
// MergeLimitingSort (merge, re-sort, truncate); a Limit alone needs only
// Limit(Merge(...)); an Order alone falls back to the same
// MergeLimitingSort machinery with an effectively unbounded limit, since
// this core has no separate sort-preserving streaming merge operator
// (see rowexec.MergeOperator's doc); neither trait needs only Merge.
func Partition(root physical.Node, policy cost.Policy) physical.Node {
	if !root.Partitionable() {
		return root
	}
	total := physical.TotalCost(root)
	p := policy.EstimateWorkers(total, total)
	if p <= 1 {
		return root
	}

	siblings := make([]physical.Node, p)
	for i := 0; i < p; i++ {
		siblings[i] = root.Partition(p, i)
	}

	order, hasOrder := root.Traits().Get(trait.Order)
	limit, hasLimit := root.Traits().Get(trait.Limit)
	switch {
	case hasOrder && hasLimit:
		return physical.NewMergeLimitingSort(siblings, order.(trait.OrderTrait).Order, limit.(trait.LimitTrait).Limit)
	case hasLimit:
		return physical.NewLimit(physical.NewMerge(siblings), limit.(trait.LimitTrait).Limit)
	case hasOrder:
		return physical.NewMergeLimitingSort(siblings, order.(trait.OrderTrait).Order, math.MaxInt64)
	default:
		return physical.NewMerge(siblings)
	}
}
