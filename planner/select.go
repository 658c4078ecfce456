package planner

import (
	"fmt"

	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/physical"
)

// Select picks the minimum-cost candidate from Implement's output, scored
// under policy. Ties keep the first (candidate order is deterministic:
// the node's own Implement order, then child-combination order).
func Select(candidates []physical.Node, policy cost.Policy) (physical.Node, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("planner: no physical candidate to select from")
	}
	best := candidates[0]
	bestScore := policy.ToScore(physical.TotalCost(best))
	for _, c := range candidates[1:] {
		s := policy.ToScore(physical.TotalCost(c))
		if s < bestScore {
			best, bestScore = c, s
		}
	}
	return best, nil
}
