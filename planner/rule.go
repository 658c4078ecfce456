// Package planner implements the three-phase planning pipeline (§4.3):
// rewrite logical trees to a fixed point, implement logical nodes into
// physical candidates, refine the physical tree, partition what can be
// partitioned, and select the minimum-cost candidate — caching the
// result by the logical tree's structural digest.
package planner

import "github.com/cottontaildb/queryengine/plan"

// RewriteContext carries whatever a RewriteRule needs to decide or build
// its replacement across a single Rewrite call. conjunctionSplits lets
// Left/RightConjunctionRewrite alternate deterministically instead of one
// permanently shadowing the other (see rules.go).
type RewriteContext struct {
	conjunctionSplits int
}

// RewriteRule is one logical-to-logical rewrite (§4.3 Phase 1).
type RewriteRule interface {
	CanApply(node plan.Node, ctx *RewriteContext) bool
	Apply(node plan.Node, ctx *RewriteContext) (plan.Node, error)
}
