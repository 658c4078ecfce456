package planner

import "github.com/cottontaildb/queryengine/plan"

// DefaultRewriteRules is the required rule set for this core (§4.3 Phase
// 1), applied in this priority order at every node.
func DefaultRewriteRules() []RewriteRule {
	return []RewriteRule{
		CountPushdown{},
		DeferFetchOnFetch{},
		DeferFetchOnScan{},
		LeftConjunctionRewrite{},
		RightConjunctionRewrite{},
	}
}

// Rewrite runs the bottom-up, fixed-point traversal: it repeats full
// passes over the tree, applying the first matching rule at each node,
// until one complete pass produces no change.
func Rewrite(root plan.Node, rules []RewriteRule) (plan.Node, error) {
	ctx := &RewriteContext{}
	for {
		next, changed, err := rewritePass(root, rules, ctx)
		if err != nil {
			return nil, err
		}
		if !changed {
			return next, nil
		}
		root = next
	}
}

func rewritePass(n plan.Node, rules []RewriteRule, ctx *RewriteContext) (plan.Node, bool, error) {
	children := n.Inputs()
	changed := false
	if len(children) > 0 {
		newChildren := make([]plan.Node, len(children))
		for i, c := range children {
			nc, ch, err := rewritePass(c, rules, ctx)
			if err != nil {
				return nil, false, err
			}
			newChildren[i] = nc
			if ch {
				changed = true
			}
		}
		if changed {
			n = n.SetInputs(newChildren)
		}
	}
	for _, r := range rules {
		if !r.CanApply(n, ctx) {
			continue
		}
		rewritten, err := r.Apply(n, ctx)
		if err != nil {
			return nil, false, err
		}
		if rewritten != nil {
			return rewritten, true, nil
		}
	}
	return n, changed, nil
}
