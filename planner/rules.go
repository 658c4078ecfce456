package planner

import (
	"github.com/cottontaildb/queryengine/plan"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
)

// DeferFetchOnScan narrows an EntityScan to the columns consumed before
// the first downstream use of the rest. It fires at the first
// schema-narrowing node above a chain of zero or more Filters ending in
// an EntityScan: the scan is cut down to the columns the filter chain
// reads, the narrowing node's own columns are grafted back by a Fetch
// immediately below it, and columns nothing ever reads are dropped
// altogether. Filter itself never qualifies as the narrowing node — it
// forwards every column, so the demand it sees is not its own.
type DeferFetchOnScan struct{}

// filterChain walks Filter nodes from node's input down to an
// EntityScan, returning the chain (top to bottom) and the scan; ok=false
// when the shape below node is anything else.
func filterChain(node plan.Node) ([]*plan.Filter, *plan.EntityScan, bool) {
	ins := node.Inputs()
	if len(ins) != 1 {
		return nil, nil, false
	}
	var chain []*plan.Filter
	cur := ins[0]
	for {
		switch n := cur.(type) {
		case *plan.EntityScan:
			return chain, n, true
		case *plan.Filter:
			chain = append(chain, n)
			cur = n.Inputs()[0]
		default:
			return nil, nil, false
		}
	}
}

func filterChainNeeds(chain []*plan.Filter) sql.ColumnSet {
	needs := sql.ColumnSet{}
	for _, f := range chain {
		needs = needs.Union(f.Predicate.Columns())
	}
	return needs
}

func (DeferFetchOnScan) CanApply(node plan.Node, ctx *RewriteContext) bool {
	switch node.(type) {
	case *plan.Fetch, *plan.Filter:
		return false
	}
	chain, scan, ok := filterChain(node)
	if !ok {
		return false
	}
	needed := filterChainNeeds(chain).Union(node.Requires()).Intersect(scan.Cols)
	return needed.Len() > 0 && needed.Len() < scan.Cols.Len()
}

func (DeferFetchOnScan) Apply(node plan.Node, ctx *RewriteContext) (plan.Node, error) {
	chain, scan, _ := filterChain(node)
	filterCols := filterChainNeeds(chain).Intersect(scan.Cols)
	required := node.Requires().Intersect(scan.Cols)

	// The scan reads exactly what the filter chain consumes; with no
	// chain it reads the narrowing node's own demand and there is
	// nothing left to defer.
	scanCols := filterCols
	if len(chain) == 0 {
		scanCols = required
	}
	rebuilt := plan.Node(plan.NewEntityScan(scan.Entity, scanCols, scan.Rows))
	for i := len(chain) - 1; i >= 0; i-- {
		rebuilt = chain[i].SetInputs([]plan.Node{rebuilt})
	}
	if deferred := required.Minus(scanCols); deferred.Len() > 0 {
		rebuilt = plan.NewFetch(rebuilt, scan.Entity, deferred)
	}
	return node.SetInputs([]plan.Node{rebuilt}), nil
}

// DeferFetchOnFetch moves an existing Fetch further downstream past any
// single-input consumer that does not need the fetched columns,
// repeating across successive fixed-point passes until the Fetch sits
// immediately below the first node that actually needs its columns. A
// consumer that also projects the fetched columns out of its own output
// eliminates the Fetch entirely rather than carrying it past.
type DeferFetchOnFetch struct{}

func (DeferFetchOnFetch) CanApply(node plan.Node, ctx *RewriteContext) bool {
	ins := node.Inputs()
	if len(ins) != 1 {
		return false
	}
	f, ok := ins[0].(*plan.Fetch)
	if !ok {
		return false
	}
	if _, isFetch := node.(*plan.Fetch); isFetch {
		return false
	}
	return node.Requires().Intersect(f.Add).Len() == 0
}

func (DeferFetchOnFetch) Apply(node plan.Node, ctx *RewriteContext) (plan.Node, error) {
	f := node.Inputs()[0].(*plan.Fetch)
	moved := node.SetInputs([]plan.Node{f.Inputs()[0]})
	if node.Columns().Intersect(f.Add).Len() == 0 {
		// The consumer narrows the schema past the fetched columns, so
		// nothing downstream can ever see them: the Fetch is dead and is
		// eliminated instead of moved.
		return moved, nil
	}
	return plan.NewFetch(moved, f.Entity, f.Add), nil
}

// LeftConjunctionRewrite splits Filter(A AND B) into Filter(B, Filter(A,
// input)): A is evaluated first (closer to the source), enabling it to be
// pushed down and matched against an index independently of B. The
// combined selectivity estimate is kept entirely on the outer filter so
// the pair's total OutputSize() still matches the original single
// Filter's estimate; the inner filter's own estimate is left as a
// pass-through.
//
// Trying both split orderings and costing each would need a memo-style
// plan space the fixed-point single-tree rewriter here doesn't maintain,
// so Left/RightConjunctionRewrite instead alternate deterministically by
// ctx.conjunctionSplits' parity: the first conjunction a Rewrite pass
// encounters splits A-first, the next B-first, and so on. Both rules are
// registered in DefaultRewriteRules; exactly one of the pair ever matches
// a given conjunction.
type LeftConjunctionRewrite struct{}

func (LeftConjunctionRewrite) CanApply(node plan.Node, ctx *RewriteContext) bool {
	f, ok := node.(*plan.Filter)
	if !ok {
		return false
	}
	_, isConj := f.Predicate.(predicate.Conjunction)
	return isConj && ctx.conjunctionSplits%2 == 0
}

func (LeftConjunctionRewrite) Apply(node plan.Node, ctx *RewriteContext) (plan.Node, error) {
	f := node.(*plan.Filter)
	conj := f.Predicate.(predicate.Conjunction)
	ctx.conjunctionSplits++
	inner := plan.NewFilter(f.Inputs()[0], conj.Left, nil)
	outer := plan.NewFilter(inner, conj.Right, f.Selectivity)
	return outer, nil
}

// RightConjunctionRewrite is LeftConjunctionRewrite's mirror, evaluating
// B first; see LeftConjunctionRewrite's doc comment for how the pair
// alternates.
type RightConjunctionRewrite struct{}

func (RightConjunctionRewrite) CanApply(node plan.Node, ctx *RewriteContext) bool {
	f, ok := node.(*plan.Filter)
	if !ok {
		return false
	}
	_, isConj := f.Predicate.(predicate.Conjunction)
	return isConj && ctx.conjunctionSplits%2 == 1
}

func (RightConjunctionRewrite) Apply(node plan.Node, ctx *RewriteContext) (plan.Node, error) {
	f := node.(*plan.Filter)
	conj := f.Predicate.(predicate.Conjunction)
	ctx.conjunctionSplits++
	inner := plan.NewFilter(f.Inputs()[0], conj.Right, nil)
	outer := plan.NewFilter(inner, conj.Left, f.Selectivity)
	return outer, nil
}

// CountPushdown replaces Count(EntityScan) — Count as the only projection
// directly above an unfiltered scan — with MetaCount, answered from the
// entity's own row-count bookkeeping instead of a materialised scan.
type CountPushdown struct{}

func (CountPushdown) CanApply(node plan.Node, ctx *RewriteContext) bool {
	c, ok := node.(*plan.Count)
	if !ok {
		return false
	}
	_, ok = c.Inputs()[0].(*plan.EntityScan)
	return ok
}

func (CountPushdown) Apply(node plan.Node, ctx *RewriteContext) (plan.Node, error) {
	c := node.(*plan.Count)
	scan := c.Inputs()[0].(*plan.EntityScan)
	return plan.NewMetaCount(scan.Entity), nil
}
