package planner

import (
	"github.com/cottontaildb/queryengine/physical"
	"github.com/cottontaildb/queryengine/plan"
)

// maxCandidatesPerNode bounds the cross-product explored at any one
// node. A handful of index candidates at a handful of filters is the
// realistic case (§8's index-scan-preference property); this just keeps
// a pathological tree from exploding the search.
const maxCandidatesPerNode = 64

// Implement runs Phase 2 (§4.3) over a rewritten logical tree: every node
// converts itself via plan.Node.Implement, and — where a node has more
// than one input candidate (today, only a Filter directly above an
// EntityScan does) — this layer builds the cross-product of own
// candidates x child candidate combinations, so Select (phase below) can
// genuinely compare an IndexScan against a Filter rather than only ever
// seeing the first candidate a child happened to produce.
func Implement(ctx *plan.ImplementContext, root plan.Node) ([]physical.Node, error) {
	children := root.Inputs()
	childCandidates := make([][]physical.Node, len(children))
	for i, c := range children {
		cc, err := Implement(ctx, c)
		if err != nil {
			return nil, err
		}
		childCandidates[i] = cc
	}

	own, err := root.Implement(ctx)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return own, nil
	}

	onlyTrivial := true
	for _, cc := range childCandidates {
		if len(cc) > 1 {
			onlyTrivial = false
			break
		}
	}
	if onlyTrivial {
		return own, nil
	}

	results := make([]physical.Node, 0, len(own))
	results = append(results, own...)
	for _, template := range own {
		for _, combo := range cartesian(childCandidates) {
			if len(results) >= maxCandidatesPerNode {
				return results, nil
			}
			results = append(results, template.SetInputs(combo))
		}
	}
	return results, nil
}

// cartesian enumerates every combination of one element per slice in
// lists, in order.
func cartesian(lists [][]physical.Node) [][]physical.Node {
	if len(lists) == 0 {
		return nil
	}
	combos := [][]physical.Node{{}}
	for _, list := range lists {
		if len(list) == 0 {
			continue
		}
		next := make([][]physical.Node, 0, len(combos)*len(list))
		for _, c := range combos {
			for _, n := range list {
				row := make([]physical.Node, len(c), len(c)+1)
				copy(row, c)
				next = append(next, append(row, n))
			}
		}
		combos = next
	}
	return combos
}
